// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package docframe

import (
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
)

// Node is a frame: one value inside a document.
type Node struct {
	// Value is a map[string]any, []any or scalar.
	Value any

	// Path locates the value from the document root; "" for the root.
	Path string

	// Doc names the document the node came from.
	Doc string
}

// NewRoot wraps a decoded document as its root node.
func NewRoot(name string, value any) *Node {
	return &Node{Value: normalize(value), Doc: name}
}

// IsContainer reports whether the node has children.
func (n *Node) IsContainer() bool {
	switch n.Value.(type) {
	case map[string]any, []any:
		return true
	}
	return false
}

// Keys returns child selectors: sorted mapping keys or "[i]" list indices.
func (n *Node) Keys() ([]string, error) {
	switch v := n.Value.(type) {
	case map[string]any:
		keys := make([]string, 0, len(v))
		for k := range v {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		return keys, nil
	case []any:
		keys := make([]string, len(v))
		for i := range v {
			keys[i] = "[" + strconv.Itoa(i) + "]"
		}
		return keys, nil
	default:
		return nil, &TypeError{Path: n.Describe(), Want: "mapping or list", Got: kindOf(n.Value)}
	}
}

// Describe returns the node path, or the document name for the root.
func (n *Node) Describe() string {
	if n.Path == "" {
		return n.Doc
	}
	return n.Path
}

// String renders scalars bare and containers as compact JSON.
func (n *Node) String() string {
	switch v := n.Value.(type) {
	case nil:
		return "null"
	case string:
		return v
	case map[string]any, []any:
		data, err := json.Marshal(v)
		if err != nil {
			return fmt.Sprint(v)
		}
		return string(data)
	default:
		return fmt.Sprint(v)
	}
}

// Inspect renders the node for display: strings quoted, everything else as
// String does.
func (n *Node) Inspect() string {
	if s, ok := n.Value.(string); ok {
		return strconv.Quote(s)
	}
	return n.String()
}

func (n *Node) key(k string) (*Node, error) {
	m, ok := n.Value.(map[string]any)
	if !ok {
		return nil, &TypeError{Path: n.Describe(), Want: "mapping", Got: kindOf(n.Value)}
	}
	v, ok := m[k]
	if !ok {
		return nil, &UndefinedError{Name: k, Path: n.Describe()}
	}
	return &Node{Value: v, Path: joinKey(n.Path, k), Doc: n.Doc}, nil
}

func (n *Node) index(i int) (*Node, error) {
	list, ok := n.Value.([]any)
	if !ok {
		return nil, &TypeError{Path: n.Describe(), Want: "list", Got: kindOf(n.Value)}
	}
	if i < 0 {
		i += len(list)
	}
	if i < 0 || i >= len(list) {
		return nil, &IndexError{Index: i, Len: len(list), Path: n.Describe()}
	}
	return &Node{Value: list[i], Path: n.Path + "[" + strconv.Itoa(i) + "]", Doc: n.Doc}, nil
}

func (n *Node) set(s step, v any) error {
	switch s.kind {
	case stepKey:
		m, ok := n.Value.(map[string]any)
		if !ok {
			return &TypeError{Path: n.Describe(), Want: "mapping", Got: kindOf(n.Value)}
		}
		m[s.key] = v
	case stepIndex:
		list, ok := n.Value.([]any)
		if !ok {
			return &TypeError{Path: n.Describe(), Want: "list", Got: kindOf(n.Value)}
		}
		i := s.index
		if i < 0 {
			i += len(list)
		}
		if i < 0 || i >= len(list) {
			return &IndexError{Index: s.index, Len: len(list), Path: n.Describe()}
		}
		list[i] = v
	}
	return nil
}

func joinKey(path, key string) string {
	if !isIdent(key) {
		return path + "[" + strconv.Quote(key) + "]"
	}
	if path == "" {
		return key
	}
	return path + "." + key
}

func kindOf(v any) string {
	switch v.(type) {
	case nil:
		return "null"
	case map[string]any:
		return "mapping"
	case []any:
		return "list"
	case string:
		return "string"
	case bool:
		return "bool"
	case int, int64, uint64, float64:
		return "number"
	default:
		return fmt.Sprintf("%T", v)
	}
}

// normalize converts decoder output to map[string]any / []any trees.
func normalize(v any) any {
	switch t := v.(type) {
	case map[string]any:
		for k, e := range t {
			t[k] = normalize(e)
		}
		return t
	case map[any]any:
		m := make(map[string]any, len(t))
		for k, e := range t {
			m[fmt.Sprint(k)] = normalize(e)
		}
		return m
	case []any:
		for i, e := range t {
			t[i] = normalize(e)
		}
		return t
	case []map[string]any:
		list := make([]any, len(t))
		for i, e := range t {
			list[i] = normalize(e)
		}
		return list
	case json.Number:
		if i, err := t.Int64(); err == nil {
			return i
		}
		f, _ := t.Float64()
		return f
	case int:
		return int64(t)
	default:
		return v
	}
}

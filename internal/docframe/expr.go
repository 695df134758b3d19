// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package docframe

import (
	"errors"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// =============================================================================
// SELECTOR CHAINS
// =============================================================================

type stepKind int

const (
	stepKey stepKind = iota
	stepIndex
)

type step struct {
	kind  stepKind
	key   string
	index int
}

// parseChain parses "self", "@a", "a.b[0]", `["x y"].z` and similar. A
// leading "self" contributes no step.
func parseChain(expr string) ([]step, bool) {
	if expr == "" {
		return nil, false
	}
	var steps []step
	i := 0

	switch c := expr[0]; {
	case c == '@':
		id, n := readIdent(expr[1:])
		if n == 0 {
			return nil, false
		}
		steps = append(steps, step{kind: stepKey, key: id})
		i = 1 + n
	case isIdentStart(c):
		id, n := readIdent(expr)
		if id != "self" {
			steps = append(steps, step{kind: stepKey, key: id})
		}
		i = n
	case c == '[':
		s, n, ok := readBracket(expr)
		if !ok {
			return nil, false
		}
		steps = append(steps, s)
		i = n
	default:
		return nil, false
	}

	for i < len(expr) {
		switch expr[i] {
		case '.':
			id, n := readIdent(expr[i+1:])
			if n == 0 {
				return nil, false
			}
			steps = append(steps, step{kind: stepKey, key: id})
			i += 1 + n
		case '[':
			s, n, ok := readBracket(expr[i:])
			if !ok {
				return nil, false
			}
			steps = append(steps, s)
			i += n
		default:
			return nil, false
		}
	}
	return steps, true
}

func readIdent(s string) (string, int) {
	if s == "" || !isIdentStart(s[0]) {
		return "", 0
	}
	n := 1
	for n < len(s) && isIdentPart(s[n]) {
		n++
	}
	return s[:n], n
}

// readBracket parses "[n]", `["key"]` or "['key']" at the start of s.
func readBracket(s string) (step, int, bool) {
	end := strings.IndexByte(s, ']')
	if end < 0 {
		return step{}, 0, false
	}
	inner := strings.TrimSpace(s[1:end])
	if inner == "" {
		return step{}, 0, false
	}

	switch inner[0] {
	case '"':
		// A quoted key may itself contain ']'.
		closing := closingQuote(s, strings.IndexByte(s, '"'))
		if closing < 0 {
			return step{}, 0, false
		}
		key, err := strconv.Unquote(s[strings.IndexByte(s, '"') : closing+1])
		if err != nil {
			return step{}, 0, false
		}
		rest := strings.TrimLeft(s[closing+1:], " ")
		if !strings.HasPrefix(rest, "]") {
			return step{}, 0, false
		}
		return step{kind: stepKey, key: key}, len(s) - len(rest) + 1, true
	case '\'':
		open := strings.IndexByte(s, '\'')
		closing := strings.IndexByte(s[open+1:], '\'')
		if closing < 0 {
			return step{}, 0, false
		}
		closing += open + 1
		rest := strings.TrimLeft(s[closing+1:], " ")
		if !strings.HasPrefix(rest, "]") {
			return step{}, 0, false
		}
		return step{kind: stepKey, key: s[open+1 : closing]}, len(s) - len(rest) + 1, true
	}

	i, err := strconv.Atoi(inner)
	if err != nil {
		return step{}, 0, false
	}
	return step{kind: stepIndex, index: i}, end + 1, true
}

func closingQuote(s string, open int) int {
	for i := open + 1; i < len(s); i++ {
		switch s[i] {
		case '\\':
			i++
		case '"':
			return i
		}
	}
	return -1
}

func isIdentStart(c byte) bool {
	return c == '_' || c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z'
}

func isIdentPart(c byte) bool {
	return isIdentStart(c) || c == '-' || c >= '0' && c <= '9'
}

func isIdent(s string) bool {
	id, n := readIdent(s)
	return n == len(s) && id != ""
}

// =============================================================================
// ASSIGNMENT
// =============================================================================

// splitAssignment finds a top-level "=" outside quotes and brackets.
func splitAssignment(expr string) (lhs, rhs string, ok bool) {
	var quote byte
	depth := 0
	for i := 0; i < len(expr); i++ {
		c := expr[i]
		if quote != 0 {
			if c == '\\' && quote == '"' {
				i++
			} else if c == quote {
				quote = 0
			}
			continue
		}
		switch c {
		case '"', '\'':
			quote = c
		case '[', '{':
			depth++
		case ']', '}':
			depth--
		case '=':
			if depth != 0 || i+1 < len(expr) && expr[i+1] == '=' {
				continue
			}
			if i > 0 && strings.IndexByte("=!<>", expr[i-1]) >= 0 {
				continue
			}
			return strings.TrimSpace(expr[:i]), strings.TrimSpace(expr[i+1:]), true
		}
	}
	return "", "", false
}

// =============================================================================
// LITERALS
// =============================================================================

var keywords = map[string]bool{
	"true": true, "false": true, "null": true, "nil": true,
}

// looksLiteral reports whether expr should be read as a YAML flow literal.
func looksLiteral(expr string) bool {
	if expr == "" {
		return false
	}
	if keywords[expr] || expr == "~" {
		return true
	}
	switch c := expr[0]; {
	case c >= '0' && c <= '9':
		return true
	case strings.IndexByte(`-+."'[{`, c) >= 0:
		return true
	}
	return false
}

func parseLiteral(expr string) (any, error) {
	if expr == "nil" {
		return nil, nil
	}
	var v any
	if err := yaml.Unmarshal([]byte(expr), &v); err != nil {
		return nil, &SyntaxError{Expr: expr, Err: err}
	}
	if v == nil && expr != "null" && expr != "~" {
		return nil, &SyntaxError{Expr: expr, Err: errors.New("empty literal")}
	}
	return normalize(v), nil
}

// deepCopy clones containers so an assigned value is not shared.
func deepCopy(v any) any {
	switch t := v.(type) {
	case map[string]any:
		m := make(map[string]any, len(t))
		for k, e := range t {
			m[k] = deepCopy(e)
		}
		return m
	case []any:
		list := make([]any, len(t))
		for i, e := range t {
			list[i] = deepCopy(e)
		}
		return list
	default:
		return v
	}
}

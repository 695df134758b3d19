// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package docframe

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"
)

// Format is a document encoding.
type Format int

const (
	FormatJSON Format = iota
	FormatYAML
	FormatTOML
)

func (f Format) String() string {
	switch f {
	case FormatJSON:
		return "json"
	case FormatYAML:
		return "yaml"
	case FormatTOML:
		return "toml"
	default:
		return "unknown"
	}
}

// FormatFromPath picks a format by file extension.
func FormatFromPath(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return FormatJSON, nil
	case ".yaml", ".yml":
		return FormatYAML, nil
	case ".toml":
		return FormatTOML, nil
	default:
		return 0, fmt.Errorf("unsupported document type %q", filepath.Ext(path))
	}
}

// Decode parses data as a document. An empty document is an empty mapping.
func Decode(data []byte, format Format) (any, error) {
	var v any
	switch format {
	case FormatJSON:
		if len(bytes.TrimSpace(data)) == 0 {
			break
		}
		dec := json.NewDecoder(bytes.NewReader(data))
		dec.UseNumber()
		if err := dec.Decode(&v); err != nil {
			return nil, fmt.Errorf("decode json: %w", err)
		}
	case FormatYAML:
		if err := yaml.Unmarshal(data, &v); err != nil {
			return nil, fmt.Errorf("decode yaml: %w", err)
		}
	case FormatTOML:
		m := make(map[string]any)
		if err := toml.Unmarshal(data, &m); err != nil {
			return nil, fmt.Errorf("decode toml: %w", err)
		}
		v = m
	default:
		return nil, fmt.Errorf("unsupported format %v", format)
	}
	if v == nil {
		v = make(map[string]any)
	}
	return normalize(v), nil
}

// Load reads a document file and returns its root node, named after the
// file.
func Load(path string) (*Node, error) {
	format, err := FormatFromPath(path)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read document: %w", err)
	}
	v, err := Decode(data, format)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	name := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	return NewRoot(name, v), nil
}

// Empty returns a root node holding an empty mapping.
func Empty(name string) *Node {
	return NewRoot(name, make(map[string]any))
}

// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package navigation

import (
	"strings"
)

// =============================================================================
// PATH STEPS
// =============================================================================

// StepKind tags a parsed path segment.
type StepKind int

const (
	StepExpression  StepKind = iota // Evaluate against the current top frame
	StepParent                      // ..
	StepToggleSaved                 // - (only as the whole path)
	StepRoot                        // leading / or empty path
	StepToplevel                    // ::
)

func (k StepKind) String() string {
	switch k {
	case StepExpression:
		return "expression"
	case StepParent:
		return "parent"
	case StepToggleSaved:
		return "toggle"
	case StepRoot:
		return "root"
	case StepToplevel:
		return "toplevel"
	default:
		return "unknown"
	}
}

// PathStep is one segment of a navigation path.
type PathStep struct {
	Kind StepKind
	Expr string // set for StepExpression
}

func (p PathStep) String() string {
	switch p.Kind {
	case StepExpression:
		return p.Expr
	case StepParent:
		return ".."
	case StepToggleSaved:
		return "-"
	case StepRoot:
		return "/"
	case StepToplevel:
		return "::"
	}
	return "?"
}

// =============================================================================
// PARSER
// =============================================================================

// ParsePath splits path into steps. It has no side effects.
//
// Segments are separated by '/' outside of quotes and brackets, so an
// expression such as (4/2) or h["a/b"] stays one step. Empty segments are
// dropped.
func ParsePath(path string) []PathStep {
	path = strings.TrimSpace(path)

	switch path {
	case "":
		return []PathStep{{Kind: StepRoot}}
	case "-":
		return []PathStep{{Kind: StepToggleSaved}}
	}

	var steps []PathStep
	if strings.HasPrefix(path, "/") {
		steps = append(steps, PathStep{Kind: StepRoot})
	}

	for _, seg := range splitSegments(path) {
		seg = strings.TrimSpace(seg)
		switch seg {
		case "":
			continue
		case "..":
			steps = append(steps, PathStep{Kind: StepParent})
		case "::":
			steps = append(steps, PathStep{Kind: StepToplevel})
		default:
			steps = append(steps, PathStep{Kind: StepExpression, Expr: seg})
		}
	}
	return steps
}

// splitSegments splits on '/' that are not nested in (), [], {} or a quoted
// string.
func splitSegments(path string) []string {
	var segs []string
	var quote byte
	depth := 0
	start := 0

	for i := 0; i < len(path); i++ {
		c := path[i]
		if quote != 0 {
			switch c {
			case '\\':
				i++
			case quote:
				quote = 0
			}
			continue
		}
		switch c {
		case '"', '\'':
			quote = c
		case '(', '[', '{':
			depth++
		case ')', ']', '}':
			if depth > 0 {
				depth--
			}
		case '/':
			if depth == 0 {
				segs = append(segs, path[start:i])
				start = i + 1
			}
		}
	}
	return append(segs, path[start:])
}

// FormatPath joins steps back into path syntax.
func FormatPath(steps []PathStep) string {
	var b strings.Builder
	for i, s := range steps {
		if s.Kind == StepRoot {
			b.WriteString("/")
			continue
		}
		if i > 0 && steps[i-1].Kind != StepRoot {
			b.WriteString("/")
		}
		b.WriteString(s.String())
	}
	return b.String()
}

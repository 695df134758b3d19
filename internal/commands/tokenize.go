// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package commands

import (
	"fmt"
	"strings"

	"github.com/kballard/go-shellquote"
)

// =============================================================================
// ARGUMENT TOKENIZING
// =============================================================================

// Tokenize splits argument text into arguments. With shellwords it follows
// POSIX shell quoting (single and double quotes, backslash escapes) and fails
// on an unterminated quote; otherwise it splits on runs of whitespace.
// No arguments yields a nil slice.
func Tokenize(argString string, shellwords bool) ([]string, error) {
	var words []string
	if shellwords {
		var err error
		words, err = shellquote.Split(argString)
		if err != nil {
			return nil, fmt.Errorf("cannot split arguments: %w", err)
		}
	} else {
		words = strings.Fields(argString)
	}
	if len(words) == 0 {
		return nil, nil
	}
	return words, nil
}

// =============================================================================
// INTERPOLATION
// =============================================================================

// InterpolateFunc evaluates an embedded expression and returns its string
// form.
type InterpolateFunc func(expr string) (string, error)

// Interpolate replaces #{expr} regions in argString with eval(expr). When
// interpolate is false argString is returned unchanged.
//
// Quote state is tracked while scanning: regions inside single quotes are
// left alone, as are regions escaped as \#{ (the backslash is dropped).
// Double quotes do not suppress interpolation, and a single quote inside
// double quotes does not open a single-quoted region. Each region is
// evaluated exactly once, left to right. An unterminated #{ is kept as text.
func Interpolate(argString string, interpolate bool, eval InterpolateFunc) (string, error) {
	if !interpolate || !strings.Contains(argString, "#{") {
		return argString, nil
	}

	var b strings.Builder
	b.Grow(len(argString))
	var quote byte

	for i := 0; i < len(argString); i++ {
		c := argString[i]

		switch {
		case c == '\\' && quote != '\'' && i+1 < len(argString):
			if strings.HasPrefix(argString[i+1:], "#{") {
				b.WriteString("#{")
				i += 2
				continue
			}
			b.WriteByte(c)
			b.WriteByte(argString[i+1])
			i++
			continue

		case quote == 0 && (c == '\'' || c == '"'):
			quote = c

		case quote != 0 && c == quote:
			quote = 0

		case c == '#' && quote != '\'' && strings.HasPrefix(argString[i:], "#{"):
			end := closingBrace(argString, i+2)
			if end < 0 {
				b.WriteString(argString[i:])
				return b.String(), nil
			}
			if eval == nil {
				return "", fmt.Errorf("cannot interpolate %q: no evaluator", argString[i:end+1])
			}
			val, err := eval(argString[i+2 : end])
			if err != nil {
				return "", fmt.Errorf("interpolating %q: %w", argString[i:end+1], err)
			}
			b.WriteString(val)
			i = end
			continue
		}

		b.WriteByte(c)
	}
	return b.String(), nil
}

// closingBrace returns the index of the '}' closing a region whose body
// starts at start, or -1. Nested braces and quoted strings in the body are
// skipped.
func closingBrace(s string, start int) int {
	depth := 1
	var quote byte
	for i := start; i < len(s); i++ {
		c := s[i]
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
		case '\'', '"':
			quote = c
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return i
			}
		}
	}
	return -1
}

// =============================================================================
// BLOCK ARGUMENTS
// =============================================================================

// SplitBlock separates a trailing block argument from argString. A block is
// introduced by a '|' outside quotes and braces and is either "{ ... }" or
// "do ... end" running to the end of the text. The block is returned with
// its delimiters.
func SplitBlock(argString string) (rest, block string) {
	var quote byte
	depth := 0
	for i := 0; i < len(argString); i++ {
		c := argString[i]
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
		case '\'', '"':
			quote = c
		case '{':
			depth++
		case '}':
			if depth > 0 {
				depth--
			}
		case '|':
			if depth != 0 {
				continue
			}
			tail := strings.TrimSpace(argString[i+1:])
			if isBlock(tail) {
				return strings.TrimSpace(argString[:i]), tail
			}
		}
	}
	return argString, ""
}

func isBlock(s string) bool {
	if strings.HasPrefix(s, "{") && strings.HasSuffix(s, "}") {
		return closingBrace(s, 1) == len(s)-1
	}
	if len(s) >= len("do end") && strings.HasPrefix(s, "do") && strings.HasSuffix(s, "end") {
		next := s[2]
		return next == ' ' || next == '\t' || next == '\n' || next == '|'
	}
	return false
}

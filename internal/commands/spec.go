// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package commands

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

// =============================================================================
// COMMAND DEFINITION
// =============================================================================

// NameKind classifies how a command name is matched.
type NameKind int

const (
	NameLiteral   NameKind = iota // single word, e.g. "cd"
	NameMultiWord                 // literal containing spaces, e.g. "show doc"
	NamePattern                   // regular expression with capture groups
)

func (k NameKind) String() string {
	switch k {
	case NameLiteral:
		return "literal"
	case NameMultiWord:
		return "multi-word"
	case NamePattern:
		return "pattern"
	default:
		return "unknown"
	}
}

// Handler executes a command. A handler reports user-facing failures by
// returning a *CommandError; any other error is treated as a bug and passed
// to the session driver.
type Handler func(inv *Invocation) (any, error)

// Hook runs before or after a command's handler.
type Hook func(inv *Invocation) error

// Options tune how a command is matched and how its arguments are prepared.
type Options struct {
	// NoPrefix lets the command match with or without the global command
	// prefix. By default a command requires the prefix when one is set.
	NoPrefix bool

	// Shellwords splits arguments with shell quoting rules instead of on
	// whitespace.
	Shellwords bool

	// Interpolate evaluates #{...} regions in the argument string first.
	Interpolate bool

	// ArgumentRequired rejects the line when no argument text follows the
	// command name.
	ArgumentRequired bool

	// KeepReturnValue passes the handler's value back to the caller instead
	// of discarding it.
	KeepReturnValue bool

	// TakesBlock splits a trailing "| { ... }" or "| do ... end" segment off
	// the arguments into Invocation.Block.
	TakesBlock bool
}

// CommandSpec is a registered command definition.
type CommandSpec struct {
	// Name is the literal command name, or the pattern source when Pattern
	// is set. It is the registry key unless the command is a pattern with a
	// ListingName.
	Name string

	// Pattern makes this a pattern command. It is matched anchored at the
	// start of the line; its capture groups become Invocation.Captures.
	Pattern *regexp.Regexp

	// Description is shown in help listings.
	Description string

	// Usage shows argument syntax (e.g., "cd [path]").
	Usage string

	// Group categorizes the command in help.
	Group string

	// ListingName is the display name; required in practice for pattern
	// commands so help has something readable to show.
	ListingName string

	Options Options

	Handler Handler

	// CompleteArgs returns argument completions for the partial argument
	// text. Optional.
	CompleteArgs func(partial string) []string

	anchored *regexp.Regexp
	aliasOf  string
}

// Kind reports how the name is matched.
func (c *CommandSpec) Kind() NameKind {
	if c.Pattern != nil {
		return NamePattern
	}
	if strings.IndexFunc(c.Name, unicode.IsSpace) >= 0 {
		return NameMultiWord
	}
	return NameLiteral
}

// Key is the unique registry key.
func (c *CommandSpec) Key() string {
	if c.Pattern != nil && c.ListingName != "" {
		return c.ListingName
	}
	return c.Name
}

// DisplayName is the name shown to users.
func (c *CommandSpec) DisplayName() string {
	if c.ListingName != "" {
		return c.ListingName
	}
	return c.Name
}

// Identity names the command persistent state is kept under. Aliases created
// from a registered key share their original's identity.
func (c *CommandSpec) Identity() string {
	if c.aliasOf != "" {
		return c.aliasOf
	}
	return c.Key()
}

// IsAlias reports whether the command was created by Registry.Alias.
func (c *CommandSpec) IsAlias() bool {
	return c.aliasOf != ""
}

// UsesPrefix reports whether the command requires the global prefix.
func (c *CommandSpec) UsesPrefix() bool {
	return !c.Options.NoPrefix
}

// match tests text (already stripped of any prefix) against the name. It
// returns the match score, the end offset and any captures.
//
// Literal names must be followed by whitespace or end of text and score their
// length. Pattern names score the offset of the first capture, or the match
// end when there is no capture.
func (c *CommandSpec) match(text string) (score, end int, captures []string, ok bool) {
	if c.Pattern == nil {
		if !strings.HasPrefix(text, c.Name) {
			return 0, 0, nil, false
		}
		n := len(c.Name)
		if n < len(text) {
			if r, _ := utf8.DecodeRuneInString(text[n:]); !unicode.IsSpace(r) {
				return 0, 0, nil, false
			}
		}
		return n, n, nil, true
	}

	re := c.anchoredPattern()
	loc := re.FindStringSubmatchIndex(text)
	if loc == nil {
		return 0, 0, nil, false
	}
	end = loc[1]
	score = end
	groups := len(loc)/2 - 1
	if groups > 0 {
		captures = make([]string, groups)
		for g := 1; g <= groups; g++ {
			if loc[2*g] >= 0 {
				captures[g-1] = text[loc[2*g]:loc[2*g+1]]
			}
		}
		if loc[2] >= 0 {
			score = loc[2]
		}
	}
	return score, end, captures, true
}

func (c *CommandSpec) anchoredPattern() *regexp.Regexp {
	if c.anchored == nil {
		c.anchored = regexp.MustCompile(`^(?:` + c.Pattern.String() + `)`)
	}
	return c.anchored
}

// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package commands

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// =============================================================================
// MATCHER
// =============================================================================

// MatchResult describes the command a line names.
type MatchResult struct {
	// Spec is the selected command.
	Spec *CommandSpec

	// Captures holds pattern capture groups, in order. Groups that did not
	// participate are empty strings.
	Captures []string

	// End is the byte offset just past the consumed prefix and name (or the
	// whole pattern match). line[End:] is the argument text.
	End int

	// Score is the length of literal name text the match consumed.
	Score int
}

// Match decides whether line names a command in r and which one.
//
// When prefix is non-empty, commands that use the prefix only match lines
// starting with it; commands with NoPrefix match with or without it. Among
// all matching commands the one with the highest score wins, ties going to
// the earliest registered. A line starting with whitespace never names a
// command. ok=false means the line should be evaluated as an expression.
func Match(line string, r *Registry, prefix string) (MatchResult, bool) {
	if line == "" {
		return MatchResult{}, false
	}
	if first, _ := utf8.DecodeRuneInString(line); unicode.IsSpace(first) {
		return MatchResult{}, false
	}

	offset := 0
	if prefix != "" && strings.HasPrefix(line, prefix) {
		offset = len(prefix)
	}

	var best MatchResult
	found := false
	for _, spec := range r.All() {
		m, ok := matchSpec(spec, line, prefix, offset)
		if !ok {
			continue
		}
		if !found || m.Score > best.Score {
			best = m
			found = true
		}
	}
	return best, found
}

// matchSpec applies one command's effective pattern to line.
func matchSpec(spec *CommandSpec, line, prefix string, offset int) (MatchResult, bool) {
	if prefix != "" && offset == 0 && spec.UsesPrefix() {
		return MatchResult{}, false
	}

	score, end, captures, ok := spec.match(line[offset:])
	if !ok && offset > 0 && !spec.UsesPrefix() {
		// The prefix may be part of an unprefixed command's own name.
		offset = 0
		score, end, captures, ok = spec.match(line)
	}
	if !ok {
		return MatchResult{}, false
	}
	return MatchResult{
		Spec:     spec,
		Captures: captures,
		End:      offset + end,
		Score:    score,
	}, true
}

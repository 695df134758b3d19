// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package commands

import (
	"sort"
	"strings"
)

// =============================================================================
// COMPLETER
// =============================================================================

// Completion is one tab-completion candidate.
type Completion struct {
	Value       string // full replacement for the line
	Display     string
	Description string
	Score       int
}

// Completer offers tab completion for command names and, through each
// command's CompleteArgs, for their arguments.
type Completer struct {
	registry *Registry
	prefix   func() string
}

// NewCompleter creates a completer. prefix returns the current global
// command prefix and may be nil.
func NewCompleter(registry *Registry, prefix func() string) *Completer {
	if prefix == nil {
		prefix = func() string { return "" }
	}
	return &Completer{registry: registry, prefix: prefix}
}

// Complete returns replacement lines for the input typed so far.
func (c *Completer) Complete(line string) []string {
	comps := c.Completions(line)
	if len(comps) == 0 {
		return nil
	}
	out := make([]string, len(comps))
	for i, comp := range comps {
		out[i] = comp.Value
	}
	return out
}

// Completions returns ranked candidates for line.
func (c *Completer) Completions(line string) []Completion {
	if c.registry == nil || strings.TrimLeft(line, " \t") != line {
		return nil
	}

	// Argument completion once a full command has been typed.
	if m, ok := Match(line, c.registry, c.prefix()); ok && m.End < len(line) {
		spec := m.Spec
		if spec.CompleteArgs == nil {
			return nil
		}
		head := line[:m.End]
		rest := line[m.End:]
		trimmed := strings.TrimLeft(rest, " \t")
		head += rest[:len(rest)-len(trimmed)]

		// Complete the last word only.
		lead, partial := "", trimmed
		if i := strings.LastIndexAny(trimmed, " \t"); i >= 0 {
			lead, partial = trimmed[:i+1], trimmed[i+1:]
		}
		var comps []Completion
		for _, v := range spec.CompleteArgs(partial) {
			comps = append(comps, Completion{
				Value:   head + lead + v,
				Display: v,
				Score:   calculateScore(v, partial),
			})
		}
		sortCompletions(comps)
		return comps
	}

	return c.completeCommands(line)
}

// completeCommands completes a partially typed command name.
func (c *Completer) completeCommands(line string) []Completion {
	prefix := c.prefix()
	stripped := line
	hasPrefix := prefix != "" && strings.HasPrefix(line, prefix)
	if hasPrefix {
		stripped = line[len(prefix):]
	}

	var comps []Completion
	seen := make(map[string]bool)
	for _, spec := range c.registry.All() {
		name := spec.Name
		if spec.Kind() == NamePattern {
			// Only the listing name of a pattern command is typeable, and only
			// when it is itself a literal word.
			if spec.ListingName == "" || strings.ContainsAny(spec.ListingName, "()[]*+?\\|^$<> \t") {
				continue
			}
			name = spec.ListingName
		}

		var value string
		switch {
		case prefix == "" || !spec.UsesPrefix() && !hasPrefix:
			if !strings.HasPrefix(name, line) {
				continue
			}
			value = name
		case hasPrefix:
			if !strings.HasPrefix(name, stripped) {
				continue
			}
			value = prefix + name
		default:
			// A prefixed command; the user has typed part of the prefix.
			if !strings.HasPrefix(prefix+name, line) {
				continue
			}
			value = prefix + name
		}
		if seen[value] {
			continue
		}
		seen[value] = true

		score := calculateScore(name, stripped)
		if spec.IsAlias() {
			score -= 10
		}
		comps = append(comps, Completion{
			Value:       value,
			Display:     spec.DisplayName(),
			Description: spec.Description,
			Score:       score,
		})
	}
	sortCompletions(comps)
	return comps
}

// =============================================================================
// HELPERS
// =============================================================================

// calculateScore ranks a candidate. Higher is better.
func calculateScore(value, partial string) int {
	value = strings.ToLower(value)
	partial = strings.ToLower(partial)

	score := 100
	if value == partial {
		return score + 100
	}
	if strings.HasPrefix(value, partial) {
		score += 50
		score += 20 - len(value)
	}
	score -= len(value) / 2
	return score
}

// sortCompletions sorts by score (descending), then alphabetically.
func sortCompletions(completions []Completion) {
	sort.Slice(completions, func(i, j int) bool {
		if completions[i].Score != completions[j].Score {
			return completions[i].Score > completions[j].Score
		}
		return completions[i].Value < completions[j].Value
	})
}

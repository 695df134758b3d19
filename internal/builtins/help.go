// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package builtins

import (
	"sort"
	"strings"

	"github.com/jeranaias/framesh/internal/commands"
	"github.com/jeranaias/framesh/internal/util"
)

// =============================================================================
// HELP
// =============================================================================

func helpCommand() *commands.CommandSpec {
	return &commands.CommandSpec{
		Name:        "help",
		Usage:       "help [command | search term]",
		Description: "List commands, show one command, or search",
		Group:       GroupHelp,
		Handler:     handleHelp,
	}
}

func handleHelp(inv *commands.Invocation) (any, error) {
	r := inv.Registry()
	term := strings.TrimSpace(inv.ArgString)
	if term == "" {
		inv.Printf("%s", listing(r))
		return nil, nil
	}

	if spec, ok := r.Find(term); ok {
		inv.Printf("%s", detail(r, spec))
		return nil, nil
	}

	hits := r.Search(term)
	if len(hits) == 0 {
		return nil, inv.Fail("no command matches %q", term)
	}
	inv.Printf("No command named %q. Did you mean:\n", term)
	inv.Printf("%s", table(hits, "  "))
	return nil, nil
}

// listing renders every command grouped by help group.
func listing(r *commands.Registry) string {
	groups, byGroup := r.ByGroup()
	var b strings.Builder
	for i, g := range groups {
		if i > 0 {
			b.WriteString("\n")
		}
		b.WriteString(g)
		b.WriteString("\n")
		b.WriteString(table(byGroup[g], "  "))
	}
	return b.String()
}

// table aligns names and descriptions in two columns.
func table(specs []*commands.CommandSpec, indent string) string {
	width := 0
	for _, spec := range specs {
		if w := util.StringWidth(spec.DisplayName()); w > width {
			width = w
		}
	}
	var b strings.Builder
	for _, spec := range specs {
		b.WriteString(indent)
		if spec.Description == "" {
			b.WriteString(spec.DisplayName())
		} else {
			b.WriteString(util.PadRight(spec.DisplayName(), width))
			b.WriteString("  ")
			b.WriteString(util.FirstLine(spec.Description))
		}
		b.WriteString("\n")
	}
	return b.String()
}

func detail(r *commands.Registry, spec *commands.CommandSpec) string {
	var b strings.Builder
	usage := spec.Usage
	if usage == "" {
		usage = spec.DisplayName()
	}
	b.WriteString("Usage: " + usage + "\n")
	if spec.Description != "" {
		b.WriteString("\n" + spec.Description + "\n")
	}

	var aliases []string
	for _, other := range r.All() {
		if other != spec && other.IsAlias() && other.Identity() == spec.Identity() {
			aliases = append(aliases, other.DisplayName())
		}
	}
	if len(aliases) > 0 {
		sort.Strings(aliases)
		b.WriteString("\nAliases: " + strings.Join(aliases, ", ") + "\n")
	}
	return b.String()
}

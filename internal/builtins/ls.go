// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package builtins

import (
	"regexp"
	"strings"

	"github.com/jeranaias/framesh/internal/commands"
	"github.com/jeranaias/framesh/internal/evaluator"
	"github.com/jeranaias/framesh/internal/util"
)

// lsWidth is the column budget for ls output.
const lsWidth = 80

func lsCommand(host Host) *commands.CommandSpec {
	return &commands.CommandSpec{
		Name:        "ls",
		Usage:       "ls [-g PATTERN] [expression]",
		Description: "List the names visible in the current frame or in a value",
		Group:       GroupContext,
		Options:     commands.Options{Shellwords: true, Interpolate: true},
		Handler: func(inv *commands.Invocation) (any, error) {
			args := inv.Args
			var grep *regexp.Regexp
			if len(args) > 0 && args[0] == "-g" {
				if len(args) < 2 {
					return nil, inv.Fail("-g needs a pattern")
				}
				re, err := regexp.Compile("(?i)" + args[1])
				if err != nil {
					return nil, inv.Fail("bad pattern: %v", err)
				}
				grep = re
				args = args[2:]
			}

			lister, ok := host.Evaluator().(evaluator.Lister)
			if !ok {
				return nil, inv.Fail("the evaluator cannot list names")
			}

			target := inv.Frame
			if expr := strings.Join(args, " "); expr != "" {
				v, err := inv.Evaluate(expr)
				if err != nil {
					return nil, commands.WrapError("ls", err)
				}
				target = v
			}
			names, err := lister.List(target)
			if err != nil {
				return nil, commands.WrapError("ls", err)
			}

			if grep != nil {
				kept := names[:0:0]
				for _, n := range names {
					if grep.MatchString(n) {
						kept = append(kept, n)
					}
				}
				names = kept
			}
			inv.Printf("%s", columns(names, lsWidth))
			return nil, nil
		},
	}
}

// columns lays names out in aligned columns within width.
func columns(names []string, width int) string {
	if len(names) == 0 {
		return ""
	}
	cell := 0
	for _, n := range names {
		if w := util.StringWidth(n); w > cell {
			cell = w
		}
	}
	cell += 2
	perLine := width / cell
	if perLine < 1 {
		perLine = 1
	}

	var b strings.Builder
	for i, n := range names {
		last := i%perLine == perLine-1 || i == len(names)-1
		if last {
			b.WriteString(n)
			b.WriteString("\n")
		} else {
			b.WriteString(util.PadRight(n, cell))
		}
	}
	return b.String()
}

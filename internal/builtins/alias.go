// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package builtins

import (
	"strings"

	"github.com/jeranaias/framesh/internal/commands"
)

func aliasCommand(opts Options) *commands.CommandSpec {
	return &commands.CommandSpec{
		Name:        "alias-command",
		Usage:       `alias-command NEW TARGET [-d DESCRIPTION]`,
		Description: `Create a command alias. TARGET is a command name or a command line such as "ls -g foo"`,
		Group:       GroupCommands,
		Options:     commands.Options{ArgumentRequired: true, Shellwords: true},
		Handler: func(inv *commands.Invocation) (any, error) {
			args := inv.Args
			if len(args) < 2 {
				return nil, commands.NewMissingArgumentError(inv.Command)
			}
			name, target := args[0], args[1]

			aliasOpts := []commands.AliasOption{
				commands.WithArgumentHandling(opts.AliasShellwords, opts.AliasInterpolate),
			}
			rest := args[2:]
			if len(rest) >= 2 && rest[0] == "-d" {
				aliasOpts = append(aliasOpts, commands.WithDescription(strings.Join(rest[1:], " ")))
			} else if len(rest) > 0 {
				return nil, inv.Fail("unexpected arguments: %s", strings.Join(rest, " "))
			}

			if err := inv.Registry().Alias(name, target, aliasOpts...); err != nil {
				return nil, commands.WrapError("alias-command", err)
			}
			inv.Printf("Alias %s -> %s\n", name, target)
			return nil, nil
		},
	}
}

// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package builtins

import (
	"context"
	"fmt"
	"os"
	"regexp"
	"strings"

	"mvdan.cc/sh/v3/expand"
	"mvdan.cc/sh/v3/interp"
	"mvdan.cc/sh/v3/syntax"

	"github.com/jeranaias/framesh/internal/commands"
)

// =============================================================================
// SHELL COMMANDS
// =============================================================================

const shellListing = ".<shell command>"

func shellCommand() *commands.CommandSpec {
	return &commands.CommandSpec{
		Name:        `\.(.*)`,
		Pattern:     regexp.MustCompile(`\.(.*)`),
		ListingName: shellListing,
		Usage:       ".<shell command>   e.g. .ls -la, .cd -",
		Description: "Run a shell command line. '.cd' changes the working directory and remembers the previous one",
		Group:       GroupShell,
		Options:     commands.Options{Interpolate: true},
		Handler:     handleShell,
	}
}

func handleShell(inv *commands.Invocation) (any, error) {
	var src string
	if len(inv.Captures) > 0 {
		src = strings.TrimSpace(inv.Captures[0])
	}
	if inv.ArgString != "" {
		src = strings.TrimSpace(src + " " + inv.ArgString)
	}
	if src == "" {
		return nil, inv.Fail("no shell command given")
	}

	// The pattern swallows the line, so interpolation is applied here.
	src, err := commands.Interpolate(src, inv.Command.Options.Interpolate, func(expr string) (string, error) {
		v, err := inv.Evaluate(expr)
		if err != nil {
			return "", err
		}
		return fmt.Sprint(v), nil
	})
	if err != nil {
		return nil, commands.WrapError(shellListing, err)
	}

	file, err := syntax.NewParser().Parse(strings.NewReader(src), "")
	if err != nil {
		return nil, commands.WrapError(shellListing, err)
	}

	if args, ok := cdCall(file); ok {
		return nil, changeDir(inv, args)
	}

	dir, err := os.Getwd()
	if err != nil {
		return nil, commands.WrapError(shellListing, err)
	}
	runner, err := interp.New(
		interp.StdIO(nil, inv.Output, inv.Output),
		interp.Dir(dir),
		interp.Env(expand.ListEnviron(os.Environ()...)),
	)
	if err != nil {
		return nil, commands.WrapError(shellListing, err)
	}
	if err := runner.Run(context.Background(), file); err != nil {
		if status, ok := interp.IsExitStatus(err); ok {
			return nil, inv.Fail("exit status %d", status)
		}
		return nil, commands.WrapError(shellListing, err)
	}
	return nil, nil
}

// cdCall reports whether file is a single "cd [args]" call and returns the
// expanded arguments.
func cdCall(file *syntax.File) ([]string, bool) {
	if len(file.Stmts) != 1 {
		return nil, false
	}
	stmt := file.Stmts[0]
	call, ok := stmt.Cmd.(*syntax.CallExpr)
	if !ok || len(call.Args) == 0 || call.Args[0].Lit() != "cd" || stmt.Background || len(stmt.Redirs) > 0 {
		return nil, false
	}
	cfg := &expand.Config{Env: expand.ListEnviron(os.Environ()...)}
	args, err := expand.Fields(cfg, call.Args[1:]...)
	if err != nil {
		return nil, false
	}
	return args, true
}

// changeDir implements ".cd [dir | -]". The previous directory is kept in
// the command's persistent state.
func changeDir(inv *commands.Invocation, args []string) error {
	if len(args) > 1 {
		return inv.Fail("cd: too many arguments")
	}
	cwd, err := os.Getwd()
	if err != nil {
		return commands.WrapError(shellListing, err)
	}

	var dest string
	switch {
	case len(args) == 0 || args[0] == "~":
		dest, err = os.UserHomeDir()
		if err != nil {
			return commands.WrapError(shellListing, err)
		}
	case args[0] == "-":
		dest = inv.State.String("prev")
		if dest == "" {
			return inv.Fail("cd: no previous directory")
		}
		inv.Println(dest)
	default:
		dest = args[0]
	}

	if err := os.Chdir(dest); err != nil {
		return inv.Fail("cd: %v", err)
	}
	inv.State["prev"] = cwd
	return nil
}

// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package builtins provides the stock command set of a framesh session.
//
// # Commands
//
//	Help:        help
//	Context:     cd, nesting, jump-to, exit, exit-all, whereami, ls
//	Evaluation:  watch
//	Commands:    alias-command
//	Shell:       .<shell command>, .cd
package builtins

import (
	"errors"
	"fmt"

	"github.com/jeranaias/framesh/internal/commands"
	"github.com/jeranaias/framesh/internal/evaluator"
	"github.com/jeranaias/framesh/internal/navigation"
)

// Help groups.
const (
	GroupHelp       = "Help"
	GroupContext    = "Context"
	GroupEvaluation = "Evaluation"
	GroupCommands   = "Commands"
	GroupShell      = "Shell"
)

// Host is the session the builtins act on.
type Host interface {
	// Stack returns the live navigation stack.
	Stack() *navigation.Stack

	// Navigate resolves a cd path and replaces the stack on success.
	Navigate(path string) error

	// Evaluator returns the session evaluator.
	Evaluator() evaluator.Evaluator

	// OnEvaluate registers fn to run after each expression the session
	// evaluates.
	OnEvaluate(fn func())
}

// Options tune the builtin set.
type Options struct {
	// AliasShellwords and AliasInterpolate are the argument handling of
	// aliases created with alias-command.
	AliasShellwords  bool
	AliasInterpolate bool
}

// Register adds every builtin to the dispatcher's registry.
func Register(d *commands.Dispatcher, host Host, opts Options) error {
	specs := []*commands.CommandSpec{
		helpCommand(),
		cdCommand(host),
		nestingCommand(host),
		jumpToCommand(host),
		exitCommand(host),
		exitAllCommand(host),
		whereamiCommand(host),
		lsCommand(host),
		watchCommand(host),
		aliasCommand(opts),
		shellCommand(),
	}
	var errs []error
	for _, spec := range specs {
		if err := d.Registry().Register(spec); err != nil {
			errs = append(errs, err)
		}
	}

	if err := d.Registry().Alias("quit", "exit"); err != nil {
		errs = append(errs, err)
	}

	watches := newWatchList(d.State().For(watchKey))
	host.OnEvaluate(func() { watches.check(host, d) })
	return errors.Join(errs...)
}

// describe names a frame with the host evaluator.
func describe(host Host, frame evaluator.Frame) string {
	if e := host.Evaluator(); e != nil {
		return e.DescribeFrame(frame)
	}
	return fmt.Sprint(frame)
}

// inspect renders a value with the host evaluator.
func inspect(host Host, v any) string {
	if e := host.Evaluator(); e != nil {
		return evaluator.Inspect(e, v)
	}
	return fmt.Sprint(v)
}

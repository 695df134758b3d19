// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package builtins

import (
	"errors"
	"sort"
	"strconv"
	"strings"

	"github.com/lithammer/fuzzysearch/fuzzy"

	"github.com/jeranaias/framesh/internal/commands"
	"github.com/jeranaias/framesh/internal/evaluator"
	"github.com/jeranaias/framesh/internal/navigation"
)

// =============================================================================
// CD
// =============================================================================

// hintedError adds a did-you-mean suggestion to an error.
type hintedError struct {
	err  error
	hint []string
}

func (e *hintedError) Error() string {
	return e.err.Error() + " (did you mean " + strings.Join(e.hint, ", ") + "?)"
}

func (e *hintedError) Unwrap() error { return e.err }

func cdCommand(host Host) *commands.CommandSpec {
	return &commands.CommandSpec{
		Name:  "cd",
		Usage: "cd [path]",
		Description: "Move into a frame. Paths are /-separated expressions; " +
			"'..' goes up, '/' to the root, '::' to the toplevel, '-' back to the previous stack",
		Group: GroupContext,
		Handler: func(inv *commands.Invocation) (any, error) {
			err := host.Navigate(strings.TrimSpace(inv.ArgString))
			if err == nil {
				return nil, nil
			}
			if hint := suggest(host, err); len(hint) > 0 {
				err = &hintedError{err: err, hint: hint}
			}
			return nil, &commands.CommandError{Command: "cd", Err: err}
		},
		CompleteArgs: func(partial string) []string {
			return completePath(host, partial)
		},
	}
}

// suggest offers names close to a failing first path step.
func suggest(host Host, err error) []string {
	var navErr *navigation.NavigationError
	if !errors.As(err, &navErr) || navErr.Index != 0 || navErr.Step.Kind != navigation.StepExpression {
		return nil
	}
	names := listNames(host, host.Stack().Top())
	if len(names) == 0 {
		return nil
	}
	ranks := fuzzy.RankFindFold(strings.TrimPrefix(navErr.Step.Expr, "@"), names)
	if len(ranks) == 0 {
		return nil
	}
	sort.Sort(ranks)
	var out []string
	for i, r := range ranks {
		if i == 3 {
			break
		}
		out = append(out, r.Target)
	}
	return out
}

// completePath completes the last segment of a cd path against the names
// visible in the frame the earlier segments lead to.
func completePath(host Host, partial string) []string {
	dir, seg := "", partial
	if i := strings.LastIndexByte(partial, '/'); i >= 0 {
		dir, seg = partial[:i+1], partial[i+1:]
	}

	frame := host.Stack().Top()
	if dir != "" {
		e := host.Evaluator()
		if e == nil {
			return nil
		}
		var saved navigation.Stack
		s, err := navigation.Navigate(host.Stack().Clone(), &saved, dir, evaluator.FuncOf(e))
		if err != nil {
			return nil
		}
		frame = s.Top()
	}

	var out []string
	for _, name := range listNames(host, frame) {
		if strings.HasPrefix(name, seg) {
			out = append(out, dir+name)
		}
	}
	return out
}

func listNames(host Host, frame evaluator.Frame) []string {
	lister, ok := host.Evaluator().(evaluator.Lister)
	if !ok {
		return nil
	}
	names, err := lister.List(frame)
	if err != nil {
		return nil
	}
	return names
}

// =============================================================================
// NESTING / JUMP-TO
// =============================================================================

func nestingCommand(host Host) *commands.CommandSpec {
	return &commands.CommandSpec{
		Name:        "nesting",
		Usage:       "nesting",
		Description: "Show the frames on the navigation stack",
		Group:       GroupContext,
		Handler: func(inv *commands.Invocation) (any, error) {
			s := host.Stack()
			width := len(strconv.Itoa(s.Len() - 1))
			inv.Println("Nesting status:")
			for i, frame := range s.Frames() {
				marker := " "
				if i == s.Len()-1 {
					marker = "*"
				}
				inv.Printf("%s %*d. %s\n", marker, width, i, describe(host, frame))
			}
			return nil, nil
		},
	}
}

func jumpToCommand(host Host) *commands.CommandSpec {
	return &commands.CommandSpec{
		Name:        "jump-to",
		Usage:       "jump-to <level>",
		Description: "Drop back to the frame at a nesting level (see nesting)",
		Group:       GroupContext,
		Options:     commands.Options{ArgumentRequired: true},
		Handler: func(inv *commands.Invocation) (any, error) {
			level, err := strconv.Atoi(inv.Args[0])
			if err != nil {
				return nil, inv.Fail("level must be a number, got %q", inv.Args[0])
			}
			s := host.Stack()
			if level == s.Len()-1 {
				inv.Printf("Already at nesting level %d\n", level)
				return nil, nil
			}
			if err := s.TruncateAfter(level); err != nil {
				return nil, commands.WrapError("jump-to", err)
			}
			return nil, nil
		},
	}
}

// =============================================================================
// EXIT
// =============================================================================

// exitValue evaluates the optional argument of exit and exit-all.
func exitValue(inv *commands.Invocation) (any, error) {
	expr := strings.TrimSpace(inv.ArgString)
	if expr == "" {
		return nil, nil
	}
	v, err := inv.Evaluate(expr)
	if err != nil {
		return nil, commands.WrapError(inv.Command.DisplayName(), err)
	}
	return v, nil
}

func exitCommand(host Host) *commands.CommandSpec {
	return &commands.CommandSpec{
		Name:        "exit",
		Usage:       "exit [value]",
		Description: "Leave the current frame; at the root, end the session",
		Group:       GroupContext,
		Handler: func(inv *commands.Invocation) (any, error) {
			s := host.Stack()
			if s.Len() > 1 {
				s.Pop()
				return nil, nil
			}
			v, err := exitValue(inv)
			if err != nil {
				return nil, err
			}
			return commands.Terminate{Value: v}, nil
		},
	}
}

func exitAllCommand(host Host) *commands.CommandSpec {
	return &commands.CommandSpec{
		Name:        "exit-all",
		Usage:       "exit-all [value]",
		Description: "End the session from any depth",
		Group:       GroupContext,
		Handler: func(inv *commands.Invocation) (any, error) {
			v, err := exitValue(inv)
			if err != nil {
				return nil, err
			}
			return commands.Terminate{Value: v}, nil
		},
	}
}

// =============================================================================
// WHEREAMI
// =============================================================================

func whereamiCommand(host Host) *commands.CommandSpec {
	return &commands.CommandSpec{
		Name:        "whereami",
		Usage:       "whereami",
		Description: "Show the current frame and how you got there",
		Group:       GroupContext,
		Handler: func(inv *commands.Invocation) (any, error) {
			s := host.Stack()
			names := make([]string, s.Len())
			for i, frame := range s.Frames() {
				names[i] = describe(host, frame)
			}
			inv.Printf("Inside %s (nesting level %d)\n", describe(host, s.Top()), s.Len()-1)
			if s.Len() > 1 {
				inv.Printf("Path: %s\n", strings.Join(names, " > "))
			}
			return nil, nil
		},
	}
}

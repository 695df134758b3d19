// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package evaluator defines the contract between the shell core and the
// expression evaluator that executes non-command input.
//
// Frames and results are opaque to the core. The evaluator produces them and
// is the only component that interprets them.
package evaluator

import "fmt"

// Frame is an evaluation context the user can navigate into.
type Frame = any

// Result is the value produced by evaluating an expression.
type Result = any

// Evaluator executes expressions against a frame.
//
// Evaluate may have side effects on the frame itself (assigning a variable),
// but must not touch shell state such as the navigation stack.
type Evaluator interface {
	Evaluate(frame Frame, expr string) (Result, error)
	DescribeFrame(frame Frame) string
}

// Inspector is implemented by evaluators that can render results for display.
type Inspector interface {
	Inspect(result Result) string
}

// Lister is implemented by evaluators that can enumerate the names visible
// inside a frame.
type Lister interface {
	List(frame Frame) ([]string, error)
}

// Func evaluates expr against frame. It is the shape navigation and
// interpolation consume.
type Func func(frame Frame, expr string) (Result, error)

// FuncOf adapts an Evaluator to a Func.
func FuncOf(e Evaluator) Func {
	return e.Evaluate
}

// Inspect renders result with e's Inspector when it has one, and with
// fmt.Sprint otherwise.
func Inspect(e Evaluator, result Result) string {
	if in, ok := e.(Inspector); ok {
		return in.Inspect(result)
	}
	return fmt.Sprint(result)
}

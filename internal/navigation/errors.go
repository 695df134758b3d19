// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package navigation

import (
	"errors"
	"fmt"
)

// ErrNoSavedStack is returned when "cd -" has nothing to go back to.
var ErrNoSavedStack = errors.New("no previous stack to return to")

// ErrNoEvaluator is returned when a path needs an expression evaluated but
// the resolver was built without an evaluator.
var ErrNoEvaluator = errors.New("no evaluator available")

// IndexOutOfRangeError reports a bad truncation index.
type IndexOutOfRangeError struct {
	Index int
	Len   int
}

func (e *IndexOutOfRangeError) Error() string {
	if e.Len <= 1 {
		return fmt.Sprintf("index %d out of range: stack only holds the root frame", e.Index)
	}
	return fmt.Sprintf("index %d out of range: expected 0..%d", e.Index, e.Len-2)
}

// NavigationError reports the path step that stopped a navigation.
type NavigationError struct {
	Path  string
	Index int // position of Step in the parsed path
	Step  PathStep
	Err   error
}

func (e *NavigationError) Error() string {
	if e.Step.Kind == StepExpression {
		return fmt.Sprintf("cannot cd into %q (step %d of %q): %v", e.Step.Expr, e.Index+1, e.Path, e.Err)
	}
	return fmt.Sprintf("cannot cd %q: %v", e.Path, e.Err)
}

func (e *NavigationError) Unwrap() error {
	return e.Err
}

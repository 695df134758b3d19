// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package navigation

import (
	"go.uber.org/zap"

	"github.com/jeranaias/framesh/internal/evaluator"
)

// =============================================================================
// RESOLVER
// =============================================================================

// Resolver applies navigation paths for one session. It owns the saved stack
// that "cd -" returns to.
type Resolver struct {
	eval     evaluator.Func
	toplevel evaluator.Frame
	hasTop   bool
	saved    Stack
	log      *zap.Logger
}

// NewResolver creates a resolver that evaluates expression steps with eval.
func NewResolver(eval evaluator.Func, logger *zap.Logger) *Resolver {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Resolver{eval: eval, log: logger}
}

// SetToplevel designates the frame "::" pushes on top of the root. A nil
// frame clears it, and "::" then behaves like "/".
func (r *Resolver) SetToplevel(f evaluator.Frame) {
	r.toplevel = f
	r.hasTop = f != nil
}

// Saved returns the stack "cd -" would switch to.
func (r *Resolver) Saved() (Stack, bool) {
	if r.saved.IsZero() {
		return Stack{}, false
	}
	return r.saved.Clone(), true
}

// Reset forgets the saved stack.
func (r *Resolver) Reset() {
	r.saved = Stack{}
}

// Navigate applies path to current and returns the new stack. On error the
// returned stack is current, unchanged.
func (r *Resolver) Navigate(current Stack, path string) (Stack, error) {
	var top *evaluator.Frame
	if r.hasTop {
		top = &r.toplevel
	}
	next, err := navigate(current, &r.saved, path, r.eval, top)
	if err != nil {
		r.log.Debug("NAVIGATE_FAILED", zap.String("path", path), zap.Error(err))
		return next, err
	}
	r.log.Debug("NAVIGATE",
		zap.String("path", path),
		zap.Int("from_depth", current.Len()),
		zap.Int("to_depth", next.Len()))
	return next, nil
}

// Navigate applies path to current using eval for expression steps. saved
// may be nil; when non-nil it is updated with the pre-navigation stack on
// success, and "-" swaps current with it.
//
// The caller's stack is never modified. If any step fails, current is
// returned together with a *NavigationError.
func Navigate(current Stack, saved *Stack, path string, eval evaluator.Func) (Stack, error) {
	return navigate(current, saved, path, eval, nil)
}

func navigate(current Stack, saved *Stack, path string, eval evaluator.Func, toplevel *evaluator.Frame) (Stack, error) {
	steps := ParsePath(path)

	if len(steps) == 1 && steps[0].Kind == StepToggleSaved {
		if saved == nil || saved.IsZero() {
			return current, &NavigationError{Path: path, Step: steps[0], Err: ErrNoSavedStack}
		}
		prev := saved.Clone()
		*saved = current.Clone()
		return prev, nil
	}

	scratch := current.Clone()
	for i, step := range steps {
		switch step.Kind {
		case StepParent:
			scratch.Pop()
		case StepRoot:
			scratch.truncate(1)
		case StepToplevel:
			scratch.truncate(1)
			if toplevel != nil {
				scratch.Push(*toplevel)
			}
		case StepExpression:
			if eval == nil {
				return current, &NavigationError{Path: path, Index: i, Step: step, Err: ErrNoEvaluator}
			}
			f, err := eval(scratch.Top(), step.Expr)
			if err != nil {
				return current, &NavigationError{Path: path, Index: i, Step: step, Err: err}
			}
			scratch.Push(f)
		}
	}

	if saved != nil {
		*saved = current.Clone()
	}
	return scratch, nil
}

// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package docframe

import (
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/jeranaias/framesh/internal/evaluator"
)

// Evaluator evaluates expressions against *Node frames. It implements
// evaluator.Evaluator, evaluator.Inspector and evaluator.Lister.
type Evaluator struct {
	log *zap.Logger
}

var (
	_ evaluator.Evaluator = (*Evaluator)(nil)
	_ evaluator.Inspector = (*Evaluator)(nil)
	_ evaluator.Lister    = (*Evaluator)(nil)
)

// New creates an evaluator. logger may be nil.
func New(logger *zap.Logger) *Evaluator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Evaluator{log: logger}
}

// Evaluate runs expr against frame and returns a *Node.
func (e *Evaluator) Evaluate(frame evaluator.Frame, expr string) (evaluator.Result, error) {
	node, err := asNode(frame)
	if err != nil {
		return nil, err
	}
	expr = strings.TrimSpace(expr)
	if expr == "" {
		return nil, &SyntaxError{Expr: expr}
	}

	if lhs, rhs, ok := splitAssignment(expr); ok {
		if steps, ok := parseChain(lhs); ok && len(steps) > 0 {
			return e.assign(node, steps, rhs)
		}
	}
	return e.value(node, expr)
}

// value evaluates a selector chain or a literal.
func (e *Evaluator) value(node *Node, expr string) (*Node, error) {
	if steps, ok := parseChain(expr); ok {
		got, err := walk(node, steps)
		if err == nil {
			return got, nil
		}
		// A bare keyword is a literal unless the mapping defines it.
		if !keywords[expr] {
			return nil, err
		}
	}
	if !looksLiteral(expr) {
		return nil, &SyntaxError{Expr: expr}
	}
	v, err := parseLiteral(expr)
	if err != nil {
		return nil, err
	}
	return &Node{Value: v, Path: expr, Doc: node.Doc}, nil
}

func (e *Evaluator) assign(node *Node, steps []step, rhs string) (*Node, error) {
	if rhs == "" {
		return nil, &SyntaxError{Expr: rhs}
	}
	val, err := e.rhs(node, rhs)
	if err != nil {
		return nil, err
	}
	parent, err := walk(node, steps[:len(steps)-1])
	if err != nil {
		return nil, err
	}
	last := steps[len(steps)-1]
	v := deepCopy(val.Value)
	if err := parent.set(last, v); err != nil {
		return nil, err
	}
	e.log.Debug("DOC_ASSIGN", zap.String("doc", node.Doc), zap.String("at", parent.Describe()))

	if last.kind == stepKey {
		return &Node{Value: v, Path: joinKey(parent.Path, last.key), Doc: node.Doc}, nil
	}
	return parent.index(last.index)
}

// rhs evaluates the right side of an assignment: an existing selector, or
// else any YAML literal including bare words.
func (e *Evaluator) rhs(node *Node, expr string) (*Node, error) {
	if steps, ok := parseChain(expr); ok {
		if got, err := walk(node, steps); err == nil {
			return got, nil
		}
	}
	v, err := parseLiteral(expr)
	if err != nil {
		return nil, err
	}
	return &Node{Value: v, Path: expr, Doc: node.Doc}, nil
}

// DescribeFrame names a frame for prompts and whereami.
func (e *Evaluator) DescribeFrame(frame evaluator.Frame) string {
	if node, ok := frame.(*Node); ok {
		return node.Describe()
	}
	return fmt.Sprint(frame)
}

// Inspect renders a result for display.
func (e *Evaluator) Inspect(result evaluator.Result) string {
	if node, ok := result.(*Node); ok {
		return node.Inspect()
	}
	return fmt.Sprint(result)
}

// List returns the child selectors of frame.
func (e *Evaluator) List(frame evaluator.Frame) ([]string, error) {
	node, err := asNode(frame)
	if err != nil {
		return nil, err
	}
	return node.Keys()
}

func walk(node *Node, steps []step) (*Node, error) {
	cur := node
	for _, s := range steps {
		var err error
		switch s.kind {
		case stepKey:
			cur, err = cur.key(s.key)
		case stepIndex:
			cur, err = cur.index(s.index)
		}
		if err != nil {
			return nil, err
		}
	}
	return cur, nil
}

func asNode(frame evaluator.Frame) (*Node, error) {
	node, ok := frame.(*Node)
	if !ok || node == nil {
		return nil, fmt.Errorf("frame %v is not a document node", frame)
	}
	return node, nil
}

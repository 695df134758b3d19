// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package commands

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/text/unicode/norm"

	"github.com/jeranaias/framesh/internal/evaluator"
)

// DefaultMaxDepth bounds nested re-dispatch.
const DefaultMaxDepth = 32

// =============================================================================
// OUTCOMES
// =============================================================================

// Void is the type of VoidMarker.
type Void struct{}

// VoidMarker is the return value of commands that do not keep theirs.
var VoidMarker = Void{}

func (Void) String() string { return "" }

// Terminate asks the session to end. A handler returns it as its value.
type Terminate struct {
	Value any
}

// DispatchOutcome is the result of dispatching one line.
type DispatchOutcome struct {
	// NotACommand is set when the line names no command; the caller should
	// evaluate it as an expression. It is not an error.
	NotACommand bool

	// Command is the matched command, when there was one.
	Command *CommandSpec

	// ReturnValue is the handler's value, or VoidMarker.
	ReturnValue any

	// Terminate is set when the command asked to end the session.
	Terminate *Terminate

	// Err is a *CommandError for reported, recoverable failures; any other
	// error came from a hook or a misbehaving handler and belongs to the
	// session driver.
	Err error
}

// Recoverable reports whether the session can simply continue.
func (o DispatchOutcome) Recoverable() bool {
	return o.Err == nil || IsCommandError(o.Err)
}

// Result converts the outcome back into handler return values, so a handler
// that re-dispatches can return what the inner command produced.
func (o DispatchOutcome) Result() (any, error) {
	switch {
	case o.NotACommand:
		return nil, &CommandError{Err: &NotFoundError{Key: "(no command)"}}
	case o.Err != nil:
		return nil, o.Err
	case o.Terminate != nil:
		return *o.Terminate, nil
	default:
		return o.ReturnValue, nil
	}
}

// =============================================================================
// INVOCATION
// =============================================================================

// Invocation is the per-call bundle a handler receives. It is not retained
// after the handler returns.
type Invocation struct {
	Command   *CommandSpec
	Line      string
	Args      []string
	Captures  []string
	ArgString string // argument text before interpolation and tokenizing
	Block     string // block source when the command TakesBlock
	Frame     evaluator.Frame
	Output    io.Writer
	State     State

	d     *Dispatcher
	depth int
}

// Run dispatches another command line on the same call stack. The global
// prefix is added when line lacks it.
func (inv *Invocation) Run(line string) DispatchOutcome {
	prefix := inv.d.Prefix()
	if prefix != "" && !strings.HasPrefix(line, prefix) {
		line = prefix + line
	}
	return inv.d.dispatch(line, inv.depth+1)
}

// Evaluate evaluates expr against the invocation's frame.
func (inv *Invocation) Evaluate(expr string) (evaluator.Result, error) {
	if inv.d.eval == nil {
		return nil, errors.New("no evaluator available")
	}
	return inv.d.eval.Evaluate(inv.Frame, expr)
}

// Evaluator returns the evaluator the dispatcher was built with, or nil.
func (inv *Invocation) Evaluator() evaluator.Evaluator {
	return inv.d.eval
}

// Registry returns the registry the command was matched in.
func (inv *Invocation) Registry() *Registry {
	return inv.d.registry
}

// Depth is the re-dispatch nesting level, 0 for a line the user typed.
func (inv *Invocation) Depth() int {
	return inv.depth
}

// Printf writes formatted text to the invocation output.
func (inv *Invocation) Printf(format string, args ...any) {
	fmt.Fprintf(inv.Output, format, args...)
}

// Println writes a line to the invocation output.
func (inv *Invocation) Println(args ...any) {
	fmt.Fprintln(inv.Output, args...)
}

// Fail builds a *CommandError attributed to this command.
func (inv *Invocation) Fail(format string, args ...any) error {
	return &CommandError{Command: inv.Command.DisplayName(), Message: fmt.Sprintf(format, args...)}
}

// =============================================================================
// DISPATCHER
// =============================================================================

// Config holds dispatcher dependencies. All fields are optional.
type Config struct {
	// Evaluator is used for #{} interpolation and Invocation.Evaluate.
	Evaluator evaluator.Evaluator

	// Frame returns the current top frame.
	Frame func() evaluator.Frame

	// Output receives command output and reported command errors.
	Output io.Writer

	Logger *zap.Logger

	// Prefix is the global command prefix.
	Prefix string

	// MaxDepth bounds re-dispatch nesting (default: DefaultMaxDepth).
	MaxDepth int
}

// Dispatcher runs command lines: match, argument checks, interpolation,
// tokenizing, before hooks, handler, after hooks.
type Dispatcher struct {
	registry *Registry
	eval     evaluator.Evaluator
	frame    func() evaluator.Frame
	out      io.Writer
	log      *zap.Logger
	prefix   string
	maxDepth int

	before map[string][]Hook
	after  map[string][]Hook
	state  *PersistentState
}

// NewDispatcher creates a dispatcher over registry.
func NewDispatcher(registry *Registry, cfg Config) *Dispatcher {
	d := &Dispatcher{
		registry: registry,
		eval:     cfg.Evaluator,
		frame:    cfg.Frame,
		out:      cfg.Output,
		log:      cfg.Logger,
		prefix:   cfg.Prefix,
		maxDepth: cfg.MaxDepth,
		before:   make(map[string][]Hook),
		after:    make(map[string][]Hook),
		state:    NewPersistentState(),
	}
	if d.out == nil {
		d.out = io.Discard
	}
	if d.log == nil {
		d.log = zap.NewNop()
	}
	if d.maxDepth <= 0 {
		d.maxDepth = DefaultMaxDepth
	}
	if d.frame == nil {
		d.frame = func() evaluator.Frame { return nil }
	}
	return d
}

// Registry returns the registry the dispatcher matches against.
func (d *Dispatcher) Registry() *Registry { return d.registry }

// State returns the session's persistent command state.
func (d *Dispatcher) State() *PersistentState { return d.state }

// Prefix returns the global command prefix.
func (d *Dispatcher) Prefix() string { return d.prefix }

// SetPrefix changes the global command prefix.
func (d *Dispatcher) SetPrefix(prefix string) { d.prefix = prefix }

// Output returns where command output goes.
func (d *Dispatcher) Output() io.Writer { return d.out }

// SetMaxDepth changes the re-dispatch nesting bound. Values below one restore
// DefaultMaxDepth.
func (d *Dispatcher) SetMaxDepth(n int) {
	if n <= 0 {
		n = DefaultMaxDepth
	}
	d.maxDepth = n
}

// MaxDepth returns the re-dispatch nesting bound.
func (d *Dispatcher) MaxDepth() int { return d.maxDepth }

// SetOutput changes where command output goes.
func (d *Dispatcher) SetOutput(w io.Writer) { d.out = w }

// Before registers a hook that runs before the command with the given key.
// Hooks run in registration order.
func (d *Dispatcher) Before(key string, h Hook) {
	d.before[key] = append(d.before[key], h)
}

// After registers a hook that runs after the command with the given key,
// even when the handler failed.
func (d *Dispatcher) After(key string, h Hook) {
	d.after[key] = append(d.after[key], h)
}

// Dispatch runs line if it names a command.
func (d *Dispatcher) Dispatch(line string) DispatchOutcome {
	return d.dispatch(line, 0)
}

func (d *Dispatcher) dispatch(line string, depth int) DispatchOutcome {
	line = norm.NFC.String(line)

	m, ok := Match(line, d.registry, d.prefix)
	if !ok {
		return DispatchOutcome{NotACommand: true}
	}
	spec := m.Spec
	name := spec.DisplayName()
	outcome := DispatchOutcome{Command: spec}

	if depth > d.maxDepth {
		outcome.Err = &CommandError{Command: name, Err: &RecursionLimitError{Depth: d.maxDepth, Line: line}}
		return d.finish(outcome, depth)
	}

	argString := strings.TrimSpace(line[m.End:])
	var block string
	if spec.Options.TakesBlock {
		argString, block = SplitBlock(argString)
	}

	if spec.Options.ArgumentRequired && argString == "" {
		outcome.Err = NewMissingArgumentError(spec)
		return d.finish(outcome, depth)
	}

	frame := d.frame()
	expanded, err := Interpolate(argString, spec.Options.Interpolate, d.interpolator(frame))
	if err != nil {
		outcome.Err = &CommandError{Command: name, Err: err}
		return d.finish(outcome, depth)
	}
	args, err := Tokenize(expanded, spec.Options.Shellwords)
	if err != nil {
		outcome.Err = &CommandError{Command: name, Err: err}
		return d.finish(outcome, depth)
	}

	inv := &Invocation{
		Command:   spec,
		Line:      line,
		Args:      args,
		Captures:  m.Captures,
		ArgString: argString,
		Block:     block,
		Frame:     frame,
		Output:    d.out,
		State:     d.state.For(spec.Identity()),
		d:         d,
		depth:     depth,
	}

	d.log.Debug("COMMAND_DISPATCH",
		zap.String("command", name),
		zap.Strings("args", args),
		zap.Int("captures", len(m.Captures)),
		zap.Int("depth", depth))

	key := spec.Key()
	for _, h := range d.before[key] {
		if err := h(inv); err != nil {
			outcome.Err = err
			return d.finish(outcome, depth)
		}
	}

	value, err := spec.Handler(inv)
	if err != nil {
		outcome.Err = err
	} else {
		switch v := value.(type) {
		case Terminate:
			outcome.Terminate = &v
		case *Terminate:
			outcome.Terminate = v
		default:
			if spec.Options.KeepReturnValue {
				outcome.ReturnValue = value
			} else {
				outcome.ReturnValue = VoidMarker
			}
		}
	}

	for _, h := range d.after[key] {
		if err := h(inv); err != nil {
			outcome.Err = err
			outcome.ReturnValue = nil
			outcome.Terminate = nil
			break
		}
	}

	return d.finish(outcome, depth)
}

// finish reports command errors once, at the outermost dispatch.
func (d *Dispatcher) finish(outcome DispatchOutcome, depth int) DispatchOutcome {
	if outcome.Err == nil {
		return outcome
	}
	name := ""
	if outcome.Command != nil {
		name = outcome.Command.DisplayName()
	}
	if !IsCommandError(outcome.Err) {
		d.log.Warn("COMMAND_FAILED", zap.String("command", name), zap.Error(outcome.Err))
		return outcome
	}
	d.log.Debug("COMMAND_ERROR", zap.String("command", name), zap.Error(outcome.Err))
	if depth == 0 {
		fmt.Fprintf(d.out, "Error: %v\n", outcome.Err)
	}
	return outcome
}

func (d *Dispatcher) interpolator(frame evaluator.Frame) InterpolateFunc {
	if d.eval == nil {
		return nil
	}
	return func(expr string) (string, error) {
		v, err := d.eval.Evaluate(frame, expr)
		if err != nil {
			return "", err
		}
		return fmt.Sprint(v), nil
	}
}

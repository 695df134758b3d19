// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package session

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/jeranaias/framesh/internal/builtins"
	"github.com/jeranaias/framesh/internal/commands"
	"github.com/jeranaias/framesh/internal/config"
	"github.com/jeranaias/framesh/internal/evaluator"
	"github.com/jeranaias/framesh/internal/navigation"
)

// =============================================================================
// SESSION
// =============================================================================

// Options configure a Session.
type Options struct {
	// Config supplies prefix, dispatch depth, toplevel and prompt settings.
	// Nil means config.Default().
	Config *config.Config

	// Output receives command output. Nil means os.Stdout.
	Output io.Writer

	// Logger may be nil.
	Logger *zap.Logger
}

// Reply describes what the session did with one line.
type Reply struct {
	// Command is set when a command handled the line.
	Command bool

	// Value is the evaluated expression or the kept command return value.
	// HasValue tells a nil result apart from no result.
	Value    evaluator.Result
	HasValue bool

	// Terminate is set when the session should end.
	Terminate *commands.Terminate
}

// Session is one interactive shell session.
type Session struct {
	ID string

	eval       evaluator.Evaluator
	registry   *commands.Registry
	dispatcher *commands.Dispatcher
	resolver   *navigation.Resolver
	stack      navigation.Stack
	root       evaluator.Frame
	onEvaluate []func()

	cfg *config.Config
	out io.Writer
	log *zap.Logger

	mu      sync.Mutex
	pending *config.Config

	started time.Time
	lines   int
}

var _ builtins.Host = (*Session)(nil)

// New starts a session rooted at root.
func New(root evaluator.Frame, eval evaluator.Evaluator, opts Options) (*Session, error) {
	if eval == nil {
		return nil, fmt.Errorf("session: %w", navigation.ErrNoEvaluator)
	}
	cfg := opts.Config
	if cfg == nil {
		cfg = config.Default()
	}
	out := opts.Output
	if out == nil {
		out = os.Stdout
	}
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	s := &Session{
		ID:       uuid.NewString(),
		eval:     eval,
		registry: commands.NewRegistry(),
		resolver: navigation.NewResolver(evaluator.FuncOf(eval), logger),
		stack:    navigation.NewStack(root),
		root:     root,
		cfg:      cfg,
		out:      out,
		started:  time.Now(),
	}
	s.log = logger.With(zap.String("session", s.ID))

	s.dispatcher = commands.NewDispatcher(s.registry, commands.Config{
		Evaluator: eval,
		Frame:     func() evaluator.Frame { return s.stack.Top() },
		Output:    out,
		Logger:    s.log,
		Prefix:    cfg.Commands.Prefix,
		MaxDepth:  cfg.Commands.MaxDispatchDepth,
	})

	if err := s.setToplevel(cfg.Navigation.Toplevel); err != nil {
		return nil, err
	}
	err := builtins.Register(s.dispatcher, s, builtins.Options{
		AliasShellwords:  cfg.Commands.ShellwordsDefault,
		AliasInterpolate: cfg.Commands.InterpolateDefault,
	})
	if err != nil {
		return nil, fmt.Errorf("register builtins: %w", err)
	}

	s.log.Info("SESSION_START", zap.String("frame", eval.DescribeFrame(root)))
	return s, nil
}

// setToplevel evaluates expr from the root to find the "::" frame. An
// empty expression makes "::" behave like "/".
func (s *Session) setToplevel(expr string) error {
	expr = strings.TrimSpace(expr)
	if expr == "" {
		s.resolver.SetToplevel(nil)
		return nil
	}
	f, err := s.eval.Evaluate(s.root, expr)
	if err != nil {
		return fmt.Errorf("navigation.toplevel %q: %w", expr, err)
	}
	s.resolver.SetToplevel(f)
	return nil
}

// HandleLine dispatches line, or evaluates it when it names no command.
//
// Command errors are printed by the dispatcher and do not surface here.
// The returned error is an evaluation failure or a hook/handler error the
// dispatcher could not classify.
func (s *Session) HandleLine(line string) (Reply, error) {
	s.applyPending()
	if strings.TrimSpace(line) == "" {
		return Reply{}, nil
	}
	s.lines++

	outcome := s.dispatcher.Dispatch(line)
	if !outcome.NotACommand {
		reply := Reply{Command: true, Terminate: outcome.Terminate}
		if !outcome.Recoverable() {
			return reply, outcome.Err
		}
		if outcome.Err == nil && outcome.Terminate == nil && outcome.ReturnValue != commands.VoidMarker {
			reply.Value, reply.HasValue = outcome.ReturnValue, true
		}
		return reply, nil
	}

	v, err := s.eval.Evaluate(s.stack.Top(), line)
	if err != nil {
		s.log.Debug("EVAL_FAILED", zap.String("expr", line), zap.Error(err))
		return Reply{}, err
	}
	for _, fn := range s.onEvaluate {
		fn()
	}
	return Reply{Value: v, HasValue: true}, nil
}

// Close ends the session.
func (s *Session) Close() {
	s.log.Info("SESSION_END",
		zap.Int("lines", s.lines),
		zap.Duration("duration", time.Since(s.started)))
}

// =============================================================================
// HOST
// =============================================================================

// Stack returns the live navigation stack.
func (s *Session) Stack() *navigation.Stack { return &s.stack }

// Navigate applies a cd path to the live stack.
func (s *Session) Navigate(path string) error {
	next, err := s.resolver.Navigate(s.stack, path)
	if err != nil {
		return err
	}
	s.stack = next
	return nil
}

// Evaluator returns the session evaluator.
func (s *Session) Evaluator() evaluator.Evaluator { return s.eval }

// OnEvaluate registers fn to run after each successful expression.
func (s *Session) OnEvaluate(fn func()) {
	s.onEvaluate = append(s.onEvaluate, fn)
}

// =============================================================================
// ACCESSORS
// =============================================================================

// Registry returns the session's command registry.
func (s *Session) Registry() *commands.Registry { return s.registry }

// Dispatcher returns the session's dispatcher.
func (s *Session) Dispatcher() *commands.Dispatcher { return s.dispatcher }

// Completer returns a completer bound to the session's registry and
// current prefix.
func (s *Session) Completer() *commands.Completer {
	return commands.NewCompleter(s.registry, s.dispatcher.Prefix)
}

// Output returns where command output goes.
func (s *Session) Output() io.Writer { return s.out }

// Inspect renders a value for display.
func (s *Session) Inspect(v evaluator.Result) string {
	return evaluator.Inspect(s.eval, v)
}

// Config returns the configuration in effect.
func (s *Session) Config() *config.Config {
	s.applyPending()
	return s.cfg
}

// Prompt renders the configured prompt. "%s" is the current frame,
// "%d" the nesting level and "%%" a literal percent sign.
func (s *Session) Prompt() string {
	s.applyPending()
	r := strings.NewReplacer(
		"%%", "%",
		"%d", strconv.Itoa(s.stack.Len()-1),
		"%s", s.eval.DescribeFrame(s.stack.Top()),
	)
	return r.Replace(s.cfg.REPL.Prompt)
}

// =============================================================================
// CONFIG RELOAD
// =============================================================================

// ApplyConfig queues cfg to take effect before the next line. It is safe to
// call from any goroutine.
func (s *Session) ApplyConfig(cfg *config.Config) {
	if cfg == nil {
		return
	}
	s.mu.Lock()
	s.pending = cfg.Clone()
	s.mu.Unlock()
}

func (s *Session) applyPending() {
	s.mu.Lock()
	cfg := s.pending
	s.pending = nil
	s.mu.Unlock()
	if cfg == nil {
		return
	}

	if err := s.setToplevel(cfg.Navigation.Toplevel); err != nil {
		s.log.Warn("CONFIG_APPLY_FAILED", zap.Error(err))
		cfg.Navigation.Toplevel = s.cfg.Navigation.Toplevel
	}
	s.dispatcher.SetPrefix(cfg.Commands.Prefix)
	s.dispatcher.SetMaxDepth(cfg.Commands.MaxDispatchDepth)
	s.cfg = cfg
	s.log.Info("CONFIG_APPLIED",
		zap.String("prefix", cfg.Commands.Prefix),
		zap.Int("max_dispatch_depth", cfg.Commands.MaxDispatchDepth),
		zap.String("prompt", cfg.REPL.Prompt))
}

// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package builtins

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jeranaias/framesh/internal/commands"
	"github.com/jeranaias/framesh/internal/docframe"
	"github.com/jeranaias/framesh/internal/evaluator"
	"github.com/jeranaias/framesh/internal/navigation"
)

const testDoc = `
name: demo
servers:
  - host: alpha
  - host: beta
tags: [x, y]
`

// testHost is a minimal session over a docframe document.
type testHost struct {
	stack    navigation.Stack
	resolver *navigation.Resolver
	eval     *docframe.Evaluator
	hooks    []func()
}

func (h *testHost) Stack() *navigation.Stack       { return &h.stack }
func (h *testHost) Evaluator() evaluator.Evaluator { return h.eval }
func (h *testHost) OnEvaluate(fn func())           { h.hooks = append(h.hooks, fn) }

func (h *testHost) Navigate(path string) error {
	s, err := h.resolver.Navigate(h.stack, path)
	if err != nil {
		return err
	}
	h.stack = s
	return nil
}

// evaluate runs an expression the way the session does, hooks included.
func (h *testHost) evaluate(t *testing.T, expr string) {
	t.Helper()
	_, err := h.eval.Evaluate(h.stack.Top(), expr)
	require.NoError(t, err)
	for _, fn := range h.hooks {
		fn()
	}
}

func setup(t *testing.T) (*commands.Dispatcher, *testHost, *bytes.Buffer) {
	t.Helper()
	v, err := docframe.Decode([]byte(testDoc), docframe.FormatYAML)
	require.NoError(t, err)

	e := docframe.New(nil)
	h := &testHost{
		stack:    navigation.NewStack(docframe.NewRoot("doc", v)),
		resolver: navigation.NewResolver(evaluator.FuncOf(e), nil),
		eval:     e,
	}
	var out bytes.Buffer
	d := commands.NewDispatcher(commands.NewRegistry(), commands.Config{
		Evaluator: e,
		Frame:     func() evaluator.Frame { return h.stack.Top() },
		Output:    &out,
	})
	require.NoError(t, Register(d, h, Options{AliasShellwords: true}))
	return d, h, &out
}

func run(t *testing.T, d *commands.Dispatcher, line string) commands.DispatchOutcome {
	t.Helper()
	outcome := d.Dispatch(line)
	require.False(t, outcome.NotACommand, "line %q", line)
	return outcome
}

func top(h *testHost) string {
	return h.eval.DescribeFrame(h.stack.Top())
}

// =============================================================================
// HELP
// =============================================================================

func TestHelp_Listing(t *testing.T) {
	d, _, out := setup(t)
	require.NoError(t, run(t, d, "help").Err)

	text := out.String()
	for _, want := range []string{"Context\n", "Shell\n", "  cd ", "whereami", shellListing, "quit"} {
		assert.Contains(t, text, want)
	}
	assert.Less(t, strings.Index(text, "Commands\n"), strings.Index(text, "Context\n"))
}

func TestHelp_Detail(t *testing.T) {
	d, _, out := setup(t)
	require.NoError(t, run(t, d, "help exit").Err)
	assert.Contains(t, out.String(), "Usage: exit [value]")
	assert.Contains(t, out.String(), "Aliases: quit")
}

func TestHelp_Search(t *testing.T) {
	d, _, out := setup(t)
	require.NoError(t, run(t, d, "help wherami").Err)
	assert.Contains(t, out.String(), "Did you mean")
	assert.Contains(t, out.String(), "whereami")

	out.Reset()
	outcome := run(t, d, "help qqqqqq")
	assert.True(t, commands.IsCommandError(outcome.Err))
	assert.Contains(t, out.String(), "Error:")
}

// =============================================================================
// NAVIGATION
// =============================================================================

func TestCd(t *testing.T) {
	d, h, _ := setup(t)

	require.NoError(t, run(t, d, "cd servers/[1]").Err)
	assert.Equal(t, 3, h.stack.Len())
	assert.Equal(t, "servers[1]", top(h))

	require.NoError(t, run(t, d, "cd ..").Err)
	assert.Equal(t, "servers", top(h))

	require.NoError(t, run(t, d, "cd -").Err)
	assert.Equal(t, "servers[1]", top(h))

	require.NoError(t, run(t, d, "cd").Err)
	assert.Equal(t, 1, h.stack.Len())
}

func TestCd_FailureLeavesStack(t *testing.T) {
	d, h, out := setup(t)
	require.NoError(t, run(t, d, "cd servers").Err)

	outcome := run(t, d, "cd [0]/bogus")
	var navErr *navigation.NavigationError
	require.ErrorAs(t, outcome.Err, &navErr)
	assert.True(t, commands.IsCommandError(outcome.Err))
	assert.Equal(t, "servers", top(h))
	assert.Contains(t, out.String(), "Error: cd:")
}

func TestCd_Hint(t *testing.T) {
	d, _, out := setup(t)
	run(t, d, "cd servrs")
	assert.Contains(t, out.String(), "did you mean servers?")
}

func TestCd_Completion(t *testing.T) {
	d, _, _ := setup(t)
	spec, ok := d.Registry().Find("cd")
	require.True(t, ok)

	assert.Equal(t, []string{"servers"}, spec.CompleteArgs("se"))
	assert.Equal(t, []string{"servers/[0]", "servers/[1]"}, spec.CompleteArgs("servers/["))
	assert.Nil(t, spec.CompleteArgs("bogus/x"))
}

func TestNestingAndJumpTo(t *testing.T) {
	d, h, out := setup(t)
	require.NoError(t, run(t, d, "cd servers/[0]").Err)

	require.NoError(t, run(t, d, "nesting").Err)
	assert.Contains(t, out.String(), "  0. doc\n")
	assert.Contains(t, out.String(), "* 2. servers[0]\n")

	out.Reset()
	require.NoError(t, run(t, d, "jump-to 2").Err)
	assert.Contains(t, out.String(), "Already at nesting level 2")

	require.NoError(t, run(t, d, "jump-to 1").Err)
	assert.Equal(t, "servers", top(h))

	outcome := run(t, d, "jump-to 7")
	var rangeErr *navigation.IndexOutOfRangeError
	assert.ErrorAs(t, outcome.Err, &rangeErr)

	assert.True(t, commands.IsCommandError(run(t, d, "jump-to x").Err))

	var missing *commands.MissingArgumentError
	assert.ErrorAs(t, run(t, d, "jump-to").Err, &missing)
}

func TestExit(t *testing.T) {
	d, h, _ := setup(t)
	require.NoError(t, run(t, d, "cd servers").Err)

	outcome := run(t, d, "exit")
	require.NoError(t, outcome.Err)
	assert.Nil(t, outcome.Terminate)
	assert.Equal(t, 1, h.stack.Len())

	outcome = run(t, d, "quit")
	require.NotNil(t, outcome.Terminate)
	assert.Nil(t, outcome.Terminate.Value)
}

func TestExitAll(t *testing.T) {
	d, _, _ := setup(t)
	require.NoError(t, run(t, d, "cd servers/[0]").Err)

	outcome := run(t, d, "exit-all host")
	require.NoError(t, outcome.Err)
	require.NotNil(t, outcome.Terminate)
	node, ok := outcome.Terminate.Value.(*docframe.Node)
	require.True(t, ok)
	assert.Equal(t, "alpha", node.Value)

	assert.True(t, commands.IsCommandError(run(t, d, "exit-all nothing").Err))
}

func TestWhereami(t *testing.T) {
	d, _, out := setup(t)
	require.NoError(t, run(t, d, "cd servers/[0]").Err)
	require.NoError(t, run(t, d, "whereami").Err)

	assert.Contains(t, out.String(), "Inside servers[0] (nesting level 2)")
	assert.Contains(t, out.String(), "Path: doc > servers > servers[0]")
}

// =============================================================================
// LS
// =============================================================================

func TestLs(t *testing.T) {
	d, _, out := setup(t)

	require.NoError(t, run(t, d, "ls").Err)
	assert.Equal(t, "name     servers  tags\n", out.String())

	out.Reset()
	require.NoError(t, run(t, d, "ls -g SER").Err)
	assert.Equal(t, "servers\n", out.String())

	out.Reset()
	require.NoError(t, run(t, d, "ls tags").Err)
	assert.Equal(t, "[0]  [1]\n", out.String())

	assert.True(t, commands.IsCommandError(run(t, d, "ls name").Err))
	assert.True(t, commands.IsCommandError(run(t, d, "ls -g").Err))
}

func TestColumns(t *testing.T) {
	names := []string{"aaaa", "bb", "c"}
	assert.Equal(t, "aaaa  bb\nc\n", columns(names, 12))
	assert.Equal(t, "", columns(nil, 80))
}

// =============================================================================
// WATCH
// =============================================================================

func TestWatch(t *testing.T) {
	d, h, out := setup(t)

	require.NoError(t, run(t, d, "watch name").Err)
	assert.Contains(t, out.String(), `watch: name => "demo"`)

	out.Reset()
	h.evaluate(t, "tags")
	assert.Empty(t, out.String(), "unchanged values are not reported")

	h.evaluate(t, "name = changed")
	assert.Equal(t, "watch: name => \"changed\"\n", out.String())

	out.Reset()
	require.NoError(t, run(t, d, "watch -l").Err)
	assert.Contains(t, out.String(), `1: name => "changed"`)

	require.NoError(t, run(t, d, "watch tags[0]").Err)
	require.NoError(t, run(t, d, "watch -d 1").Err)
	items := newWatchList(d.State().For(watchKey)).items()
	require.Len(t, items, 1)
	assert.Equal(t, "tags[0]", items[0].Expr)

	assert.True(t, commands.IsCommandError(run(t, d, "watch -d 9").Err))
	assert.True(t, commands.IsCommandError(run(t, d, "watch bogus").Err))

	require.NoError(t, run(t, d, "watch -d").Err)
	assert.Empty(t, newWatchList(d.State().For(watchKey)).items())
}

// =============================================================================
// ALIAS-COMMAND
// =============================================================================

func TestAliasCommand(t *testing.T) {
	d, _, out := setup(t)

	require.NoError(t, run(t, d, `alias-command lss "ls -g ser"`).Err)
	out.Reset()
	require.NoError(t, run(t, d, "lss").Err)
	assert.Equal(t, "servers\n", out.String())

	require.NoError(t, run(t, d, `alias-command bye exit -d "Leave now"`).Err)
	spec, ok := d.Registry().Find("bye")
	require.True(t, ok)
	assert.Equal(t, "exit", spec.Identity())
	assert.Equal(t, "Leave now", spec.Description)

	assert.True(t, commands.IsCommandError(run(t, d, "alias-command only").Err))
	assert.True(t, commands.IsCommandError(run(t, d, "alias-command x nothing-here").Err))
	assert.True(t, commands.IsCommandError(run(t, d, "alias-command bye exit").Err))
}

// =============================================================================
// SHELL
// =============================================================================

func TestShell_Run(t *testing.T) {
	d, _, out := setup(t)

	require.NoError(t, run(t, d, ".echo hi there").Err)
	assert.Equal(t, "hi there\n", out.String())

	out.Reset()
	require.NoError(t, run(t, d, ".echo #{name}").Err)
	assert.Equal(t, "demo\n", out.String())

	out.Reset()
	outcome := run(t, d, ".exit 3")
	require.Error(t, outcome.Err)
	assert.Contains(t, outcome.Err.Error(), "exit status 3")

	assert.True(t, commands.IsCommandError(run(t, d, ".").Err))
	assert.True(t, commands.IsCommandError(run(t, d, ".echo 'unterminated").Err))
}

func TestShell_AliasByListingName(t *testing.T) {
	d, _, out := setup(t)

	require.NoError(t, run(t, d, `alias-command sh '.<shell command>'`).Err)
	out.Reset()
	var outcome commands.DispatchOutcome
	require.NotPanics(t, func() { outcome = run(t, d, "sh echo hi") })
	require.NoError(t, outcome.Err)
	assert.Equal(t, "hi\n", out.String())

	assert.True(t, commands.IsCommandError(run(t, d, "sh").Err), "no shell command given")
}

func TestShell_Cd(t *testing.T) {
	orig, err := os.Getwd()
	require.NoError(t, err)
	t.Cleanup(func() { os.Chdir(orig) })

	d, _, out := setup(t)
	a, err := filepath.EvalSymlinks(t.TempDir())
	require.NoError(t, err)
	b, err := filepath.EvalSymlinks(t.TempDir())
	require.NoError(t, err)

	assert.True(t, commands.IsCommandError(run(t, d, ".cd -").Err), "no previous directory yet")

	require.NoError(t, run(t, d, ".cd "+a).Err)
	require.NoError(t, run(t, d, ".cd "+b).Err)
	wd, _ := os.Getwd()
	assert.Equal(t, b, wd)

	out.Reset()
	require.NoError(t, run(t, d, ".cd -").Err)
	wd, _ = os.Getwd()
	assert.Equal(t, a, wd)
	assert.Equal(t, a+"\n", out.String())

	assert.True(t, commands.IsCommandError(run(t, d, ".cd "+filepath.Join(a, "missing")).Err))
	assert.True(t, commands.IsCommandError(run(t, d, ".cd a b").Err))
}

// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package session

import (
	"bytes"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jeranaias/framesh/internal/commands"
	"github.com/jeranaias/framesh/internal/config"
	"github.com/jeranaias/framesh/internal/docframe"
)

const sampleDoc = `{
  "name": "demo",
  "servers": [{"host": "alpha"}, {"host": "beta"}],
  "app": {"env": {"region": "eu"}}
}`

func newSession(t *testing.T, cfg *config.Config) (*Session, *bytes.Buffer) {
	t.Helper()
	v, err := docframe.Decode([]byte(sampleDoc), docframe.FormatJSON)
	require.NoError(t, err)

	var out bytes.Buffer
	s, err := New(docframe.NewRoot("doc", v), docframe.New(nil), Options{Config: cfg, Output: &out})
	require.NoError(t, err)
	t.Cleanup(s.Close)
	return s, &out
}

func handle(t *testing.T, s *Session, line string) Reply {
	t.Helper()
	reply, err := s.HandleLine(line)
	require.NoError(t, err, "line %q", line)
	return reply
}

func TestNew(t *testing.T) {
	s, _ := newSession(t, nil)

	_, err := uuid.Parse(s.ID)
	assert.NoError(t, err)
	assert.Equal(t, 1, s.Stack().Len())
	assert.Equal(t, "[0] framesh(doc)> ", s.Prompt())

	_, ok := s.Registry().Find("cd")
	assert.True(t, ok)
}

func TestNew_NilEvaluator(t *testing.T) {
	_, err := New("root", nil, Options{})
	assert.Error(t, err)
}

func TestHandleLine_Evaluates(t *testing.T) {
	s, _ := newSession(t, nil)

	reply := handle(t, s, "name")
	assert.False(t, reply.Command)
	require.True(t, reply.HasValue)
	assert.Equal(t, `"demo"`, s.Inspect(reply.Value))

	assert.Equal(t, Reply{}, handle(t, s, "   "))

	_, err := s.HandleLine("missing")
	var undef *docframe.UndefinedError
	assert.ErrorAs(t, err, &undef)
}

func TestHandleLine_LeadingSpaceBypassesCommands(t *testing.T) {
	s, _ := newSession(t, nil)
	_, err := s.HandleLine("name = whereami")
	require.NoError(t, err)

	reply := handle(t, s, " name")
	assert.False(t, reply.Command)
	assert.Equal(t, `"whereami"`, s.Inspect(reply.Value))
}

func TestHandleLine_Navigation(t *testing.T) {
	s, out := newSession(t, nil)

	reply := handle(t, s, "cd servers/[0]")
	assert.True(t, reply.Command)
	assert.False(t, reply.HasValue)
	assert.Equal(t, "[2] framesh(servers[0])> ", s.Prompt())

	handle(t, s, "cd ../[1]")
	assert.Equal(t, "servers[1]", s.Evaluator().DescribeFrame(s.Stack().Top()))

	handle(t, s, "cd -")
	assert.Equal(t, "servers[0]", s.Evaluator().DescribeFrame(s.Stack().Top()))
	handle(t, s, "cd -")
	assert.Equal(t, "servers[1]", s.Evaluator().DescribeFrame(s.Stack().Top()))

	reply = handle(t, s, "host")
	assert.Equal(t, `"beta"`, s.Inspect(reply.Value))

	handle(t, s, "cd /@app/@env")
	assert.Equal(t, 3, s.Stack().Len())
	assert.Equal(t, `"eu"`, s.Inspect(handle(t, s, "region").Value))

	out.Reset()
	handle(t, s, "cd nowhere")
	assert.Contains(t, out.String(), "Error: cd:")
	assert.Equal(t, 3, s.Stack().Len())
}

func TestHandleLine_Terminate(t *testing.T) {
	s, _ := newSession(t, nil)

	handle(t, s, "cd app")
	reply := handle(t, s, "exit")
	assert.Nil(t, reply.Terminate)

	reply = handle(t, s, "exit name")
	require.NotNil(t, reply.Terminate)
	assert.False(t, reply.HasValue)
	assert.Equal(t, `"demo"`, s.Inspect(reply.Terminate.Value))
}

func TestHandleLine_WatchAfterEvaluation(t *testing.T) {
	s, out := newSession(t, nil)

	handle(t, s, "watch name")
	out.Reset()
	handle(t, s, "name = renamed")
	assert.Equal(t, "watch: name => \"renamed\"\n", out.String())
}

func TestHandleLine_KeptReturnValue(t *testing.T) {
	s, _ := newSession(t, nil)
	require.NoError(t, s.Registry().Register(&commands.CommandSpec{
		Name:    "answer",
		Options: commands.Options{KeepReturnValue: true},
		Handler: func(*commands.Invocation) (any, error) { return 42, nil },
	}))

	reply := handle(t, s, "answer")
	assert.True(t, reply.Command)
	require.True(t, reply.HasValue)
	assert.Equal(t, 42, reply.Value)
}

func TestHandleLine_HookFailureSurfaces(t *testing.T) {
	s, _ := newSession(t, nil)
	boom := errors.New("boom")
	s.Dispatcher().Before("whereami", func(*commands.Invocation) error { return boom })

	reply, err := s.HandleLine("whereami")
	assert.True(t, reply.Command)
	assert.ErrorIs(t, err, boom)
}

func TestToplevel(t *testing.T) {
	cfg := config.Default()
	cfg.Navigation.Toplevel = "app"
	s, _ := newSession(t, cfg)

	handle(t, s, "cd servers/[0]")
	handle(t, s, "cd ::/env")
	assert.Equal(t, 3, s.Stack().Len())
	assert.Equal(t, "app.env", s.Evaluator().DescribeFrame(s.Stack().Top()))

	bad := config.Default()
	bad.Navigation.Toplevel = "nothing"
	v, err := docframe.Decode([]byte(sampleDoc), docframe.FormatJSON)
	require.NoError(t, err)
	_, err = New(docframe.NewRoot("doc", v), docframe.New(nil), Options{Config: bad, Output: &bytes.Buffer{}})
	assert.Error(t, err)
}

func TestApplyConfig(t *testing.T) {
	s, _ := newSession(t, nil)

	cfg := config.Default()
	cfg.Commands.Prefix = "!"
	cfg.REPL.Prompt = "%s%% "
	cfg.Commands.MaxDispatchDepth = 5
	s.ApplyConfig(cfg)

	assert.Equal(t, "doc% ", s.Prompt())
	assert.Equal(t, "!", s.Dispatcher().Prefix())
	assert.Equal(t, 5, s.Dispatcher().MaxDepth())

	_, err := s.HandleLine("whereami")
	assert.Error(t, err, "unprefixed command names are expressions now")

	reply := handle(t, s, "!whereami")
	assert.True(t, reply.Command)

	cfg.Commands.Prefix = ""
	assert.Equal(t, "!", s.Config().Commands.Prefix, "applied configs are copies")
}

func TestApplyConfig_BadToplevelKeepsOld(t *testing.T) {
	s, _ := newSession(t, nil)

	cfg := config.Default()
	cfg.Navigation.Toplevel = "nothing"
	cfg.REPL.Prompt = "> "
	s.ApplyConfig(cfg)

	assert.Equal(t, "> ", s.Prompt())
	assert.Equal(t, "", s.Config().Navigation.Toplevel)
}

func TestCompleter(t *testing.T) {
	s, _ := newSession(t, nil)
	assert.Contains(t, s.Completer().Complete("whe"), "whereami")
}

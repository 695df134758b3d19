// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package repl

import (
	"bytes"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jeranaias/framesh/internal/docframe"
	"github.com/jeranaias/framesh/internal/session"
)

func newSession(t *testing.T, out io.Writer) *session.Session {
	t.Helper()
	v, err := docframe.Decode([]byte("name: demo\nservers:\n  - host: alpha\n"), docframe.FormatYAML)
	require.NoError(t, err)
	s, err := session.New(docframe.NewRoot("doc", v), docframe.New(nil), session.Options{Output: out})
	require.NoError(t, err)
	return s
}

func TestRun_PipedInput(t *testing.T) {
	var out, errOut bytes.Buffer
	s := newSession(t, &out)

	in := strings.NewReader("name\ncd servers/[0]\nwhereami\nmissing\n")
	term, err := Run(s, Options{In: in, Out: &out, Err: &errOut, Color: true})
	require.NoError(t, err)
	assert.Nil(t, term)

	assert.Contains(t, out.String(), "=> \"demo\"\n")
	assert.Contains(t, out.String(), "Inside servers[0] (nesting level 2)")
	assert.NotContains(t, out.String(), "framesh(", "piped input is not prompted")
	assert.Contains(t, errOut.String(), "Error: ")
	assert.Contains(t, errOut.String(), "missing")
	assert.NotContains(t, errOut.String(), "\x1b[", "piped sessions are not colored")
}

func TestRun_Terminate(t *testing.T) {
	var out bytes.Buffer
	s := newSession(t, &out)

	in := strings.NewReader("exit-all name\nname\n")
	term, err := Run(s, Options{In: in, Out: &out, Err: io.Discard})
	require.NoError(t, err)
	require.NotNil(t, term)
	assert.Equal(t, `"demo"`, s.Inspect(term.Value))
	assert.Empty(t, out.String(), "lines after exit are not read")
}

type failingReader struct{}

func (failingReader) Read([]byte) (int, error) { return 0, errors.New("broken pipe") }

func TestRun_ReadError(t *testing.T) {
	s := newSession(t, io.Discard)
	_, err := Run(s, Options{In: failingReader{}, Out: io.Discard, Err: io.Discard})
	assert.ErrorContains(t, err, "broken pipe")
}

func TestExec(t *testing.T) {
	var out bytes.Buffer
	s := newSession(t, &out)

	term, err := Exec(s, []string{"cd servers", "ls", "exit", "exit 7"}, Options{Out: &out, Err: io.Discard})
	require.NoError(t, err)
	require.NotNil(t, term)
	assert.Equal(t, "7", s.Inspect(term.Value))
	assert.Contains(t, out.String(), "[0]\n")
}

func TestNewStyles_NoColor(t *testing.T) {
	styles := NewStyles(io.Discard, false)
	assert.Equal(t, "Error:", styles.Error.Render("Error:"))
	assert.Equal(t, "=> 1", styles.Result.Render("=> 1"))
}

func TestSliceReader(t *testing.T) {
	r := &sliceReader{lines: []string{"a", "b"}}
	for _, want := range []string{"a", "b"} {
		got, err := r.ReadLine("")
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}
	_, err := r.ReadLine("")
	assert.ErrorIs(t, err, io.EOF)
}

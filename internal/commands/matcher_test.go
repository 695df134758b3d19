// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package commands

import (
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// =============================================================================
// MATCHER TESTS
// =============================================================================

func TestMatch_NameBoundary(t *testing.T) {
	r := NewRegistry()
	mustRegister(t, r, literal("foo"), literal("foobar"))

	tests := []struct {
		line    string
		want    string
		wantEnd int
		ok      bool
	}{
		{"foo", "foo", 3, true},
		{"foo bar", "foo", 3, true},
		{"foobar", "foobar", 6, true},
		{"foobar baz", "foobar", 6, true},
		{"foox", "", 0, false},
		{"fo", "", 0, false},
		{" foo", "", 0, false},
		{"\tfoo", "", 0, false},
		{"", "", 0, false},
	}
	for _, tc := range tests {
		m, ok := Match(tc.line, r, "")
		assert.Equal(t, tc.ok, ok, "line %q", tc.line)
		if tc.ok {
			assert.Equal(t, tc.want, m.Spec.Name, "line %q", tc.line)
			assert.Equal(t, tc.wantEnd, m.End, "line %q", tc.line)
		}
	}
}

func TestMatch_LongestNameWins(t *testing.T) {
	r := NewRegistry()
	mustRegister(t, r, literal("show"), literal("show doc"))

	m, ok := Match("show doc intro", r, "")
	require.True(t, ok)
	assert.Equal(t, "show doc", m.Spec.Name)
	assert.Equal(t, 8, m.Score)

	m, ok = Match("show docs", r, "")
	require.True(t, ok)
	assert.Equal(t, "show", m.Spec.Name)
}

func TestMatch_TieGoesToFirstRegistered(t *testing.T) {
	r := NewRegistry()
	first := &CommandSpec{Name: `a(.*)`, Pattern: regexp.MustCompile(`a(.*)`), ListingName: "a-one", Handler: noop}
	second := &CommandSpec{Name: `a(.*)`, Pattern: regexp.MustCompile(`a(.*)`), ListingName: "a-two", Handler: noop}
	mustRegister(t, r, first, second)

	m, ok := Match("abc", r, "")
	require.True(t, ok)
	assert.Same(t, first, m.Spec)
}

func TestMatch_PatternCaptures(t *testing.T) {
	r := NewRegistry()
	mustRegister(t, r, &CommandSpec{
		Name:        `\.(.*)`,
		Pattern:     regexp.MustCompile(`\.(.*)`),
		ListingName: ".<shell command>",
		Handler:     noop,
	})

	m, ok := Match(".ls -l", r, "")
	require.True(t, ok)
	assert.Equal(t, []string{"ls -l"}, m.Captures)
	assert.Equal(t, 6, m.End)
	assert.Equal(t, 1, m.Score)
}

func TestMatch_OptionalGroupIsEmpty(t *testing.T) {
	r := NewRegistry()
	mustRegister(t, r, &CommandSpec{
		Name:        `go(?:to)?(?: (\d+))?`,
		Pattern:     regexp.MustCompile(`go(?:to)?(?: (\d+))?`),
		ListingName: "goto",
		Handler:     noop,
	})

	m, ok := Match("goto", r, "")
	require.True(t, ok)
	assert.Equal(t, []string{""}, m.Captures)

	m, ok = Match("go 3", r, "")
	require.True(t, ok)
	assert.Equal(t, []string{"3"}, m.Captures)
}

func TestMatch_LiteralBeatsLoosePattern(t *testing.T) {
	r := NewRegistry()
	mustRegister(t, r,
		&CommandSpec{Name: `c(.*)`, Pattern: regexp.MustCompile(`c(.*)`), ListingName: "c*", Handler: noop},
		literal("cd"),
	)

	m, ok := Match("cd foo", r, "")
	require.True(t, ok)
	assert.Equal(t, "cd", m.Spec.Name)
}

func TestMatch_Prefix(t *testing.T) {
	r := NewRegistry()
	mustRegister(t, r,
		literal("cd"),
		&CommandSpec{Name: "help", Options: Options{NoPrefix: true}, Handler: noop},
	)

	_, ok := Match("cd /", r, "%")
	assert.False(t, ok, "prefixed command needs the prefix")

	m, ok := Match("%cd /", r, "%")
	require.True(t, ok)
	assert.Equal(t, "cd", m.Spec.Name)
	assert.Equal(t, 3, m.End)

	m, ok = Match("help", r, "%")
	require.True(t, ok)
	assert.Equal(t, "help", m.Spec.Name)

	m, ok = Match("%help", r, "%")
	require.True(t, ok)
	assert.Equal(t, 5, m.End)

	_, ok = Match("%nope", r, "%")
	assert.False(t, ok)
}

func TestMatch_NoPrefixConfigured(t *testing.T) {
	r := NewRegistry()
	mustRegister(t, r, literal("cd"))

	m, ok := Match("cd", r, "")
	require.True(t, ok)
	assert.Equal(t, "cd", m.Spec.Name)
}

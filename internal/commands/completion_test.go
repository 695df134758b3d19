// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package commands

import (
	"regexp"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

// =============================================================================
// COMPLETER TESTS
// =============================================================================

func completionRegistry(t *testing.T) *Registry {
	t.Helper()
	r := NewRegistry()
	mustRegister(t, r,
		&CommandSpec{Name: "cd", Handler: noop, CompleteArgs: func(partial string) []string {
			var out []string
			for _, v := range []string{"alpha", "alps", "beta"} {
				if strings.HasPrefix(v, partial) {
					out = append(out, v)
				}
			}
			return out
		}},
		literal("cat"),
		&CommandSpec{Name: "help", Options: Options{NoPrefix: true}, Handler: noop},
		&CommandSpec{Name: `\.(.*)`, Pattern: regexp.MustCompile(`\.(.*)`), ListingName: ".<shell>", Handler: noop},
	)
	return r
}

func TestCompleter_CommandNames(t *testing.T) {
	c := NewCompleter(completionRegistry(t), nil)

	assert.Equal(t, []string{"cd", "cat"}, c.Complete("c"))
	assert.Equal(t, []string{"help"}, c.Complete("he"))
	assert.Equal(t, []string{"cd"}, c.Complete("cd"))
	assert.Nil(t, c.Complete("zz"))
	assert.Nil(t, c.Complete(" c"))
	assert.Nil(t, c.Complete("."), "listing names with placeholders are not typeable")
}

func TestCompleter_Prefix(t *testing.T) {
	c := NewCompleter(completionRegistry(t), func() string { return "%" })

	assert.ElementsMatch(t, []string{"%cd", "%cat"}, c.Complete("%c"))
	assert.Equal(t, []string{"help"}, c.Complete("h"))
	assert.Equal(t, []string{"%help"}, c.Complete("%h"))
}

func TestCompleter_Arguments(t *testing.T) {
	c := NewCompleter(completionRegistry(t), nil)

	assert.ElementsMatch(t, []string{"cd alpha", "cd alps"}, c.Complete("cd al"))
	assert.ElementsMatch(t, []string{"cd alpha", "cd alps", "cd beta"}, c.Complete("cd "))
	assert.Equal(t, []string{"cd x beta"}, c.Complete("cd x b"))
	assert.Nil(t, c.Complete("cat fi"))
}

func TestCalculateScore(t *testing.T) {
	assert.Greater(t, calculateScore("cd", "cd"), calculateScore("cdx", "cd"))
	assert.Greater(t, calculateScore("cd", "c"), calculateScore("cat", "c"))
}

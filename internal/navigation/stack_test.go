// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package navigation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jeranaias/framesh/internal/evaluator"
)

func TestStack_PushPop(t *testing.T) {
	s := NewStack("root")
	s.Push("a")
	s.Push("b")
	assert.Equal(t, 3, s.Len())
	assert.Equal(t, "b", s.Top())

	f, ok := s.Pop()
	assert.True(t, ok)
	assert.Equal(t, "b", f)

	s.Pop()
	f, ok = s.Pop()
	assert.False(t, ok, "root must never be popped")
	assert.Nil(t, f)
	assert.Equal(t, 1, s.Len())
	assert.Equal(t, "root", s.Top())
}

func TestStack_TruncateAfter(t *testing.T) {
	tests := []struct {
		name    string
		index   int
		wantErr bool
		want    []evaluator.Frame
	}{
		{"to root", 0, false, []evaluator.Frame{"root"}},
		{"middle", 1, false, []evaluator.Frame{"root", "a"}},
		{"top is out of range", 3, true, nil},
		{"negative", -1, true, nil},
		{"past end", 9, true, nil},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			s := StackOf("root", "a", "b", "c")
			err := s.TruncateAfter(tc.index)
			if tc.wantErr {
				var rangeErr *IndexOutOfRangeError
				require.ErrorAs(t, err, &rangeErr)
				assert.Equal(t, tc.index, rangeErr.Index)
				assert.Equal(t, 4, s.Len(), "failed truncation must not change the stack")
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.want, s.Frames())
		})
	}
}

func TestStack_TruncateAfterRootOnly(t *testing.T) {
	s := NewStack("root")
	err := s.TruncateAfter(0)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "only holds the root")
}

func TestStack_CloneIsIndependent(t *testing.T) {
	s := StackOf("root", "a")
	c := s.Clone()
	c.Pop()
	c.Push("z")

	assert.Equal(t, []evaluator.Frame{"root", "a"}, s.Frames())
	assert.Equal(t, []evaluator.Frame{"root", "z"}, c.Frames())
}

func TestStack_Zero(t *testing.T) {
	var s Stack
	assert.True(t, s.IsZero())
	assert.Nil(t, s.Top())
	assert.Nil(t, s.Root())
	assert.True(t, s.Clone().IsZero())
}

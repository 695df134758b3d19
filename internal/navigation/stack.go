// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package navigation

import (
	"fmt"

	"github.com/jeranaias/framesh/internal/evaluator"
)

// =============================================================================
// STACK
// =============================================================================

// Stack is an ordered sequence of frame handles. Index 0 is the session root.
//
// A Stack built with NewStack always holds at least one frame. The zero Stack
// is empty and only used to mean "no stack" (for example, no saved stack yet).
type Stack struct {
	frames []evaluator.Frame
}

// NewStack creates a stack holding only the root frame.
func NewStack(root evaluator.Frame) Stack {
	return Stack{frames: []evaluator.Frame{root}}
}

// StackOf creates a stack from the given frames, root first.
func StackOf(root evaluator.Frame, rest ...evaluator.Frame) Stack {
	frames := make([]evaluator.Frame, 0, len(rest)+1)
	frames = append(frames, root)
	frames = append(frames, rest...)
	return Stack{frames: frames}
}

// Push appends a frame.
func (s *Stack) Push(f evaluator.Frame) {
	s.frames = append(s.frames, f)
}

// Pop removes and returns the top frame. The root is never removed: at
// length 1 Pop is a no-op and returns ok=false.
func (s *Stack) Pop() (evaluator.Frame, bool) {
	if len(s.frames) <= 1 {
		return nil, false
	}
	last := len(s.frames) - 1
	f := s.frames[last]
	s.frames[last] = nil
	s.frames = s.frames[:last]
	return f, true
}

// TruncateAfter removes every frame after index. index must be in
// [0, Len()-1); truncating after the top frame is reported as out of range.
func (s *Stack) TruncateAfter(index int) error {
	if index < 0 || index >= len(s.frames)-1 {
		return &IndexOutOfRangeError{Index: index, Len: len(s.frames)}
	}
	s.truncate(index + 1)
	return nil
}

// truncate shortens the stack to n frames, clearing dropped slots so the
// backing array does not pin them.
func (s *Stack) truncate(n int) {
	if n >= len(s.frames) {
		return
	}
	for i := n; i < len(s.frames); i++ {
		s.frames[i] = nil
	}
	s.frames = s.frames[:n]
}

// Top returns the current frame, or nil for the zero Stack.
func (s Stack) Top() evaluator.Frame {
	if len(s.frames) == 0 {
		return nil
	}
	return s.frames[len(s.frames)-1]
}

// Root returns the session root frame, or nil for the zero Stack.
func (s Stack) Root() evaluator.Frame {
	if len(s.frames) == 0 {
		return nil
	}
	return s.frames[0]
}

// At returns the frame at index i.
func (s Stack) At(i int) evaluator.Frame {
	return s.frames[i]
}

// Len returns the number of frames.
func (s Stack) Len() int {
	return len(s.frames)
}

// IsZero reports whether s holds no frames at all.
func (s Stack) IsZero() bool {
	return len(s.frames) == 0
}

// Frames returns a copy of the frame handles, root first.
func (s Stack) Frames() []evaluator.Frame {
	out := make([]evaluator.Frame, len(s.frames))
	copy(out, s.frames)
	return out
}

// Clone copies the handle sequence. Frames themselves are shared.
func (s Stack) Clone() Stack {
	if s.frames == nil {
		return Stack{}
	}
	return Stack{frames: s.Frames()}
}

func (s Stack) String() string {
	return fmt.Sprintf("Stack%v", s.frames)
}

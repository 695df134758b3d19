// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package commands

// State is one command's key/value store.
type State map[string]any

// PersistentState keeps per-command state for the life of a session.
// Buckets are created on first use and never dropped.
type PersistentState struct {
	buckets map[string]State
}

// NewPersistentState creates an empty store.
func NewPersistentState() *PersistentState {
	return &PersistentState{buckets: make(map[string]State)}
}

// For returns the bucket for a command identity, creating it if needed.
func (p *PersistentState) For(identity string) State {
	b, ok := p.buckets[identity]
	if !ok {
		b = make(State)
		p.buckets[identity] = b
	}
	return b
}

// Has reports whether a bucket exists for identity.
func (p *PersistentState) Has(identity string) bool {
	_, ok := p.buckets[identity]
	return ok
}

// Len returns the number of buckets created so far.
func (p *PersistentState) Len() int {
	return len(p.buckets)
}

// String returns the value at key as a string, or "".
func (s State) String(key string) string {
	v, _ := s[key].(string)
	return v
}

// Strings returns the value at key as a string slice, or nil.
func (s State) Strings(key string) []string {
	v, _ := s[key].([]string)
	return v
}

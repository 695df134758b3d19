// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package commands

import (
	"errors"
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/lithammer/fuzzysearch/fuzzy"
)

// DefaultGroup is used for commands registered without a Group.
const DefaultGroup = "Misc"

// =============================================================================
// COMMAND REGISTRY
// =============================================================================

// Registry holds command definitions keyed by name. Lookup ignores order;
// help listings and match tie-breaks follow registration order.
type Registry struct {
	commands map[string]*CommandSpec
	listing  map[string]string // listing name -> key
	order    []string
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		commands: make(map[string]*CommandSpec),
		listing:  make(map[string]string),
	}
}

// Register adds a command. It fails with *DuplicateCommandError when the key
// or the listing name is already taken.
func (r *Registry) Register(spec *CommandSpec) error {
	if err := validateSpec(spec); err != nil {
		return err
	}
	key := spec.Key()
	if r.taken(key) {
		return &DuplicateCommandError{Key: key}
	}
	if spec.ListingName != "" && spec.ListingName != key && r.taken(spec.ListingName) {
		return &DuplicateCommandError{Key: spec.ListingName}
	}
	r.put(spec)
	return nil
}

// Delete removes commands by key or listing name. Missing keys are ignored.
func (r *Registry) Delete(keys ...string) {
	for _, k := range keys {
		key, ok := r.resolve(k)
		if !ok {
			continue
		}
		r.remove(key)
	}
}

// AliasOption customizes an alias created by Alias.
type AliasOption func(*CommandSpec)

// WithDescription sets the alias description.
func WithDescription(desc string) AliasOption {
	return func(c *CommandSpec) { c.Description = desc }
}

// WithGroup sets the alias help group.
func WithGroup(group string) AliasOption {
	return func(c *CommandSpec) { c.Group = group }
}

// WithArgumentHandling sets how the alias prepares its own arguments.
func WithArgumentHandling(shellwords, interpolate bool) AliasOption {
	return func(c *CommandSpec) {
		c.Options.Shellwords = shellwords
		c.Options.Interpolate = interpolate
	}
}

// Alias registers newKey for an existing command.
//
// When existing is a registry key the alias shares the command's handler,
// options and persistent state. Otherwise existing is treated as a command
// line (e.g. "ls -k"): the alias re-dispatches that line followed by its own
// arguments. Either way *NotFoundError is returned if nothing matches.
func (r *Registry) Alias(newKey, existing string, opts ...AliasOption) error {
	if r.taken(newKey) {
		return &DuplicateCommandError{Key: newKey}
	}

	if orig, ok := r.Find(existing); ok {
		alias := *orig
		alias.Name = newKey
		alias.Pattern = nil
		alias.anchored = nil
		alias.ListingName = ""
		alias.aliasOf = orig.Identity()
		alias.Description = fmt.Sprintf("Alias for `%s`", orig.DisplayName())
		if orig.Pattern != nil {
			alias.Handler = padCaptures(orig.Handler, orig.Pattern.NumSubexp())
		}
		for _, opt := range opts {
			opt(&alias)
		}
		return r.Register(&alias)
	}

	m, ok := Match(existing, r, "")
	if !ok {
		return &NotFoundError{Key: existing}
	}
	target := strings.TrimSpace(existing)
	alias := &CommandSpec{
		Name:        newKey,
		Description: fmt.Sprintf("Alias for `%s`", target),
		Group:       m.Spec.Group,
		Options: Options{
			NoPrefix:        m.Spec.Options.NoPrefix,
			KeepReturnValue: m.Spec.Options.KeepReturnValue,
		},
		Handler: func(inv *Invocation) (any, error) {
			line := target
			if inv.ArgString != "" {
				line += " " + inv.ArgString
			}
			return inv.Run(line).Result()
		},
	}
	for _, opt := range opts {
		opt(alias)
	}
	return r.Register(alias)
}

// Import copies command definitions from other. With no keys every command
// is imported. Imported specs are shared, not duplicated, and replace
// same-key commands already present. other is never modified.
func (r *Registry) Import(other *Registry, keys ...string) error {
	if len(keys) == 0 {
		keys = other.Keys()
	}
	var missing []error
	for _, k := range keys {
		spec, ok := other.Find(k)
		if !ok {
			missing = append(missing, &NotFoundError{Key: k})
			continue
		}
		key := spec.Key()
		if old, exists := r.commands[key]; exists {
			if old.ListingName != "" {
				delete(r.listing, old.ListingName)
			}
			r.commands[key] = spec
			if spec.ListingName != "" && spec.ListingName != key {
				r.listing[spec.ListingName] = key
			}
			continue
		}
		if spec.ListingName != "" {
			if shadowed, ok := r.listing[spec.ListingName]; ok {
				r.remove(shadowed)
			}
		}
		r.put(spec)
	}
	return errors.Join(missing...)
}

// Find looks a command up by exact key or listing name.
func (r *Registry) Find(name string) (*CommandSpec, bool) {
	key, ok := r.resolve(name)
	if !ok {
		return nil, false
	}
	return r.commands[key], true
}

// Keys returns command keys in registration order.
func (r *Registry) Keys() []string {
	keys := make([]string, len(r.order))
	copy(keys, r.order)
	return keys
}

// All returns all commands in registration order.
func (r *Registry) All() []*CommandSpec {
	cmds := make([]*CommandSpec, 0, len(r.order))
	for _, key := range r.order {
		cmds = append(cmds, r.commands[key])
	}
	return cmds
}

// Len returns the number of registered commands.
func (r *Registry) Len() int {
	return len(r.order)
}

// ByGroup returns commands grouped for help display, along with the group
// names sorted alphabetically. Commands keep registration order.
func (r *Registry) ByGroup() ([]string, map[string][]*CommandSpec) {
	result := make(map[string][]*CommandSpec)
	for _, cmd := range r.All() {
		group := cmd.Group
		if group == "" {
			group = DefaultGroup
		}
		result[group] = append(result[group], cmd)
	}
	groups := make([]string, 0, len(result))
	for g := range result {
		groups = append(groups, g)
	}
	sort.Strings(groups)
	return groups, result
}

// Search finds commands whose display name or description fuzzily matches
// term, best matches first.
func (r *Registry) Search(term string) []*CommandSpec {
	term = strings.TrimSpace(term)
	if term == "" {
		return nil
	}

	type hit struct {
		spec *CommandSpec
		rank int
	}
	var hits []hit
	for _, cmd := range r.All() {
		rank := fuzzy.RankMatchFold(term, cmd.DisplayName())
		if rank < 0 {
			if !fuzzy.MatchFold(term, cmd.Description) {
				continue
			}
			// Description hits rank behind every name hit.
			rank = 1000 + fuzzy.LevenshteinDistance(term, cmd.DisplayName())
		}
		hits = append(hits, hit{spec: cmd, rank: rank})
	}

	sort.SliceStable(hits, func(i, j int) bool { return hits[i].rank < hits[j].rank })
	out := make([]*CommandSpec, len(hits))
	for i, h := range hits {
		out[i] = h.spec
	}
	return out
}

// =============================================================================
// INTERNALS
// =============================================================================

func (r *Registry) taken(name string) bool {
	_, ok := r.resolve(name)
	return ok
}

func (r *Registry) resolve(name string) (string, bool) {
	if _, ok := r.commands[name]; ok {
		return name, true
	}
	if key, ok := r.listing[name]; ok {
		return key, true
	}
	return "", false
}

func (r *Registry) put(spec *CommandSpec) {
	key := spec.Key()
	r.commands[key] = spec
	if spec.ListingName != "" && spec.ListingName != key {
		r.listing[spec.ListingName] = key
	}
	r.order = append(r.order, key)
}

func (r *Registry) remove(key string) {
	spec, ok := r.commands[key]
	if !ok {
		return
	}
	delete(r.commands, key)
	if spec.ListingName != "" {
		delete(r.listing, spec.ListingName)
	}
	for i, k := range r.order {
		if k == key {
			r.order = append(r.order[:i:i], r.order[i+1:]...)
			break
		}
	}
}

// padCaptures adapts a pattern command's handler for a plain-name alias. The
// alias matches no groups, so every capture is empty and the text after the
// alias name arrives as ArgString.
func padCaptures(h Handler, groups int) Handler {
	return func(inv *Invocation) (any, error) {
		if missing := groups - len(inv.Captures); missing > 0 {
			inv.Captures = append(inv.Captures, make([]string, missing)...)
		}
		return h(inv)
	}
}

func validateSpec(spec *CommandSpec) error {
	if spec == nil {
		return errors.New("nil command spec")
	}
	if spec.Name == "" {
		return errors.New("command name is empty")
	}
	if spec.Handler == nil {
		return fmt.Errorf("command %q has no handler", spec.Name)
	}
	if spec.Pattern != nil {
		if _, err := regexp.Compile(`^(?:` + spec.Pattern.String() + `)`); err != nil {
			return fmt.Errorf("command %q: %w", spec.Name, err)
		}
	}
	return nil
}

// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package navigation implements the frame stack and the path language used to
// move between nested evaluation contexts.
//
// # Key Types
//
//   - Stack: ordered frame handles, never shorter than the root frame
//   - PathStep: one parsed segment of a navigation path
//   - Resolver: applies paths to stacks and remembers the previous stack
//
// # Path Syntax
//
//	cd foo/bar      evaluate foo, then bar inside it
//	cd ..           leave the current frame (no-op at the root)
//	cd /            back to the session root
//	cd ::           root, then the designated toplevel frame
//	cd -            swap with the stack before the last navigation
//
// Paths are applied atomically: if any step fails the live stack is left
// exactly as it was.
//
// # Usage
//
//	r := navigation.NewResolver(evaluator.FuncOf(ev))
//	next, err := r.Navigate(live, "config/servers/[0]")
//	if err == nil {
//	    live = next
//	}
package navigation

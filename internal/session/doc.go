// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package session ties the command core to one interactive session.
//
// A Session owns the command registry and dispatcher, the live navigation
// stack, the resolver that remembers the saved stack for "cd -", and the
// evaluator. Each input line is offered to the dispatcher first; lines that
// name no command are evaluated as expressions in the current frame.
//
// Configuration reloads are queued by ApplyConfig and take effect before
// the next line, so a watcher goroutine never touches dispatch state.
package session

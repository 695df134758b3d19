// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package docframe is an expression evaluator over structured documents.
//
// A JSON, YAML or TOML document is decoded into plain Go values and every
// frame is a *Node pointing at one value inside it. Expressions select
// children and produce literals:
//
//	self              the current node
//	name  @name       a mapping key ("@" is accepted for readability)
//	[2]  ["a b"]      a list index or a quoted mapping key
//	servers[0].host   chains of the above
//	42  "text"  [1,2] YAML flow literals
//	name = <literal>  assignment into the current mapping or list
//
// Assignment mutates the document in place, so the change is visible from
// every frame that shares it.
package docframe

// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package util provides small helpers shared across framesh.
//
//   - AtomicWriteFile: crash-safe file writing with fsync
//   - TruncateRunes, TruncateWidth: UTF-8 safe truncation for display
//   - StringWidth, PadRight: column-aware alignment for tables
package util

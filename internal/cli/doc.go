// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package cli is the framesh command line.
//
// # Usage
//
//	framesh [document]              interactive shell over a JSON/YAML/TOML file
//	framesh -e 'cd a' -e ls doc.yml run lines without a prompt
//	framesh config show|path|keys
//	framesh config get KEY
//	framesh config set KEY VALUE
//	framesh version
//
// # Flags
//
//	--config PATH       config file (default ~/.framesh/config.toml)
//	--prefix STRING     global command prefix
//	--log-level LEVEL   debug, info, warn, error
//	--no-color          plain output
package cli

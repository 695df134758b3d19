// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package config provides configuration loading and management for framesh.
//
// Configuration is TOML, with defaults for every key, environment variable
// overrides, validation and a file watcher for hot reload.
//
// # Configuration Precedence
//
//   - Environment variables (FRAMESH_*, NO_COLOR)
//   - ~/.framesh/config.toml, or the file given with --config
//   - Built-in defaults
//
// # Usage
//
//	cfg, err := config.Load()
//	if err != nil {
//	    return err
//	}
//	prefix := cfg.Commands.Prefix
//
// Reload on change:
//
//	stop, err := config.Watch(path, logger, func(cfg *config.Config) {
//	    session.ApplyConfig(cfg)
//	})
package config

// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package config

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"strconv"
	"strings"
	"sync"

	"github.com/BurntSushi/toml"

	"github.com/jeranaias/framesh/internal/util"
)

// =============================================================================
// CONFIG STRUCTURES
// =============================================================================

// Config is the complete framesh configuration.
type Config struct {
	Commands   CommandsConfig   `toml:"commands"`
	Navigation NavigationConfig `toml:"navigation"`
	REPL       REPLConfig       `toml:"repl"`
	Log        LogConfig        `toml:"log"`
}

// CommandsConfig controls command matching and dispatch.
type CommandsConfig struct {
	// Prefix is the global command prefix ("" = none).
	Prefix string `toml:"prefix"`

	// MaxDispatchDepth bounds commands re-dispatching other commands.
	MaxDispatchDepth int `toml:"max_dispatch_depth"`

	// Defaults for commands created at runtime (alias-command).
	InterpolateDefault bool `toml:"interpolate_default"`
	ShellwordsDefault  bool `toml:"shellwords_default"`
}

// NavigationConfig controls cd path resolution.
type NavigationConfig struct {
	// Toplevel is evaluated from the root frame to produce the "::" frame.
	// Empty means "::" behaves like "/".
	Toplevel string `toml:"toplevel"`
}

// REPLConfig controls the interactive loop.
type REPLConfig struct {
	// Prompt is a format string: %s is the frame description, %d the depth.
	Prompt     string `toml:"prompt"`
	Color      bool   `toml:"color"`
	Completion bool   `toml:"completion"`
}

// LogConfig controls diagnostic logging.
type LogConfig struct {
	Level string `toml:"level"`
	Path  string `toml:"path"`
}

// =============================================================================
// DEFAULT VALUES
// =============================================================================

// DefaultMaxDispatchDepth matches the dispatcher's built-in limit.
const DefaultMaxDispatchDepth = 32

// Default returns a Config with default values.
func Default() *Config {
	return &Config{
		Commands: CommandsConfig{
			Prefix:             "",
			MaxDispatchDepth:   DefaultMaxDispatchDepth,
			InterpolateDefault: true,
			ShellwordsDefault:  true,
		},
		REPL: REPLConfig{
			Prompt:     "[%d] framesh(%s)> ",
			Color:      true,
			Completion: true,
		},
		Log: LogConfig{
			Level: "warn",
		},
	}
}

// =============================================================================
// CONFIG PATH HELPERS
// =============================================================================

// ConfigDir returns the framesh configuration directory.
func ConfigDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("could not determine home directory: %w", err)
	}
	return filepath.Join(home, ".framesh"), nil
}

// ConfigPath returns the default config file path.
func ConfigPath() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.toml"), nil
}

// =============================================================================
// LOAD FUNCTIONS
// =============================================================================

// Load reads the default config file. A missing file yields the defaults.
// Environment overrides are applied last.
func Load() (*Config, error) {
	path, err := ConfigPath()
	if err != nil {
		cfg := Default()
		cfg.ApplyEnvOverrides()
		return cfg, err
	}
	if _, statErr := os.Stat(path); errors.Is(statErr, os.ErrNotExist) {
		cfg := Default()
		cfg.ApplyEnvOverrides()
		if err := cfg.Validate(); err != nil {
			return nil, fmt.Errorf("invalid config: %w", err)
		}
		return cfg, nil
	}
	return LoadFromPath(path)
}

// LoadFromPath loads and validates the config at path. Keys absent from the
// file keep their default values.
func LoadFromPath(path string) (*Config, error) {
	cfg := Default()
	if err := decodeFile(cfg, path); err != nil {
		return nil, err
	}
	cfg.ApplyEnvOverrides()
	cfg.SetDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

func decodeFile(cfg *Config, path string) error {
	md, err := toml.DecodeFile(path, cfg)
	if err != nil {
		return fmt.Errorf("failed to decode %s: %w", path, err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return ValidateErrors{{Field: strings.Join(keys, ", "), Message: "unknown key"}}
	}
	return nil
}

// =============================================================================
// SAVE FUNCTIONS
// =============================================================================

// Save writes cfg to the default config path.
func Save(cfg *Config) error {
	path, err := ConfigPath()
	if err != nil {
		return err
	}
	return SaveTo(cfg, path)
}

// SaveTo writes cfg to path atomically with 0600 permissions.
func SaveTo(cfg *Config, path string) error {
	var buf bytes.Buffer
	fmt.Fprintln(&buf, "# framesh configuration file")
	fmt.Fprintln(&buf, "")
	if err := toml.NewEncoder(&buf).Encode(cfg); err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	if err := util.AtomicWriteFile(path, buf.Bytes(), 0600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// =============================================================================
// VALIDATION
// =============================================================================

// ValidationError is one invalid setting.
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidateErrors collects every invalid setting.
type ValidateErrors []ValidationError

func (e ValidateErrors) Error() string {
	if len(e) == 0 {
		return "no validation errors"
	}
	msgs := make([]string, len(e))
	for i, err := range e {
		msgs[i] = err.Error()
	}
	return strings.Join(msgs, "; ")
}

var validLevels = map[string]bool{
	"debug": true, "info": true, "warn": true, "error": true,
	"dpanic": true, "panic": true, "fatal": true,
}

// Validate checks the configuration.
func (c *Config) Validate() error {
	var errs ValidateErrors

	if strings.ContainsAny(c.Commands.Prefix, " \t\r\n") {
		errs = append(errs, ValidationError{
			Field:   "commands.prefix",
			Message: fmt.Sprintf("prefix %q must not contain whitespace", c.Commands.Prefix),
		})
	}
	if c.Commands.MaxDispatchDepth < 1 || c.Commands.MaxDispatchDepth > 1024 {
		errs = append(errs, ValidationError{
			Field:   "commands.max_dispatch_depth",
			Message: fmt.Sprintf("must be between 1 and 1024, got %d", c.Commands.MaxDispatchDepth),
		})
	}

	if c.REPL.Prompt != "" {
		if n := strings.Count(c.REPL.Prompt, "%") - 2*strings.Count(c.REPL.Prompt, "%%"); n > 2 {
			errs = append(errs, ValidationError{
				Field:   "repl.prompt",
				Message: "at most one %s and one %d are allowed",
			})
		}
	}

	if !validLevels[strings.ToLower(c.Log.Level)] {
		errs = append(errs, ValidationError{
			Field:   "log.level",
			Message: fmt.Sprintf("invalid level '%s', must be one of: debug, info, warn, error", c.Log.Level),
		})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// SetDefaults fills zero values that have no meaning.
func (c *Config) SetDefaults() {
	d := Default()
	if c.Commands.MaxDispatchDepth == 0 {
		c.Commands.MaxDispatchDepth = d.Commands.MaxDispatchDepth
	}
	if c.REPL.Prompt == "" {
		c.REPL.Prompt = d.REPL.Prompt
	}
	if c.Log.Level == "" {
		c.Log.Level = d.Log.Level
	}
}

// =============================================================================
// ENVIRONMENT OVERRIDES
// =============================================================================

// ApplyEnvOverrides applies environment variables:
//   - FRAMESH_PREFIX: overrides commands.prefix
//   - FRAMESH_LOG_LEVEL: overrides log.level
//   - FRAMESH_LOG_PATH: overrides log.path
//   - FRAMESH_NO_COLOR / NO_COLOR: disable repl.color
func (c *Config) ApplyEnvOverrides() {
	if prefix, ok := os.LookupEnv("FRAMESH_PREFIX"); ok {
		c.Commands.Prefix = prefix
	}
	if level := os.Getenv("FRAMESH_LOG_LEVEL"); level != "" {
		c.Log.Level = level
	}
	if path := os.Getenv("FRAMESH_LOG_PATH"); path != "" {
		c.Log.Path = path
	}
	if v := os.Getenv("FRAMESH_NO_COLOR"); v == "1" || strings.EqualFold(v, "true") {
		c.REPL.Color = false
	}
	if os.Getenv("NO_COLOR") != "" {
		c.REPL.Color = false
	}
}

// =============================================================================
// GET/SET HELPERS (DOT NOTATION)
// =============================================================================

// Get retrieves a value by dotted key (e.g., "commands.prefix").
func (c *Config) Get(key string) (any, error) {
	field, err := c.field(key)
	if err != nil {
		return nil, err
	}
	return field.Interface(), nil
}

// Set assigns a value by dotted key. String values are converted to the
// field's type.
func (c *Config) Set(key string, value any) error {
	field, err := c.field(key)
	if err != nil {
		return err
	}
	if !field.CanSet() {
		return fmt.Errorf("cannot set field: %s", key)
	}
	return setFieldValue(field, value)
}

func (c *Config) field(key string) (reflect.Value, error) {
	if key == "" {
		return reflect.Value{}, errors.New("empty key")
	}
	parts := strings.Split(key, ".")
	v := reflect.ValueOf(c).Elem()
	for i, part := range parts {
		field, ok := fieldByTag(v, part)
		if !ok {
			return reflect.Value{}, fmt.Errorf("unknown field: %s", strings.Join(parts[:i+1], "."))
		}
		if i == len(parts)-1 {
			if field.Kind() == reflect.Struct {
				return reflect.Value{}, fmt.Errorf("field '%s' is a section", key)
			}
			return field, nil
		}
		if field.Kind() != reflect.Struct {
			return reflect.Value{}, fmt.Errorf("field '%s' is not a section", strings.Join(parts[:i+1], "."))
		}
		v = field
	}
	return reflect.Value{}, fmt.Errorf("invalid key: %s", key)
}

// fieldByTag finds a struct field by its toml tag.
func fieldByTag(v reflect.Value, name string) (reflect.Value, bool) {
	t := v.Type()
	for i := 0; i < t.NumField(); i++ {
		if t.Field(i).Tag.Get("toml") == name {
			return v.Field(i), true
		}
	}
	return reflect.Value{}, false
}

func setFieldValue(field reflect.Value, value any) error {
	if strVal, ok := value.(string); ok {
		switch field.Kind() {
		case reflect.String:
			field.SetString(strVal)
			return nil
		case reflect.Int, reflect.Int64:
			intVal, err := strconv.ParseInt(strVal, 10, 64)
			if err != nil {
				return fmt.Errorf("invalid integer value: %v", err)
			}
			field.SetInt(intVal)
			return nil
		case reflect.Bool:
			boolVal, err := strconv.ParseBool(strVal)
			if err != nil {
				return fmt.Errorf("invalid boolean value: %v", err)
			}
			field.SetBool(boolVal)
			return nil
		}
	}

	val := reflect.ValueOf(value)
	if !val.IsValid() {
		return fmt.Errorf("cannot assign nil to %s", field.Type())
	}
	if val.Type().AssignableTo(field.Type()) {
		field.Set(val)
		return nil
	}
	if val.Type().ConvertibleTo(field.Type()) && val.Kind() != reflect.String {
		field.Set(val.Convert(field.Type()))
		return nil
	}
	return fmt.Errorf("cannot assign %T to %s", value, field.Type())
}

// Keys returns every settable key in dotted form.
func Keys() []string {
	var keys []string
	t := reflect.TypeOf(Config{})
	for i := 0; i < t.NumField(); i++ {
		section := t.Field(i)
		for j := 0; j < section.Type.NumField(); j++ {
			keys = append(keys, section.Tag.Get("toml")+"."+section.Type.Field(j).Tag.Get("toml"))
		}
	}
	return keys
}

// Clone returns a copy of the configuration.
func (c *Config) Clone() *Config {
	clone := *c
	return &clone
}

// String renders the configuration as TOML.
func (c *Config) String() string {
	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(c); err != nil {
		return fmt.Sprintf("%+v", *c)
	}
	return buf.String()
}

// =============================================================================
// SINGLETON PATTERN (THREAD-SAFE)
// =============================================================================

var (
	globalConfig   *Config
	globalConfigMu sync.RWMutex
)

// Global returns the process configuration, loading it on first use.
func Global() *Config {
	globalConfigMu.RLock()
	cfg := globalConfig
	globalConfigMu.RUnlock()
	if cfg != nil {
		return cfg
	}

	globalConfigMu.Lock()
	defer globalConfigMu.Unlock()
	if globalConfig == nil {
		loaded, err := Load()
		if err != nil || loaded == nil {
			fmt.Fprintf(os.Stderr, "Warning: %v (using defaults)\n", err)
			loaded = Default()
		}
		globalConfig = loaded
	}
	return globalConfig
}

// SetGlobal replaces the process configuration. Thread-safe.
func SetGlobal(cfg *Config) {
	globalConfigMu.Lock()
	defer globalConfigMu.Unlock()
	globalConfig = cfg
}

// ResetGlobalForTesting clears the process configuration.
func ResetGlobalForTesting() {
	globalConfigMu.Lock()
	defer globalConfigMu.Unlock()
	globalConfig = nil
}

// Package config loads shortcut definitions from YAML or TOML files and
// watches them for changes.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	toml "github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"github.com/dshills/hotkeyd/internal/input/key"
)

// ErrUnsupportedFormat is returned for config files whose extension is
// neither YAML nor TOML.
var ErrUnsupportedFormat = errors.New("unsupported config format")

// File is a parsed shortcut configuration file.
type File struct {
	// Script is an optional path to a Lua file defining the action
	// functions the shortcuts name. Relative paths resolve against the
	// config file's directory.
	Script string `yaml:"script" toml:"script"`

	// Shortcuts are the bindings to register.
	Shortcuts []Shortcut `yaml:"shortcuts" toml:"shortcuts"`
}

// Shortcut is one binding definition.
type Shortcut struct {
	// Name is the registration name and namespace tag.
	Name string `yaml:"name" toml:"name"`

	// Key is the key name ("s", "enter", "f5", ...).
	Key string `yaml:"key" toml:"key"`

	// Modifier is the raw modifier name ("ctrl", "meta", "alt"), empty
	// for none.
	Modifier string `yaml:"modifier,omitempty" toml:"modifier,omitempty"`

	// Event is the event type; empty means keydown.
	Event string `yaml:"event,omitempty" toml:"event,omitempty"`

	// Action names the Lua function to run when the shortcut fires.
	Action string `yaml:"action" toml:"action"`
}

// Code resolves the entry's key name to its code.
func (s Shortcut) Code() (key.Code, error) {
	code, ok := key.CodeFromName(s.Key)
	if !ok {
		return key.CodeNone, fmt.Errorf("unknown key name %q", s.Key)
	}
	return code, nil
}

// Load reads and parses the file at path, choosing the format by
// extension (.yaml/.yml or .toml), and validates the result.
func Load(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file %s: %w", path, err)
	}

	var f File
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &f); err != nil {
			return nil, &ParseError{Path: path, Message: err.Error(), Err: err}
		}
	case ".toml":
		if err := toml.Unmarshal(data, &f); err != nil {
			return nil, &ParseError{Path: path, Message: err.Error(), Err: err}
		}
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, filepath.Ext(path))
	}

	if err := f.Validate(); err != nil {
		return nil, fmt.Errorf("validating %s: %w", path, err)
	}
	return &f, nil
}

// Validate checks every shortcut entry: name present, key resolvable,
// action named.
func (f *File) Validate() error {
	for i, s := range f.Shortcuts {
		if s.Name == "" {
			return fmt.Errorf("shortcut %d: name is required", i)
		}
		if s.Key == "" {
			return fmt.Errorf("shortcut %q: key is required", s.Name)
		}
		if _, err := s.Code(); err != nil {
			return fmt.Errorf("shortcut %q: %w", s.Name, err)
		}
		if s.Action == "" {
			return fmt.Errorf("shortcut %q: action is required", s.Name)
		}
	}
	return nil
}

// ScriptPath resolves the Script field against the config file's
// directory. Returns empty when no script is configured.
func (f *File) ScriptPath(configPath string) string {
	if f.Script == "" {
		return ""
	}
	if filepath.IsAbs(f.Script) {
		return f.Script
	}
	return filepath.Join(filepath.Dir(configPath), f.Script)
}

// ParseError represents an error while parsing a configuration file.
type ParseError struct {
	Path    string
	Message string
	Err     error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse error in %s: %s", e.Path, e.Message)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

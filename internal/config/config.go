// Package config loads gridselect settings from .gridselect/config.yaml and
// the environment.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"unicode/utf8"

	"gopkg.in/yaml.v3"

	"github.com/pengelbrecht/gridselect/internal/selection"
)

// ErrInvalidHotkey is returned for item hotkeys that are not exactly one
// character.
var ErrInvalidHotkey = errors.New("hotkey must be a single character")

// ItemSpec is one item declared in the config file.
type ItemSpec struct {
	Value  string `yaml:"value"`
	Title  string `yaml:"title,omitempty"`
	Hotkey string `yaml:"hotkey,omitempty"`
}

// File is the root structure of .gridselect/config.yaml.
type File struct {
	// Options starts from selection.DefaultOptions; keys present in the
	// file override the defaults.
	Options *selection.Options `yaml:"options,omitempty"`
	Items   []ItemSpec         `yaml:"items,omitempty"`
}

// DefaultPath returns the config file location for dir.
func DefaultPath(dir string) string {
	return filepath.Join(dir, ".gridselect", "config.yaml")
}

// LoadDir loads the config file of dir. See Load.
func LoadDir(dir string) (*File, error) {
	return Load(DefaultPath(dir))
}

// Load reads a config file.
// Returns nil config (not error) if the file doesn't exist.
// Returns error only for unreadable files or malformed YAML.
func Load(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, err
	}
	return Parse(data)
}

// Parse decodes YAML config data.
func Parse(data []byte) (*File, error) {
	f := File{Options: selection.DefaultOptions()}
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	if f.Options == nil {
		// an explicit "options: null"
		f.Options = selection.DefaultOptions()
	}
	for i, item := range f.Items {
		if item.Hotkey != "" && utf8.RuneCountInString(item.Hotkey) != 1 {
			return nil, fmt.Errorf("item %d (%q): %w", i, item.Value, ErrInvalidHotkey)
		}
	}
	return &f, nil
}

// AddTo appends the declared items to d.
func (f *File) AddTo(d *selection.Data[string]) {
	if f == nil {
		return
	}
	for _, item := range f.Items {
		var hotkey rune
		if item.Hotkey != "" {
			hotkey, _ = utf8.DecodeRuneInString(item.Hotkey)
		}
		d.AddWithHotkey(hotkey, item.Value, item.Title, item.Value)
	}
}

// SelectionOptions returns a copy of the configured options, or the
// defaults for a nil config.
func (f *File) SelectionOptions() *selection.Options {
	if f == nil {
		return selection.DefaultOptions()
	}
	return f.Options.Clone()
}

package errors

import (
	"path/filepath"
	"regexp"
	"strings"
	"unicode"
)

// MaxTabSize is the largest tab list a client can display.
const MaxTabSize = 80

var playerNamePattern = regexp.MustCompile(`^[A-Za-z0-9_]{3,16}$`)

// ValidatePlayerName validates a player name as the game client accepts it:
// 3 to 16 characters from letters, digits and underscore.
func ValidatePlayerName(name string) error {
	if name == "" {
		return New(ErrCodeInvalidPlayerName, "player name cannot be empty")
	}
	if !playerNamePattern.MatchString(name) {
		return New(ErrCodeInvalidPlayerName, "invalid player name %q (3-16 characters of A-Z, a-z, 0-9, _)", name)
	}
	return nil
}

// ValidateServerName validates the name of a backend server a player can be
// connected to. Commas are reserved as filter separators.
func ValidateServerName(name string) error {
	if name == "" {
		return New(ErrCodeInvalidInput, "server name cannot be empty")
	}
	if len(name) > 64 {
		return New(ErrCodeInvalidInput, "server name too long (max 64 characters)")
	}
	for _, r := range name {
		if unicode.IsControl(r) || unicode.IsSpace(r) || r == ',' || r == '*' {
			return New(ErrCodeInvalidInput, "server name contains invalid character %q", r)
		}
	}
	return nil
}

// ValidateColumns validates a column count against a tab size. A tab list
// has at least one column and never more columns than slots.
func ValidateColumns(columns, tabSize int) error {
	if columns < 1 {
		return New(ErrCodeInvalidColumns, "columns must be at least 1, got %d", columns)
	}
	if tabSize > 0 && columns > tabSize {
		return New(ErrCodeInvalidColumns, "columns (%d) exceed tab size (%d)", columns, tabSize)
	}
	return nil
}

// ValidateTabSize validates the number of slots of a tab list.
func ValidateTabSize(size int) error {
	if size < 1 || size > MaxTabSize {
		return New(ErrCodeInvalidTabSize, "tab size must be between 1 and %d, got %d", MaxTabSize, size)
	}
	return nil
}

// ValidateConfigPath validates the path of a configuration file.
//
// Validation rules:
//   - Path cannot be empty
//   - No null bytes or control characters
//   - Extension must be .yml, .yaml or .toml
func ValidateConfigPath(path string) error {
	if path == "" {
		return New(ErrCodeInvalidConfig, "config path cannot be empty")
	}
	for _, r := range path {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidConfig, "config path contains invalid control characters")
		}
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yml", ".yaml", ".toml":
		return nil
	}
	return New(ErrCodeInvalidConfig, "unsupported config format %q (use .yml, .yaml or .toml)", filepath.Ext(path))
}

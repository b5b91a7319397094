package errors

import (
	"path/filepath"
	"strings"
	"unicode"
)

// ValidateName validates a human-readable molecule name stored next to a
// registry entry. Names are free text but must be printable and bounded.
//
// The validation rules are intentionally conservative:
//   - No control characters (tabs excepted)
//   - No null bytes
//   - Maximum length of 256 characters
//
// Empty names are allowed; the registry falls back to the formula.
func ValidateName(name string) error {
	if len(name) > 256 {
		return New(ErrCodeInvalidInput, "molecule name too long (max 256 characters)")
	}
	for _, r := range name {
		if r != '\t' && unicode.IsControl(r) {
			return New(ErrCodeInvalidInput, "molecule name contains invalid control characters")
		}
	}
	return nil
}

// ValidateMolfilePath validates a path given on the command line or in a batch
// listing. Only .mol and .molfile files are accepted.
func ValidateMolfilePath(path string) error {
	if path == "" {
		return New(ErrCodeInvalidPath, "path cannot be empty")
	}
	if strings.ContainsRune(path, '\x00') {
		return New(ErrCodeInvalidPath, "path contains null byte")
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".mol", ".molfile":
		return nil
	default:
		return New(ErrCodeInvalidPath, "%s: expected a .mol file", filepath.Base(path))
	}
}

// ValidateSeed rejects negative permutation seeds coming from untyped input.
func ValidateSeed(seed int64) error {
	if seed < 0 {
		return New(ErrCodeInvalidInput, "permutation seed must be non-negative, got %d", seed)
	}
	return nil
}

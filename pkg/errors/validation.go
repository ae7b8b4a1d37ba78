package errors

import (
	"math"
	"strings"
	"unicode"
)

// MaxLabelLength bounds names and spouse labels.
const MaxLabelLength = 256

// ValidateLabel validates a display label such as a person's name.
//
// The rules are:
//   - No empty or whitespace-only labels
//   - No control characters (newlines included)
//   - Maximum length of MaxLabelLength bytes
func ValidateLabel(label string) error {
	if strings.TrimSpace(label) == "" {
		return New(ErrCodeMalformedInput, "label cannot be empty")
	}

	if len(label) > MaxLabelLength {
		return New(ErrCodeMalformedInput, "label too long (max %d characters)", MaxLabelLength)
	}

	for _, r := range label {
		if unicode.IsControl(r) {
			return New(ErrCodeMalformedInput, "label contains invalid control characters")
		}
	}

	return nil
}

// ValidateBoxWidth validates an optional box width override.
// Zero means "not set".
func ValidateBoxWidth(w float64) error {
	if math.IsNaN(w) || math.IsInf(w, 0) {
		return New(ErrCodeMalformedInput, "box width must be a finite number")
	}
	if w < 0 {
		return New(ErrCodeMalformedInput, "box width must be positive, got %g", w)
	}
	return nil
}

// ValidatePath validates an input file path for safety.
//
// Validation rules:
//   - Path cannot be empty
//   - Maximum length of 500 characters
//   - No null bytes or control characters
//   - No path traversal sequences (..) in relative paths
func ValidatePath(path string) error {
	if path == "" {
		return New(ErrCodeInvalidPath, "path cannot be empty")
	}

	const maxPathLength = 500
	if len(path) > maxPathLength {
		return New(ErrCodeInvalidPath, "path too long (max %d characters)", maxPathLength)
	}

	for _, r := range path {
		if r == '\x00' || unicode.IsControl(r) {
			return New(ErrCodeInvalidPath, "path contains invalid characters")
		}
	}

	if !strings.HasPrefix(path, "/") && strings.Contains(path, "..") {
		return New(ErrCodeInvalidPath, "path cannot contain path traversal sequences (..)")
	}

	return nil
}

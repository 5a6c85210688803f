package errors

import (
	"math"
	"strings"
	"unicode"
)

// ValidatePath validates a file path supplied to a request for safety.
// It prevents path traversal and ensures reasonable path length.
//
// Validation rules:
//   - Path cannot be empty
//   - Maximum length of 500 characters
//   - No null bytes or control characters
//   - No path traversal sequences (..)
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

	if strings.Contains(path, "..") {
		return New(ErrCodeInvalidPath, "path cannot contain path traversal sequences (..)")
	}

	return nil
}

// ValidateFinite rejects NaN and infinite coordinates.
// The what argument names the value in the error message (e.g. `node "a" x`).
func ValidateFinite(what string, v float64) error {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return New(ErrCodeInvalidInput, "%s must be a finite number, got %v", what, v)
	}
	return nil
}

// ValidateAngle checks that an ideal crossing angle lies in (0, 90].
func ValidateAngle(deg float64) error {
	if math.IsNaN(deg) || deg <= 0 || deg > 90 {
		return New(ErrCodeInvalidOption, "ideal angle must be in (0, 90], got %v", deg)
	}
	return nil
}

package errors

import (
	"strings"
	"unicode"
)

// ValidateNodeID validates a node identifier from external input.
// It rejects identifiers that could be used for path traversal or that
// would break cache key construction.
//
// The validation rules are intentionally conservative:
//   - No empty identifiers
//   - No control characters
//   - No path traversal sequences (.., //, etc.)
//   - No null bytes
//   - Maximum length of 256 characters
func ValidateNodeID(id string) error {
	if id == "" {
		return New(ErrCodeInvalidNodeID, "node id cannot be empty")
	}

	if len(id) > 256 {
		return New(ErrCodeInvalidNodeID, "node id too long (max 256 characters)")
	}

	for _, r := range id {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidNodeID, "node id contains invalid control characters")
		}
	}

	dangerousPatterns := []string{
		"..",   // Parent directory
		"//",   // Double slash
		"\x00", // Null byte
		"\\",   // Backslash (Windows path)
	}

	for _, pattern := range dangerousPatterns {
		if strings.Contains(id, pattern) {
			return New(ErrCodeInvalidNodeID, "node id contains invalid characters: %q", pattern)
		}
	}

	return nil
}

// ValidateDirection validates a layout direction string.
// Accepted values are "TB" (top to bottom) and "LR" (left to right).
func ValidateDirection(direction string) error {
	switch direction {
	case "TB", "LR":
		return nil
	default:
		return New(ErrCodeInvalidDirection, "unknown direction %q (expected TB or LR)", direction)
	}
}

// ValidateTraversalMode validates a traversal mode string.
// Accepted values are "upstream", "downstream", "full" and "impact".
func ValidateTraversalMode(mode string) error {
	switch mode {
	case "upstream", "downstream", "full", "impact":
		return nil
	default:
		return New(ErrCodeInvalidMode, "unknown traversal mode %q", mode)
	}
}

// ValidateSpacing validates a node spacing value for layout.
// Spacing must be strictly positive and bounded to keep coordinates sane.
func ValidateSpacing(spacing float64) error {
	if spacing <= 0 {
		return New(ErrCodeInvalidSpacing, "node spacing must be positive, got %g", spacing)
	}
	if spacing > 10000 {
		return New(ErrCodeInvalidSpacing, "node spacing too large (max 10000), got %g", spacing)
	}
	return nil
}

package errors

import (
	"regexp"
	"slices"
	"strings"
	"unicode"
)

// MaxNodeIDLength bounds node identifiers in diagram input.
const MaxNodeIDLength = 256

// nodeIDRegex matches identifiers usable in SVG ids, DOT and draw.io cells.
var nodeIDRegex = regexp.MustCompile(`^[A-Za-z0-9_][A-Za-z0-9_.:$-]*$`)

// ValidateNodeID validates a node identifier from diagram input.
//
// Identifiers end up as XML attribute values and DOT identifiers, so the
// allowed alphabet is deliberately small:
//   - No empty identifiers
//   - Letters, digits and _ . : $ - only, not starting with punctuation
//   - Maximum length of 256 characters
func ValidateNodeID(id string) error {
	if id == "" {
		return New(ErrCodeInvalidDiagram, "node id cannot be empty")
	}
	if len(id) > MaxNodeIDLength {
		return New(ErrCodeInvalidDiagram, "node id too long (max %d characters)", MaxNodeIDLength)
	}
	if !nodeIDRegex.MatchString(id) {
		return New(ErrCodeInvalidDiagram, "invalid node id: %q", id)
	}
	return nil
}

// ValidatePath validates a relative file path for safety.
// It prevents path traversal and ensures reasonable path length.
//
// Validation rules:
//   - Path cannot be empty
//   - Maximum length of 500 characters
//   - No null bytes or control characters
//   - No absolute paths (must be relative)
//   - No path traversal sequences (..)
//   - No backslashes (Windows-style paths)
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

	if strings.HasPrefix(path, "/") {
		return New(ErrCodeInvalidPath, "path must be relative (cannot start with /)")
	}

	if strings.Contains(path, "..") {
		return New(ErrCodeInvalidPath, "path cannot contain path traversal sequences (..)")
	}

	if strings.Contains(path, "\\") {
		return New(ErrCodeInvalidPath, "path cannot contain backslashes")
	}

	return nil
}

// ValidateFormat checks that format is one of allowed, ignoring case.
func ValidateFormat(format string, allowed []string) error {
	if format == "" {
		return New(ErrCodeInvalidFormat, "format cannot be empty")
	}
	if !slices.Contains(allowed, strings.ToLower(format)) {
		return New(ErrCodeInvalidFormat, "unsupported format %q (want one of %s)", format, strings.Join(allowed, ", "))
	}
	return nil
}

package errors

import (
	"math"
	"strings"
	"unicode"
)

// maxLabelLength bounds slice labels so a single entry cannot blow up the
// label-width term of the radius computation.
const maxLabelLength = 256

// ValidateLabel validates a slice label for safe embedding in SVG and
// terminal output.
//
// The validation rules:
//   - Maximum length of 256 characters
//   - No control characters (newlines included)
func ValidateLabel(label string) error {
	if len(label) > maxLabelLength {
		return New(ErrCodeInvalidData, "label too long (max %d characters)", maxLabelLength)
	}
	for _, r := range label {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidData, "label %q contains control characters", label)
		}
	}
	return nil
}

// ValidateValue rejects magnitudes the geometry cannot represent.
func ValidateValue(v float64) error {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return New(ErrCodeInvalidData, "value must be finite, got %v", v)
	}
	return nil
}

// ValidateAngle checks that an angle in degrees lies within [min, max].
func ValidateAngle(name string, deg, min, max float64) error {
	if math.IsNaN(deg) || deg < min || deg > max {
		return New(ErrCodeInvalidConfig, "%s must be within [%g, %g], got %v", name, min, max, deg)
	}
	return nil
}

// ValidateNonNegative checks that a length or duration-like value is >= 0.
func ValidateNonNegative(name string, v float64) error {
	if math.IsNaN(v) || v < 0 {
		return New(ErrCodeInvalidConfig, "%s must not be negative, got %v", name, v)
	}
	return nil
}

// ValidatePath validates an output path for safety.
//
// Validation rules:
//   - Path cannot be empty
//   - No null bytes or control characters
//   - No path traversal sequences (..)
func ValidatePath(path string) error {
	if path == "" {
		return New(ErrCodeInvalidPath, "path cannot be empty")
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

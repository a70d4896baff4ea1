// internal/evaluation/status.go
// Package evaluation decodes manuscript-evaluation records and flattens them into
// sparse table rows.
package evaluation

import "strings"

const (
	// StatusPass is the canonical value for a passing outcome.
	StatusPass = "Pass"
	// StatusFail is the canonical value for a failing outcome.
	StatusFail = "Fail"
)

// Normalize maps boolean-like outcomes onto StatusPass / StatusFail.
// Booleans and the strings "true", "pass", "false" and "fail" (any casing) are
// canonicalized; every other value is returned unchanged.
func Normalize(value any) any {
	switch v := value.(type) {
	case bool:
		if v {
			return StatusPass
		}
		return StatusFail
	case string:
		switch strings.ToLower(v) {
		case "true", "pass":
			return StatusPass
		case "false", "fail":
			return StatusFail
		}
		return v
	default:
		return value
	}
}

// IsStatus reports whether v is one of the canonical status strings.
func IsStatus(v any) bool {
	s, ok := v.(string)
	return ok && (s == StatusPass || s == StatusFail)
}

// Truthy reports whether v normalizes to StatusPass.
func Truthy(v any) bool {
	return Normalize(v) == StatusPass
}

package store

import (
	"math"
	"strings"
)

// CoerceBool reads a stored boolean flag that may hold legacy values. Numbers
// are true when non-zero; strings when they spell true, 1, yes or on. Anything
// else, including NULL and binary data, is false. The stored value is never
// rewritten.
func CoerceBool(v any) bool {
	switch b := v.(type) {
	case bool:
		return b
	case int64:
		return b != 0
	case int:
		return b != 0
	case float64:
		return !math.IsNaN(b) && b != 0
	case string:
		switch strings.ToLower(strings.TrimSpace(b)) {
		case "true", "1", "yes", "on":
			return true
		}
		return false
	default:
		return false
	}
}

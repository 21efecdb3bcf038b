// ABOUTME: Utility functions for parsing numbers from upstream text
// ABOUTME: Provides lenient parsing that never fails a whole document over one field

package parse

import (
	"strconv"
	"strings"
)

// IntOrZero safely parses an integer from a string, returning 0 if parsing fails.
// Decimal input is truncated.
func IntOrZero(s string) int {
	return int(FloatOrZero(s))
}

// FloatOrZero parses a number such as 12, 12.5 or "12", returning 0 if
// parsing fails. Surrounding whitespace and JSON quotes are ignored.
func FloatOrZero(s string) float64 {
	s = strings.Trim(strings.TrimSpace(s), `"`)
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return v
}

package grading

import (
	"math"
	"strconv"
	"strings"
)

// parseNumeric parses a numeric answer string: integers, decimals, and simple
// fractions "a/b" (no mixed numbers). Returns false when the string is not a
// number; callers fall back to string equality.
func parseNumeric(s string) (float64, bool) {
	s = strings.ReplaceAll(strings.TrimSpace(s), " ", "")
	if s == "" {
		return 0, false
	}
	if strings.Contains(s, "/") {
		parts := strings.SplitN(s, "/", 2)
		num, err := strconv.ParseInt(parts[0], 10, 64)
		if err != nil {
			return 0, false
		}
		den, err := strconv.ParseInt(parts[1], 10, 64)
		if err != nil || den == 0 {
			return 0, false
		}
		return float64(num) / float64(den), true
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	return f, true
}

// numericTol is the absolute tolerance for numeric comparison.
const numericTol = 1e-3

// isClose reports absolute-or-relative tolerance equality:
// |a-b| <= max(numericTol, 1e-6 * max(|a|, |b|)).
func isClose(a, b float64) bool {
	tol := math.Max(numericTol, 1e-6*math.Max(math.Abs(a), math.Abs(b)))
	return math.Abs(a-b) <= tol
}

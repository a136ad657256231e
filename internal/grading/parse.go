// Package grading implements the weighted-grade computation engine: score parsing,
// category scoring, final-grade aggregation and GPA / letter mapping.
//
// Every function in this package is pure and total. Malformed input never produces
// an error; it is normalised to zero instead.
package grading

import (
	"math"
	"strconv"
	"strings"
)

// ParseScore converts free-text user input into a number.
// It reads the longest leading numeric prefix the way a browser's parseFloat does
// ("85%" is 85, "12abc" is 12). Empty, non-numeric, NaN or infinite input yields 0.
func ParseScore(raw string) float64 {
	v, ok := ParseOptional(raw)
	if !ok {
		return 0
	}
	return v
}

// ParseOptional is ParseScore with presence tracking: ok is false when nothing
// numeric was entered, so callers can tell "not entered" apart from "0".
func ParseOptional(raw string) (float64, bool) {
	prefix := numericPrefix(strings.TrimSpace(raw))
	if prefix == "" {
		return 0, false
	}

	v, err := strconv.ParseFloat(prefix, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	if v == 0 {
		// collapse -0
		return 0, true
	}
	return v, true
}

// numericPrefix returns the longest prefix of s that is a decimal float literal:
// optional sign, digits with at most one dot, optional exponent.
func numericPrefix(s string) string {
	i := 0
	if i < len(s) && (s[i] == '+' || s[i] == '-') {
		i++
	}

	digits := 0
	for i < len(s) && isDigit(s[i]) {
		i++
		digits++
	}
	if i < len(s) && s[i] == '.' {
		j := i + 1
		frac := 0
		for j < len(s) && isDigit(s[j]) {
			j++
			frac++
		}
		if digits > 0 || frac > 0 {
			i = j
			digits += frac
		}
	}
	if digits == 0 {
		return ""
	}

	if i < len(s) && (s[i] == 'e' || s[i] == 'E') {
		j := i + 1
		if j < len(s) && (s[j] == '+' || s[j] == '-') {
			j++
		}
		exp := 0
		for j < len(s) && isDigit(s[j]) {
			j++
			exp++
		}
		if exp > 0 {
			i = j
		}
	}

	return s[:i]
}

func isDigit(b byte) bool {
	return b >= '0' && b <= '9'
}

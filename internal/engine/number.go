package engine

import (
	"errors"
	"math"
	"strconv"
	"strings"
)

// FormatNumber renders v the way a browser renders a number as a string:
// shortest round-trip digits, plain notation for magnitudes in [1e-6, 1e21)
// and exponent notation ("1e+21", "1e-7") outside it.
func FormatNumber(v float64) string {
	switch {
	case math.IsNaN(v):
		return "NaN"
	case math.IsInf(v, 1):
		return "Infinity"
	case math.IsInf(v, -1):
		return "-Infinity"
	case v == 0:
		// Covers negative zero.
		return "0"
	}

	abs := math.Abs(v)
	if abs >= 1e-6 && abs < 1e21 {
		return strconv.FormatFloat(v, 'f', -1, 64)
	}

	mantissa, exp, _ := strings.Cut(strconv.FormatFloat(v, 'e', -1, 64), "e")
	return mantissa + "e" + exp[:1] + strings.TrimLeft(exp[1:], "0")
}

// ParseNumber reads the longest numeric prefix of s, ignoring whatever
// follows it. A string with no numeric prefix yields NaN.
func ParseNumber(s string) float64 {
	s = strings.TrimLeft(s, " \t\r\n")

	i := 0
	if i < len(s) && (s[i] == '+' || s[i] == '-') {
		i++
	}
	if strings.HasPrefix(s[i:], "Infinity") {
		if s[0] == '-' {
			return math.Inf(-1)
		}
		return math.Inf(1)
	}

	digits := 0
	for i < len(s) && isDigit(s[i]) {
		i++
		digits++
	}
	if i < len(s) && s[i] == '.' {
		i++
		for i < len(s) && isDigit(s[i]) {
			i++
			digits++
		}
	}
	if digits == 0 {
		return math.NaN()
	}

	end := i
	if i < len(s) && (s[i] == 'e' || s[i] == 'E') {
		j := i + 1
		if j < len(s) && (s[j] == '+' || s[j] == '-') {
			j++
		}
		k := j
		for k < len(s) && isDigit(s[k]) {
			k++
		}
		if k > j {
			end = k
		}
	}

	v, err := strconv.ParseFloat(s[:end], 64)
	if err != nil {
		// Out-of-range literals saturate to ±Inf or 0, which ParseFloat
		// already returns alongside ErrRange.
		var numErr *strconv.NumError
		if errors.As(err, &numErr) && errors.Is(numErr.Err, strconv.ErrRange) {
			return v
		}
		return math.NaN()
	}
	return v
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}

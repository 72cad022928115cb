package item

import (
	"math"
	"strconv"
	"strings"
)

// FormatPrice renders a price as a decimal that always carries a fractional
// part (10 -> "10.0"). Magnitudes of 1e7 and above, or below 1e-3, use the
// "1.5E7" scientific form.
func FormatPrice(p float64) string {
	switch {
	case math.IsNaN(p):
		return "NaN"
	case math.IsInf(p, 1):
		return "Infinity"
	case math.IsInf(p, -1):
		return "-Infinity"
	}

	abs := math.Abs(p)
	if abs != 0 && (abs >= 1e7 || abs < 1e-3) {
		return scientific(p)
	}
	s := strconv.FormatFloat(p, 'f', -1, 64)
	if !strings.Contains(s, ".") {
		s += ".0"
	}
	return s
}

// scientific turns "1.5E+07" into "1.5E7" and "1E-04" into "1.0E-4".
func scientific(p float64) string {
	s := strconv.FormatFloat(p, 'E', -1, 64)
	mantissa, exp, _ := strings.Cut(s, "E")
	if !strings.Contains(mantissa, ".") {
		mantissa += ".0"
	}
	sign := ""
	if strings.HasPrefix(exp, "-") {
		sign = "-"
	}
	exp = strings.TrimLeft(exp, "+-")
	exp = strings.TrimLeft(exp, "0")
	if exp == "" {
		exp = "0"
	}
	return mantissa + "E" + sign + exp
}

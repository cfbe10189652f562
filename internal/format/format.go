// Package format renders numbers into the compact canonical strings used in
// animation values. Two values are considered equal by the collapser only when
// their formatted strings are equal, so every emitted number goes through here.
package format

import (
	"math"
	"regexp"
	"strconv"
	"strings"
)

const (
	TransformPrecision = 6
	AlphaPrecision     = 3
	DurationPrecision  = 3
)

// Float formats v with prec decimals and trims trailing zeros, so 1.000000
// becomes "1" and 1.250000 becomes "1.25". Non-finite values render as NaN,
// Infinity and -Infinity.
func Float(v float64, prec int) string {
	switch {
	case math.IsNaN(v):
		return "NaN"
	case math.IsInf(v, 1):
		return "Infinity"
	case math.IsInf(v, -1):
		return "-Infinity"
	}

	s := strconv.FormatFloat(v, 'f', prec, 64)
	if strings.IndexByte(s, '.') >= 0 {
		s = strings.TrimRight(s, "0")
		s = strings.TrimSuffix(s, ".")
	}
	if s == "-0" {
		return "0"
	}
	return s
}

// Pair formats "x,y".
func Pair(x, y float64, prec int) string {
	return Float(x, prec) + "," + Float(y, prec)
}

// List formats values separated by single spaces.
func List(vs []float64, prec int) string {
	parts := make([]string, len(vs))
	for i, v := range vs {
		parts[i] = Float(v, prec)
	}
	return strings.Join(parts, " ")
}

// RGBA formats a color with channels in [0, 1] as rgba(R, G, B, A), with R, G
// and B scaled to 0-255.
func RGBA(r, g, b, a float64) string {
	return "rgba(" + channel(r) + ", " + channel(g) + ", " + channel(b) + ", " + Float(a, AlphaPrecision) + ")"
}

func channel(v float64) string {
	return Float(math.Floor(v*255+0.5), 0)
}

var mantissa = regexp.MustCompile(`([0-9]+)\.([0-9]{3})[0-9]+`)

// PathPrecision truncates every decimal in path data to three fractional digits.
func PathPrecision(d string) string {
	return mantissa.ReplaceAllString(d, "${1}.${2}")
}

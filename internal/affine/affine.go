// Package affine decomposes 2x3 affine matrices into translate, rotate, skew
// and scale components.
package affine

import "math"

// Matrix is the affine matrix [[A, C, TX], [B, D, TY], [0, 0, 1]].
type Matrix struct {
	A, B, C, D float64
	TX, TY     float64
}

// Identity returns the identity matrix.
func Identity() Matrix {
	return Matrix{A: 1, D: 1}
}

// Decomposed holds the canonical components of an affine matrix.
// Rotate and Skew are in degrees.
type Decomposed struct {
	TranslateX float64
	TranslateY float64
	Rotate     float64
	Skew       float64
	ScaleX     float64
	ScaleY     float64
}

// Decompose splits m into translate, rotate, skew and scale using a QR style
// decomposition. Rotate, skew and both scales are rounded to hundredths;
// the translation is returned as is.
//
// Singular matrices are not guarded: a zero scale yields NaN or infinite
// components which are returned unchanged.
func Decompose(m Matrix) Decomposed {
	a, b, c, d := m.A, m.B, m.C, m.D

	scaleX := math.Sqrt(a*a + b*b)
	a /= scaleX
	b /= scaleX

	skew := a*c + b*d
	c -= a * skew
	d -= b * skew

	scaleY := math.Sqrt(c*c + d*d)
	c /= scaleY
	d /= scaleY
	skew /= scaleY

	// orientation flip
	if a*d < b*c {
		a = -a
		b = -b
		skew = -skew
		scaleX = -scaleX
	}

	return Decomposed{
		TranslateX: m.TX,
		TranslateY: m.TY,
		Rotate:     round(degrees(math.Atan2(b, a))),
		Skew:       round(degrees(math.Atan(skew))),
		ScaleX:     round(scaleX),
		ScaleY:     round(scaleY),
	}
}

// Compose rebuilds the matrix translate(tx, ty) rotate(r) skewX(k) scale(sx, sy).
func Compose(d Decomposed) Matrix {
	r := radians(d.Rotate)
	k := math.Tan(radians(d.Skew))
	cos, sin := math.Cos(r), math.Sin(r)
	return Matrix{
		A:  cos * d.ScaleX,
		B:  sin * d.ScaleX,
		C:  (cos*k - sin) * d.ScaleY,
		D:  (sin*k + cos) * d.ScaleY,
		TX: d.TranslateX,
		TY: d.TranslateY,
	}
}

func degrees(rad float64) float64 {
	return rad * 180 / math.Pi
}

func radians(deg float64) float64 {
	return deg * math.Pi / 180
}

// round rounds half up to the nearest hundredth.
func round(n float64) float64 {
	return math.Floor(n*100+0.5) / 100
}

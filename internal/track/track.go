// Package track builds per-attribute value timelines for sprites and shape
// slots, and collapses constant timelines into a single static value.
package track

import "strings"

// Attribute names. Translate, rotate, skew and scale are transform tracks;
// the others name the animated attribute itself.
const (
	Opacity         = "opacity"
	Translate       = "translate"
	Rotate          = "rotate"
	Skew            = "skew"
	Scale           = "scale"
	ClipPath        = "clip-path"
	Stroke          = "stroke"
	StrokeWidth     = "stroke-width"
	Fill            = "fill"
	StrokeDasharray = "stroke-dasharray"
	D               = "d"
	CX              = "cx"
	CY              = "cy"
	RX              = "rx"
	RY              = "ry"
	X               = "x"
	Y               = "y"
	Width           = "width"
	Height          = "height"
)

// Defaults used for frames where a shape value is missing.
const (
	Transparent = "transparent"
	NoWidth     = "0"
	EmptyPath   = "M 0 0"
	NoValue     = ""
	NoTranslate = "0,0"
	NoRotate    = "0"
	NoSkew      = "0"
	NoScale     = "1,1"
)

// Track is the timeline of one attribute. Values has one entry per frame, or
// exactly one entry when the track is static.
type Track struct {
	Attribute string
	Transform bool
	Values    []string
}

// Static reports whether the track was collapsed to a single value.
func (t Track) Static() bool {
	return len(t.Values) == 1
}

// At returns the value in effect at frame.
func (t Track) At(frame int) string {
	if t.Static() {
		return t.Values[0]
	}
	return t.Values[frame]
}

// Joined returns the values separated by semicolons, the form used by
// animation values lists.
func (t Track) Joined() string {
	return strings.Join(t.Values, ";")
}

// IsTransform reports whether attr is one of the transform component tracks.
func IsTransform(attr string) bool {
	switch attr {
	case Translate, Rotate, Skew, Scale:
		return true
	}
	return false
}

// Set is an ordered collection of tracks. Omitted tracks are simply absent.
type Set []Track

// Get returns the track for attr.
func (s Set) Get(attr string) (Track, bool) {
	for _, t := range s {
		if t.Attribute == attr {
			return t, true
		}
	}
	return Track{}, false
}

// Package movie holds the decoded animation model consumed by the converter.
// Values of these types are treated as immutable once loaded.
package movie

import (
	"errors"
	"fmt"
	"strings"

	"github.com/ivlev/svga2svg/internal/affine"
)

// VectorSuffix marks an image key whose sprite is drawn from shapes rather
// than from a bitmap.
const VectorSuffix = ".vector"

// ErrInvalidMovie is returned by Validate.
var ErrInvalidMovie = errors.New("invalid movie")

// Movie is a decoded animation.
type Movie struct {
	// Version is the container format version, e.g. "2.0.0"
	Version string

	// Width and Height are the canvas (view box) size
	Width  float64
	Height float64

	// FPS is the playback frame rate
	FPS float64

	// FrameCount is the number of frames every sprite carries
	FrameCount int

	// Images maps an image key to encoded bitmap bytes (PNG in practice)
	Images map[string][]byte

	// Sprites are drawn in order, first sprite at the bottom
	Sprites []Sprite
}

// Sprite is one animated layer.
type Sprite struct {
	// ImageKey references Movie.Images, ends in VectorSuffix, or is empty
	ImageKey string

	// Frames has exactly Movie.FrameCount entries, index = frame number
	Frames []Frame
}

// SpriteKind tells how a sprite is drawn.
type SpriteKind int

const (
	SpriteNone SpriteKind = iota
	SpriteRaster
	SpriteVector
)

func (k SpriteKind) String() string {
	switch k {
	case SpriteRaster:
		return "raster"
	case SpriteVector:
		return "vector"
	default:
		return "none"
	}
}

// Kind classifies the sprite against the movie's images. A key present in
// images wins over the vector suffix.
func (s Sprite) Kind(images map[string][]byte) SpriteKind {
	if s.ImageKey == "" {
		return SpriteNone
	}
	if _, ok := images[s.ImageKey]; ok {
		return SpriteRaster
	}
	if strings.HasSuffix(s.ImageKey, VectorSuffix) {
		return SpriteVector
	}
	return SpriteNone
}

// Frame is one sprite's state at one time step.
type Frame struct {
	Alpha     float64
	Transform affine.Matrix
	Mask      *Mask
	Shapes    []ShapeFrame
}

// Mask is a clip path applied to the sprite for one frame.
type Mask struct {
	PathData string
}

// ShapeKind is the geometry type of a procedural shape.
type ShapeKind int

const (
	ShapePath ShapeKind = iota
	ShapeEllipse
	ShapeRect
)

func (k ShapeKind) String() string {
	switch k {
	case ShapeEllipse:
		return "ellipse"
	case ShapeRect:
		return "rect"
	default:
		return "path"
	}
}

// ShapeFrame is one procedural shape in one frame. Only the geometry field
// matching Kind is expected to be set; nil fields mean "absent this frame".
type ShapeFrame struct {
	Kind      ShapeKind
	Path      *PathArgs
	Ellipse   *EllipseArgs
	Rect      *RectArgs
	Style     *Style
	Transform *affine.Matrix
}

type PathArgs struct {
	D string
}

// EllipseArgs describes an ellipse by its center and radii.
type EllipseArgs struct {
	X, Y             float64
	RadiusX, RadiusY float64
}

type RectArgs struct {
	X, Y          float64
	Width, Height float64
	CornerRadius  float64
}

// Style is the paint of a procedural shape.
type Style struct {
	Fill        *Color
	Stroke      *Color
	StrokeWidth *float64
	LineDash    []float64
	LineJoin    string // miter, round, bevel
	LineCap     string // butt, round, square
	MiterLimit  float64
}

// Color channels are in [0, 1].
type Color struct {
	R, G, B, A float64
}

// Duration returns the playback length in seconds.
func (m *Movie) Duration() float64 {
	return float64(m.FrameCount) / m.FPS
}

// Validate checks the few properties without which the output is undefined:
// a positive frame rate, at least one frame, and every sprite carrying
// exactly FrameCount frames.
func (m *Movie) Validate() error {
	if m.FPS <= 0 {
		return fmt.Errorf("%w: fps must be positive, got %v", ErrInvalidMovie, m.FPS)
	}
	if m.FrameCount < 1 {
		return fmt.Errorf("%w: frame count must be at least 1, got %d", ErrInvalidMovie, m.FrameCount)
	}
	for i, s := range m.Sprites {
		if len(s.Frames) != m.FrameCount {
			return fmt.Errorf("%w: sprite %d has %d frames, want %d", ErrInvalidMovie, i, len(s.Frames), m.FrameCount)
		}
	}
	return nil
}

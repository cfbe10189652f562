package track

import (
	"strings"

	"github.com/ivlev/svga2svg/internal/affine"
	"github.com/ivlev/svga2svg/internal/clipmask"
	"github.com/ivlev/svga2svg/internal/format"
	"github.com/ivlev/svga2svg/internal/movie"
	"github.com/ivlev/svga2svg/internal/shapes"
)

// spriteAttrs is the emission order of sprite level tracks.
var spriteAttrs = []string{Opacity, Translate, Rotate, Skew, Scale, ClipPath}

// GeometryAttrs returns the geometry tracks animated for a shape kind.
func GeometryAttrs(kind movie.ShapeKind) []string {
	switch kind {
	case movie.ShapeEllipse:
		return []string{CX, CY, RX, RY}
	case movie.ShapeRect:
		return []string{X, Y, Width, Height}
	default:
		return []string{D}
	}
}

// SlotAttrs returns the emission order of shape slot tracks.
func SlotAttrs(kind movie.ShapeKind) []string {
	attrs := []string{Stroke, StrokeWidth, Fill}
	attrs = append(attrs, GeometryAttrs(kind)...)
	return append(attrs, Translate, Rotate, Skew, Scale, StrokeDasharray)
}

// timeline accumulates raw per-frame values per attribute.
type timeline map[string][]string

func (tl timeline) push(attr, v string) {
	tl[attr] = append(tl[attr], v)
}

func (tl timeline) pushTransform(m affine.Matrix) {
	d := affine.Decompose(m)
	tl.push(Translate, format.Pair(d.TranslateX, d.TranslateY, format.TransformPrecision))
	tl.push(Rotate, format.Float(d.Rotate, format.TransformPrecision))
	tl.push(Skew, format.Float(d.Skew, format.TransformPrecision))
	tl.push(Scale, format.Pair(d.ScaleX, d.ScaleY, format.TransformPrecision))
}

// collapse turns the raw timeline into a Set in attrs order, omitting
// attributes that have no values or nothing but sentinels.
func (tl timeline) collapse(attrs []string) Set {
	var set Set
	for _, attr := range attrs {
		raw, ok := tl[attr]
		if !ok || len(raw) == 0 {
			continue
		}
		values, ok := Collapse(raw, SentinelPolicy(attr))
		if !ok {
			continue
		}
		set = append(set, Track{Attribute: attr, Transform: IsTransform(attr), Values: values})
	}
	return set
}

// Sprite builds the sprite level tracks: opacity and the decomposed frame
// transform, plus clip-path when the binding is enabled.
func Sprite(sprite movie.Sprite, clip clipmask.Binding) Set {
	tl := timeline{}
	for f, frame := range sprite.Frames {
		tl.push(Opacity, format.Float(frame.Alpha, format.AlphaPrecision))
		tl.pushTransform(frame.Transform)
		if clip.Enabled {
			tl.push(ClipPath, clip.Refs[f])
		}
	}
	return tl.collapse(spriteAttrs)
}

// Slot builds the tracks of one shape slot. Missing values fall back to
// transparent paint, a zero stroke width, an empty dash list, a degenerate
// path, empty scalar geometry and the identity transform.
func Slot(slot shapes.Slot) Set {
	tl := timeline{}
	geometry := GeometryAttrs(slot.Kind)
	for _, shape := range slot.Frames {
		style := shape.Style
		if style == nil {
			style = &movie.Style{}
		}

		tl.push(Stroke, paint(style.Stroke))
		if style.StrokeWidth != nil {
			tl.push(StrokeWidth, format.Float(*style.StrokeWidth, format.TransformPrecision))
		} else {
			tl.push(StrokeWidth, NoWidth)
		}
		tl.push(Fill, paint(style.Fill))
		if len(style.LineDash) > 0 {
			tl.push(StrokeDasharray, format.List(style.LineDash, format.TransformPrecision))
		} else {
			tl.push(StrokeDasharray, NoValue)
		}

		values := geometryValues(slot.Kind, shape)
		for i, attr := range geometry {
			tl.push(attr, values[i])
		}

		if shape.Transform != nil {
			tl.pushTransform(*shape.Transform)
		} else {
			tl.push(Translate, NoTranslate)
			tl.push(Rotate, NoRotate)
			tl.push(Skew, NoSkew)
			tl.push(Scale, NoScale)
		}
	}
	return tl.collapse(SlotAttrs(slot.Kind))
}

func paint(c *movie.Color) string {
	if c == nil {
		return Transparent
	}
	return format.RGBA(c.R, c.G, c.B, c.A)
}

// geometryValues returns the values of GeometryAttrs(kind) for one frame.
func geometryValues(kind movie.ShapeKind, shape movie.ShapeFrame) []string {
	f := func(v float64) string { return format.Float(v, format.TransformPrecision) }
	switch kind {
	case movie.ShapeEllipse:
		if e := shape.Ellipse; e != nil {
			return []string{f(e.X), f(e.Y), f(e.RadiusX), f(e.RadiusY)}
		}
		return []string{NoValue, NoValue, NoValue, NoValue}
	case movie.ShapeRect:
		if r := shape.Rect; r != nil {
			return []string{f(r.X), f(r.Y), f(r.Width), f(r.Height)}
		}
		return []string{NoValue, NoValue, NoValue, NoValue}
	default:
		if p := shape.Path; p != nil && strings.TrimSpace(p.D) != "" {
			return []string{p.D}
		}
		return []string{EmptyPath}
	}
}

package emitter

import (
	"fmt"
	"strconv"

	"github.com/ivlev/svga2svg/internal/config"
	"github.com/ivlev/svga2svg/internal/format"
	"github.com/ivlev/svga2svg/internal/markup"
	"github.com/ivlev/svga2svg/internal/movie"
	"github.com/ivlev/svga2svg/internal/shapes"
	"github.com/ivlev/svga2svg/internal/track"
)

// Strategy turns a layer into output nodes and, optionally, style rules.
type Strategy interface {
	Name() string

	// UsesStyles reports whether the strategy emits a style block
	UsesStyles() bool

	// Layer returns the nodes of one sprite in paint order, and the style
	// rules those nodes rely on. A sprite that draws nothing returns no nodes.
	Layer(l Layer, t Timing) ([]*markup.Element, []string)
}

// NewStrategy returns the strategy registered under name. An empty name
// selects the declarative strategy.
func NewStrategy(name string) (Strategy, error) {
	switch name {
	case config.StrategyDeclarative, "":
		return Declarative{}, nil
	case config.StrategyKeyframes:
		return Keyframes{}, nil
	default:
		return nil, fmt.Errorf("unknown emission strategy: %s", name)
	}
}

// Timing is the playback policy shared by every animation in a document.
type Timing struct {
	FrameCount int
	Duration   string
	Repeat     string
	Fill       string
}

// NewTiming derives the timing of m under settings s.
func NewTiming(m *movie.Movie, s config.Settings) Timing {
	return Timing{
		FrameCount: m.FrameCount,
		Duration:   format.Float(m.Duration(), format.DurationPrecision) + "s",
		Repeat:     s.RepeatCount(),
		Fill:       s.EffectiveFill(),
	}
}

// SpriteID names the element of sprite i.
func SpriteID(i int) string {
	return "sprite_" + strconv.Itoa(i)
}

// ImageID names the image definition for an image key.
func ImageID(key string) string {
	return "image_" + key
}

// slotElement creates the geometry node of a shape slot with static
// attributes taken from the slot's first appearance.
func slotElement(id string, slot shapes.Slot) *markup.Element {
	first := slot.First
	f := func(v float64) string { return format.Float(v, format.TransformPrecision) }

	var el *markup.Element
	switch slot.Kind {
	case movie.ShapeEllipse:
		el = markup.New("ellipse", "id", id)
		if e := first.Ellipse; e != nil {
			el.Set("cx", f(e.X)).Set("cy", f(e.Y)).Set("rx", f(e.RadiusX)).Set("ry", f(e.RadiusY))
		}
	case movie.ShapeRect:
		el = markup.New("rect", "id", id)
		if r := first.Rect; r != nil {
			el.Set("x", f(r.X)).Set("y", f(r.Y)).Set("width", f(r.Width)).Set("height", f(r.Height))
			el.Set("rx", f(r.CornerRadius)).Set("ry", f(r.CornerRadius))
		}
	default:
		el = markup.New("path", "id", id)
		if p := first.Path; p != nil && p.D != "" {
			el.Set("d", p.D)
		}
	}

	if st := first.Style; st != nil {
		if st.LineJoin != "" {
			el.Set("stroke-linejoin", st.LineJoin)
		}
		if st.LineCap != "" {
			el.Set("stroke-linecap", st.LineCap)
		}
		if st.MiterLimit != 0 {
			el.Set("stroke-miterlimit", f(st.MiterLimit))
		}
	}
	return el
}

// transformType maps a transform track to its animateTransform type.
func transformType(attr string) string {
	if attr == track.Skew {
		return "skewX"
	}
	return attr
}

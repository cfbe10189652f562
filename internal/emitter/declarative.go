package emitter

import (
	"strconv"

	"github.com/ivlev/svga2svg/internal/config"
	"github.com/ivlev/svga2svg/internal/markup"
	"github.com/ivlev/svga2svg/internal/movie"
	"github.com/ivlev/svga2svg/internal/track"
)

// Declarative nests one discrete animation element per track inside each
// sprite node.
type Declarative struct{}

func (Declarative) Name() string     { return config.StrategyDeclarative }
func (Declarative) UsesStyles() bool { return false }

func (Declarative) Layer(l Layer, t Timing) ([]*markup.Element, []string) {
	switch l.Kind {
	case movie.SpriteRaster:
		el := markup.New("use", "id", SpriteID(l.Index), "href", "#"+ImageID(l.ImageKey), "opacity", "0")
		el.Append(animations(l.Tracks, t)...)
		return []*markup.Element{el}, nil

	case movie.SpriteVector:
		g := markup.New("g", "id", SpriteID(l.Index))
		for _, s := range l.Slots {
			node := slotElement(SpriteID(l.Index)+"_"+strconv.Itoa(s.Slot.Index), s.Slot)
			node.Append(animations(s.Tracks, t)...)
			g.Append(node)
		}
		g.Append(animations(l.Tracks, t)...)
		return []*markup.Element{g}, nil
	}
	return nil, nil
}

func animations(set track.Set, t Timing) []*markup.Element {
	els := make([]*markup.Element, 0, len(set))
	for _, tr := range set {
		els = append(els, animation(tr, t))
	}
	return els
}

// animation builds the animate or animateTransform element of one track.
// Transform tracks are summed so translate, rotate, skew and scale compose
// in that order.
func animation(tr track.Track, t Timing) *markup.Element {
	var el *markup.Element
	if tr.Transform {
		el = markup.New("animateTransform",
			"attributeName", "transform",
			"type", transformType(tr.Attribute),
			"values", tr.Joined(),
			"dur", t.Duration,
			"additive", "sum",
		)
	} else {
		el = markup.New("animate",
			"attributeName", tr.Attribute,
			"values", tr.Joined(),
			"dur", t.Duration,
		)
	}

	el.Set("repeatCount", t.Repeat)
	switch t.Fill {
	case config.FillForward:
		el.Set("fill", "freeze")
	case config.FillClear:
		el.Set("fill", "remove")
	}
	return el.Set("calcMode", "discrete")
}

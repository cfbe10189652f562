package emitter

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/ivlev/svga2svg/internal/clipmask"
	"github.com/ivlev/svga2svg/internal/config"
	"github.com/ivlev/svga2svg/internal/markup"
	"github.com/ivlev/svga2svg/internal/movie"
	"github.com/ivlev/svga2svg/internal/track"
)

// Keyframes emits plain sprite nodes and animates them with style sheet
// keyframes stepping from frame to frame.
//
// Clip paths cannot be switched from a keyframe, so a clip-enabled sprite is
// split at every mask change: each segment gets its own node carrying the
// segment's clip path and its own rule that keeps it transparent outside the
// segment.
type Keyframes struct{}

func (Keyframes) Name() string     { return config.StrategyKeyframes }
func (Keyframes) UsesStyles() bool { return true }

func (Keyframes) Layer(l Layer, t Timing) ([]*markup.Element, []string) {
	if l.Kind == movie.SpriteNone {
		return nil, nil
	}

	segs := l.Clip.Segments()
	if len(segs) == 0 {
		segs = []clipmask.Segment{{Start: 0, End: t.FrameCount, Ref: clipmask.None}}
	}

	var nodes []*markup.Element
	var rules []string
	for i, seg := range segs {
		id := SpriteID(l.Index)
		if l.Clip.Enabled {
			id += "_m" + strconv.Itoa(i)
		}

		var el *markup.Element
		if l.Kind == movie.SpriteRaster {
			el = markup.New("use", "id", id, "href", "#"+ImageID(l.ImageKey), "opacity", "0")
		} else {
			el = markup.New("g", "id", id)
			for _, s := range l.Slots {
				slotID := id + "_" + strconv.Itoa(s.Slot.Index)
				el.Append(slotElement(slotID, s.Slot))
				rules = append(rules, styleRules(slotID, t, slotDeclarations(s.Tracks))...)
			}
		}
		if seg.Ref != clipmask.None {
			el.Set("clip-path", seg.Ref)
		}

		nodes = append(nodes, el)
		rules = append(rules, styleRules(id, t, spriteDeclarations(l.Tracks, seg, l.Clip.Enabled))...)
	}
	return nodes, rules
}

// Percent is the keyframe offset of frame in a movie of frameCount frames.
func Percent(frame, frameCount int) int {
	return int(math.Round(float64(frame) / float64(frameCount) * 100))
}

// declarations returns the style declarations in effect at a frame.
type declarations func(frame int) string

func spriteDeclarations(set track.Set, seg clipmask.Segment, clipped bool) declarations {
	opacity, hasOpacity := set.Get(track.Opacity)
	return func(f int) string {
		o := "1"
		if hasOpacity {
			o = opacity.At(f)
		}
		if clipped && (f < seg.Start || f >= seg.End) {
			o = "0"
		}
		return "opacity: " + o + "; transform: " + transformExpr(set, f) + ";"
	}
}

func slotDeclarations(set track.Set) declarations {
	return func(f int) string {
		var parts []string
		for _, tr := range set {
			if tr.Transform {
				continue
			}
			v := tr.At(f)
			if v == track.NoValue {
				continue
			}
			parts = append(parts, property(tr.Attribute, v))
		}
		parts = append(parts, "transform: "+transformExpr(set, f)+";")
		return strings.Join(parts, " ")
	}
}

// property renders one animated shape attribute as a style declaration.
func property(attr, v string) string {
	switch attr {
	case track.D:
		return "d: path(" + cssString(v) + ");"
	case track.CX, track.CY, track.RX, track.RY, track.X, track.Y, track.Width, track.Height:
		return attr + ": " + v + "px;"
	default:
		return attr + ": " + v + ";"
	}
}

// cssString quotes s as a style sheet string. Quotes and backslashes are
// backslash escaped and control characters become hex escapes, each ended by
// a space so a following hex digit is not read as part of the escape.
func cssString(s string) string {
	var b strings.Builder
	b.WriteByte('"')
	for _, r := range s {
		switch {
		case r == '"' || r == '\\':
			b.WriteByte('\\')
			b.WriteRune(r)
		case r < 0x20 || r == 0x7f:
			fmt.Fprintf(&b, "\\%x ", r)
		default:
			b.WriteRune(r)
		}
	}
	b.WriteByte('"')
	return b.String()
}

// transformExpr combines the transform tracks of a set at one frame into a
// single transform function list.
func transformExpr(set track.Set, f int) string {
	var fns []string
	for _, tr := range set {
		if !tr.Transform {
			continue
		}
		v := tr.At(f)
		switch tr.Attribute {
		case track.Translate:
			x, y := split(v)
			fns = append(fns, "translate("+x+"px, "+y+"px)")
		case track.Rotate:
			fns = append(fns, "rotate("+v+"deg)")
		case track.Skew:
			fns = append(fns, "skewX("+v+"deg)")
		case track.Scale:
			x, y := split(v)
			fns = append(fns, "scale("+x+", "+y+")")
		}
	}
	if len(fns) == 0 {
		return "none"
	}
	return strings.Join(fns, " ")
}

func split(pair string) (string, string) {
	x, y, _ := strings.Cut(pair, ",")
	return x, y
}

// styleRules returns the rules animating element id. A timeline whose
// declarations never change becomes a single static rule.
func styleRules(id string, t Timing, decl declarations) []string {
	first := decl(0)
	static := true
	for f := 1; f < t.FrameCount; f++ {
		if decl(f) != first {
			static = false
			break
		}
	}
	if static {
		return []string{fmt.Sprintf("#%s { transform-origin: 0 0; %s }", id, first)}
	}

	name := id + "_kf"
	return []string{
		fmt.Sprintf("#%s { transform-origin: 0 0; animation: %s; }", id, animationShorthand(name, t)),
		keyframesBlock(name, t.FrameCount, decl),
	}
}

func animationShorthand(name string, t Timing) string {
	count := t.Repeat
	if count == "indefinite" {
		count = "infinite"
	}
	s := name + " " + t.Duration + " steps(1, end) " + count
	if t.Fill == config.FillForward {
		s += " forwards"
	}
	return s
}

// keyframesBlock lists one keyframe per change of declarations, plus a
// closing 100% keyframe holding the last state. Above 100 frames several
// frames round to the same percent; only the last state of such a percent is
// kept.
func keyframesBlock(name string, frameCount int, decl declarations) string {
	type keyframe struct {
		pct  int
		decl string
	}
	var kfs []keyframe
	prev := ""
	for f := 0; f < frameCount; f++ {
		d := decl(f)
		if f > 0 && d == prev {
			continue
		}
		prev = d
		pct := Percent(f, frameCount)
		if n := len(kfs); n > 0 && kfs[n-1].pct == pct {
			kfs = kfs[:n-1]
		}
		if n := len(kfs); n > 0 && kfs[n-1].decl == d {
			continue
		}
		kfs = append(kfs, keyframe{pct, d})
	}
	if kfs[len(kfs)-1].pct != 100 {
		kfs = append(kfs, keyframe{100, prev})
	}

	var b strings.Builder
	fmt.Fprintf(&b, "@keyframes %s {", name)
	for _, kf := range kfs {
		fmt.Fprintf(&b, " %d%% { %s }", kf.pct, kf.decl)
	}
	b.WriteString(" }")
	return b.String()
}

// Package clipmask resolves per-frame clip masks of a sprite into clip path
// definitions and the per-frame references that bind frames to them.
package clipmask

import (
	"fmt"

	"github.com/ivlev/svga2svg/internal/format"
	"github.com/ivlev/svga2svg/internal/movie"
)

// None is the reference value for an unmasked frame of a clip-enabled sprite.
const None = "none"

// Def is one clip path definition, keyed by (Sprite, Frame).
type Def struct {
	ID       string
	Sprite   int
	Frame    int
	PathData string
}

// Binding ties every frame of one sprite to its clip path.
type Binding struct {
	// Enabled is true when at least one frame carries a mask
	Enabled bool

	// Refs holds, per frame, url(#id) or None; nil when not Enabled
	Refs []string

	// Paths holds the normalised path data per frame, "" when unmasked
	Paths []string
}

// Segment is a maximal run of frames [Start, End) sharing the same mask.
type Segment struct {
	Start, End int
	// Ref is the clip reference of the run, None when unmasked
	Ref string
}

// DefID names the clip path of one sprite frame.
func DefID(sprite, frame int) string {
	return fmt.Sprintf("maskPath_%d_%d", sprite, frame)
}

// Ref returns the url() reference to a definition id.
func Ref(id string) string {
	return "url(#" + id + ")"
}

// Resolve scans the frames of sprite number spriteIndex. Every masked frame
// yields one definition; a sprite with no masked frame yields a disabled
// binding and no definitions.
func Resolve(spriteIndex int, sprite movie.Sprite) (Binding, []Def) {
	var defs []Def
	for f, frame := range sprite.Frames {
		if frame.Mask == nil {
			continue
		}
		defs = append(defs, Def{
			ID:       DefID(spriteIndex, f),
			Sprite:   spriteIndex,
			Frame:    f,
			PathData: format.PathPrecision(frame.Mask.PathData),
		})
	}
	if len(defs) == 0 {
		return Binding{}, nil
	}

	b := Binding{
		Enabled: true,
		Refs:    make([]string, len(sprite.Frames)),
		Paths:   make([]string, len(sprite.Frames)),
	}
	for f := range b.Refs {
		b.Refs[f] = None
	}
	for _, d := range defs {
		b.Refs[d.Frame] = Ref(d.ID)
		b.Paths[d.Frame] = d.PathData
	}
	return b, defs
}

// Segments splits the frames at every mask change boundary: a frame starts a
// new segment when its mask presence or path data differs from the previous
// frame. A segment references the definition of its first frame.
func (b Binding) Segments() []Segment {
	if !b.Enabled {
		return nil
	}
	var segs []Segment
	for f := range b.Refs {
		if f > 0 && b.sameMask(f-1, f) {
			segs[len(segs)-1].End = f + 1
			continue
		}
		segs = append(segs, Segment{Start: f, End: f + 1, Ref: b.Refs[f]})
	}
	return segs
}

func (b Binding) sameMask(i, j int) bool {
	masked := b.Refs[i] != None
	if masked != (b.Refs[j] != None) {
		return false
	}
	return !masked || b.Paths[i] == b.Paths[j]
}

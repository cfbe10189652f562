package emitter

import (
	"github.com/ivlev/svga2svg/internal/clipmask"
	"github.com/ivlev/svga2svg/internal/movie"
	"github.com/ivlev/svga2svg/internal/shapes"
	"github.com/ivlev/svga2svg/internal/track"
)

// Layer holds everything derived from one sprite. Layers are independent of
// each other and may be built concurrently.
type Layer struct {
	Index    int
	Kind     movie.SpriteKind
	ImageKey string

	// Tracks are the sprite level tracks (opacity, transform, clip-path)
	Tracks track.Set

	// Clip binds frames to the clip path definitions in Defs
	Clip clipmask.Binding
	Defs []clipmask.Def

	// Slots is set for vector sprites only
	Slots []SlotLayer
}

// SlotLayer is one shape slot of a vector sprite and its tracks.
type SlotLayer struct {
	Slot   shapes.Slot
	Tracks track.Set
}

// BuildLayer derives the layer of sprite number index.
func BuildLayer(index int, sprite movie.Sprite, images map[string][]byte, matcher shapes.Matcher) Layer {
	l := Layer{
		Index:    index,
		Kind:     sprite.Kind(images),
		ImageKey: sprite.ImageKey,
	}
	if l.Kind == movie.SpriteNone {
		return l
	}

	l.Clip, l.Defs = clipmask.Resolve(index, sprite)
	l.Tracks = track.Sprite(sprite, l.Clip)

	if l.Kind == movie.SpriteVector {
		for _, slot := range matcher.Slots(sprite.Frames) {
			l.Slots = append(l.Slots, SlotLayer{Slot: slot, Tracks: track.Slot(slot)})
		}
	}
	return l
}

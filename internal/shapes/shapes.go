// Package shapes aligns the procedural shapes of a vector sprite across frames
// into slots, one timeline per slot.
package shapes

import (
	"sort"

	"github.com/ivlev/svga2svg/internal/movie"
)

// Slot is the timeline of "the same" shape across all frames of a sprite.
type Slot struct {
	// Index identifies the slot within its sprite
	Index int

	// Kind is taken from the first frame the slot appears in and assumed
	// fixed for the slot's lifetime
	Kind movie.ShapeKind

	// First is the slot's shape in the frame it first appears in
	First movie.ShapeFrame

	// Frames has one entry per movie frame. Frames where the slot is absent
	// hold a neutral shape with no geometry, style or transform.
	Frames []movie.ShapeFrame
}

// Matcher decides which shapes of different frames are the same shape.
type Matcher interface {
	Slots(frames []movie.Frame) []Slot
}

// Positional matches shapes by their index in each frame's shape list: slot i
// of frame k is slot i of frame k+1, and a shorter list means the trailing
// slots are absent in that frame.
type Positional struct{}

func (Positional) Slots(frames []movie.Frame) []Slot {
	byIndex := map[int]*Slot{}
	for f, frame := range frames {
		for i, shape := range frame.Shapes {
			slot, ok := byIndex[i]
			if !ok {
				slot = newSlot(i, shape, len(frames))
				byIndex[i] = slot
			}
			slot.Frames[f] = shape
		}
	}
	return sorted(byIndex)
}

func newSlot(index int, first movie.ShapeFrame, frameCount int) *Slot {
	s := &Slot{
		Index:  index,
		Kind:   first.Kind,
		First:  first,
		Frames: make([]movie.ShapeFrame, frameCount),
	}
	for f := range s.Frames {
		s.Frames[f] = movie.ShapeFrame{Kind: first.Kind}
	}
	return s
}

func sorted(byIndex map[int]*Slot) []Slot {
	slots := make([]Slot, 0, len(byIndex))
	for _, s := range byIndex {
		slots = append(slots, *s)
	}
	sort.Slice(slots, func(i, j int) bool {
		return slots[i].Index < slots[j].Index
	})
	return slots
}

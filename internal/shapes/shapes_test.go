package shapes

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/ivlev/svga2svg/internal/movie"
)

func TestPositionalSlots(t *testing.T) {
	ellipse := movie.ShapeFrame{Kind: movie.ShapeEllipse, Ellipse: &movie.EllipseArgs{X: 1, Y: 2, RadiusX: 3, RadiusY: 4}}
	path := movie.ShapeFrame{Kind: movie.ShapePath, Path: &movie.PathArgs{D: "M 0 0 L 1 1"}}
	rect := movie.ShapeFrame{Kind: movie.ShapeRect, Rect: &movie.RectArgs{Width: 10, Height: 5}}

	frames := []movie.Frame{
		{Shapes: []movie.ShapeFrame{path}},
		{Shapes: []movie.ShapeFrame{path, ellipse}},
		{},
		{Shapes: []movie.ShapeFrame{rect, ellipse}},
	}

	slots := Positional{}.Slots(frames)
	if len(slots) != 2 {
		t.Fatalf("got %d slots, want 2", len(slots))
	}

	first := slots[0]
	if first.Index != 0 || first.Kind != movie.ShapePath {
		t.Errorf("slot 0 = index %d kind %v, want index 0 kind path", first.Index, first.Kind)
	}
	if diff := cmp.Diff([]movie.ShapeFrame{path, path, {Kind: movie.ShapePath}, rect}, first.Frames); diff != "" {
		t.Errorf("slot 0 frames mismatch (-want +got):\n%s", diff)
	}
	// A later frame with a different geometry kind keeps the slot's kind.
	if first.Frames[3].Kind != movie.ShapeRect {
		t.Errorf("slot 0 frame 3 kind = %v, want the frame's own rect", first.Frames[3].Kind)
	}
	if neutral := first.Frames[2]; neutral.Path != nil || neutral.Style != nil || neutral.Transform != nil {
		t.Errorf("absent frame should be neutral, got %+v", neutral)
	}

	second := slots[1]
	if second.Kind != movie.ShapeEllipse {
		t.Errorf("slot 1 kind = %v, want ellipse", second.Kind)
	}
	neutral := movie.ShapeFrame{Kind: movie.ShapeEllipse}
	if diff := cmp.Diff([]movie.ShapeFrame{neutral, ellipse, neutral, ellipse}, second.Frames); diff != "" {
		t.Errorf("slot 1 frames mismatch (-want +got):\n%s", diff)
	}
	if second.Frames[0].Kind != movie.ShapeEllipse {
		t.Errorf("neutral frame kind = %v, want the slot kind", second.Frames[0].Kind)
	}
	if second.First.Ellipse == nil || second.First.Ellipse.RadiusX != 3 {
		t.Errorf("slot 1 first shape = %+v, want the frame 1 ellipse", second.First)
	}
}

func TestPositionalNoShapes(t *testing.T) {
	slots := Positional{}.Slots(make([]movie.Frame, 3))
	if len(slots) != 0 {
		t.Errorf("got %d slots, want none", len(slots))
	}
}

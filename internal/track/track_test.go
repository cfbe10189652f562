package track

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/ivlev/svga2svg/internal/affine"
	"github.com/ivlev/svga2svg/internal/clipmask"
	"github.com/ivlev/svga2svg/internal/movie"
	"github.com/ivlev/svga2svg/internal/shapes"
)

func TestCollapse(t *testing.T) {
	tests := []struct {
		name   string
		values []string
		absent Absent
		want   []string
		wantOK bool
	}{
		{"constant", []string{"5", "5", "5"}, nil, []string{"5"}, true},
		{"changing", []string{"5", "5", "6"}, nil, []string{"5", "5", "6"}, true},
		{"single", []string{"7"}, nil, []string{"7"}, true},
		{"sentinels ignored", []string{"", "3", "", "3"}, SentinelPolicy(CX), []string{"3"}, true},
		{"sentinels kept when animated", []string{"", "3", "4"}, SentinelPolicy(CX), []string{"", "3", "4"}, true},
		{"all sentinels", []string{"", "", ""}, SentinelPolicy(CX), nil, false},
		{"unset stroke width", []string{"0", "0"}, SentinelPolicy(StrokeWidth), nil, false},
		{"stroke width zero ignored", []string{"0", "2", "2"}, SentinelPolicy(StrokeWidth), []string{"2"}, true},
		{"transparent is real paint", []string{"transparent", "rgba(0, 0, 0, 1)"}, SentinelPolicy(Fill), []string{"transparent", "rgba(0, 0, 0, 1)"}, true},
		{"empty", nil, nil, nil, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := Collapse(tt.values, tt.absent)
			if ok != tt.wantOK {
				t.Fatalf("ok = %v, want %v", ok, tt.wantOK)
			}
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("Collapse mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func values(t *testing.T, set Set, attr string) []string {
	t.Helper()
	tr, ok := set.Get(attr)
	if !ok {
		t.Fatalf("track %q missing", attr)
	}
	return tr.Values
}

func TestSpriteAnimated(t *testing.T) {
	sprite := movie.Sprite{Frames: []movie.Frame{
		{Alpha: 1, Transform: affine.Identity()},
		{Alpha: 0.5, Transform: affine.Matrix{A: 1, D: 1, TX: 10}},
	}}

	set := Sprite(sprite, clipmask.Binding{})

	if diff := cmp.Diff([]string{"1", "0.5"}, values(t, set, Opacity)); diff != "" {
		t.Errorf("opacity mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"0,0", "10,0"}, values(t, set, Translate)); diff != "" {
		t.Errorf("translate mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"1,1"}, values(t, set, Scale)); diff != "" {
		t.Errorf("scale mismatch (-want +got):\n%s", diff)
	}
	if _, ok := set.Get(ClipPath); ok {
		t.Error("clip-path track present without masks")
	}

	var order []string
	for _, tr := range set {
		order = append(order, tr.Attribute)
	}
	if diff := cmp.Diff([]string{Opacity, Translate, Rotate, Skew, Scale}, order); diff != "" {
		t.Errorf("track order mismatch (-want +got):\n%s", diff)
	}
}

func TestSpriteStatic(t *testing.T) {
	m := affine.Matrix{A: 2, D: 2, TX: 3, TY: 4}
	sprite := movie.Sprite{Frames: []movie.Frame{
		{Alpha: 1, Transform: m},
		{Alpha: 1, Transform: m},
		{Alpha: 1, Transform: m},
	}}

	set := Sprite(sprite, clipmask.Binding{})
	for _, tr := range set {
		if !tr.Static() {
			t.Errorf("track %s has %d values, want 1", tr.Attribute, len(tr.Values))
		}
	}
	if got := values(t, set, Scale)[0]; got != "2,2" {
		t.Errorf("scale = %q, want 2,2", got)
	}
	if tr, _ := set.Get(Translate); !tr.Transform {
		t.Error("translate should be flagged as a transform track")
	}
}

func TestSpriteClipPath(t *testing.T) {
	sprite := movie.Sprite{Frames: []movie.Frame{
		{Alpha: 1, Transform: affine.Identity()},
		{Alpha: 1, Transform: affine.Identity(), Mask: &movie.Mask{PathData: "M0 0"}},
		{Alpha: 1, Transform: affine.Identity()},
	}}
	binding, _ := clipmask.Resolve(2, sprite)

	set := Sprite(sprite, binding)
	want := []string{"none", "url(#maskPath_2_1)", "none"}
	if diff := cmp.Diff(want, values(t, set, ClipPath)); diff != "" {
		t.Errorf("clip-path mismatch (-want +got):\n%s", diff)
	}
	if tr, _ := set.Get(ClipPath); tr.At(1) != "url(#maskPath_2_1)" {
		t.Errorf("At(1) = %q", tr.At(1))
	}
}

func TestSlotDefaults(t *testing.T) {
	width := 2.0
	red := &movie.Color{R: 1, A: 1}
	frames := []movie.Frame{
		{Shapes: []movie.ShapeFrame{{
			Kind:  movie.ShapePath,
			Path:  &movie.PathArgs{D: "M 1 1 L 2 2"},
			Style: &movie.Style{Fill: red, StrokeWidth: &width, LineDash: []float64{4, 2}},
		}}},
		{},
		{Shapes: []movie.ShapeFrame{{
			Kind:      movie.ShapePath,
			Path:      &movie.PathArgs{D: "M 1 1 L 3 3"},
			Style:     &movie.Style{Fill: red, StrokeWidth: &width},
			Transform: &affine.Matrix{A: 1, D: 1, TX: 5},
		}}},
	}
	slot := slotsOf(t, frames)[0]

	set := Slot(slot)

	checks := map[string][]string{
		Fill:            {"rgba(255, 0, 0, 1)", "transparent", "rgba(255, 0, 0, 1)"},
		Stroke:          {"transparent"},
		StrokeWidth:     {"2"},
		D:               {"M 1 1 L 2 2", "M 0 0", "M 1 1 L 3 3"},
		Translate:       {"0,0", "0,0", "5,0"},
		Rotate:          {"0"},
		Scale:           {"1,1"},
		StrokeDasharray: {"4 2"},
	}
	for attr, want := range checks {
		if diff := cmp.Diff(want, values(t, set, attr)); diff != "" {
			t.Errorf("%s mismatch (-want +got):\n%s", attr, diff)
		}
	}
	for _, attr := range []string{CX, X, Width} {
		if _, ok := set.Get(attr); ok {
			t.Errorf("path slot should not carry %s", attr)
		}
	}
}

func TestSlotEllipseGeometry(t *testing.T) {
	frames := []movie.Frame{
		{Shapes: []movie.ShapeFrame{{Kind: movie.ShapeEllipse, Ellipse: &movie.EllipseArgs{X: 5, Y: 5, RadiusX: 2, RadiusY: 1}}}},
		{},
		{Shapes: []movie.ShapeFrame{{Kind: movie.ShapeEllipse, Ellipse: &movie.EllipseArgs{X: 6, Y: 5, RadiusX: 2, RadiusY: 1}}}},
	}
	set := Slot(slotsOf(t, frames)[0])

	if diff := cmp.Diff([]string{"5", "", "6"}, values(t, set, CX)); diff != "" {
		t.Errorf("cx mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"5"}, values(t, set, CY)); diff != "" {
		t.Errorf("cy mismatch (-want +got):\n%s", diff)
	}
	if _, ok := set.Get(StrokeWidth); ok {
		t.Error("unset stroke width should be omitted")
	}
	if _, ok := set.Get(StrokeDasharray); ok {
		t.Error("empty dash array should be omitted")
	}
	if _, ok := set.Get(D); ok {
		t.Error("ellipse slot should not carry d")
	}
}

func slotsOf(t *testing.T, frames []movie.Frame) []shapes.Slot {
	t.Helper()
	slots := shapes.Positional{}.Slots(frames)
	if len(slots) == 0 {
		t.Fatal("no slots")
	}
	return slots
}

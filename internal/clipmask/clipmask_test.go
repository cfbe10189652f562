package clipmask

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/ivlev/svga2svg/internal/movie"
)

func spriteWithMasks(masks ...string) movie.Sprite {
	s := movie.Sprite{Frames: make([]movie.Frame, len(masks))}
	for i, m := range masks {
		if m != "" {
			s.Frames[i].Mask = &movie.Mask{PathData: m}
		}
	}
	return s
}

func TestResolveSingleMaskedFrame(t *testing.T) {
	binding, defs := Resolve(4, spriteWithMasks("", "M0 0 L1.23456 2", ""))

	want := []Def{{ID: "maskPath_4_1", Sprite: 4, Frame: 1, PathData: "M0 0 L1.234 2"}}
	if diff := cmp.Diff(want, defs); diff != "" {
		t.Errorf("defs mismatch (-want +got):\n%s", diff)
	}

	if !binding.Enabled {
		t.Fatal("binding should be enabled")
	}
	wantRefs := []string{None, "url(#maskPath_4_1)", None}
	if diff := cmp.Diff(wantRefs, binding.Refs); diff != "" {
		t.Errorf("refs mismatch (-want +got):\n%s", diff)
	}
}

func TestResolveNoMask(t *testing.T) {
	binding, defs := Resolve(0, spriteWithMasks("", "", ""))
	if binding.Enabled || binding.Refs != nil {
		t.Errorf("binding = %+v, want disabled", binding)
	}
	if len(defs) != 0 {
		t.Errorf("got %d defs, want none", len(defs))
	}
}

func TestSegments(t *testing.T) {
	tests := []struct {
		name  string
		masks []string
		want  []Segment
	}{
		{
			name:  "disabled",
			masks: []string{"", ""},
			want:  nil,
		},
		{
			name:  "masked middle",
			masks: []string{"", "M0 0", ""},
			want: []Segment{
				{Start: 0, End: 1, Ref: None},
				{Start: 1, End: 2, Ref: "url(#maskPath_0_1)"},
				{Start: 2, End: 3, Ref: None},
			},
		},
		{
			name:  "repeated path shares a segment",
			masks: []string{"M0 0", "M0 0", "M1 1", "", ""},
			want: []Segment{
				{Start: 0, End: 2, Ref: "url(#maskPath_0_0)"},
				{Start: 2, End: 3, Ref: "url(#maskPath_0_2)"},
				{Start: 3, End: 5, Ref: None},
			},
		},
		{
			name:  "precision noise does not split",
			masks: []string{"M0.12345 1", "M0.12399 1"},
			want: []Segment{
				{Start: 0, End: 2, Ref: "url(#maskPath_0_0)"},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b, _ := Resolve(0, spriteWithMasks(tt.masks...))
			if diff := cmp.Diff(tt.want, b.Segments()); diff != "" {
				t.Errorf("segments mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

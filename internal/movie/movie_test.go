package movie

import (
	"errors"
	"testing"

	"github.com/ivlev/svga2svg/internal/affine"
)

func frames(n int) []Frame {
	fs := make([]Frame, n)
	for i := range fs {
		fs[i] = Frame{Alpha: 1, Transform: affine.Identity()}
	}
	return fs
}

func TestSpriteKind(t *testing.T) {
	images := map[string][]byte{"img": {1}, "odd.vector": {2}}

	tests := []struct {
		key  string
		want SpriteKind
	}{
		{"img", SpriteRaster},
		{"shape.vector", SpriteVector},
		{"odd.vector", SpriteRaster},
		{"missing", SpriteNone},
		{"", SpriteNone},
	}

	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			got := Sprite{ImageKey: tt.key}.Kind(images)
			if got != tt.want {
				t.Errorf("Kind(%q) = %v, want %v", tt.key, got, tt.want)
			}
		})
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		movie   Movie
		wantErr bool
	}{
		{"valid", Movie{FPS: 20, FrameCount: 2, Sprites: []Sprite{{Frames: frames(2)}}}, false},
		{"no sprites", Movie{FPS: 20, FrameCount: 1}, false},
		{"zero fps", Movie{FPS: 0, FrameCount: 2}, true},
		{"no frames", Movie{FPS: 20, FrameCount: 0}, true},
		{"short sprite", Movie{FPS: 20, FrameCount: 3, Sprites: []Sprite{{Frames: frames(2)}}}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.movie.Validate()
			if tt.wantErr {
				if !errors.Is(err, ErrInvalidMovie) {
					t.Errorf("Validate() = %v, want ErrInvalidMovie", err)
				}
			} else if err != nil {
				t.Errorf("Validate() unexpected error: %v", err)
			}
		})
	}
}

func TestDuration(t *testing.T) {
	m := Movie{FPS: 20, FrameCount: 30}
	if got := m.Duration(); got != 1.5 {
		t.Errorf("Duration() = %v, want 1.5", got)
	}
}

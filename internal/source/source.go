// Package source loads movies from disk and measures the raster images they
// embed.
package source

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/ivlev/svga2svg/internal/movie"
)

// ErrUnsupportedFormat is returned for inputs no source can read.
var ErrUnsupportedFormat = errors.New("unsupported movie format")

// Extensions lists the file extensions Open understands.
var Extensions = []string{".svga", ".yaml", ".yml"}

type Source interface {
	Name() string
	Load(ctx context.Context) (*movie.Movie, error)
}

// Open picks a source for path by its extension.
func Open(path string) (Source, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".svga":
		return NewSVGASource(path), nil
	case ".yaml", ".yml":
		return NewYAMLSource(path), nil
	}
	return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, path)
}

// IsMovie reports whether path has one of the Extensions.
func IsMovie(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	for _, e := range Extensions {
		if ext == e {
			return true
		}
	}
	return false
}

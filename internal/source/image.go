package source

import (
	"bytes"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

// ImageInfo is what the document needs to embed an image.
type ImageInfo struct {
	Width  int
	Height int
	MIME   string
}

type ImageMeasurer interface {
	Measure(data []byte) (ImageInfo, error)
}

// DecodeConfigMeasurer reads only the image header. PNG, JPEG, GIF, WebP,
// BMP and TIFF are recognised.
type DecodeConfigMeasurer struct{}

func (DecodeConfigMeasurer) Measure(data []byte) (ImageInfo, error) {
	cfg, name, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return ImageInfo{}, fmt.Errorf("decode image header: %w", err)
	}
	return ImageInfo{Width: cfg.Width, Height: cfg.Height, MIME: "image/" + name}, nil
}

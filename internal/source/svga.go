package source

import (
	"bytes"
	"compress/zlib"
	"context"
	"fmt"
	"io"
	"math"
	"os"

	"google.golang.org/protobuf/encoding/protowire"

	"github.com/ivlev/svga2svg/internal/affine"
	"github.com/ivlev/svga2svg/internal/movie"
)

// DefaultFPS is used when a movie does not declare its frame rate.
const DefaultFPS = 20

// Shape entity types.
const (
	shapeTypeShape   = 0
	shapeTypeRect    = 1
	shapeTypeEllipse = 2
	shapeTypeKeep    = 3
)

var (
	lineCaps  = []string{"butt", "round", "square"}
	lineJoins = []string{"miter", "round", "bevel"}
)

// SVGASource reads an SVGA 2 movie file: a zlib stream holding a protobuf
// encoded movie entity.
type SVGASource struct {
	path string
}

func NewSVGASource(path string) *SVGASource {
	return &SVGASource{path: path}
}

func (s *SVGASource) Name() string {
	return s.path
}

func (s *SVGASource) Load(ctx context.Context) (*movie.Movie, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(s.path)
	if err != nil {
		return nil, err
	}
	m, err := DecodeSVGA(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", s.path, err)
	}
	return m, nil
}

// DecodeSVGA inflates and decodes an SVGA 2 payload. Zip containers of the
// 1.x format are rejected with ErrUnsupportedFormat.
func DecodeSVGA(data []byte) (*movie.Movie, error) {
	if bytes.HasPrefix(data, []byte("PK")) {
		return nil, fmt.Errorf("%w: zip container (SVGA 1.x)", ErrUnsupportedFormat)
	}

	zr, err := zlib.NewReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("inflate: %w", err)
	}
	defer zr.Close()

	raw, err := io.ReadAll(zr)
	if err != nil {
		return nil, fmt.Errorf("inflate: %w", err)
	}

	m, err := decodeMovie(raw)
	if err != nil {
		return nil, fmt.Errorf("decode movie entity: %w", err)
	}
	return m, nil
}

// visitor handles one field of a message and returns how many bytes of b it
// consumed. Returning 0 skips the field.
type visitor func(num protowire.Number, typ protowire.Type, b []byte) (int, error)

func walk(b []byte, visit visitor) error {
	for len(b) > 0 {
		num, typ, n := protowire.ConsumeTag(b)
		if n < 0 {
			return protowire.ParseError(n)
		}
		b = b[n:]

		n, err := visit(num, typ, b)
		if err != nil {
			return fmt.Errorf("field %d: %w", num, err)
		}
		if n == 0 {
			n = protowire.ConsumeFieldValue(num, typ, b)
		}
		if n < 0 {
			return protowire.ParseError(n)
		}
		b = b[n:]
	}
	return nil
}

func consumeBytes(typ protowire.Type, b []byte) ([]byte, int, error) {
	if typ != protowire.BytesType {
		return nil, 0, fmt.Errorf("wire type %d, want bytes", typ)
	}
	v, n := protowire.ConsumeBytes(b)
	if n < 0 {
		return nil, 0, protowire.ParseError(n)
	}
	return v, n, nil
}

func consumeFloat(typ protowire.Type, b []byte) (float64, int, error) {
	if typ != protowire.Fixed32Type {
		return 0, 0, fmt.Errorf("wire type %d, want fixed32", typ)
	}
	v, n := protowire.ConsumeFixed32(b)
	if n < 0 {
		return 0, 0, protowire.ParseError(n)
	}
	return float64(math.Float32frombits(v)), n, nil
}

func consumeVarint(typ protowire.Type, b []byte) (uint64, int, error) {
	if typ != protowire.VarintType {
		return 0, 0, fmt.Errorf("wire type %d, want varint", typ)
	}
	v, n := protowire.ConsumeVarint(b)
	if n < 0 {
		return 0, 0, protowire.ParseError(n)
	}
	return v, n, nil
}

func decodeMovie(b []byte) (*movie.Movie, error) {
	m := &movie.Movie{FPS: DefaultFPS, Images: map[string][]byte{}}
	err := walk(b, func(num protowire.Number, typ protowire.Type, b []byte) (int, error) {
		switch num {
		case 1:
			v, n, err := consumeBytes(typ, b)
			m.Version = string(v)
			return n, err
		case 2:
			v, n, err := consumeBytes(typ, b)
			if err != nil {
				return n, err
			}
			return n, decodeParams(v, m)
		case 3:
			v, n, err := consumeBytes(typ, b)
			if err != nil {
				return n, err
			}
			key, data, err := decodeImageEntry(v)
			m.Images[key] = data
			return n, err
		case 4:
			v, n, err := consumeBytes(typ, b)
			if err != nil {
				return n, err
			}
			sprite, err := decodeSprite(v)
			m.Sprites = append(m.Sprites, sprite)
			return n, err
		}
		return 0, nil
	})
	if err != nil {
		return nil, err
	}
	return m, nil
}

func decodeParams(b []byte, m *movie.Movie) error {
	return walk(b, func(num protowire.Number, typ protowire.Type, b []byte) (int, error) {
		switch num {
		case 1:
			v, n, err := consumeFloat(typ, b)
			m.Width = v
			return n, err
		case 2:
			v, n, err := consumeFloat(typ, b)
			m.Height = v
			return n, err
		case 3:
			v, n, err := consumeVarint(typ, b)
			if err == nil && int32(v) > 0 {
				m.FPS = float64(int32(v))
			}
			return n, err
		case 4:
			v, n, err := consumeVarint(typ, b)
			m.FrameCount = int(int32(v))
			return n, err
		}
		return 0, nil
	})
}

func decodeImageEntry(b []byte) (string, []byte, error) {
	var key string
	var data []byte
	err := walk(b, func(num protowire.Number, typ protowire.Type, b []byte) (int, error) {
		switch num {
		case 1:
			v, n, err := consumeBytes(typ, b)
			key = string(v)
			return n, err
		case 2:
			v, n, err := consumeBytes(typ, b)
			data = bytes.Clone(v)
			return n, err
		}
		return 0, nil
	})
	return key, data, err
}

func decodeSprite(b []byte) (movie.Sprite, error) {
	var s movie.Sprite
	err := walk(b, func(num protowire.Number, typ protowire.Type, b []byte) (int, error) {
		switch num {
		case 1:
			v, n, err := consumeBytes(typ, b)
			s.ImageKey = string(v)
			return n, err
		case 2:
			v, n, err := consumeBytes(typ, b)
			if err != nil {
				return n, err
			}
			frame, keep, err := decodeFrame(v)
			if keep && len(s.Frames) > 0 {
				frame.Shapes = s.Frames[len(s.Frames)-1].Shapes
			}
			s.Frames = append(s.Frames, frame)
			return n, err
		}
		return 0, nil
	})
	return s, err
}

// decodeFrame also reports whether the frame asked to keep the shapes of
// the previous frame.
func decodeFrame(b []byte) (movie.Frame, bool, error) {
	f := movie.Frame{Transform: affine.Identity()}
	keep := false
	err := walk(b, func(num protowire.Number, typ protowire.Type, b []byte) (int, error) {
		switch num {
		case 1:
			v, n, err := consumeFloat(typ, b)
			f.Alpha = v
			return n, err
		case 3:
			v, n, err := consumeBytes(typ, b)
			if err != nil {
				return n, err
			}
			f.Transform, err = decodeTransform(v)
			return n, err
		case 4:
			v, n, err := consumeBytes(typ, b)
			if len(v) > 0 {
				f.Mask = &movie.Mask{PathData: string(v)}
			}
			return n, err
		case 5:
			v, n, err := consumeBytes(typ, b)
			if err != nil {
				return n, err
			}
			shape, isKeep, err := decodeShape(v)
			if isKeep {
				keep = true
			} else {
				f.Shapes = append(f.Shapes, shape)
			}
			return n, err
		}
		return 0, nil
	})
	return f, keep, err
}

func decodeTransform(b []byte) (affine.Matrix, error) {
	var m affine.Matrix
	err := decodeFloats(b, map[protowire.Number]*float64{1: &m.A, 2: &m.B, 3: &m.C, 4: &m.D, 5: &m.TX, 6: &m.TY})
	return m, err
}

func decodeShape(b []byte) (movie.ShapeFrame, bool, error) {
	var s movie.ShapeFrame
	shapeType := uint64(shapeTypeShape)
	err := walk(b, func(num protowire.Number, typ protowire.Type, b []byte) (int, error) {
		switch num {
		case 1:
			v, n, err := consumeVarint(typ, b)
			shapeType = v
			return n, err
		case 2:
			v, n, err := consumeBytes(typ, b)
			if err != nil {
				return n, err
			}
			s.Path = &movie.PathArgs{}
			return n, walk(v, func(num protowire.Number, typ protowire.Type, b []byte) (int, error) {
				if num != 1 {
					return 0, nil
				}
				d, n, err := consumeBytes(typ, b)
				s.Path.D = string(d)
				return n, err
			})
		case 3:
			v, n, err := consumeBytes(typ, b)
			if err != nil {
				return n, err
			}
			s.Rect = &movie.RectArgs{}
			return n, decodeFloats(v, map[protowire.Number]*float64{
				1: &s.Rect.X, 2: &s.Rect.Y, 3: &s.Rect.Width, 4: &s.Rect.Height, 5: &s.Rect.CornerRadius,
			})
		case 4:
			v, n, err := consumeBytes(typ, b)
			if err != nil {
				return n, err
			}
			s.Ellipse = &movie.EllipseArgs{}
			return n, decodeFloats(v, map[protowire.Number]*float64{
				1: &s.Ellipse.X, 2: &s.Ellipse.Y, 3: &s.Ellipse.RadiusX, 4: &s.Ellipse.RadiusY,
			})
		case 10:
			v, n, err := consumeBytes(typ, b)
			if err != nil {
				return n, err
			}
			s.Style, err = decodeStyle(v)
			return n, err
		case 11:
			v, n, err := consumeBytes(typ, b)
			if err != nil {
				return n, err
			}
			m, err := decodeTransform(v)
			s.Transform = &m
			return n, err
		}
		return 0, nil
	})

	switch shapeType {
	case shapeTypeRect:
		s.Kind = movie.ShapeRect
	case shapeTypeEllipse:
		s.Kind = movie.ShapeEllipse
	case shapeTypeKeep:
		return s, true, err
	default:
		s.Kind = movie.ShapePath
	}
	return s, false, err
}

func decodeFloats(b []byte, fields map[protowire.Number]*float64) error {
	return walk(b, func(num protowire.Number, typ protowire.Type, b []byte) (int, error) {
		dst, ok := fields[num]
		if !ok {
			return 0, nil
		}
		v, n, err := consumeFloat(typ, b)
		*dst = v
		return n, err
	})
}

func decodeColor(b []byte) (*movie.Color, error) {
	c := &movie.Color{}
	err := decodeFloats(b, map[protowire.Number]*float64{1: &c.R, 2: &c.G, 3: &c.B, 4: &c.A})
	return c, err
}

func decodeStyle(b []byte) (*movie.Style, error) {
	st := &movie.Style{LineCap: lineCaps[0], LineJoin: lineJoins[0]}
	var dash [3]float64
	err := walk(b, func(num protowire.Number, typ protowire.Type, b []byte) (int, error) {
		switch num {
		case 1, 2:
			v, n, err := consumeBytes(typ, b)
			if err != nil {
				return n, err
			}
			c, err := decodeColor(v)
			if num == 1 {
				st.Fill = c
			} else {
				st.Stroke = c
			}
			return n, err
		case 3:
			v, n, err := consumeFloat(typ, b)
			st.StrokeWidth = &v
			return n, err
		case 4:
			v, n, err := consumeVarint(typ, b)
			if v < uint64(len(lineCaps)) {
				st.LineCap = lineCaps[v]
			}
			return n, err
		case 5:
			v, n, err := consumeVarint(typ, b)
			if v < uint64(len(lineJoins)) {
				st.LineJoin = lineJoins[v]
			}
			return n, err
		case 6:
			v, n, err := consumeFloat(typ, b)
			st.MiterLimit = v
			return n, err
		case 7, 8, 9:
			v, n, err := consumeFloat(typ, b)
			dash[num-7] = v
			return n, err
		}
		return 0, nil
	})

	// The third dash value is a phase, which has no track of its own.
	if dash[0] > 0 || dash[1] > 0 {
		st.LineDash = []float64{dash[0], dash[1]}
	}
	return st, err
}

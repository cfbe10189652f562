package source

import (
	"context"
	"encoding/base64"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/ivlev/svga2svg/internal/affine"
	"github.com/ivlev/svga2svg/internal/movie"
)

// YAMLSource reads a movie described in YAML. Images are given inline as
// base64 data or as a file path relative to the YAML file.
type YAMLSource struct {
	path string
}

func NewYAMLSource(path string) *YAMLSource {
	return &YAMLSource{path: path}
}

func (s *YAMLSource) Name() string {
	return s.path
}

func (s *YAMLSource) Load(ctx context.Context) (*movie.Movie, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(s.path)
	if err != nil {
		return nil, err
	}

	var doc movieDoc
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("%s: %w", s.path, err)
	}
	m, err := doc.movie(filepath.Dir(s.path))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", s.path, err)
	}
	return m, nil
}

// WriteYAML dumps m to path with images inlined.
func WriteYAML(m *movie.Movie, path string) error {
	data, err := yaml.Marshal(newMovieDoc(m))
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

type movieDoc struct {
	Version    string              `yaml:"version,omitempty"`
	Width      float64             `yaml:"width"`
	Height     float64             `yaml:"height"`
	FPS        float64             `yaml:"fps,omitempty"`
	FrameCount int                 `yaml:"frameCount"`
	Images     map[string]imageDoc `yaml:"images,omitempty"`
	Sprites    []spriteDoc         `yaml:"sprites"`
}

type imageDoc struct {
	Data string `yaml:"data,omitempty"`
	File string `yaml:"file,omitempty"`
}

type spriteDoc struct {
	ImageKey string     `yaml:"imageKey,omitempty"`
	Frames   []frameDoc `yaml:"frames"`
}

type frameDoc struct {
	Alpha     float64    `yaml:"alpha"`
	Transform *matrixDoc `yaml:"transform,omitempty"`
	Mask      string     `yaml:"mask,omitempty"`
	Shapes    []shapeDoc `yaml:"shapes,omitempty"`
}

type matrixDoc struct {
	A  float64 `yaml:"a"`
	B  float64 `yaml:"b"`
	C  float64 `yaml:"c"`
	D  float64 `yaml:"d"`
	TX float64 `yaml:"tx"`
	TY float64 `yaml:"ty"`
}

type shapeDoc struct {
	Kind      string      `yaml:"kind"`
	D         string      `yaml:"d,omitempty"`
	Ellipse   *ellipseDoc `yaml:"ellipse,omitempty"`
	Rect      *rectDoc    `yaml:"rect,omitempty"`
	Style     *styleDoc   `yaml:"style,omitempty"`
	Transform *matrixDoc  `yaml:"transform,omitempty"`
}

type ellipseDoc struct {
	X       float64 `yaml:"x"`
	Y       float64 `yaml:"y"`
	RadiusX float64 `yaml:"radiusX"`
	RadiusY float64 `yaml:"radiusY"`
}

type rectDoc struct {
	X            float64 `yaml:"x"`
	Y            float64 `yaml:"y"`
	Width        float64 `yaml:"width"`
	Height       float64 `yaml:"height"`
	CornerRadius float64 `yaml:"cornerRadius,omitempty"`
}

type styleDoc struct {
	Fill        *colorDoc `yaml:"fill,omitempty"`
	Stroke      *colorDoc `yaml:"stroke,omitempty"`
	StrokeWidth *float64  `yaml:"strokeWidth,omitempty"`
	LineDash    []float64 `yaml:"lineDash,omitempty,flow"`
	LineJoin    string    `yaml:"lineJoin,omitempty"`
	LineCap     string    `yaml:"lineCap,omitempty"`
	MiterLimit  float64   `yaml:"miterLimit,omitempty"`
}

type colorDoc struct {
	R float64 `yaml:"r"`
	G float64 `yaml:"g"`
	B float64 `yaml:"b"`
	A float64 `yaml:"a"`
}

func (d movieDoc) movie(dir string) (*movie.Movie, error) {
	m := &movie.Movie{
		Version:    d.Version,
		Width:      d.Width,
		Height:     d.Height,
		FPS:        d.FPS,
		FrameCount: d.FrameCount,
		Images:     make(map[string][]byte, len(d.Images)),
	}
	if m.FPS == 0 {
		m.FPS = DefaultFPS
	}

	for key, img := range d.Images {
		var data []byte
		var err error
		switch {
		case img.Data != "":
			data, err = base64.StdEncoding.DecodeString(img.Data)
		case img.File != "":
			data, err = os.ReadFile(filepath.Join(dir, img.File))
		default:
			err = fmt.Errorf("neither data nor file given")
		}
		if err != nil {
			return nil, fmt.Errorf("image %q: %w", key, err)
		}
		m.Images[key] = data
	}

	for i, sd := range d.Sprites {
		s := movie.Sprite{ImageKey: sd.ImageKey, Frames: make([]movie.Frame, len(sd.Frames))}
		for f, fd := range sd.Frames {
			frame, err := fd.frame()
			if err != nil {
				return nil, fmt.Errorf("sprite %d frame %d: %w", i, f, err)
			}
			s.Frames[f] = frame
		}
		m.Sprites = append(m.Sprites, s)
	}
	return m, nil
}

func (d frameDoc) frame() (movie.Frame, error) {
	f := movie.Frame{Alpha: d.Alpha, Transform: d.Transform.matrix()}
	if d.Mask != "" {
		f.Mask = &movie.Mask{PathData: d.Mask}
	}
	for _, sd := range d.Shapes {
		shape, err := sd.shape()
		if err != nil {
			return f, err
		}
		f.Shapes = append(f.Shapes, shape)
	}
	return f, nil
}

// matrix returns the identity for an absent transform.
func (d *matrixDoc) matrix() affine.Matrix {
	if d == nil {
		return affine.Identity()
	}
	return affine.Matrix{A: d.A, B: d.B, C: d.C, D: d.D, TX: d.TX, TY: d.TY}
}

func (d shapeDoc) shape() (movie.ShapeFrame, error) {
	var s movie.ShapeFrame
	switch d.Kind {
	case "", "path":
		s.Kind = movie.ShapePath
		if d.D != "" {
			s.Path = &movie.PathArgs{D: d.D}
		}
	case "ellipse":
		s.Kind = movie.ShapeEllipse
		if e := d.Ellipse; e != nil {
			s.Ellipse = &movie.EllipseArgs{X: e.X, Y: e.Y, RadiusX: e.RadiusX, RadiusY: e.RadiusY}
		}
	case "rect":
		s.Kind = movie.ShapeRect
		if r := d.Rect; r != nil {
			s.Rect = &movie.RectArgs{X: r.X, Y: r.Y, Width: r.Width, Height: r.Height, CornerRadius: r.CornerRadius}
		}
	default:
		return s, fmt.Errorf("unknown shape kind %q (path, ellipse, rect)", d.Kind)
	}

	if st := d.Style; st != nil {
		s.Style = &movie.Style{
			Fill:        st.Fill.color(),
			Stroke:      st.Stroke.color(),
			StrokeWidth: st.StrokeWidth,
			LineDash:    st.LineDash,
			LineJoin:    st.LineJoin,
			LineCap:     st.LineCap,
			MiterLimit:  st.MiterLimit,
		}
	}
	if d.Transform != nil {
		m := d.Transform.matrix()
		s.Transform = &m
	}
	return s, nil
}

func (d *colorDoc) color() *movie.Color {
	if d == nil {
		return nil
	}
	return &movie.Color{R: d.R, G: d.G, B: d.B, A: d.A}
}

func newMovieDoc(m *movie.Movie) movieDoc {
	d := movieDoc{
		Version:    m.Version,
		Width:      m.Width,
		Height:     m.Height,
		FPS:        m.FPS,
		FrameCount: m.FrameCount,
	}
	if len(m.Images) > 0 {
		d.Images = make(map[string]imageDoc, len(m.Images))
		for key, data := range m.Images {
			d.Images[key] = imageDoc{Data: base64.StdEncoding.EncodeToString(data)}
		}
	}

	for _, s := range m.Sprites {
		sd := spriteDoc{ImageKey: s.ImageKey, Frames: make([]frameDoc, len(s.Frames))}
		for f, frame := range s.Frames {
			fd := frameDoc{Alpha: frame.Alpha, Transform: newMatrixDoc(&frame.Transform)}
			if frame.Mask != nil {
				fd.Mask = frame.Mask.PathData
			}
			for _, shape := range frame.Shapes {
				fd.Shapes = append(fd.Shapes, newShapeDoc(shape))
			}
			sd.Frames[f] = fd
		}
		d.Sprites = append(d.Sprites, sd)
	}
	return d
}

func newMatrixDoc(m *affine.Matrix) *matrixDoc {
	if m == nil {
		return nil
	}
	return &matrixDoc{A: m.A, B: m.B, C: m.C, D: m.D, TX: m.TX, TY: m.TY}
}

func newShapeDoc(s movie.ShapeFrame) shapeDoc {
	d := shapeDoc{Kind: s.Kind.String(), Transform: newMatrixDoc(s.Transform)}
	if s.Path != nil {
		d.D = s.Path.D
	}
	if e := s.Ellipse; e != nil {
		d.Ellipse = &ellipseDoc{X: e.X, Y: e.Y, RadiusX: e.RadiusX, RadiusY: e.RadiusY}
	}
	if r := s.Rect; r != nil {
		d.Rect = &rectDoc{X: r.X, Y: r.Y, Width: r.Width, Height: r.Height, CornerRadius: r.CornerRadius}
	}
	if st := s.Style; st != nil {
		d.Style = &styleDoc{
			Fill:        newColorDoc(st.Fill),
			Stroke:      newColorDoc(st.Stroke),
			StrokeWidth: st.StrokeWidth,
			LineDash:    st.LineDash,
			LineJoin:    st.LineJoin,
			LineCap:     st.LineCap,
			MiterLimit:  st.MiterLimit,
		}
	}
	return d
}

func newColorDoc(c *movie.Color) *colorDoc {
	if c == nil {
		return nil
	}
	return &colorDoc{R: c.R, G: c.G, B: c.B, A: c.A}
}

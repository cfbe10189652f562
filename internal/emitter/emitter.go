// Package emitter assembles the output document from per-sprite layers.
//
// A Document is filled in a fixed order: images, clip paths, layers, styles.
// Clip paths are optional, and styles are only accepted when the chosen
// Strategy produces them. Calls out of order fail with ErrInvalidTransition.
package emitter

import (
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"

	"github.com/ivlev/svga2svg/internal/clipmask"
	"github.com/ivlev/svga2svg/internal/config"
	"github.com/ivlev/svga2svg/internal/format"
	"github.com/ivlev/svga2svg/internal/markup"
	"github.com/ivlev/svga2svg/internal/movie"
)

// ErrInvalidTransition is returned when document sections are appended out
// of order.
var ErrInvalidTransition = errors.New("invalid document transition")

type state int

const (
	stateInit state = iota
	stateImagesAppended
	stateClipPathsAppended
	stateLayersAppended
	stateStylesAppended
	stateFinalized
)

func (s state) String() string {
	switch s {
	case stateInit:
		return "init"
	case stateImagesAppended:
		return "images appended"
	case stateClipPathsAppended:
		return "clip paths appended"
	case stateLayersAppended:
		return "layers appended"
	case stateStylesAppended:
		return "styles appended"
	case stateFinalized:
		return "finalized"
	}
	return "unknown"
}

// Image is an embedded raster image and its measured size.
type Image struct {
	Key    string
	Data   []byte
	Width  int
	Height int
	MIME   string
}

// Document is the output tree under construction.
type Document struct {
	root     *markup.Element
	strategy Strategy
	timing   Timing
	state    state
	rules    []string
}

// NewDocument starts a document for m rendered by strategy.
func NewDocument(m *movie.Movie, s config.Settings, strategy Strategy) *Document {
	f := func(v float64) string { return format.Float(v, format.TransformPrecision) }
	root := markup.New("svg",
		"version", "1.1",
		"xmlns", "http://www.w3.org/2000/svg",
		"style", "background-color: "+s.Background(),
		"viewBox", "0 0 "+f(m.Width)+" "+f(m.Height),
	)
	return &Document{
		root:     root,
		strategy: strategy,
		timing:   NewTiming(m, s),
	}
}

func (d *Document) transition(to state, from ...state) error {
	for _, s := range from {
		if d.state == s {
			d.state = to
			return nil
		}
	}
	return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, d.state, to)
}

// AppendImages embeds images as inline data in a definitions block, sorted
// by key.
func (d *Document) AppendImages(images []Image) error {
	if err := d.transition(stateImagesAppended, stateInit); err != nil {
		return err
	}
	if len(images) == 0 {
		return nil
	}

	sorted := make([]Image, len(images))
	copy(sorted, images)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Key < sorted[j].Key })

	defs := markup.New("defs")
	for _, img := range sorted {
		defs.Append(markup.New("image",
			"id", ImageID(img.Key),
			"href", "data:"+img.MIME+";base64,"+base64.StdEncoding.EncodeToString(img.Data),
			"width", strconv.Itoa(img.Width),
			"height", strconv.Itoa(img.Height),
		))
	}
	d.root.Append(defs)
	return nil
}

// AppendClipPaths adds one clip path per definition.
func (d *Document) AppendClipPaths(defs []clipmask.Def) error {
	if err := d.transition(stateClipPathsAppended, stateImagesAppended); err != nil {
		return err
	}
	if len(defs) == 0 {
		return nil
	}

	block := markup.New("defs")
	for _, def := range defs {
		block.Append(markup.New("clipPath", "id", def.ID).Append(
			markup.New("path", "d", def.PathData, "style", "fill:#000000;"),
		))
	}
	d.root.Append(block)
	return nil
}

// AppendLayers renders layers in the given order.
func (d *Document) AppendLayers(layers []Layer) error {
	if err := d.transition(stateLayersAppended, stateImagesAppended, stateClipPathsAppended); err != nil {
		return err
	}
	for _, l := range layers {
		nodes, rules := d.strategy.Layer(l, d.timing)
		d.root.Append(nodes...)
		d.rules = append(d.rules, rules...)
	}
	return nil
}

// AppendStyles adds the style block collected from the layers. Only valid
// for strategies that use styles.
func (d *Document) AppendStyles() error {
	if !d.strategy.UsesStyles() {
		return fmt.Errorf("%w: strategy %s emits no styles", ErrInvalidTransition, d.strategy.Name())
	}
	if err := d.transition(stateStylesAppended, stateLayersAppended); err != nil {
		return err
	}
	d.root.Append(markup.New("style").SetText(strings.Join(d.rules, "\n")))
	return nil
}

// Finalize serialises the document to w.
func (d *Document) Finalize(w io.Writer) error {
	from := stateLayersAppended
	if d.strategy.UsesStyles() {
		from = stateStylesAppended
	}
	if err := d.transition(stateFinalized, from); err != nil {
		return err
	}
	return d.root.Encode(w)
}

// Emit runs the whole append sequence and writes the document.
func Emit(w io.Writer, m *movie.Movie, s config.Settings, strategy Strategy, images []Image, layers []Layer) error {
	d := NewDocument(m, s, strategy)
	if err := d.AppendImages(images); err != nil {
		return err
	}

	var defs []clipmask.Def
	for _, l := range layers {
		defs = append(defs, l.Defs...)
	}
	if len(defs) > 0 {
		if err := d.AppendClipPaths(defs); err != nil {
			return err
		}
	}

	if err := d.AppendLayers(layers); err != nil {
		return err
	}
	if strategy.UsesStyles() {
		if err := d.AppendStyles(); err != nil {
			return err
		}
	}
	return d.Finalize(w)
}

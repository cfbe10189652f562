package engine

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/ivlev/svga2svg/internal/config"
	"github.com/ivlev/svga2svg/internal/emitter"
	"github.com/ivlev/svga2svg/internal/movie"
	"github.com/ivlev/svga2svg/internal/shapes"
	"github.com/ivlev/svga2svg/internal/source"
	"github.com/ivlev/svga2svg/internal/system"
)

// Options are the collaborators and knobs of one conversion.
type Options struct {
	Settings config.Settings
	Strategy emitter.Strategy
	Measurer source.ImageMeasurer
	Matcher  shapes.Matcher

	// Workers bounds the number of sprites processed at once
	Workers int
}

// Convert renders m as a document and writes it to w. Images are measured
// and layers built concurrently; the document is assembled in sprite order
// once every layer is ready, so nothing is written when any step fails.
func Convert(ctx context.Context, w io.Writer, m *movie.Movie, opts Options) error {
	if err := m.Validate(); err != nil {
		return err
	}
	if opts.Strategy == nil {
		opts.Strategy = emitter.Declarative{}
	}
	if opts.Measurer == nil {
		opts.Measurer = source.DecodeConfigMeasurer{}
	}
	if opts.Matcher == nil {
		opts.Matcher = shapes.Positional{}
	}
	if opts.Workers < 1 {
		opts.Workers = 1
	}

	images, err := measureImages(ctx, m, opts.Measurer, opts.Workers)
	if err != nil {
		return err
	}
	layers, err := buildLayers(ctx, m, opts.Matcher, opts.Workers)
	if err != nil {
		return err
	}
	return emitter.Emit(w, m, opts.Settings, opts.Strategy, images, layers)
}

func measureImages(ctx context.Context, m *movie.Movie, measurer source.ImageMeasurer, workers int) ([]emitter.Image, error) {
	keys := make([]string, 0, len(m.Images))
	for k := range m.Images {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	images := make([]emitter.Image, len(keys))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i, key := range keys {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			data := m.Images[key]
			info, err := measurer.Measure(data)
			if err != nil {
				return fmt.Errorf("image %q: %w", key, err)
			}
			images[i] = emitter.Image{Key: key, Data: data, Width: info.Width, Height: info.Height, MIME: info.MIME}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return images, nil
}

func buildLayers(ctx context.Context, m *movie.Movie, matcher shapes.Matcher, workers int) ([]emitter.Layer, error) {
	layers := make([]emitter.Layer, len(m.Sprites))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i, sprite := range m.Sprites {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			layers[i] = emitter.BuildLayer(i, sprite, m.Images, matcher)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return layers, nil
}

// Converter runs one movie from its source to the output file.
type Converter struct {
	Config   *config.Config
	Source   source.Source
	Strategy emitter.Strategy
	Measurer source.ImageMeasurer
	Log      zerolog.Logger

	// StatsOut receives the performance report
	StatsOut io.Writer
}

func NewConverter(cfg *config.Config, src source.Source, strategy emitter.Strategy, log zerolog.Logger) *Converter {
	return &Converter{
		Config:   cfg,
		Source:   src,
		Strategy: strategy,
		Measurer: source.DecodeConfigMeasurer{},
		Log:      log,
		StatsOut: os.Stdout,
	}
}

func (c *Converter) Run(ctx context.Context) error {
	startTime := time.Now()
	if c.Strategy == nil {
		c.Strategy = emitter.Declarative{}
	}

	m, err := c.Source.Load(ctx)
	if err != nil {
		return fmt.Errorf("load %s: %w", c.Source.Name(), err)
	}
	loadEnd := time.Now()

	c.Log.Info().
		Str("source", c.Source.Name()).
		Str("version", m.Version).
		Float64("fps", m.FPS).
		Int("frames", m.FrameCount).
		Int("sprites", len(m.Sprites)).
		Int("images", len(m.Images)).
		Msg("[*] movie loaded")

	if c.Config.DumpPath != "" {
		if err := source.WriteYAML(m, c.Config.DumpPath); err != nil {
			return fmt.Errorf("dump movie: %w", err)
		}
		c.Log.Info().Str("path", c.Config.DumpPath).Msg("[*] movie model dumped")
	}

	buf := system.GetBuffer()
	defer system.PutBuffer(buf)

	convertStart := time.Now()
	err = Convert(ctx, buf, m, Options{
		Settings: c.Config.Settings,
		Strategy: c.Strategy,
		Measurer: c.Measurer,
		Workers:  c.Config.Workers,
	})
	if err != nil {
		return fmt.Errorf("convert %s: %w", c.Source.Name(), err)
	}
	convertEnd := time.Now()

	if dir := filepath.Dir(c.Config.OutputPath); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return err
		}
	}
	if err := os.WriteFile(c.Config.OutputPath, buf.Bytes(), 0644); err != nil {
		return fmt.Errorf("write %s: %w", c.Config.OutputPath, err)
	}

	c.Log.Debug().
		Str("output", c.Config.OutputPath).
		Int("bytes", buf.Len()).
		Str("strategy", c.Strategy.Name()).
		Msg("[*] document written")

	if c.Config.ShowStats {
		c.showStats(stats{
			frames:  m.FrameCount,
			sprites: len(m.Sprites),
			bytes:   buf.Len(),
			total:   time.Since(startTime),
			load:    loadEnd.Sub(startTime),
			convert: convertEnd.Sub(convertStart),
			write:   time.Since(convertEnd),
		})
	}
	return nil
}

type stats struct {
	frames, sprites, bytes      int
	total, load, convert, write time.Duration
}

func (c *Converter) showStats(s stats) {
	proc, err := system.ProcessStats()
	if err != nil {
		c.Log.Warn().Err(err).Msg("[!] process stats unavailable")
	}

	report := fmt.Sprintf(
		"--- [PERFORMANCE REPORT] ---\n"+
			"Build: %s\n"+
			"Input: %s\n"+
			"Sprites: %d | Frames: %d | Output: %d bytes\n"+
			"Total Time: %.3fs\n"+
			"Loading: %.3fs\n"+
			"Conversion: %.3fs\n"+
			"Writing: %.3fs\n"+
			"Memory (RSS): %.1f MiB | CPU: %.1f%% | Goroutines: %d\n"+
			"----------------------------\n",
		c.Config.BuildVersion, c.Source.Name(), s.sprites, s.frames, s.bytes,
		s.total.Seconds(), s.load.Seconds(), s.convert.Seconds(), s.write.Seconds(),
		float64(proc.RSS)/(1<<20), proc.CPUPercent, proc.Goroutines,
	)
	fmt.Fprint(c.StatsOut, report)
}

package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/ivlev/svga2svg/internal/config"
	"github.com/ivlev/svga2svg/internal/emitter"
	"github.com/ivlev/svga2svg/internal/engine"
	"github.com/ivlev/svga2svg/internal/source"
	"github.com/ivlev/svga2svg/internal/system"
)

// buildVersion is set at link time with -ldflags "-X main.buildVersion=..."
var buildVersion = "dev"

func main() {
	log := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: "15:04:05"}).
		With().Timestamp().Logger()

	dirs := []string{"input/svga", "output"}
	for _, d := range dirs {
		os.MkdirAll(d, 0755)
	}

	inputPtr := flag.String("input", "", "Movie file (.svga, .yaml) or directory of movies (default: newest file in input/svga/)")
	outputPtr := flag.String("output", "", "Output .svg path, or output directory for a directory input (default: generated in output/)")
	settingsPtr := flag.String("settings", "", "YAML settings file (backgroundColor, loopCount, fillMode, strategy)")
	backgroundPtr := flag.String("background", "transparent", "Background paint of the document")
	loopPtr := flag.Int("loop", 0, "Number of repetitions, 0 loops forever")
	fillPtr := flag.String("fill", config.FillNone, "State after a finite loop: none, forward, clear")
	strategyPtr := flag.String("strategy", config.StrategyDeclarative, "Animation output: declarative, keyframes")
	workersPtr := flag.Int("workers", system.DefaultWorkers(), "Workers")
	dumpPtr := flag.String("dump", "", "Also write the decoded movie as YAML to this path (a directory for a directory input)")
	writeSettingsPtr := flag.String("write-settings", "", "Save the effective settings as YAML to this path")
	statsPtr := flag.Bool("stats", false, "Print a performance report")
	verbosePtr := flag.Bool("verbose", false, "Debug logging")

	flag.Parse()

	if *verbosePtr {
		log = log.Level(zerolog.DebugLevel)
	} else {
		log = log.Level(zerolog.InfoLevel)
	}

	settings := config.DefaultSettings()
	if *settingsPtr != "" {
		s, err := config.LoadSettings(*settingsPtr)
		if err != nil {
			log.Fatal().Err(err).Msg("[-] cannot load settings")
		}
		settings = s
		log.Info().Str("path", *settingsPtr).Msg("[*] settings loaded")
	}

	// Flags given on the command line win over the settings file.
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "background":
			settings.BackgroundColor = *backgroundPtr
		case "loop":
			settings.LoopCount = *loopPtr
		case "fill":
			settings.FillMode = *fillPtr
		case "strategy":
			settings.Strategy = *strategyPtr
		}
	})
	if err := settings.Validate(); err != nil {
		log.Fatal().Err(err).Msg("[-] invalid settings")
	}

	if *writeSettingsPtr != "" {
		if err := config.WriteSettings(settings, *writeSettingsPtr); err != nil {
			log.Fatal().Err(err).Msg("[-] cannot save settings")
		}
		log.Info().Str("path", *writeSettingsPtr).Msg("[*] settings saved")
	}

	strategy, err := emitter.NewStrategy(settings.Strategy)
	if err != nil {
		log.Fatal().Err(err).Msg("[-] invalid settings")
	}

	inputPath := *inputPtr
	if inputPath == "" {
		latest, err := system.FindLatestMovie("input/svga")
		if err != nil {
			log.Fatal().Err(err).Msg("[-] no input. Put a .svga file into input/svga/")
		}
		inputPath = latest
		log.Info().Str("file", inputPath).Msg("[*] input selected")
	}

	fi, err := os.Stat(inputPath)
	if err != nil {
		log.Fatal().Err(err).Msg("[-] cannot open input")
	}

	now := time.Now()
	var jobs []*config.Config
	if fi.IsDir() {
		movies, err := system.FindMovies(inputPath)
		if err != nil {
			log.Fatal().Err(err).Msg("[-] cannot list input directory")
		}
		if len(movies) == 0 {
			log.Fatal().Str("dir", inputPath).Msg("[-] no movies in input directory")
		}
		system.InitResourceLimits(log)

		outDir := *outputPtr
		if outDir == "" {
			outDir = "output"
		}
		for _, m := range movies {
			cfg := newConfig(m, system.OutputPath(m, outDir, now), settings, *workersPtr, *statsPtr)
			if *dumpPtr != "" {
				cfg.DumpPath = filepath.Join(*dumpPtr, baseName(m)+".yaml")
			}
			jobs = append(jobs, cfg)
		}
		if *dumpPtr != "" {
			os.MkdirAll(*dumpPtr, 0755)
		}
		log.Info().Int("movies", len(jobs)).Str("dir", inputPath).Msg("[*] batch conversion")
	} else {
		out := *outputPtr
		if out == "" {
			out = system.OutputPath(inputPath, "output", now)
		}
		cfg := newConfig(inputPath, out, settings, *workersPtr, *statsPtr)
		cfg.DumpPath = *dumpPtr
		jobs = append(jobs, cfg)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	// Movies of a batch run side by side; sprites of each movie then share
	// the remaining workers.
	perMovie := *workersPtr
	if len(jobs) > 1 {
		perMovie = max(1, *workersPtr/len(jobs))
	}

	var failed atomic.Int32
	var g errgroup.Group
	g.SetLimit(max(1, *workersPtr))
	for _, cfg := range jobs {
		cfg.Workers = perMovie
		g.Go(func() error {
			movieLog := log.With().Str("movie", filepath.Base(cfg.InputPath)).Logger()
			if err := convert(ctx, cfg, strategy, movieLog); err != nil {
				movieLog.Error().Err(err).Msg("[!] conversion failed")
				failed.Add(1)
				return nil
			}
			movieLog.Info().Str("output", cfg.OutputPath).Msg("[+++] done")
			return nil
		})
	}
	g.Wait()

	if n := failed.Load(); n > 0 {
		stop()
		log.Fatal().Int32("failed", n).Int("total", len(jobs)).Msg("[-] some movies were not converted")
	}
}

func newConfig(input, output string, s config.Settings, workers int, stats bool) *config.Config {
	return &config.Config{
		InputPath:    input,
		OutputPath:   output,
		Workers:      workers,
		ShowStats:    stats,
		BuildVersion: buildVersion,
		Settings:     s,
	}
}

func convert(ctx context.Context, cfg *config.Config, strategy emitter.Strategy, log zerolog.Logger) error {
	src, err := source.Open(cfg.InputPath)
	if err != nil {
		return err
	}
	return engine.NewConverter(cfg, src, strategy, log).Run(ctx)
}

func baseName(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

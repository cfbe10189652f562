package config

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

// Fill modes applied when the animation stops after a finite loop count.
const (
	FillNone    = "none"
	FillForward = "forward"
	FillClear   = "clear"
)

// Emission strategies.
const (
	StrategyDeclarative = "declarative"
	StrategyKeyframes   = "keyframes"
)

// Settings controls the presentation of the generated document.
type Settings struct {
	// BackgroundColor is any CSS paint; empty means transparent
	BackgroundColor string `yaml:"backgroundColor,omitempty"`

	// LoopCount is the number of repetitions, 0 repeats forever
	LoopCount int `yaml:"loopCount"`

	// FillMode is none, forward (keep last frame) or clear (remove at end).
	// It only matters when LoopCount is not 0.
	FillMode string `yaml:"fillMode,omitempty"`

	// Strategy selects declarative animation elements or keyframe style rules
	Strategy string `yaml:"strategy,omitempty"`
}

// DefaultSettings returns settings for a transparent, endlessly looping,
// declaratively animated document.
func DefaultSettings() Settings {
	return Settings{
		BackgroundColor: "transparent",
		LoopCount:       0,
		FillMode:        FillNone,
		Strategy:        StrategyDeclarative,
	}
}

// Validate rejects negative loop counts and unknown fill modes or strategies.
func (s Settings) Validate() error {
	if s.LoopCount < 0 {
		return fmt.Errorf("loopCount must be non-negative, got %d", s.LoopCount)
	}
	switch s.FillMode {
	case "", FillNone, FillForward, FillClear:
	default:
		return fmt.Errorf("unknown fillMode %q (none, forward, clear)", s.FillMode)
	}
	switch s.Strategy {
	case "", StrategyDeclarative, StrategyKeyframes:
	default:
		return fmt.Errorf("unknown strategy %q (declarative, keyframes)", s.Strategy)
	}
	return nil
}

// Background returns the background paint, transparent when unset.
func (s Settings) Background() string {
	if s.BackgroundColor == "" {
		return "transparent"
	}
	return s.BackgroundColor
}

// Finite reports whether the animation stops after LoopCount repetitions.
func (s Settings) Finite() bool {
	return s.LoopCount != 0
}

// RepeatCount returns "indefinite" or the loop count.
func (s Settings) RepeatCount() string {
	if !s.Finite() {
		return "indefinite"
	}
	return strconv.Itoa(s.LoopCount)
}

// EffectiveFill returns the fill mode in effect: FillNone unless the loop is
// finite and a mode was set.
func (s Settings) EffectiveFill() string {
	if !s.Finite() || s.FillMode == "" {
		return FillNone
	}
	return s.FillMode
}

// LoadSettings reads settings from a YAML file. Fields missing from the file
// keep their defaults.
func LoadSettings(path string) (Settings, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Settings{}, err
	}

	s := DefaultSettings()
	if err := yaml.Unmarshal(data, &s); err != nil {
		return Settings{}, fmt.Errorf("failed to parse settings '%s': %w", path, err)
	}
	if err := s.Validate(); err != nil {
		return Settings{}, fmt.Errorf("invalid settings '%s': %w", path, err)
	}
	return s, nil
}

// WriteSettings writes settings to a YAML file.
func WriteSettings(s Settings, path string) error {
	data, err := yaml.Marshal(s)
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0644)
}

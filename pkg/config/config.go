// Package config holds the static parameters of a pie chart: angles,
// animation durations, behaviour flags, sizing and float-effect tuning.
//
// A Config is read-only once handed to a chart. Files are decoded on top of
// [Default], so a file only needs the keys it changes:
//
//	# chart.toml
//	start_angle = -90
//	split_angle = 2
//	stroke_mode = true
//	duration = "1.5s"
//
//	cfg, err := config.Load("chart.toml")
package config

import (
	"fmt"
	"time"

	"github.com/matzehuels/piesweep/pkg/errors"
)

// Default values.
const (
	DefaultStartAngle        = -90.0
	DefaultDuration          = 3000 * time.Millisecond
	DefaultFloatUpDuration   = 500 * time.Millisecond
	DefaultFloatDownDuration = 800 * time.Millisecond
	DefaultStrokeWidth       = 80.0
	DefaultFloatExpandAngle  = 8.0
	DefaultFloatExpandSize   = 15.0
	DefaultFloatShadowRadius = 18.0
	DefaultClickTolerance    = 5.0
	DefaultTextSize          = 14.0
)

// Duration is a time.Duration that reads and writes as a Go duration string
// ("1.5s", "800ms") in TOML, YAML and JSON.
type Duration time.Duration

// UnmarshalText parses a duration string.
func (d *Duration) UnmarshalText(b []byte) error {
	v, err := time.ParseDuration(string(b))
	if err != nil {
		return err
	}
	*d = Duration(v)
	return nil
}

// MarshalText formats the duration.
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(time.Duration(d).String()), nil
}

// Std returns the standard library duration.
func (d Duration) Std() time.Duration { return time.Duration(d) }

// Config contains every static chart parameter.
type Config struct {
	// Geometry
	StartAngle float64 `toml:"start_angle" yaml:"start_angle" json:"start_angle"`
	SplitAngle float64 `toml:"split_angle" yaml:"split_angle" json:"split_angle"`

	// Animation
	Duration          Duration `toml:"duration" yaml:"duration" json:"duration"`
	FloatUpDuration   Duration `toml:"float_up_duration" yaml:"float_up_duration" json:"float_up_duration"`
	FloatDownDuration Duration `toml:"float_down_duration" yaml:"float_down_duration" json:"float_down_duration"`

	// Behaviour flags
	AnimatePie   bool `toml:"animate_pie" yaml:"animate_pie" json:"animate_pie"`
	AnimateTouch bool `toml:"animate_touch" yaml:"animate_touch" json:"animate_touch"`
	DrawText     bool `toml:"draw_text" yaml:"draw_text" json:"draw_text"`
	AutoSize     bool `toml:"auto_size" yaml:"auto_size" json:"auto_size"`
	StrokeMode   bool `toml:"stroke_mode" yaml:"stroke_mode" json:"stroke_mode"`
	CanTouch     bool `toml:"can_touch" yaml:"can_touch" json:"can_touch"`

	// Sizing; PieRadius wins over RadiusRatio when AutoSize is off.
	PieRadius   float64 `toml:"pie_radius" yaml:"pie_radius" json:"pie_radius,omitempty"`
	RadiusRatio float64 `toml:"radius_ratio" yaml:"radius_ratio" json:"radius_ratio,omitempty"`
	StrokeWidth float64 `toml:"stroke_width" yaml:"stroke_width" json:"stroke_width"`

	// Float effect
	FloatExpandAngle  float64 `toml:"float_expand_angle" yaml:"float_expand_angle" json:"float_expand_angle"`
	FloatExpandSize   float64 `toml:"float_expand_size" yaml:"float_expand_size" json:"float_expand_size"`
	FloatShadowRadius float64 `toml:"float_shadow_radius" yaml:"float_shadow_radius" json:"float_shadow_radius"`

	// ClickTolerance widens the hit band by this many units on both edges.
	ClickTolerance float64 `toml:"click_tolerance" yaml:"click_tolerance" json:"click_tolerance"`

	// Text and colors
	TextSize   float64  `toml:"text_size" yaml:"text_size" json:"text_size"`
	Palette    []string `toml:"palette" yaml:"palette" json:"palette,omitempty"`
	Background string   `toml:"background" yaml:"background" json:"background,omitempty"`
}

// Default returns the configuration used when nothing is overridden.
func Default() Config {
	return Config{
		StartAngle:        DefaultStartAngle,
		Duration:          Duration(DefaultDuration),
		FloatUpDuration:   Duration(DefaultFloatUpDuration),
		FloatDownDuration: Duration(DefaultFloatDownDuration),
		AnimatePie:        true,
		AnimateTouch:      true,
		AutoSize:          true,
		CanTouch:          true,
		StrokeWidth:       DefaultStrokeWidth,
		FloatExpandAngle:  DefaultFloatExpandAngle,
		FloatExpandSize:   DefaultFloatExpandSize,
		FloatShadowRadius: DefaultFloatShadowRadius,
		ClickTolerance:    DefaultClickTolerance,
		TextSize:          DefaultTextSize,
	}
}

// Validate checks value ranges. It does not know the number of slices, so
// the total split gap is checked when a chart is prepared.
func (c *Config) Validate() error {
	if err := errors.ValidateAngle("start_angle", c.StartAngle, -360, 360); err != nil {
		return err
	}
	if err := errors.ValidateAngle("split_angle", c.SplitAngle, 0, 359); err != nil {
		return err
	}
	durations := []struct {
		name  string
		value Duration
	}{
		{"duration", c.Duration},
		{"float_up_duration", c.FloatUpDuration},
		{"float_down_duration", c.FloatDownDuration},
	}
	for _, d := range durations {
		if d.value < 0 {
			return errors.New(errors.ErrCodeInvalidConfig, "%s must not be negative, got %s", d.name, d.value.Std())
		}
	}
	sizes := []struct {
		name  string
		value float64
	}{
		{"pie_radius", c.PieRadius},
		{"stroke_width", c.StrokeWidth},
		{"float_expand_angle", c.FloatExpandAngle},
		{"float_expand_size", c.FloatExpandSize},
		{"float_shadow_radius", c.FloatShadowRadius},
		{"click_tolerance", c.ClickTolerance},
		{"text_size", c.TextSize},
	}
	for _, v := range sizes {
		if err := errors.ValidateNonNegative(v.name, v.value); err != nil {
			return err
		}
	}
	if c.RadiusRatio < 0 || c.RadiusRatio > 1 {
		return errors.New(errors.ErrCodeInvalidConfig, "radius_ratio must be within [0, 1], got %v", c.RadiusRatio)
	}
	return nil
}

// ValidateSplit checks that n slices leave room for their gaps.
func (c *Config) ValidateSplit(n int) error {
	if n < 2 {
		return nil
	}
	if total := float64(n-1) * c.SplitAngle; total >= 360 {
		return errors.New(errors.ErrCodeInvalidConfig,
			"split_angle %v leaves no room for %d slices (total gap %v°)", c.SplitAngle, n, total)
	}
	return nil
}

// String summarizes the configuration for debug logs.
func (c Config) String() string {
	return fmt.Sprintf("start=%g split=%g duration=%s stroke=%v autosize=%v touch=%v",
		c.StartAngle, c.SplitAngle, c.Duration.Std(), c.StrokeMode, c.AutoSize, c.CanTouch)
}

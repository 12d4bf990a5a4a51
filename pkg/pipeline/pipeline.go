// Package pipeline provides the load → prepare → script → render pipeline
// behind the render command and the HTTP host.
//
// A run loads a dataset and a configuration, prepares a chart on a manual
// clock, plays a frame script against it (how far the sweep has progressed,
// which points were tapped, how far the float transition has run) and
// renders the resulting frame in each requested format. Because the clock
// is manual the output is deterministic, so artifacts are cached by a hash
// of the inputs and the script.
//
// # Usage
//
//	runner := pipeline.NewRunner(cache, nil, logger)
//	result, err := runner.Execute(ctx, pipeline.Options{
//	    DataPath:   "budget.csv",
//	    ConfigPath: "chart.toml",
//	    Formats:    []string{"svg", "png"},
//	    At:         0.5,
//	})
//	if err != nil {
//	    return err
//	}
//	svg := result.Artifacts["svg"]
package pipeline

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/piesweep/pkg/cache"
	"github.com/matzehuels/piesweep/pkg/config"
	"github.com/matzehuels/piesweep/pkg/errors"
	"github.com/matzehuels/piesweep/pkg/pie"
	"github.com/matzehuels/piesweep/pkg/render/sink"
)

// =============================================================================
// Default Values
// =============================================================================

const (
	// DefaultWidth is the default frame width.
	DefaultWidth = 400.0

	// DefaultHeight is the default frame height.
	DefaultHeight = 400.0

	// DefaultScale is the default PNG raster scale.
	DefaultScale = 2.0
)

// Format constants for output formats.
const (
	FormatSVG  = "svg"
	FormatPNG  = "png"
	FormatPDF  = "pdf"
	FormatJSON = "json"
)

// ValidFormats is the set of supported output formats.
var ValidFormats = map[string]bool{
	FormatSVG:  true,
	FormatPNG:  true,
	FormatPDF:  true,
	FormatJSON: true,
}

// =============================================================================
// Options - Pipeline Configuration
// =============================================================================

// Point is a tap position in frame coordinates.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Options contains all configuration for one pipeline run.
type Options struct {
	// Input options; Data wins over DataPath.
	DataPath   string         `json:"data_path,omitempty"`
	Data       []byte         `json:"-"`
	DataFormat string         `json:"data_format,omitempty"` // required with Data
	ConfigPath string         `json:"config_path,omitempty"`
	Config     *config.Config `json:"config,omitempty"` // wins over ConfigPath

	// Frame options
	Width   float64     `json:"width,omitempty"`
	Height  float64     `json:"height,omitempty"`
	Padding pie.Padding `json:"-"`

	// Script options. At is the sweep progress the frame is captured at
	// (1 when the sweep is disabled); Taps are released in order once the
	// sweep is captured; FloatAt is the float transition progress after the
	// last tap.
	At      float64 `json:"at"`
	Taps    []Point `json:"taps,omitempty"`
	FloatAt float64 `json:"float_at"`

	// Render options
	Formats []string `json:"formats,omitempty"`
	Scale   float64  `json:"scale,omitempty"`
	Refresh bool     `json:"refresh,omitempty"`

	// Runtime options (not serialized)
	Logger *log.Logger `json:"-"`

	validated bool
}

// Result contains the outputs of a pipeline run.
type Result struct {
	// Slices is the planned geometry.
	Slices []pie.Slice

	// InputHash is the content hash of the dataset and configuration.
	InputHash string

	// State is the chart state the frame was captured in.
	State sink.FrameState

	// Artifacts contains rendered outputs keyed by format.
	Artifacts map[string][]byte

	// Stats contains timing and size information.
	Stats Stats

	// CacheHit reports whether every artifact came from the cache.
	CacheHit bool
}

// =============================================================================
// Validation Functions
// =============================================================================

// ValidateFormat checks that a format is valid.
func ValidateFormat(format string) error {
	if !ValidFormats[format] {
		return errors.New(errors.ErrCodeInvalidFormat, "invalid format: %q (must be one of: svg, png, pdf, json)", format)
	}
	return nil
}

// ValidateFormats checks that all formats are valid.
func ValidateFormats(formats []string) error {
	for _, f := range formats {
		if err := ValidateFormat(f); err != nil {
			return err
		}
	}
	return nil
}

// ParseFormats splits a comma-separated format list.
func ParseFormats(s string) []string {
	var out []string
	for _, f := range strings.Split(s, ",") {
		if f = strings.TrimSpace(strings.ToLower(f)); f != "" {
			out = append(out, f)
		}
	}
	return out
}

// ParsePoint parses "x,y".
func ParsePoint(s string) (Point, error) {
	var p Point
	if _, err := fmt.Sscanf(strings.TrimSpace(s), "%g,%g", &p.X, &p.Y); err != nil {
		return Point{}, errors.Wrap(errors.ErrCodeInvalidInput, err, "invalid point %q (want x,y)", s)
	}
	return p, nil
}

// =============================================================================
// Options Methods
// =============================================================================

// ValidateAndSetDefaults checks required fields and applies defaults. It is
// idempotent.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	if o.DataPath == "" && o.Data == nil {
		return errors.New(errors.ErrCodeInvalidInput, "data or data_path is required")
	}
	if o.Data != nil && o.DataFormat == "" {
		return errors.New(errors.ErrCodeInvalidInput, "data_format is required with inline data")
	}
	if o.At < 0 || o.At > 1 {
		return errors.New(errors.ErrCodeInvalidInput, "at must be within [0, 1], got %v", o.At)
	}
	if o.FloatAt < 0 || o.FloatAt > 1 {
		return errors.New(errors.ErrCodeInvalidInput, "float_at must be within [0, 1], got %v", o.FloatAt)
	}

	if o.Width == 0 {
		o.Width = DefaultWidth
	}
	if o.Height == 0 {
		o.Height = DefaultHeight
	}
	if o.Width < 0 || o.Height < 0 {
		return errors.New(errors.ErrCodeInvalidInput, "frame size must be positive, got %vx%v", o.Width, o.Height)
	}
	if o.Scale == 0 {
		o.Scale = DefaultScale
	}
	if len(o.Formats) == 0 {
		o.Formats = []string{FormatSVG}
	}
	if err := ValidateFormats(o.Formats); err != nil {
		return err
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	o.validated = true
	return nil
}

// ArtifactKeyOpts returns cache key options for one format.
func (o *Options) ArtifactKeyOpts(format string) cache.ArtifactKeyOpts {
	var taps []float64
	for _, p := range o.Taps {
		taps = append(taps, p.X, p.Y)
	}
	opts := cache.ArtifactKeyOpts{
		Format:  format,
		Width:   o.Width,
		Height:  o.Height,
		At:      o.At,
		Taps:    taps,
		FloatAt: o.FloatAt,
	}
	if format == FormatPNG {
		opts.Scale = o.Scale
	}
	return opts
}

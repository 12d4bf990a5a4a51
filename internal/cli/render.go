package cli

import (
	"context"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/piesweep/pkg/errors"
	"github.com/matzehuels/piesweep/pkg/pipeline"
)

// renderOpts holds the command-line flags for the render command.
type renderOpts struct {
	output   string   // output file path (or base path for multiple outputs)
	formats  []string // output formats: "svg", "png", "pdf", "json"
	width    float64  // frame width
	height   float64  // frame height
	scale    float64  // PNG raster scale
	at       float64  // sweep progress the frame is captured at
	taps     []string // "x,y" tap positions, released in order
	floatAt  float64  // float transition progress after the last tap
	noCache  bool     // bypass the artifact cache
	refresh  bool     // re-render and overwrite cached artifacts
	redisURL string   // shared Redis cache instead of the file cache
	config   configFlags
}

// renderCommand creates the render command for generating chart frames.
func (c *CLI) renderCommand() *cobra.Command {
	var formatsStr string
	opts := renderOpts{
		width:   pipeline.DefaultWidth,
		height:  pipeline.DefaultHeight,
		scale:   pipeline.DefaultScale,
		at:      1,
		floatAt: 1,
	}

	cmd := &cobra.Command{
		Use:   "render [data]",
		Short: "Render a chart frame to SVG, PNG, PDF or JSON",
		Long: `Render a chart frame from a dataset (csv, json, toml or yaml).

The frame is scripted: --at captures the sweep reveal part-way (0 to 1),
each --tap presses and releases a point in frame coordinates, and
--float-at sets how far the float transition after the last tap has run.

Results are cached locally for faster subsequent runs.`,
		Example: `  piesweep render budget.csv
  piesweep render budget.csv -f svg,png --donut --labels
  piesweep render budget.csv --at 0.4 -o reveal.svg
  piesweep render budget.csv --tap 250,210 --float-at 0.5 -f json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.formats = parseFormats(formatsStr)
			if err := pipeline.ValidateFormats(opts.formats); err != nil {
				return err
			}
			return c.runRender(cmd, args[0], &opts)
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (single format) or base path (multiple)")
	cmd.Flags().StringVarP(&formatsStr, "format", "f", "", "output format(s): svg (default), png, pdf, json (comma-separated)")
	cmd.Flags().Float64Var(&opts.width, "width", opts.width, "frame width")
	cmd.Flags().Float64Var(&opts.height, "height", opts.height, "frame height")
	cmd.Flags().Float64Var(&opts.scale, "scale", opts.scale, "PNG raster scale")
	cmd.Flags().Float64Var(&opts.at, "at", opts.at, "sweep progress to capture (0-1)")
	cmd.Flags().StringArrayVar(&opts.taps, "tap", nil, "tap position x,y (repeatable)")
	cmd.Flags().Float64Var(&opts.floatAt, "float-at", opts.floatAt, "float transition progress after the last tap (0-1)")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "disable the artifact cache")
	cmd.Flags().BoolVar(&opts.refresh, "refresh", false, "re-render even when cached")
	cmd.Flags().StringVar(&opts.redisURL, "redis", "", "shared Redis cache URL (redis://host:port/db)")
	opts.config.register(cmd)
	cmd.RegisterFlagCompletionFunc("format", completeFormats)

	return cmd
}

// parseFormats parses the --format flag into a slice of output formats.
// If empty, defaults to ["svg"].
func parseFormats(s string) []string {
	if f := pipeline.ParseFormats(s); len(f) > 0 {
		return f
	}
	return []string{pipeline.FormatSVG}
}

// parseTaps parses every --tap value.
func parseTaps(taps []string) ([]pipeline.Point, error) {
	points := make([]pipeline.Point, 0, len(taps))
	for _, s := range taps {
		p, err := pipeline.ParsePoint(s)
		if err != nil {
			return nil, err
		}
		points = append(points, p)
	}
	return points, nil
}

// basePath derives the base output path from the output and input file paths.
// If output is empty, it strips the extension from input.
// If output has a format extension (.svg, .png, etc.), it strips that extension.
func basePath(output, input string) string {
	if output == "" {
		return strings.TrimSuffix(input, filepath.Ext(input))
	}
	ext := filepath.Ext(output)
	if pipeline.ValidFormats[strings.TrimPrefix(ext, ".")] {
		return strings.TrimSuffix(output, ext)
	}
	return output
}

// outputPath returns the file a format is written to.
func outputPath(output, input, format string, single bool) string {
	if single && output != "" {
		return output
	}
	return basePath(output, input) + "." + format
}

func (c *CLI) runRender(cmd *cobra.Command, input string, opts *renderOpts) error {
	ctx := cmd.Context()
	logger := loggerFromContext(ctx)

	cfg, err := opts.config.load(cmd)
	if err != nil {
		return err
	}
	taps, err := parseTaps(opts.taps)
	if err != nil {
		return err
	}
	if opts.output != "" {
		if err := errors.ValidatePath(opts.output); err != nil {
			return err
		}
	}

	runner, err := c.newRunner(opts.noCache, opts.redisURL)
	if err != nil {
		return err
	}
	defer runner.Close()

	prog := newProgress(logger)
	result, err := runWithSpinner(ctx, "Rendering "+filepath.Base(input), func() (*pipeline.Result, error) {
		return runner.Execute(ctx, pipeline.Options{
			DataPath: input,
			Config:   &cfg,
			Width:    opts.width,
			Height:   opts.height,
			Scale:    opts.scale,
			At:       opts.at,
			Taps:     taps,
			FloatAt:  opts.floatAt,
			Formats:  opts.formats,
			Refresh:  opts.refresh,
			Logger:   logger,
		})
	})
	if err != nil {
		return err
	}
	prog.done("Rendered", "formats", strings.Join(opts.formats, ","), "slices", result.Stats.SliceCount, "cached", result.CacheHit)

	single := len(opts.formats) == 1
	for _, format := range opts.formats {
		path := outputPath(opts.output, input, format, single)
		if err := writeArtifact(path, result.Artifacts[format]); err != nil {
			return err
		}
		printFile(path)
	}
	printStats(result.Stats.SliceCount, result.State.SweepProgress, result.CacheHit)
	if result.Stats.SliceCount == 0 {
		printWarning("Values sum to zero; the chart is empty")
		return nil
	}
	printNextStep("Play it", appName+" play "+input)
	return nil
}

func writeArtifact(path string, data []byte) error {
	out, err := openOutput(path)
	if err != nil {
		return err
	}
	defer out.Close()
	_, err = out.Write(data)
	return err
}

// runWithSpinner shows a spinner while fn runs.
func runWithSpinner[T any](ctx context.Context, msg string, fn func() (T, error)) (T, error) {
	s := newSpinner(ctx, os.Stderr, msg)
	s.Start()
	v, err := fn()
	s.Stop()
	return v, err
}

// Package cli implements the piesweep command-line interface.
package cli

import (
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/piesweep/pkg/buildinfo"
	"github.com/matzehuels/piesweep/pkg/cache"
	"github.com/matzehuels/piesweep/pkg/config"
	"github.com/matzehuels/piesweep/pkg/observability"
	"github.com/matzehuels/piesweep/pkg/pipeline"
)

// =============================================================================
// Constants
// =============================================================================

const (
	// appName is the application name used for directories and display.
	appName = "piesweep"
)

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{Logger: newLogger(w, level)}
}

// SetLogLevel updates the logger's level. At debug level every chart,
// pipeline, cache and HTTP event is logged too.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
	if level <= log.DebugLevel {
		observability.Register(observability.NewLogHooks(c.Logger))
	}
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:          appName,
		Short:        "Piesweep draws animated, touchable pie and donut charts",
		Long:         `Piesweep plans pie and donut charts from a dataset, plays the sweep reveal and the float-on-touch effect, and renders frames as SVG, PNG, PDF or a JSON draw log.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			cmd.SetContext(withLogger(cmd.Context(), c.Logger))
		},
	}

	root.SetVersionTemplate(buildinfo.Template())

	// Register all subcommands
	root.AddCommand(c.renderCommand())
	root.AddCommand(c.inspectCommand())
	root.AddCommand(c.playCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// =============================================================================
// Runner Factory
// =============================================================================

// newRunner creates a pipeline runner for CLI use.
func (c *CLI) newRunner(noCache bool, redisURL string) (*pipeline.Runner, error) {
	cc, err := newCache(noCache, redisURL)
	if err != nil {
		return nil, err
	}
	return pipeline.NewRunner(cache.Instrument(cc), nil, c.Logger), nil
}

// newCache picks the artifact cache: none, a shared Redis instance, or the
// local file cache.
func newCache(noCache bool, redisURL string) (cache.Cache, error) {
	if noCache {
		return cache.NewNullCache(), nil
	}
	if redisURL != "" {
		return cache.NewRedisCache(redisURL, appName+":")
	}
	dir, err := cacheDir()
	if err != nil {
		return cache.NewNullCache(), nil
	}
	return cache.NewFileCache(dir)
}

// =============================================================================
// Paths
// =============================================================================

// cacheDir returns the cache directory using XDG standard (~/.cache/piesweep/).
func cacheDir() (string, error) {
	if cacheHome := os.Getenv("XDG_CACHE_HOME"); cacheHome != "" {
		return filepath.Join(cacheHome, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".cache", appName), nil
}

// openOutput returns a writer for path, or stdout when path is empty.
func openOutput(path string) (io.WriteCloser, error) {
	if path == "" {
		return nopCloser{os.Stdout}, nil
	}
	return os.Create(path)
}

type nopCloser struct{ io.Writer }

func (nopCloser) Close() error { return nil }

// =============================================================================
// Config Flags
// =============================================================================

// configFlags are the chart settings every command accepts on top of an
// optional config file.
type configFlags struct {
	path        string
	startAngle  float64
	splitAngle  float64
	stroke      bool
	noAnimate   bool
	drawText    bool
	strokeWidth float64
}

func (f *configFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&f.path, "config", "c", "", "chart config file (toml, yaml or json)")
	cmd.Flags().Float64Var(&f.startAngle, "start-angle", config.DefaultStartAngle, "angle of the first slice edge in degrees")
	cmd.Flags().Float64Var(&f.splitAngle, "split-angle", 0, "gap between slices in degrees")
	cmd.Flags().BoolVar(&f.stroke, "donut", false, "draw slices as a stroked ring")
	cmd.Flags().BoolVar(&f.noAnimate, "no-animate", false, "disable the sweep and float animations")
	cmd.Flags().BoolVar(&f.drawText, "labels", false, "draw slice labels")
	cmd.Flags().Float64Var(&f.strokeWidth, "stroke-width", config.DefaultStrokeWidth, "ring width in donut mode")
}

// load reads the config file and applies the flags the user changed.
func (f *configFlags) load(cmd *cobra.Command) (config.Config, error) {
	cfg := config.Default()
	if f.path != "" {
		var err error
		if cfg, err = config.Load(f.path); err != nil {
			return config.Config{}, err
		}
	}

	flags := cmd.Flags()
	if flags.Changed("start-angle") {
		cfg.StartAngle = f.startAngle
	}
	if flags.Changed("split-angle") {
		cfg.SplitAngle = f.splitAngle
	}
	if flags.Changed("donut") {
		cfg.StrokeMode = f.stroke
	}
	if flags.Changed("no-animate") && f.noAnimate {
		cfg.AnimatePie = false
		cfg.AnimateTouch = false
	}
	if flags.Changed("labels") {
		cfg.DrawText = f.drawText
	}
	if flags.Changed("stroke-width") {
		cfg.StrokeWidth = f.strokeWidth
	}
	return cfg, cfg.Validate()
}

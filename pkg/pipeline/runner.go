package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	"github.com/goccy/go-json"

	"github.com/matzehuels/piesweep/pkg/cache"
	"github.com/matzehuels/piesweep/pkg/config"
	"github.com/matzehuels/piesweep/pkg/dataset"
	"github.com/matzehuels/piesweep/pkg/observability"
	"github.com/matzehuels/piesweep/pkg/pie"
)

// Runner encapsulates pipeline execution with caching.
// Both the CLI and the HTTP host use it to avoid duplicating caching logic.
//
// The Runner is stateless except for the cache and logger. Multiple
// goroutines can safely use the same Runner with different options.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger
}

// Stats contains pipeline execution statistics.
type Stats struct {
	EntryCount int
	SliceCount int
	LoadTime   time.Duration
	RenderTime time.Duration
}

// NewRunner creates a runner with the given cache and keyer.
// If keyer is nil, a DefaultKeyer is used.
// If cache is nil, a NullCache is used (caching disabled).
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		Cache:  c,
		Keyer:  keyer,
		Logger: logger,
	}
}

// Execute runs the complete load → prepare → script → render pipeline with
// caching.
func (r *Runner) Execute(ctx context.Context, opts Options) (*Result, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}

	result := &Result{Artifacts: make(map[string][]byte)}

	// Stage 1: Load
	loadStart := time.Now()
	entries, cfg, err := r.Load(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("load: %w", err)
	}
	result.Stats.LoadTime = time.Since(loadStart)
	result.Stats.EntryCount = len(entries)
	result.InputHash, err = InputHash(entries, cfg)
	if err != nil {
		return nil, fmt.Errorf("hash inputs: %w", err)
	}

	opts.Logger.Info("loaded dataset",
		"entries", len(entries),
		"duration", result.Stats.LoadTime)
	opts.Logger.Debug("configuration", "config", cfg.String())

	// Stage 2: Prepare and play the frame script
	frame, err := NewFrame(entries, cfg, opts.Width, opts.Height, opts.Padding, opts)
	if err != nil {
		return nil, fmt.Errorf("prepare: %w", err)
	}
	if err := frame.Play(opts.At, opts.Taps, opts.FloatAt); err != nil {
		return nil, fmt.Errorf("script: %w", err)
	}
	result.Slices = frame.Chart.Slices()
	result.Stats.SliceCount = len(result.Slices)
	result.State = frame.State()

	// Stage 3: Render
	renderStart := time.Now()
	artifacts, hit, err := r.RenderWithCacheInfo(ctx, frame, result.InputHash, opts)
	if err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	result.Artifacts = artifacts
	result.CacheHit = hit
	result.Stats.RenderTime = time.Since(renderStart)

	opts.Logger.Info("rendered outputs",
		"formats", opts.Formats,
		"cached", hit,
		"duration", result.Stats.RenderTime)

	return result, nil
}

// Load reads the dataset and configuration named by opts.
func (r *Runner) Load(ctx context.Context, opts Options) ([]pie.Entry, config.Config, error) {
	source := opts.DataPath
	if opts.Data != nil {
		source = "inline." + opts.DataFormat
	}
	start := time.Now()
	observability.Pipeline().OnLoadStart(ctx, source)

	entries, cfg, err := r.load(opts)
	observability.Pipeline().OnLoadComplete(ctx, source, len(entries), time.Since(start), err)
	return entries, cfg, err
}

func (r *Runner) load(opts Options) ([]pie.Entry, config.Config, error) {
	var (
		entries []pie.Entry
		err     error
	)
	if opts.Data != nil {
		entries, err = dataset.Decode(opts.Data, opts.DataFormat)
	} else {
		entries, err = dataset.Load(opts.DataPath)
	}
	if err != nil {
		return nil, config.Config{}, err
	}

	var cfg config.Config
	switch {
	case opts.Config != nil:
		cfg = *opts.Config
		err = cfg.Validate()
	case opts.ConfigPath != "":
		cfg, err = config.Load(opts.ConfigPath)
	default:
		cfg = config.Default()
	}
	if err != nil {
		return nil, config.Config{}, err
	}
	return entries, cfg, nil
}

// InputHash is the content hash of a dataset and the configuration it is
// drawn with.
func InputHash(entries []pie.Entry, cfg config.Config) (string, error) {
	data, err := json.Marshal(dataset.FromEntries(entries))
	if err != nil {
		return "", err
	}
	conf, err := json.Marshal(cfg)
	if err != nil {
		return "", err
	}
	return cache.HashAll(data, conf), nil
}

// RenderWithCacheInfo renders every requested format and reports whether all
// of them came from the cache.
func (r *Runner) RenderWithCacheInfo(ctx context.Context, frame *Frame, inputHash string, opts Options) (map[string][]byte, bool, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, false, err
	}

	start := time.Now()
	observability.Pipeline().OnRenderStart(ctx, opts.Formats)

	artifacts, hit, err := r.render(ctx, frame, inputHash, opts)
	observability.Pipeline().OnRenderComplete(ctx, opts.Formats, time.Since(start), err)
	return artifacts, hit, err
}

func (r *Runner) render(ctx context.Context, frame *Frame, inputHash string, opts Options) (map[string][]byte, bool, error) {
	artifacts := make(map[string][]byte, len(opts.Formats))
	allCached := true

	for _, format := range opts.Formats {
		key := r.Keyer.ArtifactKey(inputHash, opts.ArtifactKeyOpts(format))
		if !opts.Refresh {
			if data, hit, err := r.Cache.Get(ctx, key); err == nil && hit {
				artifacts[format] = data
				continue
			}
		}
		allCached = false

		data, err := frame.Render(ctx, format, opts.Width, opts.Height, opts.Scale)
		if err != nil {
			return nil, false, fmt.Errorf("%s: %w", format, err)
		}
		artifacts[format] = data
		if err := r.Cache.Set(ctx, key, data, cache.ArtifactTTL); err != nil {
			opts.Logger.Warn("cache write failed", "format", format, "error", err)
		}
	}
	return artifacts, allCached, nil
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

// applyLogger sets the runner's logger on options if not already set.
func (r *Runner) applyLogger(opts *Options) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
}

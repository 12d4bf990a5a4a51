package cli

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/spf13/cobra"

	"github.com/matzehuels/piesweep/internal/server"
	"github.com/matzehuels/piesweep/pkg/session"
)

// serveOpts holds the command-line flags for the serve command.
type serveOpts struct {
	addr            string
	ttl             time.Duration
	cleanupInterval time.Duration
	sessionDir      string
	width, height   float64
}

// serveCommand hosts chart sessions over HTTP.
func (c *CLI) serveCommand() *cobra.Command {
	opts := serveOpts{
		addr:            ":8080",
		ttl:             session.DefaultTTL,
		cleanupInterval: time.Minute,
		width:           session.DefaultWidth,
		height:          session.DefaultHeight,
	}

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Host interactive chart sessions over HTTP",
		Long: `Host interactive chart sessions over HTTP.

  POST   /sessions                      create a session (entries + config JSON)
  GET    /sessions/{id}                 slices and state
  GET    /sessions/{id}/frame.svg       draw a frame (svg, png, pdf, json)
  POST   /sessions/{id}/pointer         {"action": "tap", "x": 250, "y": 210}
  DELETE /sessions/{id}                 drop the session

With --session-dir, session inputs are persisted so a restarted server
rebuilds them on first access.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runServe(cmd.Context(), opts)
		},
	}

	cmd.Flags().StringVar(&opts.addr, "addr", opts.addr, "listen address")
	cmd.Flags().DurationVar(&opts.ttl, "ttl", opts.ttl, "idle session lifetime")
	cmd.Flags().DurationVar(&opts.cleanupInterval, "cleanup-interval", opts.cleanupInterval, "how often expired sessions are dropped")
	cmd.Flags().StringVar(&opts.sessionDir, "session-dir", "", "persist session inputs in this directory")
	cmd.Flags().Float64Var(&opts.width, "width", opts.width, "default frame width")
	cmd.Flags().Float64Var(&opts.height, "height", opts.height, "default frame height")

	return cmd
}

func (c *CLI) runServe(ctx context.Context, opts serveOpts) error {
	logger := loggerFromContext(ctx)

	sessOpts := session.Options{
		Width:    opts.width,
		Height:   opts.height,
		TTL:      opts.ttl,
		Measurer: measurerOrNil(),
		Logger:   logger,
	}
	var storeOpts []session.MemoryOption
	if opts.sessionDir != "" {
		snapshots, err := session.NewSnapshotStore(opts.sessionDir)
		if err != nil {
			return err
		}
		storeOpts = append(storeOpts, session.WithSnapshots(snapshots, sessOpts))
		logger.Info("persisting sessions", "dir", snapshots.Path())
	}
	store := session.NewMemoryStore(storeOpts...)

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	go store.RunCleanup(ctx, opts.cleanupInterval, func(err error) {
		logger.Warn("session cleanup failed", "error", err)
	})

	srv := &http.Server{
		Addr:              opts.addr,
		Handler:           server.New(store, server.WithLogger(logger), server.WithSessionOptions(sessOpts)).Routes(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errc := make(chan error, 1)
	go func() { errc <- srv.ListenAndServe() }()
	printSuccess("Listening on %s", styleHighlight.Render(opts.addr))
	printKeyValue("Session TTL", opts.ttl.String())
	printKeyValue("Canvas", fmt.Sprintf("%gx%g", opts.width, opts.height))
	if opts.sessionDir == "" {
		printWarning("Sessions are not persisted; restart drops them")
	}

	select {
	case err := <-errc:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		logger.Info("shutting down", "sessions", store.Len())
		shutdownCtx, done := context.WithTimeout(context.Background(), 5*time.Second)
		defer done()
		return srv.Shutdown(shutdownCtx)
	}
}

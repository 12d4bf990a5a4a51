// Package server hosts interactive chart sessions over HTTP.
//
// Routes:
//
//	POST   /sessions                      create a session from entries + config
//	GET    /sessions/{id}                 slices and current state
//	GET    /sessions/{id}/frame.{format}  draw a frame (svg, png, pdf, json)
//	POST   /sessions/{id}/pointer         down, up, cancel or tap
//	DELETE /sessions/{id}                 drop the session
//	GET    /healthz                       liveness
//
// Each request pumps the session's timeline before touching the chart, so
// animations advance with the wall clock between requests.
package server

import (
	"context"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/goccy/go-json"

	"github.com/matzehuels/piesweep/pkg/config"
	"github.com/matzehuels/piesweep/pkg/dataset"
	"github.com/matzehuels/piesweep/pkg/errors"
	"github.com/matzehuels/piesweep/pkg/observability"
	"github.com/matzehuels/piesweep/pkg/pie"
	"github.com/matzehuels/piesweep/pkg/render/palette"
	"github.com/matzehuels/piesweep/pkg/render/sink"
	"github.com/matzehuels/piesweep/pkg/session"
)

// Request limits. Raster memory grows with (size*scale)², so both are
// bounded before a frame is drawn.
const (
	maxBodyBytes = 1 << 20
	MaxScale     = 4.0
	MaxCanvas    = 4096.0
)

// Server serves chart sessions from a store.
type Server struct {
	store    session.Store
	defaults session.Options
	logger   *log.Logger
}

// Option configures a Server.
type Option func(*Server)

// WithLogger sets the request logger.
func WithLogger(l *log.Logger) Option { return func(s *Server) { s.logger = l } }

// WithSessionOptions sets the options new sessions are built with. Width and
// Height act as defaults for requests that omit them.
func WithSessionOptions(o session.Options) Option { return func(s *Server) { s.defaults = o } }

// New creates a server over store.
func New(store session.Store, opts ...Option) *Server {
	s := &Server{store: store, logger: log.New(io.Discard)}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Routes returns the HTTP handler.
func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(s.instrument)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	r.Route("/sessions", func(r chi.Router) {
		r.Post("/", s.handleCreate)
		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", s.handleGet)
			r.Delete("/", s.handleDelete)
			r.Get("/frame.{format}", s.handleFrame)
			r.Post("/pointer", s.handlePointer)
		})
	})
	return r
}

// instrument reports every request to the HTTP hooks and the debug log.
func (s *Server) instrument(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ctx := r.Context()
		observability.HTTP().OnRequest(ctx, r.Method, r.URL.Path)

		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		dur := time.Since(start)
		observability.HTTP().OnResponse(ctx, r.Method, r.URL.Path, ww.Status(), dur)
		s.logger.Debug("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"duration", dur,
			"request_id", middleware.GetReqID(ctx))
	})
}

// =============================================================================
// Payloads
// =============================================================================

type createRequest struct {
	Entries []dataset.Record `json:"entries"`
	Config  json.RawMessage  `json:"config,omitempty"` // decoded on top of the defaults
	Width   float64          `json:"width,omitempty"`
	Height  float64          `json:"height,omitempty"`
}

type pointerRequest struct {
	Action string  `json:"action"` // down, up, cancel or tap
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Slice  string  `json:"slice,omitempty"` // taps the middle of this slice instead of (x, y)
}

type sessionResponse struct {
	ID        string          `json:"id"`
	ExpiresAt time.Time       `json:"expires_at"`
	Width     float64         `json:"width"`
	Height    float64         `json:"height"`
	State     sink.FrameState `json:"state"`
	Slices    []sliceResponse `json:"slices"`
}

type sliceResponse struct {
	ID          string  `json:"id"`
	Label       string  `json:"label"`
	Value       float64 `json:"value"`
	Fraction    float64 `json:"fraction"`
	FromAngle   float64 `json:"from_angle"`
	SweepAngle  float64 `json:"sweep_angle"`
	Description string  `json:"description"`
	Color       string  `json:"color"`
}

type pointerResponse struct {
	Handled bool            `json:"handled"`
	State   sink.FrameState `json:"state"`
}

type errorResponse struct {
	Error   errors.Code `json:"error"`
	Message string      `json:"message"`
}

// =============================================================================
// Handlers
// =============================================================================

func (s *Server) handleCreate(w http.ResponseWriter, r *http.Request) {
	var req createRequest
	if err := decodeBody(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}

	entries, err := dataset.ToEntries(req.Entries)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	cfg := config.Default()
	if len(req.Config) > 0 {
		if cfg, err = config.Decode(req.Config, "json"); err != nil {
			s.writeError(w, r, err)
			return
		}
	}

	if err := validateCanvas(req.Width, req.Height); err != nil {
		s.writeError(w, r, err)
		return
	}
	opts := s.defaults
	if req.Width > 0 {
		opts.Width = req.Width
	}
	if req.Height > 0 {
		opts.Height = req.Height
	}
	sess, err := session.New(entries, cfg, opts)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if err := s.store.Set(r.Context(), sess); err != nil {
		s.writeError(w, r, err)
		return
	}
	s.logger.Info("session created", "id", sess.ID, "entries", len(entries))

	resp, err := describe(sess)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, resp)
}

func (s *Server) handleGet(w http.ResponseWriter, r *http.Request) {
	sess, err := s.store.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	resp, err := describe(sess)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleDelete(w http.ResponseWriter, r *http.Request) {
	if err := s.store.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		s.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

var contentTypes = map[string]string{
	"svg":  "image/svg+xml",
	"png":  "image/png",
	"pdf":  "application/pdf",
	"json": "application/json",
}

func (s *Server) handleFrame(w http.ResponseWriter, r *http.Request) {
	format := chi.URLParam(r, "format")
	ctype, ok := contentTypes[format]
	if !ok {
		s.writeError(w, r, errors.New(errors.ErrCodeInvalidFormat, "invalid format: %q (must be one of: svg, png, pdf, json)", format))
		return
	}
	sess, err := s.store.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	scale, err := queryScale(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	data, err := renderFrame(r.Context(), sess, format, scale)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	w.Header().Set("Content-Type", ctype)
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(http.StatusOK)
	w.Write(data)
}

func (s *Server) handlePointer(w http.ResponseWriter, r *http.Request) {
	var req pointerRequest
	if err := decodeBody(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	sess, err := s.store.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	var resp pointerResponse
	err = sess.Do(func(c *pie.Chart) error {
		x, y := req.X, req.Y
		if req.Slice != "" {
			sl, ok := sliceByID(c, req.Slice)
			if !ok {
				return errors.New(errors.ErrCodeNotFound, "slice %q not found", req.Slice)
			}
			x, y = c.PointIn(sl)
		}

		switch req.Action {
		case "down":
			resp.Handled = c.PointerDown(x, y)
		case "up":
			resp.Handled = c.PointerUp(x, y)
		case "cancel":
			c.PointerCancel()
			resp.Handled = true
		case "tap":
			c.PointerDown(x, y)
			resp.Handled = c.PointerUp(x, y)
		default:
			return errors.New(errors.ErrCodeInvalidInput, "unknown pointer action %q (must be down, up, cancel or tap)", req.Action)
		}
		resp.State = frameState(c)
		return nil
	})
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// =============================================================================
// Helpers
// =============================================================================

func renderFrame(ctx context.Context, sess *session.Session, format string, scale float64) ([]byte, error) {
	p, err := palette.New(sess.Config().Palette...)
	if err != nil {
		return nil, err
	}
	bg := sess.Config().Background
	width, height := sess.Size()

	switch format {
	case "svg":
		return sink.RenderSVG(sess, width, height, sink.WithPalette(p), sink.WithBackground(bg))
	case "pdf":
		return sink.RenderPDF(ctx, sess, width, height, sink.WithPalette(p), sink.WithBackground(bg))
	case "png":
		return sink.RenderPNG(sess, width, height, sink.WithPNGPalette(p), sink.WithPNGBackground(bg), sink.WithScale(scale))
	default:
		var data []byte
		err := sess.Do(func(c *pie.Chart) error {
			var err error
			data, err = sink.RenderJSON(c,
				sink.WithJSONSize(width, height),
				sink.WithJSONPalette(p),
				sink.WithJSONState(frameState(c)))
			return err
		})
		return data, err
	}
}

func describe(sess *session.Session) (sessionResponse, error) {
	p, err := palette.New(sess.Config().Palette...)
	if err != nil {
		return sessionResponse{}, err
	}
	width, height := sess.Size()
	resp := sessionResponse{ID: sess.ID, ExpiresAt: sess.ExpiresAt(), Width: width, Height: height}
	err = sess.Do(func(c *pie.Chart) error {
		resp.State = frameState(c)
		for _, sl := range c.Slices() {
			resp.Slices = append(resp.Slices, sliceResponse{
				ID:          sl.ID,
				Label:       sl.Label,
				Value:       sl.Value,
				Fraction:    sl.Fraction,
				FromAngle:   sl.FromAngle,
				SweepAngle:  sl.SweepAngle,
				Description: sl.Description(),
				Color:       p.Hex(sl.Style),
			})
		}
		return nil
	})
	return resp, err
}

func frameState(c *pie.Chart) sink.FrameState {
	up, down := c.FloatProgress()
	st := sink.FrameState{
		Mode:          c.Mode().String(),
		SweepProgress: c.SweepProgress(),
		FloatUp:       up,
		FloatDown:     down,
	}
	if f, ok := c.Floating(); ok {
		st.Floating = f.ID
	}
	return st
}

func sliceByID(c *pie.Chart, id string) (pie.Slice, bool) {
	for _, sl := range c.Slices() {
		if sl.ID == id {
			return sl, true
		}
	}
	return pie.Slice{}, false
}

// queryScale reads ?scale=, defaulting to 1. Values outside (0, MaxScale]
// are rejected.
func queryScale(r *http.Request) (float64, error) {
	raw := r.URL.Query().Get("scale")
	if raw == "" {
		return 1, nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil || !(v > 0 && v <= MaxScale) {
		return 0, errors.New(errors.ErrCodeInvalidInput, "scale must be within (0, %g], got %q", MaxScale, raw)
	}
	return v, nil
}

// validateCanvas rejects negative or oversized session dimensions; zero
// means the server default.
func validateCanvas(width, height float64) error {
	dims := []struct {
		name  string
		value float64
	}{{"width", width}, {"height", height}}
	for _, d := range dims {
		if !(d.value >= 0 && d.value <= MaxCanvas) {
			return errors.New(errors.ErrCodeInvalidInput, "%s must be within [0, %g], got %v", d.name, MaxCanvas, d.value)
		}
	}
	return nil
}

func decodeBody(w http.ResponseWriter, r *http.Request, v any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidInput, err, "decode request body")
	}
	return nil
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := errors.HTTPStatus(err)
	observability.HTTP().OnError(r.Context(), r.Method, r.URL.Path, err)
	if status >= http.StatusInternalServerError {
		s.logger.Error("request failed", "path", r.URL.Path, "error", err)
	}
	code := errors.GetCode(err)
	if code == "" {
		code = errors.ErrCodeInternal
	}
	writeJSON(w, status, errorResponse{Error: code, Message: errors.UserMessage(err)})
}

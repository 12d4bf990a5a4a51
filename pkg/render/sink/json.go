package sink

import (
	"github.com/goccy/go-json"

	"github.com/matzehuels/piesweep/pkg/pie"
	"github.com/matzehuels/piesweep/pkg/render/palette"
)

// Command is one recorded draw call.
type Command struct {
	Op        string    `json:"op"` // "translate", "arc" or "text"
	X         float64   `json:"x,omitempty"`
	Y         float64   `json:"y,omitempty"`
	Bounds    []float64 `json:"bounds,omitempty"` // left, top, right, bottom
	Start     float64   `json:"start,omitempty"`
	Sweep     float64   `json:"sweep,omitempty"`
	UseCenter bool      `json:"use_center,omitempty"`
	Text      string    `json:"text,omitempty"`
	Paint     *Paint    `json:"paint,omitempty"`
}

// Paint is the serialized form of [pie.Paint] with its color resolved.
type Paint struct {
	Style        int     `json:"style"`
	Color        string  `json:"color,omitempty"`
	Alpha        float64 `json:"alpha"`
	Stroke       bool    `json:"stroke,omitempty"`
	StrokeWidth  float64 `json:"stroke_width,omitempty"`
	ShadowRadius float64 `json:"shadow_radius,omitempty"`
	TextSize     float64 `json:"text_size,omitempty"`
}

// Recorder is a surface that keeps every draw call in order.
type Recorder struct {
	palette  palette.Palette
	commands []Command
}

// NewRecorder creates an empty recorder resolving colors with p.
func NewRecorder(p palette.Palette) *Recorder {
	return &Recorder{palette: p}
}

// Translate records an origin move.
func (r *Recorder) Translate(dx, dy float64) {
	r.commands = append(r.commands, Command{Op: "translate", X: dx, Y: dy})
}

// DrawArc records an arc.
func (r *Recorder) DrawArc(b pie.Rect, start, sweep float64, useCenter bool, p pie.Paint) {
	r.commands = append(r.commands, Command{
		Op:        "arc",
		Bounds:    []float64{b.Left, b.Top, b.Right, b.Bottom},
		Start:     start,
		Sweep:     sweep,
		UseCenter: useCenter,
		Paint:     r.paint(p, false),
	})
}

// DrawText records a label.
func (r *Recorder) DrawText(text string, x, y float64, p pie.Paint) {
	r.commands = append(r.commands, Command{Op: "text", X: x, Y: y, Text: text, Paint: r.paint(p, true)})
}

// Commands returns the recorded calls.
func (r *Recorder) Commands() []Command { return r.commands }

// Arcs returns the number of recorded arcs.
func (r *Recorder) Arcs() int {
	n := 0
	for _, c := range r.commands {
		if c.Op == "arc" {
			n++
		}
	}
	return n
}

func (r *Recorder) paint(p pie.Paint, text bool) *Paint {
	out := &Paint{
		Style:        int(p.Style),
		Alpha:        p.Alpha,
		Stroke:       p.Stroke,
		StrokeWidth:  p.StrokeWidth,
		ShadowRadius: p.ShadowRadius,
	}
	if text {
		out.Color = textColor
		out.TextSize = p.TextSize
		out.StrokeWidth = 0
	} else {
		out.Color = r.palette.Hex(p.Style)
	}
	return out
}

// JSONOption configures [RenderJSON].
type JSONOption func(*jsonRenderer)

type jsonRenderer struct {
	width, height float64
	palette       palette.Palette
	slices        []pie.Slice
	state         *FrameState
}

// FrameState describes the chart state a frame was drawn in.
type FrameState struct {
	Mode          string  `json:"mode"`
	SweepProgress float64 `json:"sweep_progress"`
	Floating      string  `json:"floating,omitempty"`
	FloatUp       float64 `json:"float_up"`
	FloatDown     float64 `json:"float_down"`
}

// WithJSONSize records the canvas size.
func WithJSONSize(width, height float64) JSONOption {
	return func(r *jsonRenderer) { r.width, r.height = width, height }
}

// WithJSONPalette resolves arc colors with p.
func WithJSONPalette(p palette.Palette) JSONOption { return func(r *jsonRenderer) { r.palette = p } }

// WithJSONSlices includes the planned slice geometry.
func WithJSONSlices(s []pie.Slice) JSONOption { return func(r *jsonRenderer) { r.slices = s } }

// WithJSONState includes the chart state.
func WithJSONState(s FrameState) JSONOption { return func(r *jsonRenderer) { r.state = &s } }

type jsonOutput struct {
	Width    float64     `json:"width,omitempty"`
	Height   float64     `json:"height,omitempty"`
	State    *FrameState `json:"state,omitempty"`
	Slices   []jsonSlice `json:"slices,omitempty"`
	Commands []Command   `json:"commands"`
}

type jsonSlice struct {
	ID          string  `json:"id"`
	Label       string  `json:"label"`
	Value       float64 `json:"value"`
	Fraction    float64 `json:"fraction"`
	FromAngle   float64 `json:"from_angle"`
	SweepAngle  float64 `json:"sweep_angle"`
	MiddleAngle float64 `json:"middle_angle"`
	Description string  `json:"description"`
}

// RenderJSON draws one frame onto a [Recorder] and serializes the command
// log.
func RenderJSON(f Frame, opts ...JSONOption) ([]byte, error) {
	r := jsonRenderer{palette: palette.Default()}
	for _, opt := range opts {
		opt(&r)
	}

	rec := NewRecorder(r.palette)
	if err := f.Draw(rec); err != nil {
		return nil, err
	}

	out := jsonOutput{
		Width:    r.width,
		Height:   r.height,
		State:    r.state,
		Commands: rec.Commands(),
	}
	if out.Commands == nil {
		out.Commands = []Command{}
	}
	for _, s := range r.slices {
		out.Slices = append(out.Slices, jsonSlice{
			ID:          s.ID,
			Label:       s.Label,
			Value:       s.Value,
			Fraction:    s.Fraction,
			FromAngle:   s.FromAngle,
			SweepAngle:  s.SweepAngle,
			MiddleAngle: s.MiddleAngle,
			Description: s.Description(),
		})
	}
	return json.MarshalIndent(out, "", "  ")
}

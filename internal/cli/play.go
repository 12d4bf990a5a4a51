package cli

import (
	"fmt"
	"math"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/matzehuels/piesweep/pkg/anim"
	"github.com/matzehuels/piesweep/pkg/config"
	"github.com/matzehuels/piesweep/pkg/dataset"
	"github.com/matzehuels/piesweep/pkg/pie"
	"github.com/matzehuels/piesweep/pkg/render/palette"
	"github.com/matzehuels/piesweep/pkg/render/sink"
)

// List styles
var (
	listSelectedStyle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	listNormalStyle   = lipgloss.NewStyle().Foreground(colorWhite)
	listDimStyle      = lipgloss.NewStyle().Foreground(colorDim)
)

const (
	playSize      = 400.0
	playFrameRate = 30
	barWidth      = 24
)

// playCommand drives a chart from the keyboard.
func (c *CLI) playCommand() *cobra.Command {
	var flags configFlags

	cmd := &cobra.Command{
		Use:   "play [data]",
		Short: "Play the sweep and tap slices in the terminal",
		Long: `Play a chart in the terminal.

The sweep reveal runs on the wall clock. Once it completes, move between
slices with the arrow keys and press enter to tap the selected slice: it
floats up, and tapping it again lets it sink back. r restarts the chart.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := flags.load(cmd)
			if err != nil {
				return err
			}
			entries, err := dataset.Load(args[0])
			if err != nil {
				return err
			}
			m, err := newPlayModel(args[0], entries, cfg, anim.SystemClock{})
			if err != nil {
				return err
			}
			_, err = tea.NewProgram(m, tea.WithContext(cmd.Context())).Run()
			return err
		},
	}
	flags.register(cmd)
	return cmd
}

// frameMsg drives the animation loop.
type frameMsg time.Time

// PlayModel is the bubbletea model for the play command. The chart is
// driven only from Update, so it never sees concurrent access.
type PlayModel struct {
	title    string
	chart    *pie.Chart
	timeline *anim.Timeline
	palette  palette.Palette
	slices   []pie.Slice
	cursor   int
	status   string
	frames   int
	err      error
}

func newPlayModel(title string, entries []pie.Entry, cfg config.Config, clock anim.Clock) (*PlayModel, error) {
	p, err := palette.New(cfg.Palette...)
	if err != nil {
		return nil, err
	}
	tl := anim.NewTimeline(clock)
	opts := []pie.Option{pie.WithConfig(cfg), pie.WithClock(tl)}
	if m := measurerOrNil(); m != nil {
		opts = append(opts, pie.WithMeasurer(m))
	}
	chart := pie.New(opts...)
	chart.SetData(entries)
	chart.SetSize(playSize, playSize, pie.Padding{})
	if err := chart.Prepare(); err != nil {
		return nil, err
	}
	m := &PlayModel{title: title, chart: chart, timeline: tl, palette: p, slices: chart.Slices()}
	m.draw()
	return m, nil
}

func tick() tea.Cmd {
	return tea.Tick(time.Second/playFrameRate, func(t time.Time) tea.Msg { return frameMsg(t) })
}

func (m *PlayModel) Init() tea.Cmd {
	return tick()
}

// draw renders a frame onto a recorder; the first one starts the sweep.
func (m *PlayModel) draw() {
	m.frames++
	m.err = m.chart.Draw(sink.NewRecorder(m.palette))
}

func (m *PlayModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case frameMsg:
		m.timeline.Pump()
		m.draw()
		return m, tick()
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "up", "k", "left", "h":
			if m.cursor > 0 {
				m.cursor--
			}
		case "down", "j", "right", "l":
			if m.cursor < len(m.slices)-1 {
				m.cursor++
			}
		case "enter", " ":
			m.tap()
		case "r":
			if err := m.chart.Prepare(); err != nil {
				m.err = err
			}
			m.status = "restarted"
			m.draw()
		}
	}
	return m, nil
}

// tap presses and releases the middle of the selected slice.
func (m *PlayModel) tap() {
	if len(m.slices) == 0 {
		return
	}
	s := m.slices[m.cursor]
	x, y := m.chart.PointIn(s)
	m.chart.PointerDown(x, y)
	switch {
	case !m.chart.PointerUp(x, y):
		m.status = "tap ignored"
	case isFloating(m.chart, s.ID):
		m.status = s.Label + " floats"
	default:
		m.status = s.Label + " sinks"
	}
}

func isFloating(c *pie.Chart, id string) bool {
	f, ok := c.Floating()
	return ok && f.ID == id
}

func bar(p float64) string {
	n := int(math.Round(min(max(p, 0), 1) * barWidth))
	return strings.Repeat("█", n) + listDimStyle.Render(strings.Repeat("░", barWidth-n))
}

func (m *PlayModel) View() string {
	var b strings.Builder

	b.WriteString(styleTitle.Render(m.title))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("↑/↓ select  ⏎ tap  r restart  q quit"))
	b.WriteString("\n\n")

	sweep := m.chart.SweepProgress()
	fmt.Fprintf(&b, "%-8s %s %3.0f%%\n", "sweep", bar(sweep), sweep*100)
	if angle, active := m.chart.Cursor(); active >= 0 {
		b.WriteString(listDimStyle.Render(fmt.Sprintf("         drawing %s at %.0f°", m.slices[active].Label, angle)))
		b.WriteString("\n")
	}
	b.WriteString("\n")

	floating, hasFloating := m.chart.Floating()
	up, down := m.chart.FloatProgress()
	for i, s := range m.slices {
		cursor := "  "
		if i == m.cursor {
			cursor = "▸ "
		}
		swatch := lipgloss.NewStyle().Foreground(lipgloss.Color(m.palette.Hex(s.Style))).Render("●")
		line := fmt.Sprintf("%s%s %-16s %6s", cursor, swatch, s.Label, fmt.Sprintf("%.1f%%", s.Fraction*100))
		if hasFloating && floating.Index == i {
			line += "  " + bar(up)
		}

		if i == m.cursor {
			b.WriteString(listSelectedStyle.Render(line))
		} else {
			b.WriteString(listNormalStyle.Render(line))
		}
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(listDimStyle.Render(fmt.Sprintf("mode %s · frame %d · float up %.2f down %.2f",
		m.chart.Mode(), m.frames, up, down)))
	if m.status != "" {
		b.WriteString("\n")
		b.WriteString(styleHighlight.Render(m.status))
	}
	if m.err != nil {
		b.WriteString("\n")
		b.WriteString(styleWarning.Render(m.err.Error()))
	}
	b.WriteString("\n")
	return b.String()
}

package sink

import (
	"sync"

	"github.com/gogpu/gg/text"
	"golang.org/x/image/font/gofont/goregular"
)

// Measurer measures and supplies font faces for labels. It is safe for
// concurrent use.
type Measurer struct {
	source *text.FontSource

	mu    sync.Mutex
	faces map[float64]text.Face
}

// NewMeasurer loads a TrueType or OpenType font.
func NewMeasurer(font []byte) (*Measurer, error) {
	src, err := text.NewFontSource(font)
	if err != nil {
		return nil, err
	}
	return &Measurer{source: src, faces: make(map[float64]text.Face)}, nil
}

var (
	defaultMeasurer     *Measurer
	defaultMeasurerErr  error
	defaultMeasurerOnce sync.Once
)

// DefaultMeasurer returns the shared Go Regular measurer.
func DefaultMeasurer() (*Measurer, error) {
	defaultMeasurerOnce.Do(func() {
		defaultMeasurer, defaultMeasurerErr = NewMeasurer(goregular.TTF)
	})
	return defaultMeasurer, defaultMeasurerErr
}

// Face returns the face for a size in points.
func (m *Measurer) Face(size float64) text.Face {
	m.mu.Lock()
	defer m.mu.Unlock()
	if f, ok := m.faces[size]; ok {
		return f
	}
	f := m.source.Face(size)
	m.faces[size] = f
	return f
}

// MeasureText returns the advance width of s at size.
func (m *Measurer) MeasureText(s string, size float64) float64 {
	w, _ := text.Measure(s, m.Face(size))
	return w
}

package server

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/goccy/go-json"

	"github.com/matzehuels/piesweep/pkg/observability"
	"github.com/matzehuels/piesweep/pkg/session"
)

const createBody = `{
	"entries": [{"label": "rent", "value": 3}, {"label": "food", "value": 1}],
	"config": {"start_angle": 0, "animate_pie": false, "animate_touch": false, "auto_size": false, "pie_radius": 100},
	"width": 400,
	"height": 400
}`

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	ts := httptest.NewServer(New(session.NewMemoryStore()).Routes())
	t.Cleanup(ts.Close)
	return ts
}

func do(t *testing.T, method, url, body string) *http.Response {
	t.Helper()
	req, err := http.NewRequest(method, url, strings.NewReader(body))
	if err != nil {
		t.Fatal(err)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func decode[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	var v T
	if err := json.NewDecoder(resp.Body).Decode(&v); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	return v
}

func create(t *testing.T, ts *httptest.Server) sessionResponse {
	t.Helper()
	resp := do(t, http.MethodPost, ts.URL+"/sessions", createBody)
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("create status = %d, want 201", resp.StatusCode)
	}
	return decode[sessionResponse](t, resp)
}

func TestHealthz(t *testing.T) {
	ts := newTestServer(t)
	if resp := do(t, http.MethodGet, ts.URL+"/healthz", ""); resp.StatusCode != http.StatusOK {
		t.Errorf("status = %d, want 200", resp.StatusCode)
	}
}

func TestCreateAndGet(t *testing.T) {
	ts := newTestServer(t)
	created := create(t, ts)

	if len(created.Slices) != 2 {
		t.Fatalf("slices = %d, want 2", len(created.Slices))
	}
	if got := created.Slices[0].SweepAngle; got != 270 {
		t.Errorf("first sweep = %v, want 270", got)
	}
	if created.Slices[0].Color == "" {
		t.Error("slice color should be resolved")
	}
	if created.State.Mode != "static" {
		t.Errorf("mode = %s, want static", created.State.Mode)
	}

	got := decode[sessionResponse](t, do(t, http.MethodGet, ts.URL+"/sessions/"+created.ID, ""))
	if got.ID != created.ID {
		t.Errorf("ID = %s, want %s", got.ID, created.ID)
	}
}

func TestCreateRejectsBadInput(t *testing.T) {
	ts := newTestServer(t)
	tests := []struct {
		name   string
		body   string
		status int
	}{
		{"malformed", `{`, http.StatusBadRequest},
		{"control character label", `{"entries": [{"label": "a\u0001", "value": 1}]}`, http.StatusBadRequest},
		{"unknown config key", `{"entries": [], "config": {"nope": 1}}`, http.StatusBadRequest},
		{"oversized split", `{"entries": [{"label": "a", "value": 1}, {"label": "b", "value": 1}], "config": {"split_angle": 300}}`, http.StatusBadRequest},
		{"oversized width", `{"entries": [{"label": "a", "value": 1}], "width": 100000}`, http.StatusBadRequest},
		{"negative height", `{"entries": [{"label": "a", "value": 1}], "height": -1}`, http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := do(t, http.MethodPost, ts.URL+"/sessions", tt.body)
			if resp.StatusCode != tt.status {
				t.Errorf("status = %d, want %d", resp.StatusCode, tt.status)
			}
		})
	}
}

func TestUnknownSession(t *testing.T) {
	ts := newTestServer(t)
	resp := do(t, http.MethodGet, ts.URL+"/sessions/missing", "")
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", resp.StatusCode)
	}
	if e := decode[errorResponse](t, resp); e.Error != "SESSION_NOT_FOUND" {
		t.Errorf("error = %s, want SESSION_NOT_FOUND", e.Error)
	}
}

func TestFrame(t *testing.T) {
	ts := newTestServer(t)
	id := create(t, ts).ID

	tests := []struct {
		format string
		ctype  string
		prefix []byte
	}{
		{"svg", "image/svg+xml", []byte("<svg")},
		{"png", "image/png", []byte("\x89PNG")},
		{"json", "application/json", []byte("{")},
	}
	for _, tt := range tests {
		t.Run(tt.format, func(t *testing.T) {
			resp := do(t, http.MethodGet, ts.URL+"/sessions/"+id+"/frame."+tt.format, "")
			if resp.StatusCode != http.StatusOK {
				t.Fatalf("status = %d, want 200", resp.StatusCode)
			}
			if got := resp.Header.Get("Content-Type"); got != tt.ctype {
				t.Errorf("Content-Type = %s, want %s", got, tt.ctype)
			}
			var buf bytes.Buffer
			buf.ReadFrom(resp.Body)
			if !bytes.HasPrefix(buf.Bytes(), tt.prefix) {
				t.Errorf("body starts with %.8q, want %q", buf.Bytes(), tt.prefix)
			}
		})
	}

	if resp := do(t, http.MethodGet, ts.URL+"/sessions/"+id+"/frame.gif", ""); resp.StatusCode != http.StatusBadRequest {
		t.Errorf("gif status = %d, want 400", resp.StatusCode)
	}
}

func TestFrameScale(t *testing.T) {
	ts := newTestServer(t)
	id := create(t, ts).ID

	tests := []struct {
		scale  string
		status int
	}{
		{"2", http.StatusOK},
		{"4", http.StatusOK},
		{"4.5", http.StatusBadRequest},
		{"100", http.StatusBadRequest},
		{"0", http.StatusBadRequest},
		{"-1", http.StatusBadRequest},
		{"NaN", http.StatusBadRequest},
		{"wide", http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.scale, func(t *testing.T) {
			resp := do(t, http.MethodGet, ts.URL+"/sessions/"+id+"/frame.png?scale="+tt.scale, "")
			if resp.StatusCode != tt.status {
				t.Fatalf("status = %d, want %d", resp.StatusCode, tt.status)
			}
			if tt.status == http.StatusBadRequest {
				if e := decode[errorResponse](t, resp); e.Error != "INVALID_INPUT" {
					t.Errorf("error = %s, want INVALID_INPUT", e.Error)
				}
			}
		})
	}
}

func TestPointer(t *testing.T) {
	ts := newTestServer(t)
	id := create(t, ts).ID
	url := ts.URL + "/sessions/" + id + "/pointer"

	do(t, http.MethodPost, url, `{"action": "down", "x": 250, "y": 210}`)
	up := decode[pointerResponse](t, do(t, http.MethodPost, url, `{"action": "up", "x": 250, "y": 210}`))
	if !up.Handled || up.State.Floating != "rent" || up.State.Mode != "touch" {
		t.Errorf("up = %+v, want rent floating", up)
	}

	tap := decode[pointerResponse](t, do(t, http.MethodPost, url, `{"action": "tap", "slice": "food"}`))
	if tap.State.Floating != "food" {
		t.Errorf("Floating = %q, want food", tap.State.Floating)
	}

	miss := decode[pointerResponse](t, do(t, http.MethodPost, url, `{"action": "tap", "x": 0, "y": 0}`))
	if miss.Handled {
		t.Error("tap outside the pie should not be handled")
	}

	if resp := do(t, http.MethodPost, url, `{"action": "slide"}`); resp.StatusCode != http.StatusBadRequest {
		t.Errorf("unknown action status = %d, want 400", resp.StatusCode)
	}
	if resp := do(t, http.MethodPost, url, `{"action": "tap", "slice": "nope"}`); resp.StatusCode != http.StatusNotFound {
		t.Errorf("unknown slice status = %d, want 404", resp.StatusCode)
	}
}

func TestDelete(t *testing.T) {
	ts := newTestServer(t)
	id := create(t, ts).ID

	if resp := do(t, http.MethodDelete, ts.URL+"/sessions/"+id, ""); resp.StatusCode != http.StatusNoContent {
		t.Fatalf("status = %d, want 204", resp.StatusCode)
	}
	if resp := do(t, http.MethodGet, ts.URL+"/sessions/"+id, ""); resp.StatusCode != http.StatusNotFound {
		t.Errorf("status after delete = %d, want 404", resp.StatusCode)
	}
}

type recordingHTTPHooks struct {
	observability.NoopHTTPHooks
	mu       sync.Mutex
	statuses []int
	errors   int
}

func (h *recordingHTTPHooks) OnResponse(_ context.Context, _, _ string, status int, _ time.Duration) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.statuses = append(h.statuses, status)
}

func (h *recordingHTTPHooks) OnError(context.Context, string, string, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.errors++
}

func TestHTTPHooks(t *testing.T) {
	hooks := &recordingHTTPHooks{}
	observability.SetHTTPHooks(hooks)
	defer observability.Reset()

	ts := newTestServer(t)
	do(t, http.MethodGet, ts.URL+"/healthz", "")
	do(t, http.MethodGet, ts.URL+"/sessions/missing", "")

	hooks.mu.Lock()
	defer hooks.mu.Unlock()
	if len(hooks.statuses) != 2 || hooks.statuses[0] != 200 || hooks.statuses[1] != 404 {
		t.Errorf("statuses = %v, want [200 404]", hooks.statuses)
	}
	if hooks.errors != 1 {
		t.Errorf("errors = %d, want 1", hooks.errors)
	}
}

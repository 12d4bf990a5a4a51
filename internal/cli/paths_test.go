package cli

import (
	"os"
	"path/filepath"
	"testing"
)

func TestCacheDir(t *testing.T) {
	home, err := os.UserHomeDir()
	if err != nil {
		t.Skip("no home directory")
	}

	tests := []struct {
		name string
		xdg  string
		want string
	}{
		{"default", "", filepath.Join(home, ".cache", appName)},
		{"xdg", "/tmp/custom-cache", filepath.Join("/tmp/custom-cache", appName)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("XDG_CACHE_HOME", tt.xdg)
			got, err := cacheDir()
			if err != nil {
				t.Fatalf("cacheDir() error = %v", err)
			}
			if got != tt.want {
				t.Errorf("cacheDir() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestBasePath(t *testing.T) {
	tests := []struct {
		output, input, want string
	}{
		{"", "budget.csv", "budget"},
		{"", "data/q1.json", "data/q1"},
		{"chart.svg", "budget.csv", "chart"},
		{"chart.PNG", "budget.csv", "chart.PNG"},
		{"out/frame", "budget.csv", "out/frame"},
	}
	for _, tt := range tests {
		if got := basePath(tt.output, tt.input); got != tt.want {
			t.Errorf("basePath(%q, %q) = %q, want %q", tt.output, tt.input, got, tt.want)
		}
	}
}

func TestOpenOutputStdout(t *testing.T) {
	w, err := openOutput("")
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := w.(nopCloser); !ok {
		t.Errorf("openOutput(\"\") = %T, want nopCloser", w)
	}
	if err := w.Close(); err != nil {
		t.Errorf("Close() error = %v", err)
	}
}

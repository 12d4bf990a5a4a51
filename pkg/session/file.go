package session

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/goccy/go-json"

	"github.com/matzehuels/piesweep/pkg/config"
	"github.com/matzehuels/piesweep/pkg/dataset"
)

// Snapshot holds the inputs a session was built from. Animation and touch
// state are not part of it; a restored session starts fresh.
type Snapshot struct {
	ID        string           `json:"id"`
	Entries   []dataset.Record `json:"entries"`
	Config    config.Config    `json:"config"`
	Width     float64          `json:"width"`
	Height    float64          `json:"height"`
	CreatedAt time.Time        `json:"created_at"`
	ExpiresAt time.Time        `json:"expires_at"`
}

// IsExpired returns true if the snapshot's session has expired.
func (s *Snapshot) IsExpired() bool {
	return time.Now().After(s.ExpiresAt)
}

// Snapshot captures the session's inputs.
func (s *Session) Snapshot() Snapshot {
	return Snapshot{
		ID:        s.ID,
		Entries:   dataset.FromEntries(s.entries),
		Config:    s.cfg,
		Width:     s.opts.Width,
		Height:    s.opts.Height,
		CreatedAt: s.CreatedAt,
		ExpiresAt: s.ExpiresAt(),
	}
}

// Restore rebuilds the session. The snapshot's canvas size overrides opts.
func (s *Snapshot) Restore(opts Options) (*Session, error) {
	entries, err := dataset.ToEntries(s.Entries)
	if err != nil {
		return nil, err
	}
	opts.Width, opts.Height = s.Width, s.Height
	sess, err := restore(s.ID, entries, s.Config, opts)
	if err != nil {
		return nil, err
	}
	sess.CreatedAt = s.CreatedAt
	return sess, nil
}

// SnapshotStore persists session snapshots as JSON files in a directory.
type SnapshotStore struct {
	mu      sync.RWMutex
	baseDir string
}

// NewSnapshotStore creates a snapshot store.
// If baseDir is empty, defaults to ~/.config/piesweep/sessions/
func NewSnapshotStore(baseDir string) (*SnapshotStore, error) {
	if baseDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("get home dir: %w", err)
		}
		baseDir = filepath.Join(home, ".config", "piesweep", "sessions")
	}
	if err := os.MkdirAll(baseDir, 0700); err != nil {
		return nil, fmt.Errorf("create session dir: %w", err)
	}
	return &SnapshotStore{baseDir: baseDir}, nil
}

func (s *SnapshotStore) path(id string) string {
	return filepath.Join(s.baseDir, filepath.Base(id)+".json")
}

// Load returns the snapshot for id, or nil when it is missing or expired.
func (s *SnapshotStore) Load(id string) (*Snapshot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	path := s.path(id)
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("read session file: %w", err)
	}

	var snap Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, fmt.Errorf("parse session: %w", err)
	}
	if snap.IsExpired() {
		os.Remove(path)
		return nil, nil
	}
	return &snap, nil
}

// Save writes snap, replacing any previous version.
func (s *SnapshotStore) Save(snap Snapshot) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal session: %w", err)
	}
	if err := os.WriteFile(s.path(snap.ID), data, 0600); err != nil {
		return fmt.Errorf("write session file: %w", err)
	}
	return nil
}

// Delete removes the snapshot for id.
func (s *SnapshotStore) Delete(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.Remove(s.path(id)); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("remove session file: %w", err)
	}
	return nil
}

// Cleanup removes expired snapshots and returns how many were removed.
func (s *SnapshotStore) Cleanup() (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		return 0, fmt.Errorf("read session dir: %w", err)
	}

	removed := 0
	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != ".json" {
			continue
		}
		path := filepath.Join(s.baseDir, entry.Name())
		data, err := os.ReadFile(path)
		if err != nil {
			continue
		}
		var snap Snapshot
		if err := json.Unmarshal(data, &snap); err != nil {
			continue
		}
		if snap.IsExpired() && os.Remove(path) == nil {
			removed++
		}
	}
	return removed, nil
}

// Path returns the base directory for session files.
func (s *SnapshotStore) Path() string {
	return s.baseDir
}

package session

import (
	"context"
	"sync"
	"time"

	"github.com/matzehuels/piesweep/pkg/errors"
)

// Store is the interface for session storage backends.
type Store interface {
	// Get retrieves a live session by ID and extends its TTL.
	// Returns a SESSION_NOT_FOUND error for unknown or expired sessions.
	Get(ctx context.Context, id string) (*Session, error)

	// Set stores a session.
	Set(ctx context.Context, sess *Session) error

	// Delete removes a session. Deleting an unknown session is a no-op.
	Delete(ctx context.Context, id string) error

	// Cleanup removes expired sessions and returns how many were dropped.
	Cleanup(ctx context.Context) (int, error)
}

// MemoryStore keeps sessions in process memory. With a [SnapshotStore]
// attached it also persists each session's inputs, so a restarted host can
// rebuild sessions on first access.
type MemoryStore struct {
	mu        sync.RWMutex
	sessions  map[string]*Session
	snapshots *SnapshotStore
	opts      Options
}

// MemoryOption configures a MemoryStore.
type MemoryOption func(*MemoryStore)

// WithSnapshots persists session inputs to fs. Restored sessions are built
// with opts.
func WithSnapshots(fs *SnapshotStore, opts Options) MemoryOption {
	return func(m *MemoryStore) {
		m.snapshots = fs
		m.opts = opts
	}
}

// NewMemoryStore creates an empty store.
func NewMemoryStore(opts ...MemoryOption) *MemoryStore {
	m := &MemoryStore{sessions: make(map[string]*Session)}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

func notFound(id string) error {
	return errors.New(errors.ErrCodeSessionNotFound, "session %s not found", id)
}

func (m *MemoryStore) Get(ctx context.Context, id string) (*Session, error) {
	m.mu.RLock()
	sess, ok := m.sessions[id]
	m.mu.RUnlock()

	if ok && sess.IsExpired() {
		m.Delete(ctx, id)
		return nil, notFound(id)
	}
	if !ok {
		restored, err := m.restore(id)
		if err != nil {
			return nil, err
		}
		sess = restored
	}
	sess.touch()
	return sess, nil
}

func (m *MemoryStore) restore(id string) (*Session, error) {
	if m.snapshots == nil {
		return nil, notFound(id)
	}
	snap, err := m.snapshots.Load(id)
	if err != nil {
		return nil, err
	}
	if snap == nil {
		return nil, notFound(id)
	}
	sess, err := snap.Restore(m.opts)
	if err != nil {
		return nil, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if existing, ok := m.sessions[id]; ok {
		return existing, nil
	}
	m.sessions[id] = sess
	return sess, nil
}

func (m *MemoryStore) Set(ctx context.Context, sess *Session) error {
	if m.snapshots != nil {
		if err := m.snapshots.Save(sess.Snapshot()); err != nil {
			return err
		}
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sessions[sess.ID] = sess
	return nil
}

func (m *MemoryStore) Delete(ctx context.Context, id string) error {
	m.mu.Lock()
	sess, ok := m.sessions[id]
	delete(m.sessions, id)
	m.mu.Unlock()

	if ok {
		sess.close()
	}
	if m.snapshots != nil {
		return m.snapshots.Delete(id)
	}
	return nil
}

func (m *MemoryStore) Cleanup(ctx context.Context) (int, error) {
	m.mu.Lock()
	var expired []*Session
	for id, sess := range m.sessions {
		if sess.IsExpired() {
			expired = append(expired, sess)
			delete(m.sessions, id)
		}
	}
	m.mu.Unlock()

	for _, sess := range expired {
		sess.close()
	}
	if m.snapshots != nil {
		if _, err := m.snapshots.Cleanup(); err != nil {
			return len(expired), err
		}
	}
	return len(expired), nil
}

// Len returns the number of sessions held in memory.
func (m *MemoryStore) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}

// RunCleanup calls Cleanup every interval until ctx is done.
func (m *MemoryStore) RunCleanup(ctx context.Context, interval time.Duration, onErr func(error)) {
	t := time.NewTicker(interval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			if _, err := m.Cleanup(ctx); err != nil && onErr != nil {
				onErr(err)
			}
		}
	}
}

var _ Store = (*MemoryStore)(nil)

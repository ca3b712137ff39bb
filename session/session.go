// Package session tracks UI sessions. Each session owns its own application
// state and store; ending a session discards its data.
package session

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/stevemurr/simple-user-table/record"
	"github.com/stevemurr/simple-user-table/seed"
	"github.com/stevemurr/simple-user-table/state"
	"github.com/stevemurr/simple-user-table/store"
)

// Options configures a Manager.
type Options struct {
	// Backend is passed to store.New for every new session.
	Backend string
	// Seed is inserted into every new session's store.
	Seed []record.Record
	// TTL is how long an idle session survives. Zero disables expiry.
	TTL time.Duration
	// Now defaults to time.Now.
	Now func() time.Time
	// Logger defaults to slog.Default().
	Logger *slog.Logger
}

type entry struct {
	app      *state.App
	lastSeen time.Time
}

// Manager creates, finds and expires sessions. Safe for concurrent use.
type Manager struct {
	mu       sync.Mutex
	opts     Options
	sessions map[string]*entry
}

func NewManager(opts Options) *Manager {
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	return &Manager{opts: opts, sessions: make(map[string]*entry)}
}

// NewApp builds a seeded application state without registering it.
func (m *Manager) NewApp() (*state.App, error) {
	s, err := store.New(m.opts.Backend)
	if err != nil {
		return nil, err
	}
	if err := seed.Apply(s, m.opts.Seed); err != nil {
		s.Close()
		return nil, err
	}
	return state.New(s), nil
}

// Create starts a new session and returns its id.
func (m *Manager) Create() (string, *state.App, error) {
	app, err := m.NewApp()
	if err != nil {
		return "", nil, fmt.Errorf("create session: %w", err)
	}
	id := uuid.NewString()

	m.mu.Lock()
	m.sessions[id] = &entry{app: app, lastSeen: m.opts.Now()}
	m.mu.Unlock()

	m.opts.Logger.Debug("session created", "session", id, "backend", m.opts.Backend)
	return id, app, nil
}

// Get returns the session's state and marks it as seen.
func (m *Manager) Get(id string) (*state.App, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	e, ok := m.sessions[id]
	if !ok {
		return nil, false
	}
	e.lastSeen = m.opts.Now()
	return e.app, true
}

// Len returns the number of live sessions.
func (m *Manager) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sessions)
}

// Sweep ends every session idle for longer than the TTL and returns how
// many were removed.
func (m *Manager) Sweep(now time.Time) int {
	if m.opts.TTL <= 0 {
		return 0
	}
	m.mu.Lock()
	var expired []*entry
	for id, e := range m.sessions {
		if now.Sub(e.lastSeen) > m.opts.TTL {
			expired = append(expired, e)
			delete(m.sessions, id)
			m.opts.Logger.Debug("session expired", "session", id)
		}
	}
	m.mu.Unlock()

	for _, e := range expired {
		if err := e.app.Close(); err != nil {
			m.opts.Logger.Warn("close expired session", "err", err)
		}
	}
	return len(expired)
}

// Run sweeps every interval until ctx is done.
func (m *Manager) Run(ctx context.Context, interval time.Duration) {
	if m.opts.TTL <= 0 || interval <= 0 {
		return
	}
	t := time.NewTicker(interval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			if n := m.Sweep(m.opts.Now()); n > 0 {
				m.opts.Logger.Info("expired idle sessions", "count", n)
			}
		}
	}
}

// Close ends every session.
func (m *Manager) Close() error {
	m.mu.Lock()
	sessions := m.sessions
	m.sessions = make(map[string]*entry)
	m.mu.Unlock()

	var firstErr error
	for _, e := range sessions {
		if err := e.app.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

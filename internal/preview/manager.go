// Package preview implements the snapshot-and-tag workflow that makes an AI
// insertion reversible: capture the document, tag everything written while
// the session is active, then either detag (accept) or strip the tagged
// nodes and restore the snapshot (reject).
package preview

import (
	"errors"
	"fmt"
	"sync"

	"github.com/google/uuid"

	"github.com/fluxnote/scribe/internal/document"
)

var (
	// ErrConflict is returned by Begin while another session is active.
	// Resolve or force-cancel the prior session first; sessions are never
	// silently orphaned.
	ErrConflict = errors.New("preview: session already active")
	// ErrNoActiveSession is returned by Accept/Reject from the idle state.
	ErrNoActiveSession = errors.New("preview: no active session")
)

// Session is one active preview. The snapshot is the sole owner of the
// pre-insertion state: discarded on accept, restored on reject.
type Session struct {
	id       string
	snapshot document.Snapshot
}

// ID returns the session identifier stamped on every node the session wrote.
func (s *Session) ID() string { return s.id }

// Snapshot returns the pre-insertion document state.
func (s *Session) Snapshot() document.Snapshot { return s.snapshot }

// Manager drives the session state machine: Idle -> Active -> Idle, with
// Accept, Reject and force-Cancel as the ways back to Idle. At most one
// session is active at a time.
type Manager struct {
	mu      sync.Mutex
	surface document.Surface
	active  *Session
	logf    func(string, ...any)
}

// Option configures a Manager.
type Option func(*Manager)

// WithLogf sets the debug log hook.
func WithLogf(f func(string, ...any)) Option {
	return func(m *Manager) { m.logf = f }
}

// NewManager creates a Manager bound to one host surface.
func NewManager(surface document.Surface, opts ...Option) *Manager {
	m := &Manager{surface: surface, logf: func(string, ...any) {}}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Begin snapshots the document, generates a session id and turns on write
// tagging, so every mutation applied from here on is attributable to this
// session. Fails with ErrConflict while another session is active.
func (m *Manager) Begin() (*Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.active != nil {
		return nil, ErrConflict
	}
	s := &Session{
		id:       uuid.NewString(),
		snapshot: m.surface.Serialize(),
	}
	m.surface.TagWrites(s.id)
	m.active = s
	m.logf("preview %s: begin", s.id)
	return s, nil
}

// Active returns the current session, or nil when idle.
func (m *Manager) Active() *Session {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.active
}

// Accept keeps everything the session wrote: tags are stripped from every
// session node and the snapshot is discarded. A node that fails to detag is
// logged and skipped; the content stays either way.
func (m *Manager) Accept() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.active == nil {
		return ErrNoActiveSession
	}
	m.surface.TagWrites("")
	for _, id := range m.surface.NodesByTag(m.active.id) {
		if err := m.surface.StripTag(id); err != nil {
			m.logf("preview %s: detag node %d: %v", m.active.id, id, err)
		}
	}
	m.logf("preview %s: accepted", m.active.id)
	m.active = nil
	return nil
}

// Reject discards everything the session wrote: tagged nodes are removed,
// then the whole document is replaced with the snapshot. The restore is
// silent; rolling back a preview is not itself an undoable user edit.
func (m *Manager) Reject() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.active == nil {
		return ErrNoActiveSession
	}
	if err := m.rollbackLocked(); err != nil {
		return err
	}
	m.logf("preview %s: rejected", m.active.id)
	m.active = nil
	return nil
}

// Cancel force-cancels an active session with reject semantics. Cancelling
// from idle is a no-op.
func (m *Manager) Cancel() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.active == nil {
		return nil
	}
	if err := m.rollbackLocked(); err != nil {
		return err
	}
	m.logf("preview %s: force-cancelled", m.active.id)
	m.active = nil
	return nil
}

// rollbackLocked removes the session's nodes and restores the snapshot.
// Nodes are removed before the replace so a host whose replace is partial
// still does not leak tagged nodes.
func (m *Manager) rollbackLocked() error {
	m.surface.TagWrites("")
	for _, id := range m.surface.NodesByTag(m.active.id) {
		if err := m.surface.RemoveNode(id); err != nil {
			m.logf("preview %s: remove node %d: %v", m.active.id, id, err)
		}
	}
	if err := m.surface.Replace(m.active.snapshot, true); err != nil {
		return fmt.Errorf("preview: restore snapshot: %w", err)
	}
	return nil
}

package stepeditor

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/tsp-platform/casegen/logger"
)

var (
	// ErrSessionNotFound is returned when an editor session does not exist.
	ErrSessionNotFound = errors.New("editor session not found")

	// ErrSessionExpired is returned when an editor session has expired.
	ErrSessionExpired = errors.New("editor session expired")
)

// Session is one live editor instance opened against a persisted record.
// The notifier buffer accumulates rejection notices between state fetches.
type Session struct {
	ID        uuid.UUID
	RecordID  uuid.UUID
	UserID    uuid.UUID
	Editor    *Editor
	Notices   *BufferNotifier
	CreatedAt time.Time
	ExpiresAt time.Time
}

// Manager keeps the live editor instances the HTTP surface hands out, one
// per open form, and expires the ones nobody touched. Each session owns its
// editor exclusively; the manager never shares one store across sessions.
type Manager struct {
	mu       sync.RWMutex
	sessions map[uuid.UUID]*Session
	ttl      time.Duration
	logger   logger.Logger
	stopCh   chan struct{}
}

// NewManager creates a manager whose sessions live for ttl after their last
// touch.
func NewManager(ttl time.Duration, log logger.Logger) *Manager {
	return &Manager{
		sessions: make(map[uuid.UUID]*Session),
		ttl:      ttl,
		logger:   log,
		stopCh:   make(chan struct{}),
	}
}

// Open creates a new editor session seeded from the record's current steps.
func (m *Manager) Open(userID, recordID uuid.UUID, cfg Config, seed StepList) *Session {
	notices := NewBufferNotifier()
	cfg.Notifier = notices

	editor := New(cfg)
	editor.Reconcile(seed)

	now := time.Now()
	sess := &Session{
		ID:        uuid.New(),
		RecordID:  recordID,
		UserID:    userID,
		Editor:    editor,
		Notices:   notices,
		CreatedAt: now,
		ExpiresAt: now.Add(m.ttl),
	}

	m.mu.Lock()
	m.sessions[sess.ID] = sess
	m.mu.Unlock()

	m.logger.Info(context.Background(), "editor session opened", map[string]interface{}{
		"session_id": sess.ID.String(),
		"record_id":  recordID.String(),
		"user_id":    userID.String(),
	})

	return sess
}

// Get retrieves a live session and extends its expiry.
func (m *Manager) Get(id uuid.UUID) (*Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	sess, ok := m.sessions[id]
	if !ok {
		return nil, ErrSessionNotFound
	}
	if time.Now().After(sess.ExpiresAt) {
		sess.Editor.Close()
		delete(m.sessions, id)
		return nil, ErrSessionExpired
	}

	sess.ExpiresAt = time.Now().Add(m.ttl)
	return sess, nil
}

// Close tears down a session and releases its editor.
func (m *Manager) Close(id uuid.UUID) {
	m.mu.Lock()
	sess, ok := m.sessions[id]
	if ok {
		delete(m.sessions, id)
	}
	m.mu.Unlock()

	if ok {
		sess.Editor.Close()
		m.logger.Info(context.Background(), "editor session closed", map[string]interface{}{
			"session_id": id.String(),
		})
	}
}

// StartCleanup starts a background goroutine that removes expired sessions.
func (m *Manager) StartCleanup(interval time.Duration) {
	ticker := time.NewTicker(interval)
	go func() {
		for {
			select {
			case <-ticker.C:
				removed := m.cleanup()
				if removed > 0 {
					m.logger.Info(context.Background(), "cleaned up expired editor sessions", map[string]interface{}{
						"removed_count": removed,
					})
				}
			case <-m.stopCh:
				ticker.Stop()
				return
			}
		}
	}()
}

// StopCleanup stops the cleanup goroutine.
func (m *Manager) StopCleanup() {
	close(m.stopCh)
}

func (m *Manager) cleanup() int {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := time.Now()
	removed := 0
	for id, sess := range m.sessions {
		if now.After(sess.ExpiresAt) {
			sess.Editor.Close()
			delete(m.sessions, id)
			removed++
		}
	}
	return removed
}

package session

import (
	"context"
	"sync"
	"time"

	"github.com/pkg/errors"

	"github.com/vijayholve/scm-app-frontend/core"
)

var (
	ErrNoSession = errors.New("no stored session")
	ErrCorrupt   = errors.New("stored session is corrupt")
)

// Store persists the session between runs.
type Store interface {
	Save(ctx context.Context, s *Session) error
	// Load returns ErrNoSession when nothing is stored.
	Load(ctx context.Context) (*Session, error)
	Clear(ctx context.Context) error
}

// Manager holds the current session. It is safe for concurrent use.
type Manager struct {
	mu      sync.RWMutex
	current *Session
	store   Store
	logger  core.Logger
}

var nowFunc = time.Now // mockable

func NewManager(store Store, logger core.Logger) *Manager {
	if logger == nil {
		logger = core.NopLogger()
	}
	return &Manager{store: store, logger: logger}
}

// Load restores the stored session. Corrupt or expired values are cleared and
// leave the manager anonymous.
func (m *Manager) Load(ctx context.Context) error {
	sess, err := m.store.Load(ctx)
	switch {
	case err == nil:
	case errors.Is(err, ErrNoSession):
		m.set(nil)
		return nil
	case errors.Is(err, ErrCorrupt):
		m.logger.Warn("discarding corrupt session", err)
		m.set(nil)
		return errors.Wrap(m.store.Clear(ctx), "clearing corrupt session")
	default:
		return errors.Wrap(err, "loading session")
	}

	if !sess.IsAuthenticated() || sess.Expired(nowFunc()) {
		m.set(nil)
		return errors.Wrap(m.store.Clear(ctx), "clearing expired session")
	}
	m.set(sess)
	return nil
}

// Login makes s current and persists it.
func (m *Manager) Login(ctx context.Context, s *Session) error {
	if !s.IsAuthenticated() {
		return errors.New("session has no access token")
	}
	if err := m.store.Save(ctx, s); err != nil {
		return errors.Wrap(err, "saving session")
	}
	m.set(s)
	m.logger.Info("logged in", s)
	return nil
}

func (m *Manager) Logout(ctx context.Context) error {
	m.set(nil)
	return errors.Wrap(m.store.Clear(ctx), "clearing session")
}

// Expire drops a session the server no longer accepts.
func (m *Manager) Expire(ctx context.Context) error {
	if s := m.Current(); s != nil {
		m.logger.Warn("session expired", s)
	}
	return m.Logout(ctx)
}

func (m *Manager) Current() *Session {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.current
}

func (m *Manager) Token() string {
	if s := m.Current(); s != nil {
		return s.AccessToken
	}
	return ""
}

func (m *Manager) HasPermission(entityName string, action Action) bool {
	return m.Current().HasPermission(entityName, action)
}

func (m *Manager) set(s *Session) {
	m.mu.Lock()
	m.current = s
	m.mu.Unlock()
}

package session

import (
	"context"
	"errors"
	"fmt"
	"time"

	"finsmart/internal/auth"
	"finsmart/internal/models"
	"finsmart/internal/storage"
)

// Duration is the fixed lifetime of a session from issuance.
const Duration = 24 * time.Hour

// ErrNoSession is returned when a token is missing, unknown, expired, or
// belongs to a user that no longer exists. Callers cannot tell these apart.
var ErrNoSession = errors.New("no active session")

// Manager issues, resolves and destroys sessions held in a storage.SessionStore.
type Manager struct {
	store storage.SessionStore
	now   func() time.Time
}

// NewManager creates a Manager using the wall clock.
func NewManager(store storage.SessionStore) *Manager {
	return &Manager{store: store, now: time.Now}
}

// WithClock returns a copy of m that reads time from now.
func (m *Manager) WithClock(now func() time.Time) *Manager {
	return &Manager{store: m.store, now: now}
}

// Create issues a new session for userID.
func (m *Manager) Create(ctx context.Context, userID int64) (models.Session, error) {
	token, err := auth.GenerateSessionToken()
	if err != nil {
		return models.Session{}, fmt.Errorf("generate session token: %w", err)
	}

	now := m.now()
	s := models.Session{
		Token:     token,
		UserID:    userID,
		CreatedAt: now,
		ExpiresAt: now.Add(Duration),
	}
	if err := m.store.CreateSession(ctx, s); err != nil {
		return models.Session{}, fmt.Errorf("store session: %w", err)
	}
	return s, nil
}

// Resolve returns the user bound to an active session. Expiry is checked here,
// lazily, against the manager's clock.
func (m *Manager) Resolve(ctx context.Context, token string) (*models.User, error) {
	if token == "" {
		return nil, ErrNoSession
	}
	user, err := m.store.ValidateSession(ctx, token, m.now())
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, ErrNoSession
		}
		return nil, fmt.Errorf("validate session: %w", err)
	}
	return user, nil
}

// Destroy ends a session. An unknown or empty token is not an error.
func (m *Manager) Destroy(ctx context.Context, token string) error {
	if token == "" {
		return nil
	}
	return m.store.DeleteSession(ctx, token)
}

// Sweep deletes sessions that have expired and reports how many were removed.
func (m *Manager) Sweep(ctx context.Context) (int64, error) {
	return m.store.DeleteExpiredSessions(ctx, m.now())
}

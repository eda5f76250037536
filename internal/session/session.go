// Package session holds the unlocked journal password for the lifetime of a
// process. The password lives only in memory, guarded by a lock, and is
// injected into callers as an explicit dependency, never package state.
//
// For the HTTP front-end the manager also issues signed session tokens on
// unlock. The signing secret is random per process, so tokens do not survive
// a restart; re-locking is restarting the process.
package session

import (
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/quillworks/localagent/internal/common"
)

// Claims carries the session identifier inside the token.
type Claims struct {
	jwt.RegisteredClaims
	SessionID string `json:"sid"`
}

// Manager is the per-process session holder. It starts locked; a successful
// journal load transitions it to unlocked (a nonexistent journal file counts
// as a successful load with empty history). A later unlock replaces the
// current session: last unlock wins and earlier tokens stop validating.
type Manager struct {
	mu        sync.RWMutex
	password  string
	sessionID string
	unlocked  bool

	secret []byte
	ttl    time.Duration
}

// NewManager creates a locked manager issuing tokens valid for ttl.
func NewManager(ttl time.Duration) *Manager {
	return &Manager{
		secret: common.GenerateRandByteArray(32),
		ttl:    ttl,
	}
}

// Unlock stores the password in memory and returns a fresh session token.
// Callers must have verified the password against the journal first.
func (m *Manager) Unlock(password string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.password = password
	m.sessionID = uuid.NewString()
	m.unlocked = true

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(m.ttl)),
		},
		SessionID: m.sessionID,
	})
	return token.SignedString(m.secret)
}

// Lock clears the cached password and invalidates all tokens.
func (m *Manager) Lock() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.password = ""
	m.sessionID = ""
	m.unlocked = false
}

// Password returns the cached password. ok is false while locked.
func (m *Manager) Password() (password string, ok bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.password, m.unlocked
}

// Validate checks a session token and returns the cached password. Missing,
// malformed, expired or superseded tokens, and a locked manager, all fail
// with common.ErrJournalLocked so front-ends can surface one explicit
// "locked" condition.
func (m *Manager) Validate(tokenString string) (string, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (any, error) {
		return m.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil || !token.Valid {
		return "", common.ErrJournalLocked
	}

	m.mu.RLock()
	defer m.mu.RUnlock()
	if !m.unlocked || claims.SessionID != m.sessionID {
		return "", common.ErrJournalLocked
	}
	return m.password, nil
}

package session

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quillworks/localagent/internal/common"
)

func TestManager_StartsLocked(t *testing.T) {
	m := NewManager(time.Hour)

	_, ok := m.Password()
	assert.False(t, ok)

	_, err := m.Validate("anything")
	assert.ErrorIs(t, err, common.ErrJournalLocked)
}

func TestManager_UnlockAndValidate(t *testing.T) {
	m := NewManager(time.Hour)

	token, err := m.Unlock("hunter2")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	pw, ok := m.Password()
	require.True(t, ok)
	assert.Equal(t, "hunter2", pw)

	pw, err = m.Validate(token)
	require.NoError(t, err)
	assert.Equal(t, "hunter2", pw)
}

func TestManager_LockInvalidatesTokens(t *testing.T) {
	m := NewManager(time.Hour)

	token, err := m.Unlock("hunter2")
	require.NoError(t, err)

	m.Lock()

	_, ok := m.Password()
	assert.False(t, ok)

	_, err = m.Validate(token)
	assert.ErrorIs(t, err, common.ErrJournalLocked)
}

func TestManager_LastUnlockWins(t *testing.T) {
	m := NewManager(time.Hour)

	first, err := m.Unlock("old-password")
	require.NoError(t, err)

	second, err := m.Unlock("new-password")
	require.NoError(t, err)

	_, err = m.Validate(first)
	assert.ErrorIs(t, err, common.ErrJournalLocked, "superseded token must stop validating")

	pw, err := m.Validate(second)
	require.NoError(t, err)
	assert.Equal(t, "new-password", pw)
}

func TestManager_ExpiredToken(t *testing.T) {
	m := NewManager(-time.Minute)

	token, err := m.Unlock("hunter2")
	require.NoError(t, err)

	_, err = m.Validate(token)
	assert.ErrorIs(t, err, common.ErrJournalLocked)
}

func TestManager_GarbageToken(t *testing.T) {
	m := NewManager(time.Hour)
	_, err := m.Unlock("hunter2")
	require.NoError(t, err)

	for _, tok := range []string{"", "not.a.jwt", "aaaa.bbbb.cccc"} {
		_, err := m.Validate(tok)
		assert.ErrorIs(t, err, common.ErrJournalLocked)
	}
}

func TestManager_TokensDifferAcrossManagers(t *testing.T) {
	m1 := NewManager(time.Hour)
	m2 := NewManager(time.Hour)

	token, err := m1.Unlock("hunter2")
	require.NoError(t, err)
	_, err = m2.Unlock("hunter2")
	require.NoError(t, err)

	// A token signed by one process never validates in another.
	_, err = m2.Validate(token)
	assert.ErrorIs(t, err, common.ErrJournalLocked)
}

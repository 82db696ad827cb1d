package session

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	path := filepath.Join(t.TempDir(), "token")
	s, err := NewStore(path)
	require.NoError(t, err)
	return s
}

func TestNewStore_MissingFileIsEmptySession(t *testing.T) {
	s := newTestStore(t)
	assert.Equal(t, "", s.Token())
	assert.False(t, s.Authenticated())
}

func TestSetToken_PersistsAndReloads(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "token")
	s, err := NewStore(path)
	require.NoError(t, err)

	require.NoError(t, s.SetToken("abc123"))
	assert.Equal(t, "abc123", s.Token())
	assert.True(t, s.Authenticated())

	// A fresh store over the same file sees the persisted session.
	reloaded, err := NewStore(path)
	require.NoError(t, err)
	assert.Equal(t, "abc123", reloaded.Token())

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())
}

func TestSetToken_RejectsEmpty(t *testing.T) {
	s := newTestStore(t)
	assert.Error(t, s.SetToken("   "))
}

func TestClear_RemovesTokenAndFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "token")
	s, err := NewStore(path)
	require.NoError(t, err)
	require.NoError(t, s.SetToken("abc123"))

	require.NoError(t, s.Clear())
	assert.Equal(t, "", s.Token())
	_, statErr := os.Stat(path)
	assert.True(t, os.IsNotExist(statErr))

	// Clearing an already empty session is fine.
	require.NoError(t, s.Clear())
}

func TestSubscribe_NotifiesAndUnsubscribes(t *testing.T) {
	s := newTestStore(t)

	var events []Event
	unsubscribe := s.Subscribe(func(e Event) {
		events = append(events, e)
	})

	require.NoError(t, s.SetToken("abc123"))
	require.NoError(t, s.Clear())
	require.Len(t, events, 2)
	assert.Equal(t, EventLogin, events[0].Kind)
	assert.Equal(t, EventLogout, events[1].Kind)

	unsubscribe()
	require.NoError(t, s.SetToken("def456"))
	assert.Len(t, events, 2)
}

func TestSubscribe_StateVisibleInsideCallback(t *testing.T) {
	s := newTestStore(t)

	var seen string
	s.Subscribe(func(Event) {
		seen = s.Token()
	})

	require.NoError(t, s.SetToken("abc123"))
	assert.Equal(t, "abc123", seen)
}

package session

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/podbrief/podbrief/internal/models"
)

func testAuth() *models.AuthResponse {
	return &models.AuthResponse{
		Token: "tok-abc",
		User: models.User{
			ID:    "user-1",
			Email: "dev@example.com",
		},
	}
}

func TestFileStore_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "session.json")
	store := NewFileStore(path)

	require.NoError(t, store.Save(&State{Token: "tok", User: &models.User{ID: "u1", Email: "a@b.c"}}))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm())

	state, err := store.Load()
	require.NoError(t, err)
	require.NotNil(t, state)
	assert.Equal(t, "tok", state.Token)
	require.NotNil(t, state.User)
	assert.Equal(t, "a@b.c", state.User.Email)
}

func TestFileStore_MissingFileIsSignedOut(t *testing.T) {
	store := NewFileStore(filepath.Join(t.TempDir(), "absent.json"))

	state, err := store.Load()
	require.NoError(t, err)
	assert.Nil(t, state)
}

func TestFileStore_CorruptFileIsSignedOut(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0600))

	state, err := NewFileStore(path).Load()
	require.NoError(t, err)
	assert.Nil(t, state)
}

func TestFileStore_ClearIsIdempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.json")
	store := NewFileStore(path)

	require.NoError(t, store.Save(&State{Token: "tok"}))
	require.NoError(t, store.Clear())
	require.NoError(t, store.Clear())

	state, err := store.Load()
	require.NoError(t, err)
	assert.Nil(t, state)
}

func TestService_StartsSignedOut(t *testing.T) {
	svc := NewService(NewFileStore(filepath.Join(t.TempDir(), "session.json")))

	assert.False(t, svc.SignedIn())
	assert.Empty(t, svc.Token())
	assert.Nil(t, svc.User())
}

func TestService_SetAuthPersists(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.json")

	svc := NewService(NewFileStore(path))
	require.NoError(t, svc.SetAuth(testAuth()))

	assert.True(t, svc.SignedIn())
	assert.Equal(t, "tok-abc", svc.Token())

	// A second service over the same path picks the session back up
	restored := NewService(NewFileStore(path))
	assert.True(t, restored.SignedIn())
	assert.Equal(t, "tok-abc", restored.Token())
	require.NotNil(t, restored.User())
	assert.Equal(t, "dev@example.com", restored.User().Email)
}

func TestService_LogoutClears(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.json")

	svc := NewService(NewFileStore(path))
	require.NoError(t, svc.SetAuth(testAuth()))
	require.NoError(t, svc.Logout())

	assert.False(t, svc.SignedIn())
	assert.Nil(t, svc.User())

	restored := NewService(NewFileStore(path))
	assert.False(t, restored.SignedIn())
}

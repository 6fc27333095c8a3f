package filestore

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vijayholve/scm-app-frontend/core/session"
)

func testSession() *session.Session {
	return session.New("tok", session.Profile{UserID: "3", UserName: "student", Type: session.Student, AccountID: "1"}, "STUDENT",
		[]session.Permission{{EntityName: "FEE", Actions: session.ActionSet{View: true}}},
		session.Scope{SchoolID: "1", ClassID: "2", DivisionID: "3"})
}

func TestStore(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "nested", "session")
	st, err := New(path, "s3cret")
	require.NoError(t, err)

	_, err = st.Load(ctx)
	assert.Equal(t, session.ErrNoSession, err)

	require.NoError(t, st.Save(ctx, testSession()))
	fi, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), fi.Mode().Perm())

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.NotContains(t, string(raw), "tok", "session must be sealed")

	got, err := st.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, "tok", got.AccessToken)
	assert.True(t, got.HasPermission("fee", session.ActionView))
	assert.Equal(t, session.Scope{SchoolID: "1", ClassID: "2", DivisionID: "3"}, got.Scope)

	require.NoError(t, st.Clear(ctx))
	require.NoError(t, st.Clear(ctx), "clearing twice is fine")
	_, err = st.Load(ctx)
	assert.Equal(t, session.ErrNoSession, err)
}

func TestStore_corrupt(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "session")

	st, err := New(path, "one")
	require.NoError(t, err)
	require.NoError(t, st.Save(ctx, testSession()))

	other, err := New(path, "two")
	require.NoError(t, err)
	_, err = other.Load(ctx)
	assert.True(t, errors.Is(err, session.ErrCorrupt), "wrong key: %v", err)

	require.NoError(t, os.WriteFile(path, []byte("garbage"), 0o600))
	_, err = st.Load(ctx)
	assert.True(t, errors.Is(err, session.ErrCorrupt), "garbage: %v", err)

	// the manager discards it
	m := session.NewManager(st, nil)
	require.NoError(t, m.Load(ctx))
	assert.Nil(t, m.Current())
	_, err = os.Stat(path)
	assert.True(t, os.IsNotExist(err))
}

func TestNew(t *testing.T) {
	_, err := New("", "x")
	assert.Error(t, err)
	_, err = New("p", "")
	assert.Error(t, err)
}

package session

import (
	"context"
	"encoding/json"
	"sync"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func signedToken(t *testing.T, exp time.Time) string {
	t.Helper()
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{"sub": "1", "exp": exp.Unix()})
	s, err := tok.SignedString([]byte("test-key"))
	require.NoError(t, err)
	return s
}

var teacherPerms = []Permission{
	{ID: 1, Name: "Student access", EntityName: "student", Actions: ActionSet{View: true, Edit: true}},
	{ID: 2, Name: "Attendance", EntityName: "ATTENDANCE", Actions: ActionSet{Add: true, View: true}},
	{ID: 3, Name: "Attendance delete", EntityName: "Attendance", Actions: ActionSet{Delete: true}},
}

func TestSession_HasPermission(t *testing.T) {
	s := New("t", Profile{UserID: "2", Type: "teacher"}, "TEACHER", teacherPerms, Scope{})

	tests := []struct {
		name   string
		sess   *Session
		entity string
		action Action
		want   bool
	}{
		{name: "case-insensitive entity", sess: s, entity: "STUDENT", action: ActionView, want: true},
		{name: "action not granted", sess: s, entity: "Student", action: ActionDelete},
		{name: "first row wins", sess: s, entity: "attendance", action: ActionView, want: true},
		{name: "later row ignored", sess: s, entity: "attendance", action: ActionDelete},
		{name: "unknown entity", sess: s, entity: "FEE", action: ActionView},
		{name: "unknown action", sess: s, entity: "STUDENT", action: Action("export")},
		{name: "nil session", entity: "STUDENT", action: ActionView},
		{name: "no permissions", sess: New("t", Profile{Type: Admin}, "", nil, Scope{}), entity: "TEACHER", action: ActionView},
		{
			name: "duplicate entry denies",
			sess: New("t", Profile{Type: Admin}, "ADMIN", []Permission{
				{EntityName: "TEACHER", Actions: ActionSet{View: false}},
				{EntityName: "teacher", Actions: ActionSet{View: true}},
			}, Scope{}),
			entity: "TEACHER", action: ActionView,
		},
		{
			name:   "literal session without table",
			sess:   &Session{AccessToken: "t", Permissions: teacherPerms},
			entity: "Student", action: ActionEdit, want: true,
		},
		{
			name:   "literal session first row wins",
			sess:   &Session{AccessToken: "t", Permissions: teacherPerms},
			entity: "attendance", action: ActionDelete,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.sess.HasPermission(tt.entity, tt.action); got != tt.want {
				t.Errorf("HasPermission(%s, %s) = %v, want %v", tt.entity, tt.action, got, tt.want)
			}
		})
	}
	assert.Equal(t, Teacher, s.Type())
}

func TestSession_JSON(t *testing.T) {
	s := New("t", Profile{UserID: "2", UserName: "teacher", Type: Teacher, AccountID: "1"}, "TEACHER", teacherPerms, Scope{SchoolID: "1"})
	b, err := json.Marshal(s)
	require.NoError(t, err)

	var got Session
	require.NoError(t, json.Unmarshal(b, &got))
	assert.True(t, got.HasPermission("student", ActionView))
	assert.Equal(t, s.Profile, got.Profile)
	assert.Equal(t, s.Scope, got.Scope)
}

func TestSession_ExpiresAt(t *testing.T) {
	exp := time.Now().Add(time.Hour).Truncate(time.Second)
	s := New(signedToken(t, exp), Profile{}, "", nil, Scope{})
	got, ok := s.ExpiresAt()
	require.True(t, ok)
	assert.True(t, got.Equal(exp))
	assert.False(t, s.Expired(time.Now()))
	assert.True(t, s.Expired(exp.Add(time.Second)))

	opaque := New("not-a-jwt", Profile{}, "", nil, Scope{})
	_, ok = opaque.ExpiresAt()
	assert.False(t, ok)
	assert.False(t, opaque.Expired(time.Now()))
}

func TestParse(t *testing.T) {
	assert.Equal(t, Admin, ParseUserType(" admin "))
	assert.Equal(t, Guest, ParseUserType("parent"))
	a, ok := ParseAction("VIEW")
	assert.True(t, ok)
	assert.Equal(t, ActionView, a)
	_, ok = ParseAction("export")
	assert.False(t, ok)
}

type fakeStore struct {
	mu      sync.Mutex
	saved   *Session
	loadErr error
	cleared int
}

func (f *fakeStore) Save(_ context.Context, s *Session) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.saved = s
	return nil
}

func (f *fakeStore) Load(context.Context) (*Session, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.loadErr != nil {
		return nil, f.loadErr
	}
	if f.saved == nil {
		return nil, ErrNoSession
	}
	return f.saved, nil
}

func (f *fakeStore) Clear(context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.saved = nil
	f.cleared++
	return nil
}

func TestManager(t *testing.T) {
	ctx := context.Background()
	store := &fakeStore{}
	m := NewManager(store, nil)

	require.NoError(t, m.Load(ctx))
	assert.Nil(t, m.Current())
	assert.Equal(t, "", m.Token())

	s := New(signedToken(t, time.Now().Add(time.Hour)), Profile{UserID: "1", Type: Admin}, "ADMIN", nil, Scope{})
	require.NoError(t, m.Login(ctx, s))
	assert.Same(t, s, m.Current())
	assert.Same(t, s, store.saved)

	// a fresh manager restores the stored session
	m2 := NewManager(store, nil)
	require.NoError(t, m2.Load(ctx))
	assert.Equal(t, s.AccessToken, m2.Token())

	require.NoError(t, m2.Expire(ctx))
	assert.Nil(t, m2.Current())
	_, err := store.Load(ctx)
	assert.Equal(t, ErrNoSession, err)

	assert.Error(t, m.Login(ctx, &Session{}), "no token")
}

func TestManager_LoadDiscards(t *testing.T) {
	ctx := context.Background()

	t.Run("corrupt", func(t *testing.T) {
		store := &fakeStore{loadErr: ErrCorrupt}
		m := NewManager(store, nil)
		require.NoError(t, m.Load(ctx))
		assert.Nil(t, m.Current())
		assert.Equal(t, 1, store.cleared)
	})

	t.Run("expired", func(t *testing.T) {
		store := &fakeStore{saved: New(signedToken(t, time.Now().Add(-time.Minute)), Profile{}, "", nil, Scope{})}
		m := NewManager(store, nil)
		require.NoError(t, m.Load(ctx))
		assert.Nil(t, m.Current())
		assert.Nil(t, store.saved)
	})
}

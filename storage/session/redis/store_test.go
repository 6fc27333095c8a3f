package redisstore

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redis/v8"
	"github.com/golang-jwt/jwt/v5"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vijayholve/scm-app-frontend/core/session"
)

func startServer(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return mr, client
}

// freezeClock pins nowFunc to the current second.
func freezeClock(t *testing.T) time.Time {
	now := time.Now().Truncate(time.Second)
	nowFunc = func() time.Time { return now }
	t.Cleanup(func() { nowFunc = time.Now })
	return now
}

func token(t *testing.T, claims jwt.MapClaims) string {
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	s, err := tok.SignedString([]byte("k"))
	require.NoError(t, err)
	return s
}

func newSession(t *testing.T, claims jwt.MapClaims) *session.Session {
	return session.New(token(t, claims), session.Profile{UserID: "2", Type: session.Teacher}, "TEACHER", nil, session.Scope{})
}

func TestStore_Save(t *testing.T) {
	now := freezeClock(t)

	tests := []struct {
		name    string
		claims  jwt.MapClaims
		wantTTL time.Duration
		stored  bool
	}{
		{name: "ttl from exp", claims: jwt.MapClaims{"exp": now.Add(time.Hour).Unix()}, wantTTL: time.Hour, stored: true},
		{name: "no exp claim", claims: jwt.MapClaims{"sub": "2"}, stored: true},
		{name: "expired token", claims: jwt.MapClaims{"exp": now.Add(-time.Minute).Unix()}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := context.Background()
			mr, client := startServer(t)
			st := New(client, "scm-test:", "")
			assert.Equal(t, "scm-test:session:default", st.Key())

			// an expired save also clears what was stored before
			require.NoError(t, mr.Set(st.Key(), "{}"))

			require.NoError(t, st.Save(ctx, newSession(t, tt.claims)))
			assert.Equal(t, tt.stored, mr.Exists(st.Key()))
			assert.Equal(t, tt.wantTTL, mr.TTL(st.Key()))
		})
	}
}

func TestStore_Load(t *testing.T) {
	ctx := context.Background()
	now := freezeClock(t)
	mr, client := startServer(t)
	st := New(client, "scm-test:", "cli")

	_, err := st.Load(ctx)
	assert.Equal(t, session.ErrNoSession, err, "missing key")

	sess := newSession(t, jwt.MapClaims{"exp": now.Add(time.Hour).Unix()})
	require.NoError(t, st.Save(ctx, sess))
	got, err := st.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, sess.AccessToken, got.AccessToken)
	assert.Equal(t, session.Teacher, got.Type())

	mr.FastForward(time.Hour + time.Second)
	_, err = st.Load(ctx)
	assert.Equal(t, session.ErrNoSession, err, "expired key")

	require.NoError(t, mr.Set(st.Key(), "{not json"))
	_, err = st.Load(ctx)
	assert.Equal(t, session.ErrCorrupt, errors.Cause(err))

	require.NoError(t, st.Clear(ctx))
	assert.False(t, mr.Exists(st.Key()))
	_, err = st.Load(ctx)
	assert.Equal(t, session.ErrNoSession, err)
}

func TestStore_serverError(t *testing.T) {
	ctx := context.Background()
	mr, client := startServer(t)
	st := New(client, "scm-test:", "cli")
	mr.SetError("ERR server unavailable")

	_, err := st.Load(ctx)
	require.Error(t, err)
	assert.NotEqual(t, session.ErrNoSession, err)
	assert.Contains(t, err.Error(), "redis get")

	err = st.Save(ctx, newSession(t, jwt.MapClaims{"sub": "2"}))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "redis set")
	err = st.Clear(ctx)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "redis del")
}

// Runs only against a real server: SCM_TEST_REDIS_ADDR=localhost:6379
func TestStore_live(t *testing.T) {
	addr := os.Getenv("SCM_TEST_REDIS_ADDR")
	if addr == "" {
		t.Skip("SCM_TEST_REDIS_ADDR not set")
	}
	ctx := context.Background()
	client := redis.NewClient(&redis.Options{Addr: addr, DB: 15})
	if err := client.Ping(ctx).Err(); err != nil {
		t.Skipf("redis unavailable: %v", err)
	}
	t.Cleanup(func() { _ = client.Close() })
	st := New(client, "scm-test:", t.Name())
	t.Cleanup(func() { _ = st.Clear(ctx) })

	sess := newSession(t, jwt.MapClaims{"exp": time.Now().Add(time.Hour).Unix()})
	require.NoError(t, st.Save(ctx, sess))
	ttl, err := client.TTL(ctx, st.Key()).Result()
	require.NoError(t, err)
	assert.True(t, ttl > 50*time.Minute && ttl <= time.Hour, "ttl = %v", ttl)

	got, err := st.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, sess.AccessToken, got.AccessToken)
}

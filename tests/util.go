// Package testutil starts the mock backend for client side tests.
package testutil

import (
	"context"
	"net/http/httptest"
	"testing"

	echoapi "github.com/vijayholve/scm-app-frontend/apps/mockapi/echo"
	inmemdb "github.com/vijayholve/scm-app-frontend/apps/mockapi/store"
	"github.com/vijayholve/scm-app-frontend/core"
	"github.com/vijayholve/scm-app-frontend/core/session"
	"github.com/vijayholve/scm-app-frontend/services/api"
	"github.com/vijayholve/scm-app-frontend/storage/session/memory"
)

// Backend is a seeded mock API behind an httptest server.
type Backend struct {
	Server *httptest.Server
	DB     *inmemdb.DB
	Conf   *core.Config
}

func StartBackend(t *testing.T) *Backend {
	t.Helper()
	conf, err := core.LoadConfig("TEST", t.TempDir())
	if err != nil {
		t.Fatalf("LoadConfig() failed: %v", err)
	}
	db := inmemdb.Open()
	if err = inmemdb.Seed(db); err != nil {
		t.Fatalf("Seed() failed: %v", err)
	}
	app := echoapi.NewServer(echoapi.ServerDeps{Conf: conf, DB: db})
	srv := httptest.NewServer(app)
	t.Cleanup(func() {
		srv.Close()
		_ = app.Close()
	})

	conf.API.BaseURL = srv.URL
	conf.Session.Store = "memory"
	return &Backend{Server: srv, DB: db, Conf: conf}
}

// NewClient returns a client on the backend with an empty in-memory session.
func (b *Backend) NewClient(t *testing.T) (*api.Client, *session.Manager) {
	t.Helper()
	mgr := session.NewManager(memstore.New(), nil)
	if err := mgr.Load(context.Background()); err != nil {
		t.Fatalf("Load() failed: %v", err)
	}
	return api.New(b.Conf, mgr), mgr
}

// Login signs a seed user in and makes it the manager's session.
func Login(t *testing.T, c *api.Client, mgr *session.Manager, userName, userType string) *session.Session {
	t.Helper()
	ctx := context.Background()
	sess, err := c.Login(ctx, api.LoginRequest{
		UserName:  userName,
		Password:  inmemdb.SeedPassword,
		AccountID: inmemdb.SeedAccountID,
		Type:      userType,
	})
	if err != nil {
		t.Fatalf("Login(%s) failed: %v", userName, err)
	}
	if err = mgr.Login(ctx, sess); err != nil {
		t.Fatalf("mgr.Login() failed: %v", err)
	}
	return sess
}

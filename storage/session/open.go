package sessionstore

import (
	"context"
	"io"
	"os/user"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/pkg/errors"

	"github.com/vijayholve/scm-app-frontend/core"
	"github.com/vijayholve/scm-app-frontend/core/session"
	"github.com/vijayholve/scm-app-frontend/storage/session/file"
	"github.com/vijayholve/scm-app-frontend/storage/session/memory"
	"github.com/vijayholve/scm-app-frontend/storage/session/redis"
)

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

// Open returns the store selected by session.store, and a closer for its resources.
func Open(ctx context.Context, conf *core.Config) (session.Store, io.Closer, error) {
	switch conf.Session.Store {
	case "memory":
		return memstore.New(), nopCloser{}, nil
	case "", "file":
		st, err := filestore.New(conf.Session.Path, conf.Session.Secret)
		if err != nil {
			return nil, nil, err
		}
		return st, nopCloser{}, nil
	case "redis":
		client := redis.NewClient(&redis.Options{Addr: conf.Redis.Addr, DB: conf.Redis.DB})
		pctx, cancel := context.WithTimeout(ctx, 5*time.Second)
		defer cancel()
		if err := client.Ping(pctx).Err(); err != nil {
			_ = client.Close()
			return nil, nil, errors.Wrap(err, "redis ping")
		}
		return redisstore.New(client, conf.Redis.Prefix, localUser()), client, nil
	}
	return nil, nil, core.NewArgumentError("unknown session store " + conf.Session.Store)
}

func localUser() string {
	if u, err := user.Current(); err == nil {
		return u.Username
	}
	return ""
}

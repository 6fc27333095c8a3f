// Package redisstore shares the session through redis, e.g. between a CLI and a bot.
package redisstore

import (
	"context"
	"encoding/json"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/pkg/errors"

	"github.com/vijayholve/scm-app-frontend/core/session"
)

type Store struct {
	client *redis.Client
	key    string
}

var _ session.Store = (*Store)(nil)

var nowFunc = time.Now // mockable

// New stores the session under "<prefix>session:<name>".
func New(client *redis.Client, prefix, name string) *Store {
	if name == "" {
		name = "default"
	}
	return &Store{client: client, key: prefix + "session:" + name}
}

func (s *Store) Key() string { return s.key }

// Save expires the key with the token when its exp claim is readable.
func (s *Store) Save(ctx context.Context, sess *session.Session) error {
	data, err := json.Marshal(sess)
	if err != nil {
		return errors.Wrap(err, "encoding session")
	}
	var ttl time.Duration
	if exp, ok := sess.ExpiresAt(); ok {
		ttl = exp.Sub(nowFunc())
		if ttl <= 0 {
			return s.Clear(ctx)
		}
	}
	return errors.Wrap(s.client.Set(ctx, s.key, data, ttl).Err(), "redis set")
}

func (s *Store) Load(ctx context.Context) (*session.Session, error) {
	data, err := s.client.Get(ctx, s.key).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, session.ErrNoSession
		}
		return nil, errors.Wrap(err, "redis get")
	}
	var sess session.Session
	if err = json.Unmarshal(data, &sess); err != nil {
		return nil, errors.Wrap(session.ErrCorrupt, err.Error())
	}
	return &sess, nil
}

func (s *Store) Clear(ctx context.Context) error {
	return errors.Wrap(s.client.Del(ctx, s.key).Err(), "redis del")
}

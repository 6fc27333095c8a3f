// Package filestore keeps the session in an AES-GCM sealed file.
package filestore

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"sync"

	"github.com/pkg/errors"

	"github.com/vijayholve/scm-app-frontend/core/session"
)

type Store struct {
	mu   sync.Mutex
	path string
	key  []byte
}

var _ session.Store = (*Store)(nil)

// New returns a store at path whose key is derived from secret.
func New(path, secret string) (*Store, error) {
	if path == "" {
		return nil, errors.New("filestore: empty path")
	}
	if secret == "" {
		return nil, errors.New("filestore: empty secret")
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, errors.Wrap(err, "resolving session path")
	}
	key, err := deriveKey([]byte(secret), []byte(abs))
	if err != nil {
		return nil, err
	}
	return &Store{path: abs, key: key}, nil
}

func (s *Store) Path() string { return s.path }

// Save replaces the file atomically.
func (s *Store) Save(_ context.Context, sess *session.Session) error {
	plain, err := json.Marshal(sess)
	if err != nil {
		return errors.Wrap(err, "encoding session")
	}
	blob, err := seal(s.key, plain)
	if err != nil {
		return errors.Wrap(err, "sealing session")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	dir := filepath.Dir(s.path)
	if err = os.MkdirAll(dir, 0o700); err != nil {
		return errors.Wrap(err, "creating session dir")
	}
	tmp, err := os.CreateTemp(dir, ".session-*")
	if err != nil {
		return errors.Wrap(err, "creating temp file")
	}
	defer func() { _ = os.Remove(tmp.Name()) }()

	if err = tmp.Chmod(0o600); err != nil {
		_ = tmp.Close()
		return errors.Wrap(err, "chmod temp file")
	}
	if _, err = tmp.Write(blob); err != nil {
		_ = tmp.Close()
		return errors.Wrap(err, "writing session")
	}
	if err = tmp.Close(); err != nil {
		return errors.Wrap(err, "closing temp file")
	}
	return errors.Wrap(os.Rename(tmp.Name(), s.path), "replacing session file")
}

func (s *Store) Load(context.Context) (*session.Session, error) {
	s.mu.Lock()
	blob, err := os.ReadFile(s.path)
	s.mu.Unlock()
	if err != nil {
		if os.IsNotExist(err) {
			return nil, session.ErrNoSession
		}
		return nil, errors.Wrap(err, "reading session")
	}

	plain, err := open(s.key, blob)
	if err != nil {
		return nil, errors.Wrap(session.ErrCorrupt, err.Error())
	}
	var sess session.Session
	if err = json.Unmarshal(plain, &sess); err != nil {
		return nil, errors.Wrap(session.ErrCorrupt, err.Error())
	}
	return &sess, nil
}

func (s *Store) Clear(context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := os.Remove(s.path); err != nil && !os.IsNotExist(err) {
		return errors.Wrap(err, "removing session")
	}
	return nil
}

package memstore

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/pkg/errors"

	"github.com/vijayholve/scm-app-frontend/core/session"
)

// Store keeps the encoded session in memory, so a loaded session never aliases a saved one.
type Store struct {
	mutex sync.RWMutex
	data  []byte
}

var _ session.Store = (*Store)(nil)

func New() *Store {
	return &Store{}
}

func (s *Store) Save(_ context.Context, sess *session.Session) error {
	b, err := json.Marshal(sess)
	if err != nil {
		return errors.Wrap(err, "encoding session")
	}
	s.mutex.Lock()
	s.data = b
	s.mutex.Unlock()
	return nil
}

func (s *Store) Load(context.Context) (*session.Session, error) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()
	if s.data == nil {
		return nil, session.ErrNoSession
	}
	var sess session.Session
	if err := json.Unmarshal(s.data, &sess); err != nil {
		return nil, errors.Wrap(session.ErrCorrupt, err.Error())
	}
	return &sess, nil
}

func (s *Store) Clear(context.Context) error {
	s.mutex.Lock()
	s.data = nil
	s.mutex.Unlock()
	return nil
}

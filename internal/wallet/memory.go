package wallet

import (
	"context"
	"sync"
	"time"
)

type memEntry struct {
	sess    Session
	expires time.Time
}

// Memory is the in-process store used for dev and tests.
type Memory struct {
	mu  sync.RWMutex
	ttl time.Duration
	m   map[string]memEntry
	now func() time.Time
}

func NewMemory(ttl time.Duration) *Memory {
	return &Memory{ttl: ttl, m: map[string]memEntry{}, now: time.Now}
}

func memKey(tenantID, id string) string { return tenantID + "/" + id }

func (s *Memory) Put(_ context.Context, sess *Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.m[memKey(sess.TenantID, sess.ID)] = memEntry{sess: *sess, expires: s.now().Add(s.ttl)}
	return nil
}

func (s *Memory) Get(_ context.Context, tenantID, id string) (*Session, error) {
	s.mu.RLock()
	e, ok := s.m[memKey(tenantID, id)]
	s.mu.RUnlock()
	if !ok || s.now().After(e.expires) {
		return nil, ErrNotFound
	}
	out := e.sess
	return &out, nil
}

// Update mutates under the write lock, so reads of the current balance and
// the write of the new one are one atomic step.
func (s *Memory) Update(_ context.Context, tenantID, id string, fn func(*Session) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.m[memKey(tenantID, id)]
	if !ok || s.now().After(e.expires) {
		return ErrNotFound
	}
	sess := e.sess
	if err := fn(&sess); err != nil {
		return err
	}
	s.m[memKey(tenantID, id)] = memEntry{sess: sess, expires: s.now().Add(s.ttl)}
	return nil
}

func (s *Memory) Delete(_ context.Context, tenantID, id string) error {
	s.mu.Lock()
	delete(s.m, memKey(tenantID, id))
	s.mu.Unlock()
	return nil
}

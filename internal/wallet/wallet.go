// Package wallet tracks player wallet sessions. Sessions are short-lived
// per-player balances a tenant opens for a play session; monetary values are
// exact decimals end to end.
package wallet

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

var (
	ErrNotFound          = errors.New("wallet session not found")
	ErrClosed            = errors.New("wallet session closed")
	ErrInsufficientFunds = errors.New("insufficient funds")
)

// Session is one open wallet session. TenantID scopes every lookup; a
// session is never visible outside the tenant that opened it.
type Session struct {
	ID       string          `json:"id"`
	TenantID string          `json:"tenant_id"`
	PlayerID string          `json:"player_id"`
	Currency string          `json:"currency"`
	Balance  decimal.Decimal `json:"balance"`
	OpenedAt time.Time       `json:"opened_at"`
	ClosedAt *time.Time      `json:"closed_at,omitempty"`
}

func (s *Session) Open() bool { return s.ClosedAt == nil }

// Store persists sessions with a TTL so abandoned sessions age out.
type Store interface {
	Put(ctx context.Context, s *Session) error
	// Get returns ErrNotFound for unknown or expired ids and for ids owned
	// by another tenant.
	Get(ctx context.Context, tenantID, id string) (*Session, error)
	// Update applies fn to the stored session and persists the result as
	// one serialized step per session: no other Update of the same session
	// may interleave between the read and the write. An fn error aborts
	// without writing.
	Update(ctx context.Context, tenantID, id string, fn func(*Session) error) error
	Delete(ctx context.Context, tenantID, id string) error
}

type Config struct {
	Driver   string        `json:",default=memory,options=memory|redis"`
	RedisURL string        `json:",optional"`
	TTL      time.Duration `json:",default=4h"`
}

// New builds the configured store.
func New(c Config) (Store, error) {
	if c.TTL <= 0 {
		c.TTL = 4 * time.Hour
	}
	switch strings.ToLower(c.Driver) {
	case "memory", "":
		return NewMemory(c.TTL), nil
	case "redis":
		return NewRedis(c.RedisURL, c.TTL)
	}
	return nil, errors.New("unknown wallet store driver: " + c.Driver)
}

// Service applies balance movements on top of a Store.
type Service struct {
	store Store
}

func NewService(store Store) *Service { return &Service{store: store} }

// OpenSession starts a session with an initial balance.
func (s *Service) OpenSession(ctx context.Context, sess *Session) error {
	if sess.TenantID == "" || sess.PlayerID == "" {
		return errors.New("tenant and player required")
	}
	if sess.Balance.IsNegative() {
		return errors.New("negative opening balance")
	}
	if sess.OpenedAt.IsZero() {
		sess.OpenedAt = time.Now().UTC()
	}
	return s.store.Put(ctx, sess)
}

func (s *Service) GetSession(ctx context.Context, tenantID, id string) (*Session, error) {
	return s.store.Get(ctx, tenantID, id)
}

// Adjust applies a signed delta to the session balance. Debits that would
// take the balance below zero are rejected without changing state. The
// read-check-write runs inside Store.Update, so concurrent adjusts of the
// same session never lose a delta and never land on a closed session.
func (s *Service) Adjust(ctx context.Context, tenantID, id string, delta decimal.Decimal) (*Session, error) {
	var out Session
	err := s.store.Update(ctx, tenantID, id, func(sess *Session) error {
		if !sess.Open() {
			return ErrClosed
		}
		next := sess.Balance.Add(delta)
		if next.IsNegative() {
			return ErrInsufficientFunds
		}
		sess.Balance = next
		out = *sess
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// CloseSession marks the session closed and returns the final balance. The
// record stays readable until its TTL expires.
func (s *Service) CloseSession(ctx context.Context, tenantID, id string) (*Session, error) {
	var out Session
	err := s.store.Update(ctx, tenantID, id, func(sess *Session) error {
		if !sess.Open() {
			return ErrClosed
		}
		now := time.Now().UTC()
		sess.ClosedAt = &now
		out = *sess
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

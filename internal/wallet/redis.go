package wallet

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	redis "github.com/redis/go-redis/v9"
)

// Redis stores sessions as JSON values with a per-key TTL. The tenant id is
// part of the key, so cross-tenant reads cannot match.
type Redis struct {
	cli *redis.Client
	ttl time.Duration
}

func NewRedis(url string, ttl time.Duration) (*Redis, error) {
	opt, err := redis.ParseURL(url)
	if err != nil {
		return nil, err
	}
	return &Redis{cli: redis.NewClient(opt), ttl: ttl}, nil
}

func redisKey(tenantID, id string) string {
	return "wallet:session:" + tenantID + ":" + id
}

func (s *Redis) Put(ctx context.Context, sess *Session) error {
	b, err := json.Marshal(sess)
	if err != nil {
		return err
	}
	return s.cli.Set(ctx, redisKey(sess.TenantID, sess.ID), b, s.ttl).Err()
}

func (s *Redis) Get(ctx context.Context, tenantID, id string) (*Session, error) {
	b, err := s.cli.Get(ctx, redisKey(tenantID, id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	var sess Session
	if err := json.Unmarshal(b, &sess); err != nil {
		return nil, err
	}
	return &sess, nil
}

// updateRetries bounds how often a contended WATCH transaction is retried
// before the update is reported as failed.
const updateRetries = 16

// Update runs the read-modify-write inside a WATCH transaction: if another
// writer touches the key between the read and the MULTI/EXEC, the EXEC
// fails and the whole step is retried against the fresh value.
func (s *Redis) Update(ctx context.Context, tenantID, id string, fn func(*Session) error) error {
	key := redisKey(tenantID, id)
	txf := func(tx *redis.Tx) error {
		b, err := tx.Get(ctx, key).Bytes()
		if errors.Is(err, redis.Nil) {
			return ErrNotFound
		}
		if err != nil {
			return err
		}
		var sess Session
		if err := json.Unmarshal(b, &sess); err != nil {
			return err
		}
		if err := fn(&sess); err != nil {
			return err
		}
		nb, err := json.Marshal(&sess)
		if err != nil {
			return err
		}
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, key, nb, s.ttl)
			return nil
		})
		return err
	}
	for i := 0; i < updateRetries; i++ {
		err := s.cli.Watch(ctx, txf, key)
		if !errors.Is(err, redis.TxFailedErr) {
			return err
		}
	}
	return errors.New("wallet session update kept losing the key watch")
}

func (s *Redis) Delete(ctx context.Context, tenantID, id string) error {
	return s.cli.Del(ctx, redisKey(tenantID, id)).Err()
}

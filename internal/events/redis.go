package events

import (
	"context"
	"encoding/json"
	"time"

	redis "github.com/redis/go-redis/v9"
	"github.com/zeromicro/go-zero/core/logx"
)

type redisQueue struct {
	cli    *redis.Client
	stream string
	maxLen int64
}

// NewRedis publishes job events to a capped Redis Stream.
func NewRedis(url, stream string, maxLen int64) Queue {
	opt, err := redis.ParseURL(url)
	if err != nil {
		logx.Errorf("events: redis parse url: %v", err)
		return NewNoop()
	}
	if stream == "" {
		stream = "reports:jobs"
	}
	return &redisQueue{cli: redis.NewClient(opt), stream: stream, maxLen: maxLen}
}

func (q *redisQueue) PublishJob(evt Event) error {
	// single JSON field keeps the stream schema flexible
	b, _ := json.Marshal(evt)
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	args := &redis.XAddArgs{Stream: q.stream, Values: map[string]any{"data": string(b)}}
	if q.maxLen > 0 {
		args.MaxLen = q.maxLen
		args.Approx = true
	}
	return q.cli.XAdd(ctx, args).Err()
}

func (q *redisQueue) Close() error { return q.cli.Close() }

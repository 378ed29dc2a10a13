package events

import (
	"strings"

	"github.com/zeromicro/go-zero/core/logx"
)

type Config struct {
	Driver  string   `json:",default=noop,options=noop|kafka|redis"`
	Brokers []string `json:",optional"`
	Topic   string   `json:",optional"`
	// Redis Stream settings.
	RedisURL string `json:",optional"`
	Stream   string `json:",optional"`
	MaxLen   int64  `json:",default=1000000"`
}

// New builds a Queue from service config. Unknown drivers fall back to noop
// so a misconfigured broker never blocks report generation.
func New(c Config) Queue {
	switch strings.ToLower(c.Driver) {
	case "kafka":
		return NewKafka(c.Brokers, c.Topic)
	case "redis":
		return NewRedis(c.RedisURL, c.Stream, c.MaxLen)
	case "noop", "":
		return NewNoop()
	default:
		logx.Errorf("events: unsupported driver %q, using noop", c.Driver)
		return NewNoop()
	}
}

// Package events publishes job lifecycle notifications. Publishing is fire
// and forget; a broker outage must never fail the pipeline that emits.
package events

import "time"

// Event is one job lifecycle notification.
type Event struct {
	JobID    string    `json:"job_id"`
	TenantID string    `json:"tenant_id"`
	TypeID   string    `json:"type_id"`
	Status   string    `json:"status"`
	Detail   string    `json:"detail,omitempty"`
	At       time.Time `json:"at"`
}

// Queue publishes lifecycle events. Implementations are backed by Kafka,
// Redis Streams, or a no-op for dev.
type Queue interface {
	PublishJob(evt Event) error
	Close() error
}

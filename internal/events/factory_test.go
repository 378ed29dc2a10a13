package events

import (
	"testing"
	"time"
)

func TestNew_FallsBackToNoop(t *testing.T) {
	for _, driver := range []string{"", "noop", "rabbitmq"} {
		q := New(Config{Driver: driver})
		if _, ok := q.(*Noop); !ok {
			t.Fatalf("driver %q: expected noop queue, got %T", driver, q)
		}
		if err := q.PublishJob(Event{JobID: "j1"}); err != nil {
			t.Fatalf("noop publish: %v", err)
		}
	}
}

func TestNew_KafkaWithoutBrokersIsNoop(t *testing.T) {
	q := New(Config{Driver: "kafka"})
	if _, ok := q.(*Noop); !ok {
		t.Fatalf("expected noop queue, got %T", q)
	}
}

func TestCapture_RecordsInOrder(t *testing.T) {
	c := NewCapture()
	_ = c.PublishJob(Event{JobID: "a", Status: "pending", At: time.Now()})
	_ = c.PublishJob(Event{JobID: "a", Status: "processing"})
	_ = c.PublishJob(Event{JobID: "a", Status: "completed"})
	got := c.Events()
	if len(got) != 3 {
		t.Fatalf("expected 3 events, got %d", len(got))
	}
	if got[0].Status != "pending" || got[2].Status != "completed" {
		t.Fatalf("order lost: %+v", got)
	}
}

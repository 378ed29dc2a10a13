package events

import "sync"

// Capture records published events in memory. Used by tests and by the CLI
// dry-run mode.
type Capture struct {
	mu   sync.Mutex
	evts []Event
}

func NewCapture() *Capture { return &Capture{} }

func (c *Capture) PublishJob(evt Event) error {
	c.mu.Lock()
	c.evts = append(c.evts, evt)
	c.mu.Unlock()
	return nil
}

func (c *Capture) Close() error { return nil }

func (c *Capture) Events() []Event {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]Event, len(c.evts))
	copy(out, c.evts)
	return out
}

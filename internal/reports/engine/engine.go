// Package engine runs the report generation pipeline: the request controller
// that creates jobs, the in-process work queue feeding a worker pool, and the
// retrieval gateway that lists, fetches and streams finished artifacts.
package engine

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/zeromicro/go-zero/core/logx"

	"github.com/pitbossdev/pitboss/internal/events"
	"github.com/pitbossdev/pitboss/internal/objstore"
	"github.com/pitbossdev/pitboss/internal/repo/gorm/reports"
	"github.com/pitbossdev/pitboss/internal/reports/registry"
)

// Generator produces the artifact for a claimed job and returns its storage
// location.
type Generator interface {
	Generate(ctx context.Context, job *reports.Job, typ *registry.Type) (string, error)
}

type Config struct {
	Workers       int           `json:",default=4"`
	QueueSize     int           `json:",default=64"`
	SweepInterval time.Duration `json:",default=30s"`
}

// Engine owns the queue and workers. Handoff from request to worker is an
// explicit enqueue; a full queue leaves the job pending for the next sweep.
type Engine struct {
	cfg    Config
	jobs   *reports.Repo
	reg    *registry.Registry
	store  objstore.Store
	gen    Generator
	queue  chan string
	events events.Queue

	wg     sync.WaitGroup
	cancel context.CancelFunc
	once   sync.Once

	claimed   atomic.Int64
	completed atomic.Int64
	failed    atomic.Int64
}

func New(cfg Config, jobs *reports.Repo, reg *registry.Registry, store objstore.Store, gen Generator, q events.Queue) *Engine {
	if cfg.Workers < 1 {
		cfg.Workers = 4
	}
	if cfg.QueueSize < 1 {
		cfg.QueueSize = 64
	}
	if q == nil {
		q = events.NewNoop()
	}
	return &Engine{
		cfg:    cfg,
		jobs:   jobs,
		reg:    reg,
		store:  store,
		gen:    gen,
		queue:  make(chan string, cfg.QueueSize),
		events: q,
	}
}

// Start launches the worker pool and the pending-job sweep.
func (e *Engine) Start() {
	ctx, cancel := context.WithCancel(context.Background())
	e.cancel = cancel
	for i := 0; i < e.cfg.Workers; i++ {
		e.wg.Add(1)
		go func() {
			defer e.wg.Done()
			for {
				select {
				case <-ctx.Done():
					return
				case id := <-e.queue:
					e.process(ctx, id)
				}
			}
		}()
	}
	if e.cfg.SweepInterval > 0 {
		e.wg.Add(1)
		go e.sweep(ctx)
	}
	logx.Infof("report engine started: workers=%d queue=%d", e.cfg.Workers, e.cfg.QueueSize)
}

// Stop cancels the workers and waits for in-flight jobs to finish their
// current step.
func (e *Engine) Stop() {
	e.once.Do(func() {
		if e.cancel != nil {
			e.cancel()
		}
		e.wg.Wait()
	})
}

// sweep re-enqueues pending jobs that missed the queue, either because it was
// full at request time or because the process restarted.
func (e *Engine) sweep(ctx context.Context) {
	defer e.wg.Done()
	t := time.NewTicker(e.cfg.SweepInterval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			ids, err := e.jobs.PendingIDs(ctx, e.cfg.QueueSize)
			if err != nil {
				logx.Errorf("pending sweep: %v", err)
				continue
			}
			for _, id := range ids {
				if !e.tryEnqueue(id) {
					break
				}
			}
		}
	}
}

// tryEnqueue never blocks the caller. Claiming is what dedupes: a job id
// enqueued twice is claimed once, the loser no-ops.
func (e *Engine) tryEnqueue(id string) bool {
	select {
	case e.queue <- id:
		return true
	default:
		return false
	}
}

// Stats is a point-in-time snapshot of pipeline counters.
type Stats struct {
	Claimed    int64 `json:"claimed"`
	Completed  int64 `json:"completed"`
	Failed     int64 `json:"failed"`
	QueueDepth int   `json:"queue_depth"`
}

func (e *Engine) Snapshot() Stats {
	return Stats{
		Claimed:    e.claimed.Load(),
		Completed:  e.completed.Load(),
		Failed:     e.failed.Load(),
		QueueDepth: len(e.queue),
	}
}

func (e *Engine) publish(job *reports.Job, detail string) {
	evt := events.Event{
		JobID:    job.ID,
		TenantID: job.TenantID,
		TypeID:   job.TypeID,
		Status:   job.Status,
		Detail:   detail,
		At:       time.Now().UTC(),
	}
	if err := e.events.PublishJob(evt); err != nil {
		logx.Errorf("publish job event %s/%s: %v", job.ID, job.Status, err)
	}
}

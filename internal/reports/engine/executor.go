package engine

import (
	"context"
	"fmt"
	"strings"

	"github.com/zeromicro/go-zero/core/logx"

	"github.com/pitbossdev/pitboss/internal/repo/gorm/reports"
)

// process drives one job through claim, generate and terminal write. Errors
// end in the job record; nothing propagates back to the request that created
// the job.
func (e *Engine) process(ctx context.Context, id string) {
	claimed, err := e.jobs.ClaimPending(ctx, id)
	if err != nil {
		logx.Errorf("claim job %s: %v", id, err)
		return
	}
	if !claimed {
		// lost the race or the job already finished
		return
	}
	e.claimed.Add(1)
	job, err := e.jobs.Get(ctx, id)
	if err != nil {
		logx.Errorf("load claimed job %s: %v", id, err)
		return
	}
	e.publish(job, "")

	loc, genErr := e.run(ctx, job)
	if genErr != nil {
		detail := sanitizeDetail(genErr)
		if err := e.jobs.MarkFailed(ctx, id, detail); err != nil {
			logx.Errorf("mark job %s failed: %v", id, err)
			return
		}
		e.failed.Add(1)
		job.Status = reports.StatusFailed
		e.publish(job, detail)
		logx.Errorf("report job %s (%s) failed: %v", id, job.TypeID, genErr)
		return
	}
	if err := e.jobs.MarkCompleted(ctx, id, loc); err != nil {
		logx.Errorf("mark job %s completed: %v", id, err)
		return
	}
	e.completed.Add(1)
	job.Status = reports.StatusCompleted
	job.ResultLocation = loc
	e.publish(job, "")
	logx.Infof("report job %s (%s) completed: %s", id, job.TypeID, loc)
}

// run resolves the type and invokes the generator. A generator panic becomes
// a failed job, not a dead worker.
func (e *Engine) run(ctx context.Context, job *reports.Job) (loc string, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("generator panic: %v", r)
		}
	}()
	typ, ok := e.reg.Get(job.TypeID)
	if !ok {
		return "", fmt.Errorf("unknown report type %s", job.TypeID)
	}
	return e.gen.Generate(ctx, job, typ)
}

// sanitizeDetail flattens a generation error to a single line suitable for a
// polling client. Length is bounded again at the persistence layer.
func sanitizeDetail(err error) string {
	s := strings.Join(strings.Fields(err.Error()), " ")
	if s == "" {
		s = "generation failed"
	}
	return s
}

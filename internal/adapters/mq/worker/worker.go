// Package worker drains pending log-store writes off the queue.
package worker

import (
	"context"
	"runtime"
	"strconv"
	"sync"
	"time"

	"github.com/hireloop/evalcore/internal/adapters/mq/queue"
	"github.com/hireloop/evalcore/internal/domain/model"
	"github.com/hireloop/evalcore/pkg/logger"
	"github.com/hireloop/evalcore/pkg/metrics"
)

// Writer is the slice of the log store the workers need.
type Writer interface {
	PutInteraction(ctx context.Context, in model.Interaction) error
	PutOutcome(ctx context.Context, out model.Outcome) error
}

// Pool runs a fixed set of persistence workers over a shared queue.
type Pool struct {
	workers int
	queue   queue.Queue
	writer  Writer
	log     logger.Logger
	wg      sync.WaitGroup
}

// NewPool creates a worker pool. A non-positive worker count falls back
// to the CPU count.
func NewPool(workers int, q queue.Queue, w Writer, opts ...Option) *Pool {
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	p := &Pool{
		workers: workers,
		queue:   q,
		writer:  w,
	}
	for _, opt := range opts {
		opt(p)
	}
	if p.log == nil {
		p.log = logger.Named("worker")
	}
	return p
}

// Start launches the workers. They exit when the queue closes or ctx is
// canceled.
func (p *Pool) Start(ctx context.Context) {
	metrics.UpdateWorkerCount(p.workers)
	for i := 0; i < p.workers; i++ {
		p.wg.Add(1)
		go p.run(ctx, strconv.Itoa(i))
	}
}

// Wait blocks until every worker has exited. Close the queue first so
// the buffered jobs drain.
func (p *Pool) Wait() {
	p.wg.Wait()
}

func (p *Pool) run(ctx context.Context, name string) {
	defer p.wg.Done()
	jobs := p.queue.Dequeue(ctx)
	for {
		select {
		case <-ctx.Done():
			return
		case job, ok := <-jobs:
			if !ok {
				return
			}
			metrics.RecordQueueDequeue()
			p.persist(ctx, name, job)
		}
	}
}

func (p *Pool) persist(ctx context.Context, name string, job queue.Job) {
	start := time.Now()

	var err error
	switch {
	case job.Interaction != nil:
		err = p.writer.PutInteraction(ctx, *job.Interaction)
	case job.Outcome != nil:
		err = p.writer.PutOutcome(ctx, *job.Outcome)
	default:
		return
	}

	if err != nil {
		p.log.Error(ctx, "failed to persist record",
			logger.String("worker", name),
			logger.String("kind", job.Kind()),
			logger.Error(err),
		)
		metrics.RecordWorkerError()
		metrics.RecordStoreWriteError(job.Kind())
		return
	}
	metrics.RecordStoreWrite(job.Kind())
	metrics.RecordWorkerLatency(float64(time.Since(start).Milliseconds()))
}

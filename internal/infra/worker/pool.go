// File: internal/infra/worker/pool.go
package worker

import (
	"context"
	"runtime"
	"sync"
	"sync/atomic"
	"time"

	"yt-podcast-bot/internal/domain/ports/repository"
	"yt-podcast-bot/internal/infra/metrics"

	"github.com/rs/zerolog"
)

// Processor runs the pipeline for one job key taken off the queue.
type Processor interface {
	Process(ctx context.Context, jobKey string) error
}

// Pool runs a fixed number of workers. Each one blocks on the broker, runs
// the job it was handed and goes back to waiting. Workers share nothing but
// the broker and the processor's store connections.
type Pool struct {
	wg         sync.WaitGroup
	quit       chan struct{}
	stopOnce   sync.Once
	n          int
	busy       atomic.Int64
	broker     repository.QueueBroker
	proc       Processor
	retryDelay time.Duration
	log        *zerolog.Logger

	// jobs is the parent of every in-flight job; abort cancels it.
	jobs  context.Context
	abort context.CancelFunc
}

func NewPool(workers int, proc Processor, broker repository.QueueBroker, retryDelay time.Duration, logger *zerolog.Logger) *Pool {
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	if retryDelay <= 0 {
		retryDelay = time.Second
	}
	l := logger.With().Str("component", "worker_pool").Logger()
	jobs, abort := context.WithCancel(context.Background())
	return &Pool{
		jobs:       jobs,
		abort:      abort,
		quit:       make(chan struct{}),
		n:          workers,
		broker:     broker,
		proc:       proc,
		retryDelay: retryDelay,
		log:        &l,
	}
}

func (p *Pool) Start(ctx context.Context) {
	p.log.Info().Int("workers", p.n).Msg("worker pool started")
	for i := 0; i < p.n; i++ {
		p.wg.Add(1)
		go func(id int) {
			defer p.wg.Done()
			p.run(ctx, id)
		}(i)
	}
}

func (p *Pool) run(ctx context.Context, id int) {
	log := p.log.With().Int("worker", id).Logger()
	for {
		if p.stopping(ctx) {
			return
		}

		key, err := p.broker.Wait(ctx)
		if err != nil {
			if p.stopping(ctx) {
				return
			}
			log.Error().Err(err).Dur("retry_in", p.retryDelay).Msg("queue wait failed")
			select {
			case <-ctx.Done():
				return
			case <-p.quit:
				return
			case <-time.After(p.retryDelay):
			}
			continue
		}

		// a popped key is no longer in the queue, so it runs even during shutdown
		p.handle(ctx, &log, key)
	}
}

func (p *Pool) handle(ctx context.Context, log *zerolog.Logger, key string) {
	p.busy.Add(1)
	metrics.WorkerBusy()
	defer func() {
		if r := recover(); r != nil {
			log.Error().Interface("panic", r).Str("job_key", key).Msg("job processor panicked")
		}
		metrics.WorkerIdle()
		p.busy.Add(-1)
	}()

	// jobs outlive ctx so shutdown can drain them; only abort stops one early
	jctx, cancel := context.WithCancel(context.WithoutCancel(ctx))
	defer cancel()
	unhook := context.AfterFunc(p.jobs, cancel)
	defer unhook()

	if err := p.proc.Process(jctx, key); err != nil {
		log.Debug().Err(err).Str("job_key", key).Msg("job ended early")
	}
}

func (p *Pool) stopping(ctx context.Context) bool {
	select {
	case <-ctx.Done():
		return true
	case <-p.quit:
		return true
	default:
		return false
	}
}

// Busy is the number of jobs currently being processed.
func (p *Pool) Busy() int { return int(p.busy.Load()) }

// Drain waits until no job is in flight or timeout elapses. It reports
// whether the pool went idle. On timeout the jobs still running are
// cancelled, so a following Stop does not wait on them forever.
func (p *Pool) Drain(timeout time.Duration) bool {
	deadline := time.Now().Add(timeout)
	for p.busy.Load() > 0 {
		if time.Now().After(deadline) {
			p.abort()
			return false
		}
		time.Sleep(50 * time.Millisecond)
	}
	return true
}

// Stop tells workers to exit and waits for them. Workers parked in Wait only
// return once the broker unblocks them, e.g. by closing its connection.
func (p *Pool) Stop() {
	p.stopOnce.Do(func() { close(p.quit) })
	p.wg.Wait()
	p.abort()
	p.log.Info().Msg("worker pool stopped")
}

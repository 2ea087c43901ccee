package jobqueue

import (
	"container/heap"
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/binovo/connector-prestashop/internal/domain/connector"
	"github.com/binovo/connector-prestashop/internal/domain/shared"
	"go.uber.org/zap"
)

// Pool errors
var (
	ErrQueueFull   = errors.New("jobqueue: queue is full")
	ErrPoolStopped = errors.New("jobqueue: pool is stopped")
)

// Pool is the in-process job queue. Pending jobs are served by priority,
// then in submission order.
type Pool struct {
	cfg        Config
	identities shared.IdempotencyStore
	logger     *zap.Logger

	mu      sync.Mutex
	cond    *sync.Cond
	pending jobHeap
	seq     uint64
	stopped bool
	running int

	exec   *executor
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewPool creates a pool. Workers start with Start.
func NewPool(cfg Config, identities shared.IdempotencyStore, logger *zap.Logger) *Pool {
	if cfg.Workers <= 0 {
		cfg.Workers = 1
	}
	p := &Pool{
		cfg:        cfg,
		identities: identities,
		logger:     logger,
	}
	p.cond = sync.NewCond(&p.mu)
	return p
}

// Enqueue adds a job. It returns false when the job's identity key is
// already taken.
func (p *Pool) Enqueue(ctx context.Context, job *connector.Job) (bool, error) {
	accepted, err := claimIdentity(ctx, p.identities, job, p.cfg.IdentityTTL)
	if err != nil || !accepted {
		return false, err
	}
	if err := p.push(job); err != nil {
		releaseIdentity(ctx, p.identities, job, p.logger)
		return false, err
	}
	return true, nil
}

// Submit adds a job without an identity check. Used by drivers that
// deduplicated on the producer side.
func (p *Pool) Submit(job *connector.Job) error {
	return p.push(job)
}

func (p *Pool) push(job *connector.Job) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.stopped {
		return ErrPoolStopped
	}
	if p.cfg.QueueSize > 0 && p.pending.Len() >= p.cfg.QueueSize {
		return fmt.Errorf("%w: %d pending", ErrQueueFull, p.pending.Len())
	}
	p.seq++
	heap.Push(&p.pending, &queuedJob{job: job, seq: p.seq})
	p.cond.Signal()
	return nil
}

// Pending returns the number of queued jobs not yet picked by a worker
func (p *Pool) Pending() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.pending.Len()
}

// Idle reports whether no job is queued or running
func (p *Pool) Idle() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.pending.Len() == 0 && p.running == 0
}

// Start launches the workers
func (p *Pool) Start(ctx context.Context, runner Runner) error {
	ctx, cancel := context.WithCancel(ctx)
	p.cancel = cancel
	p.exec = &executor{runner: runner, cfg: p.cfg, logger: p.logger}

	for i := 0; i < p.cfg.Workers; i++ {
		p.wg.Add(1)
		go p.work(ctx)
	}
	go func() {
		<-ctx.Done()
		p.mu.Lock()
		p.stopped = true
		p.cond.Broadcast()
		p.mu.Unlock()
	}()

	p.logger.Info("Job pool started",
		zap.Int("workers", p.cfg.Workers),
		zap.Int("queue_size", p.cfg.QueueSize),
		zap.Int("max_retries", p.cfg.MaxRetries),
	)
	return nil
}

// Stop cancels running jobs and waits for the workers
func (p *Pool) Stop(ctx context.Context) error {
	if p.cancel != nil {
		p.cancel()
	}
	done := make(chan struct{})
	go func() {
		p.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
		p.logger.Info("Job pool stopped", zap.Int("dropped", p.Pending()))
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (p *Pool) work(ctx context.Context) {
	defer p.wg.Done()
	for {
		job, ok := p.next()
		if !ok {
			return
		}
		outcome, _ := p.exec.execute(ctx, job)
		settleIdentity(context.WithoutCancel(ctx), p.identities, job, outcome, p.logger)
		p.mu.Lock()
		p.running--
		p.mu.Unlock()
	}
}

func (p *Pool) next() (*connector.Job, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	for p.pending.Len() == 0 && !p.stopped {
		p.cond.Wait()
	}
	if p.stopped {
		return nil, false
	}
	item := heap.Pop(&p.pending).(*queuedJob)
	p.running++
	return item.job, true
}

var _ connector.JobQueue = (*Pool)(nil)

// claimIdentity takes the job's identity key. Jobs without a key are
// always accepted.
func claimIdentity(ctx context.Context, store shared.IdempotencyStore, job *connector.Job, ttl time.Duration) (bool, error) {
	if job.IdentityKey == "" || store == nil {
		return true, nil
	}
	ok, err := store.MarkProcessed(ctx, job.IdentityKey, ttl)
	if err != nil {
		return false, fmt.Errorf("claim identity of %s: %w", job.Name, err)
	}
	return ok, nil
}

// settleIdentity frees the key of an ended job unless it succeeded and
// asked to keep it
func settleIdentity(ctx context.Context, store shared.IdempotencyStore, job *connector.Job, outcome Outcome, log *zap.Logger) {
	if outcome == OutcomeDone && job.KeepIdentity {
		return
	}
	releaseIdentity(ctx, store, job, log)
}

// releaseIdentity frees the key of a job that did not complete so it can
// be submitted again
func releaseIdentity(ctx context.Context, store shared.IdempotencyStore, job *connector.Job, log *zap.Logger) {
	if job.IdentityKey == "" || store == nil {
		return
	}
	if err := store.Release(ctx, job.IdentityKey); err != nil {
		log.Warn("Failed to release job identity",
			zap.String("job_id", job.ID.String()),
			zap.Error(err),
		)
	}
}

// ----------------------------------------------------------------------------
// priority heap
// ----------------------------------------------------------------------------

type queuedJob struct {
	job *connector.Job
	seq uint64
}

type jobHeap []*queuedJob

func (h jobHeap) Len() int { return len(h) }

func (h jobHeap) Less(i, j int) bool {
	if h[i].job.Priority != h[j].job.Priority {
		return h[i].job.Priority < h[j].job.Priority
	}
	return h[i].seq < h[j].seq
}

func (h jobHeap) Swap(i, j int) { h[i], h[j] = h[j], h[i] }

func (h *jobHeap) Push(x any) { *h = append(*h, x.(*queuedJob)) }

func (h *jobHeap) Pop() any {
	old := *h
	n := len(old)
	item := old[n-1]
	old[n-1] = nil
	*h = old[:n-1]
	return item
}

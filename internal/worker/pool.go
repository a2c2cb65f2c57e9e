// Package worker runs image decodes on background goroutines and reports the
// results over a single channel drained by the UI thread.
package worker

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/nekomimist/nvpix/internal/decode"
	"github.com/nekomimist/nvpix/internal/metrics"
	"github.com/nekomimist/nvpix/internal/navigator"
)

// Priority orders queued requests.
type Priority int

const (
	PriorityNormal Priority = iota
	// PriorityPrefetch requests run only when no normal request is waiting and
	// are the first to go when the queue is full.
	PriorityPrefetch
)

// Request asks for one image to be decoded.
type Request struct {
	Path       navigator.ImagePath
	Generation uint64
	ScaleHint  float64
	Priority   Priority
}

// Result is delivered for every request that was started.
type Result struct {
	Path       navigator.ImagePath
	Generation uint64
	ScaleHint  float64
	Seq        *decode.FrameSequence
	Err        error
	Prefetch   bool
	Elapsed    time.Duration
}

// DecodeFunc performs the blocking part of a request.
type DecodeFunc func(ctx context.Context, req Request) (*decode.FrameSequence, error)

// Config sizes the pool.
type Config struct {
	Workers    int // 0 means one per CPU
	QueueDepth int
}

// Stats provides statistics about the pool
type Stats struct {
	QueueSize int
	Completed int
	Failed    int
	Dropped   int
}

// Pool is a fixed set of decode goroutines consuming a bounded queue.
type Pool struct {
	cfg     Config
	decode  DecodeFunc
	logger  *zap.Logger
	metrics *metrics.Metrics

	mu      sync.Mutex
	cond    *sync.Cond
	queue   []Request
	closed  bool
	started bool
	active  int
	stats   Stats

	cancel  context.CancelFunc
	wg      sync.WaitGroup
	results chan Result
}

// New creates a pool; call Start to launch the workers.
func New(cfg Config, fn DecodeFunc, logger *zap.Logger, m *metrics.Metrics) *Pool {
	if cfg.Workers <= 0 {
		cfg.Workers = runtime.NumCPU()
	}
	if cfg.QueueDepth <= 0 {
		cfg.QueueDepth = 16
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	p := &Pool{
		cfg:     cfg,
		decode:  fn,
		logger:  logger,
		metrics: m,
		results: make(chan Result, cfg.QueueDepth+cfg.Workers),
	}
	p.cond = sync.NewCond(&p.mu)
	return p
}

// Start launches the workers. They exit when ctx is cancelled or Stop is called.
func (p *Pool) Start(ctx context.Context) {
	p.mu.Lock()
	if p.started || p.closed {
		p.mu.Unlock()
		return
	}
	p.started = true
	p.mu.Unlock()

	ctx, p.cancel = context.WithCancel(ctx)
	context.AfterFunc(ctx, p.close)

	for i := 0; i < p.cfg.Workers; i++ {
		p.wg.Add(1)
		go p.worker(ctx, i)
	}
	p.logger.Debug("decode pool started",
		zap.Int("workers", p.cfg.Workers), zap.Int("queue_depth", p.cfg.QueueDepth))
}

// Stop cancels the workers, waits for in-flight tasks and closes Results.
func (p *Pool) Stop() {
	p.close()
	if p.cancel != nil {
		p.cancel()
	}
	p.wg.Wait()

	p.mu.Lock()
	defer p.mu.Unlock()
	if p.started {
		p.started = false
		close(p.results)
	}
}

func (p *Pool) close() {
	p.mu.Lock()
	p.closed = true
	p.mu.Unlock()
	p.cond.Broadcast()
}

// Results is the one-way channel results are delivered on.
func (p *Pool) Results() <-chan Result {
	return p.results
}

// Submit queues req. A queued request for the same path is replaced. When the
// queue is full the oldest prefetch request is dropped to make room; a
// prefetch request that finds only normal requests queued is refused.
func (p *Pool) Submit(req Request) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return false
	}

	for i, queued := range p.queue {
		if queued.Path.Key() == req.Path.Key() {
			if queued.Priority < req.Priority {
				req.Priority = queued.Priority
			}
			p.queue[i] = req
			p.cond.Signal()
			return true
		}
	}

	if len(p.queue) >= p.cfg.QueueDepth {
		victim := p.oldest(PriorityPrefetch)
		if victim < 0 {
			if req.Priority == PriorityPrefetch {
				p.dropped(1)
				return false
			}
			victim = 0
		}
		p.logger.Debug("decode queue full, dropping request",
			zap.String("path", p.queue[victim].Path.Path))
		p.queue = append(p.queue[:victim], p.queue[victim+1:]...)
		p.dropped(1)
	}

	p.queue = append(p.queue, req)
	p.cond.Signal()
	return true
}

// Supersede drops every queued request older than generation. Requests that
// already started are left to finish.
func (p *Pool) Supersede(generation uint64) int {
	p.mu.Lock()
	defer p.mu.Unlock()

	kept := p.queue[:0]
	for _, req := range p.queue {
		if req.Generation >= generation {
			kept = append(kept, req)
		}
	}
	n := len(p.queue) - len(kept)
	p.queue = kept
	if n > 0 {
		p.dropped(n)
	}
	return n
}

// Stats returns current pool statistics
func (p *Pool) Stats() Stats {
	p.mu.Lock()
	defer p.mu.Unlock()
	s := p.stats
	s.QueueSize = len(p.queue)
	return s
}

// Busy reports whether requests are queued, running, or waiting to be read
// from Results.
func (p *Pool) Busy() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.queue) > 0 || p.active > 0 || len(p.results) > 0
}

func (p *Pool) finish() {
	p.mu.Lock()
	p.active--
	p.mu.Unlock()
}

func (p *Pool) dropped(n int) {
	p.stats.Dropped += n
	p.metrics.QueueDropped(n)
}

func (p *Pool) oldest(priority Priority) int {
	for i, req := range p.queue {
		if req.Priority == priority {
			return i
		}
	}
	return -1
}

// next blocks until a request is available or the pool is closed.
func (p *Pool) next() (Request, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	for len(p.queue) == 0 && !p.closed {
		p.cond.Wait()
	}
	if p.closed {
		return Request{}, false
	}
	i := p.oldest(PriorityNormal)
	if i < 0 {
		i = 0
	}
	req := p.queue[i]
	p.queue = append(p.queue[:i], p.queue[i+1:]...)
	p.active++
	return req, true
}

func (p *Pool) worker(ctx context.Context, id int) {
	defer p.wg.Done()
	for {
		req, ok := p.next()
		if !ok {
			return
		}

		res := p.process(ctx, req)

		p.mu.Lock()
		if res.Err != nil {
			p.stats.Failed++
		} else {
			p.stats.Completed++
		}
		p.mu.Unlock()

		select {
		case p.results <- res:
			p.finish()
		case <-ctx.Done():
			p.finish()
			return
		}
	}
}

func (p *Pool) process(ctx context.Context, req Request) Result {
	start := time.Now()
	seq, err := p.run(ctx, req)
	res := Result{
		Path:       req.Path,
		Generation: req.Generation,
		ScaleHint:  req.ScaleHint,
		Seq:        seq,
		Err:        err,
		Prefetch:   req.Priority == PriorityPrefetch,
		Elapsed:    time.Since(start),
	}
	p.metrics.DecodeFinished(Outcome(err), res.Elapsed)

	if err != nil {
		p.logger.Warn("decode failed",
			zap.String("path", req.Path.Path),
			zap.Uint64("generation", req.Generation),
			zap.Error(err))
	} else {
		p.logger.Debug("decoded",
			zap.String("path", req.Path.Path),
			zap.Int("frames", seq.Len()),
			zap.Duration("elapsed", res.Elapsed),
			zap.Bool("prefetch", res.Prefetch))
	}
	return res
}

// run executes the decode function, turning a panic into an internal error.
func (p *Pool) run(ctx context.Context, req Request) (seq *decode.FrameSequence, err error) {
	defer func() {
		if r := recover(); r != nil {
			p.logger.Error("decode task panicked",
				zap.String("path", req.Path.Path),
				zap.Any("panic", r),
				zap.Stack("stack"))
			seq = nil
			err = &decode.Error{
				Kind: decode.KindInternal,
				Path: req.Path.Path,
				Err:  fmt.Errorf("%w: %v", decode.ErrInternal, r),
			}
		}
	}()

	seq, err = p.decode(ctx, req)
	if err == nil && (seq == nil || seq.Len() == 0) {
		err = &decode.Error{Kind: decode.KindInternal, Path: req.Path.Path, Err: decode.ErrInternal}
	}
	return seq, err
}

// Outcome maps a task error to its metrics label.
func Outcome(err error) string {
	if err == nil {
		return metrics.OutcomeOK
	}
	var ioErr *navigator.IoError
	if errors.As(err, &ioErr) {
		return metrics.OutcomeIO
	}
	switch decode.KindOf(err) {
	case decode.KindUnsupported:
		return metrics.OutcomeUnsupported
	case decode.KindMalformed:
		return metrics.OutcomeMalformed
	case decode.KindIO:
		return metrics.OutcomeIO
	default:
		return metrics.OutcomeInternal
	}
}

// Package renderqueue runs document renders on a fixed pool of workers.
// Jobs for the same document collapse into one, and interactive renders
// overtake background batches.
package renderqueue

import (
	"container/heap"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/danielledeleo/wikirefs/wiki"
)

// ErrQueueClosed is returned when Submit is called on a closed queue.
var ErrQueueClosed = errors.New("render queue is closed")

// Tier represents the priority tier of a render job.
type Tier int

const (
	// TierInteractive is for a single document requested by a user.
	TierInteractive Tier = iota
	// TierBackground is for whole-vault builds.
	TierBackground
)

// Job is one document waiting to be rendered.
type Job struct {
	Filename    string // dedup key
	Markdown    string // replaced when a newer job for Filename arrives
	Tier        Tier
	SubmittedAt time.Time
	heapIndex   int
}

// Result is the outcome of a job.
type Result struct {
	Rendered *wiki.Rendered
	Err      error
}

// RenderFunc renders one document.
type RenderFunc func(filename, markdown string) (*wiki.Rendered, error)

// ObserveFunc is told how long each render took and how it ended.
type ObserveFunc func(d time.Duration, err error)

// Option configures a Queue.
type Option func(*Queue)

// WithObserver reports every finished render to fn.
func WithObserver(fn ObserveFunc) Option {
	return func(q *Queue) {
		q.observe = fn
	}
}

// Queue feeds pending jobs to its workers in priority order.
type Queue struct {
	render   RenderFunc
	observe  ObserveFunc
	mu       sync.Mutex
	backlog  *backlog
	pending  map[string]*Job
	waiters  map[string][]chan Result
	jobReady chan struct{}
	closed   bool
	closeCh  chan struct{}
	wg       sync.WaitGroup
	workers  int
}

// New starts a queue with workerCount workers (at least one).
func New(workerCount int, render RenderFunc, opts ...Option) *Queue {
	if workerCount < 1 {
		workerCount = 1
	}

	q := &Queue{
		render:   render,
		backlog:  &backlog{},
		pending:  make(map[string]*Job),
		waiters:  make(map[string][]chan Result),
		jobReady: make(chan struct{}, 1),
		closeCh:  make(chan struct{}),
		workers:  workerCount,
	}
	for _, opt := range opts {
		opt(q)
	}
	heap.Init(q.backlog)

	q.wg.Add(workerCount)
	for i := 0; i < workerCount; i++ {
		go q.worker()
	}

	slog.Debug("render queue started", "workers", workerCount)
	return q
}

// Submit queues job. A job already pending for the same filename takes the
// new markdown and keeps its place, moving up if the new tier is higher.
// waitCh, when non-nil, receives the result; it should be buffered.
func (q *Queue) Submit(job Job, waitCh chan Result) error {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.closed {
		return ErrQueueClosed
	}
	if job.SubmittedAt.IsZero() {
		job.SubmittedAt = time.Now()
	}

	if existing, ok := q.pending[job.Filename]; ok {
		existing.Markdown = job.Markdown
		q.backlog.promote(existing, job.Tier)
	} else {
		queued := job
		q.pending[job.Filename] = &queued
		heap.Push(q.backlog, &queued)
	}

	if waitCh != nil {
		q.waiters[job.Filename] = append(q.waiters[job.Filename], waitCh)
	}

	select {
	case q.jobReady <- struct{}{}:
	default:
	}
	return nil
}

// Render submits job and blocks until it is rendered or ctx is done.
func (q *Queue) Render(ctx context.Context, job Job) (*wiki.Rendered, error) {
	ch := make(chan Result, 1)
	if err := q.Submit(job, ch); err != nil {
		return nil, err
	}

	select {
	case res := <-ch:
		return res.Rendered, res.Err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// Pending returns the number of queued jobs not yet picked up by a worker.
func (q *Queue) Pending() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.backlog.Len()
}

// Shutdown stops accepting jobs, lets the workers drain what is queued, and
// waits for them until ctx is done.
func (q *Queue) Shutdown(ctx context.Context) error {
	q.mu.Lock()
	if q.closed {
		q.mu.Unlock()
		return nil
	}
	q.closed = true
	close(q.closeCh)
	q.mu.Unlock()

	done := make(chan struct{})
	go func() {
		q.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (q *Queue) worker() {
	defer q.wg.Done()

	for {
		select {
		case <-q.closeCh:
			for q.processOneJob() {
			}
			return
		case <-q.jobReady:
			q.processOneJob()
		}
	}
}

// processOneJob reports false when the queue was empty.
func (q *Queue) processOneJob() bool {
	q.mu.Lock()
	if q.backlog.Len() == 0 {
		q.mu.Unlock()
		return false
	}

	job := heap.Pop(q.backlog).(*Job)
	delete(q.pending, job.Filename)
	waiters := q.waiters[job.Filename]
	delete(q.waiters, job.Filename)

	if q.backlog.Len() > 0 {
		select {
		case q.jobReady <- struct{}{}:
		default:
		}
	}
	q.mu.Unlock()

	start := time.Now()
	result := q.execute(job.Filename, job.Markdown)
	if q.observe != nil {
		q.observe(time.Since(start), result.Err)
	}
	if result.Err != nil {
		slog.Warn("render failed", "filename", job.Filename, "error", result.Err)
	}

	for _, ch := range waiters {
		select {
		case ch <- result:
		default:
			// abandoned
		}
	}
	return true
}

func (q *Queue) execute(filename, markdown string) (result Result) {
	defer func() {
		if r := recover(); r != nil {
			result = Result{Err: fmt.Errorf("render panic in %s: %v", filename, r)}
		}
	}()

	rendered, err := q.render(filename, markdown)
	return Result{Rendered: rendered, Err: err}
}

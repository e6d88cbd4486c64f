package image

import (
	"context"
	"errors"
	"sync"
)

// defaultWorkers is the number of concurrent render goroutines.
const defaultWorkers = 2

// ErrClosed is reported to callbacks whose job was dropped because the
// AsyncRenderer shut down first.
var ErrClosed = errors.New("async renderer closed")

type renderJob struct {
	ctx      context.Context
	ref      string
	cols     int
	rows     int
	callback func(string, error)
}

// AsyncRenderer rasterizes image references on a bounded goroutine pool so
// the TUI event loop never decodes or scales pictures itself.
type AsyncRenderer struct {
	renderer *Renderer
	jobs     chan renderJob
	stop     chan struct{}
	wg       sync.WaitGroup

	mu     sync.Mutex
	closed bool
}

// NewAsyncRenderer starts a pool of workers (defaultWorkers when <= 0).
func NewAsyncRenderer(r *Renderer, workers int) *AsyncRenderer {
	if workers <= 0 {
		workers = defaultWorkers
	}
	ar := &AsyncRenderer{
		renderer: r,
		jobs:     make(chan renderJob, workers*4),
		stop:     make(chan struct{}),
	}
	for i := 0; i < workers; i++ {
		ar.wg.Add(1)
		go ar.worker()
	}
	return ar
}

// Renderer returns the renderer behind the pool.
func (ar *AsyncRenderer) Renderer() *Renderer {
	return ar.renderer
}

// RenderRefAsync queues a render of ref. callback runs on a worker
// goroutine exactly once unless the returned cancel func is called first.
// If the queue is full the job runs on its own goroutine instead of
// blocking the caller.
func (ar *AsyncRenderer) RenderRefAsync(ctx context.Context, ref string, cols, rows int, callback func(string, error)) (cancel func()) {
	var once sync.Once
	cancelled := make(chan struct{})
	wrapped := func(s string, err error) {
		select {
		case <-cancelled:
		default:
			callback(s, err)
		}
	}
	cancel = func() { once.Do(func() { close(cancelled) }) }

	job := renderJob{ctx: ctx, ref: ref, cols: cols, rows: rows, callback: wrapped}

	ar.mu.Lock()
	defer ar.mu.Unlock()
	if ar.closed {
		wrapped("", ErrClosed)
		return cancel
	}
	select {
	case ar.jobs <- job:
	default:
		go ar.run(job)
	}
	return cancel
}

// Close stops the workers. Queued jobs that have not started are reported
// with ErrClosed; in-flight jobs finish normally.
func (ar *AsyncRenderer) Close() {
	ar.mu.Lock()
	if ar.closed {
		ar.mu.Unlock()
		return
	}
	ar.closed = true
	close(ar.stop)
	ar.mu.Unlock()

	ar.wg.Wait()
}

func (ar *AsyncRenderer) worker() {
	defer ar.wg.Done()
	for {
		select {
		case <-ar.stop:
			for {
				select {
				case job := <-ar.jobs:
					job.callback("", ErrClosed)
				default:
					return
				}
			}
		case job := <-ar.jobs:
			ar.run(job)
		}
	}
}

func (ar *AsyncRenderer) run(job renderJob) {
	if err := job.ctx.Err(); err != nil {
		job.callback("", err)
		return
	}
	s, err := ar.renderer.RenderRef(job.ctx, job.ref, job.cols, job.rows)
	job.callback(s, err)
}

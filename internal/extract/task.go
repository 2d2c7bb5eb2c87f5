package extract

import (
	"context"
	"image"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"

	"github.com/kikiluvv/filmstrip/internal/clips"
	"github.com/kikiluvv/filmstrip/internal/metrics"
)

// Decoder supplies the frame shown at a timestamp of a clip
type Decoder interface {
	DecodeFrameAt(ctx context.Context, clip clips.Clip, ts time.Duration) (image.Image, error)
}

// FrameFunc receives a decoded frame for slot index on the UI context
type FrameFunc func(index int, frame image.Image)

// Runner schedules extraction tasks onto a bounded set of workers and
// routes their results through a Dispatcher
type Runner struct {
	logger  zerolog.Logger
	decoder Decoder
	ui      Dispatcher
	slots   chan struct{}
}

// NewRunner creates a runner allowing at most workers concurrent decodes
func NewRunner(logger zerolog.Logger, decoder Decoder, ui Dispatcher, workers int) *Runner {
	if workers < 1 {
		workers = 1
	}
	return &Runner{
		logger:  logger.With().Str("component", "extract").Logger(),
		decoder: decoder,
		ui:      ui,
		slots:   make(chan struct{}, workers),
	}
}

// Task is the handle of one running Request
type Task struct {
	req     Request
	stopped atomic.Bool
	cancel  context.CancelFunc
	done    chan struct{}
}

// Start begins decoding req in the background. onFrame is called on the UI
// context for every frame decoded, in slot order, unless the task has been
// cancelled or owner (when non-nil) is no longer alive by then. onDone is
// called on the UI context exactly once when the task ends.
func (r *Runner) Start(req Request, owner Owner, onFrame FrameFunc, onDone func()) *Task {
	return r.start(req, owner, onFrame, func(*Task) {
		if onDone != nil {
			onDone()
		}
	})
}

func (r *Runner) start(req Request, owner Owner, onFrame FrameFunc, onDone func(*Task)) *Task {
	ctx, cancel := context.WithCancel(context.Background())
	t := &Task{
		req:    req,
		cancel: cancel,
		done:   make(chan struct{}),
	}

	go r.run(ctx, t, owner, onFrame, onDone)
	return t
}

// Cancel stops the task. No onFrame call happens after Cancel returns when
// Cancel is called from the UI context. Safe on a nil or finished task.
func (t *Task) Cancel() {
	if t == nil {
		return
	}
	t.stopped.Store(true)
	t.cancel()
}

// Stopped reports whether Cancel has been called
func (t *Task) Stopped() bool {
	return t.stopped.Load()
}

// Request returns the request this task was started with
func (t *Task) Request() Request {
	return t.req
}

// Done is closed when the worker goroutine has exited
func (t *Task) Done() <-chan struct{} {
	return t.done
}

// Wait blocks until the worker goroutine has exited. Never call it from the
// UI context: the worker may be waiting to post to it.
func (t *Task) Wait() {
	<-t.done
}

func (r *Runner) run(ctx context.Context, t *Task, owner Owner, onFrame FrameFunc, onDone func(*Task)) {
	defer close(t.done)
	defer t.cancel()

	logger := r.logger.With().Str("request", t.req.ID.String()).Logger()
	started := time.Now()
	metrics.ActiveExtractions.Inc()

	var posted, failed int
	timestamps := t.req.Timestamps()

	logger.Debug().
		Str("clip", t.req.Clip.Source).
		Int("slots", t.req.SlotCount).
		Int64("start_ms", t.req.StartMs).
		Int64("end_ms", t.req.EndMs).
		Msg("extraction started")

	for i, ts := range timestamps {
		if t.stopped.Load() {
			break
		}

		frame, err := r.decode(ctx, t, ts)
		if t.stopped.Load() {
			if frame != nil {
				metrics.StaleDeliveriesTotal.WithLabelValues(metrics.ReasonCancelled).Inc()
			}
			break
		}
		if err != nil {
			failed++
			metrics.FrameDecodeFailuresTotal.Inc()
			logger.Warn().Err(err).Int("slot", i).Dur("timestamp", ts).Msg("frame decode failed, keeping placeholder")
			continue
		}

		metrics.FramesDecodedTotal.Inc()
		posted++
		r.deliver(t, owner, onFrame, i, frame)
	}

	metrics.ActiveExtractions.Dec()
	metrics.ExtractionDuration.Observe(time.Since(started).Seconds())

	logger.Debug().
		Bool("cancelled", t.stopped.Load()).
		Int("posted", posted).
		Int("failed", failed).
		Dur("elapsed", time.Since(started)).
		Msg("extraction finished")

	r.ui.Do(func() { onDone(t) })
}

// decode holds one worker slot for the duration of a single decode
func (r *Runner) decode(ctx context.Context, t *Task, ts time.Duration) (image.Image, error) {
	select {
	case r.slots <- struct{}{}:
	case <-ctx.Done():
		return nil, ctx.Err()
	}
	defer func() { <-r.slots }()

	return r.decoder.DecodeFrameAt(ctx, t.req.Clip, ts)
}

// deliver hops to the UI context and re-checks liveness there, since the
// task may be cancelled or the owner torn down while the closure is queued
func (r *Runner) deliver(t *Task, owner Owner, onFrame FrameFunc, index int, frame image.Image) {
	if onFrame == nil {
		return
	}
	r.ui.Do(func() {
		if t.stopped.Load() {
			metrics.StaleDeliveriesTotal.WithLabelValues(metrics.ReasonCancelled).Inc()
			return
		}
		if owner != nil && !owner.Alive() {
			metrics.StaleDeliveriesTotal.WithLabelValues(metrics.ReasonDetached).Inc()
			return
		}
		onFrame(index, frame)
	})
}

// Group keeps at most one active task per owner
type Group struct {
	mu   sync.Mutex
	task *Task
}

// Start cancels the current task, if any, then starts req on r. The handle
// is released when the new task reports done.
func (g *Group) Start(r *Runner, req Request, owner Owner, onFrame FrameFunc, onDone func()) *Task {
	g.mu.Lock()
	defer g.mu.Unlock()

	g.task.Cancel()
	g.task = r.start(req, owner, onFrame, func(t *Task) {
		g.release(t)
		if onDone != nil {
			onDone()
		}
	})
	return g.task
}

func (g *Group) release(t *Task) {
	g.mu.Lock()
	if g.task == t {
		g.task = nil
	}
	g.mu.Unlock()
}

// Stop cancels the current task. A no-op when nothing is running.
func (g *Group) Stop() {
	g.mu.Lock()
	prev := g.task
	g.task = nil
	g.mu.Unlock()
	prev.Cancel()
}

// Active returns the current task, or nil
func (g *Group) Active() *Task {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.task
}

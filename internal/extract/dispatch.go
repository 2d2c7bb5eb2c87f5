package extract

import (
	"sync"
	"sync/atomic"
)

// Dispatcher runs closures on the UI-affine context, in the order posted.
// Do must not block the caller.
type Dispatcher interface {
	Do(fn func())
}

// DispatcherFunc adapts a plain function, such as fyne.Do, to Dispatcher
type DispatcherFunc func(fn func())

// Do calls f(fn)
func (f DispatcherFunc) Do(fn func()) {
	f(fn)
}

// Owner reports whether the visual element receiving frames still exists
type Owner interface {
	Alive() bool
}

// AliveFlag is an Owner backed by an atomic flag
type AliveFlag struct {
	v atomic.Bool
}

// Set marks the owner attached (true) or torn down (false)
func (f *AliveFlag) Set(alive bool) {
	f.v.Store(alive)
}

// Alive reports the last value passed to Set
func (f *AliveFlag) Alive() bool {
	return f.v.Load()
}

// Loop is a single goroutine draining a FIFO of closures. It stands in for
// the UI thread when there is no window, in the CLI and in tests.
type Loop struct {
	mu     sync.Mutex
	cond   *sync.Cond
	queue  []func()
	closed bool
	done   chan struct{}
}

// NewLoop starts the loop goroutine
func NewLoop() *Loop {
	l := &Loop{done: make(chan struct{})}
	l.cond = sync.NewCond(&l.mu)
	go l.run()
	return l
}

// Do queues fn. Closures posted after Close are dropped.
func (l *Loop) Do(fn func()) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.closed {
		return
	}
	l.queue = append(l.queue, fn)
	l.cond.Signal()
}

// Flush blocks until everything queued before the call has run
func (l *Loop) Flush() {
	ran := make(chan struct{})
	l.mu.Lock()
	if l.closed {
		l.mu.Unlock()
		<-l.done
		return
	}
	l.queue = append(l.queue, func() { close(ran) })
	l.cond.Signal()
	l.mu.Unlock()
	<-ran
}

// Close runs what is already queued, then stops the loop
func (l *Loop) Close() {
	l.mu.Lock()
	if !l.closed {
		l.closed = true
		l.cond.Signal()
	}
	l.mu.Unlock()
	<-l.done
}

func (l *Loop) run() {
	defer close(l.done)
	for {
		l.mu.Lock()
		for len(l.queue) == 0 && !l.closed {
			l.cond.Wait()
		}
		if len(l.queue) == 0 && l.closed {
			l.mu.Unlock()
			return
		}
		fn := l.queue[0]
		l.queue[0] = nil
		l.queue = l.queue[1:]
		l.mu.Unlock()

		fn()
	}
}

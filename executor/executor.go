package executor

import (
	"sync"
	"time"

	"go.uber.org/zap"
)

const slowTaskThreshold = 100 * time.Millisecond

type task struct {
	name string
	run  func()
}

// Executor serializes mutations of shared state onto a single goroutine.
// Callbacks fired by the RPC runtime on arbitrary threads re-post their work
// here, which is why none of the structures it guards carry locks.
type Executor struct {
	logger *zap.Logger

	mtx     sync.Mutex
	queue   []task
	wake    chan struct{}
	stopped bool

	quit chan struct{}
	done chan struct{}
}

func New(logger *zap.Logger) *Executor {
	e := &Executor{
		logger: logger,
		wake:   make(chan struct{}, 1),
		quit:   make(chan struct{}),
		done:   make(chan struct{}),
	}
	go e.run()
	return e
}

func (e *Executor) run() {
	defer close(e.done)
	for {
		e.mtx.Lock()
		pending := e.queue
		e.queue = nil
		e.mtx.Unlock()
		for _, t := range pending {
			start := time.Now()
			t.run()
			if elapsed := time.Since(start); elapsed > slowTaskThreshold {
				e.logger.Warn("slow executor task",
					zap.String("task_name", t.name),
					zap.Duration("task_duration", elapsed))
			}
		}
		select {
		case <-e.quit:
			e.mtx.Lock()
			pending = e.queue
			e.queue = nil
			e.mtx.Unlock()
			for _, t := range pending {
				t.run()
			}
			return
		case <-e.wake:
		}
	}
}

// Dispatch enqueues f to run on the executor goroutine. It never blocks.
// Tasks dispatched after Shutdown are dropped.
func (e *Executor) Dispatch(name string, f func()) {
	e.mtx.Lock()
	if e.stopped {
		e.mtx.Unlock()
		return
	}
	e.queue = append(e.queue, task{name: name, run: f})
	e.mtx.Unlock()
	select {
	case e.wake <- struct{}{}:
	default:
	}
}

// Call runs f on the executor goroutine and waits for it to complete. It
// must not be invoked from a task already running on the executor.
func (e *Executor) Call(name string, f func()) {
	ran := make(chan struct{})
	e.Dispatch(name, func() {
		defer close(ran)
		f()
	})
	select {
	case <-ran:
	case <-e.done:
	}
}

// ScheduleAfter arms a timer whose callback runs on the executor goroutine.
// Stopping the returned timer before it fires prevents the callback.
func (e *Executor) ScheduleAfter(d time.Duration, name string, f func()) *time.Timer {
	return time.AfterFunc(d, func() {
		e.Dispatch(name, f)
	})
}

// Shutdown drains tasks already queued and stops the loop.
func (e *Executor) Shutdown() {
	e.mtx.Lock()
	if e.stopped {
		e.mtx.Unlock()
		<-e.done
		return
	}
	e.stopped = true
	e.mtx.Unlock()
	close(e.quit)
	<-e.done
}

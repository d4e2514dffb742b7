package editor

import (
	"context"
	"errors"
	"sync"
)

// ErrLoopClosed is returned by Do once the loop has been closed
var ErrLoopClosed = errors.New("event loop closed")

// Dispatcher runs posted events one at a time. Post reports false when the
// event was dropped because the dispatcher has shut down.
type Dispatcher interface {
	Post(fn func()) bool
}

// EventLoop is a Dispatcher backed by a single goroutine
type EventLoop struct {
	events    chan func()
	done      chan struct{}
	wg        sync.WaitGroup
	closeOnce sync.Once
}

// NewEventLoop starts a loop with the given event buffer size
func NewEventLoop(buffer int) *EventLoop {
	l := &EventLoop{
		events: make(chan func(), buffer),
		done:   make(chan struct{}),
	}

	l.wg.Add(1)
	go l.run()

	return l
}

func (l *EventLoop) run() {
	defer l.wg.Done()
	for {
		select {
		case fn := <-l.events:
			fn()
		case <-l.done:
			return
		}
	}
}

// Post queues fn for execution on the loop goroutine
func (l *EventLoop) Post(fn func()) bool {
	select {
	case <-l.done:
		return false
	default:
	}

	select {
	case l.events <- fn:
		return true
	case <-l.done:
		return false
	}
}

// Do runs fn on the loop and waits for it to finish
func (l *EventLoop) Do(ctx context.Context, fn func()) error {
	finished := make(chan struct{})
	if !l.Post(func() {
		defer close(finished)
		fn()
	}) {
		return ErrLoopClosed
	}

	select {
	case <-finished:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	case <-l.done:
		// fn may have completed just before shutdown
		select {
		case <-finished:
			return nil
		default:
			return ErrLoopClosed
		}
	}
}

// Close stops the loop. Queued events that have not started are discarded.
func (l *EventLoop) Close() {
	l.closeOnce.Do(func() {
		close(l.done)
	})
	l.wg.Wait()
}

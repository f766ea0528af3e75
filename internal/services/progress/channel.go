package progress

import (
	"errors"
	"sync"

	"github.com/deepgram/danmaku/internal/domain/danmaku/models"
)

var (
	// ErrReceiverGone is returned by Send once the observer has dropped its end.
	ErrReceiverGone = errors.New("progress receiver is gone")
	// ErrClosed is returned by Send after the sending side was closed.
	ErrClosed = errors.New("progress channel is closed")
)

// Channel is an unbounded, one-way FIFO of progress events. Send never waits
// for the consumer; a delivery goroutine moves queued events onto Events().
type Channel struct {
	mu      sync.Mutex
	queue   []models.ProgressEvent
	closed  bool
	dropped bool

	notify   chan struct{}
	done     chan struct{}
	dropOnce sync.Once
	out      chan models.ProgressEvent
}

func NewChannel() *Channel {
	c := &Channel{
		notify: make(chan struct{}, 1),
		done:   make(chan struct{}),
		out:    make(chan models.ProgressEvent),
	}
	go c.deliver()
	return c
}

// Send queues event for delivery.
func (c *Channel) Send(event models.ProgressEvent) error {
	c.mu.Lock()
	switch {
	case c.dropped:
		c.mu.Unlock()
		return ErrReceiverGone
	case c.closed:
		c.mu.Unlock()
		return ErrClosed
	}
	c.queue = append(c.queue, event)
	c.mu.Unlock()

	c.wake()
	return nil
}

// Events yields queued events in order. It is closed after Close once the
// queue has drained, or immediately after Drop.
func (c *Channel) Events() <-chan models.ProgressEvent {
	return c.out
}

// Close ends the sending side. Events already queued are still delivered.
func (c *Channel) Close() {
	c.mu.Lock()
	c.closed = true
	c.mu.Unlock()
	c.wake()
}

// Drop is called by the observer when it stops listening. Pending events are
// discarded and later sends fail with ErrReceiverGone.
func (c *Channel) Drop() {
	c.dropOnce.Do(func() {
		c.mu.Lock()
		c.dropped = true
		c.queue = nil
		c.mu.Unlock()
		close(c.done)
	})
}

func (c *Channel) wake() {
	select {
	case c.notify <- struct{}{}:
	default:
	}
}

func (c *Channel) deliver() {
	defer close(c.out)

	for {
		c.mu.Lock()
		if c.dropped {
			c.mu.Unlock()
			return
		}
		if len(c.queue) == 0 {
			closed := c.closed
			c.mu.Unlock()
			if closed {
				return
			}
			select {
			case <-c.notify:
			case <-c.done:
				return
			}
			continue
		}
		event := c.queue[0]
		c.queue = c.queue[1:]
		c.mu.Unlock()

		select {
		case c.out <- event:
		case <-c.done:
			return
		}
	}
}

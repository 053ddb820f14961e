package midi

import (
	"context"
	"fmt"
	"sync/atomic"

	"vseq/debug"

	gomidi "gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/drivers"
)

// OutputQueue moves port writes off the runner goroutine
type OutputQueue struct {
	send     func(gomidi.Message) error
	queue    chan gomidi.Message
	sent     atomic.Uint64
	failures atomic.Uint64
}

// NewOutputQueue creates a queue holding up to size messages
func NewOutputQueue(send func(gomidi.Message) error, size int) *OutputQueue {
	if size <= 0 {
		size = 64
	}
	return &OutputQueue{
		send:  send,
		queue: make(chan gomidi.Message, size),
	}
}

// OpenOutput opens out and wraps it in a queue
func OpenOutput(out drivers.Out, size int) (*OutputQueue, error) {
	send, err := gomidi.SendTo(out)
	if err != nil {
		return nil, fmt.Errorf("open output %s: %w", out.String(), err)
	}
	debug.Log("midi", "output %s", out.String())
	return NewOutputQueue(send, size), nil
}

// Send queues msg without blocking
func (q *OutputQueue) Send(msg gomidi.Message) error {
	select {
	case q.queue <- msg:
		return nil
	default:
		return ErrQueueFull
	}
}

// Run writes queued messages until ctx is cancelled (blocking - run in goroutine)
func (q *OutputQueue) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case msg := <-q.queue:
			if err := q.send(msg); err != nil {
				if q.failures.Add(1) == 1 {
					debug.Log("midi", "write failed: %v", err)
				}
				continue
			}
			q.sent.Add(1)
		}
	}
}

// Sent returns how many messages were written
func (q *OutputQueue) Sent() uint64 {
	return q.sent.Load()
}

// Failures returns how many writes failed
func (q *OutputQueue) Failures() uint64 {
	return q.failures.Load()
}

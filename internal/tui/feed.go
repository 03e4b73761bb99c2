package tui

import (
	"io"
	"sync"

	"github.com/vito/progrock"
)

const feedBuffer = 64

var _ progrock.Writer = (*Feed)(nil)

// Feed is a progrock.Writer that can be read back as a TapeSource.
// Writes block while the buffer is full and fail once the feed is closed.
type Feed struct {
	updates chan *progrock.StatusUpdate
	done    chan struct{}
	once    sync.Once
}

// NewFeed creates an open Feed.
func NewFeed() *Feed {
	return &Feed{
		updates: make(chan *progrock.StatusUpdate, feedBuffer),
		done:    make(chan struct{}),
	}
}

// WriteStatus queues an update for the reader.
func (f *Feed) WriteStatus(update *progrock.StatusUpdate) error {
	select {
	case <-f.done:
		return io.ErrClosedPipe
	default:
	}

	select {
	case f.updates <- update:
		return nil
	case <-f.done:
		return io.ErrClosedPipe
	}
}

// Read returns the next queued update. Once the feed is closed and drained it returns io.EOF.
func (f *Feed) Read() (*progrock.StatusUpdate, error) {
	select {
	case u := <-f.updates:
		return u, nil
	case <-f.done:
		select {
		case u := <-f.updates:
			return u, nil
		default:
			return nil, io.EOF
		}
	}
}

// Close ends the feed. It is safe to call more than once.
func (f *Feed) Close() error {
	f.once.Do(func() { close(f.done) })
	return nil
}

package progrock

import (
	"sync"

	"github.com/vito/progrock"
)

// fanout forwards status updates to a base writer and any subscribed writers.
type fanout struct {
	base progrock.Writer

	mu   sync.RWMutex
	next int
	subs map[int]progrock.Writer
}

func newFanout(base progrock.Writer) *fanout {
	return &fanout{base: base, subs: make(map[int]progrock.Writer)}
}

// WriteStatus implements progrock.Writer. Subscriber failures are ignored so a
// closed view never breaks recording.
func (f *fanout) WriteStatus(update *progrock.StatusUpdate) error {
	f.mu.RLock()
	defer f.mu.RUnlock()
	for _, w := range f.subs {
		_ = w.WriteStatus(update)
	}
	return f.base.WriteStatus(update)
}

// Close implements progrock.Writer. Subscribers are closed by whoever subscribed them.
func (f *fanout) Close() error {
	f.mu.Lock()
	f.subs = make(map[int]progrock.Writer)
	f.mu.Unlock()
	return f.base.Close()
}

func (f *fanout) subscribe(w progrock.Writer) func() {
	f.mu.Lock()
	id := f.next
	f.next++
	f.subs[id] = w
	f.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			f.mu.Lock()
			delete(f.subs, id)
			f.mu.Unlock()
		})
	}
}

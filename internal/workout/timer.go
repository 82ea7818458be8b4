package workout

import (
	"sync"
	"time"
)

// RestTimer is a single-shot countdown between sets. Only one countdown runs
// at a time; starting a new one cancels the previous. It is advisory only;
// session state never depends on it firing.
type RestTimer struct {
	mu        sync.Mutex
	remaining int
	stop      chan struct{}
	onDone    func()
}

// NewRestTimer creates a timer that invokes onDone when a countdown reaches
// zero. onDone may be nil.
func NewRestTimer(onDone func()) *RestTimer {
	return &RestTimer{onDone: onDone}
}

// Start begins a countdown from the given number of seconds, cancelling any
// countdown already running.
func (t *RestTimer) Start(seconds int) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.stopLocked()
	if seconds <= 0 {
		return
	}

	t.remaining = seconds
	stop := make(chan struct{})
	t.stop = stop

	go t.run(stop)
}

func (t *RestTimer) run(stop chan struct{}) {
	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			t.mu.Lock()
			t.remaining--
			done := t.remaining <= 0
			if done {
				t.remaining = 0
				t.stop = nil
			}
			t.mu.Unlock()

			if done {
				if t.onDone != nil {
					t.onDone()
				}
				return
			}
		}
	}
}

// Stop cancels any running countdown.
func (t *RestTimer) Stop() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.stopLocked()
}

func (t *RestTimer) stopLocked() {
	if t.stop != nil {
		close(t.stop)
		t.stop = nil
	}
	t.remaining = 0
}

// Remaining returns the seconds left, 0 when idle.
func (t *RestTimer) Remaining() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.remaining
}

// Active reports whether a countdown is running.
func (t *RestTimer) Active() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.stop != nil
}

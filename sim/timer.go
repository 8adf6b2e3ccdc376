package sim

import (
	"sync"
	"time"

	"rdt-toolkit/util"
	uatomic "rdt-toolkit/util/atomic"
)

// RealTimer is a harness.Timer backed by a real time.Timer, for driving
// rdt.Sender against wall-clock time instead of a fake clock. Start
// replaces any prior arming.
type RealTimer struct {
	mu    sync.Mutex
	timer *time.Timer
	ch    chan struct{}
	set   uatomic.Bool
}

// NewRealTimer constructs a stopped RealTimer.
func NewRealTimer() *RealTimer {
	return &RealTimer{ch: make(chan struct{}, 1)}
}

// Start arms the timer for d from now, clearing any pending firing.
func (t *RealTimer) Start(d time.Duration) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.timer != nil {
		t.timer.Stop()
	}
	t.clearPending()
	t.set.Set(true)
	var tm *time.Timer
	tm = time.AfterFunc(d, func() {
		t.mu.Lock()
		defer t.mu.Unlock()
		if t.timer != tm {
			return // superseded by a later Start or Stop
		}
		t.set.Set(false)
		util.AsyncNotify(t.ch)
	})
	t.timer = tm
}

// clearPending discards a firing that has been signalled but not yet
// consumed from C. The caller holds t.mu.
func (t *RealTimer) clearPending() {
	select {
	case <-t.ch:
	default:
	}
}

// Stop cancels the timer without firing.
func (t *RealTimer) Stop() {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.timer != nil {
		t.timer.Stop()
		t.timer = nil
	}
	t.clearPending()
	t.set.Set(false)
}

// IsSet reports whether an arming is currently pending.
func (t *RealTimer) IsSet() bool {
	return t.set.Get()
}

// C is the channel the timer signals on when it fires.
func (t *RealTimer) C() <-chan struct{} {
	return t.ch
}

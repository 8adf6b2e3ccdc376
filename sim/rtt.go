package sim

import (
	"sync"
	"time"

	"rdt-toolkit/util/math"
)

const (
	defaultMinTimeout = 100 * time.Millisecond
	rttVarianceFactor = 4
)

// AdaptiveTimeout is an rdt.TimeoutStrategy that derives the
// retransmission interval from observed round-trip samples instead of
// using a fixed interval (exponentially-weighted smoothed RTT and
// variance, Jacobson/Karn style). It implements rdt.RTTSampler so
// Sender feeds it send/ack timestamps directly.
type AdaptiveTimeout struct {
	sendTime time.Time

	min      time.Duration
	smoothed time.Duration
	variance time.Duration

	// MinTimeout floors the returned duration; a tiny or zero RTT
	// sample (loopback-speed simulations) must not arm a timer so
	// short it fires before a legitimate ACK could possibly return.
	MinTimeout time.Duration

	mu sync.RWMutex
}

// NewAdaptiveTimeout constructs an AdaptiveTimeout with the given
// floor. A non-positive floor falls back to defaultMinTimeout.
func NewAdaptiveTimeout(minTimeout time.Duration) *AdaptiveTimeout {
	if minTimeout <= 0 {
		minTimeout = defaultMinTimeout
	}
	return &AdaptiveTimeout{MinTimeout: minTimeout}
}

// SampleSend records the time a retransmission-eligible packet was
// handed to the lower layer.
func (a *AdaptiveTimeout) SampleSend() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.sendTime = time.Now()
}

// SampleAck records that a cumulative ACK just advanced ackBase, and
// updates the smoothed RTT and its variance from the elapsed time since
// the most recent SampleSend.
func (a *AdaptiveTimeout) SampleAck() {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.sendTime.IsZero() {
		return
	}
	rtt := time.Since(a.sendTime)

	if a.min <= 0 || a.min > rtt {
		a.min = rtt
	}
	if a.smoothed <= 0 {
		a.smoothed = rtt
	} else {
		a.smoothed = (a.smoothed*7 + rtt) / 8
	}
	if a.variance <= 0 {
		a.variance = rtt / 2
	} else {
		sample := math.AbsDuration(a.smoothed - rtt)
		a.variance = (a.variance*3 + sample) / 4
	}
}

// Duration implements rdt.TimeoutStrategy: smoothed + 4*variance,
// floored at MinTimeout, matching the classic Jacobson/Karn RTO bound.
// Before any sample has been taken it returns MinTimeout.
func (a *AdaptiveTimeout) Duration() time.Duration {
	a.mu.RLock()
	defer a.mu.RUnlock()
	if a.smoothed <= 0 {
		return a.MinTimeout
	}
	d := a.smoothed + rttVarianceFactor*a.variance
	if d < a.MinTimeout {
		return a.MinTimeout
	}
	return d
}

// Min reports the minimum observed RTT sample, or zero if none yet.
func (a *AdaptiveTimeout) Min() time.Duration {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.min
}

package sim

import (
	"time"

	"rdt-toolkit/harness"
	"rdt-toolkit/rdt/packet"
)

// countingLower wraps a Channel as a harness.LowerLayer, recording a
// stats counter for every packet handed down. Packets are counted as
// data or as ACKs by which endpoint owns the wrapper (isAcker); the
// packet itself is not inspected.
type countingLower struct {
	ch      *Channel
	stats   *Stats
	isAcker bool
}

func (l countingLower) SendToLower(pkt packet.Packet) {
	if l.isAcker {
		l.stats.recordAckSent()
	} else {
		l.stats.recordDataPacketSent()
	}
	l.ch.Send(pkt)
}

// deliverFunc adapts a plain function into a harness.UpperLayer.
type deliverFunc func(harness.Message)

func (f deliverFunc) DeliverToUpper(msg harness.Message) {
	f(msg)
}

// simClock implements harness.Clock, reporting elapsed wall-clock time
// since the simulation started, in seconds. The core never calls it; the
// simulation's event loops use it to timestamp debug log lines.
type simClock struct{ start time.Time }

func newSimClock() simClock {
	return simClock{start: time.Now()}
}

// Now implements harness.Clock.
func (c simClock) Now() float64 {
	return time.Since(c.start).Seconds()
}

var _ harness.Clock = simClock{}

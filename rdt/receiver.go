package rdt

import (
	"rdt-toolkit/harness"
	"rdt-toolkit/rdt/packet"
)

// Receiver is the reorder-buffering, cumulative-acking receiver half of
// the reliability core. Like Sender, it is driven exclusively by
// OnPacket, called by a single logical thread, and never blocks.
type Receiver struct {
	cfg Config

	lower harness.LowerLayer
	upper harness.UpperLayer

	// expected is the smallest sequence not yet delivered upstream.
	expected uint32

	slots    []packet.Packet
	occupied []bool
}

// NewReceiver constructs a Receiver with the given configuration, lower
// layer (for ACKs) and upper layer (for delivery).
func NewReceiver(cfg Config, lower harness.LowerLayer, upper harness.UpperLayer) *Receiver {
	cfg = sanitizeConfig(cfg)
	return &Receiver{
		cfg:      cfg,
		lower:    lower,
		upper:    upper,
		slots:    make([]packet.Packet, cfg.WindowSize),
		occupied: make([]bool, cfg.WindowSize),
	}
}

// Final delivers any prefix that is still contiguous from expected. The
// receiver's own bookkeeping never leaves a contiguous prefix
// undelivered after OnPacket returns, so in practice this only guards
// against a host that stops driving the receiver mid-drain.
func (r *Receiver) Final() {
	r.drain()
}

// OnPacket validates pkt, delivers it (and any now-contiguous buffered
// successors) if it is the next expected sequence, buffers it if it is
// a future in-window sequence, and otherwise just re-acknowledges.
func (r *Receiver) OnPacket(pkt packet.Packet) {
	if !packet.Validate(&pkt) {
		return
	}

	s := pkt.Seq()
	w := uint32(r.cfg.WindowSize)

	switch {
	case s == r.expected:
		r.deliver(pkt)
		r.drain()
	case s > r.expected && s < r.expected+w:
		slot := s % w
		if !r.occupied[slot] {
			r.slots[slot] = pkt
			r.occupied[slot] = true
		}
	}
	// s < expected (already delivered) or s >= expected+w (beyond
	// window): fall through to the shared cumulative-ack reply below.

	r.lower.SendToLower(packet.NewAck(int64(r.expected) - 1))
}

// deliver copies pkt's payload into a freshly allocated message and
// hands it to the upper layer, then advances expected.
func (r *Receiver) deliver(pkt packet.Packet) {
	payload := pkt.Payload()
	msg := make(harness.Message, len(payload))
	copy(msg, payload)
	r.upper.DeliverToUpper(msg)
	r.expected++
}

// drain delivers buffered slots while they form a contiguous run
// starting at expected, clearing each slot as it is consumed.
func (r *Receiver) drain() {
	w := uint32(r.cfg.WindowSize)
	for {
		slot := r.expected % w
		if !r.occupied[slot] {
			return
		}
		pkt := r.slots[slot]
		r.occupied[slot] = false
		r.deliver(pkt)
	}
}

// Expected exposes receiver state for tests and invariant checks.
func (r *Receiver) Expected() uint32 { return r.expected }

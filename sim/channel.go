// Package sim is a reference simulation environment: an emulated
// lossy/duplicating/reordering channel, a real-time timer and clock, an
// adaptive RTT-based timeout strategy, structured logging and YAML
// configuration, wired around the single-threaded rdt.Sender/rdt.Receiver
// core so it can be run and observed end-to-end. None of this package
// is part of the reliability core itself; it plays the role of the
// external collaborators the core depends on.
package sim

import (
	"sync"
	"sync/atomic"
	"time"

	uatomic "rdt-toolkit/util/atomic"
	"rdt-toolkit/rdt/packet"
)

// ChannelConfig controls the fault injection a Channel applies to every
// packet handed to Send, at packet granularity rather than a byte
// stream.
type ChannelConfig struct {
	// LossNth drops every Nth packet. Zero disables loss.
	LossNth uint32
	// DuplicateNth duplicates every Nth packet. Zero disables duplication.
	DuplicateNth uint32
	// ReorderNth holds every Nth packet back and releases it when the
	// next Nth packet arrives (which is then held in its place) or when
	// the channel is closed. Zero disables reordering.
	ReorderNth uint32
	// Delay is a fixed one-way transit delay applied to every packet
	// that is not dropped.
	Delay time.Duration
}

// Channel is a one-directional, fixed-size-packet channel that may
// drop, duplicate, reorder, and delay packets handed to Send before
// they appear on Out(). It stands in for an unreliable packet channel
// that may drop, corrupt, reorder, and duplicate fixed-size packets;
// corruption is injected by a caller flipping bits before calling Send,
// since the channel itself only handles loss, duplication, reordering
// and delay, keeping fault injection separate from the checksum codec.
type Channel struct {
	out chan packet.Packet

	lossNth      uint32
	duplicateNth uint32
	reorderNth   uint32
	delay        int64 // time.Duration, stored atomically

	counter uint32

	held   *packet.Packet
	heldMu sync.Mutex

	die     chan struct{}
	wg      sync.WaitGroup
	closed  uatomic.Bool
	closeMu sync.Mutex
}

// NewChannel creates a Channel with the given fault-injection config
// and backlog capacity for its output queue.
func NewChannel(cfg ChannelConfig, backlog int) *Channel {
	if backlog <= 0 {
		backlog = 64
	}
	c := &Channel{
		out: make(chan packet.Packet, backlog),
		die: make(chan struct{}),
	}
	c.Update(cfg)
	return c
}

// Update hot-swaps the fault-injection config, storing each field
// atomically, and resets the packet counter so the new Nth-packet
// thresholds start counting from zero.
func (c *Channel) Update(cfg ChannelConfig) {
	atomic.StoreUint32(&c.lossNth, cfg.LossNth)
	atomic.StoreUint32(&c.duplicateNth, cfg.DuplicateNth)
	atomic.StoreUint32(&c.reorderNth, cfg.ReorderNth)
	atomic.StoreInt64(&c.delay, int64(cfg.Delay))
	atomic.StoreUint32(&c.counter, 0)
}

// Out is the channel successfully-transited packets arrive on.
func (c *Channel) Out() <-chan packet.Packet {
	return c.out
}

// Send injects pkt into the channel, applying loss, duplication, and
// reordering as configured, then delivers it (after Delay) on Out().
// Send never blocks the caller beyond enqueueing a delayed delivery.
func (c *Channel) Send(pkt packet.Packet) {
	if c.closed.Get() {
		return
	}
	n := atomic.AddUint32(&c.counter, 1)

	lossNth := atomic.LoadUint32(&c.lossNth)
	if lossNth > 0 && n%lossNth == 0 {
		return
	}

	reorderNth := atomic.LoadUint32(&c.reorderNth)
	if reorderNth > 0 && n%reorderNth == 0 {
		c.swapWithHeld(pkt)
	} else {
		c.deliver(pkt)
	}

	duplicateNth := atomic.LoadUint32(&c.duplicateNth)
	if duplicateNth > 0 && n%duplicateNth == 0 {
		c.deliver(pkt)
	}
}

// swapWithHeld delivers the previously held packet (if any) now, out of
// order, and holds pkt back to be delivered on the next reordering
// trigger or on Close. This is a one-packet-deep reorder: at most one
// packet is ever held back at a time.
func (c *Channel) swapWithHeld(pkt packet.Packet) {
	c.heldMu.Lock()
	defer c.heldMu.Unlock()
	if c.held != nil {
		prev := *c.held
		c.held = &pkt
		c.deliver(prev)
		return
	}
	held := pkt
	c.held = &held
}

// deliver schedules pkt for delivery on Out() after the configured
// delay, without blocking the caller.
func (c *Channel) deliver(pkt packet.Packet) {
	delay := time.Duration(atomic.LoadInt64(&c.delay))
	if delay <= 0 {
		select {
		case c.out <- pkt:
		case <-c.die:
		}
		return
	}
	c.wg.Add(1)
	go func() {
		defer c.wg.Done()
		timer := time.NewTimer(delay)
		defer timer.Stop()
		select {
		case <-timer.C:
			select {
			case c.out <- pkt:
			case <-c.die:
			}
		case <-c.die:
		}
	}()
}

// Close stops the channel, flushing any held reordered packet first.
func (c *Channel) Close() {
	c.closeMu.Lock()
	defer c.closeMu.Unlock()
	if c.closed.Get() {
		return
	}
	c.closed.Set(true)
	c.heldMu.Lock()
	if c.held != nil {
		held := *c.held
		c.held = nil
		select {
		case c.out <- held:
		default:
		}
	}
	c.heldMu.Unlock()
	close(c.die)
	c.wg.Wait()
}

package rdt

import (
	"rdt-toolkit/harness"
	"rdt-toolkit/rdt/packet"
)

// Sender is the sliding-window sender half of the reliability core. It
// is driven exclusively by OnMessage, OnPacket and OnTimeout, called by
// a single logical thread; none of its methods block, suspend, or are
// reentrant-safe against concurrent calls.
type Sender struct {
	cfg Config

	lower   harness.LowerLayer
	timer   harness.Timer
	timeout TimeoutStrategy

	// nextSeq is the next sequence to assign to a newly segmented
	// packet. sendCursor is the next sequence to hand to the lower
	// layer. ackBase is the smallest unacknowledged sequence.
	nextSeq    uint32
	sendCursor uint32
	ackBase    uint32

	window   []packet.Packet
	occupied []bool

	backlog [][]byte
}

// NewSender constructs a Sender with the given configuration, lower
// layer, retransmission timer and timeout strategy.
func NewSender(cfg Config, lower harness.LowerLayer, timer harness.Timer, timeout TimeoutStrategy) *Sender {
	cfg = sanitizeConfig(cfg)
	return &Sender{
		cfg:      cfg,
		lower:    lower,
		timer:    timer,
		timeout:  timeout,
		window:   make([]packet.Packet, cfg.WindowSize),
		occupied: make([]bool, cfg.WindowSize),
	}
}

// Final releases retained state. The sender has nothing that outlives
// the process beyond what the Go garbage collector already reclaims;
// it exists for symmetry with Receiver.Final.
func (s *Sender) Final() {
	s.backlog = nil
}

// OnMessage segments msg into MaxPayload-sized packets, appends them to
// the backlog, then admits as many as the window allows and starts the
// timer if this is the first packet to go in flight.
func (s *Sender) OnMessage(msg harness.Message) {
	wasSet := s.timer.IsSet()

	for off := 0; off < len(msg); off += packet.MaxPayload {
		end := off + packet.MaxPayload
		if end > len(msg) {
			end = len(msg)
		}
		chunk := make([]byte, end-off)
		copy(chunk, msg[off:end])
		s.backlog = append(s.backlog, chunk)
	}

	s.admitAndSend()

	if !wasSet && s.inFlight() {
		s.timer.Start(s.timeout.Duration())
	}
}

// OnPacket treats pkt as an ACK. Corrupted and stale/future ACKs are
// silently dropped; a valid cumulative ACK advances ackBase, retires
// slots, admits backlog, and resets the timer discipline.
func (s *Sender) OnPacket(pkt packet.Packet) {
	if !packet.Validate(&pkt) {
		return
	}

	a := pkt.AckValue()
	if a < int64(s.ackBase) || a >= int64(s.nextSeq) {
		return
	}

	oldAckBase := s.ackBase
	s.ackBase = uint32(a) + 1
	for seq := oldAckBase; seq != s.ackBase; seq++ {
		s.occupied[seq%uint32(s.cfg.WindowSize)] = false
	}
	if sampler, ok := s.timeout.(RTTSampler); ok {
		sampler.SampleAck()
	}

	s.admitAndSend()

	if s.inFlight() {
		s.timer.Start(s.timeout.Duration())
	} else {
		s.timer.Stop()
	}
}

// OnTimeout rewinds the send cursor to ackBase, retransmits every
// outstanding packet, and restarts the timer.
func (s *Sender) OnTimeout() {
	s.sendCursor = s.ackBase
	for seq := s.ackBase; seq != s.nextSeq; seq++ {
		s.lower.SendToLower(s.window[seq%uint32(s.cfg.WindowSize)])
	}
	s.sendCursor = s.nextSeq
	s.timer.Start(s.timeout.Duration())
}

// inFlight reports whether any sequence is outstanding.
func (s *Sender) inFlight() bool {
	return s.ackBase != s.nextSeq
}

// admitAndSend moves packets from the backlog into the window while
// there is room, stamping each with its sequence number and checksum,
// then transmits every packet between sendCursor and nextSeq.
func (s *Sender) admitAndSend() {
	w := uint32(s.cfg.WindowSize)
	for s.nextSeq-s.ackBase < w && len(s.backlog) > 0 {
		payload := s.backlog[0]
		s.backlog = s.backlog[1:]

		pkt := packet.NewData(s.nextSeq, payload)
		slot := s.nextSeq % w
		s.window[slot] = pkt
		s.occupied[slot] = true
		s.nextSeq++
	}

	for s.sendCursor != s.nextSeq {
		pkt := s.window[s.sendCursor%w]
		s.lower.SendToLower(pkt)
		if sampler, ok := s.timeout.(RTTSampler); ok {
			sampler.SampleSend()
		}
		s.sendCursor++
	}
}

// NextSeq, AckBase and WindowSize expose sender state for tests and for
// invariant checks; they are not part of the callback contract.
func (s *Sender) NextSeq() uint32  { return s.nextSeq }
func (s *Sender) AckBase() uint32  { return s.ackBase }
func (s *Sender) WindowSize() int  { return s.cfg.WindowSize }
func (s *Sender) BacklogLen() int  { return len(s.backlog) }
func (s *Sender) IsTimerSet() bool { return s.timer.IsSet() }

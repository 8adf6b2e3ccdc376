package sim

import "sync/atomic"

// Stats accumulates observability counters for a running Simulation.
// None of this is part of the reliability core's contract; it exists
// so cmd/rdtsim has something to print at the end of a run, the way an
// operator tool would.
type Stats struct {
	dataPacketsSent uint64
	acksSent        uint64
	messages        uint64
	bytesDelivered  uint64
}

func (s *Stats) recordDataPacketSent() { atomic.AddUint64(&s.dataPacketsSent, 1) }
func (s *Stats) recordAckSent()        { atomic.AddUint64(&s.acksSent, 1) }
func (s *Stats) recordDelivered(n int) {
	atomic.AddUint64(&s.messages, 1)
	atomic.AddUint64(&s.bytesDelivered, uint64(n))
}

// DataPacketsSent is the number of SendToLower calls the sender made
// (including retransmissions).
func (s *Stats) DataPacketsSent() uint64 { return atomic.LoadUint64(&s.dataPacketsSent) }

// AcksSent is the number of ACKs the receiver emitted.
func (s *Stats) AcksSent() uint64 { return atomic.LoadUint64(&s.acksSent) }

// MessagesDelivered is the number of messages delivered upstream.
func (s *Stats) MessagesDelivered() uint64 { return atomic.LoadUint64(&s.messages) }

// BytesDelivered is the total payload bytes delivered upstream.
func (s *Stats) BytesDelivered() uint64 { return atomic.LoadUint64(&s.bytesDelivered) }

package rdt

import "time"

// TimeoutStrategy supplies the interval the Sender arms its
// retransmission timer with. The simplest behavior is a fixed interval;
// FixedTimeout implements exactly that. Other strategies (see package
// sim's AdaptiveTimeout) may derive the interval from observed
// round-trip samples without changing the Sender's external contract.
type TimeoutStrategy interface {
	// Duration returns the interval to arm the timer with the next time
	// it is (re)started.
	Duration() time.Duration
}

// RTTSampler is an optional extension a TimeoutStrategy may implement
// to receive send/ack timing samples from the Sender. Strategies that
// don't need RTT feedback (FixedTimeout) simply don't implement it.
type RTTSampler interface {
	// SampleSend is called once per packet handed to the lower layer
	// that is eligible for retransmission (i.e. not a pure
	// retransmission replay, to avoid retransmission ambiguity).
	SampleSend()
	// SampleAck is called when a cumulative ACK advances ackBase.
	SampleAck()
}

// FixedTimeout is the simplest timeout strategy: a constant
// retransmission interval, recommended 300ms.
type FixedTimeout time.Duration

// Duration implements TimeoutStrategy.
func (f FixedTimeout) Duration() time.Duration {
	return time.Duration(f)
}

package rdt

import (
	"testing"

	"github.com/stretchr/testify/require"
	"rdt-toolkit/harness"
	"rdt-toolkit/rdt/packet"
)

func newTestSender(windowSize int) (*Sender, *recordingLower, *fakeTimer) {
	lower := &recordingLower{}
	timer := newFakeTimer()
	s := NewSender(Config{WindowSize: windowSize}, lower, timer, FixedTimeout(DefaultTimeout))
	return s, lower, timer
}

func TestSenderZeroLengthMessageIsNoop(t *testing.T) {
	require := require.New(t)
	s, lower, timer := newTestSender(10)

	s.OnMessage(harness.Message{})

	require.Empty(lower.sent)
	require.False(timer.IsSet())
	require.EqualValues(0, s.NextSeq())
}

func TestSenderSegmentsExactMultiple(t *testing.T) {
	require := require.New(t)
	s, lower, _ := newTestSender(10)

	msg := make(harness.Message, 2*packet.MaxPayload)
	s.OnMessage(msg)

	require.Len(lower.sent, 2)
	require.Equal(packet.MaxPayload, lower.sent[0].PayloadSize())
	require.Equal(packet.MaxPayload, lower.sent[1].PayloadSize())
}

func TestSenderSegmentsOneMaxPayloadUnit(t *testing.T) {
	require := require.New(t)
	s, lower, _ := newTestSender(10)

	s.OnMessage(make(harness.Message, packet.MaxPayload))

	require.Len(lower.sent, 1)
}

func TestSenderPerfectChannelTwoPackets(t *testing.T) {
	// A 200-byte message segments into a 119-byte packet (max payload
	// for a 128-byte packet with a 9-byte header) and an 81-byte remainder.
	require := require.New(t)
	s, lower, timer := newTestSender(10)

	msg := make(harness.Message, 200)
	s.OnMessage(msg)

	require.Len(lower.sent, 2)
	require.Equal(119, lower.sent[0].PayloadSize())
	require.Equal(81, lower.sent[1].PayloadSize())
	require.True(timer.IsSet())

	s.OnPacket(packet.NewAck(1))
	require.False(timer.IsSet())
	require.EqualValues(2, s.AckBase())
}

func TestSenderWindowBackpressure(t *testing.T) {
	require := require.New(t)
	s, lower, timer := newTestSender(10)

	for i := 0; i < 11; i++ {
		s.OnMessage(make(harness.Message, 1))
	}

	require.Len(lower.sent, 10)
	require.EqualValues(10, s.NextSeq())
	require.Equal(1, s.BacklogLen())
	require.True(timer.IsSet())

	s.OnPacket(packet.NewAck(0))
	require.Len(lower.sent, 11)
	require.Equal(0, s.BacklogLen())
}

func TestSenderIgnoresCorruptAck(t *testing.T) {
	require := require.New(t)
	s, _, timer := newTestSender(10)
	s.OnMessage(make(harness.Message, 1))
	require.True(timer.IsSet())

	ack := packet.NewAck(0)
	ack[packet.HeaderSize] ^= 0xFF // corrupt it
	s.OnPacket(ack)

	require.EqualValues(0, s.AckBase())
	require.True(timer.IsSet())
}

func TestSenderIgnoresStaleAndFutureAck(t *testing.T) {
	require := require.New(t)
	s, _, _ := newTestSender(10)
	s.OnMessage(make(harness.Message, 1))
	s.OnPacket(packet.NewAck(0))
	require.EqualValues(1, s.AckBase())

	s.OnPacket(packet.NewAck(-1)) // stale
	require.EqualValues(1, s.AckBase())

	s.OnPacket(packet.NewAck(5)) // future, nothing sent past seq 0
	require.EqualValues(1, s.AckBase())
}

func TestSenderTimeoutRetransmitsOutstandingRange(t *testing.T) {
	// A single loss is recovered by retransmitting the whole outstanding
	// suffix on timeout.
	require := require.New(t)
	s, lower, timer := newTestSender(10)

	for i := 0; i < 10; i++ {
		s.OnMessage(make(harness.Message, 1))
	}
	require.Len(lower.sent, 10)

	// seq=3 is "lost"; receiver ACKs up through 2 repeatedly, sender sees
	// no progress and eventually times out.
	s.OnPacket(packet.NewAck(2))
	s.OnPacket(packet.NewAck(2))
	lower.sent = nil
	s.OnTimeout()

	require.Len(lower.sent, 7) // seqs 3..9 retransmitted
	require.EqualValues(3, lower.sent[0].Seq())
	require.EqualValues(9, lower.sent[6].Seq())
	require.True(timer.IsSet())
}

func TestSenderAckLossRetransmitRetiresOnDuplicateAck(t *testing.T) {
	// A single packet's ack is dropped; the sender retransmits on
	// timeout and the receiver replies with the same cumulative ack
	// again.
	require := require.New(t)
	s, lower, timer := newTestSender(10)

	s.OnMessage(make(harness.Message, 1))
	require.Len(lower.sent, 1)

	s.OnTimeout()
	require.Len(lower.sent, 2)

	s.OnPacket(packet.NewAck(0))
	require.EqualValues(1, s.AckBase())
	require.False(timer.IsSet())
}

func TestSenderInvariantsHoldAfterEveryEvent(t *testing.T) {
	require := require.New(t)
	s, _, timer := newTestSender(4)

	check := func() {
		require.True(s.NextSeq()-s.AckBase() <= uint32(s.WindowSize()))
		require.Equal(s.IsTimerSet(), s.AckBase() != s.NextSeq())
		require.Equal(timer.IsSet(), s.AckBase() != s.NextSeq())
	}

	for i := 0; i < 10; i++ {
		s.OnMessage(make(harness.Message, 1))
		check()
	}
	s.OnTimeout()
	check()
	s.OnPacket(packet.NewAck(2))
	check()
	s.OnPacket(packet.NewAck(int64(s.NextSeq() - 1)))
	check()
}

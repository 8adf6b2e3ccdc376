package packet

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestChecksumDetectsBitFlip(t *testing.T) {
	require := require.New(t)

	pkt := NewData(1, []byte("the quick brown fox"))
	require.True(Validate(&pkt))

	pkt[HeaderSize] ^= 0x01 // flip one bit in the payload
	require.False(Validate(&pkt))
}

func TestChecksumCoversPaddingAndUnusedPayload(t *testing.T) {
	require := require.New(t)

	pkt := NewData(1, []byte("hi"))
	require.True(Validate(&pkt))

	// Mutate a payload byte past payload_size; the checksum must still
	// cover it since it is part of the wire byte string.
	pkt[HeaderSize+pkt.PayloadSize()+1] ^= 0xFF
	require.False(Validate(&pkt))
}

func TestChecksumStableAcrossReencode(t *testing.T) {
	require := require.New(t)

	a := NewData(42, []byte("payload"))
	b := NewData(42, []byte("payload"))
	require.Equal(a, b)
}

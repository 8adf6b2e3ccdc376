// Package packet defines the on-wire frame shared by the sender and the
// receiver: a fixed-size byte array with a checksum, a sequence number and
// a payload length in its header, and everything past the header treated
// as opaque payload.
package packet

import "encoding/binary"

const (
	// ChecksumSize is the width in bytes of the checksum field.
	ChecksumSize = 4
	// SeqSize is the width in bytes of the sequence field.
	SeqSize = 4
	// PayloadSizeFieldSize is the width in bytes of the payload_size field.
	PayloadSizeFieldSize = 1

	// HeaderSize is the total header width: checksum + seq + payload_size.
	HeaderSize = ChecksumSize + SeqSize + PayloadSizeFieldSize

	// Size is the fixed size of every packet on the wire.
	Size = 128

	// MaxPayload is the largest payload a single packet can carry.
	MaxPayload = Size - HeaderSize
)

// Packet is a fixed-size on-wire frame. Both data packets and ACK packets
// share this layout; an ACK repurposes the seq field to carry the
// cumulative ACK value and always sets payload_size to zero.
type Packet [Size]byte

// Checksum returns the checksum field.
func (p *Packet) Checksum() uint32 {
	return binary.LittleEndian.Uint32(p[:ChecksumSize])
}

// SetChecksum writes the checksum field.
func (p *Packet) SetChecksum(v uint32) {
	binary.LittleEndian.PutUint32(p[:ChecksumSize], v)
}

// Seq returns the sequence field. For ACK packets this is the cumulative
// ACK value, encoded as a raw uint32 bit pattern of a signed int32 so
// that the "no progress yet" sentinel of -1 round-trips correctly.
func (p *Packet) Seq() uint32 {
	return binary.LittleEndian.Uint32(p[ChecksumSize : ChecksumSize+SeqSize])
}

// SetSeq writes the sequence field.
func (p *Packet) SetSeq(v uint32) {
	binary.LittleEndian.PutUint32(p[ChecksumSize:ChecksumSize+SeqSize], v)
}

// AckValue interprets the seq field as a signed cumulative ACK value.
func (p *Packet) AckValue() int64 {
	return int64(int32(p.Seq()))
}

// SetAckValue writes a signed cumulative ACK value into the seq field.
func (p *Packet) SetAckValue(v int64) {
	p.SetSeq(uint32(int32(v)))
}

// PayloadSize returns the payload_size field, clamped defensively to
// [0, MaxPayload] in case a corrupted-but-checksum-valid packet (which
// cannot happen with a correct checksum, but the field is a single byte
// that could in principle exceed MaxPayload) ever reaches this accessor.
func (p *Packet) PayloadSize() int {
	n := int(p[HeaderSize-PayloadSizeFieldSize])
	if n < 0 {
		return 0
	}
	if n > MaxPayload {
		return MaxPayload
	}
	return n
}

// SetPayloadSize writes the payload_size field.
func (p *Packet) SetPayloadSize(n int) {
	p[HeaderSize-PayloadSizeFieldSize] = byte(n)
}

// Payload returns the payload region, truncated to PayloadSize().
func (p *Packet) Payload() []byte {
	return p[HeaderSize : HeaderSize+p.PayloadSize()]
}

// SetPayload copies b into the payload region and sets payload_size to
// len(b). b must not be longer than MaxPayload.
func (p *Packet) SetPayload(b []byte) {
	n := copy(p[HeaderSize:], b)
	p.SetPayloadSize(n)
}

// NewData builds a data packet with the given sequence number and
// payload, and freezes its checksum.
func NewData(seq uint32, payload []byte) Packet {
	var pkt Packet
	pkt.SetSeq(seq)
	pkt.SetPayload(payload)
	Encode(&pkt)
	return pkt
}

// NewAck builds an ACK packet carrying the given cumulative ACK value,
// and freezes its checksum.
func NewAck(ack int64) Packet {
	var pkt Packet
	pkt.SetAckValue(ack)
	pkt.SetPayloadSize(0)
	Encode(&pkt)
	return pkt
}

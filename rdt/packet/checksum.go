package packet

import "hash/crc32"

// checksumTable is the CRC-32 table for polynomial 0xEDB88320
// (reflected), the IEEE polynomial used throughout the Go ecosystem
// (zip, gzip, ...), so hash/crc32.IEEETable already is this table;
// naming it here documents that fact rather than hiding it behind a
// bare package reference.
var checksumTable = crc32.IEEETable

// Checksum computes the CRC-32 over bytes [ChecksumSize, Size), i.e.
// everything in the packet after the checksum field itself, including
// padding and any payload bytes beyond payload_size.
func Checksum(p *Packet) uint32 {
	return crc32.Checksum(p[ChecksumSize:], checksumTable)
}

// Encode computes and freezes the checksum field. Call once the rest of
// the packet (seq, payload_size, payload) has its final bytes; any
// mutation after Encode invalidates the checksum.
func Encode(p *Packet) {
	p.SetChecksum(Checksum(p))
}

// Validate reports whether the packet's checksum field matches the
// checksum recomputed over its current bytes. A corrupt packet MUST be
// dropped by the caller rather than acted on.
func Validate(p *Packet) bool {
	return p.Checksum() == Checksum(p)
}

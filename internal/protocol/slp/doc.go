// Package slp owns the serial link protocol packet framing.
//
// Ownership boundary:
// - header checksum and footer CRC-16
// - packet model and encoding
// - stream parsing, including resynchronization before the first valid header
//
// Parsed packets borrow their payload from the caller's buffer. A payload is
// valid only until that buffer is advanced; use Packet.Clone to retain one.
package slp

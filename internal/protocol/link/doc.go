// Package link runs one SLP connection over a duplex byte stream.
//
// Ownership boundary:
// - the read loop (transport bytes -> parsed packets -> Handler)
// - the write loop (FIFO send queue -> transport)
// - send jobs, their pooled buffers and exactly-once completion
//
// Reliable delivery, fragmentation and the connection handshake live in the
// layers above and talk to this package through Handler, Enqueue and Send.
package link

// Package session keeps a link.Conn running across transport failures.
//
// A Supervisor dials a fresh transport, runs a link.Conn on it until the
// connection ends, then waits out an exponential backoff and dials again.
// Consecutive dial or run failures count toward Config.MaxAttempts; a
// successful dial resets the count.
package session

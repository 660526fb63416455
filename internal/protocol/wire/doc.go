// Package wire provides the byte cursors shared by the schema interpreter and
// generated codecs, plus the Marshaler contract for hand-written codecs.
package wire

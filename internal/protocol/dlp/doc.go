// Package dlp holds Desktop Link Protocol messages built on the binary codec.
//
// Ownership boundary:
// - request/response envelopes and argument framing
// - message bodies declared with binary struct tags
// - generated codec methods for those bodies (dlp_codec.go)
package dlp

//go:generate go run ../../../cmd/codecgen generate -o dlp_codec.go

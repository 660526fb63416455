// Package codec encodes and decodes schema-bearing structs.
//
// Size, Write and Read prefer a value's own wire.Marshaler and wire.Unmarshaler
// methods when present, including methods emitted by codecgen. The Interpret
// variants always walk the derived schema, which is what generated methods are
// checked against.
package codec

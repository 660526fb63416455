// Package codecgen emits wire.Marshaler and wire.Unmarshaler methods from the
// schema model used by package codec. Generated methods carry a
// GeneratedBinary marker so the interpreter still treats the types as
// schema-bearing.
package codecgen

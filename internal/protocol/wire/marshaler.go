package wire

// Marshaler is implemented by types that encode themselves. When a type
// implements it, codecs use it instead of deriving a schema.
type Marshaler interface {
	SizeBinary() int
	WriteBinary(w *Writer) error
}

// Unmarshaler is the read half of Marshaler, usually on a pointer receiver.
type Unmarshaler interface {
	ReadBinary(r *Reader) error
}

// Generated marks Marshalers emitted by the code generator from a type's own
// schema. Such types are still treated as schema-bearing by the interpreter.
type Generated interface {
	GeneratedBinary()
}

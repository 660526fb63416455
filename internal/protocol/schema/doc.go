// Package schema derives binary layouts from struct declarations.
//
// A Schema is an ordered list of field descriptors built once per Go type from
// `binary` struct tags. Field order is declaration order and is the wire
// order. Recognized tag options:
//
//	-            field does not participate
//	big, little  byte order override for this field (or the type default on a Layout field)
//	if=Name      field is present only when the earlier bool field Name is true
//	len=Name     slice element count comes from the earlier integer field Name
//	len=rest     slice consumes the remainder of the input; last field only
//	size=N       fixed element count, or fixed byte size for strings
//	cstring      string is NUL terminated
//	pad=N        pad byte for fixed-size strings
//	nul          fixed-size string holds a NUL-terminated value
//	min=N|Name   on a Layout field: minimum encoded length of the type, either
//	             constant or read from a uint8 or uint16 field
//
// Type-level options are carried by a zero-size field of type Layout, which
// must be the first field and accepts only byte order and min options:
//
//	type RecordInfo struct {
//		_      schema.Layout `binary:"little,min=Length"`
//		Length uint16
//		...
//	}
package schema

package schema

import "fmt"

// Error is a schema configuration error, reported once when a type's schema
// is first built.
type Error struct {
	Type   string
	Field  string
	Reason string
}

func (e *Error) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("schema: type=%s: %s", e.Type, e.Reason)
	}
	return fmt.Sprintf("schema: type=%s field=%s: %s", e.Type, e.Field, e.Reason)
}

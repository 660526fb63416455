package codec

import "errors"

var (
	ErrNilValue   = errors.New("codec: nil value")
	ErrNotPointer = errors.New("codec: read target must be a non-nil pointer")
)

package dlp

import (
	"errors"
	"fmt"
)

var (
	ErrShortArgHeader   = errors.New("dlp: short argument header")
	ErrShortArgValue    = errors.New("dlp: short argument value")
	ErrArgID            = errors.New("dlp: argument id out of range")
	ErrTooManyArgs      = errors.New("dlp: too many arguments")
	ErrMissingArg       = errors.New("dlp: missing argument")
	ErrTruncated        = errors.New("dlp: truncated message")
	ErrResponseMismatch = errors.New("dlp: response does not match request")
)

// ResponseError is a non-zero result code reported by the device.
type ResponseError struct {
	Command Command
	Code    ResultCode
}

func (e *ResponseError) Error() string {
	return fmt.Sprintf("dlp: %s failed: %s", e.Command, e.Code)
}

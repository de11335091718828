package tag

import (
	"errors"
	"fmt"
)

var (
	ErrNotWritable   = errors.New("tag: not writable")
	ErrNotSupported  = errors.New("tag: NDEF not supported")
	ErrNotFormatted  = errors.New("tag: not NDEF formatted")
	ErrEmptyTag      = errors.New("tag: no NDEF message")
	ErrNotConnected  = errors.New("tag: not connected")
	ErrIOFailure     = errors.New("tag: I/O failure")
	ErrAlreadyClosed = errors.New("tag: already closed")
)

// IOError wraps a failure talking to the token. It matches ErrIOFailure.
type IOError struct {
	Op  string
	Err error
}

func (e *IOError) Error() string {
	return fmt.Sprintf("tag: %s: %v", e.Op, e.Err)
}

func (e *IOError) Unwrap() error {
	return e.Err
}

func (e *IOError) Is(target error) bool {
	return target == ErrIOFailure
}

package codec

import (
	"errors"
	"fmt"
)

var (
	ErrEmpty            = errors.New("codec: nothing to write")
	ErrCapacityExceeded = errors.New("codec: capacity exceeded")
)

// CapacityError reports an encoded message that does not fit the token.
type CapacityError struct {
	Needed    int
	Available int
}

func (e *CapacityError) Error() string {
	return fmt.Sprintf("codec: data too large for card (%d bytes > %d bytes)", e.Needed, e.Available)
}

func (e *CapacityError) Is(target error) bool {
	return target == ErrCapacityExceeded
}

package backend

import (
	"errors"
	"fmt"
)

var (
	ErrUnsuccessful = errors.New("backend: request unsuccessful")
	ErrCacheMiss    = errors.New("backend: cache miss")
)

// StatusError is a non-2xx HTTP answer from the service.
type StatusError struct {
	Code int
	Body string
}

func (e *StatusError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("backend: status %d", e.Code)
	}
	return fmt.Sprintf("backend: status %d: %s", e.Code, e.Body)
}

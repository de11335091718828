package station

import "errors"

var (
	ErrNoCardView    = errors.New("station: no card read since last write")
	ErrNoBackendView = errors.New("station: backend policies not fetched")
	ErrNothingToSync = errors.New("station: nothing to sync")
)

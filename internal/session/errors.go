package session

import (
	"errors"
	"fmt"
)

// ErrPermissionDenied is reported when the record permission was refused.
var ErrPermissionDenied = errors.New("record audio permission denied")

// BackendOpenError is reported when a capture or playback backend could not
// be opened. The controller stays idle when it happens.
type BackendOpenError struct {
	Op   string
	Path string
	Err  error
}

func (e *BackendOpenError) Error() string {
	return fmt.Sprintf("failed to open %s for %s: %v", e.Op, e.Path, e.Err)
}

func (e *BackendOpenError) Unwrap() error {
	return e.Err
}

package duplicatescanner

import (
	"errors"
	"fmt"
)

// ErrNotInitialized is returned by registry operations attempted before
// Initialize or after Teardown.
var ErrNotInitialized = errors.New("registry not initialized")

// ErrAlreadyInitialized is returned by Initialize when the registry already
// holds live bucket storage.
var ErrAlreadyInitialized = errors.New("registry already initialized")

// AccessError reports a path the traversal could not read. It is delivered to
// the Scanner's reporter and the offending entry is skipped; it never aborts
// the walk.
type AccessError struct {
	Path string
	Err  error
}

func (e *AccessError) Error() string {
	return fmt.Sprintf("can't access %s: %v", e.Path, e.Err)
}

func (e *AccessError) Unwrap() error { return e.Err }

// PathTooLongError reports a constructed path exceeding the maximum length.
// The entry is skipped; siblings continue to process.
type PathTooLongError struct {
	Path  string
	Limit int
}

func (e *PathTooLongError) Error() string {
	return fmt.Sprintf("path too long (%d bytes, limit %d): %s", len(e.Path), e.Limit, e.Path)
}

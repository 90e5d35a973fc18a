package order

import (
	"fmt"

	"github.com/go-faster/errors"
)

// ErrSubmitTimeout is returned when the persistence attempt did not complete
// within its deadline. The outcome is unknown: the write may still have
// happened, so callers must not treat this as "definitely failed".
var ErrSubmitTimeout = errors.New("order submission timed out, outcome unknown")

// PersistenceError indicates the store operation itself failed. Unlike a
// validation rejection it is retryable by the caller.
type PersistenceError struct {
	Op  string
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *PersistenceError) Unwrap() error { return e.Err }

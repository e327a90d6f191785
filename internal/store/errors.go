package store

import (
	"errors"
	"fmt"
)

// Persistence stages reported in PersistenceError.Op.
const (
	OpEncode = "encode"
	OpWrite  = "write"
	OpVerify = "verify"
	OpCommit = "commit"
)

// PersistenceError reports a failed Save. The previously stored database is
// still intact when it is returned.
type PersistenceError struct {
	Op   string
	Path string
	Err  error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("failed to persist decoration database (%s %s): %v", e.Op, e.Path, e.Err)
}

func (e *PersistenceError) Unwrap() error {
	return e.Err
}

// IsPersistence reports whether err is or wraps a PersistenceError.
func IsPersistence(err error) bool {
	var pe *PersistenceError
	return errors.As(err, &pe)
}

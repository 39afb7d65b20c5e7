package storage

import (
	"database/sql"
	"errors"
	"fmt"

	"masjid/internal/core"
)

// OperationError reports a failed database operation. It matches
// core.ErrDownstream so callers can classify it without knowing the driver.
type OperationError struct {
	Op  string
	Err error
}

func (e *OperationError) Error() string {
	return fmt.Sprintf("database operation '%s' failed: %v", e.Op, e.Err)
}

func (e *OperationError) Unwrap() error { return e.Err }

func (e *OperationError) Is(target error) bool { return target == core.ErrDownstream }

// wrap classifies err for op. sql.ErrNoRows becomes a not found error for
// the named entity.
func wrap(op, entity string, id int64, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, sql.ErrNoRows) {
		return notFound(entity, id)
	}
	return &OperationError{Op: op, Err: err}
}

func notFound(entity string, id int64) error {
	return fmt.Errorf("%w: %s %d", core.ErrNotFound, entity, id)
}

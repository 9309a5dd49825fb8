package jsonstore

import (
	"fmt"

	"github.com/pkg/errors"
)

var (
	// ErrKeyNotFound is returned (wrapped in a StoreError) when a read
	// targets a key the service holds no document for.
	ErrKeyNotFound = errors.New("key not found")
	// ErrKeyRequired is returned when an operation is invoked with an
	// empty key.
	ErrKeyRequired = errors.New("key is required")
)

// StoreError is the single error kind surfaced by the client. Transport
// failures, non-2xx statuses, malformed response bodies and unacknowledged
// envelopes all collapse into it; the original cause stays reachable through
// Unwrap for callers that care.
type StoreError struct {
	Op  string
	Key string
	Err error
}

func (e *StoreError) Error() string {
	if e == nil {
		return "<nil>"
	}
	if e.Key == "" {
		return fmt.Sprintf("jsonstore: %s: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("jsonstore: %s %q: %v", e.Op, e.Key, e.Err)
}

func (e *StoreError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// storeErr wraps err into a StoreError unless it already is one.
func storeErr(op, key string, err error) error {
	if err == nil {
		return nil
	}
	var se *StoreError
	if errors.As(err, &se) {
		return err
	}
	return &StoreError{Op: op, Key: key, Err: err}
}

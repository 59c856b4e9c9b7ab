package ledger

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrNotFound is returned when an operation references an id that is not
	// in the current record set.
	ErrNotFound = errors.New("transaction not found")

	// ErrNoSession is returned when the engine is used before a user's
	// ledger has been loaded.
	ErrNoSession = errors.New("no ledger loaded")
)

// Reason identifies why a field failed validation.
type Reason string

const (
	ReasonMissingDescription Reason = "missing_description"
	ReasonInvalidAmount      Reason = "invalid_amount"
	ReasonMissingDate        Reason = "missing_date"
	ReasonMissingCategory    Reason = "missing_category"
	ReasonInvalidKind        Reason = "invalid_kind"
)

// FieldError is a single field validation failure.
type FieldError struct {
	Field  string `json:"field"`
	Reason Reason `json:"reason"`
}

func (e FieldError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Reason)
}

// ValidationErrors collects every failing field of an input. It is returned
// whole so callers can surface all problems at once.
type ValidationErrors []FieldError

func (e ValidationErrors) Error() string {
	msgs := make([]string, len(e))
	for i, fe := range e {
		msgs[i] = fe.Error()
	}

	return "invalid input: " + strings.Join(msgs, ", ")
}

// PersistenceError wraps a storage failure. The mutation it interrupted is
// reported as failed; the engine stays usable.
type PersistenceError struct {
	Op  string
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("persisting ledger (%s): %v", e.Op, e.Err)
}

func (e *PersistenceError) Unwrap() error {
	return e.Err
}

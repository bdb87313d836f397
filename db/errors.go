package db

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors let handlers pick status codes with errors.Is.
var (
	ErrQuizNotFound     = errors.New("quiz not found")
	ErrQuestionNotFound = errors.New("question not found")
	ErrUserNotFound     = errors.New("user not found")

	// ErrDeleteFailed means the final quiz delete of a cascading delete
	// affected zero rows and the whole transaction was rolled back.
	ErrDeleteFailed = errors.New("quiz delete affected no rows")
)

// ValidationError reports a request that failed validation. Fields lists
// required fields that were absent; Reason overrides the message for
// failures that are not about missing fields. Index is >= 0 when the
// failure belongs to one record of a batch.
type ValidationError struct {
	Fields []string
	Reason string
	Index  int
}

func NewValidationError(fields ...string) *ValidationError {
	return &ValidationError{Fields: fields, Index: -1}
}

func (e *ValidationError) Error() string {
	msg := e.Reason
	if msg == "" {
		msg = "missing required fields: " + strings.Join(e.Fields, ", ")
	}
	if e.Index >= 0 {
		return fmt.Sprintf("question at index %d: %s", e.Index, msg)
	}
	return msg
}

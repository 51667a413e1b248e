// Package apperr defines the error kinds surfaced by the scheduling and
// assignment services. Callers branch on Kind instead of parsing messages.
package apperr

import (
	"errors"
	"fmt"

	"github.com/example/floor/internal/core/schedule"
)

// Kind classifies a failure.
type Kind string

const (
	KindNotFound           Kind = "not_found"
	KindInvalidState       Kind = "invalid_state"
	KindSchedulingConflict Kind = "scheduling_conflict"
	KindMissingLine        Kind = "missing_line"
	KindAssignmentConflict Kind = "assignment_conflict"
	KindInvalid            Kind = "invalid"
	KindInternal           Kind = "internal"
)

// ConflictingOrder identifies an order that blocks a requested window.
type ConflictingOrder struct {
	OrderID string       `json:"id"`
	Code    string       `json:"code"`
	Start   schedule.Day `json:"startDate"`
	End     schedule.Day `json:"endDate"`
	Status  string       `json:"status"`
}

// Error is a classified, user-presentable failure.
type Error struct {
	Kind      Kind
	Message   string
	Conflicts []ConflictingOrder
	Err       error
}

func (e *Error) Error() string {
	if e.Err != nil && e.Message == "" {
		return e.Err.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

// New creates an error of the given kind.
func New(kind Kind, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// Wrap classifies an existing error, keeping it in the chain.
func Wrap(kind Kind, err error, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...), Err: err}
}

func NotFound(format string, args ...any) error {
	return New(KindNotFound, format, args...)
}

func InvalidState(format string, args ...any) error {
	return New(KindInvalidState, format, args...)
}

func MissingLine(format string, args ...any) error {
	return New(KindMissingLine, format, args...)
}

func AssignmentConflict(format string, args ...any) error {
	return New(KindAssignmentConflict, format, args...)
}

func Invalid(format string, args ...any) error {
	return New(KindInvalid, format, args...)
}

// SchedulingConflict carries the blocking orders so callers can render them.
func SchedulingConflict(message string, conflicts []ConflictingOrder) error {
	return &Error{Kind: KindSchedulingConflict, Message: message, Conflicts: conflicts}
}

// KindOf returns the kind of the first classified error in err's chain,
// or KindInternal for unclassified errors.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindInternal
}

// Is reports whether err's chain carries the given kind.
func Is(err error, kind Kind) bool {
	return err != nil && KindOf(err) == kind
}

// ConflictsOf returns the conflicting orders attached to err, if any.
func ConflictsOf(err error) []ConflictingOrder {
	var e *Error
	if errors.As(err, &e) {
		return e.Conflicts
	}
	return nil
}

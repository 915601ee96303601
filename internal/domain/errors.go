package domain

import (
	"errors"
	"fmt"
)

// Error kinds. Every service operation fails with exactly one of these;
// callers branch with errors.Is and never retry internally.
var (
	ErrValidation        = errors.New("validation error")
	ErrPolicyViolation   = errors.New("policy violation")
	ErrConflict          = errors.New("reservation conflict")
	ErrInvalidTransition = errors.New("invalid transition")
	ErrNotFound          = errors.New("not found")
	ErrForbidden         = errors.New("forbidden")

	// ErrToolUnavailable rejects creation against a tool whose listing is
	// unavailable or archived.
	ErrToolUnavailable = errors.New("tool is not available for reservations")
)

// PolicyReason identifies which availability rule a candidate range broke.
type PolicyReason string

const (
	PolicyReasonTooSoon       PolicyReason = "TOO_SOON"
	PolicyReasonTooLong       PolicyReason = "TOO_LONG"
	PolicyReasonInvertedRange PolicyReason = "INVERTED_RANGE"
)

// PolicyError is a policy violation carrying the specific rule broken so the
// caller can surface an actionable message. errors.Is(err, ErrPolicyViolation)
// matches it.
type PolicyError struct {
	Reason PolicyReason
	msg    string
}

func (e *PolicyError) Error() string { return e.msg }

func (e *PolicyError) Unwrap() error { return ErrPolicyViolation }

func newPolicyError(reason PolicyReason, format string, args ...any) *PolicyError {
	return &PolicyError{Reason: reason, msg: fmt.Sprintf(format, args...)}
}

// NewValidationError wraps ErrValidation with a caller-facing message.
func NewValidationError(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrValidation, fmt.Sprintf(format, args...))
}

// NewConflictError wraps ErrConflict with the overlapping reservation's range.
func NewConflictError(existing DateRange) error {
	return fmt.Errorf("%w: overlaps existing reservation %s..%s",
		ErrConflict,
		existing.Start.Format(DateLayout),
		existing.End.Format(DateLayout))
}

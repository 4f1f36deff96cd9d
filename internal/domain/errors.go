package domain

import "errors"

var (
	// ErrNotFound is returned when the requested record does not exist.
	// Keeping this sentinel in domain allows adapters to map it consistently to 404.
	ErrNotFound = errors.New("resource not found")
	// ErrValidation marks a malformed or non-conforming submission envelope.
	// Surfaced as an OperationOutcome with severity "error"; never retried.
	ErrValidation = errors.New("invalid submission")
	// ErrAlreadyCancelled rejects a cancellation against a claim whose status
	// is already cancelled. No writes happen when this is returned.
	ErrAlreadyCancelled = errors.New("claim already cancelled")
	// ErrCancelledTarget rejects an update whose resolved target version has
	// been cancelled.
	ErrCancelledTarget = errors.New("cannot update a cancelled claim")
	// ErrProcessingFailed aborts the whole submission when an internal step
	// fails. The underlying cause stays in the wrapped error; the caller sees
	// one structured error document.
	ErrProcessingFailed = errors.New("unable to process submission")
	// ErrUnsupportedChannel marks a subscription channel this core cannot
	// dispatch to. Non-fatal: the deferred resolution still completes.
	ErrUnsupportedChannel = errors.New("unsupported subscription channel")
)

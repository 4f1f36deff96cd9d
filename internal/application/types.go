package application

import (
	"encoding/json"
	"time"

	"github.com/Tubbz-alt/prior-auth/internal/domain"
)

type Config struct {
	// BaseURL prefixes the request reference stamped on generated responses.
	// Injected at startup; there is no request-derived fallback.
	BaseURL string
	// ResolutionDelay is how long a Pending decision waits before its
	// deferred outcome is applied.
	ResolutionDelay time.Duration
}

// SubmitResult is what the transport layer needs to answer a successful
// $submit: the generated response envelope plus the identifiers for the
// Location header.
type SubmitResult struct {
	ResponseID     string
	Patient        string
	ResponseBundle domain.Bundle
}

// DeferredResolution carries everything a scheduled task needs to re-run the
// update path after the delay: the resolution is pre-decided at submission
// time, and the token fences the one-shot against the pending store.
type DeferredResolution struct {
	ClaimID     string
	Patient     string
	Disposition string
	Token       string
	Bundle      json.RawMessage
}

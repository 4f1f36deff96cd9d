package domain

import (
	"encoding/json"
	"time"
)

// Claim statuses the workflow engine acts on. Other FHIR claim statuses
// (draft, entered-in-error) pass through untouched.
const (
	ClaimStatusActive    = "active"
	ClaimStatusCancelled = "cancelled"
)

// Dispositions of a prior-authorization decision.
const (
	DispositionGranted   = "Granted"
	DispositionPending   = "Pending"
	DispositionDenied    = "Denied"
	DispositionCancelled = "Cancelled"
)

// Response outcomes: queued while a Pending decision awaits deferred
// resolution, complete otherwise.
const (
	OutcomeQueued   = "queued"
	OutcomeComplete = "complete"
)

// Response statuses mirror the claim lifecycle on the response record.
const (
	ResponseStatusActive    = "active"
	ResponseStatusCancelled = "cancelled"
)

// UsePreauthorization is the fixed use kind stamped on every generated
// ClaimResponse.
const UsePreauthorization = "preauthorization"

// Subscription channel types this core can dispatch to.
const (
	ChannelRestHook  = "rest-hook"
	ChannelWebsocket = "websocket"
)

// ClaimRecord is one stored claim version. Related, when set, points at the
// prior version this one replaces; the chain of Related pointers is acyclic
// and strictly backward in time.
type ClaimRecord struct {
	ID        string
	Patient   string
	Status    string
	Related   *string
	Resource  json.RawMessage
	CreatedAt time.Time
}

// ClaimItemRecord is one line item under a claim version, keyed by
// (ClaimID, Sequence).
type ClaimItemRecord struct {
	ClaimID  string
	Sequence int
	Status   string
}

// BundleRecord stores a full submitted or generated envelope, sharing its id
// with the triggering claim or response.
type BundleRecord struct {
	ID        string
	Patient   string
	Resource  json.RawMessage
	CreatedAt time.Time
}

// ClaimResponseRecord is one adjudication result. Records are never mutated;
// a later resolution for the same claim produces a new record. ClaimID is the
// most-recent version id of the referenced claim at creation time.
type ClaimResponseRecord struct {
	ID        string
	ClaimID   string
	Patient   string
	Status    string
	Resource  json.RawMessage
	CreatedAt time.Time
}

// SubscriptionRecord is a subscriber registration, read-only for this core.
// Registrations are keyed by the claim version they watch.
type SubscriptionRecord struct {
	ID          string
	ClaimID     string
	Patient     string
	ChannelType string
	Endpoint    string
}

// PendingResolution tracks a scheduled deferred adjudication so a later
// cancellation can invalidate it before it fires. Token fences the one-shot:
// whoever deletes the matching token owns the resolution.
type PendingResolution struct {
	ClaimID     string          `json:"claim_id"`
	Patient     string          `json:"patient"`
	Disposition string          `json:"disposition"`
	Token       string          `json:"token"`
	Bundle      json.RawMessage `json:"bundle"`
	DueAt       time.Time       `json:"due_at"`
}

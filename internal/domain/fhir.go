package domain

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// FHIR resource shapes are modeled with only the fields this service reads or
// writes. Supporting resources inside a submission bundle are carried through
// as raw JSON so the service never depends on their schemas; full profile
// validation belongs to an external document-model layer.

const (
	ResourceTypeBundle           = "Bundle"
	ResourceTypeClaim            = "Claim"
	ResourceTypeClaimResponse    = "ClaimResponse"
	ResourceTypeOperationOutcome = "OperationOutcome"
	ResourceTypeSubscription     = "Subscription"
)

// ItemCancelledExtension is the modifier extension marking a single claim line
// item as cancelled independently of the claim-level status.
const ItemCancelledExtension = "http://hl7.org/fhir/us/davinci-pas/StructureDefinition/extension-itemCancelled"

type Coding struct {
	System  string `json:"system,omitempty"`
	Code    string `json:"code,omitempty"`
	Display string `json:"display,omitempty"`
}

type CodeableConcept struct {
	Coding []Coding `json:"coding,omitempty"`
	Text   string   `json:"text,omitempty"`
}

type Identifier struct {
	System string `json:"system,omitempty"`
	Value  string `json:"value,omitempty"`
}

type Reference struct {
	Reference  string      `json:"reference,omitempty"`
	Display    string      `json:"display,omitempty"`
	Identifier *Identifier `json:"identifier,omitempty"`
}

// ID extracts the bare id from a reference of the form "Type/id", a plain id,
// or an identifier value when no literal reference is present.
func (r Reference) ID() string {
	if r.Reference != "" {
		if idx := strings.LastIndex(r.Reference, "/"); idx >= 0 {
			return r.Reference[idx+1:]
		}
		return r.Reference
	}
	if r.Identifier != nil {
		return r.Identifier.Value
	}
	return ""
}

type Extension struct {
	URL          string `json:"url"`
	ValueBoolean *bool  `json:"valueBoolean,omitempty"`
}

type BundleEntry struct {
	FullURL  string          `json:"fullUrl,omitempty"`
	Resource json.RawMessage `json:"resource,omitempty"`
}

type Bundle struct {
	ResourceType string        `json:"resourceType"`
	ID           string        `json:"id,omitempty"`
	Type         string        `json:"type,omitempty"`
	Entry        []BundleEntry `json:"entry,omitempty"`
}

type RelatedClaim struct {
	Claim        Reference        `json:"claim,omitempty"`
	Relationship *CodeableConcept `json:"relationship,omitempty"`
}

type ClaimItem struct {
	Sequence          int         `json:"sequence"`
	ModifierExtension []Extension `json:"modifierExtension,omitempty"`
}

// Cancelled reports whether the item carries the item-level cancellation
// modifier extension with a true value.
func (i ClaimItem) Cancelled() bool {
	for _, ext := range i.ModifierExtension {
		if ext.URL == ItemCancelledExtension && ext.ValueBoolean != nil {
			return *ext.ValueBoolean
		}
	}
	return false
}

type Claim struct {
	ResourceType string           `json:"resourceType"`
	ID           string           `json:"id,omitempty"`
	Status       string           `json:"status,omitempty"`
	Type         *CodeableConcept `json:"type,omitempty"`
	Patient      Reference        `json:"patient,omitempty"`
	Insurer      Reference        `json:"insurer,omitempty"`
	Related      []RelatedClaim   `json:"related,omitempty"`
	Item         []ClaimItem      `json:"item,omitempty"`
}

// ReplacesID returns the id of the claim this one replaces, resolved from the
// first related entry with relationship code "replaces". Empty when the claim
// is not an update.
func (c Claim) ReplacesID() string {
	for _, rel := range c.Related {
		if rel.Relationship == nil {
			continue
		}
		for _, code := range rel.Relationship.Coding {
			if code.Code == RelationshipReplaces {
				return rel.Claim.ID()
			}
		}
	}
	return ""
}

// RelationshipReplaces is the related-claim relationship code marking an
// update submission.
const RelationshipReplaces = "replaces"

type ClaimResponse struct {
	ResourceType string           `json:"resourceType"`
	ID           string           `json:"id,omitempty"`
	Status       string           `json:"status,omitempty"`
	Type         *CodeableConcept `json:"type,omitempty"`
	Use          string           `json:"use,omitempty"`
	Patient      Reference        `json:"patient,omitempty"`
	Created      time.Time        `json:"created,omitempty"`
	Insurer      Reference        `json:"insurer,omitempty"`
	Request      Reference        `json:"request,omitempty"`
	Outcome      string           `json:"outcome,omitempty"`
	Disposition  string           `json:"disposition,omitempty"`
	PreAuthRef   string           `json:"preAuthRef,omitempty"`
}

type OperationOutcomeIssue struct {
	Severity    string `json:"severity"`
	Code        string `json:"code"`
	Diagnostics string `json:"diagnostics,omitempty"`
}

type OperationOutcome struct {
	ResourceType string                  `json:"resourceType"`
	Issue        []OperationOutcomeIssue `json:"issue"`
}

// NewOperationOutcome builds a single-issue outcome document used for every
// error surfaced at the submission boundary.
func NewOperationOutcome(severity, code, diagnostics string) OperationOutcome {
	return OperationOutcome{
		ResourceType: ResourceTypeOperationOutcome,
		Issue: []OperationOutcomeIssue{
			{Severity: severity, Code: code, Diagnostics: diagnostics},
		},
	}
}

type SubscriptionChannel struct {
	Type     string `json:"type,omitempty"`
	Endpoint string `json:"endpoint,omitempty"`
}

type Subscription struct {
	ResourceType string              `json:"resourceType"`
	ID           string              `json:"id,omitempty"`
	Status       string              `json:"status,omitempty"`
	Criteria     string              `json:"criteria,omitempty"`
	Channel      SubscriptionChannel `json:"channel,omitempty"`
}

// ResourceTypeOf peeks at the resourceType discriminator of a raw resource.
func ResourceTypeOf(raw json.RawMessage) string {
	var probe struct {
		ResourceType string `json:"resourceType"`
	}
	if err := json.Unmarshal(raw, &probe); err != nil {
		return ""
	}
	return probe.ResourceType
}

// DecodeClaim parses a raw bundle entry as a Claim.
func DecodeClaim(raw json.RawMessage) (Claim, error) {
	var claim Claim
	if err := json.Unmarshal(raw, &claim); err != nil {
		return Claim{}, fmt.Errorf("decode claim resource: %w", err)
	}
	if claim.ResourceType != ResourceTypeClaim {
		return Claim{}, fmt.Errorf("%w: first bundle entry is %q, want Claim", ErrValidation, claim.ResourceType)
	}
	return claim, nil
}

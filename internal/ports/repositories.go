package ports

import (
	"context"

	"github.com/Tubbz-alt/prior-auth/internal/domain"
)

// ClaimRepository persists claim versions and the replace-chain links between
// them. CreateWithItems exists to keep a claim version and its line items
// consistent under a single transaction.
type ClaimRepository interface {
	CreateWithItems(ctx context.Context, claim domain.ClaimRecord, items []domain.ClaimItemRecord) error
	// Get loads a claim by id scoped to a patient.
	Get(ctx context.Context, id, patient string) (domain.ClaimRecord, error)
	// GetByID loads a claim by id alone, used during chain walks where the
	// patient scope is already established.
	GetByID(ctx context.Context, id string) (domain.ClaimRecord, error)
	// Status returns only the status field of the matching claim.
	Status(ctx context.Context, id string) (string, error)
	// Related returns the prior-version pointer of the matching claim, nil
	// when the claim is the oldest version.
	Related(ctx context.Context, id string) (*string, error)
	// FindByRelated returns the claim whose Related field equals id: the next
	// newer version in the chain. domain.ErrNotFound when id is the newest.
	FindByRelated(ctx context.Context, id string) (domain.ClaimRecord, error)
	// UpdateStatus rewrites the status of one claim version and, when
	// resource is non-nil, the stored resource document alongside it.
	UpdateStatus(ctx context.Context, id, status string, resource []byte) error
	Delete(ctx context.Context, id, patient string) error
}

// ClaimItemRepository persists line items keyed by (claim version id, sequence).
type ClaimItemRepository interface {
	Insert(ctx context.Context, item domain.ClaimItemRecord) error
	// Status returns the status of the item with the given sequence under the
	// given claim version, or domain.ErrNotFound.
	Status(ctx context.Context, claimID string, sequence int) (string, error)
	// Reassign moves an item from a prior claim version to a new one and
	// re-derives its status, implementing the update item-merge rule.
	Reassign(ctx context.Context, priorClaimID string, sequence int, newClaimID, status string) error
	// CancelAll marks every item under the given claim version cancelled.
	CancelAll(ctx context.Context, claimID string) error
}

// BundleRepository stores submitted and generated envelopes verbatim.
type BundleRepository interface {
	Create(ctx context.Context, bundle domain.BundleRecord) error
	Get(ctx context.Context, id, patient string) (domain.BundleRecord, error)
	Delete(ctx context.Context, id, patient string) error
}

// ClaimResponseRepository stores adjudication results. Records are insert-only;
// a new resolution for the same claim produces a new record.
type ClaimResponseRepository interface {
	Create(ctx context.Context, response domain.ClaimResponseRecord) error
	Get(ctx context.Context, id, patient string) (domain.ClaimResponseRecord, error)
	Delete(ctx context.Context, id, patient string) error
}

// SubscriptionRepository reads subscriber registrations. Write access belongs
// to the subscription intake service, not this core.
type SubscriptionRepository interface {
	// FindForClaim returns the subscription registered against
	// (claimID, patient), or domain.ErrNotFound.
	FindForClaim(ctx context.Context, claimID, patient string) (domain.SubscriptionRecord, error)
}

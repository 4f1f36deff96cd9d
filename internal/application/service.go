package application

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/Tubbz-alt/prior-auth/internal/domain"
	"github.com/Tubbz-alt/prior-auth/internal/ports"
)

// Service coordinates the prior-authorization claim workflow: submission
// intake, version-chain resolution, cancellation cascades, simulated
// adjudication and deferred resolution. It is the sole writer of claim, item,
// bundle and response records.
type Service struct {
	cfg           Config
	claims        ports.ClaimRepository
	items         ports.ClaimItemRepository
	bundles       ports.BundleRepository
	responses     ports.ClaimResponseRepository
	subscriptions ports.SubscriptionRepository
	pending       ports.PendingResolutionStore
	scheduler     ports.DeferredScheduler
	notifier      ports.NotificationSender
	adjudicator   *Adjudicator
	logger        *slog.Logger
	nowFn         func() time.Time
}

type Dependencies struct {
	Config        Config
	Claims        ports.ClaimRepository
	Items         ports.ClaimItemRepository
	Bundles       ports.BundleRepository
	Responses     ports.ClaimResponseRepository
	Subscriptions ports.SubscriptionRepository
	Pending       ports.PendingResolutionStore
	Scheduler     ports.DeferredScheduler
	Notifier      ports.NotificationSender
	Adjudicator   *Adjudicator
	Logger        *slog.Logger
}

func NewService(deps Dependencies) *Service {
	s := &Service{
		cfg:           deps.Config,
		claims:        deps.Claims,
		items:         deps.Items,
		bundles:       deps.Bundles,
		responses:     deps.Responses,
		subscriptions: deps.Subscriptions,
		pending:       deps.Pending,
		scheduler:     deps.Scheduler,
		notifier:      deps.Notifier,
		adjudicator:   deps.Adjudicator,
		logger:        deps.Logger,
		nowFn:         func() time.Time { return time.Now().UTC() },
	}
	if s.cfg.ResolutionDelay <= 0 {
		s.cfg.ResolutionDelay = 30 * time.Second
	}
	if s.logger == nil {
		s.logger = slog.Default()
	}
	return s
}

// Submit processes one submission envelope: classifies it as a cancellation,
// an update or a new claim, persists the resulting records, adjudicates, and
// returns the generated response envelope.
func (s *Service) Submit(ctx context.Context, bundle domain.Bundle) (SubmitResult, error) {
	claim, err := validateSubmission(bundle)
	if err != nil {
		return SubmitResult{}, err
	}
	patient := claim.Patient.ID()

	if claim.Status == domain.ClaimStatusCancelled {
		return s.submitCancellation(ctx, bundle, claim, patient)
	}
	return s.submitClaim(ctx, bundle, claim, patient)
}

// validateSubmission enforces the envelope contract: a Bundle with at least
// one entry whose first entry is a Claim.
func validateSubmission(bundle domain.Bundle) (domain.Claim, error) {
	if bundle.ResourceType != domain.ResourceTypeBundle {
		return domain.Claim{}, fmt.Errorf("%w: submission must be a Bundle, got %q", domain.ErrValidation, bundle.ResourceType)
	}
	if len(bundle.Entry) == 0 || len(bundle.Entry[0].Resource) == 0 {
		return domain.Claim{}, fmt.Errorf("%w: submission Bundle has no entries", domain.ErrValidation)
	}
	if rt := domain.ResourceTypeOf(bundle.Entry[0].Resource); rt != domain.ResourceTypeClaim {
		return domain.Claim{}, fmt.Errorf("%w: first bundle entry is %q, want Claim", domain.ErrValidation, rt)
	}
	return domain.DecodeClaim(bundle.Entry[0].Resource)
}

// submitCancellation routes a cancelled-status claim through the cancellation
// cascade. The claim must already exist; nothing is written on failure.
func (s *Service) submitCancellation(ctx context.Context, bundle domain.Bundle, claim domain.Claim, patient string) (SubmitResult, error) {
	if claim.ID == "" {
		return SubmitResult{}, fmt.Errorf("%w: cancellation requires the claim id", domain.ErrValidation)
	}
	if err := s.cancelClaim(ctx, claim.ID, patient); err != nil {
		return SubmitResult{}, err
	}
	return s.generateResponse(ctx, bundle, claim, responseParams{
		ResponseID:  uuid.NewString(),
		ClaimID:     claim.ID,
		Patient:     patient,
		Disposition: domain.DispositionCancelled,
		Status:      domain.ResponseStatusCancelled,
	})
}

// submitClaim stores a new claim version (with or without a replace link),
// adjudicates it, and schedules the deferred resolution on a Pending outcome.
func (s *Service) submitClaim(ctx context.Context, bundle domain.Bundle, claim domain.Claim, patient string) (SubmitResult, error) {
	id := uuid.NewString()

	var related *string
	if replaces := claim.ReplacesID(); replaces != "" {
		resolved, err := s.mostRecentID(ctx, replaces)
		if err != nil {
			return SubmitResult{}, fmt.Errorf("%w: resolve update target %s: %v", domain.ErrProcessingFailed, replaces, err)
		}
		status, err := s.claims.Status(ctx, resolved)
		if err != nil {
			return SubmitResult{}, fmt.Errorf("%w: update target %s: %v", domain.ErrProcessingFailed, resolved, err)
		}
		if status == domain.ClaimStatusCancelled {
			s.logger.WarnContext(ctx, "update rejected: target claim cancelled",
				"module", "application",
				"operation", "submit",
				"outcome", "failure",
				"claim_id", resolved,
			)
			return SubmitResult{}, fmt.Errorf("%w: claim %s", domain.ErrCancelledTarget, resolved)
		}
		related = &resolved
	}

	claimResource, err := setResourceID(bundle.Entry[0].Resource, id)
	if err != nil {
		return SubmitResult{}, fmt.Errorf("%w: rewrite claim id: %v", domain.ErrProcessingFailed, err)
	}

	record := domain.ClaimRecord{
		ID:        id,
		Patient:   patient,
		Status:    claim.Status,
		Related:   related,
		Resource:  claimResource,
		CreatedAt: s.nowFn(),
	}

	newItems, merges := s.planItems(ctx, claim, id, related)
	if err := s.claims.CreateWithItems(ctx, record, newItems); err != nil {
		return SubmitResult{}, fmt.Errorf("%w: store claim: %v", domain.ErrProcessingFailed, err)
	}
	for _, m := range merges {
		if err := s.items.Reassign(ctx, *related, m.Sequence, id, m.Status); err != nil {
			return SubmitResult{}, fmt.Errorf("%w: merge item %d: %v", domain.ErrProcessingFailed, m.Sequence, err)
		}
	}

	submitted := bundle
	submitted.ID = id
	submitted.Entry = append([]domain.BundleEntry{{FullURL: id, Resource: claimResource}}, bundle.Entry[1:]...)
	submittedRaw, err := json.Marshal(submitted)
	if err != nil {
		return SubmitResult{}, fmt.Errorf("%w: encode submission bundle: %v", domain.ErrProcessingFailed, err)
	}
	if err := s.bundles.Create(ctx, domain.BundleRecord{
		ID:        id,
		Patient:   patient,
		Resource:  submittedRaw,
		CreatedAt: s.nowFn(),
	}); err != nil {
		return SubmitResult{}, fmt.Errorf("%w: store submission bundle: %v", domain.ErrProcessingFailed, err)
	}

	disposition := s.adjudicator.Decide()
	claim.ID = id
	result, err := s.generateResponse(ctx, submitted, claim, responseParams{
		ResponseID:  uuid.NewString(),
		ClaimID:     id,
		Patient:     patient,
		Disposition: disposition,
		Status:      domain.ResponseStatusActive,
	})
	if err != nil {
		return SubmitResult{}, err
	}

	if disposition == domain.DispositionPending {
		s.scheduleResolution(ctx, id, patient, s.adjudicator.DecideDeferred(), submittedRaw)
	}
	return result, nil
}

type itemMerge struct {
	Sequence int
	Status   string
}

// planItems applies the item-merge rule. For a new submission every line item
// is inserted fresh under the new claim id. For an update, items already
// present under the resolved prior version are reassigned with a re-derived
// status, and unseen sequences are inserted as new. An item-level cancellation
// flag forces that item to cancelled regardless of the claim-level status.
func (s *Service) planItems(ctx context.Context, claim domain.Claim, newID string, related *string) ([]domain.ClaimItemRecord, []itemMerge) {
	var inserts []domain.ClaimItemRecord
	var merges []itemMerge
	for _, item := range claim.Item {
		status := claim.Status
		if item.Cancelled() {
			status = domain.ClaimStatusCancelled
		}
		if related != nil {
			if _, err := s.items.Status(ctx, *related, item.Sequence); err == nil {
				merges = append(merges, itemMerge{Sequence: item.Sequence, Status: status})
				continue
			}
		}
		inserts = append(inserts, domain.ClaimItemRecord{
			ClaimID:  newID,
			Sequence: item.Sequence,
			Status:   status,
		})
	}
	return inserts, merges
}

type responseParams struct {
	ResponseID  string
	ClaimID     string
	Patient     string
	Disposition string
	Status      string
}

// generateResponse builds the ClaimResponse document, wraps it in an envelope
// with every entry of the original submission appended, and persists the
// envelope as both a BundleRecord and a ClaimResponseRecord. The response
// record is stamped with the most-recent version id of the claim at creation
// time.
func (s *Service) generateResponse(ctx context.Context, bundle domain.Bundle, claim domain.Claim, p responseParams) (SubmitResult, error) {
	mostRecent, err := s.mostRecentID(ctx, p.ClaimID)
	if err != nil {
		return SubmitResult{}, fmt.Errorf("%w: resolve response claim id: %v", domain.ErrProcessingFailed, err)
	}

	outcome := domain.OutcomeComplete
	if p.Disposition == domain.DispositionPending {
		outcome = domain.OutcomeQueued
	}
	insurer := claim.Insurer
	if insurer == (domain.Reference{}) {
		insurer = domain.Reference{Display: "Unknown"}
	}

	response := domain.ClaimResponse{
		ResourceType: domain.ResourceTypeClaimResponse,
		ID:           p.ResponseID,
		Status:       p.Status,
		Type:         claim.Type,
		Use:          domain.UsePreauthorization,
		Patient:      claim.Patient,
		Created:      s.nowFn(),
		Insurer:      insurer,
		Request: domain.Reference{
			Reference: fmt.Sprintf("%s/Claim?identifier=%s&patient.identifier=%s", s.cfg.BaseURL, p.ClaimID, p.Patient),
		},
		Outcome:     outcome,
		Disposition: p.Disposition,
		PreAuthRef:  p.ResponseID,
	}
	responseRaw, err := json.Marshal(response)
	if err != nil {
		return SubmitResult{}, fmt.Errorf("%w: encode claim response: %v", domain.ErrProcessingFailed, err)
	}

	responseBundle := domain.Bundle{
		ResourceType: domain.ResourceTypeBundle,
		ID:           p.ResponseID,
		Type:         "collection",
		Entry:        append([]domain.BundleEntry{{FullURL: p.ResponseID, Resource: responseRaw}}, bundle.Entry...),
	}
	envelopeRaw, err := json.Marshal(responseBundle)
	if err != nil {
		return SubmitResult{}, fmt.Errorf("%w: encode response bundle: %v", domain.ErrProcessingFailed, err)
	}

	now := s.nowFn()
	if err := s.bundles.Create(ctx, domain.BundleRecord{
		ID:        p.ResponseID,
		Patient:   p.Patient,
		Resource:  envelopeRaw,
		CreatedAt: now,
	}); err != nil {
		return SubmitResult{}, fmt.Errorf("%w: store response bundle: %v", domain.ErrProcessingFailed, err)
	}
	if err := s.responses.Create(ctx, domain.ClaimResponseRecord{
		ID:        p.ResponseID,
		ClaimID:   mostRecent,
		Patient:   p.Patient,
		Status:    p.Status,
		Resource:  envelopeRaw,
		CreatedAt: now,
	}); err != nil {
		return SubmitResult{}, fmt.Errorf("%w: store claim response: %v", domain.ErrProcessingFailed, err)
	}

	s.logger.InfoContext(ctx, "claim response generated",
		"module", "application",
		"operation", "generate_response",
		"outcome", "success",
		"response_id", p.ResponseID,
		"claim_id", mostRecent,
		"disposition", p.Disposition,
	)
	return SubmitResult{
		ResponseID:     p.ResponseID,
		Patient:        p.Patient,
		ResponseBundle: responseBundle,
	}, nil
}

// setResourceID rewrites the id of a raw resource document while preserving
// every other field verbatim.
func setResourceID(raw json.RawMessage, id string) (json.RawMessage, error) {
	var doc map[string]any
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, err
	}
	doc["id"] = id
	return json.Marshal(doc)
}

// setResourceStatus rewrites the status of a raw resource document.
func setResourceStatus(raw json.RawMessage, status string) (json.RawMessage, error) {
	if len(raw) == 0 {
		return raw, nil
	}
	var doc map[string]any
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, err
	}
	doc["status"] = status
	return json.Marshal(doc)
}

var errChainTooDeep = errors.New("version chain exceeds hop limit")

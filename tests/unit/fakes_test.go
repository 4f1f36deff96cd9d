package unit

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/Tubbz-alt/prior-auth/internal/domain"
)

// In-memory port implementations backing the service fixture. Each fake keeps
// the minimum state needed to observe the workflow's writes.

type fakeItems struct {
	mu    sync.Mutex
	items map[string]map[int]string
}

func newFakeItems() *fakeItems {
	return &fakeItems{items: map[string]map[int]string{}}
}

func (f *fakeItems) Insert(_ context.Context, item domain.ClaimItemRecord) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.items[item.ClaimID] == nil {
		f.items[item.ClaimID] = map[int]string{}
	}
	f.items[item.ClaimID][item.Sequence] = item.Status
	return nil
}

func (f *fakeItems) Status(_ context.Context, claimID string, sequence int) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	status, ok := f.items[claimID][sequence]
	if !ok {
		return "", domain.ErrNotFound
	}
	return status, nil
}

func (f *fakeItems) Reassign(_ context.Context, priorClaimID string, sequence int, newClaimID, status string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.items[priorClaimID][sequence]; !ok {
		return domain.ErrNotFound
	}
	delete(f.items[priorClaimID], sequence)
	if f.items[newClaimID] == nil {
		f.items[newClaimID] = map[int]string{}
	}
	f.items[newClaimID][sequence] = status
	return nil
}

func (f *fakeItems) CancelAll(_ context.Context, claimID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for seq := range f.items[claimID] {
		f.items[claimID][seq] = domain.ClaimStatusCancelled
	}
	return nil
}

func (f *fakeItems) statuses(claimID string) map[int]string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := map[int]string{}
	for seq, status := range f.items[claimID] {
		out[seq] = status
	}
	return out
}

type fakeClaims struct {
	mu    sync.Mutex
	order []string
	byID  map[string]domain.ClaimRecord
	items *fakeItems
}

func newFakeClaims(items *fakeItems) *fakeClaims {
	return &fakeClaims{byID: map[string]domain.ClaimRecord{}, items: items}
}

func (f *fakeClaims) CreateWithItems(ctx context.Context, claim domain.ClaimRecord, items []domain.ClaimItemRecord) error {
	f.mu.Lock()
	if _, exists := f.byID[claim.ID]; exists {
		f.mu.Unlock()
		return fmt.Errorf("duplicate claim %s", claim.ID)
	}
	f.byID[claim.ID] = claim
	f.order = append(f.order, claim.ID)
	f.mu.Unlock()

	for _, item := range items {
		if err := f.items.Insert(ctx, item); err != nil {
			return err
		}
	}
	return nil
}

func (f *fakeClaims) Get(_ context.Context, id, patient string) (domain.ClaimRecord, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	rec, ok := f.byID[id]
	if !ok || rec.Patient != patient {
		return domain.ClaimRecord{}, domain.ErrNotFound
	}
	return rec, nil
}

func (f *fakeClaims) GetByID(_ context.Context, id string) (domain.ClaimRecord, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	rec, ok := f.byID[id]
	if !ok {
		return domain.ClaimRecord{}, domain.ErrNotFound
	}
	return rec, nil
}

func (f *fakeClaims) Status(_ context.Context, id string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	rec, ok := f.byID[id]
	if !ok {
		return "", domain.ErrNotFound
	}
	return rec.Status, nil
}

func (f *fakeClaims) Related(_ context.Context, id string) (*string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	rec, ok := f.byID[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return rec.Related, nil
}

func (f *fakeClaims) FindByRelated(_ context.Context, id string) (domain.ClaimRecord, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, candidate := range f.order {
		rec := f.byID[candidate]
		if rec.Related != nil && *rec.Related == id {
			return rec, nil
		}
	}
	return domain.ClaimRecord{}, domain.ErrNotFound
}

func (f *fakeClaims) UpdateStatus(_ context.Context, id, status string, resource []byte) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	rec, ok := f.byID[id]
	if !ok {
		return domain.ErrNotFound
	}
	rec.Status = status
	if resource != nil {
		rec.Resource = resource
	}
	f.byID[id] = rec
	return nil
}

func (f *fakeClaims) Delete(_ context.Context, id, patient string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	rec, ok := f.byID[id]
	if !ok || rec.Patient != patient {
		return domain.ErrNotFound
	}
	delete(f.byID, id)
	return nil
}

func (f *fakeClaims) all() []domain.ClaimRecord {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]domain.ClaimRecord, 0, len(f.order))
	for _, id := range f.order {
		if rec, ok := f.byID[id]; ok {
			out = append(out, rec)
		}
	}
	return out
}

type fakeBundles struct {
	mu   sync.Mutex
	byID map[string]domain.BundleRecord
}

func newFakeBundles() *fakeBundles {
	return &fakeBundles{byID: map[string]domain.BundleRecord{}}
}

func (f *fakeBundles) Create(_ context.Context, bundle domain.BundleRecord) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.byID[bundle.ID] = bundle
	return nil
}

func (f *fakeBundles) Get(_ context.Context, id, patient string) (domain.BundleRecord, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	rec, ok := f.byID[id]
	if !ok || rec.Patient != patient {
		return domain.BundleRecord{}, domain.ErrNotFound
	}
	return rec, nil
}

func (f *fakeBundles) Delete(_ context.Context, id, patient string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	rec, ok := f.byID[id]
	if !ok || rec.Patient != patient {
		return domain.ErrNotFound
	}
	delete(f.byID, id)
	return nil
}

func (f *fakeBundles) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.byID)
}

type fakeResponses struct {
	mu    sync.Mutex
	order []string
	byID  map[string]domain.ClaimResponseRecord
}

func newFakeResponses() *fakeResponses {
	return &fakeResponses{byID: map[string]domain.ClaimResponseRecord{}}
}

func (f *fakeResponses) Create(_ context.Context, response domain.ClaimResponseRecord) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, exists := f.byID[response.ID]; exists {
		return fmt.Errorf("duplicate claim response %s", response.ID)
	}
	f.byID[response.ID] = response
	f.order = append(f.order, response.ID)
	return nil
}

func (f *fakeResponses) Get(_ context.Context, id, patient string) (domain.ClaimResponseRecord, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	rec, ok := f.byID[id]
	if !ok || rec.Patient != patient {
		return domain.ClaimResponseRecord{}, domain.ErrNotFound
	}
	return rec, nil
}

func (f *fakeResponses) Delete(_ context.Context, id, patient string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	rec, ok := f.byID[id]
	if !ok || rec.Patient != patient {
		return domain.ErrNotFound
	}
	delete(f.byID, id)
	return nil
}

func (f *fakeResponses) all() []domain.ClaimResponseRecord {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]domain.ClaimResponseRecord, 0, len(f.order))
	for _, id := range f.order {
		if rec, ok := f.byID[id]; ok {
			out = append(out, rec)
		}
	}
	return out
}

type fakeSubscriptions struct {
	mu   sync.Mutex
	subs []domain.SubscriptionRecord
}

func (f *fakeSubscriptions) FindForClaim(_ context.Context, claimID, patient string) (domain.SubscriptionRecord, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, sub := range f.subs {
		if sub.ClaimID == claimID && sub.Patient == patient {
			return sub, nil
		}
	}
	return domain.SubscriptionRecord{}, domain.ErrNotFound
}

func (f *fakeSubscriptions) add(sub domain.SubscriptionRecord) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.subs = append(f.subs, sub)
}

type fakePending struct {
	mu      sync.Mutex
	entries map[string]domain.PendingResolution
}

func newFakePending() *fakePending {
	return &fakePending{entries: map[string]domain.PendingResolution{}}
}

func (f *fakePending) Put(_ context.Context, pending domain.PendingResolution) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.entries[pending.ClaimID] = pending
	return nil
}

func (f *fakePending) Claim(_ context.Context, claimID, token string) (domain.PendingResolution, bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	entry, ok := f.entries[claimID]
	if !ok || entry.Token != token {
		return domain.PendingResolution{}, false, nil
	}
	delete(f.entries, claimID)
	return entry, true, nil
}

func (f *fakePending) Invalidate(_ context.Context, claimID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.entries, claimID)
	return nil
}

func (f *fakePending) ListDue(_ context.Context, now time.Time, limit int) ([]domain.PendingResolution, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var due []domain.PendingResolution
	for _, entry := range f.entries {
		if !entry.DueAt.After(now) && len(due) < limit {
			due = append(due, entry)
		}
	}
	return due, nil
}

func (f *fakePending) get(claimID string) (domain.PendingResolution, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	entry, ok := f.entries[claimID]
	return entry, ok
}

type fakeScheduler struct {
	mu        sync.Mutex
	tasks     map[string]func(ctx context.Context)
	cancelled []string
}

func newFakeScheduler() *fakeScheduler {
	return &fakeScheduler{tasks: map[string]func(ctx context.Context){}}
}

func (f *fakeScheduler) Schedule(claimID string, _ time.Duration, task func(ctx context.Context)) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.tasks[claimID] = task
}

func (f *fakeScheduler) Cancel(claimID string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.cancelled = append(f.cancelled, claimID)
	delete(f.tasks, claimID)
}

// take removes and returns the scheduled task so a test can fire it by hand.
func (f *fakeScheduler) take(claimID string) (func(ctx context.Context), bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	task, ok := f.tasks[claimID]
	delete(f.tasks, claimID)
	return task, ok
}

func (f *fakeScheduler) has(claimID string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	_, ok := f.tasks[claimID]
	return ok
}

type fakeNotifier struct {
	mu    sync.Mutex
	calls []string
}

func (f *fakeNotifier) Notify(_ context.Context, channelType, endpoint string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, channelType+" "+endpoint)
	return nil
}

func (f *fakeNotifier) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}

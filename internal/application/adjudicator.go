package application

import (
	"math/rand"
	"sync"

	"github.com/Tubbz-alt/prior-auth/internal/domain"
)

// Adjudicator simulates the payer decision. Real adjudication rules are out
// of scope; only the shape of the decision is preserved: a uniform three-way
// initial outcome and, for Pending, a uniform two-way deferred outcome chosen
// up front. The random source is injected so tests can seed it.
type Adjudicator struct {
	mu  sync.Mutex
	rng *rand.Rand
}

// NewAdjudicator builds an adjudicator over the given source. rand.Rand is
// not safe for concurrent use, so calls are serialized internally.
func NewAdjudicator(rng *rand.Rand) *Adjudicator {
	return &Adjudicator{rng: rng}
}

// Decide selects the immediate disposition for a new or updated submission.
func (a *Adjudicator) Decide() string {
	a.mu.Lock()
	defer a.mu.Unlock()
	switch a.rng.Intn(3) {
	case 0:
		return domain.DispositionGranted
	case 1:
		return domain.DispositionPending
	default:
		return domain.DispositionDenied
	}
}

// DecideDeferred selects the outcome a Pending decision will resolve to.
func (a *Adjudicator) DecideDeferred() string {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.rng.Intn(2) == 0 {
		return domain.DispositionGranted
	}
	return domain.DispositionDenied
}

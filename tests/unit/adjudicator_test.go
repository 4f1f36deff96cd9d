package unit

import (
	"math/rand"
	"testing"

	"github.com/Tubbz-alt/prior-auth/internal/application"
	"github.com/Tubbz-alt/prior-auth/internal/domain"
)

func TestAdjudicatorCoversAllDispositions(t *testing.T) {
	t.Parallel()

	adj := application.NewAdjudicator(rand.New(rand.NewSource(1)))

	initial := map[string]int{}
	for i := 0; i < 600; i++ {
		d := adj.Decide()
		switch d {
		case domain.DispositionGranted, domain.DispositionPending, domain.DispositionDenied:
			initial[d]++
		default:
			t.Fatalf("unexpected disposition %q", d)
		}
	}
	if len(initial) != 3 {
		t.Fatalf("expected all three initial dispositions, got %v", initial)
	}

	deferred := map[string]int{}
	for i := 0; i < 200; i++ {
		d := adj.DecideDeferred()
		switch d {
		case domain.DispositionGranted, domain.DispositionDenied:
			deferred[d]++
		default:
			t.Fatalf("unexpected deferred disposition %q", d)
		}
	}
	if len(deferred) != 2 {
		t.Fatalf("expected both deferred dispositions, got %v", deferred)
	}
}

func TestAdjudicatorDeterministicForSeed(t *testing.T) {
	t.Parallel()

	a := application.NewAdjudicator(rand.New(rand.NewSource(42)))
	b := application.NewAdjudicator(rand.New(rand.NewSource(42)))
	for i := 0; i < 50; i++ {
		if got, want := a.Decide(), b.Decide(); got != want {
			t.Fatalf("draw %d diverged: %s vs %s", i, got, want)
		}
	}
}

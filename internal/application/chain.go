package application

import (
	"context"
	"errors"
	"fmt"

	"github.com/Tubbz-alt/prior-auth/internal/domain"
)

// maxChainHops bounds chain walks. The data model forbids cycles, but a
// corrupted link must not hang a request.
const maxChainHops = 1000

// mostRecentID resolves a claim id to the newest version in its update chain
// by following claims whose Related field points at the current id. The walk
// is idempotent: resolving an already-newest id returns it unchanged.
func (s *Service) mostRecentID(ctx context.Context, id string) (string, error) {
	current := id
	visited := map[string]struct{}{current: {}}
	for hops := 0; hops < maxChainHops; hops++ {
		next, err := s.claims.FindByRelated(ctx, current)
		if errors.Is(err, domain.ErrNotFound) {
			return current, nil
		}
		if err != nil {
			return "", err
		}
		if _, seen := visited[next.ID]; seen {
			return "", fmt.Errorf("claim %s: cycle at %s", id, next.ID)
		}
		visited[next.ID] = struct{}{}
		current = next.ID
	}
	return "", fmt.Errorf("claim %s: %w", id, errChainTooDeep)
}

package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/Tubbz-alt/prior-auth/internal/domain"
)

const (
	pendingKeyPrefix = "priorauth:pending:"
	pendingDueKey    = "priorauth:pending_due"
)

// claimScript atomically removes a pending entry when its token matches,
// returning the stored payload. The token fence guarantees at most one of the
// in-process timer and the sweeper worker resolves a given entry.
var claimScript = redis.NewScript(`
local raw = redis.call('GET', KEYS[1])
if not raw then return false end
local obj = cjson.decode(raw)
if obj['token'] ~= ARGV[1] then return false end
redis.call('DEL', KEYS[1])
redis.call('ZREM', KEYS[2], ARGV[2])
return raw
`)

// RedisPendingResolutionStore keeps scheduled deferred resolutions in Redis:
// one JSON entry per claim id plus a due-time sorted set for sweeping.
// Durability outside the API process is the point; an in-process map would
// lose pending outcomes on restart.
type RedisPendingResolutionStore struct {
	client *redis.Client
}

func NewRedisPendingResolutionStore(client *redis.Client) *RedisPendingResolutionStore {
	return &RedisPendingResolutionStore{client: client}
}

func (s *RedisPendingResolutionStore) Put(ctx context.Context, pending domain.PendingResolution) error {
	raw, err := json.Marshal(pending)
	if err != nil {
		return fmt.Errorf("encode pending resolution: %w", err)
	}
	pipe := s.client.TxPipeline()
	pipe.Set(ctx, pendingKeyPrefix+pending.ClaimID, raw, 0)
	pipe.ZAdd(ctx, pendingDueKey, redis.Z{
		Score:  float64(pending.DueAt.Unix()),
		Member: pending.ClaimID,
	})
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("store pending resolution: %w", err)
	}
	return nil
}

func (s *RedisPendingResolutionStore) Claim(ctx context.Context, claimID, token string) (domain.PendingResolution, bool, error) {
	res, err := claimScript.Run(ctx, s.client,
		[]string{pendingKeyPrefix + claimID, pendingDueKey},
		token, claimID,
	).Result()
	if err == redis.Nil {
		return domain.PendingResolution{}, false, nil
	}
	if err != nil {
		return domain.PendingResolution{}, false, fmt.Errorf("claim pending resolution: %w", err)
	}
	raw, ok := res.(string)
	if !ok {
		return domain.PendingResolution{}, false, nil
	}
	var pending domain.PendingResolution
	if err := json.Unmarshal([]byte(raw), &pending); err != nil {
		return domain.PendingResolution{}, false, fmt.Errorf("decode pending resolution: %w", err)
	}
	return pending, true, nil
}

func (s *RedisPendingResolutionStore) Invalidate(ctx context.Context, claimID string) error {
	pipe := s.client.TxPipeline()
	pipe.Del(ctx, pendingKeyPrefix+claimID)
	pipe.ZRem(ctx, pendingDueKey, claimID)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("invalidate pending resolution: %w", err)
	}
	return nil
}

func (s *RedisPendingResolutionStore) ListDue(ctx context.Context, now time.Time, limit int) ([]domain.PendingResolution, error) {
	ids, err := s.client.ZRangeByScore(ctx, pendingDueKey, &redis.ZRangeBy{
		Min:   "-inf",
		Max:   strconv.FormatInt(now.Unix(), 10),
		Count: int64(limit),
	}).Result()
	if err != nil {
		return nil, fmt.Errorf("list due resolutions: %w", err)
	}

	due := make([]domain.PendingResolution, 0, len(ids))
	for _, id := range ids {
		raw, err := s.client.Get(ctx, pendingKeyPrefix+id).Result()
		if err == redis.Nil {
			// Entry already claimed; drop the stale zset member.
			s.client.ZRem(ctx, pendingDueKey, id)
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("load pending resolution %s: %w", id, err)
		}
		var pending domain.PendingResolution
		if err := json.Unmarshal([]byte(raw), &pending); err != nil {
			return nil, fmt.Errorf("decode pending resolution %s: %w", id, err)
		}
		due = append(due, pending)
	}
	return due, nil
}

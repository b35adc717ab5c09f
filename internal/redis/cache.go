package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"sea-u/internal/domain/user"
	"sea-u/internal/repository"

	"github.com/google/uuid"
	goredis "github.com/redis/go-redis/v9"
)

// Cache key patterns:
// - profile:{user_id} - profile snapshot, short TTL

const defaultProfileTTL = 5 * time.Minute

// CachedProfileRepository serves profile reads from Redis and falls back to
// the wrapped repository on a miss. Writes go through and invalidate.
type CachedProfileRepository struct {
	repository.ProfileRepository
	client *goredis.Client
	ttl    time.Duration
}

func NewCachedProfileRepository(inner repository.ProfileRepository, client *goredis.Client, ttl time.Duration) *CachedProfileRepository {
	if ttl == 0 {
		ttl = defaultProfileTTL
	}
	return &CachedProfileRepository{ProfileRepository: inner, client: client, ttl: ttl}
}

func profileKey(userID uuid.UUID) string {
	return fmt.Sprintf("profile:%s", userID.String())
}

func (c *CachedProfileRepository) GetByUserID(ctx context.Context, userID uuid.UUID) (user.Profile, error) {
	if data, err := c.client.Get(ctx, profileKey(userID)).Bytes(); err == nil {
		var p user.Profile
		if json.Unmarshal(data, &p) == nil {
			return p, nil
		}
	}
	p, err := c.ProfileRepository.GetByUserID(ctx, userID)
	if err != nil {
		return user.Profile{}, err
	}
	c.store(ctx, []user.Profile{p})
	return p, nil
}

func (c *CachedProfileRepository) GetByUserIDs(ctx context.Context, userIDs []uuid.UUID) ([]user.Profile, error) {
	if len(userIDs) == 0 {
		return nil, nil
	}
	keys := make([]string, len(userIDs))
	for i, id := range userIDs {
		keys[i] = profileKey(id)
	}
	vals, err := c.client.MGet(ctx, keys...).Result()
	if err != nil {
		return c.ProfileRepository.GetByUserIDs(ctx, userIDs)
	}

	var out []user.Profile
	var missing []uuid.UUID
	for i, v := range vals {
		s, ok := v.(string)
		var p user.Profile
		if !ok || json.Unmarshal([]byte(s), &p) != nil {
			missing = append(missing, userIDs[i])
			continue
		}
		out = append(out, p)
	}
	if len(missing) == 0 {
		return out, nil
	}

	fetched, err := c.ProfileRepository.GetByUserIDs(ctx, missing)
	if err != nil {
		return nil, err
	}
	c.store(ctx, fetched)
	return append(out, fetched...), nil
}

func (c *CachedProfileRepository) Upsert(ctx context.Context, p *user.Profile) error {
	if err := c.ProfileRepository.Upsert(ctx, p); err != nil {
		return err
	}
	c.invalidate(ctx, p.UserID)
	return nil
}

func (c *CachedProfileRepository) UpdateLastSeen(ctx context.Context, userID uuid.UUID, lastSeen time.Time) error {
	if err := c.ProfileRepository.UpdateLastSeen(ctx, userID, lastSeen); err != nil {
		return err
	}
	c.invalidate(ctx, userID)
	return nil
}

// store is best effort, a failed write only costs a later miss.
func (c *CachedProfileRepository) store(ctx context.Context, profiles []user.Profile) {
	if len(profiles) == 0 {
		return
	}
	pipe := c.client.Pipeline()
	for _, p := range profiles {
		data, err := json.Marshal(p)
		if err != nil {
			continue
		}
		pipe.Set(ctx, profileKey(p.UserID), data, c.ttl)
	}
	_, _ = pipe.Exec(ctx)
}

func (c *CachedProfileRepository) invalidate(ctx context.Context, userID uuid.UUID) {
	_ = c.client.Del(ctx, profileKey(userID)).Err()
}

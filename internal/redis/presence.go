package redis

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	goredis "github.com/redis/go-redis/v9"
)

// PresenceStatus represents a user's online status
type PresenceStatus struct {
	UserID   string    `json:"user_id"`
	IsOnline bool      `json:"is_online"`
	LastSeen time.Time `json:"last_seen"`
}

// PresenceStore tracks which users hold at least one live connection.
type PresenceStore struct {
	client *goredis.Client
	ttl    time.Duration
	now    func() time.Time
}

const (
	presenceKeyPrefix   = "presence:"       // JSON PresenceStatus per user
	presenceConnsPrefix = "presence:conns:" // open connection count per user
	presenceOnlineSet   = "presence:online" // set of online user ids
)

func NewPresenceStore(client *goredis.Client, ttl time.Duration) *PresenceStore {
	if ttl == 0 {
		ttl = 5 * time.Minute
	}
	return &PresenceStore{client: client, ttl: ttl, now: time.Now}
}

// SetOnline records one more open connection for the user.
func (p *PresenceStore) SetOnline(ctx context.Context, userID uuid.UUID) error {
	id := userID.String()
	status := PresenceStatus{UserID: id, IsOnline: true, LastSeen: p.now().UTC()}
	data, err := json.Marshal(status)
	if err != nil {
		return err
	}

	pipe := p.client.TxPipeline()
	pipe.Incr(ctx, presenceConnsPrefix+id)
	pipe.Expire(ctx, presenceConnsPrefix+id, p.ttl)
	pipe.Set(ctx, presenceKeyPrefix+id, data, p.ttl)
	pipe.SAdd(ctx, presenceOnlineSet, id)
	_, err = pipe.Exec(ctx)
	return err
}

// Heartbeat keeps the presence keys of a connected user alive.
func (p *PresenceStore) Heartbeat(ctx context.Context, userID uuid.UUID) error {
	id := userID.String()
	pipe := p.client.Pipeline()
	pipe.Expire(ctx, presenceConnsPrefix+id, p.ttl)
	pipe.Expire(ctx, presenceKeyPrefix+id, p.ttl)
	_, err := pipe.Exec(ctx)
	return err
}

// SetOffline drops one connection. It reports true when that was the user's
// last connection and the user is now offline.
func (p *PresenceStore) SetOffline(ctx context.Context, userID uuid.UUID) (bool, error) {
	id := userID.String()
	remaining, err := p.client.Decr(ctx, presenceConnsPrefix+id).Result()
	if err != nil {
		return false, err
	}
	if remaining > 0 {
		return false, nil
	}

	status := PresenceStatus{UserID: id, IsOnline: false, LastSeen: p.now().UTC()}
	data, err := json.Marshal(status)
	if err != nil {
		return false, err
	}
	pipe := p.client.TxPipeline()
	pipe.Del(ctx, presenceConnsPrefix+id)
	pipe.Set(ctx, presenceKeyPrefix+id, data, 24*time.Hour) // Keep offline status longer for last_seen queries
	pipe.SRem(ctx, presenceOnlineSet, id)
	if _, err := pipe.Exec(ctx); err != nil {
		return false, err
	}
	return true, nil
}

func (p *PresenceStore) IsOnline(ctx context.Context, userID uuid.UUID) (bool, error) {
	return p.client.SIsMember(ctx, presenceOnlineSet, userID.String()).Result()
}

// OnlineMany reports which of userIDs are online in one round trip.
func (p *PresenceStore) OnlineMany(ctx context.Context, userIDs []uuid.UUID) (map[uuid.UUID]bool, error) {
	out := make(map[uuid.UUID]bool, len(userIDs))
	if len(userIDs) == 0 {
		return out, nil
	}
	members := make([]interface{}, len(userIDs))
	for i, id := range userIDs {
		members[i] = id.String()
	}
	flags, err := p.client.SMIsMember(ctx, presenceOnlineSet, members...).Result()
	if err != nil {
		return nil, err
	}
	for i, id := range userIDs {
		out[id] = flags[i]
	}
	return out, nil
}

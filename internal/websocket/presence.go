package websocket

import (
	"context"
	"time"

	"sea-u/pkg/logger"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// OnlineStore is the shared presence record, redis.PresenceStore in production.
type OnlineStore interface {
	SetOnline(ctx context.Context, userID uuid.UUID) error
	Heartbeat(ctx context.Context, userID uuid.UUID) error
	SetOffline(ctx context.Context, userID uuid.UUID) (bool, error)
}

// LastSeenWriter records when a user was last connected.
type LastSeenWriter interface {
	UpdateLastSeen(ctx context.Context, userID uuid.UUID, lastSeen time.Time) error
}

// PresenceTracker marks users online while they hold a connection and
// stamps last_seen when the last one closes. Without a shared store the
// hub's local count decides what "last" means.
type PresenceTracker struct {
	store    OnlineStore
	lastSeen LastSeenWriter
	log      *logger.Logger
	now      func() time.Time
}

func NewPresenceTracker(store OnlineStore, lastSeen LastSeenWriter, log *logger.Logger) *PresenceTracker {
	return &PresenceTracker{store: store, lastSeen: lastSeen, log: log, now: time.Now}
}

func (p *PresenceTracker) Connected(ctx context.Context, userID uuid.UUID) {
	if p.store == nil {
		return
	}
	if err := p.store.SetOnline(ctx, userID); err != nil {
		p.log.Logger.Warn("presence set online failed", zap.String("user_id", userID.String()), zap.Error(err))
	}
}

func (p *PresenceTracker) Heartbeat(ctx context.Context, userID uuid.UUID) {
	if p.store == nil {
		return
	}
	if err := p.store.Heartbeat(ctx, userID); err != nil {
		p.log.Logger.Debug("presence heartbeat failed", zap.String("user_id", userID.String()), zap.Error(err))
	}
}

func (p *PresenceTracker) Disconnected(ctx context.Context, userID uuid.UUID, lastLocal bool) {
	last := lastLocal
	if p.store != nil {
		var err error
		last, err = p.store.SetOffline(ctx, userID)
		if err != nil {
			p.log.Logger.Warn("presence set offline failed", zap.String("user_id", userID.String()), zap.Error(err))
			last = lastLocal
		}
	}
	if !last || p.lastSeen == nil {
		return
	}
	if err := p.lastSeen.UpdateLastSeen(ctx, userID, p.now().UTC()); err != nil {
		p.log.Logger.Warn("last seen update failed", zap.String("user_id", userID.String()), zap.Error(err))
	}
}

package services

import (
	"context"
	"sync"

	"sea-u/internal/domain/conversation"
	"sea-u/internal/domain/message"
	"sea-u/internal/events"
	"sea-u/internal/repository"
	seau_errors "sea-u/pkg/errors"
	"sea-u/pkg/logger"

	"github.com/google/uuid"
	lru "github.com/hashicorp/golang-lru/v2"
	"go.uber.org/zap"
)

// foreignCacheSize bounds how many conversations the projector remembers as
// not involving its user.
const foreignCacheSize = 256

// ConversationProjector keeps a user's conversation list current. Inserts
// into known conversations patch one row. An insert into an unknown
// conversation the user belongs to triggers a full rebuild.
type ConversationProjector struct {
	builder       *ConversationListBuilder
	conversations repository.ConversationRepository
	subscriber    events.Subscriber
	userID        uuid.UUID
	onChange      func([]conversation.Summary)
	log           *logger.Logger

	ctx    context.Context
	cancel context.CancelFunc
	ready  chan struct{}

	mu      sync.Mutex
	items   []conversation.Summary
	foreign *lru.Cache[uuid.UUID, struct{}]
	sub     *events.Subscription
	started bool
	closed  bool
}

func NewConversationProjector(builder *ConversationListBuilder, conversations repository.ConversationRepository, subscriber events.Subscriber, userID uuid.UUID, onChange func([]conversation.Summary), log *logger.Logger) *ConversationProjector {
	if onChange == nil {
		onChange = func([]conversation.Summary) {}
	}
	foreign, _ := lru.New[uuid.UUID, struct{}](foreignCacheSize)
	return &ConversationProjector{
		builder:       builder,
		conversations: conversations,
		subscriber:    subscriber,
		userID:        userID,
		onChange:      onChange,
		log:           log.Named("conversation_projector"),
		ready:         make(chan struct{}),
		foreign:       foreign,
	}
}

// Start subscribes, builds the initial list and returns it. Notifications
// that arrive during the build are applied afterwards.
func (p *ConversationProjector) Start(ctx context.Context) ([]conversation.Summary, error) {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return nil, seau_errors.ErrClosed
	}
	if p.started {
		p.mu.Unlock()
		return nil, seau_errors.ErrConflict
	}
	p.started = true
	p.ctx, p.cancel = context.WithCancel(ctx)
	p.mu.Unlock()

	sub, err := p.subscriber.Subscribe(p.ctx, events.Filter{}, p.handle)
	if err != nil {
		p.Close()
		return nil, err
	}

	p.mu.Lock()
	p.sub = sub
	p.mu.Unlock()

	items, err := p.builder.Build(p.ctx, p.userID)
	if err != nil {
		p.Close()
		return nil, err
	}

	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return nil, seau_errors.ErrClosed
	}
	p.items = items
	snapshot := p.snapshotLocked()
	p.mu.Unlock()
	close(p.ready)
	return snapshot, nil
}

// Snapshot returns the current ordered list.
func (p *ConversationProjector) Snapshot() []conversation.Summary {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.snapshotLocked()
}

// Close stops the projector. Later notifications are ignored.
func (p *ConversationProjector) Close() {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return
	}
	p.closed = true
	sub := p.sub
	cancel := p.cancel
	p.mu.Unlock()

	if cancel != nil {
		cancel()
	}
	if sub != nil {
		sub.Close()
	}
}

func (p *ConversationProjector) handle(m message.Message) {
	select {
	case <-p.ready:
	case <-p.ctx.Done():
		return
	}

	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return
	}
	if p.foreign.Contains(m.ConversationID) {
		p.mu.Unlock()
		return
	}
	for i := range p.items {
		if p.items[i].ConversationID != m.ConversationID {
			continue
		}
		if !p.items[i].Apply(m) {
			p.mu.Unlock()
			return
		}
		conversation.SortSummaries(p.items)
		snapshot := p.snapshotLocked()
		p.mu.Unlock()
		p.onChange(snapshot)
		return
	}
	p.mu.Unlock()

	member, err := p.conversations.IsParticipant(p.ctx, m.ConversationID, p.userID)
	if err != nil {
		p.log.Logger.Warn("membership check failed",
			zap.String("conversation_id", m.ConversationID.String()), zap.Error(err))
		return
	}
	if !member {
		// participants never change, so the answer stays valid
		p.foreign.Add(m.ConversationID, struct{}{})
		return
	}
	p.rebuild()
}

func (p *ConversationProjector) rebuild() {
	items, err := p.builder.Build(p.ctx, p.userID)
	if err != nil {
		p.log.Logger.Warn("conversation list rebuild failed", zap.String("user_id", p.userID.String()), zap.Error(err))
		return
	}

	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return
	}
	p.items = items
	snapshot := p.snapshotLocked()
	p.mu.Unlock()
	p.onChange(snapshot)
}

func (p *ConversationProjector) snapshotLocked() []conversation.Summary {
	out := make([]conversation.Summary, len(p.items))
	copy(out, p.items)
	return out
}

package memory

import (
	"context"

	"sea-u/internal/domain/conversation"
	seau_errors "sea-u/pkg/errors"

	"github.com/google/uuid"
)

type conversationRepository struct {
	s *Store
}

func (r *conversationRepository) ListConversationIDs(ctx context.Context, userID uuid.UUID) ([]uuid.UUID, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	member := make(map[uuid.UUID]bool)
	for _, p := range r.s.participants {
		if p.UserID == userID {
			member[p.ConversationID] = true
		}
	}
	// conversations are kept in creation order
	var ids []uuid.UUID
	for _, c := range r.s.conversations {
		if member[c.ID] {
			ids = append(ids, c.ID)
		}
	}
	return ids, nil
}

func (r *conversationRepository) FindParticipants(ctx context.Context, conversationIDs []uuid.UUID) ([]conversation.Participant, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	want := make(map[uuid.UUID]bool, len(conversationIDs))
	for _, id := range conversationIDs {
		want[id] = true
	}
	var out []conversation.Participant
	for _, p := range r.s.participants {
		if want[p.ConversationID] {
			out = append(out, p)
		}
	}
	return out, nil
}

func (r *conversationRepository) GetParticipants(ctx context.Context, conversationID uuid.UUID) ([]conversation.Participant, error) {
	return r.FindParticipants(ctx, []uuid.UUID{conversationID})
}

func (r *conversationRepository) IsParticipant(ctx context.Context, conversationID, userID uuid.UUID) (bool, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	for _, p := range r.s.participants {
		if p.ConversationID == conversationID && p.UserID == userID {
			return true, nil
		}
	}
	return false, nil
}

func (r *conversationRepository) GetByPairKey(ctx context.Context, pairKey string) (conversation.Conversation, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	for _, c := range r.s.conversations {
		if c.PairKey.Valid && c.PairKey.String == pairKey {
			return r.withParticipants(c), nil
		}
	}
	return conversation.Conversation{}, seau_errors.ErrNotFound
}

func (r *conversationRepository) CreateWithParticipants(ctx context.Context, c *conversation.Conversation) error {
	if hook := r.s.BeforeCreateConversation; hook != nil {
		hook(*c)
	}

	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if c.PairKey.Valid {
		for _, existing := range r.s.conversations {
			if existing.PairKey.Valid && existing.PairKey.String == c.PairKey.String {
				return seau_errors.ErrAlreadyExists
			}
		}
	}
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	now := r.s.now()
	if c.CreatedAt.IsZero() {
		c.CreatedAt = now
	}
	for i := range c.Participants {
		p := &c.Participants[i]
		if p.ID == uuid.Nil {
			p.ID = uuid.New()
		}
		p.ConversationID = c.ID
		if p.JoinedAt.IsZero() {
			p.JoinedAt = now
		}
	}

	stored := *c
	stored.Participants = nil
	r.s.conversations = append(r.s.conversations, stored)
	r.s.participants = append(r.s.participants, c.Participants...)
	return nil
}

func (r *conversationRepository) withParticipants(c conversation.Conversation) conversation.Conversation {
	c.Participants = nil
	for _, p := range r.s.participants {
		if p.ConversationID == c.ID {
			c.Participants = append(c.Participants, p)
		}
	}
	return c
}

package memory

import (
	"context"

	"sea-u/internal/domain/message"
	seau_errors "sea-u/pkg/errors"

	"github.com/google/uuid"
)

type messageRepository struct {
	s *Store
}

func (r *messageRepository) Create(ctx context.Context, m *message.Message) error {
	if _, ok := m.Body(); !ok {
		return seau_errors.ErrInvalidInput
	}

	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	known := false
	for _, c := range r.s.conversations {
		if c.ID == m.ConversationID {
			known = true
			break
		}
	}
	if !known {
		return seau_errors.ErrNotFound
	}

	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	r.s.seq++
	m.Seq = r.s.seq
	m.CreatedAt = r.s.now()
	r.s.messages = append(r.s.messages, *m)
	return nil
}

func (r *messageRepository) GetByID(ctx context.Context, id uuid.UUID) (message.Message, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	for _, m := range r.s.messages {
		if m.ID == id {
			return m, nil
		}
	}
	return message.Message{}, seau_errors.ErrNotFound
}

func (r *messageRepository) ListByConversation(ctx context.Context, conversationID uuid.UUID, limit int) ([]message.Message, error) {
	r.s.mu.RLock()
	var out []message.Message
	for _, m := range r.s.messages {
		if m.ConversationID == conversationID {
			out = message.InsertSorted(out, m)
		}
	}
	r.s.mu.RUnlock()

	if limit > 0 && len(out) > limit {
		out = out[len(out)-limit:]
	}
	return out, nil
}

func (r *messageRepository) GetLatest(ctx context.Context, conversationID uuid.UUID) (message.Message, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	var latest *message.Message
	for i := range r.s.messages {
		m := &r.s.messages[i]
		if m.ConversationID != conversationID {
			continue
		}
		if latest == nil || message.Less(*latest, *m) {
			latest = m
		}
	}
	if latest == nil {
		return message.Message{}, seau_errors.ErrNotFound
	}
	return *latest, nil
}

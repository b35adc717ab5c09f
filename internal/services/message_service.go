package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"sea-u/internal/domain/message"
	"sea-u/internal/events"
	"sea-u/internal/repository"
	seau_errors "sea-u/pkg/errors"

	"github.com/google/uuid"
)

const defaultHistoryLimit = 500

type MessageService struct {
	conversations repository.ConversationRepository
	messages      repository.MessageRepository
	subscriber    events.Subscriber
	historyLimit  int
}

func NewMessageService(conversations repository.ConversationRepository, messages repository.MessageRepository, subscriber events.Subscriber) *MessageService {
	return &MessageService{
		conversations: conversations,
		messages:      messages,
		subscriber:    subscriber,
		historyLimit:  defaultHistoryLimit,
	}
}

func (s *MessageService) ensureParticipant(ctx context.Context, conversationID, userID uuid.UUID) error {
	ok, err := s.conversations.IsParticipant(ctx, conversationID, userID)
	if err != nil {
		return fmt.Errorf("check participant: %w", err)
	}
	if !ok {
		return seau_errors.ErrForbidden
	}
	return nil
}

// History returns up to limit of the newest messages in ascending order.
func (s *MessageService) History(ctx context.Context, conversationID, userID uuid.UUID, limit int) ([]message.Message, error) {
	if err := s.ensureParticipant(ctx, conversationID, userID); err != nil {
		return nil, err
	}
	if limit <= 0 || limit > s.historyLimit {
		limit = s.historyLimit
	}
	return s.messages.ListByConversation(ctx, conversationID, limit)
}

// Send stores one message. Unlike MessageStream.Send an empty body is an error.
func (s *MessageService) Send(ctx context.Context, conversationID, userID uuid.UUID, content, sticker string) (message.Message, error) {
	if err := s.ensureParticipant(ctx, conversationID, userID); err != nil {
		return message.Message{}, err
	}
	body, err := message.NewBody(content, sticker)
	if errors.Is(err, message.ErrEmptyBody) {
		return message.Message{}, fmt.Errorf("%w: %v", seau_errors.ErrInvalidInput, err)
	}
	if err != nil {
		return message.Message{}, err
	}
	return s.insert(ctx, conversationID, userID, body)
}

func (s *MessageService) insert(ctx context.Context, conversationID, userID uuid.UUID, body message.Body) (message.Message, error) {
	m := message.New(conversationID, userID, body)
	if err := s.messages.Create(ctx, &m); err != nil {
		return message.Message{}, fmt.Errorf("insert message: %w", err)
	}
	return m, nil
}

// Open starts a live stream of conversationID for a participant.
func (s *MessageService) Open(ctx context.Context, conversationID, userID uuid.UUID, onChange func([]message.Message)) (*MessageStream, error) {
	if err := s.ensureParticipant(ctx, conversationID, userID); err != nil {
		return nil, err
	}
	if onChange == nil {
		onChange = func([]message.Message) {}
	}

	st := &MessageStream{
		service:        s,
		conversationID: conversationID,
		userID:         userID,
		onChange:       onChange,
		seen:           make(map[uuid.UUID]struct{}),
		ready:          make(chan struct{}),
		done:           make(chan struct{}),
	}

	// subscribe before reading history so nothing inserted in between is lost
	sub, err := s.subscriber.Subscribe(ctx, events.Filter{ConversationID: conversationID}, st.handle)
	if err != nil {
		return nil, err
	}
	st.sub = sub

	history, err := s.messages.ListByConversation(ctx, conversationID, 0)
	if err != nil {
		st.Close()
		return nil, fmt.Errorf("load history: %w", err)
	}

	st.mu.Lock()
	for _, m := range history {
		st.insertLocked(m)
	}
	st.mu.Unlock()
	close(st.ready)
	return st, nil
}

func isBlank(s string) bool {
	return strings.TrimSpace(s) == ""
}

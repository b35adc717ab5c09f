package repository

import (
	"context"

	"sea-u/internal/domain/message"
	"sea-u/pkg/logger"

	"go.uber.org/zap"
)

// MessagePublisher receives every committed message insert.
type MessagePublisher interface {
	Publish(ctx context.Context, m message.Message) error
}

type notifyingMessageRepository struct {
	MessageRepository
	publisher MessagePublisher
}

// NewNotifyingMessageRepository announces inserts for stores that have no
// change feed of their own. Postgres deployments use the table trigger instead.
func NewNotifyingMessageRepository(inner MessageRepository, publisher MessagePublisher) MessageRepository {
	return &notifyingMessageRepository{MessageRepository: inner, publisher: publisher}
}

func (r *notifyingMessageRepository) Create(ctx context.Context, m *message.Message) error {
	if err := r.MessageRepository.Create(ctx, m); err != nil {
		return err
	}
	// the row is committed, a failed announcement must not fail the send
	if err := r.publisher.Publish(ctx, *m); err != nil {
		logger.GetGlobalLogger().Logger.Warn("message insert notification failed",
			zap.String("message_id", m.ID.String()),
			zap.String("conversation_id", m.ConversationID.String()),
			zap.Error(err))
	}
	return nil
}

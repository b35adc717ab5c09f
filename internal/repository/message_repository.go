package repository

import (
	"context"

	"sea-u/internal/domain/message"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type PostgresMessageRepository struct {
	db *gorm.DB
}

func NewMessageRepository(db *gorm.DB) MessageRepository {
	return &PostgresMessageRepository{db: db}
}

// Create lets the database assign seq and created_at so ordering follows the
// server clock.
func (r *PostgresMessageRepository) Create(ctx context.Context, m *message.Message) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	row := r.db.WithContext(ctx).Raw(
		`INSERT INTO messages (id, conversation_id, sender_id, content, sticker)
		VALUES (?, ?, ?, ?, ?)
		RETURNING seq, created_at`,
		m.ID, m.ConversationID, m.SenderID, m.Content, m.Sticker,
	).Row()
	if err := row.Scan(&m.Seq, &m.CreatedAt); err != nil {
		return translateError(err)
	}
	return nil
}

func (r *PostgresMessageRepository) GetByID(ctx context.Context, id uuid.UUID) (message.Message, error) {
	var m message.Message
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&m).Error; err != nil {
		return message.Message{}, translateError(err)
	}
	return m, nil
}

func (r *PostgresMessageRepository) ListByConversation(ctx context.Context, conversationID uuid.UUID, limit int) ([]message.Message, error) {
	var messages []message.Message
	q := r.db.WithContext(ctx).Where("conversation_id = ?", conversationID)
	if limit > 0 {
		// newest page, returned ascending
		sub := q.Session(&gorm.Session{}).Model(&message.Message{}).
			Order("created_at DESC, seq DESC").
			Limit(limit)
		q = r.db.WithContext(ctx).Table("(?) AS m", sub)
	}
	if err := q.Order("created_at ASC, seq ASC").Find(&messages).Error; err != nil {
		return nil, err
	}
	return messages, nil
}

func (r *PostgresMessageRepository) GetLatest(ctx context.Context, conversationID uuid.UUID) (message.Message, error) {
	var m message.Message
	err := r.db.WithContext(ctx).
		Where("conversation_id = ?", conversationID).
		Order("created_at DESC, seq DESC").
		First(&m).Error
	if err != nil {
		return message.Message{}, translateError(err)
	}
	return m, nil
}

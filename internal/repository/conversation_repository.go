package repository

import (
	"context"

	"sea-u/internal/domain/conversation"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type PostgresConversationRepository struct {
	db *gorm.DB
}

func NewConversationRepository(db *gorm.DB) ConversationRepository {
	return &PostgresConversationRepository{db: db}
}

func (r *PostgresConversationRepository) ListConversationIDs(ctx context.Context, userID uuid.UUID) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	err := r.db.WithContext(ctx).
		Table("conversation_participants AS p").
		Joins("JOIN conversations c ON c.id = p.conversation_id").
		Where("p.user_id = ?", userID).
		Order("c.created_at ASC, c.id ASC").
		Pluck("p.conversation_id", &ids).Error
	if err != nil {
		return nil, err
	}
	return ids, nil
}

func (r *PostgresConversationRepository) FindParticipants(ctx context.Context, conversationIDs []uuid.UUID) ([]conversation.Participant, error) {
	if len(conversationIDs) == 0 {
		return nil, nil
	}
	var participants []conversation.Participant
	err := r.db.WithContext(ctx).
		Where("conversation_id IN ?", conversationIDs).
		Order("joined_at ASC").
		Find(&participants).Error
	if err != nil {
		return nil, err
	}
	return participants, nil
}

func (r *PostgresConversationRepository) GetParticipants(ctx context.Context, conversationID uuid.UUID) ([]conversation.Participant, error) {
	return r.FindParticipants(ctx, []uuid.UUID{conversationID})
}

func (r *PostgresConversationRepository) IsParticipant(ctx context.Context, conversationID, userID uuid.UUID) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&conversation.Participant{}).
		Where("conversation_id = ? AND user_id = ?", conversationID, userID).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *PostgresConversationRepository) GetByPairKey(ctx context.Context, pairKey string) (conversation.Conversation, error) {
	var c conversation.Conversation
	err := r.db.WithContext(ctx).
		Preload("Participants").
		Where("pair_key = ?", pairKey).
		First(&c).Error
	if err != nil {
		return conversation.Conversation{}, translateError(err)
	}
	return c, nil
}

func (r *PostgresConversationRepository) CreateWithParticipants(ctx context.Context, c *conversation.Conversation) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	for i := range c.Participants {
		if c.Participants[i].ID == uuid.Nil {
			c.Participants[i].ID = uuid.New()
		}
		c.Participants[i].ConversationID = c.ID
	}

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("Participants").Create(c).Error; err != nil {
			return err
		}
		if len(c.Participants) == 0 {
			return nil
		}
		return tx.Create(&c.Participants).Error
	})
	return translateError(err)
}

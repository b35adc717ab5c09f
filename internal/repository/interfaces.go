package repository

import (
	"context"
	"time"

	"github.com/google/uuid"

	"sea-u/internal/domain/conversation"
	"sea-u/internal/domain/message"
	"sea-u/internal/domain/user"
)

type ProfileRepository interface {
	GetByUserID(ctx context.Context, userID uuid.UUID) (user.Profile, error)
	GetByUserIDs(ctx context.Context, userIDs []uuid.UUID) ([]user.Profile, error)
	GetBySeaID(ctx context.Context, seaID string) (user.Profile, error)
	ListDirectory(ctx context.Context, excludeUserID uuid.UUID, limit int) ([]user.Profile, error)
	Upsert(ctx context.Context, p *user.Profile) error
	UpdateLastSeen(ctx context.Context, userID uuid.UUID, lastSeen time.Time) error
}

type ConversationRepository interface {
	// ListConversationIDs returns the user's conversations, oldest first.
	ListConversationIDs(ctx context.Context, userID uuid.UUID) ([]uuid.UUID, error)
	// FindParticipants fetches the participant rows of many conversations in one read.
	FindParticipants(ctx context.Context, conversationIDs []uuid.UUID) ([]conversation.Participant, error)
	GetParticipants(ctx context.Context, conversationID uuid.UUID) ([]conversation.Participant, error)
	IsParticipant(ctx context.Context, conversationID, userID uuid.UUID) (bool, error)

	GetByPairKey(ctx context.Context, pairKey string) (conversation.Conversation, error)
	// CreateWithParticipants stores c and c.Participants atomically. A pair key
	// that is already taken yields ErrAlreadyExists and nothing is written.
	CreateWithParticipants(ctx context.Context, c *conversation.Conversation) error
}

type MessageRepository interface {
	// Create inserts m and fills in ID, Seq and CreatedAt.
	Create(ctx context.Context, m *message.Message) error
	GetByID(ctx context.Context, id uuid.UUID) (message.Message, error)
	// ListByConversation returns messages in ascending order. limit <= 0 means all.
	ListByConversation(ctx context.Context, conversationID uuid.UUID, limit int) ([]message.Message, error)
	// GetLatest returns ErrNotFound for an empty conversation.
	GetLatest(ctx context.Context, conversationID uuid.UUID) (message.Message, error)
}

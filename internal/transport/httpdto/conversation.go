package httpdto

import (
	"sea-u/internal/domain/conversation"
)

// CreateConversationRequest names the other party by user id or SEA-U id.
type CreateConversationRequest struct {
	UserID string `json:"user_id"`
	SeaID  string `json:"sea_id"`
}

type CreateConversationResponse struct {
	ConversationID string `json:"conversation_id"`
}

// ConversationSummaryDTO is one row of the conversation list
type ConversationSummaryDTO struct {
	ConversationID string     `json:"conversation_id"`
	Counterpart    ProfileDTO `json:"counterpart"`
	Preview        *string    `json:"preview"`
	LastMessageAt  *string    `json:"last_message_at"`
	LastSeq        int64      `json:"last_seq,omitempty"`
	UnreadCount    int        `json:"unread_count"`
}

type ConversationsResponse struct {
	Conversations []ConversationSummaryDTO `json:"conversations"`
}

func FromSummary(s conversation.Summary) ConversationSummaryDTO {
	return ConversationSummaryDTO{
		ConversationID: s.ConversationID.String(),
		Counterpart:    FromProfile(s.Counterpart),
		Preview:        s.Preview,
		LastMessageAt:  formatTimePtr(s.LastMessageAt),
		LastSeq:        s.LastSeq,
		UnreadCount:    s.UnreadCount,
	}
}

func FromSummaries(items []conversation.Summary) []ConversationSummaryDTO {
	out := make([]ConversationSummaryDTO, 0, len(items))
	for _, s := range items {
		out = append(out, FromSummary(s))
	}
	return out
}

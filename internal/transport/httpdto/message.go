package httpdto

import (
	"sea-u/internal/domain/message"
)

// SendMessageRequest carries exactly one of content or sticker.
type SendMessageRequest struct {
	Content string `json:"content"`
	Sticker string `json:"sticker"`
}

// ListMessagesRequest holds query parameters for message history
type ListMessagesRequest struct {
	Limit int `form:"limit"`
}

type MessageDTO struct {
	ID             string  `json:"id"`
	ConversationID string  `json:"conversation_id"`
	SenderID       string  `json:"sender_id"`
	Content        *string `json:"content,omitempty"`
	Sticker        *string `json:"sticker,omitempty"`
	Seq            int64   `json:"seq"`
	CreatedAt      string  `json:"created_at"`
}

type MessagesResponse struct {
	Messages []MessageDTO `json:"messages"`
}

type StickerDTO struct {
	ID       string `json:"id"`
	Emoji    string `json:"emoji"`
	Label    string `json:"label"`
	Category string `json:"category"`
}

type StickersResponse struct {
	Stickers []StickerDTO `json:"stickers"`
}

func FromMessage(m message.Message) MessageDTO {
	dto := MessageDTO{
		ID:             m.ID.String(),
		ConversationID: m.ConversationID.String(),
		SenderID:       m.SenderID.String(),
		Seq:            m.Seq,
		CreatedAt:      formatTime(m.CreatedAt),
	}
	body, _ := m.Body()
	switch b := body.(type) {
	case message.TextBody:
		dto.Content = &b.Text
	case message.StickerBody:
		dto.Sticker = &b.Sticker
	}
	return dto
}

func FromMessages(items []message.Message) []MessageDTO {
	out := make([]MessageDTO, 0, len(items))
	for _, m := range items {
		out = append(out, FromMessage(m))
	}
	return out
}

func FromStickers(items []message.Sticker) []StickerDTO {
	out := make([]StickerDTO, 0, len(items))
	for _, s := range items {
		out = append(out, StickerDTO{ID: s.ID, Emoji: s.Emoji, Label: s.Label, Category: string(s.Category)})
	}
	return out
}

package events

import (
	"encoding/json"
	"fmt"
	"time"

	"sea-u/internal/domain/message"

	"github.com/google/uuid"
)

const (
	EventMessageInserted  = "message.inserted"
	AggregateConversation = "conversation"
)

type Envelope struct {
	EventType     string          `json:"event_type"`
	AggregateType string          `json:"aggregate_type"`
	AggregateID   string          `json:"aggregate_id"`
	OccurredAt    time.Time       `json:"occurred_at"`
	Payload       json.RawMessage `json:"payload"`
}

// MessagePayload is the wire form of a message row.
type MessagePayload struct {
	ID             uuid.UUID `json:"id"`
	ConversationID uuid.UUID `json:"conversation_id"`
	SenderID       uuid.UUID `json:"sender_id"`
	Content        *string   `json:"content,omitempty"`
	Sticker        *string   `json:"sticker,omitempty"`
	Seq            int64     `json:"seq"`
	CreatedAt      time.Time `json:"created_at"`
}

func NewMessagePayload(m message.Message) MessagePayload {
	p := MessagePayload{
		ID:             m.ID,
		ConversationID: m.ConversationID,
		SenderID:       m.SenderID,
		Seq:            m.Seq,
		CreatedAt:      m.CreatedAt,
	}
	if m.Content.Valid {
		s := m.Content.String
		p.Content = &s
	}
	if m.Sticker.Valid {
		s := m.Sticker.String
		p.Sticker = &s
	}
	return p
}

func (p MessagePayload) Message() message.Message {
	m := message.Message{
		ID:             p.ID,
		ConversationID: p.ConversationID,
		SenderID:       p.SenderID,
		Seq:            p.Seq,
		CreatedAt:      p.CreatedAt,
	}
	if p.Content != nil {
		m.Content.String, m.Content.Valid = *p.Content, true
	}
	if p.Sticker != nil {
		m.Sticker.String, m.Sticker.Valid = *p.Sticker, true
	}
	return m
}

func NewMessageEnvelope(m message.Message) (Envelope, error) {
	payload, err := json.Marshal(NewMessagePayload(m))
	if err != nil {
		return Envelope{}, fmt.Errorf("failed to marshal message payload: %w", err)
	}
	return Envelope{
		EventType:     EventMessageInserted,
		AggregateType: AggregateConversation,
		AggregateID:   m.ConversationID.String(),
		OccurredAt:    m.CreatedAt,
		Payload:       payload,
	}, nil
}

// DecodeMessage extracts the message carried by a message.inserted envelope.
func (e Envelope) DecodeMessage() (message.Message, error) {
	if e.EventType != EventMessageInserted {
		return message.Message{}, fmt.Errorf("unexpected event type %q", e.EventType)
	}
	var p MessagePayload
	if err := json.Unmarshal(e.Payload, &p); err != nil {
		return message.Message{}, fmt.Errorf("failed to decode message payload: %w", err)
	}
	return p.Message(), nil
}

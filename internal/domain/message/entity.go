package message

import (
	"database/sql"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	seau_errors "sea-u/pkg/errors"

	"github.com/google/uuid"
)

type Kind string

const (
	KindText    Kind = "TEXT"
	KindSticker Kind = "STICKER"
)

var (
	ErrEmptyBody     = errors.New("message has neither text nor sticker")
	ErrAmbiguousBody = fmt.Errorf("%w: message carries both text and sticker", seau_errors.ErrInvalidInput)
)

// Body is the payload of a message. It is exactly one of TextBody or StickerBody.
type Body interface {
	Kind() Kind
	isBody()
}

type TextBody struct {
	Text string
}

func (TextBody) Kind() Kind { return KindText }
func (TextBody) isBody()    {}

// StickerBody references a sticker by the glyph stored in the messages.sticker column.
type StickerBody struct {
	Sticker string
}

func (StickerBody) Kind() Kind { return KindSticker }
func (StickerBody) isBody()    {}

// NewBody builds a body from the loose (content, sticker) pair a client sends.
// Blank text counts as absent.
func NewBody(content, sticker string) (Body, error) {
	hasText := strings.TrimSpace(content) != ""
	hasSticker := strings.TrimSpace(sticker) != ""
	switch {
	case hasText && hasSticker:
		return nil, ErrAmbiguousBody
	case hasText:
		return TextBody{Text: content}, nil
	case hasSticker:
		return StickerBody{Sticker: strings.TrimSpace(sticker)}, nil
	default:
		return nil, ErrEmptyBody
	}
}

// Message represents the messages table. Seq is assigned by the store on
// insert and is strictly increasing, it breaks created_at ties.
type Message struct {
	ID             uuid.UUID `gorm:"type:uuid;primaryKey"`
	ConversationID uuid.UUID `gorm:"type:uuid;index"`
	SenderID       uuid.UUID `gorm:"type:uuid"`
	Content        sql.NullString
	Sticker        sql.NullString
	Seq            int64
	CreatedAt      time.Time
}

func (Message) TableName() string {
	return "messages"
}

// New prepares an unsaved message. ID, Seq and CreatedAt are filled by the store.
func New(conversationID, senderID uuid.UUID, body Body) Message {
	m := Message{ConversationID: conversationID, SenderID: senderID}
	switch b := body.(type) {
	case TextBody:
		m.Content = sql.NullString{String: b.Text, Valid: true}
	case StickerBody:
		m.Sticker = sql.NullString{String: b.Sticker, Valid: true}
	}
	return m
}

// Body decodes the stored row. Text wins if both columns are somehow set.
func (m Message) Body() (Body, bool) {
	if m.Content.Valid && m.Content.String != "" {
		return TextBody{Text: m.Content.String}, true
	}
	if m.Sticker.Valid && m.Sticker.String != "" {
		return StickerBody{Sticker: m.Sticker.String}, true
	}
	return nil, false
}

// Preview is the one-line text shown in conversation lists.
func (m Message) Preview() *string {
	body, ok := m.Body()
	if !ok {
		return nil
	}
	var s string
	switch b := body.(type) {
	case TextBody:
		s = b.Text
	case StickerBody:
		s = "Sticker " + b.Sticker
	}
	return &s
}

// Less orders messages by created_at, then seq, then id.
func Less(a, b Message) bool {
	if !a.CreatedAt.Equal(b.CreatedAt) {
		return a.CreatedAt.Before(b.CreatedAt)
	}
	if a.Seq != b.Seq {
		return a.Seq < b.Seq
	}
	return a.ID.String() < b.ID.String()
}

// InsertSorted places m into an already ordered slice.
func InsertSorted(list []Message, m Message) []Message {
	n := len(list)
	if n == 0 || !Less(m, list[n-1]) {
		return append(list, m)
	}
	i := sort.Search(n, func(i int) bool { return Less(m, list[i]) })
	list = append(list, Message{})
	copy(list[i+1:], list[i:])
	list[i] = m
	return list
}

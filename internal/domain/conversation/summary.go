package conversation

import (
	"sort"
	"time"

	"sea-u/internal/domain/message"
	"sea-u/internal/domain/user"

	"github.com/google/uuid"
)

// Summary is one row of a user's conversation list.
type Summary struct {
	ConversationID uuid.UUID
	Counterpart    user.Profile
	Preview        *string
	LastMessageAt  *time.Time
	LastMessageID  uuid.UUID
	LastSeq        int64
	UnreadCount    int
}

// NewSummary builds a row from the latest message, which may be nil.
func NewSummary(conversationID uuid.UUID, counterpart user.Profile, latest *message.Message) Summary {
	s := Summary{ConversationID: conversationID, Counterpart: counterpart}
	if latest != nil {
		s.setLatest(*latest)
	}
	return s
}

// Apply folds m into the summary when m is newer than the current last message.
func (s *Summary) Apply(m message.Message) bool {
	if m.ConversationID != s.ConversationID {
		return false
	}
	if s.LastMessageAt != nil {
		cur := message.Message{ID: s.LastMessageID, CreatedAt: *s.LastMessageAt, Seq: s.LastSeq}
		if !message.Less(cur, m) {
			return false
		}
	}
	s.setLatest(m)
	return true
}

func (s *Summary) setLatest(m message.Message) {
	at := m.CreatedAt
	s.LastMessageAt = &at
	s.LastMessageID = m.ID
	s.LastSeq = m.Seq
	s.Preview = m.Preview()
}

// SortSummaries orders by last activity, newest first. Empty conversations
// keep their relative order at the end.
func SortSummaries(items []Summary) {
	sort.SliceStable(items, func(i, j int) bool {
		return newer(items[i], items[j])
	})
}

func newer(a, b Summary) bool {
	if a.LastMessageAt == nil {
		return false
	}
	if b.LastMessageAt == nil {
		return true
	}
	if !a.LastMessageAt.Equal(*b.LastMessageAt) {
		return a.LastMessageAt.After(*b.LastMessageAt)
	}
	return a.LastSeq > b.LastSeq
}

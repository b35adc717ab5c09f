// Package memory is a process-local implementation of the repository ports,
// used by tests and by the memory store driver.
package memory

import (
	"sync"
	"time"

	"sea-u/internal/domain/conversation"
	"sea-u/internal/domain/message"
	"sea-u/internal/domain/user"
	"sea-u/internal/repository"

	"github.com/google/uuid"
)

type Store struct {
	mu            sync.RWMutex
	now           func() time.Time
	profiles      map[uuid.UUID]user.Profile
	conversations []conversation.Conversation
	participants  []conversation.Participant
	messages      []message.Message
	seq           int64

	// BeforeCreateConversation runs before a conversation insert takes the lock.
	BeforeCreateConversation func(c conversation.Conversation)
}

type Option func(*Store)

// WithClock replaces time.Now for created_at and joined_at values.
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

func New(opts ...Option) *Store {
	s := &Store{
		now:      time.Now,
		profiles: make(map[uuid.UUID]user.Profile),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Store) Profiles() repository.ProfileRepository {
	return &profileRepository{s: s}
}

func (s *Store) Conversations() repository.ConversationRepository {
	return &conversationRepository{s: s}
}

func (s *Store) Messages() repository.MessageRepository {
	return &messageRepository{s: s}
}

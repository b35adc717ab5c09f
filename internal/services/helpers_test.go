package services

import (
	"context"
	"sync"
	"testing"
	"time"

	"sea-u/internal/domain/user"
	"sea-u/internal/events"
	"sea-u/internal/repository"
	"sea-u/internal/repository/memory"
	"sea-u/pkg/logger"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

// tickClock advances one second per reading.
type tickClock struct {
	mu  sync.Mutex
	now time.Time
}

func newTickClock() *tickClock {
	return &tickClock{now: time.Date(2026, 6, 1, 9, 0, 0, 0, time.UTC)}
}

func (c *tickClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(time.Second)
	return c.now
}

type fixture struct {
	store         *memory.Store
	bus           *events.Bus
	profiles      repository.ProfileRepository
	conversations repository.ConversationRepository
	messages      repository.MessageRepository
	log           *logger.Logger
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	store := memory.New(memory.WithClock(newTickClock().Now))
	bus := events.NewBus(0)
	t.Cleanup(bus.Close)
	return &fixture{
		store:         store,
		bus:           bus,
		profiles:      store.Profiles(),
		conversations: store.Conversations(),
		messages:      repository.NewNotifyingMessageRepository(store.Messages(), bus),
		log:           logger.Wrap(zaptest.NewLogger(t)),
	}
}

func (f *fixture) addUser(t *testing.T, name, seaID, country string) user.Profile {
	t.Helper()
	p := user.Profile{
		UserID:          uuid.New(),
		DisplayName:     name,
		SeaID:           seaID,
		Country:         country,
		ShowOnline:      true,
		ShowInDirectory: true,
	}
	require.NoError(t, f.profiles.Upsert(context.Background(), &p))
	return p
}

func (f *fixture) resolver() *ConversationResolver {
	return NewConversationResolver(f.conversations)
}

func (f *fixture) messageService() *MessageService {
	return NewMessageService(f.conversations, f.messages, f.bus)
}

func (f *fixture) listBuilder() *ConversationListBuilder {
	return NewConversationListBuilder(f.conversations, f.profiles, f.messages)
}

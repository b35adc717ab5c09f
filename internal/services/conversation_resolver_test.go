package services

import (
	"context"
	"database/sql"
	"sync"
	"testing"

	"sea-u/internal/domain/conversation"
	seau_errors "sea-u/pkg/errors"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveRejectsSelf(t *testing.T) {
	f := newFixture(t)
	a := f.addUser(t, "Ana", "SEA-000001", "Philippines 🇵🇭")

	_, err := f.resolver().Resolve(context.Background(), a.UserID, a.UserID)
	assert.ErrorIs(t, err, seau_errors.ErrInvalidInput)
}

func TestResolveCreatesOnceAndIsSymmetric(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	a := f.addUser(t, "Ana", "SEA-000001", "Philippines 🇵🇭")
	b := f.addUser(t, "Binh", "SEA-000002", "Vietnam 🇻🇳")
	r := f.resolver()

	first, err := r.Resolve(ctx, a.UserID, b.UserID)
	require.NoError(t, err)
	again, err := r.Resolve(ctx, a.UserID, b.UserID)
	require.NoError(t, err)
	reversed, err := r.Resolve(ctx, b.UserID, a.UserID)
	require.NoError(t, err)

	assert.Equal(t, first, again)
	assert.Equal(t, first, reversed)

	rows, err := f.conversations.GetParticipants(ctx, first)
	require.NoError(t, err)
	assert.Len(t, rows, 2)

	ids, err := f.conversations.ListConversationIDs(ctx, a.UserID)
	require.NoError(t, err)
	assert.Len(t, ids, 1)
}

func TestResolveDistinguishesPairs(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	a := f.addUser(t, "Ana", "SEA-000001", "")
	b := f.addUser(t, "Binh", "SEA-000002", "")
	c := f.addUser(t, "Chai", "SEA-000003", "")
	r := f.resolver()

	ab, err := r.Resolve(ctx, a.UserID, b.UserID)
	require.NoError(t, err)
	ac, err := r.Resolve(ctx, a.UserID, c.UserID)
	require.NoError(t, err)
	assert.NotEqual(t, ab, ac)
}

func TestResolveFindsConversationWithoutPairKey(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	a, b := uuid.New(), uuid.New()

	legacy := &conversation.Conversation{
		Participants: []conversation.Participant{{UserID: a}, {UserID: b}},
	}
	require.NoError(t, f.conversations.CreateWithParticipants(ctx, legacy))

	got, err := f.resolver().Resolve(ctx, b, a)
	require.NoError(t, err)
	assert.Equal(t, legacy.ID, got)
}

func TestResolveConcurrentCallsAgree(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	a, b := uuid.New(), uuid.New()

	// two resolvers stand in for two server processes
	resolvers := []*ConversationResolver{f.resolver(), f.resolver()}
	results := make([]uuid.UUID, 32)
	var wg sync.WaitGroup
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			from, to := a, b
			if i%2 == 1 {
				from, to = b, a
			}
			id, err := resolvers[i%len(resolvers)].Resolve(ctx, from, to)
			assert.NoError(t, err)
			results[i] = id
		}(i)
	}
	wg.Wait()

	for _, id := range results {
		assert.Equal(t, results[0], id)
	}
	ids, err := f.conversations.ListConversationIDs(ctx, a)
	require.NoError(t, err)
	assert.Len(t, ids, 1)
}

func TestResolveRereadsAfterLosingRace(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	a, b := uuid.New(), uuid.New()
	key := conversation.PairKey(a, b)

	var winner uuid.UUID
	raced := false
	f.store.BeforeCreateConversation = func(c conversation.Conversation) {
		if raced {
			return
		}
		raced = true
		other := &conversation.Conversation{
			PairKey:      sql.NullString{String: key, Valid: true},
			Participants: []conversation.Participant{{UserID: b}, {UserID: a}},
		}
		require.NoError(t, f.conversations.CreateWithParticipants(ctx, other))
		winner = other.ID
	}

	got, err := f.resolver().Resolve(ctx, a, b)
	require.NoError(t, err)
	assert.Equal(t, winner, got)
}

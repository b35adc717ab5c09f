package database

import (
	"context"
	"testing"

	"sea-u/internal/repository/memory"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSeedDevelopmentIsRepeatable(t *testing.T) {
	ctx := context.Background()
	store := memory.New()
	targets := SeedTargets{
		Profiles:      store.Profiles(),
		Conversations: store.Conversations(),
		Messages:      store.Messages(),
	}

	first, err := SeedDevelopment(ctx, targets)
	require.NoError(t, err)
	assert.Equal(t, "SEA-810042", first.Me.SeaID)
	assert.Len(t, first.Contacts, 10)
	assert.Len(t, first.Conversations, 6)
	assert.Equal(t, 21, first.Messages)

	second, err := SeedDevelopment(ctx, targets)
	require.NoError(t, err)
	assert.Equal(t, first.Me.UserID, second.Me.UserID)
	assert.Equal(t, first.Conversations, second.Conversations)
	assert.Zero(t, second.Messages)

	ids, err := store.Conversations().ListConversationIDs(ctx, first.Me.UserID)
	require.NoError(t, err)
	assert.Len(t, ids, 6)

	history, err := store.Messages().ListByConversation(ctx, first.Conversations[0], 0)
	require.NoError(t, err)
	require.Len(t, history, 6)
	assert.Equal(t, "Kamusta ka? 😊", history[5].Content.String)
}

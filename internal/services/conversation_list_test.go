package services

import (
	"context"
	"testing"

	"sea-u/internal/domain/conversation"
	"sea-u/internal/domain/message"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func send(t *testing.T, f *fixture, conversationID, senderID uuid.UUID, body message.Body) message.Message {
	t.Helper()
	m := message.New(conversationID, senderID, body)
	require.NoError(t, f.messages.Create(context.Background(), &m))
	return m
}

func TestBuildEmpty(t *testing.T) {
	f := newFixture(t)
	got, err := f.listBuilder().Build(context.Background(), uuid.New())
	require.NoError(t, err)
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestBuildOrdersByLatestMessage(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	me := f.addUser(t, "Me", "SEA-000010", "Malaysia 🇲🇾")
	quiet := f.addUser(t, "Quiet", "SEA-000011", "Laos 🇱🇦")
	older := f.addUser(t, "Older", "SEA-000012", "Brunei 🇧🇳")
	newer := f.addUser(t, "Newer", "SEA-000013", "Cambodia 🇰🇭")
	r := f.resolver()

	quietID, err := r.Resolve(ctx, me.UserID, quiet.UserID)
	require.NoError(t, err)
	olderID, err := r.Resolve(ctx, me.UserID, older.UserID)
	require.NoError(t, err)
	newerID, err := r.Resolve(ctx, me.UserID, newer.UserID)
	require.NoError(t, err)

	send(t, f, olderID, older.UserID, message.TextBody{Text: "first"})
	send(t, f, newerID, me.UserID, message.TextBody{Text: "hello"})
	send(t, f, newerID, newer.UserID, message.StickerBody{Sticker: "🧋"})

	got, err := f.listBuilder().Build(ctx, me.UserID)
	require.NoError(t, err)
	require.Len(t, got, 3)

	assert.Equal(t, newerID, got[0].ConversationID)
	assert.Equal(t, "Newer", got[0].Counterpart.DisplayName)
	require.NotNil(t, got[0].Preview)
	assert.Equal(t, "Sticker 🧋", *got[0].Preview)

	assert.Equal(t, olderID, got[1].ConversationID)
	assert.Equal(t, "first", *got[1].Preview)

	assert.Equal(t, quietID, got[2].ConversationID)
	assert.Nil(t, got[2].Preview)
	assert.Nil(t, got[2].LastMessageAt)
	assert.Zero(t, got[2].UnreadCount)
}

func TestBuildOmitsConversationsWithoutCounterpartProfile(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	me := f.addUser(t, "Me", "SEA-000020", "")
	friend := f.addUser(t, "Friend", "SEA-000021", "")
	ghost := uuid.New()

	r := f.resolver()
	friendID, err := r.Resolve(ctx, me.UserID, friend.UserID)
	require.NoError(t, err)
	_, err = r.Resolve(ctx, me.UserID, ghost)
	require.NoError(t, err)

	solo := &conversation.Conversation{Participants: []conversation.Participant{{UserID: me.UserID}}}
	require.NoError(t, f.conversations.CreateWithParticipants(ctx, solo))

	got, err := f.listBuilder().Build(ctx, me.UserID)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, friendID, got[0].ConversationID)
}

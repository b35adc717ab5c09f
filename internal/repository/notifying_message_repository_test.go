package repository_test

import (
	"context"
	"errors"
	"testing"

	"sea-u/internal/domain/conversation"
	"sea-u/internal/domain/message"
	"sea-u/internal/repository"
	"sea-u/internal/repository/memory"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingPublisher struct {
	published []message.Message
	err       error
}

func (p *recordingPublisher) Publish(ctx context.Context, m message.Message) error {
	p.published = append(p.published, m)
	return p.err
}

func TestNotifyingRepositoryPublishesStoredRow(t *testing.T) {
	ctx := context.Background()
	store := memory.New()
	conv := &conversation.Conversation{}
	require.NoError(t, store.Conversations().CreateWithParticipants(ctx, conv))

	pub := &recordingPublisher{}
	repo := repository.NewNotifyingMessageRepository(store.Messages(), pub)

	m := message.New(conv.ID, uuid.New(), message.TextBody{Text: "Mingalaba"})
	require.NoError(t, repo.Create(ctx, &m))

	require.Len(t, pub.published, 1)
	assert.Equal(t, m.ID, pub.published[0].ID)
	assert.NotZero(t, pub.published[0].Seq)
}

func TestNotifyingRepositoryKeepsInsertWhenPublishFails(t *testing.T) {
	ctx := context.Background()
	store := memory.New()
	conv := &conversation.Conversation{}
	require.NoError(t, store.Conversations().CreateWithParticipants(ctx, conv))

	pub := &recordingPublisher{err: errors.New("redis down")}
	repo := repository.NewNotifyingMessageRepository(store.Messages(), pub)

	m := message.New(conv.ID, uuid.New(), message.StickerBody{Sticker: "👋"})
	require.NoError(t, repo.Create(ctx, &m))

	stored, err := repo.GetByID(ctx, m.ID)
	require.NoError(t, err)
	assert.Equal(t, "👋", stored.Sticker.String)
}

func TestNotifyingRepositorySkipsFailedInsert(t *testing.T) {
	pub := &recordingPublisher{}
	repo := repository.NewNotifyingMessageRepository(memory.New().Messages(), pub)

	m := message.New(uuid.New(), uuid.New(), message.TextBody{Text: "orphan"})
	assert.Error(t, repo.Create(context.Background(), &m))
	assert.Empty(t, pub.published)
}

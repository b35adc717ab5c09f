package services

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"sea-u/internal/domain/message"
	seau_errors "sea-u/pkg/errors"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type messageRecorder struct {
	mu   sync.Mutex
	last []message.Message
	n    int
}

func (r *messageRecorder) record(items []message.Message) {
	r.mu.Lock()
	r.last = items
	r.n++
	r.mu.Unlock()
}

func (r *messageRecorder) snapshot() ([]message.Message, int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.last, r.n
}

func openPair(t *testing.T, f *fixture) (uuid.UUID, uuid.UUID, uuid.UUID) {
	t.Helper()
	a := f.addUser(t, "Arun", "SEA-000070", "Singapore 🇸🇬")
	b := f.addUser(t, "Bee", "SEA-000071", "Myanmar 🇲🇲")
	convID, err := f.resolver().Resolve(context.Background(), a.UserID, b.UserID)
	require.NoError(t, err)
	return convID, a.UserID, b.UserID
}

func TestOpenRequiresParticipant(t *testing.T) {
	f := newFixture(t)
	convID, _, _ := openPair(t, f)

	_, err := f.messageService().Open(context.Background(), convID, uuid.New(), nil)
	assert.ErrorIs(t, err, seau_errors.ErrForbidden)
}

func TestStreamLoadsHistoryThenFollowsInserts(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	convID, a, b := openPair(t, f)
	first := send(t, f, convID, a, message.TextBody{Text: "Hi Bee"})

	rec := &messageRecorder{}
	st, err := f.messageService().Open(ctx, convID, b, rec.record)
	require.NoError(t, err)
	defer st.Close()

	history := st.Messages()
	require.Len(t, history, 1)
	assert.Equal(t, first.ID, history[0].ID)

	sent, err := st.Send(ctx, "", "🌴")
	require.NoError(t, err)
	require.NotNil(t, sent)
	// not appended locally, it arrives through the subscription
	require.Eventually(t, func() bool { return len(st.Messages()) == 2 }, time.Second, 5*time.Millisecond)

	got := st.Messages()
	assert.Equal(t, first.ID, got[0].ID)
	assert.Equal(t, sent.ID, got[1].ID)
	items, calls := rec.snapshot()
	assert.Equal(t, 1, calls)
	assert.Len(t, items, 2)
}

func TestStreamOrdersBySeqNotArrival(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	convID, a, _ := openPair(t, f)

	st, err := f.messageService().Open(ctx, convID, a, nil)
	require.NoError(t, err)
	defer st.Close()

	at := time.Date(2026, 6, 2, 0, 0, 0, 0, time.UTC)
	later := message.New(convID, a, message.TextBody{Text: "second"})
	later.ID, later.Seq, later.CreatedAt = uuid.New(), 11, at
	earlier := message.New(convID, a, message.TextBody{Text: "first"})
	earlier.ID, earlier.Seq, earlier.CreatedAt = uuid.New(), 10, at

	require.NoError(t, f.bus.Publish(ctx, later))
	require.NoError(t, f.bus.Publish(ctx, earlier))
	require.NoError(t, f.bus.Publish(ctx, later))

	require.Eventually(t, func() bool { return len(st.Messages()) == 2 }, time.Second, 5*time.Millisecond)
	time.Sleep(20 * time.Millisecond)
	got := st.Messages()
	require.Len(t, got, 2)
	assert.Equal(t, earlier.ID, got[0].ID)
	assert.Equal(t, later.ID, got[1].ID)
}

func TestStreamSendNoOps(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	convID, a, _ := openPair(t, f)

	st, err := f.messageService().Open(ctx, convID, a, nil)
	require.NoError(t, err)

	m, err := st.Send(ctx, "  ", "")
	assert.NoError(t, err)
	assert.Nil(t, m)

	_, err = st.Send(ctx, "text", "🔥")
	assert.ErrorIs(t, err, seau_errors.ErrInvalidInput)

	st.Close()
	st.Close()
	m, err = st.Send(ctx, "after close", "")
	assert.NoError(t, err)
	assert.Nil(t, m)

	history, err := f.messages.ListByConversation(ctx, convID, 0)
	require.NoError(t, err)
	assert.Empty(t, history)
}

func TestClosedStreamIgnoresNotifications(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	convID, a, b := openPair(t, f)

	rec := &messageRecorder{}
	st, err := f.messageService().Open(ctx, convID, a, rec.record)
	require.NoError(t, err)
	st.Close()

	send(t, f, convID, b, message.TextBody{Text: "anyone?"})
	time.Sleep(30 * time.Millisecond)
	_, calls := rec.snapshot()
	assert.Zero(t, calls)
	assert.Empty(t, st.Messages())
}

func TestMessageServiceStateless(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	convID, a, b := openPair(t, f)
	svc := f.messageService()

	_, err := svc.Send(ctx, convID, a, "", "")
	assert.ErrorIs(t, err, seau_errors.ErrInvalidInput)

	_, err = svc.Send(ctx, convID, uuid.New(), "intruder", "")
	assert.ErrorIs(t, err, seau_errors.ErrForbidden)

	m1, err := svc.Send(ctx, convID, a, "Salamat", "")
	require.NoError(t, err)
	m2, err := svc.Send(ctx, convID, b, "", "🙏")
	require.NoError(t, err)

	history, err := svc.History(ctx, convID, b, 0)
	require.NoError(t, err)
	require.Len(t, history, 2)
	assert.Equal(t, m1.ID, history[0].ID)
	assert.Equal(t, m2.ID, history[1].ID)

	_, err = svc.History(ctx, convID, uuid.New(), 0)
	assert.ErrorIs(t, err, seau_errors.ErrForbidden)
}

func TestOpenLoadsEntireHistory(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	convID, a, b := openPair(t, f)

	total := defaultHistoryLimit + 1
	first := send(t, f, convID, a, message.TextBody{Text: "m0"})
	for i := 1; i < total; i++ {
		send(t, f, convID, a, message.TextBody{Text: fmt.Sprintf("m%d", i)})
	}

	st, err := f.messageService().Open(ctx, convID, b, nil)
	require.NoError(t, err)
	defer st.Close()

	got := st.Messages()
	require.Len(t, got, total)
	assert.Equal(t, first.ID, got[0].ID)

	page, err := f.messageService().History(ctx, convID, b, 0)
	require.NoError(t, err)
	assert.Len(t, page, defaultHistoryLimit)
}

package services

import (
	"context"
	"sync"

	"sea-u/internal/domain/message"
	"sea-u/internal/events"

	"github.com/google/uuid"
)

// MessageStream is the live, ordered message list of one conversation as
// seen by one participant.
type MessageStream struct {
	service        *MessageService
	conversationID uuid.UUID
	userID         uuid.UUID
	onChange       func([]message.Message)
	sub            *events.Subscription

	ready chan struct{}
	done  chan struct{}

	mu     sync.Mutex
	items  []message.Message
	seen   map[uuid.UUID]struct{}
	closed bool
}

func (st *MessageStream) ConversationID() uuid.UUID {
	return st.conversationID
}

// Messages returns the current list ordered by created_at then seq.
func (st *MessageStream) Messages() []message.Message {
	st.mu.Lock()
	defer st.mu.Unlock()
	out := make([]message.Message, len(st.items))
	copy(out, st.items)
	return out
}

// Send inserts a message. A closed stream or an empty body is a no-op that
// returns nil, nil. The message shows up through the subscription, not here.
func (st *MessageStream) Send(ctx context.Context, content, sticker string) (*message.Message, error) {
	st.mu.Lock()
	closed := st.closed
	st.mu.Unlock()
	if closed || (isBlank(content) && isBlank(sticker)) {
		return nil, nil
	}

	body, err := message.NewBody(content, sticker)
	if err != nil {
		return nil, err
	}
	m, err := st.service.insert(ctx, st.conversationID, st.userID, body)
	if err != nil {
		return nil, err
	}
	return &m, nil
}

// Close releases the subscription. It is idempotent.
func (st *MessageStream) Close() {
	st.mu.Lock()
	if st.closed {
		st.mu.Unlock()
		return
	}
	st.closed = true
	st.mu.Unlock()

	close(st.done)
	if st.sub != nil {
		st.sub.Close()
	}
}

func (st *MessageStream) handle(m message.Message) {
	select {
	case <-st.ready:
	case <-st.done:
		return
	}

	st.mu.Lock()
	if st.closed || !st.insertLocked(m) {
		st.mu.Unlock()
		return
	}
	out := make([]message.Message, len(st.items))
	copy(out, st.items)
	st.mu.Unlock()
	st.onChange(out)
}

func (st *MessageStream) insertLocked(m message.Message) bool {
	if _, dup := st.seen[m.ID]; dup {
		return false
	}
	st.seen[m.ID] = struct{}{}
	st.items = message.InsertSorted(st.items, m)
	return true
}

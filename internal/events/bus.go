package events

import (
	"context"
	"errors"
	"sync"

	"sea-u/internal/domain/message"

	"github.com/google/uuid"
)

var ErrBusClosed = errors.New("event bus closed")

const defaultBuffer = 64

// Filter selects message inserts. A zero ConversationID matches every conversation.
type Filter struct {
	ConversationID uuid.UUID
}

func (f Filter) Match(m message.Message) bool {
	return f.ConversationID == uuid.Nil || f.ConversationID == m.ConversationID
}

type Handler func(m message.Message)

// Subscriber is the read side of the bus.
type Subscriber interface {
	Subscribe(ctx context.Context, filter Filter, handler Handler) (*Subscription, error)
}

// Bus fans message inserts out to in-process subscribers. Each subscription
// has its own queue and goroutine, so its handler is never called concurrently.
type Bus struct {
	mu     sync.RWMutex
	subs   map[uint64]*Subscription
	nextID uint64
	buffer int
	closed bool
}

func NewBus(buffer int) *Bus {
	if buffer <= 0 {
		buffer = defaultBuffer
	}
	return &Bus{subs: make(map[uint64]*Subscription), buffer: buffer}
}

type Subscription struct {
	id      uint64
	bus     *Bus
	filter  Filter
	handler Handler
	queue   chan message.Message
	done    chan struct{}
	once    sync.Once
}

// Subscribe registers handler. The subscription ends when Close is called,
// ctx is cancelled or the bus closes.
func (b *Bus) Subscribe(ctx context.Context, filter Filter, handler Handler) (*Subscription, error) {
	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		return nil, ErrBusClosed
	}
	b.nextID++
	s := &Subscription{
		id:      b.nextID,
		bus:     b,
		filter:  filter,
		handler: handler,
		queue:   make(chan message.Message, b.buffer),
		done:    make(chan struct{}),
	}
	b.subs[s.id] = s
	b.mu.Unlock()

	go s.run()
	if ctx != nil && ctx.Done() != nil {
		go func() {
			select {
			case <-ctx.Done():
				s.Close()
			case <-s.done:
			}
		}()
	}
	return s, nil
}

// Publish hands m to every matching subscriber, waiting for queue space.
func (b *Bus) Publish(ctx context.Context, m message.Message) error {
	b.mu.RLock()
	if b.closed {
		b.mu.RUnlock()
		return ErrBusClosed
	}
	targets := make([]*Subscription, 0, len(b.subs))
	for _, s := range b.subs {
		if s.filter.Match(m) {
			targets = append(targets, s)
		}
	}
	b.mu.RUnlock()

	for _, s := range targets {
		select {
		case s.queue <- m:
		case <-s.done:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	return nil
}

// Close ends every subscription. Later Subscribe and Publish calls fail with ErrBusClosed.
func (b *Bus) Close() {
	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		return
	}
	b.closed = true
	subs := b.subs
	b.subs = make(map[uint64]*Subscription)
	b.mu.Unlock()

	for _, s := range subs {
		s.stop()
	}
}

func (b *Bus) remove(id uint64) {
	b.mu.Lock()
	delete(b.subs, id)
	b.mu.Unlock()
}

func (s *Subscription) run() {
	for {
		select {
		case <-s.done:
			return
		case m := <-s.queue:
			select {
			case <-s.done:
				return
			default:
			}
			s.handler(m)
		}
	}
}

// Close unsubscribes. It is safe to call more than once and from inside the handler.
func (s *Subscription) Close() {
	s.bus.remove(s.id)
	s.stop()
}

func (s *Subscription) stop() {
	s.once.Do(func() { close(s.done) })
}

// Done is closed once the subscription has ended.
func (s *Subscription) Done() <-chan struct{} {
	return s.done
}

package events

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"sea-u/internal/domain/message"
	"sea-u/pkg/logger"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

// MessageFetcher loads the row named by a notification.
type MessageFetcher interface {
	GetByID(ctx context.Context, id uuid.UUID) (message.Message, error)
}

type notifyPayload struct {
	ID             uuid.UUID `json:"id"`
	ConversationID uuid.UUID `json:"conversation_id"`
}

// PgListener turns Postgres NOTIFY events on the messages table into bus publications.
type PgListener struct {
	dsn     string
	channel string
	fetcher MessageFetcher
	bus     *Bus
	log     *logger.Logger
	retry   reconnector
}

func NewPgListener(dsn, channel string, fetcher MessageFetcher, bus *Bus, log *logger.Logger) *PgListener {
	named := log.Named("pg_listener")
	return &PgListener{
		dsn:     dsn,
		channel: channel,
		fetcher: fetcher,
		bus:     bus,
		log:     named,
		retry:   newReconnector("notification listener "+channel, named),
	}
}

// Run listens until ctx is cancelled, reconnecting with exponential backoff.
func (l *PgListener) Run(ctx context.Context) error {
	return l.retry.run(ctx, l.listen)
}

func (l *PgListener) listen(ctx context.Context) (bool, error) {
	conn, err := pgx.Connect(ctx, l.dsn)
	if err != nil {
		return false, fmt.Errorf("connect: %w", err)
	}
	defer conn.Close(context.Background())

	if _, err := conn.Exec(ctx, "LISTEN "+pgx.Identifier{l.channel}.Sanitize()); err != nil {
		return false, fmt.Errorf("listen: %w", err)
	}
	l.log.Infof("listening for message inserts on %s", l.channel)

	for {
		n, err := conn.WaitForNotification(ctx)
		if err != nil {
			return true, err
		}
		err = l.dispatch(ctx, n.Payload)
		if errors.Is(err, ErrBusClosed) {
			return true, err
		}
		if err != nil && !errors.Is(err, context.Canceled) {
			l.log.Logger.Error("failed to dispatch notification", zap.String("payload", n.Payload), zap.Error(err))
		}
	}
}

func (l *PgListener) dispatch(ctx context.Context, payload string) error {
	var p notifyPayload
	if err := json.Unmarshal([]byte(payload), &p); err != nil {
		return fmt.Errorf("decode payload: %w", err)
	}
	m, err := l.fetcher.GetByID(ctx, p.ID)
	if err != nil {
		return fmt.Errorf("fetch message %s: %w", p.ID, err)
	}
	return l.bus.Publish(ctx, m)
}

package websocket

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"sea-u/internal/domain/conversation"
	"sea-u/internal/domain/message"
	"sea-u/internal/events"
	"sea-u/internal/redis"
	"sea-u/internal/repository"
	"sea-u/internal/services"
	"sea-u/internal/transport/httpdto"
	seau_errors "sea-u/pkg/errors"
	"sea-u/pkg/logger"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

// Handler serves the live feeds. It runs behind AuthMiddleware.
type Handler struct {
	lists         *services.ConversationListBuilder
	conversations repository.ConversationRepository
	subscriber    events.Subscriber
	messages      *services.MessageService
	hub           *Hub
	presence      *PresenceTracker
	limiter       *redis.RateLimiter
	logger        *logger.Logger
	log           *EventLogger
	upgrader      websocket.Upgrader
}

type HandlerDeps struct {
	Lists         *services.ConversationListBuilder
	Conversations repository.ConversationRepository
	Subscriber    events.Subscriber
	Messages      *services.MessageService
	Hub           *Hub
	Presence      *PresenceTracker
	Limiter       *redis.RateLimiter
	Logger        *logger.Logger
}

func NewHandler(deps HandlerDeps) *Handler {
	if deps.Logger == nil {
		deps.Logger = logger.GetGlobalLogger()
	}
	return &Handler{
		lists:         deps.Lists,
		conversations: deps.Conversations,
		subscriber:    deps.Subscriber,
		messages:      deps.Messages,
		hub:           deps.Hub,
		presence:      deps.Presence,
		limiter:       deps.Limiter,
		logger:        deps.Logger,
		log:           NewEventLogger(deps.Logger),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
	}
}

// ConversationList serves GET /v1/ws/conversations. Every frame is the full
// ordered conversation list.
func (h *Handler) ConversationList(c *gin.Context) {
	userID, ok := services.UserIDFromContext(c.Request.Context())
	if !ok {
		c.JSON(http.StatusUnauthorized, httpdto.NewErrorResponse("unauthorized", "UNAUTHORIZED"))
		return
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	changed := newSignal()
	projector := services.NewConversationProjector(h.lists, h.conversations, h.subscriber, userID,
		func([]conversation.Summary) { changed.notify() }, h.logger)
	if _, err := projector.Start(ctx); err != nil {
		c.JSON(services.HTTPStatus(err), httpdto.NewErrorResponse(err.Error(), httpdto.ErrorCode(err)))
		return
	}
	defer projector.Close()

	snapshot := func() Frame {
		return Frame{Type: FrameConversations, Data: httpdto.FromSummaries(projector.Snapshot())}
	}
	h.serve(ctx, c, userID, "conversation_list", changed, snapshot, nil)
}

// Conversation serves GET /v1/ws/conversations/:id. Every server frame is the
// full ordered message list. Client frames {content|sticker} send a message.
func (h *Handler) Conversation(c *gin.Context) {
	userID, ok := services.UserIDFromContext(c.Request.Context())
	if !ok {
		c.JSON(http.StatusUnauthorized, httpdto.NewErrorResponse("unauthorized", "UNAUTHORIZED"))
		return
	}
	conversationID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, httpdto.NewErrorResponse("invalid conversation id", "INVALID_REQUEST"))
		return
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	changed := newSignal()
	stream, err := h.messages.Open(ctx, conversationID, userID, func([]message.Message) { changed.notify() })
	if err != nil {
		c.JSON(services.HTTPStatus(err), httpdto.NewErrorResponse(err.Error(), httpdto.ErrorCode(err)))
		return
	}
	defer stream.Close()

	snapshot := func() Frame {
		return Frame{Type: FrameMessages, Data: httpdto.FromMessages(stream.Messages())}
	}
	onFrame := func(client *Client, payload []byte) {
		h.handleSend(ctx, client, stream, payload)
	}
	h.serve(ctx, c, userID, "conversation", changed, snapshot, onFrame)
}

func (h *Handler) handleSend(ctx context.Context, client *Client, stream *services.MessageStream, payload []byte) {
	var req SendFrameRequest
	if err := json.Unmarshal(payload, &req); err != nil {
		client.SendFrame(errorFrame(seau_errors.ErrInvalidInput))
		return
	}
	if h.limiter != nil {
		res, err := h.limiter.AllowMessage(ctx, client.UserID.String())
		if err != nil {
			h.log.Warn("rate_limit_unavailable", client.UserID, client.ID, zap.Error(err))
		} else if !res.Allowed {
			client.SendFrame(errorFrame(seau_errors.ErrRateLimited))
			return
		}
	}

	m, err := stream.Send(ctx, req.Content, req.Sticker)
	if err != nil {
		client.SendFrame(errorFrame(err))
		return
	}
	if m != nil {
		client.SendFrame(Frame{Type: FrameSent, Data: httpdto.FromMessage(*m)})
	}
}

// serve upgrades the request and pumps snapshots until either side closes.
func (h *Handler) serve(ctx context.Context, c *gin.Context, userID uuid.UUID, feed string, changed signal, snapshot func() Frame, onFrame func(*Client, []byte)) {
	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		return
	}
	client := NewClient(conn, userID)
	h.hub.Register(ctx, client)
	h.log.Info("connected", userID, client.ID, zap.String("feed", feed))

	go client.WriteLoop(ctx)
	go pumpSnapshots(client, changed, snapshot, resendDelay)

	var onPong func()
	if h.presence != nil {
		onPong = func() { h.presence.Heartbeat(ctx, userID) }
	}
	err = client.ReadLoop(func(payload []byte) {
		if onFrame != nil {
			onFrame(client, payload)
		}
	}, onPong)
	if err != nil {
		h.log.Error("unexpected_close", userID, client.ID, err)
	}

	client.Close()
	h.hub.Unregister(context.WithoutCancel(ctx), client)
	h.log.Info("disconnected", userID, client.ID, zap.String("feed", feed))
}

// frameSink is the part of Client the snapshot pump writes to.
type frameSink interface {
	SendFrame(f Frame) bool
	Done() <-chan struct{}
}

// resendDelay is how long the pump waits before retrying a snapshot that a
// full send queue refused.
const resendDelay = 100 * time.Millisecond

// pumpSnapshots writes the current snapshot once and again after every
// change. A refused frame re-arms changed so the client still converges on
// the latest state.
func pumpSnapshots(sink frameSink, changed signal, snapshot func() Frame, retry time.Duration) {
	push := func() {
		if sink.SendFrame(snapshot()) {
			return
		}
		select {
		case <-sink.Done():
		case <-time.After(retry):
			changed.notify()
		}
	}

	push()
	for {
		select {
		case <-sink.Done():
			return
		case <-changed:
			push()
		}
	}
}

// signal coalesces change notifications. The pump always writes the current
// snapshot, so dropped signals lose nothing.
type signal chan struct{}

func newSignal() signal {
	return make(chan struct{}, 1)
}

func (s signal) notify() {
	select {
	case s <- struct{}{}:
	default:
	}
}

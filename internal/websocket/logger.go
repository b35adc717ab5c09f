package websocket

import (
	"sea-u/pkg/logger"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// EventLogger writes websocket lifecycle events with the connection identity attached.
type EventLogger struct {
	logger *zap.Logger
}

func NewEventLogger(l *logger.Logger) *EventLogger {
	if l == nil {
		l = logger.GetGlobalLogger()
	}
	return &EventLogger{logger: l.Logger.With(zap.String("component", "websocket"))}
}

func (l *EventLogger) Info(event string, userID uuid.UUID, clientID string, fields ...zap.Field) {
	l.logger.Info("websocket_event", l.fields(event, userID, clientID, fields)...)
}

func (l *EventLogger) Warn(event string, userID uuid.UUID, clientID string, fields ...zap.Field) {
	l.logger.Warn("websocket_warning", l.fields(event, userID, clientID, fields)...)
}

func (l *EventLogger) Error(event string, userID uuid.UUID, clientID string, err error, fields ...zap.Field) {
	l.logger.Error("websocket_error", l.fields(event, userID, clientID, append(fields, zap.Error(err)))...)
}

func (l *EventLogger) fields(event string, userID uuid.UUID, clientID string, extra []zap.Field) []zap.Field {
	return append([]zap.Field{
		zap.String("event", event),
		zap.String("user_id", userID.String()),
		zap.String("client_id", clientID),
	}, extra...)
}

package websocket

import (
	"sea-u/internal/transport/httpdto"
)

const (
	FrameConversations = "conversations"
	FrameMessages      = "messages"
	FrameSent          = "sent"
	FrameError         = "error"
)

// Frame is what the server writes. Data carries a full snapshot, so a
// client that misses a frame recovers with the next one.
type Frame struct {
	Type  string `json:"type"`
	Data  any    `json:"data,omitempty"`
	Error string `json:"error,omitempty"`
	Code  string `json:"code,omitempty"`
}

// SendFrameRequest is what a client writes on a conversation stream.
type SendFrameRequest = httpdto.SendMessageRequest

func errorFrame(err error) Frame {
	return Frame{Type: FrameError, Error: err.Error(), Code: httpdto.ErrorCode(err)}
}

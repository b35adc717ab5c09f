package events

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
)

const (
	conversationChannelPrefix = "channel:conversation:"
	ConversationPattern       = conversationChannelPrefix + "*"
)

func ConversationChannel(conversationID uuid.UUID) string {
	return fmt.Sprintf("%s%s", conversationChannelPrefix, conversationID)
}

func ParseConversationChannel(channel string) (uuid.UUID, bool) {
	rest, ok := strings.CutPrefix(channel, conversationChannelPrefix)
	if !ok {
		return uuid.Nil, false
	}
	id, err := uuid.Parse(rest)
	if err != nil {
		return uuid.Nil, false
	}
	return id, true
}

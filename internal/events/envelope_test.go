package events

import (
	"database/sql"
	"encoding/json"
	"testing"
	"time"

	"sea-u/internal/domain/message"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEnvelopeCarriesStickerMessage(t *testing.T) {
	m := message.Message{
		ID:             uuid.New(),
		ConversationID: uuid.New(),
		SenderID:       uuid.New(),
		Sticker:        sql.NullString{String: "🫶", Valid: true},
		Seq:            42,
		CreatedAt:      time.Date(2026, 5, 1, 9, 30, 0, 0, time.UTC),
	}

	env, err := NewMessageEnvelope(m)
	require.NoError(t, err)
	assert.Equal(t, m.ConversationID.String(), env.AggregateID)

	raw, err := json.Marshal(env)
	require.NoError(t, err)
	var decoded Envelope
	require.NoError(t, json.Unmarshal(raw, &decoded))

	got, err := decoded.DecodeMessage()
	require.NoError(t, err)
	assert.Equal(t, m.ID, got.ID)
	assert.False(t, got.Content.Valid)
	assert.Equal(t, "🫶", got.Sticker.String)
	assert.True(t, got.CreatedAt.Equal(m.CreatedAt))
}

func TestDecodeRejectsOtherEvents(t *testing.T) {
	_, err := Envelope{EventType: "presence.changed"}.DecodeMessage()
	assert.Error(t, err)
}

func TestConversationChannelRoundTrip(t *testing.T) {
	id := uuid.New()
	got, ok := ParseConversationChannel(ConversationChannel(id))
	require.True(t, ok)
	assert.Equal(t, id, got)

	_, ok = ParseConversationChannel("channel:user:" + id.String())
	assert.False(t, ok)
}

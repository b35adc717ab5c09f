package message

import (
	"errors"
	"testing"
	"time"

	seau_errors "sea-u/pkg/errors"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewBody(t *testing.T) {
	body, err := NewBody("Kamusta ka?", "")
	require.NoError(t, err)
	assert.Equal(t, TextBody{Text: "Kamusta ka?"}, body)

	body, err = NewBody("", " 🧋 ")
	require.NoError(t, err)
	assert.Equal(t, StickerBody{Sticker: "🧋"}, body)

	_, err = NewBody("   ", "")
	assert.ErrorIs(t, err, ErrEmptyBody)

	_, err = NewBody("hi", "💖")
	assert.True(t, errors.Is(err, seau_errors.ErrInvalidInput))
}

func TestPreview(t *testing.T) {
	conv, sender := uuid.New(), uuid.New()

	text := New(conv, sender, TextBody{Text: "Jom lepak!"})
	require.NotNil(t, text.Preview())
	assert.Equal(t, "Jom lepak!", *text.Preview())

	sticker := New(conv, sender, StickerBody{Sticker: "🧋"})
	require.NotNil(t, sticker.Preview())
	assert.Equal(t, "Sticker 🧋", *sticker.Preview())
	assert.NotEqual(t, *text.Preview(), *sticker.Preview())

	assert.Nil(t, Message{}.Preview())
}

func TestInsertSortedUsesTimestampThenSeq(t *testing.T) {
	base := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	m1 := Message{ID: uuid.New(), CreatedAt: base, Seq: 1}
	m2 := Message{ID: uuid.New(), CreatedAt: base.Add(time.Second), Seq: 2}
	m3 := Message{ID: uuid.New(), CreatedAt: base.Add(time.Second), Seq: 3}
	m4 := Message{ID: uuid.New(), CreatedAt: base.Add(2 * time.Second), Seq: 4}

	var list []Message
	for _, m := range []Message{m4, m2, m1, m3} {
		list = InsertSorted(list, m)
	}

	require.Len(t, list, 4)
	assert.Equal(t, []int64{1, 2, 3, 4}, []int64{list[0].Seq, list[1].Seq, list[2].Seq, list[3].Seq})
}

func TestLookupSticker(t *testing.T) {
	s, ok := LookupSticker("🧋")
	require.True(t, ok)
	assert.Equal(t, "Boba", s.Label)

	s, ok = LookupSticker("s1")
	require.True(t, ok)
	assert.Equal(t, CategoryLove, s.Category)

	_, ok = LookupSticker("nope")
	assert.False(t, ok)
	assert.Len(t, Stickers(), 30)
}

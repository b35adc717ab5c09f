package services

import (
	"context"
	"errors"
	"testing"

	seau_errors "sea-u/pkg/errors"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakePresence struct {
	online map[uuid.UUID]bool
	err    error
}

func (p fakePresence) OnlineMany(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]bool, error) {
	return p.online, p.err
}

func TestLookupNormalisesAndHidesSelf(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	me := f.addUser(t, "Me", "SEA-123456", "")
	other := f.addUser(t, "Other", "SEA-654321", "")
	svc := NewDirectoryService(f.profiles, f.resolver(), nil, f.log)

	got, err := svc.LookupBySeaID(ctx, me.UserID, "  sea-654321 ")
	require.NoError(t, err)
	assert.Equal(t, other.UserID, got.UserID)

	_, err = svc.LookupBySeaID(ctx, me.UserID, "SEA-123456")
	assert.ErrorIs(t, err, seau_errors.ErrNotFound)

	_, err = svc.LookupBySeaID(ctx, me.UserID, "SEA-000000")
	assert.ErrorIs(t, err, seau_errors.ErrNotFound)

	_, err = svc.LookupBySeaID(ctx, me.UserID, "   ")
	assert.ErrorIs(t, err, seau_errors.ErrInvalidInput)
}

func TestSearchFiltersAndOverlaysPresence(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	me := f.addUser(t, "Me", "SEA-100000", "Vietnam 🇻🇳")
	linh := f.addUser(t, "Linh", "SEA-100001", "Vietnam 🇻🇳")
	mario := f.addUser(t, "Mario", "SEA-100002", "Philippines 🇵🇭")
	hidden := f.addUser(t, "Hidden", "SEA-100003", "Vietnam 🇻🇳")
	hidden.ShowOnline = false
	require.NoError(t, f.profiles.Upsert(ctx, &hidden))

	presence := fakePresence{online: map[uuid.UUID]bool{linh.UserID: true, hidden.UserID: true}}
	svc := NewDirectoryService(f.profiles, f.resolver(), presence, f.log)

	all, err := svc.Search(ctx, me.UserID, "")
	require.NoError(t, err)
	assert.Len(t, all, 3)

	vn, err := svc.Search(ctx, me.UserID, "vietnam")
	require.NoError(t, err)
	require.Len(t, vn, 2)
	online := map[uuid.UUID]bool{}
	for _, e := range vn {
		online[e.Profile.UserID] = e.Online
	}
	assert.True(t, online[linh.UserID])
	assert.False(t, online[hidden.UserID])

	byID, err := svc.Search(ctx, me.UserID, "sea-100002")
	require.NoError(t, err)
	require.Len(t, byID, 1)
	assert.Equal(t, mario.UserID, byID[0].Profile.UserID)

	svc = NewDirectoryService(f.profiles, f.resolver(), fakePresence{err: errors.New("redis down")}, f.log)
	degraded, err := svc.Search(ctx, me.UserID, "linh")
	require.NoError(t, err)
	require.Len(t, degraded, 1)
	assert.False(t, degraded[0].Online)
}

func TestStartChat(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	me := f.addUser(t, "Me", "SEA-200000", "")
	friend := f.addUser(t, "Friend", "SEA-200001", "")
	svc := NewDirectoryService(f.profiles, f.resolver(), nil, f.log)

	bySea, err := svc.StartChat(ctx, me.UserID, ChatTarget{SeaID: "sea-200001"})
	require.NoError(t, err)
	byID, err := svc.StartChat(ctx, me.UserID, ChatTarget{UserID: friend.UserID})
	require.NoError(t, err)
	assert.Equal(t, bySea, byID)

	_, err = svc.StartChat(ctx, me.UserID, ChatTarget{UserID: uuid.New()})
	assert.ErrorIs(t, err, seau_errors.ErrNotFound)

	_, err = svc.StartChat(ctx, me.UserID, ChatTarget{})
	assert.ErrorIs(t, err, seau_errors.ErrInvalidInput)

	_, err = svc.StartChat(ctx, me.UserID, ChatTarget{UserID: me.UserID})
	assert.ErrorIs(t, err, seau_errors.ErrInvalidInput)
}

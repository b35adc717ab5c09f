package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"sea-u/internal/domain/conversation"
	"sea-u/internal/repository"
	seau_errors "sea-u/pkg/errors"

	"github.com/google/uuid"
	"golang.org/x/sync/singleflight"
)

const resolveTimeout = 10 * time.Second

// ConversationResolver finds the two-party conversation between a pair of
// users, creating it on first contact.
type ConversationResolver struct {
	conversations repository.ConversationRepository
	group         singleflight.Group
	now           func() time.Time
}

func NewConversationResolver(conversations repository.ConversationRepository) *ConversationResolver {
	return &ConversationResolver{conversations: conversations, now: time.Now}
}

// Resolve returns the id of the conversation whose participants are exactly
// currentUserID and otherUserID. Concurrent calls for the same pair share one
// lookup, and the pair key unique index settles races across processes.
func (r *ConversationResolver) Resolve(ctx context.Context, currentUserID, otherUserID uuid.UUID) (uuid.UUID, error) {
	if currentUserID == uuid.Nil || otherUserID == uuid.Nil {
		return uuid.Nil, seau_errors.ErrInvalidInput
	}
	if currentUserID == otherUserID {
		return uuid.Nil, fmt.Errorf("%w: cannot start a conversation with yourself", seau_errors.ErrInvalidInput)
	}

	key := conversation.PairKey(currentUserID, otherUserID)
	ch := r.group.DoChan(key, func() (interface{}, error) {
		// shared by every waiter, so it must not die with the first caller
		sharedCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), resolveTimeout)
		defer cancel()
		return r.resolve(sharedCtx, currentUserID, otherUserID, key)
	})

	select {
	case <-ctx.Done():
		return uuid.Nil, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return uuid.Nil, res.Err
		}
		return res.Val.(uuid.UUID), nil
	}
}

func (r *ConversationResolver) resolve(ctx context.Context, a, b uuid.UUID, key string) (uuid.UUID, error) {
	id, found, err := r.findExisting(ctx, a, b)
	if err != nil {
		return uuid.Nil, err
	}
	if found {
		return id, nil
	}

	c := conversation.NewPair(a, b, r.now())
	err = r.conversations.CreateWithParticipants(ctx, &c)
	if errors.Is(err, seau_errors.ErrAlreadyExists) {
		existing, getErr := r.conversations.GetByPairKey(ctx, key)
		if getErr != nil {
			return uuid.Nil, fmt.Errorf("read conversation after conflict: %w", getErr)
		}
		return existing.ID, nil
	}
	if err != nil {
		return uuid.Nil, fmt.Errorf("create conversation: %w", err)
	}
	return c.ID, nil
}

// findExisting scans a's conversations, oldest first, with one batched participant read.
func (r *ConversationResolver) findExisting(ctx context.Context, a, b uuid.UUID) (uuid.UUID, bool, error) {
	ids, err := r.conversations.ListConversationIDs(ctx, a)
	if err != nil {
		return uuid.Nil, false, fmt.Errorf("list conversations: %w", err)
	}
	if len(ids) == 0 {
		return uuid.Nil, false, nil
	}

	rows, err := r.conversations.FindParticipants(ctx, ids)
	if err != nil {
		return uuid.Nil, false, fmt.Errorf("load participants: %w", err)
	}
	members := conversation.GroupMembers(rows)
	for _, id := range ids {
		if conversation.IsPair(members[id], a, b) {
			return id, true, nil
		}
	}
	return uuid.Nil, false, nil
}

package services

import (
	"context"
	"errors"
	"fmt"

	"sea-u/internal/domain/conversation"
	"sea-u/internal/domain/message"
	"sea-u/internal/domain/user"
	"sea-u/internal/repository"
	seau_errors "sea-u/pkg/errors"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

const defaultLatestFanout = 8

// ConversationListBuilder projects a user's conversations into list rows.
type ConversationListBuilder struct {
	conversations repository.ConversationRepository
	profiles      repository.ProfileRepository
	messages      repository.MessageRepository
	fanout        int
}

func NewConversationListBuilder(conversations repository.ConversationRepository, profiles repository.ProfileRepository, messages repository.MessageRepository) *ConversationListBuilder {
	return &ConversationListBuilder{
		conversations: conversations,
		profiles:      profiles,
		messages:      messages,
		fanout:        defaultLatestFanout,
	}
}

type listCandidate struct {
	conversationID uuid.UUID
	counterpart    user.Profile
}

// Build returns the ordered conversation list of userID. Conversations whose
// counterpart or counterpart profile cannot be found are left out.
func (b *ConversationListBuilder) Build(ctx context.Context, userID uuid.UUID) ([]conversation.Summary, error) {
	ids, err := b.conversations.ListConversationIDs(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list conversations: %w", err)
	}
	if len(ids) == 0 {
		return []conversation.Summary{}, nil
	}

	rows, err := b.conversations.FindParticipants(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("load participants: %w", err)
	}
	members := conversation.GroupMembers(rows)

	others := make(map[uuid.UUID]uuid.UUID, len(ids))
	var otherIDs []uuid.UUID
	seen := make(map[uuid.UUID]bool)
	for _, id := range ids {
		other, ok := conversation.Counterpart(members[id], userID)
		if !ok {
			continue
		}
		others[id] = other
		if !seen[other] {
			seen[other] = true
			otherIDs = append(otherIDs, other)
		}
	}

	profiles, err := b.profiles.GetByUserIDs(ctx, otherIDs)
	if err != nil {
		return nil, fmt.Errorf("load profiles: %w", err)
	}
	byUser := make(map[uuid.UUID]user.Profile, len(profiles))
	for _, p := range profiles {
		byUser[p.UserID] = p
	}

	candidates := make([]listCandidate, 0, len(ids))
	for _, id := range ids {
		other, ok := others[id]
		if !ok {
			continue
		}
		profile, ok := byUser[other]
		if !ok {
			continue
		}
		candidates = append(candidates, listCandidate{conversationID: id, counterpart: profile})
	}

	latest, err := b.loadLatest(ctx, candidates)
	if err != nil {
		return nil, err
	}

	summaries := make([]conversation.Summary, len(candidates))
	for i, c := range candidates {
		summaries[i] = conversation.NewSummary(c.conversationID, c.counterpart, latest[i])
	}
	conversation.SortSummaries(summaries)
	return summaries, nil
}

func (b *ConversationListBuilder) loadLatest(ctx context.Context, candidates []listCandidate) ([]*message.Message, error) {
	latest := make([]*message.Message, len(candidates))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(b.fanout)
	for i, c := range candidates {
		g.Go(func() error {
			m, err := b.messages.GetLatest(gctx, c.conversationID)
			if errors.Is(err, seau_errors.ErrNotFound) {
				return nil
			}
			if err != nil {
				return fmt.Errorf("latest message of %s: %w", c.conversationID, err)
			}
			latest[i] = &m
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return latest, nil
}

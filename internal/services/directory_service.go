package services

import (
	"context"
	"fmt"
	"strings"

	"sea-u/internal/domain/user"
	"sea-u/internal/repository"
	seau_errors "sea-u/pkg/errors"
	"sea-u/pkg/logger"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const directoryLimit = 50

// PresenceReader reports which users currently hold a live connection.
type PresenceReader interface {
	OnlineMany(ctx context.Context, userIDs []uuid.UUID) (map[uuid.UUID]bool, error)
}

type DirectoryEntry struct {
	Profile user.Profile
	Online  bool
}

// DirectoryService covers profile lookup, the nearby directory and starting chats.
type DirectoryService struct {
	profiles repository.ProfileRepository
	resolver *ConversationResolver
	presence PresenceReader
	log      *logger.Logger
}

// NewDirectoryService accepts a nil presence reader, everyone then shows as offline.
func NewDirectoryService(profiles repository.ProfileRepository, resolver *ConversationResolver, presence PresenceReader, log *logger.Logger) *DirectoryService {
	return &DirectoryService{profiles: profiles, resolver: resolver, presence: presence, log: log}
}

func (s *DirectoryService) Me(ctx context.Context, userID uuid.UUID) (user.Profile, error) {
	return s.profiles.GetByUserID(ctx, userID)
}

// LookupBySeaID finds another user by SEA-U id. Case and surrounding space
// are ignored. The caller's own id yields ErrNotFound.
func (s *DirectoryService) LookupBySeaID(ctx context.Context, currentUserID uuid.UUID, raw string) (user.Profile, error) {
	seaID := user.NormalizeSeaID(raw)
	if seaID == "" {
		return user.Profile{}, fmt.Errorf("%w: sea id is required", seau_errors.ErrInvalidInput)
	}
	p, err := s.profiles.GetBySeaID(ctx, seaID)
	if err != nil {
		return user.Profile{}, err
	}
	if p.UserID == currentUserID {
		return user.Profile{}, seau_errors.ErrNotFound
	}
	return p, nil
}

// Search lists discoverable users other than the caller, filtered by a
// case-insensitive match on name, SEA-U id or country.
func (s *DirectoryService) Search(ctx context.Context, currentUserID uuid.UUID, query string) ([]DirectoryEntry, error) {
	profiles, err := s.profiles.ListDirectory(ctx, currentUserID, directoryLimit)
	if err != nil {
		return nil, fmt.Errorf("list directory: %w", err)
	}

	q := strings.ToLower(strings.TrimSpace(query))
	entries := make([]DirectoryEntry, 0, len(profiles))
	for _, p := range profiles {
		if q != "" && !matches(p, q) {
			continue
		}
		entries = append(entries, DirectoryEntry{Profile: p})
	}
	s.overlayPresence(ctx, entries)
	return entries, nil
}

func matches(p user.Profile, q string) bool {
	return strings.Contains(strings.ToLower(p.DisplayName), q) ||
		strings.Contains(strings.ToLower(p.SeaID), q) ||
		strings.Contains(strings.ToLower(p.Country), q)
}

// overlayPresence marks entries online. Users who hide their status stay offline.
func (s *DirectoryService) overlayPresence(ctx context.Context, entries []DirectoryEntry) {
	if s.presence == nil || len(entries) == 0 {
		return
	}
	ids := make([]uuid.UUID, len(entries))
	for i, e := range entries {
		ids[i] = e.Profile.UserID
	}
	online, err := s.presence.OnlineMany(ctx, ids)
	if err != nil {
		s.log.Logger.Warn("presence overlay unavailable", zap.Error(err))
		return
	}
	for i := range entries {
		entries[i].Online = entries[i].Profile.ShowOnline && online[entries[i].Profile.UserID]
	}
}

// ChatTarget names the other party of a chat by user id or SEA-U id.
type ChatTarget struct {
	UserID uuid.UUID
	SeaID  string
}

// StartChat resolves the conversation with target, creating it if needed.
func (s *DirectoryService) StartChat(ctx context.Context, currentUserID uuid.UUID, target ChatTarget) (uuid.UUID, error) {
	var other user.Profile
	var err error
	switch {
	case target.SeaID != "":
		other, err = s.LookupBySeaID(ctx, currentUserID, target.SeaID)
	case target.UserID != uuid.Nil:
		other, err = s.profiles.GetByUserID(ctx, target.UserID)
	default:
		err = fmt.Errorf("%w: user_id or sea_id is required", seau_errors.ErrInvalidInput)
	}
	if err != nil {
		return uuid.Nil, err
	}
	return s.resolver.Resolve(ctx, currentUserID, other.UserID)
}

package memory

import (
	"context"
	"sort"
	"time"

	"sea-u/internal/domain/user"
	seau_errors "sea-u/pkg/errors"

	"github.com/google/uuid"
)

type profileRepository struct {
	s *Store
}

func (r *profileRepository) GetByUserID(ctx context.Context, userID uuid.UUID) (user.Profile, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	p, ok := r.s.profiles[userID]
	if !ok {
		return user.Profile{}, seau_errors.ErrNotFound
	}
	return p, nil
}

func (r *profileRepository) GetByUserIDs(ctx context.Context, userIDs []uuid.UUID) ([]user.Profile, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	var out []user.Profile
	for _, id := range userIDs {
		if p, ok := r.s.profiles[id]; ok {
			out = append(out, p)
		}
	}
	return out, nil
}

func (r *profileRepository) GetBySeaID(ctx context.Context, seaID string) (user.Profile, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	for _, p := range r.s.profiles {
		if p.SeaID == seaID {
			return p, nil
		}
	}
	return user.Profile{}, seau_errors.ErrNotFound
}

func (r *profileRepository) ListDirectory(ctx context.Context, excludeUserID uuid.UUID, limit int) ([]user.Profile, error) {
	r.s.mu.RLock()
	var out []user.Profile
	for _, p := range r.s.profiles {
		if p.ShowInDirectory && p.UserID != excludeUserID {
			out = append(out, p)
		}
	}
	r.s.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool {
		if out[i].DisplayName != out[j].DisplayName {
			return out[i].DisplayName < out[j].DisplayName
		}
		return out[i].UserID.String() < out[j].UserID.String()
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r *profileRepository) Upsert(ctx context.Context, p *user.Profile) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	p.SeaID = user.NormalizeSeaID(p.SeaID)
	for id, other := range r.s.profiles {
		if id != p.UserID && other.SeaID == p.SeaID {
			return seau_errors.ErrAlreadyExists
		}
	}
	now := r.s.now()
	if existing, ok := r.s.profiles[p.UserID]; ok {
		p.CreatedAt = existing.CreatedAt
		p.LastSeen = existing.LastSeen
	} else if p.CreatedAt.IsZero() {
		p.CreatedAt = now
	}
	p.UpdatedAt = now
	r.s.profiles[p.UserID] = *p
	return nil
}

func (r *profileRepository) UpdateLastSeen(ctx context.Context, userID uuid.UUID, lastSeen time.Time) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	p, ok := r.s.profiles[userID]
	if !ok {
		return seau_errors.ErrNotFound
	}
	p.LastSeen.Time, p.LastSeen.Valid = lastSeen, true
	r.s.profiles[userID] = p
	return nil
}

package user

import (
	"database/sql"
	"time"

	"github.com/google/uuid"
)

// Profile represents the profiles table. Identity itself (credentials,
// sessions) lives with the external identity provider; this row is the
// public side of a user keyed by the provider's stable id.
type Profile struct {
	UserID          uuid.UUID `gorm:"type:uuid;primaryKey"`
	DisplayName     string
	Avatar          string
	Country         string
	SeaID           string `gorm:"uniqueIndex"`
	ShowOnline      bool
	ShowInDirectory bool
	LastSeen        sql.NullTime
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

func (Profile) TableName() string {
	return "profiles"
}

// LastSeenPtr returns last_seen as a pointer, nil when never seen.
func (p Profile) LastSeenPtr() *time.Time {
	if !p.LastSeen.Valid {
		return nil
	}
	t := p.LastSeen.Time
	return &t
}

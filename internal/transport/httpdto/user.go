package httpdto

import (
	"sea-u/internal/domain/user"
	"sea-u/internal/services"
)

// ProfileDTO represents a profile in API responses
type ProfileDTO struct {
	UserID      string  `json:"user_id"`
	DisplayName string  `json:"display_name"`
	Avatar      string  `json:"avatar,omitempty"`
	Country     string  `json:"country,omitempty"`
	SeaID       string  `json:"sea_id"`
	ShowOnline  bool    `json:"show_online"`
	LastSeen    *string `json:"last_seen,omitempty"`
}

// DirectoryEntryDTO is a profile with its presence overlay
type DirectoryEntryDTO struct {
	ProfileDTO
	Online bool `json:"online"`
}

// DirectoryResponse is returned by GET /v1/directory
type DirectoryResponse struct {
	Users []DirectoryEntryDTO `json:"users"`
}

// LookupRequest holds the query of GET /v1/users/lookup
type LookupRequest struct {
	SeaID string `form:"sea_id" binding:"required"`
}

func FromProfile(p user.Profile) ProfileDTO {
	return ProfileDTO{
		UserID:      p.UserID.String(),
		DisplayName: p.DisplayName,
		Avatar:      p.Avatar,
		Country:     p.Country,
		SeaID:       p.SeaID,
		ShowOnline:  p.ShowOnline,
		LastSeen:    formatTimePtr(p.LastSeenPtr()),
	}
}

func FromDirectoryEntries(entries []services.DirectoryEntry) []DirectoryEntryDTO {
	out := make([]DirectoryEntryDTO, 0, len(entries))
	for _, e := range entries {
		out = append(out, DirectoryEntryDTO{ProfileDTO: FromProfile(e.Profile), Online: e.Online})
	}
	return out
}

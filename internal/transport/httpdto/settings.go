package httpdto

import (
	"sea-u/internal/domain/settings"
	"sea-u/internal/services"
)

type SettingsResponse struct {
	Settings      settings.Settings `json:"settings"`
	FontPx        string            `json:"font_px"`
	TourCompleted bool              `json:"tour_completed"`
}

type ExportResponse struct {
	Export      services.ExportBlob `json:"export"`
	ObjectKey   string              `json:"object_key,omitempty"`
	DownloadURL string              `json:"download_url,omitempty"`
}

func FromExport(res services.ExportResult) ExportResponse {
	return ExportResponse{Export: res.Blob, ObjectKey: res.ObjectKey, DownloadURL: res.DownloadURL}
}

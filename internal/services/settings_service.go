package services

import (
	"context"
	"encoding/json"
	"fmt"
	"hash/fnv"
	"sync"
	"time"

	"sea-u/internal/domain/settings"
	"sea-u/pkg/logger"

	"github.com/google/uuid"
)

const (
	settingsKeyPrefix = "sea-u-settings:"
	tourKeyPrefix     = "sea-u-tour-done:"
	exportNote        = "This is a demo export from SEA-U"
	exportContentType = "application/json"
	settingsLockCount = 64
)

// ExportUploader stores an export and returns a download link for it.
type ExportUploader interface {
	PutObject(ctx context.Context, key string, body []byte, contentType string) error
	PresignGet(ctx context.Context, key string) (string, error)
}

type ExportProfile struct {
	Exported time.Time `json:"exported"`
}

type ExportBlob struct {
	Profile  ExportProfile     `json:"profile"`
	Settings settings.Settings `json:"settings"`
	Note     string            `json:"note"`
}

type ExportResult struct {
	Blob        ExportBlob
	ObjectKey   string
	DownloadURL string
}

// SettingsService serves per-user settings on top of a shared Storage.
type SettingsService struct {
	storage  Storage
	uploader ExportUploader
	log      *logger.Logger
	now      func() time.Time
	locks    [settingsLockCount]sync.Mutex
}

// NewSettingsService accepts a nil uploader, exports are then returned inline only.
func NewSettingsService(storage Storage, uploader ExportUploader, log *logger.Logger) *SettingsService {
	return &SettingsService{storage: storage, uploader: uploader, log: log, now: time.Now}
}

// For returns a settings store bound to userID.
func (s *SettingsService) For(userID uuid.UUID, appliers ...Applier) *SettingsStore {
	return NewSettingsStore(s.storage, settingsKeyPrefix+userID.String(), tourKeyPrefix+userID.String(), s.log, appliers...)
}

func (s *SettingsService) lockFor(userID uuid.UUID) *sync.Mutex {
	h := fnv.New32a()
	_, _ = h.Write(userID[:])
	return &s.locks[h.Sum32()%settingsLockCount]
}

func (s *SettingsService) Get(ctx context.Context, userID uuid.UUID) (settings.Settings, error) {
	return s.For(userID).Load(ctx)
}

// Update applies patch to the stored record. Updates for one user are serialised.
func (s *SettingsService) Update(ctx context.Context, userID uuid.UUID, patch settings.Patch) (settings.Settings, error) {
	l := s.lockFor(userID)
	l.Lock()
	defer l.Unlock()
	return s.For(userID).Update(ctx, patch)
}

func (s *SettingsService) TourCompleted(ctx context.Context, userID uuid.UUID) (bool, error) {
	return s.For(userID).TourCompleted(ctx)
}

func (s *SettingsService) CompleteTour(ctx context.Context, userID uuid.UUID) error {
	return s.For(userID).CompleteTour(ctx)
}

// Export builds the data export and, when an uploader is configured, stores
// it and returns a presigned download link.
func (s *SettingsService) Export(ctx context.Context, userID uuid.UUID) (ExportResult, error) {
	current, err := s.Get(ctx, userID)
	if err != nil {
		return ExportResult{}, err
	}
	now := s.now().UTC()
	res := ExportResult{Blob: ExportBlob{
		Profile:  ExportProfile{Exported: now},
		Settings: current,
		Note:     exportNote,
	}}
	if s.uploader == nil {
		return res, nil
	}

	data, err := json.MarshalIndent(res.Blob, "", "  ")
	if err != nil {
		return ExportResult{}, err
	}
	key := fmt.Sprintf("exports/%s/%s-sea-u-data-export.json", userID, now.Format("20060102T150405Z"))
	if err := s.uploader.PutObject(ctx, key, data, exportContentType); err != nil {
		return ExportResult{}, fmt.Errorf("upload export: %w", err)
	}
	url, err := s.uploader.PresignGet(ctx, key)
	if err != nil {
		return ExportResult{}, fmt.Errorf("presign export: %w", err)
	}
	res.ObjectKey, res.DownloadURL = key, url
	return res, nil
}

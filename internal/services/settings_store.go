package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"sea-u/internal/domain/settings"
	seau_errors "sea-u/pkg/errors"
	"sea-u/pkg/logger"

	"go.uber.org/zap"
)

// Storage persists opaque blobs by key. Get returns ErrNotFound for a missing key.
type Storage interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
}

// Applier receives presentation changes (theme, dark mode, font size).
type Applier interface {
	Apply(p settings.Presentation)
}

type ApplierFunc func(p settings.Presentation)

func (f ApplierFunc) Apply(p settings.Presentation) { f(p) }

// SettingsStore holds one settings record and persists every change.
type SettingsStore struct {
	storage  Storage
	key      string
	tourKey  string
	appliers []Applier
	log      *logger.Logger

	mu      sync.Mutex
	current settings.Settings
	loaded  bool
}

func NewSettingsStore(storage Storage, key, tourKey string, log *logger.Logger, appliers ...Applier) *SettingsStore {
	return &SettingsStore{
		storage:  storage,
		key:      key,
		tourKey:  tourKey,
		appliers: appliers,
		log:      log,
		current:  settings.Defaults(),
	}
}

// Load reads the stored record over the defaults. A missing record gives the
// defaults. An unreadable one gives the defaults and a warning.
func (s *SettingsStore) Load(ctx context.Context) (settings.Settings, error) {
	s.mu.Lock()
	loaded, err := s.loadLocked(ctx)
	s.mu.Unlock()
	if err != nil {
		return settings.Settings{}, err
	}
	s.notify(loaded.Presentation())
	return loaded, nil
}

func (s *SettingsStore) loadLocked(ctx context.Context) (settings.Settings, error) {
	data, err := s.storage.Get(ctx, s.key)
	if errors.Is(err, seau_errors.ErrNotFound) {
		s.current, s.loaded = settings.Defaults(), true
		return s.current, nil
	}
	if err != nil {
		return settings.Settings{}, fmt.Errorf("read settings: %w", err)
	}

	merged := settings.Defaults()
	if err := json.Unmarshal(data, &merged); err != nil {
		s.log.Logger.Warn("stored settings unreadable, using defaults", zap.String("key", s.key), zap.Error(err))
		merged = settings.Defaults()
	}
	if merged.Repair() {
		s.log.Logger.Warn("stored settings had unknown values, reset to defaults", zap.String("key", s.key))
	}
	s.current, s.loaded = merged, true
	return merged, nil
}

// Current returns the in-memory record without touching storage.
func (s *SettingsStore) Current() settings.Settings {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current
}

// Update validates, persists and adopts the patched record. Appliers run
// only when a presentation value changed.
func (s *SettingsStore) Update(ctx context.Context, patch settings.Patch) (settings.Settings, error) {
	s.mu.Lock()
	if !s.loaded {
		if _, err := s.loadLocked(ctx); err != nil {
			s.mu.Unlock()
			return settings.Settings{}, err
		}
	}
	prev := s.current
	next := patch.Apply(prev)
	if err := next.Validate(); err != nil {
		s.mu.Unlock()
		return settings.Settings{}, err
	}
	data, err := json.Marshal(next)
	if err != nil {
		s.mu.Unlock()
		return settings.Settings{}, err
	}
	if err := s.storage.Set(ctx, s.key, data); err != nil {
		s.mu.Unlock()
		return settings.Settings{}, fmt.Errorf("write settings: %w", err)
	}
	s.current = next
	s.mu.Unlock()

	if prev.Presentation() != next.Presentation() {
		s.notify(next.Presentation())
	}
	return next, nil
}

func (s *SettingsStore) TourCompleted(ctx context.Context) (bool, error) {
	data, err := s.storage.Get(ctx, s.tourKey)
	if errors.Is(err, seau_errors.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return string(data) == "true", nil
}

func (s *SettingsStore) CompleteTour(ctx context.Context) error {
	return s.storage.Set(ctx, s.tourKey, []byte("true"))
}

func (s *SettingsStore) notify(p settings.Presentation) {
	for _, a := range s.appliers {
		a.Apply(p)
	}
}

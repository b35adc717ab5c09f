package settings

import (
	"fmt"

	seau_errors "sea-u/pkg/errors"
)

type Theme string

const (
	ThemePastel Theme = "pastel"
	ThemeOcean  Theme = "ocean"
	ThemeSunset Theme = "sunset"
	ThemeForest Theme = "forest"
)

type FontSize string

const (
	FontSmall  FontSize = "small"
	FontMedium FontSize = "medium"
	FontLarge  FontSize = "large"
)

type BubbleStyle string

const (
	BubbleRounded BubbleStyle = "rounded"
	BubbleSharp   BubbleStyle = "sharp"
	BubblePill    BubbleStyle = "pill"
)

// Settings is the persisted preference record. JSON keys match the blob
// clients already store.
type Settings struct {
	// Appearance
	DarkMode    bool        `json:"darkMode"`
	Theme       Theme       `json:"theme"`
	FontSize    FontSize    `json:"fontSize"`
	BubbleStyle BubbleStyle `json:"bubbleStyle"`
	// Privacy
	ShowOnline     bool `json:"showOnline"`
	ShowLastSeen   bool `json:"showLastSeen"`
	ShareLocation  bool `json:"shareLocation"`
	ReadReceipts   bool `json:"readReceipts"`
	ProfileVisible bool `json:"profileVisible"`
	BlockStrangers bool `json:"blockStrangers"`
	// Connection
	Notifications bool `json:"notifications"`
	Sound         bool `json:"sound"`
	AutoConnect   bool `json:"autoConnect"`
	Bluetooth     bool `json:"bluetooth"`
}

func Defaults() Settings {
	return Settings{
		DarkMode:       false,
		Theme:          ThemePastel,
		FontSize:       FontMedium,
		BubbleStyle:    BubbleRounded,
		ShowOnline:     true,
		ShowLastSeen:   true,
		ShareLocation:  false,
		ReadReceipts:   true,
		ProfileVisible: true,
		BlockStrangers: false,
		Notifications:  true,
		Sound:          true,
		AutoConnect:    true,
		Bluetooth:      false,
	}
}

func (t Theme) Valid() bool {
	switch t {
	case ThemePastel, ThemeOcean, ThemeSunset, ThemeForest:
		return true
	}
	return false
}

func (f FontSize) Valid() bool {
	switch f {
	case FontSmall, FontMedium, FontLarge:
		return true
	}
	return false
}

// Pixels is the root font size applied for f.
func (f FontSize) Pixels() string {
	switch f {
	case FontSmall:
		return "14px"
	case FontLarge:
		return "18px"
	default:
		return "16px"
	}
}

func (b BubbleStyle) Valid() bool {
	switch b {
	case BubbleRounded, BubbleSharp, BubblePill:
		return true
	}
	return false
}

func (s Settings) Validate() error {
	if !s.Theme.Valid() {
		return fmt.Errorf("%w: unknown theme %q", seau_errors.ErrInvalidInput, s.Theme)
	}
	if !s.FontSize.Valid() {
		return fmt.Errorf("%w: unknown font size %q", seau_errors.ErrInvalidInput, s.FontSize)
	}
	if !s.BubbleStyle.Valid() {
		return fmt.Errorf("%w: unknown bubble style %q", seau_errors.ErrInvalidInput, s.BubbleStyle)
	}
	return nil
}

// Repair replaces invalid enum values with their defaults and reports
// whether anything changed.
func (s *Settings) Repair() bool {
	d := Defaults()
	changed := false
	if !s.Theme.Valid() {
		s.Theme, changed = d.Theme, true
	}
	if !s.FontSize.Valid() {
		s.FontSize, changed = d.FontSize, true
	}
	if !s.BubbleStyle.Valid() {
		s.BubbleStyle, changed = d.BubbleStyle, true
	}
	return changed
}

// Presentation is the subset of settings that drives rendering.
type Presentation struct {
	Theme    Theme
	DarkMode bool
	FontSize FontSize
	FontPx   string
}

func (s Settings) Presentation() Presentation {
	return Presentation{Theme: s.Theme, DarkMode: s.DarkMode, FontSize: s.FontSize, FontPx: s.FontSize.Pixels()}
}

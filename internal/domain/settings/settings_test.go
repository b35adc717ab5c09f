package settings

import (
	"encoding/json"
	"testing"

	seau_errors "sea-u/pkg/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaults(t *testing.T) {
	d := Defaults()
	require.NoError(t, d.Validate())
	assert.Equal(t, ThemePastel, d.Theme)
	assert.Equal(t, FontMedium, d.FontSize)
	assert.True(t, d.ReadReceipts)
	assert.False(t, d.Bluetooth)
}

func TestStoredBlobMergesOverDefaults(t *testing.T) {
	s := Defaults()
	require.NoError(t, json.Unmarshal([]byte(`{"darkMode":true,"theme":"ocean"}`), &s))

	assert.True(t, s.DarkMode)
	assert.Equal(t, ThemeOcean, s.Theme)
	assert.Equal(t, BubbleRounded, s.BubbleStyle)
	assert.True(t, s.Notifications)
}

func TestPatchApply(t *testing.T) {
	var p Patch
	require.NoError(t, json.Unmarshal([]byte(`{"fontSize":"large","sound":false}`), &p))

	got := p.Apply(Defaults())
	assert.Equal(t, FontLarge, got.FontSize)
	assert.False(t, got.Sound)
	assert.Equal(t, ThemePastel, got.Theme)
	assert.Equal(t, "18px", got.Presentation().FontPx)
}

func TestValidateAndRepair(t *testing.T) {
	s := Defaults()
	s.Theme = "neon"
	assert.ErrorIs(t, s.Validate(), seau_errors.ErrInvalidInput)

	assert.True(t, s.Repair())
	assert.Equal(t, ThemePastel, s.Theme)
	assert.False(t, s.Repair())
}

package settings

// Patch is a partial update. Nil fields are left unchanged.
type Patch struct {
	DarkMode       *bool        `json:"darkMode,omitempty"`
	Theme          *Theme       `json:"theme,omitempty"`
	FontSize       *FontSize    `json:"fontSize,omitempty"`
	BubbleStyle    *BubbleStyle `json:"bubbleStyle,omitempty"`
	ShowOnline     *bool        `json:"showOnline,omitempty"`
	ShowLastSeen   *bool        `json:"showLastSeen,omitempty"`
	ShareLocation  *bool        `json:"shareLocation,omitempty"`
	ReadReceipts   *bool        `json:"readReceipts,omitempty"`
	ProfileVisible *bool        `json:"profileVisible,omitempty"`
	BlockStrangers *bool        `json:"blockStrangers,omitempty"`
	Notifications  *bool        `json:"notifications,omitempty"`
	Sound          *bool        `json:"sound,omitempty"`
	AutoConnect    *bool        `json:"autoConnect,omitempty"`
	Bluetooth      *bool        `json:"bluetooth,omitempty"`
}

// Apply returns s with every non-nil field of p written over it.
func (p Patch) Apply(s Settings) Settings {
	setBool(&s.DarkMode, p.DarkMode)
	if p.Theme != nil {
		s.Theme = *p.Theme
	}
	if p.FontSize != nil {
		s.FontSize = *p.FontSize
	}
	if p.BubbleStyle != nil {
		s.BubbleStyle = *p.BubbleStyle
	}
	setBool(&s.ShowOnline, p.ShowOnline)
	setBool(&s.ShowLastSeen, p.ShowLastSeen)
	setBool(&s.ShareLocation, p.ShareLocation)
	setBool(&s.ReadReceipts, p.ReadReceipts)
	setBool(&s.ProfileVisible, p.ProfileVisible)
	setBool(&s.BlockStrangers, p.BlockStrangers)
	setBool(&s.Notifications, p.Notifications)
	setBool(&s.Sound, p.Sound)
	setBool(&s.AutoConnect, p.AutoConnect)
	setBool(&s.Bluetooth, p.Bluetooth)
	return s
}

func setBool(dst *bool, v *bool) {
	if v != nil {
		*dst = *v
	}
}

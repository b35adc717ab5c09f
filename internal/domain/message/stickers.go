package message

type StickerCategory string

const (
	CategoryLove  StickerCategory = "love"
	CategoryHappy StickerCategory = "happy"
	CategoryFood  StickerCategory = "food"
	CategoryGreet StickerCategory = "greet"
	CategoryReact StickerCategory = "react"
)

type Sticker struct {
	ID       string
	Emoji    string
	Label    string
	Category StickerCategory
}

var stickers = []Sticker{
	{"s1", "💖", "Sparkle Heart", CategoryLove},
	{"s2", "🥰", "Love Face", CategoryLove},
	{"s3", "💕", "Two Hearts", CategoryLove},
	{"s4", "😘", "Kiss", CategoryLove},
	{"s5", "🫶", "Heart Hands", CategoryLove},
	{"s6", "💗", "Growing Heart", CategoryLove},

	{"s7", "✨", "Sparkles", CategoryHappy},
	{"s8", "🌟", "Star", CategoryHappy},
	{"s9", "🎉", "Party", CategoryHappy},
	{"s10", "😆", "Laughing", CategoryHappy},
	{"s11", "🤗", "Hug", CategoryHappy},
	{"s12", "💃", "Dance", CategoryHappy},

	{"s13", "🍜", "Noodles", CategoryFood},
	{"s14", "🍚", "Rice", CategoryFood},
	{"s15", "🥥", "Coconut", CategoryFood},
	{"s16", "🧋", "Boba", CategoryFood},
	{"s17", "🍡", "Dango", CategoryFood},
	{"s18", "🥭", "Mango", CategoryFood},

	{"s19", "👋", "Wave", CategoryGreet},
	{"s20", "🙏", "Wai/Namaste", CategoryGreet},
	{"s21", "😊", "Smile", CategoryGreet},
	{"s22", "🌺", "Flower", CategoryGreet},
	{"s23", "🫡", "Salute", CategoryGreet},
	{"s24", "🌴", "Palm Tree", CategoryGreet},

	{"s25", "😂", "LOL", CategoryReact},
	{"s26", "😮", "Wow", CategoryReact},
	{"s27", "😭", "Crying", CategoryReact},
	{"s28", "🔥", "Fire", CategoryReact},
	{"s29", "👀", "Eyes", CategoryReact},
	{"s30", "🫣", "Peek", CategoryReact},
}

// Stickers returns the built-in sticker catalog.
func Stickers() []Sticker {
	out := make([]Sticker, len(stickers))
	copy(out, stickers)
	return out
}

// LookupSticker finds a catalog sticker by id or glyph.
func LookupSticker(ref string) (Sticker, bool) {
	for _, s := range stickers {
		if s.ID == ref || s.Emoji == ref {
			return s, true
		}
	}
	return Sticker{}, false
}

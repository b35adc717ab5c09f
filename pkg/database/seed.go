package database

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"sea-u/internal/domain/conversation"
	"sea-u/internal/domain/message"
	"sea-u/internal/domain/user"
	"sea-u/internal/repository"
	seau_errors "sea-u/pkg/errors"

	"github.com/google/uuid"
)

// seedNamespace derives stable user ids from SEA-U ids so reseeding keeps
// the same identities and previously issued dev tokens stay valid.
var seedNamespace = uuid.MustParse("6f1d4a52-3c1e-4b8e-9a61-5e0c2d7b9f10")

// SeedTargets are the stores the dev seed writes through.
type SeedTargets struct {
	Profiles      repository.ProfileRepository
	Conversations repository.ConversationRepository
	Messages      repository.MessageRepository
}

// SeedResult holds the result of the seeding operation
type SeedResult struct {
	Me            user.Profile
	Contacts      []user.Profile
	Conversations []uuid.UUID
	Messages      int
}

type demoMessage struct {
	fromMe  bool
	text    string
	sticker string
}

type demoContact struct {
	profile  user.Profile
	messages []demoMessage
}

func demoProfile(seaID, name, avatar, country string) user.Profile {
	return user.Profile{
		UserID:          uuid.NewSHA1(seedNamespace, []byte(seaID)),
		DisplayName:     name,
		Avatar:          avatar,
		Country:         country,
		SeaID:           seaID,
		ShowOnline:      true,
		ShowInDirectory: true,
	}
}

func demoData() (user.Profile, []demoContact) {
	me := demoProfile("SEA-810042", "CuteUser_123", "🧑‍💻", "Philippines 🇵🇭")
	contacts := []demoContact{
		{demoProfile("SEA-290178", "Aira Santos", "👩", "Philippines 🇵🇭"), []demoMessage{
			{text: "Hiii! Are you nearby? 📡"},
			{fromMe: true, text: "Yes! Connected via hotspot 🎉"},
			{text: "Yay! Let's chat!"},
			{sticker: "💖"},
			{fromMe: true, sticker: "🧋"},
			{text: "Kamusta ka? 😊"},
		}},
		{demoProfile("SEA-537261", "Minh Tran", "👨", "Vietnam 🇻🇳"), []demoMessage{
			{text: "Xin chào! 🌸"},
			{fromMe: true, text: "Hey Minh! Connected via BT!"},
			{sticker: "🧋"},
		}},
		{demoProfile("SEA-418930", "Putri Wulandari", "👩", "Indonesia 🇮🇩"), []demoMessage{
			{text: "Hai hai! 🌺"},
			{fromMe: true, text: "Putri! Apa kabar?"},
			{text: "Ayo kita makan!"},
		}},
		{demoProfile("SEA-602847", "Somchai Rattana", "👨", "Thailand 🇹🇭"), nil},
		{demoProfile("SEA-753194", "Lina Abdullah", "👩", "Malaysia 🇲🇾"), nil},
		{demoProfile("SEA-884562", "Dara Sokha", "👩", "Cambodia 🇰🇭"), nil},
		{demoProfile("SEA-120395", "Rizal Abidin", "👨", "Malaysia 🇲🇾"), []demoMessage{
			{text: "Bro! Kau kat mana sekarang? 😄"},
			{fromMe: true, text: "Kat rumah je, kenapa?"},
			{text: "Apa khabar bro!"},
		}},
		{demoProfile("SEA-667821", "Mei Lin Tan", "👩", "Singapore 🇸🇬"), []demoMessage{
			{text: "Hey! Long time no chat 🌸"},
			{fromMe: true, text: "Mei Lin! How's Singapore?"},
			{text: "Dinner later? 🍜"},
		}},
		{demoProfile("SEA-445109", "Kanya Siriwat", "👩", "Thailand 🇹🇭"), nil},
		{demoProfile("SEA-998134", "Arief Pratama", "👨", "Indonesia 🇮🇩"), []demoMessage{
			{text: "Main game yuk! 🎮"},
			{fromMe: true, text: "Boleh! Ranked?"},
			{text: "GG bro! 🎮"},
		}},
	}
	return me, contacts
}

// SeedDevelopment writes the demo profiles and their chats. Running it again
// refreshes the profiles and leaves existing conversations untouched.
func SeedDevelopment(ctx context.Context, t SeedTargets) (*SeedResult, error) {
	me, contacts := demoData()
	result := &SeedResult{Me: me}

	log.Println("Starting database seeding...")
	if err := t.Profiles.Upsert(ctx, &result.Me); err != nil {
		return nil, fmt.Errorf("seed profile %s: %w", me.SeaID, err)
	}

	for _, contact := range contacts {
		p := contact.profile
		if err := t.Profiles.Upsert(ctx, &p); err != nil {
			return nil, fmt.Errorf("seed profile %s: %w", p.SeaID, err)
		}
		result.Contacts = append(result.Contacts, p)
		if len(contact.messages) == 0 {
			continue
		}

		convID, created, err := seedConversation(ctx, t.Conversations, me.UserID, p.UserID)
		if err != nil {
			return nil, err
		}
		result.Conversations = append(result.Conversations, convID)
		if !created {
			continue
		}
		for _, dm := range contact.messages {
			sender := p.UserID
			if dm.fromMe {
				sender = me.UserID
			}
			body, err := message.NewBody(dm.text, dm.sticker)
			if err != nil {
				return nil, err
			}
			m := message.New(convID, sender, body)
			if err := t.Messages.Create(ctx, &m); err != nil {
				return nil, fmt.Errorf("seed message: %w", err)
			}
			result.Messages++
		}
	}

	log.Println("Database seeding completed")
	return result, nil
}

func seedConversation(ctx context.Context, repo repository.ConversationRepository, a, b uuid.UUID) (uuid.UUID, bool, error) {
	key := conversation.PairKey(a, b)
	existing, err := repo.GetByPairKey(ctx, key)
	if err == nil {
		return existing.ID, false, nil
	}
	if !errors.Is(err, seau_errors.ErrNotFound) {
		return uuid.Nil, false, err
	}

	c := conversation.NewPair(a, b, time.Now())
	if err := repo.CreateWithParticipants(ctx, &c); err != nil {
		return uuid.Nil, false, fmt.Errorf("seed conversation: %w", err)
	}
	return c.ID, true, nil
}

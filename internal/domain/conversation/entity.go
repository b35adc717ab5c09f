package conversation

import (
	"database/sql"
	"time"

	"github.com/google/uuid"
)

// Conversation represents the conversations table
type Conversation struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"`
	PairKey   sql.NullString
	CreatedAt time.Time

	// Relationships
	Participants []Participant `gorm:"foreignKey:ConversationID"`
}

// Participant represents the conversation_participants table
type Participant struct {
	ID             uuid.UUID `gorm:"type:uuid;primaryKey"`
	ConversationID uuid.UUID `gorm:"type:uuid;index"`
	UserID         uuid.UUID `gorm:"type:uuid;index"`
	JoinedAt       time.Time
}

func (Conversation) TableName() string {
	return "conversations"
}

func (Participant) TableName() string {
	return "conversation_participants"
}

// PairKey is the order-independent key of a two-party conversation.
func PairKey(a, b uuid.UUID) string {
	x, y := a.String(), b.String()
	if y < x {
		x, y = y, x
	}
	return x + ":" + y
}

// NewPair prepares an unsaved two-party conversation. The store assigns ids.
func NewPair(a, b uuid.UUID, now time.Time) Conversation {
	return Conversation{
		PairKey:   sql.NullString{String: PairKey(a, b), Valid: true},
		CreatedAt: now,
		Participants: []Participant{
			{UserID: a, JoinedAt: now},
			{UserID: b, JoinedAt: now},
		},
	}
}

// GroupMembers buckets participant rows by conversation, dropping duplicate rows.
func GroupMembers(rows []Participant) map[uuid.UUID][]uuid.UUID {
	out := make(map[uuid.UUID][]uuid.UUID)
	for _, p := range rows {
		members := out[p.ConversationID]
		dup := false
		for _, id := range members {
			if id == p.UserID {
				dup = true
				break
			}
		}
		if !dup {
			out[p.ConversationID] = append(members, p.UserID)
		}
	}
	return out
}

// IsPair reports whether members is exactly {a, b}.
func IsPair(members []uuid.UUID, a, b uuid.UUID) bool {
	if len(members) != 2 || a == b {
		return false
	}
	return (members[0] == a && members[1] == b) || (members[0] == b && members[1] == a)
}

// Counterpart returns the first member that is not self.
func Counterpart(members []uuid.UUID, self uuid.UUID) (uuid.UUID, bool) {
	for _, id := range members {
		if id != self {
			return id, true
		}
	}
	return uuid.Nil, false
}

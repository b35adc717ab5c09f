package conversation

import (
	"sea-u/internal/domain/user"

	"github.com/google/uuid"
)

func profileFixture() user.Profile {
	return user.Profile{UserID: uuid.New(), DisplayName: "Mai", SeaID: "SEA-000001", Country: "Vietnam"}
}

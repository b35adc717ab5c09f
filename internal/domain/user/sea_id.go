package user

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"regexp"
	"strings"
)

const seaIDPrefix = "SEA-"

var seaIDPattern = regexp.MustCompile(`^SEA-[0-9]{6}$`)

// NormalizeSeaID folds a user-typed SEA-U ID into its stored form.
// Comparison of SEA-U IDs is case-insensitive, storage is upper-case.
func NormalizeSeaID(raw string) string {
	return strings.ToUpper(strings.TrimSpace(raw))
}

// ValidSeaID reports whether id (already normalised) has the SEA-NNNNNN shape.
func ValidSeaID(id string) bool {
	return seaIDPattern.MatchString(id)
}

// NewSeaID draws a random SEA-U ID. Uniqueness is enforced by the
// profiles.sea_id unique index, callers retry on conflict.
func NewSeaID() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(1_000_000))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%s%06d", seaIDPrefix, n.Int64()), nil
}

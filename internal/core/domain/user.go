package domain

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/householderhq/householder/internal/apperrors"
)

// DefaultUserID is the fallback session identity when no user is logged in or
// an identifier sanitizes to nothing.
const DefaultUserID = "demo"

var (
	invalidIDRuns = regexp.MustCompile(`[^a-z0-9_-]+`)
	underscoreRun = regexp.MustCompile(`_+`)
)

// SanitizeUserID lower-cases an identifier and restricts it to [a-z0-9_-],
// collapsing each run of invalid characters to a single underscore and
// trimming leading/trailing underscores. An unusable input yields "".
func SanitizeUserID(value string) string {
	text := strings.ToLower(strings.TrimSpace(value))
	if text == "" {
		return ""
	}
	safe := invalidIDRuns.ReplaceAllString(text, "_")
	safe = underscoreRun.ReplaceAllString(safe, "_")
	return strings.Trim(safe, "_")
}

// SanitizeUserIDOrDefault sanitizes like SanitizeUserID but falls back to
// DefaultUserID instead of returning "".
func SanitizeUserIDOrDefault(value string) string {
	if safe := SanitizeUserID(value); safe != "" {
		return safe
	}
	return DefaultUserID
}

// User is one entry in the registered-user directory. The directory is
// advisory: the session identity is a client-trusted string and membership
// here grants nothing.
type User struct {
	UserID    string    `json:"userId"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// NormalizeUser validates and canonicalizes a directory entry. The user id is
// derived from the email when absent; the display name falls back to the id.
func NormalizeUser(user User) (User, error) {
	out := user
	out.Name = strings.TrimSpace(out.Name)
	out.Email = strings.ToLower(strings.TrimSpace(out.Email))

	source := out.UserID
	if strings.TrimSpace(source) == "" {
		source = out.Email
	}
	out.UserID = SanitizeUserID(source)
	if out.UserID == "" {
		return User{}, fmt.Errorf("%w: user requires a usable identifier", apperrors.ErrValidation)
	}
	if out.Name == "" {
		out.Name = out.UserID
	}

	if out.CreatedAt.IsZero() {
		out.CreatedAt = time.Now()
	}
	if out.UpdatedAt.IsZero() {
		out.UpdatedAt = out.CreatedAt
	}
	return out, nil
}

// DecodeUser turns one persisted raw record into a normalized User.
func DecodeUser(raw json.RawMessage) (User, error) {
	var rec User
	if err := json.Unmarshal(raw, &rec); err != nil {
		return User{}, fmt.Errorf("%w: unreadable user record", apperrors.ErrValidation)
	}
	return NormalizeUser(rec)
}

// Package models defines the catalog records (profiles, products) and the
// derived values exchanged between the store, the view selector and the
// import/export reconciler.
package models

import (
	"time"

	"github.com/google/uuid"
)

// Profile is a local user identity. Products reference it by Username only.
type Profile struct {
	ID         string `json:"id"`
	Username   string `json:"username"`
	Bio        string `json:"bio"`
	AvatarData string `json:"avatarData"`
	// CreatedAt is an ISO-8601 timestamp set once at creation.
	CreatedAt string `json:"createdAt"`
}

// NewEmptyProfile returns an unsaved profile with a fresh id and no username.
func NewEmptyProfile() Profile {
	return Profile{
		ID:        uuid.NewString(),
		CreatedAt: Now(),
	}
}

// HasUsername reports whether the profile can own products.
func (p Profile) HasUsername() bool {
	return p.Username != ""
}

// Now returns the current time in the timestamp format used by all records.
func Now() string {
	return time.Now().UTC().Format(TimestampLayout)
}

// TimestampLayout is the ISO-8601 layout with millisecond precision.
const TimestampLayout = "2006-01-02T15:04:05.000Z07:00"

// ParseTimestamp parses a record timestamp. Unparseable values yield the zero
// time and false.
func ParseTimestamp(s string) (time.Time, bool) {
	for _, layout := range []string{time.RFC3339Nano, TimestampLayout, "2006-01-02T15:04:05", "2006-01-02"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

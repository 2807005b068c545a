package models

import "time"

// ShareLink grants unauthenticated read access to a gathering's settlement.
type ShareLink struct {
	// Token is the public identifier used in the shared URL (UUID format).
	Token string

	// GatheringID is the gathering being shared.
	GatheringID string

	// ExpiresAt is the Unix timestamp after which the link stops working.
	ExpiresAt int64

	// CreatedAt is the Unix timestamp when the link was created.
	CreatedAt int64
}

// IsExpired reports whether the link has expired at the given time.
func (l *ShareLink) IsExpired(now time.Time) bool {
	return now.Unix() > l.ExpiresAt
}

package entity

import "time"

// RevokedToken is an append-only ledger row for a token that must no longer be honored.
type RevokedToken struct {
	Token     string
	UserID    *string
	CreatedAt time.Time
}

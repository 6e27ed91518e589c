package models

import "time"

// ResetToken is a single-use opaque token that re-enables its account
// with new credentials. All rows for the account are deleted in the
// same transaction that consumes one of them.
type ResetToken struct {
	ID        int64     `json:"id"`
	AccountID int64     `json:"account_id"`
	Token     string    `json:"token"`
	CreatedAt time.Time `json:"created_at"`
}

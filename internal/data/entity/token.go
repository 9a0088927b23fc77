package entity

import "time"

// Token is a personal access token. Only the SHA-256 digest of the
// plaintext is persisted.
type Token struct {
	BaseSimple
	UserID     int64      `db:"user_id"`
	Name       string     `db:"name"`
	TokenHash  string     `db:"token_hash"`
	LastUsedAt *time.Time `db:"last_used_at"`
}

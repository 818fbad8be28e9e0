package model

import "time"

// Conversation is the container for all messages between exactly two users.
// The pair is stored normalized (UserAID < UserBID) and guarded by a unique
// constraint, so at most one conversation exists per unordered pair.
type Conversation struct {
	ID            uint64     `json:"id"`
	UserAID       uint64     `json:"user_a_id"`
	UserBID       uint64     `json:"user_b_id"`
	CreatedAt     time.Time  `json:"created_at"`
	LastMessageAt *time.Time `json:"last_message_at,omitempty"`
}

// NormalizePair orders two user IDs so that the smaller one comes first.
// Conversations are undirected; normalizing before lookup or insert keeps
// the unique constraint meaningful.
func NormalizePair(a, b uint64) (uint64, uint64) {
	if a > b {
		return b, a
	}
	return a, b
}

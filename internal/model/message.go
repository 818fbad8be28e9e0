package model

import "time"

// Message belongs to one conversation. IsRead flips when the recipient opens
// the conversation (bulk mark-read) or calls the explicit mark-read endpoint.
type Message struct {
	ID             uint64    `json:"id"`
	ConversationID uint64    `json:"conversation_id"`
	SenderID       uint64    `json:"sender_id"`
	RecipientID    uint64    `json:"recipient_id"`
	Message        string    `json:"message"`
	Subject        *string   `json:"subject,omitempty"`
	IsRead         bool      `json:"is_read"`
	CreatedAt      time.Time `json:"created_at"`
}

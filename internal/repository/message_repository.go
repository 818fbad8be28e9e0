package repository

import (
	"context"
	"database/sql"

	"github.com/isazadesabuhi/studxus-backend/internal/model"
)

// MessageRepo manages the messages inside conversations.
type MessageRepo struct{ db *sql.DB }

func NewMessageRepo(db *sql.DB) *MessageRepo { return &MessageRepo{db: db} }

// Create appends a message to a conversation and populates generated fields
// on the given record.
func (r *MessageRepo) Create(ctx context.Context, m *model.Message) error {
	const q = `INSERT INTO messages (conversation_id, sender_id, recipient_id, message, subject)
	           VALUES (?, ?, ?, ?, ?)`
	res, err := r.db.ExecContext(ctx, q,
		m.ConversationID, m.SenderID, m.RecipientID, m.Message, m.Subject)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	m.ID = uint64(id)
	const sel = `SELECT id, conversation_id, sender_id, recipient_id, message, subject, is_read, created_at
	             FROM messages WHERE id = ?`
	return r.db.QueryRowContext(ctx, sel, m.ID).Scan(
		&m.ID, &m.ConversationID, &m.SenderID, &m.RecipientID,
		&m.Message, &m.Subject, &m.IsRead, &m.CreatedAt)
}

// ListByConversation returns a conversation's messages in chronological
// order.
func (r *MessageRepo) ListByConversation(ctx context.Context, conversationID uint64) ([]model.Message, error) {
	const q = `SELECT id, conversation_id, sender_id, recipient_id, message, subject, is_read, created_at
	           FROM messages
	           WHERE conversation_id = ?
	           ORDER BY created_at ASC, id ASC`
	rows, err := r.db.QueryContext(ctx, q, conversationID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]model.Message, 0)
	for rows.Next() {
		var m model.Message
		if err := rows.Scan(&m.ID, &m.ConversationID, &m.SenderID, &m.RecipientID,
			&m.Message, &m.Subject, &m.IsRead, &m.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

// MarkReadForRecipient flags every unread message addressed to the user in
// the conversation as read and returns how many were flipped.
func (r *MessageRepo) MarkReadForRecipient(ctx context.Context, conversationID, userID uint64) (int64, error) {
	const q = `UPDATE messages SET is_read = 1
	           WHERE conversation_id = ? AND recipient_id = ? AND is_read = 0`
	res, err := r.db.ExecContext(ctx, q, conversationID, userID)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

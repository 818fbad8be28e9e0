package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/isazadesabuhi/studxus-backend/internal/model"
)

// ConversationRepo manages the undirected two-user conversation containers.
type ConversationRepo struct{ db *sql.DB }

func NewConversationRepo(db *sql.DB) *ConversationRepo { return &ConversationRepo{db: db} }

const conversationCols = `id, user_a_id, user_b_id, created_at, last_message_at`

// GetOrCreate resolves the single conversation for an unordered user pair,
// creating it lazily on first contact. The pair is normalized before lookup
// and the table carries a unique constraint on it, so two first messages
// racing from both directions cannot split into two conversations: the
// losing insert hits the constraint and falls back to re-reading the row the
// winner created.
func (r *ConversationRepo) GetOrCreate(ctx context.Context, userA, userB uint64) (model.Conversation, error) {
	a, b := model.NormalizePair(userA, userB)
	conv, err := r.getByPair(ctx, a, b)
	if err == nil {
		return conv, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return model.Conversation{}, err
	}
	const ins = `INSERT INTO conversations (user_a_id, user_b_id) VALUES (?, ?)`
	if _, err := r.db.ExecContext(ctx, ins, a, b); err != nil {
		if !isDuplicateKey(err) {
			return model.Conversation{}, err
		}
	}
	return r.getByPair(ctx, a, b)
}

func (r *ConversationRepo) getByPair(ctx context.Context, a, b uint64) (model.Conversation, error) {
	const q = `SELECT ` + conversationCols + ` FROM conversations WHERE user_a_id = ? AND user_b_id = ?`
	return scanConversation(r.db.QueryRowContext(ctx, q, a, b))
}

// GetByID returns a conversation or ErrConversationNotFound.
func (r *ConversationRepo) GetByID(ctx context.Context, id uint64) (model.Conversation, error) {
	const q = `SELECT ` + conversationCols + ` FROM conversations WHERE id = ?`
	conv, err := scanConversation(r.db.QueryRowContext(ctx, q, id))
	if errors.Is(err, sql.ErrNoRows) {
		return conv, ErrConversationNotFound
	}
	return conv, err
}

// TouchLastMessage advances the conversation's last-activity marker.
func (r *ConversationRepo) TouchLastMessage(ctx context.Context, id uint64, at time.Time) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE conversations SET last_message_at = ? WHERE id = ?`, at, id)
	return err
}

func scanConversation(row rowScanner) (model.Conversation, error) {
	var (
		c    model.Conversation
		last sql.NullTime
	)
	err := row.Scan(&c.ID, &c.UserAID, &c.UserBID, &c.CreatedAt, &last)
	if err != nil {
		return model.Conversation{}, err
	}
	if last.Valid {
		t := last.Time
		c.LastMessageAt = &t
	}
	return c, nil
}

// ConversationSummary is one row of the caller's inbox: the conversation,
// the peer's identity, the latest message preview and the unread count.
type ConversationSummary struct {
	ID            uint64     `json:"id"`
	PeerID        uint64     `json:"peer_id"`
	PeerName      *string    `json:"peer_name,omitempty"`
	PeerSurname   *string    `json:"peer_surname,omitempty"`
	LastMessage   *string    `json:"last_message,omitempty"`
	LastMessageAt *time.Time `json:"last_message_at,omitempty"`
	UnreadCount   int64      `json:"unread_count"`
	CreatedAt     time.Time  `json:"created_at"`
}

// ListForUser returns the user's conversations ordered by most recent
// activity, each with the peer's profile name, the latest message text and
// how many messages addressed to the user are still unread.
func (r *ConversationRepo) ListForUser(ctx context.Context, userID uint64) ([]ConversationSummary, error) {
	const q = `SELECT c.id,
	                  CASE WHEN c.user_a_id = ? THEN c.user_b_id ELSE c.user_a_id END AS peer_id,
	                  p.name, p.surname,
	                  (SELECT m.message FROM messages m
	                   WHERE m.conversation_id = c.id
	                   ORDER BY m.created_at DESC, m.id DESC LIMIT 1) AS last_message,
	                  c.last_message_at,
	                  (SELECT COUNT(*) FROM messages m
	                   WHERE m.conversation_id = c.id AND m.recipient_id = ? AND m.is_read = 0) AS unread_count,
	                  c.created_at
	           FROM conversations c
	           LEFT JOIN user_profiles p
	             ON p.user_id = CASE WHEN c.user_a_id = ? THEN c.user_b_id ELSE c.user_a_id END
	           WHERE c.user_a_id = ? OR c.user_b_id = ?
	           ORDER BY c.last_message_at DESC`
	rows, err := r.db.QueryContext(ctx, q, userID, userID, userID, userID, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]ConversationSummary, 0)
	for rows.Next() {
		var (
			s    ConversationSummary
			last sql.NullTime
		)
		if err := rows.Scan(&s.ID, &s.PeerID, &s.PeerName, &s.PeerSurname,
			&s.LastMessage, &last, &s.UnreadCount, &s.CreatedAt); err != nil {
			return nil, err
		}
		if last.Valid {
			t := last.Time
			s.LastMessageAt = &t
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

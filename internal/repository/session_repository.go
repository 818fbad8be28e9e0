package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/isazadesabuhi/studxus-backend/internal/model"
)

// SessionRepo manages persistence for course sessions (scheduled
// occurrences of a course).
type SessionRepo struct{ db *sql.DB }

func NewSessionRepo(db *sql.DB) *SessionRepo { return &SessionRepo{db: db} }

const sessionCols = `id, course_id, session_date, start_time, end_time,
       max_participants, current_participants, location, created_at, updated_at`

// Create inserts a new session with zero participants and populates
// generated fields on the given record.
func (r *SessionRepo) Create(ctx context.Context, s *model.CourseSession) error {
	const q = `INSERT INTO course_sessions
	           (course_id, session_date, start_time, end_time, max_participants, current_participants, location)
	           VALUES (?, ?, ?, ?, ?, 0, ?)`
	res, err := r.db.ExecContext(ctx, q,
		s.CourseID, s.SessionDate, s.StartTime, s.EndTime, s.MaxParticipants, s.Location)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	s.ID = uint64(id)
	const sel = `SELECT ` + sessionCols + ` FROM course_sessions WHERE id = ?`
	return r.db.QueryRowContext(ctx, sel, s.ID).Scan(
		&s.ID, &s.CourseID, &s.SessionDate, &s.StartTime, &s.EndTime,
		&s.MaxParticipants, &s.CurrentParticipants, &s.Location, &s.CreatedAt, &s.UpdatedAt)
}

// GetByID returns a session by primary key or ErrSessionNotFound.
func (r *SessionRepo) GetByID(ctx context.Context, id uint64) (model.CourseSession, error) {
	const q = `SELECT ` + sessionCols + ` FROM course_sessions WHERE id = ?`
	var s model.CourseSession
	err := r.db.QueryRowContext(ctx, q, id).Scan(
		&s.ID, &s.CourseID, &s.SessionDate, &s.StartTime, &s.EndTime,
		&s.MaxParticipants, &s.CurrentParticipants, &s.Location, &s.CreatedAt, &s.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return s, ErrSessionNotFound
	}
	return s, err
}

// ListUpcoming returns a course's sessions on or after the given date
// ("2006-01-02"), ordered by date then start time. Past sessions stay in
// storage but become invisible through this path.
func (r *SessionRepo) ListUpcoming(ctx context.Context, courseID uint64, fromDate string) ([]model.CourseSession, error) {
	const q = `SELECT ` + sessionCols + ` FROM course_sessions
	           WHERE course_id = ? AND session_date >= ?
	           ORDER BY session_date ASC, start_time ASC`
	rows, err := r.db.QueryContext(ctx, q, courseID, fromDate)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]model.CourseSession, 0)
	for rows.Next() {
		var s model.CourseSession
		if err := rows.Scan(
			&s.ID, &s.CourseID, &s.SessionDate, &s.StartTime, &s.EndTime,
			&s.MaxParticipants, &s.CurrentParticipants, &s.Location, &s.CreatedAt, &s.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

// IncrementParticipantsTx bumps a session's participant counter inside the
// caller's transaction, but only while the counter is below the ceiling.
// The conditional update is what enforces current <= max under concurrency:
// when another confirmation takes the last place first, zero rows match and
// ErrSessionFull is returned.
func (r *SessionRepo) IncrementParticipantsTx(ctx context.Context, tx *sql.Tx, sessionID uint64) error {
	const q = `UPDATE course_sessions
	           SET current_participants = current_participants + 1, updated_at = ?
	           WHERE id = ? AND current_participants < max_participants`
	res, err := tx.ExecContext(ctx, q, time.Now().UTC(), sessionID)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrSessionFull
	}
	return nil
}

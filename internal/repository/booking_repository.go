package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/isazadesabuhi/studxus-backend/internal/model"
)

// BookingRepo provides persistence for bookings. The confirmation path runs
// inside a caller-owned transaction so the status change and the session
// participant counter move together or not at all.
type BookingRepo struct{ db *sql.DB }

func NewBookingRepo(db *sql.DB) *BookingRepo { return &BookingRepo{db: db} }

// DB exposes the underlying sql.DB for transactions spanning repositories.
func (r *BookingRepo) DB() *sql.DB { return r.db }

const bookingCols = `id, user_id, course_id, course_session_id, amount,
       payment_method, status, payment_status, payment_ref,
       message_to_instructor, card_last_four, card_brand, created_at, paid_at`

// Create inserts a new booking row and populates generated fields on the
// given record. Validation (course exists, capacity, no duplicate) is the
// caller's responsibility; the insert happens only after all checks pass.
func (r *BookingRepo) Create(ctx context.Context, b *model.Booking) error {
	const q = `INSERT INTO bookings
	           (user_id, course_id, course_session_id, amount, payment_method,
	            status, payment_status, message_to_instructor, card_last_four, card_brand)
	           VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	res, err := r.db.ExecContext(ctx, q,
		b.UserID, b.CourseID, b.CourseSessionID, b.Amount, b.PaymentMethod,
		b.Status, b.PaymentStatus, b.MessageToInstructor, b.CardLastFour, b.CardBrand)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	b.ID = uint64(id)
	return r.reload(ctx, b)
}

func (r *BookingRepo) reload(ctx context.Context, b *model.Booking) error {
	const sel = `SELECT ` + bookingCols + ` FROM bookings WHERE id = ?`
	return scanBooking(r.db.QueryRowContext(ctx, sel, b.ID), b)
}

func scanBooking(row rowScanner, b *model.Booking) error {
	var paidAt sql.NullTime
	err := row.Scan(
		&b.ID, &b.UserID, &b.CourseID, &b.CourseSessionID, &b.Amount,
		&b.PaymentMethod, &b.Status, &b.PaymentStatus, &b.PaymentRef,
		&b.MessageToInstructor, &b.CardLastFour, &b.CardBrand, &b.CreatedAt, &paidAt)
	if err != nil {
		return err
	}
	if paidAt.Valid {
		t := paidAt.Time
		b.PaidAt = &t
	} else {
		b.PaidAt = nil
	}
	return nil
}

// HasActive reports whether the user already holds a pending or paid booking
// on the given session.
func (r *BookingRepo) HasActive(ctx context.Context, userID, sessionID uint64) (bool, error) {
	const q = `SELECT 1 FROM bookings
	           WHERE user_id = ? AND course_session_id = ? AND status IN (?, ?)
	           LIMIT 1`
	var one int
	err := r.db.QueryRowContext(ctx, q, userID, sessionID, model.BookingPending, model.BookingPaid).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// GetByIDForUser returns a booking restricted to its owner. Missing rows and
// rows owned by someone else both yield ErrBookingNotFound so booking IDs
// cannot be probed.
func (r *BookingRepo) GetByIDForUser(ctx context.Context, id, userID uint64) (model.Booking, error) {
	const q = `SELECT ` + bookingCols + ` FROM bookings WHERE id = ? AND user_id = ?`
	var b model.Booking
	err := scanBooking(r.db.QueryRowContext(ctx, q, id, userID), &b)
	if errors.Is(err, sql.ErrNoRows) {
		return b, ErrBookingNotFound
	}
	return b, err
}

// MarkPaidTx transitions a pending booking to paid inside the caller's
// transaction, recording the payment reference and settlement time. When no
// pending row matches, the error distinguishes an unknown booking from one
// that is already past pending (ErrConflict).
func (r *BookingRepo) MarkPaidTx(ctx context.Context, tx *sql.Tx, id, userID uint64, ref string, paidAt time.Time) error {
	const q = `UPDATE bookings
	           SET status = ?, payment_status = ?, payment_ref = ?, paid_at = ?
	           WHERE id = ? AND user_id = ? AND status = ?`
	res, err := tx.ExecContext(ctx, q,
		model.BookingPaid, model.PaymentCompleted, ref, paidAt, id, userID, model.BookingPending)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n > 0 {
		return nil
	}
	var status string
	err = tx.QueryRowContext(ctx, `SELECT status FROM bookings WHERE id = ? AND user_id = ?`, id, userID).Scan(&status)
	if errors.Is(err, sql.ErrNoRows) {
		return ErrBookingNotFound
	}
	if err != nil {
		return err
	}
	return ErrConflict
}

// BookingDetail is a booking joined with course, instructor and session
// summaries for the caller's booking list.
type BookingDetail struct {
	model.Booking
	CourseTitle       string  `json:"course_title"`
	CourseLevel       string  `json:"course_level"`
	InstructorID      uint64  `json:"instructor_id"`
	InstructorName    *string `json:"instructor_name,omitempty"`
	InstructorSurname *string `json:"instructor_surname,omitempty"`
	SessionDate       string  `json:"session_date"`
	StartTime         string  `json:"start_time"`
	EndTime           string  `json:"end_time"`
	Location          *string `json:"location,omitempty"`
}

// ListByUser returns all bookings owned by the user, newest first,
// optionally filtered by exact status match.
func (r *BookingRepo) ListByUser(ctx context.Context, userID uint64, status string) ([]BookingDetail, error) {
	q := `SELECT b.id, b.user_id, b.course_id, b.course_session_id, b.amount,
	             b.payment_method, b.status, b.payment_status, b.payment_ref,
	             b.message_to_instructor, b.card_last_four, b.card_brand, b.created_at, b.paid_at,
	             co.title, co.level, co.owner_id, p.name, p.surname,
	             cs.session_date, cs.start_time, cs.end_time, cs.location
	      FROM bookings b
	      JOIN courses co ON co.id = b.course_id
	      JOIN course_sessions cs ON cs.id = b.course_session_id
	      LEFT JOIN user_profiles p ON p.user_id = co.owner_id
	      WHERE b.user_id = ?`
	args := []any{userID}
	if status != "" {
		q += " AND b.status = ?"
		args = append(args, status)
	}
	q += " ORDER BY b.created_at DESC"

	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]BookingDetail, 0)
	for rows.Next() {
		var (
			d      BookingDetail
			paidAt sql.NullTime
		)
		if err := rows.Scan(
			&d.ID, &d.UserID, &d.CourseID, &d.CourseSessionID, &d.Amount,
			&d.PaymentMethod, &d.Status, &d.PaymentStatus, &d.PaymentRef,
			&d.MessageToInstructor, &d.CardLastFour, &d.CardBrand, &d.CreatedAt, &paidAt,
			&d.CourseTitle, &d.CourseLevel, &d.InstructorID, &d.InstructorName, &d.InstructorSurname,
			&d.SessionDate, &d.StartTime, &d.EndTime, &d.Location); err != nil {
			return nil, err
		}
		if paidAt.Valid {
			t := paidAt.Time
			d.PaidAt = &t
		}
		out = append(out, d)
	}
	return out, rows.Err()
}

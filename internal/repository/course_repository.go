package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/isazadesabuhi/studxus-backend/internal/model"
)

// CourseRepo manages persistence for course listings.
type CourseRepo struct{ db *sql.DB }

func NewCourseRepo(db *sql.DB) *CourseRepo { return &CourseRepo{db: db} }

// DB exposes the underlying sql.DB. It allows callers to begin transactions
// spanning multiple repositories.
func (r *CourseRepo) DB() *sql.DB { return r.db }

const courseCols = `id, owner_id, title, description, category, level,
       price_per_hour, max_participants, created_at, updated_at`

// Create inserts a new course and populates generated fields (ID, level
// default, timestamps) on the given record.
func (r *CourseRepo) Create(ctx context.Context, c *model.Course) error {
	const q = `INSERT INTO courses (owner_id, title, description, category, level, price_per_hour, max_participants)
	           VALUES (?, ?, ?, ?, ?, ?, ?)`
	res, err := r.db.ExecContext(ctx, q,
		c.OwnerID, c.Title, c.Description, c.Category, c.Level, c.PricePerHour, c.MaxParticipants)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	c.ID = uint64(id)
	const sel = `SELECT ` + courseCols + ` FROM courses WHERE id = ?`
	return r.db.QueryRowContext(ctx, sel, c.ID).Scan(
		&c.ID, &c.OwnerID, &c.Title, &c.Description, &c.Category, &c.Level,
		&c.PricePerHour, &c.MaxParticipants, &c.CreatedAt, &c.UpdatedAt)
}

// GetByID returns a course by primary key or ErrCourseNotFound.
func (r *CourseRepo) GetByID(ctx context.Context, id uint64) (model.Course, error) {
	const q = `SELECT ` + courseCols + ` FROM courses WHERE id = ?`
	var c model.Course
	err := r.db.QueryRowContext(ctx, q, id).Scan(
		&c.ID, &c.OwnerID, &c.Title, &c.Description, &c.Category, &c.Level,
		&c.PricePerHour, &c.MaxParticipants, &c.CreatedAt, &c.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return c, ErrCourseNotFound
	}
	return c, err
}

// CourseFilter narrows the public course listing. Zero values mean "no
// filter" for that field.
type CourseFilter struct {
	OwnerID  uint64
	Category string
	Level    string
}

// List returns courses matching the filter, newest first.
func (r *CourseRepo) List(ctx context.Context, f CourseFilter) ([]model.Course, error) {
	where := []string{}
	args := []any{}
	if f.OwnerID != 0 {
		where = append(where, "owner_id = ?")
		args = append(args, f.OwnerID)
	}
	if f.Category != "" {
		where = append(where, "category = ?")
		args = append(args, f.Category)
	}
	if f.Level != "" {
		where = append(where, "level = ?")
		args = append(args, f.Level)
	}
	q := `SELECT ` + courseCols + ` FROM courses`
	if len(where) > 0 {
		q += " WHERE " + strings.Join(where, " AND ")
	}
	q += " ORDER BY created_at DESC"

	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]model.Course, 0)
	for rows.Next() {
		var c model.Course
		if err := rows.Scan(
			&c.ID, &c.OwnerID, &c.Title, &c.Description, &c.Category, &c.Level,
			&c.PricePerHour, &c.MaxParticipants, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

// CourseUpdate carries the mutable course fields for a partial update. Nil
// pointers leave the stored value untouched.
type CourseUpdate struct {
	Title           *string
	Description     *string
	Category        *string
	Level           *string
	PricePerHour    *float64
	MaxParticipants *uint32
}

// Update applies a partial update to a course owned by ownerID. It returns
// ErrCourseNotFound when the course does not exist and ErrForbidden when it
// belongs to someone else. The updated course is returned.
func (r *CourseRepo) Update(ctx context.Context, id, ownerID uint64, u CourseUpdate) (model.Course, error) {
	existing, err := r.GetByID(ctx, id)
	if err != nil {
		return model.Course{}, err
	}
	if existing.OwnerID != ownerID {
		return model.Course{}, ErrForbidden
	}

	set := []string{}
	args := []any{}
	if u.Title != nil {
		set = append(set, "title = ?")
		args = append(args, *u.Title)
	}
	if u.Description != nil {
		set = append(set, "description = ?")
		args = append(args, *u.Description)
	}
	if u.Category != nil {
		set = append(set, "category = ?")
		args = append(args, *u.Category)
	}
	if u.Level != nil {
		set = append(set, "level = ?")
		args = append(args, *u.Level)
	}
	if u.PricePerHour != nil {
		set = append(set, "price_per_hour = ?")
		args = append(args, *u.PricePerHour)
	}
	if u.MaxParticipants != nil {
		set = append(set, "max_participants = ?")
		args = append(args, *u.MaxParticipants)
	}
	if len(set) > 0 {
		set = append(set, "updated_at = ?")
		args = append(args, time.Now().UTC())
		args = append(args, id)
		q := "UPDATE courses SET " + strings.Join(set, ", ") + " WHERE id = ?"
		if _, err := r.db.ExecContext(ctx, q, args...); err != nil {
			return model.Course{}, err
		}
	}
	return r.GetByID(ctx, id)
}

// Delete removes a course owned by ownerID. Sessions cascade away via FK.
// Deletion is refused with ErrConflict while any session of the course still
// holds an active (pending or paid) booking.
func (r *CourseRepo) Delete(ctx context.Context, id, ownerID uint64) error {
	existing, err := r.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if existing.OwnerID != ownerID {
		return ErrForbidden
	}
	var active int64
	const cnt = `SELECT COUNT(*) FROM bookings
	             WHERE course_id = ? AND status IN (?, ?)`
	if err := r.db.QueryRowContext(ctx, cnt, id, model.BookingPending, model.BookingPaid).Scan(&active); err != nil {
		return err
	}
	if active > 0 {
		return ErrConflict
	}
	_, err = r.db.ExecContext(ctx, `DELETE FROM courses WHERE id = ?`, id)
	return err
}

// InstructorSummary is the public slice of an instructor's identity shown on
// course detail pages.
type InstructorSummary struct {
	ID      uint64  `json:"id"`
	Name    *string `json:"name,omitempty"`
	Surname *string `json:"surname,omitempty"`
	City    *string `json:"city,omitempty"`
	Country *string `json:"country,omitempty"`
}

// GetInstructor returns the public profile summary of a course owner. Missing
// profile rows yield a summary carrying only the user ID.
func (r *CourseRepo) GetInstructor(ctx context.Context, ownerID uint64) (InstructorSummary, error) {
	const q = `SELECT u.id, p.name, p.surname, p.city, p.country
	           FROM users u
	           LEFT JOIN user_profiles p ON p.user_id = u.id
	           WHERE u.id = ?`
	var s InstructorSummary
	err := r.db.QueryRowContext(ctx, q, ownerID).Scan(&s.ID, &s.Name, &s.Surname, &s.City, &s.Country)
	if errors.Is(err, sql.ErrNoRows) {
		return s, ErrUserNotFound
	}
	return s, err
}

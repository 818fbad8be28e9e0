package repository

import (
	"context"
	"strings"
)

// CourseSearchQuery defines filters & pagination for searching courses.
type CourseSearchQuery struct {
	Text     string // matches against the course title
	Category string
	Level    string
	City     string // matches against the instructor's profile city
	Page     int
	PageSize int
}

// PublicCourseRow is a search hit: the course joined with its instructor's
// public identity.
type PublicCourseRow struct {
	ID              uint64  `json:"id"`
	Title           string  `json:"title"`
	Category        *string `json:"category,omitempty"`
	Level           string  `json:"level"`
	PricePerHour    float64 `json:"price_per_hour"`
	MaxParticipants uint32  `json:"max_participants"`
	InstructorID    uint64  `json:"instructor_id"`
	InstructorName  *string `json:"instructor_name,omitempty"`
	City            *string `json:"city,omitempty"`
}

// Search returns courses matching the query plus the total hit count for
// pagination. Text, category, level and city filters combine with AND.
func (r *CourseRepo) Search(ctx context.Context, q CourseSearchQuery) ([]PublicCourseRow, int64, error) {
	where := []string{}
	args := []any{}

	if q.Text != "" {
		where = append(where, "LOWER(co.title) LIKE ?")
		args = append(args, "%"+strings.ToLower(q.Text)+"%")
	}
	if q.Category != "" {
		where = append(where, "co.category = ?")
		args = append(args, q.Category)
	}
	if q.Level != "" {
		where = append(where, "co.level = ?")
		args = append(args, q.Level)
	}
	if q.City != "" {
		where = append(where, "LOWER(p.city) LIKE ?")
		args = append(args, "%"+strings.ToLower(q.City)+"%")
	}

	cond := "1=1"
	if len(where) > 0 {
		cond = strings.Join(where, " AND ")
	}

	var total int64
	countSQL := `SELECT COUNT(*)
		FROM courses co
		LEFT JOIN user_profiles p ON p.user_id = co.owner_id
		WHERE ` + cond
	if err := r.db.QueryRowContext(ctx, countSQL, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	if q.Page < 1 {
		q.Page = 1
	}
	if q.PageSize < 1 || q.PageSize > 100 {
		q.PageSize = 20
	}
	limit := q.PageSize
	offset := (q.Page - 1) * q.PageSize

	dataSQL := `SELECT
			co.id,
			co.title,
			co.category,
			co.level,
			co.price_per_hour,
			co.max_participants,
			co.owner_id,
			p.name,
			p.city
		FROM courses co
		LEFT JOIN user_profiles p ON p.user_id = co.owner_id
		WHERE ` + cond + `
		ORDER BY co.created_at DESC
		LIMIT ? OFFSET ?`

	argsData := append(append([]any{}, args...), limit, offset)

	rows, err := r.db.QueryContext(ctx, dataSQL, argsData...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	out := make([]PublicCourseRow, 0, limit)
	for rows.Next() {
		var row PublicCourseRow
		if err := rows.Scan(
			&row.ID, &row.Title, &row.Category, &row.Level,
			&row.PricePerHour, &row.MaxParticipants,
			&row.InstructorID, &row.InstructorName, &row.City); err != nil {
			return nil, 0, err
		}
		out = append(out, row)
	}
	return out, total, rows.Err()
}

package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	"github.com/isazadesabuhi/studxus-backend/internal/model"
)

// ProfileRepo persists the typed per-user profile record. Interests are
// stored as a JSON array in a TEXT column.
type ProfileRepo struct{ db *sql.DB }

func NewProfileRepo(db *sql.DB) *ProfileRepo { return &ProfileRepo{db: db} }

const profileCols = `user_id, name, surname, user_type, address, city, country,
       latitude, longitude, postal_code, interests, created_at, updated_at`

// Get loads the profile for the given user. It returns sql.ErrNoRows when no
// profile row exists yet.
func (r *ProfileRepo) Get(ctx context.Context, userID uint64) (model.Profile, error) {
	const q = `SELECT ` + profileCols + ` FROM user_profiles WHERE user_id = ?`
	return scanProfile(r.db.QueryRowContext(ctx, q, userID))
}

// Save writes the full profile row, inserting it when absent. Callers are
// expected to have merged incoming fields onto the stored profile first, so
// Save always receives the complete record.
func (r *ProfileRepo) Save(ctx context.Context, p model.Profile) error {
	interests, err := encodeInterests(p.Interests)
	if err != nil {
		return err
	}
	now := time.Now().UTC()
	const upd = `UPDATE user_profiles
	             SET name=?, surname=?, user_type=?, address=?, city=?, country=?,
	                 latitude=?, longitude=?, postal_code=?, interests=?, updated_at=?
	             WHERE user_id=?`
	res, err := r.db.ExecContext(ctx, upd,
		p.Name, p.Surname, p.UserType, p.Address, p.City, p.Country,
		p.Latitude, p.Longitude, p.PostalCode, interests, now, p.UserID)
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
	const ins = `INSERT INTO user_profiles
	             (user_id, name, surname, user_type, address, city, country,
	              latitude, longitude, postal_code, interests)
	             VALUES (?,?,?,?,?,?,?,?,?,?,?)`
	_, err = r.db.ExecContext(ctx, ins,
		p.UserID, p.Name, p.Surname, p.UserType, p.Address, p.City, p.Country,
		p.Latitude, p.Longitude, p.PostalCode, interests)
	if isDuplicateKey(err) {
		// Lost a race with a concurrent insert; retry as plain update.
		_, err = r.db.ExecContext(ctx, upd,
			p.Name, p.Surname, p.UserType, p.Address, p.City, p.Country,
			p.Latitude, p.Longitude, p.PostalCode, interests, now, p.UserID)
	}
	return err
}

// rowScanner matches both *sql.Row and *sql.Rows.
type rowScanner interface{ Scan(dest ...any) error }

func scanProfile(row rowScanner) (model.Profile, error) {
	var (
		p         model.Profile
		interests sql.NullString
	)
	err := row.Scan(&p.UserID, &p.Name, &p.Surname, &p.UserType, &p.Address,
		&p.City, &p.Country, &p.Latitude, &p.Longitude, &p.PostalCode,
		&interests, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return model.Profile{}, err
	}
	if interests.Valid && interests.String != "" {
		if err := json.Unmarshal([]byte(interests.String), &p.Interests); err != nil {
			return model.Profile{}, err
		}
	}
	return p, nil
}

func encodeInterests(in []string) (*string, error) {
	if in == nil {
		return nil, nil
	}
	b, err := json.Marshal(in)
	if err != nil {
		return nil, err
	}
	s := string(b)
	return &s, nil
}

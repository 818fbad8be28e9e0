package repository

import (
	"context"
	"database/sql"
	"testing"

	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/require"

	"github.com/isazadesabuhi/studxus-backend/internal/model"
)

// testSchema mirrors the MySQL migrations closely enough for the repository
// SQL, which deliberately avoids engine-specific functions so the suite can
// run on an in-memory SQLite database.
const testSchema = `
CREATE TABLE users (
    id            INTEGER PRIMARY KEY AUTOINCREMENT,
    email         TEXT NOT NULL UNIQUE,
    password_hash TEXT NOT NULL,
    role          TEXT NOT NULL,
    is_active     BOOLEAN NOT NULL DEFAULT 1,
    created_at    DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
    updated_at    DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE refresh_tokens (
    id         INTEGER PRIMARY KEY AUTOINCREMENT,
    user_id    INTEGER NOT NULL REFERENCES users(id) ON DELETE CASCADE,
    token_hash TEXT NOT NULL UNIQUE,
    expires_at DATETIME NOT NULL,
    revoked_at DATETIME,
    created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE user_profiles (
    user_id     INTEGER PRIMARY KEY REFERENCES users(id) ON DELETE CASCADE,
    name        TEXT,
    surname     TEXT,
    user_type   TEXT,
    address     TEXT,
    city        TEXT,
    country     TEXT,
    latitude    REAL,
    longitude   REAL,
    postal_code TEXT,
    interests   TEXT,
    created_at  DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
    updated_at  DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE courses (
    id               INTEGER PRIMARY KEY AUTOINCREMENT,
    owner_id         INTEGER NOT NULL REFERENCES users(id) ON DELETE CASCADE,
    title            TEXT NOT NULL,
    description      TEXT,
    category         TEXT,
    level            TEXT NOT NULL DEFAULT 'Tous niveaux',
    price_per_hour   REAL NOT NULL,
    max_participants INTEGER NOT NULL DEFAULT 5,
    created_at       DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
    updated_at       DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE course_sessions (
    id                   INTEGER PRIMARY KEY AUTOINCREMENT,
    course_id            INTEGER NOT NULL REFERENCES courses(id) ON DELETE CASCADE,
    session_date         TEXT NOT NULL,
    start_time           TEXT NOT NULL,
    end_time             TEXT NOT NULL,
    max_participants     INTEGER NOT NULL DEFAULT 5,
    current_participants INTEGER NOT NULL DEFAULT 0,
    location             TEXT,
    created_at           DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
    updated_at           DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE bookings (
    id                    INTEGER PRIMARY KEY AUTOINCREMENT,
    user_id               INTEGER NOT NULL REFERENCES users(id) ON DELETE CASCADE,
    course_id             INTEGER NOT NULL REFERENCES courses(id) ON DELETE CASCADE,
    course_session_id     INTEGER NOT NULL REFERENCES course_sessions(id) ON DELETE CASCADE,
    amount                REAL NOT NULL,
    payment_method        TEXT,
    status                TEXT NOT NULL DEFAULT 'pending',
    payment_status        TEXT NOT NULL DEFAULT 'pending',
    payment_ref           TEXT,
    message_to_instructor TEXT,
    card_last_four        TEXT,
    card_brand            TEXT,
    created_at            DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
    paid_at               DATETIME
);

CREATE TABLE conversations (
    id              INTEGER PRIMARY KEY AUTOINCREMENT,
    user_a_id       INTEGER NOT NULL REFERENCES users(id) ON DELETE CASCADE,
    user_b_id       INTEGER NOT NULL REFERENCES users(id) ON DELETE CASCADE,
    created_at      DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
    last_message_at DATETIME,
    UNIQUE (user_a_id, user_b_id)
);

CREATE TABLE messages (
    id              INTEGER PRIMARY KEY AUTOINCREMENT,
    conversation_id INTEGER NOT NULL REFERENCES conversations(id) ON DELETE CASCADE,
    sender_id       INTEGER NOT NULL REFERENCES users(id) ON DELETE CASCADE,
    recipient_id    INTEGER NOT NULL REFERENCES users(id) ON DELETE CASCADE,
    message         TEXT NOT NULL,
    subject         TEXT,
    is_read         BOOLEAN NOT NULL DEFAULT 0,
    created_at      DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);
`

// openTestDB returns an in-memory database with the full schema applied.
func openTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite3", "file::memory:?_fk=1")
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	_, err = db.Exec(testSchema)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db
}

// seedUser inserts a user directly and returns its ID.
func seedUser(t *testing.T, db *sql.DB, email, role string) uint64 {
	t.Helper()
	res, err := db.Exec(
		`INSERT INTO users (email, password_hash, role) VALUES (?, ?, ?)`,
		email, "x", role)
	require.NoError(t, err)
	id, err := res.LastInsertId()
	require.NoError(t, err)
	return uint64(id)
}

// seedCourse inserts a course owned by ownerID and returns the record.
func seedCourse(t *testing.T, db *sql.DB, ownerID uint64, title string) model.Course {
	t.Helper()
	repo := NewCourseRepo(db)
	c := model.Course{
		OwnerID:         ownerID,
		Title:           title,
		Level:           model.LevelAll,
		PricePerHour:    25,
		MaxParticipants: 5,
	}
	require.NoError(t, repo.Create(context.Background(), &c))
	return c
}

// seedSession inserts a session with the given capacity and returns it.
func seedSession(t *testing.T, db *sql.DB, courseID uint64, maxParticipants uint32) model.CourseSession {
	t.Helper()
	repo := NewSessionRepo(db)
	s := model.CourseSession{
		CourseID:        courseID,
		SessionDate:     "2031-06-15",
		StartTime:       "10:00",
		EndTime:         "12:00",
		MaxParticipants: maxParticipants,
	}
	require.NoError(t, repo.Create(context.Background(), &s))
	return s
}

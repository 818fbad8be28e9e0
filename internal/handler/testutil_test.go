package handler

import (
	"context"
	"database/sql"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/require"

	"github.com/isazadesabuhi/studxus-backend/internal/model"
	"github.com/isazadesabuhi/studxus-backend/internal/repository"
	"github.com/isazadesabuhi/studxus-backend/internal/validation"
)

// handlerTestSchema is the SQLite rendition of the migrations, enough for
// exercising handlers end to end against a real database.
const handlerTestSchema = `
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

func openTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite3", "file::memory:?_fk=1")
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	_, err = db.Exec(handlerTestSchema)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func newEcho() *echo.Echo {
	e := echo.New()
	e.Validator = validation.New()
	return e
}

// call invokes a handler directly with a JSON body, an authenticated user
// (userID 0 leaves the context anonymous) and optional path parameters.
func call(t *testing.T, e *echo.Echo, h echo.HandlerFunc, method, target, body string, userID uint64, params map[string]string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	if userID != 0 {
		c.Set("user_id", userID)
		c.Set("role", model.RoleStudent)
	}
	if len(params) > 0 {
		names := make([]string, 0, len(params))
		values := make([]string, 0, len(params))
		for k, v := range params {
			names = append(names, k)
			values = append(values, v)
		}
		c.SetParamNames(names...)
		c.SetParamValues(values...)
	}
	require.NoError(t, h(c))
	return rec
}

func seedUser(t *testing.T, db *sql.DB, email, role string) uint64 {
	t.Helper()
	res, err := db.Exec(`INSERT INTO users (email, password_hash, role) VALUES (?, ?, ?)`, email, "x", role)
	require.NoError(t, err)
	id, err := res.LastInsertId()
	require.NoError(t, err)
	return uint64(id)
}

func seedCourse(t *testing.T, db *sql.DB, ownerID uint64, title string) model.Course {
	t.Helper()
	c := model.Course{
		OwnerID:         ownerID,
		Title:           title,
		Level:           model.LevelAll,
		PricePerHour:    20,
		MaxParticipants: 5,
	}
	require.NoError(t, repository.NewCourseRepo(db).Create(context.Background(), &c))
	return c
}

func seedSession(t *testing.T, db *sql.DB, courseID uint64, maxParticipants uint32) model.CourseSession {
	t.Helper()
	s := model.CourseSession{
		CourseID:        courseID,
		SessionDate:     "2031-06-15",
		StartTime:       "10:00",
		EndTime:         "12:00",
		MaxParticipants: maxParticipants,
	}
	require.NoError(t, repository.NewSessionRepo(db).Create(context.Background(), &s))
	return s
}

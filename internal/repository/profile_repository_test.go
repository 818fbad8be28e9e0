package repository

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/isazadesabuhi/studxus-backend/internal/model"
)

func strPtr(s string) *string { return &s }

func TestProfileSaveInsertsThenUpdates(t *testing.T) {
	db := openTestDB(t)
	uid := seedUser(t, db, "marie@example.com", model.RoleInstructor)

	repo := NewProfileRepo(db)
	ctx := context.Background()

	_, err := repo.Get(ctx, uid)
	assert.ErrorIs(t, err, sql.ErrNoRows)

	p := model.Profile{
		UserID:    uid,
		Name:      strPtr("Marie"),
		UserType:  strPtr(model.UserTypeInstructor),
		City:      strPtr("Lyon"),
		Interests: []string{"musique", "cuisine"},
	}
	require.NoError(t, repo.Save(ctx, p))

	got, err := repo.Get(ctx, uid)
	require.NoError(t, err)
	require.NotNil(t, got.Name)
	assert.Equal(t, "Marie", *got.Name)
	assert.Equal(t, []string{"musique", "cuisine"}, got.Interests)
	assert.Nil(t, got.Surname)

	// second save overwrites the full row
	p.City = strPtr("Paris")
	p.Surname = strPtr("Dubois")
	require.NoError(t, repo.Save(ctx, p))

	got, err = repo.Get(ctx, uid)
	require.NoError(t, err)
	assert.Equal(t, "Paris", *got.City)
	assert.Equal(t, "Dubois", *got.Surname)
	assert.Equal(t, "Marie", *got.Name)
}

func TestProfileInterestsRoundTrip(t *testing.T) {
	db := openTestDB(t)
	uid := seedUser(t, db, "paul@example.com", model.RoleStudent)

	repo := NewProfileRepo(db)
	ctx := context.Background()

	require.NoError(t, repo.Save(ctx, model.Profile{UserID: uid}))
	got, err := repo.Get(ctx, uid)
	require.NoError(t, err)
	assert.Nil(t, got.Interests)

	require.NoError(t, repo.Save(ctx, model.Profile{UserID: uid, Interests: []string{}}))
	got, err = repo.Get(ctx, uid)
	require.NoError(t, err)
	assert.Empty(t, got.Interests)
}

func TestUserRepoDuplicateEmail(t *testing.T) {
	db := openTestDB(t)
	repo := NewUserRepo(db)
	ctx := context.Background()

	_, err := repo.Create(ctx, "dup@example.com", "password123", model.RoleStudent, 4)
	require.NoError(t, err)

	_, err = repo.Create(ctx, "DUP@example.com", "password123", model.RoleStudent, 4)
	assert.ErrorIs(t, err, ErrEmailExists)
}

func TestCourseDeleteRefusedWithActiveBookings(t *testing.T) {
	db := openTestDB(t)
	owner := seedUser(t, db, "prof@example.com", model.RoleInstructor)
	student := seedUser(t, db, "etu@example.com", model.RoleStudent)
	course := seedCourse(t, db, owner, "Chant")
	session := seedSession(t, db, course.ID, 5)

	courses := NewCourseRepo(db)
	bookings := NewBookingRepo(db)
	ctx := context.Background()

	makeBooking(t, bookings, student, course, session)

	err := courses.Delete(ctx, course.ID, owner)
	assert.ErrorIs(t, err, ErrConflict)

	// non-owner cannot delete regardless of bookings
	err = courses.Delete(ctx, course.ID, student)
	assert.ErrorIs(t, err, ErrForbidden)
}

func TestCourseUpdateOwnershipAndPartialFields(t *testing.T) {
	db := openTestDB(t)
	owner := seedUser(t, db, "prof@example.com", model.RoleInstructor)
	other := seedUser(t, db, "autre@example.com", model.RoleStudent)
	course := seedCourse(t, db, owner, "Italien")

	courses := NewCourseRepo(db)
	ctx := context.Background()

	_, err := courses.Update(ctx, course.ID, other, CourseUpdate{Title: strPtr("Hacked")})
	assert.ErrorIs(t, err, ErrForbidden)

	got, err := courses.GetByID(ctx, course.ID)
	require.NoError(t, err)
	assert.Equal(t, "Italien", got.Title)

	newPrice := 30.0
	updated, err := courses.Update(ctx, course.ID, owner, CourseUpdate{PricePerHour: &newPrice})
	require.NoError(t, err)
	assert.Equal(t, 30.0, updated.PricePerHour)
	assert.Equal(t, "Italien", updated.Title)
}

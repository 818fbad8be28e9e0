package repository

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/isazadesabuhi/studxus-backend/internal/model"
)

func makeBooking(t *testing.T, repo *BookingRepo, userID uint64, c model.Course, s model.CourseSession) model.Booking {
	t.Helper()
	b := model.Booking{
		UserID:          userID,
		CourseID:        c.ID,
		CourseSessionID: s.ID,
		Amount:          50,
		Status:          model.BookingPending,
		PaymentStatus:   model.PaymentPending,
	}
	require.NoError(t, repo.Create(context.Background(), &b))
	return b
}

// confirm runs the paid-update and counter-increment in one transaction the
// way the handler does.
func confirm(t *testing.T, bookings *BookingRepo, sessions *SessionRepo, b model.Booking) error {
	t.Helper()
	ctx := context.Background()
	tx, err := bookings.DB().BeginTx(ctx, nil)
	require.NoError(t, err)
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()
	if err := bookings.MarkPaidTx(ctx, tx, b.ID, b.UserID, "PAY-test", time.Now().UTC()); err != nil {
		return err
	}
	if err := sessions.IncrementParticipantsTx(ctx, tx, b.CourseSessionID); err != nil {
		return err
	}
	require.NoError(t, tx.Commit())
	committed = true
	return nil
}

func TestBookingCreateAndReload(t *testing.T) {
	db := openTestDB(t)
	owner := seedUser(t, db, "prof@example.com", model.RoleInstructor)
	student := seedUser(t, db, "etu@example.com", model.RoleStudent)
	course := seedCourse(t, db, owner, "Guitare pour tous")
	session := seedSession(t, db, course.ID, 5)

	repo := NewBookingRepo(db)
	b := makeBooking(t, repo, student, course, session)

	assert.NotZero(t, b.ID)
	assert.Equal(t, model.BookingPending, b.Status)
	assert.Equal(t, model.PaymentPending, b.PaymentStatus)
	assert.Nil(t, b.PaidAt)
	assert.False(t, b.CreatedAt.IsZero())
}

func TestBookingHasActive(t *testing.T) {
	db := openTestDB(t)
	owner := seedUser(t, db, "prof@example.com", model.RoleInstructor)
	student := seedUser(t, db, "etu@example.com", model.RoleStudent)
	course := seedCourse(t, db, owner, "Yoga")
	session := seedSession(t, db, course.ID, 5)

	repo := NewBookingRepo(db)
	ctx := context.Background()

	dup, err := repo.HasActive(ctx, student, session.ID)
	require.NoError(t, err)
	assert.False(t, dup)

	makeBooking(t, repo, student, course, session)

	dup, err = repo.HasActive(ctx, student, session.ID)
	require.NoError(t, err)
	assert.True(t, dup)
}

func TestBookingGetByIDForUserHidesForeignBookings(t *testing.T) {
	db := openTestDB(t)
	owner := seedUser(t, db, "prof@example.com", model.RoleInstructor)
	student := seedUser(t, db, "etu@example.com", model.RoleStudent)
	other := seedUser(t, db, "autre@example.com", model.RoleStudent)
	course := seedCourse(t, db, owner, "Peinture")
	session := seedSession(t, db, course.ID, 5)

	repo := NewBookingRepo(db)
	b := makeBooking(t, repo, student, course, session)

	_, err := repo.GetByIDForUser(context.Background(), b.ID, other)
	assert.ErrorIs(t, err, ErrBookingNotFound)

	got, err := repo.GetByIDForUser(context.Background(), b.ID, student)
	require.NoError(t, err)
	assert.Equal(t, b.ID, got.ID)
}

func TestConfirmIncrementsCounterOnce(t *testing.T) {
	db := openTestDB(t)
	owner := seedUser(t, db, "prof@example.com", model.RoleInstructor)
	student := seedUser(t, db, "etu@example.com", model.RoleStudent)
	course := seedCourse(t, db, owner, "Cuisine")
	session := seedSession(t, db, course.ID, 3)

	bookings := NewBookingRepo(db)
	sessions := NewSessionRepo(db)
	b := makeBooking(t, bookings, student, course, session)

	require.NoError(t, confirm(t, bookings, sessions, b))

	got, err := bookings.GetByIDForUser(context.Background(), b.ID, student)
	require.NoError(t, err)
	assert.Equal(t, model.BookingPaid, got.Status)
	assert.Equal(t, model.PaymentCompleted, got.PaymentStatus)
	require.NotNil(t, got.PaidAt)

	s, err := sessions.GetByID(context.Background(), session.ID)
	require.NoError(t, err)
	assert.Equal(t, uint32(1), s.CurrentParticipants)

	// a second confirm of the same booking is rejected and the counter
	// does not move again
	err = confirm(t, bookings, sessions, b)
	assert.ErrorIs(t, err, ErrConflict)
	s, err = sessions.GetByID(context.Background(), session.ID)
	require.NoError(t, err)
	assert.Equal(t, uint32(1), s.CurrentParticipants)
}

func TestConfirmAtCapacityRollsBackEverything(t *testing.T) {
	db := openTestDB(t)
	owner := seedUser(t, db, "prof@example.com", model.RoleInstructor)
	u1 := seedUser(t, db, "u1@example.com", model.RoleStudent)
	u2 := seedUser(t, db, "u2@example.com", model.RoleStudent)
	course := seedCourse(t, db, owner, "Escalade")
	session := seedSession(t, db, course.ID, 1)

	bookings := NewBookingRepo(db)
	sessions := NewSessionRepo(db)

	b1 := makeBooking(t, bookings, u1, course, session)
	b2 := makeBooking(t, bookings, u2, course, session)

	require.NoError(t, confirm(t, bookings, sessions, b1))

	// the second confirmation hits the full session: the whole transaction
	// rolls back, so the booking must still be pending
	err := confirm(t, bookings, sessions, b2)
	assert.ErrorIs(t, err, ErrSessionFull)

	got, err := bookings.GetByIDForUser(context.Background(), b2.ID, u2)
	require.NoError(t, err)
	assert.Equal(t, model.BookingPending, got.Status)
	assert.Nil(t, got.PaidAt)

	s, err := sessions.GetByID(context.Background(), session.ID)
	require.NoError(t, err)
	assert.Equal(t, uint32(1), s.CurrentParticipants)
}

func TestIncrementParticipantsStopsAtCeiling(t *testing.T) {
	db := openTestDB(t)
	owner := seedUser(t, db, "prof@example.com", model.RoleInstructor)
	course := seedCourse(t, db, owner, "Danse")
	session := seedSession(t, db, course.ID, 2)

	sessions := NewSessionRepo(db)
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		tx, err := db.BeginTx(ctx, nil)
		require.NoError(t, err)
		require.NoError(t, sessions.IncrementParticipantsTx(ctx, tx, session.ID))
		require.NoError(t, tx.Commit())
	}

	tx, err := db.BeginTx(ctx, nil)
	require.NoError(t, err)
	err = sessions.IncrementParticipantsTx(ctx, tx, session.ID)
	assert.ErrorIs(t, err, ErrSessionFull)
	_ = tx.Rollback()

	s, err := sessions.GetByID(ctx, session.ID)
	require.NoError(t, err)
	assert.Equal(t, uint32(2), s.CurrentParticipants)
}

func TestListByUserJoinsAndFilters(t *testing.T) {
	db := openTestDB(t)
	owner := seedUser(t, db, "prof@example.com", model.RoleInstructor)
	student := seedUser(t, db, "etu@example.com", model.RoleStudent)
	course := seedCourse(t, db, owner, "Photographie")
	s1 := seedSession(t, db, course.ID, 5)
	s2 := seedSession(t, db, course.ID, 5)

	bookings := NewBookingRepo(db)
	sessions := NewSessionRepo(db)
	b1 := makeBooking(t, bookings, student, course, s1)
	makeBooking(t, bookings, student, course, s2)
	require.NoError(t, confirm(t, bookings, sessions, b1))

	all, err := bookings.ListByUser(context.Background(), student, "")
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "Photographie", all[0].CourseTitle)
	assert.Equal(t, owner, all[0].InstructorID)

	paid, err := bookings.ListByUser(context.Background(), student, model.BookingPaid)
	require.NoError(t, err)
	require.Len(t, paid, 1)
	assert.Equal(t, b1.ID, paid[0].ID)
}

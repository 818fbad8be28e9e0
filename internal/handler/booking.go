package handler

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/isazadesabuhi/studxus-backend/internal/model"
	"github.com/isazadesabuhi/studxus-backend/internal/queue"
	"github.com/isazadesabuhi/studxus-backend/internal/repository"
	queue_publisher "github.com/isazadesabuhi/studxus-backend/internal/service"
)

// BookingHandler turns session-reservation requests into durable,
// capacity-respecting booking records. Creation only validates and inserts a
// pending row; the participant counter moves on confirmation, inside one
// transaction with the status change, so a paid booking and its seat always
// appear together.
type BookingHandler struct {
	Bookings *repository.BookingRepo
	Courses  *repository.CourseRepo
	Sessions *repository.SessionRepo
	Log      zerolog.Logger
}

func NewBookingHandler(b *repository.BookingRepo, co *repository.CourseRepo, s *repository.SessionRepo, log zerolog.Logger) *BookingHandler {
	if b == nil || co == nil || s == nil {
		panic("nil repository passed to NewBookingHandler")
	}
	return &BookingHandler{Bookings: b, Courses: co, Sessions: s, Log: log}
}

type createBookingReq struct {
	CourseID            uint64  `json:"course_id" validate:"required"`
	CourseSessionID     uint64  `json:"course_session_id" validate:"required"`
	Amount              float64 `json:"amount" validate:"gte=0"`
	PaymentMethod       *string `json:"payment_method,omitempty"`
	MessageToInstructor *string `json:"message_to_instructor,omitempty"`
	CardLastFour        *string `json:"card_last_four,omitempty" validate:"omitempty,len=4,numeric"`
	CardBrand           *string `json:"card_brand,omitempty"`
}

// CreateBooking handles POST /v1/bookings. The checks run fail-fast in a
// fixed order; the insert happens only after every check passes, so no
// partial booking state is left behind by a rejected request.
func (h *BookingHandler) CreateBooking(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	var req createBookingReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body", "details": err.Error()})
	}
	if req.PaymentMethod != nil && !model.ValidPaymentMethod(*req.PaymentMethod) {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid payment_method"})
	}

	ctx := c.Request().Context()

	course, err := h.Courses.GetByID(ctx, req.CourseID)
	if err != nil {
		if errors.Is(err, repository.ErrCourseNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "course not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	if course.OwnerID == userID {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "cannot book your own course"})
	}

	session, err := h.Sessions.GetByID(ctx, req.CourseSessionID)
	if err != nil {
		if errors.Is(err, repository.ErrSessionNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "session not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	if session.CourseID != course.ID {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "session not found"})
	}
	if session.CurrentParticipants >= session.MaxParticipants {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "session full"})
	}

	dup, err := h.Bookings.HasActive(ctx, userID, session.ID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	if dup {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "duplicate booking"})
	}

	// A payment method chosen up front puts the simulated payment in
	// processing; otherwise it waits as pending until confirmation.
	paymentStatus := model.PaymentPending
	if req.PaymentMethod != nil {
		paymentStatus = model.PaymentProcessing
	}
	booking := model.Booking{
		UserID:              userID,
		CourseID:            course.ID,
		CourseSessionID:     session.ID,
		Amount:              req.Amount,
		PaymentMethod:       req.PaymentMethod,
		Status:              model.BookingPending,
		PaymentStatus:       paymentStatus,
		MessageToInstructor: req.MessageToInstructor,
		CardLastFour:        req.CardLastFour,
		CardBrand:           req.CardBrand,
	}
	if err := h.Bookings.Create(ctx, &booking); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create booking failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "booking": booking})
}

// ConfirmBooking handles POST /v1/bookings/:id/confirm. The status change
// and the session counter move in one transaction: when the session filled
// up since creation, the whole confirmation rolls back and the booking
// stays pending.
func (h *BookingHandler) ConfirmBooking(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	bookingID, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid booking id"})
	}
	ctx := c.Request().Context()

	booking, err := h.Bookings.GetByIDForUser(ctx, bookingID, userID)
	if err != nil {
		if errors.Is(err, repository.ErrBookingNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "booking not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}

	ref := "PAY-" + uuid.NewString()
	paidAt := time.Now().UTC()

	tx, err := h.Bookings.DB().BeginTx(ctx, nil)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to start transaction"})
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	if err := h.Bookings.MarkPaidTx(ctx, tx, bookingID, userID, ref, paidAt); err != nil {
		switch {
		case errors.Is(err, repository.ErrBookingNotFound):
			return c.JSON(http.StatusNotFound, echo.Map{"error": "booking not found"})
		case errors.Is(err, repository.ErrConflict):
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "booking is not pending"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "confirm booking failed"})
	}
	if err := h.Sessions.IncrementParticipantsTx(ctx, tx, booking.CourseSessionID); err != nil {
		if errors.Is(err, repository.ErrSessionFull) {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "session full"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "confirm booking failed"})
	}
	if err := tx.Commit(); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "confirm booking failed"})
	}
	committed = true

	confirmed, err := h.Bookings.GetByIDForUser(ctx, bookingID, userID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}

	go h.publishPaid(confirmed)

	return c.JSON(http.StatusOK, echo.Map{"success": true, "booking": confirmed})
}

// publishPaid pushes the booking.paid event to the broker. Broker outages
// only cost the event, never the confirmation.
func (h *BookingHandler) publishPaid(b model.Booking) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	course, err := h.Courses.GetByID(ctx, b.CourseID)
	if err != nil {
		h.Log.Warn().Err(err).Uint64("booking_id", b.ID).Msg("booking event: load course failed")
		return
	}
	session, err := h.Sessions.GetByID(ctx, b.CourseSessionID)
	if err != nil {
		h.Log.Warn().Err(err).Uint64("booking_id", b.ID).Msg("booking event: load session failed")
		return
	}
	ev := queue.BookingPaidEvent{
		BookingID:    b.ID,
		UserID:       b.UserID,
		CourseID:     b.CourseID,
		SessionID:    b.CourseSessionID,
		CourseTitle:  course.Title,
		InstructorID: course.OwnerID,
		Amount:       b.Amount,
		SessionDate:  session.SessionDate,
		StartTime:    session.StartTime,
		EndTime:      session.EndTime,
	}
	if b.PaymentRef != nil {
		ev.PaymentRef = *b.PaymentRef
	}
	if b.PaidAt != nil {
		ev.PaidAt = b.PaidAt.UTC().Format(time.RFC3339)
	}
	_ = queue_publisher.PublishBookingPaid(ctx, h.Log, ev)
}

// ListBookings handles GET /v1/bookings?status=. Each booking is joined with
// its course, instructor and session summary, newest first.
func (h *BookingHandler) ListBookings(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	status := c.QueryParam("status")
	if status != "" {
		switch status {
		case model.BookingPending, model.BookingPaid, model.BookingCancelled, model.BookingCompleted:
		default:
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid status filter"})
		}
	}
	bookings, err := h.Bookings.ListByUser(c.Request().Context(), userID, status)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "bookings": bookings, "count": len(bookings)})
}

package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/isazadesabuhi/studxus-backend/internal/model"
	"github.com/isazadesabuhi/studxus-backend/internal/repository"
)

// SessionHandler manages the scheduled occurrences of a course.
type SessionHandler struct {
	Courses  *repository.CourseRepo
	Sessions *repository.SessionRepo
}

func NewSessionHandler(courses *repository.CourseRepo, sessions *repository.SessionRepo) *SessionHandler {
	if courses == nil || sessions == nil {
		panic("nil repository passed to NewSessionHandler")
	}
	return &SessionHandler{Courses: courses, Sessions: sessions}
}

type createSessionReq struct {
	SessionDate     string  `json:"session_date" validate:"required"` // 2006-01-02
	StartTime       string  `json:"start_time" validate:"required"`   // 15:04
	EndTime         string  `json:"end_time" validate:"required"`     // 15:04
	MaxParticipants uint32  `json:"max_participants" validate:"omitempty,gte=1,lte=100"`
	Location        *string `json:"location,omitempty"`
}

// CreateSession handles POST /v1/courses/:id/sessions. Only the course owner
// may schedule sessions. Capacity defaults to 5 when omitted.
func (h *SessionHandler) CreateSession(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	courseID, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid course id"})
	}
	var req createSessionReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body", "details": err.Error()})
	}
	if _, err := time.Parse("2006-01-02", req.SessionDate); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid session_date, expected YYYY-MM-DD"})
	}
	start, err := time.Parse("15:04", req.StartTime)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid start_time, expected HH:MM"})
	}
	end, err := time.Parse("15:04", req.EndTime)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid end_time, expected HH:MM"})
	}
	if !end.After(start) {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "end_time must be after start_time"})
	}
	if req.MaxParticipants == 0 {
		req.MaxParticipants = 5
	}

	ctx := c.Request().Context()
	course, err := h.Courses.GetByID(ctx, courseID)
	if err != nil {
		if errors.Is(err, repository.ErrCourseNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "course not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	if course.OwnerID != userID {
		return c.JSON(http.StatusForbidden, echo.Map{"error": "not the course owner"})
	}

	session := model.CourseSession{
		CourseID:        courseID,
		SessionDate:     req.SessionDate,
		StartTime:       req.StartTime,
		EndTime:         req.EndTime,
		MaxParticipants: req.MaxParticipants,
		Location:        req.Location,
	}
	if err := h.Sessions.Create(ctx, &session); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create session failed"})
	}
	return c.JSON(http.StatusCreated, echo.Map{"success": true, "session": session})
}

// ListSessions handles GET /v1/courses/:id/sessions: the course's upcoming
// sessions, soonest first. Past sessions are filtered out.
func (h *SessionHandler) ListSessions(c echo.Context) error {
	courseID, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid course id"})
	}
	ctx := c.Request().Context()
	if _, err := h.Courses.GetByID(ctx, courseID); err != nil {
		if errors.Is(err, repository.ErrCourseNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "course not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	today := time.Now().UTC().Format("2006-01-02")
	sessions, err := h.Sessions.ListUpcoming(ctx, courseID, today)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "sessions": sessions, "count": len(sessions)})
}

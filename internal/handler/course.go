package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/isazadesabuhi/studxus-backend/internal/model"
	"github.com/isazadesabuhi/studxus-backend/internal/repository"
)

// CourseHandler covers the owner-side course operations: create, list own,
// partial update and delete. Public browsing lives in BrowseHandler.
type CourseHandler struct {
	Courses *repository.CourseRepo
}

func NewCourseHandler(courses *repository.CourseRepo) *CourseHandler {
	if courses == nil {
		panic("nil repository passed to NewCourseHandler")
	}
	return &CourseHandler{Courses: courses}
}

type createCourseReq struct {
	Title           string  `json:"title" validate:"required,min=3,max=200"`
	Description     *string `json:"description,omitempty"`
	Category        *string `json:"category,omitempty"`
	Level           string  `json:"level"`
	PricePerHour    float64 `json:"price_per_hour" validate:"gte=0"`
	MaxParticipants uint32  `json:"max_participants" validate:"omitempty,gte=1,lte=100"`
}

type updateCourseReq struct {
	Title           *string  `json:"title,omitempty" validate:"omitempty,min=3,max=200"`
	Description     *string  `json:"description,omitempty"`
	Category        *string  `json:"category,omitempty"`
	Level           *string  `json:"level,omitempty"`
	PricePerHour    *float64 `json:"price_per_hour,omitempty" validate:"omitempty,gte=0"`
	MaxParticipants *uint32  `json:"max_participants,omitempty" validate:"omitempty,gte=1,lte=100"`
}

// CreateCourse handles POST /v1/courses. Any authenticated user may publish
// a course; the caller becomes its owner.
func (h *CourseHandler) CreateCourse(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	var req createCourseReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body", "details": err.Error()})
	}
	if req.Level == "" {
		req.Level = model.LevelAll
	}
	if !model.ValidLevel(req.Level) {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid level"})
	}
	if req.MaxParticipants == 0 {
		req.MaxParticipants = 5
	}

	course := model.Course{
		OwnerID:         userID,
		Title:           req.Title,
		Description:     req.Description,
		Category:        req.Category,
		Level:           req.Level,
		PricePerHour:    req.PricePerHour,
		MaxParticipants: req.MaxParticipants,
	}
	if err := h.Courses.Create(c.Request().Context(), &course); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create course failed"})
	}
	return c.JSON(http.StatusCreated, echo.Map{"success": true, "course": course})
}

// MyCourses handles GET /v1/my/courses: the caller's own listings, newest
// first.
func (h *CourseHandler) MyCourses(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	courses, err := h.Courses.List(c.Request().Context(), repository.CourseFilter{OwnerID: userID})
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "courses": courses, "count": len(courses)})
}

// UpdateCourse handles PATCH /v1/courses/:id. Only the owner may update;
// anyone else gets 403 regardless of what they send.
func (h *CourseHandler) UpdateCourse(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	courseID, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid course id"})
	}
	var req updateCourseReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body", "details": err.Error()})
	}
	if req.Level != nil && !model.ValidLevel(*req.Level) {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid level"})
	}

	course, err := h.Courses.Update(c.Request().Context(), courseID, userID, repository.CourseUpdate{
		Title:           req.Title,
		Description:     req.Description,
		Category:        req.Category,
		Level:           req.Level,
		PricePerHour:    req.PricePerHour,
		MaxParticipants: req.MaxParticipants,
	})
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrCourseNotFound):
			return c.JSON(http.StatusNotFound, echo.Map{"error": "course not found"})
		case errors.Is(err, repository.ErrForbidden):
			return c.JSON(http.StatusForbidden, echo.Map{"error": "not the course owner"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update course failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "course": course})
}

// DeleteCourse handles DELETE /v1/courses/:id. Deletion is refused with 409
// while any session of the course still holds an active booking; sessions
// without bookings cascade away with the course.
func (h *CourseHandler) DeleteCourse(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	courseID, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid course id"})
	}
	if err := h.Courses.Delete(c.Request().Context(), courseID, userID); err != nil {
		switch {
		case errors.Is(err, repository.ErrCourseNotFound):
			return c.JSON(http.StatusNotFound, echo.Map{"error": "course not found"})
		case errors.Is(err, repository.ErrForbidden):
			return c.JSON(http.StatusForbidden, echo.Map{"error": "not the course owner"})
		case errors.Is(err, repository.ErrConflict):
			return c.JSON(http.StatusConflict, echo.Map{"error": "course has active bookings"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "delete course failed"})
	}
	return c.NoContent(http.StatusNoContent)
}

package handler

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/isazadesabuhi/studxus-backend/internal/model"
	"github.com/isazadesabuhi/studxus-backend/internal/repository"
)

// BrowseHandler serves the public, unauthenticated browsing surface:
// course listing with filters, course detail and search.
type BrowseHandler struct {
	Courses  *repository.CourseRepo
	Sessions *repository.SessionRepo
}

func NewBrowseHandler(courses *repository.CourseRepo, sessions *repository.SessionRepo) *BrowseHandler {
	if courses == nil || sessions == nil {
		panic("nil repository passed to NewBrowseHandler")
	}
	return &BrowseHandler{Courses: courses, Sessions: sessions}
}

// ListCourses handles GET /v1/courses?user_id=&category=&level=. All query
// params are snake_case, like every other name on the API surface; user_id
// filters by course owner.
func (h *BrowseHandler) ListCourses(c echo.Context) error {
	var f repository.CourseFilter
	if s := c.QueryParam("user_id"); s != "" {
		id, err := strconv.ParseUint(s, 10, 64)
		if err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid user_id"})
		}
		f.OwnerID = id
	}
	f.Category = c.QueryParam("category")
	if lvl := c.QueryParam("level"); lvl != "" {
		if !model.ValidLevel(lvl) {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid level"})
		}
		f.Level = lvl
	}
	courses, err := h.Courses.List(c.Request().Context(), f)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "courses": courses, "count": len(courses)})
}

// CourseDetail handles GET /v1/courses/:id: the course joined with its
// instructor's public identity and upcoming sessions.
func (h *BrowseHandler) CourseDetail(c echo.Context) error {
	courseID, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid course id"})
	}
	ctx := c.Request().Context()
	course, err := h.Courses.GetByID(ctx, courseID)
	if err != nil {
		if errors.Is(err, repository.ErrCourseNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "course not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	instructor, err := h.Courses.GetInstructor(ctx, course.OwnerID)
	if err != nil && !errors.Is(err, repository.ErrUserNotFound) {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	today := time.Now().UTC().Format("2006-01-02")
	sessions, err := h.Sessions.ListUpcoming(ctx, courseID, today)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	return c.JSON(http.StatusOK, echo.Map{
		"success":    true,
		"course":     course,
		"instructor": instructor,
		"sessions":   sessions,
	})
}

// SearchCourses handles GET /v1/search/courses?q=&category=&level=&city=&page=&page_size=.
func (h *BrowseHandler) SearchCourses(c echo.Context) error {
	q := repository.CourseSearchQuery{
		Text:     c.QueryParam("q"),
		Category: c.QueryParam("category"),
		Level:    c.QueryParam("level"),
		City:     c.QueryParam("city"),
	}
	if q.Level != "" && !model.ValidLevel(q.Level) {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid level"})
	}
	if s := c.QueryParam("page"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil || n < 1 {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid page"})
		}
		q.Page = n
	}
	if s := c.QueryParam("page_size"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil || n < 1 {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid page_size"})
		}
		q.PageSize = n
	}
	results, total, err := h.Courses.Search(c.Request().Context(), q)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	if q.Page < 1 {
		q.Page = 1
	}
	if q.PageSize < 1 || q.PageSize > 100 {
		q.PageSize = 20
	}
	return c.JSON(http.StatusOK, echo.Map{
		"success":   true,
		"results":   results,
		"total":     total,
		"page":      q.Page,
		"page_size": q.PageSize,
	})
}

package handler

import (
	"database/sql"
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/isazadesabuhi/studxus-backend/internal/model"
	"github.com/isazadesabuhi/studxus-backend/internal/repository"
)

// ProfileHandler serves the caller's own profile record.
type ProfileHandler struct {
	Profiles *repository.ProfileRepo
}

func NewProfileHandler(p *repository.ProfileRepo) *ProfileHandler {
	if p == nil {
		panic("nil repository passed to NewProfileHandler")
	}
	return &ProfileHandler{Profiles: p}
}

// profileReq carries the updatable profile fields. Every field is optional;
// absent fields leave the stored value untouched (merge semantics), so a
// client can update its city without resending its interests.
type profileReq struct {
	Name       *string  `json:"name,omitempty"`
	Surname    *string  `json:"surname,omitempty"`
	UserType   *string  `json:"user_type,omitempty" validate:"omitempty,oneof=Professeur Etudiant"`
	Address    *string  `json:"address,omitempty"`
	City       *string  `json:"city,omitempty"`
	Country    *string  `json:"country,omitempty"`
	Latitude   *float64 `json:"latitude,omitempty" validate:"omitempty,gte=-90,lte=90"`
	Longitude  *float64 `json:"longitude,omitempty" validate:"omitempty,gte=-180,lte=180"`
	PostalCode *string  `json:"postal_code,omitempty"`
	Interests  []string `json:"interests,omitempty"`
}

// GetProfile handles GET /v1/profiles.
func (h *ProfileHandler) GetProfile(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	p, err := h.Profiles.Get(c.Request().Context(), userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "profile not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "profile": p})
}

// SaveProfile handles POST and PUT /v1/profiles. Both verbs behave the same:
// the stored profile (empty on first save) is merged with the request and
// written back in full.
func (h *ProfileHandler) SaveProfile(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	var req profileReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body", "details": err.Error()})
	}

	ctx := c.Request().Context()
	p, err := h.Profiles.Get(ctx, userID)
	if err != nil {
		if !errors.Is(err, sql.ErrNoRows) {
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
		}
		p = model.Profile{UserID: userID}
	}
	mergeProfile(&p, req)

	if err := h.Profiles.Save(ctx, p); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "save profile failed"})
	}
	saved, err := h.Profiles.Get(ctx, userID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "profile": saved})
}

func mergeProfile(p *model.Profile, req profileReq) {
	if req.Name != nil {
		p.Name = req.Name
	}
	if req.Surname != nil {
		p.Surname = req.Surname
	}
	if req.UserType != nil {
		p.UserType = req.UserType
	}
	if req.Address != nil {
		p.Address = req.Address
	}
	if req.City != nil {
		p.City = req.City
	}
	if req.Country != nil {
		p.Country = req.Country
	}
	if req.Latitude != nil {
		p.Latitude = req.Latitude
	}
	if req.Longitude != nil {
		p.Longitude = req.Longitude
	}
	if req.PostalCode != nil {
		p.PostalCode = req.PostalCode
	}
	if req.Interests != nil {
		p.Interests = req.Interests
	}
}

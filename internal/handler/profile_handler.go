package handler

import (
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"pawhaven/internal/service"
)

// ProfileHandler exposes account display and profile mutation.
type ProfileHandler struct {
	profiles service.ProfileService
}

// NewProfileHandler creates a profile handler.
func NewProfileHandler(profiles service.ProfileService) *ProfileHandler {
	return &ProfileHandler{profiles: profiles}
}

// UpdateProfileRequest carries a partial profile update. Absent fields are
// left unchanged; email and password cannot be changed here.
type UpdateProfileRequest struct {
	FirstName       *string `json:"first_name"`
	LastName        *string `json:"last_name"`
	Phone           *string `json:"phone"`
	Address         *string `json:"address"`
	Bio             *string `json:"bio"`
	AvatarURL       *string `json:"profile_image"`
	LivingSituation *string `json:"living_situation" validate:"omitempty,oneof=own_house rent_house apartment condominium"`
	Department      *string `json:"department"`
}

func accountIDParam(c echo.Context) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return uuid.Nil, echo.NewHTTPError(http.StatusBadRequest, "invalid account id")
	}
	return id, nil
}

// GetProfile godoc
// @Summary Get an account profile
// @Tags profile
// @Produce json
// @Param role path string true "Account role" Enums(adopter, volunteer, staff)
// @Param id path string true "Account ID"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /profile/{role}/{id} [get]
func (h *ProfileHandler) GetProfile(c echo.Context) error {
	role, err := roleParam(c)
	if err != nil {
		return err
	}
	id, err := accountIDParam(c)
	if err != nil {
		return err
	}

	account, err := h.profiles.GetAccount(c.Request().Context(), role, id)
	if err != nil {
		return domainError(err)
	}

	return c.JSON(http.StatusOK, map[string]interface{}{"user": account})
}

// UpdateProfile godoc
// @Summary Update an account profile
// @Tags profile
// @Accept json
// @Produce json
// @Param role path string true "Account role" Enums(adopter, volunteer, staff)
// @Param id path string true "Account ID"
// @Param request body UpdateProfileRequest true "Profile fields"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Security BearerAuth
// @Router /profile/{role}/{id} [put]
func (h *ProfileHandler) UpdateProfile(c echo.Context) error {
	role, err := roleParam(c)
	if err != nil {
		return err
	}
	id, err := accountIDParam(c)
	if err != nil {
		return err
	}

	var req UpdateProfileRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	account, err := h.profiles.UpdateProfile(c.Request().Context(), role, id, service.UpdateProfileInput{
		FirstName:       req.FirstName,
		LastName:        req.LastName,
		Phone:           req.Phone,
		Address:         req.Address,
		Bio:             req.Bio,
		AvatarURL:       req.AvatarURL,
		LivingSituation: req.LivingSituation,
		Department:      req.Department,
	})
	if err != nil {
		return domainError(err)
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"message": "Profile updated successfully.",
		"user":    account,
	})
}

// ListAccounts godoc
// @Summary List accounts by status
// @Tags profile
// @Produce json
// @Param role path string true "Account role" Enums(adopter, volunteer, staff)
// @Param status query string false "Comma-separated statuses, default active,pending"
// @Success 200 {array} model.Account
// @Failure 400 {object} errors.ErrorResponse
// @Security BearerAuth
// @Router /accounts/{role} [get]
func (h *ProfileHandler) ListAccounts(c echo.Context) error {
	role, err := roleParam(c)
	if err != nil {
		return err
	}

	statuses := []string{"active", "pending"}
	if raw := c.QueryParam("status"); raw != "" {
		statuses = strings.Split(raw, ",")
	}

	accounts, err := h.profiles.ListByStatus(c.Request().Context(), role, statuses)
	if err != nil {
		return domainError(err)
	}

	return c.JSON(http.StatusOK, accounts)
}

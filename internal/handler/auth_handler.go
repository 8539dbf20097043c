package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	apperrors "pawhaven/internal/errors"
	"pawhaven/internal/model"
	"pawhaven/internal/service"
)

// AuthHandler handles registration, login and password-reset endpoints.
type AuthHandler struct {
	authService  service.AuthService
	resetBaseURL string
}

// NewAuthHandler creates a new auth handler. resetBaseURL is the fallback
// origin for reset links when the request carries no Origin header.
func NewAuthHandler(authService service.AuthService, resetBaseURL string) *AuthHandler {
	return &AuthHandler{authService: authService, resetBaseURL: resetBaseURL}
}

// RegisterRequest represents a registration request for any role.
type RegisterRequest struct {
	Email     string `json:"email" validate:"required,email"`
	Password  string `json:"password" validate:"required,min=6"`
	FirstName string `json:"first_name" validate:"required"`
	LastName  string `json:"last_name" validate:"required"`
	Phone     string `json:"phone"`
	Address   string `json:"address"`
	Bio       string `json:"bio"`
	AvatarURL string `json:"profile_image"`

	LivingSituation string   `json:"living_situation" validate:"omitempty,oneof=own_house rent_house apartment condominium"`
	PetExperience   []string `json:"pet_experience"`

	Availability []string `json:"availability"`
	Activities   []string `json:"activities"`

	Department string `json:"department"`
	Position   string `json:"position" validate:"omitempty,oneof=admin manager coordinator staff"`

	Consents []string `json:"consents"`
}

// LoginRequest represents a login request.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// ForgotPasswordRequest starts the password-reset flow.
type ForgotPasswordRequest struct {
	Email string `json:"email" validate:"required,email"`
}

// ResetPasswordRequest completes the password-reset flow.
type ResetPasswordRequest struct {
	Token    string `json:"token" validate:"required"`
	Password string `json:"password" validate:"required,min=6"`
}

// LoginResponse is returned on successful login.
type LoginResponse struct {
	Message string         `json:"message"`
	Account *model.Account `json:"user"`
	Token   string         `json:"token"`
}

func roleParam(c echo.Context) (model.Role, error) {
	role, err := model.ParseRole(c.Param("role"))
	if err != nil {
		return "", echo.NewHTTPError(http.StatusBadRequest, apperrors.ErrorResponse{
			Error: "invalid user type",
			Code:  "INVALID_ROLE",
		})
	}
	return role, nil
}

func domainError(err error) *echo.HTTPError {
	httpErr := apperrors.MapErrorToHTTP(err)
	return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
}

// Register godoc
// @Summary Register a new account
// @Tags auth
// @Accept json
// @Produce json
// @Param role path string true "Account role" Enums(adopter, volunteer, staff)
// @Param request body RegisterRequest true "Registration data"
// @Success 201 {object} map[string]interface{}
// @Failure 400 {object} errors.ErrorResponse
// @Failure 409 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /auth/register/{role} [post]
func (h *AuthHandler) Register(c echo.Context) error {
	role, err := roleParam(c)
	if err != nil {
		return err
	}

	var req RegisterRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	account, err := h.authService.Register(c.Request().Context(), role, service.RegisterInput{
		Email:           req.Email,
		Password:        req.Password,
		FirstName:       req.FirstName,
		LastName:        req.LastName,
		Phone:           req.Phone,
		Address:         req.Address,
		Bio:             req.Bio,
		AvatarURL:       req.AvatarURL,
		LivingSituation: req.LivingSituation,
		PetExperience:   req.PetExperience,
		Availability:    req.Availability,
		Activities:      req.Activities,
		Department:      req.Department,
		Position:        req.Position,
		Consents:        req.Consents,
	})
	if err != nil {
		return domainError(err)
	}

	return c.JSON(http.StatusCreated, map[string]interface{}{
		"message": "Registration successful!",
		"user":    account,
	})
}

// Login godoc
// @Summary Log in to an account
// @Tags auth
// @Accept json
// @Produce json
// @Param role path string true "Account role" Enums(adopter, volunteer, staff)
// @Param request body LoginRequest true "Login credentials"
// @Success 200 {object} LoginResponse
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /auth/login/{role} [post]
func (h *AuthHandler) Login(c echo.Context) error {
	role, err := roleParam(c)
	if err != nil {
		return err
	}

	var req LoginRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	account, token, err := h.authService.Login(c.Request().Context(), role, req.Email, req.Password)
	if err != nil {
		return domainError(err)
	}

	return c.JSON(http.StatusOK, LoginResponse{
		Message: "Login successful!",
		Account: account,
		Token:   token,
	})
}

// ForgotPassword godoc
// @Summary Request a password-reset link
// @Tags auth
// @Accept json
// @Produce json
// @Param request body ForgotPasswordRequest true "Account email"
// @Success 200 {object} map[string]string
// @Failure 400 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /auth/forgot-password [post]
func (h *AuthHandler) ForgotPassword(c echo.Context) error {
	var req ForgotPasswordRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	// Reset links point back at whichever frontend made the request.
	baseURL := c.Request().Header.Get(echo.HeaderOrigin)
	if baseURL == "" {
		baseURL = h.resetBaseURL
	}

	token, link, err := h.authService.RequestPasswordReset(c.Request().Context(), req.Email, baseURL)
	if err != nil {
		return domainError(err)
	}

	return c.JSON(http.StatusOK, map[string]string{
		"message":     "Password reset link generated! Redirecting...",
		"reset_token": token,
		"reset_link":  link,
	})
}

// ResetPassword godoc
// @Summary Reset a password with a reset token
// @Tags auth
// @Accept json
// @Produce json
// @Param request body ResetPasswordRequest true "Reset token and new password"
// @Success 200 {object} map[string]string
// @Failure 400 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /auth/reset-password [post]
func (h *AuthHandler) ResetPassword(c echo.Context) error {
	var req ResetPasswordRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	if err := h.authService.PerformPasswordReset(c.Request().Context(), req.Token, req.Password); err != nil {
		return domainError(err)
	}

	return c.JSON(http.StatusOK, map[string]string{
		"message": "Password reset successful. You can now login.",
	})
}

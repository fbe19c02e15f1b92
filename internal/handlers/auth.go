package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/localnerve/roadmapdb/internal/middleware"
	"github.com/localnerve/roadmapdb/internal/models"
	"github.com/localnerve/roadmapdb/internal/services"
	"github.com/localnerve/roadmapdb/internal/types"
	"github.com/localnerve/roadmapdb/internal/utils"
)

// AuthResponse is returned by register and login
type AuthResponse struct {
	User  *models.User `json:"user"`
	Token string       `json:"token"`
}

// AuthHandler handles /auth routes
type AuthHandler struct {
	Auth *services.AuthService
}

// Register handles POST /auth/register
// @Summary Create an account
// @Tags Auth
// @Accept json
// @Produce json
// @Param body body services.RegisterInput true "Account"
// @Success 201 {object} AuthResponse
// @Failure 400 {object} utils.ErrorResponseStruct
// @Router /auth/register [post]
func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var in services.RegisterInput
	if err := parseBody(c, &in); err != nil {
		return err
	}
	user, token, err := h.Auth.Register(c.UserContext(), in)
	if err != nil {
		return serviceError(err, "")
	}
	middleware.RequestLogger(c).Info("User registered", "userId", user.ID)
	return utils.SuccessResponse(c, AuthResponse{User: user, Token: token}, fiber.StatusCreated)
}

// Login handles POST /auth/login
// @Summary Sign in with email or username
// @Tags Auth
// @Accept json
// @Produce json
// @Param body body services.LoginInput true "Credentials"
// @Success 200 {object} AuthResponse
// @Failure 400 {object} utils.ErrorResponseStruct
// @Failure 401 {object} utils.ErrorResponseStruct
// @Failure 403 {object} utils.ErrorResponseStruct
// @Router /auth/login [post]
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var in services.LoginInput
	if err := parseBody(c, &in); err != nil {
		return err
	}
	user, token, err := h.Auth.Login(c.UserContext(), in)
	switch {
	case errors.Is(err, services.ErrInvalidCredentials):
		return types.NewAuthError(fiber.StatusUnauthorized, types.CodeInvalidCredentials, "Invalid credentials")
	case errors.Is(err, services.ErrAccountDisabled):
		return types.NewAuthError(fiber.StatusForbidden, types.CodeAccountDisabled, "Account is disabled")
	case err != nil:
		return serviceError(err, "")
	}
	return utils.SuccessResponse(c, AuthResponse{User: user, Token: token}, fiber.StatusOK)
}

// Me handles GET /auth/me
// @Summary The authenticated user
// @Tags Auth
// @Produce json
// @Security BearerAuth
// @Success 200 {object} models.User
// @Failure 401 {object} utils.ErrorResponseStruct
// @Router /auth/me [get]
func (h *AuthHandler) Me(c *fiber.Ctx) error {
	user := middleware.CurrentUser(c)
	if user == nil {
		return types.NewAuthError(fiber.StatusUnauthorized, types.CodeAuthHeaderMissing, "Authentication required")
	}
	return utils.SuccessResponse(c, user, fiber.StatusOK)
}

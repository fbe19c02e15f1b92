package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/localnerve/roadmapdb/internal/middleware"
	"github.com/localnerve/roadmapdb/internal/models"
	"github.com/localnerve/roadmapdb/internal/services"
	"github.com/localnerve/roadmapdb/internal/utils"
	"gorm.io/gorm"
)

// UserInput is the admin body for updating an account
type UserInput struct {
	Username   *string `json:"username" validate:"omitempty,min=2,max=100"`
	Email      *string `json:"email" validate:"omitempty,email,max=191"`
	Password   *string `json:"password" validate:"omitempty,min=6,max=72"`
	IsAdmin    *bool   `json:"isAdmin"`
	IsDisabled *bool   `json:"isDisabled"`
}

// UserHandler handles the admin /users routes
type UserHandler struct {
	Users *services.Store[models.User]
	Auth  *services.AuthService
}

// NewUserHandler creates a UserHandler
func NewUserHandler(db *gorm.DB, auth *services.AuthService) *UserHandler {
	return &UserHandler{Users: services.NewStore[models.User](db), Auth: auth}
}

// GetUsers handles GET /users
// @Summary List users
// @Tags Users
// @Produce json
// @Security BearerAuth
// @Success 200 {array} models.User
// @Failure 403 {object} utils.ErrorResponseStruct
// @Router /users [get]
func (h *UserHandler) GetUsers(c *fiber.Ctx) error {
	rows, err := h.Users.FindAll(c.UserContext())
	if err != nil {
		return err
	}
	return utils.SuccessResponse(c, rows, fiber.StatusOK)
}

// GetUser handles GET /users/:id
// @Summary Get a user
// @Tags Users
// @Produce json
// @Security BearerAuth
// @Param id path int true "User ID"
// @Success 200 {object} models.User
// @Failure 404 {object} utils.ErrorResponseStruct
// @Router /users/{id} [get]
func (h *UserHandler) GetUser(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	row, err := h.Users.FindByID(c.UserContext(), id)
	if err != nil {
		return serviceError(err, "User not found")
	}
	return utils.SuccessResponse(c, row, fiber.StatusOK)
}

// UpdateUser handles PUT /users/:id
// @Summary Update a user
// @Tags Users
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "User ID"
// @Param body body UserInput true "Changes"
// @Success 200 {object} models.User
// @Failure 400 {object} utils.ErrorResponseStruct
// @Failure 404 {object} utils.ErrorResponseStruct
// @Router /users/{id} [put]
func (h *UserHandler) UpdateUser(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	var in UserInput
	if err := parseBody(c, &in); err != nil {
		return err
	}

	ctx := c.UserContext()
	row, err := h.Users.FindByID(ctx, id)
	if err != nil {
		return serviceError(err, "User not found")
	}

	if in.Username != nil {
		username := trimmed(in.Username)
		taken, err := h.Users.Exists(ctx, "username = ? AND id <> ?", username, id)
		if err != nil {
			return err
		}
		if taken {
			return serviceError(services.NewDuplicateError("Username %q is already taken", username), "")
		}
		row.Username = username
	}
	if in.Email != nil {
		email := normalizeEmail(*in.Email)
		taken, err := h.Users.Exists(ctx, "email = ? AND id <> ?", email, id)
		if err != nil {
			return err
		}
		if taken {
			return serviceError(services.NewDuplicateError("Email %q is already registered", email), "")
		}
		row.Email = email
	}
	if in.Password != nil {
		hash, err := h.Auth.HashPassword(*in.Password)
		if err != nil {
			return err
		}
		row.Password = hash
	}
	if in.IsAdmin != nil {
		row.IsAdmin = *in.IsAdmin
	}
	if in.IsDisabled != nil {
		row.IsDisabled = *in.IsDisabled
	}

	if err := h.Users.Update(ctx, row); err != nil {
		return serviceError(err, "User not found")
	}
	middleware.RequestLogger(c).Info("User updated", "userId", id, "isAdmin", row.IsAdmin, "isDisabled", row.IsDisabled)
	return utils.SuccessResponse(c, row, fiber.StatusOK)
}

// DeleteUser handles DELETE /users/:id. Owned roadmaps, favorites,
// notifications and progress go with the account.
// @Summary Delete a user
// @Tags Users
// @Security BearerAuth
// @Param id path int true "User ID"
// @Success 200 {object} utils.DeleteResponseStruct
// @Failure 400 {object} utils.ErrorResponseStruct
// @Failure 404 {object} utils.ErrorResponseStruct
// @Router /users/{id} [delete]
func (h *UserHandler) DeleteUser(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	if self := middleware.CurrentUser(c); self != nil && self.ID == id {
		return serviceError(services.NewValidationError("id", "an admin cannot delete their own account"), "")
	}
	if err := h.Users.Delete(c.UserContext(), id); err != nil {
		return serviceError(err, "User not found")
	}
	return deleted(c, "User", id)
}

package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/localnerve/roadmapdb/internal/models"
	"github.com/localnerve/roadmapdb/internal/services"
	"github.com/localnerve/roadmapdb/internal/types"
	"github.com/localnerve/roadmapdb/internal/utils"
	"gorm.io/gorm"
)

// NotificationInput is the body for creating or updating a notification
type NotificationInput struct {
	UserID    *types.FlexUint64 `json:"userId"`
	RoadmapID *types.FlexUint64 `json:"roadmapId"`
	Message   *string           `json:"message"`
	Type      *string           `json:"type" validate:"omitempty,max=50"`
	Read      *bool             `json:"read"`
}

// NotificationHandler handles /notifications routes
type NotificationHandler struct {
	DB            *gorm.DB
	Notifications *services.Store[models.Notification]
}

// NewNotificationHandler creates a NotificationHandler
func NewNotificationHandler(db *gorm.DB) *NotificationHandler {
	store := services.NewStore[models.Notification](db)
	store.Order = "created_at DESC, id DESC"
	return &NotificationHandler{DB: db, Notifications: store}
}

// GetNotifications handles GET /notifications
// @Summary List notifications, newest first
// @Tags Notifications
// @Produce json
// @Success 200 {array} models.Notification
// @Router /notifications [get]
func (h *NotificationHandler) GetNotifications(c *fiber.Ctx) error {
	rows, err := h.Notifications.FindAll(c.UserContext())
	if err != nil {
		return err
	}
	return utils.SuccessResponse(c, rows, fiber.StatusOK)
}

// GetNotification handles GET /notifications/:id
// @Summary Get a notification
// @Tags Notifications
// @Produce json
// @Param id path int true "Notification ID"
// @Success 200 {object} models.Notification
// @Failure 404 {object} utils.ErrorResponseStruct
// @Router /notifications/{id} [get]
func (h *NotificationHandler) GetNotification(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	row, err := h.Notifications.FindByID(c.UserContext(), id)
	if err != nil {
		return serviceError(err, "Notification not found")
	}
	return utils.SuccessResponse(c, row, fiber.StatusOK)
}

// GetUserNotifications handles GET /notifications/user/:userId
// @Summary List a user's notifications, newest first
// @Tags Notifications
// @Produce json
// @Param userId path int true "User ID"
// @Success 200 {array} models.Notification
// @Router /notifications/user/{userId} [get]
func (h *NotificationHandler) GetUserNotifications(c *fiber.Ctx) error {
	userID, err := paramID(c, "userId")
	if err != nil {
		return err
	}
	rows, err := h.Notifications.FindWhere(c.UserContext(), map[string]interface{}{"user_id": userID})
	if err != nil {
		return err
	}
	return utils.SuccessResponse(c, rows, fiber.StatusOK)
}

// CreateNotification handles POST /notifications
// @Summary Create a notification
// @Tags Notifications
// @Accept json
// @Produce json
// @Param body body NotificationInput true "Notification"
// @Success 201 {object} models.Notification
// @Failure 400 {object} utils.ErrorResponseStruct
// @Router /notifications [post]
func (h *NotificationHandler) CreateNotification(c *fiber.Ctx) error {
	var in NotificationInput
	if err := parseBody(c, &in); err != nil {
		return err
	}
	row := &models.Notification{Type: "info"}
	applyNotificationInput(row, &in)
	if err := checkNotification(row); err != nil {
		return err
	}

	if err := h.Notifications.Create(c.UserContext(), row); err != nil {
		return serviceError(err, "")
	}
	return utils.SuccessResponse(c, row, fiber.StatusCreated)
}

// UpdateNotification handles PUT /notifications/:id
// @Summary Update a notification
// @Tags Notifications
// @Accept json
// @Produce json
// @Param id path int true "Notification ID"
// @Param body body NotificationInput true "Changes"
// @Success 200 {object} models.Notification
// @Failure 400 {object} utils.ErrorResponseStruct
// @Failure 404 {object} utils.ErrorResponseStruct
// @Router /notifications/{id} [put]
func (h *NotificationHandler) UpdateNotification(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	var in NotificationInput
	if err := parseBody(c, &in); err != nil {
		return err
	}

	ctx := c.UserContext()
	row, err := h.Notifications.FindByID(ctx, id)
	if err != nil {
		return serviceError(err, "Notification not found")
	}
	applyNotificationInput(row, &in)
	if err := checkNotification(row); err != nil {
		return err
	}

	if err := h.Notifications.Update(ctx, row); err != nil {
		return serviceError(err, "Notification not found")
	}
	return utils.SuccessResponse(c, row, fiber.StatusOK)
}

// MarkRead handles PUT /notifications/:id/read
// @Summary Mark a notification read
// @Tags Notifications
// @Produce json
// @Param id path int true "Notification ID"
// @Success 200 {object} models.Notification
// @Failure 404 {object} utils.ErrorResponseStruct
// @Router /notifications/{id}/read [put]
func (h *NotificationHandler) MarkRead(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	ctx := c.UserContext()
	row, err := h.Notifications.FindByID(ctx, id)
	if err != nil {
		return serviceError(err, "Notification not found")
	}
	row.Read = true
	if err := h.Notifications.Update(ctx, row); err != nil {
		return serviceError(err, "Notification not found")
	}
	return utils.SuccessResponse(c, row, fiber.StatusOK)
}

// MarkAllRead handles PUT /notifications/user/:userId/read-all
// @Summary Mark every notification of a user read
// @Tags Notifications
// @Produce json
// @Param userId path int true "User ID"
// @Success 200 {object} map[string]interface{}
// @Router /notifications/user/{userId}/read-all [put]
func (h *NotificationHandler) MarkAllRead(c *fiber.Ctx) error {
	userID, err := paramID(c, "userId")
	if err != nil {
		return err
	}
	// map conditions keep the "read" column quoted on every dialect
	result := h.DB.WithContext(c.UserContext()).
		Model(&models.Notification{}).
		Where(map[string]interface{}{"user_id": userID, "read": false}).
		Update("read", true)
	if result.Error != nil {
		return result.Error
	}
	return utils.SuccessResponse(c, fiber.Map{"ok": true, "updated": result.RowsAffected}, fiber.StatusOK)
}

// DeleteNotification handles DELETE /notifications/:id
// @Summary Delete a notification
// @Tags Notifications
// @Param id path int true "Notification ID"
// @Success 200 {object} utils.DeleteResponseStruct
// @Failure 404 {object} utils.ErrorResponseStruct
// @Router /notifications/{id} [delete]
func (h *NotificationHandler) DeleteNotification(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	if err := h.Notifications.Delete(c.UserContext(), id); err != nil {
		return serviceError(err, "Notification not found")
	}
	return deleted(c, "Notification", id)
}

func applyNotificationInput(row *models.Notification, in *NotificationInput) {
	if in.UserID != nil {
		row.UserID = uint(in.UserID.Uint64())
	}
	if in.RoadmapID != nil {
		row.RoadmapID = in.RoadmapID.UintPtr()
	}
	if in.Message != nil {
		row.Message = trimmed(in.Message)
	}
	if t := trimmed(in.Type); t != "" {
		row.Type = t
	}
	if in.Read != nil {
		row.Read = *in.Read
	}
}

func checkNotification(row *models.Notification) error {
	switch {
	case row.UserID == 0:
		return serviceError(services.NewValidationError("userId", "is required"), "")
	case row.Message == "":
		return serviceError(services.NewValidationError("message", "is required"), "")
	}
	return nil
}

package handlers

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/localnerve/roadmapdb/internal/middleware"
	"github.com/localnerve/roadmapdb/internal/models"
	"github.com/localnerve/roadmapdb/internal/services"
	"github.com/localnerve/roadmapdb/internal/types"
	"github.com/localnerve/roadmapdb/internal/utils"
	"gorm.io/gorm"
)

// ProgressInput is the body for creating or updating a progress row
type ProgressInput struct {
	UserID    *types.FlexUint64 `json:"userId"`
	CourseID  *types.FlexUint64 `json:"courseId"`
	Progress  *int              `json:"progress" validate:"omitempty,min=0,max=100"`
	Completed *bool             `json:"completed"`
	Notes     *string           `json:"notes"`
}

// CompleteAndFavoriteInput is the body of POST /user-progress/complete-and-favorite
type CompleteAndFavoriteInput struct {
	UserID    types.FlexUint64 `json:"userId"`
	CourseID  types.FlexUint64 `json:"courseId"`
	RoadmapID types.FlexUint64 `json:"roadmapId"`
}

// ProgressHandler handles /user-progress routes
type ProgressHandler struct {
	DB       *gorm.DB
	Progress *services.Store[models.UserProgress]
}

// NewProgressHandler creates a ProgressHandler
func NewProgressHandler(db *gorm.DB) *ProgressHandler {
	return &ProgressHandler{
		DB:       db,
		Progress: services.NewStore[models.UserProgress](db, "Course"),
	}
}

// GetAllProgress handles GET /user-progress
// @Summary List progress rows
// @Tags UserProgress
// @Produce json
// @Success 200 {array} models.UserProgress
// @Router /user-progress [get]
func (h *ProgressHandler) GetAllProgress(c *fiber.Ctx) error {
	rows, err := h.Progress.FindAll(c.UserContext())
	if err != nil {
		return err
	}
	return utils.SuccessResponse(c, rows, fiber.StatusOK)
}

// GetProgress handles GET /user-progress/:id
// @Summary Get a progress row
// @Tags UserProgress
// @Produce json
// @Param id path int true "Progress ID"
// @Success 200 {object} models.UserProgress
// @Failure 404 {object} utils.ErrorResponseStruct
// @Router /user-progress/{id} [get]
func (h *ProgressHandler) GetProgress(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	row, err := h.Progress.FindByID(c.UserContext(), id)
	if err != nil {
		return serviceError(err, "Progress not found")
	}
	return utils.SuccessResponse(c, row, fiber.StatusOK)
}

// GetUserProgress handles GET /user-progress/user/:userId
// @Summary List a user's progress
// @Tags UserProgress
// @Produce json
// @Param userId path int true "User ID"
// @Success 200 {array} models.UserProgress
// @Router /user-progress/user/{userId} [get]
func (h *ProgressHandler) GetUserProgress(c *fiber.Ctx) error {
	userID, err := paramID(c, "userId")
	if err != nil {
		return err
	}
	rows, err := h.Progress.FindWhere(c.UserContext(), "user_id = ?", userID)
	if err != nil {
		return err
	}
	return utils.SuccessResponse(c, rows, fiber.StatusOK)
}

// CreateProgress handles POST /user-progress
// @Summary Start tracking a course for a user
// @Tags UserProgress
// @Accept json
// @Produce json
// @Param body body ProgressInput true "Progress"
// @Success 201 {object} models.UserProgress
// @Failure 400 {object} utils.ErrorResponseStruct
// @Router /user-progress [post]
func (h *ProgressHandler) CreateProgress(c *fiber.Ctx) error {
	var in ProgressInput
	if err := parseBody(c, &in); err != nil {
		return err
	}
	row := &models.UserProgress{}
	applyProgressInput(row, &in, time.Now().UTC())
	if err := h.checkPair(c, row, 0); err != nil {
		return err
	}

	if err := h.Progress.Create(c.UserContext(), row); err != nil {
		return serviceError(err, "")
	}
	return utils.SuccessResponse(c, row, fiber.StatusCreated)
}

// UpdateProgress handles PUT /user-progress/:id
// @Summary Update a progress row
// @Tags UserProgress
// @Accept json
// @Produce json
// @Param id path int true "Progress ID"
// @Param body body ProgressInput true "Changes"
// @Success 200 {object} models.UserProgress
// @Failure 400 {object} utils.ErrorResponseStruct
// @Failure 404 {object} utils.ErrorResponseStruct
// @Router /user-progress/{id} [put]
func (h *ProgressHandler) UpdateProgress(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	var in ProgressInput
	if err := parseBody(c, &in); err != nil {
		return err
	}

	ctx := c.UserContext()
	row, err := h.Progress.FindByID(ctx, id)
	if err != nil {
		return serviceError(err, "Progress not found")
	}
	applyProgressInput(row, &in, time.Now().UTC())
	if err := h.checkPair(c, row, id); err != nil {
		return err
	}

	if err := h.Progress.Update(ctx, row); err != nil {
		return serviceError(err, "Progress not found")
	}
	return utils.SuccessResponse(c, row, fiber.StatusOK)
}

// DeleteProgress handles DELETE /user-progress/:id
// @Summary Delete a progress row
// @Tags UserProgress
// @Param id path int true "Progress ID"
// @Success 200 {object} utils.DeleteResponseStruct
// @Failure 404 {object} utils.ErrorResponseStruct
// @Router /user-progress/{id} [delete]
func (h *ProgressHandler) DeleteProgress(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	if err := h.Progress.Delete(c.UserContext(), id); err != nil {
		return serviceError(err, "Progress not found")
	}
	return deleted(c, "Progress", id)
}

// CompleteAndFavorite handles POST /user-progress/complete-and-favorite.
// The course is marked completed first; if adding the favorite then fails the
// completion stays recorded and the request reports the failure.
// @Summary Complete a course and favorite its roadmap
// @Tags UserProgress
// @Accept json
// @Produce json
// @Param body body CompleteAndFavoriteInput true "Completion"
// @Success 200 {object} services.CompleteAndFavoriteResult
// @Failure 400 {object} utils.ErrorResponseStruct
// @Failure 500 {object} utils.ErrorResponseStruct
// @Router /user-progress/complete-and-favorite [post]
func (h *ProgressHandler) CompleteAndFavorite(c *fiber.Ctx) error {
	var in CompleteAndFavoriteInput
	if err := parseBody(c, &in); err != nil {
		return err
	}
	userID := uint(in.UserID.Uint64())
	if userID == 0 {
		if user := middleware.CurrentUser(c); user != nil {
			userID = user.ID
		}
	}
	switch {
	case userID == 0:
		return serviceError(services.NewValidationError("userId", "is required"), "")
	case in.CourseID == 0:
		return serviceError(services.NewValidationError("courseId", "is required"), "")
	}

	result, err := services.CompleteAndFavorite(c.UserContext(), h.DB, services.CompleteAndFavoriteInput{
		UserID:    userID,
		CourseID:  uint(in.CourseID.Uint64()),
		RoadmapID: uint(in.RoadmapID.Uint64()),
	})
	if err != nil {
		var step *services.ProgressStep
		if errors.As(err, &step) && step.Step == "favorite" {
			middleware.RequestLogger(c).Error("Favorite step failed after progress was saved",
				"userId", userID, "courseId", in.CourseID.Uint64(), "roadmapId", in.RoadmapID.Uint64(), "error", step.Err)
			return err
		}
		return serviceError(err, "")
	}
	return utils.SuccessResponse(c, result, fiber.StatusOK)
}

// checkPair requires both ids and rejects a second row for the same user and course
func (h *ProgressHandler) checkPair(c *fiber.Ctx, row *models.UserProgress, selfID uint) error {
	switch {
	case row.UserID == 0:
		return serviceError(services.NewValidationError("userId", "is required"), "")
	case row.CourseID == 0:
		return serviceError(services.NewValidationError("courseId", "is required"), "")
	}
	taken, err := h.Progress.Exists(c.UserContext(), "user_id = ? AND course_id = ? AND id <> ?", row.UserID, row.CourseID, selfID)
	if err != nil {
		return err
	}
	if taken {
		return serviceError(services.NewDuplicateError("Progress for user %d and course %d already exists", row.UserID, row.CourseID), "")
	}
	return nil
}

// applyProgressInput merges in; completing stamps completedAt, un-completing clears it
func applyProgressInput(row *models.UserProgress, in *ProgressInput, now time.Time) {
	if in.UserID != nil {
		row.UserID = uint(in.UserID.Uint64())
	}
	if in.CourseID != nil {
		row.CourseID = uint(in.CourseID.Uint64())
	}
	if in.Progress != nil {
		row.Progress = *in.Progress
	}
	if in.Notes != nil {
		row.Notes = in.Notes
	}
	if in.Completed != nil {
		switch {
		case *in.Completed && !row.Completed:
			row.CompletedAt = &now
		case !*in.Completed:
			row.CompletedAt = nil
		}
		row.Completed = *in.Completed
	}
}

package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/localnerve/roadmapdb/internal/models"
	"github.com/localnerve/roadmapdb/internal/services"
	"github.com/localnerve/roadmapdb/internal/types"
	"github.com/localnerve/roadmapdb/internal/utils"
	"gorm.io/gorm"
)

// FavoriteInput is the body for creating or moving a favorite
type FavoriteInput struct {
	UserID    *types.FlexUint64 `json:"userId"`
	RoadmapID *types.FlexUint64 `json:"roadmapId"`
}

// FavoriteHandler handles /favorites routes
type FavoriteHandler struct {
	Favorites *services.Store[models.Favorite]
}

// NewFavoriteHandler creates a FavoriteHandler
func NewFavoriteHandler(db *gorm.DB) *FavoriteHandler {
	return &FavoriteHandler{
		Favorites: services.NewStore[models.Favorite](db, "Roadmap"),
	}
}

// GetFavorites handles GET /favorites
// @Summary List favorites
// @Tags Favorites
// @Produce json
// @Success 200 {array} models.Favorite
// @Router /favorites [get]
func (h *FavoriteHandler) GetFavorites(c *fiber.Ctx) error {
	rows, err := h.Favorites.FindAll(c.UserContext())
	if err != nil {
		return err
	}
	return utils.SuccessResponse(c, rows, fiber.StatusOK)
}

// GetFavorite handles GET /favorites/:id
// @Summary Get a favorite
// @Tags Favorites
// @Produce json
// @Param id path int true "Favorite ID"
// @Success 200 {object} models.Favorite
// @Failure 404 {object} utils.ErrorResponseStruct
// @Router /favorites/{id} [get]
func (h *FavoriteHandler) GetFavorite(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	row, err := h.Favorites.FindByID(c.UserContext(), id)
	if err != nil {
		return serviceError(err, "Favorite not found")
	}
	return utils.SuccessResponse(c, row, fiber.StatusOK)
}

// GetUserFavorites handles GET /favorites/user/:userId
// @Summary List a user's favorites
// @Tags Favorites
// @Produce json
// @Param userId path int true "User ID"
// @Success 200 {array} models.Favorite
// @Router /favorites/user/{userId} [get]
func (h *FavoriteHandler) GetUserFavorites(c *fiber.Ctx) error {
	userID, err := paramID(c, "userId")
	if err != nil {
		return err
	}
	rows, err := h.Favorites.FindWhere(c.UserContext(), "user_id = ?", userID)
	if err != nil {
		return err
	}
	return utils.SuccessResponse(c, rows, fiber.StatusOK)
}

// CheckFavorite handles GET /favorites/check/:userId/:roadmapId
// @Summary Check whether a roadmap is a user's favorite
// @Tags Favorites
// @Produce json
// @Param userId path int true "User ID"
// @Param roadmapId path int true "Roadmap ID"
// @Success 200 {object} map[string]interface{}
// @Router /favorites/check/{userId}/{roadmapId} [get]
func (h *FavoriteHandler) CheckFavorite(c *fiber.Ctx) error {
	userID, err := paramID(c, "userId")
	if err != nil {
		return err
	}
	roadmapID, err := paramID(c, "roadmapId")
	if err != nil {
		return err
	}

	row, err := h.Favorites.FindOne(c.UserContext(), "user_id = ? AND roadmap_id = ?", userID, roadmapID)
	switch {
	case err == nil:
		return utils.SuccessResponse(c, fiber.Map{"isFavorite": true, "favoriteId": row.ID}, fiber.StatusOK)
	case errors.Is(err, services.ErrNotFound):
		return utils.SuccessResponse(c, fiber.Map{"isFavorite": false}, fiber.StatusOK)
	}
	return err
}

// CreateFavorite handles POST /favorites
// @Summary Add a favorite
// @Tags Favorites
// @Accept json
// @Produce json
// @Param body body FavoriteInput true "Favorite"
// @Success 201 {object} models.Favorite
// @Failure 400 {object} utils.ErrorResponseStruct
// @Router /favorites [post]
func (h *FavoriteHandler) CreateFavorite(c *fiber.Ctx) error {
	var in FavoriteInput
	if err := parseBody(c, &in); err != nil {
		return err
	}
	row := &models.Favorite{}
	if in.UserID != nil {
		row.UserID = uint(in.UserID.Uint64())
	}
	if in.RoadmapID != nil {
		row.RoadmapID = uint(in.RoadmapID.Uint64())
	}
	if err := h.checkPair(c, row, 0); err != nil {
		return err
	}

	if err := h.Favorites.Create(c.UserContext(), row); err != nil {
		return serviceError(err, "")
	}
	return utils.SuccessResponse(c, row, fiber.StatusCreated)
}

// UpdateFavorite handles PUT /favorites/:id
// @Summary Update a favorite
// @Tags Favorites
// @Accept json
// @Produce json
// @Param id path int true "Favorite ID"
// @Param body body FavoriteInput true "Changes"
// @Success 200 {object} models.Favorite
// @Failure 400 {object} utils.ErrorResponseStruct
// @Failure 404 {object} utils.ErrorResponseStruct
// @Router /favorites/{id} [put]
func (h *FavoriteHandler) UpdateFavorite(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	var in FavoriteInput
	if err := parseBody(c, &in); err != nil {
		return err
	}

	ctx := c.UserContext()
	row, err := h.Favorites.FindByID(ctx, id)
	if err != nil {
		return serviceError(err, "Favorite not found")
	}
	if in.UserID != nil {
		row.UserID = uint(in.UserID.Uint64())
	}
	if in.RoadmapID != nil {
		row.RoadmapID = uint(in.RoadmapID.Uint64())
	}
	if err := h.checkPair(c, row, id); err != nil {
		return err
	}

	if err := h.Favorites.Update(ctx, row); err != nil {
		return serviceError(err, "Favorite not found")
	}
	return utils.SuccessResponse(c, row, fiber.StatusOK)
}

// DeleteFavorite handles DELETE /favorites/:id
// @Summary Remove a favorite
// @Tags Favorites
// @Param id path int true "Favorite ID"
// @Success 200 {object} utils.DeleteResponseStruct
// @Failure 404 {object} utils.ErrorResponseStruct
// @Router /favorites/{id} [delete]
func (h *FavoriteHandler) DeleteFavorite(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	if err := h.Favorites.Delete(c.UserContext(), id); err != nil {
		return serviceError(err, "Favorite not found")
	}
	return deleted(c, "Favorite", id)
}

// checkPair requires both ids and rejects a second favorite for the same pair
func (h *FavoriteHandler) checkPair(c *fiber.Ctx, row *models.Favorite, selfID uint) error {
	switch {
	case row.UserID == 0:
		return serviceError(services.NewValidationError("userId", "is required"), "")
	case row.RoadmapID == 0:
		return serviceError(services.NewValidationError("roadmapId", "is required"), "")
	}
	taken, err := h.Favorites.Exists(c.UserContext(), "user_id = ? AND roadmap_id = ? AND id <> ?", row.UserID, row.RoadmapID, selfID)
	if err != nil {
		return err
	}
	if taken {
		return serviceError(services.NewDuplicateError("Roadmap %d is already a favorite of user %d", row.RoadmapID, row.UserID), "")
	}
	return nil
}

package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/localnerve/roadmapdb/internal/models"
	"github.com/localnerve/roadmapdb/internal/services"
	"github.com/localnerve/roadmapdb/internal/utils"
	"gorm.io/gorm"
)

// TagInput is the body for creating or renaming a tag
type TagInput struct {
	Name *string `json:"name" validate:"omitempty,max=191"`
}

// TagHandler handles /tags routes
type TagHandler struct {
	DB       *gorm.DB
	Tags     *services.Store[models.Tag]
	Roadmaps *services.Store[models.Roadmap]
}

// NewTagHandler creates a TagHandler
func NewTagHandler(db *gorm.DB) *TagHandler {
	return &TagHandler{
		DB:       db,
		Tags:     services.NewStore[models.Tag](db),
		Roadmaps: roadmapStore(db),
	}
}

// GetTags handles GET /tags
// @Summary List tags
// @Tags Tags
// @Produce json
// @Success 200 {array} models.Tag
// @Router /tags [get]
func (h *TagHandler) GetTags(c *fiber.Ctx) error {
	rows, err := h.Tags.FindAll(c.UserContext())
	if err != nil {
		return err
	}
	return utils.SuccessResponse(c, rows, fiber.StatusOK)
}

// GetTag handles GET /tags/:id
// @Summary Get a tag
// @Tags Tags
// @Produce json
// @Param id path int true "Tag ID"
// @Success 200 {object} models.Tag
// @Failure 404 {object} utils.ErrorResponseStruct
// @Router /tags/{id} [get]
func (h *TagHandler) GetTag(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	row, err := h.Tags.FindByID(c.UserContext(), id)
	if err != nil {
		return serviceError(err, "Tag not found")
	}
	return utils.SuccessResponse(c, row, fiber.StatusOK)
}

// CreateTag handles POST /tags
// @Summary Create a tag
// @Tags Tags
// @Accept json
// @Produce json
// @Param body body TagInput true "Tag"
// @Success 201 {object} models.Tag
// @Failure 400 {object} utils.ErrorResponseStruct
// @Router /tags [post]
func (h *TagHandler) CreateTag(c *fiber.Ctx) error {
	var in TagInput
	if err := parseBody(c, &in); err != nil {
		return err
	}
	name := trimmed(in.Name)
	if name == "" {
		return serviceError(services.NewValidationError("name", "is required"), "")
	}

	ctx := c.UserContext()
	taken, err := h.Tags.Exists(ctx, "name = ?", name)
	if err != nil {
		return err
	}
	if taken {
		return serviceError(services.NewDuplicateError("A tag named %q already exists", name), "")
	}

	row := &models.Tag{Name: name}
	if err := h.Tags.Create(ctx, row); err != nil {
		return serviceError(err, "")
	}
	return utils.SuccessResponse(c, row, fiber.StatusCreated)
}

// UpdateTag handles PUT /tags/:id
// @Summary Rename a tag
// @Tags Tags
// @Accept json
// @Produce json
// @Param id path int true "Tag ID"
// @Param body body TagInput true "Changes"
// @Success 200 {object} models.Tag
// @Failure 400 {object} utils.ErrorResponseStruct
// @Failure 404 {object} utils.ErrorResponseStruct
// @Router /tags/{id} [put]
func (h *TagHandler) UpdateTag(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	var in TagInput
	if err := parseBody(c, &in); err != nil {
		return err
	}

	ctx := c.UserContext()
	row, err := h.Tags.FindByID(ctx, id)
	if err != nil {
		return serviceError(err, "Tag not found")
	}
	if in.Name != nil {
		name := trimmed(in.Name)
		if name == "" {
			return serviceError(services.NewValidationError("name", "must not be empty"), "")
		}
		taken, err := h.Tags.Exists(ctx, "name = ? AND id <> ?", name, id)
		if err != nil {
			return err
		}
		if taken {
			return serviceError(services.NewDuplicateError("A tag named %q already exists", name), "")
		}
		row.Name = name
	}

	if err := h.Tags.Update(ctx, row); err != nil {
		return serviceError(err, "Tag not found")
	}
	return utils.SuccessResponse(c, row, fiber.StatusOK)
}

// DeleteTag handles DELETE /tags/:id. Roadmap links go with it.
// @Summary Delete a tag
// @Tags Tags
// @Param id path int true "Tag ID"
// @Success 200 {object} utils.DeleteResponseStruct
// @Failure 404 {object} utils.ErrorResponseStruct
// @Router /tags/{id} [delete]
func (h *TagHandler) DeleteTag(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	if err := h.Tags.Delete(c.UserContext(), id); err != nil {
		return serviceError(err, "Tag not found")
	}
	return deleted(c, "Tag", id)
}

// GetTagRoadmaps handles GET /tags/:id/roadmaps
// @Summary List the roadmaps carrying a tag
// @Tags Tags
// @Produce json
// @Param id path int true "Tag ID"
// @Success 200 {array} models.Roadmap
// @Failure 404 {object} utils.ErrorResponseStruct
// @Router /tags/{id}/roadmaps [get]
func (h *TagHandler) GetTagRoadmaps(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	ctx := c.UserContext()
	if _, err := h.Tags.FindByID(ctx, id); err != nil {
		return serviceError(err, "Tag not found")
	}

	linked := h.DB.Model(&models.RoadmapTag{}).Select("roadmap_id").Where("tag_id = ?", id)
	rows, err := h.Roadmaps.FindWhere(ctx, "id IN (?)", linked)
	if err != nil {
		return err
	}
	return utils.SuccessResponse(c, rows, fiber.StatusOK)
}

package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/localnerve/roadmapdb/internal/models"
	"github.com/localnerve/roadmapdb/internal/services"
	"github.com/localnerve/roadmapdb/internal/utils"
	"gorm.io/gorm"
)

// LookupInput is the body for creating or updating a category or skill.
// Absent fields keep their stored value on update.
type LookupInput struct {
	Name        *string `json:"name" validate:"omitempty,max=191"`
	Description *string `json:"description"`
}

// CategoryHandler handles /categories routes
type CategoryHandler struct {
	Categories *services.Store[models.Category]
	Roadmaps   *services.Store[models.Roadmap]
	Courses    *services.Store[models.Course]
}

// NewCategoryHandler creates a CategoryHandler
func NewCategoryHandler(db *gorm.DB) *CategoryHandler {
	return &CategoryHandler{
		Categories: services.NewStore[models.Category](db),
		Roadmaps:   roadmapStore(db),
		Courses:    courseStore(db),
	}
}

// GetCategories handles GET /categories
// @Summary List categories
// @Tags Categories
// @Produce json
// @Success 200 {array} models.Category
// @Router /categories [get]
func (h *CategoryHandler) GetCategories(c *fiber.Ctx) error {
	rows, err := h.Categories.FindAll(c.UserContext())
	if err != nil {
		return err
	}
	return utils.SuccessResponse(c, rows, fiber.StatusOK)
}

// GetCategory handles GET /categories/:id
// @Summary Get a category
// @Tags Categories
// @Produce json
// @Param id path int true "Category ID"
// @Success 200 {object} models.Category
// @Failure 404 {object} utils.ErrorResponseStruct
// @Router /categories/{id} [get]
func (h *CategoryHandler) GetCategory(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	row, err := h.Categories.FindByID(c.UserContext(), id)
	if err != nil {
		return serviceError(err, "Category not found")
	}
	return utils.SuccessResponse(c, row, fiber.StatusOK)
}

// CreateCategory handles POST /categories
// @Summary Create a category
// @Tags Categories
// @Accept json
// @Produce json
// @Param body body LookupInput true "Category"
// @Success 201 {object} models.Category
// @Failure 400 {object} utils.ErrorResponseStruct
// @Router /categories [post]
func (h *CategoryHandler) CreateCategory(c *fiber.Ctx) error {
	var in LookupInput
	if err := parseBody(c, &in); err != nil {
		return err
	}
	name := trimmed(in.Name)
	if name == "" {
		return serviceError(services.NewValidationError("name", "is required"), "")
	}

	ctx := c.UserContext()
	taken, err := h.Categories.Exists(ctx, "name = ?", name)
	if err != nil {
		return err
	}
	if taken {
		return serviceError(services.NewDuplicateError("A category named %q already exists", name), "")
	}

	row := &models.Category{Name: name, Description: trimmed(in.Description)}
	if err := h.Categories.Create(ctx, row); err != nil {
		return serviceError(err, "")
	}
	return utils.SuccessResponse(c, row, fiber.StatusCreated)
}

// UpdateCategory handles PUT /categories/:id
// @Summary Update a category
// @Tags Categories
// @Accept json
// @Produce json
// @Param id path int true "Category ID"
// @Param body body LookupInput true "Changes"
// @Success 200 {object} models.Category
// @Failure 400 {object} utils.ErrorResponseStruct
// @Failure 404 {object} utils.ErrorResponseStruct
// @Router /categories/{id} [put]
func (h *CategoryHandler) UpdateCategory(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	var in LookupInput
	if err := parseBody(c, &in); err != nil {
		return err
	}

	ctx := c.UserContext()
	row, err := h.Categories.FindByID(ctx, id)
	if err != nil {
		return serviceError(err, "Category not found")
	}

	if in.Name != nil {
		name := trimmed(in.Name)
		if name == "" {
			return serviceError(services.NewValidationError("name", "must not be empty"), "")
		}
		taken, err := h.Categories.Exists(ctx, "name = ? AND id <> ?", name, id)
		if err != nil {
			return err
		}
		if taken {
			return serviceError(services.NewDuplicateError("A category named %q already exists", name), "")
		}
		row.Name = name
	}
	if in.Description != nil {
		row.Description = trimmed(in.Description)
	}

	if err := h.Categories.Update(ctx, row); err != nil {
		return serviceError(err, "Category not found")
	}
	return utils.SuccessResponse(c, row, fiber.StatusOK)
}

// DeleteCategory handles DELETE /categories/:id
// @Summary Delete a category
// @Tags Categories
// @Param id path int true "Category ID"
// @Success 200 {object} utils.DeleteResponseStruct
// @Failure 404 {object} utils.ErrorResponseStruct
// @Router /categories/{id} [delete]
func (h *CategoryHandler) DeleteCategory(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	if err := h.Categories.Delete(c.UserContext(), id); err != nil {
		return serviceError(err, "Category not found")
	}
	return deleted(c, "Category", id)
}

// GetCategoryRoadmaps handles GET /categories/:id/roadmaps
// @Summary List the roadmaps of a category
// @Tags Categories
// @Produce json
// @Param id path int true "Category ID"
// @Success 200 {array} models.Roadmap
// @Router /categories/{id}/roadmaps [get]
func (h *CategoryHandler) GetCategoryRoadmaps(c *fiber.Ctx) error {
	return relatedList(c, h.Categories, h.Roadmaps, "category_id = ?", "Category not found")
}

// GetCategoryCourses handles GET /categories/:id/courses
// @Summary List the courses of a category
// @Tags Categories
// @Produce json
// @Param id path int true "Category ID"
// @Success 200 {array} models.Course
// @Router /categories/{id}/courses [get]
func (h *CategoryHandler) GetCategoryCourses(c *fiber.Ctx) error {
	return relatedList(c, h.Categories, h.Courses, "category_id = ?", "Category not found")
}

// SkillHandler handles /skills routes
type SkillHandler struct {
	Skills   *services.Store[models.Skill]
	Roadmaps *services.Store[models.Roadmap]
	Courses  *services.Store[models.Course]
}

// NewSkillHandler creates a SkillHandler
func NewSkillHandler(db *gorm.DB) *SkillHandler {
	return &SkillHandler{
		Skills:   services.NewStore[models.Skill](db),
		Roadmaps: roadmapStore(db),
		Courses:  courseStore(db),
	}
}

// GetSkills handles GET /skills
// @Summary List skills
// @Tags Skills
// @Produce json
// @Success 200 {array} models.Skill
// @Router /skills [get]
func (h *SkillHandler) GetSkills(c *fiber.Ctx) error {
	rows, err := h.Skills.FindAll(c.UserContext())
	if err != nil {
		return err
	}
	return utils.SuccessResponse(c, rows, fiber.StatusOK)
}

// GetSkill handles GET /skills/:id
// @Summary Get a skill
// @Tags Skills
// @Produce json
// @Param id path int true "Skill ID"
// @Success 200 {object} models.Skill
// @Failure 404 {object} utils.ErrorResponseStruct
// @Router /skills/{id} [get]
func (h *SkillHandler) GetSkill(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	row, err := h.Skills.FindByID(c.UserContext(), id)
	if err != nil {
		return serviceError(err, "Skill not found")
	}
	return utils.SuccessResponse(c, row, fiber.StatusOK)
}

// CreateSkill handles POST /skills
// @Summary Create a skill
// @Tags Skills
// @Accept json
// @Produce json
// @Param body body LookupInput true "Skill"
// @Success 201 {object} models.Skill
// @Failure 400 {object} utils.ErrorResponseStruct
// @Router /skills [post]
func (h *SkillHandler) CreateSkill(c *fiber.Ctx) error {
	var in LookupInput
	if err := parseBody(c, &in); err != nil {
		return err
	}
	name := trimmed(in.Name)
	if name == "" {
		return serviceError(services.NewValidationError("name", "is required"), "")
	}

	ctx := c.UserContext()
	taken, err := h.Skills.Exists(ctx, "name = ?", name)
	if err != nil {
		return err
	}
	if taken {
		return serviceError(services.NewDuplicateError("A skill named %q already exists", name), "")
	}

	row := &models.Skill{Name: name, Description: trimmed(in.Description)}
	if err := h.Skills.Create(ctx, row); err != nil {
		return serviceError(err, "")
	}
	return utils.SuccessResponse(c, row, fiber.StatusCreated)
}

// UpdateSkill handles PUT /skills/:id
// @Summary Update a skill
// @Tags Skills
// @Accept json
// @Produce json
// @Param id path int true "Skill ID"
// @Param body body LookupInput true "Changes"
// @Success 200 {object} models.Skill
// @Failure 400 {object} utils.ErrorResponseStruct
// @Failure 404 {object} utils.ErrorResponseStruct
// @Router /skills/{id} [put]
func (h *SkillHandler) UpdateSkill(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	var in LookupInput
	if err := parseBody(c, &in); err != nil {
		return err
	}

	ctx := c.UserContext()
	row, err := h.Skills.FindByID(ctx, id)
	if err != nil {
		return serviceError(err, "Skill not found")
	}

	if in.Name != nil {
		name := trimmed(in.Name)
		if name == "" {
			return serviceError(services.NewValidationError("name", "must not be empty"), "")
		}
		taken, err := h.Skills.Exists(ctx, "name = ? AND id <> ?", name, id)
		if err != nil {
			return err
		}
		if taken {
			return serviceError(services.NewDuplicateError("A skill named %q already exists", name), "")
		}
		row.Name = name
	}
	if in.Description != nil {
		row.Description = trimmed(in.Description)
	}

	if err := h.Skills.Update(ctx, row); err != nil {
		return serviceError(err, "Skill not found")
	}
	return utils.SuccessResponse(c, row, fiber.StatusOK)
}

// DeleteSkill handles DELETE /skills/:id
// @Summary Delete a skill
// @Tags Skills
// @Param id path int true "Skill ID"
// @Success 200 {object} utils.DeleteResponseStruct
// @Failure 404 {object} utils.ErrorResponseStruct
// @Router /skills/{id} [delete]
func (h *SkillHandler) DeleteSkill(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	if err := h.Skills.Delete(c.UserContext(), id); err != nil {
		return serviceError(err, "Skill not found")
	}
	return deleted(c, "Skill", id)
}

// GetSkillRoadmaps handles GET /skills/:id/roadmaps
// @Summary List the roadmaps of a skill
// @Tags Skills
// @Produce json
// @Param id path int true "Skill ID"
// @Success 200 {array} models.Roadmap
// @Router /skills/{id}/roadmaps [get]
func (h *SkillHandler) GetSkillRoadmaps(c *fiber.Ctx) error {
	return relatedList(c, h.Skills, h.Roadmaps, "skill_id = ?", "Skill not found")
}

// GetSkillCourses handles GET /skills/:id/courses
// @Summary List the courses of a skill
// @Tags Skills
// @Produce json
// @Param id path int true "Skill ID"
// @Success 200 {array} models.Course
// @Router /skills/{id}/courses [get]
func (h *SkillHandler) GetSkillCourses(c *fiber.Ctx) error {
	return relatedList(c, h.Skills, h.Courses, "skill_id = ?", "Skill not found")
}

// relatedList answers GET /<parent>/:id/<children>. The parent must exist.
func relatedList[P, C any](c *fiber.Ctx, parents *services.Store[P], children *services.Store[C], where, notFound string) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	ctx := c.UserContext()
	exists, err := parents.Exists(ctx, "id = ?", id)
	if err != nil {
		return err
	}
	if !exists {
		return serviceError(services.ErrNotFound, notFound)
	}
	rows, err := children.FindWhere(ctx, where, id)
	if err != nil {
		return err
	}
	return utils.SuccessResponse(c, rows, fiber.StatusOK)
}

func roadmapStore(db *gorm.DB) *services.Store[models.Roadmap] {
	return services.NewStore[models.Roadmap](db, "Category", "Skill", "User")
}

func courseStore(db *gorm.DB) *services.Store[models.Course] {
	return services.NewStore[models.Course](db, "Category", "Skill")
}

package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/localnerve/roadmapdb/internal/models"
	"github.com/localnerve/roadmapdb/internal/services"
	"github.com/localnerve/roadmapdb/internal/types"
	"github.com/localnerve/roadmapdb/internal/utils"
	"gorm.io/gorm"
)

// CourseInput is the body for creating or updating a course.
// categoryId and skillId accept numbers or numeric strings; 0 clears the reference.
type CourseInput struct {
	Title       *string           `json:"title" validate:"omitempty,max=255"`
	Code        *string           `json:"code" validate:"omitempty,max=100"`
	Description *string           `json:"description"`
	Content     *string           `json:"content"`
	CategoryID  *types.FlexUint64 `json:"categoryId"`
	SkillID     *types.FlexUint64 `json:"skillId"`
}

// CourseHandler handles /courses routes
type CourseHandler struct {
	Courses   *services.Store[models.Course]
	Documents *services.Store[models.Document]
}

// NewCourseHandler creates a CourseHandler
func NewCourseHandler(db *gorm.DB) *CourseHandler {
	return &CourseHandler{
		Courses:   courseStore(db),
		Documents: services.NewStore[models.Document](db),
	}
}

// GetCourses handles GET /courses
// @Summary List courses
// @Tags Courses
// @Produce json
// @Success 200 {array} models.Course
// @Router /courses [get]
func (h *CourseHandler) GetCourses(c *fiber.Ctx) error {
	rows, err := h.Courses.FindAll(c.UserContext())
	if err != nil {
		return err
	}
	return utils.SuccessResponse(c, rows, fiber.StatusOK)
}

// GetCourse handles GET /courses/:id
// @Summary Get a course with its documents
// @Tags Courses
// @Produce json
// @Param id path int true "Course ID"
// @Success 200 {object} models.Course
// @Failure 404 {object} utils.ErrorResponseStruct
// @Router /courses/{id} [get]
func (h *CourseHandler) GetCourse(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	ctx := c.UserContext()
	row, err := h.Courses.FindByID(ctx, id)
	if err != nil {
		return serviceError(err, "Course not found")
	}
	docs, err := h.Documents.FindWhere(ctx, "course_id = ?", id)
	if err != nil {
		return err
	}
	row.Documents = docs
	return utils.SuccessResponse(c, row, fiber.StatusOK)
}

// CreateCourse handles POST /courses
// @Summary Create a course
// @Tags Courses
// @Accept json
// @Produce json
// @Param body body CourseInput true "Course"
// @Success 201 {object} models.Course
// @Failure 400 {object} utils.ErrorResponseStruct
// @Router /courses [post]
func (h *CourseHandler) CreateCourse(c *fiber.Ctx) error {
	var in CourseInput
	if err := parseBody(c, &in); err != nil {
		return err
	}
	title, code := trimmed(in.Title), trimmed(in.Code)
	switch {
	case title == "":
		return serviceError(services.NewValidationError("title", "is required"), "")
	case code == "":
		return serviceError(services.NewValidationError("code", "is required"), "")
	}

	ctx := c.UserContext()
	taken, err := h.Courses.Exists(ctx, "code = ?", code)
	if err != nil {
		return err
	}
	if taken {
		return serviceError(services.NewDuplicateError("A course with code %q already exists", code), "")
	}

	row := &models.Course{Title: title, Code: code}
	applyCourseInput(row, &in)
	if err := h.Courses.Create(ctx, row); err != nil {
		return serviceError(err, "")
	}
	return utils.SuccessResponse(c, row, fiber.StatusCreated)
}

// UpdateCourse handles PUT /courses/:id
// @Summary Update a course
// @Tags Courses
// @Accept json
// @Produce json
// @Param id path int true "Course ID"
// @Param body body CourseInput true "Changes"
// @Success 200 {object} models.Course
// @Failure 400 {object} utils.ErrorResponseStruct
// @Failure 404 {object} utils.ErrorResponseStruct
// @Router /courses/{id} [put]
func (h *CourseHandler) UpdateCourse(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	var in CourseInput
	if err := parseBody(c, &in); err != nil {
		return err
	}

	ctx := c.UserContext()
	row, err := h.Courses.FindByID(ctx, id)
	if err != nil {
		return serviceError(err, "Course not found")
	}

	if in.Title != nil {
		if row.Title = trimmed(in.Title); row.Title == "" {
			return serviceError(services.NewValidationError("title", "must not be empty"), "")
		}
	}
	if in.Code != nil {
		code := trimmed(in.Code)
		if code == "" {
			return serviceError(services.NewValidationError("code", "must not be empty"), "")
		}
		taken, err := h.Courses.Exists(ctx, "code = ? AND id <> ?", code, id)
		if err != nil {
			return err
		}
		if taken {
			return serviceError(services.NewDuplicateError("A course with code %q already exists", code), "")
		}
		row.Code = code
	}
	applyCourseInput(row, &in)

	if err := h.Courses.Update(ctx, row); err != nil {
		return serviceError(err, "Course not found")
	}
	return utils.SuccessResponse(c, row, fiber.StatusOK)
}

// DeleteCourse handles DELETE /courses/:id. Documents and progress rows go with it;
// nodes that referenced it keep their place with no course.
// @Summary Delete a course
// @Tags Courses
// @Param id path int true "Course ID"
// @Success 200 {object} utils.DeleteResponseStruct
// @Failure 404 {object} utils.ErrorResponseStruct
// @Router /courses/{id} [delete]
func (h *CourseHandler) DeleteCourse(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	if err := h.Courses.Delete(c.UserContext(), id); err != nil {
		return serviceError(err, "Course not found")
	}
	return deleted(c, "Course", id)
}

// GetCourseDocuments handles GET /courses/:id/documents
// @Summary List the documents of a course
// @Tags Courses
// @Produce json
// @Param id path int true "Course ID"
// @Success 200 {array} models.Document
// @Failure 404 {object} utils.ErrorResponseStruct
// @Router /courses/{id}/documents [get]
func (h *CourseHandler) GetCourseDocuments(c *fiber.Ctx) error {
	return relatedList(c, h.Courses, h.Documents, "course_id = ?", "Course not found")
}

func applyCourseInput(row *models.Course, in *CourseInput) {
	if in.Description != nil {
		row.Description = *in.Description
	}
	if in.Content != nil {
		row.Content = models.Text(*in.Content)
	}
	if in.CategoryID != nil {
		row.CategoryID = in.CategoryID.UintPtr()
	}
	if in.SkillID != nil {
		row.SkillID = in.SkillID.UintPtr()
	}
}

package handlers

import (
	"context"

	"github.com/gofiber/fiber/v2"
	"github.com/localnerve/roadmapdb/internal/models"
	"github.com/localnerve/roadmapdb/internal/services"
	"github.com/localnerve/roadmapdb/internal/types"
	"github.com/localnerve/roadmapdb/internal/utils"
	"gorm.io/gorm"
)

// DocumentInput is the body for creating or updating a course document
type DocumentInput struct {
	Title       *string           `json:"title" validate:"omitempty,max=255"`
	URL         *string           `json:"url" validate:"omitempty,max=2048"`
	Description *string           `json:"description"`
	CourseID    *types.FlexUint64 `json:"courseId"`
}

// DocumentHandler handles /documents routes
type DocumentHandler struct {
	Documents *services.Store[models.Document]
	Courses   *services.Store[models.Course]
}

// NewDocumentHandler creates a DocumentHandler
func NewDocumentHandler(db *gorm.DB) *DocumentHandler {
	return &DocumentHandler{
		Documents: services.NewStore[models.Document](db),
		Courses:   services.NewStore[models.Course](db),
	}
}

// GetDocuments handles GET /documents
// @Summary List documents
// @Tags Documents
// @Produce json
// @Success 200 {array} models.Document
// @Router /documents [get]
func (h *DocumentHandler) GetDocuments(c *fiber.Ctx) error {
	rows, err := h.Documents.FindAll(c.UserContext())
	if err != nil {
		return err
	}
	return utils.SuccessResponse(c, rows, fiber.StatusOK)
}

// GetDocument handles GET /documents/:id
// @Summary Get a document
// @Tags Documents
// @Produce json
// @Param id path int true "Document ID"
// @Success 200 {object} models.Document
// @Failure 404 {object} utils.ErrorResponseStruct
// @Router /documents/{id} [get]
func (h *DocumentHandler) GetDocument(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	row, err := h.Documents.FindByID(c.UserContext(), id)
	if err != nil {
		return serviceError(err, "Document not found")
	}
	return utils.SuccessResponse(c, row, fiber.StatusOK)
}

// CreateDocument handles POST /documents
// @Summary Attach a document to a course
// @Tags Documents
// @Accept json
// @Produce json
// @Param body body DocumentInput true "Document"
// @Success 201 {object} models.Document
// @Failure 400 {object} utils.ErrorResponseStruct
// @Router /documents [post]
func (h *DocumentHandler) CreateDocument(c *fiber.Ctx) error {
	var in DocumentInput
	if err := parseBody(c, &in); err != nil {
		return err
	}
	row := &models.Document{Title: trimmed(in.Title), URL: trimmed(in.URL), Description: in.Description}
	if in.CourseID != nil {
		row.CourseID = uint(in.CourseID.Uint64())
	}

	ctx := c.UserContext()
	if err := h.check(ctx, row); err != nil {
		return err
	}
	if err := h.Documents.Create(ctx, row); err != nil {
		return serviceError(err, "")
	}
	return utils.SuccessResponse(c, row, fiber.StatusCreated)
}

// UpdateDocument handles PUT /documents/:id
// @Summary Update a document
// @Tags Documents
// @Accept json
// @Produce json
// @Param id path int true "Document ID"
// @Param body body DocumentInput true "Changes"
// @Success 200 {object} models.Document
// @Failure 400 {object} utils.ErrorResponseStruct
// @Failure 404 {object} utils.ErrorResponseStruct
// @Router /documents/{id} [put]
func (h *DocumentHandler) UpdateDocument(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	var in DocumentInput
	if err := parseBody(c, &in); err != nil {
		return err
	}

	ctx := c.UserContext()
	row, err := h.Documents.FindByID(ctx, id)
	if err != nil {
		return serviceError(err, "Document not found")
	}
	if in.Title != nil {
		row.Title = trimmed(in.Title)
	}
	if in.URL != nil {
		row.URL = trimmed(in.URL)
	}
	if in.Description != nil {
		row.Description = in.Description
	}
	if in.CourseID != nil {
		row.CourseID = uint(in.CourseID.Uint64())
	}

	if err := h.check(ctx, row); err != nil {
		return err
	}
	if err := h.Documents.Update(ctx, row); err != nil {
		return serviceError(err, "Document not found")
	}
	return utils.SuccessResponse(c, row, fiber.StatusOK)
}

// DeleteDocument handles DELETE /documents/:id
// @Summary Delete a document
// @Tags Documents
// @Param id path int true "Document ID"
// @Success 200 {object} utils.DeleteResponseStruct
// @Failure 404 {object} utils.ErrorResponseStruct
// @Router /documents/{id} [delete]
func (h *DocumentHandler) DeleteDocument(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	if err := h.Documents.Delete(c.UserContext(), id); err != nil {
		return serviceError(err, "Document not found")
	}
	return deleted(c, "Document", id)
}

// check enforces the required fields and the owning course
func (h *DocumentHandler) check(ctx context.Context, row *models.Document) error {
	switch {
	case row.Title == "":
		return serviceError(services.NewValidationError("title", "is required"), "")
	case row.URL == "":
		return serviceError(services.NewValidationError("url", "is required"), "")
	case row.CourseID == 0:
		return serviceError(services.NewValidationError("courseId", "is required"), "")
	}
	exists, err := h.Courses.Exists(ctx, "id = ?", row.CourseID)
	if err != nil {
		return err
	}
	if !exists {
		return serviceError(services.NewValidationError("courseId", "course %d does not exist", row.CourseID), "")
	}
	return nil
}

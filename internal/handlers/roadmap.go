package handlers

import (
	"encoding/json"

	"github.com/gofiber/fiber/v2"
	"github.com/localnerve/roadmapdb/internal/middleware"
	"github.com/localnerve/roadmapdb/internal/models"
	"github.com/localnerve/roadmapdb/internal/services"
	"github.com/localnerve/roadmapdb/internal/types"
	"github.com/localnerve/roadmapdb/internal/utils"
	"gorm.io/gorm"
)

// RoadmapInput is the body for creating or updating a roadmap.
// When nodes or edges are present the graph is saved through reconciliation.
type RoadmapInput struct {
	Title       *string                         `json:"title" validate:"omitempty,max=255"`
	Description *string                         `json:"description"`
	CategoryID  *types.FlexUint64               `json:"categoryId"`
	SkillID     *types.FlexUint64               `json:"skillId"`
	UserID      *types.FlexUint64               `json:"userId"`
	Nodes       types.FlexList[json.RawMessage] `json:"nodes" swaggertype:"array,object"`
	Edges       types.FlexList[json.RawMessage] `json:"edges" swaggertype:"array,object"`
}

func (in *RoadmapInput) hasGraph() bool {
	return in.Nodes != nil || in.Edges != nil
}

// RoadmapTagInput is the body of POST /roadmaps/:id/tags
type RoadmapTagInput struct {
	TagID types.FlexUint64 `json:"tagId"`
}

// GraphSaveResponse is the reconciled roadmap plus what the save did
type GraphSaveResponse struct {
	*models.Roadmap
	Sync *services.SyncReport `json:"sync"`
}

// RoadmapHandler handles /roadmaps routes
type RoadmapHandler struct {
	DB       *gorm.DB
	Roadmaps *services.Store[models.Roadmap]
	Graph    *services.GraphService
}

// NewRoadmapHandler creates a RoadmapHandler
func NewRoadmapHandler(db *gorm.DB, graph *services.GraphService) *RoadmapHandler {
	return &RoadmapHandler{
		DB:       db,
		Roadmaps: roadmapStore(db),
		Graph:    graph,
	}
}

// GetRoadmaps handles GET /roadmaps
// @Summary List roadmaps
// @Tags Roadmaps
// @Produce json
// @Success 200 {array} models.Roadmap
// @Router /roadmaps [get]
func (h *RoadmapHandler) GetRoadmaps(c *fiber.Ctx) error {
	rows, err := h.Roadmaps.FindAll(c.UserContext())
	if err != nil {
		return err
	}
	return utils.SuccessResponse(c, rows, fiber.StatusOK)
}

// GetRoadmap handles GET /roadmaps/:id
// @Summary Get a roadmap with its nodes and edges
// @Tags Roadmaps
// @Produce json
// @Param id path int true "Roadmap ID"
// @Success 200 {object} models.Roadmap
// @Failure 404 {object} utils.ErrorResponseStruct
// @Router /roadmaps/{id} [get]
func (h *RoadmapHandler) GetRoadmap(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	roadmap, err := h.Graph.LoadRoadmap(c.UserContext(), id)
	if err != nil {
		return serviceError(err, "Roadmap not found")
	}
	return utils.SuccessResponse(c, roadmap, fiber.StatusOK)
}

// GetRoadmapByPublicID handles GET /roadmaps/public/:publicId
// @Summary Get a roadmap by its share id
// @Tags Roadmaps
// @Produce json
// @Param publicId path string true "Public share id"
// @Success 200 {object} models.Roadmap
// @Failure 404 {object} utils.ErrorResponseStruct
// @Router /roadmaps/public/{publicId} [get]
func (h *RoadmapHandler) GetRoadmapByPublicID(c *fiber.Ctx) error {
	ctx := c.UserContext()
	row, err := h.Roadmaps.FindOne(ctx, "public_id = ?", c.Params("publicId"))
	if err != nil {
		return serviceError(err, "Roadmap not found")
	}
	roadmap, err := h.Graph.LoadRoadmap(ctx, row.ID)
	if err != nil {
		return serviceError(err, "Roadmap not found")
	}
	return utils.SuccessResponse(c, roadmap, fiber.StatusOK)
}

// GetUserRoadmaps handles GET /roadmaps/user/:userId
// @Summary List the roadmaps a user owns
// @Tags Roadmaps
// @Produce json
// @Param userId path int true "User ID"
// @Success 200 {array} models.Roadmap
// @Router /roadmaps/user/{userId} [get]
func (h *RoadmapHandler) GetUserRoadmaps(c *fiber.Ctx) error {
	userID, err := paramID(c, "userId")
	if err != nil {
		return err
	}
	rows, err := h.Roadmaps.FindWhere(c.UserContext(), "user_id = ?", userID)
	if err != nil {
		return err
	}
	return utils.SuccessResponse(c, rows, fiber.StatusOK)
}

// CreateRoadmap handles POST /roadmaps. The owner is userId from the body, or the
// authenticated user when the body has none.
// @Summary Create a roadmap
// @Tags Roadmaps
// @Accept json
// @Produce json
// @Param body body RoadmapInput true "Roadmap"
// @Success 201 {object} models.Roadmap
// @Failure 400 {object} utils.ErrorResponseStruct
// @Router /roadmaps [post]
func (h *RoadmapHandler) CreateRoadmap(c *fiber.Ctx) error {
	var in RoadmapInput
	if err := parseBody(c, &in); err != nil {
		return err
	}
	row := &models.Roadmap{Title: trimmed(in.Title)}
	applyRoadmapInput(row, &in)
	if row.UserID == 0 {
		if user := middleware.CurrentUser(c); user != nil {
			row.UserID = user.ID
		}
	}
	switch {
	case row.Title == "":
		return serviceError(services.NewValidationError("title", "is required"), "")
	case row.UserID == 0:
		return serviceError(services.NewValidationError("userId", "is required"), "")
	}

	ctx := c.UserContext()
	if err := h.Roadmaps.Create(ctx, row); err != nil {
		return serviceError(err, "")
	}
	middleware.RequestLogger(c).Info("Roadmap created", "roadmapId", row.ID, "userId", row.UserID)

	if !in.hasGraph() {
		return utils.SuccessResponse(c, row, fiber.StatusCreated)
	}
	roadmap, report, err := h.Graph.SaveGraph(ctx, row.ID, services.GraphPayload{Nodes: in.Nodes, Edges: in.Edges})
	if err != nil {
		return serviceError(err, "Roadmap not found")
	}
	return utils.SuccessResponse(c, GraphSaveResponse{Roadmap: roadmap, Sync: report}, fiber.StatusCreated)
}

// UpdateRoadmap handles PUT /roadmaps/:id
// @Summary Update a roadmap
// @Tags Roadmaps
// @Accept json
// @Produce json
// @Param id path int true "Roadmap ID"
// @Param body body RoadmapInput true "Changes"
// @Success 200 {object} models.Roadmap
// @Failure 400 {object} utils.ErrorResponseStruct
// @Failure 404 {object} utils.ErrorResponseStruct
// @Router /roadmaps/{id} [put]
func (h *RoadmapHandler) UpdateRoadmap(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	var in RoadmapInput
	if err := parseBody(c, &in); err != nil {
		return err
	}

	ctx := c.UserContext()
	row, err := h.Roadmaps.FindByID(ctx, id)
	if err != nil {
		return serviceError(err, "Roadmap not found")
	}
	if in.Title != nil {
		if row.Title = trimmed(in.Title); row.Title == "" {
			return serviceError(services.NewValidationError("title", "must not be empty"), "")
		}
	}
	applyRoadmapInput(row, &in)
	if row.UserID == 0 {
		return serviceError(services.NewValidationError("userId", "must not be empty"), "")
	}

	// the snapshot columns belong to the graph save, not to this field update
	if err := h.DB.WithContext(ctx).Model(row).
		Select("title", "description", "category_id", "skill_id", "user_id").
		Updates(row).Error; err != nil {
		return serviceError(err, "Roadmap not found")
	}

	if in.hasGraph() {
		roadmap, report, err := h.Graph.SaveGraph(ctx, id, services.GraphPayload{Nodes: in.Nodes, Edges: in.Edges})
		if err != nil {
			return serviceError(err, "Roadmap not found")
		}
		return utils.SuccessResponse(c, GraphSaveResponse{Roadmap: roadmap, Sync: report}, fiber.StatusOK)
	}

	roadmap, err := h.Graph.LoadRoadmap(ctx, id)
	if err != nil {
		return serviceError(err, "Roadmap not found")
	}
	return utils.SuccessResponse(c, roadmap, fiber.StatusOK)
}

// DeleteRoadmap handles DELETE /roadmaps/:id. Nodes, edges, tag links and
// favorites are removed by the database's cascade rules.
// @Summary Delete a roadmap
// @Tags Roadmaps
// @Param id path int true "Roadmap ID"
// @Success 200 {object} utils.DeleteResponseStruct
// @Failure 404 {object} utils.ErrorResponseStruct
// @Router /roadmaps/{id} [delete]
func (h *RoadmapHandler) DeleteRoadmap(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	if err := h.Roadmaps.Delete(c.UserContext(), id); err != nil {
		return serviceError(err, "Roadmap not found")
	}
	middleware.RequestLogger(c).Info("Roadmap deleted", "roadmapId", id)
	return deleted(c, "Roadmap", id)
}

// SaveNodesEdges handles PUT /roadmaps/:id/nodes-edges
// @Summary Save a roadmap graph
// @Description Writes the JSON snapshot and rebuilds the node and edge rows.
// @Description The sync field lists every item that did not persist.
// @Tags Roadmaps
// @Accept json
// @Produce json
// @Param id path int true "Roadmap ID"
// @Param body body services.GraphPayload true "Graph"
// @Success 200 {object} GraphSaveResponse
// @Failure 400 {object} utils.ErrorResponseStruct
// @Failure 404 {object} utils.ErrorResponseStruct
// @Router /roadmaps/{id}/nodes-edges [put]
func (h *RoadmapHandler) SaveNodesEdges(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	var payload services.GraphPayload
	if err := c.BodyParser(&payload); err != nil {
		return types.NewValidationError("Body must be an object with nodes and edges arrays")
	}

	roadmap, report, err := h.Graph.SaveGraph(c.UserContext(), id, payload)
	if err != nil {
		return serviceError(err, "Roadmap not found")
	}
	return utils.SuccessResponse(c, GraphSaveResponse{Roadmap: roadmap, Sync: report}, fiber.StatusOK)
}

// AddTag handles POST /roadmaps/:id/tags
// @Summary Tag a roadmap
// @Tags Roadmaps
// @Accept json
// @Produce json
// @Param id path int true "Roadmap ID"
// @Param body body RoadmapTagInput true "Tag"
// @Success 201 {object} models.RoadmapTag
// @Failure 400 {object} utils.ErrorResponseStruct
// @Failure 404 {object} utils.ErrorResponseStruct
// @Router /roadmaps/{id}/tags [post]
func (h *RoadmapHandler) AddTag(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	var in RoadmapTagInput
	if err := parseBody(c, &in); err != nil {
		return err
	}
	if in.TagID == 0 {
		return serviceError(services.NewValidationError("tagId", "is required"), "")
	}

	ctx := c.UserContext()
	if exists, err := h.Roadmaps.Exists(ctx, "id = ?", id); err != nil {
		return err
	} else if !exists {
		return serviceError(services.ErrNotFound, "Roadmap not found")
	}

	tags := services.NewStore[models.Tag](h.DB)
	if _, err := tags.FindByID(ctx, uint(in.TagID.Uint64())); err != nil {
		return serviceError(err, "Tag not found")
	}

	links := services.NewStore[models.RoadmapTag](h.DB)
	taken, err := links.Exists(ctx, "roadmap_id = ? AND tag_id = ?", id, in.TagID.Uint64())
	if err != nil {
		return err
	}
	if taken {
		return serviceError(services.NewDuplicateError("Roadmap %d already has tag %d", id, in.TagID.Uint64()), "")
	}

	link := &models.RoadmapTag{RoadmapID: id, TagID: uint(in.TagID.Uint64())}
	if err := links.Create(ctx, link); err != nil {
		return serviceError(err, "")
	}
	return utils.SuccessResponse(c, link, fiber.StatusCreated)
}

// RemoveTag handles DELETE /roadmaps/:id/tags/:tagId
// @Summary Untag a roadmap
// @Tags Roadmaps
// @Param id path int true "Roadmap ID"
// @Param tagId path int true "Tag ID"
// @Success 200 {object} utils.DeleteResponseStruct
// @Failure 404 {object} utils.ErrorResponseStruct
// @Router /roadmaps/{id}/tags/{tagId} [delete]
func (h *RoadmapHandler) RemoveTag(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	tagID, err := paramID(c, "tagId")
	if err != nil {
		return err
	}

	result := h.DB.WithContext(c.UserContext()).
		Where("roadmap_id = ? AND tag_id = ?", id, tagID).
		Delete(&models.RoadmapTag{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return serviceError(services.ErrNotFound, "Roadmap tag not found")
	}
	return deleted(c, "Tag link", tagID)
}

func applyRoadmapInput(row *models.Roadmap, in *RoadmapInput) {
	if in.Description != nil {
		row.Description = *in.Description
	}
	if in.CategoryID != nil {
		row.CategoryID = in.CategoryID.UintPtr()
	}
	if in.SkillID != nil {
		row.SkillID = in.SkillID.UintPtr()
	}
	if in.UserID != nil && in.UserID.Uint64() != 0 {
		row.UserID = uint(in.UserID.Uint64())
	}
}

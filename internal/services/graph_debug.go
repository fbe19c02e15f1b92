package services

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/localnerve/roadmapdb/internal/logger"
	"github.com/localnerve/roadmapdb/internal/models"
	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/hints"
)

// InspectReport compares a roadmap's JSON snapshot with its relational rows
type InspectReport struct {
	RoadmapID            uint   `json:"roadmapId"`
	NodesDataPresent     bool   `json:"nodesDataPresent"`
	EdgesDataPresent     bool   `json:"edgesDataPresent"`
	ParsedNodesCount     int    `json:"parsedNodesCount"`
	ParsedEdgesCount     int    `json:"parsedEdgesCount"`
	NodesParseError      string `json:"nodesParseError,omitempty"`
	EdgesParseError      string `json:"edgesParseError,omitempty"`
	RelationalNodesCount int64  `json:"relationalNodesCount"`
	RelationalEdgesCount int64  `json:"relationalEdgesCount"`
	NodesMatch           bool   `json:"nodesMatch"`
	EdgesMatch           bool   `json:"edgesMatch"`
	Diverged             bool   `json:"diverged"`
}

// RepairResult reports the regenerated snapshot sizes
type RepairResult struct {
	RoadmapID    uint `json:"roadmapId"`
	NodesCount   int  `json:"nodesCount"`
	EdgesCount   int  `json:"edgesCount"`
	Placeholders int  `json:"placeholders"`
}

// Position is the canvas coordinate pair in the client's node shape
type Position struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// WireNode is a node in the shape the client editor reads
type WireNode struct {
	ID       string         `json:"id"`
	Type     string         `json:"type,omitempty"`
	Position Position       `json:"position"`
	CourseID *uint          `json:"courseId,omitempty"`
	Data     datatypes.JSON `json:"data"`
}

// WireEdge is an edge in the shape the client editor reads
type WireEdge struct {
	ID           string         `json:"id"`
	Source       string         `json:"source"`
	Target       string         `json:"target"`
	SourceHandle string         `json:"sourceHandle,omitempty"`
	TargetHandle string         `json:"targetHandle,omitempty"`
	Type         string         `json:"type,omitempty"`
	Animated     bool           `json:"animated"`
	Style        datatypes.JSON `json:"style,omitempty"`
	Data         datatypes.JSON `json:"data"`
}

// GraphDebugService diagnoses and repairs snapshot/row divergence
type GraphDebugService struct {
	DB  *gorm.DB
	Log *logger.Logger
}

// NewGraphDebugService creates a GraphDebugService
func NewGraphDebugService(db *gorm.DB, log *logger.Logger) *GraphDebugService {
	return &GraphDebugService{DB: db, Log: log}
}

// Inspect reports parse status and counts of both representations. It never writes.
func (s *GraphDebugService) Inspect(ctx context.Context, roadmapID uint) (*InspectReport, error) {
	db := s.DB.WithContext(ctx).Clauses(hints.Comment("select", "roadmap-inspect")).Session(&gorm.Session{})

	var roadmap models.Roadmap
	if err := db.Select("id", "nodes_data", "edges_data").First(&roadmap, roadmapID).Error; err != nil {
		return nil, translate(err)
	}

	report := &InspectReport{RoadmapID: roadmap.ID}
	report.NodesDataPresent, report.ParsedNodesCount, report.NodesParseError = parseSnapshot(roadmap.NodesData)
	report.EdgesDataPresent, report.ParsedEdgesCount, report.EdgesParseError = parseSnapshot(roadmap.EdgesData)

	if err := db.Model(&models.Node{}).Where("roadmap_id = ?", roadmapID).Count(&report.RelationalNodesCount).Error; err != nil {
		return nil, err
	}
	if err := db.Model(&models.Edge{}).Where("roadmap_id = ?", roadmapID).Count(&report.RelationalEdgesCount).Error; err != nil {
		return nil, err
	}

	report.NodesMatch = report.NodesParseError == "" && int64(report.ParsedNodesCount) == report.RelationalNodesCount
	report.EdgesMatch = report.EdgesParseError == "" && int64(report.ParsedEdgesCount) == report.RelationalEdgesCount
	report.Diverged = !report.NodesMatch || !report.EdgesMatch

	s.Log.Info("Roadmap inspected",
		"roadmapId", roadmapID,
		"parsedNodes", report.ParsedNodesCount, "relationalNodes", report.RelationalNodesCount,
		"parsedEdges", report.ParsedEdgesCount, "relationalEdges", report.RelationalEdgesCount,
		"diverged", report.Diverged)

	return report, nil
}

// parseSnapshot returns presence, element count and parse error of one snapshot column
func parseSnapshot(text *models.Text) (bool, int, string) {
	if text == nil || strings.TrimSpace(text.String()) == "" {
		return false, 0, ""
	}
	var items []json.RawMessage
	if err := json.Unmarshal([]byte(text.String()), &items); err != nil {
		return true, 0, err.Error()
	}
	return true, len(items), ""
}

// Repair regenerates both snapshot columns from the Node and Edge rows.
// Rows whose stored JSON does not parse get a placeholder instead of aborting.
func (s *GraphDebugService) Repair(ctx context.Context, roadmapID uint) (*RepairResult, error) {
	result := &RepairResult{RoadmapID: roadmapID}

	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var exists int64
		if err := tx.Model(&models.Roadmap{}).Where("id = ?", roadmapID).Count(&exists).Error; err != nil {
			return err
		}
		if exists == 0 {
			return ErrNotFound
		}

		var nodes []models.Node
		if err := tx.Where("roadmap_id = ?", roadmapID).Order("id ASC").Find(&nodes).Error; err != nil {
			return err
		}
		var edges []models.Edge
		if err := tx.Where("roadmap_id = ?", roadmapID).Order("id ASC").Find(&edges).Error; err != nil {
			return err
		}

		wireNodes := make([]WireNode, 0, len(nodes))
		for _, n := range nodes {
			data, ok := jsonOrPlaceholder(n.Data)
			if !ok {
				result.Placeholders++
				s.Log.Warn("Node data replaced with placeholder", "roadmapId", roadmapID, "nodeId", n.NodeIdentifier)
			}
			wireNodes = append(wireNodes, WireNode{
				ID:       n.NodeIdentifier,
				Type:     n.Type,
				Position: Position{X: n.PositionX, Y: n.PositionY},
				CourseID: n.CourseID,
				Data:     data,
			})
		}

		wireEdges := make([]WireEdge, 0, len(edges))
		for _, e := range edges {
			data, ok := jsonOrPlaceholder(e.Data)
			if !ok {
				result.Placeholders++
				s.Log.Warn("Edge data replaced with placeholder", "roadmapId", roadmapID, "edgeId", e.EdgeIdentifier)
			}
			style, ok := jsonOrPlaceholder(e.Style)
			if !ok {
				result.Placeholders++
				s.Log.Warn("Edge style replaced with placeholder", "roadmapId", roadmapID, "edgeId", e.EdgeIdentifier)
			}
			wireEdges = append(wireEdges, WireEdge{
				ID:           e.EdgeIdentifier,
				Source:       e.Source,
				Target:       e.Target,
				SourceHandle: e.SourceHandle,
				TargetHandle: e.TargetHandle,
				Type:         e.Type,
				Animated:     e.Animated,
				Style:        style,
				Data:         data,
			})
		}

		nodesData, err := json.Marshal(wireNodes)
		if err != nil {
			return fmt.Errorf("failed to encode nodes: %w", err)
		}
		edgesData, err := json.Marshal(wireEdges)
		if err != nil {
			return fmt.Errorf("failed to encode edges: %w", err)
		}

		if err := tx.Model(&models.Roadmap{}).Where("id = ?", roadmapID).Updates(map[string]interface{}{
			"nodes_data": models.Text(nodesData),
			"edges_data": models.Text(edgesData),
		}).Error; err != nil {
			return err
		}

		result.NodesCount = len(wireNodes)
		result.EdgesCount = len(wireEdges)
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.Log.Info("Roadmap snapshot repaired",
		"roadmapId", roadmapID, "nodes", result.NodesCount, "edges", result.EdgesCount,
		"placeholders", result.Placeholders)

	return result, nil
}

// RepairAll repairs every roadmap. It stops at the first failure.
func (s *GraphDebugService) RepairAll(ctx context.Context) ([]RepairResult, error) {
	var ids []uint
	if err := s.DB.WithContext(ctx).Model(&models.Roadmap{}).Order("id ASC").Pluck("id", &ids).Error; err != nil {
		return nil, err
	}

	results := make([]RepairResult, 0, len(ids))
	for _, id := range ids {
		r, err := s.Repair(ctx, id)
		if err != nil {
			return results, fmt.Errorf("roadmap %d: %w", id, err)
		}
		results = append(results, *r)
	}
	return results, nil
}

// jsonOrPlaceholder returns stored JSON text as-is, {} for empty text, or a
// placeholder object carrying the parse error. ok is false for a placeholder.
func jsonOrPlaceholder(text models.Text) (datatypes.JSON, bool) {
	raw := strings.TrimSpace(text.String())
	if raw == "" {
		return datatypes.JSON("{}"), true
	}
	var probe interface{}
	if err := json.Unmarshal([]byte(raw), &probe); err != nil {
		placeholder, _ := json.Marshal(map[string]string{
			"label":      "Invalid data",
			"parseError": err.Error(),
		})
		return datatypes.JSON(placeholder), false
	}
	return datatypes.JSON(raw), true
}

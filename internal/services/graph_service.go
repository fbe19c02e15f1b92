package services

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/localnerve/roadmapdb/internal/config"
	"github.com/localnerve/roadmapdb/internal/logger"
	"github.com/localnerve/roadmapdb/internal/models"
	"github.com/localnerve/roadmapdb/internal/types"
	"gorm.io/gorm"
)

// GraphPayload is the client editor's {nodes, edges} submission. Items stay raw so the
// snapshot is written exactly as received and each item can fail on its own.
// A single object in place of either array is taken as a one item list.
type GraphPayload struct {
	Nodes types.FlexList[json.RawMessage] `json:"nodes" swaggertype:"array,object"`
	Edges types.FlexList[json.RawMessage] `json:"edges" swaggertype:"array,object"`
}

// SyncFailure describes one item that did not persist
type SyncFailure struct {
	Kind  string `json:"kind"`
	Index int    `json:"index"`
	ID    string `json:"id,omitempty"`
	Error string `json:"error"`
}

// SyncReport enumerates what a save did, so partial failure is visible to the caller
type SyncReport struct {
	Mode            string        `json:"mode"`
	SnapshotWritten bool          `json:"snapshotWritten"`
	SnapshotError   string        `json:"snapshotError,omitempty"`
	NodesReceived   int           `json:"nodesReceived"`
	NodesDeleted    int64         `json:"nodesDeleted"`
	NodesCreated    int           `json:"nodesCreated"`
	EdgesReceived   int           `json:"edgesReceived"`
	EdgesDeleted    int64         `json:"edgesDeleted"`
	EdgesCreated    int           `json:"edgesCreated"`
	Failures        []SyncFailure `json:"failures"`
}

// OK reports whether every item persisted
func (r *SyncReport) OK() bool {
	return r.SnapshotError == "" && len(r.Failures) == 0
}

// GraphService keeps a roadmap's JSON snapshot and its Node/Edge rows in step
type GraphService struct {
	DB   *gorm.DB
	Mode string
	Log  *logger.Logger
}

// NewGraphService creates a GraphService. An empty mode means best-effort.
func NewGraphService(db *gorm.DB, mode string, log *logger.Logger) *GraphService {
	if mode == "" {
		mode = config.GraphSyncBestEffort
	}
	return &GraphService{DB: db, Mode: mode, Log: log}
}

type wirePosition struct {
	X *types.FlexFloat64 `json:"x"`
	Y *types.FlexFloat64 `json:"y"`
}

type wireNodeIn struct {
	ID        types.FlexString   `json:"id"`
	Type      string             `json:"type"`
	Position  *wirePosition      `json:"position"`
	PositionX *types.FlexFloat64 `json:"positionX"`
	PositionY *types.FlexFloat64 `json:"positionY"`
	CourseID  types.FlexUint64   `json:"courseId"`
	Data      json.RawMessage    `json:"data"`
}

type wireEdgeIn struct {
	ID           types.FlexString `json:"id"`
	Source       types.FlexString `json:"source"`
	Target       types.FlexString `json:"target"`
	SourceHandle *string          `json:"sourceHandle"`
	TargetHandle *string          `json:"targetHandle"`
	Type         string           `json:"type"`
	Animated     bool             `json:"animated"`
	Style        json.RawMessage  `json:"style"`
	Data         json.RawMessage  `json:"data"`
}

// LoadRoadmap reads a roadmap with its relational graph. Nodes carry their course.
func (s *GraphService) LoadRoadmap(ctx context.Context, id uint) (*models.Roadmap, error) {
	var roadmap models.Roadmap
	err := s.DB.WithContext(ctx).
		Preload("Category").
		Preload("Skill").
		Preload("User").
		Preload("Tags.Tag").
		Preload("Nodes", func(db *gorm.DB) *gorm.DB { return db.Order("id ASC") }).
		Preload("Nodes.Course").
		Preload("Edges", func(db *gorm.DB) *gorm.DB { return db.Order("id ASC") }).
		First(&roadmap, id).Error
	if err != nil {
		return nil, translate(err)
	}
	return &roadmap, nil
}

// SaveGraph writes the snapshot columns, then rebuilds the Node and Edge rows.
// In best-effort mode per item failures are recorded and skipped. In atomic mode the
// whole save runs in one transaction and the first failure rolls it back.
func (s *GraphService) SaveGraph(ctx context.Context, roadmapID uint, payload GraphPayload) (*models.Roadmap, *SyncReport, error) {
	report := &SyncReport{
		Mode:          s.Mode,
		NodesReceived: len(payload.Nodes),
		EdgesReceived: len(payload.Edges),
		Failures:      []SyncFailure{},
	}
	log := s.Log.With("roadmapId", roadmapID, "mode", s.Mode)
	log.Info("Graph save received", "nodes", report.NodesReceived, "edges", report.EdgesReceived)

	var exists int64
	if err := s.DB.WithContext(ctx).Model(&models.Roadmap{}).Where("id = ?", roadmapID).Count(&exists).Error; err != nil {
		return nil, nil, err
	}
	if exists == 0 {
		return nil, nil, ErrNotFound
	}

	run := func(tx *gorm.DB) error {
		gs := &graphSync{
			tx:        tx,
			roadmapID: roadmapID,
			atomic:    s.Mode == config.GraphSyncAtomic,
			report:    report,
			log:       log,
		}
		return gs.run(payload)
	}

	var err error
	if s.Mode == config.GraphSyncAtomic {
		err = s.DB.WithContext(ctx).Transaction(run)
	} else {
		err = run(s.DB.WithContext(ctx))
	}
	if err != nil {
		log.Error("Graph save failed", "error", err)
		return nil, report, err
	}

	log.Info("Graph save finished",
		"nodesDeleted", report.NodesDeleted, "nodesCreated", report.NodesCreated,
		"edgesDeleted", report.EdgesDeleted, "edgesCreated", report.EdgesCreated,
		"failures", len(report.Failures))

	roadmap, err := s.LoadRoadmap(ctx, roadmapID)
	if err != nil {
		return nil, report, err
	}
	return roadmap, report, nil
}

// graphSync carries the state of one SaveGraph call
type graphSync struct {
	tx        *gorm.DB
	roadmapID uint
	atomic    bool
	report    *SyncReport
	log       *logger.Logger
}

func (g *graphSync) run(payload GraphPayload) error {
	if err := g.writeSnapshot(payload); err != nil {
		return err
	}

	nodesRebuilt := len(payload.Nodes) > 0
	if nodesRebuilt {
		if err := g.rebuildNodes(payload.Nodes); err != nil {
			return err
		}
	}

	// Old edges would dangle once the nodes they reference are replaced
	if len(payload.Edges) > 0 || nodesRebuilt {
		if err := g.rebuildEdges(payload.Edges); err != nil {
			return err
		}
	}
	return nil
}

// fail records an item failure. It returns a non-nil error only in atomic mode.
func (g *graphSync) fail(kind string, index int, id string, err error) error {
	g.report.Failures = append(g.report.Failures, SyncFailure{Kind: kind, Index: index, ID: id, Error: err.Error()})
	g.log.Warn("Graph item skipped", "kind", kind, "index", index, "id", id, "error", err)
	if !g.atomic {
		return nil
	}
	if IsValidation(err) || errors.Is(err, ErrDuplicate) {
		return fmt.Errorf("%s %d (%s): %w", kind, index, id, err)
	}
	return fmt.Errorf("%s %d (%s): %v", kind, index, id, err)
}

func (g *graphSync) writeSnapshot(payload GraphPayload) error {
	nodesData, err := marshalArray(payload.Nodes)
	if err == nil {
		var edgesData string
		edgesData, err = marshalArray(payload.Edges)
		if err == nil {
			err = g.tx.Model(&models.Roadmap{}).Where("id = ?", g.roadmapID).Updates(map[string]interface{}{
				"nodes_data": models.Text(nodesData),
				"edges_data": models.Text(edgesData),
			}).Error
		}
	}

	if err != nil {
		g.report.SnapshotError = err.Error()
		g.log.Error("Snapshot write failed", "error", err)
		if g.atomic {
			return fmt.Errorf("snapshot write failed: %w", err)
		}
		return nil
	}

	g.report.SnapshotWritten = true
	g.log.Debug("Snapshot written")
	return nil
}

func (g *graphSync) rebuildNodes(items []json.RawMessage) error {
	result := g.tx.Where("roadmap_id = ?", g.roadmapID).Delete(&models.Node{})
	if result.Error != nil {
		return fmt.Errorf("failed to clear nodes: %w", result.Error)
	}
	g.report.NodesDeleted = result.RowsAffected
	g.log.Debug("Nodes cleared", "count", result.RowsAffected)

	for i, raw := range items {
		node, err := decodeNode(raw)
		if err != nil {
			if ferr := g.fail("node", i, nodeID(raw), err); ferr != nil {
				return ferr
			}
			continue
		}
		node.RoadmapID = g.roadmapID

		if err := translate(g.tx.Create(node).Error); err != nil {
			if ferr := g.fail("node", i, node.NodeIdentifier, err); ferr != nil {
				return ferr
			}
			continue
		}
		g.report.NodesCreated++
		g.log.Debug("Node created", "index", i, "id", node.NodeIdentifier)
	}
	return nil
}

func (g *graphSync) rebuildEdges(items []json.RawMessage) error {
	result := g.tx.Where("roadmap_id = ?", g.roadmapID).Delete(&models.Edge{})
	if result.Error != nil {
		return fmt.Errorf("failed to clear edges: %w", result.Error)
	}
	g.report.EdgesDeleted = result.RowsAffected
	g.log.Debug("Edges cleared", "count", result.RowsAffected)

	if len(items) == 0 {
		return nil
	}

	var identifiers []string
	if err := g.tx.Model(&models.Node{}).Where("roadmap_id = ?", g.roadmapID).Pluck("node_identifier", &identifiers).Error; err != nil {
		return fmt.Errorf("failed to read node identifiers: %w", err)
	}
	known := make(map[string]struct{}, len(identifiers))
	for _, id := range identifiers {
		known[id] = struct{}{}
	}

	for i, raw := range items {
		edge, err := decodeEdge(raw, known)
		if err != nil {
			if ferr := g.fail("edge", i, nodeID(raw), err); ferr != nil {
				return ferr
			}
			continue
		}
		edge.RoadmapID = g.roadmapID

		if err := translate(g.tx.Create(edge).Error); err != nil {
			if ferr := g.fail("edge", i, edge.EdgeIdentifier, err); ferr != nil {
				return ferr
			}
			continue
		}
		g.report.EdgesCreated++
		g.log.Debug("Edge created", "index", i, "id", edge.EdgeIdentifier,
			"sourceHandle", edge.SourceHandle, "targetHandle", edge.TargetHandle)
	}
	return nil
}

// decodeNode converts one wire node into a row
func decodeNode(raw json.RawMessage) (*models.Node, error) {
	var in wireNodeIn
	if err := json.Unmarshal(raw, &in); err != nil {
		return nil, NewValidationError("node", "malformed node: %v", err)
	}
	if in.ID == "" {
		return nil, NewValidationError("id", "node id is required")
	}

	node := &models.Node{
		NodeIdentifier: in.ID.String(),
		Type:           in.Type,
		Data:           models.Text(serializeData(in.Data)),
	}

	// position.{x,y} wins over the flat fields, per axis
	if in.PositionX != nil {
		node.PositionX = in.PositionX.Float64()
	}
	if in.PositionY != nil {
		node.PositionY = in.PositionY.Float64()
	}
	if in.Position != nil {
		if in.Position.X != nil {
			node.PositionX = in.Position.X.Float64()
		}
		if in.Position.Y != nil {
			node.PositionY = in.Position.Y.Float64()
		}
	}

	courseID := in.CourseID
	if courseID == 0 {
		courseID = dataCourseID(node.Data.String())
	}
	node.CourseID = courseID.UintPtr()

	return node, nil
}

// decodeEdge converts one wire edge into a row with normalized handles
func decodeEdge(raw json.RawMessage, known map[string]struct{}) (*models.Edge, error) {
	var in wireEdgeIn
	if err := json.Unmarshal(raw, &in); err != nil {
		return nil, NewValidationError("edge", "malformed edge: %v", err)
	}
	switch {
	case in.ID == "":
		return nil, NewValidationError("id", "edge id is required")
	case in.Source == "":
		return nil, NewValidationError("source", "edge source is required")
	case in.Target == "":
		return nil, NewValidationError("target", "edge target is required")
	}
	if _, ok := known[in.Source.String()]; !ok {
		return nil, NewValidationError("source", "node %q does not exist in this roadmap", in.Source)
	}
	if _, ok := known[in.Target.String()]; !ok {
		return nil, NewValidationError("target", "node %q does not exist in this roadmap", in.Target)
	}

	edge := &models.Edge{
		EdgeIdentifier: in.ID.String(),
		Source:         in.Source.String(),
		Target:         in.Target.String(),
		SourceHandle:   NormalizeSourceHandle(deref(in.SourceHandle)),
		TargetHandle:   NormalizeTargetHandle(deref(in.TargetHandle)),
		Type:           in.Type,
		Animated:       in.Animated,
		Style:          models.Text(serializeData(in.Style)),
	}

	// The client reads handles from data, so it carries the normalized values too
	data := dataObject(in.Data)
	data["sourceHandle"] = edge.SourceHandle
	data["targetHandle"] = edge.TargetHandle
	encoded, err := json.Marshal(data)
	if err != nil {
		return nil, fmt.Errorf("failed to encode edge data: %w", err)
	}
	edge.Data = models.Text(encoded)

	return edge, nil
}

// serializeData stores objects as compact JSON text, keeps strings that already hold
// JSON, quotes any other string, and defaults an absent value to {}.
func serializeData(raw json.RawMessage) string {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || string(raw) == "null" {
		return "{}"
	}
	if raw[0] == '"' {
		var s string
		if err := json.Unmarshal(raw, &s); err == nil {
			if json.Valid([]byte(s)) {
				return s
			}
			return string(raw)
		}
	}
	var buf bytes.Buffer
	if err := json.Compact(&buf, raw); err != nil {
		return string(raw)
	}
	return buf.String()
}

// dataObject returns raw as an object, looking inside JSON strings, or an empty object
func dataObject(raw json.RawMessage) map[string]interface{} {
	obj := map[string]interface{}{}
	if err := json.Unmarshal([]byte(serializeData(raw)), &obj); err != nil || obj == nil {
		return map[string]interface{}{}
	}
	return obj
}

func dataCourseID(data string) types.FlexUint64 {
	var probe struct {
		CourseID types.FlexUint64 `json:"courseId"`
	}
	if err := json.Unmarshal([]byte(data), &probe); err != nil {
		return 0
	}
	return probe.CourseID
}

// nodeID pulls a best-effort id out of an item that failed to decode, for the report
func nodeID(raw json.RawMessage) string {
	var probe struct {
		ID types.FlexString `json:"id"`
	}
	if err := json.Unmarshal(raw, &probe); err != nil {
		return ""
	}
	return probe.ID.String()
}

func marshalArray(items []json.RawMessage) (string, error) {
	if items == nil {
		items = []json.RawMessage{}
	}
	b, err := json.Marshal(items)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

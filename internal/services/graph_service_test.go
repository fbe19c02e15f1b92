package services

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/localnerve/roadmapdb/internal/config"
	"github.com/localnerve/roadmapdb/internal/logger"
	"github.com/localnerve/roadmapdb/internal/models"
	"github.com/localnerve/roadmapdb/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func rawItems(t *testing.T, items ...string) []json.RawMessage {
	t.Helper()
	out := make([]json.RawMessage, 0, len(items))
	for _, item := range items {
		require.True(t, json.Valid([]byte(item)), "invalid fixture %s", item)
		out = append(out, json.RawMessage(item))
	}
	return out
}

func setupGraph(t *testing.T, mode string) (*gorm.DB, *GraphService, *models.Roadmap) {
	t.Helper()
	db := testutil.NewTestDB(t)
	owner := testutil.CreateUser(t, db, "owner", false)
	roadmap := testutil.CreateRoadmap(t, db, "Backend", owner.ID)
	return db, NewGraphService(db, mode, logger.Nop()), roadmap
}

func samplePayload(t *testing.T, courseID uint) GraphPayload {
	t.Helper()
	course, _ := json.Marshal(courseID)
	return GraphPayload{
		Nodes: rawItems(t,
			`{"id":"n1","type":"course","position":{"x":10,"y":20},"data":{"label":"Go","courseId":`+string(course)+`}}`,
			`{"id":"n2","positionX":"5.5","positionY":7,"data":"plain label"}`,
			`{"id":"n3"}`,
		),
		Edges: rawItems(t,
			`{"id":"e1","source":"n1","target":"n2","sourceHandle":"bottom","targetHandle":"bottom"}`,
			`{"id":"e2","source":"n2","target":"n3","targetHandle":"top-source","data":{"label":"next"}}`,
		),
	}
}

func TestSaveGraphWritesBothRepresentations(t *testing.T) {
	db, svc, roadmap := setupGraph(t, config.GraphSyncBestEffort)
	course := testutil.CreateCourse(t, db, "GO-101", nil)

	saved, report, err := svc.SaveGraph(context.Background(), roadmap.ID, samplePayload(t, course.ID))
	require.NoError(t, err)
	require.NotNil(t, saved)

	assert.True(t, report.OK())
	assert.True(t, report.SnapshotWritten)
	assert.Equal(t, 3, report.NodesCreated)
	assert.Equal(t, 2, report.EdgesCreated)
	assert.Empty(t, report.Failures)

	require.Len(t, saved.Nodes, 3)
	n1 := saved.Nodes[0]
	assert.Equal(t, "n1", n1.NodeIdentifier)
	assert.Equal(t, "course", n1.Type)
	assert.Equal(t, 10.0, n1.PositionX)
	assert.Equal(t, 20.0, n1.PositionY)
	require.NotNil(t, n1.CourseID)
	assert.Equal(t, course.ID, *n1.CourseID)
	require.NotNil(t, n1.Course)
	assert.Equal(t, "GO-101", n1.Course.Code)
	assert.JSONEq(t, `{"label":"Go","courseId":`+jsonNumber(course.ID)+`}`, n1.Data.String())

	n2 := saved.Nodes[1]
	assert.Equal(t, 5.5, n2.PositionX)
	assert.Equal(t, 7.0, n2.PositionY)
	assert.Equal(t, `"plain label"`, n2.Data.String())
	assert.Nil(t, n2.CourseID)

	n3 := saved.Nodes[2]
	assert.Zero(t, n3.PositionX)
	assert.Equal(t, "{}", n3.Data.String())

	require.NotNil(t, saved.NodesData)
	var snapshot []map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(saved.NodesData.String()), &snapshot))
	assert.Len(t, snapshot, 3)
	assert.Equal(t, "n1", snapshot[0]["id"])
}

func jsonNumber(v uint) string {
	b, _ := json.Marshal(v)
	return string(b)
}

func TestSaveGraphNormalizesEdgeHandles(t *testing.T) {
	db, svc, roadmap := setupGraph(t, config.GraphSyncBestEffort)

	_, _, err := svc.SaveGraph(context.Background(), roadmap.ID, samplePayload(t, 0))
	require.NoError(t, err)

	var edges []models.Edge
	require.NoError(t, db.Where("roadmap_id = ?", roadmap.ID).Order("id ASC").Find(&edges).Error)
	require.Len(t, edges, 2)

	assert.Equal(t, "bottom-source", edges[0].SourceHandle)
	assert.Equal(t, "bottom-target", edges[0].TargetHandle)
	assert.Equal(t, "default-source", edges[1].SourceHandle)
	assert.Equal(t, "top", edges[1].TargetHandle)

	var data map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(edges[1].Data.String()), &data))
	assert.Equal(t, "next", data["label"])
	assert.Equal(t, "default-source", data["sourceHandle"])
	assert.Equal(t, "top", data["targetHandle"])
}

func TestSaveGraphIsIdempotent(t *testing.T) {
	db, svc, roadmap := setupGraph(t, config.GraphSyncBestEffort)
	payload := samplePayload(t, 0)
	ctx := context.Background()

	type nodeRow struct {
		NodeIdentifier string
		PositionX      float64
		PositionY      float64
		Data           string
	}
	type edgeRow struct {
		EdgeIdentifier, Source, Target, SourceHandle, TargetHandle, Data string
	}
	snapshot := func() ([]nodeRow, []edgeRow) {
		var nodes []nodeRow
		var edges []edgeRow
		require.NoError(t, db.Model(&models.Node{}).Where("roadmap_id = ?", roadmap.ID).Order("node_identifier").Find(&nodes).Error)
		require.NoError(t, db.Model(&models.Edge{}).Where("roadmap_id = ?", roadmap.ID).Order("edge_identifier").Find(&edges).Error)
		return nodes, edges
	}

	_, _, err := svc.SaveGraph(ctx, roadmap.ID, payload)
	require.NoError(t, err)
	firstNodes, firstEdges := snapshot()

	_, report, err := svc.SaveGraph(ctx, roadmap.ID, payload)
	require.NoError(t, err)
	secondNodes, secondEdges := snapshot()

	assert.Equal(t, firstNodes, secondNodes)
	assert.Equal(t, firstEdges, secondEdges)
	assert.EqualValues(t, 3, report.NodesDeleted)
	assert.EqualValues(t, 2, report.EdgesDeleted)
}

func TestSaveGraphBestEffortSkipsBadItems(t *testing.T) {
	db, svc, roadmap := setupGraph(t, config.GraphSyncBestEffort)
	payload := GraphPayload{
		Nodes: rawItems(t, `{"id":"a"}`, `{"label":"missing id"}`, `{"id":"b"}`, `{"id":"a"}`),
		Edges: rawItems(t,
			`{"id":"ok","source":"a","target":"b"}`,
			`{"id":"dangling","source":"a","target":"ghost"}`,
			`{"source":"a","target":"b"}`,
		),
	}

	saved, report, err := svc.SaveGraph(context.Background(), roadmap.ID, payload)
	require.NoError(t, err)

	assert.False(t, report.OK())
	assert.Equal(t, 4, report.NodesReceived)
	assert.Equal(t, 2, report.NodesCreated)
	assert.Equal(t, 1, report.EdgesCreated)
	require.Len(t, report.Failures, 4)
	assert.Equal(t, SyncFailure{Kind: "node", Index: 1, Error: "id: node id is required"}, report.Failures[0])
	assert.Equal(t, "node", report.Failures[1].Kind)
	assert.Equal(t, 3, report.Failures[1].Index)
	assert.Equal(t, "edge", report.Failures[2].Kind)
	assert.Equal(t, "dangling", report.Failures[2].ID)
	assert.Contains(t, report.Failures[2].Error, "ghost")

	assert.Len(t, saved.Nodes, 2)
	assert.Len(t, saved.Edges, 1)
	assert.EqualValues(t, 2, testutil.CountRows(t, db, &models.Node{}, roadmap.ID))

	// the snapshot still holds exactly what was sent
	var nodes []json.RawMessage
	require.NoError(t, json.Unmarshal([]byte(saved.NodesData.String()), &nodes))
	assert.Len(t, nodes, 4)
}

func TestSaveGraphAtomicRollsBack(t *testing.T) {
	db, svc, roadmap := setupGraph(t, config.GraphSyncAtomic)
	ctx := context.Background()

	_, _, err := svc.SaveGraph(ctx, roadmap.ID, GraphPayload{Nodes: rawItems(t, `{"id":"keep"}`)})
	require.NoError(t, err)

	bad := GraphPayload{
		Nodes: rawItems(t, `{"id":"x"}`, `{"id":"y"}`),
		Edges: rawItems(t, `{"id":"e","source":"x","target":"nowhere"}`),
	}
	_, report, err := svc.SaveGraph(ctx, roadmap.ID, bad)
	require.Error(t, err)
	assert.True(t, IsValidation(err))
	require.NotNil(t, report)
	assert.Len(t, report.Failures, 1)

	var identifiers []string
	require.NoError(t, db.Model(&models.Node{}).Where("roadmap_id = ?", roadmap.ID).Pluck("node_identifier", &identifiers).Error)
	assert.Equal(t, []string{"keep"}, identifiers)

	var reloaded models.Roadmap
	require.NoError(t, db.First(&reloaded, roadmap.ID).Error)
	assert.JSONEq(t, `[{"id":"keep"}]`, reloaded.NodesData.String())
}

func TestSaveGraphRebuildsEdgesWhenNodesChange(t *testing.T) {
	db, svc, roadmap := setupGraph(t, config.GraphSyncBestEffort)
	ctx := context.Background()

	_, _, err := svc.SaveGraph(ctx, roadmap.ID, samplePayload(t, 0))
	require.NoError(t, err)

	_, report, err := svc.SaveGraph(ctx, roadmap.ID, GraphPayload{Nodes: rawItems(t, `{"id":"solo"}`)})
	require.NoError(t, err)
	assert.EqualValues(t, 2, report.EdgesDeleted)
	assert.Zero(t, testutil.CountRows(t, db, &models.Edge{}, roadmap.ID))
}

func TestSaveGraphUnknownRoadmap(t *testing.T) {
	_, svc, _ := setupGraph(t, config.GraphSyncBestEffort)

	_, _, err := svc.SaveGraph(context.Background(), 9999, GraphPayload{})
	assert.True(t, errors.Is(err, ErrNotFound))
}

func TestDeleteRoadmapCascadesGraph(t *testing.T) {
	db, svc, roadmap := setupGraph(t, config.GraphSyncBestEffort)

	_, _, err := svc.SaveGraph(context.Background(), roadmap.ID, samplePayload(t, 0))
	require.NoError(t, err)
	require.EqualValues(t, 3, testutil.CountRows(t, db, &models.Node{}, roadmap.ID))

	require.NoError(t, NewStore[models.Roadmap](db).Delete(context.Background(), roadmap.ID))

	assert.Zero(t, testutil.CountRows(t, db, &models.Node{}, roadmap.ID))
	assert.Zero(t, testutil.CountRows(t, db, &models.Edge{}, roadmap.ID))
}

func TestSerializeData(t *testing.T) {
	cases := map[string]string{
		``:                    `{}`,
		`null`:                `{}`,
		`{ "a" : 1 }`:         `{"a":1}`,
		`"{\"label\":\"x\"}"`: `{"label":"x"}`,
		`"just text"`:         `"just text"`,
		`[1, 2]`:              `[1,2]`,
	}
	for in, want := range cases {
		assert.Equal(t, want, serializeData(json.RawMessage(in)), "input %s", in)
	}
}

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
)

func TestInspectInSync(t *testing.T) {
	db, svc, roadmap := setupGraph(t, config.GraphSyncBestEffort)
	_, _, err := svc.SaveGraph(context.Background(), roadmap.ID, samplePayload(t, 0))
	require.NoError(t, err)

	report, err := NewGraphDebugService(db, logger.Nop()).Inspect(context.Background(), roadmap.ID)
	require.NoError(t, err)

	assert.True(t, report.NodesDataPresent)
	assert.Equal(t, 3, report.ParsedNodesCount)
	assert.Equal(t, 2, report.ParsedEdgesCount)
	assert.EqualValues(t, 3, report.RelationalNodesCount)
	assert.EqualValues(t, 2, report.RelationalEdgesCount)
	assert.True(t, report.NodesMatch)
	assert.True(t, report.EdgesMatch)
	assert.False(t, report.Diverged)
}

func TestInspectDetectsInvalidSnapshot(t *testing.T) {
	db := testutil.NewTestDB(t)
	owner := testutil.CreateUser(t, db, "owner", false)
	roadmap := testutil.CreateRoadmap(t, db, "Broken", owner.ID)
	testutil.CreateNode(t, db, roadmap.ID, "n1", `{"label":"one"}`)
	testutil.CreateNode(t, db, roadmap.ID, "n2", `{"label":"two"}`)
	require.NoError(t, db.Model(&models.Roadmap{}).Where("id = ?", roadmap.ID).
		Update("nodes_data", models.Text(`[{"id":"n1"`)).Error)

	report, err := NewGraphDebugService(db, logger.Nop()).Inspect(context.Background(), roadmap.ID)
	require.NoError(t, err)

	assert.True(t, report.NodesDataPresent)
	assert.NotEmpty(t, report.NodesParseError)
	assert.Zero(t, report.ParsedNodesCount)
	assert.EqualValues(t, 2, report.RelationalNodesCount)
	assert.False(t, report.NodesMatch)
	assert.True(t, report.Diverged)

	// an empty edges column is absent, not an error
	assert.False(t, report.EdgesDataPresent)
	assert.Empty(t, report.EdgesParseError)
	assert.True(t, report.EdgesMatch)

	// inspection never writes
	var reloaded models.Roadmap
	require.NoError(t, db.First(&reloaded, roadmap.ID).Error)
	assert.Equal(t, `[{"id":"n1"`, reloaded.NodesData.String())
}

func TestInspectRejectsNonArraySnapshot(t *testing.T) {
	db := testutil.NewTestDB(t)
	owner := testutil.CreateUser(t, db, "owner", false)
	roadmap := testutil.CreateRoadmap(t, db, "Object", owner.ID)
	require.NoError(t, db.Model(&models.Roadmap{}).Where("id = ?", roadmap.ID).
		Update("edges_data", models.Text(`{"id":"e1"}`)).Error)

	report, err := NewGraphDebugService(db, logger.Nop()).Inspect(context.Background(), roadmap.ID)
	require.NoError(t, err)
	assert.NotEmpty(t, report.EdgesParseError)
	assert.True(t, report.Diverged)
}

func TestRepairRebuildsSnapshotFromRows(t *testing.T) {
	db := testutil.NewTestDB(t)
	owner := testutil.CreateUser(t, db, "owner", false)
	roadmap := testutil.CreateRoadmap(t, db, "Repair me", owner.ID)
	testutil.CreateNode(t, db, roadmap.ID, "n1", `{"label":"one"}`)
	testutil.CreateNode(t, db, roadmap.ID, "n2", `not json`)
	require.NoError(t, db.Create(&models.Edge{
		RoadmapID:      roadmap.ID,
		EdgeIdentifier: "e1",
		Source:         "n1",
		Target:         "n2",
		SourceHandle:   "default-source",
		TargetHandle:   "default",
		Data:           `{"label":"link"}`,
	}).Error)
	require.NoError(t, db.Model(&models.Roadmap{}).Where("id = ?", roadmap.ID).
		Update("nodes_data", models.Text(`garbage`)).Error)

	debug := NewGraphDebugService(db, logger.Nop())
	result, err := debug.Repair(context.Background(), roadmap.ID)
	require.NoError(t, err)

	assert.Equal(t, 2, result.NodesCount)
	assert.Equal(t, 1, result.EdgesCount)
	assert.Equal(t, 1, result.Placeholders)

	var reloaded models.Roadmap
	require.NoError(t, db.First(&reloaded, roadmap.ID).Error)

	var nodes []map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(reloaded.NodesData.String()), &nodes))
	require.Len(t, nodes, 2)
	assert.Equal(t, "n1", nodes[0]["id"])
	assert.Equal(t, map[string]interface{}{"x": 0.0, "y": 0.0}, nodes[0]["position"])
	assert.Equal(t, "one", nodes[0]["data"].(map[string]interface{})["label"])

	placeholder := nodes[1]["data"].(map[string]interface{})
	assert.Equal(t, "Invalid data", placeholder["label"])
	assert.NotEmpty(t, placeholder["parseError"])

	var edges []map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(reloaded.EdgesData.String()), &edges))
	require.Len(t, edges, 1)
	assert.Equal(t, "e1", edges[0]["id"])
	assert.Equal(t, "default-source", edges[0]["sourceHandle"])

	report, err := debug.Inspect(context.Background(), roadmap.ID)
	require.NoError(t, err)
	assert.False(t, report.Diverged)
}

func TestRepairAll(t *testing.T) {
	db := testutil.NewTestDB(t)
	owner := testutil.CreateUser(t, db, "owner", false)
	first := testutil.CreateRoadmap(t, db, "First", owner.ID)
	second := testutil.CreateRoadmap(t, db, "Second", owner.ID)
	testutil.CreateNode(t, db, second.ID, "only", `{}`)

	results, err := NewGraphDebugService(db, logger.Nop()).RepairAll(context.Background())
	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.Equal(t, RepairResult{RoadmapID: first.ID}, results[0])
	assert.Equal(t, RepairResult{RoadmapID: second.ID, NodesCount: 1}, results[1])

	var reloaded models.Roadmap
	require.NoError(t, db.First(&reloaded, first.ID).Error)
	assert.Equal(t, "[]", reloaded.NodesData.String())
}

func TestDebugUnknownRoadmap(t *testing.T) {
	debug := NewGraphDebugService(testutil.NewTestDB(t), logger.Nop())

	_, err := debug.Inspect(context.Background(), 404)
	assert.True(t, errors.Is(err, ErrNotFound))

	_, err = debug.Repair(context.Background(), 404)
	assert.True(t, errors.Is(err, ErrNotFound))
}

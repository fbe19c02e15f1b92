package commands

import (
	"testing"

	"github.com/localnerve/roadmapdb/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadSchema(t *testing.T) {
	tables, err := readSchema(testutil.NewTestDB(t))
	require.NoError(t, err)

	byName := map[string]TableSchema{}
	for _, table := range tables {
		byName[table.Name] = table
	}
	for _, name := range []string{"users", "roadmaps", "nodes", "edges", "favorites", "user_progress"} {
		assert.Contains(t, byName, name)
	}

	var columns []string
	for _, col := range byName["nodes"].Columns {
		columns = append(columns, col.Name)
	}
	assert.Contains(t, columns, "node_identifier")
	assert.Contains(t, columns, "position_x")
}

func TestParseRoadmapID(t *testing.T) {
	id, err := parseRoadmapID("42")
	require.NoError(t, err)
	assert.EqualValues(t, 42, id)

	for _, bad := range []string{"0", "-1", "abc", ""} {
		_, err := parseRoadmapID(bad)
		assert.Error(t, err, bad)
	}
}

func TestSnapshotCell(t *testing.T) {
	assert.Equal(t, "empty", snapshotCell(false, 0, ""))
	assert.Equal(t, "invalid", snapshotCell(true, 0, "unexpected end of JSON input"))
	assert.Equal(t, "3", snapshotCell(true, 3, ""))
}

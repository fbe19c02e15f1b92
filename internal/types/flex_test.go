package types

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFlexUint64(t *testing.T) {
	cases := map[string]uint64{
		`42`:    42,
		`"42"`:  42,
		`""`:    0,
		`null`:  0,
		`" 7 "`: 7,
		`3.0`:   3,
		`"0"`:   0,
	}
	for in, want := range cases {
		var f FlexUint64
		require.NoError(t, json.Unmarshal([]byte(in), &f), in)
		assert.Equal(t, want, f.Uint64(), in)
	}

	for _, bad := range []string{`"abc"`, `-1`, `1.5`, `true`, `{}`} {
		var f FlexUint64
		assert.Error(t, json.Unmarshal([]byte(bad), &f), bad)
	}
}

func TestFlexUint64UintPtr(t *testing.T) {
	assert.Nil(t, FlexUint64(0).UintPtr())
	if p := FlexUint64(9).UintPtr(); assert.NotNil(t, p) {
		assert.Equal(t, uint(9), *p)
	}
}

func TestFlexFloat64(t *testing.T) {
	var body struct {
		A FlexFloat64 `json:"a"`
		B FlexFloat64 `json:"b"`
		C FlexFloat64 `json:"c"`
		D FlexFloat64 `json:"d"`
	}
	require.NoError(t, json.Unmarshal([]byte(`{"a":10.5,"b":"20","c":null,"d":""}`), &body))
	assert.Equal(t, 10.5, body.A.Float64())
	assert.Equal(t, 20.0, body.B.Float64())
	assert.Zero(t, body.C.Float64())
	assert.Zero(t, body.D.Float64())

	var f FlexFloat64
	assert.Error(t, json.Unmarshal([]byte(`"ten"`), &f))
}

func TestFlexString(t *testing.T) {
	var ids []FlexString
	require.NoError(t, json.Unmarshal([]byte(`["n1", 12, null, 1.5]`), &ids))
	assert.Equal(t, []FlexString{"n1", "12", "", "1.5"}, ids)

	var f FlexString
	assert.Error(t, json.Unmarshal([]byte(`{"id":1}`), &f))
}

func TestFlexList(t *testing.T) {
	var one FlexList[FlexString]
	require.NoError(t, json.Unmarshal([]byte(`"a"`), &one))
	assert.Equal(t, FlexList[FlexString]{"a"}, one)

	var many FlexList[FlexString]
	require.NoError(t, json.Unmarshal([]byte(`["a","b"]`), &many))
	assert.Len(t, many, 2)
}

func TestFlexListOfRawObjects(t *testing.T) {
	var payload struct {
		Nodes FlexList[json.RawMessage] `json:"nodes"`
		Edges FlexList[json.RawMessage] `json:"edges"`
	}
	require.NoError(t, json.Unmarshal([]byte(`{"nodes": {"id": "solo"}, "edges": null}`), &payload))
	require.Len(t, payload.Nodes, 1)
	assert.JSONEq(t, `{"id":"solo"}`, string(payload.Nodes[0]))
	assert.Nil(t, payload.Edges)

	require.NoError(t, json.Unmarshal([]byte(`{"nodes": []}`), &payload))
	assert.NotNil(t, payload.Nodes)
	assert.Empty(t, payload.Nodes)
}

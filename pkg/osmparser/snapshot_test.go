package osmparser

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSnapshotRoundTrip(t *testing.T) {
	nodes := map[int64]Node{
		1: NewNode(1, 13.6195, 123.1814),
		2: NewNode(2, 13.6197, 123.1816),
		3: NewNode(3, 13.6199, 123.1818),
	}
	ways := map[int64]Way{
		100: NewWay(100, []int64{1, 2, 3},
			NewWayTags(map[string]string{"highway": "residential", "maxspeed": "30 mph"})),
		200: NewWay(200, []int64{3, 1},
			NewWayTags(map[string]string{"highway": "primary", "oneway": "yes"})),
	}

	file := filepath.Join(t.TempDir(), "roundtrip.snapshot.bz2")
	require.NoError(t, WriteSnapshot(file, nodes, ways))

	gotNodes, gotWays, err := ReadSnapshot(file)
	require.NoError(t, err)

	require.Len(t, gotNodes, len(nodes))
	for id, want := range nodes {
		got, ok := gotNodes[id]
		require.True(t, ok, "node %d missing", id)
		assert.Equal(t, want.Lat, got.Lat)
		assert.Equal(t, want.Lon, got.Lon)
	}

	require.Len(t, gotWays, len(ways))
	for id, want := range ways {
		got, ok := gotWays[id]
		require.True(t, ok, "way %d missing", id)
		assert.Equal(t, want.Nodes, got.Nodes)
		assert.Equal(t, want.Tags.Highway, got.Tags.Highway)
		assert.Equal(t, want.Tags.Oneway, got.Tags.Oneway)
		assert.Equal(t, want.Tags.Maxspeed, got.Tags.Maxspeed)
	}

	// unit suffix survived, so speed resolution still works after reload
	speed, ok := ParseMaxspeed(gotWays[100].Tags.Maxspeed)
	require.True(t, ok)
	assert.InDelta(t, 48.28, speed, 0.01)
}

func TestReadSnapshotMissingFile(t *testing.T) {
	_, _, err := ReadSnapshot(filepath.Join(t.TempDir(), "does-not-exist"))
	assert.Error(t, err)
}

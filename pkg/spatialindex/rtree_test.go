package spatialindex

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/sakay-app/sakay-routing/pkg/datastructure"
	"github.com/sakay-app/sakay-routing/pkg/geo"
)

func buildIndexedGraph() (*datastructure.RoadGraph, map[datastructure.NodeID]struct{}) {
	g := datastructure.NewRoadGraph()

	coords := map[int64]geo.Coordinate{
		1: geo.NewCoordinate(13.6195, 123.1814),
		2: geo.NewCoordinate(13.6197, 123.1816),
		3: geo.NewCoordinate(13.6500, 123.2100), // ~4.5 km away
	}
	for id, c := range coords {
		g.AddNode(datastructure.OsmNodeID(id), c)
	}
	g.AddEdge(datastructure.OsmNodeID(1), datastructure.OsmNodeID(2), 1)
	g.AddEdge(datastructure.OsmNodeID(2), datastructure.OsmNodeID(1), 1)
	g.AddEdge(datastructure.OsmNodeID(2), datastructure.OsmNodeID(3), 1)
	g.AddEdge(datastructure.OsmNodeID(3), datastructure.OsmNodeID(2), 1)

	members := map[datastructure.NodeID]struct{}{
		datastructure.OsmNodeID(1): {},
		datastructure.OsmNodeID(2): {},
		datastructure.OsmNodeID(3): {},
	}
	return g, members
}

func TestFindNearestWithinRadius(t *testing.T) {
	g, members := buildIndexedGraph()

	rt := NewRtree(zap.NewNop())
	rt.Build(g, func(id datastructure.NodeID) bool {
		_, ok := members[id]
		return ok
	})
	require.Equal(t, 3, rt.Size())

	// query right next to node 1
	id, ok := rt.FindNearest(geo.NewCoordinate(13.61951, 123.18141), 500)
	require.True(t, ok)
	assert.Equal(t, datastructure.OsmNodeID(1), id)
}

func TestFindNearestGlobalFallback(t *testing.T) {
	g, members := buildIndexedGraph()

	rt := NewRtree(zap.NewNop())
	rt.Build(g, func(id datastructure.NodeID) bool {
		_, ok := members[id]
		return ok
	})

	// ~20 km away from everything: tier 1 and 2 both come up empty,
	// the global fallback still answers
	id, ok := rt.FindNearest(geo.NewCoordinate(13.80, 123.30), 500)
	require.True(t, ok)
	assert.Equal(t, datastructure.OsmNodeID(3), id)
}

func TestFindNearestSkipsNonMembersAndIsolated(t *testing.T) {
	g := datastructure.NewRoadGraph()

	g.AddNode(datastructure.OsmNodeID(1), geo.NewCoordinate(13.6195, 123.1814))
	g.AddNode(datastructure.OsmNodeID(2), geo.NewCoordinate(13.6197, 123.1816))
	g.AddNode(datastructure.OsmNodeID(3), geo.NewCoordinate(13.6196, 123.1815)) // isolated
	g.AddEdge(datastructure.OsmNodeID(1), datastructure.OsmNodeID(2), 1)
	g.AddEdge(datastructure.OsmNodeID(2), datastructure.OsmNodeID(1), 1)

	// node 2 is connected but not part of any way
	members := map[datastructure.NodeID]struct{}{
		datastructure.OsmNodeID(1): {},
		datastructure.OsmNodeID(3): {},
	}

	rt := NewRtree(zap.NewNop())
	rt.Build(g, func(id datastructure.NodeID) bool {
		_, ok := members[id]
		return ok
	})
	require.Equal(t, 1, rt.Size())

	id, ok := rt.FindNearest(geo.NewCoordinate(13.6197, 123.1816), 500)
	require.True(t, ok)
	assert.Equal(t, datastructure.OsmNodeID(1), id)
}

func TestFindNearestEmptyIndex(t *testing.T) {
	rt := NewRtree(zap.NewNop())
	rt.Build(datastructure.NewRoadGraph(), func(datastructure.NodeID) bool { return false })

	_, ok := rt.FindNearest(geo.NewCoordinate(13.6195, 123.1814), 500)
	assert.False(t, ok)
}

func TestSyntheticNodesNeverIndexed(t *testing.T) {
	g := datastructure.NewRoadGraph()
	g.AddNode(datastructure.SyntheticNodeID("origin"), geo.NewCoordinate(13.6195, 123.1814))
	g.AddNode(datastructure.OsmNodeID(1), geo.NewCoordinate(13.6196, 123.1815))
	g.AddEdge(datastructure.SyntheticNodeID("origin"), datastructure.OsmNodeID(1), 1)
	g.AddEdge(datastructure.OsmNodeID(1), datastructure.SyntheticNodeID("origin"), 1)

	rt := NewRtree(zap.NewNop())
	rt.Build(g, func(datastructure.NodeID) bool { return true })

	require.Equal(t, 1, rt.Size())
	id, ok := rt.FindNearest(geo.NewCoordinate(13.6195, 123.1814), 500)
	require.True(t, ok)
	assert.True(t, id.IsOsm())
}

package datastructure

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sakay-app/sakay-routing/pkg/geo"
)

func TestWeightFromDistanceSpeed(t *testing.T) {
	// 1 km at 30 km/h is 2 minutes
	assert.InDelta(t, 2.0, WeightFromDistanceSpeed(1000, 30), 1e-9)
	// 2 km at 60 km/h is 2 minutes
	assert.InDelta(t, 2.0, WeightFromDistanceSpeed(2000, 60), 1e-9)
	// no speed: raw meters
	assert.Equal(t, 1500.0, WeightFromDistanceSpeed(1500, 0))
}

func TestAddEdgeRequiresBothEndpoints(t *testing.T) {
	g := NewRoadGraph()
	a := OsmNodeID(1)
	b := OsmNodeID(2)

	g.AddNode(a, geo.NewCoordinate(13.6195, 123.1814))

	assert.False(t, g.AddEdge(a, b, 1.0))
	assert.False(t, g.AddEdge(b, a, 1.0))

	g.AddNode(b, geo.NewCoordinate(13.6200, 123.1820))
	assert.True(t, g.AddEdge(a, b, 1.5))

	w, ok := g.EdgeWeight(a, b)
	require.True(t, ok)
	assert.Equal(t, 1.5, w)

	// directed: reverse edge was never added
	_, ok = g.EdgeWeight(b, a)
	assert.False(t, ok)
}

func TestPruneDisconnectedKeepsLargestComponent(t *testing.T) {
	g := NewRoadGraph()

	// main component: 3 nodes connected both ways
	for i := int64(1); i <= 3; i++ {
		g.AddNode(OsmNodeID(i), geo.NewCoordinate(13.6+float64(i)*0.001, 123.18))
	}
	g.AddEdge(OsmNodeID(1), OsmNodeID(2), 1)
	g.AddEdge(OsmNodeID(2), OsmNodeID(1), 1)
	g.AddEdge(OsmNodeID(2), OsmNodeID(3), 1)
	g.AddEdge(OsmNodeID(3), OsmNodeID(2), 1)

	// island: 2 nodes connected only to each other
	g.AddNode(OsmNodeID(10), geo.NewCoordinate(13.7, 123.30))
	g.AddNode(OsmNodeID(11), geo.NewCoordinate(13.7, 123.31))
	g.AddEdge(OsmNodeID(10), OsmNodeID(11), 1)
	g.AddEdge(OsmNodeID(11), OsmNodeID(10), 1)

	removed := g.PruneDisconnected()

	assert.Equal(t, 2, removed)
	assert.Equal(t, 3, g.NumberOfNodes())
	assert.True(t, g.HasNode(OsmNodeID(1)))
	assert.False(t, g.HasNode(OsmNodeID(10)))
	assert.False(t, g.HasNode(OsmNodeID(11)))
}

func TestPruneDisconnectedKeepsOnewayChain(t *testing.T) {
	g := NewRoadGraph()
	for i := int64(1); i <= 3; i++ {
		g.AddNode(OsmNodeID(i), geo.NewCoordinate(13.6+float64(i)*0.001, 123.18))
	}
	// forward-only edges, still one connected road
	g.AddEdge(OsmNodeID(1), OsmNodeID(2), 1)
	g.AddEdge(OsmNodeID(2), OsmNodeID(3), 1)

	removed := g.PruneDisconnected()

	assert.Equal(t, 0, removed)
	assert.Equal(t, 3, g.NumberOfNodes())
}

func TestPruneDisconnectedScrubsDanglingNeighbors(t *testing.T) {
	g := NewRoadGraph()
	for i := int64(1); i <= 2; i++ {
		g.AddNode(OsmNodeID(i), geo.NewCoordinate(13.6+float64(i)*0.001, 123.18))
	}
	g.AddEdge(OsmNodeID(1), OsmNodeID(2), 1)
	g.AddEdge(OsmNodeID(2), OsmNodeID(1), 1)

	g.AddNode(OsmNodeID(99), geo.NewCoordinate(13.9, 123.5))

	removed := g.PruneDisconnected()
	require.Equal(t, 1, removed)

	// no surviving node may reference a deleted one
	g.ForNodes(func(n *GraphNode) {
		n.ForNeighbors(func(to NodeID, _ float64) {
			assert.True(t, g.HasNode(to))
		})
	})
}

func TestAverageDegree(t *testing.T) {
	g := NewRoadGraph()
	assert.Equal(t, 0.0, g.AverageDegree())

	g.AddNode(OsmNodeID(1), geo.NewCoordinate(13.61, 123.18))
	g.AddNode(OsmNodeID(2), geo.NewCoordinate(13.62, 123.18))
	g.AddEdge(OsmNodeID(1), OsmNodeID(2), 1)
	g.AddEdge(OsmNodeID(2), OsmNodeID(1), 1)

	// 2 directed edges = 1 undirected edge over 2 nodes
	assert.InDelta(t, 0.5, g.AverageDegree(), 1e-9)
}

func TestNodeIDStringForms(t *testing.T) {
	assert.Equal(t, "osm_42", OsmNodeID(42).String())
	assert.Equal(t, "origin", SyntheticNodeID("origin").String())
	assert.True(t, OsmNodeID(42).IsOsm())
	assert.False(t, SyntheticNodeID("origin").IsOsm())
	assert.True(t, NodeID{}.IsZero())
	assert.False(t, OsmNodeID(42).IsZero())
}

package osmparser

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/sakay-app/sakay-routing/pkg/datastructure"
	"github.com/sakay-app/sakay-routing/pkg/geo"
)

func residentialWorkingSet() (map[int64]Node, map[int64]Way) {
	nodes := map[int64]Node{
		1: NewNode(1, 13.6195, 123.1814),
		2: NewNode(2, 13.6197, 123.1816),
		3: NewNode(3, 13.6199, 123.1818),
		4: NewNode(4, 13.6201, 123.1820),
	}
	ways := map[int64]Way{
		100: NewWay(100, []int64{1, 2, 3, 4},
			NewWayTags(map[string]string{"highway": "residential"})),
	}
	return nodes, ways
}

func TestBuildGraphBidirectionalResidential(t *testing.T) {
	builder := NewGraphBuilder(zap.NewNop())
	nodes, ways := residentialWorkingSet()

	graph := builder.BuildGraph(nodes, ways)

	require.Equal(t, 4, graph.NumberOfNodes())
	// 3 segments, both directions each
	assert.Equal(t, 6, graph.NumberOfEdges())

	w, ok := graph.EdgeWeight(datastructure.OsmNodeID(1), datastructure.OsmNodeID(2))
	require.True(t, ok)

	// residential with no maxspeed uses the 30 km/h default
	dist := geo.HaversineMeters(nodes[1].Coordinate(), nodes[2].Coordinate())
	assert.InDelta(t, (dist/1000.0)/(30.0/60.0), w, 1e-9)

	back, ok := graph.EdgeWeight(datastructure.OsmNodeID(2), datastructure.OsmNodeID(1))
	require.True(t, ok)
	assert.Equal(t, w, back)
}

func TestBuildGraphOnewayDirections(t *testing.T) {
	builder := NewGraphBuilder(zap.NewNop())

	nodes := map[int64]Node{
		1: NewNode(1, 13.6195, 123.1814),
		2: NewNode(2, 13.6197, 123.1816),
		3: NewNode(3, 13.6199, 123.1818),
	}
	ways := map[int64]Way{
		200: NewWay(200, []int64{1, 2, 3},
			NewWayTags(map[string]string{"highway": "residential", "oneway": "yes"})),
	}

	graph := builder.BuildGraph(nodes, ways)

	_, ok := graph.EdgeWeight(datastructure.OsmNodeID(1), datastructure.OsmNodeID(2))
	assert.True(t, ok)
	_, ok = graph.EdgeWeight(datastructure.OsmNodeID(2), datastructure.OsmNodeID(3))
	assert.True(t, ok)

	_, ok = graph.EdgeWeight(datastructure.OsmNodeID(2), datastructure.OsmNodeID(1))
	assert.False(t, ok)
	_, ok = graph.EdgeWeight(datastructure.OsmNodeID(3), datastructure.OsmNodeID(2))
	assert.False(t, ok)
	_, ok = graph.EdgeWeight(datastructure.OsmNodeID(3), datastructure.OsmNodeID(1))
	assert.False(t, ok)
}

func TestBuildGraphSweepsIslands(t *testing.T) {
	builder := NewGraphBuilder(zap.NewNop())
	nodes, ways := residentialWorkingSet()

	// a smaller second road nowhere near the first
	nodes[50] = NewNode(50, 13.7000, 123.3000)
	nodes[51] = NewNode(51, 13.7002, 123.3002)
	ways[300] = NewWay(300, []int64{50, 51},
		NewWayTags(map[string]string{"highway": "residential"}))

	graph := builder.BuildGraph(nodes, ways)

	assert.Equal(t, 4, graph.NumberOfNodes())
	assert.False(t, graph.HasNode(datastructure.OsmNodeID(50)))
	assert.False(t, graph.HasNode(datastructure.OsmNodeID(51)))
}

func TestBuildGraphSkipsInvalidWays(t *testing.T) {
	builder := NewGraphBuilder(zap.NewNop())

	nodes := map[int64]Node{
		1: NewNode(1, 13.6195, 123.1814),
		2: NewNode(2, 13.6197, 123.1816),
	}
	ways := map[int64]Way{
		400: NewWay(400, []int64{1, 2}, NewWayTags(map[string]string{"building": "yes"})),
	}

	graph := builder.BuildGraph(nodes, ways)
	assert.Equal(t, 0, graph.NumberOfEdges())
}

func TestBuildGraphSkipsMissingNodeRefs(t *testing.T) {
	builder := NewGraphBuilder(zap.NewNop())

	nodes := map[int64]Node{
		1: NewNode(1, 13.6195, 123.1814),
		2: NewNode(2, 13.6197, 123.1816),
	}
	// node 3 referenced but never downloaded
	ways := map[int64]Way{
		500: NewWay(500, []int64{1, 2, 3},
			NewWayTags(map[string]string{"highway": "residential"})),
	}

	graph := builder.BuildGraph(nodes, ways)

	_, ok := graph.EdgeWeight(datastructure.OsmNodeID(1), datastructure.OsmNodeID(2))
	assert.True(t, ok)
	assert.False(t, graph.HasNode(datastructure.OsmNodeID(3)))
}

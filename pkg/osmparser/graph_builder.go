package osmparser

import (
	"go.uber.org/zap"

	"github.com/sakay-app/sakay-routing/pkg"
	"github.com/sakay-app/sakay-routing/pkg/datastructure"
	"github.com/sakay-app/sakay-routing/pkg/geo"
)

type GraphBuilder struct {
	log *zap.Logger
}

func NewGraphBuilder(log *zap.Logger) *GraphBuilder {
	return &GraphBuilder{log: log}
}

// BuildGraph convert the raw osm working set into a fresh weighted road
// graph. Edge weight is travel time in minutes derived from the way's speed
// limit. After all ways are processed every node unreachable from an
// arbitrary start node is swept away.
func (b *GraphBuilder) BuildGraph(nodes map[int64]Node, ways map[int64]Way) *datastructure.RoadGraph {
	graph := datastructure.NewRoadGraph()

	for _, osmNode := range nodes {
		graph.AddNode(datastructure.OsmNodeID(osmNode.ID), osmNode.Coordinate())
	}

	for _, way := range ways {
		if !way.Valid() {
			continue
		}

		speedLimit := way.SpeedLimitKmh()
		oneWay := way.IsOneWay()

		for i := 0; i < len(way.Nodes)-1; i++ {
			fromOsm, okFrom := nodes[way.Nodes[i]]
			toOsm, okTo := nodes[way.Nodes[i+1]]
			if !okFrom || !okTo {
				continue
			}

			from := datastructure.OsmNodeID(fromOsm.ID)
			to := datastructure.OsmNodeID(toOsm.ID)

			distance := geo.HaversineMeters(fromOsm.Coordinate(), toOsm.Coordinate())
			weight := datastructure.WeightFromDistanceSpeed(distance, speedLimit)

			graph.AddEdge(from, to, weight)
			if !oneWay {
				graph.AddEdge(to, from, weight)
			}
		}
	}

	if removed := graph.PruneDisconnected(); removed > 0 {
		b.log.Warn("removed isolated nodes from road graph",
			zap.Int("removed", removed))
	}

	if avg := graph.AverageDegree(); graph.NumberOfNodes() > 0 && avg < pkg.MIN_AVERAGE_NODE_DEGREE {
		b.log.Warn("road graph is sparse, pathfinding quality may be poor",
			zap.Float64("average_degree", avg))
	}

	return graph
}

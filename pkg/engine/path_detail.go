package engine

import (
	"math"

	"github.com/sakay-app/sakay-routing/pkg"
	"github.com/sakay-app/sakay-routing/pkg/datastructure"
	"github.com/sakay-app/sakay-routing/pkg/geo"
	"github.com/sakay-app/sakay-routing/pkg/osmparser"
)

// coordEps ~11m. Graph nodes and way vertices share the same source
// coordinates, so proximity matching at this tolerance identifies the same
// physical node without carrying id cross references around.
const coordEps = 1e-4

// GetDetailedPathCoordinates expand a coarse node path into a dense
// polyline by splicing back the intermediate vertices of the osm way each
// hop rides on.
func (e *Engine) GetDetailedPathCoordinates(path []datastructure.NodeID) []geo.Coordinate {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.detailedCoordinates(path)
}

func (e *Engine) detailedCoordinates(path []datastructure.NodeID) []geo.Coordinate {
	detailed := make([]geo.Coordinate, 0, len(path))

	for i := 0; i < len(path)-1; i++ {
		currNode, okCurr := e.graph.GetNode(path[i])
		nextNode, okNext := e.graph.GetNode(path[i+1])
		if !okCurr || !okNext {
			continue
		}

		detailed = append(detailed, currNode.GetCoordinate())

		// no connecting way (synthetic hop) degrades to a straight segment
		if way, ok := e.findConnectingWay(currNode.GetCoordinate(), nextNode.GetCoordinate()); ok {
			detailed = append(detailed,
				e.intermediatePoints(way, currNode.GetCoordinate(), nextNode.GetCoordinate())...)
		}
	}

	if len(path) > 0 {
		if lastNode, ok := e.graph.GetNode(path[len(path)-1]); ok {
			detailed = append(detailed, lastNode.GetCoordinate())
		}
	}

	return detailed
}

func coordsClose(a geo.Coordinate, b geo.Coordinate) bool {
	return math.Abs(a.Lat-b.Lat) < coordEps && math.Abs(a.Lon-b.Lon) < coordEps
}

// findConnectingWay the original osm way containing both coordinates,
// matched by proximity.
func (e *Engine) findConnectingWay(a, b geo.Coordinate) (osmparser.Way, bool) {
	for _, way := range e.osmWays {
		containsA, containsB := false, false
		for _, nodeID := range way.Nodes {
			osmNode, ok := e.osmNodes[nodeID]
			if !ok {
				continue
			}
			c := osmNode.Coordinate()
			if !containsA && coordsClose(c, a) {
				containsA = true
			}
			if !containsB && coordsClose(c, b) {
				containsB = true
			}
			if containsA && containsB {
				return way, true
			}
		}
	}
	return osmparser.Way{}, false
}

// intermediatePoints way vertices strictly between start and end, in
// traversal direction.
func (e *Engine) intermediatePoints(way osmparser.Way, start, end geo.Coordinate) []geo.Coordinate {
	startIndex, endIndex := -1, -1
	for i, nodeID := range way.Nodes {
		osmNode, ok := e.osmNodes[nodeID]
		if !ok {
			continue
		}
		c := osmNode.Coordinate()
		if startIndex == -1 && coordsClose(c, start) {
			startIndex = i
		}
		if endIndex == -1 && coordsClose(c, end) {
			endIndex = i
		}
	}
	if startIndex == -1 || endIndex == -1 || startIndex == endIndex {
		return nil
	}

	step := 1
	if startIndex > endIndex {
		step = -1
	}

	points := make([]geo.Coordinate, 0)
	for i := startIndex + step; i != endIndex; i += step {
		osmNode, ok := e.osmNodes[way.Nodes[i]]
		if !ok {
			continue
		}
		points = append(points, osmNode.Coordinate())
	}
	return points
}

func (e *Engine) pathDistance(points []geo.Coordinate) float64 {
	total := 0.0
	for i := 0; i < len(points)-1; i++ {
		total += geo.HaversineMeters(points[i], points[i+1])
	}
	return total
}

// pathTravelTime re-derive the road class per dense segment instead of
// reusing solver weights, so the estimate matches the detailed polyline.
func (e *Engine) pathTravelTime(points []geo.Coordinate) float64 {
	total := 0.0
	for i := 0; i < len(points)-1; i++ {
		distKm := geo.HaversineMeters(points[i], points[i+1]) / 1000.0
		speed := e.segmentRoadType(points[i], points[i+1]).DefaultSpeedKmh()
		total += (distKm / speed) * 60.0
	}
	return total
}

func (e *Engine) segmentRoadType(a, b geo.Coordinate) pkg.OsmHighwayType {
	if way, ok := e.findConnectingWay(a, b); ok {
		return way.HighwayType()
	}
	return pkg.UNKNOWN
}

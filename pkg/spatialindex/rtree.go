package spatialindex

import (
	"go.uber.org/zap"
	"golang.org/x/exp/slices"

	"github.com/tidwall/rtree"

	"github.com/sakay-app/sakay-routing/pkg/datastructure"
	"github.com/sakay-app/sakay-routing/pkg/geo"
)

type indexedNode struct {
	id    datastructure.NodeID
	coord geo.Coordinate
}

// Rtree spatial index over road graph nodes that are usable as snap
// targets: members of at least one way, with at least one graph connection.
type Rtree struct {
	tr  *rtree.RTreeG[indexedNode]
	all []indexedNode
	log *zap.Logger
}

func NewRtree(log *zap.Logger) *Rtree {
	var tr rtree.RTreeG[indexedNode]
	return &Rtree{
		tr:  &tr,
		log: log,
	}
}

// Build index every connected way-member node of the graph. Called after
// each graph rebuild; the previous index is discarded wholesale.
func (rt *Rtree) Build(graph *datastructure.RoadGraph, isWayMember func(id datastructure.NodeID) bool) {
	var tr rtree.RTreeG[indexedNode]
	rt.tr = &tr
	rt.all = rt.all[:0]

	graph.ForNodes(func(n *datastructure.GraphNode) {
		id := n.GetID()
		if !id.IsOsm() || n.Degree() == 0 || !isWayMember(id) {
			return
		}
		entry := indexedNode{id: id, coord: n.GetCoordinate()}
		p := [2]float64{entry.coord.Lon, entry.coord.Lat}
		rt.tr.Insert(p, p, entry)
		rt.all = append(rt.all, entry)
	})

	rt.log.Debug("rebuilt nearest-node index", zap.Int("nodes", len(rt.all)))
}

func (rt *Rtree) Size() int {
	return len(rt.all)
}

// FindNearest snap a query point to the nearest usable node. Three tiers:
// within radiusMeters, then double the radius, then the globally nearest
// node with no radius constraint. Returns false only when the index holds
// no usable node at all.
func (rt *Rtree) FindNearest(q geo.Coordinate, radiusMeters float64) (datastructure.NodeID, bool) {
	if len(rt.all) == 0 {
		return datastructure.NodeID{}, false
	}

	if id, ok := rt.nearestWithin(q, radiusMeters); ok {
		return id, true
	}
	if id, ok := rt.nearestWithin(q, radiusMeters*2); ok {
		return id, true
	}

	// global fallback, no radius constraint
	best := rt.all[0]
	bestDist := geo.HaversineMeters(q, best.coord)
	for _, entry := range rt.all[1:] {
		if d := geo.HaversineMeters(q, entry.coord); d < bestDist {
			best = entry
			bestDist = d
		}
	}
	return best.id, true
}

func (rt *Rtree) nearestWithin(q geo.Coordinate, radiusMeters float64) (datastructure.NodeID, bool) {
	radiusKM := radiusMeters / 1000.0
	lowerLat, lowerLon := geo.GetDestinationPoint(q.Lat, q.Lon, 225, radiusKM)
	upperLat, upperLon := geo.GetDestinationPoint(q.Lat, q.Lon, 45, radiusKM)

	candidates := make([]indexedNode, 0, 16)
	rt.tr.Search([2]float64{lowerLon, lowerLat}, [2]float64{upperLon, upperLat},
		func(min, max [2]float64, data indexedNode) bool {
			candidates = append(candidates, data)
			return true
		})

	// bounding box search overshoots the circle, re-check real distance
	candidates = slices.DeleteFunc(candidates, func(entry indexedNode) bool {
		return geo.HaversineMeters(q, entry.coord) > radiusMeters
	})
	if len(candidates) == 0 {
		return datastructure.NodeID{}, false
	}

	slices.SortFunc(candidates, func(a, b indexedNode) int {
		da := geo.HaversineMeters(q, a.coord)
		db := geo.HaversineMeters(q, b.coord)
		switch {
		case da < db:
			return -1
		case da > db:
			return 1
		default:
			return 0
		}
	})
	return candidates[0].id, true
}

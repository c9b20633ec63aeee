package engine

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"github.com/sakay-app/sakay-routing/pkg"
	"github.com/sakay-app/sakay-routing/pkg/datastructure"
	"github.com/sakay-app/sakay-routing/pkg/engine/routing"
	"github.com/sakay-app/sakay-routing/pkg/fare"
	"github.com/sakay-app/sakay-routing/pkg/geo"
	"github.com/sakay-app/sakay-routing/pkg/osmparser"
	"github.com/sakay-app/sakay-routing/pkg/overpass"
	"github.com/sakay-app/sakay-routing/pkg/spatialindex"
)

// RoadNetworkFetcher the overpass client, abstracted so tests can stand in
// a recording fake.
type RoadNetworkFetcher interface {
	FetchRoadNetwork(ctx context.Context, center geo.Coordinate, radiusMeters float64) (*overpass.Response, error)
}

// PathResult one solved trip. Immutable once returned.
type PathResult struct {
	Path          []datastructure.NodeID
	Distance      float64 // meter
	EstimatedTime float64 // minute
	Fare          float64
}

// Engine owns one RoadGraph plus the osm working set it was built from.
// A fetch fully replaces the working set and rebuilds the graph; it never
// merges regions. The rw lock keeps solver calls from observing a graph
// mid-rebuild and serializes fetches.
type Engine struct {
	mu sync.RWMutex

	log     *zap.Logger
	fetcher RoadNetworkFetcher
	builder *osmparser.GraphBuilder
	index   *spatialindex.Rtree
	tariff  fare.Tariff

	graph      *datastructure.RoadGraph
	osmNodes   map[int64]osmparser.Node
	osmWays    map[int64]osmparser.Way
	wayMembers map[datastructure.NodeID]struct{}
}

func New(log *zap.Logger, fetcher RoadNetworkFetcher, tariff fare.Tariff) *Engine {
	return &Engine{
		log:        log,
		fetcher:    fetcher,
		builder:    osmparser.NewGraphBuilder(log),
		index:      spatialindex.NewRtree(log),
		tariff:     tariff,
		graph:      datastructure.NewRoadGraph(),
		osmNodes:   make(map[int64]osmparser.Node),
		osmWays:    make(map[int64]osmparser.Way),
		wayMembers: make(map[datastructure.NodeID]struct{}),
	}
}

func (e *Engine) Tariff() fare.Tariff {
	return e.tariff
}

// FetchRoadNetwork pull road data around center and rebuild the graph from
// it. On any fetch error the previously built graph stays untouched.
func (e *Engine) FetchRoadNetwork(ctx context.Context, center geo.Coordinate, radiusMeters float64) error {
	resp, err := e.fetcher.FetchRoadNetwork(ctx, center, radiusMeters)
	if err != nil {
		return err
	}

	nodes, ways := resp.WorkingSet()
	e.applyWorkingSet(nodes, ways)
	return nil
}

// LoadSnapshot start from a preprocessed osm extract instead of a network
// fetch.
func (e *Engine) LoadSnapshot(filename string) error {
	nodes, ways, err := osmparser.ReadSnapshot(filename)
	if err != nil {
		return err
	}
	e.applyWorkingSet(nodes, ways)
	e.log.Info("loaded road network snapshot",
		zap.String("file", filename),
		zap.Int("nodes", len(nodes)), zap.Int("ways", len(ways)))
	return nil
}

// applyWorkingSet replace-not-merge: the previous region's nodes and ways
// are discarded wholesale.
func (e *Engine) applyWorkingSet(nodes map[int64]osmparser.Node, ways map[int64]osmparser.Way) {
	graph := e.builder.BuildGraph(nodes, ways)

	members := make(map[datastructure.NodeID]struct{})
	for _, way := range ways {
		for _, nodeID := range way.Nodes {
			members[datastructure.OsmNodeID(nodeID)] = struct{}{}
		}
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	e.graph = graph
	e.osmNodes = nodes
	e.osmWays = ways
	e.wayMembers = members
	e.index.Build(graph, func(id datastructure.NodeID) bool {
		_, ok := members[id]
		return ok
	})
}

// FindNearestOsmNode snap a point to the nearest connected way-member node.
// radiusMeters <= 0 selects the default snap radius. The second return is
// false only when no usable road network is loaded at all.
func (e *Engine) FindNearestOsmNode(p geo.Coordinate, radiusMeters float64) (datastructure.NodeID, bool) {
	if radiusMeters <= 0 {
		radiusMeters = pkg.DEFAULT_SNAP_RADIUS
	}

	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.index.FindNearest(p, radiusMeters)
}

// FindShortestPath solve start -> end and derive trip metrics from the
// detailed polyline. found=false means no route exists, which is a normal
// outcome, not an error.
func (e *Engine) FindShortestPath(start, end datastructure.NodeID) (*PathResult, bool, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()

	solver := routing.NewAStarSolver(e.graph, e.log)
	path, _, found, err := solver.FindShortestPath(start, end)
	if err != nil {
		return nil, false, err
	}
	if !found {
		return nil, false, nil
	}

	points := e.detailedCoordinates(path)
	distance := e.pathDistance(points)
	estimatedTime := e.pathTravelTime(points)

	return &PathResult{
		Path:          path,
		Distance:      distance,
		EstimatedTime: estimatedTime,
		Fare:          e.tariff.Calculate(distance),
	}, true, nil
}

// AddNode manual graph augmentation hook, used to splice synthetic
// "current location" / "destination" vertices onto the network.
func (e *Engine) AddNode(id datastructure.NodeID, p geo.Coordinate) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.graph.AddNode(id, p)
}

// AddEdge add one directed edge. distanceMeters <= 0 means "compute from
// the endpoint coordinates"; speedKmh <= 0 leaves the weight in raw meters,
// matching how synthetic connector edges are weighted.
func (e *Engine) AddEdge(from, to datastructure.NodeID, distanceMeters, speedKmh float64) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.addEdgeLocked(from, to, distanceMeters, speedKmh)
}

func (e *Engine) addEdgeLocked(from, to datastructure.NodeID, distanceMeters, speedKmh float64) bool {
	fromNode, okFrom := e.graph.GetNode(from)
	toNode, okTo := e.graph.GetNode(to)
	if !okFrom || !okTo {
		return false
	}

	if distanceMeters <= 0 {
		distanceMeters = geo.HaversineMeters(fromNode.GetCoordinate(), toNode.GetCoordinate())
	}
	return e.graph.AddEdge(from, to, datastructure.WeightFromDistanceSpeed(distanceMeters, speedKmh))
}

// AttachPoint splice a synthetic vertex for an arbitrary point onto the
// nearest road node, connected in both directions. Returns false when no
// road network is available to attach to.
func (e *Engine) AttachPoint(name string, p geo.Coordinate, snapRadiusMeters float64) (datastructure.NodeID, bool) {
	nearest, ok := e.FindNearestOsmNode(p, snapRadiusMeters)
	if !ok {
		return datastructure.NodeID{}, false
	}

	id := datastructure.SyntheticNodeID(name)

	e.mu.Lock()
	defer e.mu.Unlock()
	e.graph.AddNode(id, p)
	e.addEdgeLocked(id, nearest, 0, 0)
	e.addEdgeLocked(nearest, id, 0, 0)
	return id, true
}

// SnapToRoadSegment project p onto the best incident edge of node, so map
// layers can start the drawn route on the road instead of at the raw gps
// point. Falls back to the node's own coordinate.
func (e *Engine) SnapToRoadSegment(p geo.Coordinate, node datastructure.NodeID) geo.Coordinate {
	e.mu.RLock()
	defer e.mu.RUnlock()

	n, ok := e.graph.GetNode(node)
	if !ok {
		return p
	}
	nodeCoord := n.GetCoordinate()

	best := nodeCoord
	bestDist := geo.HaversineMeters(p, nodeCoord)
	n.ForNeighbors(func(neighborID datastructure.NodeID, _ float64) {
		neighbor, ok := e.graph.GetNode(neighborID)
		if !ok {
			return
		}
		if d := geo.PointLinePerpendicularDistance(nodeCoord, neighbor.GetCoordinate(), p); d < bestDist {
			best = geo.ProjectPointToLineCoord(nodeCoord, neighbor.GetCoordinate(), p)
			bestDist = d
		}
	})
	return best
}

// GraphStats snapshot counts for logging and health endpoints.
func (e *Engine) GraphStats() (nodes, edges int) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.graph.NumberOfNodes(), e.graph.NumberOfEdges()
}

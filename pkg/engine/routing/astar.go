package routing

import (
	"errors"
	"math"

	"go.uber.org/zap"

	"github.com/sakay-app/sakay-routing/pkg/datastructure"
	"github.com/sakay-app/sakay-routing/pkg/geo"
	"github.com/sakay-app/sakay-routing/pkg/util"
)

var (
	// ErrInvalidNode solver invoked with an id not present in the graph.
	// Caller bug, fails fast, never retried.
	ErrInvalidNode = errors.New("start or end node not present in road graph")

	// ErrPathIntegrity the reconstructed path failed adjacency validation.
	// Indicates a graph construction bug, must never be swallowed.
	ErrPathIntegrity = errors.New("reconstructed path is not connected")
)

// AStarSolver shortest path search over one road graph value. A node is in
// exactly one of three states: not yet seen, on the frontier (heap), or
// settled (closed).
type AStarSolver struct {
	graph *datastructure.RoadGraph
	log   *zap.Logger
}

func NewAStarSolver(graph *datastructure.RoadGraph, log *zap.Logger) *AStarSolver {
	return &AStarSolver{graph: graph, log: log}
}

// heuristic manhattan distance in degrees. Not admissible against
// minute-scaled edge weights, kept deliberately as a fast tie-breaking
// estimate; see DESIGN.md before changing this.
func heuristic(from, to geo.Coordinate) float64 {
	return math.Abs(to.Lon-from.Lon) + math.Abs(to.Lat-from.Lat)
}

// FindShortestPath A* from start to end. Returns (path, cost, true, nil) on
// success, (nil, 0, false, nil) when end is unreachable, and a non-nil
// error only for invalid input or an internal consistency failure.
func (s *AStarSolver) FindShortestPath(start, end datastructure.NodeID) ([]datastructure.NodeID, float64, bool, error) {
	if !s.graph.HasNode(start) || !s.graph.HasNode(end) {
		return nil, 0, false, util.WrapErrorf(ErrInvalidNode, util.ErrBadParamInput,
			"start %s or end %s not in graph", start, end)
	}

	if start == end {
		return []datastructure.NodeID{start}, 0, true, nil
	}

	endNode, _ := s.graph.GetNode(end)
	endCoord := endNode.GetCoordinate()

	gScore := map[datastructure.NodeID]float64{start: 0}
	cameFrom := make(map[datastructure.NodeID]datastructure.NodeID)
	closed := make(map[datastructure.NodeID]struct{})
	frontier := make(map[datastructure.NodeID]*datastructure.PriorityQueueNode[datastructure.NodeID])

	startNode, _ := s.graph.GetNode(start)
	pq := datastructure.NewBinaryHeap[datastructure.NodeID]()
	startItem := datastructure.NewPriorityQueueNode(heuristic(startNode.GetCoordinate(), endCoord), start)
	pq.Insert(startItem)
	frontier[start] = startItem

	for !pq.IsEmpty() {
		minItem, err := pq.ExtractMin()
		if err != nil {
			return nil, 0, false, err
		}
		currID := minItem.GetItem()
		delete(frontier, currID)

		if currID == end {
			path := s.reconstructPath(cameFrom, currID)
			if err := s.validatePath(path); err != nil {
				return nil, 0, false, err
			}
			return path, gScore[end], true, nil
		}

		if _, settled := closed[currID]; settled {
			continue
		}
		closed[currID] = struct{}{}

		currNode, _ := s.graph.GetNode(currID)
		currNode.ForNeighbors(func(neighborID datastructure.NodeID, weight float64) {
			if _, settled := closed[neighborID]; settled {
				return
			}

			tentative := gScore[currID] + weight
			if old, seen := gScore[neighborID]; seen && tentative >= old {
				return
			}

			cameFrom[neighborID] = currID
			gScore[neighborID] = tentative

			neighborNode, _ := s.graph.GetNode(neighborID)
			fScore := tentative + heuristic(neighborNode.GetCoordinate(), endCoord)

			if item, onFrontier := frontier[neighborID]; onFrontier && item.GetPos() >= 0 {
				if err := pq.DecreaseKey(item, fScore); err == nil {
					return
				}
			}
			item := datastructure.NewPriorityQueueNode(fScore, neighborID)
			pq.Insert(item)
			frontier[neighborID] = item
		})
	}

	// frontier drained without reaching end: no route, not an error
	s.log.Warn("no path found between nodes",
		zap.String("start", start.String()), zap.String("end", end.String()))
	return nil, 0, false, nil
}

func (s *AStarSolver) reconstructPath(cameFrom map[datastructure.NodeID]datastructure.NodeID,
	currID datastructure.NodeID) []datastructure.NodeID {
	path := []datastructure.NodeID{currID}
	for {
		prev, ok := cameFrom[currID]
		if !ok {
			break
		}
		path = append(path, prev)
		currID = prev
	}
	return util.ReverseG(path)
}

// validatePath every consecutive pair must have a direct edge, otherwise
// graph construction is broken and we fail loudly.
func (s *AStarSolver) validatePath(path []datastructure.NodeID) error {
	if len(path) < 2 {
		return util.WrapErrorf(ErrPathIntegrity, util.ErrInternalServerError,
			"reconstructed path has %d nodes", len(path))
	}
	for i := 0; i < len(path)-1; i++ {
		if _, ok := s.graph.EdgeWeight(path[i], path[i+1]); !ok {
			s.log.Error("path not connected, graph construction bug",
				zap.String("from", path[i].String()), zap.String("to", path[i+1].String()))
			return util.WrapErrorf(ErrPathIntegrity, util.ErrInternalServerError,
				"no edge between consecutive path nodes %s and %s", path[i], path[i+1])
		}
	}
	return nil
}

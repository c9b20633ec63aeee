package datastructure

import (
	"github.com/sakay-app/sakay-routing/pkg/geo"
)

type GraphNode struct {
	id        NodeID
	coord     geo.Coordinate
	neighbors map[NodeID]float64 // neighbor id -> edge weight
}

func (n *GraphNode) GetID() NodeID {
	return n.id
}

func (n *GraphNode) GetCoordinate() geo.Coordinate {
	return n.coord
}

func (n *GraphNode) Degree() int {
	return len(n.neighbors)
}

func (n *GraphNode) ForNeighbors(fn func(to NodeID, weight float64)) {
	for to, w := range n.neighbors {
		fn(to, w)
	}
}

// WeightFromDistanceSpeed edge weight used by the solver. Travel time in
// minutes when a speed limit is known, raw distance in meter otherwise.
func WeightFromDistanceSpeed(distanceMeters, speedKmh float64) float64 {
	if speedKmh > 0 {
		return (distanceMeters / 1000.0) / (speedKmh / 60.0)
	}
	return distanceMeters
}

// RoadGraph weighted directed graph over road nodes. One RoadGraph value is
// owned by one engine; all mutation goes through its methods, nothing is
// package-global.
type RoadGraph struct {
	nodes map[NodeID]*GraphNode
}

func NewRoadGraph() *RoadGraph {
	return &RoadGraph{
		nodes: make(map[NodeID]*GraphNode),
	}
}

func (g *RoadGraph) AddNode(id NodeID, coord geo.Coordinate) {
	g.nodes[id] = &GraphNode{
		id:        id,
		coord:     coord,
		neighbors: make(map[NodeID]float64),
	}
}

// AddEdge add a directed edge from -> to. Both endpoints must already exist,
// otherwise the edge is dropped and false is returned.
func (g *RoadGraph) AddEdge(from, to NodeID, weight float64) bool {
	fromNode, okFrom := g.nodes[from]
	_, okTo := g.nodes[to]
	if !okFrom || !okTo {
		return false
	}
	fromNode.neighbors[to] = weight
	return true
}

func (g *RoadGraph) HasNode(id NodeID) bool {
	_, ok := g.nodes[id]
	return ok
}

func (g *RoadGraph) GetNode(id NodeID) (*GraphNode, bool) {
	n, ok := g.nodes[id]
	return n, ok
}

func (g *RoadGraph) EdgeWeight(from, to NodeID) (float64, bool) {
	fromNode, ok := g.nodes[from]
	if !ok {
		return 0, false
	}
	w, ok := fromNode.neighbors[to]
	return w, ok
}

func (g *RoadGraph) NumberOfNodes() int {
	return len(g.nodes)
}

func (g *RoadGraph) NumberOfEdges() int {
	total := 0
	for _, n := range g.nodes {
		total += len(n.neighbors)
	}
	return total
}

func (g *RoadGraph) ForNodes(fn func(n *GraphNode)) {
	for _, n := range g.nodes {
		fn(n)
	}
}

// AverageDegree treats every stored directed edge as half of an undirected
// one, matching how the sparsity warning threshold was calibrated.
func (g *RoadGraph) AverageDegree() float64 {
	if len(g.nodes) == 0 {
		return 0
	}
	return float64(g.NumberOfEdges()) / 2.0 / float64(len(g.nodes))
}

// PruneDisconnected breadth-first connectivity sweep. Edges are walked in
// both directions so a oneway chain counts as connected; the largest
// component survives and every other island is deleted, so the solver never
// routes through a fragment the main network cannot reach. Returns the
// number of removed nodes.
func (g *RoadGraph) PruneDisconnected() int {
	if len(g.nodes) == 0 {
		return 0
	}

	undirected := make(map[NodeID][]NodeID, len(g.nodes))
	for id, n := range g.nodes {
		for neighborID := range n.neighbors {
			undirected[id] = append(undirected[id], neighborID)
			undirected[neighborID] = append(undirected[neighborID], id)
		}
	}

	visited := make(map[NodeID]struct{}, len(g.nodes))
	var largest map[NodeID]struct{}
	for id := range g.nodes {
		if _, seen := visited[id]; seen {
			continue
		}

		component := map[NodeID]struct{}{id: {}}
		visited[id] = struct{}{}
		queue := []NodeID{id}
		for len(queue) > 0 {
			currID := queue[0]
			queue = queue[1:]

			for _, neighborID := range undirected[currID] {
				if _, seen := visited[neighborID]; !seen {
					visited[neighborID] = struct{}{}
					component[neighborID] = struct{}{}
					queue = append(queue, neighborID)
				}
			}
		}

		if len(component) > len(largest) {
			largest = component
		}
	}

	removed := 0
	for id := range g.nodes {
		if _, keep := largest[id]; !keep {
			delete(g.nodes, id)
			removed++
		}
	}

	// scrub edges whose head got deleted
	for _, n := range g.nodes {
		for neighborID := range n.neighbors {
			if _, ok := g.nodes[neighborID]; !ok {
				delete(n.neighbors, neighborID)
			}
		}
	}

	return removed
}

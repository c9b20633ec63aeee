package usecases

import (
	"context"

	"github.com/sakay-app/sakay-routing/pkg/datastructure"
	"github.com/sakay-app/sakay-routing/pkg/engine"
	"github.com/sakay-app/sakay-routing/pkg/fare"
	"github.com/sakay-app/sakay-routing/pkg/geo"
)

// RoutingEngine the parts of engine.Engine the http layer needs.
type RoutingEngine interface {
	FetchRoadNetwork(ctx context.Context, center geo.Coordinate, radiusMeters float64) error
	FindNearestOsmNode(p geo.Coordinate, radiusMeters float64) (datastructure.NodeID, bool)
	FindShortestPath(start, end datastructure.NodeID) (*engine.PathResult, bool, error)
	GetDetailedPathCoordinates(path []datastructure.NodeID) []geo.Coordinate
	AttachPoint(name string, p geo.Coordinate, snapRadiusMeters float64) (datastructure.NodeID, bool)
	SnapToRoadSegment(p geo.Coordinate, node datastructure.NodeID) geo.Coordinate
	Tariff() fare.Tariff
}

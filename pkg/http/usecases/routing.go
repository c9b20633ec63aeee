package usecases

import (
	"context"
	"math"
	"sync"

	"go.uber.org/zap"

	"github.com/sakay-app/sakay-routing/pkg"
	"github.com/sakay-app/sakay-routing/pkg/geo"
)

// RoutingService caller-facing routing workflow: one bounding fetch
// covering both endpoints, synthetic endpoint splicing, solve, detail,
// fare. The mutex keeps one trip computation in flight at a time since the
// engine's fetch fully replaces its working set.
type RoutingService struct {
	mu sync.Mutex

	log          *zap.Logger
	engine       RoutingEngine
	searchRadius float64 // snap radius, meter
	fetchMargin  float64 // extra fetch radius beyond half the endpoint separation, meter
}

func NewRoutingService(log *zap.Logger, engine RoutingEngine, searchRadius, fetchMargin float64) *RoutingService {
	return &RoutingService{
		log:          log,
		engine:       engine,
		searchRadius: searchRadius,
		fetchMargin:  fetchMargin,
	}
}

func (rs *RoutingService) ComputeRoute(ctx context.Context, origLat, origLon, dstLat, dstLon float64) (float64, float64, float64, string, bool, error) {
	rs.mu.Lock()
	defer rs.mu.Unlock()

	origin := geo.NewCoordinate(origLat, origLon)
	destination := geo.NewCoordinate(dstLat, dstLon)

	// one region covering both endpoints, so the replace-not-merge fetch
	// does not discard the origin's roads while fetching the destination's
	midLat, midLon := geo.MidPoint(origLat, origLon, dstLat, dstLon)
	separation := geo.HaversineMeters(origin, destination)
	radius := math.Max(pkg.DEFAULT_FETCH_RADIUS, separation/2.0+rs.fetchMargin)

	if err := rs.engine.FetchRoadNetwork(ctx, geo.NewCoordinate(midLat, midLon), radius); err != nil {
		return 0, 0, 0, "", false, err
	}

	startID, okStart := rs.engine.AttachPoint("origin", origin, rs.searchRadius)
	endID, okEnd := rs.engine.AttachPoint("destination", destination, rs.searchRadius)
	if !okStart || !okEnd {
		rs.log.Warn("no usable road network near endpoints, using straight-line estimate")
		return rs.straightLineEstimate(origin, destination)
	}

	result, found, err := rs.engine.FindShortestPath(startID, endID)
	if err != nil {
		return 0, 0, 0, "", false, err
	}
	if !found {
		rs.log.Warn("destination unreachable on road network, using straight-line estimate")
		return rs.straightLineEstimate(origin, destination)
	}

	points := rs.engine.GetDetailedPathCoordinates(result.Path)
	if len(result.Path) > 2 && len(points) > 1 {
		// start the drawn route on the road rather than at the raw gps point
		points[0] = rs.engine.SnapToRoadSegment(origin, result.Path[1])
		points[len(points)-1] = rs.engine.SnapToRoadSegment(destination, result.Path[len(result.Path)-2])
	}
	pathPolyline := geo.PolylineFromCoords(points)

	return result.EstimatedTime, result.Distance, result.Fare, pathPolyline, false, nil
}

// straightLineEstimate product-level fallback when routing yields nothing:
// haversine distance, average-speed eta, and the fare for that distance,
// flagged approximate so clients can render it differently.
func (rs *RoutingService) straightLineEstimate(origin, destination geo.Coordinate) (float64, float64, float64, string, bool, error) {
	distance := geo.HaversineMeters(origin, destination)
	eta := (distance / 1000.0 / pkg.AVERAGE_SPEED_KMH) * 60.0
	fareAmount := rs.engine.Tariff().Calculate(distance)
	pathPolyline := geo.PolylineFromCoords([]geo.Coordinate{origin, destination})
	return eta, distance, fareAmount, pathPolyline, true, nil
}

func (rs *RoutingService) NearestRoadNode(ctx context.Context, lat, lon, radius float64) (string, bool, error) {
	rs.mu.Lock()
	defer rs.mu.Unlock()

	if err := rs.engine.FetchRoadNetwork(ctx, geo.NewCoordinate(lat, lon), pkg.DEFAULT_FETCH_RADIUS); err != nil {
		return "", false, err
	}

	nodeID, found := rs.engine.FindNearestOsmNode(geo.NewCoordinate(lat, lon), radius)
	if !found {
		return "", false, nil
	}
	return nodeID.String(), true, nil
}

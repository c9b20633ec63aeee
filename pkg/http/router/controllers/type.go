package controllers

import "context"

type RoutingService interface {
	ComputeRoute(ctx context.Context, origLat, origLon, dstLat, dstLon float64) (eta, distance, fare float64,
		polyline string, approximate bool, err error)
	NearestRoadNode(ctx context.Context, lat, lon, radius float64) (nodeID string, found bool, err error)
}

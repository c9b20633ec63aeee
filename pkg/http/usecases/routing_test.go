package usecases

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/sakay-app/sakay-routing/pkg/datastructure"
	"github.com/sakay-app/sakay-routing/pkg/engine"
	"github.com/sakay-app/sakay-routing/pkg/fare"
	"github.com/sakay-app/sakay-routing/pkg/geo"
)

type fakeEngine struct {
	fetchCenter geo.Coordinate
	fetchRadius float64
	fetchErr    error

	attachOK   bool
	pathResult *engine.PathResult
	pathFound  bool
}

func (f *fakeEngine) FetchRoadNetwork(_ context.Context, center geo.Coordinate, radiusMeters float64) error {
	f.fetchCenter = center
	f.fetchRadius = radiusMeters
	return f.fetchErr
}

func (f *fakeEngine) FindNearestOsmNode(geo.Coordinate, float64) (datastructure.NodeID, bool) {
	if !f.attachOK {
		return datastructure.NodeID{}, false
	}
	return datastructure.OsmNodeID(1), true
}

func (f *fakeEngine) FindShortestPath(datastructure.NodeID, datastructure.NodeID) (*engine.PathResult, bool, error) {
	return f.pathResult, f.pathFound, nil
}

func (f *fakeEngine) GetDetailedPathCoordinates(path []datastructure.NodeID) []geo.Coordinate {
	coords := make([]geo.Coordinate, len(path))
	for i := range path {
		coords[i] = geo.NewCoordinate(13.6195+float64(i)*0.0002, 123.1814+float64(i)*0.0002)
	}
	return coords
}

func (f *fakeEngine) AttachPoint(name string, _ geo.Coordinate, _ float64) (datastructure.NodeID, bool) {
	if !f.attachOK {
		return datastructure.NodeID{}, false
	}
	return datastructure.SyntheticNodeID(name), true
}

func (f *fakeEngine) SnapToRoadSegment(p geo.Coordinate, _ datastructure.NodeID) geo.Coordinate {
	return p
}

func (f *fakeEngine) Tariff() fare.Tariff {
	return fare.NewTariff(50, 15, 1, 20)
}

func TestComputeRouteFetchCoversBothEndpoints(t *testing.T) {
	fake := &fakeEngine{
		attachOK:  true,
		pathFound: true,
		pathResult: &engine.PathResult{
			Path: []datastructure.NodeID{
				datastructure.SyntheticNodeID("origin"),
				datastructure.OsmNodeID(1),
				datastructure.OsmNodeID(2),
				datastructure.SyntheticNodeID("destination"),
			},
			Distance:      750,
			EstimatedTime: 1.5,
			Fare:          50,
		},
	}
	svc := NewRoutingService(zap.NewNop(), fake, 500, 500)

	eta, dist, fareAmount, pathPolyline, approximate, err := svc.ComputeRoute(context.Background(),
		13.6195, 123.1814, 13.6200, 123.1820)
	require.NoError(t, err)

	assert.Equal(t, 1.5, eta)
	assert.Equal(t, 750.0, dist)
	assert.Equal(t, 50.0, fareAmount)
	assert.NotEmpty(t, pathPolyline)
	assert.False(t, approximate)

	// fetch center is the midpoint of the trip and the radius covers both
	// endpoints plus the margin
	separation := geo.HaversineMeters(
		geo.NewCoordinate(13.6195, 123.1814), geo.NewCoordinate(13.6200, 123.1820))
	assert.InDelta(t, 13.61975, fake.fetchCenter.Lat, 1e-4)
	assert.GreaterOrEqual(t, fake.fetchRadius, separation/2.0+500)
}

func TestComputeRouteStraightLineFallback(t *testing.T) {
	fake := &fakeEngine{attachOK: false}
	svc := NewRoutingService(zap.NewNop(), fake, 500, 500)

	origin := geo.NewCoordinate(13.6195, 123.1814)
	destination := geo.NewCoordinate(13.6400, 123.2000)

	eta, dist, fareAmount, pathPolyline, approximate, err := svc.ComputeRoute(context.Background(),
		origin.Lat, origin.Lon, destination.Lat, destination.Lon)
	require.NoError(t, err)

	assert.True(t, approximate)

	wantDist := geo.HaversineMeters(origin, destination)
	assert.InDelta(t, wantDist, dist, 1e-6)
	assert.InDelta(t, (wantDist/1000.0/40.0)*60.0, eta, 1e-6)
	assert.Equal(t, fake.Tariff().Calculate(wantDist), fareAmount)

	decoded, err := geo.CoordsFromPolyline(pathPolyline)
	require.NoError(t, err)
	require.Len(t, decoded, 2)
}

func TestComputeRouteUnreachableFallsBack(t *testing.T) {
	fake := &fakeEngine{attachOK: true, pathFound: false}
	svc := NewRoutingService(zap.NewNop(), fake, 500, 500)

	_, _, _, _, approximate, err := svc.ComputeRoute(context.Background(),
		13.6195, 123.1814, 13.6200, 123.1820)
	require.NoError(t, err)
	assert.True(t, approximate)
}

func TestComputeRouteFetchError(t *testing.T) {
	fake := &fakeEngine{fetchErr: assert.AnError}
	svc := NewRoutingService(zap.NewNop(), fake, 500, 500)

	_, _, _, _, _, err := svc.ComputeRoute(context.Background(),
		13.6195, 123.1814, 13.6200, 123.1820)
	assert.ErrorIs(t, err, assert.AnError)
}

func TestNearestRoadNode(t *testing.T) {
	fake := &fakeEngine{attachOK: true}
	svc := NewRoutingService(zap.NewNop(), fake, 500, 500)

	nodeID, found, err := svc.NearestRoadNode(context.Background(), 13.6195, 123.1814, 500)
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, "osm_1", nodeID)

	fake.attachOK = false
	_, found, err = svc.NearestRoadNode(context.Background(), 13.6195, 123.1814, 500)
	require.NoError(t, err)
	assert.False(t, found)
}

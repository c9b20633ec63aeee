package controllers

type computeRouteRequest struct {
	OriginLat      float64 `json:"origin_lat" validate:"required,min=-90,max=90"`
	OriginLon      float64 `json:"origin_lon" validate:"required,min=-180,max=180"`
	DestinationLat float64 `json:"destination_lat" validate:"required,min=-90,max=90"`
	DestinationLon float64 `json:"destination_lon" validate:"required,min=-180,max=180"`
}

type computeRouteResponse struct {
	Eta         float64 `json:"eta"`
	Dist        float64 `json:"distance"`
	Fare        float64 `json:"fare"`
	Path        string  `json:"path"`
	Approximate bool    `json:"approximate"`
}

func NewComputeRouteResponse(eta, dist, fare float64, path string, approximate bool) computeRouteResponse {
	return computeRouteResponse{
		Eta:         eta,
		Dist:        dist,
		Fare:        fare,
		Path:        path,
		Approximate: approximate,
	}
}

type nearestNodeRequest struct {
	Lat    float64 `json:"lat" validate:"required,min=-90,max=90"`
	Lon    float64 `json:"lon" validate:"required,min=-180,max=180"`
	Radius float64 `json:"radius" validate:"omitempty,min=0"`
}

type nearestNodeResponse struct {
	NodeID string `json:"node_id"`
	Found  bool   `json:"found"`
}

func NewNearestNodeResponse(nodeID string, found bool) nearestNodeResponse {
	return nearestNodeResponse{NodeID: nodeID, Found: found}
}

type errorResponse struct {
	Error struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

package overpass

import (
	"github.com/sakay-app/sakay-routing/pkg/osmparser"
)

type Response struct {
	Elements []Element `json:"elements"`
}

type Element struct {
	Type  string            `json:"type"`
	ID    int64             `json:"id"`
	Lat   float64           `json:"lat"`
	Lon   float64           `json:"lon"`
	Nodes []int64           `json:"nodes"`
	Tags  map[string]string `json:"tags"`
}

// WorkingSet split the response into the node/way maps the graph builder
// consumes. Ways that are not routable (missing highway tag, fewer than two
// nodes) are dropped here, silently.
func (r *Response) WorkingSet() (map[int64]osmparser.Node, map[int64]osmparser.Way) {
	nodes := make(map[int64]osmparser.Node)
	ways := make(map[int64]osmparser.Way)

	for _, el := range r.Elements {
		switch el.Type {
		case "node":
			nodes[el.ID] = osmparser.NewNode(el.ID, el.Lat, el.Lon)
		case "way":
			way := osmparser.NewWay(el.ID, el.Nodes, osmparser.NewWayTags(el.Tags))
			if !way.Valid() {
				continue
			}
			ways[el.ID] = way
		}
	}

	return nodes, ways
}

package osmparser

import (
	"strconv"
	"strings"

	"github.com/sakay-app/sakay-routing/pkg"
	"github.com/sakay-app/sakay-routing/pkg/geo"
)

type Node struct {
	ID  int64
	Lat float64
	Lon float64
}

func NewNode(id int64, lat, lon float64) Node {
	return Node{ID: id, Lat: lat, Lon: lon}
}

func (n Node) Coordinate() geo.Coordinate {
	return geo.NewCoordinate(n.Lat, n.Lon)
}

// WayTags closed set of routing-relevant osm tags. Anything else lands in
// Other and is never consulted by the router.
type WayTags struct {
	Highway  string
	Oneway   string
	Maxspeed string
	Junction string
	Access   string
	Other    map[string]string
}

func NewWayTags(raw map[string]string) WayTags {
	tags := WayTags{}
	for k, v := range raw {
		switch k {
		case "highway":
			tags.Highway = v
		case "oneway":
			tags.Oneway = v
		case "maxspeed":
			tags.Maxspeed = v
		case "junction":
			tags.Junction = v
		case "access":
			tags.Access = v
		default:
			if tags.Other == nil {
				tags.Other = make(map[string]string)
			}
			tags.Other[k] = v
		}
	}
	return tags
}

type Way struct {
	ID    int64
	Nodes []int64
	Tags  WayTags
}

func NewWay(id int64, nodes []int64, tags WayTags) Way {
	return Way{ID: id, Nodes: nodes, Tags: tags}
}

func (w Way) HighwayType() pkg.OsmHighwayType {
	return pkg.GetHighwayType(w.Tags.Highway)
}

// Valid a way is routable when it has at least two nodes and a recognized
// highway class. Invalid ways are a data quality filter, not an error.
func (w Way) Valid() bool {
	if len(w.Nodes) < 2 {
		return false
	}
	return w.HighwayType() != pkg.UNKNOWN
}

// IsOneWay oneway=yes, roundabouts, and motorways are traversable in node
// order only.
func (w Way) IsOneWay() bool {
	return w.Tags.Oneway == "yes" ||
		w.Tags.Junction == "roundabout" ||
		w.HighwayType().IsOneWayByDefault()
}

// SpeedLimitKmh explicit numeric maxspeed when present, otherwise the
// default for the road class.
func (w Way) SpeedLimitKmh() float64 {
	if speed, ok := ParseMaxspeed(w.Tags.Maxspeed); ok {
		return speed
	}
	return w.HighwayType().DefaultSpeedKmh()
}

// ParseMaxspeed osm maxspeed values come with or without a unit suffix.
// Returns false for empty or non-numeric values ("none", "walk", "signals").
func ParseMaxspeed(value string) (float64, bool) {
	if value == "" {
		return 0, false
	}

	switch {
	case strings.Contains(value, "mph"):
		speed, err := strconv.ParseFloat(strings.TrimSpace(strings.Replace(value, "mph", "", -1)), 64)
		if err != nil {
			return 0, false
		}
		return speed * 1.60934, true
	case strings.Contains(value, "km/h"):
		speed, err := strconv.ParseFloat(strings.TrimSpace(strings.Replace(value, "km/h", "", -1)), 64)
		if err != nil {
			return 0, false
		}
		return speed, true
	case strings.Contains(value, "knots"):
		speed, err := strconv.ParseFloat(strings.TrimSpace(strings.Replace(value, "knots", "", -1)), 64)
		if err != nil {
			return 0, false
		}
		return speed * 1.852, true
	default:
		speed, err := strconv.ParseFloat(strings.TrimSpace(value), 64)
		if err != nil {
			return 0, false
		}
		return speed, true
	}
}

package pkg

import "time"

const (
	INF_WEIGHT float64 = 1e15

	EARTH_RADIUS_KM = 6371.0

	// overpass fetch policy
	OSM_CACHE_TTL        = 24 * time.Hour
	MAX_FETCH_RETRIES    = 3
	FETCH_RETRY_DELAY    = 1 * time.Second
	DEFAULT_FETCH_RADIUS = 1000.0 // meter

	// nearest node search
	DEFAULT_SNAP_RADIUS = 500.0 // meter

	// warn when the fetched network is too sparse for routing
	MIN_AVERAGE_NODE_DEGREE = 1.5

	// fallback cruise speed when no road type is known (km/h)
	FALLBACK_SPEED_KMH = 30.0
	AVERAGE_SPEED_KMH  = 40.0
)

const (
	DEBUG = false
)

type OsmHighwayType uint8

// enum of osm highway types usable for car routing: https://wiki.openstreetmap.org/wiki/OSM_tags_for_routing
const (
	MOTORWAY       OsmHighwayType = 0
	TRUNK          OsmHighwayType = 1
	PRIMARY        OsmHighwayType = 2
	SECONDARY      OsmHighwayType = 3
	TERTIARY       OsmHighwayType = 4
	RESIDENTIAL    OsmHighwayType = 5
	SERVICE        OsmHighwayType = 6
	UNCLASSIFIED   OsmHighwayType = 7
	MOTORWAY_LINK  OsmHighwayType = 8
	TRUNK_LINK     OsmHighwayType = 9
	PRIMARY_LINK   OsmHighwayType = 10
	SECONDARY_LINK OsmHighwayType = 11
	TERTIARY_LINK  OsmHighwayType = 12
	LIVING_STREET  OsmHighwayType = 13
	UNKNOWN        OsmHighwayType = 14
)

func GetHighwayType(roadType string) OsmHighwayType {
	switch roadType {
	case "motorway":
		return MOTORWAY
	case "trunk":
		return TRUNK
	case "primary":
		return PRIMARY
	case "secondary":
		return SECONDARY
	case "tertiary":
		return TERTIARY
	case "residential":
		return RESIDENTIAL
	case "service":
		return SERVICE
	case "unclassified":
		return UNCLASSIFIED
	case "motorway_link":
		return MOTORWAY_LINK
	case "trunk_link":
		return TRUNK_LINK
	case "primary_link":
		return PRIMARY_LINK
	case "secondary_link":
		return SECONDARY_LINK
	case "tertiary_link":
		return TERTIARY_LINK
	case "living_street":
		return LIVING_STREET
	default:
		return UNKNOWN
	}
}

func (h OsmHighwayType) String() string {
	switch h {
	case MOTORWAY:
		return "motorway"
	case TRUNK:
		return "trunk"
	case PRIMARY:
		return "primary"
	case SECONDARY:
		return "secondary"
	case TERTIARY:
		return "tertiary"
	case RESIDENTIAL:
		return "residential"
	case SERVICE:
		return "service"
	case UNCLASSIFIED:
		return "unclassified"
	case MOTORWAY_LINK:
		return "motorway_link"
	case TRUNK_LINK:
		return "trunk_link"
	case PRIMARY_LINK:
		return "primary_link"
	case SECONDARY_LINK:
		return "secondary_link"
	case TERTIARY_LINK:
		return "tertiary_link"
	case LIVING_STREET:
		return "living_street"
	default:
		return "unknown"
	}
}

// DefaultSpeedKmh default speed limit per road class, used when a way
// carries no numeric maxspeed tag.
func (h OsmHighwayType) DefaultSpeedKmh() float64 {
	switch h {
	case MOTORWAY, MOTORWAY_LINK:
		return 100
	case TRUNK, TRUNK_LINK:
		return 80
	case PRIMARY, PRIMARY_LINK:
		return 60
	case SECONDARY, SECONDARY_LINK:
		return 50
	case TERTIARY, TERTIARY_LINK:
		return 40
	case RESIDENTIAL, UNCLASSIFIED, LIVING_STREET:
		return 30
	case SERVICE:
		return 20
	default:
		return FALLBACK_SPEED_KMH
	}
}

// IsOneWayByDefault motorways are implicitly oneway in osm.
func (h OsmHighwayType) IsOneWayByDefault() bool {
	return h == MOTORWAY || h == MOTORWAY_LINK
}

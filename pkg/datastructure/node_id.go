package datastructure

import "strconv"

// NodeID identifies a vertex of the road graph. It is either a real
// openstreetmap node id or a synthetic vertex spliced onto the network by
// the caller ("current", "destination"). Comparable, usable as a map key.
type NodeID struct {
	osm  int64
	name string
}

func OsmNodeID(id int64) NodeID {
	return NodeID{osm: id}
}

func SyntheticNodeID(name string) NodeID {
	return NodeID{name: name}
}

func (id NodeID) IsOsm() bool {
	return id.name == ""
}

func (id NodeID) Osm() int64 {
	return id.osm
}

func (id NodeID) Name() string {
	return id.name
}

func (id NodeID) IsZero() bool {
	return id.osm == 0 && id.name == ""
}

func (id NodeID) String() string {
	if id.IsOsm() {
		return "osm_" + strconv.FormatInt(id.osm, 10)
	}
	return id.name
}

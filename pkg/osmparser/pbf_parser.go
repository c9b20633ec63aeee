package osmparser

import (
	"context"
	"os"

	"github.com/paulmach/osm"
	"github.com/paulmach/osm/osmpbf"
	"go.uber.org/zap"
)

type PbfParser struct {
	log *zap.Logger
}

func NewPbfParser(log *zap.Logger) *PbfParser {
	return &PbfParser{log: log}
}

// Parse read a .osm.pbf extract into the same node/way working set the
// overpass fetcher produces, so the graph builder does not care where the
// data came from. Two scans: ways first to learn which node ids matter,
// then the nodes themselves.
func (p *PbfParser) Parse(ctx context.Context, mapFile string) (map[int64]Node, map[int64]Way, error) {
	f, err := os.Open(mapFile)
	if err != nil {
		return nil, nil, err
	}
	defer f.Close()

	ways := make(map[int64]Way)
	wayNodeIDs := make(map[int64]struct{})

	scanner := osmpbf.New(ctx, f, 0)
	countWays := 0
	for scanner.Scan() {
		o := scanner.Object()
		if o.ObjectID().Type() != osm.TypeWay {
			continue
		}

		osmWay := o.(*osm.Way)
		way := fromPbfWay(osmWay)
		if !way.Valid() {
			continue
		}

		if (countWays+1)%50000 == 0 {
			p.log.Info("reading openstreetmap ways...", zap.Int("count", countWays+1))
		}
		countWays++

		ways[way.ID] = way
		for _, nodeID := range way.Nodes {
			wayNodeIDs[nodeID] = struct{}{}
		}
	}
	if err := scanner.Err(); err != nil {
		scanner.Close()
		return nil, nil, err
	}
	scanner.Close()

	if _, err := f.Seek(0, 0); err != nil {
		return nil, nil, err
	}

	nodes := make(map[int64]Node, len(wayNodeIDs))

	scanner = osmpbf.New(ctx, f, 0)
	defer scanner.Close()
	for scanner.Scan() {
		o := scanner.Object()
		if o.ObjectID().Type() != osm.TypeNode {
			continue
		}

		osmNode := o.(*osm.Node)
		if _, ok := wayNodeIDs[int64(osmNode.ID)]; !ok {
			continue
		}
		nodes[int64(osmNode.ID)] = NewNode(int64(osmNode.ID), osmNode.Lat, osmNode.Lon)
	}
	if err := scanner.Err(); err != nil {
		return nil, nil, err
	}

	p.log.Info("parsed openstreetmap extract",
		zap.String("file", mapFile),
		zap.Int("nodes", len(nodes)),
		zap.Int("ways", len(ways)))

	return nodes, ways, nil
}

func fromPbfWay(osmWay *osm.Way) Way {
	raw := make(map[string]string, len(osmWay.Tags))
	for _, tag := range osmWay.Tags {
		raw[tag.Key] = tag.Value
	}

	nodeIDs := make([]int64, 0, len(osmWay.Nodes))
	for _, wayNode := range osmWay.Nodes {
		nodeIDs = append(nodeIDs, int64(wayNode.ID))
	}

	return NewWay(int64(osmWay.ID), nodeIDs, NewWayTags(raw))
}

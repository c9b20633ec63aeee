package main

import (
	"context"
	"flag"

	"go.uber.org/zap"

	"github.com/sakay-app/sakay-routing/pkg/logger"
	"github.com/sakay-app/sakay-routing/pkg/osmparser"
)

var (
	mapFile = flag.String("map", "./data/naga_city.osm.pbf", "osm pbf extract to preprocess")
	outFile = flag.String("out", "./data/naga_city.snapshot.bz2", "output snapshot file")
)

func main() {
	flag.Parse()
	log, err := logger.New()
	if err != nil {
		panic(err)
	}

	parser := osmparser.NewPbfParser(log)
	nodes, ways, err := parser.Parse(context.Background(), *mapFile)
	if err != nil {
		log.Fatal("failed to parse pbf extract", zap.String("file", *mapFile), zap.Error(err))
	}

	if err := osmparser.WriteSnapshot(*outFile, nodes, ways); err != nil {
		log.Fatal("failed to write snapshot", zap.String("file", *outFile), zap.Error(err))
	}

	log.Info("snapshot written", zap.String("file", *outFile),
		zap.Int("nodes", len(nodes)), zap.Int("ways", len(ways)))
}

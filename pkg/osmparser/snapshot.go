package osmparser

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/dsnet/compress/bzip2"
)

// Snapshot persistence of the osm working set. The road graph itself is not
// serialized: it is rebuilt from nodes+ways on load, the same as after a
// network fetch.

func WriteSnapshot(filename string, nodes map[int64]Node, ways map[int64]Way) error {
	f, err := os.Create(filename)
	if err != nil {
		return err
	}
	defer f.Close()

	bz, err := bzip2.NewWriter(f, &bzip2.WriterConfig{})
	if err != nil {
		return err
	}
	defer bz.Close()

	w := bufio.NewWriter(bz)

	fmt.Fprintf(w, "%d %d\n", len(nodes), len(ways))

	for _, n := range nodes {
		latF := strconv.FormatFloat(n.Lat, 'f', -1, 64)
		lonF := strconv.FormatFloat(n.Lon, 'f', -1, 64)
		fmt.Fprintf(w, "%d %s %s\n", n.ID, latF, lonF)
	}

	for _, way := range ways {
		fmt.Fprintf(w, "%d %d", way.ID, len(way.Nodes))
		for _, nodeID := range way.Nodes {
			fmt.Fprintf(w, " %d", nodeID)
		}
		fmt.Fprintf(w, "\n")

		// routing-relevant tags only, tab separated so units like "30 mph" survive
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
			way.Tags.Highway, way.Tags.Oneway, way.Tags.Maxspeed,
			way.Tags.Junction, way.Tags.Access)
	}

	return w.Flush()
}

func ReadSnapshot(filename string) (map[int64]Node, map[int64]Way, error) {
	f, err := os.Open(filename)
	if err != nil {
		return nil, nil, err
	}
	defer f.Close()

	bz, err := bzip2.NewReader(f, nil)
	if err != nil {
		return nil, nil, err
	}
	defer bz.Close()

	br := bufio.NewReader(bz)

	line, err := readLine(br)
	if err != nil {
		return nil, nil, err
	}
	header := strings.Fields(line)
	if len(header) != 2 {
		return nil, nil, fmt.Errorf("malformed snapshot header: %q", line)
	}
	numNodes, err := strconv.Atoi(header[0])
	if err != nil {
		return nil, nil, err
	}
	numWays, err := strconv.Atoi(header[1])
	if err != nil {
		return nil, nil, err
	}

	nodes := make(map[int64]Node, numNodes)
	for i := 0; i < numNodes; i++ {
		line, err = readLine(br)
		if err != nil {
			return nil, nil, err
		}
		ff := strings.Fields(line)
		if len(ff) != 3 {
			return nil, nil, fmt.Errorf("malformed snapshot node line: %q", line)
		}
		id, err := strconv.ParseInt(ff[0], 10, 64)
		if err != nil {
			return nil, nil, err
		}
		lat, err := strconv.ParseFloat(ff[1], 64)
		if err != nil {
			return nil, nil, err
		}
		lon, err := strconv.ParseFloat(ff[2], 64)
		if err != nil {
			return nil, nil, err
		}
		nodes[id] = NewNode(id, lat, lon)
	}

	ways := make(map[int64]Way, numWays)
	for i := 0; i < numWays; i++ {
		line, err = readLine(br)
		if err != nil {
			return nil, nil, err
		}
		ff := strings.Fields(line)
		if len(ff) < 2 {
			return nil, nil, fmt.Errorf("malformed snapshot way line: %q", line)
		}
		id, err := strconv.ParseInt(ff[0], 10, 64)
		if err != nil {
			return nil, nil, err
		}
		n, err := strconv.Atoi(ff[1])
		if err != nil {
			return nil, nil, err
		}
		if len(ff) != 2+n {
			return nil, nil, fmt.Errorf("snapshot way %d: want %d node refs, got %d", id, n, len(ff)-2)
		}
		nodeIDs := make([]int64, n)
		for j := 0; j < n; j++ {
			nodeIDs[j], err = strconv.ParseInt(ff[2+j], 10, 64)
			if err != nil {
				return nil, nil, err
			}
		}

		line, err = readLine(br)
		if err != nil {
			return nil, nil, err
		}
		tagFields := strings.Split(line, "\t")
		if len(tagFields) != 5 {
			return nil, nil, fmt.Errorf("malformed snapshot tag line: %q", line)
		}
		tags := WayTags{
			Highway:  tagFields[0],
			Oneway:   tagFields[1],
			Maxspeed: tagFields[2],
			Junction: tagFields[3],
			Access:   tagFields[4],
		}

		ways[id] = NewWay(id, nodeIDs, tags)
	}

	return nodes, ways, nil
}

func readLine(br *bufio.Reader) (string, error) {
	line, err := br.ReadString('\n')
	if err != nil {
		if errors.Is(err, io.EOF) && len(line) > 0 {
		} else {
			return "", err
		}
	}
	return strings.TrimRight(line, "\r\n"), nil
}

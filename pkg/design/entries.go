package design

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"

	"voxeltomo/internal/models"
)

// ReadDataEntries parses a dataset file with one (event, observer) entry
// per line:
//
//	eventID eventLat eventLon eventR station network staLat staLon
//
// Lines starting with '#' and blank lines are ignored.
func ReadDataEntries(path string) ([]models.DataEntry, error) {
	lines, err := readLines(path)
	if err != nil {
		return nil, err
	}

	entries := make([]models.DataEntry, 0, len(lines))
	for i, line := range lines {
		fields := strings.Fields(line)
		if len(fields) != 8 {
			return nil, fmt.Errorf("%s: line %d: expected 8 fields, got %d", path, i+1, len(fields))
		}
		values, err := parseFields(fields, 1, 2, 3, 6, 7)
		if err != nil {
			return nil, fmt.Errorf("%s: line %d: %w", path, i+1, err)
		}
		entries = append(entries, models.DataEntry{
			Event: models.Event{
				ID: fields[0],
				Hypocenter: models.FullPosition{
					Latitude: values[0], Longitude: values[1], Radius: values[2],
				},
			},
			Observer: models.Observer{
				Station:   fields[4],
				Network:   fields[5],
				Latitude:  values[3],
				Longitude: values[4],
			},
		})
	}
	if len(entries) == 0 {
		return nil, fmt.Errorf("%s: no data entries", path)
	}
	return entries, nil
}

// FileTracer serves raypath segments precomputed by the external
// ray-tracing tool, keyed by (event, observer) identity. It lets the
// pipeline run from the tool's exported pierce-point table without
// re-invoking the tool.
type FileTracer struct {
	segments map[string][]models.Segment
}

// ReadSegmentFile parses a pierce-point table with one in-shell segment per
// line:
//
//	eventID station network entryLat entryLon entryR exitLat exitLon exitR
//
// Multiple lines per (event, observer) pair accumulate, one per traced
// phase arrival.
func ReadSegmentFile(path string) (*FileTracer, error) {
	lines, err := readLines(path)
	if err != nil {
		return nil, err
	}

	tracer := &FileTracer{segments: make(map[string][]models.Segment)}
	for i, line := range lines {
		fields := strings.Fields(line)
		if len(fields) != 9 {
			return nil, fmt.Errorf("%s: line %d: expected 9 fields, got %d", path, i+1, len(fields))
		}
		values, err := parseFields(fields, 3, 4, 5, 6, 7, 8)
		if err != nil {
			return nil, fmt.Errorf("%s: line %d: %w", path, i+1, err)
		}
		key := segmentKey(fields[0], fields[1], fields[2])
		tracer.segments[key] = append(tracer.segments[key], models.Segment{
			Entry: models.FullPosition{Latitude: values[0], Longitude: values[1], Radius: values[2]},
			Exit:  models.FullPosition{Latitude: values[3], Longitude: values[4], Radius: values[5]},
		})
	}
	if len(tracer.segments) == 0 {
		return nil, fmt.Errorf("%s: no segments", path)
	}
	return tracer, nil
}

// Trace returns the precomputed segments for the entry. An entry the
// external tool produced nothing for is an error, which the auto designer
// logs and skips.
func (t *FileTracer) Trace(entry models.DataEntry, phases []string, lowerRadius, upperRadius float64) ([]models.Segment, error) {
	key := segmentKey(entry.Event.ID, entry.Observer.Station, entry.Observer.Network)
	segments, ok := t.segments[key]
	if !ok {
		return nil, fmt.Errorf("no traced segments for %s", key)
	}
	return segments, nil
}

func segmentKey(eventID, station, network string) string {
	return eventID + " " + station + "_" + network
}

func readLines(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close()

	var lines []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		lines = append(lines, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	return lines, nil
}

func parseFields(fields []string, indices ...int) ([]float64, error) {
	values := make([]float64, len(indices))
	for i, idx := range indices {
		v, err := strconv.ParseFloat(fields[idx], 64)
		if err != nil {
			return nil, fmt.Errorf("field %q: %w", fields[idx], err)
		}
		values[i] = v
	}
	return values, nil
}

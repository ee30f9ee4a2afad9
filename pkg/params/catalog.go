package params

import (
	"fmt"
	"strconv"
	"strings"

	"voxeltomo/internal/models"
)

// ReadEventCatalog parses an event catalog file with one event per line:
//
//	eventID latitude longitude radius
//
// Duplicate event IDs are rejected.
func ReadEventCatalog(path string) (EventCatalog, error) {
	lines, err := readParameterLines(path)
	if err != nil {
		return nil, err
	}

	catalog := make(EventCatalog, len(lines))
	for i, line := range lines {
		fields := strings.Fields(line)
		if len(fields) != 4 {
			return nil, fmt.Errorf("%s: line %d: expected 4 fields, got %d", path, i+1, len(fields))
		}
		if _, ok := catalog[fields[0]]; ok {
			return nil, fmt.Errorf("%s: line %d: duplicate event %s", path, i+1, fields[0])
		}
		var pos models.FullPosition
		for j, target := range []*float64{&pos.Latitude, &pos.Longitude, &pos.Radius} {
			v, err := strconv.ParseFloat(fields[j+1], 64)
			if err != nil {
				return nil, fmt.Errorf("%s: line %d: field %q: %w", path, i+1, fields[j+1], err)
			}
			*target = v
		}
		catalog[fields[0]] = pos
	}
	return catalog, nil
}

// Package perturbation is the legacy construction path for unknown-parameter
// sets: instead of a voxel information file it starts from a registry of
// named horizontal points plus per-point radius lists, and computes each
// resulting voxel's physical volume directly by spherical-sector
// integration. Retained for compatibility with older experiment layouts;
// the canonical path goes through pkg/design and pkg/params.
package perturbation

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"sync"

	log "github.com/sirupsen/logrus"

	"voxeltomo/internal/models"
	"voxeltomo/pkg/geomath"
)

// Point is one perturbation point: a named horizontal pixel placed at one
// radius, with the radial extent its volume integral spans.
type Point struct {
	// Name is the registry name of the horizontal point
	Name string

	// Position is the voxel center
	Position models.FullPosition

	// DLatitude, DLongitude are the angular extents in degrees
	DLatitude  float64
	DLongitude float64

	// DRadius is the radial extent in km
	DRadius float64
}

// Registry maps horizontal point names to their pixels.
type Registry map[string]models.HorizontalPixel

// ReadRegistry parses a horizontal point file with one
// "name lat lon dLat dLon" line per point. Lines starting with '#' and
// blank lines are ignored; duplicate names are rejected.
func ReadRegistry(path string) (Registry, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close()

	registry := make(Registry)
	scanner := bufio.NewScanner(f)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		fields := strings.Fields(line)
		if len(fields) != 5 {
			return nil, fmt.Errorf("%s: line %d: expected 5 fields, got %d", path, lineNo, len(fields))
		}
		values := make([]float64, 4)
		for i, field := range fields[1:] {
			v, err := strconv.ParseFloat(field, 64)
			if err != nil {
				return nil, fmt.Errorf("%s: line %d: field %q: %w", path, lineNo, field, err)
			}
			values[i] = v
		}
		if _, ok := registry[fields[0]]; ok {
			return nil, fmt.Errorf("%s: line %d: duplicate point name %q", path, lineNo, fields[0])
		}
		registry[fields[0]] = models.HorizontalPixel{
			Latitude:   values[0],
			Longitude:  values[1],
			DLatitude:  values[2],
			DLongitude: values[3],
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	return registry, nil
}

// Resolve combines the registry with a per-name radius list into the full
// point set, preserving the order of names and radii as given. An unknown
// name is a data error and fails the resolution.
func (r Registry) Resolve(names []string, radii map[string][]float64, dRadius float64) ([]Point, error) {
	if dRadius <= 0 {
		return nil, fmt.Errorf("radial extent %v must be positive", dRadius)
	}
	var points []Point
	for _, name := range names {
		pixel, ok := r[name]
		if !ok {
			return nil, fmt.Errorf("horizontal point %q not in registry", name)
		}
		for _, radius := range radii[name] {
			points = append(points, Point{
				Name: name,
				Position: models.FullPosition{
					Latitude:  pixel.Latitude,
					Longitude: pixel.Longitude,
					Radius:    radius,
				},
				DLatitude:  pixel.DLatitude,
				DLongitude: pixel.DLongitude,
				DRadius:    dRadius,
			})
		}
	}
	if len(points) == 0 {
		return nil, fmt.Errorf("no perturbation points resolved")
	}
	return points, nil
}

// ComputeVolumes integrates every point's spherical-sector volume, one
// goroutine per point with no shared state; each task sends its own result
// or error. Per-point failures are collected and returned together rather
// than silently dropped, so a missing entry can never go unnoticed.
func ComputeVolumes(points []Point) ([]float64, error) {
	type result struct {
		index  int
		volume float64
		err    error
	}
	results := make(chan result)

	var wg sync.WaitGroup
	for i, p := range points {
		wg.Add(1)
		go func(i int, p Point) {
			defer wg.Done()
			if p.DLatitude <= 0 || p.DLongitude <= 0 {
				results <- result{index: i, err: fmt.Errorf(
					"point %q has non-positive extents (%v, %v)", p.Name, p.DLatitude, p.DLongitude)}
				return
			}
			v := geomath.Volume(p.Position.Latitude, p.Position.Radius,
				p.DRadius, p.DLatitude, p.DLongitude)
			results <- result{index: i, volume: v}
		}(i, p)
	}
	go func() {
		wg.Wait()
		close(results)
	}()

	volumes := make([]float64, len(points))
	var errs []error
	for res := range results {
		if res.err != nil {
			errs = append(errs, res.err)
			continue
		}
		volumes[res.index] = res.volume
	}
	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}
	log.WithField("points", len(points)).Info("computed perturbation volumes")
	return volumes, nil
}

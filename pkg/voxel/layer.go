// Package voxel implements the radial and 3-D discretization files of the
// model domain: layer information files (thickness + center radius per
// radial shell) and voxel information files (layers crossed with a list of
// horizontal pixels). Both are plain text formats created once per
// experiment and read many times downstream, so readers validate every
// invariant the rest of the pipeline depends on.
package voxel

import (
	"fmt"
	"math"
	"os"

	"gonum.org/v1/gonum/floats"

	"voxeltomo/internal/models"
)

// LayerFile is the radial discretization of the model domain: one thickness
// and one center radius per layer. The radii are strictly increasing and
// duplicate-free; both invariants are enforced at construction and read
// time.
type LayerFile struct {
	thicknesses []float64
	radii       []float64
}

// NewLayerFile builds a layer file from parallel thickness and center-radius
// arrays. The arrays must have the same length and the radii must be
// strictly increasing.
func NewLayerFile(thicknesses, radii []float64) (*LayerFile, error) {
	if len(thicknesses) != len(radii) {
		return nil, fmt.Errorf("thickness count %d does not match radius count %d",
			len(thicknesses), len(radii))
	}
	if len(radii) == 0 {
		return nil, fmt.Errorf("at least one layer is required")
	}
	if err := checkStrictlyIncreasing(radii); err != nil {
		return nil, fmt.Errorf("layer radii: %w", err)
	}
	for i, h := range thicknesses {
		if h <= 0 {
			return nil, fmt.Errorf("layer %d has non-positive thickness %v", i, h)
		}
	}
	return &LayerFile{
		thicknesses: append([]float64(nil), thicknesses...),
		radii:       append([]float64(nil), radii...),
	}, nil
}

// NewLayerFileFromBorders builds layers from N+1 border radii: layer i has
// thickness border[i+1]-border[i] and its center at the midpoint. At least
// two strictly increasing borders are required.
func NewLayerFileFromBorders(borders []float64) (*LayerFile, error) {
	if len(borders) < 2 {
		return nil, fmt.Errorf("need at least 2 border radii, got %d", len(borders))
	}
	if err := checkStrictlyIncreasing(borders); err != nil {
		return nil, fmt.Errorf("border radii: %w", err)
	}
	n := len(borders) - 1
	thicknesses := make([]float64, n)
	radii := make([]float64, n)
	for i := 0; i < n; i++ {
		thicknesses[i] = borders[i+1] - borders[i]
		radii[i] = (borders[i] + borders[i+1]) / 2
	}
	return NewLayerFile(thicknesses, radii)
}

// NewUniformLayerFile builds floor((upper-lower)/dRadius) layers of equal
// thickness dRadius, the first centered at lower+dRadius/2.
func NewUniformLayerFile(lower, upper, dRadius float64) (*LayerFile, error) {
	if dRadius <= 0 {
		return nil, fmt.Errorf("layer thickness %v must be positive", dRadius)
	}
	if upper <= lower {
		return nil, fmt.Errorf("radius range [%v, %v] is empty", lower, upper)
	}
	n := int(math.Floor((upper - lower) / dRadius))
	if n < 1 {
		return nil, fmt.Errorf("radius range [%v, %v] is narrower than one layer of %v km",
			lower, upper, dRadius)
	}
	thicknesses := make([]float64, n)
	radii := make([]float64, n)
	for i := 0; i < n; i++ {
		thicknesses[i] = dRadius
		radii[i] = lower + dRadius/2 + float64(i)*dRadius
	}
	return NewLayerFile(thicknesses, radii)
}

// Thicknesses returns the layer thicknesses in km, in radius order.
// The returned slice is shared; callers must not modify it.
func (l *LayerFile) Thicknesses() []float64 { return l.thicknesses }

// Radii returns the layer center radii in km, strictly increasing.
// The returned slice is shared; callers must not modify it.
func (l *LayerFile) Radii() []float64 { return l.radii }

// NumLayers returns the number of radial layers.
func (l *LayerFile) NumLayers() int { return len(l.radii) }

// TotalThickness returns the summed radial extent of all layers in km.
func (l *LayerFile) TotalThickness() float64 { return floats.Sum(l.thicknesses) }

// Layers returns the discretization as a slice of Layer values.
func (l *LayerFile) Layers() []models.Layer {
	layers := make([]models.Layer, len(l.radii))
	for i := range layers {
		layers[i] = models.Layer{Thickness: l.thicknesses[i], Radius: l.radii[i]}
	}
	return layers
}

// Write saves the layer file as two whitespace-separated numeric lines
// preceded by comment lines. An existing file at path is never overwritten;
// the write fails instead.
func (l *LayerFile) Write(path string) error {
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0644)
	if err != nil {
		return fmt.Errorf("failed to create layer file: %w", err)
	}
	defer f.Close()

	fmt.Fprintln(f, "# thicknesses of each layer [km]")
	fmt.Fprintln(f, joinFloats(l.thicknesses))
	fmt.Fprintln(f, "# radii of center points of each layer [km]")
	if _, err := fmt.Fprintln(f, joinFloats(l.radii)); err != nil {
		return fmt.Errorf("failed to write layer file: %w", err)
	}
	return nil
}

// ReadLayerFile parses a layer file written by Write. Lines starting with
// '#' and blank lines are ignored. A thickness/radius length mismatch or
// non-increasing radii reject the whole file.
func ReadLayerFile(path string) (*LayerFile, error) {
	lines, err := readDataLines(path)
	if err != nil {
		return nil, err
	}
	if len(lines) < 2 {
		return nil, fmt.Errorf("%s: expected thickness and radius lines, got %d data lines",
			path, len(lines))
	}
	thicknesses, err := parseFloats(lines[0])
	if err != nil {
		return nil, fmt.Errorf("%s: thickness line: %w", path, err)
	}
	radii, err := parseFloats(lines[1])
	if err != nil {
		return nil, fmt.Errorf("%s: radius line: %w", path, err)
	}
	l, err := NewLayerFile(thicknesses, radii)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return l, nil
}

// checkStrictlyIncreasing rejects unsorted or duplicate values.
func checkStrictlyIncreasing(values []float64) error {
	for i := 1; i < len(values); i++ {
		if values[i] <= values[i-1] {
			return fmt.Errorf("values must be strictly increasing, got %v after %v at index %d",
				values[i], values[i-1], i)
		}
	}
	return nil
}

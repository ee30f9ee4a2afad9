package voxel

import (
	"fmt"
	"os"

	log "github.com/sirupsen/logrus"

	"voxeltomo/internal/models"
)

// VoxelFile combines a radial discretization with a list of horizontal
// pixels. Together they enumerate len(radii) x len(pixels) voxels: the full
// 3-D grid is the Cartesian product of the two lists. The pixel list order
// and the (sorted) radius order from the file are preserved exactly, but
// consumers must not assume any canonical voxel ordering beyond that.
type VoxelFile struct {
	layers *LayerFile
	pixels []models.HorizontalPixel
}

// NewVoxelFile combines a layer file with a horizontal pixel list.
// The pixel list order is kept as given.
func NewVoxelFile(layers *LayerFile, pixels []models.HorizontalPixel) (*VoxelFile, error) {
	if layers == nil || layers.NumLayers() == 0 {
		return nil, fmt.Errorf("at least one layer is required")
	}
	if len(pixels) == 0 {
		return nil, fmt.Errorf("at least one horizontal pixel is required")
	}
	return &VoxelFile{
		layers: layers,
		pixels: append([]models.HorizontalPixel(nil), pixels...),
	}, nil
}

// Thicknesses returns the layer thicknesses in km.
func (v *VoxelFile) Thicknesses() []float64 { return v.layers.Thicknesses() }

// Radii returns the layer center radii in km, strictly increasing.
func (v *VoxelFile) Radii() []float64 { return v.layers.Radii() }

// Pixels returns the horizontal pixels in file order.
// The returned slice is shared; callers must not modify it.
func (v *VoxelFile) Pixels() []models.HorizontalPixel { return v.pixels }

// Layers returns the underlying radial discretization.
func (v *VoxelFile) Layers() *LayerFile { return v.layers }

// NumVoxels returns the total voxel count len(radii) * len(pixels).
func (v *VoxelFile) NumVoxels() int {
	return v.layers.NumLayers() * len(v.pixels)
}

// FullPositionSet returns the set of all (lat, lon, r) voxel center
// positions, deduplicated. The result is an unordered set; callers needing
// an order must impose their own.
func (v *VoxelFile) FullPositionSet() map[models.FullPosition]struct{} {
	set := make(map[models.FullPosition]struct{}, v.NumVoxels())
	for _, r := range v.layers.Radii() {
		for _, p := range v.pixels {
			set[models.FullPosition{Latitude: p.Latitude, Longitude: p.Longitude, Radius: r}] = struct{}{}
		}
	}
	return set
}

// Write saves the voxel file in the pipeline text format: thicknesses and
// radii lines followed by one "lat lon dLat dLon" line per pixel, each
// section preceded by a comment line. An existing file at path is never
// overwritten; the write fails instead.
func (v *VoxelFile) Write(path string) error {
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0644)
	if err != nil {
		return fmt.Errorf("failed to create voxel file: %w", err)
	}
	defer f.Close()

	fmt.Fprintln(f, "# thicknesses of each layer [km]")
	fmt.Fprintln(f, joinFloats(v.layers.Thicknesses()))
	fmt.Fprintln(f, "# radii of center points of each layer [km]")
	fmt.Fprintln(f, joinFloats(v.layers.Radii()))
	fmt.Fprintln(f, "# horizontal rectangle on sphere [deg] (latitude longitude dLatitude dLongitude)")
	for _, p := range v.pixels {
		_, err := fmt.Fprintf(f, "%s %s %s %s\n",
			formatFloat(p.Latitude), formatFloat(p.Longitude),
			formatFloat(p.DLatitude), formatFloat(p.DLongitude))
		if err != nil {
			return fmt.Errorf("failed to write voxel file: %w", err)
		}
	}

	log.WithFields(log.Fields{
		"path":   path,
		"layers": v.layers.NumLayers(),
		"pixels": len(v.pixels),
		"voxels": v.NumVoxels(),
	}).Info("wrote voxel file")
	return nil
}

// ReadVoxelFile parses a voxel file written by Write. The radii,
// thicknesses and pixel list are reconstructed exactly; a thickness/radius
// length mismatch rejects the whole file. The total voxel count is reported
// to the log, not validated.
func ReadVoxelFile(path string) (*VoxelFile, error) {
	lines, err := readDataLines(path)
	if err != nil {
		return nil, err
	}
	if len(lines) < 3 {
		return nil, fmt.Errorf("%s: expected thicknesses, radii and at least one pixel, got %d data lines",
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
	layers, err := NewLayerFile(thicknesses, radii)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	pixels := make([]models.HorizontalPixel, 0, len(lines)-2)
	for i, line := range lines[2:] {
		values, err := parseFloats(line)
		if err != nil {
			return nil, fmt.Errorf("%s: pixel line %d: %w", path, i, err)
		}
		if len(values) != 4 {
			return nil, fmt.Errorf("%s: pixel line %d: expected 4 fields, got %d",
				path, i, len(values))
		}
		pixels = append(pixels, models.HorizontalPixel{
			Latitude:   values[0],
			Longitude:  values[1],
			DLatitude:  values[2],
			DLongitude: values[3],
		})
	}

	v, err := NewVoxelFile(layers, pixels)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	log.WithFields(log.Fields{
		"path":   path,
		"voxels": v.NumVoxels(),
	}).Info("read voxel file")
	return v, nil
}

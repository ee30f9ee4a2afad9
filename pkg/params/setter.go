package params

import (
	"fmt"

	"voxeltomo/internal/models"
	"voxeltomo/pkg/geomath"
	"voxeltomo/pkg/voxel"
)

// FromVoxelFile expands a voxel design into the unknown-parameter list of
// an inversion, one Physical3D per (variable, voxel). The order is fixed
// and becomes the column order of the inversion matrix: variables in the
// given order, then layers from the bottom up, then horizontal pixels in
// file order.
func FromVoxelFile(v *voxel.VoxelFile, variables []VariableType) ([]UnknownParameter, error) {
	if len(variables) == 0 {
		return nil, fmt.Errorf("no variables given")
	}
	for _, variable := range variables {
		if variable == TIME {
			return nil, fmt.Errorf("variable TIME has no voxel parameter")
		}
	}

	thicknesses := v.Thicknesses()
	radii := v.Radii()
	pixels := v.Pixels()

	unknowns := make([]UnknownParameter, 0, len(variables)*len(radii)*len(pixels))
	for _, variable := range variables {
		for i, radius := range radii {
			for _, pixel := range pixels {
				volume := geomath.Volume(pixel.Latitude, radius,
					thicknesses[i], pixel.DLatitude, pixel.DLongitude)
				unknowns = append(unknowns, Physical3D{
					Variable: variable,
					Pos: models.FullPosition{
						Latitude:  pixel.Latitude,
						Longitude: pixel.Longitude,
						Radius:    radius,
					},
					Volume: volume,
				})
			}
		}
	}
	return unknowns, nil
}

package perturbation

import (
	"fmt"

	"voxeltomo/pkg/params"
)

// SetUnknowns builds the ordered unknown-parameter list for the legacy
// path: one voxel parameter per (variable, point) pair, with the point's
// integrated volume as the parameter size. The variable order is the outer
// loop, so all parameters of one variable stay contiguous; the resulting
// order is the column order of the inversion and must not be changed after
// the list is first written.
func SetUnknowns(points []Point, volumes []float64, variables []params.VariableType) ([]params.UnknownParameter, error) {
	if len(points) != len(volumes) {
		return nil, fmt.Errorf("point count %d does not match volume count %d",
			len(points), len(volumes))
	}
	if len(variables) == 0 {
		return nil, fmt.Errorf("at least one variable type is required")
	}

	unknowns := make([]params.UnknownParameter, 0, len(points)*len(variables))
	for _, variable := range variables {
		for i, p := range points {
			unknowns = append(unknowns, params.Physical3D{
				Variable: variable,
				Pos:      p.Position,
				Volume:   volumes[i],
			})
		}
	}
	return unknowns, nil
}

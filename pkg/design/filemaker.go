package design

import (
	"fmt"
	"os"

	"voxeltomo/internal/models"
	"voxeltomo/pkg/voxel"
)

// FileMaker combines a designed pixel distribution with a radial
// discretization and materializes the voxel information file. The output
// path must not exist yet; an experiment's geometry is written once and
// never overwritten.
type FileMaker struct {
	layers *voxel.LayerFile
}

// NewFileMaker binds the radial discretization the voxel file will carry.
func NewFileMaker(layers *voxel.LayerFile) (*FileMaker, error) {
	if layers == nil || layers.NumLayers() == 0 {
		return nil, fmt.Errorf("at least one layer is required")
	}
	return &FileMaker{layers: layers}, nil
}

// Make builds the voxel file from the pixels and writes it to path.
func (m *FileMaker) Make(pixels []models.HorizontalPixel, path string) (*voxel.VoxelFile, error) {
	if _, err := os.Stat(path); err == nil {
		return nil, fmt.Errorf("output %s already exists, refusing to overwrite", path)
	}
	v, err := voxel.NewVoxelFile(m.layers, pixels)
	if err != nil {
		return nil, err
	}
	if err := v.Write(path); err != nil {
		return nil, err
	}
	return v, nil
}

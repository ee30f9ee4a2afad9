package design

import (
	"path/filepath"
	"testing"

	"voxeltomo/internal/models"
	"voxeltomo/pkg/voxel"
)

func TestManualDesign(t *testing.T) {
	d, err := NewManualDesigner(testSettings(), Ranges{
		LowerLatitude:  -10,
		UpperLatitude:  10,
		LowerLongitude: 20,
		UpperLongitude: 40,
	})
	if err != nil {
		t.Fatal(err)
	}

	pixels, err := d.Design()
	if err != nil {
		t.Fatal(err)
	}

	// 5 rows (-10..10 step 5) x 5 slots (20..40 step 5)
	if len(pixels) != 25 {
		t.Fatalf("Design produced %d pixels, want 25", len(pixels))
	}
	rows := map[float64]int{}
	for _, p := range pixels {
		rows[p.Latitude]++
		if p.Longitude < 20 || p.Longitude > 40 {
			t.Errorf("Pixel longitude %v outside configured range", p.Longitude)
		}
		if p.DLatitude != 5 || p.DLongitude != 5 {
			t.Errorf("Pixel extents (%v, %v), want (5, 5)", p.DLatitude, p.DLongitude)
		}
	}
	for _, lat := range []float64{-10, -5, 0, 5, 10} {
		if rows[lat] != 5 {
			t.Errorf("Row at %v has %d pixels, want 5", lat, rows[lat])
		}
	}
}

func TestManualDesignOffsets(t *testing.T) {
	settings := testSettings()
	settings.LatitudeOffset = 2
	settings.LongitudeOffset = 1

	d, err := NewManualDesigner(settings, Ranges{
		LowerLatitude:  0,
		UpperLatitude:  9,
		LowerLongitude: 0,
		UpperLongitude: 9,
	})
	if err != nil {
		t.Fatal(err)
	}
	pixels, err := d.Design()
	if err != nil {
		t.Fatal(err)
	}

	// rows anchor at n*5+2 inside [0,9]: 2 and 7; slots at n*5+1: 1 and 6
	if len(pixels) != 4 {
		t.Fatalf("Design produced %d pixels, want 4", len(pixels))
	}
	for _, p := range pixels {
		if p.Latitude != 2 && p.Latitude != 7 {
			t.Errorf("Row latitude %v not anchored to offset grid", p.Latitude)
		}
		if p.Longitude != 1 && p.Longitude != 6 {
			t.Errorf("Slot longitude %v not anchored to offset grid", p.Longitude)
		}
	}
}

func TestManualRangesValidate(t *testing.T) {
	cases := []Ranges{
		{LowerLatitude: 10, UpperLatitude: -10, LowerLongitude: 0, UpperLongitude: 10},
		{LowerLatitude: -100, UpperLatitude: 10, LowerLongitude: 0, UpperLongitude: 10},
		{LowerLatitude: -10, UpperLatitude: 10, LowerLongitude: 10, UpperLongitude: 10},
	}
	for _, r := range cases {
		if err := r.Validate(); err == nil {
			t.Errorf("Ranges %+v should be rejected", r)
		}
	}
}

func TestFileMaker(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "voxel.inf")

	layers, err := voxel.NewLayerFileFromBorders([]float64{3480, 3530, 3580})
	if err != nil {
		t.Fatal(err)
	}
	maker, err := NewFileMaker(layers)
	if err != nil {
		t.Fatal(err)
	}

	pixels := []models.HorizontalPixel{
		{Latitude: 0, Longitude: 10, DLatitude: 5, DLongitude: 5},
		{Latitude: 0, Longitude: 15, DLatitude: 5, DLongitude: 5},
	}
	v, err := maker.Make(pixels, path)
	if err != nil {
		t.Fatalf("Failed to make voxel file: %v", err)
	}
	if v.NumVoxels() != 4 {
		t.Errorf("NumVoxels = %d, want 4", v.NumVoxels())
	}

	if _, err := maker.Make(pixels, path); err == nil {
		t.Error("Making over an existing output should fail")
	}

	read, err := voxel.ReadVoxelFile(path)
	if err != nil {
		t.Fatalf("Failed to read the made file back: %v", err)
	}
	if read.NumVoxels() != 4 {
		t.Errorf("Read NumVoxels = %d, want 4", read.NumVoxels())
	}
}

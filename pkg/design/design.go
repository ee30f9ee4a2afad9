// Package design produces horizontal pixel distributions for the voxel
// discretization. Two strategies exist: AutoDesigner tiles only the region
// actually sampled by traced raypaths, ManualDesigner tiles an explicit
// lat/lon range. Both share the same longitude-spacing arithmetic, in
// angular or metric units.
package design

import (
	"fmt"

	"voxeltomo/internal/models"
)

// Tracer is the external ray-tracing collaborator. Given one (event,
// observer) entry and the requested phases, it returns the raypath segments
// lying between the pierce points at the two bounding radii.
type Tracer interface {
	Trace(entry models.DataEntry, phases []string, lowerRadius, upperRadius float64) ([]models.Segment, error)
}

// Settings holds the discretization controls shared by the designers.
// Latitude and longitude spacing are each given either angularly in degrees
// or metrically in km; exactly one of the two must be positive per axis.
// Metric spacings are converted to degrees at the estimated center radius
// of the target shell, per latitude row for the longitude axis.
type Settings struct {
	// DLatitudeDeg is the angular latitude spacing in degrees
	DLatitudeDeg float64

	// DLatitudeKm is the metric latitude spacing in km
	DLatitudeKm float64

	// LatitudeOffset shifts the colatitude band origin in degrees.
	// It must be non-negative so band indices stay non-negative.
	LatitudeOffset float64

	// DLongitudeDeg is the angular longitude spacing in degrees
	DLongitudeDeg float64

	// DLongitudeKm is the metric longitude spacing in km, converted per
	// latitude row using the row's small-circle radius
	DLongitudeKm float64

	// LongitudeOffset shifts the longitude slot origin in degrees
	LongitudeOffset float64

	// CrossDateLine shifts negative longitudes by +360 before range
	// tracking, avoiding spurious wide ranges across the 180 degree seam
	CrossDateLine bool

	// LowerRadius and UpperRadius bound the target shell in km
	LowerRadius float64
	UpperRadius float64

	// Phases are the seismic phases handed to the ray tracer
	Phases []string

	// Structure names the earth structure model used for ray tracing
	Structure string
}

// Validate rejects settings the designers cannot work with.
func (s *Settings) Validate() error {
	if err := validateSpacing("latitude", s.DLatitudeDeg, s.DLatitudeKm); err != nil {
		return err
	}
	if err := validateSpacing("longitude", s.DLongitudeDeg, s.DLongitudeKm); err != nil {
		return err
	}
	if s.LatitudeOffset < 0 {
		return fmt.Errorf("latitude offset %v must be non-negative", s.LatitudeOffset)
	}
	if s.LowerRadius <= 0 || s.UpperRadius <= s.LowerRadius {
		return fmt.Errorf("radius window [%v, %v] is invalid", s.LowerRadius, s.UpperRadius)
	}
	return nil
}

func validateSpacing(axis string, deg, km float64) error {
	switch {
	case deg > 0 && km > 0:
		return fmt.Errorf("%s spacing given both angularly (%v deg) and metrically (%v km)", axis, deg, km)
	case deg <= 0 && km <= 0:
		return fmt.Errorf("%s spacing must be positive in degrees or km", axis)
	case deg < 0 || km < 0:
		return fmt.Errorf("%s spacing must not be negative", axis)
	}
	return nil
}

// CenterRadius estimates the radius of the target shell's center, used to
// convert metric spacings to angles.
func (s *Settings) CenterRadius() float64 {
	return (s.LowerRadius + s.UpperRadius) / 2
}

package design

import (
	"fmt"
	"math"

	log "github.com/sirupsen/logrus"

	"voxeltomo/internal/models"
	"voxeltomo/pkg/geomath"
)

// Ranges are the explicit horizontal bounds of a manual design.
type Ranges struct {
	LowerLatitude float64
	UpperLatitude float64

	LowerLongitude float64
	UpperLongitude float64
}

// Validate rejects empty or out-of-range bounds.
func (r *Ranges) Validate() error {
	if r.LowerLatitude < -90 || r.UpperLatitude > 90 {
		return fmt.Errorf("latitude range [%v, %v] exceeds [-90, 90]",
			r.LowerLatitude, r.UpperLatitude)
	}
	if r.UpperLatitude <= r.LowerLatitude {
		return fmt.Errorf("latitude range [%v, %v] is empty", r.LowerLatitude, r.UpperLatitude)
	}
	if r.UpperLongitude <= r.LowerLongitude {
		return fmt.Errorf("longitude range [%v, %v] is empty", r.LowerLongitude, r.UpperLongitude)
	}
	return nil
}

// ManualDesigner tiles an explicit lat/lon range. No ray tracing is
// involved: row and slot positions come from purely arithmetic index ranges
// over the configured bounds, with the same per-row metric longitude math
// as the automatic designer.
type ManualDesigner struct {
	settings Settings
	ranges   Ranges
}

// NewManualDesigner validates settings and ranges.
func NewManualDesigner(settings Settings, ranges Ranges) (*ManualDesigner, error) {
	if err := settings.Validate(); err != nil {
		return nil, err
	}
	if err := ranges.Validate(); err != nil {
		return nil, err
	}
	return &ManualDesigner{settings: settings, ranges: ranges}, nil
}

// Design emits pixels at every slot position n*spacing + offset falling
// inside the configured ranges.
func (d *ManualDesigner) Design() ([]models.HorizontalPixel, error) {
	dLat, err := d.settings.latitudeSpacing()
	if err != nil {
		return nil, err
	}

	firstRow := int(math.Ceil((d.ranges.LowerLatitude - d.settings.LatitudeOffset) / dLat))
	lastRow := int(math.Floor((d.ranges.UpperLatitude - d.settings.LatitudeOffset) / dLat))
	if lastRow < firstRow {
		return nil, fmt.Errorf("latitude range [%v, %v] contains no row at spacing %v",
			d.ranges.LowerLatitude, d.ranges.UpperLatitude, dLat)
	}

	var pixels []models.HorizontalPixel
	for i := firstRow; i <= lastRow; i++ {
		lat := float64(i)*dLat + d.settings.LatitudeOffset
		if lat < -90 || lat > 90 {
			continue
		}

		dLon, err := d.settings.longitudeSpacingAt(lat)
		if err != nil {
			log.WithField("latitude", lat).WithError(err).
				Warn("no usable longitude spacing for row, dropped")
			continue
		}

		firstSlot := int(math.Ceil((d.ranges.LowerLongitude - d.settings.LongitudeOffset) / dLon))
		lastSlot := int(math.Floor((d.ranges.UpperLongitude - d.settings.LongitudeOffset) / dLon))
		for n := firstSlot; n <= lastSlot; n++ {
			pixels = append(pixels, models.HorizontalPixel{
				Latitude:   lat,
				Longitude:  geomath.NormalizeLongitude(float64(n)*dLon + d.settings.LongitudeOffset),
				DLatitude:  dLat,
				DLongitude: dLon,
			})
		}
	}
	if len(pixels) == 0 {
		return nil, fmt.Errorf("design produced no pixels")
	}

	log.WithFields(log.Fields{
		"rows":   lastRow - firstRow + 1,
		"pixels": len(pixels),
	}).Info("manual design finished")
	return pixels, nil
}

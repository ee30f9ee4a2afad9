package design

import (
	"fmt"
	"math"
	"sort"

	log "github.com/sirupsen/logrus"
	"gonum.org/v1/gonum/stat"

	"voxeltomo/internal/models"
	"voxeltomo/pkg/geomath"
)

// AutoDesigner derives a horizontal pixel distribution from the raypaths of
// a dataset: only the colatitude bands actually crossed by rays produce
// pixels, and each band is tiled over exactly the longitude range its
// samples cover.
type AutoDesigner struct {
	settings Settings
	tracer   Tracer
}

// NewAutoDesigner validates the settings and binds the ray tracer.
func NewAutoDesigner(settings Settings, tracer Tracer) (*AutoDesigner, error) {
	if err := settings.Validate(); err != nil {
		return nil, err
	}
	if tracer == nil {
		return nil, fmt.Errorf("a ray tracer is required for automatic design")
	}
	return &AutoDesigner{settings: settings, tracer: tracer}, nil
}

// band tracks the longitude extent of the raypath samples falling into one
// colatitude band.
type band struct {
	minLon  float64
	maxLon  float64
	samples int
}

// Design traces every data entry, samples the in-shell raypath segments,
// bins the samples into colatitude bands of width dLatitude and emits one
// pixel row per non-empty band. Entries the tracer fails on are logged and
// skipped; the batch continues.
func (d *AutoDesigner) Design(entries []models.DataEntry) ([]models.HorizontalPixel, error) {
	if len(entries) == 0 {
		return nil, fmt.Errorf("no data entries to design from")
	}

	dLat, err := d.settings.latitudeSpacing()
	if err != nil {
		return nil, err
	}

	bands := make(map[int]*band)
	traced, skipped := 0, 0
	for _, entry := range entries {
		segments, err := d.tracer.Trace(entry, d.settings.Phases,
			d.settings.LowerRadius, d.settings.UpperRadius)
		if err != nil {
			log.WithFields(log.Fields{
				"event":    entry.Event.ID,
				"observer": entry.Observer.Key(),
			}).WithError(err).Warn("ray tracing failed, entry skipped")
			skipped++
			continue
		}
		traced++
		for _, segment := range segments {
			if err := d.binSegment(segment, dLat, bands); err != nil {
				return nil, err
			}
		}
	}
	if traced == 0 {
		return nil, fmt.Errorf("ray tracing failed for all %d entries", skipped)
	}
	if skipped > 0 {
		log.WithFields(log.Fields{"traced": traced, "skipped": skipped}).
			Warn("some entries could not be traced")
	}

	pixels, err := d.emitPixels(bands, dLat)
	if err != nil {
		return nil, err
	}
	logBandStatistics(bands, len(pixels))
	return pixels, nil
}

// binSegment converts a raypath segment into evenly spaced sample points
// along its great-circle path and buckets each sample into a colatitude
// band. The sampling interval is half the latitude spacing; a zero-length
// segment still yields one interval so the endpoints are always sampled.
func (d *AutoDesigner) binSegment(segment models.Segment, dLat float64, bands map[int]*band) error {
	distance := geomath.EpicentralDistance(
		segment.Entry.Latitude, segment.Entry.Longitude,
		segment.Exit.Latitude, segment.Exit.Longitude)
	azimuth := geomath.Azimuth(
		segment.Entry.Latitude, segment.Entry.Longitude,
		segment.Exit.Latitude, segment.Exit.Longitude)

	intervals := int(math.Ceil(distance / (dLat / 2)))
	if intervals < 1 {
		intervals = 1
	}
	step := distance / float64(intervals)

	for k := 0; k <= intervals; k++ {
		lat, lon := geomath.PointAlongPath(
			segment.Entry.Latitude, segment.Entry.Longitude, azimuth, step*float64(k))

		colat, err := geomath.Colatitude(lat)
		if err != nil {
			return err
		}
		// the offset keeps the shifted colatitude, and therefore the band
		// index, non-negative
		idx := int(math.Floor((colat + d.settings.LatitudeOffset) / dLat))

		if d.settings.CrossDateLine && lon < 0 {
			lon += 360
		}
		b, ok := bands[idx]
		if !ok {
			b = &band{minLon: lon, maxLon: lon}
			bands[idx] = b
		}
		b.minLon = math.Min(b.minLon, lon)
		b.maxLon = math.Max(b.maxLon, lon)
		b.samples++
	}
	return nil
}

// emitPixels produces one row of pixels per non-empty band. The band center
// latitude is recovered by reversing the colatitude transform; bands whose
// center the offset pushes outside [-90, 90] are dropped. Longitude slots
// anchor to n*dLongitude + offset in absolute degrees.
func (d *AutoDesigner) emitPixels(bands map[int]*band, dLat float64) ([]models.HorizontalPixel, error) {
	indices := make([]int, 0, len(bands))
	for idx := range bands {
		indices = append(indices, idx)
	}
	sort.Ints(indices)

	var pixels []models.HorizontalPixel
	for _, idx := range indices {
		centerColat := (float64(idx)+0.5)*dLat - d.settings.LatitudeOffset
		if centerColat < 0 || centerColat > 180 {
			log.WithField("band", idx).Debug("band center pushed out of range, dropped")
			continue
		}
		lat, err := geomath.LatitudeForColatitude(centerColat)
		if err != nil {
			return nil, err
		}

		dLon, err := d.settings.longitudeSpacingAt(lat)
		if err != nil {
			log.WithFields(log.Fields{"band": idx, "latitude": lat}).
				WithError(err).Warn("no usable longitude spacing for band, dropped")
			continue
		}

		b := bands[idx]
		for _, slot := range longitudeSlots(b.minLon, b.maxLon, dLon, d.settings.LongitudeOffset) {
			pixels = append(pixels, models.HorizontalPixel{
				Latitude:   lat,
				Longitude:  geomath.NormalizeLongitude(slot),
				DLatitude:  dLat,
				DLongitude: dLon,
			})
		}
	}
	if len(pixels) == 0 {
		return nil, fmt.Errorf("design produced no pixels")
	}
	return pixels, nil
}

// longitudeSlots returns the slot center longitudes n*dLon + offset lying
// inside [minLon, maxLon]. A band narrower than one slot still produces a
// single pixel at the slot nearest its center.
func longitudeSlots(minLon, maxLon, dLon, offset float64) []float64 {
	first := int(math.Ceil((minLon - offset) / dLon))
	last := int(math.Floor((maxLon - offset) / dLon))
	if last < first {
		mid := (minLon + maxLon) / 2
		n := math.Round((mid - offset) / dLon)
		return []float64{n*dLon + offset}
	}
	slots := make([]float64, 0, last-first+1)
	for n := first; n <= last; n++ {
		slots = append(slots, float64(n)*dLon+offset)
	}
	return slots
}

func (s *Settings) latitudeSpacing() (float64, error) {
	if s.DLatitudeDeg > 0 {
		return s.DLatitudeDeg, nil
	}
	return geomath.LatitudeSpacingDeg(s.DLatitudeKm, s.CenterRadius())
}

func (s *Settings) longitudeSpacingAt(latitude float64) (float64, error) {
	if s.DLongitudeDeg > 0 {
		return s.DLongitudeDeg, nil
	}
	return geomath.LongitudeSpacingDeg(s.DLongitudeKm, s.CenterRadius(), latitude)
}

// logBandStatistics reports how evenly the raypath samples cover the
// occupied bands, a sanity signal on the dataset's geometry.
func logBandStatistics(bands map[int]*band, pixelCount int) {
	counts := make([]float64, 0, len(bands))
	for _, b := range bands {
		counts = append(counts, float64(b.samples))
	}
	if len(counts) == 0 {
		return
	}
	log.WithFields(log.Fields{
		"bands":       len(bands),
		"pixels":      pixelCount,
		"meanSamples": stat.Mean(counts, nil),
		"sdevSamples": stat.StdDev(counts, nil),
	}).Info("automatic design finished")
}

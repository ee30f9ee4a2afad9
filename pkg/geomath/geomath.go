// Package geomath provides the spherical-Earth geometry used by the voxel
// discretization: sector volumes, epicentral distances and azimuths, great
// circle projection, and conversions between angular and metric spacing.
//
// All angles at the package boundary are in degrees and all lengths in km;
// radians appear only inside computations.
package geomath

import (
	"fmt"
	"math"
)

// EarthRadius is the mean Earth radius in km.
const EarthRadius = 6371.0

// Volume returns the physical volume in km^3 of the spherical sector
// centered at pos and extending dR/2 in radius, dLatitude/2 in latitude and
// dLongitude/2 in longitude on either side of the center.
//
// The closed form of the integral over (r, phi, lambda) is
//
//	(r2^3 - r1^3)/3 * (sin(phi2) - sin(phi1)) * (lambda2 - lambda1)
//
// with phi the latitude and lambda the longitude in radians.
func Volume(latitude, radius, dR, dLatitude, dLongitude float64) float64 {
	r1 := radius - dR/2
	r2 := radius + dR/2
	phi1 := toRadians(latitude - dLatitude/2)
	phi2 := toRadians(latitude + dLatitude/2)
	dLambda := toRadians(dLongitude)
	return (r2*r2*r2 - r1*r1*r1) / 3 * (math.Sin(phi2) - math.Sin(phi1)) * dLambda
}

// EpicentralDistance returns the central angle in degrees between two
// horizontal positions, ignoring their radii.
func EpicentralDistance(lat1, lon1, lat2, lon2 float64) float64 {
	phi1 := toRadians(lat1)
	phi2 := toRadians(lat2)
	dLambda := toRadians(lon2 - lon1)
	// haversine form: stable for both small and near-antipodal separations
	sinLat := math.Sin((phi2 - phi1) / 2)
	sinLon := math.Sin(dLambda / 2)
	h := sinLat*sinLat + math.Cos(phi1)*math.Cos(phi2)*sinLon*sinLon
	return toDegrees(2 * math.Asin(math.Min(1, math.Sqrt(h))))
}

// Azimuth returns the initial bearing in degrees, measured clockwise from
// north, of the great circle from (lat1, lon1) toward (lat2, lon2).
// The result is normalized to [0, 360).
func Azimuth(lat1, lon1, lat2, lon2 float64) float64 {
	phi1 := toRadians(lat1)
	phi2 := toRadians(lat2)
	dLambda := toRadians(lon2 - lon1)
	y := math.Sin(dLambda) * math.Cos(phi2)
	x := math.Cos(phi1)*math.Sin(phi2) - math.Sin(phi1)*math.Cos(phi2)*math.Cos(dLambda)
	az := toDegrees(math.Atan2(y, x))
	if az < 0 {
		az += 360
	}
	return az
}

// PointAlongPath returns the latitude and longitude in degrees of the point
// reached by traveling deltaDeg degrees of arc along the great circle that
// leaves (lat, lon) with the given initial azimuth.
func PointAlongPath(lat, lon, azimuthDeg, deltaDeg float64) (float64, float64) {
	phi1 := toRadians(lat)
	lambda1 := toRadians(lon)
	theta := toRadians(azimuthDeg)
	delta := toRadians(deltaDeg)

	sinPhi2 := math.Sin(phi1)*math.Cos(delta) + math.Cos(phi1)*math.Sin(delta)*math.Cos(theta)
	phi2 := math.Asin(sinPhi2)
	lambda2 := lambda1 + math.Atan2(
		math.Sin(theta)*math.Sin(delta)*math.Cos(phi1),
		math.Cos(delta)-math.Sin(phi1)*sinPhi2)

	return toDegrees(phi2), NormalizeLongitude(toDegrees(lambda2))
}

// Colatitude converts a latitude in degrees to the colatitude 90-lat,
// which ranges over [0, 180] and therefore stays non-negative under any
// positive offset. An out-of-range latitude is a caller bug and is rejected.
func Colatitude(latitude float64) (float64, error) {
	if latitude < -90 || latitude > 90 {
		return 0, fmt.Errorf("latitude %v out of range [-90, 90]", latitude)
	}
	return 90 - latitude, nil
}

// LatitudeForColatitude is the inverse of Colatitude.
func LatitudeForColatitude(colatitude float64) (float64, error) {
	if colatitude < 0 || colatitude > 180 {
		return 0, fmt.Errorf("colatitude %v out of range [0, 180]", colatitude)
	}
	return 90 - colatitude, nil
}

// LatitudeSpacingDeg converts a metric latitude spacing in km at the given
// radius into the equivalent angular spacing in degrees.
func LatitudeSpacingDeg(dKm, radius float64) (float64, error) {
	if dKm <= 0 || radius <= 0 {
		return 0, fmt.Errorf("spacing %v km at radius %v km must be positive", dKm, radius)
	}
	return toDegrees(dKm / radius), nil
}

// LongitudeSpacingDeg converts a metric longitude spacing in km into the
// angular spacing in degrees along the small circle at the given latitude
// and radius. The small-circle radius r*cos(lat) shrinks toward the poles,
// so for a fixed dKm the returned angular spacing grows with |latitude|;
// this keeps the physical pixel width constant across rows.
func LongitudeSpacingDeg(dKm, radius, latitudeDeg float64) (float64, error) {
	if dKm <= 0 || radius <= 0 {
		return 0, fmt.Errorf("spacing %v km at radius %v km must be positive", dKm, radius)
	}
	smallCircle := radius * math.Cos(toRadians(latitudeDeg))
	if smallCircle <= 0 {
		return 0, fmt.Errorf("latitude %v has no usable small circle", latitudeDeg)
	}
	return toDegrees(dKm / smallCircle), nil
}

// NormalizeLongitude maps a longitude in degrees into (-180, 180].
func NormalizeLongitude(lon float64) float64 {
	lon = math.Mod(lon, 360)
	if lon > 180 {
		lon -= 360
	} else if lon <= -180 {
		lon += 360
	}
	return lon
}

func toRadians(deg float64) float64 { return deg * math.Pi / 180 }

func toDegrees(rad float64) float64 { return rad * 180 / math.Pi }

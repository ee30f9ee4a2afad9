package models

import "fmt"

// FullPosition is a point inside the Earth given as geographic latitude and
// longitude in degrees plus a radius from the Earth's center in km.
type FullPosition struct {
	// Latitude is the geographic latitude in degrees, positive north
	Latitude float64

	// Longitude is the geographic longitude in degrees, positive east
	Longitude float64

	// Radius is the distance from the Earth's center in km
	Radius float64
}

func (p FullPosition) String() string {
	return fmt.Sprintf("(%v, %v, %v)", p.Latitude, p.Longitude, p.Radius)
}

// HorizontalPixel is a horizontal tile on a sphere: a lat/lon center point
// plus angular half-extents. The tile is not necessarily square; DLatitude
// and DLongitude differ in general.
type HorizontalPixel struct {
	// Latitude is the latitude of the tile center in degrees
	Latitude float64

	// Longitude is the longitude of the tile center in degrees
	Longitude float64

	// DLatitude is the angular extent of the tile in the latitude
	// direction in degrees
	DLatitude float64

	// DLongitude is the angular extent of the tile in the longitude
	// direction in degrees
	DLongitude float64
}

// Layer is a radial shell of the model domain.
type Layer struct {
	// Thickness is the radial extent of the shell in km
	Thickness float64

	// Radius is the radius of the shell's center point in km
	Radius float64
}

// Event identifies a seismic event together with its hypocenter.
type Event struct {
	// ID is the global catalog identifier of the event
	ID string

	// Hypocenter is the event's source position
	Hypocenter FullPosition
}

// Observer identifies a recording station.
type Observer struct {
	// Station is the station code
	Station string

	// Network is the network code the station belongs to
	Network string

	// Latitude and Longitude give the station position in degrees
	Latitude  float64
	Longitude float64
}

// Key returns the identity string "station_network" used to distinguish
// observers that share a station code across networks.
func (o Observer) Key() string {
	return o.Station + "_" + o.Network
}

// Position returns the observer's horizontal position at radius 0.
func (o Observer) Position() FullPosition {
	return FullPosition{Latitude: o.Latitude, Longitude: o.Longitude}
}

// DataEntry is one (event, observer) pair of the dataset driving the
// raypath-adaptive voxel design.
type DataEntry struct {
	Event    Event
	Observer Observer
}

// Segment is the part of a traced raypath lying between two pierce points,
// ordered from where the ray enters the target shell to where it leaves it.
type Segment struct {
	// Entry is the pierce point where the ray enters the radius window
	Entry FullPosition

	// Exit is the pierce point where the ray leaves the radius window
	Exit FullPosition
}

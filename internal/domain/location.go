package domain

import (
	"fmt"
	"strconv"
	"strings"
)

// Location identifies a place by value. The empty Location means "anywhere":
// activities without one cost no travel.
type Location string

func (l Location) IsZero() bool { return strings.TrimSpace(string(l)) == "" }

// Immutable geographic coordinates (longitude, latitude).
type Coordinates struct {
	Lon float64
	Lat float64
}

// Return coordinates as [lon, lat] for external API compatibility.
func (c Coordinates) CoordsToList() []float64 { return []float64{c.Lon, c.Lat} }

// ParseCoordinates accepts locations written as "lon,lat" so they can skip geocoding.
func ParseCoordinates(l Location) (Coordinates, bool) {
	lon, lat, ok := strings.Cut(string(l), ",")
	if !ok {
		return Coordinates{}, false
	}

	x, err := strconv.ParseFloat(strings.TrimSpace(lon), 64)
	if err != nil || x < -180 || x > 180 {
		return Coordinates{}, false
	}
	y, err := strconv.ParseFloat(strings.TrimSpace(lat), 64)
	if err != nil || y < -90 || y > 90 {
		return Coordinates{}, false
	}

	return Coordinates{Lon: x, Lat: y}, true
}

func (c Coordinates) String() string { return fmt.Sprintf("%g,%g", c.Lon, c.Lat) }

// Package geo holds coordinates, map viewports and the Web Mercator math
// used to place them on screen.
package geo

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/project"
)

// maxLatitude is the edge of the Web Mercator square.
const maxLatitude = 85.05112878

var mercatorHalfExtent = math.Pi * orb.EarthRadius

type Coordinates struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// Valid reports whether c is a finite WGS84 position.
func (c Coordinates) Valid() bool {
	if math.IsNaN(c.Lat) || math.IsNaN(c.Lng) || math.IsInf(c.Lat, 0) || math.IsInf(c.Lng, 0) {
		return false
	}

	return c.Lat >= -90 && c.Lat <= 90 && c.Lng >= -180 && c.Lng <= 180
}

func (c Coordinates) Point() orb.Point {
	return orb.Point{c.Lng, c.Lat}
}

func (c Coordinates) String() string {
	return fmt.Sprintf("%.6f,%.6f", c.Lat, c.Lng)
}

// ParseCoordinates parses a textual latitude/longitude pair.
func ParseCoordinates(lat, lng string) (Coordinates, error) {
	latValue, err := strconv.ParseFloat(strings.TrimSpace(lat), 64)
	if err != nil {
		return Coordinates{}, fmt.Errorf("can't parse latitude '%s': %w", lat, err)
	}

	lngValue, err := strconv.ParseFloat(strings.TrimSpace(lng), 64)
	if err != nil {
		return Coordinates{}, fmt.Errorf("can't parse longitude '%s': %w", lng, err)
	}

	c := Coordinates{Lat: latValue, Lng: lngValue}
	if !c.Valid() {
		return Coordinates{}, fmt.Errorf("coordinates out of range: %s", c)
	}

	return c, nil
}

// WorldPoint projects c onto the unit Web Mercator square. X grows east,
// Y grows south, both in [0, 1].
func WorldPoint(c Coordinates) orb.Point {
	lat := math.Max(-maxLatitude, math.Min(maxLatitude, c.Lat))
	p := project.WGS84.ToMercator(orb.Point{c.Lng, lat})

	return orb.Point{
		(p[0] + mercatorHalfExtent) / (2 * mercatorHalfExtent),
		(mercatorHalfExtent - p[1]) / (2 * mercatorHalfExtent),
	}
}

// WorldSize is the width in pixels of the whole world at zoom.
func WorldSize(zoom int, tileSize float64) float64 {
	return tileSize * math.Exp2(float64(zoom))
}

package geo

import (
	"fmt"
	"math"

	"github.com/paulmach/orb"
	"github.com/twpayne/go-geos"
)

// Viewport is the visible map region: a center and the span in degrees
// on each axis. The longitude span doubles as the zoom level.
type Viewport struct {
	Center         Coordinates `json:"center"`
	LatitudeDelta  float64     `json:"latitudeDelta"`
	LongitudeDelta float64     `json:"longitudeDelta"`
}

// NewViewport centers a viewport with the given spans on c.
func NewViewport(c Coordinates, latitudeDelta, longitudeDelta float64) Viewport {
	return Viewport{Center: c, LatitudeDelta: latitudeDelta, LongitudeDelta: longitudeDelta}
}

func (v Viewport) Valid() bool {
	return v.Center.Valid() && v.LatitudeDelta > 0 && v.LongitudeDelta > 0
}

// Zoom converts the longitude span into a fractional slippy-map zoom level.
func (v Viewport) Zoom() float64 {
	delta := v.LongitudeDelta
	if delta <= 0 {
		delta = v.LatitudeDelta
	}
	if delta <= 0 {
		return 0
	}

	return math.Log2(360 / delta)
}

func (v Viewport) Bound() orb.Bound {
	halfLat, halfLng := v.LatitudeDelta/2, v.LongitudeDelta/2

	return orb.Bound{
		Min: orb.Point{v.Center.Lng - halfLng, v.Center.Lat - halfLat},
		Max: orb.Point{v.Center.Lng + halfLng, v.Center.Lat + halfLat},
	}
}

func orbBoundToGeosBounds(bound orb.Bound) *geos.Bounds {
	return geos.NewBounds(bound.Min[0], bound.Min[1], bound.Max[0], bound.Max[1])
}

func (v Viewport) GeosBounds() *geos.Bounds {
	return orbBoundToGeosBounds(v.Bound())
}

// Region returns a reusable containment test for the viewport area.
func (v Viewport) Region() *Region {
	return &Region{geom: v.GeosBounds().Geom()}
}

// Contains reports whether c is inside the viewport, edges included.
func (v Viewport) Contains(c Coordinates) bool {
	return v.Region().Contains(c)
}

// Panned moves the center by fractions of the current span. Positive dx
// moves east, positive dy moves north.
func (v Viewport) Panned(dx, dy float64) Viewport {
	center := Coordinates{
		Lat: math.Max(-maxLatitude, math.Min(maxLatitude, v.Center.Lat+dy*v.LatitudeDelta)),
		Lng: wrapLongitude(v.Center.Lng + dx*v.LongitudeDelta),
	}

	return Viewport{Center: center, LatitudeDelta: v.LatitudeDelta, LongitudeDelta: v.LongitudeDelta}
}

// Scaled multiplies both spans by factor. A factor below one zooms in.
func (v Viewport) Scaled(factor float64) Viewport {
	return Viewport{
		Center:         v.Center,
		LatitudeDelta:  math.Min(180, v.LatitudeDelta*factor),
		LongitudeDelta: math.Min(360, v.LongitudeDelta*factor),
	}
}

func (v Viewport) String() string {
	return fmt.Sprintf("%s ±%.4f/%.4f", v.Center, v.LatitudeDelta, v.LongitudeDelta)
}

// Fit returns the smallest viewport holding every coordinate with padding
// added as a fraction of each span. Spans never go below minDelta.
func Fit(coords []Coordinates, padding, minDelta float64) (Viewport, error) {
	if len(coords) == 0 {
		return Viewport{}, fmt.Errorf("can't fit viewport to zero coordinates")
	}

	bound := orb.Bound{Min: coords[0].Point(), Max: coords[0].Point()}
	for _, c := range coords[1:] {
		bound = bound.Extend(c.Point())
	}

	center := bound.Center()
	latDelta := math.Max(minDelta, (bound.Max[1]-bound.Min[1])*(1+padding))
	lngDelta := math.Max(minDelta, (bound.Max[0]-bound.Min[0])*(1+padding))

	return NewViewport(Coordinates{Lat: center[1], Lng: center[0]}, latDelta, lngDelta), nil
}

func wrapLongitude(lng float64) float64 {
	for lng > 180 {
		lng -= 360
	}
	for lng < -180 {
		lng += 360
	}

	return lng
}

// Region tests containment against a prepared viewport geometry.
type Region struct {
	geom *geos.Geom
}

func (r *Region) Contains(c Coordinates) bool {
	point := geos.NewBounds(c.Lng, c.Lat, c.Lng, c.Lat).Geom()

	return r.geom.Intersects(point)
}

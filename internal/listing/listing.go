// Package listing holds the property records shown on the explore screen,
// the category selection and the filter deriving the visible subset.
package listing

import (
	"errors"
	"fmt"

	"github.com/mishannn/explore-go/internal/geo"
)

// ErrMalformedListing marks a listing whose coordinates can't be used on
// the map. Such a listing is still shown in the list.
var ErrMalformedListing = errors.New("malformed listing")

type Listing struct {
	ID           string
	Title        string
	Description  string
	CategoryCode string
	Price        float64
	Rating       float64
	ImageURL     string

	// Coordinates is nil when the source had no parsable position.
	Coordinates *geo.Coordinates
}

// MapEligible reports whether the listing can be placed on the map.
func (l Listing) MapEligible() bool {
	return l.Coordinates != nil && l.Coordinates.Valid()
}

type Category struct {
	Code     string
	Name     string
	ImageURL string
}

// ParsePosition parses the textual coordinates of listing id. A missing or
// unparsable pair yields nil and an error wrapping ErrMalformedListing.
func ParsePosition(id, lat, lng string) (*geo.Coordinates, error) {
	if lat == "" || lng == "" {
		return nil, fmt.Errorf("%w: listing %s has no coordinates", ErrMalformedListing, id)
	}

	c, err := geo.ParseCoordinates(lat, lng)
	if err != nil {
		return nil, fmt.Errorf("%w: listing %s: %w", ErrMalformedListing, id, err)
	}

	return &c, nil
}

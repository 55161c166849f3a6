package explore

import (
	"github.com/mishannn/explore-go/internal/geo"
	"github.com/mishannn/explore-go/internal/listing"
	"github.com/mishannn/explore-go/internal/location"
	"github.com/mishannn/explore-go/internal/sheet"
)

// Events sent by the header, the list and the map surface.

type CategorySelected struct {
	Selection listing.Selection
}

type ListItemPressed struct {
	ListingID string
}

// MarkerPressed is sent for a leaf marker.
type MarkerPressed struct {
	ListingID string
}

// ClusterPressed is sent for an aggregate marker. Pass must be the Frame
// pass the cluster came from; presses against older passes are ignored.
type ClusterPressed struct {
	Pass      int
	ClusterID string
}

type ViewportChanged struct {
	Viewport geo.Viewport
}

type RecenterRequested struct{}

type ShowMap struct{}

type ShowList struct{}

type SheetDragged struct {
	Position sheet.Position
}

// LanguageChanged is the tracked dependency of the screen's fetches.
type LanguageChanged struct {
	Lang string
}

// Results of asynchronous operations. Each carries the session token it
// was started under so late results can be dropped.

type listingsLoadedMsg struct {
	token    string
	lang     string
	listings []listing.Listing
	err      error
}

type categoriesLoadedMsg struct {
	token      string
	lang       string
	categories []listing.Category
	err        error
}

type locationResolvedMsg struct {
	token  string
	result location.Result
}

type sheetSettledMsg struct {
	token string
}

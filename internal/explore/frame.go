package explore

import (
	"github.com/mishannn/explore-go/internal/cluster"
	"github.com/mishannn/explore-go/internal/geo"
	"github.com/mishannn/explore-go/internal/listing"
	"github.com/mishannn/explore-go/internal/location"
	"github.com/mishannn/explore-go/internal/sheet"
)

// Frame is the derived state every renderer paints from. The list and the
// map always receive the same Frame.
type Frame struct {
	// Pass changes whenever clusters are recomputed. Cluster IDs are only
	// meaningful together with the Pass they were rendered in.
	Pass int
	Lang string

	Selection  listing.Selection
	Categories []listing.Category
	Visible    []listing.Listing

	LoadingListings   bool
	LoadingCategories bool

	Viewport      geo.Viewport
	HasViewport   bool
	LocationState location.State

	// Clusters partitions the map-eligible visible listings.
	Clusters []cluster.Cluster
	// OnScreen are the clusters whose center lies inside the viewport.
	OnScreen []cluster.Cluster

	Sheet        sheet.Position
	SheetPending bool

	Notices []string
}

// Empty reports that loading finished and nothing matches the selection.
func (f Frame) Empty() bool {
	return !f.LoadingListings && len(f.Visible) == 0
}

// Cluster looks up a cluster of this frame by ID.
func (f Frame) Cluster(id string) (cluster.Cluster, bool) {
	for _, c := range f.Clusters {
		if c.ID == id {
			return c, true
		}
	}

	return cluster.Cluster{}, false
}

// Renderer receives every new Frame.
type Renderer interface {
	Render(frame Frame)
}

// RendererFunc adapts a function to Renderer.
type RendererFunc func(frame Frame)

func (f RendererFunc) Render(frame Frame) {
	f(frame)
}

// Package cluster groups map-eligible listings into markers for a viewport.
//
// Clustering is hierarchical: leaves are merged at the deepest zoom level
// first, and every shallower level merges the clusters of the level below.
// A cluster at one zoom is therefore always a union of clusters at any
// deeper zoom, so zooming in only ever splits markers.
package cluster

import (
	"github.com/paulmach/orb"

	"github.com/mishannn/explore-go/internal/geo"
	"github.com/mishannn/explore-go/internal/listing"
)

// Cluster is a map marker. A leaf wraps exactly one listing; an aggregate
// stands for Count listings around Center. Aggregate IDs are only unique
// within one Clusters call.
type Cluster struct {
	ID          string
	Center      geo.Coordinates
	Bbox        orb.Bound
	Count       int
	MemberIDs   []string
	MinPrice    float64
	MaxPrice    float64
	MedianPrice float64

	// Listing is set for leaves only.
	Listing *listing.Listing
}

func (c Cluster) IsLeaf() bool {
	return c.Listing != nil
}

type Options struct {
	// Radius is the merge distance in screen pixels.
	Radius   float64 `yaml:"radius_px"`
	TileSize float64 `yaml:"tile_size"`
	MinZoom  int     `yaml:"min_zoom"`
	// MaxZoom is the deepest level that clusters; beyond it every listing is a leaf.
	MaxZoom int `yaml:"max_zoom"`
}

func DefaultOptions() Options {
	return Options{
		Radius:   40,
		TileSize: 256,
		MinZoom:  0,
		MaxZoom:  16,
	}
}

func (o Options) withDefaults() Options {
	def := DefaultOptions()
	if o.Radius <= 0 {
		o.Radius = def.Radius
	}
	if o.TileSize <= 0 {
		o.TileSize = def.TileSize
	}
	if o.MinZoom < 0 {
		o.MinZoom = 0
	}
	if o.MaxZoom < o.MinZoom {
		o.MaxZoom = o.MinZoom
	}

	return o
}

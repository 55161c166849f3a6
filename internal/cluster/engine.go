package cluster

import (
	"fmt"
	"math"
	"sort"

	"github.com/paulmach/orb"
	"gonum.org/v1/gonum/stat"

	"github.com/mishannn/explore-go/internal/geo"
	"github.com/mishannn/explore-go/internal/listing"
)

type Engine struct {
	opts Options
}

func NewEngine(opts Options) *Engine {
	return &Engine{opts: opts.withDefaults()}
}

func (e *Engine) Options() Options {
	return e.opts
}

// Cluster partitions the map-eligible part of listings into clusters for
// the viewport. Listings without valid coordinates are skipped.
func (e *Engine) Cluster(listings []listing.Listing, viewport geo.Viewport) []Cluster {
	return e.Index(listings).Clusters(viewport)
}

// node is a cluster under construction in unit world coordinates.
type node struct {
	x, y    float64
	members []int
}

// Index holds every zoom level for one listing set so that viewport
// changes only need a lookup.
type Index struct {
	opts   Options
	points []listing.Listing
	leaves []node
	levels [][]node
}

// Index builds the cluster hierarchy for listings.
func (e *Engine) Index(listings []listing.Listing) *Index {
	points := listing.MapEligible(listings)

	leaves := make([]node, len(points))
	for i, l := range points {
		p := geo.WorldPoint(*l.Coordinates)
		leaves[i] = node{x: p[0], y: p[1], members: []int{i}}
	}

	idx := &Index{
		opts:   e.opts,
		points: points,
		leaves: leaves,
		levels: make([][]node, e.opts.MaxZoom-e.opts.MinZoom+1),
	}

	current := leaves
	for z := e.opts.MaxZoom; z >= e.opts.MinZoom; z-- {
		current = e.clusterLevel(current, z)
		idx.levels[z-e.opts.MinZoom] = current
	}

	return idx
}

// Len is the number of map-eligible listings in the index.
func (idx *Index) Len() int {
	return len(idx.points)
}

// EffectiveZoom is the integer level used for viewport, clamped to the
// minimum zoom. Values above MaxZoom mean "no clustering".
func (idx *Index) EffectiveZoom(viewport geo.Viewport) int {
	zoom := int(math.Floor(viewport.Zoom()))
	if zoom < idx.opts.MinZoom {
		zoom = idx.opts.MinZoom
	}

	return zoom
}

func (idx *Index) Clusters(viewport geo.Viewport) []Cluster {
	zoom := idx.EffectiveZoom(viewport)

	nodes := idx.leaves
	if zoom <= idx.opts.MaxZoom {
		nodes = idx.levels[zoom-idx.opts.MinZoom]
	}

	clusters := make([]Cluster, 0, len(nodes))
	for i, n := range nodes {
		clusters = append(clusters, idx.toCluster(n, zoom, i))
	}

	return clusters
}

func (idx *Index) toCluster(n node, zoom, position int) Cluster {
	if len(n.members) == 1 {
		l := idx.points[n.members[0]]
		c := *l.Coordinates

		return Cluster{
			ID:          l.ID,
			Center:      c,
			Bbox:        orb.Bound{Min: c.Point(), Max: c.Point()},
			Count:       1,
			MemberIDs:   []string{l.ID},
			MinPrice:    l.Price,
			MaxPrice:    l.Price,
			MedianPrice: l.Price,
			Listing:     &l,
		}
	}

	lats := make([]float64, len(n.members))
	lngs := make([]float64, len(n.members))
	prices := make([]float64, len(n.members))
	ids := make([]string, len(n.members))

	first := idx.points[n.members[0]].Coordinates.Point()
	bbox := orb.Bound{Min: first, Max: first}

	for i, m := range n.members {
		l := idx.points[m]
		lats[i] = l.Coordinates.Lat
		lngs[i] = l.Coordinates.Lng
		prices[i] = l.Price
		ids[i] = l.ID
		bbox = bbox.Extend(l.Coordinates.Point())
	}

	sort.Float64s(prices)

	return Cluster{
		ID:          fmt.Sprintf("cluster-%d-%d", zoom, position),
		Center:      geo.Coordinates{Lat: stat.Mean(lats, nil), Lng: stat.Mean(lngs, nil)},
		Bbox:        bbox,
		Count:       len(n.members),
		MemberIDs:   ids,
		MinPrice:    prices[0],
		MaxPrice:    prices[len(prices)-1],
		MedianPrice: stat.Quantile(0.5, stat.Empirical, prices, nil),
	}
}

// clusterLevel merges nodes lying within the pixel radius of each other at
// zoom. Nodes are visited in order and a node already absorbed is never
// reconsidered, which keeps the result deterministic.
func (e *Engine) clusterLevel(nodes []node, zoom int) []node {
	radius := e.opts.Radius / geo.WorldSize(zoom, e.opts.TileSize)
	radius2 := radius * radius

	grid := newGrid(nodes, radius)
	absorbed := make([]bool, len(nodes))
	out := make([]node, 0, len(nodes))

	for i, seed := range nodes {
		if absorbed[i] {
			continue
		}
		absorbed[i] = true

		merged := node{
			x:       seed.x * float64(len(seed.members)),
			y:       seed.y * float64(len(seed.members)),
			members: append([]int(nil), seed.members...),
		}

		for _, j := range grid.near(seed.x, seed.y) {
			if absorbed[j] {
				continue
			}

			other := nodes[j]
			dx, dy := other.x-seed.x, other.y-seed.y
			if dx*dx+dy*dy > radius2 {
				continue
			}

			absorbed[j] = true
			merged.x += other.x * float64(len(other.members))
			merged.y += other.y * float64(len(other.members))
			merged.members = append(merged.members, other.members...)
		}

		weight := float64(len(merged.members))
		merged.x /= weight
		merged.y /= weight
		sort.Ints(merged.members)

		out = append(out, merged)
	}

	return out
}

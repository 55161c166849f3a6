package cluster

import (
	"math"
	"sort"
)

type cellKey struct {
	x, y int64
}

// grid buckets nodes into square cells as wide as the merge radius, so
// every neighbour of a point lies in the 3x3 block around its cell.
type grid struct {
	size  float64
	cells map[cellKey][]int
}

func newGrid(nodes []node, size float64) *grid {
	g := &grid{
		size:  size,
		cells: make(map[cellKey][]int, len(nodes)),
	}

	for i, n := range nodes {
		key := g.key(n.x, n.y)
		g.cells[key] = append(g.cells[key], i)
	}

	return g
}

func (g *grid) key(x, y float64) cellKey {
	return cellKey{
		x: int64(math.Floor(x / g.size)),
		y: int64(math.Floor(y / g.size)),
	}
}

// near returns the indexes of nodes in the cells around (x, y), ascending.
func (g *grid) near(x, y float64) []int {
	center := g.key(x, y)

	found := make([]int, 0)
	for dx := int64(-1); dx <= 1; dx++ {
		for dy := int64(-1); dy <= 1; dy++ {
			found = append(found, g.cells[cellKey{x: center.x + dx, y: center.y + dy}]...)
		}
	}

	sort.Ints(found)

	return found
}

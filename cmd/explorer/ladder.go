package main

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"io"
	"slices"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/rs/zerolog/log"

	"github.com/mishannn/explore-go/internal/cluster"
	"github.com/mishannn/explore-go/internal/directory"
	"github.com/mishannn/explore-go/internal/geo"
	"github.com/mishannn/explore-go/internal/listing"
	"github.com/mishannn/explore-go/internal/location"
	"github.com/mishannn/explore-go/internal/utils"
)

var defaultLadder = []float64{90, 22.5, 5.625, 1.4, 0.35, 0.0421, 0.01, 0.0025, 0.0005}

type ladderStep struct {
	viewport   geo.Viewport
	zoom       int
	clusters   int
	aggregates int
	onScreen   int
}

// runLadder clusters the directory for a series of viewports around the
// device fix, or around the listings when there is none, and prints one
// row per viewport from the widest to the narrowest.
func runLadder(ctx context.Context, dir directory.Client, engine *cluster.Engine, geolocator location.Geolocator, lang string, deltas []float64, workers int, w io.Writer) error {
	listings, err := dir.FetchListings(ctx, lang)
	if err != nil {
		return fmt.Errorf("can't fetch listings: %w", err)
	}

	eligible := listing.MapEligible(listings)
	if len(eligible) == 0 {
		return errors.New("no listings with a map position")
	}

	center, err := ladderCenter(ctx, geolocator, eligible)
	if err != nil {
		return err
	}

	if len(deltas) == 0 {
		deltas = defaultLadder
	}
	deltas = slices.Clone(deltas)
	slices.SortFunc(deltas, func(a, b float64) int { return cmp.Compare(b, a) })

	index := engine.Index(eligible)
	ratio := location.DefaultLatitudeDelta / location.DefaultLongitudeDelta

	wp := utils.NewWorkerPool(func(ctx context.Context, delta float64) (ladderStep, error) {
		v := geo.NewViewport(center, delta*ratio, delta)
		if !v.Valid() {
			return ladderStep{}, fmt.Errorf("invalid viewport for delta %g", delta)
		}

		clusters := index.Clusters(v)
		region := v.Region()

		step := ladderStep{viewport: v, zoom: index.EffectiveZoom(v), clusters: len(clusters)}
		for _, c := range clusters {
			if !c.IsLeaf() {
				step.aggregates++
			}
			if region.Contains(c.Center) {
				step.onScreen++
			}
		}

		return step, nil
	}, workers)
	wp.OnProgress(func(current int, total int) {
		log.Debug().Int("current", current).Int("total", total).Msg("Ladder step done")
	})

	steps, err := wp.Map(ctx, deltas)
	if err != nil {
		return fmt.Errorf("can't compute ladder: %w", err)
	}

	t := table.New().
		Border(lipgloss.NormalBorder()).
		Headers("DELTA", "ZOOM", "MARKERS", "AGGREGATES", "ON SCREEN")
	for _, s := range steps {
		t.Row(
			strconv.FormatFloat(s.viewport.LongitudeDelta, 'g', -1, 64),
			strconv.Itoa(s.zoom),
			strconv.Itoa(s.clusters),
			strconv.Itoa(s.aggregates),
			strconv.Itoa(s.onScreen),
		)
	}

	_, err = fmt.Fprintf(w, "%d listings (%d on the map) around %s\n%s\n", len(listings), len(eligible), center, t.Render())
	if err != nil {
		return fmt.Errorf("can't write ladder: %w", err)
	}

	return nil
}

func ladderCenter(ctx context.Context, geolocator location.Geolocator, eligible []listing.Listing) (geo.Coordinates, error) {
	r := location.Acquire(ctx, geolocator)
	if r.Err == nil {
		return r.Fix, nil
	}
	log.Warn().Err(r.Err).Msg("No device location, centering ladder on listings")

	coords := make([]geo.Coordinates, 0, len(eligible))
	for _, l := range eligible {
		coords = append(coords, *l.Coordinates)
	}

	v, err := geo.Fit(coords, 0, 0)
	if err != nil {
		return geo.Coordinates{}, fmt.Errorf("can't center ladder: %w", err)
	}

	return v.Center, nil
}

package main

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/mishannn/explore-go/internal/cluster"
	"github.com/mishannn/explore-go/internal/directory"
	"github.com/mishannn/explore-go/internal/geo"
	"github.com/mishannn/explore-go/internal/listing"
	"github.com/mishannn/explore-go/internal/location"
)

type stubDirectory struct {
	listings []listing.Listing
	err      error
}

func (d stubDirectory) FetchListings(ctx context.Context, lang string) ([]listing.Listing, error) {
	return d.listings, d.err
}

func (d stubDirectory) FetchCategories(ctx context.Context, lang string) ([]listing.Category, error) {
	return nil, d.err
}

func TestRunLadder(t *testing.T) {
	dir := stubDirectory{listings: []listing.Listing{
		{ID: "a", Coordinates: &geo.Coordinates{Lat: 35.7595, Lng: -5.8340}},
		{ID: "b", Coordinates: &geo.Coordinates{Lat: 35.759545, Lng: -5.8340}},
		{ID: "c", Coordinates: &geo.Coordinates{Lat: 36.2095, Lng: -5.8340}},
		{ID: "d"},
	}}

	var out bytes.Buffer
	err := runLadder(context.Background(), dir, cluster.NewEngine(cluster.DefaultOptions()), location.Static{}, "en",
		[]float64{0.001, 90}, 2, &out)
	if err != nil {
		t.Fatalf("runLadder: %v", err)
	}

	report := out.String()
	if !strings.Contains(report, "4 listings (3 on the map)") {
		t.Errorf("missing summary:\n%s", report)
	}

	wide := strings.Index(report, "90")
	narrow := strings.Index(report, "0.001")
	if wide < 0 || narrow < 0 || wide > narrow {
		t.Errorf("rows should run from the widest delta to the narrowest:\n%s", report)
	}
}

func TestRunLadderErrors(t *testing.T) {
	engine := cluster.NewEngine(cluster.DefaultOptions())

	err := runLadder(context.Background(), stubDirectory{err: directory.ErrDirectoryUnavailable}, engine, location.Static{}, "en", nil, 1, &bytes.Buffer{})
	if err == nil {
		t.Error("expected the directory error")
	}

	err = runLadder(context.Background(), stubDirectory{listings: []listing.Listing{{ID: "x"}}}, engine, location.Static{}, "en", nil, 1, &bytes.Buffer{})
	if err == nil {
		t.Error("expected an error without map positions")
	}
}

// Package location acquires the device position once and owns the map
// viewport derived from it.
package location

import (
	"context"
	"errors"
	"fmt"

	"github.com/mishannn/explore-go/internal/geo"
)

var (
	ErrPermissionDenied    = errors.New("location permission denied")
	ErrLocationUnavailable = errors.New("location unavailable")
)

type Permission int

const (
	PermissionGranted Permission = iota
	PermissionDenied
)

// Geolocator is the device capability asked for access and a single fix.
type Geolocator interface {
	RequestPermission(ctx context.Context) (Permission, error)
	CurrentFix(ctx context.Context) (geo.Coordinates, error)
}

// Result is the outcome of one acquisition.
type Result struct {
	Fix geo.Coordinates
	Err error
}

// Acquire asks for permission and, when granted, for one fix. Failures are
// reported in Result.Err as ErrPermissionDenied or ErrLocationUnavailable.
func Acquire(ctx context.Context, g Geolocator) Result {
	permission, err := g.RequestPermission(ctx)
	if err != nil {
		return Result{Err: fmt.Errorf("%w: can't request permission: %w", ErrPermissionDenied, err)}
	}
	if permission != PermissionGranted {
		return Result{Err: ErrPermissionDenied}
	}

	fix, err := g.CurrentFix(ctx)
	if err != nil {
		if errors.Is(err, ErrLocationUnavailable) {
			return Result{Err: err}
		}
		return Result{Err: fmt.Errorf("%w: %w", ErrLocationUnavailable, err)}
	}
	if !fix.Valid() {
		return Result{Err: fmt.Errorf("%w: invalid fix %s", ErrLocationUnavailable, fix)}
	}

	return Result{Fix: fix}
}

// Static is a Geolocator answering from fixed values, used by the
// terminal client and in tests.
type Static struct {
	Granted bool
	Fix     *geo.Coordinates
}

func (s Static) RequestPermission(ctx context.Context) (Permission, error) {
	if err := ctx.Err(); err != nil {
		return PermissionDenied, err
	}
	if !s.Granted {
		return PermissionDenied, nil
	}

	return PermissionGranted, nil
}

func (s Static) CurrentFix(ctx context.Context) (geo.Coordinates, error) {
	if err := ctx.Err(); err != nil {
		return geo.Coordinates{}, err
	}
	if s.Fix == nil {
		return geo.Coordinates{}, ErrLocationUnavailable
	}

	return *s.Fix, nil
}

package location

import (
	"errors"

	"github.com/mishannn/explore-go/internal/geo"
)

type State int

const (
	Unrequested State = iota
	RequestingPermission
	PermissionDeniedState
	LocationAcquired
	// LocationUnavailableState: permission was granted but no fix came back.
	LocationUnavailableState
)

func (s State) String() string {
	switch s {
	case Unrequested:
		return "unrequested"
	case RequestingPermission:
		return "requesting_permission"
	case PermissionDeniedState:
		return "permission_denied"
	case LocationAcquired:
		return "location_acquired"
	case LocationUnavailableState:
		return "location_unavailable"
	default:
		return "unknown"
	}
}

const (
	DefaultLatitudeDelta  = 0.0922
	DefaultLongitudeDelta = 0.0421
)

// Controller is the single writer of the map viewport. The device fix is
// requested once; after the user moves the map a late fix no longer
// recenters it.
type Controller struct {
	state          State
	latitudeDelta  float64
	longitudeDelta float64

	viewport  *geo.Viewport
	fix       *geo.Coordinates
	userMoved bool
	notice    string
}

func NewController(latitudeDelta, longitudeDelta float64) *Controller {
	if latitudeDelta <= 0 {
		latitudeDelta = DefaultLatitudeDelta
	}
	if longitudeDelta <= 0 {
		longitudeDelta = DefaultLongitudeDelta
	}

	return &Controller{
		state:          Unrequested,
		latitudeDelta:  latitudeDelta,
		longitudeDelta: longitudeDelta,
	}
}

func (c *Controller) State() State {
	return c.state
}

// Begin moves Unrequested to RequestingPermission. It returns false when
// the acquisition already started, so callers issue the request only once.
func (c *Controller) Begin() bool {
	if c.state != Unrequested {
		return false
	}

	c.state = RequestingPermission
	return true
}

// Abort returns an acquisition still waiting for its result to
// Unrequested, so the next Begin issues a fresh request. Settled states
// are kept.
func (c *Controller) Abort() bool {
	if c.state != RequestingPermission {
		return false
	}

	c.state = Unrequested
	return true
}

// Resolve applies the acquisition outcome. Results arriving outside
// RequestingPermission are ignored.
func (c *Controller) Resolve(r Result) {
	if c.state != RequestingPermission {
		return
	}

	switch {
	case r.Err == nil:
		fix := r.Fix
		c.fix = &fix
		c.state = LocationAcquired
		if !c.userMoved {
			v := geo.NewViewport(fix, c.latitudeDelta, c.longitudeDelta)
			c.viewport = &v
		}
	case errors.Is(r.Err, ErrPermissionDenied):
		c.state = PermissionDeniedState
		c.notice = "Permission to access location was denied"
	default:
		c.state = LocationUnavailableState
		c.notice = "Current location is unavailable"
	}
}

// Move applies a user pan or zoom. Invalid viewports are ignored.
func (c *Controller) Move(v geo.Viewport) bool {
	if !v.Valid() {
		return false
	}

	c.userMoved = true
	c.viewport = &v
	return true
}

// Recenter puts the last fix back in the middle of the map, keeping the
// current zoom. Without a fix it does nothing.
func (c *Controller) Recenter() bool {
	if c.fix == nil {
		return false
	}

	latDelta, lngDelta := c.latitudeDelta, c.longitudeDelta
	if c.viewport != nil {
		latDelta, lngDelta = c.viewport.LatitudeDelta, c.viewport.LongitudeDelta
	}

	v := geo.NewViewport(*c.fix, latDelta, lngDelta)
	c.viewport = &v
	return true
}

// Viewport returns the current region, false while it is unset.
func (c *Controller) Viewport() (geo.Viewport, bool) {
	if c.viewport == nil {
		return geo.Viewport{}, false
	}

	return *c.viewport, true
}

// Fix returns the device position, false unless it was acquired.
func (c *Controller) Fix() (geo.Coordinates, bool) {
	if c.fix == nil {
		return geo.Coordinates{}, false
	}

	return *c.fix, true
}

// Notice is the non-fatal message to show after a failed acquisition.
func (c *Controller) Notice() string {
	return c.notice
}

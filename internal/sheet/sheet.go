// Package sheet tracks the snap position of the draggable list sheet that
// sits over the map.
package sheet

type Position int

const (
	// MapDominant shows a thin list strip over the map with a "Show List" affordance.
	MapDominant Position = iota
	// ListDominant shows the list at full height with a "Show Map" affordance.
	ListDominant
)

func (p Position) String() string {
	if p == ListDominant {
		return "list"
	}

	return "map"
}

// Controller starts map dominant and snaps to the list when mounted. Only
// explicit user requests move it until it is unmounted.
type Controller struct {
	position Position
	pending  *Position
	mounted  bool
}

func NewController() *Controller {
	return &Controller{position: MapDominant}
}

// Mount performs the automatic transition to ListDominant, once per mount.
func (c *Controller) Mount() bool {
	if c.mounted {
		return false
	}

	c.mounted = true
	c.position = ListDominant
	c.pending = nil
	return true
}

// Unmount drops any pending snap and arms Mount for the next mount.
func (c *Controller) Unmount() {
	c.mounted = false
	c.pending = nil
}

func (c *Controller) Position() Position {
	return c.position
}

// Pending returns the requested target while a snap is in progress.
func (c *Controller) Pending() (Position, bool) {
	if c.pending == nil {
		return 0, false
	}

	return *c.pending, true
}

// ShowMap requests the map dominant position. It returns false when the
// sheet is already there or heading there.
func (c *Controller) ShowMap() bool {
	return c.request(MapDominant)
}

// ShowList requests the list dominant position.
func (c *Controller) ShowList() bool {
	return c.request(ListDominant)
}

func (c *Controller) request(target Position) bool {
	if !c.mounted {
		return false
	}
	if c.pending != nil {
		if *c.pending == target {
			return false
		}
	} else if c.position == target {
		return false
	}

	c.pending = &target
	return true
}

// Settle completes a pending snap.
func (c *Controller) Settle() bool {
	if c.pending == nil {
		return false
	}

	c.position = *c.pending
	c.pending = nil
	return true
}

// Drag snaps straight to p, dropping any pending request.
func (c *Controller) Drag(p Position) bool {
	if !c.mounted {
		return false
	}

	dropped := c.pending != nil
	c.pending = nil
	if c.position == p {
		return dropped
	}

	c.position = p
	return true
}

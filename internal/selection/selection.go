// Package selection tracks which segments are selected, independent of how
// they are drawn.
package selection

import (
	"slices"

	"github.com/jwulff/waveline/internal/events"
	"github.com/jwulff/waveline/internal/segment"
)

// MinBoxSize is the smallest box, in pixels on each side, that counts as a
// box selection when released without a modifier.
const MinBoxSize = 10.0

// Mods are the modifier keys held during a click or box drag.
type Mods struct {
	Toggle     bool // add the clicked segment
	Range      bool // extend from the anchor
	Accumulate bool // union a box with the prior selection
}

// Box is an in-progress rubber-band selection in track-local pixels.
type Box struct {
	X0, Y0, X1, Y1 float64
	Mods           Mods

	base []int
}

// Rect returns the normalized box.
func (b Box) Rect() segment.Rect { return segment.RectFromPoints(b.X0, b.Y0, b.X1, b.Y1) }

// Small reports whether the box is under MinBoxSize on either side.
func (b Box) Small() bool {
	r := b.Rect()
	return r.Width < MinBoxSize || r.Height < MinBoxSize
}

// Controller holds the selection set and its range anchor.
type Controller struct {
	ids       map[int]struct{}
	anchor    int
	hasAnchor bool
	box       *Box
}

// New returns an empty selection.
func New() *Controller {
	return &Controller{ids: make(map[int]struct{})}
}

// Len returns the number of selected segments.
func (c *Controller) Len() int { return len(c.ids) }

// Contains reports whether id is selected.
func (c *Controller) Contains(id int) bool {
	_, ok := c.ids[id]
	return ok
}

// Anchor returns the last selected id used for range extension.
func (c *Controller) Anchor() (int, bool) { return c.anchor, c.hasAnchor }

// IDs returns the selection in ascending id order.
func (c *Controller) IDs() []int {
	ids := make([]int, 0, len(c.ids))
	for id := range c.ids {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids
}

// Ordered returns the selection in snapshot list order.
func (c *Controller) Ordered(snap segment.Snapshot) []int {
	var ids []int
	for _, seg := range snap.Segments {
		if c.Contains(seg.ID) {
			ids = append(ids, seg.ID)
		}
	}
	return ids
}

// Refresh drops ids no longer present in snap.
func (c *Controller) Refresh(snap segment.Snapshot) {
	for id := range c.ids {
		if !snap.Has(id) {
			delete(c.ids, id)
		}
	}
	if c.hasAnchor && !snap.Has(c.anchor) {
		c.hasAnchor = false
	}
}

func (c *Controller) event() events.SelectSegments {
	return events.SelectSegments{IDs: c.IDs()}
}

// Set replaces the selection with ids, keeping the last as anchor.
func (c *Controller) Set(ids ...int) events.SelectSegments {
	clear(c.ids)
	for _, id := range ids {
		c.ids[id] = struct{}{}
	}
	c.hasAnchor = len(ids) > 0
	if c.hasAnchor {
		c.anchor = ids[len(ids)-1]
	}
	return c.event()
}

// Clear empties the selection and anchor.
func (c *Controller) Clear() events.SelectSegments {
	return c.Set()
}

// Click applies a click on id under mods.
//
// Plain click replaces the selection. Toggle adds id. Range selects the
// list-order span between the anchor and id and leaves the anchor alone;
// without an anchor it behaves like a plain click.
func (c *Controller) Click(snap segment.Snapshot, id int, mods Mods) events.SelectSegments {
	switch {
	case mods.Range && c.hasAnchor && snap.Has(c.anchor):
		from, to := snap.Index(c.anchor), snap.Index(id)
		if to < 0 {
			return c.event()
		}
		if from > to {
			from, to = to, from
		}
		clear(c.ids)
		for _, seg := range snap.Segments[from : to+1] {
			c.ids[seg.ID] = struct{}{}
		}
		return c.event()
	case mods.Toggle:
		c.ids[id] = struct{}{}
		c.anchor, c.hasAnchor = id, true
		return c.event()
	default:
		return c.Set(id)
	}
}

// Box returns the in-progress box, if any.
func (c *Controller) Box() (Box, bool) {
	if c.box == nil {
		return Box{}, false
	}
	return *c.box, true
}

// BeginBox starts a rubber-band selection at (x, y).
func (c *Controller) BeginBox(x, y float64, mods Mods) {
	c.box = &Box{X0: x, Y0: y, X1: x, Y1: y, Mods: mods, base: c.IDs()}
}

// UpdateBox moves the free corner to (x, y) and selects every placed
// segment whose rect overlaps the box. Without Accumulate the prior
// selection is replaced; with it the box result is unioned with the
// selection that existed when the box began.
func (c *Controller) UpdateBox(x, y float64, placed []segment.Placed) (events.SelectSegments, bool) {
	if c.box == nil {
		return events.SelectSegments{}, false
	}
	c.box.X1, c.box.Y1 = x, y
	rect := c.box.Rect()

	clear(c.ids)
	if c.box.Mods.Accumulate {
		for _, id := range c.box.base {
			c.ids[id] = struct{}{}
		}
	}
	last := -1
	for _, p := range placed {
		if p.Rect.Intersects(rect) {
			c.ids[p.ID] = struct{}{}
			last = p.ID
		}
	}
	if last >= 0 {
		c.anchor, c.hasAnchor = last, true
	}
	return c.event(), true
}

// EndBox finishes the box. A small box released without Accumulate is a
// plain click on empty space: the selection is cleared and clicked is true
// so the caller can seek instead.
func (c *Controller) EndBox(x, y float64, placed []segment.Placed) (ev events.SelectSegments, clicked bool) {
	if c.box == nil {
		return events.SelectSegments{}, false
	}
	c.box.X1, c.box.Y1 = x, y
	if c.box.Small() && !c.box.Mods.Accumulate {
		c.box = nil
		return c.Clear(), true
	}
	ev, _ = c.UpdateBox(x, y, placed)
	c.box = nil
	return ev, false
}

// CancelBox discards an in-progress box without changing the selection.
func (c *Controller) CancelBox() {
	c.box = nil
}

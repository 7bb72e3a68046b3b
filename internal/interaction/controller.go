// Package interaction turns pointer and keyboard input on the segment
// track into proposed edits. It owns the drag/resize state machine, box
// selection, and scissor mode; every change leaves as an events.Event for
// the host to apply.
package interaction

import (
	"math"

	"github.com/rs/zerolog"

	"github.com/jwulff/waveline/internal/events"
	"github.com/jwulff/waveline/internal/frame"
	"github.com/jwulff/waveline/internal/logging"
	"github.com/jwulff/waveline/internal/segment"
	"github.com/jwulff/waveline/internal/selection"
	"github.com/jwulff/waveline/internal/snap"
	"github.com/jwulff/waveline/internal/timeaxis"
	"github.com/jwulff/waveline/internal/waveform"
)

// DefaultHandlePx is the width of each resize handle.
const DefaultHandlePx = 6.0

// Mods are the modifiers held with a pointer event.
type Mods struct {
	selection.Mods

	// NoSnap suspends snapping for this gesture frame.
	NoSnap bool
}

// Pointer is a pointer position in timeline pixels, scroll offset
// included, with y relative to the top of the track area.
type Pointer struct {
	X, Y float64
	Mods Mods
}

// Frame is the read-only state the controller works against. The host
// supplies a new one whenever the segment list, viewport or waveform
// changes.
type Frame struct {
	Snapshot segment.Snapshot
	Viewport timeaxis.Viewport
	Buffer   waveform.Buffer
}

// Options tune the controller.
type Options struct {
	Layout          segment.Layout
	HandlePx        float64
	SnapThresholdPx float64
	BufferPx        float64

	// SnapWaveform adds voice boundaries to the snap candidates.
	SnapWaveform bool
}

// DefaultOptions returns the stock options.
func DefaultOptions() Options {
	return Options{
		Layout:          segment.DefaultLayout(),
		HandlePx:        DefaultHandlePx,
		SnapThresholdPx: snap.DefaultThresholdPx,
		BufferPx:        waveform.DefaultBufferPx,
		SnapWaveform:    true,
	}
}

// Hover is the scissor-mode cut indicator.
type Hover struct {
	ID     int
	AtMs   int64
	PixelX float64

	// Valid is false when cutting here would leave a part shorter than
	// the minimum duration.
	Valid bool
}

// Controller is the interaction state machine. It is not safe for
// concurrent use; the host drives it from its single update loop.
type Controller struct {
	opts Options
	log  zerolog.Logger

	frame Frame
	sel   *selection.Controller

	snapEnabled bool
	scissor     bool

	sess    *session
	moves   frame.Queue[Pointer]
	snapped *snap.Point
	hover   *Hover
}

// New returns an idle controller with snapping enabled.
func New(opts Options, log zerolog.Logger) *Controller {
	if opts.HandlePx <= 0 {
		opts.HandlePx = DefaultHandlePx
	}
	return &Controller{
		opts:        opts,
		log:         logging.WithComponent(log, "interaction"),
		sel:         selection.New(),
		snapEnabled: true,
	}
}

// Selection exposes the selection controller.
func (c *Controller) Selection() *selection.Controller { return c.sel }

// State returns the active gesture.
func (c *Controller) State() State {
	if c.sess == nil {
		return Idle
	}
	return c.sess.state
}

// SnapState returns the snap point applied by the last processed frame.
func (c *Controller) SnapState() (snap.Point, bool) {
	if c.snapped == nil {
		return snap.Point{}, false
	}
	return *c.snapped, true
}

// Hover returns the scissor indicator.
func (c *Controller) Hover() (Hover, bool) {
	if c.hover == nil {
		return Hover{}, false
	}
	return *c.hover, true
}

// SnapEnabled reports the snapping preference.
func (c *Controller) SnapEnabled() bool { return c.snapEnabled }

// SetSnapEnabled sets the snapping preference.
func (c *Controller) SetSnapEnabled(on bool) {
	c.snapEnabled = on
	if !on {
		c.snapped = nil
	}
}

// Scissor reports whether scissor mode is on.
func (c *Controller) Scissor() bool { return c.scissor }

// SetScissor toggles scissor mode. Turning it on or off cancels any gesture
// in progress and clears every overlay.
func (c *Controller) SetScissor(on bool) []events.Event {
	if on == c.scissor {
		return nil
	}
	evs := c.Cancel()
	c.scissor = on
	c.log.Debug().Bool("on", on).Msg("scissor mode")
	return evs
}

// SetFrame installs a new frame. Stale selection ids are dropped; a drag
// whose segments disappeared is cancelled.
func (c *Controller) SetFrame(f Frame) []events.Event {
	c.frame = f
	c.sel.Refresh(f.Snapshot)
	if c.sess != nil {
		for _, id := range c.sess.ids {
			if !f.Snapshot.Has(id) {
				c.log.Debug().Int("id", id).Msg("dragged segment vanished")
				return c.Cancel()
			}
		}
	}
	if c.hover != nil && !f.Snapshot.Has(c.hover.ID) {
		c.hover = nil
	}
	return nil
}

// Visible returns the segments in the current viewport plus buffer.
func (c *Controller) Visible() []segment.Placed {
	return c.opts.Layout.Visible(c.frame.Snapshot, c.frame.Viewport, c.opts.BufferPx)
}

// HitTest finds the segment and zone under (x, y). Later segments are
// drawn on top, so they win.
func (c *Controller) HitTest(x, y float64) (segment.Placed, Zone) {
	placed := c.Visible()
	for i := len(placed) - 1; i >= 0; i-- {
		p := placed[i]
		if !p.Rect.Contains(x, y) {
			continue
		}
		handle := min(c.opts.HandlePx, p.Rect.Width/3)
		switch {
		case x <= p.Rect.Left+handle:
			return p, ZoneLeftHandle
		case x >= p.Rect.Right()-handle:
			return p, ZoneRightHandle
		default:
			return p, ZoneBody
		}
	}
	return segment.Placed{}, ZoneNone
}

// PointerDown starts a gesture.
func (c *Controller) PointerDown(p Pointer) []events.Event {
	if c.sess != nil {
		return nil
	}
	if _, ok := c.sel.Box(); ok {
		return nil
	}
	if c.scissor {
		return c.cut(p)
	}

	hit, zone := c.HitTest(p.X, p.Y)
	if zone == ZoneNone {
		c.sel.BeginBox(p.X, p.Y, p.Mods.Mods)
		return nil
	}

	var evs []events.Event
	switch zone {
	case ZoneLeftHandle, ZoneRightHandle:
		if !c.sel.Contains(hit.ID) || c.sel.Len() > 1 {
			evs = append(evs, c.sel.Click(c.frame.Snapshot, hit.ID, selection.Mods{}))
		}
		state := ResizingLeft
		if zone == ZoneRightHandle {
			state = ResizingRight
		}
		c.begin(state, hit.ID, []int{hit.ID}, p.X)
		return evs
	}

	plain := !p.Mods.Toggle && !p.Mods.Range
	onSelection := c.sel.Len() > 1 && c.sel.Contains(hit.ID)
	if !plain || !onSelection {
		evs = append(evs, c.sel.Click(c.frame.Snapshot, hit.ID, p.Mods.Mods))
	}
	if c.sel.Len() > 1 && c.sel.Contains(hit.ID) {
		c.begin(DraggingBatchMove, hit.ID, c.sel.Ordered(c.frame.Snapshot), p.X)
		c.sess.collapse = plain && onSelection
	} else {
		c.begin(DraggingMove, hit.ID, []int{hit.ID}, p.X)
	}
	return evs
}

func (c *Controller) begin(state State, id int, ids []int, x float64) {
	orig := make(map[int]span, len(ids))
	for _, id := range ids {
		seg, _ := c.frame.Snapshot.Find(id)
		orig[id] = span{start: seg.StartMs, end: seg.EndMs}
	}
	c.sess = newSession(state, id, ids, orig, x)
	c.snapped = nil
	c.log.Debug().Stringer("state", state).Ints("ids", ids).Msg("gesture begin")
}

// PointerMove records a move. Moves are coalesced: the caller schedules a
// call to Frame with tok when schedule is true, and the latest position is
// processed then.
func (c *Controller) PointerMove(p Pointer) (tok frame.Token, schedule bool) {
	return c.moves.Push(p)
}

// Frame processes the move delivered by tok. Stale tokens are ignored.
func (c *Controller) Frame(tok frame.Token) []events.Event {
	p, ok := c.moves.Flush(tok)
	if !ok {
		return nil
	}
	return c.process(p)
}

// PointerUp ends the gesture at p, committing it. A move still waiting
// for its frame is dropped since p supersedes it.
func (c *Controller) PointerUp(p Pointer) []events.Event {
	c.moves.Cancel()

	if _, ok := c.sel.Box(); ok {
		ev, clicked := c.sel.EndBox(p.X, p.Y, c.Visible())
		if clicked {
			return []events.Event{ev, events.Seek{Time: c.timeAt(p.X)}}
		}
		return []events.Event{ev}
	}
	if c.sess == nil {
		return nil
	}

	evs := c.process(p)
	s := c.sess
	if !s.started && s.collapse {
		evs = append(evs, c.sel.Set(s.id))
	}
	return append(evs, c.end()...)
}

// Cancel aborts the gesture. Bounds already proposed stand; the open
// transaction is closed so the host can group them.
func (c *Controller) Cancel() []events.Event {
	c.moves.Cancel()
	c.sel.CancelBox()
	c.hover = nil
	if c.sess == nil {
		return nil
	}
	return c.end()
}

func (c *Controller) end() []events.Event {
	s := c.sess
	c.sess = nil
	c.snapped = nil
	c.log.Debug().Stringer("state", s.state).Bool("edited", s.started).Msg("gesture end")
	if s.started {
		return []events.Event{events.DragEnd{}}
	}
	return nil
}

// Key handles a keyboard command.
func (c *Controller) Key(cmd Command) []events.Event {
	switch cmd {
	case CmdDelete:
		if c.sess != nil || c.sel.Len() == 0 {
			return nil
		}
		return []events.Event{events.DeleteSelected{IDs: c.sel.IDs()}}
	case CmdMerge:
		return []events.Event{events.RequestMerge{}}
	case CmdAlign:
		return []events.Event{events.RequestAlignToWaveform{}}
	case CmdToggleSnap:
		return []events.Event{events.RequestToggleSnap{}}
	case CmdCancel:
		if c.sess == nil && !c.hasBox() && c.hover == nil && c.sel.Len() > 0 {
			return []events.Event{c.sel.Clear()}
		}
		return c.Cancel()
	}
	return nil
}

func (c *Controller) hasBox() bool {
	_, ok := c.sel.Box()
	return ok
}

func (c *Controller) timeAt(x float64) float64 {
	t := c.frame.Viewport.Axis.PixelToTime(x)
	return min(max(t, 0), c.frame.Snapshot.Duration())
}

func (c *Controller) durationMs() int64 {
	return c.frame.Snapshot.DurationMs
}

func (c *Controller) process(p Pointer) []events.Event {
	if _, ok := c.sel.Box(); ok {
		ev, _ := c.sel.UpdateBox(p.X, p.Y, c.Visible())
		return []events.Event{ev}
	}
	if c.sess == nil {
		if c.scissor {
			c.updateHover(p)
		}
		return nil
	}

	next := c.compute(p)
	return c.emit(next)
}

func (c *Controller) engine() *snap.Engine {
	return snap.New(c.frame.Snapshot, c.frame.Viewport.Axis, c.frame.Buffer, c.opts.SnapThresholdPx)
}

// compute returns the new bounds for every dragged segment.
func (c *Controller) compute(p Pointer) map[int]span {
	s := c.sess
	axis := c.frame.Viewport.Axis
	delta := axis.PixelToMs(p.X - s.startX)
	snapping := c.snapEnabled && !p.Mods.NoSnap
	durMs := c.durationMs()
	c.snapped = nil

	out := make(map[int]span, len(s.ids))
	switch s.state {
	case DraggingMove, DraggingBatchMove:
		g := s.groupSpan()
		// A timeline without a known duration is unbounded on the right.
		lo, hi := -g.start, int64(math.MaxInt64)
		if durMs > 0 {
			hi = max(durMs-g.end, lo)
		}
		delta = min(max(delta, lo), hi)
		if snapping {
			if off, pt, ok := c.engine().Move(g.start+delta, g.end+delta, s.exclude, c.opts.SnapWaveform); ok {
				if d := delta + off; d >= lo && d <= hi {
					delta = d
					c.snapped = &pt
				}
			}
		}
		for _, id := range s.ids {
			o := s.orig[id]
			out[id] = span{start: o.start + delta, end: o.end + delta}
		}

	case ResizingLeft:
		o := s.orig[s.id]
		start := o.start + delta
		if snapping {
			if pt, ok := c.engine().Edge(start, snap.SideStart, s.exclude, c.opts.SnapWaveform); ok {
				start = pt.TimeMs
				c.snapped = &pt
			}
		}
		clamped := min(max(start, 0), o.end-segment.MinDurationMs)
		if clamped != start {
			c.snapped = nil
		}
		out[s.id] = span{start: clamped, end: o.end}

	case ResizingRight:
		o := s.orig[s.id]
		end := o.end + delta
		if snapping {
			if pt, ok := c.engine().Edge(end, snap.SideEnd, s.exclude, c.opts.SnapWaveform); ok {
				end = pt.TimeMs
				c.snapped = &pt
			}
		}
		clamped := max(end, o.start+segment.MinDurationMs)
		if durMs > 0 {
			clamped = min(clamped, max(durMs, o.start+segment.MinDurationMs))
		}
		if clamped != end {
			c.snapped = nil
		}
		out[s.id] = span{start: o.start, end: clamped}
	}
	return out
}

// emit turns computed bounds into events, opening the transaction on the
// first real change and skipping frames that change nothing.
func (c *Controller) emit(next map[int]span) []events.Event {
	s := c.sess
	changed := false
	for _, id := range s.ids {
		prev, ok := s.last[id]
		if !ok {
			prev = s.orig[id]
		}
		if next[id] != prev {
			changed = true
			break
		}
	}
	if !changed {
		return nil
	}

	var evs []events.Event
	if !s.started {
		s.started = true
		evs = append(evs, events.DragStart{IDs: append([]int(nil), s.ids...)})
	}
	for id, b := range next {
		s.last[id] = b
	}

	if s.state == DraggingBatchMove {
		batch := make([]events.UpdateSegment, 0, len(s.ids))
		for _, id := range s.ids {
			b := next[id]
			batch = append(batch, events.UpdateSegment{ID: id, StartMs: b.start, EndMs: b.end})
		}
		return append(evs, events.UpdateSegments{Batch: batch})
	}
	b := next[s.id]
	return append(evs, events.UpdateSegment{ID: s.id, StartMs: b.start, EndMs: b.end})
}

func (c *Controller) updateHover(p Pointer) {
	hit, zone := c.HitTest(p.X, p.Y)
	if zone == ZoneNone {
		c.hover = nil
		return
	}
	at := c.frame.Viewport.Axis.PixelToMs(p.X)
	c.hover = &Hover{
		ID:     hit.ID,
		AtMs:   at,
		PixelX: p.X,
		Valid:  at-hit.StartMs >= segment.MinDurationMs && hit.EndMs-at >= segment.MinDurationMs,
	}
}

// cut handles a scissor-mode press. Cuts that would leave a part shorter
// than the minimum duration are dropped.
func (c *Controller) cut(p Pointer) []events.Event {
	hit, zone := c.HitTest(p.X, p.Y)
	if zone == ZoneNone {
		return nil
	}
	at := c.frame.Viewport.Axis.PixelToMs(p.X)
	if at-hit.StartMs < segment.MinDurationMs || hit.EndMs-at < segment.MinDurationMs {
		c.log.Debug().Int("id", hit.ID).Int64("at_ms", at).Msg("cut refused")
		return nil
	}
	c.hover = nil
	return []events.Event{events.SplitSegment{ID: hit.ID, AtMs: at}}
}

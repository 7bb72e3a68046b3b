// Package snap finds magnetic snap points for dragged segment edges.
//
// Candidates are the timeline origin, the edges of every segment not being
// dragged, and optionally detected voice boundaries near the edge. The
// tolerance is a fixed on-screen distance converted to time at the current
// zoom, so snapping feels the same at any zoom level.
package snap

import (
	"math"

	"github.com/jwulff/waveline/internal/segment"
	"github.com/jwulff/waveline/internal/timeaxis"
	"github.com/jwulff/waveline/internal/waveform"
)

// DefaultThresholdPx is the on-screen snap tolerance.
const DefaultThresholdPx = 8.0

// Kind is where a snap point came from.
type Kind int

const (
	KindNone Kind = iota
	KindOrigin
	KindSegmentStart
	KindSegmentEnd
	KindVoiceBoundary
)

func (k Kind) String() string {
	switch k {
	case KindOrigin:
		return "origin"
	case KindSegmentStart:
		return "segment-start"
	case KindSegmentEnd:
		return "segment-end"
	case KindVoiceBoundary:
		return "voice"
	default:
		return "none"
	}
}

// Side is which edge of the dragged segment is being snapped.
type Side int

const (
	SideAny Side = iota
	SideStart
	SideEnd
)

// Point is a resolved snap.
type Point struct {
	TimeMs   int64
	PixelX   float64
	Kind     Kind
	Distance int64 // |TimeMs - query time|
}

// Range is an inclusive search window in milliseconds.
type Range struct {
	StartMs, EndMs int64
}

// Query describes one snap lookup.
type Query struct {
	TimeMs  int64
	Exclude map[int]bool
	Side    Side

	// Search enables voice-boundary candidates inside the range. Leave nil
	// to skip waveform analysis entirely.
	Search *Range
}

// Engine resolves snap queries against one frame's snapshot.
type Engine struct {
	snap        segment.Snapshot
	axis        timeaxis.Axis
	buffer      waveform.Buffer
	thresholdPx float64
}

// New returns an engine for the given frame state. thresholdPx <= 0 uses
// DefaultThresholdPx.
func New(snap segment.Snapshot, axis timeaxis.Axis, buffer waveform.Buffer, thresholdPx float64) *Engine {
	if thresholdPx <= 0 {
		thresholdPx = DefaultThresholdPx
	}
	return &Engine{snap: snap, axis: axis, buffer: buffer, thresholdPx: thresholdPx}
}

// ThresholdMs is the tolerance in milliseconds at the current zoom.
func (e *Engine) ThresholdMs() int64 {
	return e.axis.PixelToMs(e.thresholdPx)
}

type candidate struct {
	timeMs int64
	kind   Kind
}

func (e *Engine) candidates(q Query) []candidate {
	out := []candidate{{0, KindOrigin}}
	for _, seg := range e.snap.Segments {
		if q.Exclude[seg.ID] {
			continue
		}
		out = append(out, candidate{seg.StartMs, KindSegmentStart}, candidate{seg.EndMs, KindSegmentEnd})
	}
	if q.Search != nil && !e.buffer.Empty() {
		start := float64(q.Search.StartMs) / 1000
		end := float64(q.Search.EndMs) / 1000
		for _, t := range waveform.DetectVoiceBoundaries(e.buffer, start, end) {
			ms := int64(math.Round(t * 1000))
			if ms >= q.Search.StartMs && ms <= q.Search.EndMs {
				out = append(out, candidate{ms, KindVoiceBoundary})
			}
		}
	}
	return out
}

// preferred reports whether c should win a distance tie for side: a start
// edge prefers abutting a previous segment's end and vice versa.
func preferred(c Kind, side Side) bool {
	return (side == SideStart && c == KindSegmentEnd) || (side == SideEnd && c == KindSegmentStart)
}

// Find returns the nearest candidate within the threshold.
func (e *Engine) Find(q Query) (Point, bool) {
	threshold := e.ThresholdMs()
	var best Point
	found := false
	for _, c := range e.candidates(q) {
		d := c.timeMs - q.TimeMs
		if d < 0 {
			d = -d
		}
		if d > threshold {
			continue
		}
		if !found || d < best.Distance || (d == best.Distance && preferred(c.kind, q.Side) && !preferred(best.Kind, q.Side)) {
			best = Point{TimeMs: c.timeMs, Kind: c.kind, Distance: d}
			found = true
		}
	}
	if !found {
		return Point{}, false
	}
	best.PixelX = e.axis.MsToPixel(best.TimeMs)
	return best, true
}

// Move snaps a moving span [startMs, endMs] as a unit. Each edge is tried
// independently and only the closer snap is applied, as an offset to both
// edges, so the span keeps its duration.
func (e *Engine) Move(startMs, endMs int64, exclude map[int]bool, withWaveform bool) (offset int64, p Point, ok bool) {
	qs := Query{TimeMs: startMs, Exclude: exclude, Side: SideStart}
	qe := Query{TimeMs: endMs, Exclude: exclude, Side: SideEnd}
	if withWaveform {
		qs.Search = e.searchAround(startMs)
		qe.Search = e.searchAround(endMs)
	}
	ps, okS := e.Find(qs)
	pe, okE := e.Find(qe)
	switch {
	case okS && (!okE || ps.Distance <= pe.Distance):
		return ps.TimeMs - startMs, ps, true
	case okE:
		return pe.TimeMs - endMs, pe, true
	}
	return 0, Point{}, false
}

// Edge snaps a single resizing edge.
func (e *Engine) Edge(timeMs int64, side Side, exclude map[int]bool, withWaveform bool) (Point, bool) {
	q := Query{TimeMs: timeMs, Exclude: exclude, Side: side}
	if withWaveform {
		q.Search = e.searchAround(timeMs)
	}
	return e.Find(q)
}

// searchAround is the voice-boundary window for an edge: the snap
// tolerance either side.
func (e *Engine) searchAround(timeMs int64) *Range {
	t := e.ThresholdMs()
	return &Range{StartMs: max(0, timeMs-t), EndMs: timeMs + t}
}

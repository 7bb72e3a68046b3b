// Package segment holds the read-only view of time-ranged text segments the
// timeline engine works from, and their pixel layout.
package segment

import "slices"

// MinDurationMs is the shortest segment any edit may produce.
const MinDurationMs int64 = 100

// Segment is one subtitle entry. IDs are assigned by the owning store.
type Segment struct {
	ID      int
	StartMs int64
	EndMs   int64
	Text    string
	Track   int
}

// DurationMs returns EndMs-StartMs.
func (s Segment) DurationMs() int64 { return s.EndMs - s.StartMs }

// Valid reports whether the segment satisfies end > start and track >= 0.
func (s Segment) Valid() bool { return s.EndMs > s.StartMs && s.Track >= 0 }

// Overlaps reports whether s intersects [startMs, endMs].
func (s Segment) Overlaps(startMs, endMs int64) bool {
	return s.StartMs <= endMs && s.EndMs >= startMs
}

// Snapshot is the per-frame copy of the host's segment list. List order is
// preserved because range selection works on it.
type Snapshot struct {
	Segments   []Segment
	DurationMs int64

	index map[int]int
}

// NewSnapshot copies segs and indexes them by ID. Invalid segments are kept
// out of the snapshot.
func NewSnapshot(segs []Segment, durationMs int64) Snapshot {
	s := Snapshot{
		Segments:   make([]Segment, 0, len(segs)),
		DurationMs: durationMs,
		index:      make(map[int]int, len(segs)),
	}
	for _, seg := range segs {
		if !seg.Valid() {
			continue
		}
		if _, dup := s.index[seg.ID]; dup {
			continue
		}
		s.index[seg.ID] = len(s.Segments)
		s.Segments = append(s.Segments, seg)
	}
	return s
}

// Duration returns the timeline duration in seconds.
func (s Snapshot) Duration() float64 { return float64(s.DurationMs) / 1000 }

// Len returns the number of segments.
func (s Snapshot) Len() int { return len(s.Segments) }

// Index returns the list position of id, or -1.
func (s Snapshot) Index(id int) int {
	if i, ok := s.index[id]; ok {
		return i
	}
	return -1
}

// Find returns the segment with the given id.
func (s Snapshot) Find(id int) (Segment, bool) {
	i := s.Index(id)
	if i < 0 {
		return Segment{}, false
	}
	return s.Segments[i], true
}

// Has reports whether id is present.
func (s Snapshot) Has(id int) bool { return s.Index(id) >= 0 }

// IDs returns every id in list order.
func (s Snapshot) IDs() []int {
	ids := make([]int, len(s.Segments))
	for i, seg := range s.Segments {
		ids[i] = seg.ID
	}
	return ids
}

// Neighbors returns the segments on the same track that end at or before
// seg starts (prev) and start at or after seg ends (next), closest first.
func (s Snapshot) Neighbors(seg Segment) (prev, next *Segment) {
	for i := range s.Segments {
		o := &s.Segments[i]
		if o.ID == seg.ID || o.Track != seg.Track {
			continue
		}
		if o.EndMs <= seg.StartMs && (prev == nil || o.EndMs > prev.EndMs) {
			prev = o
		}
		if o.StartMs >= seg.EndMs && (next == nil || o.StartMs < next.StartMs) {
			next = o
		}
	}
	return prev, next
}

// SortedByStart returns a copy of the segments ordered by start time.
func (s Snapshot) SortedByStart() []Segment {
	out := slices.Clone(s.Segments)
	slices.SortStableFunc(out, func(a, b Segment) int {
		switch {
		case a.StartMs < b.StartMs:
			return -1
		case a.StartMs > b.StartMs:
			return 1
		}
		return 0
	})
	return out
}

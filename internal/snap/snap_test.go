package snap

import (
	"testing"

	"github.com/jwulff/waveline/internal/segment"
	"github.com/jwulff/waveline/internal/timeaxis"
	"github.com/jwulff/waveline/internal/waveform"
)

func twoSegments() segment.Snapshot {
	return segment.NewSnapshot([]segment.Segment{
		{ID: 1, StartMs: 1000, EndMs: 3000},
		{ID: 2, StartMs: 4000, EndMs: 6000},
	}, 10000)
}

func TestThresholdScalesWithZoom(t *testing.T) {
	snap := twoSegments()
	if got := New(snap, timeaxis.New(1), waveform.Buffer{}, 8).ThresholdMs(); got != 80 {
		t.Errorf("threshold at 100%% = %d, want 80", got)
	}
	if got := New(snap, timeaxis.New(2), waveform.Buffer{}, 8).ThresholdMs(); got != 40 {
		t.Errorf("threshold at 200%% = %d, want 40", got)
	}
	if got := New(snap, timeaxis.New(0.25), waveform.Buffer{}, 0).ThresholdMs(); got != 320 {
		t.Errorf("default threshold at 25%% = %d, want 320", got)
	}
}

func TestEdgeSnapsToNeighbour(t *testing.T) {
	e := New(twoSegments(), timeaxis.New(1), waveform.Buffer{}, 8)

	p, ok := e.Edge(3980, SideEnd, map[int]bool{1: true}, false)
	if !ok {
		t.Fatal("expected snap")
	}
	if p.TimeMs != 4000 || p.Kind != KindSegmentStart {
		t.Errorf("snap = %+v, want 4000 segment-start", p)
	}
	if p.PixelX != 400 {
		t.Errorf("pixel = %v, want 400", p.PixelX)
	}
}

func TestSnapNeverExceedsThreshold(t *testing.T) {
	e := New(twoSegments(), timeaxis.New(1), waveform.Buffer{}, 8)

	if _, ok := e.Edge(3919, SideEnd, map[int]bool{1: true}, false); ok {
		t.Error("81ms away should not snap at 100%")
	}
	if p, ok := e.Edge(3920, SideEnd, map[int]bool{1: true}, false); !ok || p.Distance != 80 {
		t.Errorf("80ms away = %+v,%v, want snap at distance 80", p, ok)
	}
}

func TestOriginIsCandidate(t *testing.T) {
	e := New(twoSegments(), timeaxis.New(1), waveform.Buffer{}, 8)
	p, ok := e.Edge(50, SideStart, nil, false)
	if !ok || p.TimeMs != 0 || p.Kind != KindOrigin {
		t.Errorf("snap = %+v,%v, want origin", p, ok)
	}
}

func TestExcludedSegmentsIgnored(t *testing.T) {
	e := New(twoSegments(), timeaxis.New(1), waveform.Buffer{}, 8)
	if _, ok := e.Edge(1010, SideStart, map[int]bool{1: true}, false); ok {
		t.Error("own edge should not be a candidate")
	}
}

func TestMoveAppliesCloserEdgeOnly(t *testing.T) {
	e := New(twoSegments(), timeaxis.New(1), waveform.Buffer{}, 8)

	// Span [3050, 3950]: start is 50ms from 3000, end is 50ms from 4000;
	// tie goes to the start edge.
	off, p, ok := e.Move(3050, 3950, map[int]bool{}, false)
	if !ok || off != -50 || p.TimeMs != 3000 {
		t.Errorf("move = %d %+v %v, want -50 to 3000", off, p, ok)
	}

	// Span [3070, 3970]: end is 30ms from 4000, start is 70ms from 3000.
	off, p, ok = e.Move(3070, 3970, map[int]bool{}, false)
	if !ok || off != 30 || p.TimeMs != 4000 {
		t.Errorf("move = %d %+v %v, want +30 to 4000", off, p, ok)
	}
}

func TestTiePrefersAbuttingEdge(t *testing.T) {
	snap := segment.NewSnapshot([]segment.Segment{
		{ID: 1, StartMs: 1000, EndMs: 2000},
		{ID: 2, StartMs: 2000, EndMs: 3000},
	}, 10000)
	e := New(snap, timeaxis.New(1), waveform.Buffer{}, 8)

	p, ok := e.Edge(2010, SideStart, map[int]bool{9: true}, false)
	if !ok || p.Kind != KindSegmentEnd {
		t.Errorf("start edge tie = %+v, want segment-end", p)
	}
	p, ok = e.Edge(2010, SideEnd, map[int]bool{9: true}, false)
	if !ok || p.Kind != KindSegmentStart {
		t.Errorf("end edge tie = %+v, want segment-start", p)
	}
}

func TestVoiceBoundaryCandidates(t *testing.T) {
	const n = 1000 // 10s at 100 pairs/s
	samples := make([]float32, 0, 2*n)
	for i := range n {
		amp := float32(0.01)
		if i >= 600 && i < 700 {
			amp = 0.8
		}
		samples = append(samples, -amp, amp)
	}
	buf := waveform.NewBuffer(samples, 10)
	snap := segment.NewSnapshot(nil, 10000)
	e := New(snap, timeaxis.New(1), buf, 8)

	p, ok := e.Edge(5960, SideStart, nil, true)
	if !ok || p.Kind != KindVoiceBoundary {
		t.Fatalf("snap = %+v,%v, want voice boundary", p, ok)
	}
	if p.TimeMs < 5980 || p.TimeMs > 6000 {
		t.Errorf("boundary = %d, want ~5990", p.TimeMs)
	}

	if _, ok := e.Edge(5960, SideStart, nil, false); ok {
		t.Error("without a search range no waveform candidates should exist")
	}
}

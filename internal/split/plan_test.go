package split

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/jwulff/waveline/internal/segment"
)

func source() segment.Segment {
	return segment.Segment{ID: 7, StartMs: 0, EndMs: 4000, Text: "ABCDEFGH"}
}

func assertPartition(t *testing.T, p *Plan) {
	t.Helper()
	parts := p.Parts()
	if parts[0].StartMs != p.Source.StartMs {
		t.Errorf("first part starts at %d, want %d", parts[0].StartMs, p.Source.StartMs)
	}
	if parts[len(parts)-1].EndMs != p.Source.EndMs {
		t.Errorf("last part ends at %d, want %d", parts[len(parts)-1].EndMs, p.Source.EndMs)
	}
	for i := 1; i < len(parts); i++ {
		if parts[i].StartMs != parts[i-1].EndMs {
			t.Errorf("gap/overlap between part %d and %d: %d vs %d", i-1, i, parts[i-1].EndMs, parts[i].StartMs)
		}
	}
	for i, part := range parts {
		if part.EndMs-part.StartMs < MinGapMs {
			t.Errorf("part %d too short: %+v", i, part)
		}
	}
}

func TestEvenSplitTwo(t *testing.T) {
	p, err := New(source(), 2)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	want := []Part{
		{StartMs: 0, EndMs: 2000, Text: "ABCD"},
		{StartMs: 2000, EndMs: 4000, Text: "EFGH"},
	}
	if diff := cmp.Diff(want, p.Parts()); diff != "" {
		t.Errorf("parts (-want +got):\n%s", diff)
	}
}

func TestPartitionForEveryCount(t *testing.T) {
	src := segment.Segment{ID: 1, StartMs: 1234, EndMs: 5678, Text: "the quick brown fox"}
	for k := MinParts; k <= MaxParts; k++ {
		p, err := New(src, k)
		if err != nil {
			t.Fatalf("New(%d): %v", k, err)
		}
		if p.Count() != k {
			t.Errorf("count = %d, want %d", p.Count(), k)
		}
		assertPartition(t, p)

		var joined string
		for _, part := range p.Parts() {
			joined += part.Text
		}
		if joined != src.Text {
			t.Errorf("k=%d text = %q, want %q", k, joined, src.Text)
		}
	}
}

func TestIncreaseResplitsLast(t *testing.T) {
	p, _ := New(source(), 2)
	if err := p.SetCount(3); err != nil {
		t.Fatalf("SetCount: %v", err)
	}
	want := []Part{
		{StartMs: 0, EndMs: 2000, Text: "ABCD"},
		{StartMs: 2000, EndMs: 3000, Text: "EF"},
		{StartMs: 3000, EndMs: 4000, Text: "GH"},
	}
	if diff := cmp.Diff(want, p.Parts()); diff != "" {
		t.Errorf("parts (-want +got):\n%s", diff)
	}
}

func TestDecreaseMergesLastTwo(t *testing.T) {
	p, _ := New(source(), 2)
	p.SetCount(3)
	if err := p.Decrease(); err != nil {
		t.Fatalf("Decrease: %v", err)
	}
	want := []Part{
		{StartMs: 0, EndMs: 2000, Text: "ABCD"},
		{StartMs: 2000, EndMs: 4000, Text: "EFGH"},
	}
	if diff := cmp.Diff(want, p.Parts()); diff != "" {
		t.Errorf("parts (-want +got):\n%s", diff)
	}
	if err := p.Decrease(); !errors.Is(err, ErrMinParts) {
		t.Errorf("decrease below two = %v, want ErrMinParts", err)
	}
}

func TestIncreaseStopsAtMax(t *testing.T) {
	p, _ := New(segment.Segment{StartMs: 0, EndMs: 10000, Text: "x"}, 2)
	if err := p.SetCount(MaxParts); err != nil {
		t.Fatalf("SetCount: %v", err)
	}
	if err := p.Increase(); !errors.Is(err, ErrMaxParts) {
		t.Errorf("increase past max = %v, want ErrMaxParts", err)
	}
	assertPartition(t, p)
}

func TestNewAtHonoursInitialPoint(t *testing.T) {
	p, err := NewAt(source(), 1000)
	if err != nil {
		t.Fatalf("NewAt: %v", err)
	}
	want := []Part{
		{StartMs: 0, EndMs: 1000, Text: "AB"},
		{StartMs: 1000, EndMs: 4000, Text: "CDEFGH"},
	}
	if diff := cmp.Diff(want, p.Parts()); diff != "" {
		t.Errorf("parts (-want +got):\n%s", diff)
	}

	p, _ = NewAt(source(), 20)
	if got := p.Splits()[0]; got != MinGapMs {
		t.Errorf("clamped split = %d, want %d", got, MinGapMs)
	}
}

func TestMoveSplitKeepsText(t *testing.T) {
	p, _ := New(source(), 3)
	p.SetText(1, "edited")

	got, err := p.MoveSplit(0, 3000)
	if err != nil {
		t.Fatalf("MoveSplit: %v", err)
	}
	// Neighbour split sits at 2666; clamp leaves MinGapMs.
	if got != 2566 {
		t.Errorf("moved to %d, want 2566", got)
	}
	if p.Parts()[1].Text != "edited" {
		t.Errorf("text = %q, want preserved edit", p.Parts()[1].Text)
	}
	assertPartition(t, p)

	if _, err := p.MoveSplit(5, 0); !errors.Is(err, ErrOutOfRange) {
		t.Errorf("bad index = %v, want ErrOutOfRange", err)
	}
}

func TestSplitAtChar(t *testing.T) {
	p, _ := New(source(), 2)
	if err := p.SplitAtChar(1, 1); err != nil {
		t.Fatalf("SplitAtChar: %v", err)
	}
	want := []Part{
		{StartMs: 0, EndMs: 2000, Text: "ABCD"},
		{StartMs: 2000, EndMs: 2500, Text: "E"},
		{StartMs: 2500, EndMs: 4000, Text: "FGH"},
	}
	if diff := cmp.Diff(want, p.Parts()); diff != "" {
		t.Errorf("parts (-want +got):\n%s", diff)
	}

	if err := p.SplitAtChar(0, 0); !errors.Is(err, ErrOutOfRange) {
		t.Errorf("offset 0 = %v, want ErrOutOfRange", err)
	}
}

func TestTooShortRefused(t *testing.T) {
	short := segment.Segment{StartMs: 0, EndMs: 150, Text: "hi"}
	if _, err := New(short, 2); !errors.Is(err, ErrTooShort) {
		t.Errorf("New = %v, want ErrTooShort", err)
	}
	if _, err := NewAt(short, 75); !errors.Is(err, ErrTooShort) {
		t.Errorf("NewAt = %v, want ErrTooShort", err)
	}

	p, _ := New(segment.Segment{StartMs: 0, EndMs: 300, Text: "abc"}, 2)
	if err := p.Increase(); !errors.Is(err, ErrTooShort) {
		t.Errorf("Increase = %v, want ErrTooShort", err)
	}
	if p.Count() != 2 {
		t.Errorf("refused increase changed count to %d", p.Count())
	}
}

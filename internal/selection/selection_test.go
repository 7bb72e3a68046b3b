package selection

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/jwulff/waveline/internal/segment"
	"github.com/jwulff/waveline/internal/timeaxis"
)

func fixture() segment.Snapshot {
	return segment.NewSnapshot([]segment.Segment{
		{ID: 10, StartMs: 0, EndMs: 1000},
		{ID: 20, StartMs: 5000, EndMs: 6000},
		{ID: 30, StartMs: 1500, EndMs: 2500},
		{ID: 40, StartMs: 3000, EndMs: 4000},
		{ID: 50, StartMs: 1000, EndMs: 2000, Track: 1},
	}, 10000)
}

func placedAll(snap segment.Snapshot) []segment.Placed {
	v := timeaxis.Viewport{Axis: timeaxis.New(1), Width: 1000, Duration: snap.Duration()}
	return segment.DefaultLayout().Visible(snap, v, 0)
}

func TestClickReplaces(t *testing.T) {
	snap := fixture()
	c := New()
	c.Click(snap, 10, Mods{})
	ev := c.Click(snap, 30, Mods{})

	if diff := cmp.Diff([]int{30}, ev.IDs); diff != "" {
		t.Errorf("selection (-want +got):\n%s", diff)
	}
	if a, ok := c.Anchor(); !ok || a != 30 {
		t.Errorf("anchor = %d,%v, want 30", a, ok)
	}
}

func TestToggleAdds(t *testing.T) {
	snap := fixture()
	c := New()
	c.Click(snap, 10, Mods{})
	ev := c.Click(snap, 40, Mods{Toggle: true})

	if diff := cmp.Diff([]int{10, 40}, ev.IDs); diff != "" {
		t.Errorf("selection (-want +got):\n%s", diff)
	}
	if a, _ := c.Anchor(); a != 40 {
		t.Errorf("anchor = %d, want 40", a)
	}
}

func TestRangeUsesListOrder(t *testing.T) {
	snap := fixture()
	c := New()
	c.Click(snap, 20, Mods{})
	ev := c.Click(snap, 40, Mods{Range: true})

	// List order 10,20,30,40: range 20..40 includes 30 even though it is
	// spatially before 20.
	if diff := cmp.Diff([]int{20, 30, 40}, ev.IDs); diff != "" {
		t.Errorf("selection (-want +got):\n%s", diff)
	}
	if a, _ := c.Anchor(); a != 20 {
		t.Errorf("anchor = %d, want unchanged 20", a)
	}

	ev = c.Click(snap, 10, Mods{Range: true})
	if diff := cmp.Diff([]int{10, 20}, ev.IDs); diff != "" {
		t.Errorf("reverse range (-want +got):\n%s", diff)
	}
}

func TestRangeWithoutAnchorActsAsClick(t *testing.T) {
	snap := fixture()
	c := New()
	ev := c.Click(snap, 30, Mods{Range: true})
	if diff := cmp.Diff([]int{30}, ev.IDs); diff != "" {
		t.Errorf("selection (-want +got):\n%s", diff)
	}
	if a, ok := c.Anchor(); !ok || a != 30 {
		t.Errorf("anchor = %d,%v, want 30", a, ok)
	}
}

func TestBoxSelectIsIdempotent(t *testing.T) {
	snap := fixture()
	placed := placedAll(snap)
	c := New()

	run := func() []int {
		c.BeginBox(90, 0, Mods{})
		ev, clicked := c.EndBox(260, 100, placed)
		if clicked {
			t.Fatal("large box should not be treated as a click")
		}
		return ev.IDs
	}

	first := run()
	second := run()
	// x 90..260 covers 10 (0-100), 30 (150-250) and 50 (100-200, track 1).
	if diff := cmp.Diff([]int{10, 30, 50}, first); diff != "" {
		t.Errorf("box (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(first, second); diff != "" {
		t.Errorf("repeat box differs (-first +second):\n%s", diff)
	}
}

func TestBoxAccumulate(t *testing.T) {
	snap := fixture()
	placed := placedAll(snap)
	c := New()
	c.Click(snap, 20, Mods{})

	c.BeginBox(290, 0, Mods{Accumulate: true})
	ev, _ := c.UpdateBox(410, 40, placed)
	if diff := cmp.Diff([]int{20, 40}, ev.IDs); diff != "" {
		t.Errorf("accumulate (-want +got):\n%s", diff)
	}

	// Shrinking the box drops what it no longer covers but keeps the base.
	ev, _ = c.UpdateBox(295, 40, placed)
	if diff := cmp.Diff([]int{20}, ev.IDs); diff != "" {
		t.Errorf("shrunk accumulate (-want +got):\n%s", diff)
	}
}

func TestSmallBoxIsClick(t *testing.T) {
	snap := fixture()
	c := New()
	c.Click(snap, 10, Mods{})

	c.BeginBox(100, 10, Mods{})
	ev, clicked := c.EndBox(105, 12, placedAll(snap))
	if !clicked {
		t.Error("small box should be a click")
	}
	if len(ev.IDs) != 0 {
		t.Errorf("selection = %v, want cleared", ev.IDs)
	}
	if _, ok := c.Box(); ok {
		t.Error("box should be cleared")
	}
}

func TestRefreshDropsStale(t *testing.T) {
	c := New()
	c.Set(10, 30)

	next := segment.NewSnapshot([]segment.Segment{{ID: 10, StartMs: 0, EndMs: 1000}}, 10000)
	c.Refresh(next)
	if diff := cmp.Diff([]int{10}, c.IDs()); diff != "" {
		t.Errorf("after refresh (-want +got):\n%s", diff)
	}
	if _, ok := c.Anchor(); ok {
		t.Error("stale anchor should be dropped")
	}
}

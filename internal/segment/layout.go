package segment

import "github.com/jwulff/waveline/internal/timeaxis"

// Rect is an axis-aligned box in track-local pixels.
type Rect struct {
	Left, Top, Width, Height float64
}

func (r Rect) Right() float64  { return r.Left + r.Width }
func (r Rect) Bottom() float64 { return r.Top + r.Height }

// Contains reports whether (x, y) lies inside r, edges inclusive.
func (r Rect) Contains(x, y float64) bool {
	return x >= r.Left && x <= r.Right() && y >= r.Top && y <= r.Bottom()
}

// Intersects is the AABB overlap test.
func (r Rect) Intersects(o Rect) bool {
	return r.Left <= o.Right() && o.Left <= r.Right() &&
		r.Top <= o.Bottom() && o.Top <= r.Bottom()
}

// RectFromPoints normalizes two corners into a Rect.
func RectFromPoints(x0, y0, x1, y1 float64) Rect {
	return Rect{
		Left:   min(x0, x1),
		Top:    min(y0, y1),
		Width:  max(x0, x1) - min(x0, x1),
		Height: max(y0, y1) - min(y0, y1),
	}
}

// Layout holds the fixed track geometry.
type Layout struct {
	BaseOffset  float64
	TrackHeight float64
	TrackGap    float64

	// MinWidthPx is the minimum drawn width at zoom 1.0. It scales with
	// zoom but never drops below MinWidthFloorPx so short segments stay
	// clickable.
	MinWidthPx      float64
	MinWidthFloorPx float64
}

// DefaultLayout returns the stock track geometry.
func DefaultLayout() Layout {
	return Layout{
		BaseOffset:      4,
		TrackHeight:     40,
		TrackGap:        4,
		MinWidthPx:      20,
		MinWidthFloorPx: 10,
	}
}

// MinWidth returns the minimum segment width at zoom.
func (l Layout) MinWidth(zoom float64) float64 {
	return max(l.MinWidthFloorPx, l.MinWidthPx*zoom)
}

// TrackTop returns the top edge of track.
func (l Layout) TrackTop(track int) float64 {
	return l.BaseOffset + float64(track)*(l.TrackHeight+l.TrackGap)
}

// TrackAt returns the track under y, if any.
func (l Layout) TrackAt(y float64) (int, bool) {
	if y < l.BaseOffset {
		return 0, false
	}
	stride := l.TrackHeight + l.TrackGap
	track := int((y - l.BaseOffset) / stride)
	if y-l.TrackTop(track) > l.TrackHeight {
		return 0, false
	}
	return track, true
}

// RectFor returns the pixel rect of seg under axis.
func (l Layout) RectFor(seg Segment, axis timeaxis.Axis) Rect {
	return Rect{
		Left:   axis.MsToPixel(seg.StartMs),
		Top:    l.TrackTop(seg.Track),
		Width:  max(axis.MsToPixel(seg.DurationMs()), l.MinWidth(axis.Zoom())),
		Height: l.TrackHeight,
	}
}

// Placed is a segment with its list index and pixel rect.
type Placed struct {
	Segment
	Index int
	Rect  Rect
}

// Visible returns the segments intersecting the viewport widened by
// bufferPx, in list order. Only these are drawn and hit-tested.
func (l Layout) Visible(snap Snapshot, v timeaxis.Viewport, bufferPx float64) []Placed {
	start := v.Axis.PixelToMs(v.ScrollLeft - bufferPx)
	end := v.Axis.PixelToMs(v.ScrollLeft + v.Width + bufferPx)

	var out []Placed
	for i, seg := range snap.Segments {
		if !seg.Overlaps(start, end) {
			continue
		}
		out = append(out, Placed{Segment: seg, Index: i, Rect: l.RectFor(seg, v.Axis)})
	}
	return out
}

// TrackCount returns the number of tracks in use (at least one).
func TrackCount(snap Snapshot) int {
	n := 1
	for _, seg := range snap.Segments {
		n = max(n, seg.Track+1)
	}
	return n
}

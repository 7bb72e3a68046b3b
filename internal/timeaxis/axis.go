// Package timeaxis converts between timeline time and horizontal pixels
// under a clamped zoom factor.
package timeaxis

import (
	"math"

	"github.com/jwulff/waveline/internal/frame"
)

// Defaults for a 100px/second baseline zoomable between 25% and 200%.
const (
	BasePixelsPerSecond = 100.0
	ZoomMin             = 0.25
	ZoomMax             = 2.0
)

// Axis is an immutable time↔pixel mapping. Times are seconds unless a
// method name says otherwise.
type Axis struct {
	zoom    float64
	basePPS float64
	zoomMin float64
	zoomMax float64
}

// New returns an axis on the default baseline with zoom clamped to
// [ZoomMin, ZoomMax].
func New(zoom float64) Axis {
	return NewWithBounds(BasePixelsPerSecond, ZoomMin, ZoomMax, zoom)
}

// NewWithBounds returns an axis with a custom baseline and zoom range.
func NewWithBounds(basePPS, zoomMin, zoomMax, zoom float64) Axis {
	if basePPS <= 0 {
		basePPS = BasePixelsPerSecond
	}
	if zoomMin <= 0 || zoomMax < zoomMin {
		zoomMin, zoomMax = ZoomMin, ZoomMax
	}
	a := Axis{basePPS: basePPS, zoomMin: zoomMin, zoomMax: zoomMax}
	a.zoom = a.clamp(zoom)
	return a
}

func (a Axis) clamp(z float64) float64 {
	if math.IsNaN(z) {
		return 1
	}
	return min(max(z, a.zoomMin), a.zoomMax)
}

// Zoom returns the clamped zoom factor.
func (a Axis) Zoom() float64 { return a.zoom }

// Bounds returns the allowed zoom range.
func (a Axis) Bounds() (lo, hi float64) { return a.zoomMin, a.zoomMax }

// WithZoom returns a copy of a at the clamped zoom factor.
func (a Axis) WithZoom(z float64) Axis {
	a.zoom = a.clamp(z)
	return a
}

// PixelsPerSecond is BASE_PPS * zoom.
func (a Axis) PixelsPerSecond() float64 { return a.basePPS * a.zoom }

// TotalWidth is the full timeline width in pixels for duration seconds.
func (a Axis) TotalWidth(duration float64) float64 {
	return duration * a.PixelsPerSecond()
}

// TimeToPixel maps seconds to pixels.
func (a Axis) TimeToPixel(t float64) float64 { return t * a.PixelsPerSecond() }

// PixelToTime maps pixels to seconds.
func (a Axis) PixelToTime(px float64) float64 { return px / a.PixelsPerSecond() }

// MsToPixel maps milliseconds to pixels.
func (a Axis) MsToPixel(ms int64) float64 {
	return float64(ms) / 1000 * a.PixelsPerSecond()
}

// PixelToMs maps pixels to milliseconds, rounded to the nearest millisecond.
func (a Axis) PixelToMs(px float64) int64 {
	return int64(math.Round(a.PixelToTime(px) * 1000))
}

// Anchor selects how a zoom change repositions the viewport.
type Anchor int

const (
	AnchorNone Anchor = iota
	AnchorPlayhead
)

// Viewport is the visible horizontal window over a timeline.
type Viewport struct {
	Axis       Axis
	ScrollLeft float64
	Width      float64
	Duration   float64 // seconds

	// Scrolling is set by the host while the user is actively scrolling;
	// zoom anchoring is skipped so the two gestures do not fight.
	Scrolling bool
}

// MaxScroll is the largest valid ScrollLeft.
func (v Viewport) MaxScroll() float64 {
	return max(0, v.Axis.TotalWidth(v.Duration)-v.Width)
}

// ScrollTo returns v scrolled to px, clamped to the timeline.
func (v Viewport) ScrollTo(px float64) Viewport {
	v.ScrollLeft = min(max(px, 0), v.MaxScroll())
	return v
}

// ScrollBy returns v scrolled by dx pixels.
func (v Viewport) ScrollBy(dx float64) Viewport {
	return v.ScrollTo(v.ScrollLeft + dx)
}

// SetZoom applies a new zoom factor. With AnchorPlayhead the playhead
// (seconds) is kept at the horizontal centre of the viewport.
func (v Viewport) SetZoom(factor float64, anchor Anchor, playhead float64) Viewport {
	v.Axis = v.Axis.WithZoom(factor)
	if anchor == AnchorPlayhead && !v.Scrolling {
		return v.ScrollTo(v.Axis.TimeToPixel(playhead) - v.Width/2)
	}
	return v.ScrollTo(v.ScrollLeft)
}

// VisibleRange returns the visible time span in seconds, widened on both
// sides by bufferPx.
func (v Viewport) VisibleRange(bufferPx float64) (start, end float64) {
	start = max(0, v.Axis.PixelToTime(v.ScrollLeft-bufferPx))
	end = min(v.Duration, v.Axis.PixelToTime(v.ScrollLeft+v.Width+bufferPx))
	return start, end
}

// ZoomRequest is a pending zoom change.
type ZoomRequest struct {
	Factor float64
	Anchor Anchor
}

// Zoomer coalesces zoom requests to at most one applied update per frame.
type Zoomer struct {
	q frame.Queue[ZoomRequest]
}

// Request queues a zoom change. When schedule is true the caller must
// deliver tok to Apply on the next frame.
func (z *Zoomer) Request(factor float64, anchor Anchor) (tok frame.Token, schedule bool) {
	return z.q.Push(ZoomRequest{Factor: factor, Anchor: anchor})
}

// Apply applies the latest queued request if tok is current.
func (z *Zoomer) Apply(tok frame.Token, v Viewport, playhead float64) (Viewport, bool) {
	req, ok := z.q.Flush(tok)
	if !ok {
		return v, false
	}
	return v.SetZoom(req.Factor, req.Anchor, playhead), true
}

// Cancel drops any queued request.
func (z *Zoomer) Cancel() { z.q.Cancel() }

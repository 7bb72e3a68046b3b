package waveform

import (
	"math"
	"time"

	"github.com/jwulff/waveline/internal/frame"
	"github.com/jwulff/waveline/internal/timeaxis"
	"github.com/rs/zerolog"
)

// Renderer defaults.
const (
	DefaultMaxRasterWidth = 16000.0
	DefaultBufferPx       = 500.0
	DefaultSettleDelay    = 200 * time.Millisecond
)

// Options configures a Renderer.
type Options struct {
	// MaxRasterWidth is the widest surface the host can allocate, in CSS
	// pixels; it is multiplied by DevicePixelRatio.
	MaxRasterWidth   float64
	DevicePixelRatio float64
	BufferPx         float64
	SettleDelay      time.Duration
}

// DefaultOptions returns the stock renderer settings.
func DefaultOptions() Options {
	return Options{
		MaxRasterWidth:   DefaultMaxRasterWidth,
		DevicePixelRatio: 1,
		BufferPx:         DefaultBufferPx,
		SettleDelay:      DefaultSettleDelay,
	}
}

// Raster is one rasterized span of the envelope: Peaks[i] is the smoothed
// amplitude drawn in pixel column OffsetPx+i.
type Raster struct {
	OffsetPx float64
	Peaks    []float64
	Zoom     float64
	Full     bool
}

// Width returns the raster width in pixels.
func (r Raster) Width() int { return len(r.Peaks) }

// End returns the pixel just past the last column.
func (r Raster) End() float64 { return r.OffsetPx + float64(len(r.Peaks)) }

// Empty reports whether nothing is drawn.
func (r Raster) Empty() bool { return len(r.Peaks) == 0 }

// At returns the peak at absolute pixel x, or 0 outside the raster.
func (r Raster) At(x float64) float64 {
	i := int(math.Floor(x - r.OffsetPx))
	if i < 0 || i >= len(r.Peaks) {
		return 0
	}
	return r.Peaks[i]
}

// Input is everything one render pass depends on.
type Input struct {
	Buffer   Buffer
	Viewport timeaxis.Viewport

	// Generating gates rendering while the host is still producing samples.
	Generating bool
	Progress   int
}

// Renderer rasterizes the smoothed envelope into a bounded-width surface,
// re-rastering only when the viewport leaves the cached window.
type Renderer struct {
	opts Options
	log  zerolog.Logger

	fp       Fingerprint
	smoothed []float64

	raster     Raster
	hasRaster  bool
	lastScroll float64
	lastWidth  float64

	forceRebuild bool
	suspended    bool
	settle       *frame.Debouncer
}

// NewRenderer returns a renderer with opts; zero fields take defaults.
func NewRenderer(opts Options, log zerolog.Logger) *Renderer {
	def := DefaultOptions()
	if opts.MaxRasterWidth <= 0 {
		opts.MaxRasterWidth = def.MaxRasterWidth
	}
	if opts.DevicePixelRatio <= 0 {
		opts.DevicePixelRatio = def.DevicePixelRatio
	}
	if opts.BufferPx <= 0 {
		opts.BufferPx = def.BufferPx
	}
	if opts.SettleDelay <= 0 {
		opts.SettleDelay = def.SettleDelay
	}
	return &Renderer{
		opts:   opts,
		log:    log,
		settle: frame.NewDebouncer(opts.SettleDelay),
	}
}

// Smoothed returns the cached smoothed amplitude series for b, recomputing
// it only when the buffer fingerprint changes.
func (r *Renderer) Smoothed(b Buffer) []float64 {
	fp := b.Fingerprint()
	if r.smoothed != nil && fp == r.fp {
		return r.smoothed
	}
	r.fp = fp
	r.smoothed = Smooth(b.Magnitudes(0, b.Len()-1))
	r.hasRaster = false
	r.log.Debug().Int("pairs", b.Len()).Msg("waveform smoothed")
	return r.smoothed
}

// MaxWidth is the widest raster the renderer will produce.
func (r *Renderer) MaxWidth() float64 {
	return r.opts.MaxRasterWidth * r.opts.DevicePixelRatio
}

// Render returns the raster for in and whether it was rebuilt this pass.
// While generating, with no samples, or with no viewport the result is an
// empty raster; segment editing carries on without a waveform.
func (r *Renderer) Render(in Input) (Raster, bool) {
	v := in.Viewport
	if in.Generating || in.Buffer.Empty() || v.Width <= 0 {
		return Raster{}, false
	}
	smoothed := r.Smoothed(in.Buffer)
	if r.suspended {
		return r.raster, false
	}

	total := v.Axis.TotalWidth(in.Buffer.Duration)
	zoom := v.Axis.Zoom()
	limit := r.MaxWidth()

	// A timeline that fits is always rasterized whole, forced or not.
	if total <= limit {
		if r.hasRaster && !r.forceRebuild && r.raster.Full && r.raster.Zoom == zoom {
			return r.raster, false
		}
		r.store(r.rasterize(in.Buffer, smoothed, v.Axis, 0, total), true, v)
		return r.raster, true
	}

	if r.hasRaster && !r.forceRebuild && !r.raster.Full && r.raster.Zoom == zoom &&
		math.Abs(v.ScrollLeft-r.lastScroll) < r.opts.BufferPx/2 &&
		v.Width <= r.lastWidth &&
		v.ScrollLeft >= r.raster.OffsetPx && v.ScrollLeft+v.Width <= r.raster.End() {
		return r.raster, false
	}

	start := max(0, v.ScrollLeft-r.opts.BufferPx)
	end := min(total, v.ScrollLeft+v.Width+r.opts.BufferPx, start+limit)
	r.store(r.rasterize(in.Buffer, smoothed, v.Axis, start, end), false, v)
	return r.raster, true
}

func (r *Renderer) store(raster Raster, full bool, v timeaxis.Viewport) {
	raster.Full = full
	r.raster = raster
	r.hasRaster = true
	r.forceRebuild = false
	r.lastScroll = v.ScrollLeft
	r.lastWidth = v.Width
	r.log.Debug().
		Float64("offset", raster.OffsetPx).
		Int("width", raster.Width()).
		Bool("full", full).
		Msg("waveform rasterized")
}

// rasterize draws pixel columns [startPx, endPx): each column takes the
// maximum smoothed amplitude of the pairs it covers.
func (r *Renderer) rasterize(b Buffer, smoothed []float64, axis timeaxis.Axis, startPx, endPx float64) Raster {
	offset := math.Floor(startPx)
	width := int(math.Ceil(endPx) - offset)
	out := Raster{OffsetPx: offset, Zoom: axis.Zoom()}
	if width <= 0 || len(smoothed) == 0 {
		return out
	}

	n := float64(len(smoothed))
	perSecond := n / b.Duration
	out.Peaks = make([]float64, width)
	for c := range width {
		x := offset + float64(c)
		lo := int(math.Floor(axis.PixelToTime(x) * perSecond))
		hi := int(math.Ceil(axis.PixelToTime(x+1)*perSecond)) - 1
		lo = min(max(lo, 0), len(smoothed)-1)
		hi = min(max(hi, lo), len(smoothed)-1)
		peak := 0.0
		for i := lo; i <= hi; i++ {
			peak = max(peak, smoothed[i])
		}
		out.Peaks[c] = peak
	}
	return out
}

// ZoomChanged suspends rastering and restarts the settle delay. The caller
// presents the token to Settle once Delay has elapsed.
func (r *Renderer) ZoomChanged() frame.Token {
	r.suspended = true
	return r.settle.Touch()
}

// Delay is the settle delay after the last zoom input.
func (r *Renderer) Delay() time.Duration { return r.settle.Delay() }

// Settle resumes rastering with a forced rebuild if tok is the latest zoom.
func (r *Renderer) Settle(tok frame.Token) bool {
	if !r.settle.Fire(tok) {
		return false
	}
	r.suspended = false
	r.forceRebuild = true
	return true
}

// Suspended reports whether a zoom is still settling.
func (r *Renderer) Suspended() bool { return r.suspended }

// Stretch is the horizontal scale the host applies to the stale raster
// while a zoom settles.
func (r *Renderer) Stretch(axis timeaxis.Axis) float64 {
	if !r.hasRaster || r.raster.Zoom == 0 {
		return 1
	}
	return axis.Zoom() / r.raster.Zoom
}

// Invalidate forces the next Render to rebuild.
func (r *Renderer) Invalidate() { r.forceRebuild = true }

// Cancel drops any pending settle and resumes normal rendering.
func (r *Renderer) Cancel() {
	r.settle.Cancel()
	r.suspended = false
}

package waveform

import (
	"testing"

	"github.com/jwulff/waveline/internal/timeaxis"
	"github.com/rs/zerolog"
)

func newTestRenderer() *Renderer {
	return NewRenderer(DefaultOptions(), zerolog.Nop())
}

func TestSmoothedIsCachedByFingerprint(t *testing.T) {
	r := newTestRenderer()
	b := synth(10, span{2, 3, 0.8})

	first := r.Smoothed(b)
	second := r.Smoothed(b)
	if &first[0] != &second[0] {
		t.Error("smoothed series should be reused for the same buffer")
	}

	other := synth(11, span{2, 3, 0.8})
	third := r.Smoothed(other)
	if len(third) == len(first) {
		t.Error("a different buffer should recompute the series")
	}
}

func TestRenderFullTimelineOnce(t *testing.T) {
	r := newTestRenderer()
	b := synth(10, span{2, 3, 0.8})
	v := timeaxis.Viewport{Axis: timeaxis.New(1), Width: 400, Duration: 10}

	raster, rebuilt := r.Render(Input{Buffer: b, Viewport: v})
	if !rebuilt {
		t.Fatal("first render should rasterize")
	}
	if !raster.Full || raster.Width() != 1000 || raster.OffsetPx != 0 {
		t.Errorf("raster = full %v width %d offset %v, want full 1000 at 0",
			raster.Full, raster.Width(), raster.OffsetPx)
	}
	if raster.At(250) < 0.5 {
		t.Errorf("peak in voiced span = %v, want loud", raster.At(250))
	}
	if raster.At(50) > 0.05 {
		t.Errorf("peak in silence = %v, want quiet", raster.At(50))
	}

	_, rebuilt = r.Render(Input{Buffer: b, Viewport: v.ScrollBy(300)})
	if rebuilt {
		t.Error("full raster should be reused while scrolling")
	}
}

func TestForcedRebuildKeepsFullRaster(t *testing.T) {
	r := newTestRenderer()
	b := synth(10, span{2, 3, 0.8})
	v := timeaxis.Viewport{Axis: timeaxis.New(1), Width: 400, Duration: 10}
	r.Render(Input{Buffer: b, Viewport: v})

	r.Invalidate()
	raster, rebuilt := r.Render(Input{Buffer: b, Viewport: v.ScrollBy(300)})
	if !rebuilt {
		t.Fatal("invalidated raster should be rebuilt")
	}
	if !raster.Full || raster.Width() != 1000 || raster.OffsetPx != 0 {
		t.Errorf("raster = full %v width %d offset %v, want full 1000 at 0",
			raster.Full, raster.Width(), raster.OffsetPx)
	}
	if _, rebuilt = r.Render(Input{Buffer: b, Viewport: v}); rebuilt {
		t.Error("rebuilt full raster should be reused")
	}
}

func TestRenderWindowedWithHysteresis(t *testing.T) {
	r := newTestRenderer()
	b := synth(1000, span{500, 510, 0.8})
	v := timeaxis.Viewport{Axis: timeaxis.New(1), Width: 800, Duration: 1000, ScrollLeft: 50_000}

	raster, rebuilt := r.Render(Input{Buffer: b, Viewport: v})
	if !rebuilt {
		t.Fatal("first render should rasterize")
	}
	if raster.Full {
		t.Error("timeline wider than the limit should not be fully rastered")
	}
	if raster.OffsetPx != 49_500 || raster.Width() != 1800 {
		t.Errorf("window = %v+%d, want 49500+1800", raster.OffsetPx, raster.Width())
	}

	if _, rebuilt := r.Render(Input{Buffer: b, Viewport: v.ScrollBy(200)}); rebuilt {
		t.Error("scroll under half the buffer should reuse the raster")
	}
	raster, rebuilt = r.Render(Input{Buffer: b, Viewport: v.ScrollBy(300)})
	if !rebuilt {
		t.Error("scroll past half the buffer should re-rasterize")
	}
	if raster.OffsetPx != 49_800 {
		t.Errorf("offset = %v, want 49800", raster.OffsetPx)
	}
}

func TestRenderRespectsDevicePixelRatio(t *testing.T) {
	opts := DefaultOptions()
	opts.MaxRasterWidth = 1000
	opts.DevicePixelRatio = 2
	r := NewRenderer(opts, zerolog.Nop())
	b := synth(15)
	v := timeaxis.Viewport{Axis: timeaxis.New(1), Width: 400, Duration: 15}

	raster, _ := r.Render(Input{Buffer: b, Viewport: v})
	if !raster.Full {
		t.Error("1500px timeline should fit a 2000px surface")
	}
}

func TestZoomSuspendsUntilSettled(t *testing.T) {
	r := newTestRenderer()
	b := synth(10, span{2, 3, 0.8})
	v := timeaxis.Viewport{Axis: timeaxis.New(1), Width: 400, Duration: 10}
	r.Render(Input{Buffer: b, Viewport: v})

	first := r.ZoomChanged()
	second := r.ZoomChanged()
	zoomed := v.SetZoom(2, timeaxis.AnchorNone, 0)

	raster, rebuilt := r.Render(Input{Buffer: b, Viewport: zoomed})
	if rebuilt {
		t.Error("render during zoom should not rebuild")
	}
	if raster.Zoom != 1 {
		t.Errorf("stale raster zoom = %v, want 1", raster.Zoom)
	}
	if s := r.Stretch(zoomed.Axis); s != 2 {
		t.Errorf("stretch = %v, want 2", s)
	}

	if r.Settle(first) {
		t.Error("superseded zoom token should not settle")
	}
	if !r.Settle(second) {
		t.Fatal("latest zoom token should settle")
	}
	raster, rebuilt = r.Render(Input{Buffer: b, Viewport: zoomed})
	if !rebuilt || raster.Width() != 2000 {
		t.Errorf("after settle rebuilt=%v width=%d, want true 2000", rebuilt, raster.Width())
	}
}

func TestRenderGatedWhileGenerating(t *testing.T) {
	r := newTestRenderer()
	b := synth(10)
	v := timeaxis.Viewport{Axis: timeaxis.New(1), Width: 400, Duration: 10}

	raster, rebuilt := r.Render(Input{Buffer: b, Viewport: v, Generating: true, Progress: 40})
	if rebuilt || !raster.Empty() {
		t.Error("generating waveform should render nothing")
	}
	raster, _ = r.Render(Input{Viewport: v})
	if !raster.Empty() {
		t.Error("empty buffer should render nothing")
	}
}

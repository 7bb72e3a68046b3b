package config

import (
	"errors"
	"fmt"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateTimeline(); err != nil {
		return err
	}
	if err := c.validateSnap(); err != nil {
		return err
	}
	if err := c.validateRender(); err != nil {
		return err
	}
	if err := c.validateLayout(); err != nil {
		return err
	}
	return c.validateLogging()
}

func (c *Config) validateTimeline() error {
	t := c.Timeline
	if t.BasePPS <= 0 {
		return errors.New("timeline.base_pps must be positive")
	}
	if t.ZoomMin <= 0 || t.ZoomMax < t.ZoomMin {
		return fmt.Errorf("timeline zoom bounds [%g, %g] are invalid", t.ZoomMin, t.ZoomMax)
	}
	if t.ZoomStep <= 1 {
		return errors.New("timeline.zoom_step must be greater than 1")
	}
	return nil
}

func (c *Config) validateSnap() error {
	if c.Snap.ThresholdPx < 0 {
		return errors.New("snap.threshold_px must not be negative")
	}
	return nil
}

func (c *Config) validateRender() error {
	r := c.Render
	if r.MaxRasterWidth <= 0 {
		return errors.New("render.max_raster_width must be positive")
	}
	if r.DevicePixelRatio <= 0 {
		return errors.New("render.device_pixel_ratio must be positive")
	}
	if r.BufferPx < 0 {
		return errors.New("render.buffer_px must not be negative")
	}
	if r.SettleMs < 0 {
		return errors.New("render.settle_ms must not be negative")
	}
	if r.FrameMs <= 0 {
		return errors.New("render.frame_ms must be positive")
	}
	return nil
}

func (c *Config) validateLayout() error {
	l := c.Layout
	sizes := []struct {
		name  string
		value float64
	}{
		{"layout.track_height", l.TrackHeight},
		{"layout.min_width_floor_px", l.MinWidthFloorPx},
		{"layout.handle_px", l.HandlePx},
		{"layout.px_per_column", l.PxPerColumn},
		{"layout.px_per_row", l.PxPerRow},
	}
	for _, s := range sizes {
		if s.value <= 0 {
			return fmt.Errorf("%s must be positive", s.name)
		}
	}
	if l.TrackGap < 0 || l.BaseOffset < 0 || l.MinWidthPx < 0 {
		return errors.New("layout offsets must not be negative")
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Format {
	case "json", "console":
	default:
		return fmt.Errorf("logging.format %q must be json or console", c.Logging.Format)
	}
	switch c.Logging.Level {
	case "trace", "debug", "info", "warn", "error", "disabled":
	default:
		return fmt.Errorf("logging.level %q is not recognized", c.Logging.Level)
	}
	return nil
}

package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"

	"github.com/jwulff/waveline/internal/interaction"
	"github.com/jwulff/waveline/internal/segment"
	"github.com/jwulff/waveline/internal/timeaxis"
	"github.com/jwulff/waveline/internal/waveform"
)

// Timeline contains the zoom model.
type Timeline struct {
	BasePPS  float64 `toml:"base_pps"`
	ZoomMin  float64 `toml:"zoom_min"`
	ZoomMax  float64 `toml:"zoom_max"`
	ZoomStep float64 `toml:"zoom_step"` // multiplier per zoom key press
}

// Snap contains magnetic snapping preferences.
type Snap struct {
	Enabled     bool    `toml:"enabled"`
	ThresholdPx float64 `toml:"threshold_px"`
	Waveform    bool    `toml:"waveform"` // include voice boundaries
}

// Render contains waveform rasterization limits and frame timing.
type Render struct {
	MaxRasterWidth   int     `toml:"max_raster_width"`
	DevicePixelRatio float64 `toml:"device_pixel_ratio"`
	BufferPx         float64 `toml:"buffer_px"`
	SettleMs         int     `toml:"settle_ms"`
	FrameMs          int     `toml:"frame_ms"`
}

// Layout contains track geometry in timeline pixels, plus the terminal
// cell size used to map mouse cells onto those pixels.
type Layout struct {
	TrackHeight     float64 `toml:"track_height"`
	TrackGap        float64 `toml:"track_gap"`
	BaseOffset      float64 `toml:"base_offset"`
	MinWidthPx      float64 `toml:"min_width_px"`
	MinWidthFloorPx float64 `toml:"min_width_floor_px"`
	HandlePx        float64 `toml:"handle_px"`
	PxPerColumn     float64 `toml:"px_per_column"`
	PxPerRow        float64 `toml:"px_per_row"`
}

// Paths contains the project database and player socket locations.
type Paths struct {
	Database     string `toml:"database"`
	PlayerSocket string `toml:"player_socket"`
}

// Logging contains configuration for log output.
type Logging struct {
	Level  string `toml:"level"`
	Format string `toml:"format"`
	File   string `toml:"file"`
}

// Config is the full waveline configuration.
type Config struct {
	Timeline Timeline `toml:"timeline"`
	Snap     Snap     `toml:"snap"`
	Render   Render   `toml:"render"`
	Layout   Layout   `toml:"layout"`
	Paths    Paths    `toml:"paths"`
	Logging  Logging  `toml:"logging"`
}

// DefaultConfigPath returns the default location of the config file.
func DefaultConfigPath() (string, error) {
	return expandPath("~/.config/waveline/config.toml")
}

// Load reads path (or the default location when empty), applies defaults,
// normalizes, and validates. It returns the resolved path and whether a
// file was found there.
func Load(path string) (*Config, string, bool, error) {
	cfg := Default()

	resolvedPath, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}

	if exists {
		file, err := os.Open(resolvedPath)
		if err != nil {
			return nil, "", false, fmt.Errorf("open config: %w", err)
		}
		defer file.Close()

		decoder := toml.NewDecoder(file)
		decoder.DisallowUnknownFields()
		if err := decoder.Decode(&cfg); err != nil {
			return nil, "", false, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := cfg.normalize(); err != nil {
		return nil, "", false, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}
	return &cfg, resolvedPath, exists, nil
}

func resolveConfigPath(path string) (string, bool, error) {
	if path == "" {
		var err error
		if path, err = DefaultConfigPath(); err != nil {
			return "", false, err
		}
	}
	expanded, err := expandPath(path)
	if err != nil {
		return "", false, err
	}
	info, err := os.Stat(expanded)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return expanded, false, nil
		}
		return "", false, fmt.Errorf("stat config: %w", err)
	}
	if info.IsDir() {
		return "", false, fmt.Errorf("config path %q is a directory", expanded)
	}
	return expanded, true, nil
}

// CreateSample writes the default configuration to path.
func CreateSample(path string) error {
	data, err := toml.Marshal(Default())
	if err != nil {
		return fmt.Errorf("encode sample config: %w", err)
	}
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create config directory: %w", err)
		}
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write sample config: %w", err)
	}
	return nil
}

// Axis returns a time axis at zoom with the configured bounds.
func (c *Config) Axis(zoom float64) timeaxis.Axis {
	return timeaxis.NewWithBounds(c.Timeline.BasePPS, c.Timeline.ZoomMin, c.Timeline.ZoomMax, zoom)
}

// SegmentLayout returns the track geometry.
func (c *Config) SegmentLayout() segment.Layout {
	return segment.Layout{
		BaseOffset:      c.Layout.BaseOffset,
		TrackHeight:     c.Layout.TrackHeight,
		TrackGap:        c.Layout.TrackGap,
		MinWidthPx:      c.Layout.MinWidthPx,
		MinWidthFloorPx: c.Layout.MinWidthFloorPx,
	}
}

// RendererOptions returns the waveform renderer options.
func (c *Config) RendererOptions() waveform.Options {
	return waveform.Options{
		MaxRasterWidth:   float64(c.Render.MaxRasterWidth),
		DevicePixelRatio: c.Render.DevicePixelRatio,
		BufferPx:         c.Render.BufferPx,
		SettleDelay:      time.Duration(c.Render.SettleMs) * time.Millisecond,
	}
}

// InteractionOptions returns the interaction controller options.
func (c *Config) InteractionOptions() interaction.Options {
	return interaction.Options{
		Layout:          c.SegmentLayout(),
		HandlePx:        c.Layout.HandlePx,
		SnapThresholdPx: c.Snap.ThresholdPx,
		BufferPx:        c.Render.BufferPx,
		SnapWaveform:    c.Snap.Waveform,
	}
}

// FrameInterval is the pointer coalescing interval.
func (c *Config) FrameInterval() time.Duration {
	return time.Duration(c.Render.FrameMs) * time.Millisecond
}

// ExpandPath expands a leading tilde and makes the path absolute.
func ExpandPath(pathValue string) (string, error) {
	return expandPath(pathValue)
}

func expandPath(pathValue string) (string, error) {
	if pathValue == "" {
		return pathValue, nil
	}
	if strings.HasPrefix(pathValue, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if pathValue == "~" {
			pathValue = home
		} else if len(pathValue) > 1 && (pathValue[1] == '/' || pathValue[1] == '\\') {
			pathValue = filepath.Join(home, pathValue[2:])
		}
	}
	cleaned := filepath.Clean(pathValue)
	absolute, err := filepath.Abs(cleaned)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", cleaned, err)
	}
	return absolute, nil
}

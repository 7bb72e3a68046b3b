package config

const (
	defaultBasePPS  = 100.0
	defaultZoomMin  = 0.25
	defaultZoomMax  = 2.0
	defaultZoomStep = 1.25

	defaultSnapThresholdPx = 8.0

	defaultMaxRasterWidth   = 16000
	defaultDevicePixelRatio = 1.0
	defaultBufferPx         = 500.0
	defaultSettleMs         = 200
	defaultFrameMs          = 16

	defaultTrackHeight     = 40.0
	defaultTrackGap        = 4.0
	defaultBaseOffset      = 4.0
	defaultMinWidthPx      = 20.0
	defaultMinWidthFloorPx = 10.0
	defaultHandlePx        = 6.0
	defaultPxPerColumn     = 4.0
	defaultPxPerRow        = 16.0

	defaultDatabasePath = "~/.local/share/waveline/projects.sqlite"
	defaultPlayerSocket = "~/.local/share/waveline/player.sock"

	defaultLogLevel  = "info"
	defaultLogFormat = "json"
	defaultLogFile   = "~/.cache/waveline/waveline.log"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Timeline: Timeline{
			BasePPS:  defaultBasePPS,
			ZoomMin:  defaultZoomMin,
			ZoomMax:  defaultZoomMax,
			ZoomStep: defaultZoomStep,
		},
		Snap: Snap{
			Enabled:     true,
			ThresholdPx: defaultSnapThresholdPx,
			Waveform:    true,
		},
		Render: Render{
			MaxRasterWidth:   defaultMaxRasterWidth,
			DevicePixelRatio: defaultDevicePixelRatio,
			BufferPx:         defaultBufferPx,
			SettleMs:         defaultSettleMs,
			FrameMs:          defaultFrameMs,
		},
		Layout: Layout{
			TrackHeight:     defaultTrackHeight,
			TrackGap:        defaultTrackGap,
			BaseOffset:      defaultBaseOffset,
			MinWidthPx:      defaultMinWidthPx,
			MinWidthFloorPx: defaultMinWidthFloorPx,
			HandlePx:        defaultHandlePx,
			PxPerColumn:     defaultPxPerColumn,
			PxPerRow:        defaultPxPerRow,
		},
		Paths: Paths{
			Database:     defaultDatabasePath,
			PlayerSocket: defaultPlayerSocket,
		},
		Logging: Logging{
			Level:  defaultLogLevel,
			Format: defaultLogFormat,
			File:   defaultLogFile,
		},
	}
}

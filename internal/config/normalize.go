package config

import (
	"fmt"
	"os"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	c.normalizeRender()
	return c.normalizeLogging()
}

func (c *Config) normalizePaths() error {
	if value, ok := os.LookupEnv("WAVELINE_DB"); ok && strings.TrimSpace(value) != "" {
		c.Paths.Database = value
	}
	if value, ok := os.LookupEnv("WAVELINE_PLAYER_SOCKET"); ok && strings.TrimSpace(value) != "" {
		c.Paths.PlayerSocket = value
	}

	var err error
	if strings.TrimSpace(c.Paths.Database) == "" {
		c.Paths.Database = defaultDatabasePath
	}
	if c.Paths.Database, err = expandPath(c.Paths.Database); err != nil {
		return fmt.Errorf("paths.database: %w", err)
	}
	if strings.TrimSpace(c.Paths.PlayerSocket) == "" {
		c.Paths.PlayerSocket = defaultPlayerSocket
	}
	if c.Paths.PlayerSocket, err = expandPath(c.Paths.PlayerSocket); err != nil {
		return fmt.Errorf("paths.player_socket: %w", err)
	}
	return nil
}

func (c *Config) normalizeRender() {
	if c.Render.DevicePixelRatio == 0 {
		c.Render.DevicePixelRatio = defaultDevicePixelRatio
	}
	if c.Render.FrameMs == 0 {
		c.Render.FrameMs = defaultFrameMs
	}
}

func (c *Config) normalizeLogging() error {
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	if c.Logging.Format == "" {
		c.Logging.Format = defaultLogFormat
	}
	var err error
	if c.Logging.File, err = expandPath(strings.TrimSpace(c.Logging.File)); err != nil {
		return fmt.Errorf("logging.file: %w", err)
	}
	return nil
}

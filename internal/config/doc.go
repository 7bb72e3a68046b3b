// Package config loads, normalizes, and validates waveline configuration.
//
// It supplies defaults for the timeline geometry, snapping, and waveform
// rendering, expands user paths (including tilde shortcuts), and reads an
// optional TOML file. Environment fallbacks cover the project database and
// player socket so the editor can be pointed elsewhere without a file.
package config

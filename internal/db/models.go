// Package db provides read-only SQLite access to waveline project files.
package db

import (
	"time"

	"github.com/jwulff/waveline/internal/segment"
	"github.com/jwulff/waveline/internal/waveform"
)

// Project is one subtitle project bound to a media file.
type Project struct {
	ID         string
	Name       string
	MediaPath  string
	DurationMs int64
	CreatedAt  time.Time
}

// Waveform is the stored peak envelope for a project.
type Waveform struct {
	ProjectID  string
	Duration   float64 // seconds
	Peaks      []float32
	Generating bool
	Progress   float64 // 0..100
	UpdatedAt  time.Time
}

// Buffer converts the stored peaks into an analysis buffer.
func (w *Waveform) Buffer() waveform.Buffer {
	if w == nil {
		return waveform.Buffer{}
	}
	return waveform.FromPeaks(w.Peaks, w.Duration)
}

// Document is everything the editor needs to open a project.
type Document struct {
	Project  Project
	Snapshot segment.Snapshot

	// Waveform is nil when no envelope has been generated yet.
	Waveform *Waveform
}

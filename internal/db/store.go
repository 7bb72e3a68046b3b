package db

import (
	"database/sql"
	"encoding/binary"
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"github.com/jwulff/waveline/internal/segment"
)

// ErrProjectNotFound is returned when a project id has no row.
var ErrProjectNotFound = errors.New("project not found")

// Store provides read-only access to the waveline project database.
type Store struct {
	db *sql.DB
}

// DefaultDBPath returns the default database path.
func DefaultDBPath() string {
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".local", "share", "waveline", "projects.sqlite")
}

// Open opens the database in read-only mode with WAL.
func Open(path string) (*Store, error) {
	dsn := fmt.Sprintf("file:%s?mode=ro&_journal_mode=WAL", path)
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	// Verify connection
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	return &Store{db: db}, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Projects returns every project, newest first.
func (s *Store) Projects() ([]Project, error) {
	rows, err := s.db.Query(`
		SELECT id, name, mediaPath, durationMs, createdAt
		FROM projects
		ORDER BY createdAt DESC
	`)
	if err != nil {
		return nil, fmt.Errorf("query projects: %w", err)
	}
	defer rows.Close()

	var projects []Project
	for rows.Next() {
		p, err := scanProject(rows)
		if err != nil {
			return nil, err
		}
		projects = append(projects, *p)
	}
	return projects, rows.Err()
}

// Project returns one project by id.
func (s *Store) Project(id string) (*Project, error) {
	row := s.db.QueryRow(`
		SELECT id, name, mediaPath, durationMs, createdAt
		FROM projects
		WHERE id = ?
	`, id)
	p, err := scanProject(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("project %q: %w", id, ErrProjectNotFound)
	}
	return p, err
}

// LatestProject returns the most recently created project, if any.
func (s *Store) LatestProject() (*Project, error) {
	row := s.db.QueryRow(`
		SELECT id, name, mediaPath, durationMs, createdAt
		FROM projects
		ORDER BY createdAt DESC
		LIMIT 1
	`)
	p, err := scanProject(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	return p, err
}

type scanner interface {
	Scan(dest ...any) error
}

func scanProject(row scanner) (*Project, error) {
	var p Project
	var mediaPath sql.NullString
	var createdAt float64
	if err := row.Scan(&p.ID, &p.Name, &mediaPath, &p.DurationMs, &createdAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scan project: %w", err)
	}
	p.MediaPath = mediaPath.String
	p.CreatedAt = timeFromUnix(createdAt)
	return &p, nil
}

// Segments returns a project's segments ordered by start time.
func (s *Store) Segments(projectID string) ([]segment.Segment, error) {
	rows, err := s.db.Query(`
		SELECT id, startMs, endMs, text, track
		FROM segments
		WHERE projectId = ?
		ORDER BY startMs ASC, id ASC
	`, projectID)
	if err != nil {
		return nil, fmt.Errorf("query segments: %w", err)
	}
	defer rows.Close()

	var segs []segment.Segment
	for rows.Next() {
		var seg segment.Segment
		if err := rows.Scan(&seg.ID, &seg.StartMs, &seg.EndMs, &seg.Text, &seg.Track); err != nil {
			return nil, fmt.Errorf("scan segment: %w", err)
		}
		segs = append(segs, seg)
	}
	return segs, rows.Err()
}

// Waveform returns a project's stored envelope, or nil if none exists.
func (s *Store) Waveform(projectID string) (*Waveform, error) {
	row := s.db.QueryRow(`
		SELECT projectId, duration, peaks, status, progress, updatedAt
		FROM waveforms
		WHERE projectId = ?
	`, projectID)

	var w Waveform
	var blob []byte
	var status string
	var updatedAt float64
	if err := row.Scan(&w.ProjectID, &w.Duration, &blob, &status, &w.Progress, &updatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("scan waveform: %w", err)
	}

	peaks, err := decodePeaks(blob)
	if err != nil {
		return nil, fmt.Errorf("waveform for %q: %w", projectID, err)
	}
	w.Peaks = peaks
	w.Generating = status == "generating"
	w.UpdatedAt = timeFromUnix(updatedAt)
	return &w, nil
}

// Load reads a project with its segments and waveform.
func (s *Store) Load(projectID string) (*Document, error) {
	p, err := s.Project(projectID)
	if err != nil {
		return nil, err
	}
	segs, err := s.Segments(projectID)
	if err != nil {
		return nil, err
	}
	w, err := s.Waveform(projectID)
	if err != nil {
		return nil, err
	}
	return &Document{
		Project:  *p,
		Snapshot: segment.NewSnapshot(segs, p.DurationMs),
		Waveform: w,
	}, nil
}

// decodePeaks reads a little-endian float32 array.
func decodePeaks(blob []byte) ([]float32, error) {
	if len(blob)%4 != 0 {
		return nil, fmt.Errorf("peak blob length %d is not a multiple of 4", len(blob))
	}
	peaks := make([]float32, len(blob)/4)
	for i := range peaks {
		peaks[i] = math.Float32frombits(binary.LittleEndian.Uint32(blob[i*4:]))
	}
	return peaks, nil
}

// EncodePeaks is the inverse of the stored blob format.
func EncodePeaks(peaks []float32) []byte {
	blob := make([]byte, 4*len(peaks))
	for i, p := range peaks {
		binary.LittleEndian.PutUint32(blob[i*4:], math.Float32bits(p))
	}
	return blob
}

func timeFromUnix(ts float64) time.Time {
	sec := int64(ts)
	nsec := int64((ts - float64(sec)) * 1e9)
	return time.Unix(sec, nsec)
}

package store

import (
	"database/sql"
	"errors"
	"time"
)

// ErrNotFound is returned when a requested resource does not exist.
var ErrNotFound = errors.New("not found")

// Scan represents one completed video scan.
type Scan struct {
	ID               string
	VideoPath        string
	MinSceneDuration float64
	MinAreaRatio     float64
	FPS              float64
	Width            int
	Height           int
	SegmentCount     int
	CreatedAt        time.Time
}

// Segment represents a detected slide transition belonging to a scan.
type Segment struct {
	FrameIndex   int
	TimestampSec float64
	ChangeRatio  float64
}

// ScanRepository provides persistence operations for scans and segments.
type ScanRepository struct {
	db *sql.DB
}

// Scans returns the scan repository for this store.
func (s *Store) Scans() *ScanRepository {
	return &ScanRepository{db: s.db}
}

// Create inserts a scan together with its segments in one transaction.
func (r *ScanRepository) Create(scan *Scan, segments []Segment) error {
	scan.CreatedAt = time.Now()
	scan.SegmentCount = len(segments)

	tx, err := r.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	_, err = tx.Exec(
		`INSERT INTO scans (id, video_path, min_scene_duration, min_area_ratio, fps, width, height, segment_count, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		scan.ID, scan.VideoPath, scan.MinSceneDuration, scan.MinAreaRatio,
		scan.FPS, scan.Width, scan.Height, scan.SegmentCount, scan.CreatedAt,
	)
	if err != nil {
		return err
	}

	for _, seg := range segments {
		_, err = tx.Exec(
			`INSERT INTO segments (scan_id, frame_index, timestamp_sec, change_ratio)
			 VALUES (?, ?, ?, ?)`,
			scan.ID, seg.FrameIndex, seg.TimestampSec, seg.ChangeRatio,
		)
		if err != nil {
			return err
		}
	}

	return tx.Commit()
}

// GetByID retrieves a scan by its ID.
func (r *ScanRepository) GetByID(id string) (*Scan, error) {
	scan := &Scan{}

	err := r.db.QueryRow(
		`SELECT id, video_path, min_scene_duration, min_area_ratio, fps, width, height, segment_count, created_at
		 FROM scans WHERE id = ?`,
		id,
	).Scan(&scan.ID, &scan.VideoPath, &scan.MinSceneDuration, &scan.MinAreaRatio,
		&scan.FPS, &scan.Width, &scan.Height, &scan.SegmentCount, &scan.CreatedAt)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	return scan, nil
}

// List retrieves all scans, most recent first.
func (r *ScanRepository) List() ([]*Scan, error) {
	rows, err := r.db.Query(
		`SELECT id, video_path, min_scene_duration, min_area_ratio, fps, width, height, segment_count, created_at
		 FROM scans ORDER BY created_at DESC`,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var scans []*Scan
	for rows.Next() {
		scan := &Scan{}
		err := rows.Scan(&scan.ID, &scan.VideoPath, &scan.MinSceneDuration, &scan.MinAreaRatio,
			&scan.FPS, &scan.Width, &scan.Height, &scan.SegmentCount, &scan.CreatedAt)
		if err != nil {
			return nil, err
		}
		scans = append(scans, scan)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return scans, nil
}

// Segments retrieves the segments of a scan in frame order.
func (r *ScanRepository) Segments(scanID string) ([]Segment, error) {
	rows, err := r.db.Query(
		`SELECT frame_index, timestamp_sec, change_ratio
		 FROM segments WHERE scan_id = ? ORDER BY frame_index ASC`,
		scanID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var segments []Segment
	for rows.Next() {
		var seg Segment
		if err := rows.Scan(&seg.FrameIndex, &seg.TimestampSec, &seg.ChangeRatio); err != nil {
			return nil, err
		}
		segments = append(segments, seg)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return segments, nil
}

// Delete removes a scan and, via cascade, its segments.
func (r *ScanRepository) Delete(id string) error {
	result, err := r.db.Exec(`DELETE FROM scans WHERE id = ?`, id)
	if err != nil {
		return err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if rowsAffected == 0 {
		return ErrNotFound
	}

	return nil
}

package store

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/goccy/go-json"

	"github.com/ademuri/listening-insights/internal/analysis"
	"github.com/ademuri/listening-insights/internal/history"
)

// LoadEvents returns the stored history in the order it was imported.
func (s *Store) LoadEvents() ([]history.PlayEvent, error) {
	rows, err := s.db.Query(`SELECT ts, ms_played, track_uri, track_name, artist_name, album_name,
		platform, reason_start, reason_end, shuffle
		FROM PlayEvent ORDER BY seq`)
	if err != nil {
		return nil, fmt.Errorf("querying events: %w", err)
	}
	defer rows.Close()

	var events []history.PlayEvent
	for rows.Next() {
		var e history.PlayEvent
		var ts int64
		err := rows.Scan(&ts, &e.PlayedMs, &e.TrackURI, &e.TrackName, &e.ArtistName, &e.AlbumName,
			&e.Platform, &e.ReasonStart, &e.ReasonEnd, &e.Shuffle)
		if err != nil {
			return nil, fmt.Errorf("scanning event: %w", err)
		}
		e.Timestamp = time.Unix(0, ts).UTC()
		events = append(events, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("reading events: %w", err)
	}
	return events, nil
}

// LoadLog wraps LoadEvents, returning ErrNoData when nothing is stored.
func (s *Store) LoadLog() (*history.Log, error) {
	events, err := s.LoadEvents()
	if err != nil {
		return nil, err
	}
	if len(events) == 0 {
		return nil, ErrNoData
	}
	return history.NewLog(events), nil
}

func (s *Store) HasData() (bool, error) {
	var count int
	if err := s.db.QueryRow("SELECT COUNT(*) FROM PlayEvent").Scan(&count); err != nil {
		return false, fmt.Errorf("counting events: %w", err)
	}
	return count > 0, nil
}

// LoadWindow returns the persisted window, or the unbounded window if none
// has been saved.
func (s *Store) LoadWindow() (analysis.DateWindow, error) {
	var value string
	err := s.db.QueryRow("SELECT value FROM Setting WHERE name = ?", windowSetting).Scan(&value)
	if err == sql.ErrNoRows {
		return analysis.DateWindow{}, nil
	}
	if err != nil {
		return analysis.DateWindow{}, fmt.Errorf("loading window: %w", err)
	}

	var w analysis.DateWindow
	if err := json.Unmarshal([]byte(value), &w); err != nil {
		return analysis.DateWindow{}, fmt.Errorf("decoding window %q: %w", value, err)
	}
	return w, nil
}

// LastImport describes the batch the stored history came from.
func (s *Store) LastImport() (ImportBatch, error) {
	var b ImportBatch
	err := s.db.QueryRow("SELECT id, imported_at, event_count, skipped_count FROM ImportBatch ORDER BY imported_at DESC LIMIT 1").
		Scan(&b.ID, &b.ImportedAt, &b.EventCount, &b.SkippedCount)
	if err == sql.ErrNoRows {
		return ImportBatch{}, ErrNoData
	}
	if err != nil {
		return ImportBatch{}, fmt.Errorf("loading last import: %w", err)
	}

	rows, err := s.db.Query("SELECT path FROM ImportFile WHERE batch = ? ORDER BY position", b.ID)
	if err != nil {
		return ImportBatch{}, fmt.Errorf("loading import files: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var path string
		if err := rows.Scan(&path); err != nil {
			return ImportBatch{}, fmt.Errorf("scanning import file: %w", err)
		}
		b.Files = append(b.Files, path)
	}
	return b, rows.Err()
}

// PlaySpan returns the earliest and latest stored play.
func (s *Store) PlaySpan() (time.Time, time.Time, error) {
	var first, last sql.NullInt64
	if err := s.db.QueryRow("SELECT MIN(ts), MAX(ts) FROM PlayEvent").Scan(&first, &last); err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("querying play span: %w", err)
	}
	if !first.Valid {
		return time.Time{}, time.Time{}, ErrNoData
	}
	return time.Unix(0, first.Int64).UTC(), time.Unix(0, last.Int64).UTC(), nil
}

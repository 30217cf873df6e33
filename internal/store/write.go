package store

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/avast/retry-go"
	"github.com/goccy/go-json"
	"github.com/google/uuid"

	"github.com/ademuri/listening-insights/internal/analysis"
	"github.com/ademuri/listening-insights/internal/history"
)

const windowSetting = "window"

// ImportBatch records one import of export files.
type ImportBatch struct {
	ID           string
	ImportedAt   time.Time
	Files        []string
	EventCount   int
	SkippedCount int
}

func (s *Store) withRetry(what string, f func() error) error {
	return retry.Do(
		f,
		retry.Attempts(5),
		retry.Delay(100*time.Millisecond),
		retry.LastErrorOnly(true),
		retry.RetryIf(isLocked),
		retry.OnRetry(func(n uint, err error) {
			s.log.Warn().Err(err).Uint("attempt", n+1).Msgf("%s: database locked, retrying", what)
		}),
	)
}

// ReplaceEvents swaps the stored history for events in a single transaction.
// Events are stored in slice order. skipped is the number of records the
// loader could not parse.
func (s *Store) ReplaceEvents(events []history.PlayEvent, files []string, skipped int) (ImportBatch, error) {
	batch := ImportBatch{
		ID:           uuid.NewString(),
		ImportedAt:   time.Now().UTC(),
		Files:        files,
		EventCount:   len(events),
		SkippedCount: skipped,
	}

	err := s.withRetry("replacing events", func() error {
		return s.replaceEvents(batch, events)
	})
	if err != nil {
		return ImportBatch{}, err
	}

	s.log.Info().Str("batch", batch.ID).Int("events", batch.EventCount).Int("files", len(files)).Msg("stored history")
	return batch, nil
}

func (s *Store) replaceEvents(batch ImportBatch, events []history.PlayEvent) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	if err := clearHistory(tx); err != nil {
		return err
	}

	_, err = tx.Exec("INSERT INTO ImportBatch (id, imported_at, file_count, event_count, skipped_count) VALUES (?, ?, ?, ?, ?)",
		batch.ID, batch.ImportedAt, len(batch.Files), batch.EventCount, batch.SkippedCount)
	if err != nil {
		return fmt.Errorf("inserting import batch: %w", err)
	}

	for i, path := range batch.Files {
		if _, err := tx.Exec("INSERT INTO ImportFile (batch, position, path) VALUES (?, ?, ?)", batch.ID, i, path); err != nil {
			return fmt.Errorf("inserting import file %q: %w", path, err)
		}
	}

	stmt, err := tx.Prepare(`INSERT INTO PlayEvent
		(seq, batch, ts, ms_played, track_uri, track_name, artist_name, album_name, platform, reason_start, reason_end, shuffle)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("preparing event insert: %w", err)
	}
	defer stmt.Close()

	for i, e := range events {
		_, err := stmt.Exec(i, batch.ID, e.Timestamp.UnixNano(), e.PlayedMs,
			e.TrackURI, e.TrackName, e.ArtistName, e.AlbumName,
			e.Platform, e.ReasonStart, e.ReasonEnd, e.Shuffle)
		if err != nil {
			return fmt.Errorf("inserting event %d: %w", i, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}
	return nil
}

func clearHistory(tx *sql.Tx) error {
	for _, table := range []string{"PlayEvent", "ImportFile", "ImportBatch"} {
		if _, err := tx.Exec("DELETE FROM " + table); err != nil {
			return fmt.Errorf("clearing %s: %w", table, err)
		}
	}
	return nil
}

// SaveWindow persists the date window. A zero window is stored as well, so
// clearing the window survives restarts.
func (s *Store) SaveWindow(w analysis.DateWindow) error {
	value, err := json.Marshal(w)
	if err != nil {
		return fmt.Errorf("encoding window: %w", err)
	}

	return s.withRetry("saving window", func() error {
		_, err := s.db.Exec("INSERT INTO Setting (name, value) VALUES (?, ?) ON CONFLICT(name) DO UPDATE SET value = excluded.value",
			windowSetting, string(value))
		if err != nil {
			return fmt.Errorf("saving window: %w", err)
		}
		return nil
	})
}

// Reset deletes the stored history and settings.
func (s *Store) Reset() error {
	return s.withRetry("resetting", func() error {
		tx, err := s.db.Begin()
		if err != nil {
			return fmt.Errorf("beginning transaction: %w", err)
		}
		defer tx.Rollback()

		if err := clearHistory(tx); err != nil {
			return err
		}
		if _, err := tx.Exec("DELETE FROM Setting"); err != nil {
			return fmt.Errorf("clearing settings: %w", err)
		}
		return tx.Commit()
	})
}

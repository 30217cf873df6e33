package store

import (
	"errors"
	"path/filepath"
	"reflect"
	"testing"
	"time"

	"github.com/ademuri/listening-insights/internal/analysis"
	"github.com/ademuri/listening-insights/internal/history"
)

func createTestDb(t *testing.T) *Store {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "history.db")

	store, err := New(dbPath)
	if err != nil {
		t.Fatalf("New(%s) error: %v", dbPath, err)
	}
	t.Cleanup(func() { store.Close() })

	return store
}

func testEvents() []history.PlayEvent {
	base := time.Date(2021, 5, 1, 10, 0, 0, 0, time.UTC)
	return []history.PlayEvent{
		{
			Timestamp:   base.Add(2 * time.Hour),
			PlayedMs:    180000,
			TrackURI:    "spotify:track:b",
			TrackName:   "B",
			ArtistName:  "Artist",
			AlbumName:   "Album",
			Platform:    "android",
			ReasonStart: "clickrow",
			ReasonEnd:   "trackdone",
			Shuffle:     true,
		},
		// Out of chronological order on purpose: storage must keep input order.
		{Timestamp: base, PlayedMs: 3000, TrackURI: "spotify:track:a", TrackName: "A"},
		{Timestamp: base.Add(time.Hour), PlayedMs: 0, TrackName: "Podcast"},
	}
}

func TestReplaceEventsRoundTrip(t *testing.T) {
	s := createTestDb(t)

	events := testEvents()
	batch, err := s.ReplaceEvents(events, []string{"a.json", "b.json"}, 2)
	if err != nil {
		t.Fatalf("ReplaceEvents failed: %v", err)
	}
	if batch.ID == "" {
		t.Errorf("expected a batch ID")
	}
	if batch.EventCount != 3 {
		t.Errorf("expected 3 events in batch, got %d", batch.EventCount)
	}

	got, err := s.LoadEvents()
	if err != nil {
		t.Fatalf("LoadEvents failed: %v", err)
	}
	if !reflect.DeepEqual(got, events) {
		t.Errorf("round trip mismatch:\n got %+v\nwant %+v", got, events)
	}
}

func TestReplaceEventsReplaces(t *testing.T) {
	s := createTestDb(t)

	if _, err := s.ReplaceEvents(testEvents(), []string{"old.json"}, 0); err != nil {
		t.Fatalf("ReplaceEvents failed: %v", err)
	}
	second := testEvents()[:1]
	if _, err := s.ReplaceEvents(second, []string{"new.json"}, 0); err != nil {
		t.Fatalf("ReplaceEvents (second) failed: %v", err)
	}

	got, err := s.LoadEvents()
	if err != nil {
		t.Fatalf("LoadEvents failed: %v", err)
	}
	if len(got) != 1 {
		t.Errorf("expected 1 event after replace, got %d", len(got))
	}

	last, err := s.LastImport()
	if err != nil {
		t.Fatalf("LastImport failed: %v", err)
	}
	if !reflect.DeepEqual(last.Files, []string{"new.json"}) {
		t.Errorf("expected files [new.json], got %v", last.Files)
	}
	if last.EventCount != 1 {
		t.Errorf("expected event count 1, got %d", last.EventCount)
	}
}

func TestEmptyStore(t *testing.T) {
	s := createTestDb(t)

	has, err := s.HasData()
	if err != nil {
		t.Fatalf("HasData failed: %v", err)
	}
	if has {
		t.Errorf("new store should have no data")
	}

	if _, err := s.LoadLog(); !errors.Is(err, ErrNoData) {
		t.Errorf("LoadLog: expected ErrNoData, got %v", err)
	}
	if _, err := s.LastImport(); !errors.Is(err, ErrNoData) {
		t.Errorf("LastImport: expected ErrNoData, got %v", err)
	}
	if _, _, err := s.PlaySpan(); !errors.Is(err, ErrNoData) {
		t.Errorf("PlaySpan: expected ErrNoData, got %v", err)
	}

	w, err := s.LoadWindow()
	if err != nil {
		t.Fatalf("LoadWindow failed: %v", err)
	}
	if !w.IsUnbounded() {
		t.Errorf("expected unbounded window, got %v", w)
	}
}

func TestWindowRoundTrip(t *testing.T) {
	s := createTestDb(t)

	w := analysis.DateWindow{
		Start: time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC),
		End:   time.Date(2020, 12, 31, 23, 59, 59, 999999999, time.UTC),
	}
	if err := s.SaveWindow(w); err != nil {
		t.Fatalf("SaveWindow failed: %v", err)
	}
	got, err := s.LoadWindow()
	if err != nil {
		t.Fatalf("LoadWindow failed: %v", err)
	}
	if !got.Equal(w) {
		t.Errorf("expected %v, got %v", w, got)
	}

	if err := s.SaveWindow(analysis.DateWindow{}); err != nil {
		t.Fatalf("SaveWindow (clear) failed: %v", err)
	}
	got, err = s.LoadWindow()
	if err != nil {
		t.Fatalf("LoadWindow failed: %v", err)
	}
	if !got.IsUnbounded() {
		t.Errorf("expected cleared window, got %v", got)
	}
}

func TestPlaySpan(t *testing.T) {
	s := createTestDb(t)
	if _, err := s.ReplaceEvents(testEvents(), nil, 0); err != nil {
		t.Fatalf("ReplaceEvents failed: %v", err)
	}

	first, last, err := s.PlaySpan()
	if err != nil {
		t.Fatalf("PlaySpan failed: %v", err)
	}
	if want := time.Date(2021, 5, 1, 10, 0, 0, 0, time.UTC); !first.Equal(want) {
		t.Errorf("first = %v, want %v", first, want)
	}
	if want := time.Date(2021, 5, 1, 12, 0, 0, 0, time.UTC); !last.Equal(want) {
		t.Errorf("last = %v, want %v", last, want)
	}
}

func TestReset(t *testing.T) {
	s := createTestDb(t)
	if _, err := s.ReplaceEvents(testEvents(), []string{"a.json"}, 0); err != nil {
		t.Fatalf("ReplaceEvents failed: %v", err)
	}
	if err := s.SaveWindow(analysis.DateWindow{Start: time.Now()}); err != nil {
		t.Fatalf("SaveWindow failed: %v", err)
	}

	if err := s.Reset(); err != nil {
		t.Fatalf("Reset failed: %v", err)
	}

	has, err := s.HasData()
	if err != nil {
		t.Fatalf("HasData failed: %v", err)
	}
	if has {
		t.Errorf("expected no data after reset")
	}
	w, err := s.LoadWindow()
	if err != nil {
		t.Fatalf("LoadWindow failed: %v", err)
	}
	if !w.IsUnbounded() {
		t.Errorf("expected window to be cleared, got %v", w)
	}
}

func TestReopenKeepsData(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "history.db")
	s, err := New(dbPath)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	if _, err := s.ReplaceEvents(testEvents(), nil, 0); err != nil {
		t.Fatalf("ReplaceEvents failed: %v", err)
	}
	s.Close()

	s, err = New(dbPath)
	if err != nil {
		t.Fatalf("New (reopen) failed: %v", err)
	}
	defer s.Close()

	log, err := s.LoadLog()
	if err != nil {
		t.Fatalf("LoadLog failed: %v", err)
	}
	if log.Len() != 3 {
		t.Errorf("expected 3 events after reopen, got %d", log.Len())
	}
}

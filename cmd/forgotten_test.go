package cmd

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/ademuri/listening-insights/internal/history"
	"github.com/ademuri/listening-insights/internal/store"
)

func createForgottenDb(t *testing.T) string {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "listening.db")
	db, err := store.New(dbPath)
	if err != nil {
		t.Fatalf("store.New failed: %v", err)
	}
	defer db.Close()

	var events []history.PlayEvent
	start := time.Date(2015, 6, 1, 12, 0, 0, 0, time.UTC)
	for i := 0; i < 20; i++ {
		events = append(events, history.PlayEvent{
			Timestamp:  start.AddDate(0, 0, i),
			PlayedMs:   200000,
			TrackURI:   "spotify:track:old",
			TrackName:  "Old Song",
			ArtistName: "Old Band",
			AlbumName:  "Old Album",
		})
	}
	events = append(events, history.PlayEvent{
		Timestamp:  time.Now().Add(-time.Hour),
		PlayedMs:   200000,
		TrackURI:   "spotify:track:new",
		TrackName:  "New Song",
		ArtistName: "New Band",
	})

	if _, err := db.ReplaceEvents(events, nil, 0); err != nil {
		t.Fatalf("ReplaceEvents failed: %v", err)
	}
	return dbPath
}

func TestPrintForgotten(t *testing.T) {
	dbPath := createForgottenDb(t)
	out := new(bytes.Buffer)

	if err := printForgotten(out, dbPath); err != nil {
		t.Fatalf("printForgotten failed: %v", err)
	}

	got := out.String()
	for _, want := range []string{
		"## Forgotten Artists",
		"### Moderate Interest (15+ plays)",
		"Old Band",
		"## Forgotten Albums",
		"### Moderate Interest (10+ plays)",
		"Old Album",
		"2015-06-20",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("output missing %q:\n%s", want, got)
		}
	}
	if strings.Contains(got, "New Band") {
		t.Errorf("recently played artists are not forgotten:\n%s", got)
	}
}

func TestPrintForgottenInvalidFlags(t *testing.T) {
	dbPath := createForgottenDb(t)

	sortBy = "random"
	err := printForgotten(new(bytes.Buffer), dbPath)
	sortBy = "dormancy"
	if err == nil {
		t.Errorf("expected an error for an unknown sort order")
	}

	lastPlayBeforeStr = "soon"
	err = printForgotten(new(bytes.Buffer), dbPath)
	lastPlayBeforeStr = "90d"
	if err == nil {
		t.Errorf("expected an error for an invalid date")
	}
}

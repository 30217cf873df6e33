package cmd

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/ademuri/listening-insights/internal/history"
	"github.com/ademuri/listening-insights/internal/store"
)

func testTime(s string) time.Time {
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		panic(err)
	}
	return t
}

func testEvents() []history.PlayEvent {
	beatles := func(uri, name, ts string, ms int64, reasonEnd string) history.PlayEvent {
		return history.PlayEvent{
			Timestamp:   testTime(ts),
			PlayedMs:    ms,
			TrackURI:    uri,
			TrackName:   name,
			ArtistName:  "The Beatles",
			AlbumName:   "Abbey Road",
			Platform:    "android",
			ReasonStart: "clickrow",
			ReasonEnd:   reasonEnd,
		}
	}
	radiohead := func(ts string) history.PlayEvent {
		return history.PlayEvent{
			Timestamp:   testTime(ts),
			PlayedMs:    380000,
			TrackURI:    "spotify:track:c",
			TrackName:   "Paranoid Android",
			ArtistName:  "Radiohead",
			AlbumName:   "OK Computer",
			Platform:    "osx",
			ReasonStart: "trackdone",
			ReasonEnd:   "trackdone",
			Shuffle:     true,
		}
	}
	return []history.PlayEvent{
		beatles("spotify:track:a", "Come Together", "2020-03-01T10:00:00Z", 200000, "trackdone"),
		beatles("spotify:track:a", "Come Together", "2020-03-02T10:00:00Z", 200000, "trackdone"),
		beatles("spotify:track:a", "Come Together", "2020-04-01T10:00:00Z", 200000, "trackdone"),
		beatles("spotify:track:a", "Come Together", "2020-04-02T10:00:00Z", 3000, "fwdbtn"),
		beatles("spotify:track:b", "Something", "2020-05-01T10:00:00Z", 180000, "trackdone"),
		radiohead("2021-02-01T20:00:00Z"),
		radiohead("2021-02-03T20:00:00Z"),
		{
			Timestamp:  testTime("2021-06-01T08:00:00Z"),
			PlayedMs:   100000,
			TrackURI:   "spotify:track:d",
			TrackName:  "Lonely Song",
			ArtistName: "Solo Act",
		},
		{Timestamp: testTime("2021-06-02T08:00:00Z"), PlayedMs: 1800000, TrackName: "Podcast"},
	}
}

// createTestDb stores testEvents in a new database and returns its path.
func createTestDb(t *testing.T) string {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "listening.db")

	db, err := store.New(dbPath)
	if err != nil {
		t.Fatalf("store.New(%s) error: %v", dbPath, err)
	}
	defer db.Close()

	if _, err := db.ReplaceEvents(testEvents(), []string{"Streaming_History_Audio_2020.json"}, 0); err != nil {
		t.Fatalf("ReplaceEvents error: %v", err)
	}
	return dbPath
}

func testInput(t *testing.T, args ...string) AnalysisInput {
	t.Helper()
	in, err := loadAnalysisInput(createTestDb(t), args)
	if err != nil {
		t.Fatalf("loadAnalysisInput(%v) error: %v", args, err)
	}
	return in
}

func assertRows(t *testing.T, got Analysis, want [][]string) {
	t.Helper()
	if len(got.results) != len(want) {
		t.Fatalf("expected %d rows, got %d: %v", len(want), len(got.results), got.results)
	}
	for i := range want {
		if len(got.results[i]) != len(want[i]) {
			t.Fatalf("row %d: expected %v, got %v", i, want[i], got.results[i])
		}
		for j := range want[i] {
			if got.results[i][j] != want[i][j] {
				t.Errorf("row %d: expected %v, got %v", i, want[i], got.results[i])
				break
			}
		}
	}
}

package analysis

import (
	"testing"
	"time"

	"github.com/ademuri/listening-insights/internal/history"
)

func TestGenerateReport(t *testing.T) {
	now := time.Date(2022, 6, 1, 0, 0, 0, 0, time.UTC)

	var events []history.PlayEvent
	// Historical listening: Old Band, well before the last 18 months.
	for i := 0; i < 10; i++ {
		events = append(events, track("old1", "Old Song", "Old Band", "Old Album", "2018-03-01", 240000))
		events = append(events, track("both", "Evergreen", "Steady", "Greatest", "2018-04-01", 200000))
	}
	// Current listening.
	for i := 0; i < 5; i++ {
		events = append(events, track("new1", "New Song", "New Band", "Debut", "2022-01-10", 180000))
		events = append(events, track("new2", "Other Song", "New Band", "Second", "2022-02-10", 180000))
		events = append(events, track("both", "Evergreen", "Steady", "Greatest", "2022-03-01", 200000))
	}
	events = append(events, track("new1", "New Song", "New Band", "Debut", "2022-03-02", 1000))

	report := GenerateReport(events, DateWindow{}, 10, now)

	if report.Metadata.GeneratedDate != "2022-06-01" {
		t.Errorf("unexpected generated date %q", report.Metadata.GeneratedDate)
	}
	if report.Summary.Plays != len(events) {
		t.Errorf("expected %d plays, got %d", len(events), report.Summary.Plays)
	}
	if report.Summary.UniqueArtists != 3 {
		t.Errorf("expected 3 artists, got %d", report.Summary.UniqueArtists)
	}
	if report.Metadata.CurrentPeriod != "2020-09-02 to 2022-03-02" {
		t.Errorf("unexpected current period %q", report.Metadata.CurrentPeriod)
	}
	if report.Metadata.HistoricalPeriod == "" {
		t.Errorf("expected a historical period")
	}

	if len(report.ArtistDrift.Declined) != 1 || report.ArtistDrift.Declined[0].Artist != "Old Band" {
		t.Errorf("expected Old Band to decline, got %v", report.ArtistDrift.Declined)
	}
	if len(report.ArtistDrift.Emerged) != 1 || report.ArtistDrift.Emerged[0].Artist != "New Band" {
		t.Errorf("expected New Band to emerge, got %v", report.ArtistDrift.Emerged)
	}

	var newBand *ArtistStat
	for i := range report.TopArtists {
		if report.TopArtists[i].Name == "New Band" {
			newBand = &report.TopArtists[i]
		}
	}
	if newBand == nil {
		t.Fatalf("New Band not found in report")
	}
	if len(newBand.TopAlbums) != 2 || newBand.TopAlbums[0] != "Debut (6)" {
		t.Errorf("unexpected top albums %v", newBand.TopAlbums)
	}
	if newBand.PeakYears != "2022" {
		t.Errorf("expected peak year 2022, got %q", newBand.PeakYears)
	}

	if report.Skips.SkipCount != 1 {
		t.Errorf("expected 1 skip, got %d", report.Skips.SkipCount)
	}
	if len(report.MostSkipped) != 1 || report.MostSkipped[0].TrackURI != "new1" {
		t.Errorf("unexpected skipped tracks %v", report.MostSkipped)
	}
	if len(report.TopTrackByYear) != 2 || report.TopTrackByYear[0].Year != 2022 {
		t.Errorf("unexpected top tracks by year %v", report.TopTrackByYear)
	}
	if report.ListeningPatterns.NewArtistsInLast12Months != 1 {
		t.Errorf("expected 1 new artist, got %d", report.ListeningPatterns.NewArtistsInLast12Months)
	}
	if report.Metadata.ListeningStyle != "track-oriented" {
		t.Errorf("expected track-oriented, got %s", report.Metadata.ListeningStyle)
	}
}

func TestGenerateReportEmpty(t *testing.T) {
	report := GenerateReport(nil, DateWindow{}, 10, time.Now())
	if report.Summary.Plays != 0 {
		t.Errorf("expected no plays")
	}
	if report.Metadata.CurrentPeriod != "" || report.Metadata.HistoricalPeriod != "" {
		t.Errorf("expected no periods, got %+v", report.Metadata)
	}
	if report.Metadata.TotalListening != "00d 00h 00m" {
		t.Errorf("unexpected total listening %q", report.Metadata.TotalListening)
	}
}

func TestGetPeakYears(t *testing.T) {
	tests := []struct {
		plays map[int]int
		want  string
	}{
		{map[int]int{2020: 10, 2021: 10, 2022: 10}, "2020-2022"},
		{map[int]int{2019: 1, 2020: 50, 2021: 2}, "2020"},
		{map[int]int{}, ""},
	}
	for _, tt := range tests {
		if got := peakYears(tt.plays); got != tt.want {
			t.Errorf("peakYears(%v) = %q, want %q", tt.plays, got, tt.want)
		}
	}
}

func TestCalculateDrift(t *testing.T) {
	hist := []ArtistTime{
		{Artist: "rock", TotalPlayedMs: 800},
		{Artist: "jazz", TotalPlayedMs: 500},
	}
	curr := []ArtistTime{
		{Artist: "rock", TotalPlayedMs: 900},
		{Artist: "techno", TotalPlayedMs: 600},
	}

	declined, emerged := calculateDrift(hist, curr)

	if len(declined) != 1 || declined[0].Artist != "jazz" {
		t.Errorf("expected 'jazz' to decline")
	}

	if len(emerged) != 1 || emerged[0].Artist != "techno" {
		t.Errorf("expected 'techno' to emerge")
	}
}

package analysis

import (
	"fmt"
	"math"
	"slices"
	"sort"
	"strconv"
	"time"

	"github.com/samber/lo"

	"github.com/ademuri/listening-insights/internal/history"
)

const (
	currentPeriodMonths = 18
	driftTop            = 20
	driftPool           = 40
)

// GenerateReport builds the full listening report for the events inside
// window. The current period is the last 18 months of the window, ending at
// its latest play; everything before it is the historical baseline.
func GenerateReport(events []history.PlayEvent, window DateWindow, n int, now time.Time) *Report {
	inWindow := lo.Filter(events, func(e history.PlayEvent, _ int) bool {
		return window.Contains(e.Timestamp)
	})
	aggs := Aggregate(inWindow, DateWindow{})
	summary := Summarize(aggs)

	report := &Report{
		Metadata: ReportMetadata{
			GeneratedDate:  now.Format("2006-01-02"),
			Window:         window.String(),
			TotalListening: FormatDaysHoursMinutes(summary.TotalPlayedMs),
		},
		Summary:        summary,
		TopTracks:      TopTracks(aggs, n),
		TopAlbums:      TopAlbums(aggs, n),
		OneHitWonders:  OneHitWonders(aggs, n),
		MostSkipped:    MostSkipped(inWindow, DateWindow{}, n),
		TopTrackByYear: TopTrackByYear(inWindow, DateWindow{}),
		Skips:          ComputeSkipProfile(inWindow),
		Context:        ComputeContextProfile(inWindow),
	}

	for _, a := range TopArtists(aggs, n) {
		report.TopArtists = append(report.TopArtists, artistStat(inWindow, a))
	}

	report.ListeningPatterns = calculateListeningPatterns(inWindow, events, now)
	// Two albums per artist is decent depth.
	if report.ListeningPatterns.AlbumsPerArtistMedian >= 2.0 {
		report.Metadata.ListeningStyle = "album-oriented"
	} else {
		report.Metadata.ListeningStyle = "track-oriented"
	}

	if len(inWindow) == 0 {
		return report
	}

	first, latest := inWindow[0].Timestamp, inWindow[0].Timestamp
	for _, e := range inWindow {
		if e.Timestamp.Before(first) {
			first = e.Timestamp
		}
		if e.Timestamp.After(latest) {
			latest = e.Timestamp
		}
	}
	current := DateWindow{Start: latest.AddDate(0, -currentPeriodMonths, 0), End: latest}
	historical := DateWindow{Start: first, End: current.Start.Add(-time.Nanosecond)}
	report.Metadata.CurrentPeriod = current.String()
	if !first.Before(current.Start) {
		return report
	}
	report.Metadata.HistoricalPeriod = historical.String()

	currentArtists := TopArtists(Aggregate(inWindow, current), driftPool)
	historicalArtists := TopArtists(Aggregate(inWindow, historical), driftPool)
	report.ArtistDrift.Declined, report.ArtistDrift.Emerged = calculateDrift(historicalArtists, currentArtists)

	return report
}

func artistStat(events []history.PlayEvent, a ArtistTime) ArtistStat {
	stat := ArtistStat{Name: a.Artist, TotalPlayedMs: a.TotalPlayedMs}

	byArtist := lo.Filter(events, func(e history.PlayEvent, _ int) bool {
		return e.TrackURI != "" && e.ArtistName == a.Artist
	})
	stat.Plays = len(byArtist)

	years := make(map[int]int)
	albums := make(map[string]int)
	var albumOrder []string
	for _, e := range byArtist {
		years[yearOf(e)]++
		if e.AlbumName == "" {
			continue
		}
		if _, ok := albums[e.AlbumName]; !ok {
			albumOrder = append(albumOrder, e.AlbumName)
		}
		albums[e.AlbumName]++
	}
	stat.PeakYears = peakYears(years)

	slices.SortStableFunc(albumOrder, func(x, y string) int {
		return albums[y] - albums[x]
	})
	for _, album := range limit(albumOrder, 3) {
		stat.TopAlbums = append(stat.TopAlbums, fmt.Sprintf("%s (%d)", album, albums[album]))
	}
	return stat
}

// peakYears finds the shortest run of consecutive listening years holding at
// least 80% of the plays. Earlier runs win ties.
func peakYears(playsByYear map[int]int) string {
	years := sortedYears(playsByYear)
	total := 0
	for _, y := range years {
		total += playsByYear[y]
	}
	if total == 0 {
		return ""
	}

	target := int(float64(total) * 0.8)
	bestStart, bestEnd := -1, -1
	minLen := math.MaxInt

	for i := range years {
		sum := 0
		for j := i; j < len(years); j++ {
			sum += playsByYear[years[j]]
			if sum >= target {
				if length := j - i + 1; length < minLen {
					minLen = length
					bestStart, bestEnd = i, j
				}
				break
			}
		}
	}

	if bestStart == -1 {
		return "Unknown"
	}
	if bestStart == bestEnd {
		return strconv.Itoa(years[bestStart])
	}
	return fmt.Sprintf("%d-%d", years[bestStart], years[bestEnd])
}

// calculateDrift reports historical top artists missing from the current pool
// as declined, and current top artists missing from the historical pool as
// emerged.
func calculateDrift(historical, current []ArtistTime) ([]DriftArtist, []DriftArtist) {
	histMs := make(map[string]int64)
	for _, a := range historical {
		histMs[a.Artist] = a.TotalPlayedMs
	}
	currMs := make(map[string]int64)
	for _, a := range current {
		currMs[a.Artist] = a.TotalPlayedMs
	}

	var declined []DriftArtist
	for _, h := range limit(historical, driftTop) {
		if _, ok := currMs[h.Artist]; !ok {
			declined = append(declined, DriftArtist{Artist: h.Artist, HistoricalMs: h.TotalPlayedMs})
		}
	}

	var emerged []DriftArtist
	for _, c := range limit(current, driftTop) {
		if _, ok := histMs[c.Artist]; !ok {
			emerged = append(emerged, DriftArtist{Artist: c.Artist, CurrentMs: c.TotalPlayedMs})
		}
	}

	return declined, emerged
}

// calculateListeningPatterns measures album depth and repetition over the
// windowed events. New artists are counted over the whole history, relative
// to now.
func calculateListeningPatterns(inWindow, all []history.PlayEvent, now time.Time) ListeningPatterns {
	lp := ListeningPatterns{}

	albumsByArtist := make(map[string]map[string]bool)
	for _, e := range inWindow {
		if e.AlbumName == "" {
			continue
		}
		if albumsByArtist[e.ArtistName] == nil {
			albumsByArtist[e.ArtistName] = make(map[string]bool)
		}
		albumsByArtist[e.ArtistName][e.AlbumName] = true
	}

	var albumCounts []float64
	var sum float64
	for _, albums := range albumsByArtist {
		c := float64(len(albums))
		albumCounts = append(albumCounts, c)
		sum += c
	}
	if len(albumCounts) > 0 {
		lp.AlbumsPerArtistAverage = math.Round((sum/float64(len(albumCounts)))*10) / 10

		sort.Float64s(albumCounts)
		mid := len(albumCounts) / 2
		if len(albumCounts)%2 == 1 {
			lp.AlbumsPerArtistMedian = albumCounts[mid]
		} else {
			lp.AlbumsPerArtistMedian = (albumCounts[mid-1] + albumCounts[mid]) / 2
		}
	}

	firstPlay := make(map[string]time.Time)
	for _, e := range all {
		if e.ArtistName == "" {
			continue
		}
		if t, ok := firstPlay[e.ArtistName]; !ok || e.Timestamp.Before(t) {
			firstPlay[e.ArtistName] = e.Timestamp
		}
	}
	newSince := now.AddDate(-1, 0, 0)
	for _, t := range firstPlay {
		if !t.Before(newSince) {
			lp.NewArtistsInLast12Months++
		}
	}

	// (plays - unique tracks) / plays
	tracked := lo.Filter(inWindow, func(e history.PlayEvent, _ int) bool { return e.TrackURI != "" })
	if len(tracked) > 0 {
		unique := len(lo.UniqBy(tracked, func(e history.PlayEvent) string { return e.TrackURI }))
		lp.RepeatListeningRatio = math.Round(ratio(len(tracked)-unique, len(tracked))*100) / 100
	}

	return lp
}

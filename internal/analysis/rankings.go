package analysis

import (
	"slices"

	"github.com/samber/lo"

	"github.com/ademuri/listening-insights/internal/history"
)

type ArtistTime struct {
	Artist        string `json:"artist" yaml:"artist"`
	TotalPlayedMs int64  `json:"total_played_ms" yaml:"total_played_ms"`
	Tracks        int    `json:"tracks" yaml:"tracks"`
}

type AlbumTime struct {
	Artist        string `json:"artist" yaml:"artist"`
	Album         string `json:"album" yaml:"album"`
	TotalPlayedMs int64  `json:"total_played_ms" yaml:"total_played_ms"`
}

type SkippedTrack struct {
	TrackURI   string `json:"track_uri,omitempty" yaml:"track_uri,omitempty"`
	TrackName  string `json:"track_name" yaml:"track_name"`
	ArtistName string `json:"artist_name" yaml:"artist_name"`
	SkipCount  int    `json:"skip_count" yaml:"skip_count"`
	TotalPlays int    `json:"total_plays" yaml:"total_plays"`
}

func (s SkippedTrack) SkipRate() float64 {
	return ratio(s.SkipCount, s.TotalPlays)
}

type YearTopTrack struct {
	Year  int            `json:"year" yaml:"year"`
	Track TrackAggregate `json:"track" yaml:"track"`
}

type ReasonTrack struct {
	TrackURI   string `json:"track_uri" yaml:"track_uri"`
	TrackName  string `json:"track_name" yaml:"track_name"`
	ArtistName string `json:"artist_name" yaml:"artist_name"`
	Count      int    `json:"count" yaml:"count"`
}

// Summary is the headline numbers for an aggregate table.
type Summary struct {
	TotalPlayedMs int64 `json:"total_played_ms" yaml:"total_played_ms"`
	UniqueTracks  int   `json:"unique_tracks" yaml:"unique_tracks"`
	UniqueArtists int   `json:"unique_artists" yaml:"unique_artists"`
	Plays         int   `json:"plays" yaml:"plays"`
}

func limit[T any](s []T, n int) []T {
	if n > 0 && len(s) > n {
		return s[:n]
	}
	return s
}

// TopTracks orders aggregates by time played, longest first. n <= 0 returns
// all of them. The input is not modified.
func TopTracks(aggs []TrackAggregate, n int) []TrackAggregate {
	sorted := slices.Clone(aggs)
	slices.SortStableFunc(sorted, func(a, b TrackAggregate) int {
		return cmpDesc(a.TotalPlayedMs, b.TotalPlayedMs)
	})
	return limit(sorted, n)
}

// TopArtists sums time played per artist name. Tracks with no artist are
// grouped under the empty name.
func TopArtists(aggs []TrackAggregate, n int) []ArtistTime {
	index := make(map[string]int)
	var artists []ArtistTime
	for _, a := range aggs {
		i, ok := index[a.ArtistName]
		if !ok {
			i = len(artists)
			index[a.ArtistName] = i
			artists = append(artists, ArtistTime{Artist: a.ArtistName})
		}
		artists[i].TotalPlayedMs += a.TotalPlayedMs
		artists[i].Tracks++
	}
	slices.SortStableFunc(artists, func(a, b ArtistTime) int {
		return cmpDesc(a.TotalPlayedMs, b.TotalPlayedMs)
	})
	return limit(artists, n)
}

func TopAlbums(aggs []TrackAggregate, n int) []AlbumTime {
	type key struct{ artist, album string }
	index := make(map[key]int)
	var albums []AlbumTime
	for _, a := range aggs {
		if a.AlbumName == "" {
			continue
		}
		k := key{a.ArtistName, a.AlbumName}
		i, ok := index[k]
		if !ok {
			i = len(albums)
			index[k] = i
			albums = append(albums, AlbumTime{Artist: a.ArtistName, Album: a.AlbumName})
		}
		albums[i].TotalPlayedMs += a.TotalPlayedMs
	}
	slices.SortStableFunc(albums, func(a, b AlbumTime) int {
		return cmpDesc(a.TotalPlayedMs, b.TotalPlayedMs)
	})
	return limit(albums, n)
}

// OneHitWonders returns the single track of every artist that has exactly one
// aggregated track, most played first with time played breaking ties.
func OneHitWonders(aggs []TrackAggregate, n int) []TrackAggregate {
	byArtist := lo.GroupBy(lo.Filter(aggs, func(a TrackAggregate, _ int) bool {
		return a.ArtistName != ""
	}), func(a TrackAggregate) string {
		return a.ArtistName
	})

	var hits []TrackAggregate
	for _, a := range aggs {
		if tracks := byArtist[a.ArtistName]; len(tracks) == 1 && a.ArtistName != "" {
			hits = append(hits, a)
		}
	}
	slices.SortStableFunc(hits, func(a, b TrackAggregate) int {
		if c := cmpDesc(int64(a.EventCount), int64(b.EventCount)); c != 0 {
			return c
		}
		return cmpDesc(a.TotalPlayedMs, b.TotalPlayedMs)
	})
	return limit(hits, n)
}

// MostSkipped counts skips per track over raw events in the window. Tracks
// without a URI are keyed by name and artist; tracks without a name are left
// out. Only tracks skipped at least once are returned, most skips first.
func MostSkipped(events []history.PlayEvent, window DateWindow, n int) []SkippedTrack {
	index := make(map[string]int)
	var tracks []SkippedTrack
	for _, e := range events {
		if !window.Contains(e.Timestamp) {
			continue
		}
		key := e.TrackURI
		if key == "" {
			key = e.TrackName + "-" + e.ArtistName
		}
		i, ok := index[key]
		if !ok {
			i = len(tracks)
			index[key] = i
			tracks = append(tracks, SkippedTrack{
				TrackURI:   e.TrackURI,
				TrackName:  e.TrackName,
				ArtistName: e.ArtistName,
			})
		}
		tracks[i].TotalPlays++
		if IsSkip(e) {
			tracks[i].SkipCount++
		}
	}

	skipped := lo.Filter(tracks, func(t SkippedTrack, _ int) bool {
		return t.SkipCount > 0 && t.TrackName != ""
	})
	slices.SortStableFunc(skipped, func(a, b SkippedTrack) int {
		return cmpDesc(int64(a.SkipCount), int64(b.SkipCount))
	})
	return limit(skipped, n)
}

// TopTrackByYear picks the most played track (by time) of every year in the
// window, newest year first. The first track to reach the maximum wins ties.
func TopTrackByYear(events []history.PlayEvent, window DateWindow) []YearTopTrack {
	byYear := make(map[int][]history.PlayEvent)
	for _, e := range events {
		if e.TrackURI == "" || !window.Contains(e.Timestamp) {
			continue
		}
		y := yearOf(e)
		byYear[y] = append(byYear[y], e)
	}

	years := sortedYears(byYear)
	slices.Reverse(years)

	result := make([]YearTopTrack, 0, len(years))
	for _, y := range years {
		aggs := Aggregate(byYear[y], DateWindow{})
		best := 0
		for i, a := range aggs {
			if a.TotalPlayedMs > aggs[best].TotalPlayedMs {
				best = i
			}
		}
		result = append(result, YearTopTrack{Year: y, Track: aggs[best]})
	}
	return result
}

// TracksByStartReason counts, per track, the plays in the window that started
// with reason.
func TracksByStartReason(events []history.PlayEvent, window DateWindow, reason string, n int) []ReasonTrack {
	index := make(map[string]int)
	var tracks []ReasonTrack
	for _, e := range events {
		if e.ReasonStart != reason || e.TrackURI == "" || !window.Contains(e.Timestamp) {
			continue
		}
		i, ok := index[e.TrackURI]
		if !ok {
			i = len(tracks)
			index[e.TrackURI] = i
			tracks = append(tracks, ReasonTrack{
				TrackURI:   e.TrackURI,
				TrackName:  e.TrackName,
				ArtistName: e.ArtistName,
			})
		}
		tracks[i].Count++
	}
	slices.SortStableFunc(tracks, func(a, b ReasonTrack) int {
		return cmpDesc(int64(a.Count), int64(b.Count))
	})
	return limit(tracks, n)
}

func Summarize(aggs []TrackAggregate) Summary {
	artists := lo.Uniq(lo.FilterMap(aggs, func(a TrackAggregate, _ int) (string, bool) {
		return a.ArtistName, a.ArtistName != ""
	}))
	return Summary{
		TotalPlayedMs: lo.SumBy(aggs, func(a TrackAggregate) int64 { return a.TotalPlayedMs }),
		UniqueTracks:  len(aggs),
		UniqueArtists: len(artists),
		Plays:         lo.SumBy(aggs, func(a TrackAggregate) int { return a.EventCount }),
	}
}

func cmpDesc(a, b int64) int {
	switch {
	case a > b:
		return -1
	case a < b:
		return 1
	}
	return 0
}

// NewArtistThreshold is the play count separating a passing listen from a
// real discovery.
const NewArtistThreshold = 5

type NewArtist struct {
	Artist        string `json:"artist" yaml:"artist"`
	Plays         int    `json:"plays" yaml:"plays"`
	PriorPlays    int    `json:"prior_plays" yaml:"prior_plays"`
	FirstInWindow string `json:"first_in_window" yaml:"first_in_window"`
}

type NewAlbum struct {
	Artist        string `json:"artist" yaml:"artist"`
	Album         string `json:"album" yaml:"album"`
	Plays         int    `json:"plays" yaml:"plays"`
	PriorPlays    int    `json:"prior_plays" yaml:"prior_plays"`
	FirstInWindow string `json:"first_in_window" yaml:"first_in_window"`
}

type discovery[K comparable] struct {
	key        K
	plays      int
	priorPlays int
	first      string
}

// discoveries counts plays per key inside the window and before its start,
// keeping keys played more than NewArtistThreshold times inside but fewer
// than NewArtistThreshold times before. Most played first.
func discoveries[K comparable](events []history.PlayEvent, window DateWindow, key func(history.PlayEvent) (K, bool)) []discovery[K] {
	prior := make(map[K]int)
	index := make(map[K]int)
	var current []discovery[K]
	for _, e := range events {
		k, ok := key(e)
		if !ok {
			continue
		}
		if !window.Start.IsZero() && e.Timestamp.Before(window.Start) {
			prior[k]++
			continue
		}
		if !window.Contains(e.Timestamp) {
			continue
		}
		i, seen := index[k]
		if !seen {
			i = len(current)
			index[k] = i
			current = append(current, discovery[K]{key: k, first: e.Timestamp.UTC().Format(dayLayout)})
		}
		current[i].plays++
	}

	found := lo.FilterMap(current, func(d discovery[K], _ int) (discovery[K], bool) {
		d.priorPlays = prior[d.key]
		return d, d.priorPlays < NewArtistThreshold && d.plays > NewArtistThreshold
	})
	slices.SortStableFunc(found, func(a, b discovery[K]) int {
		return cmpDesc(int64(a.plays), int64(b.plays))
	})
	return found
}

// NewArtists finds artists played more than NewArtistThreshold times inside
// the window but fewer than NewArtistThreshold times before it.
func NewArtists(events []history.PlayEvent, window DateWindow, n int) []NewArtist {
	found := discoveries(events, window, func(e history.PlayEvent) (string, bool) {
		return e.ArtistName, e.ArtistName != ""
	})
	return limit(lo.Map(found, func(d discovery[string], _ int) NewArtist {
		return NewArtist{Artist: d.key, Plays: d.plays, PriorPlays: d.priorPlays, FirstInWindow: d.first}
	}), n)
}

// NewAlbums is NewArtists for albums, keyed by artist and album name.
func NewAlbums(events []history.PlayEvent, window DateWindow, n int) []NewAlbum {
	type albumKey struct{ artist, album string }
	found := discoveries(events, window, func(e history.PlayEvent) (albumKey, bool) {
		return albumKey{e.ArtistName, e.AlbumName}, e.AlbumName != ""
	})
	return limit(lo.Map(found, func(d discovery[albumKey], _ int) NewAlbum {
		return NewAlbum{
			Artist:        d.key.artist,
			Album:         d.key.album,
			Plays:         d.plays,
			PriorPlays:    d.priorPlays,
			FirstInWindow: d.first,
		}
	}), n)
}

package analysis

import (
	"sort"
	"time"

	"github.com/ademuri/listening-insights/internal/history"
)

// ForgottenConfig selects artists and albums that were once played heavily but
// have gone quiet.
type ForgottenConfig struct {
	LastPlayBefore time.Time
	MinArtistPlays int
	MinAlbumPlays  int
	ResultsPerBand int
	SortBy         string // "dormancy" or "plays"
}

// A zero LastPlayBefore accepts any last play.
func (c ForgottenConfig) dormant(lastPlay time.Time) bool {
	return c.LastPlayBefore.IsZero() || lastPlay.Before(c.LastPlayBefore)
}

type ForgottenArtist struct {
	Artist        string    `json:"artist" yaml:"artist"`
	Plays         int       `json:"plays" yaml:"plays"`
	TotalPlayedMs int64     `json:"total_played_ms" yaml:"total_played_ms"`
	FirstPlay     time.Time `json:"first_play" yaml:"first_play"`
	LastPlay      time.Time `json:"last_play" yaml:"last_play"`
	DaysSinceLast int       `json:"days_since_last" yaml:"days_since_last"`
	Band          string    `json:"band" yaml:"band"`
}

type ForgottenAlbum struct {
	Artist        string    `json:"artist" yaml:"artist"`
	Album         string    `json:"album" yaml:"album"`
	Plays         int       `json:"plays" yaml:"plays"`
	TotalPlayedMs int64     `json:"total_played_ms" yaml:"total_played_ms"`
	FirstPlay     time.Time `json:"first_play" yaml:"first_play"`
	LastPlay      time.Time `json:"last_play" yaml:"last_play"`
	DaysSinceLast int       `json:"days_since_last" yaml:"days_since_last"`
	Band          string    `json:"band" yaml:"band"`
}

const (
	BandObsession = "Obsession"
	BandStrong    = "Strong"
	BandModerate  = "Moderate"

	// Artist thresholds, in non-skipped plays.
	ThresholdArtistObsession = 120
	ThresholdArtistStrong    = 50
	ThresholdArtistModerate  = 15

	// Album thresholds, in non-skipped plays.
	ThresholdAlbumObsession = 60
	ThresholdAlbumStrong    = 30
	ThresholdAlbumModerate  = 10
)

// Bands lists the forgotten bands from strongest to weakest.
var Bands = []string{BandObsession, BandStrong, BandModerate}

// GetThreshold returns the minimum plays for a given band and type (artist/album).
func GetThreshold(band string, isArtist bool) int {
	if isArtist {
		switch band {
		case BandObsession:
			return ThresholdArtistObsession
		case BandStrong:
			return ThresholdArtistStrong
		case BandModerate:
			return ThresholdArtistModerate
		}
	} else {
		switch band {
		case BandObsession:
			return ThresholdAlbumObsession
		case BandStrong:
			return ThresholdAlbumStrong
		case BandModerate:
			return ThresholdAlbumModerate
		}
	}
	return 0
}

func determineBand(plays int, isArtist bool) string {
	for _, band := range Bands {
		if plays >= GetThreshold(band, isArtist) {
			return band
		}
	}
	return ""
}

type playSpan struct {
	plays     int
	playedMs  int64
	firstPlay time.Time
	lastPlay  time.Time
}

func (s *playSpan) add(e history.PlayEvent) {
	if s.plays == 0 || e.Timestamp.Before(s.firstPlay) {
		s.firstPlay = e.Timestamp
	}
	if s.plays == 0 || e.Timestamp.After(s.lastPlay) {
		s.lastPlay = e.Timestamp
	}
	s.plays++
	s.playedMs += e.PlayedMs
}

// forgottenSpans tallies non-skipped plays per key, in first-seen key order.
func forgottenSpans[K comparable](events []history.PlayEvent, key func(history.PlayEvent) (K, bool)) (map[K]*playSpan, []K) {
	spans := make(map[K]*playSpan)
	var order []K
	for _, e := range events {
		if IsSkip(e) {
			continue
		}
		k, ok := key(e)
		if !ok {
			continue
		}
		s, seen := spans[k]
		if !seen {
			s = &playSpan{}
			spans[k] = s
			order = append(order, k)
		}
		s.add(e)
	}
	return spans, order
}

func daysSince(now, t time.Time) int {
	return int(now.Sub(t).Hours() / 24)
}

func GetForgottenArtists(events []history.PlayEvent, cfg ForgottenConfig, now time.Time) map[string][]ForgottenArtist {
	spans, order := forgottenSpans(events, func(e history.PlayEvent) (string, bool) {
		return e.ArtistName, e.ArtistName != ""
	})

	results := make(map[string][]ForgottenArtist)
	for _, artist := range order {
		s := spans[artist]
		if s.plays < cfg.MinArtistPlays || !cfg.dormant(s.lastPlay) {
			continue
		}
		a := ForgottenArtist{
			Artist:        artist,
			Plays:         s.plays,
			TotalPlayedMs: s.playedMs,
			FirstPlay:     s.firstPlay,
			LastPlay:      s.lastPlay,
			DaysSinceLast: daysSince(now, s.lastPlay),
		}

		a.Band = determineBand(a.Plays, true)
		if a.Band == "" {
			continue
		}
		results[a.Band] = append(results[a.Band], a)
	}

	for band := range results {
		sortArtists(results[band], cfg.SortBy)
		if cfg.ResultsPerBand > 0 && len(results[band]) > cfg.ResultsPerBand {
			results[band] = results[band][:cfg.ResultsPerBand]
		}
	}

	return results
}

func GetForgottenAlbums(events []history.PlayEvent, cfg ForgottenConfig, now time.Time) map[string][]ForgottenAlbum {
	type albumKey struct{ artist, album string }
	spans, order := forgottenSpans(events, func(e history.PlayEvent) (albumKey, bool) {
		return albumKey{e.ArtistName, e.AlbumName}, e.AlbumName != ""
	})

	results := make(map[string][]ForgottenAlbum)
	for _, k := range order {
		s := spans[k]
		if s.plays < cfg.MinAlbumPlays || !cfg.dormant(s.lastPlay) {
			continue
		}
		a := ForgottenAlbum{
			Artist:        k.artist,
			Album:         k.album,
			Plays:         s.plays,
			TotalPlayedMs: s.playedMs,
			FirstPlay:     s.firstPlay,
			LastPlay:      s.lastPlay,
			DaysSinceLast: daysSince(now, s.lastPlay),
		}

		a.Band = determineBand(a.Plays, false)
		if a.Band == "" {
			continue
		}
		results[a.Band] = append(results[a.Band], a)
	}

	for band := range results {
		sortAlbums(results[band], cfg.SortBy)
		if cfg.ResultsPerBand > 0 && len(results[band]) > cfg.ResultsPerBand {
			results[band] = results[band][:cfg.ResultsPerBand]
		}
	}

	return results
}

func sortArtists(artists []ForgottenArtist, sortBy string) {
	sort.SliceStable(artists, func(i, j int) bool {
		if sortBy == "plays" {
			return artists[i].Plays > artists[j].Plays
		}
		// Longest dormancy first.
		return artists[i].DaysSinceLast > artists[j].DaysSinceLast
	})
}

func sortAlbums(albums []ForgottenAlbum, sortBy string) {
	sort.SliceStable(albums, func(i, j int) bool {
		if sortBy == "plays" {
			return albums[i].Plays > albums[j].Plays
		}
		return albums[i].DaysSinceLast > albums[j].DaysSinceLast
	})
}

package analysis

import (
	"github.com/ademuri/listening-insights/internal/history"
)

// TrackAggregate sums every play of one track within a window.
//
// TrackName, ArtistName and AlbumName come from the first contributing event
// in input order. Exports sometimes carry different metadata for the same URI
// (renames, re-releases); later values are deliberately not merged in.
type TrackAggregate struct {
	TrackURI      string `json:"track_uri" yaml:"track_uri"`
	TrackName     string `json:"track_name" yaml:"track_name"`
	ArtistName    string `json:"artist_name" yaml:"artist_name"`
	AlbumName     string `json:"album_name,omitempty" yaml:"album_name,omitempty"`
	TotalPlayedMs int64  `json:"total_played_ms" yaml:"total_played_ms"`
	EventCount    int    `json:"event_count" yaml:"event_count"`
}

// Aggregate groups events by TrackURI in a single pass. Events without a URI
// or outside the window are ignored. Aggregates are returned in the order
// their track first appears in events.
func Aggregate(events []history.PlayEvent, window DateWindow) []TrackAggregate {
	index := make(map[string]int)
	var result []TrackAggregate

	for _, e := range events {
		if e.TrackURI == "" || !window.Contains(e.Timestamp) {
			continue
		}

		i, ok := index[e.TrackURI]
		if !ok {
			i = len(result)
			index[e.TrackURI] = i
			result = append(result, TrackAggregate{
				TrackURI:   e.TrackURI,
				TrackName:  e.TrackName,
				ArtistName: e.ArtistName,
				AlbumName:  e.AlbumName,
			})
		}
		result[i].TotalPlayedMs += e.PlayedMs
		result[i].EventCount++
	}

	return result
}

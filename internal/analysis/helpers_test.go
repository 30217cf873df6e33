package analysis

import (
	"time"

	"github.com/ademuri/listening-insights/internal/history"
)

func at(s string) time.Time {
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		panic(err)
	}
	return t
}

func day(s string) time.Time {
	return at(s + "T12:00:00Z")
}

func play(uri string, ts string, ms int64) history.PlayEvent {
	return history.PlayEvent{
		Timestamp:  day(ts),
		PlayedMs:   ms,
		TrackURI:   uri,
		TrackName:  "Track " + uri,
		ArtistName: "Artist " + uri,
	}
}

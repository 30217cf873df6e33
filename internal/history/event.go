package history

import (
	"time"

	"github.com/samber/lo"
)

// PlayEvent is one play of a track, as recorded in a streaming history export.
//
// String fields use the empty string for "not present". Events without a
// TrackURI are kept in the log but never aggregated per track.
type PlayEvent struct {
	Timestamp   time.Time `json:"ts" yaml:"ts"`
	PlayedMs    int64     `json:"ms_played" yaml:"ms_played"`
	TrackURI    string    `json:"track_uri,omitempty" yaml:"track_uri,omitempty"`
	TrackName   string    `json:"track_name,omitempty" yaml:"track_name,omitempty"`
	ArtistName  string    `json:"artist_name,omitempty" yaml:"artist_name,omitempty"`
	AlbumName   string    `json:"album_name,omitempty" yaml:"album_name,omitempty"`
	Platform    string    `json:"platform,omitempty" yaml:"platform,omitempty"`
	ReasonStart string    `json:"reason_start,omitempty" yaml:"reason_start,omitempty"`
	ReasonEnd   string    `json:"reason_end,omitempty" yaml:"reason_end,omitempty"`
	Shuffle     bool      `json:"shuffle" yaml:"shuffle"`
}

// Log is the event set of one load. It is never modified after construction;
// a new import produces a new Log.
type Log struct {
	events []PlayEvent
}

// NewLog copies events into a new Log, keeping their order.
func NewLog(events []PlayEvent) *Log {
	owned := make([]PlayEvent, len(events))
	copy(owned, events)
	return &Log{events: owned}
}

// Events returns the events in load order. Callers must not modify the
// returned slice.
func (l *Log) Events() []PlayEvent {
	if l == nil {
		return nil
	}
	return l.events
}

func (l *Log) Len() int {
	if l == nil {
		return 0
	}
	return len(l.events)
}

// ForTrack returns a fresh slice with every event for trackURI, in load
// order and regardless of any date window.
func (l *Log) ForTrack(trackURI string) []PlayEvent {
	if l == nil || trackURI == "" {
		return nil
	}
	return lo.Filter(l.events, func(e PlayEvent, _ int) bool {
		return e.TrackURI == trackURI
	})
}

// Span returns the earliest and latest timestamps in the log. Both are zero
// for an empty log.
func (l *Log) Span() (first, last time.Time) {
	for i, e := range l.Events() {
		if i == 0 || e.Timestamp.Before(first) {
			first = e.Timestamp
		}
		if i == 0 || e.Timestamp.After(last) {
			last = e.Timestamp
		}
	}
	return first, last
}

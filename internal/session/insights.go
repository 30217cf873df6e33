package session

import (
	"github.com/ademuri/listening-insights/internal/analysis"
)

// Insights is the per-track detail view. It always covers the track's full
// history, whatever the current window.
type Insights struct {
	Track    analysis.TrackAggregate `json:"track" yaml:"track"`
	Skips    analysis.SkipProfile    `json:"skips" yaml:"skips"`
	Context  analysis.ContextProfile `json:"context" yaml:"context"`
	Lifetime analysis.LifetimeCurve  `json:"lifetime" yaml:"lifetime"`
}

// Insights returns the profiles for trackURI, or false if the track has no
// plays.
func (s *Session) Insights(trackURI string) (Insights, bool) {
	events := s.log.ForTrack(trackURI)
	if len(events) == 0 {
		return Insights{}, false
	}

	aggs := analysis.Aggregate(events, analysis.DateWindow{})
	return Insights{
		Track:    aggs[0],
		Skips:    analysis.ComputeSkipProfile(events),
		Context:  analysis.ComputeContextProfile(events),
		Lifetime: analysis.ComputeLifetimeCurve(events),
	}, true
}

package analysis

import (
	"github.com/ademuri/listening-insights/internal/history"
)

// SkipThresholdMs is the play duration below which a play counts as skipped.
const SkipThresholdMs = 10000

// SkipProfile describes how often a set of plays was skipped.
type SkipProfile struct {
	TotalPlays      int            `json:"total_plays" yaml:"total_plays"`
	SkipCount       int            `json:"skip_count" yaml:"skip_count"`
	SkipRate        float64        `json:"skip_rate" yaml:"skip_rate"`
	AvgSkippedMs    float64        `json:"avg_skipped_ms" yaml:"avg_skipped_ms"`
	AvgNotSkippedMs float64        `json:"avg_not_skipped_ms" yaml:"avg_not_skipped_ms"`
	EndReasons      []ValueCount   `json:"end_reasons" yaml:"end_reasons"`
	SkipRateByYear  []YearSkipRate `json:"skip_rate_by_year" yaml:"skip_rate_by_year"`
}

type YearSkipRate struct {
	Year     int     `json:"year" yaml:"year"`
	SkipRate float64 `json:"skip_rate" yaml:"skip_rate"`
	Total    int     `json:"total" yaml:"total"`
}

// IsSkip reports whether a play was short enough to count as a skip.
func IsSkip(e history.PlayEvent) bool {
	return e.PlayedMs < SkipThresholdMs
}

// ComputeSkipProfile classifies every given event; it does not look at track
// identity, so callers pass one track's events to get that track's profile.
func ComputeSkipProfile(events []history.PlayEvent) SkipProfile {
	profile := SkipProfile{TotalPlays: len(events)}

	var skippedMs, notSkippedMs int64
	type yearTally struct{ skips, total int }
	years := make(map[int]*yearTally)

	for _, e := range events {
		skipped := IsSkip(e)
		if skipped {
			profile.SkipCount++
			skippedMs += e.PlayedMs
		} else {
			notSkippedMs += e.PlayedMs
		}

		y := yearOf(e)
		tally, ok := years[y]
		if !ok {
			tally = &yearTally{}
			years[y] = tally
		}
		tally.total++
		if skipped {
			tally.skips++
		}
	}

	profile.SkipRate = ratio(profile.SkipCount, profile.TotalPlays)
	if profile.SkipCount > 0 {
		profile.AvgSkippedMs = float64(skippedMs) / float64(profile.SkipCount)
	}
	if notSkipped := profile.TotalPlays - profile.SkipCount; notSkipped > 0 {
		profile.AvgNotSkippedMs = float64(notSkippedMs) / float64(notSkipped)
	}

	profile.EndReasons = countBy(events, func(e history.PlayEvent) string { return e.ReasonEnd })

	for _, y := range sortedYears(years) {
		tally := years[y]
		profile.SkipRateByYear = append(profile.SkipRateByYear, YearSkipRate{
			Year:     y,
			SkipRate: ratio(tally.skips, tally.total),
			Total:    tally.total,
		})
	}

	return profile
}

package analysis

import (
	"github.com/ademuri/listening-insights/internal/history"
)

// ManualStartReasons are the start reasons that mean the listener picked the
// track themselves rather than it arriving by autoplay, queue or shuffle.
var ManualStartReasons = map[string]bool{
	"clickrow": true,
	"playbtn":  true,
}

// ContextProfile describes how a set of plays came about.
type ContextProfile struct {
	TotalPlays         int              `json:"total_plays" yaml:"total_plays"`
	ShuffleRatio       float64          `json:"shuffle_ratio" yaml:"shuffle_ratio"`
	ManualRatio        float64          `json:"manual_ratio" yaml:"manual_ratio"`
	StartReasons       []ValueCount     `json:"start_reasons" yaml:"start_reasons"`
	Platforms          []ValueCount     `json:"platforms" yaml:"platforms"`
	ManualVsAutoByYear []YearManualAuto `json:"manual_vs_auto_by_year" yaml:"manual_vs_auto_by_year"`
}

// YearManualAuto splits one year's plays into manual and automatic starts.
// Manual + Auto is that year's play count.
type YearManualAuto struct {
	Year   int `json:"year" yaml:"year"`
	Manual int `json:"manual" yaml:"manual"`
	Auto   int `json:"auto" yaml:"auto"`
}

func IsManualStart(e history.PlayEvent) bool {
	return ManualStartReasons[e.ReasonStart]
}

func ComputeContextProfile(events []history.PlayEvent) ContextProfile {
	profile := ContextProfile{TotalPlays: len(events)}

	var shuffled, manual int
	years := make(map[int]*YearManualAuto)
	for _, e := range events {
		if e.Shuffle {
			shuffled++
		}

		y := yearOf(e)
		split, ok := years[y]
		if !ok {
			split = &YearManualAuto{Year: y}
			years[y] = split
		}
		if IsManualStart(e) {
			manual++
			split.Manual++
		} else {
			split.Auto++
		}
	}

	profile.ShuffleRatio = ratio(shuffled, profile.TotalPlays)
	profile.ManualRatio = ratio(manual, profile.TotalPlays)
	profile.StartReasons = countBy(events, func(e history.PlayEvent) string { return e.ReasonStart })
	profile.Platforms = countBy(events, func(e history.PlayEvent) string { return e.Platform })

	for _, y := range sortedYears(years) {
		profile.ManualVsAutoByYear = append(profile.ManualVsAutoByYear, *years[y])
	}

	return profile
}

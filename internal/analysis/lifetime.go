package analysis

import (
	"math"
	"slices"
	"sort"

	"github.com/ademuri/listening-insights/internal/history"
)

const (
	msPerHour   = 3_600_000
	monthLayout = "2006-01"
	dayLayout   = "2006-01-02"
)

// CurvePoint is the cumulative listening time up to and including Month.
type CurvePoint struct {
	Month           string  `json:"month" yaml:"month"`
	CumulativeHours float64 `json:"cumulative_hours" yaml:"cumulative_hours"`
}

// Milestones hold the month in which cumulative listening first reached 25%,
// 50% and 75% of the total.
type Milestones struct {
	P25 *string `json:"p25" yaml:"p25"`
	P50 *string `json:"p50" yaml:"p50"`
	P75 *string `json:"p75" yaml:"p75"`
}

// LifetimeCurve traces a track's cumulative listening over calendar months.
// Nil fields mean there is no history.
type LifetimeCurve struct {
	Curve      []CurvePoint `json:"curve" yaml:"curve"`
	Milestones Milestones   `json:"milestones" yaml:"milestones"`
	FirstPlay  *string      `json:"first_play" yaml:"first_play"`
	LastPlay   *string      `json:"last_play" yaml:"last_play"`
	PeakYear   *int         `json:"peak_year" yaml:"peak_year"`
	TotalHours float64      `json:"total_hours" yaml:"total_hours"`
}

// ComputeLifetimeCurve bins events by UTC month and accumulates them in
// chronological order. The full curve is returned; see SubsampleCurve for
// rendering long histories.
func ComputeLifetimeCurve(events []history.PlayEvent) LifetimeCurve {
	if len(events) == 0 {
		return LifetimeCurve{Curve: []CurvePoint{}}
	}

	sorted := slices.Clone(events)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Timestamp.Before(sorted[j].Timestamp)
	})

	monthMs := make(map[string]int64)
	var months []string
	yearMs := make(map[int]int64)
	var peakYear int
	var peakMs int64
	for _, e := range sorted {
		month := e.Timestamp.UTC().Format(monthLayout)
		if _, ok := monthMs[month]; !ok {
			months = append(months, month)
		}
		monthMs[month] += e.PlayedMs

		yearMs[yearOf(e)] += e.PlayedMs
	}
	// Ascending years with a strict comparison keep the earlier year on ties.
	for _, y := range sortedYears(yearMs) {
		if yearMs[y] > peakMs {
			peakMs = yearMs[y]
			peakYear = y
		}
	}
	slices.Sort(months)

	curve := make([]CurvePoint, 0, len(months))
	var cumulativeMs int64
	for _, m := range months {
		cumulativeMs += monthMs[m]
		curve = append(curve, CurvePoint{
			Month:           m,
			CumulativeHours: float64(cumulativeMs) / msPerHour,
		})
	}

	total := float64(cumulativeMs) / msPerHour
	first := sorted[0].Timestamp.UTC().Format(dayLayout)
	last := sorted[len(sorted)-1].Timestamp.UTC().Format(dayLayout)

	result := LifetimeCurve{
		Curve: curve,
		Milestones: Milestones{
			P25: milestone(curve, total, 0.25),
			P50: milestone(curve, total, 0.50),
			P75: milestone(curve, total, 0.75),
		},
		FirstPlay:  &first,
		LastPlay:   &last,
		TotalHours: total,
	}
	if peakMs > 0 {
		result.PeakYear = &peakYear
	}
	return result
}

func milestone(curve []CurvePoint, total, fraction float64) *string {
	target := total * fraction
	for _, p := range curve {
		if p.CumulativeHours >= target {
			month := p.Month
			return &month
		}
	}
	return nil
}

// SubsampleCurve thins a curve to roughly max points for display, keeping
// every step-th point and always the last one. Curves already within max are
// returned unchanged.
func SubsampleCurve(curve []CurvePoint, max int) []CurvePoint {
	if max <= 0 || len(curve) <= max {
		return curve
	}
	step := int(math.Ceil(float64(len(curve)) / float64(max)))
	var out []CurvePoint
	for i, p := range curve {
		if i%step == 0 || i == len(curve)-1 {
			out = append(out, p)
		}
	}
	return out
}

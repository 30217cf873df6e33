package cmd

import (
	"fmt"
	"regexp"
	"strconv"
	"time"

	"github.com/ademuri/listening-insights/internal/analysis"
)

// ParsedDate is a date argument together with the precision it was given in.
type ParsedDate struct {
	Date time.Time

	Year  bool
	Month bool
	Day   bool

	// Relative dates like "30d" are an instant before now.
	Relative bool
}

var relativeDate = regexp.MustCompile(`^(\d+)([dwmy])$`)

// parseDateRangeFromArgs turns one or two date arguments into an inclusive
// window. A single argument covers its whole period; with two, the end
// argument's whole period is included.
func parseDateRangeFromArgs(args []string) (analysis.DateWindow, error) {
	var start, end time.Time
	var err error
	switch len(args) {
	case 1:
		start, end, err = getImplicitDateRange(args[0])

	case 2:
		start, end, err = getExplicitDateRange(args[0], args[1])

	default:
		err = fmt.Errorf("Expected one or two date arguments")
	}
	if err != nil {
		return analysis.DateWindow{}, err
	}
	if !end.IsZero() && !end.After(start) {
		return analysis.DateWindow{}, fmt.Errorf("End date %s is not after start date %s", end.Format("2006-01-02"), start.Format("2006-01-02"))
	}
	return windowFromRange(start, end), nil
}

// windowFromRange converts a half-open [start, end) range into an inclusive
// window. A zero end stays unbounded.
func windowFromRange(start, end time.Time) analysis.DateWindow {
	w := analysis.DateWindow{Start: start}
	if !end.IsZero() {
		w.End = end.Add(-time.Nanosecond)
	}
	return w
}

// getImplicitDateRange returns the half-open range covered by a single date
// argument. Relative dates run until now, which is left open.
func getImplicitDateRange(ds string) (start time.Time, end time.Time, err error) {
	date, err := parseSingleDatestring(ds)
	if err != nil {
		return
	}

	start = date.Date
	end, err = periodEnd(date, ds)
	return
}

// getExplicitDateRange returns [start, end) where end is the end of the
// period named by endString.
func getExplicitDateRange(startString, endString string) (start time.Time, end time.Time, err error) {
	startParsed, err := parseSingleDatestring(startString)
	if err != nil {
		return
	}
	start = startParsed.Date

	endParsed, err := parseSingleDatestring(endString)
	if err != nil {
		return
	}
	if endParsed.Relative {
		end = endParsed.Date
		return
	}
	end, err = periodEnd(endParsed, endString)

	return
}

func periodEnd(date ParsedDate, ds string) (end time.Time, err error) {
	switch {
	case date.Relative:
		// Open ended.

	case date.Year:
		end = date.Date.AddDate(1, 0, 0)

	case date.Month:
		end = date.Date.AddDate(0, 1, 0)

	case date.Day:
		end = date.Date.AddDate(0, 0, 1)

	default:
		err = fmt.Errorf("Invalid format: %q", ds)
	}
	return
}

func parseSingleDatestring(ds string) (date ParsedDate, err error) {
	if m := relativeDate.FindStringSubmatch(ds); m != nil {
		amount, convErr := strconv.Atoi(m[1])
		if convErr != nil {
			err = fmt.Errorf("Parsing relative datestring: %w", convErr)
			return
		}
		now := time.Now()
		switch m[2] {
		case "d":
			date.Date = now.AddDate(0, 0, -amount)
		case "w":
			date.Date = now.AddDate(0, 0, -amount*7)
		case "m":
			date.Date = now.AddDate(0, -amount, 0)
		case "y":
			date.Date = now.AddDate(-amount, 0, 0)
		}
		date.Relative = true
		return
	}

	matched, err := regexp.Match(`^\d{4}$`, []byte(ds))
	if err != nil {
		err = fmt.Errorf("Parsing datestring as year: %w", err)
		return
	}
	if matched {
		date.Date, err = time.Parse("2006", ds)
		if err != nil {
			err = fmt.Errorf("Parsing datestring as year: %w", err)
			return
		}
		date.Year = true
		return
	}

	matched, err = regexp.Match(`^\d{4}-\d{2}$`, []byte(ds))
	if err != nil {
		err = fmt.Errorf("Parsing datestring as month: %w", err)
		return
	}
	if matched {
		date.Date, err = time.Parse("2006-01", ds)
		if err != nil {
			err = fmt.Errorf("Parsing datestring as month: %w", err)
			return
		}
		date.Month = true
		return
	}

	matched, err = regexp.Match(`^\d{4}-\d{2}-\d{2}$`, []byte(ds))
	if err != nil {
		err = fmt.Errorf("Parsing datestring as day: %w", err)
		return
	}
	if matched {
		date.Date, err = time.Parse("2006-01-02", ds)
		if err != nil {
			err = fmt.Errorf("Parsing datestring as day: %w", err)
			return
		}
		date.Day = true
		return
	}

	err = fmt.Errorf("Invalid format: %q", ds)
	return
}

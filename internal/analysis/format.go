package analysis

import "fmt"

const (
	msPerMinute = 60_000
	msPerDay    = 24 * msPerHour
)

// FormatHoursMinutes renders a duration in milliseconds as "3h 05m".
func FormatHoursMinutes(ms int64) string {
	if ms < 0 {
		ms = 0
	}
	hours := ms / msPerHour
	minutes := (ms % msPerHour) / msPerMinute
	return fmt.Sprintf("%dh %02dm", hours, minutes)
}

// FormatDaysHoursMinutes renders a duration in milliseconds as "01d 02h 03m".
func FormatDaysHoursMinutes(ms int64) string {
	if ms < 0 {
		ms = 0
	}
	days := ms / msPerDay
	hours := (ms % msPerDay) / msPerHour
	minutes := (ms % msPerHour) / msPerMinute
	return fmt.Sprintf("%02dd %02dh %02dm", days, hours, minutes)
}

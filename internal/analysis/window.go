package analysis

import (
	"fmt"
	"time"
)

// DateWindow is an inclusive time range. A zero Start or End leaves that side
// unbounded, so the zero DateWindow contains everything.
type DateWindow struct {
	Start time.Time `json:"start,omitempty" yaml:"start,omitempty"`
	End   time.Time `json:"end,omitempty" yaml:"end,omitempty"`
}

// Contains reports whether t falls inside the window, bounds included.
func (w DateWindow) Contains(t time.Time) bool {
	if !w.Start.IsZero() && t.Before(w.Start) {
		return false
	}
	if !w.End.IsZero() && t.After(w.End) {
		return false
	}
	return true
}

func (w DateWindow) IsUnbounded() bool {
	return w.Start.IsZero() && w.End.IsZero()
}

// Equal compares bounds as instants.
func (w DateWindow) Equal(o DateWindow) bool {
	return w.Start.Equal(o.Start) && w.End.Equal(o.End)
}

func (w DateWindow) String() string {
	const dateFormat = "2006-01-02"
	start, end := "beginning", "now"
	if !w.Start.IsZero() {
		start = w.Start.Format(dateFormat)
	}
	if !w.End.IsZero() {
		end = w.End.Format(dateFormat)
	}
	return fmt.Sprintf("%s to %s", start, end)
}

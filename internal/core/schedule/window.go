package schedule

import "fmt"

// DefaultSearchHorizon is how many candidate start days FindFirstAvailable probes.
const DefaultSearchHorizon = 365

// Window is a closed range of calendar days [Start, End].
type Window struct {
	Start Day
	End   Day
}

// NewWindow builds a window from its bounds.
func NewWindow(start, end Day) Window {
	return Window{Start: start, End: end}
}

// WindowFrom returns the window starting at start and lasting durationDays
// (End = Start + durationDays).
func WindowFrom(start Day, durationDays int) Window {
	return Window{Start: start, End: start.AddDays(durationDays)}
}

// Validate checks both bounds are set and Start <= End.
func (w Window) Validate() error {
	if w.Start.IsZero() || w.End.IsZero() {
		return fmt.Errorf("start and end dates are required")
	}
	if w.End.Before(w.Start) {
		return fmt.Errorf("start date %s is after end date %s", w.Start, w.End)
	}
	return nil
}

// Duration is End - Start in days. A single-day window has duration 0.
func (w Window) Duration() int {
	return w.Start.DaysUntil(w.End)
}

// Overlaps uses closed intervals on both ends: a window ending on the day
// another starts is a conflict.
func (w Window) Overlaps(other Window) bool {
	return !w.Start.After(other.End) && !w.End.Before(other.Start)
}

// Shift moves the window so it starts on start, keeping its duration.
func (w Window) Shift(start Day) Window {
	return WindowFrom(start, w.Duration())
}

func (w Window) String() string {
	return fmt.Sprintf("%s - %s", w.Start, w.End)
}

// ProbeFunc reports whether a candidate window is free.
type ProbeFunc func(Window) (bool, error)

// FindFirstAvailable scans start days from, from+1, ... for horizon candidates
// and returns the first whose window of durationDays is free.
// When nothing is free it returns from+horizon with found=false; that date is
// not guaranteed to be conflict free.
func FindFirstAvailable(from Day, durationDays, horizon int, probe ProbeFunc) (day Day, found bool, err error) {
	candidate := from
	for i := 0; i < horizon; i++ {
		free, err := probe(WindowFrom(candidate, durationDays))
		if err != nil {
			return Day{}, false, err
		}
		if free {
			return candidate, true, nil
		}
		candidate = candidate.AddDays(1)
	}
	return from.AddDays(horizon), false, nil
}

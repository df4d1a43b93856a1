package ride

import "time"

// Window is a half-open time interval [Start, End).
type Window struct {
	Start time.Time
	End   time.Time
}

// NewWindow builds the booking window for a trip starting at start and lasting
// durationHours. Times are normalized to UTC so the arithmetic is
// deterministic regardless of the deployment locale; rollovers across day,
// month and year boundaries fall out of absolute-time addition.
func NewWindow(start time.Time, durationHours int) Window {
	s := start.UTC()
	return Window{Start: s, End: s.Add(time.Duration(durationHours) * time.Hour)}
}

// Overlaps reports whether w and other share at least one instant. Windows
// that only touch at a boundary (w.End == other.Start) do not overlap, which
// makes back-to-back schedules valid.
func (w Window) Overlaps(other Window) bool {
	return w.Start.Before(other.End) && other.Start.Before(w.End)
}

package pricing

import "time"

// Window is one day-of-week activation window. Start and End are minutes
// from midnight; the window covers [Start, End) — inclusive start, exclusive
// end, so back-to-back windows never overlap.
type Window struct {
	Weekday time.Weekday
	Start   int
	End     int
}

// Valid reports whether the window can ever match. Windows with End <= Start
// would have to cross midnight, which is not supported: they never match.
func (w Window) Valid() bool {
	return w.Start >= 0 && w.End <= 24*60 && w.Start < w.End
}

// Contains reports whether at falls inside the window. The comparison uses
// at's own location; callers decide which timezone the schedule lives in.
func (w Window) Contains(at time.Time) bool {
	if !w.Valid() || at.Weekday() != w.Weekday {
		return false
	}
	minutes := at.Hour()*60 + at.Minute()
	return minutes >= w.Start && minutes < w.End
}

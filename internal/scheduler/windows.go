package scheduler

import (
	"time"

	"github.com/ekyte/intake/internal/calendar"
)

// Window is one phase's scheduled start and due date.
type Window struct {
	Start time.Time
	Due   time.Time
}

// PhaseWindows lays phases back to back so that the last one ends on due.
// durations are the workday lengths of the active phases in flow order.
//
// The flow starts sum(durations) workdays before due; phase i starts after
// the durations of the phases before it and lasts its own duration.
func PhaseWindows(cal *calendar.Calendar, due time.Time, durations []int) []Window {
	total := 0
	for _, d := range durations {
		total += max(0, d)
	}
	flowStart := cal.SubtractWorkdays(cal.NearestWorkday(due), total)

	windows := make([]Window, len(durations))
	elapsed := 0
	for i, d := range durations {
		d = max(0, d)
		windows[i] = Window{
			Start: cal.AddWorkdays(flowStart, elapsed),
			Due:   cal.AddWorkdays(flowStart, elapsed+d),
		}
		elapsed += d
	}
	return windows
}

package scheduler

import (
	"errors"
	"time"

	"github.com/ekyte/intake/internal/calendar"
	"github.com/ekyte/intake/internal/domain"
)

var (
	ErrStartRequired = errors.New("start date is required")
	ErrDueRequired   = errors.New("due date is required")
)

// Input carries the caller-supplied dates and the task type's scheduling
// defaults. Nil dates are unknown.
type Input struct {
	Allocation    domain.AllocationModel
	Start         *time.Time
	Due           *time.Time
	LeadTime      int
	DefaultEffort int
	// Effort is the caller's estimate; only Agile honours it.
	Effort *int
}

// Schedule is the resolved task window.
type Schedule struct {
	Start  time.Time
	Due    time.Time
	Effort int
	// DaysToComplete is the workday length of the window, never negative.
	DaysToComplete int
}

// Compute resolves the start and due dates of a task. Supplied dates are
// rounded forward to a workday before any arithmetic.
//
// Agile keeps whatever the caller supplied and derives the missing side from
// the lead time. Workload is driven by the due date: when one is given the
// start is always derived from it.
func Compute(cal *calendar.Calendar, in Input) (Schedule, error) {
	var start, due *time.Time
	if in.Start != nil {
		d := cal.NearestWorkday(*in.Start)
		start = &d
	}
	if in.Due != nil {
		d := cal.NearestWorkday(*in.Due)
		due = &d
	}

	switch in.Allocation {
	case domain.AllocationWorkload:
		return computeWorkload(cal, in, start, due)
	default:
		return computeAgile(cal, in, start, due)
	}
}

func computeAgile(cal *calendar.Calendar, in Input, start, due *time.Time) (Schedule, error) {
	switch {
	case start != nil && due == nil:
		d := cal.AddWorkdays(*start, in.LeadTime)
		due = &d
	case start == nil && due != nil:
		s := cal.SubtractWorkdays(*due, in.LeadTime)
		start = &s
	}
	if start == nil {
		return Schedule{}, ErrStartRequired
	}
	if due == nil {
		return Schedule{}, ErrDueRequired
	}

	effort := in.DefaultEffort
	if in.Effort != nil {
		effort = *in.Effort
	}
	return Schedule{
		Start:          *start,
		Due:            *due,
		Effort:         effort,
		DaysToComplete: max(0, cal.WorkdaysBetween(*start, *due)),
	}, nil
}

func computeWorkload(cal *calendar.Calendar, in Input, start, due *time.Time) (Schedule, error) {
	s := Schedule{Effort: in.DefaultEffort}
	switch {
	case due != nil:
		s.Due = *due
		s.Start = cal.SubtractWorkdays(*due, in.LeadTime)
		s.DaysToComplete = max(0, in.LeadTime)
	case start != nil:
		s.Start = *start
		s.Due = cal.AddWorkdays(*start, in.LeadTime)
		s.DaysToComplete = max(0, cal.WorkdaysBetween(s.Start, s.Due))
	default:
		return Schedule{}, ErrDueRequired
	}
	return s, nil
}

// DaysToStart is the signed workday offset of start from the project's
// anchor date. The anchor is rounded to a workday first.
func DaysToStart(cal *calendar.Calendar, anchor, start time.Time) int {
	return cal.WorkdaysBetween(cal.NearestWorkday(anchor), start)
}

// AgilePhaseWindow is the phase window of a planned Agile task: a single day
// lead-time workdays before the due date.
func AgilePhaseWindow(cal *calendar.Calendar, due time.Time, leadTime int) (start, end time.Time) {
	d := cal.SubtractWorkdays(cal.NearestWorkday(due), leadTime)
	return d, d
}

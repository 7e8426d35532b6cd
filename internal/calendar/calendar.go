// Package calendar implements workday arithmetic over a company's configured
// working weekdays and holidays. All operations work on calendar dates: the
// time-of-day component of inputs is discarded and results are at midnight in
// the input's location.
package calendar

import (
	"time"
)

const dateLayout = "2006-01-02"

// DefaultWorkdays is used when a company has no working weekday configured.
var DefaultWorkdays = []time.Weekday{
	time.Monday, time.Tuesday, time.Wednesday, time.Thursday, time.Friday,
}

// Calendar answers workday questions for one company. It is immutable once
// built and safe for concurrent use.
type Calendar struct {
	workdays [7]bool
	holidays map[string]struct{}
}

// New builds a Calendar from the working weekdays and holiday dates. An empty
// weekday list falls back to DefaultWorkdays so stepping always terminates.
func New(workdays []time.Weekday, holidays ...time.Time) *Calendar {
	c := &Calendar{holidays: make(map[string]struct{}, len(holidays))}
	for _, wd := range workdays {
		if wd >= time.Sunday && wd <= time.Saturday {
			c.workdays[wd] = true
		}
	}
	if !c.hasWorkday() {
		for _, wd := range DefaultWorkdays {
			c.workdays[wd] = true
		}
	}
	for _, h := range holidays {
		c.holidays[h.Format(dateLayout)] = struct{}{}
	}
	return c
}

func (c *Calendar) hasWorkday() bool {
	for _, ok := range c.workdays {
		if ok {
			return true
		}
	}
	return false
}

// Workdays returns the configured working weekdays in week order.
func (c *Calendar) Workdays() []time.Weekday {
	var out []time.Weekday
	for wd, ok := range c.workdays {
		if ok {
			out = append(out, time.Weekday(wd))
		}
	}
	return out
}

// IsWorkday reports whether d falls on a working weekday that is not a holiday.
func (c *Calendar) IsWorkday(d time.Time) bool {
	if !c.workdays[d.Weekday()] {
		return false
	}
	_, holiday := c.holidays[d.Format(dateLayout)]
	return !holiday
}

// NearestWorkday rounds d forward to the first workday on or after it.
// Applying it twice yields the same date as applying it once.
func (c *Calendar) NearestWorkday(d time.Time) time.Time {
	d = truncate(d)
	for !c.IsWorkday(d) {
		d = d.AddDate(0, 0, 1)
	}
	return d
}

// AddWorkdays steps n workdays forward from d, skipping non-workdays.
// The starting date itself is never counted. n <= 0 returns d unchanged.
func (c *Calendar) AddWorkdays(d time.Time, n int) time.Time {
	return c.step(truncate(d), n, 1)
}

// SubtractWorkdays steps n workdays backward from d, skipping non-workdays.
// For a workday d, SubtractWorkdays(AddWorkdays(d, n), n) == d.
func (c *Calendar) SubtractWorkdays(d time.Time, n int) time.Time {
	return c.step(truncate(d), n, -1)
}

func (c *Calendar) step(d time.Time, n, dir int) time.Time {
	for i := 0; i < n; i++ {
		d = d.AddDate(0, 0, dir)
		for !c.IsWorkday(d) {
			d = d.AddDate(0, 0, dir)
		}
	}
	return d
}

// WorkdaysBetween returns the signed number of workdays from start to end:
// the count of workdays in (start, end] when end is after start, and the
// negated count of workdays in (end, start] otherwise. The inputs are compared
// as calendar dates, so their locations and UTC offsets do not matter.
func (c *Calendar) WorkdaysBetween(start, end time.Time) int {
	start, end = civil(start), civil(end)
	sign := 1
	if end.Before(start) {
		start, end = end, start
		sign = -1
	}
	count := 0
	for d := start.AddDate(0, 0, 1); !d.After(end); d = d.AddDate(0, 0, 1) {
		if c.IsWorkday(d) {
			count++
		}
	}
	return sign * count
}

func truncate(d time.Time) time.Time {
	y, m, day := d.Date()
	return time.Date(y, m, day, 0, 0, 0, 0, d.Location())
}

// civil maps d's calendar date to midnight UTC.
func civil(d time.Time) time.Time {
	y, m, day := d.Date()
	return time.Date(y, m, day, 0, 0, 0, 0, time.UTC)
}

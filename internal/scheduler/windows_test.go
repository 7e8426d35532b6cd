package scheduler

import (
	"testing"
	"time"

	"github.com/ekyte/intake/internal/calendar"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPhaseWindows_BackToBackEndingOnDue(t *testing.T) {
	windows := PhaseWindows(weekdays(), day(time.April, 12), []int{2, 1})
	require.Len(t, windows, 2)
	assert.Equal(t, Window{Start: day(time.April, 9), Due: day(time.April, 11)}, windows[0])
	assert.Equal(t, Window{Start: day(time.April, 11), Due: day(time.April, 12)}, windows[1])
}

func TestPhaseWindows_SpansWeekendAndHoliday(t *testing.T) {
	cal := calendar.New(nil, day(time.April, 10))
	windows := PhaseWindows(cal, day(time.April, 16), []int{3, 1})
	require.Len(t, windows, 2)
	// Four workdays back from Tue 16th, skipping the weekend and Wed 10th.
	assert.Equal(t, day(time.April, 9), windows[0].Start)
	assert.Equal(t, day(time.April, 15), windows[0].Due)
	assert.Equal(t, day(time.April, 16), windows[1].Due)
}

func TestPhaseWindows_ZeroDurationPhasesShareADay(t *testing.T) {
	windows := PhaseWindows(weekdays(), day(time.April, 12), []int{0, 0})
	for _, w := range windows {
		assert.Equal(t, day(time.April, 12), w.Start)
		assert.Equal(t, day(time.April, 12), w.Due)
	}
}

func TestPhaseWindows_Empty(t *testing.T) {
	assert.Empty(t, PhaseWindows(weekdays(), day(time.April, 12), nil))
}

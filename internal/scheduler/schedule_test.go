package scheduler

import (
	"testing"
	"time"

	"github.com/ekyte/intake/internal/calendar"
	"github.com/ekyte/intake/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func day(m time.Month, d int) time.Time {
	return time.Date(2024, m, d, 0, 0, 0, 0, time.UTC)
}

func dayPtr(m time.Month, d int) *time.Time {
	t := day(m, d)
	return &t
}

func weekdays() *calendar.Calendar {
	return calendar.New(nil)
}

func TestCompute(t *testing.T) {
	tests := []struct {
		name      string
		in        Input
		wantStart time.Time
		wantDue   time.Time
		effort    int
		complete  int
		wantErr   error
	}{
		{
			name:      "workload derives start from due",
			in:        Input{Allocation: domain.AllocationWorkload, Due: dayPtr(time.April, 12), LeadTime: 3, DefaultEffort: 120},
			wantStart: day(time.April, 9), wantDue: day(time.April, 12), effort: 120, complete: 3,
		},
		{
			name:      "workload ignores supplied start when due is given",
			in:        Input{Allocation: domain.AllocationWorkload, Start: dayPtr(time.April, 1), Due: dayPtr(time.April, 12), LeadTime: 3, DefaultEffort: 120},
			wantStart: day(time.April, 9), wantDue: day(time.April, 12), effort: 120, complete: 3,
		},
		{
			name:      "workload derives due from start",
			in:        Input{Allocation: domain.AllocationWorkload, Start: dayPtr(time.April, 8), LeadTime: 3, DefaultEffort: 90},
			wantStart: day(time.April, 8), wantDue: day(time.April, 11), effort: 90, complete: 3,
		},
		{
			name:      "workload never takes the caller effort",
			in:        Input{Allocation: domain.AllocationWorkload, Due: dayPtr(time.April, 12), LeadTime: 1, DefaultEffort: 30, Effort: domain.Ptr(500)},
			wantStart: day(time.April, 11), wantDue: day(time.April, 12), effort: 30, complete: 1,
		},
		{
			name:    "workload without dates",
			in:      Input{Allocation: domain.AllocationWorkload, LeadTime: 3},
			wantErr: ErrDueRequired,
		},
		{
			name:      "agile rounds start to monday and adds lead time",
			in:        Input{Allocation: domain.AllocationAgile, Start: dayPtr(time.April, 13), LeadTime: 2, DefaultEffort: 60},
			wantStart: day(time.April, 15), wantDue: day(time.April, 17), effort: 60, complete: 2,
		},
		{
			name:      "agile derives start from due",
			in:        Input{Allocation: domain.AllocationAgile, Due: dayPtr(time.April, 12), LeadTime: 3, DefaultEffort: 60},
			wantStart: day(time.April, 9), wantDue: day(time.April, 12), effort: 60, complete: 3,
		},
		{
			name:      "agile keeps both supplied dates and caller effort",
			in:        Input{Allocation: domain.AllocationAgile, Start: dayPtr(time.April, 8), Due: dayPtr(time.April, 12), LeadTime: 1, DefaultEffort: 60, Effort: domain.Ptr(45)},
			wantStart: day(time.April, 8), wantDue: day(time.April, 12), effort: 45, complete: 4,
		},
		{
			name:      "agile due before start clamps days to complete",
			in:        Input{Allocation: domain.AllocationAgile, Start: dayPtr(time.April, 12), Due: dayPtr(time.April, 8)},
			wantStart: day(time.April, 12), wantDue: day(time.April, 8), complete: 0,
		},
		{
			name:    "agile without dates",
			in:      Input{Allocation: domain.AllocationAgile, LeadTime: 3},
			wantErr: ErrStartRequired,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Compute(weekdays(), tt.in)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantStart, got.Start)
			assert.Equal(t, tt.wantDue, got.Due)
			assert.Equal(t, tt.effort, got.Effort)
			assert.Equal(t, tt.complete, got.DaysToComplete)
		})
	}
}

func TestCompute_HonoursHolidays(t *testing.T) {
	cal := calendar.New(nil, day(time.April, 10))
	got, err := Compute(cal, Input{Allocation: domain.AllocationWorkload, Due: dayPtr(time.April, 12), LeadTime: 2})
	require.NoError(t, err)
	assert.Equal(t, day(time.April, 9), got.Start)
}

func TestDaysToStart(t *testing.T) {
	cal := weekdays()
	assert.Equal(t, 0, DaysToStart(cal, day(time.April, 9), day(time.April, 9)))
	// Saturday anchor rounds to Monday.
	assert.Equal(t, 4, DaysToStart(cal, day(time.April, 6), day(time.April, 12)))
	assert.Equal(t, -4, DaysToStart(cal, day(time.April, 12), day(time.April, 8)))
}

func TestAgilePhaseWindow(t *testing.T) {
	start, end := AgilePhaseWindow(weekdays(), day(time.April, 14), 2)
	// Sunday due rounds to Monday the 15th, then two workdays back.
	assert.Equal(t, day(time.April, 11), start)
	assert.Equal(t, start, end)
}

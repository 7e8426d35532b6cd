package repository

import (
	"context"
	"testing"
	"time"

	"github.com/ekyte/intake/internal/domain"
	"github.com/ekyte/intake/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCompanyRepo_CreateAndGetByID(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := NewSQLiteCompanyRepo(db)
	ctx := context.Background()

	holiday := testutil.Date(2024, time.December, 25)
	c := testutil.NewTestCompany("Acme",
		testutil.WithFinancialManagement(80),
		testutil.WithHolidays(holiday),
		testutil.WithTicketEmail("acme"),
	)
	c.Workdays = []time.Weekday{time.Monday, time.Wednesday}
	require.NoError(t, repo.Create(ctx, c))
	require.NotZero(t, c.ID)

	got, err := repo.GetByID(ctx, c.ID)
	require.NoError(t, err)
	assert.Equal(t, "Acme", got.Name)
	assert.True(t, got.FinancialManagement)
	assert.Equal(t, 80.0, got.DefaultHourlyRate)
	assert.Equal(t, []time.Weekday{time.Monday, time.Wednesday}, got.Workdays)
	require.Len(t, got.Holidays, 1)
	assert.Equal(t, "2024-12-25", got.Holidays[0].Format(dateLayout))
}

func TestCompanyRepo_EmptyWorkdaysRoundTripAsNil(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := NewSQLiteCompanyRepo(db)
	ctx := context.Background()

	c := testutil.NewTestCompany("NoCalendar")
	require.NoError(t, repo.Create(ctx, c))

	got, err := repo.GetByID(ctx, c.ID)
	require.NoError(t, err)
	assert.Empty(t, got.Workdays)
}

func TestCompanyRepo_GetByID_NotFound(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := NewSQLiteCompanyRepo(db)

	_, err := repo.GetByID(context.Background(), 404)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestCompanyRepo_HasPaidPlan(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := NewSQLiteCompanyRepo(db)
	ctx := context.Background()

	c := testutil.NewTestCompany("Plans")
	require.NoError(t, repo.Create(ctx, c))

	paid, err := repo.HasPaidPlan(ctx, c.ID)
	require.NoError(t, err)
	assert.False(t, paid, "no subscription at all")

	require.NoError(t, repo.AddSubscription(ctx, &domain.Subscription{CompanyID: c.ID, PlanID: domain.FreePlanID}))
	paid, err = repo.HasPaidPlan(ctx, c.ID)
	require.NoError(t, err)
	assert.False(t, paid, "free plan only")

	ended := time.Now().UTC()
	require.NoError(t, repo.AddSubscription(ctx, &domain.Subscription{CompanyID: c.ID, PlanID: 7, DeletedAt: &ended}))
	paid, err = repo.HasPaidPlan(ctx, c.ID)
	require.NoError(t, err)
	assert.False(t, paid, "cancelled paid plan")

	require.NoError(t, repo.AddSubscription(ctx, &domain.Subscription{CompanyID: c.ID, PlanID: 7}))
	paid, err = repo.HasPaidPlan(ctx, c.ID)
	require.NoError(t, err)
	assert.True(t, paid)
}

func TestCompanyRepo_TicketAliasInUse(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := NewSQLiteCompanyRepo(db)
	ctx := context.Background()

	mine := testutil.NewTestCompany("Mine", testutil.WithTicketEmail("mine"))
	other := testutil.NewTestCompany("Other", testutil.WithTicketEmail("other"))
	require.NoError(t, repo.Create(ctx, mine))
	require.NoError(t, repo.Create(ctx, other))

	tests := []struct {
		email string
		want  bool
	}{
		{"other@ekyte.com", true},
		{"other+support@ekyte.com", true},
		{"OTHER@ekyte.com", true},
		{"mine@ekyte.com", false},
		{"otherwise@ekyte.com", false},
		{"person@example.com", false},
	}
	for _, tt := range tests {
		t.Run(tt.email, func(t *testing.T) {
			got, err := repo.TicketAliasInUse(ctx, tt.email, mine.ID)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

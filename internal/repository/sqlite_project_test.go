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

func seedWorkspace(t *testing.T, conn *SQLiteWorkspaceRepo, companyID int64) *domain.Workspace {
	t.Helper()
	w := testutil.NewTestWorkspace(companyID, "Main")
	require.NoError(t, conn.Create(context.Background(), w))
	return w
}

func TestProjectRepo_CreateAndGetByID(t *testing.T) {
	db := testutil.NewTestDB(t)
	ctx := context.Background()
	cs := seedCompanies(t, NewSQLiteCompanyRepo(db), "Acme")
	ws := seedWorkspace(t, NewSQLiteWorkspaceRepo(db), cs[0].ID)
	tag := &domain.Tag{CompanyID: cs[0].ID, Name: "q3", Type: domain.TagProject}
	require.NoError(t, NewSQLiteTagRepo(db).Create(ctx, tag))

	repo := NewSQLiteProjectRepo(db)
	p := testutil.NewTestProject(ws.ID, "Launch Campaign 2024", testutil.WithInformedBudget(120))
	p.TagIDs = []int64{tag.ID}
	require.NoError(t, repo.Create(ctx, p))

	got, err := repo.GetByID(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, "launch-campaig", got.Alias)
	assert.Equal(t, domain.BudgetInformedInProject, got.BudgetMethod)
	assert.Equal(t, 120.0, got.HourlyBudget)
	assert.Nil(t, got.AnchorDate)
	assert.Equal(t, []int64{tag.ID}, got.TagIDs)

	_, err = repo.GetByID(ctx, 999)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestProjectRepo_ClaimAndReleaseAnchor(t *testing.T) {
	db := testutil.NewTestDB(t)
	ctx := context.Background()
	cs := seedCompanies(t, NewSQLiteCompanyRepo(db), "Acme")
	ws := seedWorkspace(t, NewSQLiteWorkspaceRepo(db), cs[0].ID)
	repo := NewSQLiteProjectRepo(db)

	p := testutil.NewTestProject(ws.ID, "Anchorless")
	require.NoError(t, repo.Create(ctx, p))

	first := testutil.Date(2024, time.March, 4)
	claimed, err := repo.ClaimAnchor(ctx, p.ID, first)
	require.NoError(t, err)
	assert.True(t, claimed)

	// A second claim must not overwrite the anchor.
	claimed, err = repo.ClaimAnchor(ctx, p.ID, first.AddDate(0, 0, 7))
	require.NoError(t, err)
	assert.False(t, claimed)

	got, err := repo.GetByID(ctx, p.ID)
	require.NoError(t, err)
	require.NotNil(t, got.AnchorDate)
	assert.True(t, first.Equal(*got.AnchorDate))

	// Releasing with a value that is no longer stored is a no-op.
	require.NoError(t, repo.ReleaseAnchor(ctx, p.ID, first.AddDate(0, 0, 1)))
	got, err = repo.GetByID(ctx, p.ID)
	require.NoError(t, err)
	assert.NotNil(t, got.AnchorDate)

	require.NoError(t, repo.ReleaseAnchor(ctx, p.ID, first))
	got, err = repo.GetByID(ctx, p.ID)
	require.NoError(t, err)
	assert.Nil(t, got.AnchorDate)
}

func TestProjectRepo_AnchorKeepsCalendarDateAcrossZones(t *testing.T) {
	db := testutil.NewTestDB(t)
	ctx := context.Background()
	cs := seedCompanies(t, NewSQLiteCompanyRepo(db), "Acme")
	ws := seedWorkspace(t, NewSQLiteWorkspaceRepo(db), cs[0].ID)
	repo := NewSQLiteProjectRepo(db)

	saoPaulo := time.FixedZone("BRT", -3*3600)
	anchor := time.Date(2024, time.May, 6, 0, 0, 0, 0, saoPaulo)
	p := testutil.NewTestProject(ws.ID, "Zoned", testutil.WithAnchor(anchor))
	require.NoError(t, repo.Create(ctx, p))

	got, err := repo.GetByID(ctx, p.ID)
	require.NoError(t, err)
	require.NotNil(t, got.AnchorDate)
	assert.Equal(t, "2024-05-06", got.AnchorDate.Format(dateLayout))
}

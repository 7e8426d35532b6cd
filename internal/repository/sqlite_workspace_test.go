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

func seedCompanies(t *testing.T, repo *SQLiteCompanyRepo, names ...string) []*domain.Company {
	t.Helper()
	var out []*domain.Company
	for _, n := range names {
		c := testutil.NewTestCompany(n)
		require.NoError(t, repo.Create(context.Background(), c))
		out = append(out, c)
	}
	return out
}

func TestWorkspaceRepo_CreateLinksCompaniesAndTags(t *testing.T) {
	db := testutil.NewTestDB(t)
	ctx := context.Background()
	cs := seedCompanies(t, NewSQLiteCompanyRepo(db), "Owner", "Client")
	tags := NewSQLiteTagRepo(db)
	tag := &domain.Tag{CompanyID: cs[0].ID, Name: "social", Type: domain.TagTask}
	require.NoError(t, tags.Create(ctx, tag))

	repo := NewSQLiteWorkspaceRepo(db)
	w := testutil.NewTestWorkspace(cs[0].ID, "Main", testutil.SharedWith(cs[1].ID), testutil.WithWorkspaceTags(tag.ID))
	require.NoError(t, repo.Create(ctx, w))

	got, err := repo.GetByID(ctx, w.ID)
	require.NoError(t, err)
	assert.Equal(t, []int64{tag.ID}, got.TagIDs)
	require.Len(t, got.Companies, 2)
	for _, cw := range got.Companies {
		assert.Equal(t, w.ID, cw.WorkspaceID)
	}
}

func TestWorkspaceRepo_AccessibleBy(t *testing.T) {
	db := testutil.NewTestDB(t)
	ctx := context.Background()
	cs := seedCompanies(t, NewSQLiteCompanyRepo(db), "Owner", "Client", "Stranger")
	repo := NewSQLiteWorkspaceRepo(db)

	shared := testutil.NewTestWorkspace(cs[0].ID, "Shared", testutil.SharedWith(cs[1].ID))
	inactive := testutil.NewTestWorkspace(cs[0].ID, "Off", testutil.Inactive())
	require.NoError(t, repo.Create(ctx, shared))
	require.NoError(t, repo.Create(ctx, inactive))

	ok, err := repo.AccessibleBy(ctx, shared.ID, cs[0].ID)
	require.NoError(t, err)
	assert.True(t, ok, "owner")

	ok, err = repo.AccessibleBy(ctx, shared.ID, cs[1].ID)
	require.NoError(t, err)
	assert.True(t, ok, "shared company")

	ok, err = repo.AccessibleBy(ctx, shared.ID, cs[2].ID)
	require.NoError(t, err)
	assert.False(t, ok, "unrelated company")

	ok, err = repo.AccessibleBy(ctx, inactive.ID, cs[0].ID)
	require.NoError(t, err)
	assert.False(t, ok, "inactive workspace")

	ok, err = repo.ActiveInCompany(ctx, shared.ID, cs[1].ID)
	require.NoError(t, err)
	assert.False(t, ok, "shared is not owned")
}

func TestWorkspaceRepo_FirstForCompany(t *testing.T) {
	db := testutil.NewTestDB(t)
	ctx := context.Background()
	cs := seedCompanies(t, NewSQLiteCompanyRepo(db), "Owner")
	repo := NewSQLiteWorkspaceRepo(db)

	_, err := repo.FirstForCompany(ctx, cs[0].ID, false)
	assert.ErrorIs(t, err, ErrNotFound)

	deleted := time.Now().UTC()
	gone := testutil.NewTestWorkspace(cs[0].ID, "Gone")
	gone.DeletedAt = &deleted
	live := testutil.NewTestWorkspace(cs[0].ID, "Live")
	require.NoError(t, repo.Create(ctx, gone))
	require.NoError(t, repo.Create(ctx, live))

	id, err := repo.FirstForCompany(ctx, cs[0].ID, true)
	require.NoError(t, err)
	assert.Equal(t, live.ID, id)

	id, err = repo.FirstForCompany(ctx, cs[0].ID, false)
	require.NoError(t, err)
	assert.Equal(t, gone.ID, id)
}

func TestWorkspaceRepo_DefaultTemplate(t *testing.T) {
	db := testutil.NewTestDB(t)
	ctx := context.Background()
	cs := seedCompanies(t, NewSQLiteCompanyRepo(db), "Platform")
	repo := NewSQLiteWorkspaceRepo(db)

	_, err := repo.DefaultTemplate(ctx)
	assert.ErrorIs(t, err, ErrNotFound)

	tpl := testutil.NewTestWorkspace(cs[0].ID, "Template", testutil.AsDefaultTemplate())
	tpl.Description = "agency starter"
	require.NoError(t, repo.Create(ctx, tpl))

	got, err := repo.DefaultTemplate(ctx)
	require.NoError(t, err)
	assert.Equal(t, tpl.ID, got.ID)
	assert.Equal(t, "agency starter", got.Description)
}

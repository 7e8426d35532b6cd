package repository

import (
	"context"
	"testing"

	"github.com/ekyte/intake/internal/domain"
	"github.com/ekyte/intake/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUserRepo_GetByEmailIgnoresCase(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := NewSQLiteUserRepo(db)
	ctx := context.Background()

	u := testutil.NewTestUser("Ana@Example.com", testutil.AsPlatformAdmin())
	require.NoError(t, repo.Create(ctx, u))

	got, err := repo.GetByEmail(ctx, " ana@example.COM ")
	require.NoError(t, err)
	assert.Equal(t, u.ID, got.ID)
	assert.True(t, got.PlatformAdmin)

	_, err = repo.GetByEmail(ctx, "nobody@example.com")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestUserRepo_LinkCompanyIsIdempotent(t *testing.T) {
	db := testutil.NewTestDB(t)
	users := NewSQLiteUserRepo(db)
	companies := NewSQLiteCompanyRepo(db)
	ctx := context.Background()

	c := testutil.NewTestCompany("Acme")
	require.NoError(t, companies.Create(ctx, c))
	u := testutil.NewTestUser("bia@example.com")
	require.NoError(t, users.Create(ctx, u))

	_, err := users.GetCompanyLink(ctx, u.ID, c.ID)
	assert.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, users.LinkCompany(ctx, &domain.UserCompany{UserID: u.ID, CompanyID: c.ID, Profile: domain.ProfileAdminOwner, HourlyRate: 95}))
	// A second link keeps the original profile.
	require.NoError(t, users.LinkCompany(ctx, &domain.UserCompany{UserID: u.ID, CompanyID: c.ID, Profile: domain.ProfileGuest}))

	link, err := users.GetCompanyLink(ctx, u.ID, c.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.ProfileAdminOwner, link.Profile)
	assert.Equal(t, 95.0, link.HourlyRate)
	assert.Nil(t, link.WorkspaceID)
}

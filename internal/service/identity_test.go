package service

import (
	"context"
	"testing"

	"github.com/ekyte/intake/internal/domain"
	"github.com/ekyte/intake/internal/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGuestProvisioner(t *testing.T) {
	w := newWorld(t)
	ctx := context.Background()
	users := repository.NewSQLiteUserRepo(w.db)
	p := NewGuestProvisioner(users)

	u, err := p.Provision(ctx, "  New.Person@Client.test ", w.company.ID, &w.workspace.ID)
	require.NoError(t, err)
	assert.Equal(t, "new.person@client.test", u.Email)
	assert.Equal(t, u.Email, u.Name)
	link, err := users.GetCompanyLink(ctx, u.ID, w.company.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.ProfileGuest, link.Profile)
	require.NotNil(t, link.WorkspaceID)
	assert.Equal(t, w.workspace.ID, *link.WorkspaceID)

	again, err := p.Provision(ctx, "new.person@client.test", w.company.ID, nil)
	require.NoError(t, err)
	assert.Equal(t, u.ID, again.ID, "provisioning is idempotent")

	owner, err := p.Provision(ctx, w.owner.Email, w.company.ID, nil)
	require.NoError(t, err)
	assert.Equal(t, w.owner.ID, owner.ID)
	link, err = users.GetCompanyLink(ctx, w.owner.ID, w.company.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.ProfileAdminOwner, link.Profile, "existing membership is kept")
}

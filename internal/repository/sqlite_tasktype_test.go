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

func TestTaskTypeRepo_GetVisibleLoadsDefinition(t *testing.T) {
	db := testutil.NewTestDB(t)
	ctx := context.Background()
	cs := seedCompanies(t, NewSQLiteCompanyRepo(db), "Platform", "Acme")
	tag := &domain.Tag{CompanyID: cs[1].ID, Name: "blog", Type: domain.TagTask}
	require.NoError(t, NewSQLiteTagRepo(db).Create(ctx, tag))

	coPhase := int64(30)
	review := testutil.Phase(20, 2, 2, 30)
	review.CoPhaseID = &coPhase
	disabled := testutil.Phase(30, 3, 1, 15)
	disabled.Active = false

	repo := NewSQLiteTaskTypeRepo(db)
	tt := testutil.NewTestTaskType(cs[1].ID, domain.AllocationWorkload,
		testutil.WithPhases(testutil.Phase(10, 1, 3, 90), review, disabled),
		testutil.WithMedia(domain.MediaInstagram, domain.MediaFacebook),
		testutil.WithTaskTypeTags(tag.ID),
		testutil.WithForm(5, 2),
		testutil.WithLeadTime(4),
	)
	require.NoError(t, repo.Create(ctx, tt))

	got, err := repo.GetVisible(ctx, tt.ID, cs[1].ID, nil)
	require.NoError(t, err)
	assert.Equal(t, domain.AllocationWorkload, got.Allocation)
	assert.Equal(t, 4, got.LeadTime)
	require.Len(t, got.Phases, 3)
	assert.True(t, got.Phases[0].FirstPhase)
	assert.Equal(t, &coPhase, got.Phases[1].CoPhaseID)
	assert.False(t, got.Phases[2].Active)
	assert.Len(t, got.ActivePhases(), 2)
	assert.Equal(t, []int64{domain.MediaFacebook, domain.MediaInstagram}, got.MediaIDs)
	assert.Equal(t, []int64{tag.ID}, got.TagIDs)
	assert.Equal(t, []domain.TaskTypeForm{{FormID: 5, Amount: 2}}, got.Forms)
}

func TestTaskTypeRepo_Visibility(t *testing.T) {
	db := testutil.NewTestDB(t)
	ctx := context.Background()
	cs := seedCompanies(t, NewSQLiteCompanyRepo(db), "Platform", "HQ", "Branch", "Stranger")
	platform, hq, branch, stranger := cs[0], cs[1], cs[2], cs[3]
	require.Equal(t, domain.PlatformCompanyID, platform.ID)
	repo := NewSQLiteTaskTypeRepo(db)

	global := testutil.NewTestTaskType(platform.ID, domain.AllocationAgile)
	hqShared := testutil.NewTestTaskType(hq.ID, domain.AllocationAgile, testutil.WithSharedWorkflow())
	hqPrivate := testutil.NewTestTaskType(hq.ID, domain.AllocationAgile)
	removed := time.Now().UTC()
	deleted := testutil.NewTestTaskType(branch.ID, domain.AllocationAgile)
	deleted.DeletedAt = &removed
	for _, tt := range []*domain.TaskType{global, hqShared, hqPrivate, deleted} {
		require.NoError(t, repo.Create(ctx, tt))
	}

	tests := []struct {
		name    string
		id      int64
		company int64
		hq      *int64
		found   bool
	}{
		{"platform type is visible to everyone", global.ID, stranger.ID, nil, true},
		{"shared headquarters type", hqShared.ID, branch.ID, &hq.ID, true},
		{"private headquarters type", hqPrivate.ID, branch.ID, &hq.ID, false},
		{"other company type", hqShared.ID, stranger.ID, nil, false},
		{"soft-deleted type", deleted.ID, branch.ID, nil, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := repo.GetVisible(ctx, tt.id, tt.company, tt.hq)
			if tt.found {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, ErrNotFound)
			}
		})
	}
}

func TestTeamMemberRepo_FindForPhaseScopesAndTieBreak(t *testing.T) {
	db := testutil.NewTestDB(t)
	ctx := context.Background()
	cs := seedCompanies(t, NewSQLiteCompanyRepo(db), "Acme")
	users := NewSQLiteUserRepo(db)
	a, b, c := testutil.NewTestUser("a@x.com"), testutil.NewTestUser("b@x.com"), testutil.NewTestUser("c@x.com")
	for _, u := range []*domain.User{a, b, c} {
		require.NoError(t, users.Create(ctx, u))
	}
	ws := testutil.NewTestWorkspace(cs[0].ID, "Main")
	require.NoError(t, NewSQLiteWorkspaceRepo(db).Create(ctx, ws))

	repo := NewSQLiteTeamMemberRepo(db)
	require.NoError(t, repo.Create(ctx, &domain.TeamMember{CompanyID: cs[0].ID, PhaseID: 7, UserID: a.ID}))
	require.NoError(t, repo.Create(ctx, &domain.TeamMember{CompanyID: cs[0].ID, PhaseID: 7, WorkspaceID: &ws.ID, UserID: b.ID}))
	require.NoError(t, repo.Create(ctx, &domain.TeamMember{CompanyID: cs[0].ID, PhaseID: 7, WorkspaceID: &ws.ID, UserID: c.ID}))

	m, err := repo.FindForPhase(ctx, cs[0].ID, 7, &ws.ID)
	require.NoError(t, err)
	assert.Equal(t, b.ID, m.UserID, "lowest id wins among workspace members")

	m, err = repo.FindForPhase(ctx, cs[0].ID, 7, nil)
	require.NoError(t, err)
	assert.Equal(t, a.ID, m.UserID, "nil workspace matches company-wide members only")

	_, err = repo.FindForPhase(ctx, cs[0].ID, 8, nil)
	assert.ErrorIs(t, err, ErrNotFound)
}

package service

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/ekyte/intake/internal/contract"
	"github.com/ekyte/intake/internal/domain"
	"github.com/ekyte/intake/internal/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func (w *world) loadProject(t *testing.T, id int64) *domain.Project {
	t.Helper()
	p, err := repository.NewSQLiteProjectRepo(w.db).GetByID(context.Background(), id)
	require.NoError(t, err)
	return p
}

func TestCreateProject_DerivesAliasAndDefaults(t *testing.T) {
	w := newWorld(t)
	created, err := NewProjectService(w.collaborators()).Create(context.Background(), contract.CreateProjectRequest{
		Auth: w.auth(w.editor.Email),
		Name: "Summer   Campaign 2026",
	})
	require.NoError(t, err)
	assert.Equal(t, "project", created.Entity)

	p := w.loadProject(t, created.ID)
	assert.Equal(t, "Summer   Campaign 2026", p.Name)
	assert.Equal(t, "summer-campa", p.Alias)
	assert.Equal(t, w.workspace.ID, p.WorkspaceID)
	assert.Equal(t, domain.BudgetCalculated, p.BudgetMethod)
	assert.Equal(t, w.editor.ID, p.CreatedByID)
	assertDay(t, time.Now().UTC(), p.AnchorDate)
	assert.Equal(t, 1, w.count(t, "project_history"))
}

func TestCreateProject_ExplicitAliasAndStartDate(t *testing.T) {
	w := newWorld(t)
	created, err := NewProjectService(w.collaborators()).Create(context.Background(), contract.CreateProjectRequest{
		Auth:      w.auth(w.editor.Email),
		Name:      "Rebrand",
		Alias:     "Brand Refresh",
		StartDate: "2026-05-04",
	})
	require.NoError(t, err)

	p := w.loadProject(t, created.ID)
	assert.Equal(t, "Brand-Refresh", p.Alias)
	assertDay(t, time.Date(2026, 5, 4, 0, 0, 0, 0, time.UTC), p.AnchorDate)
}

func TestCreateProject_TagsAreFoundOrCreated(t *testing.T) {
	w := newWorld(t)
	ctx := context.Background()
	tags := repository.NewSQLiteTagRepo(w.db)
	evergreen := &domain.Tag{CompanyID: w.company.ID, Name: "Evergreen", Type: domain.TagProject}
	require.NoError(t, tags.Create(ctx, evergreen))
	taskTag := &domain.Tag{CompanyID: w.company.ID, Name: "Launch", Type: domain.TagTask}
	require.NoError(t, tags.Create(ctx, taskTag))

	created, err := NewProjectService(w.collaborators()).Create(ctx, contract.CreateProjectRequest{
		Auth: w.auth(w.editor.Email),
		Name: "Autumn",
		Tags: "Launch | evergreen||launch",
	})
	require.NoError(t, err)

	launch, err := tags.FindByName(ctx, w.company.ID, "launch", domain.TagProject)
	require.NoError(t, err, "a project tag is created even when a task tag shares the name")
	assert.NotEqual(t, taskTag.ID, launch.ID)

	p := w.loadProject(t, created.ID)
	assert.ElementsMatch(t, []int64{evergreen.ID, launch.ID}, p.TagIDs)
	assert.Equal(t, 3, w.count(t, "tags"))
}

func TestCreateProject_ValidationCodes(t *testing.T) {
	w := newWorld(t)
	outsider := w.user(t, "outsider@else.test")

	for _, tc := range []struct {
		name string
		req  contract.CreateProjectRequest
		kind contract.Kind
		id   int
	}{
		{"missing name", contract.CreateProjectRequest{Name: " "}, contract.KindValidation, 1},
		{"alias too long", contract.CreateProjectRequest{Name: "X", Alias: strings.Repeat("a", domain.MaxAliasLen+1)}, contract.KindValidation, 1},
		{"bad start date", contract.CreateProjectRequest{Name: "X", StartDate: "04/05/2026"}, contract.KindValidation, 1},
		{"not a member", contract.CreateProjectRequest{Name: "X", Auth: w.auth(outsider.Email)}, contract.KindValidation, 10},
	} {
		t.Run(tc.name, func(t *testing.T) {
			req := tc.req
			if req.UserEmail == "" {
				req.Auth = w.auth(w.editor.Email)
			}
			_, err := NewProjectService(w.collaborators()).Create(context.Background(), req)
			requireCoded(t, err, tc.kind, tc.id)
		})
	}
	assert.Equal(t, 0, w.count(t, "projects"))
}

func TestCreateProject_RollsBackOnHistoryFailure(t *testing.T) {
	w := newWorld(t)
	c := w.collaborators()
	c.UoW = failingUoW(w.db, 2, assert.AnError)

	_, err := NewProjectService(c).Create(context.Background(), contract.CreateProjectRequest{
		Auth: w.auth(w.editor.Email),
		Name: "Doomed",
	})
	require.ErrorIs(t, err, assert.AnError)
	assert.Equal(t, 0, w.count(t, "projects"))
}

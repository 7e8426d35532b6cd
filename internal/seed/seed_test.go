package seed

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/ekyte/intake/internal/domain"
	"github.com/ekyte/intake/internal/repository"
	"github.com/ekyte/intake/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const agencySeed = `
users:
  - email: Owner@Acme.test
    name: Olivia Owner
  - email: ana@acme.test
  - email: root@platform.test
    platform_admin: true

companies:
  - id: 1
    name: Platform
  - id: 2
    name: Acme
    owner: owner@acme.test
    ticket_email: acme
    default_ticket_analyst: ana@acme.test
    financial_management: true
    default_hourly_rate: 50
    team_profile: marketing_agency
    workdays: [monday, tuesday, wednesday, thursday, friday]
    holidays: ["2026-12-25"]
    plan: 7

tags:
  - {id: 10, company: 2, name: Social, type: task}

workspaces:
  - id: 100
    company: 2
    name: Main
    ticket_analyst: ana@acme.test
    tags: [10]
  - id: 101
    company: 1
    name: Agency template
    default_template: true

memberships:
  - {user: owner@acme.test, company: 2, profile: admin_owner}
  - {user: ana@acme.test, company: 2, profile: editor, workspace: 100, hourly_rate: 120}

phases:
  - {id: 1, name: Briefing}
  - {id: 2, name: Copy}

checklists:
  - {id: 30, company: 2, name: Review, items: [Spelling, Links]}

forms:
  - id: 40
    company: 2
    name: Post brief
    fields:
      - {label: Media, role: media, options: [Instagram, Linkedin]}
      - {label: Audience}

task_types:
  - id: 50
    company: 2
    name: Social post
    allocation: workload
    lead_time: 3
    media: [68]
    tags: [10]
    forms: [{form: 40, amount: 2}]
    phases:
      - {phase: 2, sequential: 2, duration: 2, effort: 50}
      - {phase: 1, sequential: 1, duration: 1, effort: 70, executor: ana@acme.test, checklist: 30}

team_members:
  - {company: 2, phase: 2, workspace: 100, user: ana@acme.test}

channels:
  - {workspace: 100, media: 68, name: "@acme"}

ticket_phases:
  - {id: 1, name: Triage, sequential: 1}
  - {id: 2, name: Legacy, sequential: 2, inactive: true}

boards:
  - id: 60
    workspace: 100
    title: Roadmap
    created_by: owner@acme.test
    categories: [Ideias, Backlog]
`

func TestApply(t *testing.T) {
	conn := testutil.NewTestDB(t)
	ctx := context.Background()
	f, err := Parse([]byte(agencySeed))
	require.NoError(t, err)

	res, err := Apply(ctx, testutil.NewTestUoW(conn), f, slog.New(slog.NewTextHandler(io.Discard, nil)))
	require.NoError(t, err)
	assert.Equal(t, &Result{Users: 3, Companies: 2, Workspaces: 2, TaskTypes: 1, Boards: 1}, res)

	users := repository.NewSQLiteUserRepo(conn)
	owner, err := users.GetByEmail(ctx, "owner@acme.test")
	require.NoError(t, err)
	assert.Equal(t, "Olivia Owner", owner.Name)
	ana, err := users.GetByEmail(ctx, "ana@acme.test")
	require.NoError(t, err)
	root, err := users.GetByEmail(ctx, "root@platform.test")
	require.NoError(t, err)
	assert.True(t, root.PlatformAdmin)

	acme, err := repository.NewSQLiteCompanyRepo(conn).GetByID(ctx, 2)
	require.NoError(t, err)
	assert.Equal(t, owner.ID, acme.OwnerID)
	assert.Equal(t, ana.ID, acme.DefaultTicketAnalystID)
	assert.Equal(t, domain.TeamMarketingAgency, acme.TeamProfile)
	assert.Len(t, acme.Workdays, 5)
	assert.Len(t, acme.Holidays, 1)
	paid, err := repository.NewSQLiteCompanyRepo(conn).HasPaidPlan(ctx, 2)
	require.NoError(t, err)
	assert.True(t, paid)

	link, err := users.GetCompanyLink(ctx, ana.ID, 2)
	require.NoError(t, err)
	assert.Equal(t, domain.ProfileEditor, link.Profile)
	assert.Equal(t, 120.0, link.HourlyRate)

	tt, err := repository.NewSQLiteTaskTypeRepo(conn).GetVisible(ctx, 50, 2, nil)
	require.NoError(t, err)
	require.Len(t, tt.Phases, 2)
	phases := tt.ActivePhases()
	assert.True(t, phases[0].FirstPhase)
	assert.Equal(t, ana.ID, phases[0].ExecutorID)
	assert.True(t, phases[1].LastPhase)
	assert.NoError(t, tt.ValidatePhases())

	template, err := repository.NewSQLiteWorkspaceRepo(conn).DefaultTemplate(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(101), template.ID)

	active, err := repository.NewSQLiteTicketPhaseRepo(conn).ListActive(ctx)
	require.NoError(t, err)
	assert.Len(t, active, 1)

	cats, err := repository.NewSQLiteBoardRepo(conn).ListCategories(ctx, 60)
	require.NoError(t, err)
	assert.Len(t, cats, 2)
}

func TestApply_ReusesExistingUsers(t *testing.T) {
	conn := testutil.NewTestDB(t)
	ctx := context.Background()
	existing := testutil.NewTestUser("ana@acme.test")
	require.NoError(t, repository.NewSQLiteUserRepo(conn).Create(ctx, existing))

	f, err := Parse([]byte(`
users:
  - email: ana@acme.test
companies:
  - {id: 2, name: Acme, owner: ana@acme.test}
`))
	require.NoError(t, err)
	res, err := Apply(ctx, testutil.NewTestUoW(conn), f, nil)
	require.NoError(t, err)
	assert.Equal(t, 0, res.Users)

	acme, err := repository.NewSQLiteCompanyRepo(conn).GetByID(ctx, 2)
	require.NoError(t, err)
	assert.Equal(t, existing.ID, acme.OwnerID)
}

func TestApply_FailureWritesNothing(t *testing.T) {
	conn := testutil.NewTestDB(t)
	f, err := Parse([]byte(`
users:
  - email: ana@acme.test
companies:
  - {id: 2, name: Acme, owner: ghost@acme.test}
`))
	require.NoError(t, err)

	_, err = Apply(context.Background(), testutil.NewTestUoW(conn), f, nil)
	require.ErrorContains(t, err, "ghost@acme.test")

	assert.Zero(t, testutil.CountRows(t, conn, "users"))
	assert.Zero(t, testutil.CountRows(t, conn, "companies"))
}

func TestSeedCompanies_BadHolidayIsAnError(t *testing.T) {
	conn := testutil.NewTestDB(t)
	s := &seeder{
		users:     repository.NewSQLiteUserRepo(conn),
		companies: repository.NewSQLiteCompanyRepo(conn),
		ids:       make(map[string]string),
		res:       &Result{},
	}
	f := &File{Companies: []Company{{ID: 2, Name: "Acme", Holidays: []string{"25/12"}}}}

	err := s.seedCompanies(context.Background(), f)
	require.ErrorContains(t, err, `company 2 holiday "25/12"`)
	assert.Zero(t, testutil.CountRows(t, conn, "companies"))
}

func TestParse_RejectsUnknownKeys(t *testing.T) {
	_, err := Parse([]byte("companies:\n  - {id: 2, name: Acme, colour: blue}\n"))
	require.Error(t, err)
}

func TestParse_Empty(t *testing.T) {
	f, err := Parse(nil)
	require.NoError(t, err)
	assert.Empty(t, f.Companies)
}

func TestValidate(t *testing.T) {
	f := &File{
		Users:       []User{{Email: " "}},
		Companies:   []Company{{ID: 2, Name: "A", Workdays: []string{"funday"}, Holidays: []string{"25/12"}}, {ID: 2}},
		Tags:        []Tag{{Type: "board"}},
		TaskTypes:   []TaskType{{Allocation: "kanban", Phases: []TaskTypePhase{{Sequential: 1}, {Sequential: 1}}}},
		Memberships: []Membership{{Profile: "owner"}},
	}
	errs := Validate(f)
	assert.Len(t, errs, 9)
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "seed.yaml")
	require.NoError(t, os.WriteFile(path, []byte(agencySeed), 0o600))
	f, err := LoadFile(path)
	require.NoError(t, err)
	assert.Len(t, f.Companies, 2)

	_, err = LoadFile(filepath.Join(t.TempDir(), "absent.yaml"))
	require.Error(t, err)
}

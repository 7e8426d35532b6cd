package service

import (
	"context"
	"errors"
	"testing"

	"github.com/ekyte/intake/internal/contract"
	"github.com/ekyte/intake/internal/domain"
	"github.com/ekyte/intake/internal/repository"
	"github.com/ekyte/intake/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func (w *world) ticketPhases(t *testing.T, phases ...domain.TicketPhaseTemplate) {
	t.Helper()
	repo := repository.NewSQLiteTicketPhaseRepo(w.db)
	for i := range phases {
		require.NoError(t, repo.Create(context.Background(), &phases[i]))
	}
}

func (w *world) ticketRequest(requester string) contract.CreateTicketRequest {
	req := contract.NewCreateTicketRequest()
	req.Auth = w.auth(w.editor.Email)
	req.RequesterEmail = requester
	req.Subject = "Broken link"
	req.Message = "The footer link is broken"
	return req
}

func (w *world) loadTicket(t *testing.T, id int64) *domain.Ticket {
	t.Helper()
	ticket, err := repository.NewSQLiteTicketRepo(w.db).GetByID(context.Background(), id)
	require.NoError(t, err)
	return ticket
}

func TestCreateTicket_FlowAssignedToWorkspaceAnalyst(t *testing.T) {
	w := newWorld(t)
	ctx := context.Background()
	analyst := w.user(t, "analyst@acme.test")
	client := w.user(t, "client@customer.test")
	ws := testutil.NewTestWorkspace(w.company.ID, "Support", testutil.WithTicketAnalyst(analyst.ID))
	require.NoError(t, repository.NewSQLiteWorkspaceRepo(w.db).Create(ctx, ws))
	w.ticketPhases(t,
		domain.TicketPhaseTemplate{Name: "Resolve", Sequential: 2, Active: true},
		domain.TicketPhaseTemplate{Name: "Triage", Sequential: 1, Active: true},
		domain.TicketPhaseTemplate{Name: "Legacy", Sequential: 3, Active: false},
	)

	req := w.ticketRequest(client.Email)
	req.WorkspaceID = &ws.ID
	req.PriorityGroup = domain.Ptr(60)
	created, err := NewTicketService(w.collaborators()).Create(ctx, req)
	require.NoError(t, err)
	assert.Equal(t, "ticket", created.Entity)

	ticket := w.loadTicket(t, created.ID)
	assert.Equal(t, analyst.ID, ticket.AnalystID)
	assert.Equal(t, analyst.ID, ticket.ExecutorID)
	assert.Equal(t, client.ID, ticket.RequesterID)
	assert.Equal(t, w.editor.ID, ticket.CreatedByID)
	assert.Equal(t, domain.TicketProcessing, ticket.Status)
	assert.Equal(t, domain.TicketSourceExternal, ticket.Source)
	assert.Equal(t, domain.PriorityHigh, ticket.Priority)
	assert.False(t, ticket.Read)
	assert.False(t, ticket.RequesterRead)
	assert.Equal(t, "<div>The footer link is broken</div>", ticket.Message)

	require.Len(t, ticket.Flow, 2)
	assert.Equal(t, 1, ticket.Flow[0].Sequential)
	assert.Equal(t, 2, ticket.Flow[1].Sequential)
	for _, p := range ticket.Flow {
		assert.Equal(t, analyst.ID, p.ExecutorID)
	}
	assert.Equal(t, ticket.Flow[0].TicketPhaseID, ticket.CurrentPhaseID)
	assert.Equal(t, 1, w.count(t, "ticket_history"))

	link, err := repository.NewSQLiteUserRepo(w.db).GetCompanyLink(ctx, client.ID, w.company.ID)
	require.NoError(t, err, "requester is linked to the company")
	assert.Equal(t, domain.ProfileGuest, link.Profile)

	sent := w.notifier.all()
	require.Len(t, sent, 1)
	assert.Equal(t, NotifyTicketCreated, sent[0].Kind)
	assert.Equal(t, client.ID, sent[0].RecipientID)
}

func TestCreateTicket_AnalystFallbacks(t *testing.T) {
	for _, tc := range []struct {
		name      string
		requested string
		companyDf bool
		want      string
	}{
		{name: "requested member", requested: "analyst@acme.test", companyDf: true, want: "analyst@acme.test"},
		{name: "requested outsider is ignored", requested: "outsider@else.test", want: "owner@acme.test"},
		{name: "company default", companyDf: true, want: "default@acme.test"},
		{name: "owner", want: "owner@acme.test"},
	} {
		t.Run(tc.name, func(t *testing.T) {
			w := newWorld(t)
			ctx := context.Background()
			analyst := w.user(t, "analyst@acme.test")
			w.link(t, analyst, domain.ProfileEditor)
			w.user(t, "outsider@else.test")
			def := w.user(t, "default@acme.test")
			if tc.companyDf {
				_, err := w.db.Exec(`UPDATE companies SET default_ticket_analyst_id = ? WHERE id = ?`, def.ID, w.company.ID)
				require.NoError(t, err)
			}

			req := w.ticketRequest(w.owner.Email)
			req.AnalystEmail = tc.requested
			created, err := NewTicketService(w.collaborators()).Create(ctx, req)
			require.NoError(t, err)

			want, err := repository.NewSQLiteUserRepo(w.db).GetByEmail(ctx, tc.want)
			require.NoError(t, err)
			assert.Equal(t, want.ID, w.loadTicket(t, created.ID).AnalystID)
		})
	}
}

func TestCreateTicket_CCListIsMergedAndProvisioned(t *testing.T) {
	w := newWorld(t)
	ctx := context.Background()
	client := w.user(t, "client@customer.test")

	req := w.ticketRequest(client.Email)
	req.UsersCC = "New@Guest.test, ana@acme.test , new@guest.test,"
	req.TicketCC = []contract.TicketCC{{UserID: w.owner.ID}, {Email: "ANA@acme.test"}}
	created, err := NewTicketService(w.collaborators()).Create(ctx, req)
	require.NoError(t, err)

	ticket := w.loadTicket(t, created.ID)
	var emails []string
	for _, cc := range ticket.CC {
		emails = append(emails, cc.Email)
	}
	assert.Equal(t, []string{"ana@acme.test", "new@guest.test", "owner@acme.test"}, emails)

	users := repository.NewSQLiteUserRepo(w.db)
	guest, err := users.GetByEmail(ctx, "new@guest.test")
	require.NoError(t, err, "unknown cc is provisioned")
	link, err := users.GetCompanyLink(ctx, guest.ID, w.company.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.ProfileGuest, link.Profile)

	editorLink, err := users.GetCompanyLink(ctx, w.editor.ID, w.company.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.ProfileEditor, editorLink.Profile, "existing membership is kept")
}

func TestCreateTicket_ReservedAliasConflictsBeforeAnyWrite(t *testing.T) {
	w := newWorld(t)
	ctx := context.Background()
	other := testutil.NewTestCompany("Globex", testutil.WithTicketEmail("globex"))
	require.NoError(t, repository.NewSQLiteCompanyRepo(w.db).Create(ctx, other))
	spoof := w.user(t, "globex+vip@ekyte.com")
	client := w.user(t, "client@customer.test")
	users := w.count(t, "users")
	links := w.count(t, "user_companies")

	t.Run("requester", func(t *testing.T) {
		_, err := NewTicketService(w.collaborators()).Create(ctx, w.ticketRequest(spoof.Email))
		requireCoded(t, err, contract.KindConflict, 16)
		assert.Equal(t, 400, contract.StatusOf(err))
	})
	t.Run("cc", func(t *testing.T) {
		req := w.ticketRequest(client.Email)
		req.UsersCC = "fresh@guest.test, globex@ekyte.com"
		_, err := NewTicketService(w.collaborators()).Create(ctx, req)
		requireCoded(t, err, contract.KindConflict, 16)
	})

	assert.Equal(t, 0, w.count(t, "tickets"))
	assert.Equal(t, users, w.count(t, "users"), "no cc was provisioned")
	assert.Equal(t, links, w.count(t, "user_companies"), "requester was not linked")
}

func TestCreateTicket_AliasCheckedWithUnconfiguredSettings(t *testing.T) {
	w := newWorld(t)
	ctx := context.Background()
	other := testutil.NewTestCompany("Globex", testutil.WithTicketEmail("globex"))
	require.NoError(t, repository.NewSQLiteCompanyRepo(w.db).Create(ctx, other))
	spoof := w.user(t, "globex+vip@ekyte.com")

	c := w.collaborators()
	c.Settings = Settings{}
	_, err := NewTicketService(c).Create(ctx, w.ticketRequest(spoof.Email))
	requireCoded(t, err, contract.KindConflict, 16)
	assert.Equal(t, 0, w.count(t, "tickets"))
}

func TestCreateTicket_OwnAliasIsAllowed(t *testing.T) {
	w := newWorld(t)
	_, err := w.db.Exec(`UPDATE companies SET ticket_email = 'acme' WHERE id = ?`, w.company.ID)
	require.NoError(t, err)
	own := w.user(t, "acme+help@ekyte.com")

	_, err = NewTicketService(w.collaborators()).Create(context.Background(), w.ticketRequest(own.Email))
	require.NoError(t, err)
}

func TestCreateTicket_ValidationCodes(t *testing.T) {
	w := newWorld(t)
	ctx := context.Background()
	other := testutil.NewTestCompany("Other")
	require.NoError(t, repository.NewSQLiteCompanyRepo(w.db).Create(ctx, other))
	foreign := testutil.NewTestWorkspace(other.ID, "Foreign")
	require.NoError(t, repository.NewSQLiteWorkspaceRepo(w.db).Create(ctx, foreign))

	for _, tc := range []struct {
		name   string
		mutate func(*contract.CreateTicketRequest)
		kind   contract.Kind
		id     int
	}{
		{"missing user", func(r *contract.CreateTicketRequest) { r.UserEmail = "" }, contract.KindValidation, 6},
		{"missing requester", func(r *contract.CreateTicketRequest) { r.RequesterEmail = "" }, contract.KindValidation, 6},
		{"missing type", func(r *contract.CreateTicketRequest) { r.Type = 0 }, contract.KindValidation, 6},
		{"malformed due", func(r *contract.CreateTicketRequest) { r.ExpectDueDate = "tomorrow" }, contract.KindValidation, 7},
		{"priority out of range", func(r *contract.CreateTicketRequest) { r.PriorityGroup = domain.Ptr(-1) }, contract.KindValidation, 85},
		{"unknown user", func(r *contract.CreateTicketRequest) { r.UserEmail = "ghost@acme.test" }, contract.KindValidation, 10},
		{"unknown requester", func(r *contract.CreateTicketRequest) { r.RequesterEmail = "ghost@customer.test" }, contract.KindValidation, 10},
		{"foreign workspace", func(r *contract.CreateTicketRequest) { r.WorkspaceID = &foreign.ID }, contract.KindNotFound, 30},
	} {
		t.Run(tc.name, func(t *testing.T) {
			req := w.ticketRequest(w.owner.Email)
			tc.mutate(&req)
			_, err := NewTicketService(w.collaborators()).Create(ctx, req)
			requireCoded(t, err, tc.kind, tc.id)
		})
	}
	assert.Equal(t, 0, w.count(t, "tickets"))
}

func TestCreateTicket_DefaultMessageAndAttachmentWorkspace(t *testing.T) {
	w := newWorld(t)
	ctx := context.Background()
	c := w.collaborators()

	req := w.ticketRequest(w.owner.Email)
	req.Message = ""
	created, err := NewTicketService(c).Create(ctx, req)
	require.NoError(t, err)
	assert.Equal(t, c.Settings.DefaultTicketMessage, w.loadTicket(t, created.ID).Message)

	req = w.ticketRequest(w.owner.Email)
	req.Message = `<img src="data:image/png;base64,` + tinyPNG + `">`
	_, err = NewTicketService(c).Create(ctx, req)
	require.NoError(t, err)

	artifacts, err := repository.NewSQLiteArtifactRepo(w.db).ListByWorkspace(ctx, w.workspace.ID)
	require.NoError(t, err)
	require.Len(t, artifacts, 1)
	assert.Equal(t, domain.AttachmentTicket, artifacts[0].Context)
}

type failingProvisioner struct{ err error }

func (p failingProvisioner) Provision(context.Context, string, int64, *int64) (*domain.User, error) {
	return nil, p.err
}

func TestCreateTicket_ProvisioningFailureRollsBack(t *testing.T) {
	w := newWorld(t)
	client := w.user(t, "client@customer.test")
	boom := errors.New("directory offline")
	c := w.collaborators()
	c.Identities = func(repository.UserRepo) IdentityProvisioner { return failingProvisioner{err: boom} }

	_, err := NewTicketService(c).Create(context.Background(), w.ticketRequest(client.Email))
	require.ErrorIs(t, err, boom)
	assert.Equal(t, 0, w.count(t, "tickets"))
	assert.Empty(t, w.notifier.all())
}

func TestCreateTicket_NotifierFailureKeepsTicket(t *testing.T) {
	w := newWorld(t)
	w.notifier.err = errors.New("smtp down")

	created, err := NewTicketService(w.collaborators()).Create(context.Background(), w.ticketRequest(w.owner.Email))
	require.NoError(t, err)
	assert.NotZero(t, created.ID)
	assert.Equal(t, 1, w.count(t, "tickets"))
	assert.Len(t, w.notifier.all(), 1)
}

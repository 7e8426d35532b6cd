package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/ekyte/intake/internal/artifact"
	"github.com/ekyte/intake/internal/contract"
	"github.com/ekyte/intake/internal/db"
	"github.com/ekyte/intake/internal/domain"
	"github.com/ekyte/intake/internal/flow"
)

type ticketService struct {
	c        Collaborators
	observer UseCaseObserver
}

func NewTicketService(c Collaborators, observers ...UseCaseObserver) TicketService {
	return &ticketService{c: c.withDefaults(), observer: useCaseObserverOrNoop(observers)}
}

func (s *ticketService) Create(ctx context.Context, req contract.CreateTicketRequest) (out *contract.Created, err error) {
	uc := startUseCase(s.observer, "ticket.create", map[string]any{
		"company_id":  req.CompanyID,
		"ticket_type": int(req.Type),
	})
	defer func() {
		if out != nil {
			uc.event.Fields["ticket_id"] = out.ID
		}
		uc.done(ctx, err)
	}()

	if err := checkTenant(ctx, req.Auth); err != nil {
		return nil, err
	}
	switch {
	case strings.TrimSpace(req.UserEmail) == "":
		return nil, contract.Validation(6, "user email is required")
	case strings.TrimSpace(req.RequesterEmail) == "":
		return nil, contract.Validation(6, "requester email is required")
	case req.Type <= 0:
		return nil, contract.Validation(6, "ticket type is required")
	}
	due, err := contract.ParseDate(req.ExpectDueDate, s.c.Settings.Location)
	if err != nil {
		return nil, contract.Validation(7, "expected due date %q is not a valid date", req.ExpectDueDate)
	}
	group, priority, err := bucketPriority(req.PriorityGroup)
	if err != nil {
		return nil, err
	}

	var ticket *domain.Ticket
	err = s.c.UoW.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		r := newTxRepos(tx)
		company, err := loadCompany(ctx, r, req.CompanyID)
		if err != nil {
			return err
		}
		user, _, err := requireMember(ctx, r, company.ID, req.UserEmail)
		if err != nil {
			return err
		}
		workspace, err := s.workspace(ctx, r, company.ID, req.WorkspaceID)
		if err != nil {
			return err
		}
		if req.ProjectID != nil && *req.ProjectID > 0 {
			if _, err := r.projects.GetByID(ctx, *req.ProjectID); isNotFound(err) {
				return contract.Validation(95, "project %d not found", *req.ProjectID)
			} else if err != nil {
				return fmt.Errorf("loading project: %w", err)
			}
		}

		requester, err := r.users.GetByEmail(ctx, strings.ToLower(strings.TrimSpace(req.RequesterEmail)))
		if isNotFound(err) {
			return contract.Validation(10, "requester %s not found", req.RequesterEmail)
		}
		if err != nil {
			return fmt.Errorf("loading requester: %w", err)
		}
		ccEmails, err := s.ccEmails(ctx, r, req)
		if err != nil {
			return err
		}
		if err := s.checkAliases(ctx, r, company.ID, append([]string{requester.Email}, ccEmails...)); err != nil {
			return err
		}

		// Everything has been validated; writes start here.
		ticket = &domain.Ticket{
			CompanyID:     company.ID,
			WorkspaceID:   req.WorkspaceID,
			ProjectID:     req.ProjectID,
			RequesterID:   requester.ID,
			CreatedByID:   user.ID,
			Subject:       strings.TrimSpace(req.Subject),
			Type:          req.Type,
			Status:        domain.TicketProcessing,
			Source:        domain.TicketSourceExternal,
			Priority:      priority,
			PriorityGroup: group,
			FirstDueDate:  due,
			ExpectDueDate: due,
			LastCommentAt: time.Now().UTC(),
		}
		identities := s.c.Identities(r.users)
		if _, err := identities.Provision(ctx, requester.Email, company.ID, req.WorkspaceID); err != nil {
			return fmt.Errorf("linking requester: %w", err)
		}
		for _, email := range ccEmails {
			cc, err := identities.Provision(ctx, email, company.ID, req.WorkspaceID)
			if err != nil {
				return fmt.Errorf("provisioning cc %s: %w", email, err)
			}
			ticket.AddCC(cc.ID, cc.Email)
		}

		if err := s.assign(ctx, r, company, workspace, req.AnalystEmail, ticket); err != nil {
			return err
		}
		if ticket.Message, err = s.message(ctx, r, company.ID, user.ID, req); err != nil {
			return err
		}

		if err := r.tickets.Create(ctx, ticket); err != nil {
			return fmt.Errorf("creating ticket: %w", err)
		}
		err = r.tickets.AddHistory(ctx, &domain.TicketHistory{
			TicketID: ticket.ID,
			UserID:   user.ID,
			Action:   "ticket_created",
		})
		if err != nil {
			return fmt.Errorf("recording ticket history: %w", err)
		}
		notifyAfterCommit(ctx, s.c, Notification{
			Kind:        NotifyTicketCreated,
			CompanyID:   company.ID,
			RecipientID: requester.ID,
			ActorID:     user.ID,
			EntityID:    ticket.ID,
			Title:       ticket.Subject,
		})
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &contract.Created{Entity: "ticket", ID: ticket.ID}, nil
}

func (s *ticketService) workspace(ctx context.Context, r *txRepos, companyID int64, id *int64) (*domain.Workspace, error) {
	if id == nil || *id <= 0 {
		return nil, nil
	}
	ok, err := r.workspaces.AccessibleBy(ctx, *id, companyID)
	if err != nil {
		return nil, fmt.Errorf("checking workspace: %w", err)
	}
	if !ok {
		return nil, contract.NotFound(30, "workspace %d not found", *id)
	}
	w, err := r.workspaces.GetByID(ctx, *id)
	if err != nil {
		return nil, fmt.Errorf("loading workspace: %w", err)
	}
	return w, nil
}

// ccEmails merges the comma separated list with the explicit entries,
// lower-cased and without duplicates.
func (s *ticketService) ccEmails(ctx context.Context, r *txRepos, req contract.CreateTicketRequest) ([]string, error) {
	var out []string
	seen := make(map[string]bool)
	add := func(email string) {
		email = strings.ToLower(strings.TrimSpace(email))
		if email == "" || seen[email] {
			return
		}
		seen[email] = true
		out = append(out, email)
	}

	for _, email := range strings.Split(req.UsersCC, ",") {
		add(email)
	}
	for _, cc := range req.TicketCC {
		if cc.Email == "" && cc.UserID != "" {
			u, err := r.users.GetByID(ctx, cc.UserID)
			if isNotFound(err) {
				continue
			}
			if err != nil {
				return nil, fmt.Errorf("loading cc user %s: %w", cc.UserID, err)
			}
			cc.Email = u.Email
		}
		add(cc.Email)
	}
	return out, nil
}

// checkAliases rejects emails on the reserved domain that are another
// company's ticket alias.
func (s *ticketService) checkAliases(ctx context.Context, r *txRepos, companyID int64, emails []string) error {
	domainPart := strings.ToLower(s.c.Settings.ReservedEmailDomain)
	for _, email := range emails {
		if !strings.Contains(strings.ToLower(email), domainPart) {
			continue
		}
		taken, err := r.companies.TicketAliasInUse(ctx, email, companyID)
		if err != nil {
			return fmt.Errorf("checking ticket alias %s: %w", email, err)
		}
		if taken {
			return contract.Conflict(16, "email %s is reserved by another company", email)
		}
	}
	return nil
}

// assign picks the analyst and gives them every phase of the ticket flow.
func (s *ticketService) assign(ctx context.Context, r *txRepos, company *domain.Company, workspace *domain.Workspace, analystEmail string, t *domain.Ticket) error {
	q := flow.AnalystQuery{
		CompanyID:        company.ID,
		RequestedEmail:   strings.ToLower(strings.TrimSpace(analystEmail)),
		CompanyAnalystID: company.DefaultTicketAnalystID,
		OwnerID:          company.OwnerID,
	}
	if workspace != nil {
		q.WorkspaceAnalystID = workspace.TicketAnalystID
	}
	analyst, _, err := flow.NewAnalystChain(r.users).Resolve(ctx, q)
	if err != nil {
		return fmt.Errorf("resolving analyst: %w", err)
	}
	t.AnalystID = analyst
	t.ExecutorID = analyst

	templates, err := r.ticketPhases.ListActive(ctx)
	if err != nil {
		return fmt.Errorf("loading ticket phases: %w", err)
	}
	if t.Flow, err = flow.BuildTicketFlow(templates, analyst, s.c.Organizer); err != nil {
		return fmt.Errorf("building ticket flow: %w", err)
	}
	if len(t.Flow) > 0 {
		t.CurrentPhaseID = t.Flow[0].TicketPhaseID
	}
	return nil
}

func (s *ticketService) message(ctx context.Context, r *txRepos, companyID int64, userID string, req contract.CreateTicketRequest) (string, error) {
	msg := s.c.Settings.DefaultTicketMessage
	if strings.TrimSpace(req.Message) != "" {
		msg = "<div>" + req.Message + "</div>"
	}

	workspaceID := int64(0)
	if req.WorkspaceID != nil && *req.WorkspaceID > 0 {
		workspaceID = *req.WorkspaceID
	} else {
		var err error
		if workspaceID, err = firstCompanyWorkspace(ctx, r, companyID); err != nil {
			return "", err
		}
	}
	return extractAttachments(ctx, r, s.c, msg, artifact.Target{
		Context:     domain.AttachmentTicket,
		WorkspaceID: workspaceID,
		CreatedByID: userID,
	})
}

package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/ekyte/intake/internal/contract"
	"github.com/ekyte/intake/internal/db"
	"github.com/ekyte/intake/internal/domain"
)

// defaultLanguage applies when neither the request nor the company sets one.
const defaultLanguage = "pt-BR"

type workspaceService struct {
	c        Collaborators
	observer UseCaseObserver
}

func NewWorkspaceService(c Collaborators, observers ...UseCaseObserver) WorkspaceService {
	return &workspaceService{c: c.withDefaults(), observer: useCaseObserverOrNoop(observers)}
}

func (s *workspaceService) Create(ctx context.Context, req contract.CreateWorkspaceRequest) (out *contract.Created, err error) {
	uc := startUseCase(s.observer, "workspace.create", map[string]any{"company_id": req.CompanyID})
	defer func() {
		if out != nil {
			uc.event.Fields["workspace_id"] = out.ID
		}
		uc.done(ctx, err)
	}()

	if err := checkTenant(ctx, req.Auth); err != nil {
		return nil, err
	}
	if strings.TrimSpace(req.Name) == "" {
		return nil, contract.Validation(1, "name is required")
	}

	var w *domain.Workspace
	err = s.c.UoW.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		r := newTxRepos(tx)
		company, err := loadCompany(ctx, r, req.CompanyID)
		if err != nil {
			return err
		}
		user, link, err := requireMember(ctx, r, company.ID, req.UserEmail)
		if err != nil {
			return err
		}
		if !link.CanAdminister(user) {
			return contract.Permission(20, "user %s may not create workspaces in company %d", user.Email, company.ID)
		}

		if w, err = s.base(ctx, r, company); err != nil {
			return err
		}
		if req.SquadID != nil && *req.SquadID > 0 {
			if _, err := r.squads.GetLive(ctx, company.ID, *req.SquadID); isNotFound(err) {
				return contract.NotFound(40, "squad %d not found", *req.SquadID)
			} else if err != nil {
				return fmt.Errorf("loading squad: %w", err)
			}
			w.SquadID = req.SquadID
		}

		w.CompanyID = company.ID
		w.Name = strings.TrimSpace(req.Name)
		w.Description = domain.CoalesceStr(req.Description, w.Description)
		w.Active = req.Active
		w.DefaultLanguage = domain.CoalesceStr(req.DefaultLanguage, company.DefaultLanguage, defaultLanguage)
		w.EnableGenAI = company.EnableGenAI
		if req.EnableGenAI != nil {
			w.EnableGenAI = *req.EnableGenAI
		}
		w.ShareAudiences = w.ShareAudiences || req.ShareAudiencesAndPersonas
		w.ShareChannels = w.ShareChannels || req.ShareChannels
		w.AvatarID = domain.CoalesceID(req.AvatarID, w.AvatarID)
		w.ExternalID = req.ExternalID

		w.LinkCompany(company.ID, true)
		for _, id := range req.Companies {
			ok, err := r.companies.Exists(ctx, id)
			if err != nil {
				return fmt.Errorf("checking company %d: %w", id, err)
			}
			if ok {
				w.LinkCompany(id, true)
			}
		}

		if err := r.workspaces.Create(ctx, w); err != nil {
			return fmt.Errorf("creating workspace: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &contract.Created{Entity: "workspace", ID: w.ID}, nil
}

// base is the starting point of a new workspace. Marketing agencies start
// from the platform's default template when one exists.
func (s *workspaceService) base(ctx context.Context, r *txRepos, company *domain.Company) (*domain.Workspace, error) {
	if company.TeamProfile != domain.TeamMarketingAgency {
		return &domain.Workspace{}, nil
	}
	tpl, err := r.workspaces.DefaultTemplate(ctx)
	if isNotFound(err) {
		return &domain.Workspace{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("loading default workspace template: %w", err)
	}
	return tpl.CopyTemplate(), nil
}

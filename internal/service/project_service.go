package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/ekyte/intake/internal/contract"
	"github.com/ekyte/intake/internal/db"
	"github.com/ekyte/intake/internal/domain"
)

type projectService struct {
	c        Collaborators
	observer UseCaseObserver
}

func NewProjectService(c Collaborators, observers ...UseCaseObserver) ProjectService {
	return &projectService{c: c.withDefaults(), observer: useCaseObserverOrNoop(observers)}
}

func (s *projectService) Create(ctx context.Context, req contract.CreateProjectRequest) (out *contract.Created, err error) {
	uc := startUseCase(s.observer, "project.create", map[string]any{"company_id": req.CompanyID})
	defer func() {
		if out != nil {
			uc.event.Fields["project_id"] = out.ID
		}
		uc.done(ctx, err)
	}()

	if err := checkTenant(ctx, req.Auth); err != nil {
		return nil, err
	}
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, contract.Validation(1, "name is required")
	}
	start, err := contract.ParseDate(req.StartDate, s.c.Settings.Location)
	if err != nil {
		return nil, contract.Validation(1, "start date %q is not a valid date", req.StartDate)
	}
	if start == nil {
		start = domain.Ptr(today(s.c.Settings.Location))
	}

	project := &domain.Project{
		Name:         name,
		Alias:        domain.DeriveAlias(name, req.Alias),
		Description:  req.Description,
		AnchorDate:   start,
		BudgetMethod: domain.BudgetCalculated,
	}
	if err := project.ValidateAlias(); err != nil {
		return nil, contract.Validation(1, "%v", err)
	}

	err = s.c.UoW.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		r := newTxRepos(tx)
		company, err := loadCompany(ctx, r, req.CompanyID)
		if err != nil {
			return err
		}
		user, link, err := findMember(ctx, r, company.ID, req.UserEmail)
		if err != nil {
			return err
		}
		if link == nil {
			return contract.Validation(10, "user %s does not belong to company %d", req.UserEmail, company.ID)
		}
		if project.WorkspaceID, err = pickWorkspace(ctx, r, company.ID, req.WorkspaceID, link); err != nil {
			return err
		}

		if project.TagIDs, err = s.tags(ctx, r, company.ID, req.Tags); err != nil {
			return err
		}
		project.CreatedByID = user.ID
		if err := r.projects.Create(ctx, project); err != nil {
			return fmt.Errorf("creating project: %w", err)
		}
		err = r.projects.AddHistory(ctx, &domain.ProjectHistory{
			ProjectID: project.ID,
			UserID:    user.ID,
			Action:    "project_created",
		})
		if err != nil {
			return fmt.Errorf("recording project history: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &contract.Created{Entity: "project", ID: project.ID}, nil
}

// tags finds or creates a project tag for each "|" separated name.
func (s *projectService) tags(ctx context.Context, r *txRepos, companyID int64, list string) ([]int64, error) {
	var ids []int64
	seen := make(map[int64]bool)
	for _, name := range strings.Split(list, "|") {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		tag, err := r.tags.FindByName(ctx, companyID, name, domain.TagProject)
		if isNotFound(err) {
			tag = &domain.Tag{CompanyID: companyID, Name: name, Type: domain.TagProject}
			err = r.tags.Create(ctx, tag)
		}
		if err != nil {
			return nil, fmt.Errorf("resolving tag %q: %w", name, err)
		}
		if !seen[tag.ID] {
			seen[tag.ID] = true
			ids = append(ids, tag.ID)
		}
	}
	return ids, nil
}

package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/ekyte/intake/internal/calendar"
	"github.com/ekyte/intake/internal/contract"
	"github.com/ekyte/intake/internal/domain"
	"github.com/ekyte/intake/internal/repository"
)

func isNotFound(err error) bool {
	return errors.Is(err, repository.ErrNotFound)
}

// checkTenant rejects requests addressed to a company other than the one
// the caller's credentials belong to.
func checkTenant(ctx context.Context, auth contract.Auth) error {
	if auth.CompanyID <= 0 {
		return contract.Unauthorized("company is required")
	}
	if caller, ok := contract.CallerFrom(ctx); ok && caller != auth.CompanyID {
		return contract.Unauthorized("credentials do not grant access to company %d", auth.CompanyID)
	}
	return nil
}

func loadCompany(ctx context.Context, r *txRepos, id int64) (*domain.Company, error) {
	company, err := r.companies.GetByID(ctx, id)
	if isNotFound(err) {
		return nil, contract.NotFound(10, "company %d not found", id)
	}
	if err != nil {
		return nil, fmt.Errorf("loading company: %w", err)
	}
	return company, nil
}

// findMember looks up a user by email and their membership in the company.
// Either result is nil when missing.
func findMember(ctx context.Context, r *txRepos, companyID int64, email string) (*domain.User, *domain.UserCompany, error) {
	user, err := r.users.GetByEmail(ctx, email)
	if isNotFound(err) {
		return nil, nil, nil
	}
	if err != nil {
		return nil, nil, fmt.Errorf("loading user: %w", err)
	}
	link, err := r.users.GetCompanyLink(ctx, user.ID, companyID)
	if isNotFound(err) {
		return user, nil, nil
	}
	if err != nil {
		return nil, nil, fmt.Errorf("loading membership: %w", err)
	}
	return user, link, nil
}

// requireMember is findMember with the usual codes: unknown user 10, not a
// member 15.
func requireMember(ctx context.Context, r *txRepos, companyID int64, email string) (*domain.User, *domain.UserCompany, error) {
	user, link, err := findMember(ctx, r, companyID, email)
	switch {
	case err != nil:
		return nil, nil, err
	case user == nil:
		return nil, nil, contract.Validation(10, "user %s not found", email)
	case link == nil:
		return nil, nil, contract.Validation(15, "user %s has no access to company %d", email, companyID)
	}
	return user, link, nil
}

// pickWorkspace chooses the workspace of a board or project: the requested
// one, the user's default, the company's first live workspace, then any of
// the company's workspaces. The choice must be active and owned by the
// company.
func pickWorkspace(ctx context.Context, r *txRepos, companyID int64, requested *int64, link *domain.UserCompany) (int64, error) {
	var id int64
	switch {
	case requested != nil && *requested > 0:
		id = *requested
	case link.WorkspaceID != nil && *link.WorkspaceID > 0:
		id = *link.WorkspaceID
	default:
		var err error
		if id, err = firstCompanyWorkspace(ctx, r, companyID); err != nil {
			return 0, err
		}
		if id == 0 {
			return 0, contract.NotFound(40, "workspace not found")
		}
	}

	ok, err := r.workspaces.ActiveInCompany(ctx, id, companyID)
	if err != nil {
		return 0, fmt.Errorf("checking workspace: %w", err)
	}
	if !ok {
		return 0, contract.NotFound(41, "workspace %d does not belong to company %d or is inactive", id, companyID)
	}
	return id, nil
}

// firstCompanyWorkspace prefers live workspaces; zero means the company has
// none.
func firstCompanyWorkspace(ctx context.Context, r *txRepos, companyID int64) (int64, error) {
	for _, liveOnly := range []bool{true, false} {
		id, err := r.workspaces.FirstForCompany(ctx, companyID, liveOnly)
		if err == nil {
			return id, nil
		}
		if !isNotFound(err) {
			return 0, fmt.Errorf("finding company workspace: %w", err)
		}
	}
	return 0, nil
}

// bucketPriority validates an optional priority group; nil means 0.
func bucketPriority(group *int) (int, domain.Priority, error) {
	g := domain.IntFromPtrWithDefault(0, group)
	p, err := domain.BucketPriority(g)
	if err != nil {
		return 0, "", contract.Validation(85, "priority must be between 0 and 100")
	}
	return g, p, nil
}

func calendarFor(c *domain.Company) *calendar.Calendar {
	return calendar.New(c.Workdays, c.Holidays...)
}

func today(loc *time.Location) time.Time {
	y, m, d := time.Now().In(loc).Date()
	return time.Date(y, m, d, 0, 0, 0, 0, loc)
}

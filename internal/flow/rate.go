package flow

import (
	"context"
	"errors"
	"fmt"

	"github.com/ekyte/intake/internal/domain"
	"github.com/ekyte/intake/internal/repository"
)

// Rate is an hourly rate together with the source that produced it.
type Rate struct {
	Value  float64
	Origin domain.HourlyRateOrigin
}

// MembershipFinder exposes a user's company membership, which carries the
// user's hourly rate in that company.
type MembershipFinder interface {
	GetCompanyLink(ctx context.Context, userID string, companyID int64) (*domain.UserCompany, error)
}

// RateResolver prices phases for companies with financial management.
type RateResolver struct {
	members MembershipFinder
}

func NewRateResolver(members MembershipFinder) *RateResolver {
	return &RateResolver{members: members}
}

// TaskRate is the two-tier resolution used once per Agile task: the
// project's informed budget, else the company rate.
func TaskRate(company *domain.Company, project *domain.Project) Rate {
	if project != nil && project.BudgetMethod == domain.BudgetInformedInProject {
		return Rate{Value: project.HourlyBudget, Origin: domain.RateProjectInformed}
	}
	return Rate{Value: company.DefaultHourlyRate, Origin: domain.RateCompany}
}

// PhaseRate prices one Workload phase: the project's informed budget, else
// the executor's own rate when positive, else the company rate.
func (r *RateResolver) PhaseRate(ctx context.Context, company *domain.Company, project *domain.Project, executorID string) (Rate, error) {
	if project != nil && project.BudgetMethod == domain.BudgetInformedInProject {
		return Rate{Value: project.HourlyBudget, Origin: domain.RateProjectInformed}, nil
	}
	if executorID != "" {
		link, err := r.members.GetCompanyLink(ctx, executorID, company.ID)
		switch {
		case errors.Is(err, repository.ErrNotFound):
		case err != nil:
			return Rate{}, fmt.Errorf("loading rate of %s: %w", executorID, err)
		case link.HourlyRate > 0:
			return Rate{Value: link.HourlyRate, Origin: domain.RateUser}, nil
		}
	}
	return Rate{Value: company.DefaultHourlyRate, Origin: domain.RateCompany}, nil
}

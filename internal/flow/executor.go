package flow

import (
	"context"
	"errors"
	"fmt"

	"github.com/ekyte/intake/internal/domain"
	"github.com/ekyte/intake/internal/repository"
)

// PhaseQuery describes the phase whose executor is being resolved.
type PhaseQuery struct {
	CompanyID          int64
	WorkspaceID        int64
	PhaseID            int64
	OwnerID            string
	TemplateExecutorID string
	// RequesterID is only set for the first active phase of an unplanned
	// task created on behalf of a user.
	RequesterID string
}

// TeamMemberFinder looks up the member mapped to a phase. A nil workspace
// asks for the company-wide mapping.
type TeamMemberFinder interface {
	FindForPhase(ctx context.Context, companyID, phaseID int64, workspaceID *int64) (*domain.TeamMember, error)
}

// NewExecutorChain returns the executor cascade: requesting user, template
// default, workspace team member, company team member, company owner.
func NewExecutorChain(members TeamMemberFinder) Chain[PhaseQuery] {
	return Chain[PhaseQuery]{
		ResolverFunc[PhaseQuery](func(_ context.Context, q PhaseQuery) (string, bool, error) {
			return static(q.RequesterID)
		}),
		ResolverFunc[PhaseQuery](func(_ context.Context, q PhaseQuery) (string, bool, error) {
			return static(q.TemplateExecutorID)
		}),
		WorkspaceMemberResolver(members),
		CompanyMemberResolver(members),
		ResolverFunc[PhaseQuery](func(_ context.Context, q PhaseQuery) (string, bool, error) {
			return static(q.OwnerID)
		}),
	}
}

// WorkspaceMemberResolver matches a member mapped to the phase in the
// task's workspace.
func WorkspaceMemberResolver(members TeamMemberFinder) Resolver[PhaseQuery] {
	return ResolverFunc[PhaseQuery](func(ctx context.Context, q PhaseQuery) (string, bool, error) {
		ws := q.WorkspaceID
		return findMember(ctx, members, q, &ws)
	})
}

// CompanyMemberResolver matches a company-wide member mapped to the phase.
func CompanyMemberResolver(members TeamMemberFinder) Resolver[PhaseQuery] {
	return ResolverFunc[PhaseQuery](func(ctx context.Context, q PhaseQuery) (string, bool, error) {
		return findMember(ctx, members, q, nil)
	})
}

func findMember(ctx context.Context, members TeamMemberFinder, q PhaseQuery, workspaceID *int64) (string, bool, error) {
	m, err := members.FindForPhase(ctx, q.CompanyID, q.PhaseID, workspaceID)
	if errors.Is(err, repository.ErrNotFound) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("finding team member for phase %d: %w", q.PhaseID, err)
	}
	return static(m.UserID)
}

package flow

import (
	"context"
	"errors"
	"fmt"

	"github.com/ekyte/intake/internal/domain"
	"github.com/ekyte/intake/internal/repository"
)

// AnalystQuery carries the candidates for a ticket's analyst.
type AnalystQuery struct {
	CompanyID          int64
	RequestedEmail     string
	WorkspaceAnalystID string
	CompanyAnalystID   string
	OwnerID            string
}

// UserFinder is the slice of the user store analyst resolution needs.
type UserFinder interface {
	GetByID(ctx context.Context, id string) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	GetCompanyLink(ctx context.Context, userID string, companyID int64) (*domain.UserCompany, error)
}

// NewAnalystChain returns the analyst cascade: an explicitly requested
// company member, the workspace's ticket analyst, the company's default
// analyst, the company owner. Configured analysts must still exist.
func NewAnalystChain(users UserFinder) Chain[AnalystQuery] {
	return Chain[AnalystQuery]{
		requestedAnalyst(users),
		ResolverFunc[AnalystQuery](func(ctx context.Context, q AnalystQuery) (string, bool, error) {
			return existingUser(ctx, users, q.WorkspaceAnalystID)
		}),
		ResolverFunc[AnalystQuery](func(ctx context.Context, q AnalystQuery) (string, bool, error) {
			return existingUser(ctx, users, q.CompanyAnalystID)
		}),
		ResolverFunc[AnalystQuery](func(_ context.Context, q AnalystQuery) (string, bool, error) {
			return static(q.OwnerID)
		}),
	}
}

func requestedAnalyst(users UserFinder) Resolver[AnalystQuery] {
	return ResolverFunc[AnalystQuery](func(ctx context.Context, q AnalystQuery) (string, bool, error) {
		if q.RequestedEmail == "" {
			return "", false, nil
		}
		u, err := users.GetByEmail(ctx, q.RequestedEmail)
		if errors.Is(err, repository.ErrNotFound) {
			return "", false, nil
		}
		if err != nil {
			return "", false, fmt.Errorf("finding analyst %s: %w", q.RequestedEmail, err)
		}
		_, err = users.GetCompanyLink(ctx, u.ID, q.CompanyID)
		if errors.Is(err, repository.ErrNotFound) {
			return "", false, nil
		}
		if err != nil {
			return "", false, fmt.Errorf("checking analyst membership: %w", err)
		}
		return u.ID, true, nil
	})
}

func existingUser(ctx context.Context, users UserFinder, id string) (string, bool, error) {
	if id == "" {
		return "", false, nil
	}
	_, err := users.GetByID(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("loading user %s: %w", id, err)
	}
	return id, true, nil
}

package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/ekyte/intake/internal/domain"
	"github.com/ekyte/intake/internal/repository"
)

// IdentityProvisioner finds or creates the user behind an email and makes
// sure they belong to a company.
type IdentityProvisioner interface {
	Provision(ctx context.Context, email string, companyID int64, workspaceID *int64) (*domain.User, error)
}

type guestProvisioner struct {
	users repository.UserRepo
}

// NewGuestProvisioner creates unknown users as guests named after their
// email and links existing ones to the company as guests.
func NewGuestProvisioner(users repository.UserRepo) IdentityProvisioner {
	return &guestProvisioner{users: users}
}

func (p *guestProvisioner) Provision(ctx context.Context, email string, companyID int64, workspaceID *int64) (*domain.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	user, err := p.users.GetByEmail(ctx, email)
	if isNotFound(err) {
		user = &domain.User{ID: uuid.NewString(), Email: email, Name: email, CreatedAt: time.Now().UTC()}
		if err := p.users.Create(ctx, user); err != nil {
			return nil, fmt.Errorf("creating guest %s: %w", email, err)
		}
	} else if err != nil {
		return nil, fmt.Errorf("loading user %s: %w", email, err)
	}

	err = p.users.LinkCompany(ctx, &domain.UserCompany{
		UserID:      user.ID,
		CompanyID:   companyID,
		Profile:     domain.ProfileGuest,
		WorkspaceID: workspaceID,
	})
	if err != nil {
		return nil, fmt.Errorf("linking %s to company %d: %w", email, companyID, err)
	}
	return user, nil
}

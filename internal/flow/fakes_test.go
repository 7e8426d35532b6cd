package flow

import (
	"context"
	"fmt"

	"github.com/ekyte/intake/internal/domain"
	"github.com/ekyte/intake/internal/repository"
)

type memberKey struct {
	phaseID     int64
	workspaceID int64 // 0 for company-wide
}

type fakeMembers struct {
	byKey map[memberKey]string
	err   error
	calls int
}

func (f *fakeMembers) FindForPhase(_ context.Context, _, phaseID int64, workspaceID *int64) (*domain.TeamMember, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	key := memberKey{phaseID: phaseID}
	if workspaceID != nil {
		key.workspaceID = *workspaceID
	}
	id, ok := f.byKey[key]
	if !ok {
		return nil, fmt.Errorf("team member: %w", repository.ErrNotFound)
	}
	return &domain.TeamMember{PhaseID: phaseID, WorkspaceID: workspaceID, UserID: id}, nil
}

type fakeUsers struct {
	users map[string]*domain.User        // by id
	links map[string]*domain.UserCompany // by user id
}

func (f *fakeUsers) GetByID(_ context.Context, id string) (*domain.User, error) {
	if u, ok := f.users[id]; ok {
		return u, nil
	}
	return nil, fmt.Errorf("user %s: %w", id, repository.ErrNotFound)
}

func (f *fakeUsers) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	for _, u := range f.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, fmt.Errorf("user %s: %w", email, repository.ErrNotFound)
}

func (f *fakeUsers) GetCompanyLink(_ context.Context, userID string, companyID int64) (*domain.UserCompany, error) {
	if l, ok := f.links[userID]; ok && l.CompanyID == companyID {
		return l, nil
	}
	return nil, fmt.Errorf("membership: %w", repository.ErrNotFound)
}

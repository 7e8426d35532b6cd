package repository

import (
	"context"
	"time"

	"github.com/ekyte/intake/internal/domain"
)

type CompanyRepo interface {
	Create(ctx context.Context, c *domain.Company) error
	GetByID(ctx context.Context, id int64) (*domain.Company, error)
	Exists(ctx context.Context, id int64) (bool, error)
	AddSubscription(ctx context.Context, s *domain.Subscription) error
	// HasPaidPlan reports whether the company holds a live subscription to
	// any plan other than the free one.
	HasPaidPlan(ctx context.Context, companyID int64) (bool, error)
	// TicketAliasInUse reports whether email is a ticket alias
	// ("<ticket_email>+..." or "<ticket_email>@...") of a company other
	// than excludeCompanyID.
	TicketAliasInUse(ctx context.Context, email string, excludeCompanyID int64) (bool, error)
}

type UserRepo interface {
	Create(ctx context.Context, u *domain.User) error
	GetByID(ctx context.Context, id string) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	// LinkCompany adds the membership unless the user already belongs to
	// the company.
	LinkCompany(ctx context.Context, uc *domain.UserCompany) error
	GetCompanyLink(ctx context.Context, userID string, companyID int64) (*domain.UserCompany, error)
}

type SquadRepo interface {
	Create(ctx context.Context, s *domain.Squad) error
	GetLive(ctx context.Context, companyID, id int64) (*domain.Squad, error)
}

type WorkspaceRepo interface {
	Create(ctx context.Context, w *domain.Workspace) error
	GetByID(ctx context.Context, id int64) (*domain.Workspace, error)
	// AccessibleBy reports whether an active, non-deleted workspace is owned
	// by or shared with the company.
	AccessibleBy(ctx context.Context, workspaceID, companyID int64) (bool, error)
	// ActiveInCompany reports whether the workspace is owned by the company
	// and active.
	ActiveInCompany(ctx context.Context, workspaceID, companyID int64) (bool, error)
	// FirstForCompany returns the lowest workspace id of the company. With
	// liveOnly, soft-deleted workspaces are skipped.
	FirstForCompany(ctx context.Context, companyID int64, liveOnly bool) (int64, error)
	DefaultTemplate(ctx context.Context) (*domain.Workspace, error)
}

type TagRepo interface {
	Create(ctx context.Context, t *domain.Tag) error
	FindByName(ctx context.Context, companyID int64, name string, tagType domain.TagType) (*domain.Tag, error)
}

type PhaseRepo interface {
	Upsert(ctx context.Context, id int64, name string) error
}

type TaskTypeRepo interface {
	Create(ctx context.Context, tt *domain.TaskType) error
	// GetVisible loads a live task type owned by the company, by the
	// platform company, or by the headquarters when its workflow is shared.
	GetVisible(ctx context.Context, id, companyID int64, headquarterID *int64) (*domain.TaskType, error)
}

type TeamMemberRepo interface {
	Create(ctx context.Context, m *domain.TeamMember) error
	// FindForPhase returns the live member with the lowest id mapped to the
	// phase. A nil workspaceID matches company-wide members only.
	FindForPhase(ctx context.Context, companyID, phaseID int64, workspaceID *int64) (*domain.TeamMember, error)
}

type ChannelRepo interface {
	Create(ctx context.Context, c *domain.Channel) error
	FindLive(ctx context.Context, workspaceID, mediaID int64) (*domain.Channel, error)
}

type ChecklistRepo interface {
	Create(ctx context.Context, c *domain.Checklist) error
	GetByID(ctx context.Context, id int64) (*domain.Checklist, error)
}

type FormRepo interface {
	Create(ctx context.Context, f *domain.Form) error
	GetByID(ctx context.Context, id int64) (*domain.Form, error)
}

type ProjectRepo interface {
	Create(ctx context.Context, p *domain.Project) error
	GetByID(ctx context.Context, id int64) (*domain.Project, error)
	// ClaimAnchor sets the anchor date only when it is still NULL and
	// reports whether this call set it.
	ClaimAnchor(ctx context.Context, projectID int64, anchor time.Time) (bool, error)
	// ReleaseAnchor clears the anchor back to NULL when it still holds the
	// value a previous ClaimAnchor wrote.
	ReleaseAnchor(ctx context.Context, projectID int64, anchor time.Time) error
	AddHistory(ctx context.Context, h *domain.ProjectHistory) error
}

type TaskRepo interface {
	// Create inserts the task with its flow, tags, channels, checklists,
	// forms and iterations, filling in every generated id.
	Create(ctx context.Context, t *domain.Task) error
	GetByID(ctx context.Context, id int64) (*domain.Task, error)
	AddIteration(ctx context.Context, it *domain.TaskIteration) error
}

type TicketPhaseRepo interface {
	Create(ctx context.Context, p *domain.TicketPhaseTemplate) error
	ListActive(ctx context.Context) ([]domain.TicketPhaseTemplate, error)
}

type TicketRepo interface {
	Create(ctx context.Context, t *domain.Ticket) error
	GetByID(ctx context.Context, id int64) (*domain.Ticket, error)
	AddHistory(ctx context.Context, h *domain.TicketHistory) error
}

type BoardRepo interface {
	Create(ctx context.Context, b *domain.Board) error
	GetByID(ctx context.Context, id int64) (*domain.Board, error)
	// GetVisible loads the board when its workspace is linked to any of
	// companyIDs.
	GetVisible(ctx context.Context, id int64, companyIDs []int64) (*domain.Board, error)
	ListCategories(ctx context.Context, boardID int64) ([]domain.NoteCategory, error)
	CreateCategory(ctx context.Context, c *domain.NoteCategory) error
}

type NoteRepo interface {
	Create(ctx context.Context, n *domain.Note) error
	GetByID(ctx context.Context, id int64) (*domain.Note, error)
}

type ArtifactRepo interface {
	Create(ctx context.Context, a *domain.Artifact) error
	ListByWorkspace(ctx context.Context, workspaceID int64) ([]domain.Artifact, error)
}

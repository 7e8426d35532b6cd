package seed

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/ekyte/intake/internal/db"
	"github.com/ekyte/intake/internal/domain"
	"github.com/ekyte/intake/internal/repository"
)

// Result counts what a seed run created.
type Result struct {
	Users      int
	Companies  int
	Workspaces int
	TaskTypes  int
	Boards     int
}

// Apply validates f and writes it in a single transaction. Users that
// already exist are reused.
func Apply(ctx context.Context, uow db.UnitOfWork, f *File, logger *slog.Logger) (*Result, error) {
	if errs := Validate(f); len(errs) > 0 {
		return nil, fmt.Errorf("invalid seed file: %w", errors.Join(errs...))
	}
	if logger == nil {
		logger = slog.Default()
	}

	res := &Result{}
	err := uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		s := &seeder{
			users:        repository.NewSQLiteUserRepo(tx),
			companies:    repository.NewSQLiteCompanyRepo(tx),
			squads:       repository.NewSQLiteSquadRepo(tx),
			tags:         repository.NewSQLiteTagRepo(tx),
			workspaces:   repository.NewSQLiteWorkspaceRepo(tx),
			phases:       repository.NewSQLitePhaseRepo(tx),
			checklists:   repository.NewSQLiteChecklistRepo(tx),
			forms:        repository.NewSQLiteFormRepo(tx),
			taskTypes:    repository.NewSQLiteTaskTypeRepo(tx),
			teamMembers:  repository.NewSQLiteTeamMemberRepo(tx),
			channels:     repository.NewSQLiteChannelRepo(tx),
			ticketPhases: repository.NewSQLiteTicketPhaseRepo(tx),
			boards:       repository.NewSQLiteBoardRepo(tx),
			ids:          make(map[string]string),
			res:          res,
		}
		return s.run(ctx, f)
	})
	if err != nil {
		return nil, err
	}
	logger.Info("seed applied",
		"users", res.Users,
		"companies", res.Companies,
		"workspaces", res.Workspaces,
		"task_types", res.TaskTypes,
		"boards", res.Boards,
	)
	return res, nil
}

type seeder struct {
	users        *repository.SQLiteUserRepo
	companies    *repository.SQLiteCompanyRepo
	squads       *repository.SQLiteSquadRepo
	tags         *repository.SQLiteTagRepo
	workspaces   *repository.SQLiteWorkspaceRepo
	phases       *repository.SQLitePhaseRepo
	checklists   *repository.SQLiteChecklistRepo
	forms        *repository.SQLiteFormRepo
	taskTypes    *repository.SQLiteTaskTypeRepo
	teamMembers  *repository.SQLiteTeamMemberRepo
	channels     *repository.SQLiteChannelRepo
	ticketPhases *repository.SQLiteTicketPhaseRepo
	boards       *repository.SQLiteBoardRepo

	// ids maps lower-cased emails to user ids.
	ids map[string]string
	res *Result
}

func (s *seeder) run(ctx context.Context, f *File) error {
	steps := []func(context.Context, *File) error{
		s.seedUsers,
		s.seedCompanies,
		s.seedCatalog,
		s.seedWorkspaces,
		s.seedMemberships,
		s.seedTaskTypes,
		s.seedStaffing,
		s.seedBoards,
	}
	for _, step := range steps {
		if err := step(ctx, f); err != nil {
			return err
		}
	}
	return nil
}

// userID resolves an email; empty input yields an empty id.
func (s *seeder) userID(ctx context.Context, email string) (string, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return "", nil
	}
	if id, ok := s.ids[email]; ok {
		return id, nil
	}
	u, err := s.users.GetByEmail(ctx, email)
	if errors.Is(err, repository.ErrNotFound) {
		return "", fmt.Errorf("user %s is not in the seed file or the database", email)
	}
	if err != nil {
		return "", err
	}
	s.ids[email] = u.ID
	return u.ID, nil
}

func (s *seeder) seedUsers(ctx context.Context, f *File) error {
	for _, u := range f.Users {
		email := strings.ToLower(strings.TrimSpace(u.Email))
		existing, err := s.users.GetByEmail(ctx, email)
		if err == nil {
			s.ids[email] = existing.ID
			continue
		}
		if !errors.Is(err, repository.ErrNotFound) {
			return err
		}
		user := &domain.User{
			ID:            uuid.NewString(),
			Email:         email,
			Name:          domain.CoalesceStr(u.Name, email),
			PlatformAdmin: u.PlatformAdmin,
		}
		if err := s.users.Create(ctx, user); err != nil {
			return fmt.Errorf("seeding user %s: %w", email, err)
		}
		s.ids[email] = user.ID
		s.res.Users++
	}
	return nil
}

func (s *seeder) seedCompanies(ctx context.Context, f *File) error {
	for _, c := range f.Companies {
		owner, err := s.userID(ctx, c.Owner)
		if err != nil {
			return fmt.Errorf("company %d owner: %w", c.ID, err)
		}
		analyst, err := s.userID(ctx, c.DefaultTicketAnalyst)
		if err != nil {
			return fmt.Errorf("company %d ticket analyst: %w", c.ID, err)
		}
		company := &domain.Company{
			ID:                     c.ID,
			Name:                   c.Name,
			OwnerID:                owner,
			HeadquarterID:          c.Headquarter,
			TicketEmail:            c.TicketEmail,
			DefaultTicketAnalystID: analyst,
			FinancialManagement:    c.FinancialManagement,
			DefaultHourlyRate:      c.DefaultHourlyRate,
			DefaultPhaseEffort:     c.DefaultPhaseEffort,
			TaskCreatePolicy:       domain.TaskCreatePolicy(c.TaskCreatePolicy),
			TeamProfile:            domain.TeamProfile(c.TeamProfile),
			DefaultLanguage:        domain.CoalesceStr(c.DefaultLanguage, "pt-BR"),
			EnableGenAI:            c.EnableGenAI,
		}
		for _, d := range c.Workdays {
			company.Workdays = append(company.Workdays, weekdays[strings.ToLower(d)])
		}
		for _, h := range c.Holidays {
			day, err := time.Parse("2006-01-02", h)
			if err != nil {
				return fmt.Errorf("company %d holiday %q: %w", c.ID, h, err)
			}
			company.Holidays = append(company.Holidays, day)
		}
		if err := s.companies.Create(ctx, company); err != nil {
			return fmt.Errorf("seeding company %d: %w", c.ID, err)
		}
		if c.Plan > 0 {
			if err := s.companies.AddSubscription(ctx, &domain.Subscription{CompanyID: c.ID, PlanID: c.Plan}); err != nil {
				return fmt.Errorf("seeding company %d subscription: %w", c.ID, err)
			}
		}
		s.res.Companies++
	}
	for _, sq := range f.Squads {
		if err := s.squads.Create(ctx, &domain.Squad{ID: sq.ID, CompanyID: sq.Company, Name: sq.Name}); err != nil {
			return fmt.Errorf("seeding squad %q: %w", sq.Name, err)
		}
	}
	return nil
}

func (s *seeder) seedCatalog(ctx context.Context, f *File) error {
	for _, t := range f.Tags {
		if err := s.tags.Create(ctx, &domain.Tag{ID: t.ID, CompanyID: t.Company, Name: t.Name, Type: domain.TagType(t.Type)}); err != nil {
			return fmt.Errorf("seeding tag %q: %w", t.Name, err)
		}
	}
	for _, p := range f.Phases {
		if err := s.phases.Upsert(ctx, p.ID, p.Name); err != nil {
			return err
		}
	}
	for _, c := range f.Checklists {
		list := &domain.Checklist{ID: c.ID, CompanyID: c.Company, Name: c.Name, Active: true}
		for i, item := range c.Items {
			list.Items = append(list.Items, domain.ChecklistItem{Name: item, Sequential: i + 1})
		}
		if err := s.checklists.Create(ctx, list); err != nil {
			return fmt.Errorf("seeding checklist %q: %w", c.Name, err)
		}
	}
	for _, fm := range f.Forms {
		form := &domain.Form{ID: fm.ID, CompanyID: fm.Company, Name: fm.Name, Active: true, FreePlan: fm.FreePlan}
		for _, field := range fm.Fields {
			form.Fields = append(form.Fields, domain.FormField{
				Label:   field.Label,
				Role:    domain.FieldRole(field.Role),
				Options: field.Options,
			})
		}
		if err := s.forms.Create(ctx, form); err != nil {
			return fmt.Errorf("seeding form %q: %w", fm.Name, err)
		}
	}
	for _, tp := range f.TicketPhases {
		p := &domain.TicketPhaseTemplate{ID: tp.ID, Name: tp.Name, Sequential: tp.Sequential, Active: !tp.Inactive}
		if err := s.ticketPhases.Create(ctx, p); err != nil {
			return fmt.Errorf("seeding ticket phase %q: %w", tp.Name, err)
		}
	}
	return nil
}

func (s *seeder) seedWorkspaces(ctx context.Context, f *File) error {
	for _, w := range f.Workspaces {
		analyst, err := s.userID(ctx, w.TicketAnalyst)
		if err != nil {
			return fmt.Errorf("workspace %q analyst: %w", w.Name, err)
		}
		ws := &domain.Workspace{
			ID:                w.ID,
			CompanyID:         w.Company,
			Name:              w.Name,
			Description:       w.Description,
			Active:            !w.Inactive,
			TicketAnalystID:   analyst,
			DefaultLanguage:   w.DefaultLanguage,
			ShareAudiences:    w.ShareAudiences,
			ShareChannels:     w.ShareChannels,
			IsDefaultTemplate: w.DefaultTemplate,
			TagIDs:            w.Tags,
		}
		ws.LinkCompany(w.Company, true)
		for _, id := range w.SharedWith {
			ws.LinkCompany(id, true)
		}
		if err := s.workspaces.Create(ctx, ws); err != nil {
			return fmt.Errorf("seeding workspace %q: %w", w.Name, err)
		}
		s.res.Workspaces++
	}
	return nil
}

func (s *seeder) seedMemberships(ctx context.Context, f *File) error {
	for _, m := range f.Memberships {
		id, err := s.userID(ctx, m.User)
		if err != nil {
			return err
		}
		err = s.users.LinkCompany(ctx, &domain.UserCompany{
			UserID:      id,
			CompanyID:   m.Company,
			Profile:     domain.CompanyProfile(m.Profile),
			WorkspaceID: m.Workspace,
			HourlyRate:  m.HourlyRate,
		})
		if err != nil {
			return fmt.Errorf("seeding membership of %s in %d: %w", m.User, m.Company, err)
		}
	}
	return nil
}

func (s *seeder) seedTaskTypes(ctx context.Context, f *File) error {
	for _, t := range f.TaskTypes {
		tt := &domain.TaskType{
			ID:               t.ID,
			CompanyID:        t.Company,
			WorkflowShared:   t.SharedWorkflow,
			Name:             t.Name,
			Description:      t.Description,
			Allocation:       domain.AllocationModel(t.Allocation),
			DefaultEffort:    t.DefaultEffort,
			LeadTime:         t.LeadTime,
			PhaseStartPolicy: domain.PhaseStartPolicy(t.PhaseStartPolicy),
			MediaIDs:         t.Media,
			TagIDs:           t.Tags,
		}
		for _, form := range t.Forms {
			tt.Forms = append(tt.Forms, domain.TaskTypeForm{FormID: form.Form, Amount: max(form.Amount, 1)})
		}

		phases := append([]TaskTypePhase(nil), t.Phases...)
		sort.SliceStable(phases, func(i, j int) bool { return phases[i].Sequential < phases[j].Sequential })
		for i, p := range phases {
			executor, err := s.userID(ctx, p.Executor)
			if err != nil {
				return fmt.Errorf("task type %q phase %d executor: %w", t.Name, p.Phase, err)
			}
			tt.Phases = append(tt.Phases, domain.FlowPhaseTemplate{
				PhaseID:     p.Phase,
				Sequential:  p.Sequential,
				FirstPhase:  i == 0,
				LastPhase:   i == len(phases)-1,
				CoPhaseID:   p.CoPhase,
				Duration:    p.Duration,
				Effort:      p.Effort,
				ExecutorID:  executor,
				ChecklistID: p.Checklist,
				DaysToStart: p.DaysToStart,
				Active:      !p.Inactive,
			})
		}
		if err := s.taskTypes.Create(ctx, tt); err != nil {
			return fmt.Errorf("seeding task type %q: %w", t.Name, err)
		}
		s.res.TaskTypes++
	}
	return nil
}

func (s *seeder) seedStaffing(ctx context.Context, f *File) error {
	for _, m := range f.TeamMembers {
		id, err := s.userID(ctx, m.User)
		if err != nil {
			return err
		}
		member := &domain.TeamMember{CompanyID: m.Company, PhaseID: m.Phase, WorkspaceID: m.Workspace, UserID: id}
		if err := s.teamMembers.Create(ctx, member); err != nil {
			return fmt.Errorf("seeding team member %s: %w", m.User, err)
		}
	}
	for _, c := range f.Channels {
		ch := &domain.Channel{WorkspaceID: c.Workspace, MediaID: c.Media, Name: c.Name}
		if err := s.channels.Create(ctx, ch); err != nil {
			return fmt.Errorf("seeding channel %q: %w", c.Name, err)
		}
	}
	return nil
}

func (s *seeder) seedBoards(ctx context.Context, f *File) error {
	for _, b := range f.Boards {
		creator, err := s.userID(ctx, b.CreatedBy)
		if err != nil {
			return err
		}
		board := &domain.Board{ID: b.ID, WorkspaceID: b.Workspace, Title: b.Title, Active: true, CreatedByID: creator}
		if err := s.boards.Create(ctx, board); err != nil {
			return fmt.Errorf("seeding board %q: %w", b.Title, err)
		}
		for i, title := range b.Categories {
			c := &domain.NoteCategory{BoardID: board.ID, Title: title, Sequential: i + 1}
			if err := s.boards.CreateCategory(ctx, c); err != nil {
				return fmt.Errorf("seeding category %q: %w", title, err)
			}
		}
		s.res.Boards++
	}
	return nil
}

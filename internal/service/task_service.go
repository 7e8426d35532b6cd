package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/ekyte/intake/internal/artifact"
	"github.com/ekyte/intake/internal/calendar"
	"github.com/ekyte/intake/internal/contract"
	"github.com/ekyte/intake/internal/db"
	"github.com/ekyte/intake/internal/domain"
	"github.com/ekyte/intake/internal/flow"
	"github.com/ekyte/intake/internal/scheduler"
)

type taskService struct {
	c        Collaborators
	observer UseCaseObserver
}

func NewTaskService(c Collaborators, observers ...UseCaseObserver) TaskService {
	return &taskService{c: c.withDefaults(), observer: useCaseObserverOrNoop(observers)}
}

// taskInput is everything a task is built from once the request has been
// validated against the stored data.
type taskInput struct {
	req           contract.CreateTaskRequest
	company       *domain.Company
	user          *domain.User
	workspace     *domain.Workspace
	project       *domain.Project
	taskType      *domain.TaskType
	cal           *calendar.Calendar
	due           *time.Time
	priorityGroup int
	priority      domain.Priority
}

func (s *taskService) Create(ctx context.Context, req contract.CreateTaskRequest) (out *contract.Created, err error) {
	uc := startUseCase(s.observer, "task.create", map[string]any{
		"company_id":   req.CompanyID,
		"workspace_id": req.WorkspaceID,
		"task_type_id": req.TaskTypeID,
		"planned":      req.PlanTask,
	})
	defer func() {
		if out != nil {
			uc.event.Fields["task_id"] = out.ID
		}
		uc.done(ctx, err)
	}()

	if err := checkTenant(ctx, req.Auth); err != nil {
		return nil, err
	}
	due, err := validateTaskRequest(req, s.c.Settings.Location)
	if err != nil {
		return nil, err
	}

	if !req.PlanTask && req.ProjectID != nil && *req.ProjectID > 0 {
		release, err := s.c.Locks.Acquire(ctx, *req.ProjectID)
		if err != nil {
			return nil, fmt.Errorf("acquiring scheduling context of project %d: %w", *req.ProjectID, err)
		}
		defer release()
	}

	var task *domain.Task
	err = s.c.UoW.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		r := newTxRepos(tx)
		in, err := s.load(ctx, r, req)
		if err != nil {
			return err
		}
		in.due = due
		if req.PlanTask {
			task, err = s.createPlanned(ctx, r, in)
		} else {
			task, err = s.createUnplanned(ctx, r, in)
		}
		if err != nil {
			return err
		}
		if task.ExecutorID != "" {
			notifyAfterCommit(ctx, s.c, Notification{
				Kind:        NotifyTaskCreated,
				CompanyID:   in.company.ID,
				RecipientID: task.ExecutorID,
				ActorID:     in.user.ID,
				EntityID:    task.ID,
				Title:       task.Title,
			})
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &contract.Created{Entity: "task", ID: task.ID}, nil
}

// validateTaskRequest checks the fields that need no stored data and
// parses the due date.
func validateTaskRequest(req contract.CreateTaskRequest, loc *time.Location) (*time.Time, error) {
	switch {
	case strings.TrimSpace(req.UserEmail) == "":
		return nil, contract.Validation(6, "user email is required")
	case strings.TrimSpace(req.Title) == "":
		return nil, contract.Validation(7, "title is required")
	case req.WorkspaceID <= 0:
		return nil, contract.Validation(7, "workspace is required")
	case req.TaskTypeID <= 0:
		return nil, contract.Validation(8, "task type is required")
	}
	due, err := contract.ParseDate(req.CurrentDueDate, loc)
	if err != nil {
		return nil, contract.Validation(7, "due date %q is not a valid date", req.CurrentDueDate)
	}
	if req.PlanTask && due == nil {
		return nil, contract.Validation(7, "due date is required")
	}
	return due, nil
}

// load resolves and authorizes everything the request refers to. Nothing
// is written.
func (s *taskService) load(ctx context.Context, r *txRepos, req contract.CreateTaskRequest) (*taskInput, error) {
	company, err := loadCompany(ctx, r, req.CompanyID)
	if err != nil {
		return nil, err
	}
	user, link, err := requireMember(ctx, r, company.ID, req.UserEmail)
	if err != nil {
		return nil, err
	}
	if company.TaskCreatePolicy == domain.TaskCreateAdminAndCreatorOnly && !link.CanAdminister(user) {
		return nil, contract.Permission(20, "user %s may not create tasks in company %d", user.Email, company.ID)
	}

	ok, err := r.workspaces.AccessibleBy(ctx, req.WorkspaceID, company.ID)
	if err != nil {
		return nil, fmt.Errorf("checking workspace: %w", err)
	}
	if !ok {
		return nil, contract.NotFound(30, "workspace %d not found", req.WorkspaceID)
	}
	workspace, err := r.workspaces.GetByID(ctx, req.WorkspaceID)
	if err != nil {
		return nil, fmt.Errorf("loading workspace: %w", err)
	}

	project, err := s.loadProject(ctx, r, req)
	if err != nil {
		return nil, err
	}
	tt, err := resolveTaskType(ctx, r, req.TaskTypeID, company)
	if err != nil {
		return nil, err
	}
	group, priority, err := bucketPriority(req.PriorityGroup)
	if err != nil {
		return nil, err
	}

	return &taskInput{
		req:           req,
		company:       company,
		user:          user,
		workspace:     workspace,
		project:       project,
		taskType:      tt,
		cal:           calendarFor(company),
		priorityGroup: group,
		priority:      priority,
	}, nil
}

func (s *taskService) loadProject(ctx context.Context, r *txRepos, req contract.CreateTaskRequest) (*domain.Project, error) {
	if req.ProjectID == nil || *req.ProjectID <= 0 {
		if !req.PlanTask {
			return nil, contract.Validation(95, "unplanned tasks require a project")
		}
		return nil, nil
	}
	project, err := r.projects.GetByID(ctx, *req.ProjectID)
	if isNotFound(err) {
		return nil, contract.Validation(95, "project %d not found in workspace %d", *req.ProjectID, req.WorkspaceID)
	}
	if err != nil {
		return nil, fmt.Errorf("loading project: %w", err)
	}
	if project.WorkspaceID != req.WorkspaceID {
		return nil, contract.Validation(95, "project %d not found in workspace %d", project.ID, req.WorkspaceID)
	}
	return project, nil
}

func (s *taskService) createPlanned(ctx context.Context, r *txRepos, in *taskInput) (*domain.Task, error) {
	tt := in.taskType
	start, err := contract.ParseDate(in.req.PhaseStartDate, s.c.Settings.Location)
	if err != nil {
		return nil, contract.Validation(45, "start date %q is not a valid date", in.req.PhaseStartDate)
	}
	sched, err := scheduler.Compute(in.cal, scheduler.Input{
		Allocation:    tt.Allocation,
		Start:         start,
		Due:           in.due,
		LeadTime:      tt.LeadTime,
		DefaultEffort: tt.DefaultEffort,
		Effort:        in.req.EstimatedTime,
	})
	if err != nil {
		return nil, scheduleError(err, tt.Allocation)
	}

	f, err := s.buildFlow(ctx, r, in, true, sched.Due)
	if err != nil {
		return nil, err
	}

	task := newTask(in, sched, f)
	task.Planned = true
	if tt.Allocation == domain.AllocationWorkload {
		task.EstimatedTime = f.TotalEffort()
		head := f.Head()
		task.PhaseStartDate = head.StartDate
		task.PhaseDueDate = head.DueDate
	} else {
		ps, pd := scheduler.AgilePhaseWindow(in.cal, sched.Due, tt.LeadTime)
		task.PhaseStartDate = &ps
		task.PhaseDueDate = &pd
	}

	gen := r.generator(s.c.Settings.PlacementHour)
	channels, err := gen.Channels(ctx, in.workspace.ID, tt.MediaIDs)
	if err != nil {
		return nil, err
	}
	task.ChannelIDs = artifact.ChannelIDs(channels)
	task.TagIDs = artifact.Tags(in.workspace.TagIDs, tt.TagIDs)
	if task.Checklists, err = gen.Checklists(ctx, in.company, tt, f.Phases); err != nil {
		return nil, err
	}

	paid, err := r.companies.HasPaidPlan(ctx, in.company.ID)
	if err != nil {
		return nil, fmt.Errorf("checking company plan: %w", err)
	}
	forms, err := gen.Forms(ctx, artifact.FormRequest{
		CompanyID:   in.company.ID,
		PaidPlan:    paid,
		Mappings:    tt.Forms,
		Channels:    channels,
		Due:         sched.Due,
		CreatedByID: in.user.ID,
	})
	if isNotFound(err) {
		return nil, contract.NotFound(30, "a form of task type %d was not found", tt.ID)
	}
	if err != nil {
		return nil, err
	}
	task.Forms = forms.Forms
	task.PlacementStart = forms.PlacementStart

	if task.Description, err = s.description(ctx, r, in, in.req.Description, in.workspace.ID); err != nil {
		return nil, err
	}

	if err := r.tasks.Create(ctx, task); err != nil {
		return nil, fmt.Errorf("creating task: %w", err)
	}
	for _, form := range task.Forms {
		err := r.tasks.AddIteration(ctx, &domain.TaskIteration{
			TaskID:      task.ID,
			UserID:      in.user.ID,
			Field:       "task_form_id",
			Value:       strconv.FormatInt(form.ID, 10),
			Description: fmt.Sprintf("form %q (%d)", form.FormName, form.ID),
		})
		if err != nil {
			return nil, fmt.Errorf("recording form iteration: %w", err)
		}
	}
	return task, nil
}

// createUnplanned schedules the task relative to its project's anchor date.
// A project without an anchor gets the task's start as a temporary one,
// cleared again before the transaction ends.
func (s *taskService) createUnplanned(ctx context.Context, r *txRepos, in *taskInput) (*domain.Task, error) {
	tt := in.taskType
	start, err := s.unplannedStart(in)
	if err != nil {
		return nil, err
	}
	sched, err := scheduler.Compute(in.cal, scheduler.Input{
		Allocation:    tt.Allocation,
		Start:         start,
		Due:           in.due,
		LeadTime:      tt.LeadTime,
		DefaultEffort: tt.DefaultEffort,
		Effort:        in.req.EstimatedTime,
	})
	if err != nil {
		return nil, scheduleError(err, tt.Allocation)
	}

	anchor, claimed, err := s.anchor(ctx, r, in.project, sched.Start)
	if err != nil {
		return nil, err
	}

	f, err := s.buildFlow(ctx, r, in, false, sched.Due)
	if err != nil {
		return nil, err
	}

	task := newTask(in, sched, f)
	task.Planned = false
	task.Quantity = in.req.Quantity
	task.DaysToStart = scheduler.DaysToStart(in.cal, anchor, sched.Start)
	if tt.Allocation == domain.AllocationWorkload {
		if total := f.TotalEffort(); total > 0 {
			task.EstimatedTime = total
		}
	}

	channels, err := r.generator(s.c.Settings.PlacementHour).Channels(ctx, in.project.WorkspaceID, tt.MediaIDs)
	if err != nil {
		return nil, err
	}
	task.ChannelIDs = artifact.ChannelIDs(channels)

	body := domain.CoalesceStr(in.req.Description, tt.Description)
	if task.Description, err = s.description(ctx, r, in, body, in.project.WorkspaceID); err != nil {
		return nil, err
	}

	if err := r.tasks.Create(ctx, task); err != nil {
		return nil, fmt.Errorf("creating task: %w", err)
	}
	err = r.projects.AddHistory(ctx, &domain.ProjectHistory{
		ProjectID: in.project.ID,
		TaskID:    domain.Ptr(task.ID),
		UserID:    in.user.ID,
		Action:    "task_created",
	})
	if err != nil {
		return nil, fmt.Errorf("recording project history: %w", err)
	}
	if claimed {
		if err := r.projects.ReleaseAnchor(ctx, in.project.ID, anchor); err != nil {
			return nil, err
		}
	}
	return task, nil
}

// unplannedStart parses the start date. A Workload task scheduled from its
// start alone needs a plain calendar date.
func (s *taskService) unplannedStart(in *taskInput) (*time.Time, error) {
	raw := in.req.PhaseStartDate
	if in.taskType.Allocation == domain.AllocationWorkload && in.due == nil {
		start, err := contract.ParseStrictDate(raw, s.c.Settings.Location)
		if err != nil {
			return nil, contract.Validation(65, "start date %q must be formatted as %s", raw, contract.DateLayout)
		}
		return start, nil
	}
	start, err := contract.ParseDate(raw, s.c.Settings.Location)
	if err != nil {
		return nil, contract.Validation(45, "start date %q is not a valid date", raw)
	}
	return start, nil
}

// anchor returns the project's anchor date, claiming start as a temporary
// anchor when none is set.
func (s *taskService) anchor(ctx context.Context, r *txRepos, project *domain.Project, start time.Time) (time.Time, bool, error) {
	if project.AnchorDate != nil {
		return *project.AnchorDate, false, nil
	}
	claimed, err := r.projects.ClaimAnchor(ctx, project.ID, start)
	if err != nil {
		return time.Time{}, false, err
	}
	if claimed {
		return start, true, nil
	}
	// Another creation set an anchor in the meantime.
	current, err := r.projects.GetByID(ctx, project.ID)
	if err != nil {
		return time.Time{}, false, fmt.Errorf("reloading project: %w", err)
	}
	if current.AnchorDate == nil {
		return start, false, nil
	}
	return *current.AnchorDate, false, nil
}

func (s *taskService) buildFlow(ctx context.Context, r *txRepos, in *taskInput, planned bool, due time.Time) (*flow.Flow, error) {
	f, err := r.flowBuilder().Build(ctx, flow.Request{
		Company:        in.company,
		TaskType:       in.taskType,
		Project:        in.project,
		WorkspaceID:    in.workspace.ID,
		Planned:        planned,
		RequesterID:    in.user.ID,
		Due:            due,
		Calendar:       in.cal,
		FallbackEffort: s.c.Settings.DefaultPhaseEffort,
	})
	if errors.Is(err, domain.ErrInvalidPhaseTemplates) {
		return nil, contract.Validation(80, "task type %d has an invalid flow", in.taskType.ID)
	}
	if err != nil {
		return nil, fmt.Errorf("building flow: %w", err)
	}
	return f, nil
}

func (s *taskService) description(ctx context.Context, r *txRepos, in *taskInput, body string, workspaceID int64) (string, error) {
	return extractAttachments(ctx, r, s.c, artifact.NormalizeRichText(body), artifact.Target{
		Context:     domain.AttachmentTask,
		WorkspaceID: workspaceID,
		CreatedByID: in.user.ID,
	})
}

// newTask fills in the fields shared by planned and unplanned tasks.
func newTask(in *taskInput, sched scheduler.Schedule, f *flow.Flow) *domain.Task {
	head := f.Head()
	task := &domain.Task{
		CompanyID:       in.company.ID,
		WorkspaceID:     in.workspace.ID,
		TaskTypeID:      in.taskType.ID,
		Title:           strings.TrimSpace(in.req.Title),
		Allocation:      in.taskType.Allocation,
		Situation:       domain.TaskActive,
		EstimatedTime:   sched.Effort,
		PriorityGroup:   in.priorityGroup,
		Priority:        in.priority,
		StartDate:       sched.Start,
		DueDate:         sched.Due,
		OriginalDueDate: sched.Due,
		DaysToComplete:  sched.DaysToComplete,
		PhaseID:         head.PhaseID,
		ExecutorID:      head.ExecutorID,
		CoPhaseID:       f.CoPhaseID,
		CoExecutorID:    f.CoExecutorID,
		CreatedByID:     in.user.ID,
		Flow:            f.Phases,
		Iterations: []domain.TaskIteration{{
			UserID:      in.user.ID,
			Field:       "task",
			Description: "task created",
		}},
	}
	if in.project != nil {
		task.ProjectID = domain.Ptr(in.project.ID)
	}
	if in.taskType.Allocation != domain.AllocationWorkload && in.company.FinancialManagement {
		rate := flow.TaskRate(in.company, in.project)
		task.HourlyRate = domain.Ptr(rate.Value)
		task.HourlyRateOrigin = rate.Origin
		if rate.Origin == domain.RateProjectInformed {
			task.HourlyBudget = domain.Ptr(rate.Value)
		}
	}
	return task
}

func scheduleError(err error, alloc domain.AllocationModel) error {
	workload := alloc == domain.AllocationWorkload
	switch {
	case errors.Is(err, scheduler.ErrStartRequired) && workload:
		return contract.Validation(75, "start date is required")
	case errors.Is(err, scheduler.ErrStartRequired):
		return contract.Validation(45, "start date is required")
	case errors.Is(err, scheduler.ErrDueRequired) && workload:
		return contract.Validation(70, "due date is required")
	case errors.Is(err, scheduler.ErrDueRequired):
		return contract.Validation(50, "due date is required")
	}
	return fmt.Errorf("computing schedule: %w", err)
}

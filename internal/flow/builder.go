package flow

import (
	"context"
	"fmt"
	"time"

	"github.com/ekyte/intake/internal/calendar"
	"github.com/ekyte/intake/internal/domain"
	"github.com/ekyte/intake/internal/scheduler"
)

// FallbackPhaseEffort is used for Workload phases when neither the template
// nor the company configures an effort.
const FallbackPhaseEffort = 60

// Request describes the task whose flow is being built.
type Request struct {
	Company     *domain.Company
	TaskType    *domain.TaskType
	Project     *domain.Project
	WorkspaceID int64
	Planned     bool
	// RequesterID is the user an unplanned task is created for; it takes
	// the first active phase.
	RequesterID string
	Due         time.Time
	Calendar    *calendar.Calendar
	// FallbackEffort replaces FallbackPhaseEffort when positive.
	FallbackEffort int
}

// Flow is an instantiated task flow.
type Flow struct {
	Phases       []domain.TaskFlowPhase
	CoPhaseID    *int64
	CoExecutorID string
}

// Head is the phase the task starts in.
func (f *Flow) Head() domain.TaskFlowPhase {
	return f.Phases[0]
}

// TotalEffort sums the phase efforts.
func (f *Flow) TotalEffort() int {
	return domain.TotalEffort(f.Phases)
}

// Builder instantiates task flows from task type templates.
type Builder struct {
	executors Resolver[PhaseQuery]
	rates     *RateResolver
}

func NewBuilder(executors Resolver[PhaseQuery], rates *RateResolver) *Builder {
	return &Builder{executors: executors, rates: rates}
}

// Build creates one phase per active template in sequential order.
func (b *Builder) Build(ctx context.Context, req Request) (*Flow, error) {
	tt := req.TaskType
	if err := tt.ValidatePhases(); err != nil {
		return nil, err
	}
	templates := tt.ActivePhases()
	workload := tt.Allocation == domain.AllocationWorkload
	flatSpacing := req.Project != nil && !req.Project.IsModel && workload &&
		tt.PhaseStartPolicy == domain.PhaseStartNextDayAfterPreviousPhase

	phases := make([]domain.TaskFlowPhase, len(templates))
	for i, tpl := range templates {
		p := domain.TaskFlowPhase{
			PhaseID:         tpl.PhaseID,
			Sequential:      tpl.Sequential,
			FirstPhase:      tpl.FirstPhase,
			LastPhase:       tpl.LastPhase,
			NextPhaseID:     tpl.NextPhaseID,
			PreviousPhaseID: tpl.PreviousPhaseID,
			CoPhaseID:       tpl.CoPhaseID,
			Active:          true,
			Duration:        tpl.Duration,
			Effort:          tpl.Effort,
			DaysToStart:     tpl.DaysToStart,
		}
		if flatSpacing {
			p.DaysToStart = domain.Ptr(min(i, 1))
		}

		q := PhaseQuery{
			CompanyID:          req.Company.ID,
			WorkspaceID:        req.WorkspaceID,
			PhaseID:            tpl.PhaseID,
			OwnerID:            req.Company.OwnerID,
			TemplateExecutorID: tpl.ExecutorID,
		}
		if !req.Planned && i == 0 {
			q.RequesterID = req.RequesterID
		}
		executor, _, err := b.executors.Resolve(ctx, q)
		if err != nil {
			return nil, fmt.Errorf("resolving executor of phase %d: %w", tpl.PhaseID, err)
		}
		p.ExecutorID = executor
		phases[i] = p
	}

	if workload && req.Planned {
		b.scheduleWorkload(req, phases)
	}
	if workload && req.Company.FinancialManagement {
		for i := range phases {
			rate, err := b.rates.PhaseRate(ctx, req.Company, req.Project, phases[i].ExecutorID)
			if err != nil {
				return nil, err
			}
			phases[i].HourlyRate = domain.Ptr(rate.Value)
			phases[i].RateOrigin = rate.Origin
		}
	}

	f := &Flow{Phases: phases}
	if co := phases[0].CoPhaseID; co != nil {
		for _, p := range phases {
			if p.PhaseID == *co {
				f.CoPhaseID = domain.Ptr(p.PhaseID)
				f.CoExecutorID = p.ExecutorID
				break
			}
		}
	}
	return f, nil
}

// scheduleWorkload lays the phases back to back ending on the due date and
// fills in missing efforts.
func (b *Builder) scheduleWorkload(req Request, phases []domain.TaskFlowPhase) {
	durations := make([]int, len(phases))
	for i, p := range phases {
		durations[i] = p.Duration
	}
	windows := scheduler.PhaseWindows(req.Calendar, req.Due, durations)
	for i := range phases {
		phases[i].StartDate = domain.Ptr(windows[i].Start)
		phases[i].DueDate = domain.Ptr(windows[i].Due)
		if phases[i].Effort <= 0 {
			phases[i].Effort = fallbackEffort(req)
		}
	}
}

func fallbackEffort(req Request) int {
	switch {
	case req.Company.DefaultPhaseEffort > 0:
		return req.Company.DefaultPhaseEffort
	case req.FallbackEffort > 0:
		return req.FallbackEffort
	default:
		return FallbackPhaseEffort
	}
}

package domain

import (
	"errors"
	"fmt"
	"sort"
	"time"
)

// ErrInvalidPhaseTemplates is returned when a task type's phase templates
// break the ordering invariants.
var ErrInvalidPhaseTemplates = errors.New("invalid phase templates")

type TaskType struct {
	ID               int64
	CompanyID        int64
	WorkflowShared   bool
	Name             string
	Description      string
	Allocation       AllocationModel
	DefaultEffort    int
	LeadTime         int
	PhaseStartPolicy PhaseStartPolicy
	DeletedAt        *time.Time

	Phases   []FlowPhaseTemplate
	MediaIDs []int64
	TagIDs   []int64
	Forms    []TaskTypeForm
}

// FlowPhaseTemplate is one step of a task type's execution pipeline.
type FlowPhaseTemplate struct {
	ID              int64
	TaskTypeID      int64
	PhaseID         int64
	Sequential      int
	FirstPhase      bool
	LastPhase       bool
	NextPhaseID     *int64
	PreviousPhaseID *int64
	CoPhaseID       *int64
	Duration        int
	Effort          int
	ExecutorID      string
	ChecklistID     *int64
	DaysToStart     *int
	Active          bool
}

// TaskTypeForm maps a form onto a task type, instantiated Amount times.
type TaskTypeForm struct {
	FormID int64
	Amount int
}

// ActivePhases returns the active templates ordered by sequential.
func (tt *TaskType) ActivePhases() []FlowPhaseTemplate {
	out := make([]FlowPhaseTemplate, 0, len(tt.Phases))
	for _, p := range tt.Phases {
		if p.Active {
			out = append(out, p)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Sequential < out[j].Sequential
	})
	return out
}

// ValidatePhases checks that active templates have unique, strictly
// increasing sequentials and exactly one first-phase flag.
func (tt *TaskType) ValidatePhases() error {
	active := tt.ActivePhases()
	if len(active) == 0 {
		return fmt.Errorf("task type %d has no active phases: %w", tt.ID, ErrInvalidPhaseTemplates)
	}
	firsts := 0
	for i, p := range active {
		if i > 0 && p.Sequential <= active[i-1].Sequential {
			return fmt.Errorf("task type %d: duplicate sequential %d: %w", tt.ID, p.Sequential, ErrInvalidPhaseTemplates)
		}
		if p.FirstPhase {
			firsts++
		}
	}
	if firsts != 1 {
		return fmt.Errorf("task type %d: %d first phases: %w", tt.ID, firsts, ErrInvalidPhaseTemplates)
	}
	return nil
}

// TemplateFor returns the template for a phase id.
func (tt *TaskType) TemplateFor(phaseID int64) (FlowPhaseTemplate, bool) {
	for _, p := range tt.Phases {
		if p.PhaseID == phaseID {
			return p, true
		}
	}
	return FlowPhaseTemplate{}, false
}

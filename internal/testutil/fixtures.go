package testutil

import (
	"fmt"
	"sync/atomic"
	"time"

	"github.com/ekyte/intake/internal/domain"
	"github.com/google/uuid"
)

var fixtureSeq atomic.Int64

// Date builds a midnight UTC date for readable test tables.
func Date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// Company options
type CompanyOption func(*domain.Company)

func WithOwner(userID string) CompanyOption {
	return func(c *domain.Company) { c.OwnerID = userID }
}

func WithHeadquarter(id int64) CompanyOption {
	return func(c *domain.Company) { c.HeadquarterID = &id }
}

func WithTicketEmail(alias string) CompanyOption {
	return func(c *domain.Company) { c.TicketEmail = alias }
}

func WithDefaultTicketAnalyst(userID string) CompanyOption {
	return func(c *domain.Company) { c.DefaultTicketAnalystID = userID }
}

// WithFinancialManagement turns on rate tracking with the given company
// default hourly rate.
func WithFinancialManagement(defaultRate float64) CompanyOption {
	return func(c *domain.Company) {
		c.FinancialManagement = true
		c.DefaultHourlyRate = defaultRate
	}
}

func WithDefaultPhaseEffort(min int) CompanyOption {
	return func(c *domain.Company) { c.DefaultPhaseEffort = min }
}

func WithTaskCreatePolicy(p domain.TaskCreatePolicy) CompanyOption {
	return func(c *domain.Company) { c.TaskCreatePolicy = p }
}

func WithTeamProfile(p domain.TeamProfile) CompanyOption {
	return func(c *domain.Company) { c.TeamProfile = p }
}

func WithHolidays(days ...time.Time) CompanyOption {
	return func(c *domain.Company) { c.Holidays = append(c.Holidays, days...) }
}

func WithGenAI() CompanyOption {
	return func(c *domain.Company) { c.EnableGenAI = true }
}

func NewTestCompany(name string, opts ...CompanyOption) *domain.Company {
	c := &domain.Company{
		Name:             name,
		TaskCreatePolicy: domain.TaskCreateEveryone,
		TeamProfile:      domain.TeamInHouse,
		DefaultLanguage:  "pt-BR",
		CreatedAt:        time.Now().UTC(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// User options
type UserOption func(*domain.User)

func AsPlatformAdmin() UserOption {
	return func(u *domain.User) { u.PlatformAdmin = true }
}

func NewTestUser(email string, opts ...UserOption) *domain.User {
	u := &domain.User{
		ID:        uuid.New().String(),
		Email:     email,
		Name:      email,
		CreatedAt: time.Now().UTC(),
	}
	for _, opt := range opts {
		opt(u)
	}
	return u
}

// Workspace options
type WorkspaceOption func(*domain.Workspace)

func WithTicketAnalyst(userID string) WorkspaceOption {
	return func(w *domain.Workspace) { w.TicketAnalystID = userID }
}

func WithWorkspaceTags(ids ...int64) WorkspaceOption {
	return func(w *domain.Workspace) { w.TagIDs = append(w.TagIDs, ids...) }
}

func Inactive() WorkspaceOption {
	return func(w *domain.Workspace) { w.Active = false }
}

func SharedWith(companyID int64) WorkspaceOption {
	return func(w *domain.Workspace) { w.LinkCompany(companyID, true) }
}

func AsDefaultTemplate() WorkspaceOption {
	return func(w *domain.Workspace) { w.IsDefaultTemplate = true }
}

// NewTestWorkspace returns an active workspace linked to its owning company.
func NewTestWorkspace(companyID int64, name string, opts ...WorkspaceOption) *domain.Workspace {
	w := &domain.Workspace{
		CompanyID: companyID,
		Name:      name,
		Active:    true,
		CreatedAt: time.Now().UTC(),
	}
	w.LinkCompany(companyID, true)
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Phase builds an active phase template.
func Phase(phaseID int64, sequential, duration, effort int) domain.FlowPhaseTemplate {
	return domain.FlowPhaseTemplate{
		PhaseID:    phaseID,
		Sequential: sequential,
		Duration:   duration,
		Effort:     effort,
		Active:     true,
	}
}

// TaskType options
type TaskTypeOption func(*domain.TaskType)

func WithLeadTime(days int) TaskTypeOption {
	return func(tt *domain.TaskType) { tt.LeadTime = days }
}

func WithDefaultEffort(min int) TaskTypeOption {
	return func(tt *domain.TaskType) { tt.DefaultEffort = min }
}

// WithPhases replaces the phase templates, flagging the lowest sequential
// as first and the highest as last.
func WithPhases(phases ...domain.FlowPhaseTemplate) TaskTypeOption {
	return func(tt *domain.TaskType) {
		for i := range phases {
			phases[i].FirstPhase = i == 0
			phases[i].LastPhase = i == len(phases)-1
		}
		tt.Phases = phases
	}
}

func WithMedia(ids ...int64) TaskTypeOption {
	return func(tt *domain.TaskType) { tt.MediaIDs = append(tt.MediaIDs, ids...) }
}

func WithTaskTypeTags(ids ...int64) TaskTypeOption {
	return func(tt *domain.TaskType) { tt.TagIDs = append(tt.TagIDs, ids...) }
}

func WithForm(formID int64, amount int) TaskTypeOption {
	return func(tt *domain.TaskType) {
		tt.Forms = append(tt.Forms, domain.TaskTypeForm{FormID: formID, Amount: amount})
	}
}

func WithPhaseStartPolicy(p domain.PhaseStartPolicy) TaskTypeOption {
	return func(tt *domain.TaskType) { tt.PhaseStartPolicy = p }
}

func WithSharedWorkflow() TaskTypeOption {
	return func(tt *domain.TaskType) { tt.WorkflowShared = true }
}

// NewTestTaskType returns a task type with a single 1-day phase unless
// WithPhases says otherwise.
func NewTestTaskType(companyID int64, allocation domain.AllocationModel, opts ...TaskTypeOption) *domain.TaskType {
	n := fixtureSeq.Add(1)
	tt := &domain.TaskType{
		CompanyID:        companyID,
		Name:             fmt.Sprintf("Task type %d", n),
		Allocation:       allocation,
		DefaultEffort:    60,
		LeadTime:         1,
		PhaseStartPolicy: domain.PhaseStartTemplate,
	}
	WithPhases(Phase(1, 1, 1, 60))(tt)
	for _, opt := range opts {
		opt(tt)
	}
	return tt
}

// Project options
type ProjectOption func(*domain.Project)

func WithAnchor(d time.Time) ProjectOption {
	return func(p *domain.Project) { p.AnchorDate = &d }
}

func WithInformedBudget(hourly float64) ProjectOption {
	return func(p *domain.Project) {
		p.BudgetMethod = domain.BudgetInformedInProject
		p.HourlyBudget = hourly
	}
}

func AsModel() ProjectOption {
	return func(p *domain.Project) { p.IsModel = true }
}

func NewTestProject(workspaceID int64, name string, opts ...ProjectOption) *domain.Project {
	p := &domain.Project{
		WorkspaceID:  workspaceID,
		Name:         name,
		Alias:        domain.DeriveAlias(name, ""),
		BudgetMethod: domain.BudgetCalculated,
		CreatedAt:    time.Now().UTC(),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Form options
type FormOption func(*domain.Form)

func FreePlanForm() FormOption {
	return func(f *domain.Form) { f.FreePlan = true }
}

func WithMediaField(options ...string) FormOption {
	return func(f *domain.Form) {
		f.Fields = append(f.Fields, domain.FormField{Label: "Media", Role: domain.FieldRoleMedia, Options: options})
	}
}

func WithTextField(label string) FormOption {
	return func(f *domain.Form) {
		f.Fields = append(f.Fields, domain.FormField{Label: label})
	}
}

func NewTestForm(companyID int64, name string, opts ...FormOption) *domain.Form {
	f := &domain.Form{CompanyID: companyID, Name: name, Active: true}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// NewTestChecklist returns an active checklist whose items are sequenced in
// the order given.
func NewTestChecklist(companyID int64, name string, items ...string) *domain.Checklist {
	c := &domain.Checklist{CompanyID: companyID, Name: name, Active: true}
	for i, item := range items {
		c.Items = append(c.Items, domain.ChecklistItem{Name: item, Sequential: i + 1})
	}
	return c
}

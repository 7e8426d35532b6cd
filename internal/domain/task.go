package domain

import "time"

// Task is a created work item together with everything attached to it at
// creation time.
type Task struct {
	ID               int64
	CompanyID        int64
	WorkspaceID      int64
	ProjectID        *int64
	TaskTypeID       int64
	Planned          bool
	Title            string
	Description      string
	Allocation       AllocationModel
	Situation        TaskSituation
	Quantity         *int
	EstimatedTime    int
	PriorityGroup    int
	Priority         Priority
	StartDate        time.Time
	DueDate          time.Time
	OriginalDueDate  time.Time
	PhaseStartDate   *time.Time
	PhaseDueDate     *time.Time
	DaysToStart      int
	DaysToComplete   int
	PhaseID          int64
	ExecutorID       string
	CoPhaseID        *int64
	CoExecutorID     string
	HourlyRate       *float64
	HourlyBudget     *float64
	HourlyRateOrigin HourlyRateOrigin
	PlacementStart   *time.Time
	PlacementEnd     *time.Time
	SetPlacementEnd  bool
	CreatedByID      string
	CreatedAt        time.Time

	Flow       []TaskFlowPhase
	TagIDs     []int64
	ChannelIDs []int64
	Checklists []TaskChecklist
	Forms      []TaskForm
	Iterations []TaskIteration
}

// TaskFlowPhase is one instantiated phase of a task's flow.
type TaskFlowPhase struct {
	ID              int64
	TaskID          int64
	PhaseID         int64
	Sequential      int
	FirstPhase      bool
	LastPhase       bool
	NextPhaseID     *int64
	PreviousPhaseID *int64
	CoPhaseID       *int64
	Active          bool
	Duration        int
	Effort          int
	ExecutorID      string
	DaysToStart     *int
	StartDate       *time.Time
	DueDate         *time.Time
	HourlyRate      *float64
	RateOrigin      HourlyRateOrigin
}

// TotalEffort sums the effort of every phase.
func TotalEffort(flow []TaskFlowPhase) int {
	total := 0
	for _, p := range flow {
		total += p.Effort
	}
	return total
}

// TaskChecklist is a task-scoped copy of a checklist attached to one phase.
type TaskChecklist struct {
	ID          int64
	TaskID      int64
	PhaseID     int64
	ChecklistID int64
	Name        string
	Items       []ChecklistItem
}

// TaskForm is a form instance attached to a task.
type TaskForm struct {
	ID              int64
	TaskID          int64
	FormID          int64
	FormName        string
	Values          FormPayload
	PlacementStart  *time.Time
	PlacementEnd    *time.Time
	SetPlacementEnd bool
	CreatedByID     string
}

// TaskIteration is an entry in a task's activity log.
type TaskIteration struct {
	ID          int64
	TaskID      int64
	UserID      string
	Field       string
	Value       string
	Description string
	CreatedAt   time.Time
}

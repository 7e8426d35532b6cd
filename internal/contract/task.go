package contract

// CreateTaskRequest creates a planned or unplanned task. Dates are
// YYYY-MM-DD or RFC 3339 strings.
type CreateTaskRequest struct {
	Auth
	Title          string `json:"title"`
	Description    string `json:"description"`
	WorkspaceID    int64  `json:"workspaceId"`
	TaskTypeID     int64  `json:"taskTypeId"`
	ProjectID      *int64 `json:"projectId,omitempty"`
	CurrentDueDate string `json:"currentDueDate"`
	PhaseStartDate string `json:"phaseStartDate"`
	PriorityGroup  *int   `json:"priorityGroup,omitempty"`
	Quantity       *int   `json:"quantity,omitempty"`
	EstimatedTime  *int   `json:"estimatedTime,omitempty"`
	PlanTask       bool   `json:"planTask"`
}

// NewCreateTaskRequest returns a request for a planned task.
func NewCreateTaskRequest() CreateTaskRequest {
	return CreateTaskRequest{PlanTask: true}
}

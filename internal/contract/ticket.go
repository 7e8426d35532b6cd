package contract

import "github.com/ekyte/intake/internal/domain"

// CreateTicketRequest opens a support ticket on behalf of a requester.
type CreateTicketRequest struct {
	Auth
	RequesterEmail string            `json:"requesterEmail"`
	Subject        string            `json:"subject"`
	Message        string            `json:"message"`
	Type           domain.TicketType `json:"ticketType"`
	WorkspaceID    *int64            `json:"workspaceId,omitempty"`
	ProjectID      *int64            `json:"projectId,omitempty"`
	ExpectDueDate  string            `json:"expectDueDate"`
	PriorityGroup  *int              `json:"priorityGroup,omitempty"`
	AnalystEmail   string            `json:"analystEmail"`
	// UsersCC is a comma separated list of emails.
	UsersCC  string     `json:"usersCC"`
	TicketCC []TicketCC `json:"ticketCC"`
}

type TicketCC struct {
	UserID string `json:"userId"`
	Email  string `json:"email"`
}

// NewCreateTicketRequest returns a request for a plain request ticket.
func NewCreateTicketRequest() CreateTicketRequest {
	return CreateTicketRequest{Type: domain.TicketRequest}
}

package domain

import "time"

type Ticket struct {
	ID             int64
	CompanyID      int64
	WorkspaceID    *int64
	ProjectID      *int64
	RequesterID    string
	CreatedByID    string
	Subject        string
	Message        string
	Type           TicketType
	Status         TicketStatus
	Source         TicketSource
	Priority       Priority
	PriorityGroup  int
	FirstDueDate   *time.Time
	ExpectDueDate  *time.Time
	AnalystID      string
	ExecutorID     string
	Read           bool
	RequesterRead  bool
	CurrentPhaseID int64
	CreatedAt      time.Time
	LastCommentAt  time.Time

	Flow []TicketFlowPhase
	CC   []TicketCC
}

// TicketPhaseTemplate is a global ticket pipeline step.
type TicketPhaseTemplate struct {
	ID         int64
	Name       string
	Sequential int
	Active     bool
}

type TicketFlowPhase struct {
	ID            int64
	TicketID      int64
	TicketPhaseID int64
	Sequential    int
	ExecutorID    string
}

// TicketCC is a user copied on a ticket.
type TicketCC struct {
	TicketID int64
	UserID   string
	Email    string
}

// AddCC appends a CC entry unless the user is already copied.
func (t *Ticket) AddCC(userID, email string) {
	for _, cc := range t.CC {
		if cc.UserID == userID {
			return
		}
	}
	t.CC = append(t.CC, TicketCC{UserID: userID, Email: email})
}

type TicketHistory struct {
	ID        int64
	TicketID  int64
	UserID    string
	Action    string
	CreatedAt time.Time
}

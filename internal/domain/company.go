package domain

import "time"

// PlatformCompanyID is the reserved company whose definitions are visible to
// every tenant.
const PlatformCompanyID int64 = 1

type Company struct {
	ID                     int64
	Name                   string
	OwnerID                string
	HeadquarterID          *int64
	TicketEmail            string
	DefaultTicketAnalystID string
	FinancialManagement    bool
	DefaultHourlyRate      float64
	DefaultPhaseEffort     int
	TaskCreatePolicy       TaskCreatePolicy
	TeamProfile            TeamProfile
	DefaultLanguage        string
	EnableGenAI            bool
	Workdays               []time.Weekday
	Holidays               []time.Time
	CreatedAt              time.Time
}

// VisibleCompanyIDs lists the tenants whose shared definitions this company
// may use: itself, its headquarters and the platform.
func (c *Company) VisibleCompanyIDs() []int64 {
	ids := []int64{c.ID}
	if c.HeadquarterID != nil && *c.HeadquarterID != c.ID {
		ids = append(ids, *c.HeadquarterID)
	}
	if c.ID != PlatformCompanyID {
		ids = append(ids, PlatformCompanyID)
	}
	return ids
}

// Subscription is a company's plan subscription.
type Subscription struct {
	ID        int64
	CompanyID int64
	PlanID    int64
	DeletedAt *time.Time
}

type Squad struct {
	ID        int64
	CompanyID int64
	Name      string
	DeletedAt *time.Time
}

package domain

// AllocationModel decides how a task is scheduled.
type AllocationModel string

const (
	AllocationAgile    AllocationModel = "agile"
	AllocationWorkload AllocationModel = "workload"
)

// PhaseStartPolicy controls the day offset of each workload phase.
type PhaseStartPolicy string

const (
	PhaseStartTemplate                  PhaseStartPolicy = "template"
	PhaseStartNextDayAfterPreviousPhase PhaseStartPolicy = "next_day_after_previous_phase"
)

type Priority string

const (
	PriorityNotPrioritized Priority = "not_prioritized"
	PriorityLow            Priority = "low"
	PriorityMedium         Priority = "medium"
	PriorityHigh           Priority = "high"
	PriorityUrgent         Priority = "urgent"
)

// HourlyRateOrigin names the configured source that produced a billing rate.
type HourlyRateOrigin string

const (
	RateProjectInformed HourlyRateOrigin = "project_informed"
	RateUser            HourlyRateOrigin = "user_rate"
	RateCompany         HourlyRateOrigin = "company_rate"
)

type BudgetMethod string

const (
	BudgetInformedInProject BudgetMethod = "informed_in_project"
	BudgetCalculated        BudgetMethod = "calculated"
)

// CompanyProfile is a user's role inside one company.
type CompanyProfile string

const (
	ProfileAdminOwner CompanyProfile = "admin_owner"
	ProfileAdmin      CompanyProfile = "admin"
	ProfileEditor     CompanyProfile = "editor"
	ProfileGuest      CompanyProfile = "guest"
)

// TaskCreatePolicy restricts who may create tasks in a company.
type TaskCreatePolicy string

const (
	TaskCreateEveryone            TaskCreatePolicy = "everyone"
	TaskCreateAdminAndCreatorOnly TaskCreatePolicy = "admin_and_creator_only"
)

type TeamProfile string

const (
	TeamInHouse         TeamProfile = "in_house"
	TeamMarketingAgency TeamProfile = "marketing_agency"
)

type TagType string

const (
	TagTask    TagType = "task"
	TagProject TagType = "project"
)

type TaskSituation string

const (
	TaskActive TaskSituation = "active"
)

type TicketType int

const (
	TicketRequest     TicketType = 1
	TicketIncident    TicketType = 2
	TicketQuestion    TicketType = 3
	TicketImprovement TicketType = 4
)

type TicketStatus string

const (
	TicketProcessing TicketStatus = "processing"
)

type TicketSource string

const (
	TicketSourceExternal TicketSource = "external"
)

// AttachmentContext names the kind of entity an inline attachment belongs to.
type AttachmentContext string

const (
	AttachmentTask   AttachmentContext = "task"
	AttachmentTicket AttachmentContext = "ticket"
	AttachmentBoard  AttachmentContext = "board"
	AttachmentNote   AttachmentContext = "note"
)

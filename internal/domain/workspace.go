package domain

import "time"

type Workspace struct {
	ID                int64
	CompanyID         int64
	Name              string
	Description       string
	Active            bool
	DeletedAt         *time.Time
	TicketAnalystID   string
	DefaultLanguage   string
	EnableGenAI       bool
	ShareAudiences    bool
	ShareChannels     bool
	AvatarID          *int64
	SquadID           *int64
	ExternalID        string
	IsDefaultTemplate bool
	TagIDs            []int64
	Companies         []CompanyWorkspace
	CreatedAt         time.Time
}

// CompanyWorkspace shares a workspace with a company.
type CompanyWorkspace struct {
	CompanyID   int64
	WorkspaceID int64
	Active      bool
}

// LinkCompany adds a company link unless one already exists.
func (w *Workspace) LinkCompany(companyID int64, active bool) {
	for _, cw := range w.Companies {
		if cw.CompanyID == companyID {
			return
		}
	}
	w.Companies = append(w.Companies, CompanyWorkspace{CompanyID: companyID, WorkspaceID: w.ID, Active: active})
}

// CopyTemplate returns a new workspace carrying the reusable settings of a
// default template workspace.
func (w *Workspace) CopyTemplate() *Workspace {
	return &Workspace{
		Description:    w.Description,
		Active:         true,
		ShareAudiences: w.ShareAudiences,
		ShareChannels:  w.ShareChannels,
		AvatarID:       w.AvatarID,
		TagIDs:         append([]int64(nil), w.TagIDs...),
	}
}

type Tag struct {
	ID        int64
	CompanyID int64
	Name      string
	Type      TagType
}

// Channel is a workspace's publishing channel for one media.
type Channel struct {
	ID          int64
	WorkspaceID int64
	MediaID     int64
	Name        string
	DeletedAt   *time.Time
}

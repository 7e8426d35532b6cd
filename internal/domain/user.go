package domain

import "time"

type User struct {
	ID            string
	Email         string
	Name          string
	PlatformAdmin bool
	CreatedAt     time.Time
}

// UserCompany links a user to a company with a profile and optional defaults.
type UserCompany struct {
	UserID      string
	CompanyID   int64
	Profile     CompanyProfile
	WorkspaceID *int64
	HourlyRate  float64
}

// CanAdminister reports whether the membership grants administrative rights.
func (uc *UserCompany) CanAdminister(u *User) bool {
	return u.PlatformAdmin || uc.Profile == ProfileAdminOwner
}

type TeamMember struct {
	ID          int64
	CompanyID   int64
	PhaseID     int64
	WorkspaceID *int64
	UserID      string
	DeletedAt   *time.Time
}

package seed

import (
	"fmt"
	"strings"
	"time"

	"github.com/ekyte/intake/internal/domain"
)

var (
	validProfiles = map[string]bool{
		string(domain.ProfileAdminOwner): true, string(domain.ProfileAdmin): true,
		string(domain.ProfileEditor): true, string(domain.ProfileGuest): true,
	}
	validAllocations = map[string]bool{string(domain.AllocationAgile): true, string(domain.AllocationWorkload): true}
	validTagTypes    = map[string]bool{string(domain.TagTask): true, string(domain.TagProject): true}
	validPolicies    = map[string]bool{"": true, string(domain.TaskCreateEveryone): true, string(domain.TaskCreateAdminAndCreatorOnly): true}
	validTeams       = map[string]bool{"": true, string(domain.TeamInHouse): true, string(domain.TeamMarketingAgency): true}
	validStarts      = map[string]bool{"": true, string(domain.PhaseStartTemplate): true, string(domain.PhaseStartNextDayAfterPreviousPhase): true}
	validRoles       = map[string]bool{string(domain.FieldRoleNone): true, string(domain.FieldRoleMedia): true}
)

var weekdays = map[string]time.Weekday{
	"sunday": time.Sunday, "monday": time.Monday, "tuesday": time.Tuesday, "wednesday": time.Wednesday,
	"thursday": time.Thursday, "friday": time.Friday, "saturday": time.Saturday,
}

// Validate checks the file before anything is written and returns every
// problem found.
func Validate(f *File) []error {
	var errs []error
	companies := make(map[int64]bool)

	for i, u := range f.Users {
		if strings.TrimSpace(u.Email) == "" {
			errs = append(errs, fmt.Errorf("users[%d].email is required", i))
		}
	}
	for i, c := range f.Companies {
		switch {
		case c.ID <= 0:
			errs = append(errs, fmt.Errorf("companies[%d].id is required", i))
		case companies[c.ID]:
			errs = append(errs, fmt.Errorf("companies[%d].id %d is duplicated", i, c.ID))
		}
		companies[c.ID] = true
		if c.Name == "" {
			errs = append(errs, fmt.Errorf("companies[%d].name is required", i))
		}
		if !validPolicies[c.TaskCreatePolicy] {
			errs = append(errs, fmt.Errorf("companies[%d].task_create_policy: unknown value %q", i, c.TaskCreatePolicy))
		}
		if !validTeams[c.TeamProfile] {
			errs = append(errs, fmt.Errorf("companies[%d].team_profile: unknown value %q", i, c.TeamProfile))
		}
		for _, d := range c.Workdays {
			if _, ok := weekdays[strings.ToLower(d)]; !ok {
				errs = append(errs, fmt.Errorf("companies[%d].workdays: unknown day %q", i, d))
			}
		}
		for _, h := range c.Holidays {
			if _, err := time.Parse("2006-01-02", h); err != nil {
				errs = append(errs, fmt.Errorf("companies[%d].holidays: invalid date %q (expected YYYY-MM-DD)", i, h))
			}
		}
	}
	for i, t := range f.Tags {
		if !validTagTypes[t.Type] {
			errs = append(errs, fmt.Errorf("tags[%d].type: unknown value %q", i, t.Type))
		}
	}
	for i, w := range f.Workspaces {
		if w.Name == "" {
			errs = append(errs, fmt.Errorf("workspaces[%d].name is required", i))
		}
		if w.Company <= 0 {
			errs = append(errs, fmt.Errorf("workspaces[%d].company is required", i))
		}
	}
	for i, m := range f.Memberships {
		if !validProfiles[m.Profile] {
			errs = append(errs, fmt.Errorf("memberships[%d].profile: unknown value %q", i, m.Profile))
		}
	}
	for i, form := range f.Forms {
		for j, field := range form.Fields {
			if !validRoles[field.Role] {
				errs = append(errs, fmt.Errorf("forms[%d].fields[%d].role: unknown value %q", i, j, field.Role))
			}
		}
	}
	for i, tt := range f.TaskTypes {
		if !validAllocations[tt.Allocation] {
			errs = append(errs, fmt.Errorf("task_types[%d].allocation: unknown value %q", i, tt.Allocation))
		}
		if !validStarts[tt.PhaseStartPolicy] {
			errs = append(errs, fmt.Errorf("task_types[%d].phase_start_policy: unknown value %q", i, tt.PhaseStartPolicy))
		}
		if len(tt.Phases) == 0 {
			errs = append(errs, fmt.Errorf("task_types[%d] has no phases", i))
		}
		seen := make(map[int]bool)
		for j, p := range tt.Phases {
			if seen[p.Sequential] {
				errs = append(errs, fmt.Errorf("task_types[%d].phases[%d]: sequential %d is duplicated", i, j, p.Sequential))
			}
			seen[p.Sequential] = true
		}
	}
	for i, b := range f.Boards {
		if b.Title == "" || b.Workspace <= 0 {
			errs = append(errs, fmt.Errorf("boards[%d] needs a title and a workspace", i))
		}
	}
	return errs
}

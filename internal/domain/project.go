package domain

import (
	"fmt"
	"regexp"
	"strings"
	"time"
)

// MaxAliasLen is the longest alias a project may carry.
const MaxAliasLen = 15

const derivedAliasLen = 14

var whitespaceRun = regexp.MustCompile(`\s+`)

type Project struct {
	ID           int64
	WorkspaceID  int64
	Name         string
	Alias        string
	Description  string
	AnchorDate   *time.Time
	BudgetMethod BudgetMethod
	HourlyBudget float64
	IsModel      bool
	TagIDs       []int64
	CreatedByID  string
	CreatedAt    time.Time
}

// ValidateAlias checks the alias length limit.
func (p *Project) ValidateAlias() error {
	if len([]rune(p.Alias)) > MaxAliasLen {
		return fmt.Errorf("alias %q is longer than %d characters", p.Alias, MaxAliasLen)
	}
	return nil
}

// DeriveAlias builds an alias from the project name when none was given:
// the first 14 characters, trimmed and lower-cased, with whitespace runs
// collapsed to a dash. A supplied alias only gets the whitespace rule.
func DeriveAlias(name, alias string) string {
	if strings.TrimSpace(alias) == "" {
		r := []rune(name)
		if len(r) > derivedAliasLen {
			r = r[:derivedAliasLen]
		}
		alias = strings.ToLower(strings.TrimSpace(string(r)))
	}
	return whitespaceRun.ReplaceAllString(alias, "-")
}

// ProjectHistory records a change to a project or one of its tasks.
type ProjectHistory struct {
	ID        int64
	ProjectID int64
	TaskID    *int64
	UserID    string
	Action    string
	CreatedAt time.Time
}

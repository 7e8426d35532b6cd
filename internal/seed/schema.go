// Package seed loads reference data (tenants, users, workspaces and the
// catalogs task and ticket creation depend on) from a YAML file.
package seed

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

// File is the top-level seed document. Entities that others point at carry
// explicit ids; users are referenced by email.
type File struct {
	Users        []User        `yaml:"users"`
	Companies    []Company     `yaml:"companies"`
	Squads       []Squad       `yaml:"squads"`
	Tags         []Tag         `yaml:"tags"`
	Workspaces   []Workspace   `yaml:"workspaces"`
	Memberships  []Membership  `yaml:"memberships"`
	Phases       []Phase       `yaml:"phases"`
	Checklists   []Checklist   `yaml:"checklists"`
	Forms        []Form        `yaml:"forms"`
	TaskTypes    []TaskType    `yaml:"task_types"`
	TeamMembers  []TeamMember  `yaml:"team_members"`
	Channels     []Channel     `yaml:"channels"`
	TicketPhases []TicketPhase `yaml:"ticket_phases"`
	Boards       []Board       `yaml:"boards"`
}

type User struct {
	Email         string `yaml:"email"`
	Name          string `yaml:"name"`
	PlatformAdmin bool   `yaml:"platform_admin"`
}

type Company struct {
	ID                   int64    `yaml:"id"`
	Name                 string   `yaml:"name"`
	Owner                string   `yaml:"owner"`
	Headquarter          *int64   `yaml:"headquarter"`
	TicketEmail          string   `yaml:"ticket_email"`
	DefaultTicketAnalyst string   `yaml:"default_ticket_analyst"`
	FinancialManagement  bool     `yaml:"financial_management"`
	DefaultHourlyRate    float64  `yaml:"default_hourly_rate"`
	DefaultPhaseEffort   int      `yaml:"default_phase_effort"`
	TaskCreatePolicy     string   `yaml:"task_create_policy"`
	TeamProfile          string   `yaml:"team_profile"`
	DefaultLanguage      string   `yaml:"default_language"`
	EnableGenAI          bool     `yaml:"enable_gen_ai"`
	Workdays             []string `yaml:"workdays"`
	Holidays             []string `yaml:"holidays"`
	// Plan subscribes the company to a plan id; zero means none.
	Plan int64 `yaml:"plan"`
}

type Squad struct {
	ID      int64  `yaml:"id"`
	Company int64  `yaml:"company"`
	Name    string `yaml:"name"`
}

type Tag struct {
	ID      int64  `yaml:"id"`
	Company int64  `yaml:"company"`
	Name    string `yaml:"name"`
	Type    string `yaml:"type"`
}

type Workspace struct {
	ID              int64   `yaml:"id"`
	Company         int64   `yaml:"company"`
	Name            string  `yaml:"name"`
	Description     string  `yaml:"description"`
	Inactive        bool    `yaml:"inactive"`
	TicketAnalyst   string  `yaml:"ticket_analyst"`
	DefaultLanguage string  `yaml:"default_language"`
	DefaultTemplate bool    `yaml:"default_template"`
	ShareAudiences  bool    `yaml:"share_audiences"`
	ShareChannels   bool    `yaml:"share_channels"`
	Tags            []int64 `yaml:"tags"`
	SharedWith      []int64 `yaml:"shared_with"`
}

type Membership struct {
	User       string  `yaml:"user"`
	Company    int64   `yaml:"company"`
	Profile    string  `yaml:"profile"`
	Workspace  *int64  `yaml:"workspace"`
	HourlyRate float64 `yaml:"hourly_rate"`
}

type Phase struct {
	ID   int64  `yaml:"id"`
	Name string `yaml:"name"`
}

type Checklist struct {
	ID      int64    `yaml:"id"`
	Company int64    `yaml:"company"`
	Name    string   `yaml:"name"`
	Items   []string `yaml:"items"`
}

type Form struct {
	ID       int64       `yaml:"id"`
	Company  int64       `yaml:"company"`
	Name     string      `yaml:"name"`
	FreePlan bool        `yaml:"free_plan"`
	Fields   []FormField `yaml:"fields"`
}

type FormField struct {
	Label   string   `yaml:"label"`
	Role    string   `yaml:"role"`
	Options []string `yaml:"options"`
}

type TaskType struct {
	ID               int64           `yaml:"id"`
	Company          int64           `yaml:"company"`
	Name             string          `yaml:"name"`
	Description      string          `yaml:"description"`
	Allocation       string          `yaml:"allocation"`
	DefaultEffort    int             `yaml:"default_effort"`
	LeadTime         int             `yaml:"lead_time"`
	PhaseStartPolicy string          `yaml:"phase_start_policy"`
	SharedWorkflow   bool            `yaml:"shared_workflow"`
	Media            []int64         `yaml:"media"`
	Tags             []int64         `yaml:"tags"`
	Forms            []TaskTypeForm  `yaml:"forms"`
	Phases           []TaskTypePhase `yaml:"phases"`
}

type TaskTypeForm struct {
	Form   int64 `yaml:"form"`
	Amount int   `yaml:"amount"`
}

// TaskTypePhase is one phase template. The lowest sequential becomes the
// first phase and the highest the last.
type TaskTypePhase struct {
	Phase       int64  `yaml:"phase"`
	Sequential  int    `yaml:"sequential"`
	Duration    int    `yaml:"duration"`
	Effort      int    `yaml:"effort"`
	Executor    string `yaml:"executor"`
	Checklist   *int64 `yaml:"checklist"`
	CoPhase     *int64 `yaml:"co_phase"`
	DaysToStart *int   `yaml:"days_to_start"`
	Inactive    bool   `yaml:"inactive"`
}

type TeamMember struct {
	Company   int64  `yaml:"company"`
	Phase     int64  `yaml:"phase"`
	Workspace *int64 `yaml:"workspace"`
	User      string `yaml:"user"`
}

type Channel struct {
	Workspace int64  `yaml:"workspace"`
	Media     int64  `yaml:"media"`
	Name      string `yaml:"name"`
}

type TicketPhase struct {
	ID         int64  `yaml:"id"`
	Name       string `yaml:"name"`
	Sequential int    `yaml:"sequential"`
	Inactive   bool   `yaml:"inactive"`
}

type Board struct {
	ID         int64    `yaml:"id"`
	Workspace  int64    `yaml:"workspace"`
	Title      string   `yaml:"title"`
	CreatedBy  string   `yaml:"created_by"`
	Categories []string `yaml:"categories"`
}

// LoadFile reads and parses a seed file. Unknown keys are rejected.
func LoadFile(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading seed file: %w", err)
	}
	return Parse(data)
}

func Parse(data []byte) (*File, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	var f File
	if err := dec.Decode(&f); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("parsing seed file: %w", err)
	}
	return &f, nil
}

package domain

import (
	"slices"
	"time"
)

// FreePlanID identifies the free subscription plan.
const FreePlanID int64 = 3

// Media ids with a matching option on the designated media form field.
const (
	MediaFacebook  int64 = 22
	MediaInstagram int64 = 68
	MediaLinkedIn  int64 = 69
)

// MediaOption pairs a media id with the option label a form field uses for it.
type MediaOption struct {
	MediaID int64
	Label   string
}

// MediaOptions is the ordered set of media a form's media field can reflect.
var MediaOptions = []MediaOption{
	{MediaFacebook, "Facebook"},
	{MediaInstagram, "Instagram"},
	{MediaLinkedIn, "Linkedin"},
}

type Checklist struct {
	ID        int64
	CompanyID int64
	Name      string
	Active    bool
	DeletedAt *time.Time
	Items     []ChecklistItem
}

type ChecklistItem struct {
	ID          int64
	Name        string
	Description string
	Sequential  int
}

// FieldRole marks form fields with engine-managed content.
type FieldRole string

const (
	FieldRoleNone  FieldRole = ""
	FieldRoleMedia FieldRole = "media"
)

type Form struct {
	ID        int64
	CompanyID int64
	Name      string
	Active    bool
	FreePlan  bool
	DeletedAt *time.Time
	Fields    []FormField
}

type FormField struct {
	ID      int64
	FormID  int64
	Label   string
	Role    FieldRole
	Options []string
}

// MediaField returns the form's designated media field, if any.
func (f *Form) MediaField() (FormField, bool) {
	for _, field := range f.Fields {
		if field.Role == FieldRoleMedia {
			return field, true
		}
	}
	return FormField{}, false
}

// HasOption reports whether label is one of the field's options.
func (ff FormField) HasOption(label string) bool {
	return slices.Contains(ff.Options, label)
}

// Artifact is a blob extracted from an inline attachment.
type Artifact struct {
	ID          string
	Context     AttachmentContext
	WorkspaceID int64
	ObjectKey   string
	URL         string
	ContentType string
	Size        int
	CreatedByID string
	CreatedAt   time.Time
}

// Package artifact derives the items attached to a new task: channels,
// tags, checklists and forms. It also normalizes rich text and extracts
// inline attachments from it.
package artifact

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/ekyte/intake/internal/domain"
	"github.com/ekyte/intake/internal/repository"
)

// DefaultPlacementHour is the local hour a form's placement window opens on
// the task's due date.
const DefaultPlacementHour = 8

type ChannelFinder interface {
	FindLive(ctx context.Context, workspaceID, mediaID int64) (*domain.Channel, error)
}

type ChecklistFinder interface {
	GetByID(ctx context.Context, id int64) (*domain.Checklist, error)
}

type FormFinder interface {
	GetByID(ctx context.Context, id int64) (*domain.Form, error)
}

// Generator attaches derived artifacts to tasks.
type Generator struct {
	channels      ChannelFinder
	checklists    ChecklistFinder
	forms         FormFinder
	placementHour int
}

func NewGenerator(channels ChannelFinder, checklists ChecklistFinder, forms FormFinder, placementHour int) *Generator {
	return &Generator{channels: channels, checklists: checklists, forms: forms, placementHour: placementHour}
}

// Channels finds the live channel of the workspace for each media. Each
// channel is returned once.
func (g *Generator) Channels(ctx context.Context, workspaceID int64, mediaIDs []int64) ([]domain.Channel, error) {
	var out []domain.Channel
	for _, mediaID := range mediaIDs {
		ch, err := g.channels.FindLive(ctx, workspaceID, mediaID)
		if errors.Is(err, repository.ErrNotFound) {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("finding channel for media %d: %w", mediaID, err)
		}
		if !slices.ContainsFunc(out, func(c domain.Channel) bool { return c.ID == ch.ID }) {
			out = append(out, *ch)
		}
	}
	return out, nil
}

// ChannelIDs lists the ids of channels.
func ChannelIDs(channels []domain.Channel) []int64 {
	ids := make([]int64, len(channels))
	for i, c := range channels {
		ids[i] = c.ID
	}
	return ids
}

// Tags is the union of workspace and task type tags, first occurrence wins.
func Tags(workspaceTags, taskTypeTags []int64) []int64 {
	var out []int64
	for _, id := range slices.Concat(workspaceTags, taskTypeTags) {
		if !slices.Contains(out, id) {
			out = append(out, id)
		}
	}
	return out
}

// Checklists copies the checklist referenced by each flow phase's template.
// Checklists the company cannot see, or that are inactive or deleted, are
// skipped.
func (g *Generator) Checklists(ctx context.Context, company *domain.Company, tt *domain.TaskType, flow []domain.TaskFlowPhase) ([]domain.TaskChecklist, error) {
	visible := company.VisibleCompanyIDs()
	var out []domain.TaskChecklist
	for _, phase := range flow {
		tpl, ok := tt.TemplateFor(phase.PhaseID)
		if !ok || tpl.ChecklistID == nil {
			continue
		}
		cl, err := g.checklists.GetByID(ctx, *tpl.ChecklistID)
		if errors.Is(err, repository.ErrNotFound) {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("loading checklist %d: %w", *tpl.ChecklistID, err)
		}
		if !cl.Active || cl.DeletedAt != nil || !slices.Contains(visible, cl.CompanyID) {
			continue
		}

		items := make([]domain.ChecklistItem, len(cl.Items))
		for i, item := range cl.Items {
			items[i] = domain.ChecklistItem{Name: item.Name, Description: item.Description, Sequential: item.Sequential}
		}
		out = append(out, domain.TaskChecklist{
			PhaseID:     phase.PhaseID,
			ChecklistID: cl.ID,
			Name:        cl.Name,
			Items:       items,
		})
	}
	return out, nil
}

// FormRequest describes the forms to attach to one task.
type FormRequest struct {
	CompanyID   int64
	PaidPlan    bool
	Mappings    []domain.TaskTypeForm
	Channels    []domain.Channel
	Due         time.Time
	CreatedByID string
}

// FormSet is the result of form attachment.
type FormSet struct {
	Forms          []domain.TaskForm
	PlacementStart *time.Time
}

// Forms instantiates each mapped form Amount times. Inactive forms and paid
// forms on the free plan are skipped, as are forms owned by another company.
// The media field is pre-filled with the attached channels it has options
// for.
func (g *Generator) Forms(ctx context.Context, req FormRequest) (*FormSet, error) {
	set := &FormSet{}
	for _, m := range req.Mappings {
		form, err := g.forms.GetByID(ctx, m.FormID)
		if err != nil {
			return nil, fmt.Errorf("loading form %d: %w", m.FormID, err)
		}
		if !form.Active || form.DeletedAt != nil {
			continue
		}
		if !req.PaidPlan && !form.FreePlan {
			continue
		}
		if form.CompanyID != req.CompanyID && form.CompanyID != domain.PlatformCompanyID {
			continue
		}

		values := domain.NewFormPayload(form)
		if field, ok := form.MediaField(); ok {
			if media := mediaOptions(field, req.Channels); len(media) > 0 {
				values.Form[field.ID] = domain.OptionsValue(media...)
			}
		}
		if set.PlacementStart == nil {
			set.PlacementStart = domain.Ptr(g.placement(req.Due))
		}

		for range m.Amount {
			set.Forms = append(set.Forms, domain.TaskForm{
				FormID:         form.ID,
				FormName:       form.Name,
				Values:         clonePayload(values),
				PlacementStart: set.PlacementStart,
				CreatedByID:    req.CreatedByID,
			})
		}
	}
	return set, nil
}

func (g *Generator) placement(due time.Time) time.Time {
	y, mo, d := due.Date()
	return time.Date(y, mo, d, g.placementHour, 0, 0, 0, due.Location())
}

func mediaOptions(field domain.FormField, channels []domain.Channel) []string {
	var out []string
	for _, opt := range domain.MediaOptions {
		attached := slices.ContainsFunc(channels, func(c domain.Channel) bool { return c.MediaID == opt.MediaID })
		if attached && field.HasOption(opt.Label) {
			out = append(out, opt.Label)
		}
	}
	return out
}

func clonePayload(p domain.FormPayload) domain.FormPayload {
	form := make(domain.FormValues, len(p.Form))
	for k, v := range p.Form {
		form[k] = v
	}
	p.Form = form
	return p
}

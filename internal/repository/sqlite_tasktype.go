package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/ekyte/intake/internal/db"
	"github.com/ekyte/intake/internal/domain"
)

// SQLiteTaskTypeRepo implements TaskTypeRepo using a SQLite database.
type SQLiteTaskTypeRepo struct {
	db db.DBTX
}

// NewSQLiteTaskTypeRepo creates a new SQLiteTaskTypeRepo.
func NewSQLiteTaskTypeRepo(conn db.DBTX) *SQLiteTaskTypeRepo {
	return &SQLiteTaskTypeRepo{db: conn}
}

func (r *SQLiteTaskTypeRepo) Create(ctx context.Context, tt *domain.TaskType) error {
	if tt.PhaseStartPolicy == "" {
		tt.PhaseStartPolicy = domain.PhaseStartTemplate
	}
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO task_types (id, company_id, workflow_shared, name, description, allocation,
			default_effort, lead_time, phase_start_policy, deleted_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		idOrNull(tt.ID),
		tt.CompanyID,
		boolToInt(tt.WorkflowShared),
		tt.Name,
		tt.Description,
		string(tt.Allocation),
		tt.DefaultEffort,
		tt.LeadTime,
		string(tt.PhaseStartPolicy),
		nullableTimeToString(tt.DeletedAt, time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("inserting task type: %w", err)
	}
	if tt.ID, err = lastInsertID(res); err != nil {
		return fmt.Errorf("reading task type id: %w", err)
	}

	for i := range tt.Phases {
		p := &tt.Phases[i]
		p.TaskTypeID = tt.ID
		res, err := r.db.ExecContext(ctx,
			`INSERT INTO task_type_phases (id, task_type_id, phase_id, sequential, first_phase, last_phase,
				next_phase_id, previous_phase_id, co_phase_id, duration, effort, executor_id,
				checklist_id, days_to_start, active)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			idOrNull(p.ID), tt.ID, p.PhaseID, p.Sequential, boolToInt(p.FirstPhase), boolToInt(p.LastPhase),
			nullableIDToValue(p.NextPhaseID), nullableIDToValue(p.PreviousPhaseID), nullableIDToValue(p.CoPhaseID),
			p.Duration, p.Effort, p.ExecutorID,
			nullableIDToValue(p.ChecklistID), nullableIntToValue(p.DaysToStart), boolToInt(p.Active),
		)
		if err != nil {
			return fmt.Errorf("inserting phase template %d: %w", p.PhaseID, err)
		}
		if p.ID, err = lastInsertID(res); err != nil {
			return fmt.Errorf("reading phase template id: %w", err)
		}
	}
	for _, m := range tt.MediaIDs {
		if _, err := r.db.ExecContext(ctx,
			`INSERT OR IGNORE INTO task_type_media (task_type_id, media_id) VALUES (?, ?)`, tt.ID, m); err != nil {
			return fmt.Errorf("inserting task type media: %w", err)
		}
	}
	for _, tagID := range tt.TagIDs {
		if _, err := r.db.ExecContext(ctx,
			`INSERT OR IGNORE INTO task_type_tags (task_type_id, tag_id) VALUES (?, ?)`, tt.ID, tagID); err != nil {
			return fmt.Errorf("inserting task type tag: %w", err)
		}
	}
	for _, f := range tt.Forms {
		if _, err := r.db.ExecContext(ctx,
			`INSERT OR REPLACE INTO task_type_forms (task_type_id, form_id, amount) VALUES (?, ?, ?)`,
			tt.ID, f.FormID, f.Amount); err != nil {
			return fmt.Errorf("inserting task type form: %w", err)
		}
	}
	return nil
}

func (r *SQLiteTaskTypeRepo) GetVisible(ctx context.Context, id, companyID int64, headquarterID *int64) (*domain.TaskType, error) {
	var hq int64
	if headquarterID != nil {
		hq = *headquarterID
	}

	var tt domain.TaskType
	var shared int
	var allocation, policy string
	err := r.db.QueryRowContext(ctx,
		`SELECT id, company_id, workflow_shared, name, description, allocation,
			default_effort, lead_time, phase_start_policy
		 FROM task_types
		 WHERE id = ? AND deleted_at IS NULL
		   AND (company_id = ? OR company_id = ? OR (company_id = ? AND workflow_shared = 1))`,
		id, companyID, domain.PlatformCompanyID, hq,
	).Scan(&tt.ID, &tt.CompanyID, &shared, &tt.Name, &tt.Description, &allocation,
		&tt.DefaultEffort, &tt.LeadTime, &policy)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("task type %d: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("scanning task type: %w", err)
	}
	tt.WorkflowShared = intToBool(shared)
	tt.Allocation = domain.AllocationModel(allocation)
	tt.PhaseStartPolicy = domain.PhaseStartPolicy(policy)

	if tt.Phases, err = r.listPhases(ctx, tt.ID); err != nil {
		return nil, err
	}

	rows, err := r.db.QueryContext(ctx,
		`SELECT media_id FROM task_type_media WHERE task_type_id = ? ORDER BY media_id`, tt.ID)
	if err != nil {
		return nil, fmt.Errorf("listing task type media: %w", err)
	}
	if tt.MediaIDs, err = scanIDs(rows); err != nil {
		return nil, fmt.Errorf("scanning task type media: %w", err)
	}

	rows, err = r.db.QueryContext(ctx,
		`SELECT tag_id FROM task_type_tags WHERE task_type_id = ? ORDER BY tag_id`, tt.ID)
	if err != nil {
		return nil, fmt.Errorf("listing task type tags: %w", err)
	}
	if tt.TagIDs, err = scanIDs(rows); err != nil {
		return nil, fmt.Errorf("scanning task type tags: %w", err)
	}

	formRows, err := r.db.QueryContext(ctx,
		`SELECT form_id, amount FROM task_type_forms WHERE task_type_id = ? ORDER BY form_id`, tt.ID)
	if err != nil {
		return nil, fmt.Errorf("listing task type forms: %w", err)
	}
	defer formRows.Close()
	for formRows.Next() {
		var f domain.TaskTypeForm
		if err := formRows.Scan(&f.FormID, &f.Amount); err != nil {
			return nil, fmt.Errorf("scanning task type form: %w", err)
		}
		tt.Forms = append(tt.Forms, f)
	}
	if err := formRows.Err(); err != nil {
		return nil, fmt.Errorf("iterating task type forms: %w", err)
	}
	return &tt, nil
}

func (r *SQLiteTaskTypeRepo) listPhases(ctx context.Context, taskTypeID int64) ([]domain.FlowPhaseTemplate, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, task_type_id, phase_id, sequential, first_phase, last_phase, next_phase_id,
			previous_phase_id, co_phase_id, duration, effort, executor_id, checklist_id,
			days_to_start, active
		 FROM task_type_phases
		 WHERE task_type_id = ? AND deleted_at IS NULL
		 ORDER BY sequential, id`, taskTypeID)
	if err != nil {
		return nil, fmt.Errorf("listing phase templates: %w", err)
	}
	defer rows.Close()

	var phases []domain.FlowPhaseTemplate
	for rows.Next() {
		var p domain.FlowPhaseTemplate
		var first, last, active int
		var next, prev, co, checklist, daysToStart sql.NullInt64
		if err := rows.Scan(&p.ID, &p.TaskTypeID, &p.PhaseID, &p.Sequential, &first, &last, &next,
			&prev, &co, &p.Duration, &p.Effort, &p.ExecutorID, &checklist,
			&daysToStart, &active); err != nil {
			return nil, fmt.Errorf("scanning phase template: %w", err)
		}
		p.FirstPhase = intToBool(first)
		p.LastPhase = intToBool(last)
		p.Active = intToBool(active)
		p.NextPhaseID = nullInt64Ptr(next)
		p.PreviousPhaseID = nullInt64Ptr(prev)
		p.CoPhaseID = nullInt64Ptr(co)
		p.ChecklistID = nullInt64Ptr(checklist)
		p.DaysToStart = nullIntPtr(daysToStart)
		phases = append(phases, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating phase templates: %w", err)
	}
	return phases, nil
}

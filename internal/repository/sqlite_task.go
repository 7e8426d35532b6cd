package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/ekyte/intake/internal/db"
	"github.com/ekyte/intake/internal/domain"
)

// SQLiteTaskRepo implements TaskRepo using a SQLite database.
type SQLiteTaskRepo struct {
	db db.DBTX
}

// NewSQLiteTaskRepo creates a new SQLiteTaskRepo.
func NewSQLiteTaskRepo(conn db.DBTX) *SQLiteTaskRepo {
	return &SQLiteTaskRepo{db: conn}
}

const taskColumns = `id, company_id, workspace_id, project_id, task_type_id, planned, title, description,
	allocation, situation, quantity, estimated_time, priority_group, priority, start_date, due_date,
	original_due_date, phase_start_date, phase_due_date, days_to_start, days_to_complete, phase_id,
	executor_id, co_phase_id, co_executor_id, hourly_rate, hourly_budget, hourly_rate_origin,
	placement_start, placement_end, set_placement_end, created_by_id, created_at`

func (r *SQLiteTaskRepo) Create(ctx context.Context, t *domain.Task) error {
	if t.CreatedAt.IsZero() {
		t.CreatedAt = time.Now().UTC()
	}
	if t.Situation == "" {
		t.Situation = domain.TaskActive
	}
	query := `INSERT INTO tasks (` + taskColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	res, err := r.db.ExecContext(ctx, query,
		idOrNull(t.ID),
		t.CompanyID,
		t.WorkspaceID,
		nullableIDToValue(t.ProjectID),
		t.TaskTypeID,
		boolToInt(t.Planned),
		t.Title,
		t.Description,
		string(t.Allocation),
		string(t.Situation),
		nullableIntToValue(t.Quantity),
		t.EstimatedTime,
		t.PriorityGroup,
		string(t.Priority),
		formatZoned(t.StartDate),
		formatZoned(t.DueDate),
		formatZoned(t.OriginalDueDate),
		nullableTimeToString(t.PhaseStartDate, time.RFC3339),
		nullableTimeToString(t.PhaseDueDate, time.RFC3339),
		t.DaysToStart,
		t.DaysToComplete,
		t.PhaseID,
		t.ExecutorID,
		nullableIDToValue(t.CoPhaseID),
		t.CoExecutorID,
		nullableFloatToValue(t.HourlyRate),
		nullableFloatToValue(t.HourlyBudget),
		string(t.HourlyRateOrigin),
		nullableTimeToString(t.PlacementStart, time.RFC3339),
		nullableTimeToString(t.PlacementEnd, time.RFC3339),
		boolToInt(t.SetPlacementEnd),
		t.CreatedByID,
		formatTime(t.CreatedAt),
	)
	if err != nil {
		return fmt.Errorf("inserting task: %w", err)
	}
	if t.ID, err = lastInsertID(res); err != nil {
		return fmt.Errorf("reading task id: %w", err)
	}

	if err := r.insertFlow(ctx, t); err != nil {
		return err
	}
	for _, tagID := range t.TagIDs {
		if _, err := r.db.ExecContext(ctx,
			`INSERT OR IGNORE INTO task_tags (task_id, tag_id) VALUES (?, ?)`, t.ID, tagID); err != nil {
			return fmt.Errorf("inserting task tag: %w", err)
		}
	}
	for _, channelID := range t.ChannelIDs {
		if _, err := r.db.ExecContext(ctx,
			`INSERT OR IGNORE INTO task_channels (task_id, channel_id) VALUES (?, ?)`, t.ID, channelID); err != nil {
			return fmt.Errorf("inserting task channel: %w", err)
		}
	}
	if err := r.insertChecklists(ctx, t); err != nil {
		return err
	}
	if err := r.insertForms(ctx, t); err != nil {
		return err
	}
	for i := range t.Iterations {
		if err := r.insertIteration(ctx, t.ID, &t.Iterations[i]); err != nil {
			return err
		}
	}
	return nil
}

func (r *SQLiteTaskRepo) insertFlow(ctx context.Context, t *domain.Task) error {
	for i := range t.Flow {
		p := &t.Flow[i]
		p.TaskID = t.ID
		res, err := r.db.ExecContext(ctx,
			`INSERT INTO task_flow_phases (task_id, phase_id, sequential, first_phase, last_phase,
				next_phase_id, previous_phase_id, co_phase_id, active, duration, effort, executor_id,
				days_to_start, start_date, due_date, hourly_rate, rate_origin)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			t.ID, p.PhaseID, p.Sequential, boolToInt(p.FirstPhase), boolToInt(p.LastPhase),
			nullableIDToValue(p.NextPhaseID), nullableIDToValue(p.PreviousPhaseID), nullableIDToValue(p.CoPhaseID),
			boolToInt(p.Active), p.Duration, p.Effort, p.ExecutorID,
			nullableIntToValue(p.DaysToStart),
			nullableTimeToString(p.StartDate, time.RFC3339),
			nullableTimeToString(p.DueDate, time.RFC3339),
			nullableFloatToValue(p.HourlyRate), string(p.RateOrigin),
		)
		if err != nil {
			return fmt.Errorf("inserting flow phase %d: %w", p.PhaseID, err)
		}
		if p.ID, err = lastInsertID(res); err != nil {
			return fmt.Errorf("reading flow phase id: %w", err)
		}
	}
	return nil
}

func (r *SQLiteTaskRepo) insertChecklists(ctx context.Context, t *domain.Task) error {
	for i := range t.Checklists {
		c := &t.Checklists[i]
		c.TaskID = t.ID
		res, err := r.db.ExecContext(ctx,
			`INSERT INTO task_checklists (task_id, phase_id, checklist_id, name) VALUES (?, ?, ?, ?)`,
			t.ID, c.PhaseID, c.ChecklistID, c.Name)
		if err != nil {
			return fmt.Errorf("inserting task checklist: %w", err)
		}
		if c.ID, err = lastInsertID(res); err != nil {
			return fmt.Errorf("reading task checklist id: %w", err)
		}
		for j := range c.Items {
			item := &c.Items[j]
			res, err := r.db.ExecContext(ctx,
				`INSERT INTO task_checklist_items (task_checklist_id, name, description, sequential)
				 VALUES (?, ?, ?, ?)`, c.ID, item.Name, item.Description, item.Sequential)
			if err != nil {
				return fmt.Errorf("inserting task checklist item: %w", err)
			}
			if item.ID, err = lastInsertID(res); err != nil {
				return fmt.Errorf("reading task checklist item id: %w", err)
			}
		}
	}
	return nil
}

func (r *SQLiteTaskRepo) insertForms(ctx context.Context, t *domain.Task) error {
	for i := range t.Forms {
		f := &t.Forms[i]
		f.TaskID = t.ID
		payload, err := json.Marshal(f.Values)
		if err != nil {
			return fmt.Errorf("encoding form %d payload: %w", f.FormID, err)
		}
		res, err := r.db.ExecContext(ctx,
			`INSERT INTO task_forms (task_id, form_id, form_name, payload, placement_start,
				placement_end, set_placement_end, created_by_id)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
			t.ID, f.FormID, f.FormName, string(payload),
			nullableTimeToString(f.PlacementStart, time.RFC3339),
			nullableTimeToString(f.PlacementEnd, time.RFC3339),
			boolToInt(f.SetPlacementEnd), f.CreatedByID)
		if err != nil {
			return fmt.Errorf("inserting task form: %w", err)
		}
		if f.ID, err = lastInsertID(res); err != nil {
			return fmt.Errorf("reading task form id: %w", err)
		}
	}
	return nil
}

func (r *SQLiteTaskRepo) insertIteration(ctx context.Context, taskID int64, it *domain.TaskIteration) error {
	if it.CreatedAt.IsZero() {
		it.CreatedAt = time.Now().UTC()
	}
	it.TaskID = taskID
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO task_iterations (task_id, user_id, field, value, description, created_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		taskID, it.UserID, it.Field, it.Value, it.Description, formatTime(it.CreatedAt))
	if err != nil {
		return fmt.Errorf("inserting task iteration: %w", err)
	}
	if it.ID, err = lastInsertID(res); err != nil {
		return fmt.Errorf("reading task iteration id: %w", err)
	}
	return nil
}

// AddIteration appends an entry to an existing task's activity log.
func (r *SQLiteTaskRepo) AddIteration(ctx context.Context, it *domain.TaskIteration) error {
	return r.insertIteration(ctx, it.TaskID, it)
}

func (r *SQLiteTaskRepo) GetByID(ctx context.Context, id int64) (*domain.Task, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+taskColumns+` FROM tasks WHERE id = ?`, id)
	t, err := scanTask(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("task %d: %w", id, ErrNotFound)
		}
		return nil, err
	}

	if t.Flow, err = r.listFlow(ctx, id); err != nil {
		return nil, err
	}
	rows, err := r.db.QueryContext(ctx, `SELECT tag_id FROM task_tags WHERE task_id = ? ORDER BY tag_id`, id)
	if err != nil {
		return nil, fmt.Errorf("listing task tags: %w", err)
	}
	if t.TagIDs, err = scanIDs(rows); err != nil {
		return nil, fmt.Errorf("scanning task tags: %w", err)
	}
	rows, err = r.db.QueryContext(ctx, `SELECT channel_id FROM task_channels WHERE task_id = ? ORDER BY channel_id`, id)
	if err != nil {
		return nil, fmt.Errorf("listing task channels: %w", err)
	}
	if t.ChannelIDs, err = scanIDs(rows); err != nil {
		return nil, fmt.Errorf("scanning task channels: %w", err)
	}
	if t.Checklists, err = r.listChecklists(ctx, id); err != nil {
		return nil, err
	}
	if t.Forms, err = r.listForms(ctx, id); err != nil {
		return nil, err
	}
	if t.Iterations, err = r.listIterations(ctx, id); err != nil {
		return nil, err
	}
	return t, nil
}

func (r *SQLiteTaskRepo) listFlow(ctx context.Context, taskID int64) ([]domain.TaskFlowPhase, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, task_id, phase_id, sequential, first_phase, last_phase, next_phase_id,
			previous_phase_id, co_phase_id, active, duration, effort, executor_id, days_to_start,
			start_date, due_date, hourly_rate, rate_origin
		 FROM task_flow_phases WHERE task_id = ? ORDER BY sequential, id`, taskID)
	if err != nil {
		return nil, fmt.Errorf("listing task flow: %w", err)
	}
	defer rows.Close()

	var flow []domain.TaskFlowPhase
	for rows.Next() {
		var p domain.TaskFlowPhase
		var first, last, active int
		var next, prev, co, daysToStart sql.NullInt64
		var start, due sql.NullString
		var rate sql.NullFloat64
		var origin string
		if err := rows.Scan(&p.ID, &p.TaskID, &p.PhaseID, &p.Sequential, &first, &last, &next,
			&prev, &co, &active, &p.Duration, &p.Effort, &p.ExecutorID, &daysToStart,
			&start, &due, &rate, &origin); err != nil {
			return nil, fmt.Errorf("scanning flow phase: %w", err)
		}
		p.FirstPhase = intToBool(first)
		p.LastPhase = intToBool(last)
		p.Active = intToBool(active)
		p.NextPhaseID = nullInt64Ptr(next)
		p.PreviousPhaseID = nullInt64Ptr(prev)
		p.CoPhaseID = nullInt64Ptr(co)
		p.DaysToStart = nullIntPtr(daysToStart)
		p.StartDate = parseNullableTime(start, time.RFC3339)
		p.DueDate = parseNullableTime(due, time.RFC3339)
		p.HourlyRate = nullFloatPtr(rate)
		p.RateOrigin = domain.HourlyRateOrigin(origin)
		flow = append(flow, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating task flow: %w", err)
	}
	return flow, nil
}

func (r *SQLiteTaskRepo) listChecklists(ctx context.Context, taskID int64) ([]domain.TaskChecklist, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, task_id, phase_id, checklist_id, name FROM task_checklists WHERE task_id = ? ORDER BY id`, taskID)
	if err != nil {
		return nil, fmt.Errorf("listing task checklists: %w", err)
	}
	var checklists []domain.TaskChecklist
	for rows.Next() {
		var c domain.TaskChecklist
		if err := rows.Scan(&c.ID, &c.TaskID, &c.PhaseID, &c.ChecklistID, &c.Name); err != nil {
			rows.Close()
			return nil, fmt.Errorf("scanning task checklist: %w", err)
		}
		checklists = append(checklists, c)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating task checklists: %w", err)
	}

	// Items are read after the parent cursor is closed; the pool holds a
	// single connection.
	for i := range checklists {
		itemRows, err := r.db.QueryContext(ctx,
			`SELECT id, name, description, sequential FROM task_checklist_items
			 WHERE task_checklist_id = ? ORDER BY sequential, id`, checklists[i].ID)
		if err != nil {
			return nil, fmt.Errorf("listing task checklist items: %w", err)
		}
		for itemRows.Next() {
			var item domain.ChecklistItem
			if err := itemRows.Scan(&item.ID, &item.Name, &item.Description, &item.Sequential); err != nil {
				itemRows.Close()
				return nil, fmt.Errorf("scanning task checklist item: %w", err)
			}
			checklists[i].Items = append(checklists[i].Items, item)
		}
		itemRows.Close()
		if err := itemRows.Err(); err != nil {
			return nil, fmt.Errorf("iterating task checklist items: %w", err)
		}
	}
	return checklists, nil
}

func (r *SQLiteTaskRepo) listForms(ctx context.Context, taskID int64) ([]domain.TaskForm, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, task_id, form_id, form_name, payload, placement_start, placement_end,
			set_placement_end, created_by_id
		 FROM task_forms WHERE task_id = ? ORDER BY id`, taskID)
	if err != nil {
		return nil, fmt.Errorf("listing task forms: %w", err)
	}
	defer rows.Close()

	var forms []domain.TaskForm
	for rows.Next() {
		var f domain.TaskForm
		var payload string
		var start, end sql.NullString
		var setEnd int
		if err := rows.Scan(&f.ID, &f.TaskID, &f.FormID, &f.FormName, &payload, &start, &end,
			&setEnd, &f.CreatedByID); err != nil {
			return nil, fmt.Errorf("scanning task form: %w", err)
		}
		if err := json.Unmarshal([]byte(payload), &f.Values); err != nil {
			return nil, fmt.Errorf("decoding task form %d payload: %w", f.ID, err)
		}
		f.PlacementStart = parseNullableTime(start, time.RFC3339)
		f.PlacementEnd = parseNullableTime(end, time.RFC3339)
		f.SetPlacementEnd = intToBool(setEnd)
		forms = append(forms, f)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating task forms: %w", err)
	}
	return forms, nil
}

func (r *SQLiteTaskRepo) listIterations(ctx context.Context, taskID int64) ([]domain.TaskIteration, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, task_id, user_id, field, value, description, created_at
		 FROM task_iterations WHERE task_id = ? ORDER BY id`, taskID)
	if err != nil {
		return nil, fmt.Errorf("listing task iterations: %w", err)
	}
	defer rows.Close()

	var its []domain.TaskIteration
	for rows.Next() {
		var it domain.TaskIteration
		var createdAt string
		if err := rows.Scan(&it.ID, &it.TaskID, &it.UserID, &it.Field, &it.Value, &it.Description, &createdAt); err != nil {
			return nil, fmt.Errorf("scanning task iteration: %w", err)
		}
		if it.CreatedAt, err = parseTime(createdAt); err != nil {
			return nil, fmt.Errorf("parsing iteration created_at: %w", err)
		}
		its = append(its, it)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating task iterations: %w", err)
	}
	return its, nil
}

func scanTask(row *sql.Row) (*domain.Task, error) {
	var t domain.Task
	var projectID, quantity, coPhase sql.NullInt64
	var planned, setEnd int
	var allocation, situation, priority, origin string
	var start, due, originalDue, createdAt string
	var phaseStart, phaseDue, placementStart, placementEnd sql.NullString
	var rate, budget sql.NullFloat64

	err := row.Scan(
		&t.ID, &t.CompanyID, &t.WorkspaceID, &projectID, &t.TaskTypeID, &planned, &t.Title, &t.Description,
		&allocation, &situation, &quantity, &t.EstimatedTime, &t.PriorityGroup, &priority, &start, &due,
		&originalDue, &phaseStart, &phaseDue, &t.DaysToStart, &t.DaysToComplete, &t.PhaseID,
		&t.ExecutorID, &coPhase, &t.CoExecutorID, &rate, &budget, &origin,
		&placementStart, &placementEnd, &setEnd, &t.CreatedByID, &createdAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scanning task: %w", err)
	}

	t.ProjectID = nullInt64Ptr(projectID)
	t.Quantity = nullIntPtr(quantity)
	t.CoPhaseID = nullInt64Ptr(coPhase)
	t.Planned = intToBool(planned)
	t.SetPlacementEnd = intToBool(setEnd)
	t.Allocation = domain.AllocationModel(allocation)
	t.Situation = domain.TaskSituation(situation)
	t.Priority = domain.Priority(priority)
	t.HourlyRateOrigin = domain.HourlyRateOrigin(origin)
	t.HourlyRate = nullFloatPtr(rate)
	t.HourlyBudget = nullFloatPtr(budget)
	t.PhaseStartDate = parseNullableTime(phaseStart, time.RFC3339)
	t.PhaseDueDate = parseNullableTime(phaseDue, time.RFC3339)
	t.PlacementStart = parseNullableTime(placementStart, time.RFC3339)
	t.PlacementEnd = parseNullableTime(placementEnd, time.RFC3339)

	for _, f := range []struct {
		dst *time.Time
		src string
		col string
	}{
		{&t.StartDate, start, "start_date"},
		{&t.DueDate, due, "due_date"},
		{&t.OriginalDueDate, originalDue, "original_due_date"},
		{&t.CreatedAt, createdAt, "created_at"},
	} {
		v, err := parseTime(f.src)
		if err != nil {
			return nil, fmt.Errorf("parsing %s: %w", f.col, err)
		}
		*f.dst = v
	}
	return &t, nil
}

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

// SQLiteProjectRepo implements ProjectRepo using a SQLite database.
type SQLiteProjectRepo struct {
	db db.DBTX
}

// NewSQLiteProjectRepo creates a new SQLiteProjectRepo.
func NewSQLiteProjectRepo(conn db.DBTX) *SQLiteProjectRepo {
	return &SQLiteProjectRepo{db: conn}
}

func (r *SQLiteProjectRepo) Create(ctx context.Context, p *domain.Project) error {
	if p.CreatedAt.IsZero() {
		p.CreatedAt = time.Now().UTC()
	}
	if p.BudgetMethod == "" {
		p.BudgetMethod = domain.BudgetCalculated
	}
	query := `INSERT INTO projects (id, workspace_id, name, alias, description, start_date,
		budget_method, hourly_budget, is_model, created_by_id, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	res, err := r.db.ExecContext(ctx, query,
		idOrNull(p.ID),
		p.WorkspaceID,
		p.Name,
		p.Alias,
		p.Description,
		anchorValue(p.AnchorDate),
		string(p.BudgetMethod),
		p.HourlyBudget,
		boolToInt(p.IsModel),
		p.CreatedByID,
		formatTime(p.CreatedAt),
	)
	if err != nil {
		return fmt.Errorf("inserting project: %w", err)
	}
	if p.ID, err = lastInsertID(res); err != nil {
		return fmt.Errorf("reading project id: %w", err)
	}
	for _, tagID := range p.TagIDs {
		if _, err := r.db.ExecContext(ctx,
			`INSERT OR IGNORE INTO project_tags (project_id, tag_id) VALUES (?, ?)`, p.ID, tagID); err != nil {
			return fmt.Errorf("inserting project tag: %w", err)
		}
	}
	return nil
}

func (r *SQLiteProjectRepo) GetByID(ctx context.Context, id int64) (*domain.Project, error) {
	query := `SELECT id, workspace_id, name, alias, description, start_date, budget_method,
		hourly_budget, is_model, created_by_id, created_at
		FROM projects WHERE id = ?`

	var p domain.Project
	var startDate sql.NullString
	var method, createdAt string
	var isModel int
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&p.ID, &p.WorkspaceID, &p.Name, &p.Alias, &p.Description, &startDate, &method,
		&p.HourlyBudget, &isModel, &p.CreatedByID, &createdAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("project %d: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("scanning project: %w", err)
	}
	p.BudgetMethod = domain.BudgetMethod(method)
	p.IsModel = intToBool(isModel)
	p.AnchorDate = parseNullableTime(startDate, time.RFC3339)
	if p.CreatedAt, err = parseTime(createdAt); err != nil {
		return nil, fmt.Errorf("parsing created_at: %w", err)
	}

	rows, err := r.db.QueryContext(ctx,
		`SELECT tag_id FROM project_tags WHERE project_id = ? ORDER BY tag_id`, id)
	if err != nil {
		return nil, fmt.Errorf("listing project tags: %w", err)
	}
	if p.TagIDs, err = scanIDs(rows); err != nil {
		return nil, fmt.Errorf("scanning project tags: %w", err)
	}
	return &p, nil
}

func (r *SQLiteProjectRepo) ClaimAnchor(ctx context.Context, projectID int64, anchor time.Time) (bool, error) {
	res, err := r.db.ExecContext(ctx,
		`UPDATE projects SET start_date = ? WHERE id = ? AND start_date IS NULL`,
		formatZoned(anchor), projectID)
	if err != nil {
		return false, fmt.Errorf("claiming project anchor: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("claiming project anchor: %w", err)
	}
	return n == 1, nil
}

func (r *SQLiteProjectRepo) ReleaseAnchor(ctx context.Context, projectID int64, anchor time.Time) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE projects SET start_date = NULL WHERE id = ? AND start_date = ?`,
		projectID, formatZoned(anchor))
	if err != nil {
		return fmt.Errorf("releasing project anchor: %w", err)
	}
	return nil
}

func (r *SQLiteProjectRepo) AddHistory(ctx context.Context, h *domain.ProjectHistory) error {
	if h.CreatedAt.IsZero() {
		h.CreatedAt = time.Now().UTC()
	}
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO project_history (project_id, task_id, user_id, action, created_at) VALUES (?, ?, ?, ?, ?)`,
		h.ProjectID, nullableIDToValue(h.TaskID), h.UserID, h.Action, formatTime(h.CreatedAt))
	if err != nil {
		return fmt.Errorf("inserting project history: %w", err)
	}
	if h.ID, err = lastInsertID(res); err != nil {
		return fmt.Errorf("reading project history id: %w", err)
	}
	return nil
}

func anchorValue(t *time.Time) any {
	if t == nil {
		return nil
	}
	return formatZoned(*t)
}

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

// SQLiteChannelRepo implements ChannelRepo using a SQLite database.
type SQLiteChannelRepo struct {
	db db.DBTX
}

func NewSQLiteChannelRepo(conn db.DBTX) *SQLiteChannelRepo {
	return &SQLiteChannelRepo{db: conn}
}

func (r *SQLiteChannelRepo) Create(ctx context.Context, c *domain.Channel) error {
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO channels (id, workspace_id, media_id, name, deleted_at) VALUES (?, ?, ?, ?, ?)`,
		idOrNull(c.ID), c.WorkspaceID, c.MediaID, c.Name, nullableTimeToString(c.DeletedAt, time.RFC3339))
	if err != nil {
		return fmt.Errorf("inserting channel: %w", err)
	}
	if c.ID, err = lastInsertID(res); err != nil {
		return fmt.Errorf("reading channel id: %w", err)
	}
	return nil
}

func (r *SQLiteChannelRepo) FindLive(ctx context.Context, workspaceID, mediaID int64) (*domain.Channel, error) {
	var c domain.Channel
	err := r.db.QueryRowContext(ctx,
		`SELECT id, workspace_id, media_id, name FROM channels
		 WHERE workspace_id = ? AND media_id = ? AND deleted_at IS NULL
		 ORDER BY id LIMIT 1`, workspaceID, mediaID,
	).Scan(&c.ID, &c.WorkspaceID, &c.MediaID, &c.Name)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("channel for media %d: %w", mediaID, ErrNotFound)
		}
		return nil, fmt.Errorf("scanning channel: %w", err)
	}
	return &c, nil
}

// SQLiteChecklistRepo implements ChecklistRepo using a SQLite database.
type SQLiteChecklistRepo struct {
	db db.DBTX
}

func NewSQLiteChecklistRepo(conn db.DBTX) *SQLiteChecklistRepo {
	return &SQLiteChecklistRepo{db: conn}
}

func (r *SQLiteChecklistRepo) Create(ctx context.Context, c *domain.Checklist) error {
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO checklists (id, company_id, name, active, deleted_at) VALUES (?, ?, ?, ?, ?)`,
		idOrNull(c.ID), c.CompanyID, c.Name, boolToInt(c.Active), nullableTimeToString(c.DeletedAt, time.RFC3339))
	if err != nil {
		return fmt.Errorf("inserting checklist: %w", err)
	}
	if c.ID, err = lastInsertID(res); err != nil {
		return fmt.Errorf("reading checklist id: %w", err)
	}
	for i := range c.Items {
		item := &c.Items[i]
		res, err := r.db.ExecContext(ctx,
			`INSERT INTO checklist_items (checklist_id, name, description, sequential) VALUES (?, ?, ?, ?)`,
			c.ID, item.Name, item.Description, item.Sequential)
		if err != nil {
			return fmt.Errorf("inserting checklist item: %w", err)
		}
		if item.ID, err = lastInsertID(res); err != nil {
			return fmt.Errorf("reading checklist item id: %w", err)
		}
	}
	return nil
}

func (r *SQLiteChecklistRepo) GetByID(ctx context.Context, id int64) (*domain.Checklist, error) {
	var c domain.Checklist
	var active int
	var deletedAt sql.NullString
	err := r.db.QueryRowContext(ctx,
		`SELECT id, company_id, name, active, deleted_at FROM checklists WHERE id = ?`, id,
	).Scan(&c.ID, &c.CompanyID, &c.Name, &active, &deletedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("checklist %d: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("scanning checklist: %w", err)
	}
	c.Active = intToBool(active)
	c.DeletedAt = parseNullableTime(deletedAt, time.RFC3339)

	rows, err := r.db.QueryContext(ctx,
		`SELECT id, name, description, sequential FROM checklist_items
		 WHERE checklist_id = ? ORDER BY sequential, id`, id)
	if err != nil {
		return nil, fmt.Errorf("listing checklist items: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var item domain.ChecklistItem
		if err := rows.Scan(&item.ID, &item.Name, &item.Description, &item.Sequential); err != nil {
			return nil, fmt.Errorf("scanning checklist item: %w", err)
		}
		c.Items = append(c.Items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating checklist items: %w", err)
	}
	return &c, nil
}

// SQLiteFormRepo implements FormRepo using a SQLite database. Field options
// are stored as a JSON array.
type SQLiteFormRepo struct {
	db db.DBTX
}

func NewSQLiteFormRepo(conn db.DBTX) *SQLiteFormRepo {
	return &SQLiteFormRepo{db: conn}
}

func (r *SQLiteFormRepo) Create(ctx context.Context, f *domain.Form) error {
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO forms (id, company_id, name, active, free_plan, deleted_at) VALUES (?, ?, ?, ?, ?, ?)`,
		idOrNull(f.ID), f.CompanyID, f.Name, boolToInt(f.Active), boolToInt(f.FreePlan),
		nullableTimeToString(f.DeletedAt, time.RFC3339))
	if err != nil {
		return fmt.Errorf("inserting form: %w", err)
	}
	if f.ID, err = lastInsertID(res); err != nil {
		return fmt.Errorf("reading form id: %w", err)
	}
	for i := range f.Fields {
		field := &f.Fields[i]
		field.FormID = f.ID
		opts := field.Options
		if opts == nil {
			opts = []string{}
		}
		optJSON, err := json.Marshal(opts)
		if err != nil {
			return fmt.Errorf("encoding field options: %w", err)
		}
		res, err := r.db.ExecContext(ctx,
			`INSERT INTO form_fields (id, form_id, label, role, options) VALUES (?, ?, ?, ?, ?)`,
			idOrNull(field.ID), f.ID, field.Label, string(field.Role), string(optJSON))
		if err != nil {
			return fmt.Errorf("inserting form field: %w", err)
		}
		if field.ID, err = lastInsertID(res); err != nil {
			return fmt.Errorf("reading form field id: %w", err)
		}
	}
	return nil
}

func (r *SQLiteFormRepo) GetByID(ctx context.Context, id int64) (*domain.Form, error) {
	var f domain.Form
	var active, free int
	var deletedAt sql.NullString
	err := r.db.QueryRowContext(ctx,
		`SELECT id, company_id, name, active, free_plan, deleted_at FROM forms WHERE id = ?`, id,
	).Scan(&f.ID, &f.CompanyID, &f.Name, &active, &free, &deletedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("form %d: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("scanning form: %w", err)
	}
	f.Active = intToBool(active)
	f.FreePlan = intToBool(free)
	f.DeletedAt = parseNullableTime(deletedAt, time.RFC3339)

	rows, err := r.db.QueryContext(ctx,
		`SELECT id, form_id, label, role, options FROM form_fields WHERE form_id = ? ORDER BY id`, id)
	if err != nil {
		return nil, fmt.Errorf("listing form fields: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var field domain.FormField
		var role, optJSON string
		if err := rows.Scan(&field.ID, &field.FormID, &field.Label, &role, &optJSON); err != nil {
			return nil, fmt.Errorf("scanning form field: %w", err)
		}
		field.Role = domain.FieldRole(role)
		if err := json.Unmarshal([]byte(optJSON), &field.Options); err != nil {
			return nil, fmt.Errorf("decoding options of field %d: %w", field.ID, err)
		}
		f.Fields = append(f.Fields, field)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating form fields: %w", err)
	}
	return &f, nil
}

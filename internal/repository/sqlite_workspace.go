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

// SQLiteWorkspaceRepo implements WorkspaceRepo using a SQLite database.
type SQLiteWorkspaceRepo struct {
	db db.DBTX
}

// NewSQLiteWorkspaceRepo creates a new SQLiteWorkspaceRepo.
func NewSQLiteWorkspaceRepo(conn db.DBTX) *SQLiteWorkspaceRepo {
	return &SQLiteWorkspaceRepo{db: conn}
}

const workspaceColumns = `id, company_id, name, description, active, deleted_at, ticket_analyst_id,
	default_language, enable_gen_ai, share_audiences, share_channels, avatar_id, squad_id,
	external_id, is_default_template, created_at`

func (r *SQLiteWorkspaceRepo) Create(ctx context.Context, w *domain.Workspace) error {
	if w.CreatedAt.IsZero() {
		w.CreatedAt = time.Now().UTC()
	}
	query := `INSERT INTO workspaces (` + workspaceColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	res, err := r.db.ExecContext(ctx, query,
		idOrNull(w.ID),
		w.CompanyID,
		w.Name,
		w.Description,
		boolToInt(w.Active),
		nullableTimeToString(w.DeletedAt, time.RFC3339),
		w.TicketAnalystID,
		w.DefaultLanguage,
		boolToInt(w.EnableGenAI),
		boolToInt(w.ShareAudiences),
		boolToInt(w.ShareChannels),
		nullableIDToValue(w.AvatarID),
		nullableIDToValue(w.SquadID),
		w.ExternalID,
		boolToInt(w.IsDefaultTemplate),
		formatTime(w.CreatedAt),
	)
	if err != nil {
		return fmt.Errorf("inserting workspace: %w", err)
	}
	if w.ID, err = lastInsertID(res); err != nil {
		return fmt.Errorf("reading workspace id: %w", err)
	}

	for _, tagID := range w.TagIDs {
		if _, err := r.db.ExecContext(ctx,
			`INSERT OR IGNORE INTO workspace_tags (workspace_id, tag_id) VALUES (?, ?)`, w.ID, tagID); err != nil {
			return fmt.Errorf("inserting workspace tag: %w", err)
		}
	}
	for i := range w.Companies {
		w.Companies[i].WorkspaceID = w.ID
		cw := w.Companies[i]
		if _, err := r.db.ExecContext(ctx,
			`INSERT OR IGNORE INTO company_workspaces (company_id, workspace_id, active) VALUES (?, ?, ?)`,
			cw.CompanyID, w.ID, boolToInt(cw.Active)); err != nil {
			return fmt.Errorf("linking workspace to company %d: %w", cw.CompanyID, err)
		}
	}
	return nil
}

func (r *SQLiteWorkspaceRepo) GetByID(ctx context.Context, id int64) (*domain.Workspace, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+workspaceColumns+` FROM workspaces WHERE id = ?`, id)
	w, err := scanWorkspace(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("workspace %d: %w", id, ErrNotFound)
		}
		return nil, err
	}
	if err := r.loadLinks(ctx, w); err != nil {
		return nil, err
	}
	return w, nil
}

func (r *SQLiteWorkspaceRepo) DefaultTemplate(ctx context.Context) (*domain.Workspace, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+workspaceColumns+` FROM workspaces
		 WHERE is_default_template = 1 AND deleted_at IS NULL ORDER BY id LIMIT 1`)
	w, err := scanWorkspace(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("default workspace template: %w", ErrNotFound)
		}
		return nil, err
	}
	if err := r.loadLinks(ctx, w); err != nil {
		return nil, err
	}
	return w, nil
}

func (r *SQLiteWorkspaceRepo) loadLinks(ctx context.Context, w *domain.Workspace) error {
	rows, err := r.db.QueryContext(ctx,
		`SELECT tag_id FROM workspace_tags WHERE workspace_id = ? ORDER BY tag_id`, w.ID)
	if err != nil {
		return fmt.Errorf("listing workspace tags: %w", err)
	}
	if w.TagIDs, err = scanIDs(rows); err != nil {
		return fmt.Errorf("scanning workspace tags: %w", err)
	}

	rows, err = r.db.QueryContext(ctx,
		`SELECT company_id, active FROM company_workspaces WHERE workspace_id = ? ORDER BY company_id`, w.ID)
	if err != nil {
		return fmt.Errorf("listing workspace companies: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		cw := domain.CompanyWorkspace{WorkspaceID: w.ID}
		var active int
		if err := rows.Scan(&cw.CompanyID, &active); err != nil {
			return fmt.Errorf("scanning workspace company: %w", err)
		}
		cw.Active = intToBool(active)
		w.Companies = append(w.Companies, cw)
	}
	return rows.Err()
}

func (r *SQLiteWorkspaceRepo) AccessibleBy(ctx context.Context, workspaceID, companyID int64) (bool, error) {
	var n int
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM workspaces w
		 WHERE w.id = ? AND w.active = 1 AND w.deleted_at IS NULL
		   AND (w.company_id = ? OR EXISTS (
		       SELECT 1 FROM company_workspaces cw
		       WHERE cw.workspace_id = w.id AND cw.company_id = ? AND cw.active = 1))`,
		workspaceID, companyID, companyID).Scan(&n)
	if err != nil {
		return false, fmt.Errorf("checking workspace access: %w", err)
	}
	return n > 0, nil
}

func (r *SQLiteWorkspaceRepo) ActiveInCompany(ctx context.Context, workspaceID, companyID int64) (bool, error) {
	var n int
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM workspaces WHERE id = ? AND company_id = ? AND active = 1`,
		workspaceID, companyID).Scan(&n)
	if err != nil {
		return false, fmt.Errorf("checking workspace: %w", err)
	}
	return n > 0, nil
}

func (r *SQLiteWorkspaceRepo) FirstForCompany(ctx context.Context, companyID int64, liveOnly bool) (int64, error) {
	query := `SELECT id FROM workspaces WHERE company_id = ? ORDER BY id LIMIT 1`
	if liveOnly {
		query = `SELECT id FROM workspaces WHERE company_id = ? AND deleted_at IS NULL ORDER BY id LIMIT 1`
	}
	var id int64
	if err := r.db.QueryRowContext(ctx, query, companyID).Scan(&id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, fmt.Errorf("workspace for company %d: %w", companyID, ErrNotFound)
		}
		return 0, fmt.Errorf("finding company workspace: %w", err)
	}
	return id, nil
}

func scanWorkspace(row *sql.Row) (*domain.Workspace, error) {
	var w domain.Workspace
	var active, genAI, shareAud, shareCh, isTemplate int
	var deletedAt sql.NullString
	var avatar, squad sql.NullInt64
	var createdAt string
	err := row.Scan(
		&w.ID, &w.CompanyID, &w.Name, &w.Description, &active, &deletedAt, &w.TicketAnalystID,
		&w.DefaultLanguage, &genAI, &shareAud, &shareCh, &avatar, &squad,
		&w.ExternalID, &isTemplate, &createdAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scanning workspace: %w", err)
	}
	w.Active = intToBool(active)
	w.EnableGenAI = intToBool(genAI)
	w.ShareAudiences = intToBool(shareAud)
	w.ShareChannels = intToBool(shareCh)
	w.IsDefaultTemplate = intToBool(isTemplate)
	w.DeletedAt = parseNullableTime(deletedAt, time.RFC3339)
	w.AvatarID = nullInt64Ptr(avatar)
	w.SquadID = nullInt64Ptr(squad)
	if w.CreatedAt, err = parseTime(createdAt); err != nil {
		return nil, fmt.Errorf("parsing created_at: %w", err)
	}
	return &w, nil
}

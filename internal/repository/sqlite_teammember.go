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

// SQLiteTeamMemberRepo implements TeamMemberRepo using a SQLite database.
type SQLiteTeamMemberRepo struct {
	db db.DBTX
}

func NewSQLiteTeamMemberRepo(conn db.DBTX) *SQLiteTeamMemberRepo {
	return &SQLiteTeamMemberRepo{db: conn}
}

func (r *SQLiteTeamMemberRepo) Create(ctx context.Context, m *domain.TeamMember) error {
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO team_members (id, company_id, phase_id, workspace_id, user_id, deleted_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		idOrNull(m.ID), m.CompanyID, m.PhaseID, nullableIDToValue(m.WorkspaceID), m.UserID,
		nullableTimeToString(m.DeletedAt, time.RFC3339))
	if err != nil {
		return fmt.Errorf("inserting team member: %w", err)
	}
	if m.ID, err = lastInsertID(res); err != nil {
		return fmt.Errorf("reading team member id: %w", err)
	}
	return nil
}

func (r *SQLiteTeamMemberRepo) FindForPhase(ctx context.Context, companyID, phaseID int64, workspaceID *int64) (*domain.TeamMember, error) {
	var row *sql.Row
	if workspaceID == nil {
		row = r.db.QueryRowContext(ctx,
			`SELECT id, company_id, phase_id, workspace_id, user_id FROM team_members
			 WHERE company_id = ? AND phase_id = ? AND workspace_id IS NULL AND deleted_at IS NULL
			 ORDER BY id LIMIT 1`, companyID, phaseID)
	} else {
		row = r.db.QueryRowContext(ctx,
			`SELECT id, company_id, phase_id, workspace_id, user_id FROM team_members
			 WHERE company_id = ? AND phase_id = ? AND workspace_id = ? AND deleted_at IS NULL
			 ORDER BY id LIMIT 1`, companyID, phaseID, *workspaceID)
	}

	var m domain.TeamMember
	var ws sql.NullInt64
	if err := row.Scan(&m.ID, &m.CompanyID, &m.PhaseID, &ws, &m.UserID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("team member for phase %d: %w", phaseID, ErrNotFound)
		}
		return nil, fmt.Errorf("scanning team member: %w", err)
	}
	m.WorkspaceID = nullInt64Ptr(ws)
	return &m, nil
}

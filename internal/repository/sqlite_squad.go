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

// SQLiteSquadRepo implements SquadRepo using a SQLite database.
type SQLiteSquadRepo struct {
	db db.DBTX
}

func NewSQLiteSquadRepo(conn db.DBTX) *SQLiteSquadRepo {
	return &SQLiteSquadRepo{db: conn}
}

func (r *SQLiteSquadRepo) Create(ctx context.Context, s *domain.Squad) error {
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO squads (id, company_id, name, deleted_at) VALUES (?, ?, ?, ?)`,
		idOrNull(s.ID), s.CompanyID, s.Name, nullableTimeToString(s.DeletedAt, time.RFC3339))
	if err != nil {
		return fmt.Errorf("inserting squad: %w", err)
	}
	if s.ID, err = lastInsertID(res); err != nil {
		return fmt.Errorf("reading squad id: %w", err)
	}
	return nil
}

func (r *SQLiteSquadRepo) GetLive(ctx context.Context, companyID, id int64) (*domain.Squad, error) {
	var s domain.Squad
	err := r.db.QueryRowContext(ctx,
		`SELECT id, company_id, name FROM squads
		 WHERE id = ? AND company_id = ? AND deleted_at IS NULL`, id, companyID,
	).Scan(&s.ID, &s.CompanyID, &s.Name)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("squad %d: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("scanning squad: %w", err)
	}
	return &s, nil
}

package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/ekyte/intake/internal/db"
	"github.com/ekyte/intake/internal/domain"
)

// SQLiteTagRepo implements TagRepo using a SQLite database.
type SQLiteTagRepo struct {
	db db.DBTX
}

func NewSQLiteTagRepo(conn db.DBTX) *SQLiteTagRepo {
	return &SQLiteTagRepo{db: conn}
}

func (r *SQLiteTagRepo) Create(ctx context.Context, t *domain.Tag) error {
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO tags (id, company_id, name, type) VALUES (?, ?, ?, ?)`,
		idOrNull(t.ID), t.CompanyID, strings.TrimSpace(t.Name), string(t.Type))
	if err != nil {
		return fmt.Errorf("inserting tag: %w", err)
	}
	if t.ID, err = lastInsertID(res); err != nil {
		return fmt.Errorf("reading tag id: %w", err)
	}
	return nil
}

func (r *SQLiteTagRepo) FindByName(ctx context.Context, companyID int64, name string, tagType domain.TagType) (*domain.Tag, error) {
	var t domain.Tag
	var typ string
	err := r.db.QueryRowContext(ctx,
		`SELECT id, company_id, name, type FROM tags
		 WHERE company_id = ? AND type = ? AND name = ? COLLATE NOCASE ORDER BY id LIMIT 1`,
		companyID, string(tagType), strings.TrimSpace(name),
	).Scan(&t.ID, &t.CompanyID, &t.Name, &typ)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("tag %q: %w", name, ErrNotFound)
		}
		return nil, fmt.Errorf("scanning tag: %w", err)
	}
	t.Type = domain.TagType(typ)
	return &t, nil
}

// SQLitePhaseRepo implements PhaseRepo using a SQLite database.
type SQLitePhaseRepo struct {
	db db.DBTX
}

func NewSQLitePhaseRepo(conn db.DBTX) *SQLitePhaseRepo {
	return &SQLitePhaseRepo{db: conn}
}

func (r *SQLitePhaseRepo) Upsert(ctx context.Context, id int64, name string) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO phases (id, name) VALUES (?, ?)
		 ON CONFLICT(id) DO UPDATE SET name = excluded.name`, id, name)
	if err != nil {
		return fmt.Errorf("upserting phase %d: %w", id, err)
	}
	return nil
}

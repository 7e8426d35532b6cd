package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/ekyte/intake/internal/db"
	"github.com/ekyte/intake/internal/domain"
)

// SQLiteArtifactRepo implements ArtifactRepo using a SQLite database.
type SQLiteArtifactRepo struct {
	db db.DBTX
}

func NewSQLiteArtifactRepo(conn db.DBTX) *SQLiteArtifactRepo {
	return &SQLiteArtifactRepo{db: conn}
}

func (r *SQLiteArtifactRepo) Create(ctx context.Context, a *domain.Artifact) error {
	if a.CreatedAt.IsZero() {
		a.CreatedAt = time.Now().UTC()
	}
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO artifacts (id, context, workspace_id, object_key, url, content_type, size_bytes, created_by_id, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		a.ID, string(a.Context), a.WorkspaceID, a.ObjectKey, a.URL, a.ContentType, a.Size,
		a.CreatedByID, formatTime(a.CreatedAt))
	if err != nil {
		return fmt.Errorf("inserting artifact: %w", err)
	}
	return nil
}

func (r *SQLiteArtifactRepo) ListByWorkspace(ctx context.Context, workspaceID int64) ([]domain.Artifact, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, context, workspace_id, object_key, url, content_type, size_bytes, created_by_id, created_at
		 FROM artifacts WHERE workspace_id = ? ORDER BY created_at, id`, workspaceID)
	if err != nil {
		return nil, fmt.Errorf("listing artifacts: %w", err)
	}
	defer rows.Close()

	var out []domain.Artifact
	for rows.Next() {
		var a domain.Artifact
		var ctxName, createdAt string
		if err := rows.Scan(&a.ID, &ctxName, &a.WorkspaceID, &a.ObjectKey, &a.URL, &a.ContentType,
			&a.Size, &a.CreatedByID, &createdAt); err != nil {
			return nil, fmt.Errorf("scanning artifact: %w", err)
		}
		a.Context = domain.AttachmentContext(ctxName)
		if a.CreatedAt, err = parseTime(createdAt); err != nil {
			return nil, fmt.Errorf("parsing created_at: %w", err)
		}
		out = append(out, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating artifacts: %w", err)
	}
	return out, nil
}

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

// SQLiteBoardRepo implements BoardRepo using a SQLite database. Note
// categories belong to boards and are stored alongside them.
type SQLiteBoardRepo struct {
	db db.DBTX
}

// NewSQLiteBoardRepo creates a new SQLiteBoardRepo.
func NewSQLiteBoardRepo(conn db.DBTX) *SQLiteBoardRepo {
	return &SQLiteBoardRepo{db: conn}
}

func (r *SQLiteBoardRepo) Create(ctx context.Context, b *domain.Board) error {
	if b.CreatedAt.IsZero() {
		b.CreatedAt = time.Now().UTC()
	}
	if b.StartDate.IsZero() {
		b.StartDate = b.CreatedAt
	}
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO boards (id, workspace_id, title, description, active, start_date, created_by_id, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		idOrNull(b.ID), b.WorkspaceID, b.Title, b.Description, boolToInt(b.Active),
		formatZoned(b.StartDate), b.CreatedByID, formatTime(b.CreatedAt))
	if err != nil {
		return fmt.Errorf("inserting board: %w", err)
	}
	if b.ID, err = lastInsertID(res); err != nil {
		return fmt.Errorf("reading board id: %w", err)
	}
	return nil
}

const boardColumns = `b.id, b.workspace_id, b.title, b.description, b.active, b.start_date, b.created_by_id, b.created_at`

func (r *SQLiteBoardRepo) GetByID(ctx context.Context, id int64) (*domain.Board, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+boardColumns+` FROM boards b WHERE b.id = ?`, id)
	return scanBoard(row, id)
}

func (r *SQLiteBoardRepo) GetVisible(ctx context.Context, id int64, companyIDs []int64) (*domain.Board, error) {
	if len(companyIDs) == 0 {
		return nil, fmt.Errorf("board %d: %w", id, ErrNotFound)
	}
	query := `SELECT ` + boardColumns + ` FROM boards b
		WHERE b.id = ? AND EXISTS (
			SELECT 1 FROM company_workspaces cw
			WHERE cw.workspace_id = b.workspace_id AND cw.company_id IN (` + placeholders(len(companyIDs)) + `))`
	args := append([]any{id}, int64Args(companyIDs)...)
	return scanBoard(r.db.QueryRowContext(ctx, query, args...), id)
}

func scanBoard(row *sql.Row, id int64) (*domain.Board, error) {
	var b domain.Board
	var active int
	var start, createdAt string
	if err := row.Scan(&b.ID, &b.WorkspaceID, &b.Title, &b.Description, &active, &start, &b.CreatedByID, &createdAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("board %d: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("scanning board: %w", err)
	}
	b.Active = intToBool(active)
	var err error
	if b.StartDate, err = parseTime(start); err != nil {
		return nil, fmt.Errorf("parsing start_date: %w", err)
	}
	if b.CreatedAt, err = parseTime(createdAt); err != nil {
		return nil, fmt.Errorf("parsing created_at: %w", err)
	}
	return &b, nil
}

func (r *SQLiteBoardRepo) ListCategories(ctx context.Context, boardID int64) ([]domain.NoteCategory, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, board_id, title, sequential FROM note_categories WHERE board_id = ? ORDER BY sequential, id`, boardID)
	if err != nil {
		return nil, fmt.Errorf("listing note categories: %w", err)
	}
	defer rows.Close()

	var cats []domain.NoteCategory
	for rows.Next() {
		var c domain.NoteCategory
		if err := rows.Scan(&c.ID, &c.BoardID, &c.Title, &c.Sequential); err != nil {
			return nil, fmt.Errorf("scanning note category: %w", err)
		}
		cats = append(cats, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating note categories: %w", err)
	}
	return cats, nil
}

func (r *SQLiteBoardRepo) CreateCategory(ctx context.Context, c *domain.NoteCategory) error {
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO note_categories (id, board_id, title, sequential) VALUES (?, ?, ?, ?)`,
		idOrNull(c.ID), c.BoardID, c.Title, c.Sequential)
	if err != nil {
		return fmt.Errorf("inserting note category: %w", err)
	}
	if c.ID, err = lastInsertID(res); err != nil {
		return fmt.Errorf("reading note category id: %w", err)
	}
	return nil
}

// SQLiteNoteRepo implements NoteRepo using a SQLite database.
type SQLiteNoteRepo struct {
	db db.DBTX
}

func NewSQLiteNoteRepo(conn db.DBTX) *SQLiteNoteRepo {
	return &SQLiteNoteRepo{db: conn}
}

func (r *SQLiteNoteRepo) Create(ctx context.Context, n *domain.Note) error {
	if n.CreatedAt.IsZero() {
		n.CreatedAt = time.Now().UTC()
	}
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO notes (board_id, category_id, title, description, content, active, created_by_id, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		n.BoardID, n.CategoryID, n.Title, n.Description, n.Content, boolToInt(n.Active),
		n.CreatedByID, formatTime(n.CreatedAt))
	if err != nil {
		return fmt.Errorf("inserting note: %w", err)
	}
	if n.ID, err = lastInsertID(res); err != nil {
		return fmt.Errorf("reading note id: %w", err)
	}
	return nil
}

func (r *SQLiteNoteRepo) GetByID(ctx context.Context, id int64) (*domain.Note, error) {
	var n domain.Note
	var active int
	var createdAt string
	err := r.db.QueryRowContext(ctx,
		`SELECT id, board_id, category_id, title, description, content, active, created_by_id, created_at
		 FROM notes WHERE id = ?`, id,
	).Scan(&n.ID, &n.BoardID, &n.CategoryID, &n.Title, &n.Description, &n.Content, &active, &n.CreatedByID, &createdAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("note %d: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("scanning note: %w", err)
	}
	n.Active = intToBool(active)
	if n.CreatedAt, err = parseTime(createdAt); err != nil {
		return nil, fmt.Errorf("parsing created_at: %w", err)
	}
	return &n, nil
}

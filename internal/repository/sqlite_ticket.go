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

// SQLiteTicketRepo implements TicketRepo using a SQLite database.
type SQLiteTicketRepo struct {
	db db.DBTX
}

// NewSQLiteTicketRepo creates a new SQLiteTicketRepo.
func NewSQLiteTicketRepo(conn db.DBTX) *SQLiteTicketRepo {
	return &SQLiteTicketRepo{db: conn}
}

func (r *SQLiteTicketRepo) Create(ctx context.Context, t *domain.Ticket) error {
	now := time.Now().UTC()
	if t.CreatedAt.IsZero() {
		t.CreatedAt = now
	}
	if t.LastCommentAt.IsZero() {
		t.LastCommentAt = t.CreatedAt
	}
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO tickets (id, company_id, workspace_id, project_id, requester_id, created_by_id,
			subject, message, type, status, source, priority, priority_group, first_due_date,
			expect_due_date, analyst_id, executor_id, read, requester_read, current_phase_id,
			created_at, last_comment_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		idOrNull(t.ID),
		t.CompanyID,
		nullableIDToValue(t.WorkspaceID),
		nullableIDToValue(t.ProjectID),
		t.RequesterID,
		t.CreatedByID,
		t.Subject,
		t.Message,
		int(t.Type),
		string(t.Status),
		string(t.Source),
		string(t.Priority),
		t.PriorityGroup,
		nullableTimeToString(t.FirstDueDate, time.RFC3339),
		nullableTimeToString(t.ExpectDueDate, time.RFC3339),
		t.AnalystID,
		t.ExecutorID,
		boolToInt(t.Read),
		boolToInt(t.RequesterRead),
		t.CurrentPhaseID,
		formatTime(t.CreatedAt),
		formatTime(t.LastCommentAt),
	)
	if err != nil {
		return fmt.Errorf("inserting ticket: %w", err)
	}
	if t.ID, err = lastInsertID(res); err != nil {
		return fmt.Errorf("reading ticket id: %w", err)
	}

	for i := range t.Flow {
		p := &t.Flow[i]
		p.TicketID = t.ID
		res, err := r.db.ExecContext(ctx,
			`INSERT INTO ticket_flow_phases (ticket_id, ticket_phase_id, sequential, executor_id)
			 VALUES (?, ?, ?, ?)`, t.ID, p.TicketPhaseID, p.Sequential, p.ExecutorID)
		if err != nil {
			return fmt.Errorf("inserting ticket flow phase: %w", err)
		}
		if p.ID, err = lastInsertID(res); err != nil {
			return fmt.Errorf("reading ticket flow phase id: %w", err)
		}
	}
	for i := range t.CC {
		t.CC[i].TicketID = t.ID
		if _, err := r.db.ExecContext(ctx,
			`INSERT OR IGNORE INTO ticket_cc (ticket_id, user_id, email) VALUES (?, ?, ?)`,
			t.ID, t.CC[i].UserID, t.CC[i].Email); err != nil {
			return fmt.Errorf("inserting ticket cc: %w", err)
		}
	}
	return nil
}

func (r *SQLiteTicketRepo) GetByID(ctx context.Context, id int64) (*domain.Ticket, error) {
	var t domain.Ticket
	var ws, project sql.NullInt64
	var typ int
	var status, source, priority, createdAt, lastComment string
	var firstDue, expectDue sql.NullString
	var read, requesterRead int
	err := r.db.QueryRowContext(ctx,
		`SELECT id, company_id, workspace_id, project_id, requester_id, created_by_id, subject, message,
			type, status, source, priority, priority_group, first_due_date, expect_due_date,
			analyst_id, executor_id, read, requester_read, current_phase_id, created_at, last_comment_at
		 FROM tickets WHERE id = ?`, id,
	).Scan(&t.ID, &t.CompanyID, &ws, &project, &t.RequesterID, &t.CreatedByID, &t.Subject, &t.Message,
		&typ, &status, &source, &priority, &t.PriorityGroup, &firstDue, &expectDue,
		&t.AnalystID, &t.ExecutorID, &read, &requesterRead, &t.CurrentPhaseID, &createdAt, &lastComment)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("ticket %d: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("scanning ticket: %w", err)
	}
	t.WorkspaceID = nullInt64Ptr(ws)
	t.ProjectID = nullInt64Ptr(project)
	t.Type = domain.TicketType(typ)
	t.Status = domain.TicketStatus(status)
	t.Source = domain.TicketSource(source)
	t.Priority = domain.Priority(priority)
	t.FirstDueDate = parseNullableTime(firstDue, time.RFC3339)
	t.ExpectDueDate = parseNullableTime(expectDue, time.RFC3339)
	t.Read = intToBool(read)
	t.RequesterRead = intToBool(requesterRead)
	if t.CreatedAt, err = parseTime(createdAt); err != nil {
		return nil, fmt.Errorf("parsing created_at: %w", err)
	}
	if t.LastCommentAt, err = parseTime(lastComment); err != nil {
		return nil, fmt.Errorf("parsing last_comment_at: %w", err)
	}

	rows, err := r.db.QueryContext(ctx,
		`SELECT id, ticket_id, ticket_phase_id, sequential, executor_id
		 FROM ticket_flow_phases WHERE ticket_id = ? ORDER BY id`, id)
	if err != nil {
		return nil, fmt.Errorf("listing ticket flow: %w", err)
	}
	for rows.Next() {
		var p domain.TicketFlowPhase
		if err := rows.Scan(&p.ID, &p.TicketID, &p.TicketPhaseID, &p.Sequential, &p.ExecutorID); err != nil {
			rows.Close()
			return nil, fmt.Errorf("scanning ticket flow phase: %w", err)
		}
		t.Flow = append(t.Flow, p)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating ticket flow: %w", err)
	}

	ccRows, err := r.db.QueryContext(ctx,
		`SELECT ticket_id, user_id, email FROM ticket_cc WHERE ticket_id = ? ORDER BY email`, id)
	if err != nil {
		return nil, fmt.Errorf("listing ticket cc: %w", err)
	}
	defer ccRows.Close()
	for ccRows.Next() {
		var cc domain.TicketCC
		if err := ccRows.Scan(&cc.TicketID, &cc.UserID, &cc.Email); err != nil {
			return nil, fmt.Errorf("scanning ticket cc: %w", err)
		}
		t.CC = append(t.CC, cc)
	}
	if err := ccRows.Err(); err != nil {
		return nil, fmt.Errorf("iterating ticket cc: %w", err)
	}
	return &t, nil
}

func (r *SQLiteTicketRepo) AddHistory(ctx context.Context, h *domain.TicketHistory) error {
	if h.CreatedAt.IsZero() {
		h.CreatedAt = time.Now().UTC()
	}
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO ticket_history (ticket_id, user_id, action, created_at) VALUES (?, ?, ?, ?)`,
		h.TicketID, h.UserID, h.Action, formatTime(h.CreatedAt))
	if err != nil {
		return fmt.Errorf("inserting ticket history: %w", err)
	}
	if h.ID, err = lastInsertID(res); err != nil {
		return fmt.Errorf("reading ticket history id: %w", err)
	}
	return nil
}

// SQLiteTicketPhaseRepo implements TicketPhaseRepo using a SQLite database.
type SQLiteTicketPhaseRepo struct {
	db db.DBTX
}

func NewSQLiteTicketPhaseRepo(conn db.DBTX) *SQLiteTicketPhaseRepo {
	return &SQLiteTicketPhaseRepo{db: conn}
}

func (r *SQLiteTicketPhaseRepo) Create(ctx context.Context, p *domain.TicketPhaseTemplate) error {
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO ticket_phases (id, name, sequential, active) VALUES (?, ?, ?, ?)`,
		idOrNull(p.ID), p.Name, p.Sequential, boolToInt(p.Active))
	if err != nil {
		return fmt.Errorf("inserting ticket phase: %w", err)
	}
	if p.ID, err = lastInsertID(res); err != nil {
		return fmt.Errorf("reading ticket phase id: %w", err)
	}
	return nil
}

// ListActive returns active ticket phases in storage order. Callers order
// the resulting flow themselves.
func (r *SQLiteTicketPhaseRepo) ListActive(ctx context.Context) ([]domain.TicketPhaseTemplate, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, name, sequential, active FROM ticket_phases WHERE active = 1 ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("listing ticket phases: %w", err)
	}
	defer rows.Close()

	var phases []domain.TicketPhaseTemplate
	for rows.Next() {
		var p domain.TicketPhaseTemplate
		var active int
		if err := rows.Scan(&p.ID, &p.Name, &p.Sequential, &active); err != nil {
			return nil, fmt.Errorf("scanning ticket phase: %w", err)
		}
		p.Active = intToBool(active)
		phases = append(phases, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating ticket phases: %w", err)
	}
	return phases, nil
}

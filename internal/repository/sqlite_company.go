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

// SQLiteCompanyRepo implements CompanyRepo using a SQLite database.
type SQLiteCompanyRepo struct {
	db db.DBTX
}

// NewSQLiteCompanyRepo creates a new SQLiteCompanyRepo.
func NewSQLiteCompanyRepo(conn db.DBTX) *SQLiteCompanyRepo {
	return &SQLiteCompanyRepo{db: conn}
}

func (r *SQLiteCompanyRepo) Create(ctx context.Context, c *domain.Company) error {
	if c.CreatedAt.IsZero() {
		c.CreatedAt = time.Now().UTC()
	}
	if c.TaskCreatePolicy == "" {
		c.TaskCreatePolicy = domain.TaskCreateEveryone
	}
	if c.TeamProfile == "" {
		c.TeamProfile = domain.TeamInHouse
	}

	query := `INSERT INTO companies (id, name, owner_id, headquarter_id, ticket_email,
		default_ticket_analyst_id, financial_management, default_hourly_rate, default_phase_effort,
		task_create_policy, team_profile, default_language, enable_gen_ai, workdays, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	res, err := r.db.ExecContext(ctx, query,
		idOrNull(c.ID),
		c.Name,
		c.OwnerID,
		nullableIDToValue(c.HeadquarterID),
		c.TicketEmail,
		c.DefaultTicketAnalystID,
		boolToInt(c.FinancialManagement),
		c.DefaultHourlyRate,
		c.DefaultPhaseEffort,
		string(c.TaskCreatePolicy),
		string(c.TeamProfile),
		c.DefaultLanguage,
		boolToInt(c.EnableGenAI),
		weekdaysToCSV(c.Workdays),
		formatTime(c.CreatedAt),
	)
	if err != nil {
		return fmt.Errorf("inserting company: %w", err)
	}
	if c.ID, err = lastInsertID(res); err != nil {
		return fmt.Errorf("reading company id: %w", err)
	}

	for _, h := range c.Holidays {
		if _, err := r.db.ExecContext(ctx,
			`INSERT OR IGNORE INTO company_holidays (company_id, holiday) VALUES (?, ?)`,
			c.ID, h.Format(dateLayout)); err != nil {
			return fmt.Errorf("inserting company holiday: %w", err)
		}
	}
	return nil
}

func (r *SQLiteCompanyRepo) GetByID(ctx context.Context, id int64) (*domain.Company, error) {
	query := `SELECT id, name, owner_id, headquarter_id, ticket_email, default_ticket_analyst_id,
		financial_management, default_hourly_rate, default_phase_effort, task_create_policy,
		team_profile, default_language, enable_gen_ai, workdays, created_at
		FROM companies WHERE id = ?`

	var c domain.Company
	var hq sql.NullInt64
	var financial, genAI int
	var policy, profile, workdays, createdAt string
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&c.ID, &c.Name, &c.OwnerID, &hq, &c.TicketEmail, &c.DefaultTicketAnalystID,
		&financial, &c.DefaultHourlyRate, &c.DefaultPhaseEffort, &policy,
		&profile, &c.DefaultLanguage, &genAI, &workdays, &createdAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("company %d: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("scanning company: %w", err)
	}
	c.HeadquarterID = nullInt64Ptr(hq)
	c.FinancialManagement = intToBool(financial)
	c.EnableGenAI = intToBool(genAI)
	c.TaskCreatePolicy = domain.TaskCreatePolicy(policy)
	c.TeamProfile = domain.TeamProfile(profile)
	c.Workdays = csvToWeekdays(workdays)
	if c.CreatedAt, err = parseTime(createdAt); err != nil {
		return nil, fmt.Errorf("parsing created_at: %w", err)
	}

	rows, err := r.db.QueryContext(ctx,
		`SELECT holiday FROM company_holidays WHERE company_id = ? ORDER BY holiday`, id)
	if err != nil {
		return nil, fmt.Errorf("listing company holidays: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var s string
		if err := rows.Scan(&s); err != nil {
			return nil, fmt.Errorf("scanning holiday: %w", err)
		}
		h, err := time.Parse(dateLayout, s)
		if err != nil {
			return nil, fmt.Errorf("parsing holiday %q: %w", s, err)
		}
		c.Holidays = append(c.Holidays, h)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating holidays: %w", err)
	}
	return &c, nil
}

func (r *SQLiteCompanyRepo) Exists(ctx context.Context, id int64) (bool, error) {
	var n int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM companies WHERE id = ?`, id).Scan(&n); err != nil {
		return false, fmt.Errorf("checking company: %w", err)
	}
	return n > 0, nil
}

func (r *SQLiteCompanyRepo) AddSubscription(ctx context.Context, s *domain.Subscription) error {
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO company_subscriptions (id, company_id, plan_id, deleted_at) VALUES (?, ?, ?, ?)`,
		idOrNull(s.ID), s.CompanyID, s.PlanID, nullableTimeToString(s.DeletedAt, time.RFC3339))
	if err != nil {
		return fmt.Errorf("inserting subscription: %w", err)
	}
	if s.ID, err = lastInsertID(res); err != nil {
		return fmt.Errorf("reading subscription id: %w", err)
	}
	return nil
}

func (r *SQLiteCompanyRepo) HasPaidPlan(ctx context.Context, companyID int64) (bool, error) {
	var n int
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM company_subscriptions
		 WHERE company_id = ? AND deleted_at IS NULL AND plan_id != ?`,
		companyID, domain.FreePlanID).Scan(&n)
	if err != nil {
		return false, fmt.Errorf("checking subscriptions: %w", err)
	}
	return n > 0, nil
}

func (r *SQLiteCompanyRepo) TicketAliasInUse(ctx context.Context, email string, excludeCompanyID int64) (bool, error) {
	var n int
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM companies
		 WHERE id != ? AND ticket_email != ''
		   AND (? LIKE ticket_email || '+%' OR ? LIKE ticket_email || '@%')`,
		excludeCompanyID, email, email).Scan(&n)
	if err != nil {
		return false, fmt.Errorf("checking ticket aliases: %w", err)
	}
	return n > 0, nil
}

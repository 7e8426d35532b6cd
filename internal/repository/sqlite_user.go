package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/ekyte/intake/internal/db"
	"github.com/ekyte/intake/internal/domain"
)

// SQLiteUserRepo implements UserRepo using a SQLite database.
type SQLiteUserRepo struct {
	db db.DBTX
}

// NewSQLiteUserRepo creates a new SQLiteUserRepo.
func NewSQLiteUserRepo(conn db.DBTX) *SQLiteUserRepo {
	return &SQLiteUserRepo{db: conn}
}

func (r *SQLiteUserRepo) Create(ctx context.Context, u *domain.User) error {
	if u.CreatedAt.IsZero() {
		u.CreatedAt = time.Now().UTC()
	}
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO users (id, email, name, platform_admin, created_at) VALUES (?, ?, ?, ?, ?)`,
		u.ID, strings.TrimSpace(u.Email), u.Name, boolToInt(u.PlatformAdmin), formatTime(u.CreatedAt))
	if err != nil {
		return fmt.Errorf("inserting user: %w", err)
	}
	return nil
}

func (r *SQLiteUserRepo) GetByID(ctx context.Context, id string) (*domain.User, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT id, email, name, platform_admin, created_at FROM users WHERE id = ?`, id)
	return r.scanUser(row, id)
}

// GetByEmail matches case-insensitively; the email column is NOCASE.
func (r *SQLiteUserRepo) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	email = strings.TrimSpace(email)
	row := r.db.QueryRowContext(ctx,
		`SELECT id, email, name, platform_admin, created_at FROM users WHERE email = ?`, email)
	return r.scanUser(row, email)
}

func (r *SQLiteUserRepo) scanUser(row *sql.Row, key string) (*domain.User, error) {
	var u domain.User
	var admin int
	var createdAt string
	if err := row.Scan(&u.ID, &u.Email, &u.Name, &admin, &createdAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("user %s: %w", key, ErrNotFound)
		}
		return nil, fmt.Errorf("scanning user: %w", err)
	}
	u.PlatformAdmin = intToBool(admin)
	var err error
	if u.CreatedAt, err = parseTime(createdAt); err != nil {
		return nil, fmt.Errorf("parsing created_at: %w", err)
	}
	return &u, nil
}

func (r *SQLiteUserRepo) LinkCompany(ctx context.Context, uc *domain.UserCompany) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT OR IGNORE INTO user_companies (user_id, company_id, profile, workspace_id, hourly_rate)
		 VALUES (?, ?, ?, ?, ?)`,
		uc.UserID, uc.CompanyID, string(uc.Profile), nullableIDToValue(uc.WorkspaceID), uc.HourlyRate)
	if err != nil {
		return fmt.Errorf("linking user to company: %w", err)
	}
	return nil
}

func (r *SQLiteUserRepo) GetCompanyLink(ctx context.Context, userID string, companyID int64) (*domain.UserCompany, error) {
	var uc domain.UserCompany
	var profile string
	var ws sql.NullInt64
	err := r.db.QueryRowContext(ctx,
		`SELECT user_id, company_id, profile, workspace_id, hourly_rate
		 FROM user_companies WHERE user_id = ? AND company_id = ?`, userID, companyID,
	).Scan(&uc.UserID, &uc.CompanyID, &profile, &ws, &uc.HourlyRate)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("user %s in company %d: %w", userID, companyID, ErrNotFound)
		}
		return nil, fmt.Errorf("scanning user company: %w", err)
	}
	uc.Profile = domain.CompanyProfile(profile)
	uc.WorkspaceID = nullInt64Ptr(ws)
	return &uc, nil
}

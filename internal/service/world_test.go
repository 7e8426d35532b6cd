package service

import (
	"context"
	"database/sql"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/ekyte/intake/internal/contract"
	"github.com/ekyte/intake/internal/db"
	"github.com/ekyte/intake/internal/domain"
	"github.com/ekyte/intake/internal/repository"
	"github.com/ekyte/intake/internal/storage"
	"github.com/ekyte/intake/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// world is a seeded database with one tenant: its owner, an editor, a
// workspace and the platform company.
type world struct {
	db        *sql.DB
	platform  *domain.Company
	company   *domain.Company
	owner     *domain.User
	editor    *domain.User
	workspace *domain.Workspace
	store     *storage.MemoryStore
	notifier  *recordingNotifier
}

func newWorld(t *testing.T, opts ...testutil.CompanyOption) *world {
	t.Helper()
	conn := testutil.NewTestDB(t)
	w := &world{
		db:       conn,
		owner:    testutil.NewTestUser("owner@acme.test"),
		editor:   testutil.NewTestUser("ana@acme.test"),
		store:    storage.NewMemoryStore(),
		notifier: &recordingNotifier{},
	}
	ctx := context.Background()
	users := repository.NewSQLiteUserRepo(conn)
	companies := repository.NewSQLiteCompanyRepo(conn)
	require.NoError(t, users.Create(ctx, w.owner))
	require.NoError(t, users.Create(ctx, w.editor))

	w.platform = testutil.NewTestCompany("Platform")
	w.platform.ID = domain.PlatformCompanyID
	require.NoError(t, companies.Create(ctx, w.platform))
	w.company = testutil.NewTestCompany("Acme", append([]testutil.CompanyOption{testutil.WithOwner(w.owner.ID)}, opts...)...)
	require.NoError(t, companies.Create(ctx, w.company))

	w.link(t, w.owner, domain.ProfileAdminOwner)
	w.link(t, w.editor, domain.ProfileEditor)

	w.workspace = testutil.NewTestWorkspace(w.company.ID, "Main")
	require.NoError(t, repository.NewSQLiteWorkspaceRepo(conn).Create(ctx, w.workspace))
	return w
}

func (w *world) collaborators() Collaborators {
	settings := DefaultSettings()
	settings.Location = time.UTC
	return Collaborators{
		UoW:      testutil.NewTestUoW(w.db),
		Store:    w.store,
		Notifier: w.notifier,
		Logger:   slog.New(slog.NewTextHandler(io.Discard, nil)),
		Settings: settings,
	}
}

func (w *world) auth(email string) contract.Auth {
	return contract.Auth{CompanyID: w.company.ID, UserEmail: email}
}

func (w *world) link(t *testing.T, u *domain.User, profile domain.CompanyProfile) {
	t.Helper()
	require.NoError(t, repository.NewSQLiteUserRepo(w.db).LinkCompany(context.Background(),
		&domain.UserCompany{UserID: u.ID, CompanyID: w.company.ID, Profile: profile}))
}

func (w *world) user(t *testing.T, email string) *domain.User {
	t.Helper()
	u := testutil.NewTestUser(email)
	require.NoError(t, repository.NewSQLiteUserRepo(w.db).Create(context.Background(), u))
	return u
}

func (w *world) taskType(t *testing.T, tt *domain.TaskType) *domain.TaskType {
	t.Helper()
	require.NoError(t, repository.NewSQLiteTaskTypeRepo(w.db).Create(context.Background(), tt))
	return tt
}

func (w *world) project(t *testing.T, p *domain.Project) *domain.Project {
	t.Helper()
	require.NoError(t, repository.NewSQLiteProjectRepo(w.db).Create(context.Background(), p))
	return p
}

func (w *world) count(t *testing.T, table string) int {
	t.Helper()
	return testutil.CountRows(t, w.db, table)
}

// requireCoded asserts err is a coded error of the given kind and id.
func requireCoded(t *testing.T, err error, kind contract.Kind, id int) {
	t.Helper()
	require.Error(t, err)
	coded, ok := contract.AsError(err)
	require.True(t, ok, "expected a coded error, got %v", err)
	assert.Equal(t, kind, coded.Kind, coded.Error())
	assert.Equal(t, id, coded.ID, coded.Error())
}

func assertDay(t *testing.T, want time.Time, got *time.Time) {
	t.Helper()
	require.NotNil(t, got)
	assert.Equal(t, want.Format(contract.DateLayout), got.Format(contract.DateLayout))
}

type recordingNotifier struct {
	mu   sync.Mutex
	sent []Notification
	err  error
}

func (n *recordingNotifier) Notify(_ context.Context, msg Notification) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.sent = append(n.sent, msg)
	return n.err
}

func (n *recordingNotifier) all() []Notification {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]Notification(nil), n.sent...)
}

type failingStore struct{ err error }

func (s failingStore) Put(context.Context, storage.Object) (string, error) { return "", s.err }

// failingUoW fails the Nth write of every transaction.
func failingUoW(conn *sql.DB, n int32, err error) db.UnitOfWork {
	return &testutil.FailOnNthExecUoW{DB: conn, FailOn: n, Err: err}
}

// tinyPNG is a 1x1 transparent PNG.
const tinyPNG = "iVBORw0KGgoAAAANSUhEUgAAAAEAAAABCAYAAAAfFcSJAAAADUlEQVR42mNkYPhfDwAChwGA60e6kgAAAABJRU5ErkJggg=="

package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/ekyte/intake/internal/cli"
	"github.com/ekyte/intake/internal/cli/formatter"
	"github.com/ekyte/intake/internal/config"
	"github.com/ekyte/intake/internal/db"
	"github.com/ekyte/intake/internal/scheduler"
	"github.com/ekyte/intake/internal/service"
	"github.com/ekyte/intake/internal/storage"
	"github.com/mattn/go-isatty"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, formatter.FormatError(err))
		os.Exit(1)
	}
}

func run() error {
	ctx := context.Background()

	cfg, err := config.Load(cli.ConfigPath(os.Args[1:]))
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	logger := newLogger(cfg.Logging)
	loc, err := cfg.Intake.Location()
	if err != nil {
		return fmt.Errorf("loading timezone: %w", err)
	}

	// Open database
	database, err := db.OpenDB(cfg.Database.Path)
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer database.Close()

	store, err := newStore(ctx, cfg.Storage)
	if err != nil {
		return err
	}

	c := service.Collaborators{
		UoW:      db.NewSQLiteUnitOfWork(database),
		Store:    store,
		Notifier: service.NewLogNotifier(logger),
		// One lock set for the process so concurrent unplanned tasks on a
		// project see each other's anchor.
		Locks:  &scheduler.ContextLocks{},
		Logger: logger,
		Settings: service.Settings{
			ReservedEmailDomain:  cfg.Intake.ReservedEmailDomain,
			DefaultPhaseEffort:   cfg.Intake.DefaultPhaseEffort,
			PlacementHour:        cfg.Intake.PlacementHour,
			Location:             loc,
			DefaultTicketMessage: cfg.Intake.DefaultTicketMessage,
		},
	}
	observer := service.NewSlogUseCaseObserver(logger)

	app := &cli.App{
		Tasks:      service.NewTaskService(c, observer),
		Tickets:    service.NewTicketService(c, observer),
		Boards:     service.NewBoardService(c, observer),
		Notes:      service.NewNoteService(c, observer),
		Projects:   service.NewProjectService(c, observer),
		Workspaces: service.NewWorkspaceService(c, observer),
		UoW:        c.UoW,
		Logger:     logger,
	}

	// Prompt for missing fields only on an interactive terminal.
	app.IsInteractive = func() bool {
		return isatty.IsTerminal(os.Stdin.Fd()) || isatty.IsCygwinTerminal(os.Stdin.Fd())
	}

	return cli.NewRootCmd(app).ExecuteContext(ctx)
}

func newStore(ctx context.Context, cfg config.StorageConfig) (storage.Store, error) {
	if cfg.Driver != "s3" {
		return storage.NewMemoryStore(), nil
	}
	s3, err := storage.NewS3Store(ctx, storage.S3Options{
		Bucket:         cfg.Bucket,
		Region:         cfg.Region,
		Endpoint:       cfg.Endpoint,
		Prefix:         cfg.Prefix,
		PublicBaseURL:  cfg.PublicBaseURL,
		ForcePathStyle: cfg.ForcePathStyle,
	})
	if err != nil {
		return nil, fmt.Errorf("configuring attachment storage: %w", err)
	}
	return s3, nil
}

// newLogger writes to stderr so command output stays clean on stdout.
func newLogger(cfg config.LoggingConfig) *slog.Logger {
	var level slog.Level
	switch strings.ToLower(cfg.Level) {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}
	opts := &slog.HandlerOptions{Level: level}
	if cfg.Format == "json" {
		return slog.New(slog.NewJSONHandler(os.Stderr, opts))
	}
	return slog.New(slog.NewTextHandler(os.Stderr, opts))
}

package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/ekyte/intake/internal/cli/formatter"
	"github.com/ekyte/intake/internal/contract"
	"github.com/ekyte/intake/internal/db"
	"github.com/ekyte/intake/internal/service"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// App holds the use cases the commands drive.
type App struct {
	Tasks      service.TaskService
	Tickets    service.TicketService
	Boards     service.BoardService
	Notes      service.NoteService
	Projects   service.ProjectService
	Workspaces service.WorkspaceService

	// UoW and Logger back the seed command.
	UoW    db.UnitOfWork
	Logger *slog.Logger

	// IsInteractive reports whether missing required fields may be
	// prompted for. Nil means never.
	IsInteractive func() bool
}

func (a *App) interactive() bool {
	return a.IsInteractive != nil && a.IsInteractive()
}

// globalFlags are shared by every subcommand.
type globalFlags struct {
	configPath string
	companyID  int64
	userEmail  string
}

func (g *globalFlags) auth() contract.Auth {
	return contract.Auth{CompanyID: g.companyID, UserEmail: g.userEmail}
}

// context marks the command line caller as holding credentials for the
// company it addresses.
func (g *globalFlags) context(cmd *cobra.Command) context.Context {
	return contract.WithCaller(cmd.Context(), g.companyID)
}

// NewRootCmd creates the top-level "intake" command and registers all
// subcommands against the provided App.
func NewRootCmd(app *App) *cobra.Command {
	g := &globalFlags{}
	root := &cobra.Command{
		Use:           "intake",
		Short:         "Create tasks, tickets and the entities they are planned in",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	pf := root.PersistentFlags()
	pf.StringVar(&g.configPath, "config", "", "Config file (YAML)")
	pf.Int64Var(&g.companyID, "company", 0, "Company the request is addressed to")
	pf.StringVar(&g.userEmail, "user", "", "Email of the acting user")

	root.AddCommand(
		newTaskCmd(app, g),
		newTicketCmd(app, g),
		newBoardCmd(app, g),
		newNoteCmd(app, g),
		newProjectCmd(app, g),
		newWorkspaceCmd(app, g),
		newSeedCmd(app),
	)

	return root
}

// ConfigPath extracts --config from args. The configuration decides how
// services are built, so it is needed before the command tree runs.
func ConfigPath(args []string) string {
	fs := pflag.NewFlagSet("intake", pflag.ContinueOnError)
	fs.ParseErrorsWhitelist.UnknownFlags = true
	fs.SetOutput(io.Discard)
	fs.Usage = func() {}
	path := fs.String("config", "", "")
	_ = fs.Parse(args)
	return *path
}

func printCreated(cmd *cobra.Command, c *contract.Created) error {
	_, err := fmt.Fprintln(cmd.OutOrStdout(), formatter.FormatCreated(*c))
	return err
}

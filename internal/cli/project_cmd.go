package cli

import (
	"github.com/ekyte/intake/internal/contract"
	"github.com/spf13/cobra"
)

func newProjectCmd(app *App, g *globalFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "project",
		Short: "Manage projects",
	}
	cmd.AddCommand(newProjectCreateCmd(app, g))
	return cmd
}

func newProjectCreateCmd(app *App, g *globalFlags) *cobra.Command {
	var req contract.CreateProjectRequest

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a project",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			req.Auth = g.auth()
			req.WorkspaceID = optionalInt64(cmd.Flags(), "workspace")

			created, err := app.Projects.Create(g.context(cmd), req)
			if err != nil {
				return err
			}
			return printCreated(cmd, created)
		},
	}

	fs := cmd.Flags()
	fs.StringVar(&req.Name, "name", "", "Project name")
	fs.StringVar(&req.Alias, "alias", "", "Short alias (derived from the name when empty)")
	fs.StringVar(&req.Description, "description", "", "Description")
	fs.StringVar(&req.Tags, "tags", "", `Tag names separated by "|"`)
	fs.StringVar(&req.StartDate, "start", "", "Start date (YYYY-MM-DD)")
	workspaceFlag(fs)

	return cmd
}

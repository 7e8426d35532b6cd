package cli

import (
	"github.com/ekyte/intake/internal/contract"
	"github.com/spf13/cobra"
)

func newWorkspaceCmd(app *App, g *globalFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "workspace",
		Short: "Manage workspaces",
	}
	cmd.AddCommand(newWorkspaceCreateCmd(app, g))
	return cmd
}

func newWorkspaceCreateCmd(app *App, g *globalFlags) *cobra.Command {
	req := contract.NewCreateWorkspaceRequest()
	var inactive bool

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a workspace",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			fs := cmd.Flags()
			req.Auth = g.auth()
			req.Active = !inactive
			req.EnableGenAI = optionalBool(fs, "gen-ai")
			req.AvatarID = optionalInt64(fs, "avatar")
			req.SquadID = optionalInt64(fs, "squad")

			created, err := app.Workspaces.Create(g.context(cmd), req)
			if err != nil {
				return err
			}
			return printCreated(cmd, created)
		},
	}

	fs := cmd.Flags()
	fs.StringVar(&req.Name, "name", "", "Workspace name")
	fs.StringVar(&req.Description, "description", "", "Description")
	fs.BoolVar(&inactive, "inactive", false, "Create the workspace inactive")
	fs.StringVar(&req.DefaultLanguage, "language", "", "Default language (inherited from the company when empty)")
	fs.BoolVar(&req.ShareAudiencesAndPersonas, "share-audiences", false, "Share audiences and personas")
	fs.BoolVar(&req.ShareChannels, "share-channels", false, "Share channels")
	fs.Bool("gen-ai", false, "Enable generative AI (inherited from the company when unset)")
	fs.Int64("avatar", 0, "Avatar id")
	fs.Int64("squad", 0, "Squad id")
	fs.StringVar(&req.ExternalID, "external-id", "", "External reference")
	fs.Int64SliceVar(&req.Companies, "link-company", nil, "Other company to link (repeatable)")

	return cmd
}

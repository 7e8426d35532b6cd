package cli

import (
	"github.com/ekyte/intake/internal/contract"
	"github.com/spf13/cobra"
)

func newBoardCmd(app *App, g *globalFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "board",
		Short: "Manage planning boards",
	}
	cmd.AddCommand(newBoardCreateCmd(app, g))
	return cmd
}

func newBoardCreateCmd(app *App, g *globalFlags) *cobra.Command {
	var req contract.CreateBoardRequest

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a board",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			req.Auth = g.auth()
			req.WorkspaceID = optionalInt64(cmd.Flags(), "workspace")

			created, err := app.Boards.Create(g.context(cmd), req)
			if err != nil {
				return err
			}
			return printCreated(cmd, created)
		},
	}

	fs := cmd.Flags()
	fs.StringVar(&req.Title, "title", "", "Board title")
	fs.StringVar(&req.Description, "description", "", "Description (HTML; inline images are uploaded)")
	workspaceFlag(fs)

	return cmd
}

func newNoteCmd(app *App, g *globalFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "note",
		Short: "Manage board notes",
	}
	cmd.AddCommand(newNoteCreateCmd(app, g))
	return cmd
}

func newNoteCreateCmd(app *App, g *globalFlags) *cobra.Command {
	var req contract.CreateNoteRequest

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Add a note to a board category",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			req.Auth = g.auth()

			created, err := app.Notes.Create(g.context(cmd), req)
			if err != nil {
				return err
			}
			return printCreated(cmd, created)
		},
	}

	fs := cmd.Flags()
	fs.Int64Var(&req.BoardID, "board", 0, "Board id")
	fs.StringVar(&req.Category, "category", "", "Category title (created when missing)")
	fs.StringVar(&req.Title, "title", "", "Note title")
	fs.StringVar(&req.Description, "description", "", "Description")
	fs.StringVar(&req.Content, "content", "", "Content (HTML; inline images are uploaded)")

	return cmd
}

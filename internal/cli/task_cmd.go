package cli

import (
	"github.com/ekyte/intake/internal/contract"
	"github.com/spf13/cobra"
)

func newTaskCmd(app *App, g *globalFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "task",
		Short: "Manage tasks",
	}
	cmd.AddCommand(newTaskCreateCmd(app, g))
	return cmd
}

func newTaskCreateCmd(app *App, g *globalFlags) *cobra.Command {
	req := contract.NewCreateTaskRequest()
	var unplanned bool

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a planned or unplanned task",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			fs := cmd.Flags()
			req.Auth = g.auth()
			req.PlanTask = !unplanned
			req.ProjectID = optionalInt64(fs, "project")
			req.PriorityGroup = optionalInt(fs, "priority")
			req.Quantity = optionalInt(fs, "quantity")
			req.EstimatedTime = optionalInt(fs, "estimate")

			if app.interactive() {
				if err := promptTask(&req); err != nil {
					return err
				}
			}

			created, err := app.Tasks.Create(g.context(cmd), req)
			if err != nil {
				return err
			}
			return printCreated(cmd, created)
		},
	}

	fs := cmd.Flags()
	fs.StringVar(&req.Title, "title", "", "Task title")
	fs.StringVar(&req.Description, "description", "", "Description (HTML; inline images are uploaded)")
	fs.Int64Var(&req.WorkspaceID, "workspace", 0, "Workspace id")
	fs.Int64Var(&req.TaskTypeID, "type", 0, "Task type id")
	fs.Int64("project", 0, "Project id")
	fs.StringVar(&req.CurrentDueDate, "due", "", "Due date (YYYY-MM-DD or RFC 3339)")
	fs.StringVar(&req.PhaseStartDate, "start", "", "Phase start date (YYYY-MM-DD or RFC 3339)")
	fs.Int("priority", 0, "Priority group (0-100)")
	fs.Int("quantity", 0, "Number of deliverables")
	fs.Int("estimate", 0, "Estimated effort in minutes")
	fs.BoolVar(&unplanned, "unplanned", false, "Create an unplanned task")

	return cmd
}

package cli

import (
	"fmt"
	"strings"

	"github.com/ekyte/intake/internal/contract"
	"github.com/ekyte/intake/internal/domain"
	"github.com/spf13/cobra"
)

var ticketTypes = map[string]domain.TicketType{
	"request":     domain.TicketRequest,
	"incident":    domain.TicketIncident,
	"question":    domain.TicketQuestion,
	"improvement": domain.TicketImprovement,
}

func parseTicketType(s string) (domain.TicketType, error) {
	t, ok := ticketTypes[strings.ToLower(strings.TrimSpace(s))]
	if !ok {
		return 0, fmt.Errorf("unknown ticket type %q (use request, incident, question or improvement)", s)
	}
	return t, nil
}

func newTicketCmd(app *App, g *globalFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "ticket",
		Short: "Manage tickets",
	}
	cmd.AddCommand(newTicketCreateCmd(app, g))
	return cmd
}

func newTicketCreateCmd(app *App, g *globalFlags) *cobra.Command {
	req := contract.NewCreateTicketRequest()
	var ticketType string
	var ccUsers []string

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Open a ticket on behalf of a requester",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			fs := cmd.Flags()
			t, err := parseTicketType(ticketType)
			if err != nil {
				return err
			}
			req.Auth = g.auth()
			req.Type = t
			req.WorkspaceID = optionalInt64(fs, "workspace")
			req.ProjectID = optionalInt64(fs, "project")
			req.PriorityGroup = optionalInt(fs, "priority")
			req.TicketCC = req.TicketCC[:0]
			for _, email := range ccUsers {
				req.TicketCC = append(req.TicketCC, contract.TicketCC{Email: email})
			}

			if app.interactive() {
				if err := promptTicket(&req); err != nil {
					return err
				}
			}

			created, err := app.Tickets.Create(g.context(cmd), req)
			if err != nil {
				return err
			}
			return printCreated(cmd, created)
		},
	}

	fs := cmd.Flags()
	fs.StringVar(&req.RequesterEmail, "requester", "", "Requester email (provisioned as a guest when unknown)")
	fs.StringVar(&req.Subject, "subject", "", "Ticket subject")
	fs.StringVar(&req.Message, "message", "", "Message (HTML; inline images are uploaded)")
	fs.StringVar(&ticketType, "type", "request", "Ticket type: request, incident, question or improvement")
	workspaceFlag(fs)
	fs.Int64("project", 0, "Project id")
	fs.StringVar(&req.ExpectDueDate, "expect", "", "Expected due date (YYYY-MM-DD or RFC 3339)")
	fs.Int("priority", 0, "Priority group (0-100)")
	fs.StringVar(&req.AnalystEmail, "analyst", "", "Analyst email")
	fs.StringVar(&req.UsersCC, "cc", "", "Comma separated emails to copy")
	fs.StringSliceVar(&ccUsers, "cc-user", nil, "Email to copy (repeatable)")

	return cmd
}

package cli

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/ekyte/intake/internal/cli/formatter"
	"github.com/ekyte/intake/internal/contract"
)

// intakeHuhTheme returns a huh theme matching the formatter palette.
func intakeHuhTheme() *huh.Theme {
	t := huh.ThemeBase()

	t.Focused.Title = lipgloss.NewStyle().Foreground(formatter.ColorHeader).Bold(true)
	t.Focused.SelectSelector = lipgloss.NewStyle().Foreground(formatter.ColorHeader)
	t.Focused.SelectedOption = lipgloss.NewStyle().Foreground(formatter.ColorGreen)
	t.Focused.UnselectedOption = lipgloss.NewStyle().Foreground(formatter.ColorFg)
	t.Focused.TextInput.Cursor = lipgloss.NewStyle().Foreground(formatter.ColorHeader)
	t.Focused.TextInput.Prompt = lipgloss.NewStyle().Foreground(formatter.ColorHeader)
	t.Focused.TextInput.Text = lipgloss.NewStyle().Foreground(formatter.ColorFg)
	t.Focused.TextInput.Placeholder = lipgloss.NewStyle().Foreground(formatter.ColorDim)

	t.Blurred.Title = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Blurred.TextInput.Prompt = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Blurred.TextInput.Text = lipgloss.NewStyle().Foreground(formatter.ColorDim)

	return t
}

func validateRequired(s string) error {
	if strings.TrimSpace(s) == "" {
		return errors.New("required")
	}
	return nil
}

func validateID(s string) error {
	v, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	if err != nil || v <= 0 {
		return errors.New("enter a positive id")
	}
	return nil
}

func validateDate(s string) error {
	if _, err := contract.ParseDate(s, time.UTC); err != nil || strings.TrimSpace(s) == "" {
		return errors.New("use YYYY-MM-DD format")
	}
	return nil
}

func textInput(title string, value *string, validate func(string) error) *huh.Input {
	return huh.NewInput().Title(title).Value(value).Validate(validate)
}

func runPrompt(fields []huh.Field) error {
	if len(fields) == 0 {
		return nil
	}
	return huh.NewForm(huh.NewGroup(fields...)).
		WithTheme(intakeHuhTheme()).
		WithShowHelp(false).
		Run()
}

// promptTask asks for the required task fields that were not given as flags.
func promptTask(req *contract.CreateTaskRequest) error {
	var fields []huh.Field
	var workspace, taskType string

	if strings.TrimSpace(req.Title) == "" {
		fields = append(fields, textInput("Title", &req.Title, validateRequired))
	}
	if req.WorkspaceID <= 0 {
		fields = append(fields, textInput("Workspace ID", &workspace, validateID))
	}
	if req.TaskTypeID <= 0 {
		fields = append(fields, textInput("Task Type ID", &taskType, validateID))
	}
	if req.PlanTask && strings.TrimSpace(req.CurrentDueDate) == "" {
		fields = append(fields, textInput("Due Date (YYYY-MM-DD)", &req.CurrentDueDate, validateDate))
	}
	if err := runPrompt(fields); err != nil {
		return fmt.Errorf("prompting task fields: %w", err)
	}

	if workspace != "" {
		req.WorkspaceID, _ = strconv.ParseInt(strings.TrimSpace(workspace), 10, 64)
	}
	if taskType != "" {
		req.TaskTypeID, _ = strconv.ParseInt(strings.TrimSpace(taskType), 10, 64)
	}
	return nil
}

// promptTicket asks for the requester and subject when missing.
func promptTicket(req *contract.CreateTicketRequest) error {
	var fields []huh.Field
	if strings.TrimSpace(req.RequesterEmail) == "" {
		fields = append(fields, textInput("Requester Email", &req.RequesterEmail, validateRequired))
	}
	if strings.TrimSpace(req.Subject) == "" {
		fields = append(fields, textInput("Subject", &req.Subject, validateRequired))
	}
	if err := runPrompt(fields); err != nil {
		return fmt.Errorf("prompting ticket fields: %w", err)
	}
	return nil
}

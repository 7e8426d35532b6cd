package formatter

import (
	"fmt"
	"strconv"

	"github.com/ekyte/intake/internal/contract"
	"github.com/ekyte/intake/internal/seed"
)

// FormatCreated renders a create result as "Created task 42".
func FormatCreated(c contract.Created) string {
	return StyleGreen.Render("Created") + " " + c.Entity + " " + Bold(strconv.FormatInt(c.ID, 10))
}

// FormatError renders coded errors as "[400 #7] title is required".
// Anything else is shown as a plain error.
func FormatError(err error) string {
	if e, ok := contract.AsError(err); ok {
		tag := fmt.Sprintf("[%d #%d]", e.Status(), e.ID)
		return KindStyle(e.Kind).Render(tag) + " " + e.Text
	}
	return StyleRed.Render("Error:") + " " + err.Error()
}

// FormatSeedResult summarizes what a seed run inserted.
func FormatSeedResult(path string, r *seed.Result) string {
	rows := [][]string{
		{"users", strconv.Itoa(r.Users)},
		{"companies", strconv.Itoa(r.Companies)},
		{"workspaces", strconv.Itoa(r.Workspaces)},
		{"task types", strconv.Itoa(r.TaskTypes)},
		{"boards", strconv.Itoa(r.Boards)},
	}
	return Header("Seed") + "\n" + Dim(path) + "\n\n" + RenderTable([]string{"ENTITY", "CREATED"}, rows)
}

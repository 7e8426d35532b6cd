package cli

import (
	"fmt"

	"github.com/ekyte/intake/internal/cli/formatter"
	"github.com/ekyte/intake/internal/seed"
	"github.com/spf13/cobra"
)

func newSeedCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "seed <file.yaml>",
		Short: "Load reference data (companies, users, task types, ...) from a YAML file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := seed.LoadFile(args[0])
			if err != nil {
				return err
			}
			res, err := seed.Apply(cmd.Context(), app.UoW, f, app.Logger)
			if err != nil {
				return fmt.Errorf("seeding %s: %w", args[0], err)
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), formatter.FormatSeedResult(args[0], res))
			return err
		},
	}
}

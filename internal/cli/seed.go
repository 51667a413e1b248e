package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/example/floor/internal/db"
	"github.com/example/floor/internal/wire"
)

// SeedCmd returns the seed command.
func SeedCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Load development fixtures into an empty database",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := db.SeedFixtures(wire.Default().DB); err != nil {
				return fmt.Errorf("failed to seed database: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), "✓ Fixtures loaded")
			return nil
		},
	}
}

package cli

import (
	"github.com/spf13/cobra"

	"github.com/example/floor/internal/wire"
)

// RepairCmd returns the repair command.
func RepairCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "repair",
		Short: "Close duplicate active assignments",
		Long: `Find applications and workstations with more than one active assignment,
keep the most recent one, and close the others.

Safe to run repeatedly. The server also runs it on a schedule.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			_, err := wire.AssignmentAdapterWithOutput(cmd.OutOrStdout()).Repair(commandContext(cmd))
			return err
		},
	}
}

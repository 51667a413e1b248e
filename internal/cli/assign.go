package cli

import (
	"github.com/spf13/cobra"

	"github.com/example/floor/internal/wire"
)

// AssignCmd returns the assign command.
func AssignCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "assign [application-id] [poste-id]",
		Short: "Load an application onto a workstation",
		Long: `Load a configuration application onto a workstation.

Fails when the application is already loaded elsewhere or the workstation is
already configured with another application.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return wire.AssignmentAdapterWithOutput(cmd.OutOrStdout()).Assign(commandContext(cmd), args[0], args[1])
		},
	}
}

// UnassignCmd returns the unassign command.
func UnassignCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "unassign [application-id]",
		Short: "Unload an application from its workstation",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return wire.AssignmentAdapterWithOutput(cmd.OutOrStdout()).Unassign(commandContext(cmd), args[0])
		},
	}
}

// AffectationCmd returns the affectation command group for inspecting assignments.
func AffectationCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "affectation",
		Aliases: []string{"assignment"},
		Short:   "Inspect application-to-workstation assignments",
	}

	show := &cobra.Command{
		Use:   "show [id]",
		Short: "Show the active assignment of an application (or of a workstation with --poste)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			adapter := wire.AssignmentAdapterWithOutput(cmd.OutOrStdout())
			var err error
			if poste, _ := cmd.Flags().GetBool("poste"); poste {
				_, err = adapter.ShowWorkstation(commandContext(cmd), args[0])
			} else {
				_, err = adapter.ShowApplication(commandContext(cmd), args[0])
			}
			return err
		},
	}
	show.Flags().Bool("poste", false, "Treat the ID as a workstation")

	history := &cobra.Command{
		Use:   "history [id]",
		Short: "Show assignment history of an application (or of a workstation with --poste)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			adapter := wire.AssignmentAdapterWithOutput(cmd.OutOrStdout())
			var err error
			if poste, _ := cmd.Flags().GetBool("poste"); poste {
				_, err = adapter.HistoryForWorkstation(commandContext(cmd), args[0])
			} else {
				_, err = adapter.HistoryForApplication(commandContext(cmd), args[0])
			}
			return err
		},
	}
	history.Flags().Bool("poste", false, "Treat the ID as a workstation")

	cmd.AddCommand(show, history)
	return cmd
}

// Package cli defines the floor command tree.
package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/example/floor/internal/ctxutil"
	"github.com/example/floor/internal/operator"
	"github.com/example/floor/internal/version"
)

// RootCmd returns the floor root command with every subcommand attached.
func RootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:     "floor",
		Short:   "Floor - order scheduling and workstation assignment",
		Version: version.String(),
		Long: `Floor schedules manufacturing orders onto production lines without
overlaps and tracks which configuration application is loaded on each
workstation.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			flag, _ := cmd.Flags().GetString("as")
			id, err := operator.Current(flag)
			if err != nil {
				return err
			}
			cmd.SetContext(ctxutil.WithActorID(commandContext(cmd), id.ID))
			return nil
		},
	}
	root.PersistentFlags().String("as", "", "Acting user recorded as creator of new orders (default $FLOOR_ACTOR, then the OS user)")

	root.AddCommand(InitCmd())
	root.AddCommand(OrderCmd())
	root.AddCommand(AssignCmd())
	root.AddCommand(UnassignCmd())
	root.AddCommand(AffectationCmd())

	// Catalog
	root.AddCommand(LineCmd())
	root.AddCommand(PosteCmd())
	root.AddCommand(AppCmd())
	root.AddCommand(ProductCmd())

	// Operations
	root.AddCommand(RepairCmd())
	root.AddCommand(ServeCmd())
	root.AddCommand(SeedCmd())
	root.AddCommand(VersionCmd())

	return root
}

// commandContext returns the command's context, which carries the operator
// once the root pre-run has resolved it.
func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}

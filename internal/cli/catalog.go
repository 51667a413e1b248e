package cli

import (
	"github.com/spf13/cobra"

	"github.com/example/floor/internal/ports/primary"
	"github.com/example/floor/internal/wire"
)

// LineCmd returns the line command group.
func LineCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "line",
		Aliases: []string{"ligne"},
		Short:   "Manage production lines",
	}

	create := &cobra.Command{
		Use:   "create [name]",
		Short: "Create a production line",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			postes, _ := cmd.Flags().GetStringSlice("poste")
			products, _ := cmd.Flags().GetStringSlice("product")
			return wire.CatalogAdapterWithOutput(cmd.OutOrStdout()).CreateLine(commandContext(cmd), primary.CreateLineRequest{
				Name:           args[0],
				WorkstationIDs: postes,
				ProductIDs:     products,
			})
		},
	}
	create.Flags().StringSlice("poste", nil, "Workstation IDs on the line")
	create.Flags().StringSlice("product", nil, "Product IDs made on the line")

	list := &cobra.Command{
		Use:   "list",
		Short: "List production lines",
		RunE: func(cmd *cobra.Command, args []string) error {
			return wire.CatalogAdapterWithOutput(cmd.OutOrStdout()).ListLines(commandContext(cmd))
		},
	}

	show := &cobra.Command{
		Use:   "show [line-id]",
		Short: "Show a production line",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return wire.CatalogAdapterWithOutput(cmd.OutOrStdout()).ShowLine(commandContext(cmd), args[0])
		},
	}

	addPoste := &cobra.Command{
		Use:   "add-poste [line-id] [poste-id]",
		Short: "Add a workstation to a line",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return wire.CatalogAdapterWithOutput(cmd.OutOrStdout()).AddWorkstation(commandContext(cmd), args[0], args[1])
		},
	}

	cmd.AddCommand(create, list, show, addPoste)
	return cmd
}

// PosteCmd returns the poste (workstation) command group.
func PosteCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "poste",
		Aliases: []string{"workstation"},
		Short:   "Manage workstations",
	}

	create := &cobra.Command{
		Use:   "create [name]",
		Short: "Create a workstation",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			lineID, _ := cmd.Flags().GetString("line")
			return wire.CatalogAdapterWithOutput(cmd.OutOrStdout()).CreateWorkstation(commandContext(cmd), primary.CreateWorkstationRequest{
				Name:   args[0],
				LineID: lineID,
			})
		},
	}
	create.Flags().StringP("line", "l", "", "Line to join")

	list := &cobra.Command{
		Use:   "list",
		Short: "List workstations",
		RunE: func(cmd *cobra.Command, args []string) error {
			state, _ := cmd.Flags().GetString("state")
			lineID, _ := cmd.Flags().GetString("line")
			return wire.CatalogAdapterWithOutput(cmd.OutOrStdout()).ListWorkstations(commandContext(cmd), primary.WorkstationFilters{
				State:  state,
				LineID: lineID,
			})
		},
	}
	list.Flags().String("state", "", "Filter by state (CONFIGURED, NOT_CONFIGURED)")
	list.Flags().StringP("line", "l", "", "Filter by line")

	show := &cobra.Command{
		Use:   "show [poste-id]",
		Short: "Show a workstation",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return wire.CatalogAdapterWithOutput(cmd.OutOrStdout()).ShowWorkstation(commandContext(cmd), args[0])
		},
	}

	cmd.AddCommand(create, list, show)
	return cmd
}

// AppCmd returns the app (configuration application) command group.
func AppCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "app",
		Aliases: []string{"application"},
		Short:   "Manage configuration applications",
	}

	create := &cobra.Command{
		Use:   "create [name]",
		Short: "Create an application",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			description, _ := cmd.Flags().GetString("description")
			operation, _ := cmd.Flags().GetString("operation")
			return wire.CatalogAdapterWithOutput(cmd.OutOrStdout()).CreateApplication(commandContext(cmd), primary.CreateApplicationRequest{
				Name:          args[0],
				Description:   description,
				OperationName: operation,
			})
		},
	}
	create.Flags().StringP("description", "d", "", "Description")
	create.Flags().String("operation", "", "Operation the application configures")

	list := &cobra.Command{
		Use:   "list",
		Short: "List applications",
		RunE: func(cmd *cobra.Command, args []string) error {
			return wire.CatalogAdapterWithOutput(cmd.OutOrStdout()).ListApplications(commandContext(cmd))
		},
	}

	show := &cobra.Command{
		Use:   "show [application-id]",
		Short: "Show an application",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return wire.CatalogAdapterWithOutput(cmd.OutOrStdout()).ShowApplication(commandContext(cmd), args[0])
		},
	}

	cmd.AddCommand(create, list, show)
	return cmd
}

// ProductCmd returns the product command group.
func ProductCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "product",
		Aliases: []string{"produit"},
		Short:   "Manage products",
	}

	create := &cobra.Command{
		Use:   "create [name]",
		Short: "Create a product",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			reference, _ := cmd.Flags().GetString("reference")
			return wire.CatalogAdapterWithOutput(cmd.OutOrStdout()).CreateProduct(commandContext(cmd), primary.CreateProductRequest{
				Name:      args[0],
				Reference: reference,
			})
		},
	}
	create.Flags().StringP("reference", "r", "", "Product reference")

	list := &cobra.Command{
		Use:   "list",
		Short: "List products",
		RunE: func(cmd *cobra.Command, args []string) error {
			return wire.CatalogAdapterWithOutput(cmd.OutOrStdout()).ListProducts(commandContext(cmd))
		},
	}

	show := &cobra.Command{
		Use:   "show [product-id]",
		Short: "Show a product",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return wire.CatalogAdapterWithOutput(cmd.OutOrStdout()).ShowProduct(commandContext(cmd), args[0])
		},
	}

	cmd.AddCommand(create, list, show)
	return cmd
}

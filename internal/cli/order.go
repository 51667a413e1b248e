package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/example/floor/internal/core/schedule"
	"github.com/example/floor/internal/ports/primary"
	"github.com/example/floor/internal/wire"
)

// OrderCmd returns the order command group.
func OrderCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "order",
		Short: "Manage manufacturing orders",
		Long:  "Create, schedule, start, and close manufacturing orders on production lines",
	}

	cmd.AddCommand(orderCreateCmd())
	cmd.AddCommand(orderUpdateCmd())
	cmd.AddCommand(orderListCmd())
	cmd.AddCommand(orderShowCmd())
	cmd.AddCommand(orderCancelCmd())
	cmd.AddCommand(orderCompleteCmd())
	cmd.AddCommand(orderDeleteCmd())
	cmd.AddCommand(orderStartCmd())
	cmd.AddCommand(orderNextDateCmd())
	cmd.AddCommand(orderCheckCmd())
	cmd.AddCommand(orderStatusesCmd())

	return cmd
}

func orderCreateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "create [code]",
		Short: "Create an order",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			req, err := createOrderRequest(cmd, args[0])
			if err != nil {
				return err
			}
			_, err = wire.OrderAdapterWithOutput(cmd.OutOrStdout()).Create(commandContext(cmd), req)
			return err
		},
	}
	addOrderFlags(cmd)
	cmd.MarkFlagRequired("start")
	cmd.MarkFlagRequired("end")
	return cmd
}

func orderUpdateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "update [order-id]",
		Short: "Update an order (only the given flags change)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			req, err := updateOrderRequest(cmd, args[0])
			if err != nil {
				return err
			}
			return wire.OrderAdapterWithOutput(cmd.OutOrStdout()).Update(commandContext(cmd), req)
		},
	}
	cmd.Flags().String("code", "", "Order code")
	addOrderFlags(cmd)
	return cmd
}

func orderListCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List orders",
		RunE: func(cmd *cobra.Command, args []string) error {
			lineID, _ := cmd.Flags().GetString("line")
			status, _ := cmd.Flags().GetString("status")
			_, err := wire.OrderAdapterWithOutput(cmd.OutOrStdout()).List(commandContext(cmd), lineID, status)
			return err
		},
	}
	cmd.Flags().StringP("line", "l", "", "Filter by production line")
	cmd.Flags().StringP("status", "s", "", "Filter by status")
	return cmd
}

func orderShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show [order-id]",
		Short: "Show order details",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, err := wire.OrderAdapterWithOutput(cmd.OutOrStdout()).Show(commandContext(cmd), args[0])
			return err
		},
	}
}

func orderCancelCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "cancel [order-id]",
		Short: "Cancel an order",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return wire.OrderAdapterWithOutput(cmd.OutOrStdout()).Cancel(commandContext(cmd), args[0])
		},
	}
}

func orderCompleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "complete [order-id]",
		Short: "Mark an order as completed",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return wire.OrderAdapterWithOutput(cmd.OutOrStdout()).Complete(commandContext(cmd), args[0])
		},
	}
}

func orderDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete [order-id]",
		Short: "Delete an order",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return wire.OrderAdapterWithOutput(cmd.OutOrStdout()).Delete(commandContext(cmd), args[0])
		},
	}
}

func orderStartCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "start [order-id]",
		Short: "Start an order today, or on the date given with --on",
		Long: `Start an order.

Without --on the order is moved to start today. When its line is busy the
order is left unchanged and the next free date is printed instead.

With --on the order is moved to that date; a clash with another order on the
line is an error.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			adapter := wire.OrderAdapterWithOutput(cmd.OutOrStdout())
			day, set, err := dayFlag(cmd, "on")
			if err != nil {
				return err
			}
			if set {
				return adapter.StartOnDate(commandContext(cmd), args[0], day)
			}
			_, err = adapter.StartToday(commandContext(cmd), args[0])
			return err
		},
	}
	cmd.Flags().String("on", "", "Start date (YYYY-MM-DD)")
	return cmd
}

func orderNextDateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "next-date [order-id]",
		Short: "Find the next date a line is free",
		Long: `Find the first date from today on which a window is free on a line.

With an order ID the line and duration come from the order and the order
itself is ignored when looking for conflicts. Otherwise --line and
--duration are required.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			lineID, _ := cmd.Flags().GetString("line")
			duration, _ := cmd.Flags().GetInt("duration")
			var orderID string
			if len(args) == 1 {
				orderID = args[0]
			} else if lineID == "" {
				return fmt.Errorf("either an order ID or --line is required")
			}
			_, err := wire.OrderAdapterWithOutput(cmd.OutOrStdout()).NextDate(commandContext(cmd), orderID, lineID, duration)
			return err
		},
	}
	cmd.Flags().StringP("line", "l", "", "Production line")
	cmd.Flags().IntP("duration", "d", 1, "Window length in days")
	return cmd
}

func orderCheckCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "check",
		Short: "Check whether a window is free on a line",
		RunE: func(cmd *cobra.Command, args []string) error {
			lineID, _ := cmd.Flags().GetString("line")
			exclude, _ := cmd.Flags().GetString("exclude")
			start, _, err := dayFlag(cmd, "start")
			if err != nil {
				return err
			}
			end, _, err := dayFlag(cmd, "end")
			if err != nil {
				return err
			}
			_, err = wire.OrderAdapterWithOutput(cmd.OutOrStdout()).Check(commandContext(cmd), primary.AvailabilityRequest{
				LineID:         lineID,
				Start:          start,
				End:            end,
				ExcludeOrderID: exclude,
			})
			return err
		},
	}
	cmd.Flags().StringP("line", "l", "", "Production line")
	cmd.Flags().String("start", "", "Window start (YYYY-MM-DD)")
	cmd.Flags().String("end", "", "Window end (YYYY-MM-DD)")
	cmd.Flags().String("exclude", "", "Order to ignore")
	cmd.MarkFlagRequired("line")
	cmd.MarkFlagRequired("start")
	cmd.MarkFlagRequired("end")
	return cmd
}

func orderStatusesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "statuses",
		Short: "List order statuses",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			wire.OrderAdapterWithOutput(cmd.OutOrStdout()).Statuses()
			return nil
		},
	}
}

func addOrderFlags(cmd *cobra.Command) {
	cmd.Flags().IntP("qty", "q", 0, "Quantity to produce")
	cmd.Flags().String("start", "", "Start date (YYYY-MM-DD)")
	cmd.Flags().String("end", "", "End date (YYYY-MM-DD)")
	cmd.Flags().StringP("product", "p", "", "Product ID")
	cmd.Flags().StringP("line", "l", "", "Production line ID")
	cmd.Flags().StringP("status", "s", "", "Status")
}

func createOrderRequest(cmd *cobra.Command, code string) (primary.CreateOrderRequest, error) {
	req := primary.CreateOrderRequest{Code: code}
	req.Quantity, _ = cmd.Flags().GetInt("qty")
	req.ProductID, _ = cmd.Flags().GetString("product")
	req.LineID, _ = cmd.Flags().GetString("line")
	req.Status, _ = cmd.Flags().GetString("status")

	var err error
	if req.StartDate, _, err = dayFlag(cmd, "start"); err != nil {
		return req, err
	}
	if req.EndDate, _, err = dayFlag(cmd, "end"); err != nil {
		return req, err
	}
	return req, nil
}

// updateOrderRequest sets only the fields whose flags were given.
func updateOrderRequest(cmd *cobra.Command, orderID string) (primary.UpdateOrderRequest, error) {
	req := primary.UpdateOrderRequest{OrderID: orderID}
	flags := cmd.Flags()

	stringField := func(name string) *string {
		if !flags.Changed(name) {
			return nil
		}
		v, _ := flags.GetString(name)
		return &v
	}
	req.Code = stringField("code")
	req.ProductID = stringField("product")
	req.LineID = stringField("line")
	req.Status = stringField("status")

	if flags.Changed("qty") {
		qty, _ := flags.GetInt("qty")
		req.Quantity = &qty
	}

	for name, dst := range map[string]**schedule.Day{"start": &req.StartDate, "end": &req.EndDate} {
		day, set, err := dayFlag(cmd, name)
		if err != nil {
			return req, err
		}
		if set {
			*dst = &day
		}
	}
	return req, nil
}

// dayFlag parses a YYYY-MM-DD flag. set is false when the flag was not given.
func dayFlag(cmd *cobra.Command, name string) (day schedule.Day, set bool, err error) {
	if !cmd.Flags().Changed(name) {
		return schedule.Day{}, false, nil
	}
	raw, _ := cmd.Flags().GetString(name)
	day, err = schedule.ParseDay(raw)
	if err != nil {
		return schedule.Day{}, true, fmt.Errorf("invalid --%s: %w", name, err)
	}
	return day, true, nil
}

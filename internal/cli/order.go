package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/MinhAn2007/fashion-admin-dashboard-sub000/internal/lifecycle"
	"github.com/MinhAn2007/fashion-admin-dashboard-sub000/internal/models"
	"github.com/MinhAn2007/fashion-admin-dashboard-sub000/internal/realtime"
)

// NewOrderCommand groups the per-order operations.
func NewOrderCommand(opts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "order",
		Short: "Inspect and act on a single order",
	}
	cmd.AddCommand(newOrderShowCommand(opts))
	cmd.AddCommand(newOrderActCommand(opts))
	cmd.AddCommand(newOrderWatchCommand(opts))
	return cmd
}

func parseOrderID(arg string) (int, error) {
	id, err := strconv.Atoi(arg)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid order id %q", arg)
	}
	return id, nil
}

func newOrderShowCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "show <id>",
		Short: "Print an order snapshot and its available actions",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseOrderID(args[0])
			if err != nil {
				return err
			}
			client, err := opts.client()
			if err != nil {
				return err
			}
			order, err := client.Order(cmd.Context(), id)
			if err != nil {
				return err
			}
			return printOrder(cmd, opts, order)
		},
	}
}

func newOrderActCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "act <id> <action>",
		Short: "Apply a lifecycle action (confirm, cancel, deliver, ...)",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseOrderID(args[0])
			if err != nil {
				return err
			}
			action := lifecycle.Action(args[1])

			client, err := opts.client()
			if err != nil {
				return err
			}
			order, err := client.Order(cmd.Context(), id)
			if err != nil {
				return err
			}

			effect, err := lifecycle.Apply(lifecycle.StateOf(order), action)
			if err != nil {
				return err
			}
			switch effect.Kind {
			case lifecycle.EffectStatus:
				err = client.UpdateStatus(cmd.Context(), id, string(effect.Target))
			case lifecycle.EffectReceipt:
				err = client.UpdateReceipt(cmd.Context(), id, effect.IsGet)
			}
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "order %d: %s accepted\n", id, action)
			return nil
		},
	}
}

func newOrderWatchCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "watch <id>",
		Short: "Follow an order live until interrupted",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseOrderID(args[0])
			if err != nil {
				return err
			}
			client, err := opts.client()
			if err != nil {
				return err
			}

			ch, err := realtime.Dial(cmd.Context(), realtime.ChannelConfig{
				URL:    opts.cfg.PushURL,
				Token:  opts.cfg.StoreToken,
				UserID: viewerID(opts),
				Conn:   opts.cfg.Push.Channel(),
			})
			if err != nil {
				return err
			}
			defer ch.Close()

			watcher, err := realtime.Watch(cmd.Context(), id, client, ch, nil)
			if err != nil {
				return err
			}
			defer watcher.Close()

			updates, unsubscribe := watcher.Subscribe()
			defer unsubscribe()

			if err := printOrder(cmd, opts, watcher.Snapshot()); err != nil {
				return err
			}

			stop := make(chan os.Signal, 1)
			signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
			defer signal.Stop(stop)

			for {
				select {
				case <-stop:
					return nil
				case <-cmd.Context().Done():
					return nil
				case <-ch.Done():
					fmt.Fprintln(cmd.ErrOrStderr(), "live updates lost; retry or re-run watch")
					return nil
				case order, ok := <-updates:
					if !ok {
						return nil
					}
					if err := printOrder(cmd, opts, order); err != nil {
						return err
					}
				}
			}
		},
	}
}

func viewerID(opts *RootOptions) string {
	if opts.cfg.AdminUserID != "" {
		return opts.cfg.AdminUserID
	}
	return uuid.NewString()
}

func printOrder(cmd *cobra.Command, opts *RootOptions, order models.Order) error {
	state := lifecycle.StateOf(order)

	if opts.Format == "json" {
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(map[string]any{
			"order":   order,
			"label":   lifecycle.Label(state),
			"actions": lifecycle.Actions(state),
		})
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "order #%d  %s\n", order.ID, lifecycle.Label(state))
	if order.ReturnReason != "" {
		fmt.Fprintf(out, "  return reason: %s\n", order.ReturnReason)
	}
	if order.CancelReason != "" {
		fmt.Fprintf(out, "  cancel reason: %s\n", order.CancelReason)
	}
	for _, item := range order.Items {
		fmt.Fprintf(out, "  %dx %s (%s/%s) %.2f\n", item.Quantity, item.Name, item.Size, item.Color, item.Price)
	}
	fmt.Fprintf(out, "  total: %.2f (shipping %.2f)\n", order.Total, order.ShippingFee)
	if actions := lifecycle.Actions(state); len(actions) > 0 {
		fmt.Fprintf(out, "  actions:")
		for _, a := range actions {
			fmt.Fprintf(out, " %s", a)
		}
		fmt.Fprintln(out)
	}
	return nil
}

package cli

import (
	"encoding/json"
	"strconv"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/MinhAn2007/fashion-admin-dashboard-sub000/internal/models"
	"github.com/MinhAn2007/fashion-admin-dashboard-sub000/internal/rollup"
)

// NewReportCommand groups the reporting screens.
func NewReportCommand(opts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "report",
		Short: "Sales and order reporting",
	}
	cmd.AddCommand(newReportCategoriesCommand(opts))
	cmd.AddCommand(newReportRevenueCommand(opts))
	cmd.AddCommand(newReportOrdersCommand(opts))
	return cmd
}

func newReportCategoriesCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "categories",
		Short: "Sales by top-level category",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := opts.client()
			if err != nil {
				return err
			}
			records, err := client.CategorySales(cmd.Context())
			if err != nil {
				return err
			}
			buckets := rollup.Rollup(records, rollup.CanonicalIDs)

			if opts.Format == "json" {
				return printJSON(cmd, buckets)
			}
			renderCategories(cmd, buckets)
			return nil
		},
	}
}

func newReportRevenueCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "revenue",
		Short: "Revenue dashboard",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := opts.client()
			if err != nil {
				return err
			}
			dash, err := client.RevenueDashboard(cmd.Context())
			if err != nil {
				return err
			}
			dash.ByCategory = rollup.Rollup(dash.ByCategory, rollup.CanonicalIDs)

			if opts.Format == "json" {
				return printJSON(cmd, dash)
			}

			table := tablewriter.NewWriter(cmd.OutOrStdout())
			table.SetHeader([]string{"Month", "Revenue"})
			for _, m := range dash.MonthlyRevenue {
				table.Append([]string{m.Month, string(m.Total)})
			}
			table.SetFooter([]string{"Total", string(dash.TotalRevenue)})
			table.Render()

			renderCategories(cmd, dash.ByCategory)
			return nil
		},
	}
}

func newReportOrdersCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "orders",
		Short: "Order dashboard",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := opts.client()
			if err != nil {
				return err
			}
			stats, err := client.OrderStats(cmd.Context())
			if err != nil {
				return err
			}
			stats.ByCategory = rollup.RollupQuantity(stats.ByCategory, rollup.CanonicalIDs)

			if opts.Format == "json" {
				return printJSON(cmd, stats)
			}

			table := tablewriter.NewWriter(cmd.OutOrStdout())
			table.SetHeader([]string{"Status", "Orders"})
			for _, s := range stats.ByStatus {
				table.Append([]string{s.Status, strconv.Itoa(s.Count)})
			}
			table.SetFooter([]string{"Total", strconv.Itoa(stats.TotalOrders)})
			table.Render()

			quantityTable(cmd, stats.ByCategory)
			return nil
		},
	}
}

func renderCategories(cmd *cobra.Command, buckets []models.CategorySales) {
	table := tablewriter.NewWriter(cmd.OutOrStdout())
	table.SetHeader([]string{"Category", "Sold"})
	for _, b := range buckets {
		table.Append([]string{b.Name, strconv.FormatInt(b.TotalSold.Int(), 10)})
	}
	table.Render()
}

func quantityTable(cmd *cobra.Command, buckets []models.CategorySales) {
	table := tablewriter.NewWriter(cmd.OutOrStdout())
	table.SetHeader([]string{"Category", "Units"})
	for _, b := range buckets {
		table.Append([]string{b.Name, strconv.FormatInt(b.TotalQuantity.Int(), 10)})
	}
	table.Render()
}

func printJSON(cmd *cobra.Command, v any) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

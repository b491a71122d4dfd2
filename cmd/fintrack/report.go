package main

import (
	"fmt"
	"log/slog"

	"fintrack/internal/logging"
	"fintrack/internal/report"

	"github.com/spf13/cobra"
)

func reportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "report",
		Short: "Print the analytics overview",
		Long: `Fetch the analytics overview from the API and render it in the terminal.

Ranges: "Last 7 days", "Last 30 days", "This month", "Last month",
"This year", "All time", plus 30days, 90days and current-year.`,
		Args: cobra.NoArgs,
		RunE: runReport,
	}
	cmd.Flags().String("range", "Last 30 days", "date range to report on")
	cmd.Flags().Int("top", 0, "number of top categories (server default when 0)")
	cmd.Flags().String("currency", "", "currency for amounts (from preferences when empty)")
	cmd.Flags().Bool("monthly", true, "include the monthly breakdown")
	return cmd
}

func runReport(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	rangeName, _ := cmd.Flags().GetString("range")
	top, _ := cmd.Flags().GetInt("top")
	currency, _ := cmd.Flags().GetString("currency")
	monthly, _ := cmd.Flags().GetBool("monthly")

	c, err := apiClient(ctx)
	if err != nil {
		return err
	}

	if currency == "" {
		prefs, err := c.Preferences(ctx)
		if err != nil {
			slog.Debug("could not read preferences, using USD", logging.Err(err))
		} else {
			currency = prefs.Currency
		}
	}

	overview, err := c.Overview(ctx, rangeName, top)
	if err != nil {
		return fmt.Errorf("failed to fetch overview: %w", err)
	}

	fmt.Fprintln(cmd.OutOrStdout(), report.Overview(*overview, report.Options{
		Currency:    currency,
		ShowMonthly: monthly,
	}))
	return nil
}

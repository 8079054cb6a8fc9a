package main

import (
	"fmt"
	"io"
	"log/slog"
	"maps"
	"slices"
	"time"

	"github.com/Veraticus/tradedash/internal/accounting"
	"github.com/Veraticus/tradedash/internal/common"
	"github.com/Veraticus/tradedash/internal/service"
	"github.com/Veraticus/tradedash/internal/tui/viewmodel"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
)

const reportDateFormat = "2006-01-02"

func reportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "report",
		Short: "Print realized gains matched first in, first out",
		Long: `Print the realized short-term and long-term gains for a user, laid out
like Form 8949. Every sale is matched against the oldest open buy or
deposit of the same currency. Values are in the user's local currency.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			username, _ := cmd.Flags().GetString("user")
			if username == "" {
				username = settings.Dashboard.Username
			}

			period, err := reportPeriod(cmd)
			if err != nil {
				return err
			}

			store, err := openStore(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			user, err := store.GetUserByName(ctx, username)
			if err != nil {
				return fmt.Errorf("failed to find user %q (create it with 'tradedash user add'): %w", username, err)
			}

			// Lots opened before the period still back sales inside it.
			txns, err := store.GetTransactions(ctx, user.ID, service.TransactionFilter{})
			if err != nil {
				return fmt.Errorf("failed to load transactions: %w", err)
			}

			report := accounting.FIFO(txns, user.LocalCurrency, period)
			slog.Debug("Built gains report",
				"user", username,
				"records", len(txns),
				"short_term", len(report.ShortTerm),
				"long_term", len(report.LongTerm),
				"skipped", report.Skipped)

			writeReport(cmd.OutOrStdout(), report)
			return nil
		},
	}

	cmd.Flags().String("user", "", "User to report on (default: dashboard.username)")
	cmd.Flags().Int("year", 0, "Only list sales in this calendar year")
	cmd.Flags().String("from", "", "Only list sales on or after this date (YYYY-MM-DD)")
	cmd.Flags().String("to", "", "Only list sales on or before this date (YYYY-MM-DD)")
	cmd.MarkFlagsMutuallyExclusive("year", "from")
	cmd.MarkFlagsMutuallyExclusive("year", "to")

	return cmd
}

func reportPeriod(cmd *cobra.Command) (accounting.Period, error) {
	year, _ := cmd.Flags().GetInt("year")
	from, _ := cmd.Flags().GetString("from")
	to, _ := cmd.Flags().GetString("to")

	if year != 0 {
		return accounting.Year(year, time.UTC), nil
	}

	var period accounting.Period
	if from != "" {
		start, err := time.Parse(reportDateFormat, from)
		if err != nil {
			return period, common.NewUserError(fmt.Sprintf("Invalid --from date %q, expected YYYY-MM-DD", from), err)
		}
		period.Start = start
	}
	if to != "" {
		end, err := time.Parse(reportDateFormat, to)
		if err != nil {
			return period, common.NewUserError(fmt.Sprintf("Invalid --to date %q, expected YYYY-MM-DD", to), err)
		}
		period.End = end.AddDate(0, 0, 1).Add(-time.Nanosecond)
	}
	if !period.Start.IsZero() && !period.End.IsZero() && period.End.Before(period.Start) {
		return period, common.NewUserError("--to is before --from", nil)
	}
	return period, nil
}

func writeReport(w io.Writer, report *accounting.Report) {
	local := report.LocalCurrency
	heading := lipgloss.NewStyle().Bold(true)

	sections := []struct {
		title string
		items []accounting.LineItem
		gain  decimal.Decimal
	}{
		{"Short-term (held one year or less)", report.ShortTerm, report.ShortTermGain()},
		{"Long-term (held more than one year)", report.LongTerm, report.LongTermGain()},
	}

	for _, section := range sections {
		_, _ = fmt.Fprintln(w, heading.Render(section.title))
		if len(section.items) == 0 {
			_, _ = fmt.Fprintln(w, "No sales.")
			_, _ = fmt.Fprintln(w)
			continue
		}

		t := table.New().
			Border(lipgloss.NormalBorder()).
			Headers("Description", "Acquired", "Sold", "Proceeds", "Cost basis", "Gain or loss")
		proceeds, basis := decimal.Zero, decimal.Zero
		for _, item := range section.items {
			t.Row(
				item.Description(),
				item.DateAcquired.Format(reportDateFormat),
				item.DateSold.Format(reportDateFormat),
				viewmodel.FormatCurrency(item.Proceeds, local),
				viewmodel.FormatCurrency(item.CostBasis, local),
				viewmodel.FormatCurrency(item.Gain(), local),
			)
			proceeds = proceeds.Add(item.Proceeds)
			basis = basis.Add(item.CostBasis)
		}
		t.Row("Total", "", "",
			viewmodel.FormatCurrency(proceeds, local),
			viewmodel.FormatCurrency(basis, local),
			viewmodel.FormatCurrency(section.gain, local))

		_, _ = fmt.Fprintln(w, t.Render())
		_, _ = fmt.Fprintln(w)
	}

	_, _, gain := report.Totals()
	_, _ = fmt.Fprintf(w, "Net realized gain: %s\n", viewmodel.FormatCurrency(gain, local))

	for _, code := range slices.Sorted(maps.Keys(report.Uncovered)) {
		_, _ = fmt.Fprintf(w, "Warning: %s sold without a matching buy or deposit\n",
			viewmodel.FormatCurrency(report.Uncovered[code], code))
	}
	if report.Skipped > 0 {
		_, _ = fmt.Fprintf(w, "Warning: %d records had no value in %s and were left out\n", report.Skipped, local)
	}
}

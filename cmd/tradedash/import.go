package main

import (
	"bytes"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/Veraticus/tradedash/internal/common"
	"github.com/Veraticus/tradedash/internal/model"
	"github.com/Veraticus/tradedash/internal/ofx"
	"github.com/Veraticus/tradedash/internal/storage"
	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"
)

const importBatchSize = 100

func importCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "import [files...]",
		Short: "Import trades from OFX/QFX investment statements",
		Long: `Import trades and cash movements from brokerage OFX or QFX files.

Records are stored for the dashboard user; importing the same file twice
does not create duplicates.

Examples:
  tradedash import ~/Downloads/brokerage_2018.qfx
  tradedash import --user alice ~/Downloads/*.ofx
  tradedash import --dry-run statement.ofx`,
		Args: cobra.MinimumNArgs(1),
		RunE: runImport,
	}

	cmd.Flags().String("user", "", "User to import for (default: dashboard.username)")
	cmd.Flags().BoolP("dry-run", "d", false, "Parse files without saving")

	return cmd
}

func runImport(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	dryRun, _ := cmd.Flags().GetBool("dry-run")
	username, _ := cmd.Flags().GetString("user")
	if username == "" {
		username = settings.Dashboard.Username
	}

	var files []string
	for _, pattern := range args {
		matches, err := filepath.Glob(pattern)
		if err != nil {
			return fmt.Errorf("invalid pattern %s: %w", pattern, err)
		}
		if len(matches) == 0 {
			slog.Warn("No files found matching pattern", "pattern", pattern)
		}
		files = append(files, matches...)
	}
	if len(files) == 0 {
		return fmt.Errorf("no files found to import")
	}

	parser := ofx.NewParser()
	var all []model.Transaction
	seen := make(map[string]bool)

	for _, path := range files {
		data, err := os.ReadFile(path) //nolint:gosec // paths come from the command line
		if err != nil {
			slog.Error("Failed to read file", "file", path, "error", err)
			continue
		}
		txns, err := parser.ParseFile(ctx, bytes.NewReader(data))
		if err != nil {
			slog.Error("Failed to parse OFX file", "file", path, "error", err)
			continue
		}
		if dryRun {
			accounts, err := parser.GetAccounts(ctx, bytes.NewReader(data))
			if err != nil {
				return fmt.Errorf("failed to read accounts from %s: %w", path, err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s: accounts %s\n", filepath.Base(path), strings.Join(accounts, ", "))
		}

		added := 0
		for _, tx := range txns {
			if !seen[tx.ID] {
				seen[tx.ID] = true
				all = append(all, tx)
				added++
			}
		}
		slog.Info("Processed file",
			"file", filepath.Base(path),
			"transactions_found", len(txns),
			"added", added,
			"duplicates", len(txns)-added)
	}

	if len(all) == 0 {
		slog.Warn("No transactions found in any file")
		return nil
	}

	if dryRun {
		out := cmd.OutOrStdout()
		for _, tx := range all {
			fmt.Fprintf(out, "%s  %-10s %-12s %s %s @ %s %s\n",
				tx.Date.Format("2006-01-02"), tx.Type, tx.CurrencyPair,
				tx.Amount, tx.AmountCurrency, tx.HistoricalPrice, tx.HistoricalCurrency)
		}
		slog.Info("Dry run complete, nothing saved", "transactions", len(all))
		return nil
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

	inserted, err := saveWithProgress(cmd, store, user.ID, all)
	if err != nil {
		return err
	}

	common.LogInfo("Import complete", common.Fields{
		"user":            username,
		"parsed":          len(all),
		"inserted":        inserted,
		"already_present": len(all) - inserted,
	})
	return nil
}

func saveWithProgress(cmd *cobra.Command, store *storage.SQLiteStorage, userID int64, txns []model.Transaction) (int, error) {
	bar := progressbar.NewOptions(len(txns),
		progressbar.OptionSetWriter(cmd.ErrOrStderr()),
		progressbar.OptionSetDescription("Importing"),
		progressbar.OptionShowCount(),
		progressbar.OptionClearOnFinish(),
	)

	inserted := 0
	for start := 0; start < len(txns); start += importBatchSize {
		end := min(start+importBatchSize, len(txns))
		n, err := store.SaveTransactions(cmd.Context(), userID, txns[start:end])
		if err != nil {
			return inserted, fmt.Errorf("failed to save transactions: %w", err)
		}
		inserted += n
		_ = bar.Add(end - start)
	}
	_ = bar.Finish()

	return inserted, nil
}

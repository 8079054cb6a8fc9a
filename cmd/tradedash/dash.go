package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/Veraticus/tradedash/internal/common"
	"github.com/Veraticus/tradedash/internal/dataservice"
	"github.com/Veraticus/tradedash/internal/demo"
	"github.com/Veraticus/tradedash/internal/model"
	"github.com/Veraticus/tradedash/internal/service"
	"github.com/Veraticus/tradedash/internal/tui"
	"github.com/Veraticus/tradedash/internal/tui/components"
	"github.com/Veraticus/tradedash/internal/tui/themes"
	"github.com/Veraticus/tradedash/internal/tui/viewmodel"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func dashCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "dash",
		Short: "Open the transaction dashboard",
		Long: `Open the terminal dashboard.

By default transactions are read from the local database for the configured
dashboard user. Use --remote to read from a tradedash server, or --demo to
browse generated data without a database.

Examples:
  tradedash dash
  tradedash dash --user alice --page-size 25
  tradedash dash --remote
  tradedash dash --demo --theme catppuccin-mocha`,
		RunE: runDash,
	}

	cmd.Flags().Bool("remote", false, "Read from the server configured under remote.*")
	cmd.Flags().Bool("demo", false, "Show generated demo data")
	cmd.Flags().Int("demo-count", 120, "Number of demo transactions")
	cmd.Flags().String("user", "", "Local user whose transactions to show")
	cmd.Flags().String("theme", "", "Theme (default, catppuccin-mocha)")
	cmd.Flags().Int("page-size", 0, "Rows per page")
	cmd.Flags().String("sort", "", "Initial sort, e.g. amount or date:asc (default: fetch order)")
	cmd.Flags().Bool("dashboard", false, "Start on the summary instead of the table")

	_ = viper.BindPFlag("dashboard.username", cmd.Flags().Lookup("user"))
	_ = viper.BindPFlag("dashboard.theme", cmd.Flags().Lookup("theme"))
	_ = viper.BindPFlag("dashboard.page_size", cmd.Flags().Lookup("page-size"))
	_ = viper.BindPFlag("dashboard.sort", cmd.Flags().Lookup("sort"))

	return cmd
}

func runDash(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	remote, _ := cmd.Flags().GetBool("remote")
	demoMode, _ := cmd.Flags().GetBool("demo")
	demoCount, _ := cmd.Flags().GetInt("demo-count")
	startOnSummary, _ := cmd.Flags().GetBool("dashboard")

	if remote && demoMode {
		return common.NewUserError("--remote and --demo cannot be combined", common.ErrInvalidConfig)
	}

	initialSort, err := viewmodel.ParseSort(settings.Dashboard.Sort)
	if err != nil {
		return common.NewUserError("Invalid dashboard.sort: "+err.Error(), common.ErrInvalidConfig)
	}

	ds, closer, err := dataServiceFor(ctx, remote, demoMode, demoCount)
	if err != nil {
		return err
	}
	if closer != nil {
		defer func() { _ = closer.Close() }()
	}

	user, err := ds.CurrentUser(ctx)
	if err != nil {
		return common.NewUserError("Could not resolve the dashboard user: "+err.Error(), err)
	}
	session := service.Session{User: *user}

	// The TUI owns the terminal; logs go to a file while it runs.
	level, err := common.ParseLevel(settings.Logging.Level)
	if err != nil {
		return err
	}
	logFile, err := common.RedirectLogger(settings.Logging.File, level, settings.Logging.Format)
	if err != nil {
		return err
	}
	defer func() { _ = logFile.Close() }()

	slog.Info("Starting dashboard",
		"user", user.Username,
		"local_currency", session.LocalCurrency(),
		"remote", remote,
		"demo", demoMode)

	initialPath := components.PathTransactions
	if startOnSummary {
		initialPath = components.PathDashboard
	}

	return tui.Run(ctx,
		tui.WithDataService(ds),
		tui.WithSession(session),
		tui.WithTheme(themes.GetTheme(settings.Dashboard.Theme)),
		tui.WithTitle(settings.Dashboard.Title),
		tui.WithPageSize(settings.Dashboard.PageSize),
		tui.WithSort(initialSort),
		tui.WithFetchTimeout(settings.Dashboard.FetchTimeout),
		tui.WithInitialPath(initialPath),
	)
}

// dataServiceFor builds the data service for the selected mode. The returned
// closer, when non-nil, releases the underlying storage.
func dataServiceFor(ctx context.Context, remote, demoMode bool, demoCount int) (service.DataService, io.Closer, error) {
	switch {
	case demoMode:
		return &dataservice.Static{
			User:         model.User{Username: "demo", LocalCurrency: "USD"},
			Transactions: demo.NewGenerator(1, "USD").Generate(demoCount),
		}, nil, nil

	case remote:
		if err := settings.RequireRemote(); err != nil {
			return nil, nil, common.NewUserError("Remote mode needs remote.url, remote.username and remote.password", err)
		}
		client := dataservice.NewRemote(settings.Remote.URL, settings.Remote.Timeout)
		err := common.WithRetry(ctx, func() error {
			_, err := client.Login(ctx, settings.Remote.Username, settings.Remote.Password)
			if err != nil && !common.IsRetryable(err) {
				return common.Permanent(err)
			}
			return err
		}, common.RetryOptions{MaxAttempts: 3})
		if err != nil {
			return nil, nil, fmt.Errorf("failed to log in to %s: %w", settings.Remote.URL, err)
		}
		return client, nil, nil

	default:
		store, err := openStore(ctx)
		if err != nil {
			return nil, nil, err
		}
		return dataservice.NewLocal(store, settings.Dashboard.Username), store, nil
	}
}

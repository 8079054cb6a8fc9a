package main

import (
	"fmt"
	"log/slog"

	"github.com/Veraticus/tradedash/internal/demo"
	"github.com/spf13/cobra"
)

func seedCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Fill the database with generated demo trades",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			username, _ := cmd.Flags().GetString("user")
			count, _ := cmd.Flags().GetInt("count")
			seed, _ := cmd.Flags().GetUint64("seed")
			if username == "" {
				username = settings.Dashboard.Username
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

			txns := demo.NewGenerator(seed, user.LocalCurrency).Generate(count)
			inserted, err := saveWithProgress(cmd, store, user.ID, txns)
			if err != nil {
				return err
			}

			slog.Info("Seeded demo transactions",
				"user", username,
				"generated", len(txns),
				"inserted", inserted)
			return nil
		},
	}

	cmd.Flags().String("user", "", "User to seed (default: dashboard.username)")
	cmd.Flags().Int("count", 200, "Number of transactions to generate")
	cmd.Flags().Uint64("seed", 1, "Random seed; the same seed generates the same trades")

	return cmd
}

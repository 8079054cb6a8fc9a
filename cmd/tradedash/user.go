package main

import (
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/Veraticus/tradedash/internal/common"
	"github.com/spf13/cobra"
)

func userCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "user",
		Short: "Manage dashboard users",
	}
	cmd.AddCommand(userAddCmd())
	return cmd
}

func userAddCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "add <username>",
		Short: "Create a user",
		Long: `Create a user who can sign in to the server and own transactions.

The password is read from TRADEDASH_NEW_PASSWORD when set, otherwise it is
prompted for.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			currency, _ := cmd.Flags().GetString("currency")

			password := os.Getenv("TRADEDASH_NEW_PASSWORD")
			if password == "" {
				var err error
				password, err = readPassword("Password: ")
				if err != nil {
					return err
				}
			}

			store, err := openStore(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			user, err := store.CreateUser(ctx, args[0], password, currency)
			if errors.Is(err, common.ErrDuplicateEntry) {
				return common.NewUserError(fmt.Sprintf("User %q already exists", args[0]), err)
			}
			if err != nil {
				return fmt.Errorf("failed to create user: %w", err)
			}

			slog.Info("Created user", "id", user.ID, "username", user.Username, "local_currency", user.LocalCurrency)
			return nil
		},
	}

	cmd.Flags().String("currency", "USD", "Local currency used for totals")

	return cmd
}

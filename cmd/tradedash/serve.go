package main

import (
	"log/slog"

	"github.com/Veraticus/tradedash/internal/api"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func serveCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve transactions over the REST API",
		Long: `Run the tradedash server. Dashboards started with --remote log in
against it and fetch their transactions from /api/v1/transactions.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			store, err := openStore(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			server := api.NewServer(store, api.NewSessionStore(settings.Server.SessionTTL))
			slog.Info("Serving tradedash API",
				"addr", settings.Server.Addr,
				"database", store.Path(),
				"session_ttl", settings.Server.SessionTTL)

			return server.ListenAndServe(ctx, settings.Server.Addr)
		},
	}

	cmd.Flags().String("addr", "", "Listen address (overrides server.addr)")
	_ = viper.BindPFlag("server.addr", cmd.Flags().Lookup("addr"))

	return cmd
}

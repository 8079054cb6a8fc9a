package main

import (
	"bytes"
	"context"
	"io"
	"path/filepath"
	"testing"
	"time"

	"github.com/Veraticus/tradedash/internal/config"
	"github.com/Veraticus/tradedash/internal/model"
	"github.com/Veraticus/tradedash/internal/storage"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func useTempSettings(t *testing.T) string {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "tradedash.db")
	prev := settings
	settings = &config.Settings{
		Database:  config.DatabaseSettings{Path: dbPath},
		Dashboard: config.DashboardSettings{Username: "alice", PageSize: 10},
	}
	t.Cleanup(func() { settings = prev })
	return dbPath
}

func execute(t *testing.T, cmd *cobra.Command, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmd.SetArgs(args)
	cmd.SetOut(&out)
	cmd.SetErr(io.Discard)
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func countFor(t *testing.T, dbPath, username string) int {
	t.Helper()
	ctx := context.Background()
	store, err := storage.NewSQLiteStorage(dbPath)
	require.NoError(t, err)
	defer func() { _ = store.Close() }()

	user, err := store.GetUserByName(ctx, username)
	require.NoError(t, err)
	n, err := store.CountTransactions(ctx, user.ID)
	require.NoError(t, err)
	return n
}

func TestEnvKeyReplacer(t *testing.T) {
	assert.Equal(t, "REMOTE_URL", envKeyReplacer.Replace("REMOTE.URL"))
	assert.Equal(t, "DASHBOARD_PAGE_SIZE", envKeyReplacer.Replace("DASHBOARD.PAGE-SIZE"))
}

func TestUserAddAndSeed(t *testing.T) {
	dbPath := useTempSettings(t)
	t.Setenv("TRADEDASH_NEW_PASSWORD", "correct-horse")

	_, err := execute(t, userCmd(), "add", "alice", "--currency", "eur")
	require.NoError(t, err)

	_, err = execute(t, userCmd(), "add", "alice")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already exists")

	_, err = execute(t, seedCmd(), "--count", "12")
	require.NoError(t, err)
	assert.Equal(t, 12, countFor(t, dbPath, "alice"))

	// Same seed, same ids: nothing new is inserted.
	_, err = execute(t, seedCmd(), "--count", "12")
	require.NoError(t, err)
	assert.Equal(t, 12, countFor(t, dbPath, "alice"))
}

func TestSeedUnknownUser(t *testing.T) {
	useTempSettings(t)

	_, err := execute(t, seedCmd(), "--user", "nobody")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "user add")
}

func TestMigrateStatus(t *testing.T) {
	useTempSettings(t)

	out, err := execute(t, migrateCmd(), "--status")
	require.NoError(t, err)
	assert.Contains(t, out, "current version: 0")

	_, err = execute(t, migrateCmd())
	require.NoError(t, err)

	out, err = execute(t, migrateCmd(), "--status")
	require.NoError(t, err)
	assert.Contains(t, out, "current version: 2")
	assert.Contains(t, out, "latest version: 2")
}

func TestDataServiceForDemo(t *testing.T) {
	useTempSettings(t)

	ds, closer, err := dataServiceFor(context.Background(), false, true, 7)
	require.NoError(t, err)
	assert.Nil(t, closer)

	resp, err := ds.ListTransactions(context.Background())
	require.NoError(t, err)
	assert.True(t, resp.Success)
	assert.Len(t, resp.Payload, 7)

	user, err := ds.CurrentUser(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "demo", user.Username)
}

func TestDataServiceForLocal(t *testing.T) {
	useTempSettings(t)
	t.Setenv("TRADEDASH_NEW_PASSWORD", "correct-horse")
	_, err := execute(t, userCmd(), "add", "alice")
	require.NoError(t, err)

	ds, closer, err := dataServiceFor(context.Background(), false, false, 0)
	require.NoError(t, err)
	require.NotNil(t, closer)
	defer func() { _ = closer.Close() }()

	resp, err := ds.ListTransactions(context.Background())
	require.NoError(t, err)
	assert.True(t, resp.Success)
	assert.Empty(t, resp.Payload)
}

func TestImportRequiresFiles(t *testing.T) {
	useTempSettings(t)

	_, err := execute(t, importCmd(), filepath.Join(t.TempDir(), "*.ofx"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no files found")
}

func btcTrade(id, typ, date string, amount, total int64) model.Transaction {
	d, _ := time.Parse(reportDateFormat, date)
	return model.Transaction{
		ID:                 id,
		Date:               d,
		Type:               typ,
		CurrencyPair:       model.CurrencyPair{Base: "BTC", Quote: "USD"},
		Amount:             decimal.NewFromInt(amount),
		AmountCurrency:     "BTC",
		Fee:                decimal.Zero,
		FeeCurrency:        "USD",
		Total:              decimal.NewFromInt(total),
		TotalCurrency:      "USD",
		HistoricalPrice:    decimal.NewFromInt(total / amount),
		HistoricalCurrency: "USD",
	}
}

func TestReport(t *testing.T) {
	useTempSettings(t)
	t.Setenv("TRADEDASH_NEW_PASSWORD", "correct-horse")
	_, err := execute(t, userCmd(), "add", "alice")
	require.NoError(t, err)

	ctx := context.Background()
	store, err := openStore(ctx)
	require.NoError(t, err)
	user, err := store.GetUserByName(ctx, "alice")
	require.NoError(t, err)
	_, err = store.SaveTransactions(ctx, user.ID, []model.Transaction{
		btcTrade("buy-1", model.TypeBuy, "2016-01-01", 2, 200),
		btcTrade("buy-2", model.TypeBuy, "2017-01-01", 1, 1000),
		btcTrade("sell-1", model.TypeSell, "2017-03-01", 2, 2000),
		btcTrade("sell-2", model.TypeSell, "2017-06-01", 2, 2400),
	})
	require.NoError(t, err)
	require.NoError(t, store.Close())

	out, err := execute(t, reportCmd())
	require.NoError(t, err)
	assert.Contains(t, out, "Long-term")
	// 2 BTC from 2016 sold for $2,000 against $200.
	assert.Contains(t, out, "$1,800.00")
	// 1 BTC from 2017 sold for $1,200 against $1,000; the second coin is uncovered.
	assert.Contains(t, out, "2017-01-01")
	assert.Contains(t, out, "Net realized gain: $2,000.00")
	assert.Contains(t, out, "sold without a matching buy or deposit")

	out, err = execute(t, reportCmd(), "--year", "2016")
	require.NoError(t, err)
	assert.Contains(t, out, "No sales.")
	assert.Contains(t, out, "Net realized gain: $0.00")

	out, err = execute(t, reportCmd(), "--from", "2017-04-01", "--to", "2017-12-31")
	require.NoError(t, err)
	assert.Contains(t, out, "Net realized gain: $200.00")
}

func TestReportPeriodFlags(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		wantErr string
	}{
		{name: "bad from", args: []string{"--from", "March"}, wantErr: "Invalid --from date"},
		{name: "bad to", args: []string{"--to", "2017-13-01"}, wantErr: "Invalid --to date"},
		{name: "reversed", args: []string{"--from", "2017-06-01", "--to", "2017-01-01"}, wantErr: "--to is before --from"},
		{name: "year with from", args: []string{"--year", "2017", "--from", "2017-01-01"}, wantErr: "none of the others can be"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			useTempSettings(t)
			_, err := execute(t, reportCmd(), tt.args...)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestImportDryRunAndSave(t *testing.T) {
	dbPath := useTempSettings(t)
	t.Setenv("TRADEDASH_NEW_PASSWORD", "correct-horse")
	_, err := execute(t, userCmd(), "add", "alice")
	require.NoError(t, err)

	file := filepath.Join("testdata", "brokerage.ofx")

	out, err := execute(t, importCmd(), "--dry-run", file)
	require.NoError(t, err)
	assert.Contains(t, out, "brokerage.ofx: accounts 987654")
	assert.Contains(t, out, "AAPL-USD")
	assert.Equal(t, 0, countFor(t, dbPath, "alice"))

	_, err = execute(t, importCmd(), file)
	require.NoError(t, err)
	assert.Equal(t, 3, countFor(t, dbPath, "alice"))
}

package tui

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/Veraticus/tradedash/internal/common"
	"github.com/Veraticus/tradedash/internal/model"
	"github.com/Veraticus/tradedash/internal/service"
	"github.com/Veraticus/tradedash/internal/testutil"
	"github.com/Veraticus/tradedash/internal/tui/components"
	"github.com/Veraticus/tradedash/internal/tui/viewmodel"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeDataService struct {
	err   error
	resp  *service.TransactionsResponse
	mu    sync.Mutex
	calls int
}

func (f *fakeDataService) ListTransactions(_ context.Context) (*service.TransactionsResponse, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	return f.resp, f.err
}

func (f *fakeDataService) CurrentUser(_ context.Context) (*model.User, error) {
	return &model.User{Username: "alice", LocalCurrency: "USD"}, nil
}

func (f *fakeDataService) set(resp *service.TransactionsResponse, err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.resp = resp
	f.err = err
}

func newTestModel(ds service.DataService, opts ...Option) Model {
	opts = append([]Option{
		WithDataService(ds),
		WithSession(service.Session{User: model.User{Username: "alice", LocalCurrency: "USD"}}),
		WithRetry(common.RetryOptions{MaxAttempts: 2, InitialDelay: time.Millisecond}),
		WithAltScreen(false),
	}, opts...)
	return New(opts...)
}

// load runs the model's fetch synchronously and feeds the result back.
func load(t *testing.T, m Model) Model {
	t.Helper()
	msg := m.fetch()()
	updated, _ := m.Update(msg)
	return updated.(Model)
}

func send(m Model, msgs ...tea.Msg) (Model, tea.Cmd) {
	var cmd tea.Cmd
	for _, msg := range msgs {
		var updated tea.Model
		updated, cmd = m.Update(msg)
		m = updated.(Model)
	}
	return m, cmd
}

func keyRunes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestModel_UnsuccessfulFetchShowsError(t *testing.T) {
	ds := &fakeDataService{resp: &service.TransactionsResponse{Success: false}}
	m := newTestModel(ds)
	require.True(t, m.Loading())

	m = load(t, m)

	assert.False(t, m.Loading())
	assert.ErrorIs(t, m.Err(), common.ErrUnsuccessfulResponse)
	assert.Contains(t, m.View(), "Failed to load transactions")
	assert.Contains(t, m.View(), "Press r to retry")
	assert.Equal(t, 2, ds.calls, "one automatic retry")
}

func TestFetchTransactions_LogsUnsuccessfulEnvelope(t *testing.T) {
	var buf bytes.Buffer
	prev := slog.Default()
	slog.SetDefault(slog.New(slog.NewTextHandler(&buf, nil)))
	t.Cleanup(func() { slog.SetDefault(prev) })

	ds := &fakeDataService{resp: &service.TransactionsResponse{Success: false}}
	cmd := fetchTransactions(ds, time.Second, common.RetryOptions{MaxAttempts: 1})
	msg, ok := cmd().(TransactionsLoadedMsg)
	require.True(t, ok)

	assert.False(t, msg.Response.Success)
	assert.Contains(t, buf.String(), "Failed to fetch transactions")
	assert.Contains(t, buf.String(), "data service reported failure")
	assert.NotContains(t, buf.String(), "data service reported failure: ")
}

func TestModel_TransportErrorShowsError(t *testing.T) {
	ds := &fakeDataService{err: common.ErrServiceUnavailable}
	m := load(t, newTestModel(ds))

	assert.False(t, m.Loading())
	assert.ErrorIs(t, m.Err(), common.ErrServiceUnavailable)
	assert.Contains(t, m.View(), "Failed to load transactions")
}

func TestModel_PermanentErrorIsNotRetried(t *testing.T) {
	ds := &fakeDataService{err: common.Permanent(common.ErrUnauthorized)}
	m := load(t, newTestModel(ds))

	assert.ErrorIs(t, m.Err(), common.ErrUnauthorized)
	assert.Equal(t, 1, ds.calls)
}

func TestModel_RetryAfterError(t *testing.T) {
	ds := &fakeDataService{err: errors.New("connection reset")}
	m := load(t, newTestModel(ds))
	require.Error(t, m.Err())

	ds.set(&service.TransactionsResponse{Success: true, Payload: testutil.Trades(3)}, nil)

	m, cmd := send(m, keyRunes("r"))
	require.NotNil(t, cmd)
	assert.True(t, m.Loading())

	m, cmd = send(m, components.RetryRequestMsg{})
	require.NotNil(t, cmd)
	m, _ = send(m, cmd())

	assert.False(t, m.Loading())
	assert.NoError(t, m.Err())
	assert.Contains(t, m.View(), "1-3 of 3")
}

func TestModel_Success(t *testing.T) {
	ds := &fakeDataService{resp: &service.TransactionsResponse{Success: true, Payload: testutil.Trades(25)}}
	m := load(t, newTestModel(ds))

	view := m.View()
	assert.Contains(t, view, "Tradebot")
	assert.Contains(t, view, "alice · USD")
	assert.Contains(t, view, "1-10 of 25")
	assert.Contains(t, view, "Historical Price")
}

func TestModel_InitialSort(t *testing.T) {
	ds := &fakeDataService{resp: &service.TransactionsResponse{Success: true, Payload: testutil.Trades(25)}}

	m := load(t, newTestModel(ds))
	assert.Equal(t, "txn-000", m.table.Page().Rows[0].ID, "fetch order until a column is sorted")

	m = load(t, newTestModel(ds, WithSort(viewmodel.SortSpec{
		Column:    viewmodel.ColumnAmount,
		Direction: viewmodel.Descending,
	})))
	assert.Equal(t, "txn-024", m.table.Page().Rows[0].ID)
	assert.Contains(t, m.View(), "Amount ▼")
}

func TestModel_Navigation(t *testing.T) {
	ds := &fakeDataService{resp: &service.TransactionsResponse{Success: true, Payload: testutil.Trades(4)}}
	m := load(t, newTestModel(ds))
	require.Equal(t, RouteTransactions, m.Route())

	m, _ = send(m, components.NavigateMsg{Path: components.PathDashboard})
	assert.Equal(t, RouteDashboard, m.Route())
	assert.Contains(t, m.View(), "Overview")
	assert.Contains(t, m.View(), "Holdings")
	assert.Contains(t, m.View(), "Realized")

	m, cmd := send(m, tea.KeyMsg{Type: tea.KeyEnter})
	require.NotNil(t, cmd)
	m, _ = send(m, cmd())
	assert.Equal(t, RouteTransactions, m.Route())

	m, _ = send(m, components.NavigateMsg{Path: "/settings"})
	assert.Equal(t, RouteTransactions, m.Route())
	assert.Contains(t, m.View(), "unknown route")
}

func TestModel_DrawerAndTitle(t *testing.T) {
	ds := &fakeDataService{resp: &service.TransactionsResponse{Success: true}}
	m := load(t, newTestModel(ds))

	m, _ = send(m, keyRunes("m"))
	assert.Contains(t, m.View(), "Dashboard")

	// Quit is ignored while the drawer has focus.
	m, cmd := send(m, keyRunes("q"))
	assert.Nil(t, cmd)

	m, _ = send(m, tea.KeyMsg{Type: tea.KeyEsc})
	m, cmd = send(m, keyRunes("t"))
	require.NotNil(t, cmd)
	m, _ = send(m, cmd())
	assert.Equal(t, RouteDashboard, m.Route())
	assert.Contains(t, m.View(), "No transactions yet.")
}

func TestModel_Quit(t *testing.T) {
	m := newTestModel(&fakeDataService{})

	_, cmd := send(m, keyRunes("q"))
	require.NotNil(t, cmd)
	assert.Equal(t, tea.QuitMsg{}, cmd())
}

func TestModel_NoDataService(t *testing.T) {
	m := New(WithAltScreen(false))
	m = load(t, m)

	assert.ErrorIs(t, m.Err(), common.ErrMissingConfig)
	assert.Error(t, Run(context.Background()))
}

func TestModel_InitialPath(t *testing.T) {
	m := newTestModel(&fakeDataService{}, WithInitialPath(components.PathDashboard))
	assert.Equal(t, RouteDashboard, m.Route())

	m = newTestModel(&fakeDataService{}, WithInitialPath("/nowhere"))
	assert.Equal(t, RouteTransactions, m.Route())
}

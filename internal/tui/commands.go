package tui

import (
	"context"
	"fmt"
	"time"

	"github.com/Veraticus/tradedash/internal/common"
	"github.com/Veraticus/tradedash/internal/service"
	"github.com/Veraticus/tradedash/internal/tui/components"
	tea "github.com/charmbracelet/bubbletea"
)

// fetchTransactions loads transactions from the data service. Failures and
// unsuccessful envelopes are retried per the configured options; the last
// outcome is delivered as a TransactionsLoadedMsg.
func fetchTransactions(ds service.DataService, timeout time.Duration, retry common.RetryOptions) tea.Cmd {
	return func() tea.Msg {
		if ds == nil {
			return components.TransactionsLoadedMsg{
				Err: fmt.Errorf("%w: no data service", common.ErrMissingConfig),
			}
		}

		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()

		var last *service.TransactionsResponse
		start := time.Now()
		err := common.WithRetry(ctx, func() error {
			last = nil
			resp, err := ds.ListTransactions(ctx)
			if err != nil {
				return err
			}
			if resp == nil {
				return common.Permanent(common.ErrMalformedResponse)
			}
			last = resp
			return resp.Failure()
		}, retry)

		if err != nil {
			common.LogError(err, "Failed to fetch transactions", common.Fields{
				"elapsed": time.Since(start),
			})
			if last != nil && !last.Success {
				return components.TransactionsLoadedMsg{Response: last}
			}
			return components.TransactionsLoadedMsg{Err: err}
		}

		common.LogDebug("Fetched transactions", common.Fields{
			"count":   len(last.Payload),
			"elapsed": time.Since(start),
		})
		return components.TransactionsLoadedMsg{Response: last}
	}
}

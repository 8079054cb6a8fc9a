package tui

import "github.com/Veraticus/tradedash/internal/tui/components"

// Messages shared with the components, re-exported for callers driving the
// model directly.
type (
	// NavigateMsg switches the active view.
	NavigateMsg = components.NavigateMsg
	// TransactionsLoadedMsg carries the outcome of a fetch.
	TransactionsLoadedMsg = components.TransactionsLoadedMsg
)


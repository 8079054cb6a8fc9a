package tui

import (
	"errors"
	"fmt"

	"github.com/Veraticus/tradedash/internal/tui/components"
)

// ErrUnknownRoute is returned when navigating to a path with no view.
var ErrUnknownRoute = errors.New("unknown route")

// Router switches between top-level views.
type Router interface {
	Navigate(path string) error
}

// Route identifies a top-level view.
type Route int

const (
	// RouteDashboard is the summary view.
	RouteDashboard Route = iota
	// RouteTransactions is the transaction table.
	RouteTransactions
)

var routes = map[string]Route{
	components.PathDashboard:    RouteDashboard,
	components.PathTransactions: RouteTransactions,
}

// Navigate switches the active view to path.
func (m *Model) Navigate(path string) error {
	route, ok := routes[path]
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownRoute, path)
	}
	m.route = route
	m.shell.SetActive(path)
	return nil
}

// Route returns the active view.
func (m Model) Route() Route {
	return m.route
}

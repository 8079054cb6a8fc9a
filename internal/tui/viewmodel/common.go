// Package viewmodel holds the pure view state of the dashboard: sorting,
// pagination, selection and cell formatting. Nothing here renders or talks
// to the data service.
package viewmodel

// AppState represents the state of a data-backed view.
type AppState int

const (
	// StateLoading indicates the view is waiting for the data service.
	StateLoading AppState = iota
	// StateReady indicates records are loaded and displayed.
	StateReady
	// StateError indicates the last fetch failed.
	StateError
)

// String returns a lowercase name for the state.
func (s AppState) String() string {
	switch s {
	case StateLoading:
		return "loading"
	case StateReady:
		return "ready"
	case StateError:
		return "error"
	default:
		return "unknown"
	}
}


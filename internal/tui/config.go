package tui

import (
	"time"

	"github.com/Veraticus/tradedash/internal/common"
	"github.com/Veraticus/tradedash/internal/service"
	"github.com/Veraticus/tradedash/internal/tui/components"
	"github.com/Veraticus/tradedash/internal/tui/themes"
	"github.com/Veraticus/tradedash/internal/tui/viewmodel"
)

// Config holds TUI configuration.
type Config struct {
	DataService  service.DataService
	Theme        themes.Theme
	Session      service.Session
	Title        string
	InitialPath  string
	Retry        common.RetryOptions
	FetchTimeout time.Duration
	Sort         viewmodel.SortSpec
	PageSize     int
	Width        int
	Height       int
	AltScreen    bool
}

// Option is a functional option for configuring the TUI.
type Option func(*Config)

// defaultConfig returns the default configuration.
func defaultConfig() Config {
	return Config{
		Theme:        themes.Default,
		Title:        components.DefaultTitle,
		InitialPath:  components.PathTransactions,
		FetchTimeout: 30 * time.Second,
		PageSize:     viewmodel.DefaultPageSize,
		Sort:         viewmodel.DefaultSort(),
		Width:        120,
		Height:       30,
		AltScreen:    true,
		Retry: common.RetryOptions{
			MaxAttempts:  2,
			InitialDelay: 500 * time.Millisecond,
		},
	}
}

// WithDataService sets where transactions are fetched from.
func WithDataService(ds service.DataService) Option {
	return func(c *Config) {
		c.DataService = ds
	}
}

// WithSession sets the signed-in user shown in the top bar.
func WithSession(session service.Session) Option {
	return func(c *Config) {
		c.Session = session
	}
}

// WithTheme sets the visual theme.
func WithTheme(theme themes.Theme) Option {
	return func(c *Config) {
		c.Theme = theme
	}
}

// WithTitle sets the top bar title.
func WithTitle(title string) Option {
	return func(c *Config) {
		if title != "" {
			c.Title = title
		}
	}
}

// WithInitialPath sets the view shown at startup.
func WithInitialPath(path string) Option {
	return func(c *Config) {
		c.InitialPath = path
	}
}

// WithPageSize sets the initial rows per page.
func WithPageSize(size int) Option {
	return func(c *Config) {
		if size > 0 {
			c.PageSize = size
		}
	}
}

// WithSort sets the order the table starts in.
func WithSort(spec viewmodel.SortSpec) Option {
	return func(c *Config) {
		c.Sort = spec
	}
}

// WithFetchTimeout bounds a single fetch, retries included.
func WithFetchTimeout(d time.Duration) Option {
	return func(c *Config) {
		if d > 0 {
			c.FetchTimeout = d
		}
	}
}

// WithRetry sets how failed fetches are retried before the error is shown.
func WithRetry(opts common.RetryOptions) Option {
	return func(c *Config) {
		c.Retry = opts
	}
}

// WithSize sets the initial terminal size.
func WithSize(width, height int) Option {
	return func(c *Config) {
		c.Width = width
		c.Height = height
	}
}

// WithAltScreen toggles the alternate screen buffer.
func WithAltScreen(enabled bool) Option {
	return func(c *Config) {
		c.AltScreen = enabled
	}
}

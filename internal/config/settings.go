package config

import (
	"fmt"
	"net/url"
	"os"
	"time"

	"github.com/Veraticus/tradedash/internal/common"
	"github.com/spf13/viper"
)

// Settings is the typed view of the tradedash configuration.
type Settings struct {
	Database  DatabaseSettings
	Server    ServerSettings
	Remote    RemoteSettings
	Dashboard DashboardSettings
	Logging   LoggingSettings
}

// DatabaseSettings locates the local SQLite database.
type DatabaseSettings struct {
	Path string
}

// ServerSettings configures the REST backend.
type ServerSettings struct {
	Addr       string
	SessionTTL time.Duration
}

// RemoteSettings configures the HTTP data service client.
type RemoteSettings struct {
	URL      string
	Username string
	Password string
	Timeout  time.Duration
}

// DashboardSettings configures the terminal dashboard.
type DashboardSettings struct {
	Title        string
	Theme        string
	Username     string
	Sort         string
	PageSize     int
	FetchTimeout time.Duration
}

// LoggingSettings configures slog output.
type LoggingSettings struct {
	Level  string
	Format string
	File   string
}

// SetDefaults registers default values on v.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("database.path", "~/.local/share/tradedash/tradedash.db")
	v.SetDefault("server.addr", "127.0.0.1:8080")
	v.SetDefault("server.session_ttl", 12*time.Hour)
	v.SetDefault("remote.timeout", 30*time.Second)
	v.SetDefault("dashboard.title", "Tradebot")
	v.SetDefault("dashboard.theme", "default")
	v.SetDefault("dashboard.username", "admin")
	v.SetDefault("dashboard.page_size", 10)
	v.SetDefault("dashboard.fetch_timeout", 30*time.Second)
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "console")
	v.SetDefault("logging.file", "~/.local/share/tradedash/tradedash.log")
}

// Load reads Settings from v. Values not present in v fall back to the
// defaults registered by SetDefaults, and the remote password may also come
// from TRADEDASH_REMOTE_PASSWORD so it can live in a .env file.
func Load(v *viper.Viper) (*Settings, error) {
	SetDefaults(v)

	s := &Settings{
		Database: DatabaseSettings{
			Path: ExpandPath(v.GetString("database.path")),
		},
		Server: ServerSettings{
			Addr:       v.GetString("server.addr"),
			SessionTTL: v.GetDuration("server.session_ttl"),
		},
		Remote: RemoteSettings{
			URL:      v.GetString("remote.url"),
			Username: v.GetString("remote.username"),
			Password: v.GetString("remote.password"),
			Timeout:  v.GetDuration("remote.timeout"),
		},
		Dashboard: DashboardSettings{
			Title:        v.GetString("dashboard.title"),
			Theme:        v.GetString("dashboard.theme"),
			Username:     v.GetString("dashboard.username"),
			Sort:         v.GetString("dashboard.sort"),
			PageSize:     v.GetInt("dashboard.page_size"),
			FetchTimeout: v.GetDuration("dashboard.fetch_timeout"),
		},
		Logging: LoggingSettings{
			Level:  v.GetString("logging.level"),
			Format: v.GetString("logging.format"),
			File:   ExpandPath(v.GetString("logging.file")),
		},
	}

	if s.Remote.Password == "" {
		s.Remote.Password = os.Getenv("TRADEDASH_REMOTE_PASSWORD")
	}

	if err := s.Validate(); err != nil {
		return nil, err
	}
	return s, nil
}

// Validate checks the settings for values that cannot work.
func (s *Settings) Validate() error {
	if s.Dashboard.PageSize <= 0 {
		return fmt.Errorf("%w: dashboard.page_size must be positive, got %d", common.ErrInvalidConfig, s.Dashboard.PageSize)
	}
	if s.Server.SessionTTL <= 0 {
		return fmt.Errorf("%w: server.session_ttl must be positive", common.ErrInvalidConfig)
	}
	if s.Remote.URL != "" {
		u, err := url.Parse(s.Remote.URL)
		if err != nil || u.Scheme == "" || u.Host == "" {
			return fmt.Errorf("%w: remote.url %q is not an absolute URL", common.ErrInvalidConfig, s.Remote.URL)
		}
	}
	return nil
}

// RequireRemote reports an error when the remote data service is not fully
// configured.
func (s *Settings) RequireRemote() error {
	switch {
	case s.Remote.URL == "":
		return fmt.Errorf("%w: remote.url", common.ErrMissingConfig)
	case s.Remote.Username == "":
		return fmt.Errorf("%w: remote.username", common.ErrMissingConfig)
	case s.Remote.Password == "":
		return fmt.Errorf("%w: remote.password", common.ErrMissingConfig)
	}
	return nil
}

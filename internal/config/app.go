package config

import (
	"fmt"
	"time"

	"github.com/opyta/sistema-financeiro/internal/common"
	"github.com/opyta/sistema-financeiro/internal/sheets"
	"github.com/spf13/viper"
)

// Source backends.
const (
	BackendSheets = "sheets"
	BackendSQLite = "sqlite"
)

// App holds the settings outside the Google Sheets credentials.
type App struct {
	Timezone      *time.Location
	Backend       string
	SQLitePath    string
	TokenFile     string
	ServerAddress string
	SyncOnRender  bool
}

// SetDefaults registers default values for every key the application reads.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("source.backend", BackendSheets)
	v.SetDefault("source.sqlite_path", "~/.local/share/opyta/workbook.db")
	v.SetDefault("sheets.token_file", "~/.config/opyta/sheets-token.json")
	v.SetDefault("dashboard.timezone", "America/Sao_Paulo")
	v.SetDefault("dashboard.sync_on_render", true)
	v.SetDefault("server.address", "127.0.0.1:8080")
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "console")
}

// LoadApp reads and validates the application settings.
func LoadApp(v *viper.Viper) (App, error) {
	app := App{
		Backend:       v.GetString("source.backend"),
		SQLitePath:    ExpandPath(v.GetString("source.sqlite_path")),
		TokenFile:     ExpandPath(v.GetString("sheets.token_file")),
		ServerAddress: v.GetString("server.address"),
		SyncOnRender:  v.GetBool("dashboard.sync_on_render"),
	}

	switch app.Backend {
	case BackendSheets:
	case BackendSQLite:
		if app.SQLitePath == "" {
			return App{}, fmt.Errorf("%w: source.sqlite_path is required for the sqlite backend", common.ErrMissingConfig)
		}
	default:
		return App{}, fmt.Errorf("%w: unknown source.backend %q", common.ErrInvalidConfig, app.Backend)
	}

	tz := v.GetString("dashboard.timezone")
	if tz == "" {
		tz = "UTC"
	}
	loc, err := time.LoadLocation(tz)
	if err != nil {
		return App{}, fmt.Errorf("%w: dashboard.timezone %q: %v", common.ErrInvalidConfig, tz, err)
	}
	app.Timezone = loc

	return app, nil
}

// LoadLayout reads tab and column names, falling back to the defaults for
// every key that is not configured.
func LoadLayout(v *viper.Viper) (sheets.Layout, error) {
	layout := sheets.DefaultLayout()
	if v.IsSet("layout") {
		if err := v.UnmarshalKey("layout", &layout); err != nil {
			return sheets.Layout{}, fmt.Errorf("%w: layout: %v", common.ErrInvalidConfig, err)
		}
	}
	if err := layout.Validate(); err != nil {
		return sheets.Layout{}, err
	}
	return layout, nil
}

package app

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"tvparse/internal/config"
	"tvparse/internal/fetch"
	"tvparse/internal/storage"
)

// App aggregates configuration and shared dependencies for the CLI commands.
type App struct {
	Config *config.Config
	Logger zerolog.Logger
}

// NewApp constructs a new application handle.
func NewApp(cfg *config.Config, logger zerolog.Logger) *App {
	return &App{Config: cfg, Logger: logger.With().Str("component", "app").Logger()}
}

func (a *App) newFetcher() *fetch.Client {
	return fetch.New(fetch.Options{
		Timeout:   a.Config.Fetch.RequestTimeout,
		UserAgent: a.Config.Fetch.UserAgent,
	}, a.Logger)
}

// openStore returns the bar archive store, or nil when no DSN is
// configured.
func (a *App) openStore(ctx context.Context) (*storage.Store, func(), error) {
	if a.Config.Database.DSN == "" {
		return nil, nil, nil
	}

	pool, err := storage.NewPool(ctx, a.Config.Database)
	if err != nil {
		return nil, nil, err
	}

	store := storage.NewStore(pool)
	closer := func() {
		store.Close()
	}
	return store, closer, nil
}

// MergeOptions configure one merge invocation. Zero-valued policies fall
// back to the configured defaults.
type MergeOptions struct {
	Inputs         []string
	InputDir       string
	Output         string
	Dedupe         string
	DropIncomplete *bool // nil means use the configured default
	SortOrder      string
	DryRun         bool
}

// ExtractOptions configure one schedule extraction run.
type ExtractOptions struct {
	SchedulePath    string
	SourcePath      string
	OutDir          string
	Timezone        string
	TSColumn        string
	Force           bool
	ContinueOnError bool
	Workers         int
	Numbered        bool
	Prefix          string
	Pad             int
}

// ConvertOptions configure a CSV-to-JSON conversion.
type ConvertOptions struct {
	Input         string
	Output        string
	Format        string // "ndjson" or "array"
	CamelCase     bool
	GenerateDTS   bool
	InterfaceName string
	TimeColumn    string
}

// ExportOptions configure a chart export from a CSV series or the archive.
type ExportOptions struct {
	Input     string // CSV path; when empty the archive is queried
	From      *time.Time
	To        *time.Time
	PNGPath   string
	MaxPoints int
}

// ArchiveOptions configure loading a merged series into the archive.
type ArchiveOptions struct {
	Input string
}

// ShowOptions configure the show command.
type ShowOptions struct {
	Input string // CSV path; when empty recent archived bars are shown
	Limit int
}

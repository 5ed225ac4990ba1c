// Package app provides the application context and dependency management
// for the relink CLI. It centralizes configuration, logging, and session
// construction behind a single App value.
package app

import (
	"github.com/rs/zerolog"

	"github.com/hmoraleda/relink/internal/notion"
	"github.com/hmoraleda/relink/internal/reconcile"
	"github.com/hmoraleda/relink/pkg/errors"
)

// App represents the relink application with all its dependencies.
type App struct {
	// Version information
	version string
	commit  string
	date    string

	// Configuration
	config *Config

	// Logger
	logger *zerolog.Logger
}

// New creates a new App instance with the given version information.
func New(version, commit, date string, opts ...Option) (*App, error) {
	app := &App{
		version: version,
		commit:  commit,
		date:    date,
	}

	config, err := LoadConfig()
	if err != nil {
		return nil, errors.NewConfigError("load", "failed to load configuration", err)
	}
	app.config = config

	logger := NewLogger(config)
	app.logger = &logger

	for _, opt := range opts {
		if err := opt(app); err != nil {
			return nil, err
		}
	}

	return app, nil
}

// Version returns the version information.
func (a *App) Version() string {
	return a.version
}

// Config returns the application configuration.
func (a *App) Config() *Config {
	return a.config
}

// Logger returns the application logger.
func (a *App) Logger() *zerolog.Logger {
	return a.logger
}

// Client builds the resilient remote client from the configuration.
func (a *App) Client() *notion.Client {
	limiter := notion.NewLimiter(a.config.RequestsPerSecond, notion.WithBurst(a.config.Burst))
	return notion.NewClient(a.config.APIKey,
		notion.WithLimiter(limiter),
		notion.WithRetryPolicy(notion.Policy{
			MaxAttempts: a.config.MaxAttempts,
			BaseDelay:   a.config.BaseDelay,
		}),
		notion.WithLogger(a.logger),
	)
}

// Session builds a batch session over a fresh client. One session processes
// one bounded batch; re-running the command makes further progress.
func (a *App) Session() *reconcile.Session {
	return reconcile.NewSession(a.Client(), a.config.ReconcileConfig(),
		reconcile.WithSessionLogger(a.logger))
}

// Option is a functional option for configuring the App.
type Option func(*App) error

// WithConfig sets a custom configuration.
func WithConfig(config *Config) Option {
	return func(a *App) error {
		a.config = config
		return nil
	}
}

// WithLogger sets a custom logger.
func WithLogger(logger *zerolog.Logger) Option {
	return func(a *App) error {
		a.logger = logger
		return nil
	}
}

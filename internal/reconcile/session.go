package reconcile

import (
	"context"
	"fmt"
	"time"

	"github.com/agentstation/utc"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/hmoraleda/relink/internal/notion"
	"github.com/hmoraleda/relink/pkg/constants"
	"github.com/hmoraleda/relink/pkg/logging"
)

// Config carries the reconciliation settings consumed by the session and
// driver. Values are owned by the external configuration loader.
type Config struct {
	ContractsDatabaseID string
	PersonsDatabaseID   string

	ContractNameProperty     string
	ContractRelationProperty string
	PersonNameProperty       string
	Enrichments              []Enrichment

	BatchSize int
	DryRun    bool
}

// RemoteAPI is the full remote surface a session needs: the driver
// operations plus the bounded unlinked-contracts listing.
type RemoteAPI interface {
	API
	ListUnlinkedContracts(ctx context.Context, databaseID, relationProp string, limit int) ([]notion.Page, error)
}

// Result is what one completed session exposes to the reporting
// collaborator: the aggregated outcome events, the counters, and the
// session's time bounds.
type Result struct {
	SessionID string        `json:"session_id" yaml:"session_id"`
	DryRun    bool          `json:"dry_run" yaml:"dry_run"`
	StartedAt utc.Time      `json:"started_at" yaml:"started_at"`
	EndedAt   utc.Time      `json:"ended_at" yaml:"ended_at"`
	Duration  time.Duration `json:"duration" yaml:"duration"`
	Stats     Stats         `json:"stats" yaml:"stats"`
	Events    []Event       `json:"events" yaml:"events"`
}

// Session bounds one driver run to a single batch of unlinked contracts.
// It owns the resolution cache for exactly that run; forward progress across
// more than one batch is made by running fresh sessions.
type Session struct {
	api    RemoteAPI
	cfg    Config
	sink   Sink
	logger *zerolog.Logger
}

// SessionOption configures a Session.
type SessionOption func(*Session)

// WithSink streams events to an external consumer as they are emitted, in
// addition to the session's own aggregation.
func WithSink(sink Sink) SessionOption {
	return func(s *Session) {
		s.sink = sink
	}
}

// WithSessionLogger sets the session logger.
func WithSessionLogger(logger *zerolog.Logger) SessionOption {
	return func(s *Session) {
		s.logger = logger
	}
}

// NewSession creates a session over the given remote API and configuration.
func NewSession(api RemoteAPI, cfg Config, opts ...SessionOption) *Session {
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = constants.DefaultBatchSize
	}
	s := &Session{
		api:    api,
		cfg:    cfg,
		logger: logging.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Run lists one batch of unlinked contracts and feeds each through the
// driver sequentially, in the order the remote query returned them. Only a
// failure of the initial listing aborts the session; per-contract failures
// become error events. The cache is discarded when Run returns.
func (s *Session) Run(ctx context.Context) (*Result, error) {
	sessionID := uuid.NewString()
	logger := s.logger.With().Str("session_id", sessionID).Logger()

	started := utc.Now()
	if s.cfg.DryRun {
		logger.Warn().Msg("Dry-run mode: no remote mutations will be made")
	}

	contracts, err := s.api.ListUnlinkedContracts(ctx, s.cfg.ContractsDatabaseID, s.cfg.ContractRelationProperty, s.cfg.BatchSize)
	if err != nil {
		return nil, fmt.Errorf("list unlinked contracts: %w", err)
	}

	stats := Stats{Considered: len(contracts)}
	var events []Event
	collect := SinkFunc(func(e Event) {
		events = append(events, e)
		stats.observe(e)
		if s.sink != nil {
			s.sink.Emit(e)
		}
	})

	cache := NewCache()
	driver := NewDriver(s.api, cache, collect, &stats, s.cfg, &logger)

	logger.Info().
		Int("contracts", len(contracts)).
		Int("batch_size", s.cfg.BatchSize).
		Msg("Starting batch session")

	for i, contract := range contracts {
		logger.Info().
			Int("position", i+1).
			Int("total", len(contracts)).
			Str("contract_id", contract.ID).
			Msg("Processing contract")
		driver.Process(ctx, contract)
	}

	ended := utc.Now()
	result := &Result{
		SessionID: sessionID,
		DryRun:    s.cfg.DryRun,
		StartedAt: started,
		EndedAt:   ended,
		Duration:  ended.Sub(started),
		Stats:     stats,
		Events:    events,
	}

	logger.Info().
		Int("linked", stats.Linked).
		Int("errors", stats.Errors).
		Int("cache_hits", stats.CacheHits).
		Dur("duration", result.Duration).
		Msg("Batch session finished")

	return result, nil
}

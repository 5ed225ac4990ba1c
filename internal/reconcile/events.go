// Package reconcile implements the find-or-create-or-enrich reconciliation
// engine: the per-contract driver state machine, the session-scoped person
// resolution cache, and the batch session that bounds one run.
package reconcile

import "github.com/agentstation/utc"

// EventKind tags the terminal and intermediate outcomes of processing one
// contract.
type EventKind string

// Outcome event kinds.
const (
	// EventLinked records a contract successfully linked to a person.
	EventLinked EventKind = "linked"

	// EventError records a per-contract failure. The detail distinguishes
	// resolution failures from link failures.
	EventError EventKind = "error"

	// EventSkippedEmptyName records a contract whose extracted name
	// normalized to the empty string.
	EventSkippedEmptyName EventKind = "skipped_empty_name"

	// EventPersonCreated records a person created for a contract.
	EventPersonCreated EventKind = "person_created"

	// EventPersonFound records an existing person matched by name.
	EventPersonFound EventKind = "person_found"

	// EventPersonEnriched records empty person properties filled from a
	// contract. Enrichment is additive-only.
	EventPersonEnriched EventKind = "person_enriched"
)

// Event is one append-only outcome record. Events are owned by the batch
// session and consumed by the reporting collaborator.
type Event struct {
	Kind       EventKind `json:"kind" yaml:"kind"`
	ContractID string    `json:"contract_id,omitempty" yaml:"contract_id,omitempty"`
	PersonID   string    `json:"person_id,omitempty" yaml:"person_id,omitempty"`
	PersonName string    `json:"person_name,omitempty" yaml:"person_name,omitempty"`
	Properties []string  `json:"properties,omitempty" yaml:"properties,omitempty"`
	Detail     string    `json:"detail,omitempty" yaml:"detail,omitempty"`
	Timestamp  utc.Time  `json:"timestamp" yaml:"timestamp"`
}

// Sink receives outcome events as they are emitted.
type Sink interface {
	Emit(Event)
}

// SinkFunc adapts a function to the Sink interface.
type SinkFunc func(Event)

// Emit implements Sink.
func (f SinkFunc) Emit(e Event) {
	f(e)
}

// Stats are the session-level counters exposed to the reporting
// collaborator.
type Stats struct {
	Considered         int `json:"considered" yaml:"considered"`
	Linked             int `json:"linked" yaml:"linked"`
	Errors             int `json:"errors" yaml:"errors"`
	SkippedEmptyName   int `json:"skipped_empty_name" yaml:"skipped_empty_name"`
	PersonsCreated     int `json:"persons_created" yaml:"persons_created"`
	PersonsFound       int `json:"persons_found" yaml:"persons_found"`
	PropertiesEnriched int `json:"properties_enriched" yaml:"properties_enriched"`
	CacheHits          int `json:"cache_hits" yaml:"cache_hits"`
}

// observe folds one event into the counters. Cache hits have no event; the
// driver records them directly.
func (s *Stats) observe(e Event) {
	switch e.Kind {
	case EventLinked:
		s.Linked++
	case EventError:
		s.Errors++
	case EventSkippedEmptyName:
		s.SkippedEmptyName++
	case EventPersonCreated:
		s.PersonsCreated++
	case EventPersonFound:
		s.PersonsFound++
	case EventPersonEnriched:
		s.PropertiesEnriched += len(e.Properties)
	}
}

// SuccessRate returns the linked share of considered contracts, in percent.
func (s *Stats) SuccessRate() float64 {
	if s.Considered == 0 {
		return 0
	}
	return float64(s.Linked) / float64(s.Considered) * 100
}

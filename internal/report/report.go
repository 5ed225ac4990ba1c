// Package report renders the outcome of a batch session for humans and for
// file export. It consumes the session result; it never talks to the remote
// service.
package report

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/goccy/go-yaml"

	"github.com/hmoraleda/relink/internal/reconcile"
	"github.com/hmoraleda/relink/pkg/constants"
)

// Console writes a human-readable processing summary.
func Console(w io.Writer, r *reconcile.Result) {
	fmt.Fprintln(w, strings.Repeat("=", 60))
	fmt.Fprintln(w, "PROCESSING REPORT")
	fmt.Fprintln(w, strings.Repeat("=", 60))
	if r.DryRun {
		fmt.Fprintln(w, "mode: dry-run (no remote changes were made)")
	}
	fmt.Fprintf(w, "session:         %s\n", r.SessionID)
	fmt.Fprintf(w, "duration:        %s\n", r.Duration)
	fmt.Fprintf(w, "considered:      %d\n", r.Stats.Considered)
	fmt.Fprintf(w, "linked:          %d\n", r.Stats.Linked)
	fmt.Fprintf(w, "errors:          %d\n", r.Stats.Errors)
	fmt.Fprintf(w, "skipped (empty): %d\n", r.Stats.SkippedEmptyName)
	fmt.Fprintln(w)
	fmt.Fprintln(w, "persons:")
	fmt.Fprintf(w, "  created:       %d\n", r.Stats.PersonsCreated)
	fmt.Fprintf(w, "  found:         %d\n", r.Stats.PersonsFound)
	fmt.Fprintf(w, "  cache hits:    %d\n", r.Stats.CacheHits)
	fmt.Fprintf(w, "  enriched:      %d properties\n", r.Stats.PropertiesEnriched)
	if r.Stats.Considered > 0 {
		fmt.Fprintf(w, "success rate:    %.1f%%\n", r.Stats.SuccessRate())
	}

	if created := eventsOfKind(r, reconcile.EventPersonCreated); len(created) > 0 {
		fmt.Fprintf(w, "\nnew persons (%d):\n", len(created))
		for _, e := range created {
			fmt.Fprintf(w, "  - %s (%s)\n", e.PersonName, shortID(e.PersonID))
		}
	}

	if errs := eventsOfKind(r, reconcile.EventError); len(errs) > 0 {
		fmt.Fprintf(w, "\nerrors (%d):\n", len(errs))
		for _, e := range errs {
			fmt.Fprintf(w, "  - %s: %s\n", labelFor(e), e.Detail)
		}
	}

	fmt.Fprintln(w, strings.Repeat("=", 60))
}

// Table renders the summary as an ASCII table, suitable for saving next to
// the CSV exports.
func Table(r *reconcile.Result) string {
	var b strings.Builder

	b.WriteString(strings.Repeat("=", 72) + "\n")
	b.WriteString("BATCH SESSION REPORT\n")
	b.WriteString(strings.Repeat("=", 72) + "\n")
	b.WriteString(fmt.Sprintf("session:  %s\n", r.SessionID))
	b.WriteString(fmt.Sprintf("started:  %s\n", r.StartedAt))
	b.WriteString(fmt.Sprintf("duration: %s\n\n", r.Duration))

	rows := []struct {
		metric string
		value  string
	}{
		{"Considered", fmt.Sprintf("%d", r.Stats.Considered)},
		{"Linked", fmt.Sprintf("%d", r.Stats.Linked)},
		{"Errors", fmt.Sprintf("%d", r.Stats.Errors)},
		{"Skipped (empty name)", fmt.Sprintf("%d", r.Stats.SkippedEmptyName)},
		{"Persons created", fmt.Sprintf("%d", r.Stats.PersonsCreated)},
		{"Persons found", fmt.Sprintf("%d", r.Stats.PersonsFound)},
		{"Cache hits", fmt.Sprintf("%d", r.Stats.CacheHits)},
		{"Properties enriched", fmt.Sprintf("%d", r.Stats.PropertiesEnriched)},
	}
	if r.Stats.Considered > 0 {
		rows = append(rows, struct{ metric, value string }{
			"Success rate (%)", fmt.Sprintf("%.1f", r.Stats.SuccessRate()),
		})
	}

	b.WriteString("+------------------------------+------------+\n")
	b.WriteString(fmt.Sprintf("| %-28s | %10s |\n", "Metric", "Value"))
	b.WriteString("+------------------------------+------------+\n")
	for _, row := range rows {
		b.WriteString(fmt.Sprintf("| %-28s | %10s |\n", row.metric, row.value))
	}
	b.WriteString("+------------------------------+------------+\n")

	return b.String()
}

// SaveTable writes the ASCII table report to a file.
func SaveTable(path string, r *reconcile.Result) error {
	return os.WriteFile(path, []byte(Table(r)), constants.FilePermissions)
}

// summary is the YAML-exported session digest.
type summary struct {
	SessionID string          `yaml:"session_id"`
	DryRun    bool            `yaml:"dry_run"`
	StartedAt string          `yaml:"started_at"`
	EndedAt   string          `yaml:"ended_at"`
	Duration  string          `yaml:"duration"`
	Stats     reconcile.Stats `yaml:"stats"`
}

// WriteYAML writes the session digest as YAML.
func WriteYAML(w io.Writer, r *reconcile.Result) error {
	s := summary{
		SessionID: r.SessionID,
		DryRun:    r.DryRun,
		StartedAt: r.StartedAt.String(),
		EndedAt:   r.EndedAt.String(),
		Duration:  r.Duration.String(),
		Stats:     r.Stats,
	}
	out, err := yaml.Marshal(s)
	if err != nil {
		return fmt.Errorf("marshal session summary: %w", err)
	}
	_, err = w.Write(out)
	return err
}

// SaveYAML writes the session digest to a file.
func SaveYAML(path string, r *reconcile.Result) error {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, constants.FilePermissions)
	if err != nil {
		return err
	}
	defer func() { _ = f.Close() }()
	return WriteYAML(f, r)
}

// eventsOfKind filters the session events by kind, preserving order.
func eventsOfKind(r *reconcile.Result, kind reconcile.EventKind) []reconcile.Event {
	var out []reconcile.Event
	for _, e := range r.Events {
		if e.Kind == kind {
			out = append(out, e)
		}
	}
	return out
}

// labelFor picks the most useful identifier for an event line.
func labelFor(e reconcile.Event) string {
	if e.PersonName != "" {
		return e.PersonName
	}
	return e.ContractID
}

// shortID truncates an opaque identifier for display.
func shortID(id string) string {
	if len(id) <= 8 {
		return id
	}
	return id[:8] + "..."
}

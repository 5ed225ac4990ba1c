package report

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"

	"github.com/hmoraleda/relink/internal/reconcile"
	"github.com/hmoraleda/relink/pkg/constants"
)

// ExportCSV writes the session data as four CSV files sharing a prefix:
// <prefix>_summary.csv, <prefix>_contracts.csv, <prefix>_persons.csv and
// <prefix>_errors.csv. It returns the paths written.
func ExportCSV(prefix string, r *reconcile.Result) ([]string, error) {
	if prefix == "" {
		prefix = "relink_report_" + r.StartedAt.Format(constants.TimeFormatFilename)
	}

	files := []struct {
		path  string
		write func(*csv.Writer) error
	}{
		{prefix + "_summary.csv", func(w *csv.Writer) error { return writeSummary(w, r) }},
		{prefix + "_contracts.csv", func(w *csv.Writer) error { return writeContracts(w, r) }},
		{prefix + "_persons.csv", func(w *csv.Writer) error { return writePersons(w, r) }},
		{prefix + "_errors.csv", func(w *csv.Writer) error { return writeErrors(w, r) }},
	}

	paths := make([]string, 0, len(files))
	for _, file := range files {
		if err := writeCSVFile(file.path, file.write); err != nil {
			return paths, fmt.Errorf("export %s: %w", file.path, err)
		}
		paths = append(paths, file.path)
	}
	return paths, nil
}

func writeCSVFile(path string, write func(*csv.Writer) error) error {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, constants.FilePermissions)
	if err != nil {
		return err
	}
	defer func() { _ = f.Close() }()

	w := csv.NewWriter(f)
	if err := write(w); err != nil {
		return err
	}
	w.Flush()
	return w.Error()
}

func writeSummary(w *csv.Writer, r *reconcile.Result) error {
	rows := [][]string{
		{"metric", "value"},
		{"session_id", r.SessionID},
		{"dry_run", strconv.FormatBool(r.DryRun)},
		{"considered", strconv.Itoa(r.Stats.Considered)},
		{"linked", strconv.Itoa(r.Stats.Linked)},
		{"errors", strconv.Itoa(r.Stats.Errors)},
		{"skipped_empty_name", strconv.Itoa(r.Stats.SkippedEmptyName)},
		{"persons_created", strconv.Itoa(r.Stats.PersonsCreated)},
		{"persons_found", strconv.Itoa(r.Stats.PersonsFound)},
		{"properties_enriched", strconv.Itoa(r.Stats.PropertiesEnriched)},
		{"cache_hits", strconv.Itoa(r.Stats.CacheHits)},
		{"started_at", r.StartedAt.String()},
		{"ended_at", r.EndedAt.String()},
		{"duration", r.Duration.String()},
	}
	if r.Stats.Considered > 0 {
		rows = append(rows, []string{"success_rate_pct", fmt.Sprintf("%.1f", r.Stats.SuccessRate())})
	}
	return w.WriteAll(rows)
}

func writeContracts(w *csv.Writer, r *reconcile.Result) error {
	if err := w.Write([]string{"contract_id", "person_name", "person_id", "status", "detail", "timestamp"}); err != nil {
		return err
	}
	for _, e := range r.Events {
		switch e.Kind {
		case reconcile.EventLinked, reconcile.EventError, reconcile.EventSkippedEmptyName:
			row := []string{e.ContractID, e.PersonName, e.PersonID, string(e.Kind), e.Detail, e.Timestamp.String()}
			if err := w.Write(row); err != nil {
				return err
			}
		}
	}
	return nil
}

func writePersons(w *csv.Writer, r *reconcile.Result) error {
	if err := w.Write([]string{"name", "id", "created_at"}); err != nil {
		return err
	}
	for _, e := range eventsOfKind(r, reconcile.EventPersonCreated) {
		if err := w.Write([]string{e.PersonName, e.PersonID, e.Timestamp.String()}); err != nil {
			return err
		}
	}
	return nil
}

func writeErrors(w *csv.Writer, r *reconcile.Result) error {
	if err := w.Write([]string{"contract_id", "person_name", "detail", "timestamp"}); err != nil {
		return err
	}
	for _, e := range eventsOfKind(r, reconcile.EventError) {
		if err := w.Write([]string{e.ContractID, e.PersonName, e.Detail, e.Timestamp.String()}); err != nil {
			return err
		}
	}
	return nil
}

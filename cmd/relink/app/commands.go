package app

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/hmoraleda/relink/internal/report"
	"github.com/hmoraleda/relink/pkg/constants"
)

// NewRunCommand creates the run command, which processes one batch of
// unlinked contracts.
func (a *App) NewRunCommand() *cobra.Command {
	var (
		batchSize int
		dryRun    bool
		export    bool
		exportDir string
	)

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Process one batch of unlinked contracts",
		Long: `Run lists up to one batch of contracts that have no person link, resolves
each contract's person (finding an existing one or creating it), fills empty
person fields from the contract, and writes the link.

Each invocation processes a single bounded batch. Re-run the command to make
further progress; already-linked contracts no longer match the query.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if batchSize > 0 {
				a.config.BatchSize = batchSize
			}
			if dryRun {
				a.config.DryRun = true
			}

			if err := a.config.Validate(); err != nil {
				return err
			}

			result, err := a.Session().Run(cmd.Context())
			if err != nil {
				return fmt.Errorf("batch session failed: %w", err)
			}

			report.Console(cmd.OutOrStdout(), result)

			if export {
				prefix := ""
				if exportDir != "" {
					if err := os.MkdirAll(exportDir, 0755); err != nil {
						return fmt.Errorf("create export directory: %w", err)
					}
					prefix = exportDir + string(os.PathSeparator) + "relink_report_" + result.StartedAt.Format(constants.TimeFormatFilename)
				}
				paths, err := report.ExportCSV(prefix, result)
				if err != nil {
					return fmt.Errorf("export report: %w", err)
				}
				if len(paths) > 0 {
					base := paths[0][:len(paths[0])-len("_summary.csv")]
					if err := report.SaveTable(base+"_table.txt", result); err != nil {
						return fmt.Errorf("save table report: %w", err)
					}
					if err := report.SaveYAML(base+"_summary.yaml", result); err != nil {
						return fmt.Errorf("save yaml summary: %w", err)
					}
					paths = append(paths, base+"_table.txt", base+"_summary.yaml")
				}
				a.logger.Info().Strs("files", paths).Msg("Exported session report")
			}

			return nil
		},
	}

	cmd.Flags().IntVar(&batchSize, "batch-size", 0, "number of contracts to process (default from config)")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "simulate the session without remote mutations")
	cmd.Flags().BoolVar(&export, "export", false, "export the session report as CSV, table and YAML files")
	cmd.Flags().StringVar(&exportDir, "export-dir", "", "directory for exported report files (default current directory)")

	return cmd
}

// NewCheckCommand creates the check command, which validates the
// configuration without touching the remote service.
func (a *App) NewCheckCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "check",
		Short: "Validate the configuration",
		Long: `Check verifies that the credentials, collection identifiers and execution
settings are present and coherent. It does not call the remote service.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := a.config.Validate(); err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, "configuration OK")
			fmt.Fprintf(out, "  contracts db:  %s\n", a.config.ContractsDatabaseID)
			fmt.Fprintf(out, "  persons db:    %s\n", a.config.PersonsDatabaseID)
			fmt.Fprintf(out, "  batch size:    %d\n", a.config.BatchSize)
			fmt.Fprintf(out, "  rate:          %.2f req/s (burst %d)\n", a.config.RequestsPerSecond, a.config.Burst)
			fmt.Fprintf(out, "  retries:       %d attempts, base delay %s\n", a.config.MaxAttempts, a.config.BaseDelay)
			if a.config.ConfigFile != "" {
				fmt.Fprintf(out, "  config file:   %s\n", a.config.ConfigFile)
			}
			return nil
		},
	}
}

// NewVersionCommand creates the version command.
func (a *App) NewVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, _ []string) {
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "relink %s\n", a.version)
			fmt.Fprintf(out, "  commit: %s\n", a.commit)
			fmt.Fprintf(out, "  built:  %s\n", a.date)
		},
	}
}

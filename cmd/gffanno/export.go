package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/inodb/gffanno/internal/duckdb"
)

func newExportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export --db <path> [input]",
		Short: "Export the feature graph to a DuckDB database",
		Long: `Append every feature and Parent reference to DuckDB tables (features,
parent_refs, runs). Each export gets its own run id, printed on stdout.`,
		Example: `  gffanno export --db dmel.duckdb dmel.gff.gz
  duckdb dmel.duckdb "SELECT category, count(*) FROM features GROUP BY 1"`,
		Args: maxOneInput,
		RunE: func(cmd *cobra.Command, args []string) error {
			dbPath := viper.GetString("export.db")
			if dbPath == "" {
				return usagef("a database path is required (--db or export.db in config)")
			}
			logger := loggerFromContext(cmd.Context())
			input := inputArg(args)

			fp, err := duckdb.StatFile(input)
			if err != nil {
				return fmt.Errorf("stat input: %w", err)
			}

			g, err := loadGraph(logger, input)
			if err != nil {
				return err
			}

			store, err := duckdb.Open(dbPath)
			if err != nil {
				return err
			}
			defer store.Close()

			run, err := store.WriteGraph(cmd.Context(), g, fp)
			if err != nil {
				return fmt.Errorf("export graph: %w", err)
			}

			orphans, err := store.Orphans(cmd.Context(), run.ID)
			if err != nil {
				return err
			}
			logger.Info("exported graph",
				zap.String("run_id", run.ID),
				zap.String("db", dbPath),
				zap.Int("features", run.Features),
				zap.Int("orphan_refs", len(orphans)))

			fmt.Fprintln(cmd.OutOrStdout(), run.ID)
			return nil
		},
	}

	cmd.Flags().String("db", "", "DuckDB database path")
	_ = viper.BindPFlag("export.db", cmd.Flags().Lookup("db"))
	return cmd
}

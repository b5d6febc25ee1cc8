package main

import (
	"fmt"
	"slices"
	"strings"

	"github.com/spf13/cobra"

	"github.com/inodb/gffanno/internal/gffio"
	"github.com/inodb/gffanno/internal/report"
)

func newReportCmd() *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:       "report <name> [input]",
		Short:     "Print a diagnostic summary of the feature graph",
		Long:      "Available reports: " + strings.Join(report.Names(), ", ") + ".",
		Example:   `  gffanno report stats dmel.gff.gz
  gffanno report parent-types dmel.gff.gz 2> orphans.log`,
		ValidArgs: report.Names(),
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) < 1 || len(args) > 2 {
				return usagef("expected a report name and at most one input file")
			}
			if !slices.Contains(report.Names(), args[0]) {
				return usagef("unknown report %q (available: %s)", args[0], strings.Join(report.Names(), ", "))
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := loggerFromContext(cmd.Context())

			g, err := loadGraph(logger, inputArg(args[1:]))
			if err != nil {
				return err
			}

			out, err := gffio.Create(output)
			if err != nil {
				return err
			}

			r := report.NewReporter(g)
			r.SetLogger(logger)
			if err := r.Write(args[0], out); err != nil {
				out.Close()
				return fmt.Errorf("write report: %w", err)
			}
			return out.Close()
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default: stdout)")
	return cmd
}

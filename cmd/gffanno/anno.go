package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/inodb/gffanno/internal/emit"
	"github.com/inodb/gffanno/internal/gffio"
)

func newAnnoCmd() *cobra.Command {
	var (
		categories []string
		output     string
	)

	cmd := &cobra.Command{
		Use:   "anno [flags] [input]",
		Short: "Write gene/transcript labelled records for feature categories",
		Long: `Load a GFF3 file and write one GTF-style line per feature of each requested
category, with gene_id, transcript_id and gene_name resolved from the Parent
hierarchy. Input may be gzip-compressed; '-' or no argument reads stdin.`,
		Example: `  gffanno anno -c gene dmel.gff.gz
  gffanno anno -c mRNA,ncRNA,tRNA -o transcripts.gtf.gz dmel.gff.gz
  gffanno anno -c exon,CDS --ucsc=false dmel.gff`,
		Args: maxOneInput,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(categories) == 0 {
				return usagef("at least one category is required (-c)")
			}
			logger := loggerFromContext(cmd.Context())

			g, err := loadGraph(logger, inputArg(args))
			if err != nil {
				return err
			}

			out, err := gffio.Create(output)
			if err != nil {
				return err
			}

			e := emit.NewEmitter(g)
			e.SetLogger(logger)
			if err := e.EmitAll(categories, viper.GetInt("workers"), emit.NewWriter(out)); err != nil {
				out.Close()
				return fmt.Errorf("emit records: %w", err)
			}
			if err := out.Close(); err != nil {
				return fmt.Errorf("close output: %w", err)
			}
			logger.Debug("annotation complete", zap.Strings("categories", categories))
			return nil
		},
	}

	cmd.Flags().StringSliceVarP(&categories, "category", "c", nil, "feature categories to emit (comma-separated or repeated)")
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file, gzip when it ends in .gz (default: stdout)")
	cmd.Flags().Int("workers", 0, "categories resolved concurrently (0 = number of CPUs)")
	_ = viper.BindPFlag("workers", cmd.Flags().Lookup("workers"))

	return cmd
}

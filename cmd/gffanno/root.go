package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/inodb/gffanno/internal/gff"
	"github.com/inodb/gffanno/internal/gffio"
	"github.com/inodb/gffanno/internal/graph"
)

const configName = ".gffanno"

func newRootCmd() *cobra.Command {
	var logger *zap.Logger

	root := &cobra.Command{
		Use:   "gffanno",
		Short: "Relabel GFF3 features with gene and transcript ancestry",
		Long: `gffanno loads a GFF3 annotation file into a feature graph and writes
GTF-style lines carrying gene_id, transcript_id and gene_name for the
requested feature categories. It also prints diagnostic reports about the
graph, exports it to DuckDB and draws feature subtrees.`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := initConfig(); err != nil {
				return err
			}
			var err error
			logger, err = newLogger(viper.GetBool("verbose"))
			if err != nil {
				return fmt.Errorf("create logger: %w", err)
			}
			cmd.SetContext(withLogger(cmd.Context(), logger))
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if logger != nil {
				_ = logger.Sync()
			}
		},
	}

	root.SetVersionTemplate(fmt.Sprintf("gffanno %s (%s) built %s\n", version, commit, date))
	root.SetFlagErrorFunc(func(cmd *cobra.Command, err error) error {
		return &usageError{err: err}
	})

	root.PersistentFlags().BoolP("verbose", "v", false, "enable debug logging")
	root.PersistentFlags().Bool("ucsc", true, "use UCSC-style chromosome names (chr2L, chrX, chrM)")
	_ = viper.BindPFlag("verbose", root.PersistentFlags().Lookup("verbose"))
	_ = viper.BindPFlag("ucsc", root.PersistentFlags().Lookup("ucsc"))

	root.AddCommand(newAnnoCmd())
	root.AddCommand(newReportCmd())
	root.AddCommand(newExportCmd())
	root.AddCommand(newDotCmd())
	root.AddCommand(newConfigCmd())

	return root
}

// initConfig reads ~/.gffanno.yaml when present and applies GFFANNO_*
// environment overrides.
func initConfig() error {
	viper.SetDefault("ucsc", true)
	viper.SetDefault("workers", 0)

	viper.SetConfigName(configName)
	viper.SetConfigType("yaml")
	if home, err := os.UserHomeDir(); err == nil {
		viper.AddConfigPath(home)
	}

	viper.SetEnvPrefix("GFFANNO")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return fmt.Errorf("read config: %w", err)
		}
	}
	return nil
}

func configPath() (string, error) {
	if f := viper.ConfigFileUsed(); f != "" {
		return f, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("cannot determine home directory: %w", err)
	}
	return filepath.Join(home, configName+".yaml"), nil
}

// newLogger builds a console logger on stderr. Diagnostics never share the
// output stream.
func newLogger(verbose bool) (*zap.Logger, error) {
	cfg := zap.NewProductionConfig()
	if verbose {
		cfg = zap.NewDevelopmentConfig()
	}
	cfg.Encoding = "console"
	cfg.OutputPaths = []string{"stderr"}
	cfg.ErrorOutputPaths = []string{"stderr"}
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	cfg.EncoderConfig.EncodeLevel = zapcore.CapitalLevelEncoder
	cfg.DisableStacktrace = !verbose
	return cfg.Build()
}

// inputArg returns the single positional input, or stdin when none is given.
func inputArg(args []string) string {
	if len(args) == 0 {
		return gffio.Stdio
	}
	return args[0]
}

// maxOneInput accepts an optional input path.
func maxOneInput(cmd *cobra.Command, args []string) error {
	if len(args) > 1 {
		return usagef("expected at most one input file, got %d", len(args))
	}
	return nil
}

// loadGraph parses path into a feature graph and logs a summary of
// categories that were neither accepted nor denied.
func loadGraph(logger *zap.Logger, path string) (*graph.Graph, error) {
	parser := gff.NewParser(viper.GetBool("ucsc"))
	parser.SetLogger(logger)

	loader := graph.NewLoader(path, parser)
	loader.SetLogger(logger)

	g, err := loader.Load()
	if err != nil {
		return nil, err
	}

	unknown := parser.Unknown()
	cats := make([]string, 0, len(unknown))
	for c := range unknown {
		cats = append(cats, c)
	}
	sort.Strings(cats)
	for _, c := range cats {
		logger.Info("dropped unknown category", zap.String("category", c), zap.Int("records", unknown[c]))
	}
	return g, nil
}

package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/inodb/gffanno/internal/dot"
	"github.com/inodb/gffanno/internal/gffio"
)

func newDotCmd() *cobra.Command {
	var root, output string

	cmd := &cobra.Command{
		Use:   "dot --root <id> [input]",
		Short: "Draw the features below one ID",
		Long: `Write the subgraph reachable from --root through Parent links. Output is
DOT source, or SVG rendered in-process when -o ends in .svg.`,
		Example: `  gffanno dot --root FBgn0031208 -o gene.svg dmel.gff.gz
  gffanno dot --root FBgn0031208 dmel.gff | dot -Tpng > gene.png`,
		Args: maxOneInput,
		RunE: func(cmd *cobra.Command, args []string) error {
			if root == "" {
				return usagef("--root is required")
			}
			logger := loggerFromContext(cmd.Context())

			g, err := loadGraph(logger, inputArg(args))
			if err != nil {
				return err
			}

			src, err := dot.ToDOT(g, root)
			if err != nil {
				if errors.Is(err, dot.ErrNoRoot) {
					return usagef("%v", err)
				}
				return err
			}

			data := []byte(src)
			if strings.HasSuffix(output, ".svg") {
				if data, err = dot.RenderSVG(cmd.Context(), src); err != nil {
					return fmt.Errorf("render %s: %w", output, err)
				}
			}

			out, err := gffio.Create(output)
			if err != nil {
				return err
			}
			if _, err := out.Write(data); err != nil {
				out.Close()
				return fmt.Errorf("write %s: %w", output, err)
			}
			return out.Close()
		},
	}

	cmd.Flags().StringVar(&root, "root", "", "ID of the feature at the top of the drawing")
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file; .svg renders, anything else is DOT (default: stdout)")
	return cmd
}


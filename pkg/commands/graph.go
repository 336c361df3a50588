package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"ProcReports/pkg/graphing"
)

var (
	graphOutput string
)

// NewGraphCmd creates the graph subcommand.
func NewGraphCmd() *cobra.Command {
	cmd := &cobra.Command{
		Aliases: []string{"g"},
		Use:     "graph <input-file>",
		Short:   "Generate charts from exported snapshots",
		Long: `Generate an HTML page of time series charts from a file written by
"procreports snapshot --count N". Each numeric column that changes gets a
raw and a delta chart.

Supported input formats: jsonl, csv, tsv, parquet, sqlite

Example:
  procreports graph snapshot-20240101-120000.parquet
  procreports graph data.jsonl -o report.html`,
		Args: cobra.ExactArgs(1),
		RunE: runGraph,
	}

	cmd.Flags().StringVarP(&graphOutput, "output", "o", "", "Output HTML file (auto-generated if empty)")

	return cmd
}

func runGraph(cmd *cobra.Command, args []string) error {
	inputPath := args[0]
	if _, err := os.Stat(inputPath); err != nil {
		return fmt.Errorf("input file not found: %s", inputPath)
	}
	output := graphOutput
	if output == "" {
		output = Cfg.GenerateGraphPath(inputPath)
	}

	gen, err := graphing.NewGenerator(inputPath, output)
	if err != nil {
		return fmt.Errorf("failed to create generator: %w", err)
	}
	if err := gen.Generate(); err != nil {
		return fmt.Errorf("failed to generate graphs: %w", err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Generated graphs in: %s\n", output)
	return nil
}

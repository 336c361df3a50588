package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"ProcReports/pkg/config"
	"ProcReports/pkg/decoding"
	"ProcReports/pkg/formatting"
)

var statRaw bool

// NewStatCmd creates the stat subcommand.
func NewStatCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "stat [file]",
		Short: "Decode the CPU and scheduler counter report",
		Long: `Decode /proc/stat, or a saved copy of it, and print the counters.

Example:
  procreports stat
  procreports stat --raw
  procreports stat --acquire command --command "ssh host cat"
  procreports stat saved-stat.txt`,
		Args: cobra.MaximumNArgs(1),
		RunE: runStat,
	}

	Cfg.AddSourceFlags(cmd)
	cmd.Flags().BoolVar(&statRaw, "raw", false, "Print the canonical report text instead of panels")

	return cmd
}

func runStat(cmd *cobra.Command, args []string) error {
	if err := prepareConfig(); err != nil {
		return err
	}
	text, err := readReport(cmd.Context(), args, config.ProcStat)
	if err != nil {
		return err
	}
	r, err := decoding.DecodeCounterReport(text)
	if err != nil {
		return err
	}

	if statRaw {
		fmt.Fprint(cmd.OutOrStdout(), decoding.FormatCounterReport(r))
		return nil
	}
	fmt.Fprintln(cmd.OutOrStdout(), formatting.CounterReport(r))
	return nil
}

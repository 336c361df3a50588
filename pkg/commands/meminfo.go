package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"ProcReports/pkg/config"
	"ProcReports/pkg/decoding"
	"ProcReports/pkg/formatting"
)

var meminfoRaw bool

// NewMeminfoCmd creates the meminfo subcommand.
func NewMeminfoCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "meminfo [file]",
		Aliases: []string{"mem"},
		Short:   "Decode the memory report",
		Long: `Decode /proc/meminfo, or a saved copy of it. Labels the decoder does
not know are ignored; known labels that are missing read as 0.

Example:
  procreports meminfo
  procreports meminfo --raw saved-meminfo.txt`,
		Args: cobra.MaximumNArgs(1),
		RunE: runMeminfo,
	}

	Cfg.AddSourceFlags(cmd)
	cmd.Flags().BoolVar(&meminfoRaw, "raw", false, "Print the canonical report text instead of panels")

	return cmd
}

func runMeminfo(cmd *cobra.Command, args []string) error {
	if err := prepareConfig(); err != nil {
		return err
	}
	text, err := readReport(cmd.Context(), args, config.ProcMeminfo)
	if err != nil {
		return err
	}
	m, err := decoding.DecodeMemoryReport(text)
	if err != nil {
		return err
	}

	if meminfoRaw {
		fmt.Fprint(cmd.OutOrStdout(), decoding.FormatMemoryReport(m))
		return nil
	}
	fmt.Fprintln(cmd.OutOrStdout(), formatting.MemoryReport(m))
	return nil
}

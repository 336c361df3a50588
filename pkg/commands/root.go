// Package commands provides CLI command implementations.
package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"ProcReports/pkg/config"
)

// Cfg is the shared configuration instance.
var Cfg = config.New()

// NewRootCmd creates the root command with all subcommands.
func NewRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "procreports",
		Short: "Decode kernel procfs reports into typed records",
		Long: `procreports reads the kernel's /proc/stat, /proc/meminfo and
/proc/net/{tcp,udp,tcp6,udp6} reports and decodes them into typed records.

Commands:
  stat        Decode the CPU and scheduler counter report
  meminfo     Decode the memory report
  sockets     Decode the socket tables
  snapshot    Capture every report and export it
  graph       Generate charts from exported snapshots
  crosscheck  Compare decoded values with an independent reading`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddCommand(
		NewStatCmd(),
		NewMeminfoCmd(),
		NewSocketsCmd(),
		NewSnapshotCmd(),
		NewGraphCmd(),
		NewCrosscheckCmd(),
	)

	return root
}

// Execute runs the root command.
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

package commands

import (
	"fmt"
	"log"

	"github.com/spf13/cobra"

	"ProcReports/pkg/collecting"
	"ProcReports/pkg/config"
	"ProcReports/pkg/crosscheck"
)

// NewCrosscheckCmd creates the crosscheck subcommand.
func NewCrosscheckCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "crosscheck",
		Short: "Compare decoded values with an independent reading",
		Long: `Decode the reports and compare total memory, core count, boot time
and the TCP socket count with the values gopsutil reads from the live host.
Exits non-zero when any check disagrees.`,
		Args: cobra.NoArgs,
		RunE: runCrosscheck,
	}

	Cfg.AddSourceFlags(cmd)

	return cmd
}

func runCrosscheck(cmd *cobra.Command, args []string) error {
	if err := prepareConfig(); err != nil {
		return err
	}
	if Cfg.ProcRoot != config.DefaultProcRoot {
		log.Printf("Warning: reference values come from the live host, not %s", Cfg.ProcRoot)
	}

	s, err := collecting.NewManager(Cfg).Collect(cmd.Context())
	if err != nil {
		return err
	}

	checks := crosscheck.Run(cmd.Context(), s, crosscheck.HostReference{})
	for _, c := range checks {
		fmt.Fprintln(cmd.OutOrStdout(), c)
	}
	if m := crosscheck.Mismatches(checks); len(m) > 0 {
		return fmt.Errorf("%d of %d checks failed", len(m), len(checks))
	}
	return nil
}

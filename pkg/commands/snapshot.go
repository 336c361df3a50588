package commands

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"ProcReports/pkg/collecting"
	"ProcReports/pkg/exporting"
	"ProcReports/pkg/formatting"
	"ProcReports/pkg/graphing"
)

var (
	snapshotCount     int
	snapshotInterval  time.Duration
	snapshotNoSockets bool
	snapshotGraph     bool
	snapshotQuiet     bool
)

// NewSnapshotCmd creates the snapshot subcommand.
func NewSnapshotCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "snapshot",
		Aliases: []string{"ss"},
		Short:   "Capture every report and export it",
		Long: `Capture the counter, memory and socket reports and export them.

Each capture writes one summary record to the output file. Socket rows go
to a second file next to it with a "_sockets" suffix.

Example:
  procreports snapshot
  procreports snapshot -f parquet -o ./out
  procreports snapshot --count 60 --interval 1s --concurrent
  procreports snapshot --graph --graph-output snapshot.html`,
		RunE: runSnapshot,
	}

	Cfg.AddSourceFlags(cmd)
	Cfg.AddOutputFlags(cmd)
	Cfg.AddGraphFlags(cmd)
	Cfg.AddSystemFlags(cmd)

	cmd.Flags().IntVar(&snapshotCount, "count", 1, "Number of captures")
	cmd.Flags().DurationVar(&snapshotInterval, "interval", time.Second, "Delay between captures")
	cmd.Flags().BoolVar(&snapshotNoSockets, "no-sockets", false, "Do not export per-socket rows")
	cmd.Flags().BoolVar(&snapshotGraph, "graph", false, "Render the last capture as an HTML page")
	cmd.Flags().BoolVarP(&snapshotQuiet, "quiet", "q", false, "Do not print the last capture")

	return cmd
}

// socketsPath derives the socket row file from the summary file.
func socketsPath(path string) string {
	ext := filepath.Ext(path)
	return strings.TrimSuffix(path, ext) + "_sockets" + ext
}

func runSnapshot(cmd *cobra.Command, args []string) error {
	if err := prepareConfig(); err != nil {
		return err
	}
	if snapshotCount < 1 {
		return fmt.Errorf("count must be at least 1")
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	path := Cfg.GenerateOutputPath("snapshot", exporting.GetExtension(Cfg.OutputFormat))
	summary, err := exporting.NewExporter(path, Cfg.OutputFormat)
	if err != nil {
		return err
	}
	exporters := []*exporting.Exporter{summary}

	var sockets *exporting.Exporter
	if !snapshotNoSockets {
		sockets, err = exporting.NewExporter(socketsPath(path), Cfg.OutputFormat)
		if err != nil {
			summary.Close()
			return err
		}
		exporters = append(exporters, sockets)
	}

	manager := collecting.NewManager(Cfg)
	last, collectErr := captureLoop(ctx, manager, summary, sockets)

	for _, e := range exporters {
		if err := e.Close(); err != nil && collectErr == nil {
			collectErr = fmt.Errorf("failed to close %s: %w", e.Path(), err)
		}
	}
	if collectErr != nil {
		return collectErr
	}
	for _, e := range exporters {
		log.Printf("Written to: %s", e.Path())
	}

	if !snapshotQuiet {
		fmt.Fprintln(cmd.OutOrStdout(), formatting.Snapshot(last, 20))
	}

	if snapshotGraph {
		graphPath := Cfg.GenerateGraphPath(path)
		if err := writeSnapshotGraph(graphPath, last); err != nil {
			return err
		}
		log.Printf("Generated graph: %s", graphPath)
	}
	return nil
}

// captureLoop collects snapshotCount snapshots, stopping early when ctx is
// canceled after at least one capture.
func captureLoop(ctx context.Context, manager *collecting.Manager, summary, sockets *exporting.Exporter) (*collecting.Snapshot, error) {
	var last *collecting.Snapshot
	for i := 0; i < snapshotCount; i++ {
		if i > 0 {
			select {
			case <-ctx.Done():
				return last, nil
			case <-time.After(snapshotInterval):
			}
		}

		s, err := manager.Collect(ctx)
		if err != nil {
			return last, fmt.Errorf("capture %d: %w", i+1, err)
		}
		if err := summary.WriteSnapshot(s); err != nil {
			return last, fmt.Errorf("failed to write snapshot: %w", err)
		}
		if sockets != nil {
			if err := sockets.WriteSockets(s); err != nil {
				return last, fmt.Errorf("failed to write sockets: %w", err)
			}
		}
		last = s
	}
	return last, nil
}

func writeSnapshotGraph(path string, s *collecting.Snapshot) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create graph file: %w", err)
	}
	if err := graphing.RenderSnapshot(f, s); err != nil {
		f.Close()
		return fmt.Errorf("failed to render graph: %w", err)
	}
	return f.Close()
}

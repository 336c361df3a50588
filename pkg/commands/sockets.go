package commands

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"ProcReports/pkg/config"
	"ProcReports/pkg/decoding"
	"ProcReports/pkg/formatting"
)

var (
	socketsRaw   bool
	socketsLimit int
)

// NewSocketsCmd creates the sockets subcommand.
func NewSocketsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "sockets [file]",
		Aliases: []string{"net"},
		Short:   "Decode the socket tables",
		Long: `Decode the /proc/net socket tables selected by --tables, or one saved
table file. A malformed row fails the whole table.

Example:
  procreports sockets
  procreports sockets --tables tcp,tcp6 --limit 0
  procreports sockets --raw saved-tcp.txt`,
		Args: cobra.MaximumNArgs(1),
		RunE: runSockets,
	}

	Cfg.AddSourceFlags(cmd)
	cmd.Flags().BoolVar(&socketsRaw, "raw", false, "Print the canonical table text instead of panels")
	cmd.Flags().IntVar(&socketsLimit, "limit", 50, "Rows shown per table (0 for all)")

	return cmd
}

func runSockets(cmd *cobra.Command, args []string) error {
	if err := prepareConfig(); err != nil {
		return err
	}

	type table struct{ name, path string }
	var tables []table
	if len(args) > 0 {
		tables = append(tables, table{name: filepath.Base(args[0])})
	} else {
		for _, t := range Cfg.Tables {
			path, _ := config.TablePath(t)
			tables = append(tables, table{name: t, path: path})
		}
	}

	for _, t := range tables {
		text, err := readReport(cmd.Context(), args, t.path)
		if err != nil {
			return err
		}
		recs, err := decoding.DecodeSocketTable(text)
		if err != nil {
			return fmt.Errorf("%s: %w", t.name, err)
		}

		if socketsRaw {
			fmt.Fprint(cmd.OutOrStdout(), decoding.FormatSocketTable(recs))
			continue
		}
		fmt.Fprintln(cmd.OutOrStdout(), formatting.SocketTable(t.name, recs, socketsLimit))
	}
	return nil
}

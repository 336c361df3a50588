package config

import (
	"github.com/spf13/cobra"
)

// AddSourceFlags adds report acquisition flags to a command.
func (c *Config) AddSourceFlags(cmd *cobra.Command) {
	flags := cmd.Flags()
	flags.StringVar(&c.ProcRoot, "root", c.ProcRoot, "Filesystem root that holds /proc")
	flags.StringVar(&c.Acquire, "acquire", c.Acquire, "How to obtain report text (file, command)")
	flags.StringVar(&c.Command, "command", c.Command, "Command run with the report path when --acquire=command")
	flags.BoolVar(&c.Concurrent, "concurrent", c.Concurrent, "Acquire and decode reports concurrently")
	flags.StringSliceVar(&c.Tables, "tables", c.Tables, "Socket tables to decode (tcp, udp, tcp6, udp6)")
}

// AddOutputFlags adds common output flags to a command.
func (c *Config) AddOutputFlags(cmd *cobra.Command) {
	flags := cmd.Flags()
	flags.StringVarP(&c.OutputDir, "output-dir", "o", c.OutputDir, "Output directory")
	flags.StringVarP(&c.OutputFormat, "format", "f", c.OutputFormat, "Output format (jsonl, csv, tsv, parquet, sqlite)")
	flags.StringVar(&c.OutputName, "output", c.OutputName, "Output filename (auto-generated if empty)")
}

// AddGraphFlags adds graph generation flags to a command.
func (c *Config) AddGraphFlags(cmd *cobra.Command) {
	flags := cmd.Flags()
	flags.StringVar(&c.GraphOutput, "graph-output", c.GraphOutput, "Graph output file (auto-generated if empty)")
}

// AddSystemFlags adds system identification flags to a command.
func (c *Config) AddSystemFlags(cmd *cobra.Command) {
	flags := cmd.Flags()
	flags.StringVar(&c.UUID, "uuid", c.UUID, "Snapshot UUID (auto-generated if empty)")
	flags.StringVar(&c.Hostname, "hostname", c.Hostname, "Hostname override")
}

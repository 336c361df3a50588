// Package collecting binds report acquisition to the decoders.
package collecting

import (
	"context"
	"fmt"

	"ProcReports/pkg/config"
	"ProcReports/pkg/decoding"
	"ProcReports/pkg/probing"
)

// Collector obtains report text from a Source and decodes it. Acquisition
// errors are returned exactly as the Source produced them.
type Collector struct {
	source probing.Source
}

// NewCollector creates a Collector reading from source.
func NewCollector(source probing.Source) *Collector {
	return &Collector{source: source}
}

// NewSource builds the Source selected by cfg.
func NewSource(cfg *config.Config) probing.Source {
	if cfg.Acquire == "command" {
		src := probing.NewCommandSource(cfg.Command)
		if cfg.ProcRoot != config.DefaultProcRoot {
			src.Root = cfg.ProcRoot
		}
		return src
	}
	return probing.NewFileSource(cfg.ProcRoot)
}

// Stat reads and decodes /proc/stat.
func (c *Collector) Stat(ctx context.Context) (decoding.CounterReport, error) {
	text, err := c.source.Read(ctx, config.ProcStat)
	if err != nil {
		return decoding.CounterReport{}, err
	}
	return decoding.DecodeCounterReport(text)
}

// MemInfo reads and decodes /proc/meminfo.
func (c *Collector) MemInfo(ctx context.Context) (decoding.MemoryReport, error) {
	text, err := c.source.Read(ctx, config.ProcMeminfo)
	if err != nil {
		return decoding.MemoryReport{}, err
	}
	return decoding.DecodeMemoryReport(text)
}

// SocketTable reads and decodes the named socket table (tcp, udp, tcp6, udp6).
func (c *Collector) SocketTable(ctx context.Context, table string) ([]decoding.SocketRecord, error) {
	path, ok := config.TablePath(table)
	if !ok {
		return nil, fmt.Errorf("unknown socket table: %s", table)
	}
	text, err := c.source.Read(ctx, path)
	if err != nil {
		return nil, err
	}
	return decoding.DecodeSocketTable(text)
}

// TCP reads and decodes /proc/net/tcp.
func (c *Collector) TCP(ctx context.Context) ([]decoding.SocketRecord, error) {
	return c.SocketTable(ctx, config.TableTCP)
}

// UDP reads and decodes /proc/net/udp.
func (c *Collector) UDP(ctx context.Context) ([]decoding.SocketRecord, error) {
	return c.SocketTable(ctx, config.TableUDP)
}

// TCP6 reads and decodes /proc/net/tcp6.
func (c *Collector) TCP6(ctx context.Context) ([]decoding.SocketRecord, error) {
	return c.SocketTable(ctx, config.TableTCP6)
}

// UDP6 reads and decodes /proc/net/udp6.
func (c *Collector) UDP6(ctx context.Context) ([]decoding.SocketRecord, error) {
	return c.SocketTable(ctx, config.TableUDP6)
}

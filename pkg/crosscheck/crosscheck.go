// Package crosscheck compares decoded reports against an independent
// reading of the same host taken through gopsutil.
package crosscheck

import (
	"context"
	"fmt"

	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/host"
	"github.com/shirou/gopsutil/v3/mem"
	"github.com/shirou/gopsutil/v3/net"

	"ProcReports/pkg/collecting"
	"ProcReports/pkg/config"
)

// SocketTolerance absorbs connections opened or closed between the two reads.
const SocketTolerance = 16

// Reference supplies independently measured host values.
type Reference interface {
	MemTotalBytes(ctx context.Context) (uint64, error)
	CoreCount(ctx context.Context) (int, error)
	BootTime(ctx context.Context) (uint64, error)
	TCPConnections(ctx context.Context) (int, error)
}

// Check is the outcome of comparing one decoded value with its reference.
type Check struct {
	Name      string
	Decoded   uint64
	Reference uint64
	Tolerance uint64
	Err       error
}

// OK reports whether both values were obtained and agree within tolerance.
func (c Check) OK() bool {
	if c.Err != nil {
		return false
	}
	diff := c.Decoded - c.Reference
	if c.Reference > c.Decoded {
		diff = c.Reference - c.Decoded
	}
	return diff <= c.Tolerance
}

func (c Check) String() string {
	if c.Err != nil {
		return fmt.Sprintf("%-12s error: %v", c.Name, c.Err)
	}
	status := "ok"
	if !c.OK() {
		status = "MISMATCH"
	}
	return fmt.Sprintf("%-12s decoded=%d reference=%d %s", c.Name, c.Decoded, c.Reference, status)
}

// Run compares s against ref. Reference failures are recorded per check
// rather than aborting the run.
func Run(ctx context.Context, s *collecting.Snapshot, ref Reference) []Check {
	var checks []Check

	memTotal, err := ref.MemTotalBytes(ctx)
	checks = append(checks, Check{Name: "memTotal", Decoded: s.Memory.MemTotal * 1024, Reference: memTotal, Err: err})

	cores, err := ref.CoreCount(ctx)
	checks = append(checks, Check{Name: "cpuCores", Decoded: uint64(len(s.Stat.PerCoreCPUTicks)), Reference: uint64(cores), Err: err})

	boot, err := ref.BootTime(ctx)
	checks = append(checks, Check{Name: "bootTime", Decoded: s.Stat.BootTimeEpochSeconds, Reference: boot, Tolerance: 1, Err: err})

	if _, ok := s.Sockets[config.TableTCP]; ok {
		conns, err := ref.TCPConnections(ctx)
		decoded := len(s.Sockets[config.TableTCP]) + len(s.Sockets[config.TableTCP6])
		checks = append(checks, Check{Name: "tcpSockets", Decoded: uint64(decoded), Reference: uint64(conns), Tolerance: SocketTolerance, Err: err})
	}

	return checks
}

// Mismatches returns the checks that did not pass.
func Mismatches(checks []Check) []Check {
	var out []Check
	for _, c := range checks {
		if !c.OK() {
			out = append(out, c)
		}
	}
	return out
}

// HostReference reads the live host through gopsutil.
type HostReference struct{}

func (HostReference) MemTotalBytes(ctx context.Context) (uint64, error) {
	vm, err := mem.VirtualMemoryWithContext(ctx)
	if err != nil {
		return 0, fmt.Errorf("virtual memory: %w", err)
	}
	return vm.Total, nil
}

func (HostReference) CoreCount(ctx context.Context) (int, error) {
	times, err := cpu.TimesWithContext(ctx, true)
	if err != nil {
		return 0, fmt.Errorf("cpu times: %w", err)
	}
	return len(times), nil
}

func (HostReference) BootTime(ctx context.Context) (uint64, error) {
	bt, err := host.BootTimeWithContext(ctx)
	if err != nil {
		return 0, fmt.Errorf("boot time: %w", err)
	}
	return bt, nil
}

func (HostReference) TCPConnections(ctx context.Context) (int, error) {
	conns, err := net.ConnectionsWithContext(ctx, "tcp")
	if err != nil {
		return 0, fmt.Errorf("connections: %w", err)
	}
	return len(conns), nil
}

// Package formatting renders decoded reports as terminal panels.
package formatting

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"ProcReports/pkg/collecting"
	"ProcReports/pkg/decoding"
)

var (
	titleStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("45"))
	subtleStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("244"))
	labelStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("81")).Bold(true)
	gaugeFill   = "█"
	gaugeEmpty  = "░"
	cardStyle   = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("60")).
			Padding(0, 1).
			MarginRight(1)
)

// GaugeWidth is the number of cells in a utilisation bar.
const GaugeWidth = 28

// CounterReport renders busy gauges for the aggregate and every core,
// followed by the scalar counters.
func CounterReport(r decoding.CounterReport) string {
	lines := []string{"all   " + gaugeBar(busyPercent(r.AggregateCPUTicks), GaugeWidth)}
	for i, core := range r.PerCoreCPUTicks {
		lines = append(lines, fmt.Sprintf("cpu%-3d%s", i, gaugeBar(busyPercent(core), GaugeWidth)))
	}
	cpuCard := card("CPU", strings.Join(lines, "\n"))

	counters := card("Counters", strings.Join([]string{
		fmt.Sprintf("%-14s %d", "interrupts", total(r.InterruptCounts)),
		fmt.Sprintf("%-14s %d", "softirqs", total(r.SoftIRQCounts)),
		fmt.Sprintf("%-14s %d", "ctxt", r.ContextSwitches),
		fmt.Sprintf("%-14s %d", "processes", r.ProcessCount),
		fmt.Sprintf("%-14s %d", "running", r.RunningProcessCount),
		fmt.Sprintf("%-14s %d", "blocked", r.BlockedProcessCount),
		fmt.Sprintf("%-14s %s", "boot", bootTime(r.BootTimeEpochSeconds)),
	}, "\n"))

	return lipgloss.JoinHorizontal(lipgloss.Top, cpuCard, counters)
}

// MemoryReport renders usage gauges and every field in kernel order.
func MemoryReport(m decoding.MemoryReport) string {
	usage := card("Memory", strings.Join([]string{
		"ram  " + gaugeBar(pct(m.MemTotal-min(m.MemAvailable, m.MemTotal), m.MemTotal), GaugeWidth),
		"swap " + gaugeBar(pct(m.SwapTotal-min(m.SwapFree, m.SwapTotal), m.SwapTotal), GaugeWidth),
		subtleStyle.Render(fmt.Sprintf("%.1f/%.1f GiB available", kibToGiB(m.MemAvailable), kibToGiB(m.MemTotal))),
	}, "\n"))

	half := (len(decoding.MemoryFields) + 1) / 2
	columns := []string{usage}
	for _, fields := range [][]decoding.MemoryField{decoding.MemoryFields[:half], decoding.MemoryFields[half:]} {
		var b strings.Builder
		for _, f := range fields {
			fmt.Fprintf(&b, "%-16s %12d %s\n", f.Label, *f.Get(&m), f.Unit)
		}
		columns = append(columns, card("meminfo", strings.TrimRight(b.String(), "\n")))
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, columns...)
}

// SocketTable renders a state summary and up to limit rows; limit <= 0
// renders every row.
func SocketTable(table string, recs []decoding.SocketRecord, limit int) string {
	counts := make(map[decoding.ConnectionState]int)
	for _, r := range recs {
		counts[r.State]++
	}
	var summary []string
	for _, st := range decoding.ConnectionStates() {
		if counts[st] > 0 {
			summary = append(summary, fmt.Sprintf("%-12s %5d", st, counts[st]))
		}
	}
	summary = append(summary, fmt.Sprintf("%-12s %5d", "total", len(recs)))
	summaryCard := card(table+" states", strings.Join(summary, "\n"))

	n := len(recs)
	if limit > 0 && limit < n {
		n = limit
	}
	var b strings.Builder
	fmt.Fprintf(&b, "%-4s %-28s %-28s %-12s %8s %8s %6s %10s %s\n",
		"sl", "local", "remote", "state", "tx", "rx", "uid", "inode", "timer")
	for _, r := range recs[:n] {
		fmt.Fprintf(&b, "%-4d %-28s %-28s %-12s %8d %8d %6d %10d %s\n",
			r.Slot,
			truncate(r.LocalEndpoint().String(), 28),
			truncate(r.RemoteEndpoint().String(), 28),
			r.State, r.TxQueue, r.RxQueue, r.UID, r.Inode, r.Timer)
	}
	if n < len(recs) {
		b.WriteString(subtleStyle.Render(fmt.Sprintf("... %d more", len(recs)-n)))
	}
	rows := card(table, strings.TrimRight(b.String(), "\n"))

	return lipgloss.JoinHorizontal(lipgloss.Top, summaryCard, rows)
}

// Snapshot renders every report of s under one header.
func Snapshot(s *collecting.Snapshot, socketLimit int) string {
	header := titleStyle.Render("procreports "+s.Hostname) + "  " +
		subtleStyle.Render(fmt.Sprintf("%s  kernel %s  %s",
			time.UnixMilli(s.Timestamp).Format("Mon Jan 2 15:04:05 MST 2006"), s.Kernel, s.UUID))

	blocks := []string{header, CounterReport(s.Stat), MemoryReport(s.Memory)}
	tables := make([]string, 0, len(s.Sockets))
	for t := range s.Sockets {
		tables = append(tables, t)
	}
	sort.Strings(tables)
	for _, t := range tables {
		blocks = append(blocks, SocketTable(t, s.Sockets[t], socketLimit))
	}
	return lipgloss.JoinVertical(lipgloss.Left, blocks...)
}

// busyPercent is the share of ticks spent outside idle and iowait.
func busyPercent(t decoding.Ticks) float64 {
	var sum uint64
	for _, v := range t {
		sum += v
	}
	idle := t.At(decoding.Idle) + t.At(decoding.IOWait)
	if sum == 0 || idle > sum {
		return 0
	}
	return pct(sum-idle, sum)
}

func total(values []uint64) uint64 {
	if len(values) == 0 {
		return 0
	}
	// the first interrupt and softirq entry is already the sum
	return values[0]
}

func bootTime(epoch uint64) string {
	if epoch == 0 {
		return "-"
	}
	return time.Unix(int64(epoch), 0).UTC().Format(time.RFC3339)
}

func gaugeBar(pct float64, width int) string {
	if pct < 0 {
		pct = 0
	}
	if pct > 100 {
		pct = 100
	}
	filled := int((pct / 100) * float64(width))
	if filled > width {
		filled = width
	}
	return fmt.Sprintf("[%s%s] %5.1f%%",
		strings.Repeat(gaugeFill, filled),
		strings.Repeat(gaugeEmpty, width-filled),
		pct)
}

func card(title, body string) string {
	return cardStyle.Render(labelStyle.Render(title) + "\n" + body)
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}

func pct(used, total uint64) float64 {
	if total == 0 {
		return 0
	}
	return float64(used) * 100 / float64(total)
}

func kibToGiB(kib uint64) float64 { return float64(kib) / (1024 * 1024) }

package decoding

import (
	"fmt"
	"strings"
)

// Column indexes into a CPU tick line, in kernel order.
const (
	User = iota
	Nice
	System
	Idle
	IOWait
	IRQ
	SoftIRQ
	Steal
	Guest
	GuestNice
)

// Ticks is one CPU line of the counter report, in USER_HZ units.
type Ticks []uint64

// At returns the value of column col, or 0 when the kernel did not print it.
func (t Ticks) At(col int) uint64 {
	if col < 0 || col >= len(t) {
		return 0
	}
	return t[col]
}

// CounterReport is one snapshot of /proc/stat.
type CounterReport struct {
	AggregateCPUTicks    Ticks
	PerCoreCPUTicks      []Ticks
	InterruptCounts      []uint64
	ContextSwitches      uint64
	BootTimeEpochSeconds uint64
	ProcessCount         uint64
	RunningProcessCount  uint64
	BlockedProcessCount  uint64
	SoftIRQCounts        []uint64
}

// NewCounterReport returns the empty report: no sequences, all scalars zero.
func NewCounterReport() CounterReport {
	return CounterReport{}
}

const coreLabelPrefix = "cpu"

// isCoreLabel reports whether label is "cpu" followed by a core number.
func isCoreLabel(label string) bool {
	rest, ok := strings.CutPrefix(label, coreLabelPrefix)
	if !ok || rest == "" {
		return false
	}
	for _, c := range rest {
		if c < '0' || c > '9' {
			return false
		}
	}
	return true
}

// statScalars maps whole label tokens to single-valued fields.
var statScalars = []struct {
	label string
	field func(*CounterReport) *uint64
}{
	{"ctxt", func(r *CounterReport) *uint64 { return &r.ContextSwitches }},
	{"btime", func(r *CounterReport) *uint64 { return &r.BootTimeEpochSeconds }},
	{"processes", func(r *CounterReport) *uint64 { return &r.ProcessCount }},
	{"procs_running", func(r *CounterReport) *uint64 { return &r.RunningProcessCount }},
	{"procs_blocked", func(r *CounterReport) *uint64 { return &r.BlockedProcessCount }},
}

// DecodeCounterReport decodes the text of /proc/stat.
//
// Line 0 is always the aggregate CPU line. Later lines are matched by their
// whole label token; unknown labels are ignored. Only malformed numbers or a
// scalar label without a value produce an error.
func DecodeCounterReport(text string) (CounterReport, error) {
	r := NewCounterReport()

	for i, line := range splitLines(text) {
		fields := strings.Fields(line)
		p := lineParser{op: OpStat, line: i}

		if i == 0 {
			if len(fields) == 0 {
				continue
			}
			ticks, err := p.decimals("cpu", fields[1:])
			if err != nil {
				return CounterReport{}, err
			}
			r.AggregateCPUTicks = ticks
			continue
		}
		if len(fields) == 0 {
			continue
		}

		label, values := fields[0], fields[1:]
		var err error
		switch {
		case isCoreLabel(label):
			var ticks []uint64
			ticks, err = p.decimals(label, values)
			r.PerCoreCPUTicks = append(r.PerCoreCPUTicks, ticks)
		case label == "intr":
			r.InterruptCounts, err = p.decimals(label, values)
		case label == "softirq":
			r.SoftIRQCounts, err = p.decimals(label, values)
		default:
			err = decodeStatScalar(p, &r, label, values)
		}
		if err != nil {
			return CounterReport{}, err
		}
	}

	return r, nil
}

func decodeStatScalar(p lineParser, r *CounterReport, label string, values []string) error {
	for _, s := range statScalars {
		if s.label != label {
			continue
		}
		if len(values) == 0 {
			return p.fail(label, "", ErrMissingColumn)
		}
		v, err := p.decimal(label, values[0], 64)
		if err != nil {
			return err
		}
		*s.field(r) = v
		return nil
	}
	return nil
}

// FormatCounterReport renders r in the layout of /proc/stat.
func FormatCounterReport(r CounterReport) string {
	var b strings.Builder
	writeList := func(label string, values []uint64) {
		b.WriteString(label)
		for _, v := range values {
			fmt.Fprintf(&b, " %d", v)
		}
		b.WriteByte('\n')
	}

	writeList("cpu ", r.AggregateCPUTicks)
	for i, core := range r.PerCoreCPUTicks {
		writeList(fmt.Sprintf("cpu%d", i), core)
	}
	writeList("intr", r.InterruptCounts)
	for _, s := range statScalars {
		fmt.Fprintf(&b, "%s %d\n", s.label, *s.field(&r))
	}
	writeList("softirq", r.SoftIRQCounts)
	return b.String()
}

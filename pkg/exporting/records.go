package exporting

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"unicode"

	"ProcReports/pkg/collecting"
	"ProcReports/pkg/decoding"
)

// Identity keys shared by every exported record.
const (
	KeyUUID      = "uuid"
	KeyTimestamp = "timestamp"
	KeyHostname  = "hostname"
	KeyKernel    = "kernel"
	KeyTable     = "table"
	KeyReport    = "report"
)

// ReportSnapshot tags records that summarise a whole snapshot.
const ReportSnapshot = "snapshot"

// TickColumnNames names the CPU tick columns in kernel order.
var TickColumnNames = []string{
	"User", "Nice", "System", "Idle", "IOWait", "IRQ", "SoftIRQ", "Steal", "Guest", "GuestNice",
}

// ColumnName turns a meminfo label into a record key suffix:
// "Active(anon)" -> "ActiveAnon", "HugePages_Total" -> "HugePagesTotal".
func ColumnName(label string) string {
	var b strings.Builder
	upper := false
	for _, r := range label {
		if r == '(' || r == ')' || r == '_' {
			upper = true
			continue
		}
		if upper {
			r = unicode.ToUpper(r)
			upper = false
		}
		b.WriteRune(r)
	}
	return b.String()
}

func addTicks(record Record, prefix string, ticks decoding.Ticks) {
	for i, v := range ticks {
		name := fmt.Sprintf("%s%d", prefix, i)
		if i < len(TickColumnNames) {
			name = prefix + TickColumnNames[i]
		}
		record[name] = v
	}
}

func jsonList(values []uint64) string {
	if values == nil {
		values = []uint64{}
	}
	data, _ := json.Marshal(values)
	return string(data)
}

// CounterReportRecord flattens a counter report. Per-core ticks become
// cpu<N><Column>; the interrupt and softirq vectors are stored as JSON arrays.
func CounterReportRecord(r decoding.CounterReport) Record {
	record := make(Record, 16+len(r.AggregateCPUTicks)*(1+len(r.PerCoreCPUTicks)))
	addTicks(record, "cpu", r.AggregateCPUTicks)
	for i, core := range r.PerCoreCPUTicks {
		addTicks(record, fmt.Sprintf("cpu%d", i), core)
	}
	record["cpuCores"] = len(r.PerCoreCPUTicks)
	record["intr"] = jsonList(r.InterruptCounts)
	record["ctxt"] = r.ContextSwitches
	record["btime"] = r.BootTimeEpochSeconds
	record["processes"] = r.ProcessCount
	record["procsRunning"] = r.RunningProcessCount
	record["procsBlocked"] = r.BlockedProcessCount
	record["softirq"] = jsonList(r.SoftIRQCounts)
	return record
}

// MemoryReportRecord flattens a memory report into mem<Label> keys.
func MemoryReportRecord(m decoding.MemoryReport) Record {
	record := make(Record, len(decoding.MemoryFields))
	for _, f := range decoding.MemoryFields {
		record["mem"+ColumnName(f.Label)] = *f.Get(&m)
	}
	return record
}

// SocketRecord flattens one socket table row.
func SocketRecord(table string, s decoding.SocketRecord) Record {
	return Record{
		KeyTable:        table,
		"slot":          s.Slot,
		"localAddress":  s.LocalAddress.String(),
		"localPort":     s.LocalPort,
		"remoteAddress": s.RemoteAddress.String(),
		"remotePort":    s.RemotePort,
		"state":         s.State.String(),
		"txQueue":       s.TxQueue,
		"rxQueue":       s.RxQueue,
		"timerActive":   s.Timer.Active(),
		"timerKind":     uint8(s.Timer.Kind),
		"timerExpiry":   s.Timer.Expiry,
		"uid":           s.UID,
		"inode":         s.Inode,
	}
}

// StateCounts counts sockets per connection state name.
func StateCounts(recs []decoding.SocketRecord) map[decoding.ConnectionState]int {
	counts := make(map[decoding.ConnectionState]int)
	for _, r := range recs {
		counts[r.State]++
	}
	return counts
}

func identity(s *collecting.Snapshot) Record {
	return Record{
		KeyUUID:      s.UUID,
		KeyTimestamp: s.Timestamp,
		KeyHostname:  s.Hostname,
		KeyKernel:    s.Kernel,
	}
}

// SnapshotRecord flattens a whole snapshot into one row: counter and memory
// reports plus per-table socket totals and per-state counts.
func SnapshotRecord(s *collecting.Snapshot) Record {
	record := identity(s)
	record[KeyReport] = ReportSnapshot
	for k, v := range CounterReportRecord(s.Stat) {
		record[k] = v
	}
	for k, v := range MemoryReportRecord(s.Memory) {
		record[k] = v
	}

	tables := make([]string, 0, len(s.Sockets))
	for t := range s.Sockets {
		tables = append(tables, t)
	}
	sort.Strings(tables)
	for _, t := range tables {
		recs := s.Sockets[t]
		record[t+"Total"] = len(recs)
		counts := StateCounts(recs)
		for _, st := range decoding.ConnectionStates() {
			record[t+stateKey(st)] = counts[st]
		}
	}
	return record
}

// stateKey turns "SYN_SENT" into "SynSent".
func stateKey(s decoding.ConnectionState) string {
	parts := strings.Split(strings.ToLower(s.String()), "_")
	for i, p := range parts {
		parts[i] = strings.ToUpper(p[:1]) + p[1:]
	}
	return strings.Join(parts, "")
}

// SocketRecords flattens every socket of a snapshot, tables in name order.
func SocketRecords(s *collecting.Snapshot) []Record {
	tables := make([]string, 0, len(s.Sockets))
	for t := range s.Sockets {
		tables = append(tables, t)
	}
	sort.Strings(tables)

	var out []Record
	for _, t := range tables {
		for _, rec := range s.Sockets[t] {
			r := SocketRecord(t, rec)
			for k, v := range identity(s) {
				r[k] = v
			}
			out = append(out, r)
		}
	}
	return out
}

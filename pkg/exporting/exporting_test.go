package exporting

import (
	"path/filepath"
	"testing"

	"github.com/google/uuid"

	"ProcReports/pkg/collecting"
	"ProcReports/pkg/decoding"
	"ProcReports/pkg/utils"
)

const testStat = `cpu  10 20 30 40 50 60 70 0 0 0
cpu0 5 10 15 20 25 30 35 0 0 0
cpu1 5 10 15 20 25 30 35 0 0 0
intr 100 1 2
ctxt 999
btime 1700000000
processes 321
procs_running 2
procs_blocked 1
softirq 50 5 5
`

const testMeminfo = `MemTotal:        8000000 kB
MemFree:         1000000 kB
Active(anon):     200000 kB
HugePages_Total:       4
`

const testTCP = `  sl  local_address rem_address   st tx_queue rx_queue tr tm->when retrnsmt   uid  timeout inode
   0: 0100007F:0277 00000000:0000 0A 00000000:00000000 00:00000000 00000000     0        0 1001 1 0000000000000000 100 0 0 10 0
   1: 0F02000A:9C4E 5B41EE2E:01BB 01 00000000:00000000 02:000001F4 00000000  1000        0 1002 1 0000000000000000 20 4 30 10 -1
`

func testSnapshot(t *testing.T) *collecting.Snapshot {
	t.Helper()
	stat, err := decoding.DecodeCounterReport(testStat)
	if err != nil {
		t.Fatalf("DecodeCounterReport: %v", err)
	}
	mem, err := decoding.DecodeMemoryReport(testMeminfo)
	if err != nil {
		t.Fatalf("DecodeMemoryReport: %v", err)
	}
	tcp, err := decoding.DecodeSocketTable(testTCP)
	if err != nil {
		t.Fatalf("DecodeSocketTable: %v", err)
	}
	return &collecting.Snapshot{
		UUID:      uuid.New().String(),
		Timestamp: 1700000000000,
		Hostname:  "testhost",
		Kernel:    "6.1.0",
		Stat:      stat,
		Memory:    mem,
		Sockets:   map[string][]decoding.SocketRecord{"tcp": tcp},
	}
}

func TestColumnName(t *testing.T) {
	tests := map[string]string{
		"MemTotal":        "MemTotal",
		"Active(anon)":    "ActiveAnon",
		"Inactive(file)":  "InactiveFile",
		"HugePages_Total": "HugePagesTotal",
		"Hugepagesize":    "Hugepagesize",
	}
	for in, want := range tests {
		if got := ColumnName(in); got != want {
			t.Errorf("ColumnName(%q) = %q; want %q", in, got, want)
		}
	}
}

func TestSnapshotRecord(t *testing.T) {
	s := testSnapshot(t)
	r := SnapshotRecord(s)

	checks := map[string]uint64{
		"cpuUser":           10,
		"cpuSoftIRQ":        70,
		"cpu1System":        15,
		"ctxt":              999,
		"btime":             1700000000,
		"processes":         321,
		"procsRunning":      2,
		"procsBlocked":      1,
		"memMemTotal":       8000000,
		"memActiveAnon":     200000,
		"memHugePagesTotal": 4,
		"memSwapTotal":      0,
		"tcpTotal":          2,
		"tcpListen":         1,
		"tcpEstablished":    1,
		"tcpSynSent":        0,
		"tcpCloseWait":      0,
	}
	for key, want := range checks {
		got, ok := utils.ToUint64Ok(r[key])
		if !ok {
			t.Errorf("%s = %#v; want %d", key, r[key], want)
			continue
		}
		if got != want {
			t.Errorf("%s = %d; want %d", key, got, want)
		}
	}
	if r["intr"] != "[100,1,2]" {
		t.Errorf("intr = %v; want [100,1,2]", r["intr"])
	}
	if r["softirq"] != "[50,5,5]" {
		t.Errorf("softirq = %v; want [50,5,5]", r["softirq"])
	}
	if r[KeyReport] != ReportSnapshot {
		t.Errorf("report = %v; want %s", r[KeyReport], ReportSnapshot)
	}
	if r[KeyHostname] != "testhost" || r[KeyKernel] != "6.1.0" {
		t.Errorf("identity = %v/%v; want testhost/6.1.0", r[KeyHostname], r[KeyKernel])
	}
}

func TestCounterReportRecordEmpty(t *testing.T) {
	r := CounterReportRecord(decoding.NewCounterReport())
	if r["intr"] != "[]" {
		t.Errorf("intr = %v; want []", r["intr"])
	}
	if r["cpuCores"] != 0 {
		t.Errorf("cpuCores = %v; want 0", r["cpuCores"])
	}
}

func TestSocketRecords(t *testing.T) {
	s := testSnapshot(t)
	recs := SocketRecords(s)
	if len(recs) != 2 {
		t.Fatalf("got %d records; want 2", len(recs))
	}

	listen := recs[0]
	if listen[KeyTable] != "tcp" {
		t.Errorf("table = %v; want tcp", listen[KeyTable])
	}
	if listen["localAddress"] != "127.0.0.1" || listen["localPort"] != uint16(631) {
		t.Errorf("local = %v:%v; want 127.0.0.1:631", listen["localAddress"], listen["localPort"])
	}
	if listen["state"] != "LISTEN" {
		t.Errorf("state = %v; want LISTEN", listen["state"])
	}
	if listen["timerActive"] != false {
		t.Errorf("timerActive = %v; want false", listen["timerActive"])
	}

	est := recs[1]
	if est["remoteAddress"] != "46.238.65.91" || est["remotePort"] != uint16(443) {
		t.Errorf("remote = %v:%v; want 46.238.65.91:443", est["remoteAddress"], est["remotePort"])
	}
	if est["timerKind"] != uint8(2) || est["timerExpiry"] != uint64(500) {
		t.Errorf("timer = %v:%v; want 2:500", est["timerKind"], est["timerExpiry"])
	}
	if est["uid"] != uint32(1000) || est["inode"] != uint64(1002) {
		t.Errorf("uid/inode = %v/%v; want 1000/1002", est["uid"], est["inode"])
	}
	if est[KeyUUID] != s.UUID {
		t.Errorf("uuid = %v; want %s", est[KeyUUID], s.UUID)
	}
}

func TestGetExtension(t *testing.T) {
	tests := map[string]string{
		"jsonl":   ".jsonl",
		"csv":     ".csv",
		"tsv":     ".tsv",
		"parquet": ".parquet",
		"sqlite":  ".db",
		"nope":    ".jsonl",
	}
	for format, want := range tests {
		if got := GetExtension(format); got != want {
			t.Errorf("GetExtension(%q) = %q; want %q", format, got, want)
		}
	}
	if _, ok := GetByPath("x/report.sqlite"); !ok {
		t.Error("GetByPath(.sqlite) not found")
	}
}

func TestColumnOrder(t *testing.T) {
	cols := columnOrder(Record{"b": 1, KeyTable: "tcp", "a": 2, KeyUUID: "u"})
	want := []string{KeyUUID, KeyTable, "a", "b"}
	if len(cols) != len(want) {
		t.Fatalf("columnOrder = %v; want %v", cols, want)
	}
	for i := range want {
		if cols[i] != want[i] {
			t.Fatalf("columnOrder = %v; want %v", cols, want)
		}
	}
}

func TestExporterRoundTrip(t *testing.T) {
	for _, format := range []string{"jsonl", "csv", "tsv", "parquet", "sqlite"} {
		t.Run(format, func(t *testing.T) {
			s := testSnapshot(t)
			path := filepath.Join(t.TempDir(), "nested", "sockets"+GetExtension(format))

			exp, err := NewExporter(path, format)
			if err != nil {
				t.Fatalf("NewExporter: %v", err)
			}
			if exp.Path() != path || exp.Format() != format {
				t.Errorf("exporter = %s/%s; want %s/%s", exp.Path(), exp.Format(), path, format)
			}
			if err := exp.WriteSockets(s); err != nil {
				t.Fatalf("WriteSockets: %v", err)
			}
			if err := exp.Close(); err != nil {
				t.Fatalf("Close: %v", err)
			}

			got, err := LoadRecords(path)
			if err != nil {
				t.Fatalf("LoadRecords: %v", err)
			}
			if len(got) != 2 {
				t.Fatalf("got %d records; want 2", len(got))
			}
			if got[1]["state"] != "ESTABLISHED" {
				t.Errorf("state = %v; want ESTABLISHED", got[1]["state"])
			}
			if port := utils.ToUint64(got[1]["remotePort"]); port != 443 {
				t.Errorf("remotePort = %d; want 443", port)
			}
			if inode := utils.ToUint64(got[0]["inode"]); inode != 1001 {
				t.Errorf("inode = %d; want 1001", inode)
			}
			if got[0][KeyUUID] != s.UUID {
				t.Errorf("uuid = %v; want %s", got[0][KeyUUID], s.UUID)
			}
		})
	}
}

func TestExporterSnapshot(t *testing.T) {
	s := testSnapshot(t)
	path := filepath.Join(t.TempDir(), "snapshot.jsonl")
	exp, err := NewExporter(path, "jsonl")
	if err != nil {
		t.Fatalf("NewExporter: %v", err)
	}
	if err := exp.WriteSnapshot(s); err != nil {
		t.Fatalf("WriteSnapshot: %v", err)
	}
	if err := exp.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	got, err := LoadRecords(path)
	if err != nil {
		t.Fatalf("LoadRecords: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("got %d records; want 1", len(got))
	}
	if v := utils.ToUint64(got[0]["memMemTotal"]); v != 8000000 {
		t.Errorf("memMemTotal = %d; want 8000000", v)
	}
	if got[0][KeyReport] != ReportSnapshot {
		t.Errorf("report = %v; want %s", got[0][KeyReport], ReportSnapshot)
	}
}

func TestNewExporterUnsupported(t *testing.T) {
	if _, err := NewExporter(filepath.Join(t.TempDir(), "x.xml"), "xml"); err == nil {
		t.Error("NewExporter(xml) succeeded; want error")
	}
}

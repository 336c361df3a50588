package decoding

import (
	"errors"
	"os"
	"reflect"
	"testing"
)

var meminfo1 = MemoryReport{
	MemTotal:          3521920,
	MemFree:           1878240,
	MemAvailable:      2275916,
	Buffers:           35428,
	Cached:            386132,
	SwapCached:        0,
	Active:            1229080,
	Inactive:          284000,
	ActiveAnon:        1094728,
	InactiveAnon:      17664,
	ActiveFile:        134352,
	InactiveFile:      266336,
	Unevictable:       3660,
	Mlocked:           3660,
	SwapTotal:         0,
	SwapFree:          0,
	Dirty:             12,
	Writeback:         0,
	AnonPages:         1095172,
	Mapped:            71384,
	Shmem:             18456,
	Slab:              50800,
	SReclaimable:      24684,
	SUnreclaim:        26116,
	KernelStack:       5584,
	PageTables:        6184,
	NFSUnstable:       0,
	Bounce:            0,
	WritebackTmp:      0,
	CommitLimit:       1760960,
	CommittedAS:       2064016,
	VmallocTotal:      34359738367,
	VmallocUsed:       0,
	VmallocChunk:      0,
	HardwareCorrupted: 0,
	AnonHugePages:     1013760,
	CmaTotal:          0,
	CmaFree:           0,
	HugePagesTotal:    0,
	HugePagesFree:     0,
	HugePagesRsvd:     0,
	HugePagesSurp:     0,
	Hugepagesize:      2048,
	DirectMap4k:       67520,
	DirectMap2M:       3602432,
}

var meminfo2 = MemoryReport{
	MemTotal:          32828552,
	MemFree:           12195628,
	MemAvailable:      13725248,
	Buffers:           185048,
	Cached:            1876616,
	SwapCached:        0,
	Active:            2338204,
	Inactive:          1120780,
	ActiveAnon:        1531372,
	InactiveAnon:      105576,
	ActiveFile:        806832,
	InactiveFile:      1015204,
	Unevictable:       132464,
	Mlocked:           0,
	SwapTotal:         4194280,
	SwapFree:          4194280,
	Dirty:             224,
	Writeback:         0,
	AnonPages:         1529596,
	Mapped:            16887024,
	Shmem:             0,
	KReclaimable:      155152,
	Slab:              354316,
	SReclaimable:      155152,
	SUnreclaim:        199164,
	KernelStack:       8912,
	PageTables:        47852,
	NFSUnstable:       0,
	Bounce:            0,
	WritebackTmp:      0,
	CommitLimit:       20608556,
	CommittedAS:       20066912,
	VmallocTotal:      34359738367,
	VmallocUsed:       0,
	VmallocChunk:      0,
	Percpu:            21632,
	HardwareCorrupted: 0,
	AnonHugePages:     0,
	CmaTotal:          0,
	CmaFree:           0,
	HugePagesTotal:    0,
	HugePagesFree:     0,
	HugePagesRsvd:     0,
	HugePagesSurp:     0,
	Hugepagesize:      2048,
	Hugetlb:           0,
	DirectMap4k:       215212,
	DirectMap2M:       8062976,
	DirectMap1G:       26214400,
}

func TestDecodeMemoryReportEmpty(t *testing.T) {
	m, err := DecodeMemoryReport("")
	if err != nil {
		t.Fatalf("DecodeMemoryReport(\"\") error = %v", err)
	}
	if m != NewMemoryReport() {
		t.Errorf("DecodeMemoryReport(\"\") = %+v; want zero report", m)
	}
}

func TestDecodeMemoryReportFixtures(t *testing.T) {
	tests := []struct {
		fixture string
		want    MemoryReport
	}{
		{"meminfo-1", meminfo1},
		{"meminfo-2", meminfo2},
	}
	for _, tt := range tests {
		t.Run(tt.fixture, func(t *testing.T) {
			got, err := DecodeMemoryReport(readFixture(t, tt.fixture))
			if err != nil {
				t.Fatal(err)
			}
			for _, f := range MemoryFields {
				if g, w := *f.Get(&got), *f.Get(&tt.want); g != w {
					t.Errorf("%s = %d; want %d", f.Label, g, w)
				}
			}
		})
	}
}

func TestDecodeMemoryReportReducedFixture(t *testing.T) {
	got, err := DecodeMemoryReport(readFixture(t, "meminfo-reduced"))
	if err != nil {
		t.Fatal(err)
	}
	want := MemoryReport{
		MemTotal: 1015840,
		MemFree:  117244,
		Buffers:  61992,
		Cached:   532108,
		Active:   493332,
		Inactive: 320012,
		Dirty:    44,
		Slab:     62876,
	}
	if got != want {
		t.Errorf("DecodeMemoryReport(meminfo-reduced) =\n%+v\nwant\n%+v", got, want)
	}
}

func TestDecodeMemoryReportSpecificLabelsNotShadowed(t *testing.T) {
	text := "Active(anon):  10 kB\n" +
		"Active:        30 kB\n" +
		"Active(file):  20 kB\n" +
		"SwapCached:     5 kB\n" +
		"Cached:         7 kB\n" +
		"WritebackTmp:   3 kB\n" +
		"Writeback:      4 kB\n"

	m, err := DecodeMemoryReport(text)
	if err != nil {
		t.Fatal(err)
	}
	checks := map[string][2]uint64{
		"Active":       {m.Active, 30},
		"Active(anon)": {m.ActiveAnon, 10},
		"Active(file)": {m.ActiveFile, 20},
		"SwapCached":   {m.SwapCached, 5},
		"Cached":       {m.Cached, 7},
		"WritebackTmp": {m.WritebackTmp, 3},
		"Writeback":    {m.Writeback, 4},
	}
	for label, c := range checks {
		if c[0] != c[1] {
			t.Errorf("%s = %d; want %d", label, c[0], c[1])
		}
	}
}

func TestDecodeMemoryReportMalformed(t *testing.T) {
	_, err := DecodeMemoryReport("MemTotal: 12x kB\n")
	if !errors.Is(err, ErrMalformedNumber) {
		t.Fatalf("error = %v; want %v", err, ErrMalformedNumber)
	}
	var de *DecodeError
	if !errors.As(err, &de) || de.Op != OpMeminfo || de.Column != "MemTotal" {
		t.Errorf("error = %#v; want meminfo DecodeError on MemTotal", err)
	}

	if _, err := DecodeMemoryReport("MemFree:\n"); !errors.Is(err, ErrMissingColumn) {
		t.Errorf("error = %v; want %v", err, ErrMissingColumn)
	}
}

func TestDecodeMemoryReportIgnoresUnknownLines(t *testing.T) {
	m, err := DecodeMemoryReport("Zswap: 12 kB\nnot a field line\nMemTotal: 8 kB\n")
	if err != nil {
		t.Fatal(err)
	}
	if m.MemTotal != 8 {
		t.Errorf("MemTotal = %d; want 8", m.MemTotal)
	}
}

func TestMemoryReportRoundTrip(t *testing.T) {
	var want MemoryReport
	for i, f := range MemoryFields {
		*f.Get(&want) = uint64(i+1) * 1000
	}

	got, err := DecodeMemoryReport(FormatMemoryReport(want))
	if err != nil {
		t.Fatal(err)
	}
	if got != want {
		t.Errorf("round trip =\n%+v\nwant\n%+v", got, want)
	}
}

func TestMemoryFieldsUnique(t *testing.T) {
	seen := make(map[string]bool)
	ptrs := make(map[*uint64]string)
	var m MemoryReport
	for _, f := range MemoryFields {
		if seen[f.Label] {
			t.Errorf("duplicate label %q", f.Label)
		}
		seen[f.Label] = true
		p := f.Get(&m)
		if other, ok := ptrs[p]; ok {
			t.Errorf("labels %q and %q share a field", other, f.Label)
		}
		ptrs[p] = f.Label
	}
	if n := reflect.TypeOf(m).NumField(); n != len(MemoryFields) {
		t.Errorf("MemoryReport has %d fields but %d labels", n, len(MemoryFields))
	}
}

func BenchmarkDecodeMemoryReport(b *testing.B) {
	data, err := os.ReadFile("/proc/meminfo")
	if err != nil {
		b.Skip("Skipping: /proc/meminfo not available")
	}
	text := string(data)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := DecodeMemoryReport(text); err != nil {
			b.Fatal(err)
		}
	}
}

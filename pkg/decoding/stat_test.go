package decoding

import (
	"errors"
	"os"
	"reflect"
	"testing"
)

func readFixture(t testing.TB, name string) string {
	t.Helper()
	data, err := os.ReadFile("testdata/" + name)
	if err != nil {
		t.Fatal(err)
	}
	return string(data)
}

func TestDecodeCounterReportEmpty(t *testing.T) {
	r, err := DecodeCounterReport("")
	if err != nil {
		t.Fatalf("DecodeCounterReport(\"\") error = %v", err)
	}
	if !reflect.DeepEqual(r, NewCounterReport()) {
		t.Errorf("DecodeCounterReport(\"\") = %+v; want zero report", r)
	}
}

func TestDecodeCounterReportFixture(t *testing.T) {
	r, err := DecodeCounterReport(readFixture(t, "stat-1"))
	if err != nil {
		t.Fatal(err)
	}

	want := CounterReport{
		AggregateCPUTicks: Ticks{2255, 34, 2290, 22625563, 6290, 127, 456, 0, 0, 0},
		PerCoreCPUTicks: []Ticks{
			{1132, 34, 1441, 11311718, 3675, 127, 438, 0, 0, 0},
			{1123, 0, 849, 11313845, 2614, 0, 18, 0, 0, 0},
		},
		InterruptCounts:      []uint64{114930548, 113199788, 3, 0, 5, 263, 0, 4, 0, 1, 0, 0, 0, 0, 0, 0},
		ContextSwitches:      1990473,
		BootTimeEpochSeconds: 1062191376,
		ProcessCount:         2915,
		RunningProcessCount:  1,
		BlockedProcessCount:  0,
		SoftIRQCounts:        []uint64{183433, 0, 21755, 12, 39, 1137, 231, 21459, 2263, 0},
	}
	if !reflect.DeepEqual(r, want) {
		t.Errorf("DecodeCounterReport(stat-1) =\n%+v\nwant\n%+v", r, want)
	}

	if got := r.AggregateCPUTicks.At(Idle); got != 22625563 {
		t.Errorf("AggregateCPUTicks.At(Idle) = %d; want 22625563", got)
	}
	if got := r.PerCoreCPUTicks[1].At(GuestNice + 1); got != 0 {
		t.Errorf("At(out of range) = %d; want 0", got)
	}
}

func TestDecodeCounterReportLabelsAreWholeTokens(t *testing.T) {
	text := "cpu 1 2 3 4\n" +
		"cpufreq 9 9 9\n" +
		"cpu0 1 1 1 1\n" +
		"intr_extra 7\n" +
		"processes_total 99\n" +
		"processes 42\n" +
		"procs_running 3\n"

	r, err := DecodeCounterReport(text)
	if err != nil {
		t.Fatal(err)
	}
	if len(r.PerCoreCPUTicks) != 1 {
		t.Errorf("PerCoreCPUTicks has %d entries; want 1", len(r.PerCoreCPUTicks))
	}
	if r.InterruptCounts != nil {
		t.Errorf("InterruptCounts = %v; want nil", r.InterruptCounts)
	}
	if r.ProcessCount != 42 {
		t.Errorf("ProcessCount = %d; want 42", r.ProcessCount)
	}
	if r.RunningProcessCount != 3 {
		t.Errorf("RunningProcessCount = %d; want 3", r.RunningProcessCount)
	}
}

func TestDecodeCounterReportFirstLineIsAggregate(t *testing.T) {
	r, err := DecodeCounterReport("cpu0 5 6 7\ncpu1 8 9 10\n")
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(r.AggregateCPUTicks, Ticks{5, 6, 7}) {
		t.Errorf("AggregateCPUTicks = %v; want [5 6 7]", r.AggregateCPUTicks)
	}
	if len(r.PerCoreCPUTicks) != 1 {
		t.Errorf("PerCoreCPUTicks has %d entries; want 1", len(r.PerCoreCPUTicks))
	}
}

func TestDecodeCounterReportMissingLinesDefault(t *testing.T) {
	r, err := DecodeCounterReport("cpu 1 2 3\nctxt 10\n")
	if err != nil {
		t.Fatal(err)
	}
	if r.ContextSwitches != 10 {
		t.Errorf("ContextSwitches = %d; want 10", r.ContextSwitches)
	}
	if r.BootTimeEpochSeconds != 0 || r.SoftIRQCounts != nil || r.PerCoreCPUTicks != nil {
		t.Errorf("absent fields not zero: %+v", r)
	}
}

func TestDecodeCounterReportMalformed(t *testing.T) {
	tests := []struct {
		name string
		text string
		want error
	}{
		{"aggregate", "cpu 1 x 3\n", ErrMalformedNumber},
		{"core", "cpu 1\ncpu0 1 -2\n", ErrMalformedNumber},
		{"scalar", "cpu 1\nbtime soon\n", ErrMalformedNumber},
		{"missing scalar", "cpu 1\nctxt\n", ErrMissingColumn},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := DecodeCounterReport(tt.text)
			if !errors.Is(err, tt.want) {
				t.Fatalf("error = %v; want %v", err, tt.want)
			}
			var de *DecodeError
			if !errors.As(err, &de) || de.Op != OpStat {
				t.Errorf("error %v is not a stat DecodeError", err)
			}
		})
	}
}

func TestCounterReportRoundTrip(t *testing.T) {
	want := CounterReport{
		AggregateCPUTicks: Ticks{10, 20, 30, 40, 50, 60, 70, 80, 90, 100},
		PerCoreCPUTicks: []Ticks{
			{1, 2, 3, 4, 5, 6, 7, 8, 9, 10},
			{11, 12, 13, 14, 15, 16, 17, 18, 19, 20},
			{21, 22, 23, 24, 25, 26, 27, 28, 29, 30},
		},
		InterruptCounts:      []uint64{900, 1, 2, 3},
		ContextSwitches:      123456789,
		BootTimeEpochSeconds: 1700000000,
		ProcessCount:         4242,
		RunningProcessCount:  2,
		BlockedProcessCount:  1,
		SoftIRQCounts:        []uint64{5, 4, 3, 2, 1},
	}

	got, err := DecodeCounterReport(FormatCounterReport(want))
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("round trip =\n%+v\nwant\n%+v", got, want)
	}
}

func BenchmarkDecodeCounterReport(b *testing.B) {
	data, err := os.ReadFile("/proc/stat")
	if err != nil {
		b.Skip("Skipping: /proc/stat not available")
	}
	text := string(data)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := DecodeCounterReport(text); err != nil {
			b.Fatal(err)
		}
	}
}

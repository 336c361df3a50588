package decoding

import (
	"fmt"
	"strings"
)

// MemoryReport is one snapshot of /proc/meminfo. Values are in the kernel's
// native unit (kB for sizes, plain counts for HugePages_*), unconverted.
type MemoryReport struct {
	MemTotal          uint64
	MemFree           uint64
	MemAvailable      uint64
	Buffers           uint64
	Cached            uint64
	SwapCached        uint64
	Active            uint64
	Inactive          uint64
	ActiveAnon        uint64
	InactiveAnon      uint64
	ActiveFile        uint64
	InactiveFile      uint64
	Unevictable       uint64
	Mlocked           uint64
	SwapTotal         uint64
	SwapFree          uint64
	Dirty             uint64
	Writeback         uint64
	AnonPages         uint64
	Mapped            uint64
	Shmem             uint64
	KReclaimable      uint64
	Slab              uint64
	SReclaimable      uint64
	SUnreclaim        uint64
	KernelStack       uint64
	PageTables        uint64
	NFSUnstable       uint64
	Bounce            uint64
	WritebackTmp      uint64
	CommitLimit       uint64
	CommittedAS       uint64
	VmallocTotal      uint64
	VmallocUsed       uint64
	VmallocChunk      uint64
	Percpu            uint64
	HardwareCorrupted uint64
	AnonHugePages     uint64
	ShmemHugePages    uint64
	ShmemPmdMapped    uint64
	FileHugePages     uint64
	FilePmdMapped     uint64
	CmaTotal          uint64
	CmaFree           uint64
	HugePagesTotal    uint64
	HugePagesFree     uint64
	HugePagesRsvd     uint64
	HugePagesSurp     uint64
	Hugepagesize      uint64
	Hugetlb           uint64
	DirectMap4k       uint64
	DirectMap2M       uint64
	DirectMap1G       uint64
}

// NewMemoryReport returns the all-zero report.
func NewMemoryReport() MemoryReport {
	return MemoryReport{}
}

// MemoryField binds a meminfo label to its MemoryReport field.
type MemoryField struct {
	Label string
	Unit  string // "kB" or empty for plain counts
	Get   func(*MemoryReport) *uint64
}

// MemoryFields lists every decoded label in kernel print order.
var MemoryFields = []MemoryField{
	{"MemTotal", "kB", func(m *MemoryReport) *uint64 { return &m.MemTotal }},
	{"MemFree", "kB", func(m *MemoryReport) *uint64 { return &m.MemFree }},
	{"MemAvailable", "kB", func(m *MemoryReport) *uint64 { return &m.MemAvailable }},
	{"Buffers", "kB", func(m *MemoryReport) *uint64 { return &m.Buffers }},
	{"Cached", "kB", func(m *MemoryReport) *uint64 { return &m.Cached }},
	{"SwapCached", "kB", func(m *MemoryReport) *uint64 { return &m.SwapCached }},
	{"Active", "kB", func(m *MemoryReport) *uint64 { return &m.Active }},
	{"Inactive", "kB", func(m *MemoryReport) *uint64 { return &m.Inactive }},
	{"Active(anon)", "kB", func(m *MemoryReport) *uint64 { return &m.ActiveAnon }},
	{"Inactive(anon)", "kB", func(m *MemoryReport) *uint64 { return &m.InactiveAnon }},
	{"Active(file)", "kB", func(m *MemoryReport) *uint64 { return &m.ActiveFile }},
	{"Inactive(file)", "kB", func(m *MemoryReport) *uint64 { return &m.InactiveFile }},
	{"Unevictable", "kB", func(m *MemoryReport) *uint64 { return &m.Unevictable }},
	{"Mlocked", "kB", func(m *MemoryReport) *uint64 { return &m.Mlocked }},
	{"SwapTotal", "kB", func(m *MemoryReport) *uint64 { return &m.SwapTotal }},
	{"SwapFree", "kB", func(m *MemoryReport) *uint64 { return &m.SwapFree }},
	{"Dirty", "kB", func(m *MemoryReport) *uint64 { return &m.Dirty }},
	{"Writeback", "kB", func(m *MemoryReport) *uint64 { return &m.Writeback }},
	{"AnonPages", "kB", func(m *MemoryReport) *uint64 { return &m.AnonPages }},
	{"Mapped", "kB", func(m *MemoryReport) *uint64 { return &m.Mapped }},
	{"Shmem", "kB", func(m *MemoryReport) *uint64 { return &m.Shmem }},
	{"KReclaimable", "kB", func(m *MemoryReport) *uint64 { return &m.KReclaimable }},
	{"Slab", "kB", func(m *MemoryReport) *uint64 { return &m.Slab }},
	{"SReclaimable", "kB", func(m *MemoryReport) *uint64 { return &m.SReclaimable }},
	{"SUnreclaim", "kB", func(m *MemoryReport) *uint64 { return &m.SUnreclaim }},
	{"KernelStack", "kB", func(m *MemoryReport) *uint64 { return &m.KernelStack }},
	{"PageTables", "kB", func(m *MemoryReport) *uint64 { return &m.PageTables }},
	{"NFS_Unstable", "kB", func(m *MemoryReport) *uint64 { return &m.NFSUnstable }},
	{"Bounce", "kB", func(m *MemoryReport) *uint64 { return &m.Bounce }},
	{"WritebackTmp", "kB", func(m *MemoryReport) *uint64 { return &m.WritebackTmp }},
	{"CommitLimit", "kB", func(m *MemoryReport) *uint64 { return &m.CommitLimit }},
	{"Committed_AS", "kB", func(m *MemoryReport) *uint64 { return &m.CommittedAS }},
	{"VmallocTotal", "kB", func(m *MemoryReport) *uint64 { return &m.VmallocTotal }},
	{"VmallocUsed", "kB", func(m *MemoryReport) *uint64 { return &m.VmallocUsed }},
	{"VmallocChunk", "kB", func(m *MemoryReport) *uint64 { return &m.VmallocChunk }},
	{"Percpu", "kB", func(m *MemoryReport) *uint64 { return &m.Percpu }},
	{"HardwareCorrupted", "kB", func(m *MemoryReport) *uint64 { return &m.HardwareCorrupted }},
	{"AnonHugePages", "kB", func(m *MemoryReport) *uint64 { return &m.AnonHugePages }},
	{"ShmemHugePages", "kB", func(m *MemoryReport) *uint64 { return &m.ShmemHugePages }},
	{"ShmemPmdMapped", "kB", func(m *MemoryReport) *uint64 { return &m.ShmemPmdMapped }},
	{"FileHugePages", "kB", func(m *MemoryReport) *uint64 { return &m.FileHugePages }},
	{"FilePmdMapped", "kB", func(m *MemoryReport) *uint64 { return &m.FilePmdMapped }},
	{"CmaTotal", "kB", func(m *MemoryReport) *uint64 { return &m.CmaTotal }},
	{"CmaFree", "kB", func(m *MemoryReport) *uint64 { return &m.CmaFree }},
	{"HugePages_Total", "", func(m *MemoryReport) *uint64 { return &m.HugePagesTotal }},
	{"HugePages_Free", "", func(m *MemoryReport) *uint64 { return &m.HugePagesFree }},
	{"HugePages_Rsvd", "", func(m *MemoryReport) *uint64 { return &m.HugePagesRsvd }},
	{"HugePages_Surp", "", func(m *MemoryReport) *uint64 { return &m.HugePagesSurp }},
	{"Hugepagesize", "kB", func(m *MemoryReport) *uint64 { return &m.Hugepagesize }},
	{"Hugetlb", "kB", func(m *MemoryReport) *uint64 { return &m.Hugetlb }},
	{"DirectMap4k", "kB", func(m *MemoryReport) *uint64 { return &m.DirectMap4k }},
	{"DirectMap2M", "kB", func(m *MemoryReport) *uint64 { return &m.DirectMap2M }},
	{"DirectMap1G", "kB", func(m *MemoryReport) *uint64 { return &m.DirectMap1G }},
}

var memoryFieldIndex = func() map[string]MemoryField {
	idx := make(map[string]MemoryField, len(MemoryFields))
	for _, f := range MemoryFields {
		idx[f.Label] = f
	}
	return idx
}()

// DecodeMemoryReport decodes the text of /proc/meminfo.
//
// Each line is matched on its whole label (the text before the first ':'),
// so "Active" never captures "Active(anon)". The trailing unit is ignored.
// Unknown labels are skipped and absent labels leave the field at zero.
func DecodeMemoryReport(text string) (MemoryReport, error) {
	m := NewMemoryReport()

	for i, line := range splitLines(text) {
		label, rest, found := strings.Cut(line, ":")
		if !found {
			continue
		}
		f, ok := memoryFieldIndex[strings.TrimSpace(label)]
		if !ok {
			continue
		}

		p := lineParser{op: OpMeminfo, line: i}
		values := strings.Fields(rest)
		if len(values) == 0 {
			return MemoryReport{}, p.fail(f.Label, "", ErrMissingColumn)
		}
		v, err := p.decimal(f.Label, values[0], 64)
		if err != nil {
			return MemoryReport{}, err
		}
		*f.Get(&m) = v
	}

	return m, nil
}

// FormatMemoryReport renders m in the layout of /proc/meminfo.
func FormatMemoryReport(m MemoryReport) string {
	var b strings.Builder
	for _, f := range MemoryFields {
		line := fmt.Sprintf("%-16s %8d", f.Label+":", *f.Get(&m))
		if f.Unit != "" {
			line += " " + f.Unit
		}
		b.WriteString(line)
		b.WriteByte('\n')
	}
	return b.String()
}

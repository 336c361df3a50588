package graphing

import (
	"sort"
	"strings"

	"ProcReports/pkg/exporting"
	"ProcReports/pkg/utils"
)

// Series holds one numeric snapshot column over time.
type Series struct {
	Name       string
	Timestamps []int64
	Values     []float64
	Deltas     []float64
}

var nonSeriesColumns = map[string]bool{
	exporting.KeyUUID:      true,
	exporting.KeyTimestamp: true,
	exporting.KeyHostname:  true,
	exporting.KeyKernel:    true,
	exporting.KeyTable:     true,
	exporting.KeyReport:    true,
	"btime":                true,
	"cpuCores":             true,
}

// buildSeries extracts numeric columns of snapshot records into time series
// with deltas between consecutive samples.
func buildSeries(records []exporting.Record) []*Series {
	cols := make(map[string]bool)
	for _, r := range records {
		for k, v := range r {
			if nonSeriesColumns[k] {
				continue
			}
			if _, ok := v.(string); ok {
				continue
			}
			if _, ok := utils.ToFloat64Ok(v); ok {
				cols[k] = true
			}
		}
	}

	seriesMap := make(map[string]*Series, len(cols))
	for col := range cols {
		seriesMap[col] = &Series{Name: col}
	}

	for _, r := range records {
		ts := int64(utils.ToFloat64(r[exporting.KeyTimestamp]))
		for col, s := range seriesMap {
			if v, ok := utils.ToFloat64Ok(r[col]); ok {
				s.Timestamps = append(s.Timestamps, ts)
				s.Values = append(s.Values, v)
			}
		}
	}

	result := make([]*Series, 0, len(seriesMap))
	for _, s := range seriesMap {
		for i := 1; i < len(s.Values); i++ {
			s.Deltas = append(s.Deltas, s.Values[i]-s.Values[i-1])
		}
		result = append(result, s)
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].Name < result[j].Name
	})
	return result
}

// Chart categories in page order.
const (
	CategoryCPU       = "CPU"
	CategoryProcesses = "Processes"
	CategoryMemory    = "Memory"
	CategorySockets   = "Sockets"
)

var categoryOrder = []string{CategoryCPU, CategoryProcesses, CategoryMemory, CategorySockets}

func categorize(name string) string {
	switch {
	case strings.HasPrefix(name, "cpu"):
		return CategoryCPU
	case strings.HasPrefix(name, "mem"):
		return CategoryMemory
	case strings.HasPrefix(name, "tcp"), strings.HasPrefix(name, "udp"):
		return CategorySockets
	default:
		return CategoryProcesses
	}
}

// isConstant reports whether every sample of s has the same value.
func isConstant(s *Series) bool {
	for _, d := range s.Deltas {
		if d != 0 {
			return false
		}
	}
	return true
}

func formatName(name string) string {
	var result strings.Builder
	for i, r := range name {
		if i > 0 && r >= 'A' && r <= 'Z' {
			result.WriteRune(' ')
		}
		result.WriteRune(r)
	}
	return result.String()
}

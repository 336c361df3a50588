// Package graphing renders decoded reports as interactive HTML charts.
package graphing

import (
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/go-echarts/go-echarts/v2/components"

	"ProcReports/pkg/collecting"
	"ProcReports/pkg/exporting"
	"ProcReports/pkg/utils"
)

// RenderSnapshot writes a single-page chart view of s to w: stacked CPU
// ticks per line, the main memory values and one state pie per socket table.
func RenderSnapshot(w io.Writer, s *collecting.Snapshot) error {
	page := components.NewPage()
	page.PageTitle = fmt.Sprintf("Kernel Reports - %s", s.UUID)

	page.AddCharts(createTickBar(s.Stat), createMemoryBar(s.Memory))

	tables := make([]string, 0, len(s.Sockets))
	for t := range s.Sockets {
		tables = append(tables, t)
	}
	sort.Strings(tables)
	for _, t := range tables {
		counts := make(map[string]int)
		for st, n := range exporting.StateCounts(s.Sockets[t]) {
			counts[st.String()] = n
		}
		page.AddCharts(createStatePie(t, counts))
	}

	return renderPage(w, page, snapshotHeader(s))
}

func renderPage(w io.Writer, page *components.Page, info HeaderInfo) error {
	var buf strings.Builder
	if err := page.Render(&buf); err != nil {
		return fmt.Errorf("failed to render charts: %w", err)
	}
	html, err := injectHeader(buf.String(), info)
	if err != nil {
		return err
	}
	_, err = io.WriteString(w, html)
	return err
}

// Generator turns exported snapshot records into time series charts.
type Generator struct {
	inputPath  string
	outputPath string
	records    []exporting.Record
}

// NewGenerator creates a new graph generator.
func NewGenerator(inputPath, outputPath string) (*Generator, error) {
	if inputPath == "" {
		return nil, fmt.Errorf("input path is required")
	}
	if outputPath == "" {
		return nil, fmt.Errorf("output path is required")
	}
	return &Generator{inputPath: inputPath, outputPath: outputPath}, nil
}

// Generate loads the input file and writes the HTML page. Only snapshot
// summary records are charted; socket rows are ignored.
func (g *Generator) Generate() error {
	records, err := exporting.LoadRecords(g.inputPath)
	if err != nil {
		return fmt.Errorf("failed to load records: %w", err)
	}

	for _, r := range records {
		if r[exporting.KeyReport] == exporting.ReportSnapshot {
			g.records = append(g.records, r)
		}
	}
	if len(g.records) < 2 {
		return fmt.Errorf("need at least 2 snapshot records to generate graphs, got %d", len(g.records))
	}

	sort.SliceStable(g.records, func(i, j int) bool {
		return utils.ToFloat64(g.records[i][exporting.KeyTimestamp]) < utils.ToFloat64(g.records[j][exporting.KeyTimestamp])
	})

	if dir := filepath.Dir(g.outputPath); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create output directory: %w", err)
		}
	}

	page := components.NewPage()
	page.PageTitle = fmt.Sprintf("Kernel Reports - %s", g.inputPath)

	byCategory := make(map[string][]*Series)
	for _, s := range buildSeries(g.records) {
		if isConstant(s) {
			continue
		}
		c := categorize(s.Name)
		byCategory[c] = append(byCategory[c], s)
	}

	chartsAdded := 0
	for _, c := range categoryOrder {
		for _, s := range byCategory[c] {
			page.AddCharts(createLineChart(s, c, false), createLineChart(s, c, true))
			chartsAdded += 2
		}
	}
	if chartsAdded == 0 {
		return fmt.Errorf("no charts generated - every column was constant")
	}

	f, err := os.Create(g.outputPath)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer f.Close()

	if err := renderPage(f, page, recordHeader(g.records)); err != nil {
		return err
	}
	log.Printf("Generated %d charts in: %s", chartsAdded, g.outputPath)
	return nil
}

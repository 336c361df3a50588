package graphing

import (
	"bytes"
	"fmt"
	"strings"

	"ProcReports/pkg/collecting"
	"ProcReports/pkg/exporting"
	"ProcReports/pkg/utils"
)

// HeaderInfo is the identity block printed above the charts.
type HeaderInfo struct {
	UUID        string
	Hostname    string
	Kernel      string
	Timestamp   int64
	BootTime    uint64
	Cores       int
	MemTotalKiB uint64
	Samples     int
}

func snapshotHeader(s *collecting.Snapshot) HeaderInfo {
	return HeaderInfo{
		UUID:        s.UUID,
		Hostname:    s.Hostname,
		Kernel:      s.Kernel,
		Timestamp:   s.Timestamp,
		BootTime:    s.Stat.BootTimeEpochSeconds,
		Cores:       len(s.Stat.PerCoreCPUTicks),
		MemTotalKiB: s.Memory.MemTotal,
		Samples:     1,
	}
}

// recordHeader describes the latest of a run of snapshot records.
func recordHeader(records []exporting.Record) HeaderInfo {
	last := records[len(records)-1]
	str := func(k string) string {
		s, _ := last[k].(string)
		return s
	}
	return HeaderInfo{
		UUID:        str(exporting.KeyUUID),
		Hostname:    str(exporting.KeyHostname),
		Kernel:      str(exporting.KeyKernel),
		Timestamp:   int64(utils.ToFloat64(last[exporting.KeyTimestamp])),
		BootTime:    utils.ToUint64(last["btime"]),
		Cores:       int(utils.ToUint64(last["cpuCores"])),
		MemTotalKiB: utils.ToUint64(last["memMemTotal"]),
		Samples:     len(records),
	}
}

// injectHeader places the header after <body> and the styles before </head>.
func injectHeader(html string, info HeaderInfo) (string, error) {
	var header, styles bytes.Buffer
	if err := templates.ExecuteTemplate(&header, "header", info); err != nil {
		return "", fmt.Errorf("failed to execute header template: %w", err)
	}
	if err := templates.ExecuteTemplate(&styles, "styles", nil); err != nil {
		return "", fmt.Errorf("failed to execute styles template: %w", err)
	}
	html = strings.Replace(html, "<body>", "<body>\n"+header.String(), 1)
	html = strings.Replace(html, "</head>", styles.String()+"</head>", 1)
	return html, nil
}

package graphing

import (
	"html/template"
	"time"
)

var templates = template.Must(template.New("").Funcs(templateFuncs).Parse(`
{{define "styles"}}
<style>
* {
    font-family: -apple-system, BlinkMacSystemFont, "Segoe UI", Roboto, Arial, sans-serif;
}
body {
    max-width: 1400px;
    margin: 0 auto;
    padding: 20px;
}
.report-header {
    border-bottom: 2px solid #333;
    padding-bottom: 10px;
    margin-bottom: 15px;
}
.report-header h1 {
    margin: 0;
    font-size: 18px;
}
.snapshot-id {
    font-size: 11px;
    color: #666;
    font-family: monospace;
}
.info-table {
    width: 100%;
    border-collapse: collapse;
    font-size: 12px;
    background: #f5f5f5;
    border: 1px solid #ddd;
}
.info-table td {
    padding: 3px 8px;
    border-bottom: 1px solid #eee;
}
.info-table td:first-child {
    width: 150px;
    color: #666;
}
.info-table td:last-child {
    font-family: monospace;
}
</style>
{{end}}

{{define "header"}}
<div class="report-header">
    <h1>Kernel Reports: {{.Hostname}}</h1>
    <div class="snapshot-id">Snapshot: {{.UUID}}</div>
</div>
<table class="info-table">
    <tr><td>Kernel</td><td>{{.Kernel}}</td></tr>
    <tr><td>Captured</td><td>{{.Timestamp | formatMillis}}</td></tr>
    <tr><td>Boot Time</td><td>{{.BootTime | formatSeconds}}</td></tr>
    <tr><td>Cores</td><td>{{.Cores}}</td></tr>
    <tr><td>Memory Total</td><td>{{.MemTotalKiB}} kB</td></tr>
    <tr><td>Samples</td><td>{{.Samples}}</td></tr>
</table>
{{end}}
`))

var templateFuncs = template.FuncMap{
	"formatMillis":  formatMillis,
	"formatSeconds": formatSeconds,
}

func formatMillis(ms int64) string {
	if ms == 0 {
		return "-"
	}
	return time.UnixMilli(ms).UTC().Format(time.RFC3339)
}

func formatSeconds(s uint64) string {
	if s == 0 {
		return "-"
	}
	return time.Unix(int64(s), 0).UTC().Format(time.RFC3339)
}

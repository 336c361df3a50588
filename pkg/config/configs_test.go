package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestNewDefaultsValidate(t *testing.T) {
	c := New()
	if err := c.Validate(); err != nil {
		t.Fatalf("Validate() on defaults = %v", err)
	}
	if c.UUID == "" {
		t.Error("UUID is empty")
	}
	if len(c.Tables) != 4 {
		t.Errorf("Tables = %v; want 4 defaults", c.Tables)
	}
}

func TestValidateRejects(t *testing.T) {
	file := filepath.Join(t.TempDir(), "plain")
	if err := os.WriteFile(file, nil, 0644); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"acquire", func(c *Config) { c.Acquire = "ssh" }},
		{"command", func(c *Config) { c.Acquire = "command"; c.Command = "" }},
		{"format", func(c *Config) { c.OutputFormat = "xml" }},
		{"table", func(c *Config) { c.Tables = []string{"tcp", "raw"} }},
		{"output dir", func(c *Config) { c.OutputDir = file }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := New()
			tt.mutate(c)
			if err := c.Validate(); err == nil {
				t.Error("Validate() = nil; want error")
			}
		})
	}
}

func TestApplyDefaults(t *testing.T) {
	c := &Config{}
	c.ApplyDefaults()
	if c.ProcRoot != DefaultProcRoot || c.Acquire != DefaultAcquire || c.OutputFormat != DefaultFormat {
		t.Errorf("ApplyDefaults() = %+v", c)
	}
	if c.UUID == "" || len(c.Tables) == 0 {
		t.Errorf("ApplyDefaults() left UUID or Tables empty: %+v", c)
	}
}

func TestGeneratePaths(t *testing.T) {
	c := New()
	c.OutputDir = "out"
	c.OutputName = "snap.parquet"
	if got := c.GenerateOutputPath("snapshot", ".jsonl"); got != filepath.Join("out", "snap.parquet") {
		t.Errorf("GenerateOutputPath = %s", got)
	}
	if got := c.GenerateGraphPath("data/snap.parquet"); got != filepath.Join("data", "snap_graphs.html") {
		t.Errorf("GenerateGraphPath = %s", got)
	}
}

func TestTablePath(t *testing.T) {
	if p, ok := TablePath(TableUDP6); !ok || p != ProcNetUDP6 {
		t.Errorf("TablePath(udp6) = %s, %v", p, ok)
	}
	if _, ok := TablePath("raw"); ok {
		t.Error("TablePath(raw) ok; want false")
	}
}

// Package config provides configuration management for report collection.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Config holds all collection and output options.
type Config struct {
	// Acquisition settings
	ProcRoot   string
	Acquire    string
	Command    string
	Concurrent bool
	Tables     []string

	// Output settings
	OutputDir    string
	OutputFormat string
	OutputName   string

	// Graph settings
	GraphOutput string

	// System identification
	UUID     string
	Hostname string
}

// Default configuration values.
const (
	DefaultProcRoot  = "/"
	DefaultAcquire   = "file"
	DefaultCommand   = "cat"
	DefaultOutputDir = "."
	DefaultFormat    = "jsonl"
)

// DefaultTables returns the socket tables collected when none are named.
func DefaultTables() []string {
	return []string{TableTCP, TableUDP, TableTCP6, TableUDP6}
}

// New creates a Config with default values.
func New() *Config {
	hostname, _ := os.Hostname()

	return &Config{
		ProcRoot:     DefaultProcRoot,
		Acquire:      DefaultAcquire,
		Command:      DefaultCommand,
		Tables:       DefaultTables(),
		OutputDir:    DefaultOutputDir,
		OutputFormat: DefaultFormat,
		Hostname:     hostname,
		UUID:         uuid.New().String(),
	}
}

// Validate checks the configuration for errors.
func (c *Config) Validate() error {
	if !contains(ValidAcquireModes(), c.Acquire) {
		return fmt.Errorf("invalid acquire mode: %s (valid: %s)", c.Acquire, strings.Join(ValidAcquireModes(), ", "))
	}

	if c.Acquire == "command" && c.Command == "" {
		return fmt.Errorf("acquire mode command needs a command")
	}

	if !contains(ValidOutputFormats(), c.OutputFormat) {
		return fmt.Errorf("invalid output format: %s (valid: %s)", c.OutputFormat, strings.Join(ValidOutputFormats(), ", "))
	}

	for _, t := range c.Tables {
		if _, ok := TablePath(t); !ok {
			return fmt.Errorf("unknown socket table: %s (valid: %s)", t, strings.Join(DefaultTables(), ", "))
		}
	}

	if c.OutputDir != "" {
		if info, err := os.Stat(c.OutputDir); err != nil {
			if !os.IsNotExist(err) {
				return fmt.Errorf("cannot access output directory: %w", err)
			}
		} else if !info.IsDir() {
			return fmt.Errorf("output path is not a directory: %s", c.OutputDir)
		}
	}

	return nil
}

// ValidAcquireModes returns the supported acquisition modes.
func ValidAcquireModes() []string {
	return []string{"file", "command"}
}

// ValidOutputFormats returns the list of supported output formats.
func ValidOutputFormats() []string {
	return []string{"jsonl", "csv", "tsv", "parquet", "sqlite"}
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

// ApplyDefaults fills in any missing values with defaults.
func (c *Config) ApplyDefaults() {
	if c.ProcRoot == "" {
		c.ProcRoot = DefaultProcRoot
	}
	if c.Acquire == "" {
		c.Acquire = DefaultAcquire
	}
	if c.Command == "" {
		c.Command = DefaultCommand
	}
	if len(c.Tables) == 0 {
		c.Tables = DefaultTables()
	}
	if c.OutputDir == "" {
		c.OutputDir = DefaultOutputDir
	}
	if c.OutputFormat == "" {
		c.OutputFormat = DefaultFormat
	}
	if c.Hostname == "" {
		c.Hostname, _ = os.Hostname()
	}
	if c.UUID == "" {
		c.UUID = uuid.New().String()
	}
}

// GenerateOutputPath creates an auto-generated output path.
func (c *Config) GenerateOutputPath(prefix, ext string) string {
	if c.OutputName != "" {
		return filepath.Join(c.OutputDir, c.OutputName)
	}
	timestamp := time.Now().Format("20060102-150405")
	return filepath.Join(c.OutputDir, fmt.Sprintf("%s-%s%s", prefix, timestamp, ext))
}

// GenerateGraphPath creates an auto-generated graph output path.
func (c *Config) GenerateGraphPath(inputFile string) string {
	if c.GraphOutput != "" {
		return c.GraphOutput
	}

	dir := filepath.Dir(inputFile)
	base := filepath.Base(inputFile)
	ext := filepath.Ext(base)
	name := base[:len(base)-len(ext)]

	return filepath.Join(dir, name+"_graphs.html")
}

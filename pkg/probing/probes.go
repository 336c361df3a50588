// Package probing acquires raw report text from files or external commands.
package probing

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"golang.org/x/sys/unix"
)

// GetTimestamp returns the current Unix time in milliseconds.
func GetTimestamp() int64 {
	return time.Now().UnixMilli()
}

// Source produces the full text of a named kernel report.
type Source interface {
	Read(ctx context.Context, path string) (string, error)
}

// AcquisitionError describes a report that could not be obtained.
type AcquisitionError struct {
	Path     string
	ExitCode int    // -1 when the command did not exit normally
	Signal   string // terminating signal name, if any
	Stderr   string
	Err      error
}

func (e *AcquisitionError) Error() string {
	switch {
	case e.Signal != "":
		return fmt.Sprintf("acquire %s: killed by %s: %s", e.Path, e.Signal, e.Stderr)
	case e.ExitCode > 0:
		return fmt.Sprintf("acquire %s: exit status %d: %s", e.Path, e.ExitCode, e.Stderr)
	default:
		return fmt.Sprintf("acquire %s: %v", e.Path, e.Err)
	}
}

func (e *AcquisitionError) Unwrap() error {
	return e.Err
}

// FileSource reads reports from the filesystem, relative to Root.
type FileSource struct {
	Root string
}

// NewFileSource creates a FileSource rooted at root ("/" on a live system).
func NewFileSource(root string) *FileSource {
	if root == "" {
		root = "/"
	}
	return &FileSource{Root: root}
}

func (s *FileSource) Read(ctx context.Context, path string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", &AcquisitionError{Path: path, Err: err}
	}
	data, err := os.ReadFile(filepath.Join(s.Root, path))
	if err != nil {
		return "", &AcquisitionError{Path: path, Err: err}
	}
	return string(data), nil
}

// CommandSource runs Name with Args followed by the report path and takes
// its standard output as the report text.
type CommandSource struct {
	Name string
	Args []string
	Root string
}

// NewCommandSource creates a CommandSource; an empty name means "cat".
func NewCommandSource(name string, args ...string) *CommandSource {
	if name == "" {
		name = "cat"
	}
	return &CommandSource{Name: name, Args: args}
}

func (s *CommandSource) Read(ctx context.Context, path string) (string, error) {
	target := path
	if s.Root != "" {
		target = filepath.Join(s.Root, path)
	}

	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, s.Name, append(append([]string(nil), s.Args...), target)...)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		acqErr := &AcquisitionError{
			Path:     path,
			ExitCode: -1,
			Stderr:   strings.TrimSpace(stderr.String()),
			Err:      err,
		}
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			acqErr.ExitCode = exitErr.ExitCode()
			if ws, ok := exitErr.Sys().(syscall.WaitStatus); ok && ws.Signaled() {
				acqErr.Signal = unix.SignalName(ws.Signal())
			}
		}
		return "", acqErr
	}
	return stdout.String(), nil
}

// Exists checks if a path exists
func Exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

package probing

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"testing"
)

func writeReport(t *testing.T, root, path, content string) {
	t.Helper()
	full := filepath.Join(root, path)
	if err := os.MkdirAll(filepath.Dir(full), 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(full, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
}

func TestFileSourceRead(t *testing.T) {
	root := t.TempDir()
	writeReport(t, root, "/proc/stat", "cpu  1 2 3\n")

	got, err := NewFileSource(root).Read(context.Background(), "/proc/stat")
	if err != nil {
		t.Fatal(err)
	}
	if got != "cpu  1 2 3\n" {
		t.Errorf("Read = %q; want %q", got, "cpu  1 2 3\n")
	}
}

func TestFileSourceMissing(t *testing.T) {
	_, err := NewFileSource(t.TempDir()).Read(context.Background(), "/proc/net/tcp")

	var acqErr *AcquisitionError
	if !errors.As(err, &acqErr) {
		t.Fatalf("error = %v; want *AcquisitionError", err)
	}
	if acqErr.Path != "/proc/net/tcp" {
		t.Errorf("Path = %s; want /proc/net/tcp", acqErr.Path)
	}
	if !errors.Is(err, fs.ErrNotExist) {
		t.Errorf("error %v does not wrap fs.ErrNotExist", err)
	}
}

func TestFileSourceCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := NewFileSource("/").Read(ctx, "/proc/stat"); !errors.Is(err, context.Canceled) {
		t.Errorf("error = %v; want context.Canceled", err)
	}
}

func TestCommandSourceRead(t *testing.T) {
	if !Exists("/bin/cat") && !Exists("/usr/bin/cat") {
		t.Skip("Skipping: cat not available")
	}
	root := t.TempDir()
	writeReport(t, root, "/proc/meminfo", "MemTotal: 1 kB\n")

	src := NewCommandSource("")
	src.Root = root
	got, err := src.Read(context.Background(), "/proc/meminfo")
	if err != nil {
		t.Fatal(err)
	}
	if got != "MemTotal: 1 kB\n" {
		t.Errorf("Read = %q; want %q", got, "MemTotal: 1 kB\n")
	}
}

func TestCommandSourceExitStatus(t *testing.T) {
	if !Exists("/bin/cat") && !Exists("/usr/bin/cat") {
		t.Skip("Skipping: cat not available")
	}
	src := NewCommandSource("cat")
	src.Root = t.TempDir()

	_, err := src.Read(context.Background(), "/proc/missing")
	var acqErr *AcquisitionError
	if !errors.As(err, &acqErr) {
		t.Fatalf("error = %v; want *AcquisitionError", err)
	}
	if acqErr.ExitCode <= 0 {
		t.Errorf("ExitCode = %d; want > 0", acqErr.ExitCode)
	}
	if acqErr.Stderr == "" {
		t.Error("Stderr is empty; want cat's diagnostic")
	}
}

func TestCommandSourceSignal(t *testing.T) {
	if !Exists("/bin/sh") {
		t.Skip("Skipping: sh not available")
	}
	src := NewCommandSource("/bin/sh", "-c", "kill -9 $$", "sh")

	_, err := src.Read(context.Background(), "/proc/stat")
	var acqErr *AcquisitionError
	if !errors.As(err, &acqErr) {
		t.Fatalf("error = %v; want *AcquisitionError", err)
	}
	if acqErr.Signal != "SIGKILL" {
		t.Errorf("Signal = %q; want SIGKILL", acqErr.Signal)
	}
}

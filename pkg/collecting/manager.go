package collecting

import (
	"context"
	"fmt"
	"log"
	"sync"

	"ProcReports/pkg/config"
	"ProcReports/pkg/decoding"
	"ProcReports/pkg/probing"

	"golang.org/x/sys/unix"
)

// Snapshot is one decoded capture of every configured report.
type Snapshot struct {
	UUID      string
	Timestamp int64
	Hostname  string
	Kernel    string
	Stat      decoding.CounterReport
	Memory    decoding.MemoryReport
	Sockets   map[string][]decoding.SocketRecord
}

type job struct {
	name    string
	collect func(ctx context.Context, s *Snapshot, mu *sync.Mutex) error
}

// Manager collects Snapshots, sequentially or one goroutine per report.
type Manager struct {
	cfg        *config.Config
	collector  *Collector
	jobs       []job
	concurrent bool
}

// NewManager creates a Manager reading from the Source selected by cfg.
func NewManager(cfg *config.Config) *Manager {
	return NewManagerWithSource(cfg, NewSource(cfg))
}

// NewManagerWithSource creates a Manager reading from source.
func NewManagerWithSource(cfg *config.Config, source probing.Source) *Manager {
	m := &Manager{
		cfg:        cfg,
		collector:  NewCollector(source),
		concurrent: cfg.Concurrent,
	}

	m.jobs = append(m.jobs,
		job{name: "stat", collect: func(ctx context.Context, s *Snapshot, _ *sync.Mutex) error {
			r, err := m.collector.Stat(ctx)
			s.Stat = r
			return err
		}},
		job{name: "meminfo", collect: func(ctx context.Context, s *Snapshot, _ *sync.Mutex) error {
			r, err := m.collector.MemInfo(ctx)
			s.Memory = r
			return err
		}},
	)

	for _, table := range cfg.Tables {
		table := table
		m.jobs = append(m.jobs, job{name: table, collect: func(ctx context.Context, s *Snapshot, mu *sync.Mutex) error {
			recs, err := m.collector.SocketTable(ctx, table)
			if err != nil {
				return err
			}
			mu.Lock()
			s.Sockets[table] = recs
			mu.Unlock()
			return nil
		}})
	}

	mode := "sequential"
	if m.concurrent {
		mode = "concurrent"
	}
	log.Printf("Initialized %d report collectors (%s)", len(m.jobs), mode)
	return m
}

// Collector returns the underlying single-report Collector.
func (m *Manager) Collector() *Collector {
	return m.collector
}

// ReportNames lists the reports collected by the Manager.
func (m *Manager) ReportNames() []string {
	names := make([]string, len(m.jobs))
	for i, j := range m.jobs {
		names[i] = j.name
	}
	return names
}

// Collect captures a Snapshot. The first failing report aborts the snapshot.
func (m *Manager) Collect(ctx context.Context) (*Snapshot, error) {
	s := &Snapshot{
		UUID:      m.cfg.UUID,
		Timestamp: probing.GetTimestamp(),
		Hostname:  m.cfg.Hostname,
		Kernel:    KernelRelease(),
		Sockets:   make(map[string][]decoding.SocketRecord, len(m.cfg.Tables)),
	}

	var err error
	if m.concurrent {
		err = m.collectConcurrent(ctx, s)
	} else {
		err = m.collectSequential(ctx, s)
	}
	if err != nil {
		return nil, err
	}
	return s, nil
}

func (m *Manager) collectSequential(ctx context.Context, s *Snapshot) error {
	var mu sync.Mutex
	for _, j := range m.jobs {
		if err := j.collect(ctx, s, &mu); err != nil {
			return fmt.Errorf("%s: %w", j.name, err)
		}
	}
	return nil
}

func (m *Manager) collectConcurrent(ctx context.Context, s *Snapshot) error {
	var (
		wg   sync.WaitGroup
		mu   sync.Mutex
		errs = make([]error, len(m.jobs))
	)
	wg.Add(len(m.jobs))
	for i, j := range m.jobs {
		go func(i int, j job) {
			defer wg.Done()
			if err := j.collect(ctx, s, &mu); err != nil {
				errs[i] = fmt.Errorf("%s: %w", j.name, err)
			}
		}(i, j)
	}
	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return err
		}
	}
	return nil
}

// KernelRelease returns the running kernel's release string, or "" if unknown.
func KernelRelease() string {
	var uname unix.Utsname
	if err := unix.Uname(&uname); err != nil {
		return ""
	}
	return unix.ByteSliceToString(uname.Release[:])
}

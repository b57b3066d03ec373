package storage

import (
	"fmt"
	"sync"
	"time"

	"github.com/cristianoliveira/myterm/internal/colors"
	"github.com/cristianoliveira/myterm/internal/storage/sqlite"
)

// WriteMetrics tracks write latency and per-backend failures.
type WriteMetrics struct {
	WriteOperations     int64
	FileWriteFailures   int64
	SQLiteWriteFailures int64
	TotalWriteLatency   time.Duration
	MaxWriteLatency     time.Duration
}

// AverageWriteLatency returns the mean latency for write operations.
func (m WriteMetrics) AverageWriteLatency() time.Duration {
	if m.WriteOperations == 0 {
		return 0
	}
	return m.TotalWriteLatency / time.Duration(m.WriteOperations)
}

// ConsistencyReport compares the two backends entry by entry.
type ConsistencyReport struct {
	FileCount   int
	SQLiteCount int
	// Mismatches holds positions whose entries differ.
	Mismatches []int
}

// Consistent reports whether both backends hold the same history.
func (r ConsistencyReport) Consistent() bool {
	return r.FileCount == r.SQLiteCount && len(r.Mismatches) == 0
}

// DualWriter saves to the file backend first and then to SQLite. Reads are
// served from the file, which remains the source of truth. A SQLite failure
// is logged and counted but never fails the save.
type DualWriter struct {
	file   *FileBackend
	sqlite *sqlite.Storage

	mu      sync.Mutex
	metrics WriteMetrics
}

var _ Backend = (*DualWriter)(nil)

// NewDualWriter combines a file backend and an SQLite store.
func NewDualWriter(file *FileBackend, db *sqlite.Storage) *DualWriter {
	return &DualWriter{file: file, sqlite: db}
}

// Name returns "dual".
func (d *DualWriter) Name() string { return BackendDual }

// Load reads from the file backend.
func (d *DualWriter) Load() ([]string, error) {
	return d.file.Load()
}

// Save writes both backends.
func (d *DualWriter) Save(entries []string) error {
	start := time.Now()
	fileErr := d.file.Save(entries)
	sqliteErr := d.sqlite.Save(entries)
	d.recordWrite(time.Since(start), fileErr, sqliteErr)

	if fileErr != nil {
		return fmt.Errorf("dual writer: file write failed: %w", fileErr)
	}
	if sqliteErr != nil {
		colors.Warning(fmt.Sprintf("dual writer: sqlite write failed: %v", sqliteErr))
	}
	return nil
}

func (d *DualWriter) recordWrite(latency time.Duration, fileErr, sqliteErr error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.metrics.WriteOperations++
	d.metrics.TotalWriteLatency += latency
	if latency > d.metrics.MaxWriteLatency {
		d.metrics.MaxWriteLatency = latency
	}
	if fileErr != nil {
		d.metrics.FileWriteFailures++
	}
	if sqliteErr != nil {
		d.metrics.SQLiteWriteFailures++
	}
}

// Metrics returns a copy of the write counters.
func (d *DualWriter) Metrics() WriteMetrics {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.metrics
}

// Verify loads both backends and compares them.
func (d *DualWriter) Verify() (ConsistencyReport, error) {
	fromFile, err := d.file.Load()
	if err != nil {
		return ConsistencyReport{}, fmt.Errorf("dual writer: read file: %w", err)
	}
	fromDB, err := d.sqlite.Load()
	if err != nil {
		return ConsistencyReport{}, fmt.Errorf("dual writer: read sqlite: %w", err)
	}

	report := ConsistencyReport{FileCount: len(fromFile), SQLiteCount: len(fromDB)}
	n := min(len(fromFile), len(fromDB))
	for i := 0; i < n; i++ {
		if fromFile[i] != fromDB[i] {
			report.Mismatches = append(report.Mismatches, i)
		}
	}
	return report, nil
}

// Close closes the SQLite store.
func (d *DualWriter) Close() error {
	return d.sqlite.Close()
}

package service

import (
	"fmt"
	"sync"
	"time"
)

// IngestionMetrics tracks statistics about a single ingestion run
type IngestionMetrics struct {
	mu                  sync.RWMutex
	StartTime           time.Time
	Duration            time.Duration
	Fetched             int
	Ingested            int
	Duplicates          int
	Filtered            int
	ValidationErrors    int
	NormalizationErrors int
	StoreErrors         int
}

// NewIngestionMetrics creates a new metrics tracker
func NewIngestionMetrics() *IngestionMetrics {
	return &IngestionMetrics{
		StartTime: time.Now(),
	}
}

// Reset resets all metrics
func (m *IngestionMetrics) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.StartTime = time.Now()
	m.Duration = 0
	m.Fetched = 0
	m.Ingested = 0
	m.Duplicates = 0
	m.Filtered = 0
	m.ValidationErrors = 0
	m.NormalizationErrors = 0
	m.StoreErrors = 0
}

// RecordFetched adds to the fetched row count
func (m *IngestionMetrics) RecordFetched(n int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Fetched += n
}

// RecordIngested increments the ingested match count
func (m *IngestionMetrics) RecordIngested() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Ingested++
}

// RecordDuplicate increments the duplicate count
func (m *IngestionMetrics) RecordDuplicate() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Duplicates++
}

// RecordFiltered increments the competition filter count
func (m *IngestionMetrics) RecordFiltered() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Filtered++
}

// RecordValidationError increments the validation error count
func (m *IngestionMetrics) RecordValidationError() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ValidationErrors++
}

// RecordNormalizationError increments the normalization error count
func (m *IngestionMetrics) RecordNormalizationError() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.NormalizationErrors++
}

// RecordStoreError increments the store error count
func (m *IngestionMetrics) RecordStoreError() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.StoreErrors++
}

// SetDuration records how long the run took
func (m *IngestionMetrics) SetDuration(d time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Duration = d
}

// Failed returns the total number of rows dropped by errors
func (m *IngestionMetrics) Failed() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.ValidationErrors + m.NormalizationErrors + m.StoreErrors
}

// Snapshot returns an immutable view of the current counts
func (m *IngestionMetrics) Snapshot() IngestionResult {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return IngestionResult{
		Fetched:    m.Fetched,
		Ingested:   m.Ingested,
		Duplicates: m.Duplicates,
		Filtered:   m.Filtered,
		Failed:     m.ValidationErrors + m.NormalizationErrors + m.StoreErrors,
		Duration:   m.Duration,
	}
}

// String returns a formatted string representation of metrics
func (m *IngestionMetrics) String() string {
	m.mu.RLock()
	defer m.mu.RUnlock()

	ingestRate := float64(0)
	if m.Fetched > 0 {
		ingestRate = float64(m.Ingested) / float64(m.Fetched) * 100
	}

	return fmt.Sprintf(
		"IngestionMetrics{Fetched=%d, Ingested=%d (%.1f%%), Duplicates=%d, Filtered=%d, ValidationErrors=%d, NormalizationErrors=%d, StoreErrors=%d, Duration=%v}",
		m.Fetched,
		m.Ingested,
		ingestRate,
		m.Duplicates,
		m.Filtered,
		m.ValidationErrors,
		m.NormalizationErrors,
		m.StoreErrors,
		m.Duration,
	)
}

package metrics

import (
	"sync"
	"time"
)

type Metrics struct {
	mu sync.RWMutex

	// Counters
	FeedsFetched       int64
	ItemsFetched       int64
	ItemsSelected      int64
	DuplicatesFiltered int64
	NarratorCalls      int64
	NarratorFailures   int64
	EmailsSent         int64

	// Timings
	LastProcessingTime    time.Duration
	AverageProcessingTime time.Duration
	TotalProcessingTime   time.Duration
	ProcessingCount       int64

	// Status
	LastRunTime   time.Time
	LastErrorTime time.Time
	LastError     string
	IsHealthy     bool
}

var Global = &Metrics{IsHealthy: true}

func (m *Metrics) AddFeedsFetched(n int64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.FeedsFetched += n
}

func (m *Metrics) AddItemsFetched(n int64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ItemsFetched += n
}

func (m *Metrics) AddItemsSelected(n int64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ItemsSelected += n
}

func (m *Metrics) AddDuplicatesFiltered(n int64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.DuplicatesFiltered += n
}

func (m *Metrics) IncrementNarratorCalls() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.NarratorCalls++
}

func (m *Metrics) IncrementNarratorFailures() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.NarratorFailures++
}

func (m *Metrics) IncrementEmailsSent() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.EmailsSent++
}

func (m *Metrics) RecordProcessingTime(duration time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.LastProcessingTime = duration
	m.TotalProcessingTime += duration
	m.ProcessingCount++

	if m.ProcessingCount > 0 {
		m.AverageProcessingTime = m.TotalProcessingTime / time.Duration(m.ProcessingCount)
	}
}

func (m *Metrics) SetLastRun() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.LastRunTime = time.Now()
	m.IsHealthy = true
}

func (m *Metrics) SetError(err string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.LastError = err
	m.LastErrorTime = time.Now()
	m.IsHealthy = false
}

func (m *Metrics) GetStats() map[string]interface{} {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return map[string]interface{}{
		"feeds_fetched":              m.FeedsFetched,
		"items_fetched":              m.ItemsFetched,
		"items_selected":             m.ItemsSelected,
		"duplicates_filtered":        m.DuplicatesFiltered,
		"narrator_calls":             m.NarratorCalls,
		"narrator_failures":          m.NarratorFailures,
		"emails_sent":                m.EmailsSent,
		"last_processing_time_ms":    m.LastProcessingTime.Milliseconds(),
		"average_processing_time_ms": m.AverageProcessingTime.Milliseconds(),
		"last_run_time":              m.LastRunTime.Format(time.RFC3339),
		"last_error_time":            m.LastErrorTime.Format(time.RFC3339),
		"last_error":                 m.LastError,
		"is_healthy":                 m.IsHealthy,
	}
}

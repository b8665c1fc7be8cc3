// Package storage holds the pipeline's two small persisted artifacts: the
// send log (what was delivered, with what outcome) and the feed health log.
package storage

import (
	"encoding/json"
	"fmt"
	"os"
	"sync"
	"time"
)

// SendRecord is one delivery attempt.
type SendRecord struct {
	Timestamp time.Time `json:"timestamp"`
	Status    string    `json:"status"` // SUCCESS, DRY_RUN or FAILED: <reason>
	Subject   string    `json:"subject"`
}

// SendLog is a JSON file of recent delivery attempts, trimmed to the newest
// maxEntries on every append.
type SendLog struct {
	path       string
	maxEntries int
	mu         sync.Mutex
}

func NewSendLog(path string, maxEntries int) *SendLog {
	if maxEntries <= 0 {
		maxEntries = 30
	}
	return &SendLog{path: path, maxEntries: maxEntries}
}

// Append records a delivery attempt, dropping the oldest entries beyond the
// cap.
func (l *SendLog) Append(status, subject string) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	records, err := l.read()
	if err != nil {
		return err
	}

	records = append(records, SendRecord{
		Timestamp: time.Now(),
		Status:    status,
		Subject:   subject,
	})
	if len(records) > l.maxEntries {
		records = records[len(records)-l.maxEntries:]
	}

	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal send log: %w", err)
	}
	if err := os.WriteFile(l.path, data, 0644); err != nil {
		return fmt.Errorf("failed to write send log: %w", err)
	}
	return nil
}

// Recent returns the logged delivery attempts, oldest first.
func (l *SendLog) Recent() ([]SendRecord, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.read()
}

func (l *SendLog) read() ([]SendRecord, error) {
	data, err := os.ReadFile(l.path)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read send log: %w", err)
	}
	if len(data) == 0 {
		return nil, nil
	}

	var records []SendRecord
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("failed to unmarshal send log: %w", err)
	}
	return records, nil
}

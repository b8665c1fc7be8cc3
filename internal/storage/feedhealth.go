package storage

import (
	"fmt"
	"os"
	"sync"
	"time"
)

// FeedHealthLog appends one line per feed fetch attempt so broken feeds show
// up without digging through run output. Logging failures are swallowed; a
// full disk must not kill a digest run.
type FeedHealthLog struct {
	path string
	mu   sync.Mutex
}

func NewFeedHealthLog(path string) *FeedHealthLog {
	return &FeedHealthLog{path: path}
}

func (l *FeedHealthLog) RecordFeedHealth(url string, err error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	status := "SUCCESS"
	if err != nil {
		msg := err.Error()
		if len(msg) > 50 {
			msg = msg[:50]
		}
		status = "FAILED: " + msg
	}

	if len(url) > 60 {
		url = url[:60]
	}
	line := fmt.Sprintf("%s | %s | %s\n", time.Now().Format("2006-01-02 15:04:05"), url, status)

	f, ferr := os.OpenFile(l.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if ferr != nil {
		return
	}
	defer f.Close()
	_, _ = f.WriteString(line)
}

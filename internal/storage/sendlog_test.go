package storage

import (
	"fmt"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSendLog_AppendAndRecent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "email_log.json")
	l := NewSendLog(path, 30)

	require.NoError(t, l.Append("SUCCESS", "Monday digest"))
	require.NoError(t, l.Append("DRY_RUN", "Tuesday digest"))

	records, err := l.Recent()
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, "SUCCESS", records[0].Status)
	assert.Equal(t, "Monday digest", records[0].Subject)
	assert.Equal(t, "Tuesday digest", records[1].Subject)
	assert.False(t, records[0].Timestamp.IsZero())
}

func TestSendLog_TrimsToMaxEntries(t *testing.T) {
	path := filepath.Join(t.TempDir(), "email_log.json")
	l := NewSendLog(path, 5)

	for i := 0; i < 8; i++ {
		require.NoError(t, l.Append("SUCCESS", fmt.Sprintf("digest %d", i)))
	}

	records, err := l.Recent()
	require.NoError(t, err)
	require.Len(t, records, 5)
	assert.Equal(t, "digest 3", records[0].Subject, "oldest entries dropped first")
	assert.Equal(t, "digest 7", records[4].Subject)
}

func TestSendLog_MissingFileIsEmpty(t *testing.T) {
	l := NewSendLog(filepath.Join(t.TempDir(), "nope.json"), 30)
	records, err := l.Recent()
	require.NoError(t, err)
	assert.Empty(t, records)
}

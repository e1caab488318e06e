package backup

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"portfolio-contact-backend/internal/domain"
)

func int64Ptr(v int64) *int64 { return &v }

func newTestStore(t *testing.T) *FileStore {
	t.Helper()
	s := NewFileStore(filepath.Join(t.TempDir(), "contact_backups", "contact_messages.json"))
	s.now = func() time.Time { return time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC) }
	return s
}

func record(i int) domain.ContactRecord {
	return domain.ContactRecord{
		ID:          int64Ptr(int64(i)),
		Name:        fmt.Sprintf("Zoë Ñandú %d", i),
		Email:       fmt.Sprintf("user%d@example.com", i),
		PhoneNumber: "+91 98765 43210",
		Message:     fmt.Sprintf("こんにちは <b>%d</b> & café ☕", i),
		CreatedAt:   time.Date(2024, 4, 30, 10, i, 0, 0, time.UTC),
		DBSaved:     true,
	}
}

func TestFileStore_RoundTrip(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	const n = 5
	for i := 1; i <= n; i++ {
		require.NoError(t, s.Append(ctx, record(i)))
	}

	entries, err := Load(s.Path())
	require.NoError(t, err)
	require.Len(t, entries, n)

	for i, e := range entries {
		assert.Equal(t, record(i+1), e.ContactRecord, "entry %d keeps submission order and values", i)
		assert.Equal(t, s.now(), e.BackupTimestamp)
	}

	raw, err := os.ReadFile(s.Path())
	require.NoError(t, err)
	assert.Contains(t, string(raw), "こんにちは <b>1</b> & café ☕")
	assert.Contains(t, string(raw), "\n  {\n    \"id\": 1,")
	assert.Contains(t, string(raw), `"backup_timestamp": "2024-05-01T12:00:00Z"`)
}

func TestFileStore_UnsavedRecordHasNullID(t *testing.T) {
	s := newTestStore(t)
	rec := record(1)
	rec.ID = nil
	rec.DBSaved = false

	require.NoError(t, s.Append(context.Background(), rec))

	raw, err := os.ReadFile(s.Path())
	require.NoError(t, err)
	assert.Contains(t, string(raw), `"id": null`)
	assert.Contains(t, string(raw), `"db_saved": false`)
}

func TestFileStore_CorruptedFileIsReplaced(t *testing.T) {
	s := newTestStore(t)
	require.NoError(t, os.MkdirAll(filepath.Dir(s.Path()), 0o755))
	require.NoError(t, os.WriteFile(s.Path(), []byte(`[{"name": "broken"`), 0o644))

	require.NoError(t, s.Append(context.Background(), record(7)))

	entries, err := Load(s.Path())
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, record(7), entries[0].ContactRecord)
}

func TestFileStore_EmptyFileIsEmptyLog(t *testing.T) {
	s := newTestStore(t)
	require.NoError(t, os.MkdirAll(filepath.Dir(s.Path()), 0o755))
	require.NoError(t, os.WriteFile(s.Path(), nil, 0o644))

	require.NoError(t, s.Append(context.Background(), record(1)))

	entries, err := Load(s.Path())
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestFileStore_CreatesDirectoryLazily(t *testing.T) {
	s := newTestStore(t)
	_, err := os.Stat(filepath.Dir(s.Path()))
	require.True(t, os.IsNotExist(err))

	require.NoError(t, s.Append(context.Background(), record(1)))

	_, err = os.Stat(s.Path())
	assert.NoError(t, err)
}

func TestFileStore_ConcurrentAppendsKeepEveryEntry(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	const n = 25
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			assert.NoError(t, s.Append(ctx, record(i)))
		}(i)
	}
	wg.Wait()

	entries, err := Load(s.Path())
	require.NoError(t, err)
	assert.Len(t, entries, n)
}

func TestFileStore_WriteFailureIsReturned(t *testing.T) {
	dir := t.TempDir()
	// The backup path is a directory, so it can be neither read nor replaced.
	s := NewFileStore(dir)

	err := s.Append(context.Background(), record(1))
	assert.Error(t, err)
}

func TestFileStore_CanceledContext(t *testing.T) {
	s := newTestStore(t)
	var logs bytes.Buffer
	s.log = slog.New(slog.NewJSONHandler(&logs, nil))
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	assert.ErrorIs(t, s.Append(ctx, record(1)), context.Canceled)
	_, err := os.Stat(s.Path())
	assert.True(t, os.IsNotExist(err))
	assert.Contains(t, logs.String(), "Failed to write contact backup")
	assert.Contains(t, logs.String(), "context canceled")
}

func TestFileStore_EntryKeys(t *testing.T) {
	s := newTestStore(t)
	require.NoError(t, s.Append(context.Background(), record(1)))

	data, err := os.ReadFile(s.Path())
	require.NoError(t, err)
	var raw []map[string]any
	require.NoError(t, json.Unmarshal(data, &raw))
	require.Len(t, raw, 1)

	keys := make([]string, 0, len(raw[0]))
	for k := range raw[0] {
		keys = append(keys, k)
	}
	assert.ElementsMatch(t, []string{
		"id", "name", "email", "phone_number", "message",
		"created_at", "db_saved", "is_read", "backup_timestamp",
	}, keys)
	assert.Equal(t, false, raw[0]["is_read"])
}

func TestFileStore_LeavesNoTempFiles(t *testing.T) {
	s := newTestStore(t)
	require.NoError(t, s.Append(context.Background(), record(1)))

	files, err := os.ReadDir(filepath.Dir(s.Path()))
	require.NoError(t, err)
	for _, f := range files {
		assert.False(t, strings.HasSuffix(f.Name(), ".tmp"), "unexpected temp file %s", f.Name())
	}
}

package backup_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"portfolio-contact-backend/internal/domain"
	"portfolio-contact-backend/pkg/backup"
)

func writeFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "contact_messages.json")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func entry(name string, createdAt time.Time, dbSaved, isRead bool) domain.BackupEntry {
	return domain.BackupEntry{
		ContactRecord: domain.ContactRecord{
			Name:      name,
			Email:     name + "@example.com",
			Message:   "hello from " + name,
			CreatedAt: createdAt,
			DBSaved:   dbSaved,
			IsRead:    isRead,
		},
		BackupTimestamp: createdAt.Add(time.Second),
	}
}

func TestLoad_Conditions(t *testing.T) {
	t.Run("Should report a missing file", func(t *testing.T) {
		_, err := backup.Load(filepath.Join(t.TempDir(), "missing.json"))
		assert.ErrorIs(t, err, backup.ErrNoBackup)
	})

	t.Run("Should report an empty array", func(t *testing.T) {
		_, err := backup.Load(writeFile(t, "[]"))
		assert.ErrorIs(t, err, backup.ErrEmptyBackup)
	})

	t.Run("Should report a zero-byte file as empty", func(t *testing.T) {
		_, err := backup.Load(writeFile(t, ""))
		assert.ErrorIs(t, err, backup.ErrEmptyBackup)
	})

	t.Run("Should report invalid JSON as corrupted", func(t *testing.T) {
		_, err := backup.Load(writeFile(t, "{oops"))
		assert.ErrorIs(t, err, backup.ErrCorruptBackup)
	})
}

func TestSortLimitUnread(t *testing.T) {
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	entries := []domain.BackupEntry{
		entry("old", base, true, true),
		entry("newest", base.Add(2*time.Hour), false, false),
		entry("middle", base.Add(time.Hour), true, false),
	}

	backup.SortNewestFirst(entries)
	assert.Equal(t, "newest", entries[0].Name)
	assert.Equal(t, "middle", entries[1].Name)
	assert.Equal(t, "old", entries[2].Name)

	assert.Len(t, backup.Limit(entries, 2), 2)
	assert.Len(t, backup.Limit(entries, 0), 3)
	assert.Len(t, backup.Limit(entries, 10), 3)

	unread := backup.Unread(entries)
	require.Len(t, unread, 2)
	assert.Equal(t, "newest", unread[0].Name)
	assert.Equal(t, "middle", unread[1].Name)
}

func TestExport(t *testing.T) {
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	entries := []domain.BackupEntry{entry("zoë", base, true, false)}
	dir := t.TempDir()

	t.Run("Should export JSON readable by Load", func(t *testing.T) {
		path := filepath.Join(dir, "out", "export.json")
		require.NoError(t, backup.Export(path, entries))

		got, err := backup.Load(path)
		require.NoError(t, err)
		assert.Equal(t, entries, got)
	})

	t.Run("Should export YAML with flat keys", func(t *testing.T) {
		path := filepath.Join(dir, "export.yaml")
		require.NoError(t, backup.Export(path, entries))

		raw, err := os.ReadFile(path)
		require.NoError(t, err)
		var decoded []map[string]any
		require.NoError(t, yaml.Unmarshal(raw, &decoded))
		require.Len(t, decoded, 1)
		assert.Equal(t, "zoë", decoded[0]["name"])
		assert.Equal(t, true, decoded[0]["db_saved"])
	})
}

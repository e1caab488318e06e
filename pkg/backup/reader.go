package backup

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"portfolio-contact-backend/internal/domain"
)

var (
	// ErrNoBackup means the backup file does not exist yet.
	ErrNoBackup = errors.New("no backup file found")
	// ErrEmptyBackup means the backup file holds no entries.
	ErrEmptyBackup = errors.New("backup file is empty")
	// ErrCorruptBackup means the backup file is not a JSON array of entries.
	ErrCorruptBackup = errors.New("backup file is corrupted")
)

// Load reads every entry of the backup file at path.
func Load(path string) ([]domain.BackupEntry, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, ErrNoBackup
	}
	if err != nil {
		return nil, fmt.Errorf("read backup file: %w", err)
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, ErrEmptyBackup
	}

	var entries []domain.BackupEntry
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorruptBackup, err)
	}
	if len(entries) == 0 {
		return nil, ErrEmptyBackup
	}
	return entries, nil
}

// SortNewestFirst orders entries by created_at, newest first. Entries with
// equal timestamps keep their log order.
func SortNewestFirst(entries []domain.BackupEntry) {
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].CreatedAt.After(entries[j].CreatedAt)
	})
}

// Limit returns at most n entries; n <= 0 means no limit.
func Limit(entries []domain.BackupEntry, n int) []domain.BackupEntry {
	if n <= 0 || n >= len(entries) {
		return entries
	}
	return entries[:n]
}

// Unread keeps entries that never reached the database or are not marked read.
func Unread(entries []domain.BackupEntry) []domain.BackupEntry {
	out := make([]domain.BackupEntry, 0, len(entries))
	for _, e := range entries {
		if !e.DBSaved || !e.IsRead {
			out = append(out, e)
		}
	}
	return out
}

// Export writes entries to path as JSON, or as YAML when path ends in .yaml/.yml.
func Export(path string, entries []domain.BackupEntry) error {
	var (
		data []byte
		err  error
	)
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		data, err = yaml.Marshal(toYAML(entries))
	default:
		data, err = encode(entries)
	}
	if err != nil {
		return fmt.Errorf("encode export: %w", err)
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("ensure export dir: %w", err)
		}
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write export: %w", err)
	}
	return nil
}

type yamlEntry struct {
	ID              *int64    `yaml:"id"`
	Name            string    `yaml:"name"`
	Email           string    `yaml:"email"`
	PhoneNumber     string    `yaml:"phone_number"`
	Message         string    `yaml:"message"`
	CreatedAt       time.Time `yaml:"created_at"`
	DBSaved         bool      `yaml:"db_saved"`
	BackupTimestamp time.Time `yaml:"backup_timestamp"`
}

func toYAML(entries []domain.BackupEntry) []yamlEntry {
	out := make([]yamlEntry, len(entries))
	for i, e := range entries {
		out[i] = yamlEntry{
			ID:              e.ID,
			Name:            e.Name,
			Email:           e.Email,
			PhoneNumber:     e.PhoneNumber,
			Message:         e.Message,
			CreatedAt:       e.CreatedAt,
			DBSaved:         e.DBSaved,
			BackupTimestamp: e.BackupTimestamp,
		}
	}
	return out
}

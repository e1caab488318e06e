package backup

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"portfolio-contact-backend/internal/domain"
	"portfolio-contact-backend/pkg/logger"
)

// FileStore keeps every submission in a single JSON array on disk. It owns
// the file: appends are serialized in-process by mu and across processes by
// an advisory lock on "<path>.lock".
type FileStore struct {
	path string
	mu   sync.Mutex
	now  func() time.Time
	log  *slog.Logger
}

func NewFileStore(path string) *FileStore {
	return &FileStore{
		path: path,
		now:  time.Now,
		log:  logger.Log.With("component", "backup_store", "path", path),
	}
}

// Path returns the location of the backup file.
func (s *FileStore) Path() string {
	return s.path
}

// Append adds rec to the log. An unreadable log is replaced with a fresh one
// containing only rec; every other failure is logged and returned.
func (s *FileStore) Append(ctx context.Context, rec domain.ContactRecord) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("backup append panicked: %v", r)
		}
		if err != nil {
			s.log.Error("Failed to write contact backup", "error", err)
		}
	}()

	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return fmt.Errorf("ensure backup dir: %w", err)
	}

	unlock, err := lockFile(ctx, s.path+".lock")
	if err != nil {
		return fmt.Errorf("lock backup file: %w", err)
	}
	defer unlock()

	entries, err := s.readAll()
	if err != nil {
		return err
	}

	entries = append(entries, domain.BackupEntry{
		ContactRecord:   rec,
		BackupTimestamp: s.now(),
	})

	return writeEntries(s.path, entries)
}

// readAll loads the current log. Missing and empty files are an empty log;
// a file that is not a JSON array is discarded with a warning.
func (s *FileStore) readAll() ([]domain.BackupEntry, error) {
	data, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return []domain.BackupEntry{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read backup file: %w", err)
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return []domain.BackupEntry{}, nil
	}

	var entries []domain.BackupEntry
	if err := json.Unmarshal(data, &entries); err != nil {
		s.log.Warn("Backup file is corrupted, starting a new log", "error", err)
		return []domain.BackupEntry{}, nil
	}
	return entries, nil
}

// writeEntries replaces path with the indented array. The data goes to a
// temp file in the same directory first so readers never see a partial file.
func writeEntries(path string, entries []domain.BackupEntry) error {
	data, err := encode(entries)
	if err != nil {
		return fmt.Errorf("encode backup: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("create temp backup: %w", err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("write temp backup: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("sync temp backup: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp backup: %w", err)
	}
	if err := os.Chmod(tmpName, 0o644); err != nil {
		return fmt.Errorf("chmod temp backup: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		return fmt.Errorf("replace backup file: %w", err)
	}
	return nil
}

// encode renders entries as two-space indented JSON, leaving non-ASCII and
// HTML characters as they were submitted.
func encode(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

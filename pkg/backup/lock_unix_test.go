//go:build unix

package backup

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLockFile(t *testing.T) {
	t.Run("Should give up when the context expires while another holder keeps the lock", func(t *testing.T) {
		s := newTestStore(t)
		require.NoError(t, os.MkdirAll(filepath.Dir(s.Path()), 0o755))

		unlock, err := lockFile(context.Background(), s.Path()+".lock")
		require.NoError(t, err)

		ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
		defer cancel()

		start := time.Now()
		err = s.Append(ctx, record(1))
		assert.ErrorIs(t, err, context.DeadlineExceeded)
		assert.Less(t, time.Since(start), 5*time.Second)

		unlock()
		require.NoError(t, s.Append(context.Background(), record(2)))

		entries, err := Load(s.Path())
		require.NoError(t, err)
		require.Len(t, entries, 1)
		assert.Equal(t, int64(2), *entries[0].ID)
	})

	t.Run("Should acquire the lock once it is released", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "contact_messages.json.lock")
		unlock, err := lockFile(context.Background(), path)
		require.NoError(t, err)

		acquired := make(chan func(), 1)
		go func() {
			next, err := lockFile(context.Background(), path)
			if err == nil {
				acquired <- next
			}
		}()

		select {
		case <-acquired:
			t.Fatal("lock acquired while still held")
		case <-time.After(50 * time.Millisecond):
		}

		unlock()
		select {
		case next := <-acquired:
			next()
		case <-time.After(2 * time.Second):
			t.Fatal("lock not acquired after release")
		}
	})
}

package backup

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"portfolio-contact-backend/config"
)

type fakePutter struct {
	input *s3.PutObjectInput
	body  []byte
	err   error
}

func (f *fakePutter) PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.input = params
	f.body, _ = io.ReadAll(params.Body)
	return &s3.PutObjectOutput{}, nil
}

func TestMirror_Snapshot(t *testing.T) {
	source := filepath.Join(t.TempDir(), "contact_messages.json")

	t.Run("Should skip when no backup exists", func(t *testing.T) {
		m := NewMirror(&fakePutter{}, "bucket", "snap/", source)
		_, err := m.Snapshot(context.Background())
		assert.ErrorIs(t, err, ErrNoBackup)
	})

	require.NoError(t, os.WriteFile(source, []byte(`[{"name":"x"}]`), 0o644))

	t.Run("Should upload the file under a timestamped key", func(t *testing.T) {
		putter := &fakePutter{}
		m := NewMirror(putter, "bucket", "snap/", source)
		m.now = func() time.Time { return time.Date(2024, 3, 9, 8, 7, 6, 0, time.UTC) }

		key, err := m.Snapshot(context.Background())
		require.NoError(t, err)
		assert.Equal(t, "snap/20240309T080706Z.json", key)
		assert.Equal(t, "bucket", aws.ToString(putter.input.Bucket))
		assert.Equal(t, `[{"name":"x"}]`, string(putter.body))
	})

	t.Run("Should wrap upload errors", func(t *testing.T) {
		boom := errors.New("access denied")
		m := NewMirror(&fakePutter{err: boom}, "bucket", "snap/", source)
		_, err := m.Snapshot(context.Background())
		assert.ErrorIs(t, err, boom)
	})
}

func TestMirrorConfigFrom(t *testing.T) {
	mc := MirrorConfigFrom(&config.Config{S3Provider: "wasabi", S3Region: "eu-west-1", MirrorBucket: "b"})
	assert.Equal(t, S3ProviderWasabi, mc.Provider)
	assert.Equal(t, "s3.eu-west-1.wasabisys.com", mc.WasabiEndpoint)
	assert.True(t, mc.Enabled())

	mc = MirrorConfigFrom(&config.Config{S3Provider: "aws"})
	assert.Equal(t, S3ProviderAWS, mc.Provider)
	assert.False(t, mc.Enabled())
}

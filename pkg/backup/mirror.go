package backup

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"portfolio-contact-backend/config"
)

// S3Provider represents the S3-compatible storage provider
type S3Provider string

const (
	S3ProviderAWS    S3Provider = "aws"
	S3ProviderWasabi S3Provider = "wasabi"
)

// WasabiEndpoints maps regions to Wasabi endpoints
var WasabiEndpoints = map[string]string{
	"us-east-1":      "s3.us-east-1.wasabisys.com",
	"us-east-2":      "s3.us-east-2.wasabisys.com",
	"us-west-1":      "s3.us-west-1.wasabisys.com",
	"eu-central-1":   "s3.eu-central-1.wasabisys.com",
	"eu-west-1":      "s3.eu-west-1.wasabisys.com",
	"ap-northeast-1": "s3.ap-northeast-1.wasabisys.com",
	"ap-southeast-1": "s3.ap-southeast-1.wasabisys.com",
}

// MirrorConfig holds configuration for the off-host backup copy.
type MirrorConfig struct {
	Provider        S3Provider
	AccessKeyID     string
	SecretAccessKey string
	Region          string
	Bucket          string
	Prefix          string
	WasabiEndpoint  string
}

// MirrorConfigFrom extracts the mirror settings from the app config.
func MirrorConfigFrom(cfg *config.Config) MirrorConfig {
	mc := MirrorConfig{
		Provider:        S3ProviderAWS,
		AccessKeyID:     cfg.S3AccessKeyID,
		SecretAccessKey: cfg.S3SecretKey,
		Region:          cfg.S3Region,
		Bucket:          cfg.MirrorBucket,
		Prefix:          cfg.MirrorPrefix,
	}
	if cfg.S3Provider == string(S3ProviderWasabi) {
		mc.Provider = S3ProviderWasabi
		switch {
		case cfg.WasabiEndpoint != "":
			mc.WasabiEndpoint = cfg.WasabiEndpoint
		case WasabiEndpoints[cfg.S3Region] != "":
			mc.WasabiEndpoint = WasabiEndpoints[cfg.S3Region]
		default:
			mc.WasabiEndpoint = "s3.ap-southeast-1.wasabisys.com"
		}
	}
	return mc
}

// Enabled reports whether a mirror bucket is configured.
func (c MirrorConfig) Enabled() bool {
	return c.Bucket != ""
}

// NewS3Client creates an S3 client with the given config
// Supports both AWS S3 and Wasabi
func NewS3Client(ctx context.Context, cfg MirrorConfig) (*s3.Client, error) {
	opts := []func(*awsconfig.LoadOptions) error{awsconfig.WithRegion(cfg.Region)}
	if cfg.AccessKeyID != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			cfg.AccessKeyID,
			cfg.SecretAccessKey,
			"",
		)))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	if cfg.Provider == S3ProviderWasabi {
		// Wasabi requires custom endpoint and path-style addressing
		return s3.NewFromConfig(awsCfg, func(o *s3.Options) {
			o.BaseEndpoint = aws.String("https://" + cfg.WasabiEndpoint)
			o.UsePathStyle = true
		}), nil
	}
	return s3.NewFromConfig(awsCfg), nil
}

// ObjectPutter is the part of *s3.Client the mirror needs.
type ObjectPutter interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// Mirror copies the backup file to object storage as timestamped snapshots.
type Mirror struct {
	client ObjectPutter
	bucket string
	prefix string
	source string
	now    func() time.Time
}

func NewMirror(client ObjectPutter, bucket, prefix, source string) *Mirror {
	return &Mirror{
		client: client,
		bucket: bucket,
		prefix: prefix,
		source: source,
		now:    time.Now,
	}
}

// Snapshot uploads the current backup file and returns the object key.
// It returns ErrNoBackup when there is nothing to upload yet.
func (m *Mirror) Snapshot(ctx context.Context) (string, error) {
	data, err := os.ReadFile(m.source)
	if errors.Is(err, fs.ErrNotExist) {
		return "", ErrNoBackup
	}
	if err != nil {
		return "", fmt.Errorf("read backup for mirror: %w", err)
	}

	key := m.prefix + m.now().UTC().Format("20060102T150405Z") + ".json"
	_, err = m.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(m.bucket),
		Key:           aws.String(key),
		Body:          bytes.NewReader(data),
		ContentLength: aws.Int64(int64(len(data))),
		ContentType:   aws.String("application/json; charset=utf-8"),
	})
	if err != nil {
		return "", fmt.Errorf("upload backup snapshot to %s: %w", m.bucket, err)
	}
	return key, nil
}

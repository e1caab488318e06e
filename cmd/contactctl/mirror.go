package main

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"portfolio-contact-backend/pkg/backup"
)

func mirrorCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "mirror",
		Short: "Upload a snapshot of the backup log to the mirror bucket",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			mc := backup.MirrorConfigFrom(cfg)
			if !mc.Enabled() {
				return errors.New("BACKUP_MIRROR_BUCKET is not set")
			}

			ctx, cancel := context.WithTimeout(cmd.Context(), 2*time.Minute)
			defer cancel()

			client, err := backup.NewS3Client(ctx, mc)
			if err != nil {
				return err
			}
			key, err := backup.NewMirror(client, mc.Bucket, mc.Prefix, cfg.BackupPath).Snapshot(ctx)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Uploaded s3://%s/%s\n", mc.Bucket, key)
			return nil
		},
	}
}

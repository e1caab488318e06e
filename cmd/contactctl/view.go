package main

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"portfolio-contact-backend/internal/domain"
	"portfolio-contact-backend/pkg/backup"
)

type viewOptions struct {
	file       string
	limit      int
	export     string
	unreadOnly bool
}

func viewCmd() *cobra.Command {
	var opts viewOptions

	cmd := &cobra.Command{
		Use:   "view",
		Short: "Show contact messages from the backup log",
		Long: `Show contact messages from the backup log, newest first.

The backup log holds every accepted submission, including the ones the
database never saw. Use --export to write the selection to a .json or
.yaml file instead of printing it.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if opts.file == "" {
				cfg, err := loadConfig()
				if err != nil {
					return err
				}
				opts.file = cfg.BackupPath
			}
			return runView(cmd.OutOrStdout(), opts)
		},
	}

	cmd.Flags().StringVarP(&opts.file, "file", "f", "", "Backup file (default CONTACT_BACKUP_PATH)")
	cmd.Flags().IntVarP(&opts.limit, "limit", "n", 0, "Show at most N messages")
	cmd.Flags().StringVar(&opts.export, "export", "", "Export messages to a .json or .yaml file")
	cmd.Flags().BoolVar(&opts.unreadOnly, "unread-only", false, "Only messages not saved to or not read in the database")

	return cmd
}

func runView(out io.Writer, opts viewOptions) error {
	entries, err := backup.Load(opts.file)
	switch {
	case errors.Is(err, backup.ErrNoBackup):
		fmt.Fprintln(out, "No backup file found. No messages have been submitted yet.")
		return nil
	case errors.Is(err, backup.ErrEmptyBackup):
		fmt.Fprintln(out, "Backup file is empty. No messages found.")
		return nil
	case err != nil:
		return fmt.Errorf("reading backup file %s: %w", opts.file, err)
	}

	if opts.unreadOnly {
		entries = backup.Unread(entries)
	}
	backup.SortNewestFirst(entries)
	entries = backup.Limit(entries, opts.limit)

	if opts.export != "" {
		if err := backup.Export(opts.export, entries); err != nil {
			return err
		}
		fmt.Fprintf(out, "Exported %d messages to %s\n", len(entries), opts.export)
		return nil
	}

	printEntries(out, entries)
	fmt.Fprintf(out, "\nTotal messages displayed: %d\n", len(entries))
	fmt.Fprintf(out, "Backup file location: %s\n", opts.file)
	return nil
}

func printEntries(out io.Writer, entries []domain.BackupEntry) {
	rule := strings.Repeat("=", 80)

	fmt.Fprintf(out, "\nFound %d contact messages:\n\n", len(entries))
	fmt.Fprintln(out, rule)
	for i, e := range entries {
		fmt.Fprintf(out, "\nMessage #%d\n", i+1)
		fmt.Fprintln(out, strings.Repeat("-", 80))
		fmt.Fprintf(out, "Name: %s\n", orNA(e.Name))
		fmt.Fprintf(out, "Email: %s\n", orNA(e.Email))
		fmt.Fprintf(out, "Phone: %s\n", orNA(e.PhoneNumber))
		fmt.Fprintf(out, "Submitted: %s\n", e.CreatedAt.Format("2006-01-02 15:04:05 MST"))
		fmt.Fprintf(out, "DB Saved: %s\n", yesNo(e.DBSaved))
		fmt.Fprintf(out, "\nMessage:\n%s\n", orNA(e.Message))
		fmt.Fprintln(out, rule)
	}
}

func orNA(s string) string {
	if s == "" {
		return "N/A"
	}
	return s
}

func yesNo(b bool) string {
	if b {
		return "Yes"
	}
	return "No"
}

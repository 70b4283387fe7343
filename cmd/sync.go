package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"ffl-directory/feature/ffl/models"

	"github.com/minio/minio-go/v7"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	syncObject string
	syncActor  string
	syncDryRun bool
)

// syncCmd ingests a license list from disk or from the storage bucket.
var syncCmd = &cobra.Command{
	Use:   "sync [file]",
	Short: "Sync a license list (.csv or .xlsx) into the directory",
	Long: `Normalizes every row of the list, reconciles it against the directory and
upserts new and changed licensees. Records absent from the list are never removed.

Examples:
  # Sync a local file
  sync 0125-ffl-list.xlsx

  # Sync an object from the configured bucket
  sync --object uploads/0125-ffl-list.csv

  # Report what would change without writing
  sync 0125-ffl-list.csv --dry-run`,
	Args: func(cmd *cobra.Command, args []string) error {
		if syncObject == "" && len(args) != 1 {
			return fmt.Errorf("expected a file argument or --object")
		}
		if syncObject != "" && len(args) > 0 {
			return fmt.Errorf("a file argument and --object are mutually exclusive")
		}
		return nil
	},
	RunE: runSync,
}

func init() {
	syncCmd.Flags().StringVar(&syncObject, "object", "", "Object key to read from the storage bucket")
	syncCmd.Flags().StringVar(&syncActor, "actor", "cli", "Actor recorded in the audit event")
	syncCmd.Flags().BoolVar(&syncDryRun, "dry-run", false, "Report the classification without writing")
	RootCmd.AddCommand(syncCmd)
}

func runSync(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	rt, err := bootstrap()
	if err != nil {
		return err
	}
	defer rt.logger.Sync()

	name, body, err := openSource(ctx, rt, args)
	if err != nil {
		return err
	}
	defer body.Close()

	rt.logger.Info("Starting directory sync",
		zap.String("source", name),
		zap.Bool("dry_run", syncDryRun),
	)

	var result *models.SyncResult
	if syncDryRun {
		result, err = rt.service.PreviewFile(ctx, name, body)
	} else {
		result, err = rt.service.SyncFile(ctx, name, body, syncActor)
	}
	if err != nil {
		return fmt.Errorf("sync failed: %w", err)
	}
	return printJSON(result)
}

// openSource returns the display name and body of the list to sync.
func openSource(ctx context.Context, rt *runtime, args []string) (string, io.ReadCloser, error) {
	if syncObject != "" {
		obj, err := rt.storage.GetObject(ctx, rt.cfg.Storage.Bucket, syncObject, minio.GetObjectOptions{})
		if err != nil {
			return "", nil, fmt.Errorf("failed to read object %s: %w", syncObject, err)
		}
		return syncObject, obj, nil
	}

	f, err := os.Open(args[0])
	if err != nil {
		return "", nil, fmt.Errorf("failed to open %s: %w", args[0], err)
	}
	return filepath.Base(args[0]), f, nil
}

package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"ffl-directory/feature/ffl/inbox"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	watchActor  string
	watchSettle time.Duration
)

// watchCmd syncs every list dropped into a directory.
var watchCmd = &cobra.Command{
	Use:   "watch <dir>",
	Short: "Watch a drop folder and sync every list placed in it",
	Long: `Watches a directory for .csv and .xlsx files. Each file is synced once it stops
changing and is then moved to processed/ or failed/ inside the watched directory.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		rt, err := bootstrap()
		if err != nil {
			return err
		}
		defer rt.logger.Sync()

		handle := func(ctx context.Context, path string) error {
			f, err := os.Open(path)
			if err != nil {
				return err
			}
			defer f.Close()

			result, err := rt.service.SyncFile(ctx, filepath.Base(path), f, watchActor)
			if err != nil {
				return fmt.Errorf("sync %s: %w", filepath.Base(path), err)
			}
			rt.logger.Info("Inbox file synced",
				zap.String("file", filepath.Base(path)),
				zap.Int("added", result.Added),
				zap.Int("updated", result.Updated),
				zap.Int("errors", len(result.Errors)),
			)
			return nil
		}

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		rt.logger.Info("Watching inbox", zap.String("dir", args[0]))
		return inbox.New(args[0], handle, rt.logger).WithSettle(watchSettle).Run(ctx)
	},
}

func init() {
	watchCmd.Flags().StringVar(&watchActor, "actor", "inbox", "Actor recorded in the audit event")
	watchCmd.Flags().DurationVar(&watchSettle, "settle", inbox.DefaultSettle, "Quiet period before a changed file is synced")
	RootCmd.AddCommand(watchCmd)
}

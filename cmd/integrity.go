package cmd

import (
	"fmt"

	"ffl-directory/core/config"
	"ffl-directory/core/database"
	"ffl-directory/core/logger"
	"ffl-directory/feature/ffl/store"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var fixFlag bool

// integrityCmd represents the integrity command
var integrityCmd = &cobra.Command{
	Use:   "integrity",
	Short: "Check the directory schema against the models",
	Long:  `Compares the live database tables with the directory models and reports missing columns and type mismatches. Use --fix to migrate before checking.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.LoadConfig(".")
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}

		l, err := logger.New(&cfg.Log)
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		defer l.Sync()

		db, err := database.Connect(cfg.Database)
		if err != nil {
			return fmt.Errorf("failed to connect to database: %w", err)
		}

		if fixFlag {
			l.Info("Migrating schema before check")
			if err := store.Migrate(db); err != nil {
				return err
			}
		}

		report, err := store.CheckSchema(db)
		if err != nil {
			return fmt.Errorf("schema check failed: %w", err)
		}
		if err := printJSON(report); err != nil {
			return err
		}

		if !report.Matched {
			l.Warn("Schema drift detected", zap.Strings("errors", report.Errors))
			return fmt.Errorf("schema does not match models")
		}
		l.Info("Schema matches models")
		return nil
	},
}

func init() {
	integrityCmd.Flags().BoolVar(&fixFlag, "fix", false, "Run migrations before checking")
	RootCmd.AddCommand(integrityCmd)
}

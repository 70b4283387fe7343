package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"ffl-directory/core/config"
	"ffl-directory/core/database"
	"ffl-directory/core/logger"
	"ffl-directory/core/storage"
	"ffl-directory/feature/ffl"
	"ffl-directory/feature/ffl/store"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// runtime bundles what every command needs after startup.
type runtime struct {
	cfg     *config.Config
	logger  *zap.Logger
	db      *gorm.DB
	storage storage.Client
	service *ffl.Service
}

// bootstrap loads configuration, connects the database and storage, and wires the service.
func bootstrap() (*runtime, error) {
	cfg, err := config.LoadConfig(".")
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	l, err := logger.New(&cfg.Log)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	db, err := database.Connect(cfg.Database)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	if err := store.Migrate(db); err != nil {
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	client, err := storage.NewClient(cfg.Storage)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to storage: %w", err)
	}

	svc := ffl.Wire(db, ffl.Options{
		Sync:      cfg.Sync,
		Search:    cfg.Search,
		Directory: cfg.Directory,
		Storage:   client,
		Bucket:    cfg.Storage.Bucket,
	}, l)

	return &runtime{cfg: cfg, logger: l, db: db, storage: client, service: svc}, nil
}

// printJSON writes v to stdout as indented JSON.
func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

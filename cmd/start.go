package cmd

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"ffl-directory/core/loader"
	"ffl-directory/core/logger"
	"ffl-directory/core/middleware/auth"
	"ffl-directory/core/middleware/rayid"
	"ffl-directory/core/storage"
	"ffl-directory/feature/ffl"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/swagger"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// @title FFL Directory API
// @version 1.0
// @description API for syncing and searching the FFL directory.
// @host localhost:8080
// @BasePath /

// startCmd represents the start command
var startCmd = &cobra.Command{
	Use:   "start",
	Short: "Start the directory server",
	Long:  `Starts the HTTP server and initializes all enabled features.`,
	Run: func(cmd *cobra.Command, args []string) {
		rt, err := bootstrap()
		if err != nil {
			log.Fatalf("Failed to start: %v", err)
		}
		cfg, logg := rt.cfg, rt.logger
		defer logg.Sync()
		zap.ReplaceGlobals(logg)

		if cfg.Sync.AuditToStorage {
			ctx, cancel := context.WithTimeout(context.Background(), time.Duration(max(cfg.Storage.TimeoutSeconds, 1))*time.Second)
			err := storage.EnsureBucket(ctx, rt.storage, cfg.Storage.Bucket)
			cancel()
			if err != nil {
				logg.Fatal("Failed to prepare audit bucket", zap.Error(err))
			}
		}

		// Multipart overhead on top of the largest accepted file
		app := fiber.New(fiber.Config{
			DisableStartupMessage: true,
			BodyLimit:             int(cfg.Sync.MaxUploadBytes) + 1<<20,
			ReadTimeout:           time.Duration(cfg.Server.ReadTimeoutSeconds) * time.Second,
		})

		mgr := loader.NewManager()
		mgr.Register(ffl.NewFeature(rt.service, cfg.Sync, logg))

		// RayID must be first to trace everything
		app.Use(rayid.New())

		app.Use(func(c *fiber.Ctx) error {
			l := logger.WithRayID(logg, c)
			l.Info("Request started",
				zap.String("method", c.Method()),
				zap.String("path", c.Path()),
				zap.String("ip", c.IP()),
			)
			err := c.Next()
			if err != nil {
				l.Error("Request error", zap.Error(err))
			}
			return err
		})

		app.Get("/swagger/*", swagger.HandlerDefault)

		app.Use(auth.New(auth.Config{ApiKey: cfg.Server.ApiKey}))

		if err := mgr.LoadAll(app); err != nil {
			logg.Fatal("Failed to load features", zap.Error(err))
		}

		go func() {
			logg.Info("Starting server",
				zap.String("port", cfg.Server.Port),
				zap.Strings("features", mgr.Names()),
			)
			if err := app.Listen(cfg.Server.Address()); err != nil {
				logg.Fatal("Server failed to start", zap.Error(err))
			}
		}()

		c := make(chan os.Signal, 1)
		signal.Notify(c, os.Interrupt, syscall.SIGTERM)
		<-c
		logg.Info("Shutting down server...")
		_ = app.Shutdown()
	},
}

func init() {
	RootCmd.AddCommand(startCmd)
}

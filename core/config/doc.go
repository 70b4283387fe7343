// Package config provides configuration management for the FFL directory service.
//
// It uses Viper for loading configuration from environment variables and an optional
// .env file (via godotenv). Defaults come from the `default` struct tags of each
// section and are validated with ozzo-validation after loading.
//
// # Configuration Structure
//
//   - Server: HTTP port, API key, read timeout
//   - Database: MySQL or SQLite connection details
//   - Storage: S3/MinIO credentials and bucket settings
//   - Log: logging level and format
//   - Directory: external directory API used as search fallback
//   - Sync: upload size bound and audit settings
//   - Search: default and maximum result counts
//
// # Usage
//
//	cfg, err := config.LoadConfig(".")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(cfg.Server.Port)
package config
